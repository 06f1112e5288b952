package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dgallion1/docsearch/internal/docstore"
	"github.com/dgallion1/docsearch/internal/doctree"
	"github.com/go-chi/chi/v5"
)

// pageIndex is a page without its content.
type pageIndex struct {
	PageNumber int      `json:"page_number"`
	StartIndex int      `json:"start_index"`
	EndIndex   int      `json:"end_index"`
	LineCount  int      `json:"line_count"`
	Sections   []string `json:"sections"`
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"documents": s.store.List()})
}

// handleGetDocument returns the layout summary, outline, and page index.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookup(w, r)
	if !ok {
		return
	}

	pages := make([]pageIndex, 0, len(doc.Layout.Pages))
	for _, p := range doc.Layout.Pages {
		titles := make([]string, 0, len(p.Sections))
		for _, sec := range p.Sections {
			titles = append(titles, sec.Title)
		}
		pages = append(pages, pageIndex{
			PageNumber: p.PageNumber,
			StartIndex: p.StartIndex,
			EndIndex:   p.EndIndex,
			LineCount:  p.LineCount,
			Sections:   titles,
		})
	}

	sections := doc.Layout.Sections
	if sections == nil {
		sections = []doctree.Section{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"document": doc.Summary(),
		"sections": sections,
		"pages":    pages,
	})
}

func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil {
		jsonError(w, "page must be a number", http.StatusBadRequest)
		return
	}
	doc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	page, ok := doc.Layout.Page(n)
	if !ok {
		jsonError(w, "page out of range", http.StatusNotFound)
		return
	}
	if page.Sections == nil {
		page.Sections = []doctree.Section{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"doc_id":      doc.ID,
		"total_pages": doc.Layout.TotalPages,
		"page":        page,
	})
}

// handleDeleteDocument discards a stored layout.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if err := s.store.Delete(docID); err != nil {
		s.storeError(w, err)
		return
	}
	s.log.Info("document deleted", "doc_id", docID)
	writeJSON(w, http.StatusOK, map[string]any{"doc_id": docID, "deleted": true})
}

// lookup resolves the docID URL parameter, writing the error response
// itself when the document is missing.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*docstore.Document, bool) {
	doc, err := s.store.Get(chi.URLParam(r, "docID"))
	if err != nil {
		s.storeError(w, err)
		return nil, false
	}
	return doc, true
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, docstore.ErrNotFound) {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	s.log.Error("document store", "error", err)
	jsonError(w, "internal error", http.StatusInternalServerError)
}
