package api

import (
	"context"
	"net/http"
	"time"

	"github.com/dgallion1/docsearch/internal/docstore"
	"github.com/dgallion1/docsearch/internal/doctree"
	"github.com/dgallion1/docsearch/internal/search"
	"golang.org/x/sync/errgroup"
)

type searchRequest struct {
	Query   string         `json:"query"`
	Options search.Options `json:"options"`
	DocIDs  []string       `json:"doc_ids,omitempty"`
}

// documentMatches is the result of one query against one document.
type documentMatches struct {
	DocID    string          `json:"doc_id"`
	Filename string          `json:"filename"`
	Title    string          `json:"title"`
	Total    int             `json:"total"`
	Matches  []doctree.Match `json:"matches"`
}

func (s *Server) handleSearchDocument(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeJSON(w, r, 1<<20, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	doc, ok := s.lookup(w, r)
	if !ok {
		return
	}

	start := time.Now()
	res := s.searchDocument(doc, req.Query, req.Options)
	s.stats.Record("document", time.Since(start), res.Total)

	writeJSON(w, http.StatusOK, res)
}

// handleSearchAll runs one query across the requested documents, or every
// stored document, and returns per-document results in filename order.
func (s *Server) handleSearchAll(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeJSON(w, r, 1<<20, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	docs, err := s.store.Select(req.DocIDs)
	if err != nil {
		s.storeError(w, err)
		return
	}

	start := time.Now()
	results, err := s.searchAll(r.Context(), docs, req.Query, req.Options)
	if err != nil {
		jsonError(w, "search canceled", http.StatusServiceUnavailable)
		return
	}

	total := 0
	matched := make([]documentMatches, 0, len(results))
	for _, res := range results {
		if res.Total == 0 {
			continue
		}
		total += res.Total
		matched = append(matched, res)
	}
	elapsed := time.Since(start)
	s.stats.Record("multi", elapsed, total)

	writeJSON(w, http.StatusOK, map[string]any{
		"query":     req.Query,
		"total":     total,
		"documents": matched,
		"stats": map[string]any{
			"documents_searched": len(docs),
			"documents_matched":  len(matched),
			"time_taken_ms":      elapsed.Milliseconds(),
		},
	})
}

// searchAll fans the query out over docs with bounded concurrency. Results
// keep the order of docs.
func (s *Server) searchAll(ctx context.Context, docs []*docstore.Document, query string, opts search.Options) ([]documentMatches, error) {
	results := make([]documentMatches, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.cfg.SearchConcurrency, 1))
	for i, doc := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = s.searchDocument(doc, query, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Server) searchDocument(doc *docstore.Document, query string, opts search.Options) documentMatches {
	matches := s.engine.Search(doc.Layout, query, opts)
	return documentMatches{
		DocID:    doc.ID,
		Filename: doc.Filename,
		Title:    doc.Layout.Title,
		Total:    len(matches),
		Matches:  matches,
	}
}
