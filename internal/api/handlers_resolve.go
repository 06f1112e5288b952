package api

import (
	"net/http"
	"time"

	"github.com/dgallion1/docsearch/internal/doctree"
	"github.com/dgallion1/docsearch/internal/search"
)

// resolveFile is client-held text with a page table computed elsewhere.
type resolveFile struct {
	Name    string              `json:"name"`
	Content string              `json:"content"`
	Pages   []doctree.PageChunk `json:"pages,omitempty"`
}

type resolveRequest struct {
	Query         string        `json:"query"`
	CaseSensitive bool          `json:"case_sensitive"`
	Files         []resolveFile `json:"files"`
}

type resolveResult struct {
	File        string      `json:"file"`
	MatchedText string      `json:"matched_text"`
	Offset      int         `json:"offset"`
	LineNumber  int         `json:"line_number"`
	PageNumber  int         `json:"page_number"`
	Tier        search.Tier `json:"tier"`
	Snippet     string      `json:"snippet"`
}

// handleResolve finds the first occurrence of the query in each supplied
// file and attributes it to a page of that file's own page table.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := decodeJSON(w, r, s.cfg.MaxUploadBytes, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	results := make([]resolveResult, 0, len(req.Files))
	for _, f := range req.Files {
		loc, found := search.FindAndResolve(f.Content, req.Query, req.CaseSensitive, f.Pages, s.cfg.ContextWindow)
		if !found {
			continue
		}
		results = append(results, resolveResult{
			File:        f.Name,
			MatchedText: f.Content[loc.Offset:loc.End],
			Offset:      loc.Offset,
			LineNumber:  loc.LineNumber,
			PageNumber:  loc.Resolution.PageNumber,
			Tier:        loc.Resolution.Tier,
			Snippet:     loc.Resolution.Snippet,
		})
	}
	elapsed := time.Since(start)
	s.stats.Record("resolve", elapsed, len(results))

	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
		"stats": map[string]any{
			"files_scanned": len(req.Files),
			"files_matched": len(results),
			"time_taken_ms": elapsed.Milliseconds(),
		},
	})
}
