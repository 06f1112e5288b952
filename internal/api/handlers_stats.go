package api

import "net/http"

func (s *Server) handleSearchStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"documents": s.store.Len(),
		"stats":     s.stats.Snapshot(),
	})
}
