package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/docsearch/internal/config"
	"github.com/dgallion1/docsearch/internal/docstore"
	"github.com/dgallion1/docsearch/internal/metrics"
	"github.com/dgallion1/docsearch/internal/pipeline"
	"github.com/dgallion1/docsearch/internal/search"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

// Server is the HTTP API server for docsearch.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	store        *docstore.Store
	engine       *search.Engine
	stats        *metrics.SearchStats
	limiter      *rate.Limiter
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, engine *search.Engine, stats *metrics.SearchStats, log *slog.Logger, cfg config.Config) *Server {
	limit := rate.Limit(cfg.SearchRateLimit)
	if cfg.SearchRateLimit <= 0 {
		limit = rate.Inf
	}
	s := &Server{
		orchestrator: orch,
		store:        orch.Store(),
		engine:       engine,
		stats:        stats,
		limiter:      rate.NewLimiter(limit, max(cfg.SearchRateBurst, 1)),
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/documents", s.handleUpload)
		r.Post("/api/documents/batch", s.handleBatchUpload)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)

		r.Get("/api/documents", s.handleListDocuments)
		r.Get("/api/documents/{docID}", s.handleGetDocument)
		r.Get("/api/documents/{docID}/pages/{page}", s.handleGetPage)
		r.Delete("/api/documents/{docID}", s.handleDeleteDocument)

		r.Get("/api/stats/search", s.handleSearchStats)

		r.Group(func(r chi.Router) {
			r.Use(RateLimit(s.limiter))

			r.Post("/api/documents/{docID}/search", s.handleSearchDocument)
			r.Post("/api/search", s.handleSearchAll)
			r.Post("/api/resolve", s.handleResolve)
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"documents":   s.store.Len(),
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}
