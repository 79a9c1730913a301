package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cfraser/pageforge/internal/assets"
	"github.com/cfraser/pageforge/internal/config"
	"github.com/cfraser/pageforge/internal/editor"
	"github.com/cfraser/pageforge/internal/export"
)

// Server is the HTTP event-handling layer in front of the editor engine.
// Every editing gesture of the front-end maps onto one endpoint.
type Server struct {
	router   chi.Router
	session  *editor.Session
	store    *assets.Store
	resolver *assets.Resolver
	orch     *export.Orchestrator
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(session *editor.Session, store *assets.Store, resolver *assets.Resolver, orch *export.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		session:  session,
		store:    store,
		resolver: resolver,
		orch:     orch,
		log:      log,
		cfg:      cfg,
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

	r.Group(func(r chi.Router) {
		// Auth is optional for a single-user local service.
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Get("/api/document", s.handleGetDocument)
		r.Put("/api/document/spacing", s.handleSetSpacing)
		r.Get("/api/document/stats", s.handleDocumentStats)

		r.Post("/api/blocks", s.handleCreateBlock)
		r.Patch("/api/blocks/{blockID}", s.handleUpdateBlock)
		r.Delete("/api/blocks/{blockID}", s.handleDeleteBlock)
		r.Post("/api/blocks/{blockID}/focus", s.handleFocus)
		r.Post("/api/blocks/{blockID}/blur", s.handleBlur)
		r.Post("/api/blocks/{blockID}/crop", s.handleCrop)

		r.Post("/api/drag", s.handleDragStart)
		r.Get("/api/drag/intent", s.handleDragIntent)
		r.Post("/api/drag/drop", s.handleDrop)
		r.Post("/api/drag/cancel", s.handleDragCancel)

		r.Post("/api/images", s.handleUploadImages)

		r.Get("/api/project", s.handleSaveProject)
		r.Post("/api/project", s.handleLoadProject)
		r.Post("/api/import", s.handleImport)

		r.Post("/api/export", s.handleExport)
		r.Get("/api/export/{jobID}/status", s.handleExportStatus)
		r.Get("/api/export/{jobID}/download", s.handleExportDownload)
		r.Get("/api/stats/exports", s.handleExportStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
