package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/liftlog/internal/analytics"
	"github.com/claude/liftlog/internal/catalog"
	"github.com/claude/liftlog/internal/ingest/alpha"
	liftmcp "github.com/claude/liftlog/internal/mcp"
	"github.com/claude/liftlog/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	repo      storage.Repository
	alpha     *alpha.Provider
	engine    *analytics.Engine
	catalog   *catalog.Catalog
	metrics   *Metrics
	tailscale whoIser
	log       *slog.Logger
	apiKey    string
	router    chi.Router
}

// New creates a new Server with all routes configured.
func New(repo storage.Repository, alphaProvider *alpha.Provider, cat *catalog.Catalog, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		repo:    repo,
		alpha:   alphaProvider,
		engine:  analytics.NewEngine(),
		catalog: cat,
		metrics: NewMetrics(),
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetTailscale switches request identity from the dev user to tailnet WhoIs
// lookups.
func (s *Server) SetTailscale(lc whoIser) {
	s.tailscale = lc
}

// SetMCP mounts an MCP transport at /mcp. Tool calls run as the request's user.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Handle("/mcp", s.identity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := liftmcp.WithUserID(r.Context(), userIDFromContext(r))
		h.ServeHTTP(w, r.WithContext(ctx))
	})))
}

// identity picks the identity middleware at request time so SetTailscale can
// be called after New.
func (s *Server) identity(next http.Handler) http.Handler {
	dev := DevIdentity(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.tailscale == nil {
			dev.ServeHTTP(w, r)
			return
		}
		TailscaleIdentity(s.tailscale, s.repo, s.log)(next).ServeHTTP(w, r)
	})
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(s.metrics.Middleware)

	s.router.Handle("/metrics", s.metrics.Handler())

	s.router.Group(func(r chi.Router) {
		r.Use(s.identity)
		auth := APIKeyAuth(s.apiKey)

		r.With(auth).Post("/api/v1/ingest/alpha", s.handleAlphaIngest)

		r.Get("/api/v1/sessions", s.handleListSessions)
		r.With(auth).Post("/api/v1/sessions", s.handleUpsertSession)
		r.Get("/api/v1/sessions/{id}", s.handleGetSession)
		r.With(auth).Delete("/api/v1/sessions/{id}", s.handleDeleteSession)

		r.Get("/api/v1/templates", s.handleListTemplates)
		r.With(auth).Post("/api/v1/templates", s.handleCreateTemplate)
		r.With(auth).Post("/api/v1/templates/import", s.handleImportTemplate)
		r.Get("/api/v1/templates/{id}", s.handleGetTemplate)
		r.With(auth).Delete("/api/v1/templates/{id}", s.handleDeleteTemplate)
		r.Get("/api/v1/templates/{id}/share", s.handleShareTemplate)
		r.With(auth).Post("/api/v1/templates/{id}/start", s.handleStartTemplate)

		r.Route("/api/v1/analytics", func(r chi.Router) {
			r.Get("/fatigue", s.handleFatigue)
			r.Get("/volume-trend", s.handleVolumeTrend)
			r.Get("/deload", s.handleDeload)
			r.Get("/records", s.handleRecords)
			r.Get("/plateau", s.handlePlateau)
			r.Get("/one-rep-max", s.handleOneRepMax)
			r.Get("/strength", s.handleStrength)
			r.Get("/categories", s.handleCategories)
		})

		r.Get("/api/v1/exercises", s.handleExercises)
		r.Get("/api/v1/stats", s.handleStats)
		r.Get("/api/v1/me", s.handleMe)
	})
}
