// Package api exposes the dashboard over HTTP for the browser frontend.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/leadspark/upwork-radar/internal/offering"
	"github.com/leadspark/upwork-radar/internal/tracker"
)

const requestTimeout = 60 * time.Second

// Server is the HTTP API over the tracker state.
type Server struct {
	logger   *zap.Logger
	router   *chi.Mux
	tracker  *tracker.Tracker
	registry *offering.Registry
}

func NewServer(log *zap.Logger, trk *tracker.Tracker, registry *offering.Registry) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		logger:   log,
		tracker:  trk,
		registry: registry,
	}
	s.setupRouter()
	return s
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Post("/refresh", s.handleRefresh)
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/skills-gap", s.handleSkillsGap)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", s.handleListProjects)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetProject)
				r.Post("/saved", s.handleToggleSaved)
				r.Post("/applied", s.handleToggleApplied)
				r.Get("/notes", s.handleGetNote)
				r.Put("/notes", s.handlePutNote)
				r.Get("/proposal", s.handleGetProposal)
				r.Post("/proposal", s.handleGenerateProposal)
			})
		})

		r.Route("/offerings", func(r chi.Router) {
			r.Get("/", s.handleListOfferings)
			r.Post("/", s.handleCreateOffering)
			r.Put("/{name}", s.handleUpdateOffering)
			r.Delete("/{name}", s.handleDeleteOffering)
		})

		r.Get("/template", s.handleGetTemplate)
		r.Put("/template", s.handlePutTemplate)
		r.Get("/profile", s.handleGetProfile)
		r.Put("/profile", s.handlePutProfile)
	})

	s.router = r
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
