// Package api exposes the HTTP interface for the FitFindr service.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fitfindr/fitfindr-server/internal/activity"
	"github.com/fitfindr/fitfindr-server/internal/analyzer"
	"github.com/fitfindr/fitfindr-server/internal/archive"
	"github.com/fitfindr/fitfindr-server/internal/config"
	"github.com/fitfindr/fitfindr-server/internal/feedback"
	"github.com/fitfindr/fitfindr-server/internal/metrics"
	"github.com/fitfindr/fitfindr-server/internal/pinterest"
	"github.com/fitfindr/fitfindr-server/internal/storage"
)

// IDGenerator produces user IDs.
type IDGenerator interface {
	NewID() (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// Server wires HTTP handlers to the ingestion pipeline and stores.
type Server struct {
	router    chi.Router
	cfg       config.Config
	logger    *zap.Logger
	store     storage.Store
	pipeline  *pinterest.Pipeline
	feedback  *feedback.Service
	explainer analyzer.Explainer
	archiver  archive.BlobStore
	ids       IDGenerator
	clock     Clock
	emitter   activity.Emitter
}

// Deps bundles the collaborators the Server needs.
type Deps struct {
	Store     storage.Store
	Pipeline  *pinterest.Pipeline
	Feedback  *feedback.Service
	Explainer analyzer.Explainer
	Archiver  archive.BlobStore
	IDs       IDGenerator
	Clock     Clock
	Emitter   activity.Emitter
	Logger    *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(cfg config.Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	emitter := deps.Emitter
	if emitter == nil {
		emitter = noopEmitter{}
	}
	s := &Server{
		cfg:       cfg,
		logger:    logger,
		store:     deps.Store,
		pipeline:  deps.Pipeline,
		feedback:  deps.Feedback,
		explainer: deps.Explainer,
		archiver:  deps.Archiver,
		ids:       deps.IDs,
		clock:     deps.Clock,
		emitter:   emitter,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(timeoutMiddleware(cfg.RequestTimeout()))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-API-Key", "X-Request-ID"},
		AllowCredentials: true,
	}))
	r.Use(metrics.Middleware)
	if cfg.RateLimit.Enabled {
		r.Use(newRateLimiter(cfg.RateLimit).middleware)
	}
	if cfg.Auth.Enabled {
		r.Use(apiKeyMiddleware(cfg.Auth.APIKey))
	}

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/scrape", s.scrape)
		r.Post("/query", s.query)
		r.Post("/recommend", s.recommend)
		r.Post("/feedback", s.recordFeedback)
		r.Post("/analyze", s.analyze)
		r.Get("/trending", s.trending)
		r.Get("/styles", s.styles)
		r.Get("/analytics", s.analytics)
		r.Route("/users/{user_id}", func(r chi.Router) {
			r.Get("/feedback", s.userFeedback)
		})
	})

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.ListItems(r.Context()); err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "storage not ready")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		s.logger.Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", zap.Any("error", rec))
				s.writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func timeoutMiddleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, "request timed out")
	}
}

func apiKeyMiddleware(expected string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			if key == "" {
				key = r.URL.Query().Get("api_key")
			}
			if key != expected {
				writeJSONStatus(w, http.StatusForbidden, map[string]string{"error": "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type requestIDKey struct{}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("write JSON failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSONStatus(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type noopEmitter struct{}

func (noopEmitter) Emit(activity.Event) {}
