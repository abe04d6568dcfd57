// Package server exposes the query engine over HTTP for the map frontend.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/shfb-analytics/accessmap/internal/query"
)

// Server wires the query engine into a chi router.
type Server struct {
	engine  *query.Engine
	opts    query.Options
	limiter *rate.Limiter
}

// New creates a Server. limit/burst of zero disables rate limiting.
func New(engine *query.Engine, opts query.Options, limit float64, burst int) *Server {
	var limiter *rate.Limiter
	if limit > 0 && burst > 0 {
		limiter = rate.NewLimiter(rate.Limit(limit), burst)
	}
	return &Server{engine: engine, opts: opts, limiter: limiter}
}

// Handler builds the HTTP routing table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	if s.limiter != nil {
		r.Use(s.rateLimit)
	}

	r.Get("/health", s.handleHealth)
	r.Get("/api/options", s.handleOptions)
	r.Get("/api/query", s.handleQuery)
	r.Get("/api/resolve", s.handleResolve)

	return r
}

// requestID tags every request with a correlation id for log stitching.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			zap.L().Warn("server: rate limited", zap.String("path", r.URL.Path))
			http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
