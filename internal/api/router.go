package api

import (
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/sungwon/contact-relay/internal/contact"
	"github.com/sungwon/contact-relay/internal/ratelimit"
)

// RouterConfig carries the dependencies for route construction.
type RouterConfig struct {
	Service        *contact.Service
	Limiter        *ratelimit.Limiter
	Log            zerolog.Logger
	AllowedOrigins []string
	Environment    string
	StartTime      time.Time
}

// NewRouter creates a chi.Mux with all routes, middleware, and handlers
// configured. Rate limiting applies only to the submission route; health and
// metrics stay reachable regardless of client budgets.
func NewRouter(cfg RouterConfig) *chi.Mux {
	development := strings.EqualFold(cfg.Environment, "development")

	r := chi.NewRouter()

	// Global middleware
	r.Use(CorrelationIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Log))
	r.Use(RecoverMiddleware(cfg.Log, development))
	r.Use(SecurityHeadersMiddleware)
	r.Use(CORSMiddleware(cfg.AllowedOrigins))

	r.Get("/healthz", HealthzHandler(cfg.StartTime, cfg.Environment))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(ratelimit.Middleware(cfg.Limiter, cfg.Log))
		r.Post("/contact", ContactHandler(cfg.Service, development))
	})

	return r
}
