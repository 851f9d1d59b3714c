// Package router assembles the chi route tree and middleware chain.
package router

import (
	"context"
	"net/http"
	"time"

	"dry-cleaner/internal/handler"
	"dry-cleaner/internal/metrics"
	"dry-cleaner/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const healthTimeout = 2 * time.Second

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Orders    *handler.OrderHandler
	Reports   *handler.ReportHandler
	Catalogue *handler.CatalogueHandler
}

// Options configures the middleware chain. A nil DB reports healthy without
// pinging; a nil Limiter disables rate limiting.
type Options struct {
	APIKey  string
	DB      Pinger
	Metrics *metrics.Metrics
	Limiter *middleware.RateLimiter
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Recovery -> Logging -> CORS -> RateLimit -> APIKeyAuth
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger, opts.Metrics))
	r.Use(middleware.CORS)
	if opts.Limiter != nil {
		r.Use(opts.Limiter.Middleware)
	}
	r.Use(middleware.APIKeyAuth(opts.APIKey, logger))

	r.Get("/health", health(opts.DB, logger))
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalogue", h.Catalogue.List)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.Orders.List)
			r.Post("/", h.Orders.Create)
			r.Get("/search", h.Orders.Search)
			r.Get("/stats", h.Orders.Stats)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Orders.GetByID)
				r.Put("/", h.Orders.Update)
				r.Delete("/", h.Orders.Delete)
				r.Post("/advance", h.Orders.Advance)
				r.Post("/mark-paid", h.Orders.MarkPaid)
			})
		})

		r.Get("/reports", h.Reports.Generate)
		r.Get("/reports/export", h.Reports.Export)
	})

	return r
}

func health(db Pinger, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				logger.Error().Err(err).Msg("health check failed")
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status": "unhealthy"}`))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status": "healthy"}`))
	}
}
