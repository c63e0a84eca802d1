package router

import (
	"net/http"
	"time"

	"code-redeem/internal/handler"
	"code-redeem/internal/metrics"
	"code-redeem/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Redemption *handler.RedemptionHandler
	Admin      *handler.AdminHandler
	Health     *handler.HealthHandler
}

// Options configures cross-cutting behaviour of the router.
type Options struct {
	// APIKey protects the admin routes and /rewrite_db. Empty disables the check.
	APIKey string

	// Limiter rate limits the redemption routes. Nil disables rate limiting.
	Limiter middleware.Limiter

	// RateLimitWindow is advertised in Retry-After when a request is limited.
	RateLimitWindow time.Duration
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(metrics.Middleware)
	r.Use(middleware.CORS())

	r.Get("/", handler.Root)
	r.Get("/hello/{name}", handler.Hello)
	r.Get("/health", h.Health.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if opts.Limiter != nil {
			r.Use(middleware.RateLimit(opts.Limiter, opts.RateLimitWindow, logger))
		}
		r.Get("/code-single/{code}", h.Redemption.SingleUse)
		r.Get("/code-multi/{code}/{userId}", h.Redemption.Timed)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(opts.APIKey, logger))
		r.Get("/rewrite_db", h.Admin.Rewrite)
		r.Route("/admin", func(r chi.Router) {
			r.Post("/single-codes", h.Admin.AddSingleUse)
			r.Post("/timed-codes", h.Admin.ActivateTimed)
			r.Get("/stats", h.Admin.Stats)
		})
	})

	return r
}
