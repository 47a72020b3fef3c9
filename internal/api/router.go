// Package api exposes the bill engine over a JSON HTTP API.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/peytondoyle/tabby/internal/auth"
	"github.com/peytondoyle/tabby/internal/metrics"
	"github.com/peytondoyle/tabby/internal/middleware"
)

// RouterConfig carries everything the router needs.
type RouterConfig struct {
	Handler            *Handler
	Tokens             *auth.JWTManager
	Metrics            *metrics.Metrics // nil disables /metrics and instrumentation
	CORSAllowedOrigins []string
}

// NewRouter assembles the chi router with middleware and all routes.
func NewRouter(cfg RouterConfig) *chi.Mux {
	h := cfg.Handler

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if cfg.Metrics != nil {
		r.Use(middleware.Instrument(cfg.Metrics))
	}
	r.Use(middleware.RequestLogger)

	origins := cfg.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", h.Healthz)
	if cfg.Metrics != nil {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api/v1", func(v chi.Router) {
		// Stateless computation needs no account.
		v.Post("/compute", h.Compute)

		v.Route("/auth", func(a chi.Router) {
			a.Post("/register", h.Register)
			a.Post("/login", h.Login)
		})

		v.Group(func(protected chi.Router) {
			protected.Use(middleware.RequireAuth(cfg.Tokens))
			protected.Post("/bills", h.CreateBill)
			protected.Get("/bills", h.ListBills)
			protected.Route("/bills/{billID}", func(b chi.Router) {
				b.Get("/", h.GetBill)
				b.Put("/", h.UpdateBill)
				b.Delete("/", h.DeleteBill)
				b.Get("/totals", h.GetTotals)
				b.Get("/totals/{personID}", h.GetPersonTotal)
				b.Put("/people/{personID}/items", h.AssignItems)
			})
		})
	})

	return r
}
