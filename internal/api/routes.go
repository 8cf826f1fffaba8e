package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ignite/audience-subscribe/internal/domain"
)

// RouteOptions carries the pieces of the router that vary by deployment.
type RouteOptions struct {
	// AllowedOrigins lists the sites whose forms may post here. Empty
	// allows any origin.
	AllowedOrigins []string
	// Gatherer backs /metrics. Nil leaves the route unregistered.
	Gatherer prometheus.Gatherer
	Health   *HealthChecker
	// TrustProxy takes the client address from X-Forwarded-For or
	// X-Real-IP. Off, rate limits key on the connection's RemoteAddr.
	TrustProxy bool
}

// SetupRoutes configures all routes.
func SetupRoutes(h *Handlers, opts RouteOptions) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if opts.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.RequestID)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Requested-With"},
		MaxAge:         300,
	}))

	health := opts.Health
	if health == nil {
		health = NewHealthChecker(nil, nil)
	}
	r.Get("/health", health.HandleHealth)
	r.Get("/health/live", health.HandleLiveness)

	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/audience", func(r chi.Router) {
		audienceRoutes(r, h)
	})
	r.Route("/list", func(r chi.Router) {
		r.Use(h.LegacyList)
		audienceRoutes(r, h)
	})

	return r
}

func audienceRoutes(r chi.Router, h *Handlers) {
	limited := func(action domain.Action, fn http.HandlerFunc) http.Handler {
		return h.RateLimit(action)(fn)
	}

	r.Method(http.MethodPost, "/subscribe", limited(domain.ActionSubscribe, h.Subscribe))
	r.Method(http.MethodPost, "/unsubscribe", limited(domain.ActionUnsubscribe, h.Unsubscribe))
	r.Method(http.MethodPost, "/delete", limited(domain.ActionDelete, h.Delete))
	r.Method(http.MethodPost, "/check-if-subscribed", limited(domain.ActionCheckIfSubscribed, h.CheckIfSubscribed))
	r.Method(http.MethodPost, "/check-if-in-list", limited(domain.ActionCheckIfInList, h.CheckIfInList))

	r.Post("/get-member-by-email", h.GetMemberByEmail)
	r.Post("/get-audience-by-id", h.GetAudienceByID)
	r.Get("/interest-groups", h.GetInterestGroups)
	r.Get("/member-tags", h.GetMemberTags)
	r.Get("/marketing-permissions", h.GetMarketingPermissions)
}
