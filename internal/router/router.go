// Package router wires the HTTP handlers, middleware and metrics endpoint.
package router

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/ukydev/yatra-planner/internal/auth"
	"github.com/ukydev/yatra-planner/internal/catalog"
	"github.com/ukydev/yatra-planner/internal/db"
	"github.com/ukydev/yatra-planner/internal/handlers"
	"github.com/ukydev/yatra-planner/internal/metrics"
	"github.com/ukydev/yatra-planner/internal/middleware"
	"github.com/ukydev/yatra-planner/internal/models"
	"github.com/ukydev/yatra-planner/internal/planner"
	"github.com/ukydev/yatra-planner/internal/quotes"
)

// Deps are the services the API is built from.
type Deps struct {
	Auth         *auth.Service
	Users        db.UserCollection
	Catalog      catalog.Provider
	CatalogAdmin db.DestinationCollection // nil makes admin writes return 501
	Sessions     *planner.Sessions
	Quotes       *quotes.Service
	Metrics      *metrics.Metrics
	Gatherer     prometheus.Gatherer // defaults to prometheus.DefaultGatherer
	RateLimiter  *middleware.RateLimiter
	CORSOrigins  []string
}

// New builds the API handler: CORS, then security headers, then the rate
// limiter, then the routes.
func New(d Deps) http.Handler {
	r := httprouter.New()
	logged := middleware.RequestLogger(d.Metrics)
	authMW := middleware.NewAuthMiddleware(d.Auth)

	authH := handlers.NewAuthHandler(d.Auth, d.Users)
	destH := handlers.NewDestinationHandler(d.Catalog, d.CatalogAdmin)
	planH := handlers.NewPlanHandler(d.Sessions, d.Catalog, d.Metrics)
	quoteH := handlers.NewQuoteHandler(d.Quotes, d.Sessions, d.Metrics)

	public := func(method, path string, h http.HandlerFunc) {
		r.Handler(method, path, logged(path, h))
	}
	withPermission := func(action string) func(method, path string, h http.HandlerFunc) {
		return func(method, path string, h http.HandlerFunc) {
			r.Handler(method, path, logged(path, authMW.Authenticate(authMW.RequirePermission(action)(h))))
		}
	}
	user := func(method, path string, h http.HandlerFunc) {
		r.Handler(method, path, logged(path, authMW.Authenticate(h)))
	}
	admin := func(method, path string, h http.HandlerFunc) {
		r.Handler(method, path, logged(path, authMW.Authenticate(authMW.RequireRole(models.RoleAdmin)(h))))
	}
	planning := withPermission("plan_yatra")
	quoting := withPermission("submit_quote")
	desk := withPermission("manage_quotes")

	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handler(http.MethodGet, "/health", http.HandlerFunc(health))
	r.Handler(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	public(http.MethodPost, "/api/auth/login", authH.Login)
	public(http.MethodPost, "/api/auth/register", authH.Register)
	user(http.MethodGet, "/api/auth/profile", authH.GetProfile)
	user(http.MethodPut, "/api/auth/profile", authH.UpdateProfile)
	user(http.MethodPost, "/api/auth/change-password", authH.ChangePassword)

	public(http.MethodGet, "/api/destinations", destH.List)
	public(http.MethodGet, "/api/destinations/search", destH.Search)
	public(http.MethodGet, "/api/destinations/nearby", destH.Nearby)
	public(http.MethodGet, "/api/destination/:id", destH.Get)

	planning(http.MethodGet, "/api/plan", planH.Get)
	planning(http.MethodDelete, "/api/plan", planH.Clear)
	planning(http.MethodPost, "/api/plan/toggle", planH.Toggle)
	planning(http.MethodPatch, "/api/plan/items/:id", planH.UpdateItem)
	planning(http.MethodDelete, "/api/plan/items/:id", planH.RemoveItem)
	planning(http.MethodGet, "/api/plan/itinerary", planH.Itinerary)
	planning(http.MethodGet, "/api/plan/itinerary.pdf", planH.ItineraryPDF)
	planning(http.MethodGet, "/api/plan/settings", planH.GetSettings)
	planning(http.MethodPut, "/api/plan/settings", planH.UpdateSettings)
	planning(http.MethodPost, "/api/plan/family", planH.AddFamilyMember)
	planning(http.MethodDelete, "/api/plan/family/:id", planH.RemoveFamilyMember)
	planning(http.MethodGet, "/api/plan/budget", planH.Budget)
	planning(http.MethodPost, "/api/plan/estimate", planH.Estimate)

	quoting(http.MethodPost, "/api/quotes", quoteH.Submit)
	quoting(http.MethodGet, "/api/quotes", quoteH.List)
	user(http.MethodGet, "/api/quote/:id", quoteH.Get)

	desk(http.MethodGet, "/api/desk/quotes", quoteH.Queue)
	desk(http.MethodPatch, "/api/quote/:id/status", quoteH.UpdateStatus)

	admin(http.MethodPost, "/api/admin/destinations", destH.Create)
	admin(http.MethodPut, "/api/admin/destinations/:id", destH.Update)
	admin(http.MethodDelete, "/api/admin/destinations/:id", destH.Delete)

	var handler http.Handler = r
	if d.RateLimiter != nil {
		handler = d.RateLimiter.Limit(handler)
	}
	handler = securityHeaders(handler)

	return cors.New(corsOptions(d.CORSOrigins)).Handler(handler)
}

// corsOptions allows credentials only for an explicit origin list. With no
// origins, or a wildcard, any origin may call the API without credentials.
func corsOptions(origins []string) cors.Options {
	opts := cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "Accept-Language"},
	}
	wildcard := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			wildcard = true
		}
	}
	if wildcard {
		opts.AllowedOrigins = []string{"*"}
		return opts
	}
	opts.AllowCredentials = true
	return opts
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// securityHeaders applies the recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
