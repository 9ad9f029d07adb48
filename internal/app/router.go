package app

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/heartmarshall/scholarship-backend/internal/config"
	"github.com/heartmarshall/scholarship-backend/internal/metrics"
	"github.com/heartmarshall/scholarship-backend/internal/transport/middleware"
	"github.com/heartmarshall/scholarship-backend/internal/transport/rest"
	"github.com/heartmarshall/scholarship-backend/internal/transport/web"
)

// routes bundles everything the HTTP router serves.
type routes struct {
	cfg      *config.Config
	web      *web.Handler
	api      *rest.ApplicationHandler
	health   *rest.HealthHandler
	registry *prometheus.Registry
	http     *metrics.HTTPMetrics
	limiter  *middleware.RateLimiter
}

// newRouter registers every route and wraps the mux in the middleware chain.
func newRouter(rt routes, mws ...middleware.Middleware) http.Handler {
	mux := http.NewServeMux()
	limit := rt.limiter.Limit(rt.cfg.RateLimit.SubmitPerMinute)

	// Pages.
	mux.HandleFunc("GET /", rt.web.Index)
	mux.HandleFunc("GET /apply", rt.web.ApplyForm)
	mux.Handle("POST /apply", limit(http.HandlerFunc(rt.web.Apply)))
	mux.HandleFunc("GET /status", rt.web.Status)
	mux.HandleFunc("GET /admin", rt.web.Admin)
	mux.HandleFunc("POST /admin/applications/{id}/approve", rt.web.Approve)
	mux.HandleFunc("POST /admin/applications/{id}/reject", rt.web.Reject)
	mux.HandleFunc("GET /admin/applications/{id}/delete", rt.web.Delete)
	mux.HandleFunc("POST /admin/applications/{id}/delete", rt.web.Delete)
	mux.HandleFunc("GET /admin/clear", rt.web.Clear)
	mux.HandleFunc("POST /admin/clear", rt.web.Clear)
	mux.HandleFunc("GET /admin/export.csv", rt.web.ExportCSV)
	mux.HandleFunc("GET /admin/export.xlsx", rt.web.ExportXLSX)

	// JSON API.
	mux.Handle("POST /api/v1/applications", limit(http.HandlerFunc(rt.api.Submit)))
	mux.HandleFunc("GET /api/v1/applications", rt.api.List)
	mux.HandleFunc("DELETE /api/v1/applications", rt.api.Clear)
	mux.HandleFunc("GET /api/v1/applications/status", rt.api.Status)
	mux.HandleFunc("GET /api/v1/applications/export", rt.api.Export)
	mux.HandleFunc("POST /api/v1/applications/{id}/approve", rt.api.Approve)
	mux.HandleFunc("POST /api/v1/applications/{id}/reject", rt.api.Reject)
	mux.HandleFunc("DELETE /api/v1/applications/{id}", rt.api.Delete)

	// Health checks.
	mux.HandleFunc("GET /live", rt.health.Live)
	mux.HandleFunc("GET /ready", rt.health.Ready)
	mux.HandleFunc("GET /health", rt.health.Health)

	// Metrics sits innermost so it sees the pattern the mux matched.
	var observe middleware.Middleware
	if !rt.cfg.Metrics.Disabled {
		mux.Handle("GET "+rt.cfg.Metrics.Path, metrics.Handler(rt.registry))
		observe = middleware.Metrics(rt.http, "/live", "/ready", rt.cfg.Metrics.Path)
	}

	mws = append(mws, observe)
	return middleware.Chain(mws...)(mux)
}
