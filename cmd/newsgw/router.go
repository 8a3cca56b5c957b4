package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ferro-labs/news-gateway/internal/auth"
	"github.com/ferro-labs/news-gateway/internal/logging"
	"github.com/ferro-labs/news-gateway/internal/metrics"
	"github.com/ferro-labs/news-gateway/web"
)

// Documentation routes. They are served without authentication.
const (
	apiDocsPath     = "/v3/api-docs"
	apiDocsYAMLPath = "/v3/api-docs.yaml"
	swaggerUIPath   = "/swagger-ui/"
)

var docsPrefixes = []string{"/v3/api-docs", "/swagger-ui"}

type routerOptions struct {
	realm       string
	corsOrigins []string
}

// newRouter builds the HTTP router.
func newRouter(svc articleService, verifier auth.Verifier, opts routerOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(logging.Middleware)
	r.Use(logging.AccessLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(corsMiddleware(opts.corsOrigins...))
	r.Use(metrics.Middleware)
	r.Use(auth.BasicAuth(verifier, opts.realm, docsPrefixes...))

	r.Get("/news", newsHandler(svc))
	r.Get("/search", searchHandler(svc))
	r.Get("/findByTitle", findByTitleHandler(svc))
	r.Get("/findByAuthor", findByAuthorHandler(svc))

	r.Get("/health", healthHandler(svc))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get(apiDocsPath, apiDocsHandler)
	r.Get(apiDocsYAMLPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(web.OpenAPIYAML)
	})
	r.Get(swaggerUIPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := web.RenderSwaggerUI(w, apiDocsPath); err != nil {
			logging.FromContext(r.Context()).Error("render swagger ui", "error", err)
		}
	})
	r.Get("/swagger-ui", redirectTo(swaggerUIPath))
	r.Get("/swagger-ui.html", redirectTo(swaggerUIPath))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "route not found", "route_not_found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "method_not_allowed")
	})

	return r
}

func apiDocsHandler(w http.ResponseWriter, r *http.Request) {
	data, err := web.OpenAPIJSON()
	if err != nil {
		logging.FromContext(r.Context()).Error("render openapi json", "error", err)
		writeError(w, http.StatusInternalServerError, "api docs unavailable", "")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func redirectTo(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target, http.StatusMovedPermanently)
	}
}
