// Package apicors provides CORS middleware for the public JSON endpoints
// (content reads and form submissions) that browsers on the marketing site
// call cross-origin without cookies.
package apicors

import (
	"net/http"

	"github.com/go-chi/cors"
)

// Middleware returns CORS middleware for the public API.
//
// With no origins every origin is allowed. Credentials are never allowed;
// public endpoints do not read the session cookie.
//
// Usage in routes.go:
//
//	r.Route("/api/forms", func(r chi.Router) {
//	    r.Use(apicors.Middleware(appCfg.PublicOrigins...))
//	    r.Mount("/", formsfeature.Routes(formsHandler))
//	})
func Middleware(allowedOrigins ...string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           86400,
	})
}
