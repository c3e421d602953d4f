// internal/app/bootstrap/routes.go
package bootstrap

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	categoriesfeature "github.com/dalemusser/stratasite/internal/app/features/categories"
	contentfeature "github.com/dalemusser/stratasite/internal/app/features/content"
	dashboardfeature "github.com/dalemusser/stratasite/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/stratasite/internal/app/features/errors"
	formsfeature "github.com/dalemusser/stratasite/internal/app/features/forms"
	healthfeature "github.com/dalemusser/stratasite/internal/app/features/health"
	loginfeature "github.com/dalemusser/stratasite/internal/app/features/login"
	pagesfeature "github.com/dalemusser/stratasite/internal/app/features/pages"
	submissionsfeature "github.com/dalemusser/stratasite/internal/app/features/submissions"
	contentsvc "github.com/dalemusser/stratasite/internal/app/services/content"
	categorystore "github.com/dalemusser/stratasite/internal/app/store/categories"
	contentstore "github.com/dalemusser/stratasite/internal/app/store/content"
	userstore "github.com/dalemusser/stratasite/internal/app/store/users"
	"github.com/dalemusser/stratasite/internal/app/system/auth"
	"github.com/dalemusser/stratasite/internal/app/system/network"
	"github.com/dalemusser/stratasite/internal/app/system/requestid"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup and
// Startup have completed.
//
// Route groups:
//   - Public JSON API: published content, pages, form submissions, health
//   - Admin JSON API under /api/admin: session (role) or Bearer API key
//   - Auth under /api/auth: sign in, sign out, current user
//
// Session-authenticated unsafe requests must carry the CSRF token returned by
// /api/auth/login and /api/auth/me in the X-CSRF-Token header. Bearer API key
// requests, public form posts and the sign-in request itself are exempt.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	if formsSvc == nil {
		return nil, fmt.Errorf("form pipeline not initialized; Startup must run first")
	}

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fresh user data on each request so role changes and disabled accounts
	// take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase, logger))

	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────────

	r.Use(requestid.Middleware)

	// Request timeout middleware: prevents requests from hanging indefinitely.
	r.Use(chimw.Timeout(30 * time.Second))

	// CORS middleware: must be early in the chain to handle preflight requests.
	r.Use(middleware.CORSFromConfig(coreCfg))

	// Security headers middleware: adds X-Frame-Options, X-Content-Type-Options, etc.
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// Loads SessionUser into context if signed in.
	r.Use(sessionMgr.LoadSessionUser)

	r.Use(csrfMiddleware(appCfg, secure, logger))

	// ─────────────────────────────────────────────────────────────────────────────
	// Routes
	// ─────────────────────────────────────────────────────────────────────────────

	// Health check endpoints for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Redis, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	// Posts and products share the content pipeline, one service per kind.
	categories := categorystore.New(deps.MongoDatabase)
	for _, kind := range models.AllContentKinds() {
		svc := contentsvc.NewService(kind, contentstore.New(deps.MongoDatabase, kind), categories, deps.ContentCache, logger)
		h := contentfeature.NewHandler(svc, errLog, logger)
		base := "/" + kind.Collection()
		r.Mount("/api"+base, contentfeature.PublicRoutes(h))
		r.Mount("/api/admin"+base, contentfeature.AdminRoutes(h, sessionMgr, appCfg.APIKey))
	}

	pagesHandler := pagesfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/api/pages", pagesfeature.Routes(pagesHandler))
	r.Mount("/api/admin/pages", pagesfeature.EditRoutes(pagesHandler, sessionMgr, appCfg.APIKey))

	// Public form endpoint with its own permissive CORS policy.
	resolver, err := network.NewResolver(appCfg.TrustedProxies)
	if err != nil {
		return nil, err
	}
	formsHandler := formsfeature.NewHandler(formsSvc, resolver, errLog, logger)
	r.Mount("/api/forms", formsfeature.Routes(formsHandler, appCfg.FormCORSOrigins...))

	submissionsHandler := submissionsfeature.NewHandler(formsSvc, errLog, logger)
	r.Mount("/api/admin/submissions", submissionsfeature.Routes(submissionsHandler, sessionMgr, appCfg.APIKey))

	categoriesHandler := categoriesfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/api/admin/categories", categoriesfeature.Routes(categoriesHandler, sessionMgr, appCfg.APIKey))

	dashboardHandler := dashboardfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/api/admin/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr, appCfg.APIKey))

	loginHandler := loginfeature.NewHandler(deps.MongoDatabase, sessionMgr, resolver, errLog, logger)
	r.Mount("/api/auth", loginfeature.Routes(loginHandler))

	r.NotFound(errorsfeature.NotFound)
	r.MethodNotAllowed(errorsfeature.MethodNotAllowed)

	return r, nil
}

// csrfMiddleware protects session-authenticated requests. Exempt requests
// still pass through the CSRF handler so a token is issued for them.
func csrfMiddleware(appCfg AppConfig, secure bool, logger *zap.Logger) func(http.Handler) http.Handler {
	csrfOpts := []csrf.Option{
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName("stratasite_csrf"),
		csrf.RequestHeader("X-CSRF-Token"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logger.Warn("CSRF validation failed",
				zap.String("path", req.URL.Path),
				zap.String("method", req.Method),
				zap.String("reason", csrf.FailureReason(req).Error()),
			)
			errorsfeature.CSRFFailed(w, req)
		})),
	}
	// In dev mode, trust localhost origins for CSRF validation.
	if !secure {
		csrfOpts = append(csrfOpts, csrf.TrustedOrigins([]string{
			"localhost:8080",
			"localhost:3000",
			"127.0.0.1:8080",
			"127.0.0.1:3000",
		}))
	}
	if appCfg.SessionDomain != "" {
		csrfOpts = append(csrfOpts, csrf.Domain(appCfg.SessionDomain))
	}
	protect := csrf.Protect([]byte(appCfg.CSRFKey), csrfOpts...)

	return func(next http.Handler) http.Handler {
		csrfHandler := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if !secure {
				req = csrf.PlaintextHTTPRequest(req)
			}
			if csrfExempt(req) {
				req = csrf.UnsafeSkipCheck(req)
			}
			csrfHandler.ServeHTTP(w, req)
		})
	}
}

// csrfExempt reports whether req is authenticated by something other than
// the session cookie, or does not need a session at all.
func csrfExempt(req *http.Request) bool {
	if strings.HasPrefix(req.Header.Get("Authorization"), "Bearer ") {
		return true
	}
	path := req.URL.Path
	switch {
	case path == "/api/auth/login":
		return true
	case strings.HasPrefix(path, "/api/forms/"):
		return true
	}
	return false
}
