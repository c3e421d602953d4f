package content

import (
	"net/http"

	"github.com/dalemusser/stratasite/internal/app/system/auth"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// PublicRoutes serves published entities.
//
// When mounted at /api/posts:
//   - GET /api/posts          - published posts, newest first
//   - GET /api/posts/{slug}   - one published post
func PublicRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.listPublished)
	r.Get("/{slug}", h.getPublished)
	return r
}

// AdminRoutes serves the publication workflow to admins, editors and API
// clients.
//
// When mounted at /api/admin/posts:
//   - GET    /                     - list, any state
//   - POST   /                     - create
//   - GET    /{id}                 - get
//   - PATCH  /{id}                 - partial update
//   - DELETE /{id}                 - delete
//   - POST   /{id}/publish         - publish
//   - POST   /{id}/unpublish       - back to draft
//   - PUT    /{id}/publish-type    - set any lifecycle state
func AdminRoutes(h *Handler, sm *auth.SessionManager, apiKey string) http.Handler {
	r := chi.NewRouter()
	r.Use(sm.RequireRoleOrAPIKey(apiKey, models.RoleAdmin, models.RoleEditor))

	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.get)
		r.Patch("/", h.update)
		r.Delete("/", h.delete)
		r.Post("/publish", h.publish)
		r.Post("/unpublish", h.unpublish)
		r.Put("/publish-type", h.setPublishType)
	})
	return r
}
