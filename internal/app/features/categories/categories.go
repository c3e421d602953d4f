// internal/app/features/categories/categories.go
package categories

import (
	"errors"
	"net/http"
	"strings"

	errorsfeature "github.com/dalemusser/stratasite/internal/app/features/errors"
	categorystore "github.com/dalemusser/stratasite/internal/app/store/categories"
	contentstore "github.com/dalemusser/stratasite/internal/app/store/content"
	"github.com/dalemusser/stratasite/internal/app/system/apperr"
	"github.com/dalemusser/stratasite/internal/app/system/auth"
	"github.com/dalemusser/stratasite/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stratasite/internal/app/system/inputval"
	"github.com/dalemusser/stratasite/internal/app/system/jsonutil"
	"github.com/dalemusser/stratasite/internal/app/system/slug"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler manages post and product categories.
type Handler struct {
	db       *mongo.Database
	catStore *categorystore.Store
	errLog   *errorsfeature.ErrorLogger
	logger   *zap.Logger
}

// NewHandler creates a new categories Handler.
func NewHandler(db *mongo.Database, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		db:       db,
		catStore: categorystore.New(db),
		errLog:   errLog,
		logger:   logger,
	}
}

// CreateInput is the body of POST /api/admin/categories.
type CreateInput struct {
	Kind        models.ContentKind `json:"kind"`
	Name        string             `json:"name" validate:"required,max=100" label:"Name"`
	Slug        string             `json:"slug" validate:"max=100" label:"Slug"`
	Description string             `json:"description" validate:"max=500" label:"Description"`
}

// Routes returns the category admin routes.
//
// When mounted at /api/admin/categories:
//   - GET    /?kind=post|product
//   - POST   /
//   - DELETE /{id}
func Routes(h *Handler, sessionMgr *auth.SessionManager, apiKey string) http.Handler {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireRoleOrAPIKey(apiKey, models.RoleAdmin, models.RoleEditor))

	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Delete("/{id}", h.delete)
	return r
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	kind := query.Get(r, "kind")
	if !models.IsValidContentKind(kind) {
		jsonutil.BadRequest(w, "kind must be post or product")
		return
	}

	cats, err := h.catStore.List(r.Context(), models.ContentKind(kind))
	if err != nil {
		h.errLog.Log(r, "failed to list categories", err)
		jsonutil.InternalError(w, "internal server error")
		return
	}
	jsonutil.OK(w, map[string]any{"items": cats})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON body")
		return
	}

	cat, err := buildCategory(in)
	if err != nil {
		h.errLog.Respond(w, r, err)
		return
	}

	created, err := h.catStore.Create(r.Context(), cat)
	if err != nil {
		if errors.Is(err, categorystore.ErrDuplicateSlug) {
			jsonutil.Conflict(w, err.Error())
			return
		}
		h.errLog.Log(r, "failed to create category", err)
		jsonutil.InternalError(w, "internal server error")
		return
	}
	h.logger.Info("category created",
		zap.String("kind", string(created.Kind)),
		zap.String("slug", created.Slug))
	jsonutil.Created(w, created)
}

// delete removes a category and detaches it from every entity of its kind.
func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.BadRequest(w, "invalid id")
		return
	}
	ctx := r.Context()

	cat, err := h.catStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			jsonutil.NotFound(w, "category not found")
			return
		}
		h.errLog.Log(r, "failed to load category", err)
		jsonutil.InternalError(w, "internal server error")
		return
	}

	if _, err := h.catStore.Delete(ctx, id); err != nil {
		h.errLog.Log(r, "failed to delete category", err)
		jsonutil.InternalError(w, "internal server error")
		return
	}
	detached, err := contentstore.New(h.db, cat.Kind).RemoveCategory(ctx, id)
	if err != nil {
		h.errLog.Log(r, "failed to detach category", err)
		jsonutil.InternalError(w, "internal server error")
		return
	}
	h.logger.Info("category deleted",
		zap.String("slug", cat.Slug),
		zap.Int64("detached", detached))
	jsonutil.NoContent(w)
}

// buildCategory validates in. A blank slug is derived from the name.
func buildCategory(in CreateInput) (models.Category, error) {
	in.Name = strings.TrimSpace(htmlsanitize.StripTags(in.Name))
	in.Description = strings.TrimSpace(htmlsanitize.StripTags(in.Description))
	in.Slug = strings.TrimSpace(in.Slug)

	res := inputval.ValidateAll(in)
	if !models.IsValidContentKind(string(in.Kind)) {
		res.Add("kind", "Kind must be post or product.")
	}
	s := in.Slug
	if s == "" {
		s = in.Name
	}
	s = slug.Normalize(s)
	if s == "" && in.Name != "" {
		res.Add("slug", "Slug must contain at least one letter or digit.")
	}
	if res.HasErrors() {
		return models.Category{}, apperr.Validation("validation failed", res.FieldErrors())
	}

	return models.Category{
		Kind:        in.Kind,
		Name:        in.Name,
		Slug:        s,
		Description: in.Description,
	}, nil
}
