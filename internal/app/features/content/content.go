// Package content serves posts and products over JSON: published entities to
// the public site, and the full publication workflow to staff.
//
// One Handler serves one content kind; routes.go mounts a Handler for posts
// and another for products.
package content

import (
	"net/http"
	"strconv"

	errorsfeature "github.com/dalemusser/stratasite/internal/app/features/errors"
	contentsvc "github.com/dalemusser/stratasite/internal/app/services/content"
	"github.com/dalemusser/stratasite/internal/app/system/apperr"
	"github.com/dalemusser/stratasite/internal/app/system/authz"
	"github.com/dalemusser/stratasite/internal/app/system/jsonutil"
	"github.com/dalemusser/stratasite/internal/app/system/publishcheck"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves one content kind.
type Handler struct {
	svc    *contentsvc.Service
	errLog *errorsfeature.ErrorLogger
	logger *zap.Logger
}

// NewHandler creates a Handler backed by svc.
func NewHandler(svc *contentsvc.Service, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, errLog: errLog, logger: logger}
}

// PublishResult is the response to a publish: the entity plus any advisory
// warnings from the publish check.
type PublishResult struct {
	Item     *models.Content      `json:"item"`
	Warnings []publishcheck.Issue `json:"warnings"`
}

type publishTypeInput struct {
	PublishType models.PublishType `json:"publish_type"`
}

// listPublished handles GET / on the public router.
func (h *Handler) listPublished(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		h.errLog.Respond(w, r, err)
		return
	}
	f.PublishType = models.PublishPublish

	res, err := h.svc.List(r.Context(), f)
	if err != nil {
		h.errLog.Respond(w, r, err)
		return
	}
	jsonutil.OK(w, res)
}

// getPublished handles GET /{slug} on the public router.
func (h *Handler) getPublished(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetPublishedBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.errLog.Respond(w, r, err)
		return
	}
	jsonutil.OK(w, c)
}

// list handles GET / on the admin router. publish_type filters by state.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		h.errLog.Respond(w, r, err)
		return
	}
	f.PublishType = models.PublishType(query.Get(r, "publish_type"))

	res, err := h.svc.List(r.Context(), f)
	if err != nil {
		h.errLog.Respond(w, r, err)
		return
	}
	jsonutil.OK(w, res)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in contentsvc.Input
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON body")
		return
	}
	authorID, _, _ := authz.Actor(r)

	c, err := h.svc.Create(r.Context(), in, authorID)
	if err != nil {
		h.errLog.Respond(w, r, err)
		return
	}
	jsonutil.Created(w, c)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.errLog.Respond(w, r, err)
		return
	}
	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.errLog.Respond(w, r, err)
		return
	}
	jsonutil.OK(w, c)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.errLog.Respond(w, r, err)
		return
	}
	var p contentsvc.Patch
	if err := jsonutil.Decode(r, &p); err != nil {
		jsonutil.BadRequest(w, "invalid JSON body")
		return
	}

	c, err := h.svc.Update(r.Context(), id, p)
	if err != nil {
		h.errLog.Respond(w, r, err)
		return
	}
	jsonutil.OK(w, c)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.errLog.Respond(w, r, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.errLog.Respond(w, r, err)
		return
	}
	jsonutil.NoContent(w)
}

func (h *Handler) publish(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.errLog.Respond(w, r, err)
		return
	}
	c, warnings, err := h.svc.Publish(r.Context(), id)
	if err != nil {
		h.errLog.Respond(w, r, err)
		return
	}
	jsonutil.OK(w, PublishResult{Item: c, Warnings: warnings})
}

func (h *Handler) unpublish(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.errLog.Respond(w, r, err)
		return
	}
	c, err := h.svc.Unpublish(r.Context(), id)
	if err != nil {
		h.errLog.Respond(w, r, err)
		return
	}
	jsonutil.OK(w, c)
}

func (h *Handler) setPublishType(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.errLog.Respond(w, r, err)
		return
	}
	var in publishTypeInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON body")
		return
	}

	c, warnings, err := h.svc.UpdatePublishType(r.Context(), id, in.PublishType)
	if err != nil {
		h.errLog.Respond(w, r, err)
		return
	}
	if warnings == nil {
		warnings = []publishcheck.Issue{}
	}
	jsonutil.OK(w, PublishResult{Item: c, Warnings: warnings})
}

func idParam(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, apperr.BadRequest("invalid id")
	}
	return id, nil
}

// parseFilter reads page, limit, category and q from the query string.
func parseFilter(r *http.Request) (models.ContentFilter, error) {
	var f models.ContentFilter
	var err error
	if f.Page, err = intParam(r, "page"); err != nil {
		return f, err
	}
	if f.Limit, err = intParam(r, "limit"); err != nil {
		return f, err
	}
	if raw := query.Get(r, "category"); raw != "" {
		oid, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return f, apperr.BadRequest("invalid category id")
		}
		f.CategoryID = &oid
	}
	f.Search = query.Get(r, "q")
	return f, nil
}

func intParam(r *http.Request, key string) (int64, error) {
	raw := query.Get(r, key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, apperr.BadRequest(key + " must be a non-negative integer")
	}
	return n, nil
}
