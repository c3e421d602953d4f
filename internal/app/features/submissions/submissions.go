// internal/app/features/submissions/submissions.go
package submissions

import (
	"net/http"
	"strconv"

	errorsfeature "github.com/dalemusser/stratasite/internal/app/features/errors"
	formsvc "github.com/dalemusser/stratasite/internal/app/services/forms"
	"github.com/dalemusser/stratasite/internal/app/system/auth"
	"github.com/dalemusser/stratasite/internal/app/system/authz"
	"github.com/dalemusser/stratasite/internal/app/system/jsonutil"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the submission inbox to admins.
type Handler struct {
	svc    *formsvc.Service
	errLog *errorsfeature.ErrorLogger
	logger *zap.Logger
}

// NewHandler creates a new submissions Handler.
func NewHandler(svc *formsvc.Service, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, errLog: errLog, logger: logger}
}

type statusInput struct {
	Status models.SubmissionStatus `json:"status"`
}

type bulkStatusInput struct {
	IDs    []string                `json:"ids"`
	Status models.SubmissionStatus `json:"status"`
}

// Routes returns the submission admin routes.
//
// When mounted at /api/admin/submissions:
//   - GET    /?type=&status=&page=&limit=
//   - GET    /{id}
//   - PATCH  /{id}/status
//   - POST   /bulk-status
//   - DELETE /{id}
func Routes(h *Handler, sessionMgr *auth.SessionManager, apiKey string) http.Handler {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireRoleOrAPIKey(apiKey, models.RoleAdmin))

	r.Get("/", h.list)
	r.Post("/bulk-status", h.bulkStatus)
	r.Get("/{id}", h.get)
	r.Patch("/{id}/status", h.setStatus)
	r.Delete("/{id}", h.delete)
	return r
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	f := models.SubmissionFilter{
		Type:   models.SubmissionType(query.Get(r, "type")),
		Status: models.SubmissionStatus(query.Get(r, "status")),
	}
	var ok bool
	if f.Page, ok = intParam(w, r, "page"); !ok {
		return
	}
	if f.Limit, ok = intParam(w, r, "limit"); !ok {
		return
	}

	res, err := h.svc.List(r.Context(), f)
	if err != nil {
		h.errLog.Respond(w, r, err)
		return
	}
	jsonutil.OK(w, res)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	sub, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.errLog.Respond(w, r, err)
		return
	}
	jsonutil.OK(w, sub)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in statusInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON body")
		return
	}

	actor, _, _ := authz.Actor(r)
	sub, err := h.svc.UpdateStatus(r.Context(), id, in.Status, actor)
	if err != nil {
		h.errLog.Respond(w, r, err)
		return
	}
	jsonutil.OK(w, sub)
}

func (h *Handler) bulkStatus(w http.ResponseWriter, r *http.Request) {
	var in bulkStatusInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON body")
		return
	}

	actor, _, _ := authz.Actor(r)
	n, err := h.svc.BulkUpdateStatus(r.Context(), in.IDs, in.Status, actor)
	if err != nil {
		h.errLog.Respond(w, r, err)
		return
	}
	h.logger.Info("submissions status updated",
		zap.String("status", string(in.Status)),
		zap.Int("requested", len(in.IDs)),
		zap.Int64("updated", n))
	jsonutil.OK(w, map[string]int64{"updated": n})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.errLog.Respond(w, r, err)
		return
	}
	jsonutil.NoContent(w)
}

func idParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.BadRequest(w, "invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}

func intParam(w http.ResponseWriter, r *http.Request, key string) (int64, bool) {
	raw := query.Get(r, key)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		jsonutil.BadRequest(w, key+" must be a non-negative integer")
		return 0, false
	}
	return n, true
}
