// internal/app/features/forms/forms.go
package forms

import (
	"net/http"

	errorsfeature "github.com/dalemusser/stratasite/internal/app/features/errors"
	formsvc "github.com/dalemusser/stratasite/internal/app/services/forms"
	"github.com/dalemusser/stratasite/internal/app/system/apicors"
	"github.com/dalemusser/stratasite/internal/app/system/jsonutil"
	"github.com/dalemusser/stratasite/internal/app/system/network"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler accepts visitor form submissions.
type Handler struct {
	svc      *formsvc.Service
	resolver *network.Resolver
	errLog   *errorsfeature.ErrorLogger
	logger   *zap.Logger
}

// NewHandler creates a new forms Handler. The resolver decides which client
// address a submission is rate limited under; nil uses the connection's peer.
func NewHandler(svc *formsvc.Service, resolver *network.Resolver, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, resolver: resolver, errLog: errLog, logger: logger}
}

// SubmitResponse acknowledges a stored submission.
type SubmitResponse struct {
	ID        string `json:"id"`
	Reference string `json:"reference"`
	Message   string `json:"message"`
}

// Routes returns the public form routes. Marketing sites on other origins
// post here, so the routes carry their own CORS policy.
//
// When mounted at /api/forms:
//   - POST /api/forms/{type}
func Routes(h *Handler, allowedOrigins ...string) http.Handler {
	r := chi.NewRouter()
	r.Use(apicors.Middleware(allowedOrigins...))
	r.Post("/{type}", h.submit)
	return r
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var in formsvc.Input
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON body")
		return
	}

	md := h.resolver.Metadata(r)
	sub, err := h.svc.Submit(r.Context(), models.SubmissionType(chi.URLParam(r, "type")), in, formsvc.Meta{
		IP:        md.IP,
		UserAgent: md.UserAgent,
		SourceURL: md.SourceURL,
	})
	if err != nil {
		h.errLog.Respond(w, r, err)
		return
	}

	jsonutil.Created(w, SubmitResponse{
		ID:        sub.ID.Hex(),
		Reference: sub.Reference,
		Message:   "Thank you. We will be in touch shortly.",
	})
}
