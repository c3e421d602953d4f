// internal/app/features/dashboard/dashboard.go
package dashboard

import (
	"context"
	"net/http"

	errorsfeature "github.com/dalemusser/stratasite/internal/app/features/errors"
	contentstore "github.com/dalemusser/stratasite/internal/app/store/content"
	submissionstore "github.com/dalemusser/stratasite/internal/app/store/submissions"
	"github.com/dalemusser/stratasite/internal/app/system/auth"
	"github.com/dalemusser/stratasite/internal/app/system/jsonutil"
	"github.com/dalemusser/stratasite/internal/app/system/timeouts"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const recentLimit = 5

// Handler provides dashboard handlers.
type Handler struct {
	posts       *contentstore.Store
	products    *contentstore.Store
	submissions *submissionstore.Store
	errLog      *errorsfeature.ErrorLogger
	logger      *zap.Logger
}

// NewHandler creates a new dashboard Handler.
func NewHandler(db *mongo.Database, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		posts:       contentstore.New(db, models.KindPost),
		products:    contentstore.New(db, models.KindProduct),
		submissions: submissionstore.New(db),
		errLog:      errLog,
		logger:      logger,
	}
}

// Summary is the admin overview.
type Summary struct {
	Posts             map[models.PublishType]int64      `json:"posts"`
	Products          map[models.PublishType]int64      `json:"products"`
	Submissions       map[models.SubmissionStatus]int64 `json:"submissions"`
	RecentSubmissions []models.FormSubmission           `json:"recent_submissions"`
}

// Routes returns a chi.Router with dashboard routes mounted.
//
// When mounted at /api/admin/dashboard:
//   - GET /
func Routes(h *Handler, sessionMgr *auth.SessionManager, apiKey string) http.Handler {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireRoleOrAPIKey(apiKey, models.RoleAdmin))
	r.Get("/", h.show)
	return r
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	s, err := h.summarize(ctx)
	if err != nil {
		h.errLog.Log(r, "failed to build dashboard", err)
		jsonutil.InternalError(w, "internal server error")
		return
	}
	jsonutil.OK(w, s)
}

// summarize runs the four queries concurrently; the first failure cancels
// the rest.
func (h *Handler) summarize(ctx context.Context) (*Summary, error) {
	var s Summary
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		s.Posts, err = h.posts.CountByPublishType(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		s.Products, err = h.products.CountByPublishType(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		s.Submissions, err = h.submissions.CountByStatus(gctx)
		return err
	})
	g.Go(func() error {
		items, _, err := h.submissions.List(gctx, models.SubmissionFilter{
			Status: models.SubmissionNew,
			Limit:  recentLimit,
			Page:   1,
		})
		s.RecentSubmissions = items
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if s.RecentSubmissions == nil {
		s.RecentSubmissions = []models.FormSubmission{}
	}
	return &s, nil
}
