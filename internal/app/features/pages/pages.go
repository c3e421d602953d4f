// internal/app/features/pages/pages.go
package pages

import (
	"errors"
	"net/http"
	"strings"

	errorsfeature "github.com/dalemusser/stratasite/internal/app/features/errors"
	pagestore "github.com/dalemusser/stratasite/internal/app/store/pages"
	"github.com/dalemusser/stratasite/internal/app/system/apperr"
	"github.com/dalemusser/stratasite/internal/app/system/auth"
	"github.com/dalemusser/stratasite/internal/app/system/authz"
	"github.com/dalemusser/stratasite/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stratasite/internal/app/system/inputval"
	"github.com/dalemusser/stratasite/internal/app/system/jsonutil"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler provides page document handlers.
type Handler struct {
	pageStore *pagestore.Store
	errLog    *errorsfeature.ErrorLogger
	logger    *zap.Logger
}

// NewHandler creates a new pages Handler.
func NewHandler(db *mongo.Database, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		pageStore: pagestore.New(db),
		errLog:    errLog,
		logger:    logger,
	}
}

// PageInput is the body of PUT /api/admin/pages/{slug}.
type PageInput struct {
	Title          string               `json:"title" validate:"required,max=200" label:"Title"`
	Sections       []models.PageSection `json:"sections"`
	SEOTitle       string               `json:"seo_title" validate:"max=120" label:"SEO title"`
	SEODescription string               `json:"seo_description" validate:"max=320" label:"SEO description"`
}

// Routes returns the public page routes.
//
// When mounted at /api/pages:
//   - GET /api/pages/{slug}
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/{slug}", h.getPage)
	return r
}

// EditRoutes returns routes for editing pages (admin only).
//
// When mounted at /api/admin/pages:
//   - GET /           - every stored page
//   - GET /{slug}     - one page
//   - PUT /{slug}     - replace a page
func EditRoutes(h *Handler, sessionMgr *auth.SessionManager, apiKey string) http.Handler {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireRoleOrAPIKey(apiKey, models.RoleAdmin))

	r.Get("/", h.listPages)
	r.Get("/{slug}", h.getPage)
	r.Put("/{slug}", h.updatePage)

	return r
}

func (h *Handler) getPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if !models.IsValidPageSlug(slug) {
		jsonutil.NotFound(w, "page not found")
		return
	}

	page, err := h.pageStore.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			jsonutil.NotFound(w, "page not found")
			return
		}
		h.errLog.Log(r, "failed to get page", err)
		jsonutil.InternalError(w, "internal server error")
		return
	}
	jsonutil.OK(w, page)
}

func (h *Handler) listPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.pageStore.GetAll(r.Context())
	if err != nil {
		h.errLog.Log(r, "failed to list pages", err)
		jsonutil.InternalError(w, "internal server error")
		return
	}
	if pages == nil {
		pages = []models.PageDocument{}
	}
	jsonutil.OK(w, map[string]any{"items": pages})
}

func (h *Handler) updatePage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if !models.IsValidPageSlug(slug) {
		jsonutil.NotFound(w, "page not found")
		return
	}

	var in PageInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON body")
		return
	}
	page, err := cleanPage(slug, in)
	if err != nil {
		h.errLog.Respond(w, r, err)
		return
	}

	if id, name, ok := authz.Actor(r); ok {
		if !id.IsZero() {
			page.UpdatedByID = &id
		}
		page.UpdatedByName = name
	}

	saved, err := h.pageStore.Upsert(r.Context(), page)
	if err != nil {
		h.errLog.Log(r, "failed to save page", err)
		jsonutil.InternalError(w, "internal server error")
		return
	}
	h.logger.Info("page updated",
		zap.String("slug", slug),
		zap.String("updated_by", page.UpdatedByName))
	jsonutil.OK(w, saved)
}

// cleanPage validates in and returns the page to store. Headings and item
// titles are reduced to plain text; bodies are sanitized HTML.
func cleanPage(slug string, in PageInput) (models.PageDocument, error) {
	in.Title = strings.TrimSpace(htmlsanitize.StripTags(in.Title))
	in.SEOTitle = strings.TrimSpace(htmlsanitize.StripTags(in.SEOTitle))
	in.SEODescription = strings.TrimSpace(htmlsanitize.StripTags(in.SEODescription))

	res := inputval.ValidateAll(in)
	seen := make(map[string]bool, len(in.Sections))
	sections := make([]models.PageSection, 0, len(in.Sections))
	for _, s := range in.Sections {
		s.Key = strings.TrimSpace(s.Key)
		s.Type = strings.TrimSpace(s.Type)
		if s.Key == "" || s.Type == "" {
			res.Add("sections", "Every section needs a key and a type.")
			break
		}
		if seen[s.Key] {
			res.Add("sections", "Section keys must be unique.")
			break
		}
		seen[s.Key] = true

		s.Heading = strings.TrimSpace(htmlsanitize.StripTags(s.Heading))
		s.Body = htmlsanitize.RichText(s.Body)
		items := make([]models.PageItem, 0, len(s.Items))
		for _, it := range s.Items {
			it.Title = strings.TrimSpace(htmlsanitize.StripTags(it.Title))
			it.Body = htmlsanitize.RichText(it.Body)
			it.Image = strings.TrimSpace(it.Image)
			it.Link = strings.TrimSpace(it.Link)
			if it.Link != "" && !inputval.IsValidHTTPURL(it.Link) && !strings.HasPrefix(it.Link, "/") {
				res.Add("sections", "Item links must be http(s) URLs or site paths.")
				break
			}
			items = append(items, it)
		}
		s.Items = items
		sections = append(sections, s)
	}
	if res.HasErrors() {
		return models.PageDocument{}, apperr.Validation("validation failed", res.FieldErrors())
	}

	return models.PageDocument{
		Slug:           slug,
		Title:          in.Title,
		Sections:       sections,
		SEOTitle:       in.SEOTitle,
		SEODescription: in.SEODescription,
	}, nil
}
