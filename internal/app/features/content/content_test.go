package content

import (
	"net/http"
	"testing"
	"time"

	errorsfeature "github.com/dalemusser/stratasite/internal/app/features/errors"
	contentsvc "github.com/dalemusser/stratasite/internal/app/services/content"
	categorystore "github.com/dalemusser/stratasite/internal/app/store/categories"
	contentstore "github.com/dalemusser/stratasite/internal/app/store/content"
	"github.com/dalemusser/stratasite/internal/app/system/apperr"
	"github.com/dalemusser/stratasite/internal/app/system/auth"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"github.com/dalemusser/stratasite/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const testAPIKey = "api-key-for-handler-tests-0123456789"

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	sm, err := auth.NewSessionManager("0123456789abcdefghijklmnopqrstuvwxyzABCD", "", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	svc := contentsvc.NewService(models.KindPost, contentstore.New(db, models.KindPost), categorystore.New(db), nil, logger)
	h := NewHandler(svc, errorsfeature.NewErrorLogger(logger), logger)

	r := chi.NewRouter()
	r.Mount("/api/posts", PublicRoutes(h))
	r.Mount("/api/admin/posts", AdminRoutes(h, sm, testAPIKey))
	return r
}

func completePost() map[string]any {
	return map[string]any{
		"title":           "Hello World",
		"content":         "<p>Body text</p>",
		"excerpt":         "Short",
		"featured_image":  "/img/hero.png",
		"seo_title":       "Hello",
		"seo_description": "A greeting",
	}
}

func createPost(t *testing.T, r http.Handler, body any) models.Content {
	t.Helper()
	req := testutil.WithUser(testutil.NewJSONRequest(http.MethodPost, "/api/admin/posts", body), testutil.EditorUser())
	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var c models.Content
	rec.DecodeJSON(t, &c)
	return c
}

func TestAdmin_RequiresStaff(t *testing.T) {
	r := newRouter(t)

	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/api/admin/posts"))
	rec.AssertStatus(t, http.StatusUnauthorized)

	rec = testutil.NewRecorder()
	req := testutil.NewRequest(http.MethodGet, "/api/admin/posts")
	req.Header.Set("Authorization", "Bearer wrong")
	r.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusUnauthorized)

	rec = testutil.NewRecorder()
	req = testutil.NewRequest(http.MethodGet, "/api/admin/posts")
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	r.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusOK)
}

func TestCreate_GeneratesSlugAndDraft(t *testing.T) {
	r := newRouter(t)

	c := createPost(t, r, completePost())
	if c.Slug != "hello-world" {
		t.Errorf("slug = %q, want hello-world", c.Slug)
	}
	if c.PublishType != models.PublishDraft {
		t.Errorf("publish_type = %q, want draft", c.PublishType)
	}

	second := createPost(t, r, completePost())
	if second.Slug != "hello-world-2" {
		t.Errorf("second slug = %q, want hello-world-2", second.Slug)
	}
}

func TestCreate_ExplicitSlugConflict(t *testing.T) {
	r := newRouter(t)
	body := completePost()
	body["slug"] = "launch"
	createPost(t, r, body)

	req := testutil.WithUser(testutil.NewJSONRequest(http.MethodPost, "/api/admin/posts", body), testutil.AdminUser())
	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusConflict)
}

func TestCreate_MalformedBody(t *testing.T) {
	r := newRouter(t)
	req := testutil.WithUser(testutil.NewJSONRequest(http.MethodPost, "/api/admin/posts", "{not json"), testutil.AdminUser())
	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestCreate_PublishFailsWithAllFields(t *testing.T) {
	r := newRouter(t)
	req := testutil.WithUser(testutil.NewJSONRequest(http.MethodPost, "/api/admin/posts", map[string]any{
		"title":        "   ",
		"publish_type": "publish",
	}), testutil.AdminUser())
	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusUnprocessableEntity)

	var body struct {
		Fields []apperr.FieldError `json:"fields"`
	}
	rec.DecodeJSON(t, &body)
	got := map[string]bool{}
	for _, f := range body.Fields {
		got[f.Field] = true
	}
	if !got["title"] || !got["content"] {
		t.Errorf("fields = %+v, want title and content", body.Fields)
	}
}

func TestPublishFlow_PublicVisibility(t *testing.T) {
	r := newRouter(t)
	c := createPost(t, r, completePost())

	// Drafts are invisible to the public.
	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/api/posts/"+c.Slug))
	rec.AssertStatus(t, http.StatusNotFound)

	rec = testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.WithUser(testutil.NewJSONRequest(http.MethodPost, "/api/admin/posts/"+c.ID.Hex()+"/publish", nil), testutil.EditorUser()))
	rec.AssertStatus(t, http.StatusOK)
	var pub PublishResult
	rec.DecodeJSON(t, &pub)
	if pub.Item.PublishType != models.PublishPublish || pub.Item.PublishedAt == nil {
		t.Errorf("published item = %+v", pub.Item)
	}
	if pub.Warnings == nil {
		t.Error("warnings should be an empty list, not null")
	}

	rec = testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/api/posts/"+c.Slug))
	rec.AssertStatus(t, http.StatusOK)

	rec = testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/api/posts"))
	rec.AssertStatus(t, http.StatusOK)
	var list contentsvc.ListResult
	rec.DecodeJSON(t, &list)
	if list.Total != 1 || len(list.Items) != 1 {
		t.Errorf("public list = %+v, want one post", list)
	}

	rec = testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.WithUser(testutil.NewJSONRequest(http.MethodPost, "/api/admin/posts/"+c.ID.Hex()+"/unpublish", nil), testutil.EditorUser()))
	rec.AssertStatus(t, http.StatusOK)

	rec = testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/api/posts/"+c.Slug))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestSetPublishType(t *testing.T) {
	r := newRouter(t)
	c := createPost(t, r, completePost())
	path := "/api/admin/posts/" + c.ID.Hex() + "/publish-type"

	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.WithUser(testutil.NewJSONRequest(http.MethodPut, path, map[string]string{"publish_type": "private"}), testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusOK)
	var res PublishResult
	rec.DecodeJSON(t, &res)
	if res.Item.PublishType != models.PublishPrivate {
		t.Errorf("publish_type = %q, want private", res.Item.PublishType)
	}

	rec = testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.WithUser(testutil.NewJSONRequest(http.MethodPut, path, map[string]string{"publish_type": "archived"}), testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestUpdateAndDelete(t *testing.T) {
	r := newRouter(t)
	c := createPost(t, r, completePost())
	path := "/api/admin/posts/" + c.ID.Hex()

	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.WithUser(testutil.NewJSONRequest(http.MethodPatch, path, map[string]any{"slug": "Renamed Post"}), testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusOK)
	var updated models.Content
	rec.DecodeJSON(t, &updated)
	if updated.Slug != "renamed-post" || updated.Title != "Hello World" {
		t.Errorf("updated = %q / %q", updated.Slug, updated.Title)
	}

	rec = testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.WithUser(testutil.NewRequest(http.MethodDelete, path), testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusNoContent)

	rec = testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.WithUser(testutil.NewRequest(http.MethodGet, path), testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestBadIDAndQuery(t *testing.T) {
	r := newRouter(t)

	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.WithUser(testutil.NewRequest(http.MethodGet, "/api/admin/posts/not-an-id"), testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusBadRequest)

	rec = testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/api/posts?page=abc"))
	rec.AssertStatus(t, http.StatusBadRequest)

	rec = testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.WithUser(testutil.NewRequest(http.MethodGet, "/api/admin/posts?publish_type=bogus"), testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusBadRequest)
}
