package categories

import (
	"net/http"
	"testing"
	"time"

	errorsfeature "github.com/dalemusser/stratasite/internal/app/features/errors"
	contentstore "github.com/dalemusser/stratasite/internal/app/store/content"
	"github.com/dalemusser/stratasite/internal/app/system/auth"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"github.com/dalemusser/stratasite/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) (http.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	sm, err := auth.NewSessionManager("0123456789abcdefghijklmnopqrstuvwxyzABCD", "", "", time.Hour, false, logger)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Mount("/api/admin/categories", Routes(NewHandler(db, errorsfeature.NewErrorLogger(logger), logger), sm, ""))
	return r, db
}

func create(t *testing.T, r http.Handler, body any) *testutil.ResponseRecorder {
	t.Helper()
	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.WithUser(testutil.NewJSONRequest(http.MethodPost, "/api/admin/categories", body), testutil.AdminUser()))
	return rec
}

func TestCreate_DerivesSlugFromName(t *testing.T) {
	r, _ := newRouter(t)

	rec := create(t, r, map[string]any{"kind": "post", "name": "Release Notes"})
	rec.AssertStatus(t, http.StatusCreated)
	var cat models.Category
	rec.DecodeJSON(t, &cat)
	assert.Equal(t, "release-notes", cat.Slug)
	assert.Equal(t, models.KindPost, cat.Kind)
	assert.False(t, cat.ID.IsZero())
}

func TestCreate_DuplicateSlugPerKind(t *testing.T) {
	r, _ := newRouter(t)

	create(t, r, map[string]any{"kind": "post", "name": "News"}).AssertStatus(t, http.StatusCreated)
	create(t, r, map[string]any{"kind": "post", "name": "Other", "slug": "news"}).AssertStatus(t, http.StatusConflict)

	// The same slug is free for the other kind.
	create(t, r, map[string]any{"kind": "product", "name": "News"}).AssertStatus(t, http.StatusCreated)
}

func TestCreate_Validation(t *testing.T) {
	r, _ := newRouter(t)

	create(t, r, map[string]any{"kind": "page", "name": "X"}).AssertStatus(t, http.StatusUnprocessableEntity)
	create(t, r, map[string]any{"kind": "post", "name": " "}).AssertStatus(t, http.StatusUnprocessableEntity)
	create(t, r, map[string]any{"kind": "post", "name": "!!!"}).AssertStatus(t, http.StatusUnprocessableEntity)
}

func TestList_RequiresKind(t *testing.T) {
	r, _ := newRouter(t)
	create(t, r, map[string]any{"kind": "product", "name": "Shoes"}).AssertStatus(t, http.StatusCreated)

	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.WithUser(testutil.NewRequest(http.MethodGet, "/api/admin/categories"), testutil.EditorUser()))
	rec.AssertStatus(t, http.StatusBadRequest)

	rec = testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.WithUser(testutil.NewRequest(http.MethodGet, "/api/admin/categories?kind=product"), testutil.EditorUser()))
	rec.AssertStatus(t, http.StatusOK)
	var body struct {
		Items []models.Category `json:"items"`
	}
	rec.DecodeJSON(t, &body)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "shoes", body.Items[0].Slug)
}

func TestDelete_DetachesFromContent(t *testing.T) {
	r, db := newRouter(t)

	rec := create(t, r, map[string]any{"kind": "post", "name": "Events"})
	rec.AssertStatus(t, http.StatusCreated)
	var cat models.Category
	rec.DecodeJSON(t, &cat)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	posts := contentstore.New(db, models.KindPost)
	post, err := posts.Create(ctx, models.Content{
		Kind:        models.KindPost,
		Title:       "Meetup",
		Slug:        "meetup",
		Categories:  []primitive.ObjectID{cat.ID},
		PublishType: models.PublishDraft,
	})
	require.NoError(t, err)

	rec = testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.WithUser(testutil.NewRequest(http.MethodDelete, "/api/admin/categories/"+cat.ID.Hex()), testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusNoContent)

	got, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Categories)

	rec = testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.WithUser(testutil.NewRequest(http.MethodDelete, "/api/admin/categories/"+cat.ID.Hex()), testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusNotFound)

	rec = testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.WithUser(testutil.NewRequest(http.MethodDelete, "/api/admin/categories/zzz"), testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusBadRequest)
}
