package pagestore

import (
	"testing"

	"github.com/dalemusser/stratasite/internal/domain/models"
	"github.com/dalemusser/stratasite/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func faqPage(title string) models.PageDocument {
	return models.PageDocument{
		Slug:  models.PageSlugFAQ,
		Title: title,
		Sections: []models.PageSection{{
			Key:  "questions",
			Type: "faq",
			Items: []models.PageItem{
				{Title: "Do you ship abroad?", Body: "<p>Yes.</p>"},
			},
		}},
		SEOTitle: "FAQ",
	}
}

func TestStore_Upsert_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	page := faqPage("Frequently asked questions")
	page.UpdatedByID = &userID
	page.UpdatedByName = "Admin User"

	stored, err := store.Upsert(ctx, page)
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if stored.ID.IsZero() {
		t.Error("Upsert() should return the stored document with an ID")
	}

	retrieved, err := store.GetBySlug(ctx, models.PageSlugFAQ)
	if err != nil {
		t.Fatalf("GetBySlug() error = %v", err)
	}
	if retrieved.Title != page.Title {
		t.Errorf("Title = %v, want %v", retrieved.Title, page.Title)
	}
	if len(retrieved.Sections) != 1 || len(retrieved.Sections[0].Items) != 1 {
		t.Fatalf("Sections = %+v", retrieved.Sections)
	}
	if retrieved.Sections[0].Items[0].Title != "Do you ship abroad?" {
		t.Errorf("Item title = %q", retrieved.Sections[0].Items[0].Title)
	}
	if retrieved.UpdatedByName != "Admin User" {
		t.Errorf("UpdatedByName = %v", retrieved.UpdatedByName)
	}
	if retrieved.UpdatedAt == nil {
		t.Error("UpdatedAt should be set")
	}
}

func TestStore_Upsert_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first, _ := store.Upsert(ctx, faqPage("Old"))
	second, err := store.Upsert(ctx, models.PageDocument{Slug: models.PageSlugFAQ, Title: "New"})
	if err != nil {
		t.Fatalf("Upsert() update error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("ID changed on update: %v -> %v", first.ID, second.ID)
	}
	if second.Title != "New" || len(second.Sections) != 0 {
		t.Errorf("Upsert() = %+v", second)
	}

	all, _ := store.GetAll(ctx)
	if len(all) != 1 {
		t.Errorf("GetAll() count = %d, want 1", len(all))
	}
}

func TestStore_InsertIfMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	inserted, err := store.InsertIfMissing(ctx, faqPage("Default"))
	if err != nil {
		t.Fatalf("InsertIfMissing() error = %v", err)
	}
	if !inserted {
		t.Error("InsertIfMissing() = false on empty collection")
	}

	_, _ = store.Upsert(ctx, faqPage("Edited"))
	inserted, err = store.InsertIfMissing(ctx, faqPage("Default"))
	if err != nil {
		t.Fatalf("InsertIfMissing() second error = %v", err)
	}
	if inserted {
		t.Error("InsertIfMissing() = true for existing page")
	}
	got, _ := store.GetBySlug(ctx, models.PageSlugFAQ)
	if got.Title != "Edited" {
		t.Errorf("existing page overwritten: Title = %q", got.Title)
	}
}

func TestStore_GetBySlug_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetBySlug(ctx, "nonexistent")
	if err != mongo.ErrNoDocuments {
		t.Errorf("GetBySlug() for nonexistent slug error = %v, want %v", err, mongo.ErrNoDocuments)
	}
}

func TestStore_Exists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	exists, err := store.Exists(ctx, models.PageSlugHome)
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("Exists() should return false before page is created")
	}

	_, _ = store.Upsert(ctx, models.PageDocument{Slug: models.PageSlugHome, Title: "Home"})

	exists, _ = store.Exists(ctx, models.PageSlugHome)
	if !exists {
		t.Error("Exists() should return true after page is created")
	}
}

func TestPageModel_IsValidPageSlug(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"home", true},
		{"privacy", true},
		{"team", true},
		{"store", true},
		{"faq", true},
		{"about", false},
		{"", false},
		{"FAQ", false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			if got := models.IsValidPageSlug(tt.slug); got != tt.want {
				t.Errorf("IsValidPageSlug(%q) = %v, want %v", tt.slug, got, tt.want)
			}
		})
	}
}
