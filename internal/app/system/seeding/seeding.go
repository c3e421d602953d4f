// internal/app/system/seeding/seeding.go
package seeding

import (
	"context"

	pagestore "github.com/dalemusser/stratasite/internal/app/store/pages"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// SeedAll seeds default data if not already present.
func SeedAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	return seedPages(ctx, db, logger)
}

// DefaultPages returns the placeholder documents every site starts with.
func DefaultPages() []models.PageDocument {
	return []models.PageDocument{
		{
			Slug:  models.PageSlugHome,
			Title: "Home",
			Sections: []models.PageSection{
				{Key: "hero", Type: "hero", Heading: "Welcome", Body: "<p>Replace this introduction from the admin panel.</p>"},
			},
		},
		{
			Slug:  models.PageSlugPrivacy,
			Title: "Privacy Policy",
			Sections: []models.PageSection{
				{Key: "policy", Type: "text", Heading: "Privacy Policy", Body: "<p>Describe what you collect from form submissions and how long you keep it.</p>"},
			},
		},
		{
			Slug:  models.PageSlugTeam,
			Title: "Team",
			Sections: []models.PageSection{
				{Key: "members", Type: "team", Heading: "Our Team"},
			},
		},
		{
			Slug:  models.PageSlugStore,
			Title: "Store",
			Sections: []models.PageSection{
				{Key: "intro", Type: "text", Heading: "Store", Body: "<p>Browse our products.</p>"},
			},
		},
		{
			Slug:  models.PageSlugFAQ,
			Title: "Frequently Asked Questions",
			Sections: []models.PageSection{
				{Key: "questions", Type: "faq", Heading: "FAQ"},
			},
		},
	}
}

// seedPages inserts each default page whose slug has no document yet.
// Pages edited by an admin are never touched.
func seedPages(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	store := pagestore.New(db)

	for _, page := range DefaultPages() {
		inserted, err := store.InsertIfMissing(ctx, page)
		if err != nil {
			logger.Error("failed to seed page",
				zap.String("slug", page.Slug),
				zap.Error(err))
			return err
		}
		if inserted {
			logger.Info("seeded default page", zap.String("slug", page.Slug))
		}
	}
	return nil
}
