// internal/app/store/pages/pagestore.go
package pagestore

import (
	"context"
	"time"

	"github.com/dalemusser/stratasite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the pages collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new page store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("pages")}
}

// GetBySlug returns a page document by its slug.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetBySlug(ctx context.Context, slug string) (models.PageDocument, error) {
	var page models.PageDocument
	if err := s.c.FindOne(ctx, bson.M{"slug": slug}).Decode(&page); err != nil {
		return models.PageDocument{}, err
	}
	return page, nil
}

// Upsert replaces the content of the page with page.Slug, creating it if needed,
// and returns the stored document.
func (s *Store) Upsert(ctx context.Context, page models.PageDocument) (models.PageDocument, error) {
	now := time.Now().UTC()
	sections := page.Sections
	if sections == nil {
		sections = []models.PageSection{}
	}

	filter := bson.M{"slug": page.Slug}
	update := bson.M{
		"$set": bson.M{
			"title":           page.Title,
			"sections":        sections,
			"seo_title":       page.SEOTitle,
			"seo_description": page.SEODescription,
			"updated_at":      now,
			"updated_by_id":   page.UpdatedByID,
			"updated_by_name": page.UpdatedByName,
		},
		"$setOnInsert": bson.M{
			"_id":  primitive.NewObjectID(),
			"slug": page.Slug,
		},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var out models.PageDocument
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out); err != nil {
		return models.PageDocument{}, err
	}
	return out, nil
}

// InsertIfMissing stores page only when no page has its slug. Existing pages
// are never touched. Reports whether a page was inserted.
func (s *Store) InsertIfMissing(ctx context.Context, page models.PageDocument) (bool, error) {
	now := time.Now().UTC()
	page.ID = primitive.NewObjectID()
	page.UpdatedAt = &now
	if page.Sections == nil {
		page.Sections = []models.PageSection{}
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"slug": page.Slug},
		bson.M{"$setOnInsert": page},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

// GetAll returns all pages sorted by slug.
func (s *Store) GetAll(ctx context.Context) ([]models.PageDocument, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "slug", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var pages []models.PageDocument
	if err := cur.All(ctx, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// Exists checks if a page with the given slug exists.
func (s *Store) Exists(ctx context.Context, slug string) (bool, error) {
	count, err := s.c.CountDocuments(ctx, bson.M{"slug": slug})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
