// internal/app/store/categories/categorystore.go
package categorystore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/stratasite/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateSlug is returned when a category slug is already used by
// another category of the same kind.
var ErrDuplicateSlug = errors.New("a category with this slug already exists")

// Store provides access to the categories collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new category store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("categories")}
}

// Create inserts a category.
func (s *Store) Create(ctx context.Context, cat models.Category) (models.Category, error) {
	now := time.Now().UTC()
	cat.ID = primitive.NewObjectID()
	cat.CreatedAt = now
	cat.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, cat); err != nil {
		if wafflemongo.IsDup(err) || mongo.IsDuplicateKeyError(err) {
			return models.Category{}, ErrDuplicateSlug
		}
		return models.Category{}, err
	}
	return cat, nil
}

// GetByID loads a category. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	var cat models.Category
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Exists reports whether a category of kind with id exists.
func (s *Store) Exists(ctx context.Context, kind models.ContentKind, id primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id, "kind": kind}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SlugExists reports whether slug is taken among categories of kind.
func (s *Store) SlugExists(ctx context.Context, kind models.ContentKind, slug string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"kind": kind, "slug": slug}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns every category of kind, sorted by name.
func (s *Store) List(ctx context.Context, kind models.ContentKind) ([]models.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"kind": kind}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Category{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a category. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
