// internal/app/store/content/contentstore.go
package contentstore

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/stratasite/internal/app/store/storeutil"
	"github.com/dalemusser/stratasite/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateSlug is returned when a write would give two entities of the
// same kind the same slug. The unique slug index enforces it.
var ErrDuplicateSlug = errors.New("slug already in use")

// Store provides access to one content collection (posts or products).
type Store struct {
	c    *mongo.Collection
	kind models.ContentKind
}

// New creates a store for the collection that holds kind.
func New(db *mongo.Database, kind models.ContentKind) *Store {
	return &Store{c: db.Collection(kind.Collection()), kind: kind}
}

// Kind returns the kind of content this store holds.
func (s *Store) Kind() models.ContentKind { return s.kind }

// GetByID loads an entity. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Content, error) {
	var c models.Content
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetBySlug loads an entity by slug. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*models.Content, error) {
	var c models.Content
	if err := s.c.FindOne(ctx, bson.M{"slug": slug}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// SlugExists reports whether slug is taken, ignoring the entity excludeID.
func (s *Store) SlugExists(ctx context.Context, slug string, excludeID *primitive.ObjectID) (bool, error) {
	filter := bson.M{"slug": slug}
	if excludeID != nil {
		filter["_id"] = bson.M{"$ne": *excludeID}
	}
	n, err := s.c.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create inserts c with a new id and timestamps.
func (s *Store) Create(ctx context.Context, c models.Content) (models.Content, error) {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.Kind = s.kind
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Categories == nil {
		c.Categories = []primitive.ObjectID{}
	}

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if isDup(err) {
			return models.Content{}, ErrDuplicateSlug
		}
		return models.Content{}, err
	}
	return c, nil
}

// UpdateByID applies ch and returns the updated entity.
// Returns mongo.ErrNoDocuments if no entity has id.
func (s *Store) UpdateByID(ctx context.Context, id primitive.ObjectID, ch models.ContentChanges) (*models.Content, error) {
	set := changesToSet(ch)
	set["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var c models.Content
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&c)
	if err != nil {
		if isDup(err) {
			return nil, ErrDuplicateSlug
		}
		return nil, err
	}
	return &c, nil
}

// DeleteByID removes an entity and returns what was deleted.
// Returns mongo.ErrNoDocuments if no entity has id.
func (s *Store) DeleteByID(ctx context.Context, id primitive.ObjectID) (*models.Content, error) {
	var c models.Content
	if err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns one page of entities matching f, newest first, and the total
// number of matches.
func (s *Store) List(ctx context.Context, f models.ContentFilter) ([]models.Content, int64, error) {
	filter := bson.M{}
	if f.PublishType != "" {
		filter["publish_type"] = f.PublishType
	}
	if f.CategoryID != nil {
		filter["categories"] = *f.CategoryID
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		filter["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
	}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := storeutil.Paginate(f.Limit, f.Page).
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	out := []models.Content{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// CountByPublishType returns how many entities are in each lifecycle state.
func (s *Store) CountByPublishType(ctx context.Context) (map[models.PublishType]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$publish_type", "n": bson.M{"$sum": 1}}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		ID models.PublishType `bson:"_id"`
		N  int64              `bson:"n"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make(map[models.PublishType]int64, len(models.AllPublishTypes()))
	for _, t := range models.AllPublishTypes() {
		out[t] = 0
	}
	for _, r := range rows {
		out[r.ID] = r.N
	}
	return out, nil
}

// RemoveCategory pulls a deleted category from every entity that references it.
func (s *Store) RemoveCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"categories": categoryID},
		bson.M{
			"$pull": bson.M{"categories": categoryID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func changesToSet(ch models.ContentChanges) bson.M {
	set := bson.M{}
	if ch.Title != nil {
		set["title"] = *ch.Title
	}
	if ch.Slug != nil {
		set["slug"] = *ch.Slug
	}
	if ch.Body != nil {
		set["body"] = *ch.Body
	}
	if ch.Excerpt != nil {
		set["excerpt"] = *ch.Excerpt
	}
	if ch.FeaturedImage != nil {
		set["featured_image"] = *ch.FeaturedImage
	}
	if ch.Categories != nil {
		cats := *ch.Categories
		if cats == nil {
			cats = []primitive.ObjectID{}
		}
		set["categories"] = cats
	}
	if ch.Tags != nil {
		set["tags"] = *ch.Tags
	}
	if ch.PublishType != nil {
		set["publish_type"] = *ch.PublishType
	}
	if ch.PublishedAt != nil {
		set["published_at"] = *ch.PublishedAt
	}
	if ch.SEOTitle != nil {
		set["seo_title"] = *ch.SEOTitle
	}
	if ch.SEODescription != nil {
		set["seo_description"] = *ch.SEODescription
	}
	if ch.Product != nil {
		set["product"] = *ch.Product
	}
	return set
}

func isDup(err error) bool {
	return wafflemongo.IsDup(err) || mongo.IsDuplicateKeyError(err)
}
