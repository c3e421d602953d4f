package content

import (
	"context"

	"github.com/dalemusser/stratasite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repository is the data access contract for one content collection.
//
// Lookups by id or slug return mongo.ErrNoDocuments when nothing matches.
// Writes that collide on slug return contentstore.ErrDuplicateSlug.
type Repository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Content, error)
	GetBySlug(ctx context.Context, slug string) (*models.Content, error)

	// SlugExists reports whether slug is used by an entity other than excludeID.
	SlugExists(ctx context.Context, slug string, excludeID *primitive.ObjectID) (bool, error)

	// Create assigns the id and timestamps.
	Create(ctx context.Context, c models.Content) (models.Content, error)

	// UpdateByID applies the set fields and returns the entity after the update.
	UpdateByID(ctx context.Context, id primitive.ObjectID, ch models.ContentChanges) (*models.Content, error)

	// DeleteByID returns the entity that was removed.
	DeleteByID(ctx context.Context, id primitive.ObjectID) (*models.Content, error)

	List(ctx context.Context, f models.ContentFilter) ([]models.Content, int64, error)
}

// CategoryLookup resolves category references.
type CategoryLookup interface {
	Exists(ctx context.Context, kind models.ContentKind, id primitive.ObjectID) (bool, error)
}
