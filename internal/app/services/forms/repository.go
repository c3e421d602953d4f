package forms

import (
	"context"
	"time"

	"github.com/dalemusser/stratasite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repository is the data access contract for form submissions.
// GetByID and UpdateStatus return mongo.ErrNoDocuments when nothing matches.
type Repository interface {
	Create(ctx context.Context, sub models.FormSubmission) (models.FormSubmission, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.FormSubmission, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, st models.SubmissionStatus, by primitive.ObjectID, at time.Time) (*models.FormSubmission, error)

	// UpdateStatusMany skips ids that match nothing and returns the number matched.
	UpdateStatusMany(ctx context.Context, ids []primitive.ObjectID, st models.SubmissionStatus, by primitive.ObjectID, at time.Time) (int64, error)

	List(ctx context.Context, f models.SubmissionFilter) ([]models.FormSubmission, int64, error)

	// Delete returns the number of submissions removed (0 or 1).
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// RateLimiter decides whether an IP may submit another form.
type RateLimiter interface {
	CheckLimit(ctx context.Context, ip string) (bool, error)
}

// Notifier tells the site admins about a new submission.
type Notifier interface {
	SubmissionReceived(ctx context.Context, sub *models.FormSubmission) error
}
