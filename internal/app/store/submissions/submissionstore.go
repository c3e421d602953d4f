// internal/app/store/submissions/submissionstore.go
package submissionstore

import (
	"context"
	"time"

	"github.com/dalemusser/stratasite/internal/app/store/storeutil"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the form_submissions collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new submission store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("form_submissions")}
}

// Create inserts a submission with a new id and timestamps.
func (s *Store) Create(ctx context.Context, sub models.FormSubmission) (models.FormSubmission, error) {
	now := time.Now().UTC()
	sub.ID = primitive.NewObjectID()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, sub); err != nil {
		return models.FormSubmission{}, err
	}
	return sub, nil
}

// GetByID loads a submission. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.FormSubmission, error) {
	var sub models.FormSubmission
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// CountByIPSince counts submissions from ip submitted at or after since.
// It backs the form rate limiter.
func (s *Store) CountByIPSince(ctx context.Context, ip string, since time.Time) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"metadata.ip_address":   ip,
		"metadata.submitted_at": bson.M{"$gte": since},
	})
}

// UpdateStatus sets the status of one submission and records who changed it.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) UpdateStatus(ctx context.Context, id primitive.ObjectID, st models.SubmissionStatus, by primitive.ObjectID, at time.Time) (*models.FormSubmission, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var sub models.FormSubmission
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, statusUpdate(st, by, at), opts).Decode(&sub)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// UpdateStatusMany sets the status of every listed submission. Ids that match
// nothing are skipped. Returns the number matched.
func (s *Store) UpdateStatusMany(ctx context.Context, ids []primitive.ObjectID, st models.SubmissionStatus, by primitive.ObjectID, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.c.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, statusUpdate(st, by, at))
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func statusUpdate(st models.SubmissionStatus, by primitive.ObjectID, at time.Time) bson.M {
	return bson.M{"$set": bson.M{
		"status":            st,
		"status_updated_by": by,
		"status_updated_at": at,
		"updated_at":        at,
	}}
}

// List returns one page of submissions matching f, newest first, and the
// total number of matches.
func (s *Store) List(ctx context.Context, f models.SubmissionFilter) ([]models.FormSubmission, int64, error) {
	filter := bson.M{}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.Status != "" {
		filter["status"] = f.Status
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

	out := []models.FormSubmission{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Delete removes a submission. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteArchivedBefore removes archived submissions created before cutoff.
func (s *Store) DeleteArchivedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{
		"status":     models.SubmissionArchived,
		"created_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByStatus returns how many submissions are in each triage state.
func (s *Store) CountByStatus(ctx context.Context) (map[models.SubmissionStatus]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "n": bson.M{"$sum": 1}}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		ID models.SubmissionStatus `bson:"_id"`
		N  int64                   `bson:"n"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make(map[models.SubmissionStatus]int64, 3)
	for _, st := range models.AllSubmissionStatuses() {
		out[st] = 0
	}
	for _, r := range rows {
		out[r.ID] = r.N
	}
	return out, nil
}
