package submissionstore

import (
	"testing"
	"time"

	"github.com/dalemusser/stratasite/internal/app/store/ratelimit"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"github.com/dalemusser/stratasite/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func newSubmission(ip string, at time.Time) models.FormSubmission {
	return models.FormSubmission{
		Reference: primitive.NewObjectID().Hex(),
		Type:      models.SubmissionContact,
		Status:    models.SubmissionNew,
		Name:      "Ada",
		Email:     "ada@example.com",
		Phone:     "5551234",
		Metadata:  models.SubmissionMetadata{IPAddress: ip, SubmittedAt: at},
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newSubmission("10.0.0.1", time.Now().UTC()))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Email != "ada@example.com" || got.Metadata.IPAddress != "10.0.0.1" {
		t.Errorf("GetByID() = %+v", got)
	}
	if _, err := store.GetByID(ctx, primitive.NewObjectID()); err != mongo.ErrNoDocuments {
		t.Errorf("GetByID(missing) error = %v", err)
	}
}

func TestStore_CountByIPSince(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	_, _ = store.Create(ctx, newSubmission("10.0.0.1", now.Add(-20*time.Minute)))
	_, _ = store.Create(ctx, newSubmission("10.0.0.1", now.Add(-5*time.Minute)))
	_, _ = store.Create(ctx, newSubmission("10.0.0.1", now))
	_, _ = store.Create(ctx, newSubmission("10.0.0.2", now))

	n, err := store.CountByIPSince(ctx, "10.0.0.1", now.Add(-15*time.Minute))
	if err != nil {
		t.Fatalf("CountByIPSince() error = %v", err)
	}
	if n != 2 {
		t.Errorf("CountByIPSince() = %d, want 2", n)
	}
}

func TestStore_BacksRateLimiter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	limiter := ratelimit.New(store, 5, 15*time.Minute)
	for i := 0; i < 5; i++ {
		ok, err := limiter.CheckLimit(ctx, "10.9.9.9")
		if err != nil || !ok {
			t.Fatalf("attempt %d: CheckLimit() = %v, %v; want allowed", i+1, ok, err)
		}
		_, _ = store.Create(ctx, newSubmission("10.9.9.9", time.Now().UTC()))
	}
	ok, err := limiter.CheckLimit(ctx, "10.9.9.9")
	if err != nil {
		t.Fatalf("CheckLimit() error = %v", err)
	}
	if ok {
		t.Error("6th attempt allowed, want rejected")
	}
}

func TestStore_UpdateStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sub, _ := store.Create(ctx, newSubmission("10.0.0.1", time.Now().UTC()))
	admin := primitive.NewObjectID()
	at := time.Now().UTC().Truncate(time.Millisecond)

	got, err := store.UpdateStatus(ctx, sub.ID, models.SubmissionArchived, admin, at)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if got.Status != models.SubmissionArchived {
		t.Errorf("Status = %q, want archived", got.Status)
	}
	if got.StatusUpdatedBy == nil || *got.StatusUpdatedBy != admin {
		t.Errorf("StatusUpdatedBy = %v, want %v", got.StatusUpdatedBy, admin)
	}
	if got.StatusUpdatedAt == nil || !got.StatusUpdatedAt.Equal(at) {
		t.Errorf("StatusUpdatedAt = %v, want %v", got.StatusUpdatedAt, at)
	}

	// Any status is reachable from any status.
	got, err = store.UpdateStatus(ctx, sub.ID, models.SubmissionNew, admin, at)
	if err != nil || got.Status != models.SubmissionNew {
		t.Errorf("UpdateStatus(archived->new) = %v, %v", got, err)
	}

	if _, err := store.UpdateStatus(ctx, primitive.NewObjectID(), models.SubmissionRead, admin, at); err != mongo.ErrNoDocuments {
		t.Errorf("UpdateStatus(missing) error = %v", err)
	}
}

func TestStore_UpdateStatusMany(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, _ := store.Create(ctx, newSubmission("10.0.0.1", time.Now().UTC()))
	b, _ := store.Create(ctx, newSubmission("10.0.0.1", time.Now().UTC()))

	n, err := store.UpdateStatusMany(ctx,
		[]primitive.ObjectID{a.ID, b.ID, primitive.NewObjectID()},
		models.SubmissionRead, primitive.NewObjectID(), time.Now().UTC())
	if err != nil {
		t.Fatalf("UpdateStatusMany() error = %v", err)
	}
	if n != 2 {
		t.Errorf("UpdateStatusMany() = %d, want 2", n)
	}

	n, _ = store.UpdateStatusMany(ctx, nil, models.SubmissionRead, primitive.NewObjectID(), time.Now().UTC())
	if n != 0 {
		t.Errorf("UpdateStatusMany(nil) = %d, want 0", n)
	}

	counts, err := store.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus() error = %v", err)
	}
	if counts[models.SubmissionRead] != 2 || counts[models.SubmissionNew] != 0 {
		t.Errorf("CountByStatus() = %v", counts)
	}
}

func TestStore_ListAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, _ := store.Create(ctx, newSubmission("10.0.0.1", time.Now().UTC()))
	quote := newSubmission("10.0.0.1", time.Now().UTC())
	quote.Type = models.SubmissionQuoteRequest
	_, _ = store.Create(ctx, quote)

	list, total, err := store.List(ctx, models.SubmissionFilter{Type: models.SubmissionQuoteRequest})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].Type != models.SubmissionQuoteRequest {
		t.Errorf("List(quote) = %+v, total %d", list, total)
	}

	n, err := store.Delete(ctx, a.ID)
	if err != nil || n != 1 {
		t.Errorf("Delete() = %d, %v", n, err)
	}
	_, total, _ = store.List(ctx, models.SubmissionFilter{})
	if total != 1 {
		t.Errorf("List() total after delete = %d, want 1", total)
	}
}

func TestStore_DeleteArchivedBefore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	archived := newSubmission("10.0.0.1", time.Now().UTC())
	archived.Status = models.SubmissionArchived
	_, _ = store.Create(ctx, archived)
	_, _ = store.Create(ctx, newSubmission("10.0.0.1", time.Now().UTC()))

	n, err := store.DeleteArchivedBefore(ctx, time.Now().UTC().Add(time.Minute))
	if err != nil {
		t.Fatalf("DeleteArchivedBefore() error = %v", err)
	}
	if n != 1 {
		t.Errorf("DeleteArchivedBefore() = %d, want 1", n)
	}
}
