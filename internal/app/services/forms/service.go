package forms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/stratasite/internal/app/system/apperr"
	"github.com/dalemusser/stratasite/internal/app/system/inputval"
	"github.com/dalemusser/stratasite/internal/app/system/normalize"
	"github.com/dalemusser/stratasite/internal/app/system/timeouts"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Meta describes where a submission came from.
type Meta struct {
	IP        string
	UserAgent string
	SourceURL string
}

// Service runs the submission pipeline. It is safe for concurrent use.
type Service struct {
	repo     Repository
	limiter  RateLimiter
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time

	wg sync.WaitGroup
}

// NewService creates the pipeline. notifier may be nil.
func NewService(repo Repository, limiter RateLimiter, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		limiter:  limiter,
		notifier: notifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Submit validates, rate-limits, cleans and stores a visitor submission.
// Nothing is written when validation or the rate limit rejects it.
func (s *Service) Submit(ctx context.Context, formType models.SubmissionType, in Input, meta Meta) (*models.FormSubmission, error) {
	if !models.IsValidSubmissionType(string(formType)) {
		return nil, apperr.BadRequest(fmt.Sprintf("unknown form type %q", formType))
	}

	in.sanitize()
	if fields := validate(formType, &in); len(fields) > 0 {
		return nil, apperr.Validation("validation failed", fields)
	}

	ip := strings.TrimSpace(meta.IP)
	allowed, err := s.limiter.CheckLimit(ctx, ip)
	if err != nil {
		return nil, apperr.Database("check rate limit", err)
	}
	if !allowed {
		s.logger.Info("form submission rate limited",
			zap.String("ip", ip),
			zap.String("type", string(formType)))
		return nil, apperr.TooManyRequests("Too many submissions. Please try again later.")
	}

	now := s.now()
	sub := models.FormSubmission{
		Reference:            newReference(),
		Type:                 formType,
		Status:               models.SubmissionNew,
		Name:                 in.Name,
		Email:                normalize.Email(in.Email),
		Phone:                in.Phone,
		PhoneCountryCode:     in.PhoneCountryCode,
		Company:              in.Company,
		OrgNumber:            in.OrgNumber,
		Message:              in.Message,
		Details:              details(formType, &in),
		GDPRConsent:          true,
		GDPRConsentTimestamp: now,
		Metadata: models.SubmissionMetadata{
			IPAddress:   ip,
			UserAgent:   strings.TrimSpace(meta.UserAgent),
			SourceURL:   strings.TrimSpace(meta.SourceURL),
			SubmittedAt: now,
		},
	}

	created, err := s.repo.Create(ctx, sub)
	if err != nil {
		return nil, apperr.Database("create submission", err)
	}
	s.logger.Info("form submission received",
		zap.String("id", created.ID.Hex()),
		zap.String("reference", created.Reference),
		zap.String("type", string(created.Type)))

	s.notify(created)
	return &created, nil
}

// UpdateStatus moves a submission to st. Any status may follow any other.
func (s *Service) UpdateStatus(ctx context.Context, id primitive.ObjectID, st models.SubmissionStatus, actingUserID primitive.ObjectID) (*models.FormSubmission, error) {
	if !models.IsValidSubmissionStatus(string(st)) {
		return nil, apperr.BadRequest(fmt.Sprintf("unknown status %q", st))
	}
	sub, err := s.repo.UpdateStatus(ctx, id, st, actingUserID, s.now())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound()
		}
		return nil, apperr.Database("update submission status", err)
	}
	return sub, nil
}

// BulkUpdateStatus moves every listed submission to st. Ids that are
// malformed or match nothing are skipped; the rest are updated. It returns
// how many submissions matched.
func (s *Service) BulkUpdateStatus(ctx context.Context, ids []string, st models.SubmissionStatus, actingUserID primitive.ObjectID) (int64, error) {
	if !models.IsValidSubmissionStatus(string(st)) {
		return 0, apperr.BadRequest(fmt.Sprintf("unknown status %q", st))
	}
	if len(ids) == 0 {
		return 0, apperr.BadRequest("ids is required")
	}

	oids := make([]primitive.ObjectID, 0, len(ids))
	seen := make(map[primitive.ObjectID]bool, len(ids))
	for _, raw := range ids {
		oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
		if err != nil || seen[oid] {
			continue
		}
		seen[oid] = true
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return 0, nil
	}

	n, err := s.repo.UpdateStatusMany(ctx, oids, st, actingUserID, s.now())
	if err != nil {
		return 0, apperr.Database("bulk update submission status", err)
	}
	return n, nil
}

// Get loads one submission.
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*models.FormSubmission, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound()
		}
		return nil, apperr.Database("get submission", err)
	}
	return sub, nil
}

// ListResult is one page of submissions.
type ListResult struct {
	Items []models.FormSubmission `json:"items"`
	Total int64                   `json:"total"`
	Page  int64                   `json:"page"`
	Limit int64                   `json:"limit"`
}

// List returns one page of submissions, newest first.
func (s *Service) List(ctx context.Context, f models.SubmissionFilter) (*ListResult, error) {
	if f.Type != "" && !models.IsValidSubmissionType(string(f.Type)) {
		return nil, apperr.BadRequest(fmt.Sprintf("unknown form type %q", f.Type))
	}
	if f.Status != "" && !models.IsValidSubmissionStatus(string(f.Status)) {
		return nil, apperr.BadRequest(fmt.Sprintf("unknown status %q", f.Status))
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, apperr.Database("list submissions", err)
	}
	if items == nil {
		items = []models.FormSubmission{}
	}
	return &ListResult{Items: items, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

// Delete removes a submission permanently.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperr.Database("delete submission", err)
	}
	if n == 0 {
		return notFound()
	}
	return nil
}

// Wait blocks until background notifications have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) notify(sub models.FormSubmission) {
	if s.notifier == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), timeouts.Long())
		defer cancel()
		if err := s.notifier.SubmissionReceived(ctx, &sub); err != nil {
			s.logger.Warn("submission notification failed",
				zap.String("id", sub.ID.Hex()),
				zap.String("reference", sub.Reference),
				zap.Error(err))
		}
	}()
}

// validate checks the common schema plus the fields formType requires and
// returns every failing field.
func validate(formType models.SubmissionType, in *Input) []apperr.FieldError {
	res := inputval.ValidateAll(*in)
	failed := make(map[string]bool, len(res.Errors))
	for _, e := range res.Errors {
		failed[e.Field] = true
	}
	for _, field := range in.multiLineFields() {
		if !failed[field] {
			failed[field] = true
			res.Add(field, fieldLabels[field]+" must be a single line.")
		}
	}
	for _, field := range requiredFields(formType) {
		if !failed[field] && in.value(field) == "" {
			res.Add(field, fieldLabels[field]+" is required.")
		}
	}
	if !in.GDPRConsent {
		res.Add("gdpr_consent", "You must accept the privacy policy to send this form.")
	}
	return res.FieldErrors()
}

// details collects the type-specific fields that were filled in.
func details(formType models.SubmissionType, in *Input) map[string]string {
	d := map[string]string{}
	put := func(k, v string) {
		if v != "" {
			d[k] = v
		}
	}
	switch formType {
	case models.SubmissionProductInquiry:
		put("product_name", in.ProductName)
	case models.SubmissionTrainingInquiry:
		put("training_name", in.TrainingName)
	case models.SubmissionTourRequest, models.SubmissionCallbackRequest:
		put("preferred_date", in.PreferredDate)
		put("preferred_time", in.PreferredTime)
	}
	if len(d) == 0 {
		return nil
	}
	return d
}

// newReference returns the short id quoted back to the visitor.
func newReference() string {
	return "SUB-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

func notFound() error {
	return apperr.NotFound("submission not found")
}
