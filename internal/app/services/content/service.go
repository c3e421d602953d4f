package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	contentstore "github.com/dalemusser/stratasite/internal/app/store/content"
	"github.com/dalemusser/stratasite/internal/app/system/apperr"
	"github.com/dalemusser/stratasite/internal/app/system/contentcache"
	"github.com/dalemusser/stratasite/internal/app/system/inputval"
	"github.com/dalemusser/stratasite/internal/app/system/markdown"
	"github.com/dalemusser/stratasite/internal/app/system/publishcheck"
	"github.com/dalemusser/stratasite/internal/app/system/slug"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Service runs the publication workflow for one content kind. It is safe for
// concurrent use.
type Service struct {
	kind       models.ContentKind
	repo       Repository
	categories CategoryLookup
	cache      contentcache.Cache
	logger     *zap.Logger
	now        func() time.Time
}

// NewService creates a service for kind. A nil cache disables caching.
func NewService(kind models.ContentKind, repo Repository, categories CategoryLookup, cache contentcache.Cache, logger *zap.Logger) *Service {
	if cache == nil {
		cache = contentcache.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		kind:       kind,
		repo:       repo,
		categories: categories,
		cache:      cache,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Kind returns the content kind this service manages.
func (s *Service) Kind() models.ContentKind { return s.kind }

// Create stores a new entity. An explicit slug must be free; without one a
// unique slug is derived from the title. Asking for publish runs the publish
// check first and writes nothing if it fails.
func (s *Service) Create(ctx context.Context, in Input, authorID primitive.ObjectID) (*models.Content, error) {
	if !markdown.IsValidFormat(in.ContentFormat) {
		return nil, apperr.BadRequest("content_format must be html or markdown")
	}
	body, err := richText(in.Content, in.ContentFormat)
	if err != nil {
		return nil, apperr.BadRequest("content could not be converted from markdown")
	}

	c := models.Content{
		Kind:           s.kind,
		Title:          plain(in.Title),
		Body:           body,
		Excerpt:        plain(in.Excerpt),
		FeaturedImage:  plain(in.FeaturedImage),
		Tags:           cleanTags(in.Tags),
		PublishType:    in.PublishType,
		SEOTitle:       plain(in.SEOTitle),
		SEODescription: plain(in.SEODescription),
	}
	if c.PublishType == "" {
		c.PublishType = models.PublishDraft
	}
	if !models.IsValidPublishType(string(c.PublishType)) {
		return nil, apperr.BadRequest(fmt.Sprintf("unknown publish type %q", in.PublishType))
	}
	if !authorID.IsZero() {
		a := authorID
		c.AuthorID = &a
	}
	if err := s.setProduct(&c, in.Product); err != nil {
		return nil, err
	}
	if err := checkLimits(&c); err != nil {
		return nil, err
	}

	if c.Categories, err = s.resolveCategories(ctx, in.Categories); err != nil {
		return nil, err
	}

	if c.Slug, err = s.createSlug(ctx, in.Slug, c.Title); err != nil {
		return nil, err
	}

	if c.PublishType == models.PublishPublish {
		if issues := publishcheck.Validate(&c); publishcheck.HasErrors(issues) {
			return nil, notPublishable(issues, nil)
		}
		now := s.now()
		c.PublishedAt = &now
	}

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		if errors.Is(err, contentstore.ErrDuplicateSlug) {
			return nil, apperr.Conflict(fmt.Sprintf("slug %q is already in use", c.Slug))
		}
		return nil, apperr.Database("create "+s.kind.Label(), err)
	}
	s.logger.Info("content created",
		zap.String("kind", string(s.kind)),
		zap.String("id", created.ID.Hex()),
		zap.String("slug", created.Slug),
		zap.String("publish_type", string(created.PublishType)))
	return &created, nil
}

// Update applies a partial update. A changed slug must be free. If the
// result would be published (the patch asks for it, or the entity already is)
// the merged entity must pass the publish check before anything is written.
func (s *Service) Update(ctx context.Context, id primitive.ObjectID, p Patch) (*models.Content, error) {
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	var ch models.ContentChanges
	if p.Title != nil {
		v := plain(*p.Title)
		ch.Title = &v
	}
	if p.Content != nil {
		if !markdown.IsValidFormat(p.ContentFormat) {
			return nil, apperr.BadRequest("content_format must be html or markdown")
		}
		body, err := richText(*p.Content, p.ContentFormat)
		if err != nil {
			return nil, apperr.BadRequest("content could not be converted from markdown")
		}
		ch.Body = &body
	}
	if p.Excerpt != nil {
		v := plain(*p.Excerpt)
		ch.Excerpt = &v
	}
	if p.FeaturedImage != nil {
		v := plain(*p.FeaturedImage)
		ch.FeaturedImage = &v
	}
	if p.SEOTitle != nil {
		v := plain(*p.SEOTitle)
		ch.SEOTitle = &v
	}
	if p.SEODescription != nil {
		v := plain(*p.SEODescription)
		ch.SEODescription = &v
	}
	if p.Tags != nil {
		v := cleanTags(*p.Tags)
		ch.Tags = &v
	}
	if p.PublishType != nil {
		if !models.IsValidPublishType(string(*p.PublishType)) {
			return nil, apperr.BadRequest(fmt.Sprintf("unknown publish type %q", *p.PublishType))
		}
		v := *p.PublishType
		ch.PublishType = &v
	}
	if p.Product != nil {
		var tmp models.Content
		tmp.Kind = s.kind
		if err := s.setProduct(&tmp, p.Product); err != nil {
			return nil, err
		}
		ch.Product = tmp.Product
	}

	if p.Slug != nil {
		next := slug.Normalize(*p.Slug)
		if next == "" {
			return nil, apperr.BadRequest("slug must contain at least one letter or digit")
		}
		if next != current.Slug {
			taken, err := s.repo.SlugExists(ctx, next, &id)
			if err != nil {
				return nil, apperr.Database("check slug", err)
			}
			if taken {
				return nil, apperr.Conflict(fmt.Sprintf("slug %q is already in use", next))
			}
			ch.Slug = &next
		}
	}

	if p.Categories != nil {
		ids, err := s.resolveCategories(ctx, *p.Categories)
		if err != nil {
			return nil, err
		}
		ch.Categories = &ids
	}

	candidate := *current
	ch.Apply(&candidate)
	if err := checkLimits(&candidate); err != nil {
		return nil, err
	}
	if candidate.PublishType == models.PublishPublish {
		var dangling []primitive.ObjectID
		if p.Categories == nil {
			if dangling, err = s.danglingCategories(ctx, candidate.Categories); err != nil {
				return nil, err
			}
		}
		if issues := publishcheck.Validate(&candidate); publishcheck.HasErrors(issues) || len(dangling) > 0 {
			return nil, notPublishable(issues, dangling)
		}
		if candidate.PublishedAt == nil {
			now := s.now()
			ch.PublishedAt = &now
		}
	}

	if ch.IsEmpty() {
		return current, nil
	}
	return s.write(ctx, current, ch)
}

// Publish moves an entity to publish after checking it. Blocking problems,
// including categories that no longer exist, reject the request with every
// offending field named and leave the entity unchanged. Warnings are returned
// alongside the published entity.
func (s *Service) Publish(ctx context.Context, id primitive.ObjectID) (*models.Content, []publishcheck.Issue, error) {
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	issues := publishcheck.Validate(current)
	dangling, err := s.danglingCategories(ctx, current.Categories)
	if err != nil {
		return nil, nil, err
	}
	if publishcheck.HasErrors(issues) || len(dangling) > 0 {
		return nil, nil, notPublishable(issues, dangling)
	}

	pt := models.PublishPublish
	ch := models.ContentChanges{PublishType: &pt}
	if current.PublishedAt == nil {
		now := s.now()
		ch.PublishedAt = &now
	}
	updated, err := s.write(ctx, current, ch)
	if err != nil {
		return nil, nil, err
	}
	warnings := publishcheck.Warnings(issues)
	if warnings == nil {
		warnings = []publishcheck.Issue{}
	}
	return updated, warnings, nil
}

// Unpublish moves an entity back to draft, whatever its state.
func (s *Service) Unpublish(ctx context.Context, id primitive.ObjectID) (*models.Content, error) {
	return s.setPublishType(ctx, id, models.PublishDraft)
}

// UpdatePublishType sets the lifecycle state. Moving to publish goes through
// Publish and its checks.
func (s *Service) UpdatePublishType(ctx context.Context, id primitive.ObjectID, pt models.PublishType) (*models.Content, []publishcheck.Issue, error) {
	if !models.IsValidPublishType(string(pt)) {
		return nil, nil, apperr.BadRequest(fmt.Sprintf("unknown publish type %q", pt))
	}
	if pt == models.PublishPublish {
		return s.Publish(ctx, id)
	}
	c, err := s.setPublishType(ctx, id, pt)
	if err != nil {
		return nil, nil, err
	}
	return c, []publishcheck.Issue{}, nil
}

// Delete removes an entity permanently.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return s.notFound()
		}
		return apperr.Database("delete "+s.kind.Label(), err)
	}
	s.invalidate(ctx, deleted.Slug)
	s.logger.Info("content deleted",
		zap.String("kind", string(s.kind)),
		zap.String("id", id.Hex()),
		zap.String("slug", deleted.Slug))
	return nil
}

// Get loads an entity in any state.
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*models.Content, error) {
	return s.load(ctx, id)
}

// GetPublishedBySlug returns a published entity for public display. Entities
// in any other state are reported as not found.
func (s *Service) GetPublishedBySlug(ctx context.Context, sl string) (*models.Content, error) {
	sl = slug.Normalize(sl)
	if sl == "" {
		return nil, s.notFound()
	}

	if c, ok, err := s.cache.Get(ctx, s.kind, sl); err != nil {
		s.logger.Warn("content cache read failed", zap.String("slug", sl), zap.Error(err))
	} else if ok {
		return c, nil
	}

	c, err := s.repo.GetBySlug(ctx, sl)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, s.notFound()
		}
		return nil, apperr.Database("get "+s.kind.Label()+" by slug", err)
	}
	if c.PublishType != models.PublishPublish {
		return nil, s.notFound()
	}

	if err := s.cache.Set(ctx, c); err != nil {
		s.logger.Warn("content cache write failed", zap.String("slug", sl), zap.Error(err))
		return c, nil
	}
	s.recheck(ctx, c)
	return c, nil
}

// recheck drops a freshly cached entry when the entity changed between the
// read and the cache write. Writers invalidate after they persist, so an
// invalidation that ran before our Set is always followed by a visible change
// here.
func (s *Service) recheck(ctx context.Context, cached *models.Content) {
	cur, err := s.repo.GetByID(ctx, cached.ID)
	if err == nil && cur.PublishType == models.PublishPublish &&
		cur.Slug == cached.Slug && cur.UpdatedAt.Equal(cached.UpdatedAt) {
		return
	}
	s.invalidate(ctx, cached.Slug)
}

// ListResult is one page of a listing.
type ListResult struct {
	Items []models.Content `json:"items"`
	Total int64            `json:"total"`
	Page  int64            `json:"page"`
	Limit int64            `json:"limit"`
}

// List returns one page of entities matching f, newest first.
func (s *Service) List(ctx context.Context, f models.ContentFilter) (*ListResult, error) {
	if f.PublishType != "" && !models.IsValidPublishType(string(f.PublishType)) {
		return nil, apperr.BadRequest(fmt.Sprintf("unknown publish type %q", f.PublishType))
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, apperr.Database("list "+s.kind.Label()+"s", err)
	}
	if items == nil {
		items = []models.Content{}
	}
	return &ListResult{Items: items, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

/* -------------------------------------------------------------------------- */

func (s *Service) load(ctx context.Context, id primitive.ObjectID) (*models.Content, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, s.notFound()
		}
		return nil, apperr.Database("get "+s.kind.Label(), err)
	}
	return c, nil
}

func (s *Service) setPublishType(ctx context.Context, id primitive.ObjectID, pt models.PublishType) (*models.Content, error) {
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.write(ctx, current, models.ContentChanges{PublishType: &pt})
}

// write persists ch and drops the cached copies under the old and new slug.
func (s *Service) write(ctx context.Context, current *models.Content, ch models.ContentChanges) (*models.Content, error) {
	updated, err := s.repo.UpdateByID(ctx, current.ID, ch)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, s.notFound()
		case errors.Is(err, contentstore.ErrDuplicateSlug):
			return nil, apperr.Conflict("slug is already in use")
		}
		return nil, apperr.Database("update "+s.kind.Label(), err)
	}
	s.invalidate(ctx, current.Slug, updated.Slug)
	return updated, nil
}

func (s *Service) invalidate(ctx context.Context, slugs ...string) {
	if err := s.cache.Invalidate(ctx, s.kind, slugs...); err != nil {
		s.logger.Warn("content cache invalidation failed",
			zap.String("kind", string(s.kind)),
			zap.Strings("slugs", slugs),
			zap.Error(err))
	}
}

// createSlug picks the slug for a new entity.
func (s *Service) createSlug(ctx context.Context, explicit, title string) (string, error) {
	if explicit != "" {
		sl := slug.Normalize(explicit)
		if sl == "" {
			return "", apperr.BadRequest("slug must contain at least one letter or digit")
		}
		taken, err := s.repo.SlugExists(ctx, sl, nil)
		if err != nil {
			return "", apperr.Database("check slug", err)
		}
		if taken {
			return "", apperr.Conflict(fmt.Sprintf("slug %q is already in use", sl))
		}
		return sl, nil
	}

	base := slug.Generate(title)
	if base == "" {
		base = slug.Fallback
	}
	sl, err := slug.Unique(ctx, base, func(ctx context.Context, candidate string) (bool, error) {
		return s.repo.SlugExists(ctx, candidate, nil)
	})
	if err != nil {
		return "", apperr.Database("generate slug", err)
	}
	return sl, nil
}

// resolveCategories parses refs and checks that each names a category of
// this kind. Duplicates are collapsed.
func (s *Service) resolveCategories(ctx context.Context, refs []models.CategoryRef) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(refs))
	seen := make(map[primitive.ObjectID]bool, len(refs))
	for _, ref := range refs {
		oid, err := ref.ObjectID()
		if err != nil {
			return nil, apperr.BadRequest(fmt.Sprintf("category %q is not a valid id", ref.ID()))
		}
		if seen[oid] {
			continue
		}
		seen[oid] = true
		ok, err := s.categories.Exists(ctx, s.kind, oid)
		if err != nil {
			return nil, apperr.Database("check category", err)
		}
		if !ok {
			return nil, apperr.BadRequest(fmt.Sprintf("category %s does not exist", oid.Hex()))
		}
		ids = append(ids, oid)
	}
	return ids, nil
}

func (s *Service) danglingCategories(ctx context.Context, ids []primitive.ObjectID) ([]primitive.ObjectID, error) {
	var missing []primitive.ObjectID
	for _, id := range ids {
		ok, err := s.categories.Exists(ctx, s.kind, id)
		if err != nil {
			return nil, apperr.Database("check category", err)
		}
		if !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (s *Service) setProduct(c *models.Content, p *models.ProductDetails) error {
	if s.kind != models.KindProduct || p == nil {
		return nil
	}
	if p.Price < 0 {
		return apperr.BadRequest("price must not be negative")
	}
	c.Product = cleanProduct(p)
	return nil
}

func (s *Service) notFound() error {
	return apperr.NotFound(s.kind.Label() + " not found")
}

func checkLimits(c *models.Content) error {
	if res := inputval.ValidateAll(limitsOf(c)); res.HasErrors() {
		return apperr.Validation("invalid input", res.FieldErrors())
	}
	return nil
}

// notPublishable builds the validation error naming every blocking field.
func notPublishable(issues []publishcheck.Issue, dangling []primitive.ObjectID) error {
	fields := publishcheck.FieldErrors(issues)
	for _, id := range dangling {
		fields = append(fields, apperr.FieldError{
			Field:   "categories",
			Message: fmt.Sprintf("Category %s no longer exists.", id.Hex()),
		})
	}
	return apperr.Validation("cannot publish", fields)
}
