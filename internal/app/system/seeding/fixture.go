package seeding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	categorystore "github.com/dalemusser/stratasite/internal/app/store/categories"
	pagestore "github.com/dalemusser/stratasite/internal/app/store/pages"
	"github.com/dalemusser/stratasite/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stratasite/internal/app/system/slug"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Fixture is a YAML seed file:
//
//	categories:
//	  - kind: post
//	    name: News
//	pages:
//	  - slug: faq
//	    title: FAQ
//	    sections:
//	      - key: questions
//	        type: faq
//	        items:
//	          - title: Do you ship abroad?
//	            body: Yes.
type Fixture struct {
	Categories []FixtureCategory `yaml:"categories"`
	Pages      []FixturePage     `yaml:"pages"`
}

// FixtureCategory is one category entry. A blank slug is derived from the name.
type FixtureCategory struct {
	Kind        models.ContentKind `yaml:"kind"`
	Name        string             `yaml:"name"`
	Slug        string             `yaml:"slug"`
	Description string             `yaml:"description"`
}

// FixturePage is one page document entry.
type FixturePage struct {
	Slug           string               `yaml:"slug"`
	Title          string               `yaml:"title"`
	Sections       []models.PageSection `yaml:"sections"`
	SEOTitle       string               `yaml:"seo_title"`
	SEODescription string               `yaml:"seo_description"`
}

// FixtureResult counts what ApplyFixture wrote.
type FixtureResult struct {
	Categories int
	Pages      int
	Skipped    int
}

// LoadFixture reads and validates a fixture file.
func LoadFixture(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeFixture(f)
}

// DecodeFixture parses a fixture. Unknown keys are rejected.
func DecodeFixture(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var fx Fixture
	if err := dec.Decode(&fx); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if err := fx.validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

func (fx *Fixture) validate() error {
	for i, c := range fx.Categories {
		if !models.IsValidContentKind(string(c.Kind)) {
			return fmt.Errorf("categories[%d]: kind must be post or product", i)
		}
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("categories[%d]: name is required", i)
		}
	}
	for i, p := range fx.Pages {
		if !models.IsValidPageSlug(p.Slug) {
			return fmt.Errorf("pages[%d]: unknown page slug %q", i, p.Slug)
		}
		if strings.TrimSpace(p.Title) == "" {
			return fmt.Errorf("pages[%d]: title is required", i)
		}
	}
	return nil
}

// ApplyFixture writes fx. Categories whose slug already exists are skipped.
// Pages are inserted when missing, or replaced when overwrite is set.
func ApplyFixture(ctx context.Context, db *mongo.Database, fx *Fixture, overwrite bool, logger *zap.Logger) (FixtureResult, error) {
	var res FixtureResult
	cats := categorystore.New(db)
	pages := pagestore.New(db)

	for _, c := range fx.Categories {
		s := c.Slug
		if s == "" {
			s = c.Name
		}
		_, err := cats.Create(ctx, models.Category{
			Kind:        c.Kind,
			Name:        strings.TrimSpace(c.Name),
			Slug:        slug.Normalize(s),
			Description: strings.TrimSpace(c.Description),
		})
		switch {
		case errors.Is(err, categorystore.ErrDuplicateSlug):
			res.Skipped++
		case err != nil:
			return res, fmt.Errorf("category %q: %w", c.Name, err)
		default:
			res.Categories++
		}
	}

	for _, p := range fx.Pages {
		doc := p.document()
		if overwrite {
			if _, err := pages.Upsert(ctx, doc); err != nil {
				return res, fmt.Errorf("page %q: %w", p.Slug, err)
			}
			res.Pages++
			continue
		}
		inserted, err := pages.InsertIfMissing(ctx, doc)
		if err != nil {
			return res, fmt.Errorf("page %q: %w", p.Slug, err)
		}
		if inserted {
			res.Pages++
		} else {
			res.Skipped++
		}
	}

	logger.Info("fixture applied",
		zap.Int("categories", res.Categories),
		zap.Int("pages", res.Pages),
		zap.Int("skipped", res.Skipped))
	return res, nil
}

// document converts p into a stored page, sanitizing every HTML body.
func (p FixturePage) document() models.PageDocument {
	sections := make([]models.PageSection, len(p.Sections))
	for i, s := range p.Sections {
		s.Body = htmlsanitize.RichText(s.Body)
		for j := range s.Items {
			s.Items[j].Body = htmlsanitize.RichText(s.Items[j].Body)
		}
		sections[i] = s
	}
	return models.PageDocument{
		Slug:           p.Slug,
		Title:          strings.TrimSpace(p.Title),
		Sections:       sections,
		SEOTitle:       p.SEOTitle,
		SEODescription: p.SEODescription,
		UpdatedByName:  "seed",
	}
}
