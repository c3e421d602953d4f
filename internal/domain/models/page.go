// internal/domain/models/page.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PageDocument is a structured site page (home, privacy, team, store, FAQ).
// The rendering layer lays out its sections; this service stores them.
type PageDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Slug     string             `bson:"slug" json:"slug"`
	Title    string             `bson:"title" json:"title"`
	Sections []PageSection      `bson:"sections" json:"sections"`

	SEOTitle       string `bson:"seo_title,omitempty" json:"seo_title,omitempty"`
	SEODescription string `bson:"seo_description,omitempty" json:"seo_description,omitempty"`

	UpdatedAt     *time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	UpdatedByID   *primitive.ObjectID `bson:"updated_by_id,omitempty" json:"updated_by_id,omitempty"`
	UpdatedByName string              `bson:"updated_by_name,omitempty" json:"updated_by_name,omitempty"`
}

// PageSection is one block of a page: a hero, a text block, a list of team
// members, a list of FAQ entries, ...
type PageSection struct {
	Key     string     `bson:"key" json:"key" yaml:"key"`
	Type    string     `bson:"type" json:"type" yaml:"type"`
	Heading string     `bson:"heading,omitempty" json:"heading,omitempty" yaml:"heading"`
	Body    string     `bson:"body,omitempty" json:"body,omitempty" yaml:"body"` // sanitized HTML
	Items   []PageItem `bson:"items,omitempty" json:"items,omitempty" yaml:"items"`
}

// PageItem is an entry within a section. For FAQ sections Title is the
// question and Body the answer.
type PageItem struct {
	Title string `bson:"title" json:"title" yaml:"title"`
	Body  string `bson:"body,omitempty" json:"body,omitempty" yaml:"body"`
	Image string `bson:"image,omitempty" json:"image,omitempty" yaml:"image"`
	Link  string `bson:"link,omitempty" json:"link,omitempty" yaml:"link"`
}

// Page slugs
const (
	PageSlugHome    = "home"
	PageSlugPrivacy = "privacy"
	PageSlugTeam    = "team"
	PageSlugStore   = "store"
	PageSlugFAQ     = "faq"
)

// AllPageSlugs returns all valid page slugs.
func AllPageSlugs() []string {
	return []string{
		PageSlugHome,
		PageSlugPrivacy,
		PageSlugTeam,
		PageSlugStore,
		PageSlugFAQ,
	}
}

// IsValidPageSlug checks if a slug is valid.
func IsValidPageSlug(slug string) bool {
	for _, s := range AllPageSlugs() {
		if s == slug {
			return true
		}
	}
	return false
}
