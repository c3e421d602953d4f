// internal/domain/models/content.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContentKind identifies which collection a content entity lives in.
// Blog posts and products share one publication workflow.
type ContentKind string

const (
	KindPost    ContentKind = "post"
	KindProduct ContentKind = "product"
)

// Collection returns the MongoDB collection that stores entities of this kind.
func (k ContentKind) Collection() string {
	switch k {
	case KindProduct:
		return "products"
	default:
		return "posts"
	}
}

// Label returns a human-readable name for messages ("post", "product").
func (k ContentKind) Label() string {
	return string(k)
}

// AllContentKinds returns every content kind.
func AllContentKinds() []ContentKind {
	return []ContentKind{KindPost, KindProduct}
}

// IsValidContentKind reports whether k is a known content kind.
func IsValidContentKind(k string) bool {
	return k == string(KindPost) || k == string(KindProduct)
}

// PublishType is the lifecycle state of a content entity.
type PublishType string

const (
	PublishDraft   PublishType = "draft"
	PublishPending PublishType = "pending"
	PublishPublish PublishType = "publish"
	PublishPrivate PublishType = "private"
)

// AllPublishTypes returns every lifecycle state in display order.
func AllPublishTypes() []PublishType {
	return []PublishType{PublishDraft, PublishPending, PublishPublish, PublishPrivate}
}

// IsValidPublishType reports whether s names a lifecycle state.
func IsValidPublishType(s string) bool {
	for _, t := range AllPublishTypes() {
		if string(t) == s {
			return true
		}
	}
	return false
}

// Content is a blog post or a product.
//
// Body holds sanitized HTML: the post body or the product description.
// Excerpt is the post excerpt or the product's short description.
type Content struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Kind ContentKind        `bson:"kind" json:"kind"`

	Title         string               `bson:"title" json:"title"`
	Slug          string               `bson:"slug" json:"slug"`
	Body          string               `bson:"body" json:"body"`
	Excerpt       string               `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	FeaturedImage string               `bson:"featured_image,omitempty" json:"featured_image,omitempty"`
	Categories    []primitive.ObjectID `bson:"categories" json:"categories"`
	Tags          []string             `bson:"tags,omitempty" json:"tags,omitempty"`

	PublishType PublishType `bson:"publish_type" json:"publish_type"`
	PublishedAt *time.Time  `bson:"published_at,omitempty" json:"published_at,omitempty"`

	SEOTitle       string `bson:"seo_title,omitempty" json:"seo_title,omitempty"`
	SEODescription string `bson:"seo_description,omitempty" json:"seo_description,omitempty"`

	AuthorID *primitive.ObjectID `bson:"author_id,omitempty" json:"author_id,omitempty"`

	// Product is set only for KindProduct.
	Product *ProductDetails `bson:"product,omitempty" json:"product,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ProductDetails carries the catalog payload of a product.
type ProductDetails struct {
	SKU      string   `bson:"sku,omitempty" json:"sku,omitempty"`
	Price    float64  `bson:"price" json:"price"`
	Currency string   `bson:"currency,omitempty" json:"currency,omitempty"`
	Gallery  []string `bson:"gallery,omitempty" json:"gallery,omitempty"`
	InStock  bool     `bson:"in_stock" json:"in_stock"`
}

// ContentChanges lists the fields an update sets. Nil fields are left as is.
type ContentChanges struct {
	Title          *string
	Slug           *string
	Body           *string
	Excerpt        *string
	FeaturedImage  *string
	Categories     *[]primitive.ObjectID
	Tags           *[]string
	PublishType    *PublishType
	PublishedAt    *time.Time
	SEOTitle       *string
	SEODescription *string
	Product        *ProductDetails
}

// IsEmpty reports whether the changes set nothing.
func (ch ContentChanges) IsEmpty() bool {
	return ch.Title == nil && ch.Slug == nil && ch.Body == nil && ch.Excerpt == nil &&
		ch.FeaturedImage == nil && ch.Categories == nil && ch.Tags == nil &&
		ch.PublishType == nil && ch.PublishedAt == nil && ch.SEOTitle == nil &&
		ch.SEODescription == nil && ch.Product == nil
}

// Apply writes the set fields onto c.
func (ch ContentChanges) Apply(c *Content) {
	if ch.Title != nil {
		c.Title = *ch.Title
	}
	if ch.Slug != nil {
		c.Slug = *ch.Slug
	}
	if ch.Body != nil {
		c.Body = *ch.Body
	}
	if ch.Excerpt != nil {
		c.Excerpt = *ch.Excerpt
	}
	if ch.FeaturedImage != nil {
		c.FeaturedImage = *ch.FeaturedImage
	}
	if ch.Categories != nil {
		c.Categories = append([]primitive.ObjectID(nil), (*ch.Categories)...)
	}
	if ch.Tags != nil {
		c.Tags = append([]string(nil), (*ch.Tags)...)
	}
	if ch.PublishType != nil {
		c.PublishType = *ch.PublishType
	}
	if ch.PublishedAt != nil {
		t := *ch.PublishedAt
		c.PublishedAt = &t
	}
	if ch.SEOTitle != nil {
		c.SEOTitle = *ch.SEOTitle
	}
	if ch.SEODescription != nil {
		c.SEODescription = *ch.SEODescription
	}
	if ch.Product != nil {
		p := *ch.Product
		c.Product = &p
	}
}

// ContentFilter narrows admin and public content listings.
type ContentFilter struct {
	PublishType PublishType         // empty means any state
	CategoryID  *primitive.ObjectID // nil means any category
	Search      string              // folded substring match on title
	Limit       int64
	Page        int64 // 1-based
}
