package content

import (
	"strings"

	"github.com/dalemusser/stratasite/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stratasite/internal/app/system/markdown"
	"github.com/dalemusser/stratasite/internal/domain/models"
)

// Input is the payload for creating a post or product.
type Input struct {
	Title          string                 `json:"title"`
	Slug           string                 `json:"slug"`
	Content        string                 `json:"content"`
	ContentFormat  string                 `json:"content_format"` // html (default) or markdown
	Excerpt        string                 `json:"excerpt"`
	FeaturedImage  string                 `json:"featured_image"`
	Categories     []models.CategoryRef   `json:"categories"`
	Tags           []string               `json:"tags"`
	PublishType    models.PublishType     `json:"publish_type"`
	SEOTitle       string                 `json:"seo_title"`
	SEODescription string                 `json:"seo_description"`
	Product        *models.ProductDetails `json:"product"`
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Title          *string                `json:"title"`
	Slug           *string                `json:"slug"`
	Content        *string                `json:"content"`
	ContentFormat  string                 `json:"content_format"`
	Excerpt        *string                `json:"excerpt"`
	FeaturedImage  *string                `json:"featured_image"`
	Categories     *[]models.CategoryRef  `json:"categories"`
	Tags           *[]string              `json:"tags"`
	PublishType    *models.PublishType    `json:"publish_type"`
	SEOTitle       *string                `json:"seo_title"`
	SEODescription *string                `json:"seo_description"`
	Product        *models.ProductDetails `json:"product"`
}

// limits bounds the stored text fields of an entity.
type limits struct {
	Title          string `json:"title" validate:"max=200" label:"Title"`
	Excerpt        string `json:"excerpt" validate:"max=1000" label:"Excerpt"`
	FeaturedImage  string `json:"featured_image" validate:"max=2048" label:"Featured image"`
	SEOTitle       string `json:"seo_title" validate:"max=120" label:"SEO title"`
	SEODescription string `json:"seo_description" validate:"max=320" label:"SEO description"`
}

func limitsOf(c *models.Content) limits {
	return limits{
		Title:          c.Title,
		Excerpt:        c.Excerpt,
		FeaturedImage:  c.FeaturedImage,
		SEOTitle:       c.SEOTitle,
		SEODescription: c.SEODescription,
	}
}

// plain trims s and removes any markup.
func plain(s string) string {
	return strings.TrimSpace(htmlsanitize.StripTags(strings.TrimSpace(s)))
}

// richText converts the editor body to sanitized HTML.
func richText(body, format string) (string, error) {
	body = strings.TrimSpace(body)
	if format == string(markdown.FormatMarkdown) {
		html, err := markdown.ToHTML(body)
		if err != nil {
			return "", err
		}
		body = html
	}
	return htmlsanitize.Sanitize(body), nil
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = plain(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func cleanProduct(p *models.ProductDetails) *models.ProductDetails {
	if p == nil {
		return nil
	}
	out := *p
	out.SKU = strings.TrimSpace(out.SKU)
	out.Currency = strings.ToUpper(strings.TrimSpace(out.Currency))
	gallery := make([]string, 0, len(p.Gallery))
	for _, g := range p.Gallery {
		if g = strings.TrimSpace(g); g != "" {
			gallery = append(gallery, g)
		}
	}
	out.Gallery = gallery
	return &out
}
