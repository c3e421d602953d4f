// Package publishcheck decides whether a post or product may be published.
//
// Validate returns every finding at once. Error findings block publishing;
// warning findings are shown to the editor but never block.
package publishcheck

import (
	"strings"

	"github.com/dalemusser/stratasite/internal/app/system/apperr"
	"github.com/dalemusser/stratasite/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stratasite/internal/app/system/slug"
	"github.com/dalemusser/stratasite/internal/domain/models"
)

// Severity separates blockers from recommendations.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding about one field.
type Issue struct {
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Validate inspects c and returns its findings, errors first, in a fixed
// field order. It performs no I/O; category existence is checked by the caller.
func Validate(c *models.Content) []Issue {
	var issues []Issue
	blocker := func(field, msg string) {
		issues = append(issues, Issue{Field: field, Message: msg, Severity: SeverityError})
	}
	hint := func(field, msg string) {
		issues = append(issues, Issue{Field: field, Message: msg, Severity: SeverityWarning})
	}

	bodyLabel := "Content"
	excerptLabel := "an excerpt"
	imageLabel := "a featured image"
	if c.Kind == models.KindProduct {
		bodyLabel = "Description"
		excerptLabel = "a short description"
		imageLabel = "a primary image"
	}

	if strings.TrimSpace(c.Title) == "" {
		blocker("title", "Title is required.")
	}
	switch {
	case c.Slug == "":
		blocker("slug", "Slug is required.")
	case !slug.IsValid(c.Slug):
		blocker("slug", "Slug may only contain lower-case letters, digits and single hyphens.")
	}
	if htmlsanitize.Text(c.Body) == "" {
		blocker("content", bodyLabel+" is required.")
	}

	if strings.TrimSpace(c.Excerpt) == "" {
		hint("excerpt", "Add "+excerptLabel+" for listings and previews.")
	}
	if strings.TrimSpace(c.FeaturedImage) == "" {
		hint("featured_image", "Add "+imageLabel+".")
	}
	if strings.TrimSpace(c.SEOTitle) == "" {
		hint("seo_title", "Add an SEO title for search results.")
	}
	if strings.TrimSpace(c.SEODescription) == "" {
		hint("seo_description", "Add an SEO description for search results.")
	}

	return issues
}

// Errors returns the blocking findings.
func Errors(issues []Issue) []Issue {
	return filter(issues, SeverityError)
}

// Warnings returns the non-blocking findings.
func Warnings(issues []Issue) []Issue {
	return filter(issues, SeverityWarning)
}

// HasErrors reports whether any finding blocks publishing.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// FieldErrors converts blocking findings into apperr field errors.
func FieldErrors(issues []Issue) []apperr.FieldError {
	errs := Errors(issues)
	out := make([]apperr.FieldError, len(errs))
	for i, e := range errs {
		out[i] = apperr.FieldError{Field: e.Field, Message: e.Message}
	}
	return out
}

func filter(issues []Issue, s Severity) []Issue {
	var out []Issue
	for _, i := range issues {
		if i.Severity == s {
			out = append(out, i)
		}
	}
	return out
}
