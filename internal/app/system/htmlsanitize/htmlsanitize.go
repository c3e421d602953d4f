// Package htmlsanitize cleans editor and visitor input before it is stored.
//
// Rich text (post bodies, product descriptions, page sections) goes through
// Sanitize, which keeps formatting and drops anything that can execute.
// Visitor free text (form messages, names) goes through StripTags, which
// keeps no markup at all.
package htmlsanitize

import (
	"html"
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richPolicy *bluemonday.Policy
	richOnce   sync.Once

	strictPolicy *bluemonday.Policy
	strictOnce   sync.Once
)

// maxStripPasses bounds StripTags' unescape/strip loop.
const maxStripPasses = 5

func getRichPolicy() *bluemonday.Policy {
	richOnce.Do(func() {
		richPolicy = bluemonday.UGCPolicy()

		// Tables from the editor's table extension
		richPolicy.AllowElements("table", "thead", "tbody", "tfoot", "tr", "th", "td", "caption")
		richPolicy.AllowAttrs("colspan", "rowspan").OnElements("th", "td")
		richPolicy.AllowAttrs("class").OnElements("table", "th", "td", "tr")
		richPolicy.AllowAttrs("style").OnElements("table", "th", "td")

		richPolicy.AllowElements("u", "s", "sub", "sup", "mark", "figure", "figcaption")
		richPolicy.AllowDataAttributes()

		// Outbound links open safely
		richPolicy.RequireNoFollowOnLinks(true)
		richPolicy.AddTargetBlankToFullyQualifiedLinks(true)
	})
	return richPolicy
}

func getStrictPolicy() *bluemonday.Policy {
	strictOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// Sanitize removes scripts, event handlers, javascript: URLs and other
// executable content while preserving formatting, links, images and tables.
func Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	return getRichPolicy().Sanitize(raw)
}

// StripTags removes every tag and returns plain text with entities decoded.
// Entity-encoded markup ("&lt;script&gt;") is decoded and stripped again,
// so no tag survives in the output.
func StripTags(raw string) string {
	if raw == "" {
		return ""
	}
	cur := raw
	for i := 0; i < maxStripPasses; i++ {
		next := html.UnescapeString(getStrictPolicy().Sanitize(cur))
		if next == cur {
			break
		}
		cur = next
	}
	return cur
}

// Text returns the visible text of an HTML fragment, trimmed.
// An empty result means the fragment has no readable content.
func Text(fragment string) string {
	return strings.TrimSpace(StripTags(fragment))
}

// IsPlainText checks if content appears to be plain text (no HTML tags).
func IsPlainText(content string) bool {
	if content == "" {
		return true
	}
	return !strings.Contains(content, "<") || !strings.Contains(content, ">")
}

// PlainTextToHTML escapes text and turns blank-line separated blocks into
// paragraphs and single newlines into <br>.
func PlainTextToHTML(text string) string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return ""
	}
	var b strings.Builder
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		escaped := template.HTMLEscapeString(para)
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(escaped, "\n", "<br>"))
		b.WriteString("</p>")
	}
	return b.String()
}

// RichText prepares editor input for storage: plain text becomes paragraphs,
// HTML is sanitized.
func RichText(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	if IsPlainText(content) {
		return PlainTextToHTML(content)
	}
	return Sanitize(content)
}
