// Package markdown converts editor Markdown into HTML.
//
// The output is not trusted: callers pass it through htmlsanitize.Sanitize
// before storing it, the same as HTML submitted directly.
package markdown

import (
	"bytes"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

var (
	md     goldmark.Markdown
	mdOnce sync.Once
)

func converter() goldmark.Markdown {
	mdOnce.Do(func() {
		md = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Typographer,
			),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		)
	})
	return md
}

// ToHTML renders src as HTML. Raw HTML inside the Markdown is omitted.
func ToHTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := converter().Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Format names how editor content is encoded.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// IsValidFormat reports whether f is a supported format. Empty means HTML.
func IsValidFormat(f string) bool {
	return f == "" || f == string(FormatHTML) || f == string(FormatMarkdown)
}
