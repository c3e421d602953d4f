package htmlsanitize

import (
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "plain text",
			input:    "Hello World",
			contains: []string{"Hello World"},
		},
		{
			name:     "safe HTML preserved",
			input:    "<p>Hello <strong>World</strong></p>",
			contains: []string{"<p>", "<strong>", "Hello", "World"},
		},
		{
			name:     "script tag removed",
			input:    "<p>Hello</p><script>alert('xss')</script>",
			contains: []string{"<p>Hello</p>"},
			excludes: []string{"<script", "alert"},
		},
		{
			name:     "onclick removed",
			input:    `<p onclick="alert('xss')">Click me</p>`,
			contains: []string{"<p>", "Click me"},
			excludes: []string{"onclick", "alert"},
		},
		{
			name:     "javascript URL removed",
			input:    `<a href="javascript:alert('xss')">Link</a>`,
			contains: []string{"Link"},
			excludes: []string{"javascript:", "alert"},
		},
		{
			name:     "safe link preserved",
			input:    `<a href="https://example.com">Link</a>`,
			contains: []string{"<a", "https://example.com", "nofollow", "Link"},
		},
		{
			name:     "table preserved",
			input:    "<table><tr><td colspan=\"2\">Cell</td></tr></table>",
			contains: []string{"<table>", "<tr>", "<td", "colspan", "Cell"},
		},
		{
			name:     "iframe removed",
			input:    `<iframe src="https://evil.com"></iframe><p>Content</p>`,
			contains: []string{"<p>Content</p>"},
			excludes: []string{"<iframe", "evil.com"},
		},
		{
			name:     "style element removed",
			input:    "<style>body{display:none}</style><p>Content</p>",
			contains: []string{"<p>Content</p>"},
			excludes: []string{"<style", "display:none"},
		},
		{
			name:     "onerror removed",
			input:    `<img src="/a.png" onerror="alert('xss')">`,
			contains: []string{"<img", "/a.png"},
			excludes: []string{"onerror", "alert"},
		},
		{
			name:     "svg onload removed",
			input:    `<svg onload="alert(1)"><circle/></svg><p>ok</p>`,
			contains: []string{"<p>ok</p>"},
			excludes: []string{"onload", "alert"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Sanitize(tt.input)
			for _, s := range tt.contains {
				if !strings.Contains(result, s) {
					t.Errorf("Sanitize() result should contain %q, got %q", s, result)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(result, s) {
					t.Errorf("Sanitize() result should NOT contain %q, got %q", s, result)
				}
			}
		})
	}
}

func TestSanitize_Empty(t *testing.T) {
	if got := Sanitize(""); got != "" {
		t.Errorf("Sanitize(\"\") = %q, want empty", got)
	}
}

func TestSanitize_NeverKeepsScriptOrHandlers(t *testing.T) {
	inputs := []string{
		`<SCRIPT>alert(1)</SCRIPT>`,
		`<scr<script>ipt>alert(1)</script>`,
		`<div onmouseover="x()">hi</div>`,
		`<img src=x OnError=alert(1)>`,
		`<body onload=alert(1)>`,
		`<a href="JaVaScRiPt:alert(1)">x</a>`,
	}
	for _, in := range inputs {
		out := strings.ToLower(Sanitize(in))
		if strings.Contains(out, "<script") {
			t.Errorf("Sanitize(%q) kept a script tag: %q", in, out)
		}
		for _, attr := range []string{"onmouseover", "onerror", "onload", "javascript:"} {
			if strings.Contains(out, attr) {
				t.Errorf("Sanitize(%q) kept %q: %q", in, attr, out)
			}
		}
	}
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "Hello there", "Hello there"},
		{"ampersand kept", "Tom & Jerry", "Tom & Jerry"},
		{"less-than kept", "a < b", "a < b"},
		{"formatting removed", "<b>Bold</b> and <i>italic</i>", "Bold and italic"},
		{"script removed with content", "Hi<script>alert(1)</script>", "Hi"},
		{"encoded markup removed", "&lt;script&gt;alert(1)&lt;/script&gt;Hi", "Hi"},
		{"link text kept", `<a href="https://x.test">site</a>`, "site"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripTags(tt.input); got != tt.want {
				t.Errorf("StripTags(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestText(t *testing.T) {
	if got := Text("<p>   </p><br>"); got != "" {
		t.Errorf("Text(empty markup) = %q, want empty", got)
	}
	if got := Text("<p> Body </p>"); got != "Body" {
		t.Errorf("Text() = %q, want Body", got)
	}
}

func TestIsPlainText(t *testing.T) {
	tests := []struct {
		content string
		want    bool
	}{
		{"", true},
		{"Hello World", true},
		{"<p>Has tags</p>", false},
		{"Has < but no closing", true},
		{"Has > but no opening", true},
	}
	for _, tt := range tests {
		if got := IsPlainText(tt.content); got != tt.want {
			t.Errorf("IsPlainText(%q) = %v, want %v", tt.content, got, tt.want)
		}
	}
}

func TestPlainTextToHTML(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"Hello", "<p>Hello</p>"},
		{"Line 1\nLine 2", "<p>Line 1<br>Line 2</p>"},
		{"One\n\nTwo", "<p>One</p><p>Two</p>"},
		{"a < b", "<p>a &lt; b</p>"},
	}
	for _, tt := range tests {
		if got := PlainTextToHTML(tt.input); got != tt.want {
			t.Errorf("PlainTextToHTML(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRichText(t *testing.T) {
	if got := RichText("   "); got != "" {
		t.Errorf("RichText(blank) = %q, want empty", got)
	}
	if got := RichText("Hello"); got != "<p>Hello</p>" {
		t.Errorf("RichText(plain) = %q", got)
	}
	got := RichText("<p>Hi</p><script>x()</script>")
	if strings.Contains(got, "script") || !strings.Contains(got, "<p>Hi</p>") {
		t.Errorf("RichText(html) = %q", got)
	}
}
