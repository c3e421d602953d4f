// Package slug builds URL-safe identifiers from titles.
//
// A slug is lower-case ASCII letters and digits separated by single hyphens.
// Accented and compatibility characters are folded to their ASCII base
// ("Crème brûlée" -> "creme-brulee", "CO₂" -> "co2") before everything else
// is collapsed into hyphens.
package slug

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fallback is the base used when a title yields no slug characters at all.
const Fallback = "untitled"

var validPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Letters that NFKD does not decompose into an ASCII base.
var transliterations = map[rune]string{
	'ß': "ss",
	'æ': "ae", 'Æ': "ae",
	'ø': "o", 'Ø': "o",
	'đ': "d", 'Đ': "d",
	'ð': "d", 'Ð': "d",
	'ł': "l", 'Ł': "l",
	'þ': "th", 'Þ': "th",
	'œ': "oe", 'Œ': "oe",
	'ı': "i",
}

// Generate derives a slug from a title. It may return "" when the title has
// no letters or digits.
func Generate(title string) string {
	return Normalize(title)
}

// Normalize applies slug normalization to any string, including a slug the
// caller typed. Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	folded := fold(s)

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}

// fold lower-cases s and reduces it to ASCII where a base letter exists.
func fold(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}

	var b strings.Builder
	b.Grow(len(out))
	for _, r := range out {
		if repl, ok := transliterations[r]; ok {
			b.WriteString(repl)
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// IsValid reports whether s is a well-formed slug.
func IsValid(s string) bool {
	return validPattern.MatchString(s)
}

// ExistsFunc reports whether a slug is already taken.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Unique returns base if it is free, otherwise the first free base-2, base-3, ...
// There is no upper bound on the suffix; the loop ends when a free slug is
// found, exists fails, or ctx is done.
func Unique(ctx context.Context, base string, exists ExistsFunc) (string, error) {
	if base == "" {
		base = Fallback
	}

	taken, err := exists(ctx, base)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}

	for n := 2; ; n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		candidate := base + "-" + strconv.Itoa(n)
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}
