// Package slug derives URL-safe identifiers from article titles and category names.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify lowercases title, strips diacritics and joins the remaining
// [a-z0-9] runs with single hyphens. Distinct titles may collide.
func Slugify(title string) string {
	folded := fold(title)

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		if isAlnum(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// CategoryKey is the comparison form of a category: folded like Slugify but
// with every non-alphanumeric rune dropped ("Kultúra" -> "kultura").
func CategoryKey(category string) string {
	folded := fold(category)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if isAlnum(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
