// Package slug derives URL-safe identifiers from recipe titles.
package slug

import (
	"math/rand"
	"strings"
	"unicode"
)

const fallbackLength = 5

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// Make turns a title into a lowercase, hyphenated, URL-safe slug.
// Characters outside [a-z0-9\s-] are stripped, whitespace runs become a
// single hyphen, and hyphen runs are collapsed. A title with no usable
// characters yields a random base-36 fallback so the result is never empty.
//
// Uniqueness is not checked here; the store's unique index on the slug
// column is the only collision defense.
func Make(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			b.WriteByte('-')
		}
	}

	out := collapseHyphens(b.String())
	if out == "" {
		return randomSlug()
	}
	return out
}

// collapseHyphens reduces hyphen runs to a single hyphen and trims
// leading and trailing hyphens.
func collapseHyphens(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevHyphen := false
	for _, r := range s {
		if r == '-' {
			prevHyphen = true
			continue
		}
		if prevHyphen && b.Len() > 0 {
			b.WriteByte('-')
		}
		prevHyphen = false
		b.WriteRune(r)
	}
	return b.String()
}

func randomSlug() string {
	b := make([]byte, fallbackLength)
	for i := range b {
		b[i] = base36[rand.Intn(len(base36))]
	}
	return string(b)
}
