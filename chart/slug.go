package chart

import (
	"fmt"
	"strings"
	"unicode"
)

// Slugify derives a canonical slug from a display name: lowercase, runs of
// non-alphanumerics collapsed to single underscores, leading and trailing
// underscores trimmed.
func Slugify(name string) string {
	var b strings.Builder
	lastUnderscore := true // swallow leading separators
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.TrimRight(b.String(), "_")
}

// UniqueSlug derives a slug from name that does not collide with any slug in
// taken, appending a numeric suffix ("_2", "_3", ...) until unique.
func UniqueSlug(name string, taken map[string]bool) string {
	base := Slugify(name)
	if base == "" {
		base = "bucket"
	}
	if !taken[base] {
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d", base, n)
		if !taken[candidate] {
			return candidate
		}
	}
}

// Canonicalize normalizes a name or slug for duplicate detection across
// spelling variants: lowercase, "&" becomes "and", non-alphanumerics become
// spaces, a trailing plural "s" is softened off each word, and whitespace
// collapses.
func Canonicalize(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "&", " and ")

	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	words := strings.Fields(b.String())
	for i, w := range words {
		// Plural softening so "expenses" matches "expense".
		if len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") {
			words[i] = w[:len(w)-1]
		}
	}
	return strings.Join(words, " ")
}
