package chart

import (
	"strings"

	"golang.org/x/exp/slices"
)

// Merge combines bucket catalogs in priority order into one deduplicated
// catalog sorted by display name.
//
// Lists earlier in the argument order win: the first entry seen for a given
// canonical name or slug is kept and later collisions are dropped. Entries
// are normalized on the way in — a missing slug is derived from the name —
// and entries with neither a resolvable name nor slug are discarded. This
// guarantees no duplicate buckets survive combining a persisted catalog with
// the built-in default layout.
func Merge(lists ...[]Bucket) []Bucket {
	seenName := map[string]bool{}
	seenSlug := map[string]bool{}

	var merged []Bucket
	for _, list := range lists {
		for _, b := range list {
			b.Name = strings.TrimSpace(b.Name)
			b.Slug = strings.TrimSpace(b.Slug)

			if b.Slug == "" {
				b.Slug = Slugify(b.Name)
			}
			if b.Name == "" && b.Slug != "" {
				b.Name = displayNameFromSlug(b.Slug)
			}
			if b.Slug == "" {
				continue
			}

			name := Canonicalize(b.Name)
			if seenName[name] || seenSlug[b.Slug] {
				continue
			}
			seenName[name] = true
			seenSlug[b.Slug] = true
			merged = append(merged, b)
		}
	}

	slices.SortStableFunc(merged, func(a, b Bucket) int {
		return strings.Compare(a.Name, b.Name)
	})
	return merged
}

// displayNameFromSlug builds a fallback display label from a slug.
func displayNameFromSlug(slug string) string {
	words := strings.Split(slug, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
