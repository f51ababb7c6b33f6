package chart

import "regexp"

// SuggestionRule maps a label keyword pattern to a canonical bucket name.
// Rules are evaluated in order and the first match wins, which makes the
// resolver's tie-break behavior part of its contract.
type SuggestionRule struct {
	// Pattern matches case-insensitively against the raw row label.
	Pattern *regexp.Regexp

	// Target is the canonical display name of the suggested bucket.
	Target string

	// Direction restricts the rule to rows flowing a particular way.
	// DirectionAny applies regardless of flow.
	Direction Direction
}

// SuggestionRules is the ordered rule table used by Suggest. First match
// wins, so rule order is part of the contract: "Owner Draw" hits the owner
// rule before the generic expense rule.
var SuggestionRules = []SuggestionRule{
	{regexp.MustCompile(`(?i)income|revenue|sales|fees`), "Income", DirectionInflow},
	{regexp.MustCompile(`(?i)material|inventory|cogs|cost of goods|supply|supplies`), "Materials", DirectionOutflow},
	{regexp.MustCompile(`(?i)labor|payroll|wages|contractor`), "Direct Labor", DirectionOutflow},
	{regexp.MustCompile(`(?i)owner|member|partner|draw|equity`), "Owner's Pay", DirectionAny},
	{regexp.MustCompile(`(?i)tax|irs`), "Tax", DirectionAny},
	{regexp.MustCompile(`(?i)profit|retained`), "Profit", DirectionAny},
	{regexp.MustCompile(`(?i)rent|utilit|insurance|subscription|marketing|expense`), "Operating Expenses", DirectionOutflow},
}

// Suggest proposes a catalog bucket for a free-text row label. It walks the
// rule table in order and resolves the first matching rule's target against
// the caller's catalog. Returns false when no rule matches or the matched
// target has no catalog counterpart; the caller then falls back to a default
// bucket (see DefaultBucket) or leaves the row unassigned.
func Suggest(label string, direction Direction, catalog []Bucket) (string, bool) {
	for _, rule := range SuggestionRules {
		if rule.Direction != DirectionAny && direction != DirectionAny && rule.Direction != direction {
			continue
		}
		if !rule.Pattern.MatchString(label) {
			continue
		}
		return resolveTarget(rule.Target, catalog)
	}
	return "", false
}

// resolveTarget finds the catalog entry matching a canonical bucket name:
// exact slug match first, then canonicalized slug, then canonicalized
// display name.
func resolveTarget(target string, catalog []Bucket) (string, bool) {
	slug := Slugify(target)
	for _, b := range catalog {
		if b.Slug == slug {
			return b.Slug, true
		}
	}

	canonical := Canonicalize(target)
	for _, b := range catalog {
		if Canonicalize(b.Slug) == canonical {
			return b.Slug, true
		}
	}
	for _, b := range catalog {
		if Canonicalize(b.Name) == canonical {
			return b.Slug, true
		}
	}
	return "", false
}

// DefaultBucket returns the fallback slug for an unresolvable row: Income
// for inflows, Operating Expenses for outflows. Returns false for
// DirectionAny, which has no sensible default.
func DefaultBucket(direction Direction) (string, bool) {
	switch direction {
	case DirectionInflow:
		return SlugIncome, true
	case DirectionOutflow:
		return SlugOperatingExpenses, true
	default:
		return "", false
	}
}
