// Package rollout generates quarterly glide paths from a client's current
// allocation mix to a target mix.
//
// The generated table moves each bucket's percentage linearly from its
// current value to its target across the requested quarter count. A user
// can bend the path by editing any single cell; the quarters after the edit
// re-interpolate toward the unchanged target, and the final quarter is
// always pinned to the target exactly.
package rollout

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Row is one quarter's percentage mix. Quarter indexes are 1-based in
// display; rows are stored in order.
type Row struct {
	// Quarter is the 1-based quarter number.
	Quarter int

	// Pcts maps bucket slug to the quarter's percentage, in percent form
	// (0 to 100).
	Pcts map[string]decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// SumEpsilon is the tolerance for the per-quarter 100% validation.
var SumEpsilon = decimal.NewFromFloat(0.05)

// Generate builds the initial glide path from current to target across
// quarterCount quarters. Quarter q's value for a bucket is
//
//	current + (target - current) * q / quarterCount
//
// independently per bucket, so the final quarter lands on the target
// exactly. Buckets missing from either mix default to zero on that side.
func Generate(current, target map[string]decimal.Decimal, quarterCount int, slugs []string) []Row {
	if quarterCount <= 0 {
		return nil
	}

	rows := make([]Row, quarterCount)
	qc := decimal.NewFromInt(int64(quarterCount))
	for i := range rows {
		rows[i] = Row{Quarter: i + 1, Pcts: map[string]decimal.Decimal{}}
		q := decimal.NewFromInt(int64(i + 1))
		for _, slug := range slugs {
			from := current[slug]
			to := target[slug]
			if i == len(rows)-1 {
				// Pin the final quarter to the stated target.
				rows[i].Pcts[slug] = to
				continue
			}
			rows[i].Pcts[slug] = from.Add(to.Sub(from).Mul(q).Div(qc))
		}
	}
	return rows
}

// RecalcFromEdit applies an edited cell value and re-interpolates the
// remaining path. Quarters before the edit are untouched; quarters after it
// glide linearly from the edited value to the final quarter's target, which
// stays pinned. Returns the rows unchanged when the indexes are out of
// range.
func RecalcFromEdit(rows []Row, quarterIdx int, slug string, value decimal.Decimal) []Row {
	last := len(rows) - 1
	if quarterIdx < 0 || quarterIdx > last {
		return rows
	}

	out := copyRows(rows)
	target := out[last].Pcts[slug]
	out[quarterIdx].Pcts[slug] = value

	if quarterIdx == last {
		// The final quarter never drifts from the target.
		out[last].Pcts[slug] = target
		return out
	}

	span := decimal.NewFromInt(int64(last - quarterIdx))
	for q := quarterIdx + 1; q < last; q++ {
		steps := decimal.NewFromInt(int64(q - quarterIdx))
		out[q].Pcts[slug] = value.Add(target.Sub(value).Mul(steps).Div(span))
	}
	out[last].Pcts[slug] = target
	return out
}

// Validate checks that every quarter's percentages total 100% within
// SumEpsilon. Returns one warning per offending quarter; the table is
// never auto-corrected.
func Validate(rows []Row) []string {
	var warnings []string
	for _, row := range rows {
		sum := decimal.Zero
		for _, pct := range row.Pcts {
			sum = sum.Add(pct)
		}
		if sum.Sub(hundred).Abs().GreaterThan(SumEpsilon) {
			warnings = append(warnings,
				fmt.Sprintf("quarter %d allocations total %s%%, not 100%%", row.Quarter, FormatPercent(sum)))
		}
	}
	return warnings
}

func copyRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, row := range rows {
		pcts := make(map[string]decimal.Decimal, len(row.Pcts))
		for slug, pct := range row.Pcts {
			pcts[slug] = pct
		}
		out[i] = Row{Quarter: row.Quarter, Pcts: pcts}
	}
	return out
}
