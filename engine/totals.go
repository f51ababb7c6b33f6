// Package engine contains the forecast computation core: period/bucket
// aggregation with derived buckets, and the allocation roll-forward that
// carries bucket balances across the horizon.
//
// Everything here is pure. Amounts are positive magnitudes; whether a number
// is money coming in or going out is carried by which table it sits in, not
// by its sign.
package engine

import (
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/triumphsolutions/pf-forecast/period"
)

// Totals is a per-period, per-bucket amount table.
type Totals struct {
	cells map[period.Key]map[string]decimal.Decimal
}

// NewTotals creates an empty totals table.
func NewTotals() *Totals {
	return &Totals{cells: map[period.Key]map[string]decimal.Decimal{}}
}

// Add accumulates an amount into a period/bucket cell.
func (t *Totals) Add(p period.Key, slug string, amount decimal.Decimal) {
	row, ok := t.cells[p]
	if !ok {
		row = map[string]decimal.Decimal{}
		t.cells[p] = row
	}
	row[slug] = row[slug].Add(amount)
}

// Set overwrites a period/bucket cell.
func (t *Totals) Set(p period.Key, slug string, amount decimal.Decimal) {
	row, ok := t.cells[p]
	if !ok {
		row = map[string]decimal.Decimal{}
		t.cells[p] = row
	}
	row[slug] = amount
}

// Get returns the amount for a period/bucket cell, or zero.
func (t *Totals) Get(p period.Key, slug string) decimal.Decimal {
	if t == nil {
		return decimal.Zero
	}
	return t.cells[p][slug]
}

// Merge adds every cell of other into this table.
func (t *Totals) Merge(other *Totals) {
	if other == nil {
		return
	}
	for p, row := range other.cells {
		for slug, amount := range row {
			t.Add(p, slug, amount)
		}
	}
}

// Periods returns the period keys present in the table, in calendar order.
func (t *Totals) Periods() []period.Key {
	keys := make([]period.Key, 0, len(t.cells))
	for p := range t.cells {
		keys = append(keys, p)
	}
	period.Sort(keys)
	return keys
}

// Slugs returns the bucket slugs present in the table, sorted.
func (t *Totals) Slugs() []string {
	seen := map[string]bool{}
	var slugs []string
	for _, row := range t.cells {
		for slug := range row {
			if !seen[slug] {
				seen[slug] = true
				slugs = append(slugs, slug)
			}
		}
	}
	slices.Sort(slugs)
	return slugs
}

// Copy returns a deep copy of the table.
func (t *Totals) Copy() *Totals {
	copied := NewTotals()
	copied.Merge(t)
	return copied
}

// Flows pairs the two directions of projected and historical activity.
// Inflows holds revenue-side magnitudes, Outflows holds spend-side
// magnitudes; both are keyed by period and bucket slug.
type Flows struct {
	Inflows  *Totals
	Outflows *Totals
}

// NewFlows creates an empty flow pair.
func NewFlows() *Flows {
	return &Flows{Inflows: NewTotals(), Outflows: NewTotals()}
}

// Merge adds both sides of other into this pair.
func (f *Flows) Merge(other *Flows) {
	if other == nil {
		return
	}
	f.Inflows.Merge(other.Inflows)
	f.Outflows.Merge(other.Outflows)
}
