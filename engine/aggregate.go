package engine

import (
	"github.com/shopspring/decimal"

	"github.com/triumphsolutions/pf-forecast/chart"
	"github.com/triumphsolutions/pf-forecast/period"
)

// Derived bucket values are never stored; they are recomputed from the
// actual buckets on every read. The derivation graph is fixed at two
// levels (actuals feed direct_costs_total, which feeds real_revenue) so
// non-termination is structurally impossible.

// DirectCostsTotal returns the summed direct-cost activity for a period:
// materials, direct labor, direct subcontractors and cost of goods sold.
func DirectCostsTotal(outflows *Totals, p period.Key) decimal.Decimal {
	total := decimal.Zero
	for _, slug := range chart.DirectCostSlugs() {
		total = total.Add(outflows.Get(p, slug))
	}
	return total
}

// RealRevenue returns income minus direct costs for a period, clamped at
// zero. Allocation percentages never apply to a negative revenue base.
func RealRevenue(flows *Flows, p period.Key) decimal.Decimal {
	income := flows.Inflows.Get(p, chart.SlugIncome)
	revenue := income.Sub(DirectCostsTotal(flows.Outflows, p))
	if revenue.IsNegative() {
		return decimal.Zero
	}
	return revenue
}

// Aggregate returns a copy of the outflow-side table with the derived
// buckets filled in per period: direct_costs_total and real_revenue.
// Derived cells overwrite anything a caller may have stored under the
// derived slugs; derived buckets are always live values.
func Aggregate(flows *Flows) *Totals {
	combined := flows.Outflows.Copy()

	periods := map[period.Key]bool{}
	for _, p := range flows.Inflows.Periods() {
		periods[p] = true
	}
	for _, p := range flows.Outflows.Periods() {
		periods[p] = true
	}

	for p := range periods {
		combined.Set(p, chart.SlugIncome, flows.Inflows.Get(p, chart.SlugIncome))
		combined.Set(p, chart.SlugDirectCostsTotal, DirectCostsTotal(flows.Outflows, p))
		combined.Set(p, chart.SlugRealRevenue, RealRevenue(flows, p))
	}
	return combined
}
