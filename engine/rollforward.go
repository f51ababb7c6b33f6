package engine

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/triumphsolutions/pf-forecast/chart"
	"github.com/triumphsolutions/pf-forecast/period"
)

// AllocationEpsilon is the tolerance used when checking that a client's
// allocation percentages total 100%.
var AllocationEpsilon = decimal.NewFromFloat(0.001)

// AllocationSet holds the percentage mix effective from a given date.
// Percentages are fractions in [0, 1] keyed by bucket slug.
type AllocationSet struct {
	Effective time.Time
	pcts      map[string]decimal.Decimal
}

// NewAllocationSet creates an allocation set from a slug/fraction map.
func NewAllocationSet(effective time.Time, pcts map[string]decimal.Decimal) AllocationSet {
	copied := make(map[string]decimal.Decimal, len(pcts))
	for slug, pct := range pcts {
		copied[slug] = pct
	}
	return AllocationSet{Effective: effective, pcts: copied}
}

// Pct returns the allocation fraction for a bucket, or zero.
func (a AllocationSet) Pct(slug string) decimal.Decimal {
	return a.pcts[slug]
}

// Slugs returns the allocated bucket slugs, sorted.
func (a AllocationSet) Slugs() []string {
	slugs := make([]string, 0, len(a.pcts))
	for slug := range a.pcts {
		slugs = append(slugs, slug)
	}
	slices.Sort(slugs)
	return slugs
}

// SumsToOne reports whether the percentages total 1.0 within
// AllocationEpsilon. The roll-forward runs either way; an imbalanced mix is
// the caller's warning to surface, never a refusal.
func (a AllocationSet) SumsToOne() bool {
	sum := decimal.Zero
	for _, pct := range a.pcts {
		sum = sum.Add(pct)
	}
	return sum.Sub(decimal.NewFromInt(1)).Abs().LessThanOrEqual(AllocationEpsilon)
}

// Snapshot is one bucket's balance movement across one period.
type Snapshot struct {
	Period   period.Key
	Begin    decimal.Decimal
	Inflows  decimal.Decimal
	Outflows decimal.Decimal
	End      decimal.Decimal
}

// Forecast is the full roll-forward result: an ordered snapshot sequence
// per bucket across the horizon.
type Forecast struct {
	Horizon []period.Key
	Buckets map[string][]Snapshot
}

// Snapshots returns the ordered snapshot sequence for a bucket, or nil.
func (f *Forecast) Snapshots(slug string) []Snapshot {
	return f.Buckets[slug]
}

// Slugs returns the forecasted bucket slugs, sorted.
func (f *Forecast) Slugs() []string {
	slugs := make([]string, 0, len(f.Buckets))
	for slug := range f.Buckets {
		slugs = append(slugs, slug)
	}
	slices.Sort(slugs)
	return slugs
}

// measureSlugs are P&L activity categories consumed by the operating
// bucket's outflow. They never get bucket snapshots of their own.
var measureSlugs = map[string]bool{
	chart.SlugMaterials:            true,
	chart.SlugDirectLabor:          true,
	chart.SlugDirectSubcontractors: true,
	chart.SlugCOGS:                 true,
	chart.SlugLoanDebtService:      true,
	chart.SlugIncome:               true,
	chart.SlugRealRevenue:          true,
	chart.SlugDirectCostsTotal:     true,
}

// RollForward walks the horizon in calendar order, applying the allocation
// mix to each period's real revenue and carrying every bucket's ending
// balance into the next period's beginning balance.
//
// Per period: real revenue is income minus direct costs, clamped at zero.
// Each percentage-allocated bucket receives realRevenue times its fraction
// as inflow. The operating bucket receives no percentage inflow; instead it
// absorbs the raw cost flow as outflow: materials, direct labor, direct
// subcontractors, other operating expenses and loan debt service. Any other
// bucket targeted directly by a projected line receives that line's flow
// as its own inflow or outflow.
//
// Opening balances seed the first period; buckets without an entry start
// at zero. Missing period data defaults every component to zero. An
// allocation mix that does not sum to 100% is used as supplied.
func RollForward(flows *Flows, alloc AllocationSet, opening map[string]decimal.Decimal, horizon []period.Key) *Forecast {
	forecast := &Forecast{
		Horizon: horizon,
		Buckets: map[string][]Snapshot{},
	}

	balances := map[string]decimal.Decimal{}
	for _, slug := range forecastSlugs(flows, alloc) {
		balances[slug] = opening[slug]
		forecast.Buckets[slug] = make([]Snapshot, 0, len(horizon))
	}

	for _, p := range horizon {
		realRevenue := RealRevenue(flows, p)

		for slug := range forecast.Buckets {
			begin := balances[slug]

			var inflow, outflow decimal.Decimal
			if slug == chart.SlugOperatingExpenses {
				outflow = DirectCostsTotal(flows.Outflows, p).
					Add(flows.Outflows.Get(p, chart.SlugOperatingExpenses)).
					Add(flows.Outflows.Get(p, chart.SlugLoanDebtService))
			} else {
				inflow = realRevenue.Mul(alloc.Pct(slug)).
					Add(flows.Inflows.Get(p, slug))
				outflow = flows.Outflows.Get(p, slug)
			}

			end := begin.Add(inflow).Sub(outflow)
			balances[slug] = end

			forecast.Buckets[slug] = append(forecast.Buckets[slug], Snapshot{
				Period:   p,
				Begin:    begin,
				Inflows:  inflow,
				Outflows: outflow,
				End:      end,
			})
		}
	}
	return forecast
}

// forecastSlugs determines which buckets get snapshot sequences: every
// allocated bucket, the operating bucket, and any non-measure bucket a
// projected line targets directly.
func forecastSlugs(flows *Flows, alloc AllocationSet) []string {
	seen := map[string]bool{chart.SlugOperatingExpenses: true}
	for _, slug := range alloc.Slugs() {
		seen[slug] = true
	}
	for _, slug := range flows.Inflows.Slugs() {
		if !measureSlugs[slug] {
			seen[slug] = true
		}
	}
	for _, slug := range flows.Outflows.Slugs() {
		if !measureSlugs[slug] {
			seen[slug] = true
		}
	}

	slugs := make([]string, 0, len(seen))
	for slug := range seen {
		slugs = append(slugs, slug)
	}
	slices.Sort(slugs)
	return slugs
}
