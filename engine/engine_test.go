package engine

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/triumphsolutions/pf-forecast/chart"
	"github.com/triumphsolutions/pf-forecast/period"
)

func d(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// buildFlows creates three months of activity: steady income, some direct
// costs and operating spend.
func buildFlows() *Flows {
	flows := NewFlows()
	for _, p := range []period.Key{"2024-01", "2024-02", "2024-03"} {
		flows.Inflows.Add(p, chart.SlugIncome, d(10000))
		flows.Outflows.Add(p, chart.SlugMaterials, d(1500))
		flows.Outflows.Add(p, chart.SlugDirectLabor, d(2500))
		flows.Outflows.Add(p, chart.SlugOperatingExpenses, d(3000))
	}
	return flows
}

func standardAllocations() AllocationSet {
	return NewAllocationSet(time.Time{}, map[string]decimal.Decimal{
		chart.SlugProfit:    d(0.05),
		chart.SlugOwnersPay: d(0.50),
		chart.SlugTax:       d(0.15),
		chart.SlugVault:     d(0.30),
	})
}

func TestDirectCostsTotal(t *testing.T) {
	flows := buildFlows()
	total := DirectCostsTotal(flows.Outflows, "2024-01")
	assert.True(t, total.Equal(d(4000)), "got %s", total)
}

func TestRealRevenue(t *testing.T) {
	flows := buildFlows()
	rr := RealRevenue(flows, "2024-01")
	assert.True(t, rr.Equal(d(6000)), "got %s", rr)
}

func TestRealRevenue_ClampedAtZero(t *testing.T) {
	flows := NewFlows()
	flows.Inflows.Add("2024-01", chart.SlugIncome, d(1000))
	flows.Outflows.Add("2024-01", chart.SlugMaterials, d(5000))

	rr := RealRevenue(flows, "2024-01")
	assert.True(t, rr.IsZero(), "real revenue never goes negative, got %s", rr)
}

func TestRealRevenue_MissingPeriodIsZero(t *testing.T) {
	assert.True(t, RealRevenue(NewFlows(), "2030-01").IsZero())
}

func TestAggregate_DerivedBuckets(t *testing.T) {
	flows := buildFlows()
	table := Aggregate(flows)

	assert.True(t, table.Get("2024-02", chart.SlugDirectCostsTotal).Equal(d(4000)))
	assert.True(t, table.Get("2024-02", chart.SlugRealRevenue).Equal(d(6000)))
	assert.True(t, table.Get("2024-02", chart.SlugIncome).Equal(d(10000)))

	// The input tables are untouched.
	assert.True(t, flows.Outflows.Get("2024-02", chart.SlugRealRevenue).IsZero())
}

func TestAggregate_DerivedValuesAreLiveNotStored(t *testing.T) {
	flows := buildFlows()
	// A caller stuffing a bogus value under a derived slug gets overwritten.
	flows.Outflows.Add("2024-01", chart.SlugRealRevenue, d(99999))
	table := Aggregate(flows)
	assert.True(t, table.Get("2024-01", chart.SlugRealRevenue).Equal(d(6000)))
}

func TestRollForward_Continuity(t *testing.T) {
	flows := buildFlows()
	horizon := []period.Key{"2024-01", "2024-02", "2024-03"}

	f := RollForward(flows, standardAllocations(), nil, horizon)

	for _, slug := range f.Slugs() {
		snaps := f.Snapshots(slug)
		assert.Equal(t, len(horizon), len(snaps))
		for i, s := range snaps {
			assert.True(t, s.End.Equal(s.Begin.Add(s.Inflows).Sub(s.Outflows)),
				"bucket %s period %s: end != begin + in - out", slug, s.Period)
			if i > 0 {
				assert.True(t, s.Begin.Equal(snaps[i-1].End),
					"bucket %s period %s: begin != previous end", slug, s.Period)
			}
		}
	}
}

func TestRollForward_AllocatedInflows(t *testing.T) {
	flows := buildFlows()
	horizon := []period.Key{"2024-01"}

	f := RollForward(flows, standardAllocations(), nil, horizon)

	// Real revenue is 6000; profit gets 5%.
	profit := f.Snapshots(chart.SlugProfit)[0]
	assert.True(t, profit.Inflows.Equal(d(300)), "got %s", profit.Inflows)
	assert.True(t, profit.Outflows.IsZero())
	assert.True(t, profit.End.Equal(d(300)))

	owners := f.Snapshots(chart.SlugOwnersPay)[0]
	assert.True(t, owners.Inflows.Equal(d(3000)), "got %s", owners.Inflows)
}

func TestRollForward_OperatingBucket(t *testing.T) {
	flows := buildFlows()
	flows.Outflows.Add("2024-01", chart.SlugLoanDebtService, d(500))
	horizon := []period.Key{"2024-01"}

	f := RollForward(flows, standardAllocations(), map[string]decimal.Decimal{
		chart.SlugOperatingExpenses: d(20000),
	}, horizon)

	op := f.Snapshots(chart.SlugOperatingExpenses)[0]
	assert.True(t, op.Inflows.IsZero(), "operating bucket gets no percentage inflow")
	// materials 1500 + labor 2500 + other opex 3000 + debt service 500.
	assert.True(t, op.Outflows.Equal(d(7500)), "got %s", op.Outflows)
	assert.True(t, op.Begin.Equal(d(20000)))
	assert.True(t, op.End.Equal(d(12500)))
}

func TestRollForward_OpeningBalances(t *testing.T) {
	flows := buildFlows()
	horizon := []period.Key{"2024-01", "2024-02"}

	f := RollForward(flows, standardAllocations(), map[string]decimal.Decimal{
		chart.SlugProfit: d(1000),
	}, horizon)

	profit := f.Snapshots(chart.SlugProfit)
	assert.True(t, profit[0].Begin.Equal(d(1000)))
	assert.True(t, profit[0].End.Equal(d(1300)))
	assert.True(t, profit[1].Begin.Equal(d(1300)))

	// Unseeded buckets start at zero.
	assert.True(t, f.Snapshots(chart.SlugTax)[0].Begin.IsZero())
}

func TestRollForward_CustomLineTargetsBucketDirectly(t *testing.T) {
	flows := buildFlows()
	// A projected one-off outflow straight from the tax bucket.
	flows.Outflows.Add("2024-01", chart.SlugTax, d(2000))
	horizon := []period.Key{"2024-01"}

	f := RollForward(flows, standardAllocations(), nil, horizon)

	tax := f.Snapshots(chart.SlugTax)[0]
	assert.True(t, tax.Inflows.Equal(d(900)), "15%% of 6000, got %s", tax.Inflows)
	assert.True(t, tax.Outflows.Equal(d(2000)))
	assert.True(t, tax.End.Equal(d(-1100)))
}

func TestRollForward_CustomBucketFromLines(t *testing.T) {
	flows := buildFlows()
	flows.Outflows.Add("2024-02", "truck", d(750))
	horizon := []period.Key{"2024-01", "2024-02"}

	f := RollForward(flows, standardAllocations(), nil, horizon)

	truck := f.Snapshots("truck")
	assert.NotZero(t, truck, "line-targeted custom bucket gets a snapshot sequence")
	assert.True(t, truck[1].Outflows.Equal(d(750)))
	assert.True(t, truck[1].End.Equal(d(-750)))
}

func TestRollForward_MeasureSlugsGetNoSnapshots(t *testing.T) {
	flows := buildFlows()
	f := RollForward(flows, standardAllocations(), nil, []period.Key{"2024-01"})

	assert.Zero(t, f.Snapshots(chart.SlugMaterials))
	assert.Zero(t, f.Snapshots(chart.SlugIncome))
	assert.Zero(t, f.Snapshots(chart.SlugDirectCostsTotal))
}

func TestRollForward_ImbalancedAllocationsStillComputed(t *testing.T) {
	alloc := NewAllocationSet(time.Time{}, map[string]decimal.Decimal{
		chart.SlugProfit: d(0.05),
		chart.SlugTax:    d(0.15),
	})
	assert.False(t, alloc.SumsToOne())

	f := RollForward(buildFlows(), alloc, nil, []period.Key{"2024-01"})
	assert.True(t, f.Snapshots(chart.SlugProfit)[0].Inflows.Equal(d(300)),
		"imbalanced mixes are computed as supplied")
}

func TestAllocationSet_SumsToOne(t *testing.T) {
	assert.True(t, standardAllocations().SumsToOne())

	near := NewAllocationSet(time.Time{}, map[string]decimal.Decimal{
		"a": d(0.3334), "b": d(0.3333), "c": d(0.3333),
	})
	assert.True(t, near.SumsToOne(), "within epsilon")

	off := NewAllocationSet(time.Time{}, map[string]decimal.Decimal{
		"a": d(0.5), "b": d(0.51),
	})
	assert.False(t, off.SumsToOne())
}

func TestEstimateWeeklyBalance(t *testing.T) {
	ending, net := d(10000), d(4000)

	// Week 0 of 4: begin + net/4 = 6000 + 1000.
	got := EstimateWeeklyBalance(ending, net, 0, 4)
	assert.True(t, got.Equal(d(7000)), "got %s", got)

	got = EstimateWeeklyBalance(ending, net, 1, 4)
	assert.True(t, got.Equal(d(8000)), "got %s", got)

	// Final week equals the ending balance exactly.
	got = EstimateWeeklyBalance(ending, net, 3, 4)
	assert.True(t, got.Equal(ending), "got %s", got)

	// Week index past the month clamps to full progress.
	got = EstimateWeeklyBalance(ending, net, 9, 4)
	assert.True(t, got.Equal(ending))
}

func TestEstimateWeeklyBalance_FiveWeekMonth(t *testing.T) {
	ending, net := d(500), d(500)
	got := EstimateWeeklyBalance(ending, net, 4, 5)
	assert.True(t, got.Equal(ending))

	got = EstimateWeeklyBalance(ending, net, 0, 5)
	assert.True(t, got.Equal(d(100)), "got %s", got)
}

func TestEstimateWeeklyBalance_ZeroWeeks(t *testing.T) {
	assert.True(t, EstimateWeeklyBalance(d(42), d(7), 0, 0).Equal(d(42)))
}

func TestTotals_Basics(t *testing.T) {
	totals := NewTotals()
	totals.Add("2024-01", "profit", d(10))
	totals.Add("2024-01", "profit", d(5))
	totals.Add("2023-12", "tax", d(3))

	assert.True(t, totals.Get("2024-01", "profit").Equal(d(15)))
	assert.True(t, totals.Get("2024-01", "missing").IsZero())
	assert.Equal(t, []period.Key{"2023-12", "2024-01"}, totals.Periods())
	assert.Equal(t, []string{"profit", "tax"}, totals.Slugs())

	other := NewTotals()
	other.Add("2024-01", "profit", d(1))
	totals.Merge(other)
	assert.True(t, totals.Get("2024-01", "profit").Equal(d(16)))

	copied := totals.Copy()
	copied.Add("2024-01", "profit", d(100))
	assert.True(t, totals.Get("2024-01", "profit").Equal(d(16)), "copy is deep")
}
