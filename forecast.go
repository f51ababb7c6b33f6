// Package pfforecast forecasts cash allocation across Profit First style
// bucket accounts. It ties the computation packages together: statement
// parsing, bucket resolution, recurrence expansion, trend projection and
// the allocation roll-forward.
package pfforecast

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/triumphsolutions/pf-forecast/chart"
	"github.com/triumphsolutions/pf-forecast/engine"
	"github.com/triumphsolutions/pf-forecast/period"
	"github.com/triumphsolutions/pf-forecast/projection"
	"github.com/triumphsolutions/pf-forecast/statement"
	"github.com/triumphsolutions/pf-forecast/store"
	"github.com/triumphsolutions/pf-forecast/telemetry"
)

// ParseStatement parses a delimited profit and loss export.
func ParseStatement(raw string) *statement.Statement {
	return statement.Parse(raw)
}

// Options control a forecast run.
type Options struct {
	// Granularity selects monthly or weekly horizon periods.
	Granularity period.Granularity

	// Periods is the horizon length. Defaults to 12 when zero.
	Periods int

	// Start anchors the first horizon period. Defaults to the current time.
	Start time.Time

	// Overrides replace trend-projected values for specific bucket/period
	// cells before the roll-forward.
	Overrides map[projection.OverrideKey]decimal.Decimal
}

// Result bundles a computed forecast with everything a caller renders.
type Result struct {
	Horizon     []period.Key
	Forecast    *engine.Forecast
	Flows       *engine.Flows
	Allocations engine.AllocationSet
	Warnings    []string
}

// BuildForecast loads a client's data from the store and rolls the
// allocation state machine forward over the requested horizon.
func BuildForecast(ctx context.Context, st store.Store, opts Options) (*Result, error) {
	timer := telemetry.FromContext(ctx).Start("build forecast")
	defer timer.End()

	if opts.Periods <= 0 {
		opts.Periods = 12
	}
	start := opts.Start
	if start.IsZero() {
		start = time.Now().UTC()
	}

	horizon := period.Sequence(start, opts.Periods, opts.Granularity)

	loadTimer := timer.Child("load client")
	lines, err := st.Lines(ctx)
	if err != nil {
		loadTimer.End()
		return nil, fmt.Errorf("failed to load projection lines: %w", err)
	}
	activity, err := st.Activity(ctx)
	if err != nil {
		loadTimer.End()
		return nil, fmt.Errorf("failed to load activity: %w", err)
	}
	targets, err := st.Targets(ctx)
	if err != nil {
		loadTimer.End()
		return nil, fmt.Errorf("failed to load allocation targets: %w", err)
	}
	balances, err := st.EndingBalances(ctx)
	if err != nil {
		loadTimer.End()
		return nil, fmt.Errorf("failed to load ending balances: %w", err)
	}
	loadTimer.End()

	expandTimer := timer.Child("expand lines")
	expansion := projection.Expand(lines, opts.Granularity, start, opts.Periods)
	expandTimer.End()

	flows := expansion.Flows
	warnings := append([]string{}, expansion.Warnings...)

	trendTimer := timer.Child("project trends")
	projectTrends(flows, activity, horizon, opts.Overrides)
	trendTimer.End()

	alloc := allocationsAt(targets, start)
	opening := openingBalances(balances)

	rollTimer := timer.Child("roll forward")
	forecast := engine.RollForward(flows, alloc, opening, horizon)
	rollTimer.End()

	if len(alloc.Slugs()) > 0 && !alloc.SumsToOne() {
		warnings = append(warnings, "allocation percentages do not total 100%")
	}

	return &Result{
		Horizon:     horizon,
		Forecast:    forecast,
		Flows:       flows,
		Allocations: alloc,
		Warnings:    warnings,
	}, nil
}

// projectTrends fits a linear trend per bucket over historical activity and
// adds the projected magnitudes to the flow tables. Income projects as
// inflow, everything else as outflow. Negative projections clamp to zero.
func projectTrends(flows *engine.Flows, activity []store.ActivityRow, horizon []period.Key, overrides map[projection.OverrideKey]decimal.Decimal) {
	bySlug := map[string]map[period.Key]decimal.Decimal{}
	periodSet := map[period.Key]bool{}
	for _, row := range activity {
		key := row.Period
		cells, ok := bySlug[row.Slug]
		if !ok {
			cells = map[period.Key]decimal.Decimal{}
			bySlug[row.Slug] = cells
		}
		cells[key] = cells[key].Add(row.Amount)
		periodSet[key] = true
	}
	if len(periodSet) == 0 {
		return
	}

	history := make([]period.Key, 0, len(periodSet))
	for key := range periodSet {
		history = append(history, key)
	}
	period.Sort(history)

	for slug, cells := range bySlug {
		series := make([]decimal.Decimal, len(history))
		for i, key := range history {
			series[i] = cells[key]
		}

		projected := projection.Trend(series, len(horizon))
		projected = projection.ApplyOverrides(projected, slug, horizon, overrides)

		for i, p := range horizon {
			value := projected[i]
			if !value.IsPositive() {
				continue
			}
			if slug == chart.SlugIncome {
				flows.Inflows.Add(p, slug, value)
			} else {
				flows.Outflows.Add(p, slug, value)
			}
		}
	}
}

// allocationsAt resolves the allocation percentages in effect at a given
// time: per bucket, the latest target whose effective date is not after it.
func allocationsAt(targets []store.AllocationTarget, at time.Time) engine.AllocationSet {
	pcts := map[string]decimal.Decimal{}
	effective := map[string]time.Time{}
	var latest time.Time
	for _, t := range targets {
		if t.Effective.After(at) {
			continue
		}
		if prev, ok := effective[t.Slug]; ok && t.Effective.Before(prev) {
			continue
		}
		effective[t.Slug] = t.Effective
		pcts[t.Slug] = t.Pct
		if t.Effective.After(latest) {
			latest = t.Effective
		}
	}
	return engine.NewAllocationSet(latest, pcts)
}

// openingBalances picks the most recent ending balance per bucket.
func openingBalances(balances []store.BalanceRow) map[string]decimal.Decimal {
	opening := map[string]decimal.Decimal{}
	seen := map[string]period.Key{}
	for _, row := range balances {
		key := row.Period
		if prev, ok := seen[row.Slug]; ok && period.Compare(key, prev) < 0 {
			continue
		}
		seen[row.Slug] = key
		opening[row.Slug] = row.Ending
	}
	return opening
}

// ResolveStatement maps parsed statement rows onto catalog buckets and
// returns activity rows ready to persist. A persisted account map wins over
// the suggestion rules; rows that match nothing land in operating expenses
// with a warning.
func ResolveStatement(stmt *statement.Statement, accountMap map[string]string, catalog []chart.Bucket) ([]store.ActivityRow, []string) {
	slugs := map[string]bool{}
	for _, b := range catalog {
		slugs[b.Slug] = true
	}

	var rows []store.ActivityRow
	var warnings []string
	for _, row := range stmt.Rows {
		slug, ok := accountMap[row.Name]
		if !ok || !slugs[slug] {
			slug, ok = chart.Suggest(row.Name, chart.DirectionAny, catalog)
		}
		if !ok {
			slug = chart.SlugOperatingExpenses
			warnings = append(warnings, fmt.Sprintf("no bucket match for %q, mapped to operating expenses", row.Name))
		}

		for _, month := range stmt.Months {
			amount, found := row.Monthly[month]
			if !found || amount.IsZero() {
				continue
			}
			rows = append(rows, store.ActivityRow{
				Period: month,
				Slug:   slug,
				Amount: amount,
			})
		}
	}
	return rows, warnings
}
