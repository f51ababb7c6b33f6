package projection

import (
	"fmt"
	"time"

	"github.com/triumphsolutions/pf-forecast/chart"
	"github.com/triumphsolutions/pf-forecast/engine"
	"github.com/triumphsolutions/pf-forecast/period"
)

// MaxOccurrences caps how many occurrences a single line may expand to.
// The cap is a safety valve against cadence/window combinations that would
// otherwise loop without bound, not a business rule.
const MaxOccurrences = 1000

// Expansion is the result of expanding recurring lines across a window.
type Expansion struct {
	// Flows holds the per-period, per-bucket inflow and outflow totals.
	Flows *engine.Flows

	// Horizon lists the window's period keys in calendar order.
	Horizon []period.Key

	// Warnings records lines whose expansion was truncated at the
	// occurrence cap or that carried an unknown cadence.
	Warnings []string
}

// Expand produces per-period flow totals for a set of recurring lines over
// a window of n periods starting at windowStart.
//
// A one-off line contributes its amount to the single period containing its
// start date, if that date falls inside the window. A recurring line steps
// from its start date by its cadence, accumulating every occurrence that
// falls inside both the window and the line's own start/end bounds. A line
// with no end date is bounded by the window's end.
func Expand(lines []*Line, g period.Granularity, windowStart time.Time, n int) *Expansion {
	result := &Expansion{
		Flows:   engine.NewFlows(),
		Horizon: period.Sequence(windowStart, n, g),
	}
	if len(result.Horizon) == 0 {
		return result
	}

	windowEnd := horizonEnd(result.Horizon, g)
	inWindow := map[period.Key]bool{}
	for _, key := range result.Horizon {
		inWindow[key] = true
	}

	for _, line := range lines {
		expandLine(line, g, windowEnd, inWindow, result)
	}
	return result
}

// horizonEnd returns the last day covered by the window.
func horizonEnd(horizon []period.Key, g period.Granularity) time.Time {
	last := horizon[len(horizon)-1].Start()
	if g == period.Weekly {
		return last.AddDate(0, 0, 6)
	}
	return last.AddDate(0, 1, -1)
}

// expandLine walks one line's occurrences, accumulating into the result.
func expandLine(line *Line, g period.Granularity, windowEnd time.Time, inWindow map[period.Key]bool, result *Expansion) {
	end := windowEnd
	if line.End != nil && line.End.Before(end) {
		end = *line.End
	}

	emit := func(date time.Time) {
		key := period.KeyFor(date, g)
		if !inWindow[key] {
			return
		}
		amount := line.amountAt(date)
		if line.Direction == chart.DirectionOutflow {
			result.Flows.Outflows.Add(key, line.BucketSlug, amount)
		} else {
			result.Flows.Inflows.Add(key, line.BucketSlug, amount)
		}
	}

	if line.Cadence == CadenceOneOff {
		if !line.Start.After(end) {
			emit(line.Start)
		}
		return
	}

	cursor := line.Start
	for i := 0; i < MaxOccurrences; i++ {
		if cursor.After(end) {
			return
		}
		emit(cursor)

		next, ok := step(cursor, line.Cadence, line.Interval)
		if !ok {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("line %q has unrecognized cadence; only its first occurrence was projected", line.Name))
			return
		}
		cursor = next
	}

	result.Warnings = append(result.Warnings,
		fmt.Sprintf("line %q expansion truncated at %d occurrences", line.Name, MaxOccurrences))
}
