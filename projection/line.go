// Package projection turns forward-looking definitions into dated numbers:
// recurring line items expand into per-period flow totals, and historical
// series extrapolate into future values via a linear trend.
package projection

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/triumphsolutions/pf-forecast/chart"
)

// Cadence is the recurrence rule governing how a projected line repeats.
type Cadence int

const (
	CadenceOneOff Cadence = iota
	CadenceDaily
	CadenceWeekly
	CadenceBiweekly
	CadenceMonthly
	CadenceQuarterly
	CadenceSemiannual
	CadenceAnnual
	// CadenceUnknown marks a cadence string the decoder did not recognize.
	// Expansion emits the start occurrence only and flags the line.
	CadenceUnknown
)

// String returns the string representation of the cadence.
func (c Cadence) String() string {
	switch c {
	case CadenceOneOff:
		return "one-off"
	case CadenceDaily:
		return "daily"
	case CadenceWeekly:
		return "weekly"
	case CadenceBiweekly:
		return "biweekly"
	case CadenceMonthly:
		return "monthly"
	case CadenceQuarterly:
		return "quarterly"
	case CadenceSemiannual:
		return "semiannual"
	case CadenceAnnual:
		return "annual"
	default:
		return "unknown"
	}
}

// ParseCadence parses a cadence name. Unrecognized names map to
// CadenceUnknown with ok false.
func ParseCadence(s string) (Cadence, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "one-off", "oneoff", "once", "":
		return CadenceOneOff, true
	case "daily":
		return CadenceDaily, true
	case "weekly":
		return CadenceWeekly, true
	case "biweekly", "bi-weekly", "fortnightly":
		return CadenceBiweekly, true
	case "monthly":
		return CadenceMonthly, true
	case "quarterly":
		return CadenceQuarterly, true
	case "semiannual", "semi-annual":
		return CadenceSemiannual, true
	case "annual", "yearly":
		return CadenceAnnual, true
	default:
		return CadenceUnknown, false
	}
}

// step advances an occurrence date by one cadence interval. Returns false
// for cadences with no defined step (one-off and unknown).
func step(t time.Time, cadence Cadence, interval int) (time.Time, bool) {
	if interval < 1 {
		interval = 1
	}
	switch cadence {
	case CadenceDaily:
		return t.AddDate(0, 0, interval), true
	case CadenceWeekly:
		return t.AddDate(0, 0, 7*interval), true
	case CadenceBiweekly:
		return t.AddDate(0, 0, 14*interval), true
	case CadenceMonthly:
		return t.AddDate(0, interval, 0), true
	case CadenceQuarterly:
		return t.AddDate(0, 3*interval, 0), true
	case CadenceSemiannual:
		return t.AddDate(0, 6*interval, 0), true
	case CadenceAnnual:
		return t.AddDate(interval, 0, 0), true
	default:
		return t, false
	}
}

// Escalation compounds a line's amount over time, e.g. a 3% rent increase
// every year.
type Escalation struct {
	// RatePct is the percentage increase applied at each escalation step.
	RatePct decimal.Decimal

	// EveryYears is the number of years between escalation steps.
	EveryYears int
}

// Line is a recurring projected transaction attributed to one bucket.
type Line struct {
	ID         uuid.UUID
	BucketSlug string
	Name       string

	// Amount is the per-occurrence magnitude. Always non-negative;
	// Direction carries the flow side.
	Amount    decimal.Decimal
	Direction chart.Direction

	Cadence  Cadence
	Interval int

	Start time.Time
	// End bounds the recurrence; nil means bounded only by the window.
	End *time.Time

	Escalation *Escalation
}

// amountAt returns the line amount effective on a given occurrence date,
// applying any escalation rule compounded from the start date.
func (l *Line) amountAt(date time.Time) decimal.Decimal {
	if l.Escalation == nil || l.Escalation.EveryYears <= 0 || l.Escalation.RatePct.IsZero() {
		return l.Amount
	}

	years := date.Year() - l.Start.Year()
	if date.Month() < l.Start.Month() ||
		(date.Month() == l.Start.Month() && date.Day() < l.Start.Day()) {
		years--
	}
	steps := years / l.Escalation.EveryYears
	if steps <= 0 {
		return l.Amount
	}

	factor := decimal.NewFromInt(1).Add(l.Escalation.RatePct.Div(decimal.NewFromInt(100)))
	amount := l.Amount
	for i := 0; i < steps; i++ {
		amount = amount.Mul(factor)
	}
	return amount
}
