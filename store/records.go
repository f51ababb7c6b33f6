// Package store models the boundary to the external persistence layer.
//
// The computation packages never talk to storage. Callers fetch typed
// records through the Store interface and hand plain values to the engine;
// anything malformed is rejected or skipped here, at the boundary, so
// loosely-typed data never reaches the computation core.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/triumphsolutions/pf-forecast/chart"
	"github.com/triumphsolutions/pf-forecast/period"
	"github.com/triumphsolutions/pf-forecast/projection"
)

// Client identifies one business whose books are being forecast.
type Client struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ActivityRow is one period's historical activity for a bucket.
type ActivityRow struct {
	Period period.Key      `json:"period"`
	Slug   string          `json:"slug"`
	Amount decimal.Decimal `json:"amount"`
}

// BalanceRow is one period's ending balance for a bucket.
type BalanceRow struct {
	Period period.Key      `json:"period"`
	Slug   string          `json:"slug"`
	Ending decimal.Decimal `json:"ending"`
}

// OccurrenceRow is a single dated ledger entry, used for drill-down views.
type OccurrenceRow struct {
	Date          time.Time       `json:"date"`
	LedgerAccount string          `json:"ledgerAccount"`
	Amount        decimal.Decimal `json:"amount"`
}

// AllocationTarget is a bucket's allocation percentage effective from a date.
type AllocationTarget struct {
	Slug      string          `json:"slug"`
	Effective time.Time       `json:"effective"`
	Pct       decimal.Decimal `json:"pct"`
}

// LineRecord is the stored form of a recurring projection line. String
// fields hold what the user typed; Decode validates them into a
// projection.Line.
type LineRecord struct {
	ID         uuid.UUID       `json:"id"`
	BucketSlug string          `json:"bucketSlug"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Direction  string          `json:"direction"`
	Cadence    string          `json:"cadence"`
	Interval   int             `json:"interval,omitempty"`
	Start      string          `json:"start"`
	End        string          `json:"end,omitempty"`

	EscalationPct   decimal.Decimal `json:"escalationPct,omitempty"`
	EscalationYears int             `json:"escalationYears,omitempty"`
}

// Decode validates a stored line record into a projection line.
func (r LineRecord) Decode() (*projection.Line, error) {
	if r.BucketSlug == "" {
		return nil, fmt.Errorf("line %q: missing bucket", r.Name)
	}

	cadence, ok := projection.ParseCadence(r.Cadence)
	if !ok {
		return nil, fmt.Errorf("line %q: unrecognized cadence %q", r.Name, r.Cadence)
	}

	start, err := period.ParseDate(r.Start)
	if err != nil {
		return nil, fmt.Errorf("line %q: invalid start date: %w", r.Name, err)
	}

	line := &projection.Line{
		ID:         r.ID,
		BucketSlug: r.BucketSlug,
		Name:       r.Name,
		Amount:     r.Amount.Abs(),
		Direction:  parseDirection(r.Direction),
		Cadence:    cadence,
		Interval:   r.Interval,
		Start:      start,
	}

	if r.End != "" {
		end, err := period.ParseDate(r.End)
		if err != nil {
			return nil, fmt.Errorf("line %q: invalid end date: %w", r.Name, err)
		}
		line.End = &end
	}

	if r.EscalationYears > 0 && !r.EscalationPct.IsZero() {
		line.Escalation = &projection.Escalation{
			RatePct:    r.EscalationPct,
			EveryYears: r.EscalationYears,
		}
	}
	return line, nil
}

func parseDirection(s string) chart.Direction {
	switch s {
	case "inflow":
		return chart.DirectionInflow
	case "outflow":
		return chart.DirectionOutflow
	default:
		return chart.DirectionAny
	}
}

// Store is the read side of the external persistence layer, per client.
// Implementations are injected by the caller; computation packages never
// hold a store handle.
type Store interface {
	// Catalog returns the client's bucket catalog.
	Catalog(ctx context.Context) ([]chart.Bucket, error)

	// Targets returns the client's allocation targets.
	Targets(ctx context.Context) ([]AllocationTarget, error)

	// Lines returns the client's recurring projection lines, decoded.
	Lines(ctx context.Context) ([]*projection.Line, error)

	// Activity returns historical per-period bucket activity.
	Activity(ctx context.Context) ([]ActivityRow, error)

	// EndingBalances returns per-period ending balances.
	EndingBalances(ctx context.Context) ([]BalanceRow, error)

	// AccountMap maps ledger account identifiers to bucket slugs.
	AccountMap(ctx context.Context) (map[string]string, error)
}
