package projection

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/triumphsolutions/pf-forecast/period"
)

func decimals(values ...float64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.NewFromFloat(v)
	}
	return out
}

func TestTrend_FlatSeries(t *testing.T) {
	projected := Trend(decimals(100, 100, 100, 100), 3)
	assert.Equal(t, 3, len(projected))
	for i, p := range projected {
		assert.True(t, p.Equal(decimal.NewFromInt(100)), "index %d: got %s", i, p)
	}
}

func TestTrend_LinearSeries(t *testing.T) {
	projected := Trend(decimals(10, 20, 30, 40), 2)
	assert.Equal(t, 2, len(projected))
	assert.True(t, projected[0].Equal(decimal.NewFromInt(50)), "got %s", projected[0])
	assert.True(t, projected[1].Equal(decimal.NewFromInt(60)), "got %s", projected[1])
}

func TestTrend_EmptySeries(t *testing.T) {
	projected := Trend(nil, 4)
	assert.Equal(t, 4, len(projected))
	for _, p := range projected {
		assert.True(t, p.IsZero())
	}
}

func TestTrend_SinglePointIsFlat(t *testing.T) {
	projected := Trend(decimals(250), 3)
	for _, p := range projected {
		assert.True(t, p.Equal(decimal.NewFromInt(250)), "got %s", p)
	}
}

func TestTrend_ZeroFutureCount(t *testing.T) {
	assert.Zero(t, len(Trend(decimals(1, 2, 3), 0)))
}

func TestTrend_DecliningSeries(t *testing.T) {
	projected := Trend(decimals(40, 30, 20, 10), 2)
	assert.True(t, projected[0].Equal(decimal.NewFromInt(0)), "got %s", projected[0])
	assert.True(t, projected[1].Equal(decimal.NewFromInt(-10)), "got %s", projected[1])
}

func TestApplyOverrides(t *testing.T) {
	periods := []period.Key{"2024-01", "2024-02", "2024-03"}
	values := decimals(100, 110, 120)

	overrides := map[OverrideKey]decimal.Decimal{
		{Slug: "profit", Period: "2024-02"}: decimal.NewFromInt(999),
	}

	out := ApplyOverrides(values, "profit", periods, overrides)
	assert.True(t, out[0].Equal(decimal.NewFromInt(100)))
	assert.True(t, out[1].Equal(decimal.NewFromInt(999)), "override takes precedence")
	assert.True(t, out[2].Equal(decimal.NewFromInt(120)))

	// The original slice is untouched.
	assert.True(t, values[1].Equal(decimal.NewFromInt(110)))

	// Overrides for other buckets do not apply.
	out = ApplyOverrides(values, "tax", periods, overrides)
	assert.True(t, out[1].Equal(decimal.NewFromInt(110)))
}
