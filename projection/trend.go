package projection

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/triumphsolutions/pf-forecast/period"
)

// Trend fits an ordinary least-squares line to a historical series and
// extrapolates futureCount periods past its end.
//
// The series is indexed 1..n. An empty series projects zeros. A degenerate
// fit (single point) projects flat at the mean. Non-finite results are
// clamped to zero.
func Trend(series []decimal.Decimal, futureCount int) []decimal.Decimal {
	if futureCount <= 0 {
		return nil
	}

	projected := make([]decimal.Decimal, futureCount)
	n := len(series)
	if n == 0 {
		return projected
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, d := range series {
		x := float64(i + 1)
		y := d.InexactFloat64()
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	fn := float64(n)
	mean := sumY / fn

	var slope, intercept float64
	denominator := fn*sumXX - sumX*sumX
	if denominator == 0 {
		slope = 0
		intercept = mean
	} else {
		slope = (fn*sumXY - sumX*sumY) / denominator
		intercept = (sumY - slope*sumX) / fn
	}

	for i := 0; i < futureCount; i++ {
		x := float64(n + i + 1)
		y := intercept + slope*x
		if math.IsNaN(y) || math.IsInf(y, 0) {
			y = 0
		}
		projected[i] = decimal.NewFromFloat(y)
	}
	return projected
}

// OverrideKey addresses a single projected cell a user has pinned manually.
type OverrideKey struct {
	Slug   string
	Period period.Key
}

// ApplyOverrides replaces projected values with user-supplied overrides.
// values and periods are parallel slices for one bucket; cells without an
// override keep their projected value.
func ApplyOverrides(values []decimal.Decimal, slug string, periods []period.Key, overrides map[OverrideKey]decimal.Decimal) []decimal.Decimal {
	if len(overrides) == 0 {
		return values
	}

	out := make([]decimal.Decimal, len(values))
	copy(out, values)
	for i, p := range periods {
		if i >= len(out) {
			break
		}
		if v, ok := overrides[OverrideKey{Slug: slug, Period: p}]; ok {
			out[i] = v
		}
	}
	return out
}
