package rollout

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatPercent renders a percent value with one decimal place, suppressing
// a trailing ".0". Display code round-trips percentages through this fixed
// precision form so floating accumulation noise never reaches the UI.
func FormatPercent(d decimal.Decimal) string {
	s := d.Round(1).StringFixed(1)
	return strings.TrimSuffix(s, ".0")
}

// ParsePercent parses a percent string previously produced by
// FormatPercent, tolerating a trailing "%" sign.
func ParsePercent(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty percent value")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid percent value %q: %w", s, err)
	}
	return d, nil
}
