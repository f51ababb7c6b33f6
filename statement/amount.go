package statement

import (
	"strings"

	"github.com/shopspring/decimal"
)

// currencyReplacer strips formatting characters that commonly decorate
// money cells in exported P&L statements.
var currencyReplacer = strings.NewReplacer(
	",", "",
	"$", "",
	"€", "",
	"£", "",
	" ", "",
	"\u00a0", "",
)

// ParseAmount normalizes a currency-like cell value into a decimal.
//
// Thousands separators and currency symbols are stripped. Parenthesized
// values ("(1,234.50)") and trailing-hyphen values ("1234.50-") are treated
// as negative. A blank cell normalizes to zero. The boolean is false when
// the cell holds no parseable number at all, which callers use to skip the
// cell silently.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, true
	}

	negative := false

	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	if strings.HasSuffix(s, "-") {
		negative = true
		s = s[:len(s)-1]
	}

	s = strings.TrimSpace(currencyReplacer.Replace(s))
	if s == "" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}

	if negative {
		d = d.Neg()
	}
	return d, true
}
