package engine

import "github.com/shopspring/decimal"

// EstimateWeeklyBalance approximates a bucket's balance at the end of a
// given week inside a month, by linear interpolation across the month's
// ending balance and net movement:
//
//	(ending - net) + net * min(weekIndex+1, weeksInMonth) / weeksInMonth
//
// The estimate assumes the month's net movement is spread uniformly over
// its weeks; it makes no use of actual sub-month occurrence dates. At the
// final week the estimate equals the month's ending balance exactly.
func EstimateWeeklyBalance(ending, net decimal.Decimal, weekIndex, weeksInMonth int) decimal.Decimal {
	if weeksInMonth <= 0 {
		return ending
	}

	progress := weekIndex + 1
	if progress > weeksInMonth {
		progress = weeksInMonth
	}

	begin := ending.Sub(net)
	fraction := decimal.NewFromInt(int64(progress)).Div(decimal.NewFromInt(int64(weeksInMonth)))
	return begin.Add(net.Mul(fraction))
}
