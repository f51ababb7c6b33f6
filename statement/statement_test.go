package statement

import (
	"fmt"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/triumphsolutions/pf-forecast/period"
)

const sampleCSV = `Account,2024-01,2024-02,2024-03
Sales,"10,000.00","12,500.00","11,000.00"
Materials,"2,000.00","2,500.00","(300.00)"
Rent,1500,1500,1500
Total Expenses,3500,4000,1200
Net Income,6500,8500,9800
`

func TestParse_BasicCSV(t *testing.T) {
	s := Parse(sampleCSV)

	assert.False(t, s.Empty())
	assert.Equal(t, []period.Key{"2024-01", "2024-02", "2024-03"}, s.Months)
	assert.Equal(t, 3, len(s.Rows), "aggregate rows must be excluded")

	sales := s.Row("Sales")
	assert.NotZero(t, sales)
	assert.True(t, sales.Monthly["2024-02"].Equal(decimal.NewFromFloat(12500)))
	assert.True(t, sales.Total.Equal(decimal.NewFromFloat(33500)), "got %s", sales.Total)

	materials := s.Row("Materials")
	assert.NotZero(t, materials)
	assert.True(t, materials.Monthly["2024-03"].Equal(decimal.NewFromFloat(-300)), "parenthesized cell is negative")
}

func TestParse_TSV(t *testing.T) {
	raw := "Account\t2024-01\t2024-02\t2024-03\nSales\t100\t200\t300\n"
	s := Parse(raw)

	assert.Equal(t, 3, len(s.Months))
	assert.Equal(t, 1, len(s.Rows))
	assert.True(t, s.Rows[0].Total.Equal(decimal.NewFromInt(600)))
}

func TestParse_AggregateRowsExcluded(t *testing.T) {
	raw := sampleCSV +
		"Total Operating Expenses,1,1,1\n" +
		"Gross Profit,9,9,9\n" +
		"Operating Income,5,5,5\n" +
		"Total Other Income,2,2,2\n"
	s := Parse(raw)

	for _, r := range s.Rows {
		assert.False(t, isAggregateRow(r.Name), "row %q should have been excluded", r.Name)
	}
	assert.Zero(t, s.Row("Total Expenses"))
	assert.Zero(t, s.Row("Net Income"))
}

func TestParse_NoiseBeforeHeader(t *testing.T) {
	raw := "Acme Plumbing LLC\nProfit and Loss\n" + sampleCSV
	s := Parse(raw)

	assert.Equal(t, 3, len(s.Months))
	assert.Equal(t, 3, len(s.Rows))
	assert.True(t, strings.Contains(s.Warnings[0], "2 line(s) before the header"), "got %v", s.Warnings)
}

func TestParse_NoHeader(t *testing.T) {
	s := Parse("just\nsome\nrandom text")
	assert.True(t, s.Empty())
	assert.Equal(t, "no header row with monthly columns", s.Warnings[0])
}

func TestParse_EmptyInput(t *testing.T) {
	s := Parse("")
	assert.True(t, s.Empty())
	assert.NotZero(t, len(s.Warnings))
}

func TestParse_DropsUnparseableHeaderColumns(t *testing.T) {
	raw := "Account,2024-01,Notes,2024-02,2024-03\nSales,100,skip me,200,300\n"
	s := Parse(raw)

	assert.Equal(t, []period.Key{"2024-01", "2024-02", "2024-03"}, s.Months)
	found := false
	for _, w := range s.Warnings {
		if strings.Contains(w, "dropped 1 header column") {
			found = true
		}
	}
	assert.True(t, found, "expected a dropped-column warning, got %v", s.Warnings)

	sales := s.Row("Sales")
	assert.True(t, sales.Total.Equal(decimal.NewFromInt(600)), "non-month column must not contribute")
}

func TestParse_MonthCap(t *testing.T) {
	// 15 months; only the most recent 12 survive, sorted ascending.
	var header []string
	var cells []string
	for m := 1; m <= 12; m++ {
		header = append(header, fmt.Sprintf("2023-%02d", m))
		cells = append(cells, "10")
	}
	for m := 1; m <= 3; m++ {
		header = append(header, fmt.Sprintf("2024-%02d", m))
		cells = append(cells, "10")
	}
	raw := "Account," + strings.Join(header, ",") + "\nSales," + strings.Join(cells, ",") + "\n"

	s := Parse(raw)
	assert.Equal(t, MaxMonths, len(s.Months))
	assert.Equal(t, period.Key("2023-04"), s.Months[0])
	assert.Equal(t, period.Key("2024-03"), s.Months[len(s.Months)-1])

	warned := false
	for _, w := range s.Warnings {
		if strings.Contains(w, "most recent 12") {
			warned = true
		}
	}
	assert.True(t, warned, "expected a month-cap warning, got %v", s.Warnings)

	// The dropped columns must not leak into totals either.
	assert.True(t, s.Row("Sales").Total.Equal(decimal.NewFromInt(120)))
}

func TestParse_DuplicateMonthsKeepFirst(t *testing.T) {
	raw := "Account,2024-01,2024-01,2024-02,2024-03\nSales,100,999,200,300\n"
	s := Parse(raw)

	assert.Equal(t, []period.Key{"2024-01", "2024-02", "2024-03"}, s.Months)
	assert.True(t, s.Row("Sales").Monthly["2024-01"].Equal(decimal.NewFromInt(100)))
}

func TestParse_BlankLabelSkipped(t *testing.T) {
	raw := "Account,2024-01,2024-02,2024-03\n,100,200,300\nSales,1,2,3\n"
	s := Parse(raw)
	assert.Equal(t, 1, len(s.Rows))
}

func TestParse_AllBlankRowDropped(t *testing.T) {
	raw := "Account,2024-01,2024-02,2024-03\nEmpty Row,,,\nSales,1,2,3\n"
	s := Parse(raw)
	assert.Zero(t, s.Row("Empty Row"))
	assert.Equal(t, 1, len(s.Rows))
}

func TestParse_NonNumericCellsSkipped(t *testing.T) {
	raw := "Account,2024-01,2024-02,2024-03\nSales,100,n/a,300\n"
	s := Parse(raw)

	sales := s.Row("Sales")
	assert.NotZero(t, sales)
	assert.True(t, sales.Total.Equal(decimal.NewFromInt(400)))
}

func TestParse_RowTotalMatchesMonthlySum(t *testing.T) {
	s := Parse(sampleCSV)
	for _, row := range s.Rows {
		sum := decimal.Zero
		for _, key := range s.Months {
			sum = sum.Add(row.Monthly[key])
		}
		assert.True(t, sum.Equal(row.Total), "row %q: total %s != sum %s", row.Name, row.Total, sum)
	}
}

func TestIsAggregateRow(t *testing.T) {
	for _, label := range []string{
		"Total Expenses", "total expenses", "Net Income", "NET LOSS",
		"Gross Profit", "Operating Income", "Income Total", "Expenses Total",
		"Total Other Expense", "Total",
	} {
		assert.True(t, isAggregateRow(label), "expected %q to match", label)
	}
	for _, label := range []string{"Sales", "Subtotal Widgets", "Totally Normal Account", "Rent"} {
		assert.False(t, isAggregateRow(label), "expected %q not to match", label)
	}
}

func FuzzParse(f *testing.F) {
	f.Add(sampleCSV)
	f.Add("Account\t2024-01\t2024-02\t2024-03\nSales\t1\t2\t3")
	f.Add(",,,\n\"\n((((")
	f.Fuzz(func(t *testing.T, raw string) {
		s := Parse(raw)
		if s == nil {
			t.Fatal("Parse must never return nil")
		}
		if len(s.Months) > MaxMonths {
			t.Fatalf("retained %d months, cap is %d", len(s.Months), MaxMonths)
		}
	})
}
