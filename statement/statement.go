// Package statement parses delimited profit-and-loss statements into a
// normalized month-by-month table.
//
// Input is a CSV or TSV block whose first column holds account labels and
// whose remaining columns hold monthly amounts. Real-world exports are messy:
// title lines above the header, inconsistent month formats, currency
// decoration, subtotal rows mixed in with components. Parse never fails on
// any of that. It returns whatever it could salvage plus a warning list; an
// empty result is the caller's signal that the input was unusable.
package statement

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/triumphsolutions/pf-forecast/period"
)

// MaxMonths caps how many month columns are retained per statement. When a
// statement carries more, only the most recent twelve are kept.
const MaxMonths = 12

// minHeaderMonths is how many parseable month columns a line needs before it
// is accepted as the header row.
const minHeaderMonths = 3

// Row is a single parsed statement line.
type Row struct {
	// Name is the raw account label from the first column, trimmed.
	Name string

	// Monthly maps each retained month to the signed amount in that cell.
	Monthly map[period.Key]decimal.Decimal

	// Total is the sum of Monthly over the retained months.
	Total decimal.Decimal
}

// Statement is the normalized result of parsing one P&L export.
type Statement struct {
	// Months lists the retained month keys in ascending calendar order.
	Months []period.Key

	// Rows holds the parsed data rows in input order.
	Rows []*Row

	// Warnings describes everything that was dropped or repaired along the way.
	Warnings []string
}

// Empty reports whether the parse produced nothing usable. Callers treat an
// empty statement as a failed import and surface the first warning.
func (s *Statement) Empty() bool {
	return len(s.Months) == 0 || len(s.Rows) == 0
}

// Row returns the parsed row with the given label, or nil.
func (s *Statement) Row(label string) *Row {
	for _, r := range s.Rows {
		if r.Name == label {
			return r
		}
	}
	return nil
}

// aggregatePatterns match subtotal and summary lines that must never be
// counted alongside their component rows.
var aggregatePatterns = []string{
	"total ",
	"net income",
	"net profit",
	"net loss",
	"gross income",
	"gross profit",
	"gross loss",
	"operating income",
	"operating profit",
	"income total",
	"expense total",
	"expenses total",
	"total expenses",
}

// isAggregateRow reports whether a label names a subtotal or summary line.
func isAggregateRow(label string) bool {
	lower := strings.ToLower(strings.TrimSpace(label))
	if lower == "total" {
		return true
	}
	for _, p := range aggregatePatterns {
		if strings.HasPrefix(lower, p) || lower == strings.TrimSpace(p) {
			return true
		}
	}
	return false
}

// Parse turns raw delimited text into a normalized statement. It never
// returns an error; malformed input degrades into warnings and a possibly
// empty result.
func Parse(raw string) *Statement {
	result := &Statement{}

	lines := splitLines(raw)
	if len(lines) == 0 {
		result.Warnings = append(result.Warnings, "statement is empty")
		return result
	}

	headerIdx, header, dropped := findHeader(lines)
	if headerIdx < 0 {
		result.Warnings = append(result.Warnings, "no header row with monthly columns")
		return result
	}
	if headerIdx > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("ignored %d line(s) before the header row", headerIdx))
	}
	if dropped > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("dropped %d header column(s) that are not valid months", dropped))
	}

	// header.keys is aligned with field indexes; "" marks a column to skip.
	kept := keepRecentMonths(header.keys, result)
	result.Months = kept

	for _, line := range lines[headerIdx+1:] {
		fields := splitFields(line, header.delimiter)
		if len(fields) == 0 {
			continue
		}

		label := strings.TrimSpace(fields[0])
		if label == "" || isAggregateRow(label) {
			continue
		}

		row := &Row{Name: label, Monthly: map[period.Key]decimal.Decimal{}}
		valid := 0
		for i := 1; i < len(fields) && i < len(header.keys); i++ {
			key := header.keys[i]
			if key == "" || !slices.Contains(kept, key) {
				continue
			}
			cell := strings.TrimSpace(fields[i])
			amount, ok := ParseAmount(cell)
			if !ok {
				continue // non-numeric cell, skipped silently
			}
			if cell != "" {
				valid++
			}
			row.Monthly[key] = row.Monthly[key].Add(amount)
		}
		if valid == 0 {
			continue
		}

		for _, key := range kept {
			row.Total = row.Total.Add(row.Monthly[key])
		}
		result.Rows = append(result.Rows, row)
	}

	return result
}

// splitLines breaks raw input into trimmed, non-blank lines.
func splitLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// headerInfo describes the accepted header row.
type headerInfo struct {
	delimiter rune
	// keys maps field index to the normalized month key, "" for columns
	// that failed normalization or were deduplicated away.
	keys []period.Key
}

// findHeader scans lines in order for the first row whose non-first fields
// contain at least minHeaderMonths valid month headers. Returns the line
// index, header description and the count of dropped header columns, or
// index -1 when no header is present.
func findHeader(lines []string) (int, headerInfo, int) {
	for idx, line := range lines {
		delimiter := detectDelimiter(line)
		fields := splitFields(line, delimiter)
		if len(fields) < minHeaderMonths+1 {
			continue
		}

		keys := make([]period.Key, len(fields))
		seen := map[period.Key]bool{}
		found, dropped := 0, 0
		for i := 1; i < len(fields); i++ {
			key, ok := period.NormalizeMonth(fields[i])
			if !ok {
				dropped++
				continue
			}
			if seen[key] {
				// Duplicate month header, first occurrence wins.
				continue
			}
			seen[key] = true
			keys[i] = key
			found++
		}
		if found >= minHeaderMonths {
			return idx, headerInfo{delimiter: delimiter, keys: keys}, dropped
		}
	}
	return -1, headerInfo{}, 0
}

// detectDelimiter picks comma or tab for a line by comparing field counts.
func detectDelimiter(line string) rune {
	tabs := len(strings.Split(line, "\t"))
	commas := len(splitFields(line, ','))
	if tabs >= commas && tabs > 1 {
		return '\t'
	}
	return ','
}

// splitFields splits one line on the given delimiter. Comma-separated lines
// go through a CSV reader so quoted fields keep their embedded commas.
func splitFields(line string, delimiter rune) []string {
	if delimiter == '\t' {
		return strings.Split(line, "\t")
	}

	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	fields, err := r.Read()
	if err != nil {
		return strings.Split(line, ",")
	}
	return fields
}

// keepRecentMonths reduces the header's month set to the most recent
// MaxMonths keys, sorted ascending, warning when columns are cut. Columns
// outside the kept set are blanked in place so data rows skip them.
func keepRecentMonths(keys []period.Key, result *Statement) []period.Key {
	var unique []period.Key
	for _, key := range keys {
		if key != "" {
			unique = append(unique, key)
		}
	}
	period.Sort(unique)

	if len(unique) > MaxMonths {
		cut := len(unique) - MaxMonths
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("statement has %d months; keeping only the most recent %d", len(unique), MaxMonths))
		removed := unique[:cut]
		unique = unique[cut:]
		for i, key := range keys {
			if key != "" && slices.Contains(removed, key) {
				keys[i] = ""
			}
		}
	}
	return unique
}
