package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// table renders plain-text columns: the first column left-aligned, every
// other column right-aligned. Widths are display widths, not byte counts,
// so labels with wide runes still line up.
type table struct {
	header []string
	rows   [][]string
}

func newTable(header ...string) *table {
	return &table{header: header}
}

func (t *table) addRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) render(w io.Writer) {
	widths := make([]int, len(t.header))
	for i, cell := range t.header {
		widths[i] = runewidth.StringWidth(cell)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	t.renderRow(w, t.header, widths)
	_, _ = fmt.Fprintln(w, strings.Repeat("-", totalWidth(widths)))
	for _, row := range t.rows {
		t.renderRow(w, row, widths)
	}
}

func (t *table) renderRow(w io.Writer, row []string, widths []int) {
	parts := make([]string, 0, len(row))
	for i, cell := range row {
		if i >= len(widths) {
			break
		}
		pad := widths[i] - runewidth.StringWidth(cell)
		if pad < 0 {
			pad = 0
		}
		if i == 0 {
			parts = append(parts, cell+strings.Repeat(" ", pad))
		} else {
			parts = append(parts, strings.Repeat(" ", pad)+cell)
		}
	}
	_, _ = fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
}

func totalWidth(widths []int) int {
	total := 0
	for _, w := range widths {
		total += w
	}
	if len(widths) > 1 {
		total += 2 * (len(widths) - 1)
	}
	return total
}
