package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/triumphsolutions/pf-forecast/output"
	"github.com/triumphsolutions/pf-forecast/statement"
	"github.com/triumphsolutions/pf-forecast/telemetry"
)

type ParseCmd struct {
	File FileOrStdin `help:"Statement export filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *ParseCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	runCtx := context.Background()

	var collector telemetry.Collector
	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		defer func() {
			_, _ = fmt.Fprintln(ctx.Stderr)
			collector.Report(ctx.Stderr, output.NewStyles(ctx.Stderr))
		}()
	}

	timer := telemetry.FromContext(runCtx).Start(fmt.Sprintf("parse %s", filepath.Base(cmd.File.Filename)))
	stmt := statement.Parse(string(cmd.File.Contents))
	timer.End()

	for _, warning := range stmt.Warnings {
		printWarning(ctx.Stderr, warning)
	}

	if stmt.Empty() {
		printError(ctx.Stderr, "no statement data recognized")
		return NewCommandError(1)
	}

	header := []string{"Account"}
	for _, month := range stmt.Months {
		header = append(header, string(month))
	}
	header = append(header, "Total")

	t := newTable(header...)
	for _, row := range stmt.Rows {
		cells := []string{row.Name}
		for _, month := range stmt.Months {
			if amount, ok := row.Monthly[month]; ok {
				cells = append(cells, amount.StringFixed(2))
			} else {
				cells = append(cells, "")
			}
		}
		cells = append(cells, row.Total.StringFixed(2))
		t.addRow(cells...)
	}
	t.render(ctx.Stdout)

	printSuccess(ctx.Stdout, fmt.Sprintf("%d rows across %d months", len(stmt.Rows), len(stmt.Months)))

	return nil
}
