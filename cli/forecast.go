package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"

	pfforecast "github.com/triumphsolutions/pf-forecast"
	"github.com/triumphsolutions/pf-forecast/output"
	"github.com/triumphsolutions/pf-forecast/period"
	"github.com/triumphsolutions/pf-forecast/store"
	"github.com/triumphsolutions/pf-forecast/telemetry"
)

type ForecastCmd struct {
	Client      string `help:"Client data file (JSON)." arg:"" type:"existingfile"`
	Periods     int    `help:"Number of periods to forecast." default:"12"`
	Granularity string `help:"Horizon granularity." default:"monthly" enum:"monthly,weekly"`
	Watch       bool   `help:"Recompute whenever the client file changes." short:"w"`
	Force       bool   `help:"Skip the confirmation prompt for imbalanced allocations." short:"f"`
}

func (cmd *ForecastCmd) Run(ctx *kong.Context, globals *Globals) error {
	granularity, ok := period.ParseGranularity(cmd.Granularity)
	if !ok {
		return fmt.Errorf("unknown granularity %q", cmd.Granularity)
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

	if err := cmd.runOnce(runCtx, ctx, granularity); err != nil {
		return err
	}

	if !cmd.Watch {
		return nil
	}
	return cmd.watch(runCtx, ctx, granularity)
}

func (cmd *ForecastCmd) runOnce(runCtx context.Context, ctx *kong.Context, granularity period.Granularity) error {
	fs, err := store.Open(cmd.Client)
	if err != nil {
		return err
	}
	for _, warning := range fs.Warnings() {
		printWarning(ctx.Stderr, warning)
	}

	result, err := pfforecast.BuildForecast(runCtx, fs, pfforecast.Options{
		Granularity: granularity,
		Periods:     cmd.Periods,
	})
	if err != nil {
		return err
	}

	for _, warning := range result.Warnings {
		printWarning(ctx.Stderr, warning)
	}

	if len(result.Allocations.Slugs()) > 0 && !result.Allocations.SumsToOne() && !cmd.Force {
		proceed, err := promptYesNo(ctx, "Allocation percentages do not total 100%. Continue anyway?")
		if err != nil {
			return err
		}
		if isTerminal() && !proceed {
			printError(ctx.Stderr, "aborted")
			return NewCommandError(1)
		}
	}

	catalog, err := fs.Catalog(runCtx)
	if err != nil {
		return err
	}
	names := map[string]string{}
	for _, b := range catalog {
		names[b.Slug] = b.Name
	}

	header := []string{"Bucket"}
	for _, p := range result.Horizon {
		header = append(header, string(p))
	}

	t := newTable(header...)
	for _, slug := range result.Forecast.Slugs() {
		name := names[slug]
		if name == "" {
			name = slug
		}
		cells := []string{name}
		for _, snapshot := range result.Forecast.Snapshots(slug) {
			cells = append(cells, snapshot.End.StringFixed(2))
		}
		t.addRow(cells...)
	}
	t.render(ctx.Stdout)

	printSuccess(ctx.Stdout, fmt.Sprintf("Forecast for %s over %d %s periods",
		fs.Client().Name, len(result.Horizon), granularity))

	return nil
}

// watch recomputes the forecast whenever the client file changes. Events
// are debounced because editors often write files in multiple steps, and
// the path is re-added after each change to survive atomic saves.
func (cmd *ForecastCmd) watch(runCtx context.Context, ctx *kong.Context, granularity period.Granularity) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(cmd.Client); err != nil {
		return fmt.Errorf("failed to watch %s: %w", cmd.Client, err)
	}

	absPath, err := filepath.Abs(cmd.Client)
	if err != nil {
		absPath = cmd.Client
	}
	printInfof(ctx.Stdout, "Watching %s for changes", pathStyle.Render(absPath))

	const debounceDelay = 100 * time.Millisecond

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}

			debounceTimer = time.AfterFunc(debounceDelay, func() {
				_ = watcher.Add(cmd.Client)
				printInfof(ctx.Stdout, "Change detected, recomputing")
				if err := cmd.runOnce(runCtx, ctx, granularity); err != nil {
					printError(ctx.Stderr, err.Error())
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printError(ctx.Stderr, fmt.Sprintf("file watcher error: %v", err))
		}
	}
}
