package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kong"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/triumphsolutions/pf-forecast/rollout"
	"github.com/triumphsolutions/pf-forecast/store"
)

type RolloutCmd struct {
	Client   string `help:"Client data file (JSON)." arg:"" type:"existingfile"`
	Quarters int    `help:"Number of quarters in the glide path." default:"4"`
}

func (cmd *RolloutCmd) Run(ctx *kong.Context, globals *Globals) error {
	fs, err := store.Open(cmd.Client)
	if err != nil {
		return err
	}
	for _, warning := range fs.Warnings() {
		printWarning(ctx.Stderr, warning)
	}

	targets, err := fs.Targets(context.Background())
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		printError(ctx.Stderr, "client has no allocation targets")
		return NewCommandError(1)
	}

	current, target := splitAllocations(targets, time.Now())

	slugs := make([]string, 0, len(target))
	for slug := range target {
		slugs = append(slugs, slug)
	}
	slices.Sort(slugs)

	rows := rollout.Generate(current, target, cmd.Quarters, slugs)
	for _, warning := range rollout.Validate(rows) {
		printWarning(ctx.Stderr, warning)
	}

	header := []string{"Bucket"}
	for _, row := range rows {
		header = append(header, fmt.Sprintf("Q%d", row.Quarter))
	}

	t := newTable(header...)
	for _, slug := range slugs {
		cells := []string{slug}
		for _, row := range rows {
			cells = append(cells, rollout.FormatPercent(row.Pcts[slug])+"%")
		}
		t.addRow(cells...)
	}
	t.render(ctx.Stdout)

	printSuccess(ctx.Stdout, fmt.Sprintf("Glide path over %d quarters", cmd.Quarters))

	return nil
}

// splitAllocations derives the current and target percentage mixes from a
// client's dated allocation targets: per bucket, the latest record not
// after now is current and the latest record overall is the target.
// Fractions are converted to the 0-100 form the rollout table works in.
func splitAllocations(targets []store.AllocationTarget, now time.Time) (current, target map[string]decimal.Decimal) {
	hundred := decimal.NewFromInt(100)

	current = map[string]decimal.Decimal{}
	target = map[string]decimal.Decimal{}
	currentDates := map[string]time.Time{}
	targetDates := map[string]time.Time{}

	for _, t := range targets {
		if !t.Effective.After(now) {
			if prev, ok := currentDates[t.Slug]; !ok || t.Effective.After(prev) {
				currentDates[t.Slug] = t.Effective
				current[t.Slug] = t.Pct.Mul(hundred)
			}
		}
		if prev, ok := targetDates[t.Slug]; !ok || t.Effective.After(prev) {
			targetDates[t.Slug] = t.Effective
			target[t.Slug] = t.Pct.Mul(hundred)
		}
	}
	return current, target
}
