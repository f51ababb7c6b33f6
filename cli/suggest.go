package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/triumphsolutions/pf-forecast/chart"
	"github.com/triumphsolutions/pf-forecast/store"
)

type SuggestCmd struct {
	Label     string `help:"Statement row label to classify." arg:""`
	Direction string `help:"Flow direction of the row." default:"any" enum:"inflow,outflow,any"`
	Client    string `help:"Client data file whose catalog to resolve against (defaults to the core layout)." optional:""`
}

func (cmd *SuggestCmd) Run(ctx *kong.Context, globals *Globals) error {
	catalog := chart.CoreLayout()
	if cmd.Client != "" {
		fs, err := store.Open(cmd.Client)
		if err != nil {
			return err
		}
		catalog, err = fs.Catalog(context.Background())
		if err != nil {
			return err
		}
	}

	direction := parseDirection(cmd.Direction)

	slug, ok := chart.Suggest(cmd.Label, direction, catalog)
	if !ok {
		slug, ok = chart.DefaultBucket(direction)
	}
	if !ok {
		printError(ctx.Stderr, fmt.Sprintf("no suggestion for %q", cmd.Label))
		return NewCommandError(1)
	}

	name := slug
	for _, b := range catalog {
		if b.Slug == slug {
			name = b.Name
		}
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("%s (%s)", name, slug))

	return nil
}

func parseDirection(s string) chart.Direction {
	switch s {
	case "inflow":
		return chart.DirectionInflow
	case "outflow":
		return chart.DirectionOutflow
	default:
		return chart.DirectionAny
	}
}
