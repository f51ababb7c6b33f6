package cli

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool `help:"Show timing telemetry for operations."`
}

type Commands struct {
	Globals

	Parse    ParseCmd    `cmd:"" help:"Parse a delimited profit and loss export and show the recognized rows."`
	Forecast ForecastCmd `cmd:"" help:"Roll a client's allocation forecast forward over a horizon."`
	Rollout  RolloutCmd  `cmd:"" help:"Show the quarterly glide path from current to target allocations."`
	Suggest  SuggestCmd  `cmd:"" help:"Suggest a bucket for a statement row label."`
}
