package main

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/blockytime/internal/cli"
	"github.com/julianstephens/blockytime/internal/config"
	"github.com/julianstephens/blockytime/internal/constants"
	"github.com/julianstephens/blockytime/internal/errors"
	"github.com/julianstephens/blockytime/internal/logger"
)

var CLI struct {
	Version   kong.VersionFlag
	ConfigDir string `help:"Configuration directory." type:"path" env:"BLOCKYTIME_CONFIG_DIR"`
	APIURL    string `help:"API base URL (default path /api/v1)." name:"api-url"`
	Timezone  string `help:"IANA timezone used to map cells to instants."`
	Debug     bool   `help:"Enable debug logging."`

	Tui          cli.TuiCmd          `cmd:"" help:"Launch the interactive grid." default:"1"`
	Blocks       cli.BlocksCmd       `cmd:"" help:"List and edit blocks."`
	Types        cli.TypesCmd        `cmd:"" help:"List block types."`
	Stats        cli.StatsCmd        `cmd:"" help:"Show time per type."`
	Trends       cli.TrendsCmd       `cmd:"" help:"Show time per type over time."`
	Sleep        cli.SleepCmd        `cmd:"" help:"Show sleep moving averages computed by the server."`
	ServerConfig cli.ServerConfigCmd `cmd:"" help:"Show the server's client configuration." name:"server-config"`
	Auth         cli.AuthCmd         `cmd:"" help:"Manage the API token."`
	Doctor       cli.DoctorCmd       `cmd:"" help:"Run health checks and diagnostics."`
	DebugCmd     cli.DebugCmd        `cmd:"" help:"Debug commands for troubleshooting." name:"debug"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Quarter-hour time tracking client"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":    constants.Version,
			"trend_days": fmt.Sprint(constants.DefaultTrendDays),
		},
	)

	cfg, err := config.Load(CLI.ConfigDir)
	if err != nil {
		errors.Fatal(err)
	}
	if err := cfg.Apply(config.Overrides{
		APIURL:   CLI.APIURL,
		Timezone: CLI.Timezone,
		Debug:    CLI.Debug,
	}); err != nil {
		errors.Fatal(err)
	}

	// The TUI owns the terminal, so logs only go to the file there
	quiet := ctx.Command() == "tui"
	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.ConfigDir, Quiet: quiet}); err != nil {
		errors.Fatal(err)
	}

	appCtx, err := cli.NewContext(cfg)
	if err != nil {
		errors.Fatal(err)
	}

	if err := ctx.Run(appCtx); err != nil {
		errors.Fatal(err)
	}
}
