package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/lox/blackjack/internal/config"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Config  string           `help:"Path to HCL config file" type:"path"`
	Debug   bool             `help:"Enable debug logging"`

	Play     PlayCmd     `cmd:"" help:"Play blackjack interactively"`
	Drill    DrillCmd    `cmd:"" help:"Practice card counting"`
	Simulate SimulateCmd `cmd:"" help:"Simulate hands under a strategy"`
	Sessions SessionsCmd `cmd:"" help:"Manage saved sessions"`
}

// appContext carries the loaded config and logger to subcommands.
type appContext struct {
	Config *config.Config
	Logger *log.Logger
}

func main() {
	// Optional .env for BLACKJACK_HOME and friends; absence is fine.
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Blackjack trainer with card counting and strategy simulation"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
	})
	if cli.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	configPath := cli.Config
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, err := config.Load(configPath)
	ctx.FatalIfErrorf(err)

	err = ctx.Run(&appContext{Config: cfg, Logger: logger})
	ctx.FatalIfErrorf(err)
}
