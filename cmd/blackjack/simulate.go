package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/blackjack/internal/simulator"
)

// SimulateCmd runs a batch simulation and prints an EV report.
type SimulateCmd struct {
	Hands      int    `default:"0" help:"Number of hands (0 uses the config default)"`
	Workers    int    `default:"0" help:"Worker goroutines (0 uses the config default)"`
	Seed       int64  `default:"1" help:"Base RNG seed"`
	System     string `default:"hi-lo" help:"Counting system: hi-lo, ko, hi-opt-i"`
	Deviations bool   `help:"Play count deviations instead of plain basic strategy"`
}

var (
	reportTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD700"))
	reportLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")).Width(18)
)

func (c *SimulateCmd) Run(app *appContext) error {
	rules, err := app.Config.GameRules()
	if err != nil {
		return err
	}

	hands := c.Hands
	if hands == 0 {
		hands = app.Config.Simulation.Hands
	}
	workers := c.Workers
	if workers == 0 {
		workers = app.Config.Simulation.Workers
	}

	sim, err := simulator.New(simulator.Config{
		Hands:          hands,
		Workers:        workers,
		Seed:           c.Seed,
		Rules:          rules,
		CountingSystem: c.System,
		UseDeviations:  c.Deviations,
		Logger:         app.Logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	strategyName := "basic"
	if c.Deviations {
		strategyName = "deviations"
	}
	app.Logger.Info("starting simulation",
		"hands", hands, "workers", workers, "rules", rules.Summary(), "strategy", strategyName)

	start := time.Now()
	stats, err := sim.Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	elapsed := time.Since(start)

	low, high := stats.ConfidenceInterval95()
	fmt.Println(reportTitleStyle.Render("Simulation results"))
	printRow("hands", "%d", stats.Hands)
	printRow("elapsed", "%s", elapsed.Round(time.Millisecond))
	printRow("EV/hand", "%+.4f units", stats.Mean())
	printRow("95% CI", "%+.4f to %+.4f", low, high)
	printRow("std dev", "%.4f", stats.StdDev())
	printRow("win rate", "%.2f%%", stats.WinRate()*100)
	printRow("blackjacks", "%d", stats.Blackjacks)
	printRow("doubles", "%d", stats.Doubles)
	printRow("busts", "%d", stats.Busts)
	return nil
}

func printRow(label, format string, args ...any) {
	fmt.Printf("%s %s\n", reportLabelStyle.Render(label), fmt.Sprintf(format, args...))
}
