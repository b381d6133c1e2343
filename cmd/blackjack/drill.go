package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/blackjack/internal/counting"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/tui"
)

// DrillCmd runs the card counting drill.
type DrillCmd struct {
	System string `default:"hi-lo" help:"Counting system: hi-lo, ko, hi-opt-i"`
	Decks  int    `default:"6" help:"Number of decks in the shoe"`
	Cards  int    `default:"5" help:"Cards shown per round"`
	Rounds int    `default:"10" help:"Number of rounds"`
	Seed   int64  `default:"0" help:"RNG seed (0 for random)"`
}

func (c *DrillCmd) Run(app *appContext) error {
	system, ok := counting.Lookup(c.System)
	if !ok {
		return fmt.Errorf("unknown counting system %q (have %v)", c.System, counting.Names())
	}
	if c.Cards < 1 || c.Rounds < 1 {
		return fmt.Errorf("cards and rounds must be positive")
	}

	rng := randutil.FromTime()
	if c.Seed != 0 {
		rng = randutil.New(c.Seed)
	}
	model, err := tui.NewDrillModel(system, c.Decks, c.Cards, c.Rounds, rng)
	if err != nil {
		return err
	}

	program := tea.NewProgram(model)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running drill: %w", err)
	}
	return nil
}
