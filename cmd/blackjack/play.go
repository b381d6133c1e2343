package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/blackjack/internal/counting"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/session"
	"github.com/lox/blackjack/internal/strategy"
	"github.com/lox/blackjack/internal/tui"
)

// PlayCmd runs the interactive table.
type PlayCmd struct {
	System     string `default:"hi-lo" help:"Counting system: hi-lo, ko, hi-opt-i"`
	Deviations bool   `help:"Advise with count deviations instead of basic strategy"`
	Seed       int64  `default:"0" help:"RNG seed (0 for random)"`
	NoSave     bool   `help:"Do not record the session to disk"`
}

func (c *PlayCmd) Run(app *appContext) error {
	system, ok := counting.Lookup(c.System)
	if !ok {
		return fmt.Errorf("unknown counting system %q (have %v)", c.System, counting.Names())
	}

	rules, err := app.Config.GameRules()
	if err != nil {
		return err
	}

	rng := randutil.FromTime()
	if c.Seed != 0 {
		rng = randutil.New(c.Seed)
	}
	engine, err := game.NewEngine(rules,
		game.WithRNG(rng),
		game.WithCountingSystem(system),
		game.WithLogger(app.Logger),
	)
	if err != nil {
		return err
	}

	var strat strategy.Engine = strategy.NewBasic()
	if c.Deviations {
		strat = strategy.NewDeviation()
	}

	var sessions *session.Manager
	if !c.NoSave {
		sessions, err = session.NewManager(app.Config.Session.Dir,
			session.WithLogger(app.Logger))
		if err != nil {
			return err
		}
	}

	model := tui.NewPlayModel(engine, strat, sessions, app.Logger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running table: %w", err)
	}
	return nil
}
