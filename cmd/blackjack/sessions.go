package main

import (
	"fmt"
	"time"

	"github.com/lox/blackjack/internal/session"
)

// SessionsCmd groups session management subcommands.
type SessionsCmd struct {
	List    SessionsListCmd    `cmd:"" help:"List saved sessions"`
	Show    SessionsShowCmd    `cmd:"" help:"Show one session in detail"`
	Cleanup SessionsCleanupCmd `cmd:"" help:"Delete sessions older than a cutoff"`
}

type SessionsListCmd struct{}

func (c *SessionsListCmd) Run(app *appContext) error {
	manager, err := session.NewManager(app.Config.Session.Dir, session.WithLogger(app.Logger))
	if err != nil {
		return err
	}
	sessions, err := manager.List()
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("no saved sessions")
		return nil
	}
	for _, meta := range sessions {
		fmt.Printf("%s  %s  %3d hands  %+7.1f units  %s\n",
			meta.ID,
			meta.StartedAt.Format("2006-01-02 15:04"),
			meta.Hands,
			meta.NetUnits,
			meta.Rules.Summary())
	}
	return nil
}

type SessionsShowCmd struct {
	ID string `arg:"" help:"Session id"`
}

func (c *SessionsShowCmd) Run(app *appContext) error {
	manager, err := session.NewManager(app.Config.Session.Dir, session.WithLogger(app.Logger))
	if err != nil {
		return err
	}
	data, err := manager.Load(c.ID)
	if err != nil {
		return err
	}

	meta := data.Metadata
	fmt.Printf("Session %s (%s, %s counting)\n", meta.ID, meta.Rules.Summary(), meta.CountingSystem)
	fmt.Printf("Played %s, %d hands, %+.1f units\n\n",
		meta.StartedAt.Format("2006-01-02 15:04"), meta.Hands, meta.NetUnits)

	for _, hand := range data.Hands {
		fmt.Printf("#%-3d %-9s you %v vs dealer %v  (%+.1f, running %+d)\n",
			hand.Number,
			hand.Result.Outcome,
			hand.PlayerCards,
			hand.DealerCards,
			hand.Result.Payout,
			hand.RunningCnt)
	}
	return nil
}

type SessionsCleanupCmd struct {
	MaxAge time.Duration `default:"720h" help:"Delete sessions older than this"`
}

func (c *SessionsCleanupCmd) Run(app *appContext) error {
	manager, err := session.NewManager(app.Config.Session.Dir, session.WithLogger(app.Logger))
	if err != nil {
		return err
	}
	removed, err := manager.Cleanup(c.MaxAge)
	if err != nil {
		return err
	}
	fmt.Printf("removed %d session(s)\n", removed)
	return nil
}
