// Package simulator plays large batches of blackjack hands under a
// strategy engine and reports expected value statistics.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/analytics"
	"github.com/lox/blackjack/internal/counting"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/strategy"
)

// Config holds configuration for running simulations.
type Config struct {
	Hands          int
	Workers        int
	Seed           int64
	Rules          game.GameRules
	CountingSystem string
	UseDeviations  bool
	Logger         *log.Logger
}

// Simulator runs blackjack hand simulations.
type Simulator struct {
	config Config
	logger *log.Logger
}

// New creates a simulator with the given configuration.
func New(config Config) (*Simulator, error) {
	if config.Hands <= 0 {
		return nil, fmt.Errorf("hands must be positive, got %d", config.Hands)
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if err := config.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation rules: %w", err)
	}
	if config.CountingSystem != "" {
		if _, ok := counting.Lookup(config.CountingSystem); !ok {
			return nil, fmt.Errorf("unknown counting system %q", config.CountingSystem)
		}
	}
	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Simulator{config: config, logger: logger}, nil
}

// Run plays the configured number of hands across workers and merges the
// shard statistics. With Workers=1 and a fixed Seed the result is
// deterministic.
func (s *Simulator) Run(ctx context.Context) (*analytics.SessionStats, error) {
	workers := s.config.Workers
	if workers > s.config.Hands {
		workers = s.config.Hands
	}

	shards := make([]*analytics.SessionStats, workers)
	perWorker := s.config.Hands / workers
	remainder := s.config.Hands % workers

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		hands := perWorker
		if i < remainder {
			hands++
		}
		worker := i
		g.Go(func() error {
			stats, err := s.runWorker(ctx, s.config.Seed+int64(worker), hands)
			if err != nil {
				return fmt.Errorf("worker %d: %w", worker, err)
			}
			shards[worker] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := &analytics.SessionStats{}
	for _, shard := range shards {
		merged.Merge(shard)
	}
	s.logger.Debug("simulation complete",
		"hands", merged.Hands, "ev", merged.Mean(), "win_rate", merged.WinRate())
	return merged, nil
}

// runWorker plays hands on one table with its own seeded RNG.
func (s *Simulator) runWorker(ctx context.Context, seed int64, hands int) (*analytics.SessionStats, error) {
	opts := []game.Option{game.WithRNG(randutil.New(seed))}
	if s.config.CountingSystem != "" {
		system, _ := counting.Lookup(s.config.CountingSystem)
		opts = append(opts, game.WithCountingSystem(system))
	}
	engine, err := game.NewEngine(s.config.Rules, opts...)
	if err != nil {
		return nil, err
	}

	var strat strategy.Engine
	if s.config.UseDeviations {
		strat = strategy.NewDeviation()
	} else {
		strat = strategy.NewBasic()
	}

	stats := &analytics.SessionStats{}
	for i := 0; i < hands; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		engine.Reset()
		if err := s.playHand(engine, strat); err != nil {
			// A mid-hand shoe exhaustion abandons the hand; the next
			// Reset shuffles and play continues.
			s.logger.Warn("abandoning hand", "error", err)
			continue
		}
		result, ok := engine.Result()
		if !ok {
			return nil, fmt.Errorf("hand %d finished without a result", i+1)
		}
		stats.Add(result)
	}
	return stats, nil
}

// playHand plays one hand to completion under the strategy engine. Split
// recommendations fall back to the totals tables since the table plays one
// hand at a time.
func (s *Simulator) playHand(engine *game.Engine, strat strategy.Engine) error {
	if err := engine.DealInitialCards(); err != nil {
		return fmt.Errorf("deal: %w", err)
	}

	for !engine.IsOver() {
		upcard, ok := engine.DealerUpcard()
		if !ok {
			return errors.New("no dealer upcard")
		}

		action := s.nextAction(engine, strat, upcard)
		switch action {
		case game.Hit:
			if _, err := engine.Hit(); err != nil {
				return fmt.Errorf("hit: %w", err)
			}
		case game.Stand:
			if err := engine.Stand(); err != nil {
				return fmt.Errorf("stand: %w", err)
			}
		case game.Double:
			if _, err := engine.Double(); err != nil {
				return fmt.Errorf("double: %w", err)
			}
		case game.Surrender:
			if err := engine.Surrender(); err != nil {
				return fmt.Errorf("surrender: %w", err)
			}
		default:
			return fmt.Errorf("unplayable action %s", action)
		}
	}
	return nil
}

// nextAction asks the strategy for a move and degrades it to one the
// engine can execute right now.
func (s *Simulator) nextAction(engine *game.Engine, strat strategy.Engine, upcard deck.Card) game.Action {
	hand := engine.PlayerHand()
	trueCount := engine.TrueCount()

	action := strat.Recommend(hand, upcard, trueCount)
	switch action {
	case game.Split:
		// No split support at this table; use the totals tables instead.
		switch st := strat.(type) {
		case *strategy.Basic:
			action = st.RecommendTotals(hand, upcard, trueCount)
		case *strategy.Deviation:
			action = st.RecommendTotals(hand, upcard, trueCount)
		default:
			action = game.Hit
		}
	case game.Double:
		if !engine.CanDouble() {
			action = game.Hit
		}
	case game.Surrender:
		if !engine.CanSurrender() {
			action = game.Hit
		}
	}
	if action == game.Split {
		action = game.Hit
	}
	return action
}
