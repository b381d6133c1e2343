package simulator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/game"
)

func TestSimulatorValidation(t *testing.T) {
	_, err := New(Config{Hands: 0, Rules: game.DefaultRules()})
	assert.Error(t, err)

	badRules := game.DefaultRules()
	badRules.NumDecks = 3
	_, err = New(Config{Hands: 100, Rules: badRules})
	assert.Error(t, err)

	_, err = New(Config{Hands: 100, Rules: game.DefaultRules(), CountingSystem: "zen"})
	assert.Error(t, err)
}

func TestSimulatorRunBasicStrategy(t *testing.T) {
	sim, err := New(Config{
		Hands:   5000,
		Workers: 1,
		Seed:    1,
		Rules:   game.DefaultRules(),
	})
	require.NoError(t, err)

	stats, err := sim.Run(context.Background())
	require.NoError(t, err)

	// A few hands near the cut card are abandoned, so allow slack.
	assert.Greater(t, stats.Hands, 4800)
	assert.LessOrEqual(t, stats.Hands, 5000)

	// Basic strategy EV sits near -0.5% of a unit; anything within a few
	// percent is a sane run at this sample size.
	assert.Greater(t, stats.Mean(), -0.1)
	assert.Less(t, stats.Mean(), 0.05)

	// Win rate lands in the low-to-mid 40s.
	assert.Greater(t, stats.WinRate(), 0.35)
	assert.Less(t, stats.WinRate(), 0.50)

	assert.Greater(t, stats.Blackjacks, 0)
	assert.Greater(t, stats.Doubles, 0)
}

func TestSimulatorDeterministicWithSeed(t *testing.T) {
	run := func() float64 {
		sim, err := New(Config{
			Hands:   1000,
			Workers: 1,
			Seed:    42,
			Rules:   game.DefaultRules(),
		})
		require.NoError(t, err)
		stats, err := sim.Run(context.Background())
		require.NoError(t, err)
		return stats.SumUnit
	}

	assert.Equal(t, run(), run())
}

func TestSimulatorMultipleWorkers(t *testing.T) {
	sim, err := New(Config{
		Hands:   2000,
		Workers: 4,
		Seed:    7,
		Rules:   game.DefaultRules(),
		Logger:  nil,
	})
	require.NoError(t, err)

	stats, err := sim.Run(context.Background())
	require.NoError(t, err)
	assert.Greater(t, stats.Hands, 1900)
}

func TestSimulatorWithDeviations(t *testing.T) {
	sim, err := New(Config{
		Hands:          2000,
		Workers:        1,
		Seed:           3,
		Rules:          game.DefaultRules(),
		CountingSystem: "hi-lo",
		UseDeviations:  true,
	})
	require.NoError(t, err)

	stats, err := sim.Run(context.Background())
	require.NoError(t, err)
	assert.Greater(t, stats.Hands, 1900)
}

func TestSimulatorCancelledContext(t *testing.T) {
	sim, err := New(Config{
		Hands:   100000,
		Workers: 1,
		Seed:    1,
		Rules:   game.DefaultRules(),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = sim.Run(ctx)
	assert.Error(t, err)
}
