package counting

import (
	"fmt"

	"github.com/lox/blackjack/internal/deck"
)

// Counter accumulates the running count over cards revealed since the last
// shoe shuffle and derives the true count from the estimated decks remaining.
type Counter struct {
	system   System
	numDecks int
	running  int
	seen     int
}

// NewCounter creates a counter for a shoe of numDecks decks.
func NewCounter(system System, numDecks int) *Counter {
	return &Counter{system: system, numDecks: numDecks}
}

// Update folds one revealed card into the running count.
func (c *Counter) Update(card deck.Card) {
	c.running += c.system.Value(card)
	c.seen++
}

// RunningCount returns the cumulative count since the last reset.
func (c *Counter) RunningCount() int {
	return c.running
}

// CardsSeen returns the number of cards counted since the last reset.
func (c *Counter) CardsSeen() int {
	return c.seen
}

// RemainingDecks estimates the undealt decks from cards seen.
func (c *Counter) RemainingDecks() float64 {
	remaining := c.numDecks*52 - c.seen
	return float64(remaining) / 52.0
}

// TrueCount returns the running count normalized by remaining decks. It is
// exactly 0 once the remaining-deck estimate drops to or below zero.
func (c *Counter) TrueCount() float64 {
	decks := c.RemainingDecks()
	if decks <= 0 {
		return 0.0
	}
	return float64(c.running) / decks
}

// Reset zeroes the counter; called when the shoe is shuffled.
func (c *Counter) Reset() {
	c.running = 0
	c.seen = 0
}

// System returns the counting system in use.
func (c *Counter) System() System {
	return c.system
}

// String returns a short description of the counter state.
func (c *Counter) String() string {
	return fmt.Sprintf("%s: RC=%+d TC=%+.1f", c.system.Name(), c.running, c.TrueCount())
}
