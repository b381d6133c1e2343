package counting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
)

func fullDeck() []deck.Card {
	var cards []deck.Card
	for suit := deck.Spades; suit <= deck.Clubs; suit++ {
		for rank := deck.Two; rank <= deck.Ace; rank++ {
			cards = append(cards, deck.NewCard(suit, rank))
		}
	}
	return cards
}

func deckSum(s System) int {
	sum := 0
	for _, c := range fullDeck() {
		sum += s.Value(c)
	}
	return sum
}

func TestBalancedSystemsSumToZero(t *testing.T) {
	assert.Equal(t, 0, deckSum(HiLo{}), "Hi-Lo is balanced")
	assert.Equal(t, 0, deckSum(HiOptI{}), "Hi-Opt I is balanced")
}

func TestKOSumsToFourPerDeck(t *testing.T) {
	assert.Equal(t, 4, deckSum(KO{}))
}

func TestHiLoWeights(t *testing.T) {
	sys := HiLo{}
	assert.Equal(t, 1, sys.Value(deck.NewCard(deck.Spades, deck.Two)))
	assert.Equal(t, 1, sys.Value(deck.NewCard(deck.Spades, deck.Six)))
	assert.Equal(t, 0, sys.Value(deck.NewCard(deck.Spades, deck.Seven)))
	assert.Equal(t, 0, sys.Value(deck.NewCard(deck.Spades, deck.Nine)))
	assert.Equal(t, -1, sys.Value(deck.NewCard(deck.Spades, deck.Ten)))
	assert.Equal(t, -1, sys.Value(deck.NewCard(deck.Spades, deck.Ace)))
}

func TestCounterSequence(t *testing.T) {
	counter := NewCounter(HiLo{}, 1)

	// 5 (+1), K (-1), 6 (+1), 7 (0) leaves the running count at +1.
	for _, rank := range []deck.Rank{deck.Five, deck.King, deck.Six, deck.Seven} {
		counter.Update(deck.NewCard(deck.Hearts, rank))
	}
	assert.Equal(t, 1, counter.RunningCount())
	assert.Equal(t, 4, counter.CardsSeen())
}

func TestTrueCountConversion(t *testing.T) {
	counter := NewCounter(HiLo{}, 2)

	// Burn a full deck of neutral cards: 7s, 8s and 9s repeated.
	neutral := []deck.Rank{deck.Seven, deck.Eight, deck.Nine}
	for i := 0; i < 52; i++ {
		counter.Update(deck.NewCard(deck.Clubs, neutral[i%3]))
	}
	require.Equal(t, 0, counter.RunningCount())
	assert.InDelta(t, 1.0, counter.RemainingDecks(), 1e-9)

	// Six low cards push the running count to +6, true count to +6.
	for i := 0; i < 6; i++ {
		counter.Update(deck.NewCard(deck.Clubs, deck.Three))
	}
	assert.Equal(t, 6, counter.RunningCount())
	assert.InDelta(t, 6.0/counter.RemainingDecks(), counter.TrueCount(), 1e-9)
}

func TestTrueCountZeroWhenShoeEmpty(t *testing.T) {
	counter := NewCounter(HiLo{}, 1)
	for i := 0; i < 52; i++ {
		counter.Update(deck.NewCard(deck.Clubs, deck.Three))
	}
	assert.Equal(t, 0.0, counter.TrueCount())
}

func TestCounterReset(t *testing.T) {
	counter := NewCounter(HiLo{}, 6)
	counter.Update(deck.NewCard(deck.Spades, deck.Five))
	counter.Update(deck.NewCard(deck.Spades, deck.Four))
	require.Equal(t, 2, counter.RunningCount())

	counter.Reset()
	assert.Equal(t, 0, counter.RunningCount())
	assert.Equal(t, 0, counter.CardsSeen())
	assert.InDelta(t, 6.0, counter.RemainingDecks(), 1e-9)
}

func TestRegistryLookup(t *testing.T) {
	for _, name := range []string{"hi-lo", "Hi-Lo", "KO", "ko", "hi-opt-i", "Hi-Opt I"} {
		_, ok := Lookup(name)
		assert.True(t, ok, "lookup %q", name)
	}
	_, ok := Lookup("zen")
	assert.False(t, ok)

	assert.Equal(t, "Hi-Lo", Default().Name())
}
