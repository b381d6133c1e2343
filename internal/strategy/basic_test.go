package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

func card(rank deck.Rank) deck.Card {
	return deck.NewCard(deck.Spades, rank)
}

func hand(ranks ...deck.Rank) *game.Hand {
	h := game.NewHand()
	for i, r := range ranks {
		h.AddCard(deck.NewCard(deck.Suit(i%4), r))
	}
	return h
}

func TestBasicHardTotals(t *testing.T) {
	b := NewBasic()

	// 16 v 10 hits, 16 v 6 stands.
	assert.Equal(t, game.Hit, b.Recommend(hand(deck.Ten, deck.Six), card(deck.Ten), 0))
	assert.Equal(t, game.Stand, b.Recommend(hand(deck.Ten, deck.Six), card(deck.Six), 0))

	// 11 doubles against everything but an ace.
	assert.Equal(t, game.Double, b.Recommend(hand(deck.Five, deck.Six), card(deck.Six), 0))
	assert.Equal(t, game.Double, b.Recommend(hand(deck.Five, deck.Six), card(deck.Ten), 0))
	assert.Equal(t, game.Hit, b.Recommend(hand(deck.Five, deck.Six), card(deck.Ace), 0))

	// 12 hits against a 2 but stands against a 4.
	assert.Equal(t, game.Hit, b.Recommend(hand(deck.Ten, deck.Two), card(deck.Two), 0))
	assert.Equal(t, game.Stand, b.Recommend(hand(deck.Ten, deck.Two), card(deck.Four), 0))

	// 17 and up always stands.
	assert.Equal(t, game.Stand, b.Recommend(hand(deck.Ten, deck.Seven), card(deck.Ace), 0))
	assert.Equal(t, game.Stand, b.Recommend(hand(deck.Ten, deck.Nine), card(deck.Ten), 0))
}

func TestBasicSoftTotals(t *testing.T) {
	b := NewBasic()

	// Soft 18 doubles against 3-6, stands against 2 and 7-8, hits high.
	soft18 := hand(deck.Ace, deck.Seven)
	assert.Equal(t, game.Stand, b.Recommend(soft18, card(deck.Two), 0))
	assert.Equal(t, game.Double, b.Recommend(soft18, card(deck.Four), 0))
	assert.Equal(t, game.Stand, b.Recommend(soft18, card(deck.Eight), 0))
	assert.Equal(t, game.Hit, b.Recommend(soft18, card(deck.Nine), 0))

	// Soft 13 only doubles against 5 and 6.
	soft13 := hand(deck.Ace, deck.Two)
	assert.Equal(t, game.Hit, b.Recommend(soft13, card(deck.Four), 0))
	assert.Equal(t, game.Double, b.Recommend(soft13, card(deck.Five), 0))

	// Soft 19 stands everywhere.
	assert.Equal(t, game.Stand, b.Recommend(hand(deck.Ace, deck.Eight), card(deck.Six), 0))
}

func TestBasicPairs(t *testing.T) {
	b := NewBasic()

	// Aces and eights always split.
	assert.Equal(t, game.Split, b.Recommend(hand(deck.Ace, deck.Ace), card(deck.Ten), 0))
	assert.Equal(t, game.Split, b.Recommend(hand(deck.Eight, deck.Eight), card(deck.Ten), 0))

	// Fives play as a hard 10 and double.
	assert.Equal(t, game.Double, b.Recommend(hand(deck.Five, deck.Five), card(deck.Six), 0))

	// Tens stand.
	assert.Equal(t, game.Stand, b.Recommend(hand(deck.Ten, deck.Ten), card(deck.Six), 0))

	// Nines split against 2-6 and 8-9 but stand against 7.
	nines := hand(deck.Nine, deck.Nine)
	assert.Equal(t, game.Split, b.Recommend(nines, card(deck.Six), 0))
	assert.Equal(t, game.Stand, b.Recommend(nines, card(deck.Seven), 0))
	assert.Equal(t, game.Split, b.Recommend(nines, card(deck.Nine), 0))
	assert.Equal(t, game.Stand, b.Recommend(nines, card(deck.Ten), 0))
}

func TestBasicDoubleDowngradesToHit(t *testing.T) {
	b := NewBasic()

	// A three-card 11 can no longer double.
	eleven := hand(deck.Two, deck.Four, deck.Five)
	assert.Equal(t, game.Hit, b.Recommend(eleven, card(deck.Six), 0))
}

func TestBasicBlackjackStands(t *testing.T) {
	b := NewBasic()
	assert.Equal(t, game.Stand, b.Recommend(hand(deck.Ace, deck.King), card(deck.Six), 0))
}

func TestRecommendTotalsSkipsPairs(t *testing.T) {
	b := NewBasic()

	// Eights play as hard 16 in the totals tables.
	eights := hand(deck.Eight, deck.Eight)
	assert.Equal(t, game.Hit, b.RecommendTotals(eights, card(deck.Ten), 0))
	assert.Equal(t, game.Stand, b.RecommendTotals(eights, card(deck.Six), 0))
}
