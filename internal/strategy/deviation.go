package strategy

import (
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// deviationKey identifies a deviation by hard player total and dealer
// upcard value (ace = 11).
type deviationKey struct {
	total  int
	upcard int
}

// deviation is an index play: at or beyond the true count threshold the
// deviation action replaces the basic strategy action. Stand, Double and
// Split deviations fire when the true count rises to the threshold; Hit
// deviations fire when it falls to the threshold.
type deviation struct {
	action    game.Action
	threshold float64
}

// The Illustrious 18 style index plays for a multi-deck game, plus the
// insurance-adjacent 16v9 and 15v10 plays. Keyed by hard total and upcard.
var deviations = map[deviationKey]deviation{
	{16, 10}: {game.Stand, 0},
	{16, 9}:  {game.Stand, 5},
	{15, 10}: {game.Stand, 4},
	{13, 2}:  {game.Hit, -1},
	{13, 3}:  {game.Hit, -2},
	{12, 2}:  {game.Stand, 3},
	{12, 3}:  {game.Stand, 2},
	{12, 4}:  {game.Stand, 0},
	{12, 5}:  {game.Hit, -2},
	{12, 6}:  {game.Hit, -1},
	{11, 11}: {game.Double, 1},
	{10, 10}: {game.Double, 4},
	{10, 11}: {game.Double, 4},
	{9, 2}:   {game.Double, 1},
	{9, 7}:   {game.Double, 3},
	{20, 5}:  {game.Split, 5},
	{20, 6}:  {game.Split, 4},
}

// Deviation wraps basic strategy with true-count index plays. Deviations
// apply only to hard non-blackjack hands; soft hands always follow basic
// strategy.
type Deviation struct {
	basic *Basic
}

// NewDeviation returns a deviation strategy engine.
func NewDeviation() *Deviation {
	return &Deviation{basic: NewBasic()}
}

// Name returns the strategy name.
func (d *Deviation) Name() string { return "deviations" }

// Recommend checks the index plays against the current true count before
// falling back to basic strategy. A Double deviation on a hand that cannot
// double, or a Split deviation on a hand that cannot split, is skipped
// rather than degraded.
func (d *Deviation) Recommend(hand *game.Hand, upcard deck.Card, trueCount float64) game.Action {
	if action, ok := d.lookup(hand, upcard, trueCount); ok {
		return action
	}
	return d.basic.Recommend(hand, upcard, trueCount)
}

// RecommendTotals is Recommend without the pair rows in the basic fallback.
// Split deviations are also suppressed.
func (d *Deviation) RecommendTotals(hand *game.Hand, upcard deck.Card, trueCount float64) game.Action {
	if action, ok := d.lookup(hand, upcard, trueCount); ok && action != game.Split {
		return action
	}
	return d.basic.RecommendTotals(hand, upcard, trueCount)
}

func (d *Deviation) lookup(hand *game.Hand, upcard deck.Card, trueCount float64) (game.Action, bool) {
	if hand.IsSoft() || hand.IsBlackjack() {
		return 0, false
	}
	dev, ok := deviations[deviationKey{hand.Value(), upcard.Value()}]
	if !ok {
		return 0, false
	}

	switch dev.action {
	case game.Hit:
		if trueCount > dev.threshold {
			return 0, false
		}
	default:
		if trueCount < dev.threshold {
			return 0, false
		}
	}

	switch dev.action {
	case game.Double:
		if !hand.CanDouble() {
			return 0, false
		}
	case game.Split:
		if !hand.CanSplit() {
			return 0, false
		}
	}
	return dev.action, true
}
