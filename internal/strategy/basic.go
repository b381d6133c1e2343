// Package strategy recommends blackjack actions. Basic implements total
// dependent basic strategy for a multi-deck H17 game; Deviation layers
// true-count index plays on top of it.
package strategy

import (
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// Engine recommends an action for a player hand against a dealer upcard.
// The true count is ignored by implementations that do not use it.
type Engine interface {
	Recommend(hand *game.Hand, upcard deck.Card, trueCount float64) game.Action
	Name() string
}

// Table rows are indexed by dealer upcard value 2..11 (ace = 11) and
// encoded one action per column: H hit, S stand, D double, P split.
const upcardColumns = 10

func column(upcard deck.Card) int {
	return upcard.Value() - 2
}

// Hard totals 5..17. Totals below 5 cannot occur with two cards and totals
// of 18 or more always stand.
var hardRows = map[int]string{
	5:  "HHHHHHHHHH",
	6:  "HHHHHHHHHH",
	7:  "HHHHHHHHHH",
	8:  "HHHHHHHHHH",
	9:  "HDDDDHHHHH",
	10: "DDDDDDDDHH",
	11: "DDDDDDDDDH",
	12: "HHSSSHHHHH",
	13: "SSSSSHHHHH",
	14: "SSSSSHHHHH",
	15: "SSSSSHHHHH",
	16: "SSSSSHHHHH",
	17: "SSSSSSSSSS",
}

// Soft totals 13 (A,2) through 20 (A,9).
var softRows = map[int]string{
	13: "HHHDDHHHHH",
	14: "HHHDDHHHHH",
	15: "HHDDDHHHHH",
	16: "HHDDDHHHHH",
	17: "HDDDDHHHHH",
	18: "SDDDDSSHHH",
	19: "SSSSSSSSSS",
	20: "SSSSSSSSSS",
}

// Pairs are keyed by the paired card's blackjack value; aces use 11.
var pairRows = map[int]string{
	2:  "PPPPPPHHHH",
	3:  "PPPPPPHHHH",
	4:  "HHHHHHHHHH",
	5:  "DDDDDDDDHH",
	6:  "PPPPPHHHHH",
	7:  "PPPPPPHHHH",
	8:  "PPPPPPPPPP",
	9:  "PPPPPSPPSS",
	10: "SSSSSSSSSS",
	11: "PPPPPPPPPP",
}

// Basic is total dependent basic strategy for multi-deck H17 with DAS.
type Basic struct{}

// NewBasic returns a basic strategy engine.
func NewBasic() *Basic {
	return &Basic{}
}

// Name returns the strategy name.
func (b *Basic) Name() string { return "basic" }

// Recommend returns the basic strategy action. Pairs are consulted first,
// then soft totals, then hard totals. A Double recommendation degrades to
// Hit when the hand can no longer double.
func (b *Basic) Recommend(hand *game.Hand, upcard deck.Card, _ float64) game.Action {
	if hand.IsBlackjack() || hand.Value() >= 21 {
		return game.Stand
	}

	if hand.CanSplit() {
		pairValue := hand.Card(0).Value()
		if row, ok := pairRows[pairValue]; ok {
			action := decode(row[column(upcard)])
			if action != game.Split {
				return b.finalize(action, hand)
			}
			return game.Split
		}
	}

	return b.RecommendTotals(hand, upcard, 0)
}

// RecommendTotals recommends from the totals tables only, skipping the pair
// rows. Callers that cannot split (a simulator without split support, or a
// post-split hand) use this directly.
func (b *Basic) RecommendTotals(hand *game.Hand, upcard deck.Card, _ float64) game.Action {
	value := hand.Value()
	if value >= 21 {
		return game.Stand
	}

	var row string
	var ok bool
	if hand.IsSoft() {
		row, ok = softRows[value]
	} else {
		row, ok = hardRows[value]
	}
	if !ok {
		if value >= 18 {
			return game.Stand
		}
		return game.Hit
	}
	return b.finalize(decode(row[column(upcard)]), hand)
}

// finalize degrades Double to Hit when doubling is no longer legal.
func (b *Basic) finalize(action game.Action, hand *game.Hand) game.Action {
	if action == game.Double && !hand.CanDouble() {
		return game.Hit
	}
	return action
}

func decode(c byte) game.Action {
	switch c {
	case 'S':
		return game.Stand
	case 'D':
		return game.Double
	case 'P':
		return game.Split
	default:
		return game.Hit
	}
}
