package counting

import "github.com/lox/blackjack/internal/deck"

// HiLo is the classic balanced level-one count: 2-6 are +1, 7-9 are neutral,
// tens and aces are -1. The full-deck sum is zero.
type HiLo struct{}

// Value returns the Hi-Lo weight for a card.
func (HiLo) Value(c deck.Card) int {
	switch {
	case c.Rank >= deck.Two && c.Rank <= deck.Six:
		return 1
	case c.Rank >= deck.Seven && c.Rank <= deck.Nine:
		return 0
	default: // T, J, Q, K, A
		return -1
	}
}

// Name returns "Hi-Lo".
func (HiLo) Name() string { return "Hi-Lo" }

// KO is the Knock-Out count. It is unbalanced: the 7 counts +1, so a full
// deck sums to +4 and no true count conversion is needed in the source
// literature. We still expose it through the same Counter.
type KO struct{}

// Value returns the KO weight for a card.
func (KO) Value(c deck.Card) int {
	switch {
	case c.Rank >= deck.Two && c.Rank <= deck.Seven:
		return 1
	case c.Rank == deck.Eight || c.Rank == deck.Nine:
		return 0
	default: // T, J, Q, K, A
		return -1
	}
}

// Name returns "KO".
func (KO) Name() string { return "KO" }

// HiOptI is a balanced count that treats aces and 2s as neutral: 3-6 are +1,
// only T/J/Q/K are -1.
type HiOptI struct{}

// Value returns the Hi-Opt I weight for a card.
func (HiOptI) Value(c deck.Card) int {
	switch {
	case c.Rank >= deck.Three && c.Rank <= deck.Six:
		return 1
	case c.Rank >= deck.Ten && c.Rank <= deck.King:
		return -1
	default: // 2, 7-9, A
		return 0
	}
}

// Name returns "Hi-Opt I".
func (HiOptI) Name() string { return "Hi-Opt I" }
