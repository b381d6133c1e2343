package game

import (
	"strconv"
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

// Hand is an ordered sequence of cards with blackjack hand queries.
type Hand struct {
	cards []deck.Card
}

// NewHand creates a hand with the given starting cards.
func NewHand(cards ...deck.Card) *Hand {
	h := &Hand{cards: make([]deck.Card, 0, 8)}
	h.cards = append(h.cards, cards...)
	return h
}

// AddCard appends a card to the hand.
func (h *Hand) AddCard(c deck.Card) {
	h.cards = append(h.cards, c)
}

// Cards returns a copy of the cards in the hand.
func (h *Hand) Cards() []deck.Card {
	cards := make([]deck.Card, len(h.cards))
	copy(cards, h.cards)
	return cards
}

// Card returns the card at index i.
func (h *Hand) Card(i int) deck.Card {
	return h.cards[i]
}

// CardCount returns the number of cards in the hand.
func (h *Hand) CardCount() int {
	return len(h.cards)
}

// total counts every ace as 11, then demotes aces to 1 one at a time while
// the hand is busting. It returns the resulting total and how many aces are
// still valued at 11.
func (h *Hand) total() (int, int) {
	total := 0
	aces := 0
	for _, c := range h.cards {
		if c.IsAce() {
			aces++
			total += 11
		} else {
			total += c.Value()
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total, aces
}

// Value returns the best blackjack total for the hand: the highest total not
// exceeding 21 if one exists, otherwise the minimum busting total.
func (h *Hand) Value() int {
	total, _ := h.total()
	return total
}

// IsSoft reports whether the hand still counts an ace as 11.
func (h *Hand) IsSoft() bool {
	_, softAces := h.total()
	return softAces > 0
}

// IsBlackjack reports whether the hand is a natural: exactly two cards
// totalling 21.
func (h *Hand) IsBlackjack() bool {
	return len(h.cards) == 2 && h.Value() == 21
}

// IsBust reports whether the hand total exceeds 21.
func (h *Hand) IsBust() bool {
	return h.Value() > 21
}

// CanSplit reports whether the hand is a splittable pair: exactly two cards
// of equal rank or equal blackjack value.
func (h *Hand) CanSplit() bool {
	if len(h.cards) != 2 {
		return false
	}
	a, b := h.cards[0], h.cards[1]
	return a.Rank == b.Rank || a.Value() == b.Value()
}

// CanDouble reports whether the hand may be doubled (exactly two cards).
func (h *Hand) CanDouble() bool {
	return len(h.cards) == 2
}

// Clear removes all cards, ready for the next hand.
func (h *Hand) Clear() {
	h.cards = h.cards[:0]
}

// String renders the hand like "A♠ K♥ = 21".
func (h *Hand) String() string {
	if len(h.cards) == 0 {
		return "empty hand"
	}
	var sb strings.Builder
	for i, c := range h.cards {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(c.String())
	}
	value := h.Value()
	sb.WriteString(" = ")
	sb.WriteString(strconv.Itoa(value))
	if h.IsSoft() && value != 21 {
		sb.WriteString(" (soft)")
	}
	return sb.String()
}
