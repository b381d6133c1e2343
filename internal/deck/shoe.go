package deck

import (
	"errors"
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/blackjack/internal/randutil"
)

var (
	// ErrShoeExhausted is returned when a deal is attempted with no cards left.
	ErrShoeExhausted = errors.New("shoe is empty")

	// ErrPenetrationReached is returned when a deal is attempted after the
	// penetration threshold; the caller must shuffle before continuing.
	ErrPenetrationReached = errors.New("penetration threshold reached, shoe needs shuffling")
)

// ValidDeckCounts lists the shoe sizes casinos actually spread.
var ValidDeckCounts = []int{1, 2, 4, 6, 8}

const cardsPerDeck = 52

// Shoe holds one or more decks of cards and deals them in shuffled order
// until a penetration threshold forces a reshuffle.
type Shoe struct {
	cards       []Card
	numDecks    int
	penetration float64
	threshold   int
	dealt       int
	rng         *rand.Rand
}

// NewShoe creates a shuffled shoe of numDecks decks. Penetration is the
// fraction of the shoe dealt before a reshuffle is required (0.1 to 0.95).
// A nil rng falls back to a time-seeded one.
func NewShoe(numDecks int, penetration float64, rng *rand.Rand) (*Shoe, error) {
	if !validDeckCount(numDecks) {
		return nil, fmt.Errorf("invalid deck count %d: must be one of %v", numDecks, ValidDeckCounts)
	}
	if penetration < 0.1 || penetration > 0.95 {
		return nil, fmt.Errorf("invalid penetration %.2f: must be between 0.10 and 0.95", penetration)
	}
	if rng == nil {
		rng = randutil.FromTime()
	}

	s := &Shoe{
		numDecks:    numDecks,
		penetration: penetration,
		threshold:   int(float64(numDecks*cardsPerDeck) * penetration),
		rng:         rng,
	}
	s.rebuild()
	s.Shuffle()
	return s, nil
}

// NewStackedShoe creates a shoe that deals the given cards in order and never
// requires a shuffle. Used to script deterministic hands. The threshold sits
// past the card count so running out surfaces ErrShoeExhausted rather than
// ErrPenetrationReached.
func NewStackedShoe(cards ...Card) *Shoe {
	stacked := make([]Card, len(cards))
	copy(stacked, cards)
	return &Shoe{
		cards:       stacked,
		numDecks:    1,
		penetration: 0.95,
		threshold:   len(stacked) + 1,
		rng:         randutil.New(0),
	}
}

func validDeckCount(n int) bool {
	for _, v := range ValidDeckCounts {
		if n == v {
			return true
		}
	}
	return false
}

func (s *Shoe) rebuild() {
	s.cards = s.cards[:0]
	for d := 0; d < s.numDecks; d++ {
		for suit := Spades; suit <= Clubs; suit++ {
			for rank := Two; rank <= Ace; rank++ {
				s.cards = append(s.cards, NewCard(suit, rank))
			}
		}
	}
}

// Deal returns the next card from the shoe. It fails with
// ErrPenetrationReached once the reshuffle threshold has been crossed and
// with ErrShoeExhausted when no cards remain.
func (s *Shoe) Deal() (Card, error) {
	if s.NeedsShuffle() {
		return Card{}, ErrPenetrationReached
	}
	if s.dealt >= len(s.cards) {
		return Card{}, ErrShoeExhausted
	}
	card := s.cards[s.dealt]
	s.dealt++
	return card, nil
}

// Shuffle returns every card to the shoe, re-randomizes the order and resets
// the dealt count.
func (s *Shoe) Shuffle() {
	s.rng.Shuffle(len(s.cards), func(i, j int) {
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	})
	s.dealt = 0
}

// Reset rebuilds a full fresh shoe and shuffles it.
func (s *Shoe) Reset() {
	s.rebuild()
	s.Shuffle()
}

// NeedsShuffle reports whether the penetration threshold has been reached.
func (s *Shoe) NeedsShuffle() bool {
	return s.dealt >= s.threshold
}

// CardsDealt returns the number of cards dealt since the last shuffle.
func (s *Shoe) CardsDealt() int {
	return s.dealt
}

// CardsRemaining returns the number of cards left in the shoe.
func (s *Shoe) CardsRemaining() int {
	return len(s.cards) - s.dealt
}

// TotalCards returns the number of cards in the full shoe.
func (s *Shoe) TotalCards() int {
	return len(s.cards)
}

// NumDecks returns the number of decks in the shoe.
func (s *Shoe) NumDecks() int {
	return s.numDecks
}

// Penetration returns the configured penetration fraction.
func (s *Shoe) Penetration() float64 {
	return s.penetration
}

// DecksRemaining estimates the number of undealt decks, used for true count
// conversion.
func (s *Shoe) DecksRemaining() float64 {
	return float64(s.CardsRemaining()) / cardsPerDeck
}

// String returns a short description of the shoe state.
func (s *Shoe) String() string {
	return fmt.Sprintf("Shoe(%d decks, %d/%d cards, %.0f%% penetration)",
		s.numDecks, s.CardsRemaining(), s.TotalCards(), s.penetration*100)
}
