package game

import (
	"fmt"
	"strings"
)

// GameRules configures the casino rule variant a table plays.
type GameRules struct {
	// DealerHitsSoft17 controls whether the dealer hits or stands on soft 17.
	DealerHitsSoft17 bool `json:"dealer_hits_soft_17"`

	// DoubleAfterSplit controls whether doubling is allowed on split hands.
	DoubleAfterSplit bool `json:"double_after_split"`

	// SurrenderAllowed controls whether late surrender is offered.
	SurrenderAllowed bool `json:"surrender_allowed"`

	// NumDecks is the shoe size; one of 1, 2, 4, 6 or 8.
	NumDecks int `json:"num_decks"`

	// Penetration is the fraction of the shoe dealt before a reshuffle.
	Penetration float64 `json:"penetration"`

	// BlackjackPayout is the payout multiplier for a natural, typically 1.5.
	BlackjackPayout float64 `json:"blackjack_payout"`
}

// DefaultRules returns a common six-deck H17 game paying 3:2.
func DefaultRules() GameRules {
	return GameRules{
		DealerHitsSoft17: true,
		DoubleAfterSplit: true,
		SurrenderAllowed: false,
		NumDecks:         6,
		Penetration:      0.75,
		BlackjackPayout:  1.5,
	}
}

// Validate checks the rule values. Invalid rules are a configuration error
// and reject the whole configuration.
func (r GameRules) Validate() error {
	switch r.NumDecks {
	case 1, 2, 4, 6, 8:
	default:
		return fmt.Errorf("num_decks must be 1, 2, 4, 6 or 8, got %d", r.NumDecks)
	}
	if r.Penetration < 0.1 || r.Penetration > 0.95 {
		return fmt.Errorf("penetration must be between 0.10 and 0.95, got %.2f", r.Penetration)
	}
	if r.BlackjackPayout <= 0 {
		return fmt.Errorf("blackjack_payout must be positive, got %.2f", r.BlackjackPayout)
	}
	return nil
}

// TotalCards returns the number of cards in the configured shoe.
func (r GameRules) TotalCards() int {
	return r.NumDecks * 52
}

// PenetrationCards returns the number of cards dealt before a reshuffle.
func (r GameRules) PenetrationCards() int {
	return int(float64(r.TotalCards()) * r.Penetration)
}

// Summary returns a compact human-readable description, e.g.
// "6D H17 DAS 3:2".
func (r GameRules) Summary() string {
	parts := []string{fmt.Sprintf("%dD", r.NumDecks)}
	if r.DealerHitsSoft17 {
		parts = append(parts, "H17")
	} else {
		parts = append(parts, "S17")
	}
	if r.DoubleAfterSplit {
		parts = append(parts, "DAS")
	}
	if r.SurrenderAllowed {
		parts = append(parts, "LS")
	}
	if r.BlackjackPayout == 1.5 {
		parts = append(parts, "3:2")
	} else {
		parts = append(parts, fmt.Sprintf("BJ x%.2f", r.BlackjackPayout))
	}
	return strings.Join(parts, " ")
}
