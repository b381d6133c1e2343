package game

import "fmt"

// Outcome is the six-way result of a completed hand.
type Outcome int

const (
	OutcomeWin Outcome = iota
	OutcomeLoss
	OutcomePush
	OutcomeBlackjack
	OutcomeSurrender
)

// String returns the lowercase name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLoss:
		return "loss"
	case OutcomePush:
		return "push"
	case OutcomeBlackjack:
		return "blackjack"
	case OutcomeSurrender:
		return "surrender"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "win":
		*o = OutcomeWin
	case "loss":
		*o = OutcomeLoss
	case "push":
		*o = OutcomePush
	case "blackjack":
		*o = OutcomeBlackjack
	case "surrender":
		*o = OutcomeSurrender
	default:
		return fmt.Errorf("unknown outcome %q", text)
	}
	return nil
}

// GameResult records the outcome of one completed hand. Results are built
// through NewGameResult and immutable thereafter.
type GameResult struct {
	Outcome     Outcome `json:"outcome"`
	PlayerTotal int     `json:"player_total"`

	// DealerTotal is 0 when the dealer hand was never played out (surrender).
	DealerTotal int `json:"dealer_total,omitempty"`

	// Payout is a multiplier of the bet: +1 even money, +1.5 for 3:2
	// blackjack, -1 loss, -0.5 surrender, 0 push. Doubled hands scale to ±2.
	Payout float64 `json:"payout"`

	// Doubled reports whether the hand was resolved by a double down. Set
	// by the engine, not by NewGameResult.
	Doubled bool `json:"doubled"`

	PlayerBusted    bool `json:"player_busted"`
	DealerBusted    bool `json:"dealer_busted"`
	PlayerBlackjack bool `json:"player_blackjack"`
	DealerBlackjack bool `json:"dealer_blackjack"`
}

// NewGameResult builds a result, normalizing the payout so its sign and
// magnitude always match the outcome regardless of the value supplied.
// Passing dealerTotal 0 means the dealer hand was not played out.
func NewGameResult(outcome Outcome, playerTotal, dealerTotal int, payout float64) GameResult {
	r := GameResult{
		Outcome:     outcome,
		PlayerTotal: playerTotal,
		DealerTotal: dealerTotal,
		Payout:      payout,
	}

	if r.PlayerTotal > 21 {
		r.PlayerBusted = true
	}
	if r.DealerTotal > 21 {
		r.DealerBusted = true
	}
	if r.Outcome == OutcomeBlackjack {
		r.PlayerBlackjack = true
	}

	switch r.Outcome {
	case OutcomeLoss:
		if r.Payout >= 0 {
			r.Payout = -1.0
		}
	case OutcomeWin:
		if r.Payout <= 0 {
			r.Payout = 1.0
		}
	case OutcomeBlackjack:
		if r.Payout <= 1.0 {
			r.Payout = 1.5
		}
	case OutcomePush:
		r.Payout = 0.0
	case OutcomeSurrender:
		r.Payout = -0.5
	}

	return r
}

// IsWin reports whether this is a winning result for the player.
func (r GameResult) IsWin() bool {
	return r.Outcome == OutcomeWin || r.Outcome == OutcomeBlackjack
}

// IsLoss reports whether this is a losing result for the player.
func (r GameResult) IsLoss() bool {
	return r.Outcome == OutcomeLoss || r.Outcome == OutcomeSurrender
}

// Net returns the monetary result for a given bet.
func (r GameResult) Net(bet float64) float64 {
	return r.Payout * bet
}

// String returns a one-line description of the result.
func (r GameResult) String() string {
	if r.DealerTotal > 0 {
		return fmt.Sprintf("%s: player %d vs dealer %d (payout %+.1f)",
			r.Outcome, r.PlayerTotal, r.DealerTotal, r.Payout)
	}
	return fmt.Sprintf("%s: player %d (payout %+.1f)", r.Outcome, r.PlayerTotal, r.Payout)
}
