// Package analytics accumulates session statistics and tracks how closely
// play follows strategy recommendations.
package analytics

import (
	"math"
	"sort"

	"github.com/lox/blackjack/internal/game"
)

// SessionStats tracks results across hands in units of the base bet.
type SessionStats struct {
	Hands   int
	SumUnit float64
	SumSq   float64 // sum of squares for variance
	Values  []float64

	Wins       int
	Losses     int
	Pushes     int
	Blackjacks int
	Surrenders int
	Doubles    int
	Busts      int
}

// Add incorporates a completed hand result.
func (s *SessionStats) Add(result game.GameResult) {
	unit := result.Payout
	s.Hands++
	s.SumUnit += unit
	s.SumSq += unit * unit
	s.Values = append(s.Values, unit)

	switch result.Outcome {
	case game.OutcomeWin:
		s.Wins++
	case game.OutcomeLoss:
		s.Losses++
	case game.OutcomePush:
		s.Pushes++
	case game.OutcomeBlackjack:
		s.Wins++
		s.Blackjacks++
	case game.OutcomeSurrender:
		s.Surrenders++
	}
	if result.Doubled {
		s.Doubles++
	}
	if result.PlayerBusted {
		s.Busts++
	}
}

// Merge folds other into s. Used to combine per-worker simulation shards.
func (s *SessionStats) Merge(other *SessionStats) {
	s.Hands += other.Hands
	s.SumUnit += other.SumUnit
	s.SumSq += other.SumSq
	s.Values = append(s.Values, other.Values...)
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Pushes += other.Pushes
	s.Blackjacks += other.Blackjacks
	s.Surrenders += other.Surrenders
	s.Doubles += other.Doubles
	s.Busts += other.Busts
}

// WinRate returns the fraction of hands won, blackjacks included.
func (s *SessionStats) WinRate() float64 {
	if s.Hands == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Hands)
}

// Mean returns the mean result per hand in bet units.
func (s *SessionStats) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumUnit / float64(s.Hands)
}

// Variance returns the sample variance of per-hand results.
func (s *SessionStats) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumSq - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

// StdDev returns the sample standard deviation of per-hand results.
func (s *SessionStats) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean.
func (s *SessionStats) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean.
func (s *SessionStats) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median per-hand result.
func (s *SessionStats) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}
