package analytics

import (
	"fmt"

	"github.com/lox/blackjack/internal/game"
)

// Category classifies a decision by the hand shape it was made on.
type Category int

const (
	CategoryHard Category = iota
	CategorySoft
	CategoryPair
)

// String returns the lowercase name of the category.
func (c Category) String() string {
	switch c {
	case CategoryHard:
		return "hard"
	case CategorySoft:
		return "soft"
	case CategoryPair:
		return "pair"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Categorize classifies a hand for decision tracking. Pairs win over soft.
func Categorize(hand *game.Hand) Category {
	switch {
	case hand.CanSplit():
		return CategoryPair
	case hand.IsSoft():
		return CategorySoft
	default:
		return CategoryHard
	}
}

type categoryStats struct {
	decisions int
	correct   int
}

// PerformanceTracker compares the actions a player took against the
// strategy recommendation at the time, per hand category.
type PerformanceTracker struct {
	total   categoryStats
	byCat   map[Category]*categoryStats
	mistake []Mistake
}

// Mistake records a single departure from the recommended action.
type Mistake struct {
	Category    Category
	HandValue   int
	Upcard      int
	Took        game.Action
	Recommended game.Action
}

// NewPerformanceTracker creates an empty tracker.
func NewPerformanceTracker() *PerformanceTracker {
	return &PerformanceTracker{byCat: make(map[Category]*categoryStats)}
}

// Record logs one decision. took is the action the player chose and
// recommended is what the strategy engine advised.
func (t *PerformanceTracker) Record(cat Category, handValue, upcard int, took, recommended game.Action) {
	stats, ok := t.byCat[cat]
	if !ok {
		stats = &categoryStats{}
		t.byCat[cat] = stats
	}
	stats.decisions++
	t.total.decisions++
	if took == recommended {
		stats.correct++
		t.total.correct++
		return
	}
	t.mistake = append(t.mistake, Mistake{
		Category:    cat,
		HandValue:   handValue,
		Upcard:      upcard,
		Took:        took,
		Recommended: recommended,
	})
}

// Decisions returns the total number of decisions recorded.
func (t *PerformanceTracker) Decisions() int {
	return t.total.decisions
}

// Accuracy returns the overall fraction of decisions matching the
// recommendation, or 1.0 when nothing was recorded.
func (t *PerformanceTracker) Accuracy() float64 {
	if t.total.decisions == 0 {
		return 1.0
	}
	return float64(t.total.correct) / float64(t.total.decisions)
}

// CategoryAccuracy returns the accuracy for one hand category.
func (t *PerformanceTracker) CategoryAccuracy(cat Category) float64 {
	stats, ok := t.byCat[cat]
	if !ok || stats.decisions == 0 {
		return 1.0
	}
	return float64(stats.correct) / float64(stats.decisions)
}

// Mistakes returns the recorded departures from recommended play, in order.
func (t *PerformanceTracker) Mistakes() []Mistake {
	out := make([]Mistake, len(t.mistake))
	copy(out, t.mistake)
	return out
}
