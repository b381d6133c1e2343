package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/counting"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
)

// stackedEngine builds an engine whose shoe deals the given ranks in order:
// player, dealer, player, dealer, then hits.
func stackedEngine(t *testing.T, rules GameRules, ranks ...deck.Rank) *Engine {
	t.Helper()
	cards := make([]deck.Card, len(ranks))
	for i, r := range ranks {
		cards[i] = deck.NewCard(deck.Suit(i%4), r)
	}
	engine, err := NewEngine(rules, WithShoe(deck.NewStackedShoe(cards...)))
	require.NoError(t, err)
	return engine
}

type eventRecorder struct {
	events []GameEvent
}

func (r *eventRecorder) OnEvent(event GameEvent) {
	r.events = append(r.events, event)
}

func TestEngineStandLoss(t *testing.T) {
	// Player 16 vs dealer 16; dealer draws a 5 for 21.
	engine := stackedEngine(t, DefaultRules(), deck.Ten, deck.Six, deck.Six, deck.Ten, deck.Five)

	require.NoError(t, engine.DealInitialCards())
	require.NoError(t, engine.Stand())

	result, ok := engine.Result()
	require.True(t, ok)
	assert.Equal(t, OutcomeLoss, result.Outcome)
	assert.Equal(t, 16, result.PlayerTotal)
	assert.Equal(t, 21, result.DealerTotal)
	assert.Equal(t, -1.0, result.Payout)
	assert.False(t, result.Doubled)
}

func TestEngineNaturalBlackjack(t *testing.T) {
	engine := stackedEngine(t, DefaultRules(), deck.Ace, deck.Five, deck.King, deck.Nine)

	require.NoError(t, engine.DealInitialCards())
	assert.True(t, engine.IsOver(), "a natural resolves immediately")

	result, ok := engine.Result()
	require.True(t, ok)
	assert.Equal(t, OutcomeBlackjack, result.Outcome)
	assert.Equal(t, 1.5, result.Payout)
	assert.True(t, result.PlayerBlackjack)
}

func TestEngineBlackjackPush(t *testing.T) {
	engine := stackedEngine(t, DefaultRules(), deck.Ace, deck.Ace, deck.King, deck.King)

	require.NoError(t, engine.DealInitialCards())
	result, ok := engine.Result()
	require.True(t, ok)
	assert.Equal(t, OutcomePush, result.Outcome)
	assert.Equal(t, 0.0, result.Payout)
	assert.True(t, result.PlayerBlackjack)
	assert.True(t, result.DealerBlackjack)
}

func TestEngineDoubleWin(t *testing.T) {
	// Player 11 doubles into a ten for 21; dealer 16 draws a king and busts.
	engine := stackedEngine(t, DefaultRules(), deck.Five, deck.Six, deck.Six, deck.Ten, deck.Ten, deck.King)

	require.NoError(t, engine.DealInitialCards())
	_, err := engine.Double()
	require.NoError(t, err)

	result, ok := engine.Result()
	require.True(t, ok)
	assert.Equal(t, OutcomeWin, result.Outcome)
	assert.Equal(t, 2.0, result.Payout, "a doubled win pays twice")
	assert.True(t, result.Doubled)
	assert.True(t, result.DealerBusted)
}

func TestEngineDoubleBust(t *testing.T) {
	// Player 16 doubles into a ten and busts for -2 before the dealer acts.
	engine := stackedEngine(t, DefaultRules(), deck.Ten, deck.Five, deck.Six, deck.Nine, deck.King)

	require.NoError(t, engine.DealInitialCards())
	_, err := engine.Double()
	require.NoError(t, err)

	result, ok := engine.Result()
	require.True(t, ok)
	assert.Equal(t, OutcomeLoss, result.Outcome)
	assert.Equal(t, -2.0, result.Payout)
	assert.True(t, result.PlayerBusted)
}

func TestEnginePlayerBust(t *testing.T) {
	engine := stackedEngine(t, DefaultRules(), deck.Ten, deck.Five, deck.Six, deck.Nine, deck.King)

	require.NoError(t, engine.DealInitialCards())
	_, err := engine.Hit()
	require.NoError(t, err)

	require.True(t, engine.IsOver())
	result, _ := engine.Result()
	assert.Equal(t, OutcomeLoss, result.Outcome)
	assert.Equal(t, -1.0, result.Payout)
	assert.True(t, result.PlayerBusted)
}

func TestEngineSurrender(t *testing.T) {
	rules := DefaultRules()
	rules.SurrenderAllowed = true
	engine := stackedEngine(t, rules, deck.Ten, deck.Nine, deck.Six, deck.Seven)

	require.NoError(t, engine.DealInitialCards())
	require.NoError(t, engine.Surrender())

	result, ok := engine.Result()
	require.True(t, ok)
	assert.Equal(t, OutcomeSurrender, result.Outcome)
	assert.Equal(t, -0.5, result.Payout)
	assert.Equal(t, 0, result.DealerTotal, "dealer hand is never played out")

	// Only the three deal-time cards were counted; the hole card stays hidden.
	assert.Equal(t, 3, engine.CardsSeen())
}

func TestEngineSurrenderNotAllowed(t *testing.T) {
	engine := stackedEngine(t, DefaultRules(), deck.Ten, deck.Nine, deck.Six, deck.Seven)
	require.NoError(t, engine.DealInitialCards())

	err := engine.Surrender()
	assert.ErrorIs(t, err, ErrActionNotAllowed)
}

func TestEngineDealerSoft17(t *testing.T) {
	// Player 18 vs dealer A,6. Under H17 the dealer draws a 4 for 21 and
	// wins; under S17 the dealer stands on soft 17 and loses.
	h17 := DefaultRules()
	engine := stackedEngine(t, h17, deck.Ten, deck.Ace, deck.Eight, deck.Six, deck.Four)
	require.NoError(t, engine.DealInitialCards())
	require.NoError(t, engine.Stand())
	result, _ := engine.Result()
	assert.Equal(t, OutcomeLoss, result.Outcome)
	assert.Equal(t, 21, result.DealerTotal)

	s17 := DefaultRules()
	s17.DealerHitsSoft17 = false
	engine = stackedEngine(t, s17, deck.Ten, deck.Ace, deck.Eight, deck.Six, deck.Four)
	require.NoError(t, engine.DealInitialCards())
	require.NoError(t, engine.Stand())
	result, _ = engine.Result()
	assert.Equal(t, OutcomeWin, result.Outcome)
	assert.Equal(t, 17, result.DealerTotal)
}

func TestEngineStateErrors(t *testing.T) {
	engine := stackedEngine(t, DefaultRules(), deck.Ten, deck.Five, deck.Nine, deck.Nine, deck.Two, deck.Ten)

	_, err := engine.Hit()
	assert.ErrorIs(t, err, ErrHandNotStarted)
	assert.ErrorIs(t, engine.Stand(), ErrHandNotStarted)

	require.NoError(t, engine.DealInitialCards())
	assert.ErrorIs(t, engine.DealInitialCards(), ErrHandInProgress)

	// Three cards rule out the double.
	_, err = engine.Hit()
	require.NoError(t, err)
	_, err = engine.Double()
	assert.ErrorIs(t, err, ErrActionNotAllowed)

	require.NoError(t, engine.Stand())
	_, err = engine.Hit()
	assert.ErrorIs(t, err, ErrHandOver)
	assert.ErrorIs(t, engine.DealInitialCards(), ErrHandOver)
}

func TestEngineRevealOrdering(t *testing.T) {
	engine := stackedEngine(t, DefaultRules(), deck.Ten, deck.Six, deck.Six, deck.Ten, deck.Five)

	recorder := &eventRecorder{}
	engine.EventBus().Subscribe(recorder)

	require.NoError(t, engine.DealInitialCards())

	// Both player cards first, then the dealer upcard.
	require.Len(t, recorder.events, 3)
	first := recorder.events[0].(CardRevealedEvent)
	second := recorder.events[1].(CardRevealedEvent)
	third := recorder.events[2].(CardRevealedEvent)
	assert.False(t, first.Dealer)
	assert.False(t, second.Dealer)
	assert.True(t, third.Dealer)
	assert.Equal(t, deck.Ten, first.Card.Rank)
	assert.Equal(t, deck.Six, second.Card.Rank)
	assert.Equal(t, deck.Six, third.Card.Rank)
	assert.Equal(t, 3, engine.CardsSeen())

	// Standing reveals the hole card and the dealer's hit in hand order.
	require.NoError(t, engine.Stand())
	require.Len(t, recorder.events, 6, "hole, hit, then the finish event")
	hole := recorder.events[3].(CardRevealedEvent)
	hit := recorder.events[4].(CardRevealedEvent)
	assert.Equal(t, deck.Ten, hole.Card.Rank)
	assert.Equal(t, deck.Five, hit.Card.Rank)
	_, ok := recorder.events[5].(HandFinishedEvent)
	assert.True(t, ok)
	assert.Equal(t, 5, engine.CardsSeen())
}

func TestEngineCountTracksReveals(t *testing.T) {
	// 5 (+1), K (-1), 6 (+1) leaves the running count at +1 after the deal.
	engine := stackedEngine(t, DefaultRules(), deck.Five, deck.Six, deck.King, deck.Ten, deck.Seven)

	require.NoError(t, engine.DealInitialCards())
	assert.Equal(t, 1, engine.RunningCount())
	assert.Equal(t, 3, engine.CardsSeen())
}

func TestEngineSwitchCountingSystemDiscardsCount(t *testing.T) {
	engine := stackedEngine(t, DefaultRules(), deck.Five, deck.Six, deck.Four, deck.Ten, deck.Seven)
	require.NoError(t, engine.DealInitialCards())
	require.NotZero(t, engine.RunningCount())

	engine.SwitchCountingSystem(counting.KO{})
	assert.Equal(t, "KO", engine.CountingSystemName())
	assert.Equal(t, 0, engine.RunningCount())
	assert.Equal(t, 0, engine.CardsSeen())
}

func TestEngineResetShufflesAtPenetration(t *testing.T) {
	// A single deck at 10% penetration cuts after five cards. Burning one
	// before the deal means the four deal cards cross the threshold.
	shoe, err := deck.NewShoe(1, 0.1, randutil.New(5))
	require.NoError(t, err)
	_, err = shoe.Deal()
	require.NoError(t, err)

	engine, err := NewEngine(DefaultRules(), WithShoe(shoe))
	require.NoError(t, err)

	recorder := &eventRecorder{}
	engine.EventBus().Subscribe(recorder)

	require.NoError(t, engine.DealInitialCards())
	require.True(t, shoe.NeedsShuffle())

	engine.Reset()
	assert.False(t, shoe.NeedsShuffle())
	assert.Equal(t, 0, engine.CardsSeen(), "shuffle resets the count")
	assert.Equal(t, StateNotStarted, engine.State())

	shuffled := false
	for _, event := range recorder.events {
		if _, ok := event.(ShoeShuffledEvent); ok {
			shuffled = true
		}
	}
	assert.True(t, shuffled)
}

func TestEngineDealRequiresShuffle(t *testing.T) {
	// An empty stacked shoe fails the deal with an exhaustion error.
	engine, err := NewEngine(DefaultRules(), WithShoe(deck.NewStackedShoe()))
	require.NoError(t, err)
	assert.ErrorIs(t, engine.DealInitialCards(), deck.ErrShoeExhausted)
}

func TestEngineAvailableActions(t *testing.T) {
	rules := DefaultRules()
	rules.SurrenderAllowed = true
	engine := stackedEngine(t, rules, deck.Eight, deck.Five, deck.Eight, deck.Nine, deck.Two, deck.Ten, deck.Ten)

	require.NoError(t, engine.DealInitialCards())
	actions := engine.AvailableActions()
	assert.Contains(t, actions, Hit)
	assert.Contains(t, actions, Stand)
	assert.Contains(t, actions, Double)
	assert.Contains(t, actions, Split)
	assert.Contains(t, actions, Surrender)

	// After a hit only hit and stand remain.
	_, err := engine.Hit()
	require.NoError(t, err)
	if !engine.IsOver() {
		actions = engine.AvailableActions()
		assert.ElementsMatch(t, []Action{Hit, Stand}, actions)
	}
}

func TestEngineFullHandCycle(t *testing.T) {
	engine, err := NewEngine(DefaultRules(), WithRNG(randutil.New(11)))
	require.NoError(t, err)

	// Play several hands standing on everything; the engine must stay
	// consistent across resets.
	for i := 0; i < 20; i++ {
		engine.Reset()
		require.NoError(t, engine.DealInitialCards())
		if !engine.IsOver() {
			require.NoError(t, engine.Stand())
		}
		result, ok := engine.Result()
		require.True(t, ok)
		assert.NotZero(t, result.PlayerTotal)
	}
}

func TestNewEngineRejectsBadRules(t *testing.T) {
	rules := DefaultRules()
	rules.NumDecks = 3
	_, err := NewEngine(rules)
	assert.Error(t, err)

	rules = DefaultRules()
	rules.Penetration = 0.99
	_, err = NewEngine(rules)
	assert.Error(t, err)
}
