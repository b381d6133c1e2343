// Package game implements the blackjack hand state machine, rule
// configuration and result model. One Engine plus its shoe and counter
// represents a single table and must be owned by one goroutine.
package game

import (
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/counting"
	"github.com/lox/blackjack/internal/deck"
)

var (
	// ErrHandInProgress is returned when dealing into an unfinished hand.
	ErrHandInProgress = errors.New("hand already in progress")

	// ErrHandNotStarted is returned for player actions before the deal.
	ErrHandNotStarted = errors.New("hand not started")

	// ErrHandOver is returned for player actions after the hand resolved.
	ErrHandOver = errors.New("hand is over")

	// ErrActionNotAllowed is returned when an action's precondition fails,
	// e.g. doubling with three cards or surrendering under rules that
	// forbid it.
	ErrActionNotAllowed = errors.New("action not allowed")
)

// State is the engine lifecycle state.
type State int

const (
	StateNotStarted State = iota
	StateInProgress
	StateOver
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateInProgress:
		return "in_progress"
	case StateOver:
		return "over"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Engine runs one blackjack table: it owns the player and dealer hands,
// applies the rule configuration, executes actions and keeps the card
// counter in sync with every card as it becomes visible.
type Engine struct {
	rules   GameRules
	shoe    *deck.Shoe
	player  *Hand
	dealer  *Hand
	state   State
	result  *GameResult
	doubled bool
	counter *counting.Counter
	bus     EventBus
	logger  *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithRNG sets the RNG used to build and shuffle the shoe.
func WithRNG(rng *rand.Rand) Option {
	return func(e *Engine) {
		shoe, err := deck.NewShoe(e.rules.NumDecks, e.rules.Penetration, rng)
		if err == nil {
			e.shoe = shoe
		}
	}
}

// WithShoe replaces the shoe, typically with a stacked one for scripted
// hands.
func WithShoe(shoe *deck.Shoe) Option {
	return func(e *Engine) { e.shoe = shoe }
}

// WithCountingSystem selects the counting system (default Hi-Lo).
func WithCountingSystem(system counting.System) Option {
	return func(e *Engine) { e.counter = counting.NewCounter(system, e.rules.NumDecks) }
}

// NewEngine creates an engine for the given rules. Invalid rules are a
// configuration error reported here, never at play time.
func NewEngine(rules GameRules, opts ...Option) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game rules: %w", err)
	}

	shoe, err := deck.NewShoe(rules.NumDecks, rules.Penetration, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid game rules: %w", err)
	}

	e := &Engine{
		rules:   rules,
		shoe:    shoe,
		player:  NewHand(),
		dealer:  NewHand(),
		state:   StateNotStarted,
		counter: counting.NewCounter(counting.Default(), rules.NumDecks),
		bus:     NewEventBus(),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// EventBus returns the bus engine events are published on.
func (e *Engine) EventBus() EventBus {
	return e.bus
}

// Rules returns the rule configuration.
func (e *Engine) Rules() GameRules {
	return e.rules
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// IsOver reports whether the current hand has resolved.
func (e *Engine) IsOver() bool {
	return e.state == StateOver
}

// PlayerHand returns the player's hand. Callers must not mutate it.
func (e *Engine) PlayerHand() *Hand {
	return e.player
}

// DealerHand returns the dealer's hand. Callers must not mutate it.
func (e *Engine) DealerHand() *Hand {
	return e.dealer
}

// DealerUpcard returns the dealer's visible first card.
func (e *Engine) DealerUpcard() (deck.Card, bool) {
	if e.dealer.CardCount() == 0 {
		return deck.Card{}, false
	}
	return e.dealer.Card(0), true
}

// Result returns the game result once the hand is over.
func (e *Engine) Result() (GameResult, bool) {
	if e.state != StateOver || e.result == nil {
		return GameResult{}, false
	}
	return *e.result, true
}

// NeedsShuffle reports whether the shoe requires a shuffle before the next
// deal.
func (e *Engine) NeedsShuffle() bool {
	return e.shoe.NeedsShuffle()
}

// Shoe returns the engine's shoe.
func (e *Engine) Shoe() *deck.Shoe {
	return e.shoe
}

// DealInitialCards starts a hand: player, dealer, player, dealer. Both
// player cards and the dealer upcard are revealed to the counter; the hole
// card stays hidden until resolution. A natural blackjack on either side
// resolves the hand immediately.
func (e *Engine) DealInitialCards() error {
	switch e.state {
	case StateInProgress:
		return ErrHandInProgress
	case StateOver:
		return fmt.Errorf("%w: call Reset before dealing", ErrHandOver)
	}
	if e.shoe.NeedsShuffle() {
		return deck.ErrPenetrationReached
	}

	cards := make([]deck.Card, 4)
	for i := range cards {
		c, err := e.shoe.Deal()
		if err != nil {
			return fmt.Errorf("dealing initial cards: %w", err)
		}
		cards[i] = c
	}
	e.player.AddCard(cards[0])
	e.dealer.AddCard(cards[1])
	e.player.AddCard(cards[2])
	e.dealer.AddCard(cards[3])

	// Player cards first, then the dealer upcard. The hole card is not
	// counted until the dealer hand is played out.
	e.reveal(cards[0], false)
	e.reveal(cards[2], false)
	e.reveal(cards[1], true)

	e.state = StateInProgress
	e.logger.Debug("dealt initial cards",
		"player", e.player.String(), "upcard", cards[1].String())

	if e.player.IsBlackjack() || e.dealer.IsBlackjack() {
		e.revealDealerHole()
		e.finish(e.determineWinner())
	}
	return nil
}

// Hit deals one card to the player and reveals it. A bust resolves the hand
// as a loss.
func (e *Engine) Hit() (deck.Card, error) {
	if err := e.requireInProgress(); err != nil {
		return deck.Card{}, err
	}

	card, err := e.shoe.Deal()
	if err != nil {
		return deck.Card{}, fmt.Errorf("hit: %w", err)
	}
	e.player.AddCard(card)
	e.reveal(card, false)
	e.logger.Debug("player hits", "card", card.String(), "hand", e.player.String())

	if e.player.IsBust() {
		result := NewGameResult(OutcomeLoss, e.player.Value(), e.dealer.Value(), -1.0)
		e.finish(result)
	}
	return card, nil
}

// Stand runs the dealer out and resolves the hand, revealing the hole card
// and every dealer hit card in hand order.
func (e *Engine) Stand() error {
	if err := e.requireInProgress(); err != nil {
		return err
	}

	if err := e.dealerPlay(); err != nil {
		return err
	}
	e.revealDealerHole()
	e.finish(e.determineWinner())
	return nil
}

// Double deals exactly one card at double stakes. Valid only on the first
// decision of a non-blackjack hand.
func (e *Engine) Double() (deck.Card, error) {
	if err := e.requireInProgress(); err != nil {
		return deck.Card{}, err
	}
	if !e.CanDouble() {
		return deck.Card{}, fmt.Errorf("%w: double requires exactly two cards", ErrActionNotAllowed)
	}

	card, err := e.shoe.Deal()
	if err != nil {
		return deck.Card{}, fmt.Errorf("double: %w", err)
	}
	e.doubled = true
	e.player.AddCard(card)
	e.reveal(card, false)
	e.logger.Debug("player doubles", "card", card.String(), "hand", e.player.String())

	if e.player.IsBust() {
		result := NewGameResult(OutcomeLoss, e.player.Value(), e.dealer.Value(), -2.0)
		e.finish(result)
		return card, nil
	}

	if err := e.dealerPlay(); err != nil {
		return card, err
	}
	e.revealDealerHole()
	result := e.determineWinner()
	result.Payout *= 2
	e.finish(result)
	return card, nil
}

// Surrender forfeits half the bet. The dealer hand is never played out and
// no further cards are revealed to the counter.
func (e *Engine) Surrender() error {
	if err := e.requireInProgress(); err != nil {
		return err
	}
	if !e.CanSurrender() {
		return fmt.Errorf("%w: surrender not available", ErrActionNotAllowed)
	}

	result := NewGameResult(OutcomeSurrender, e.player.Value(), 0, -0.5)
	e.finish(result)
	return nil
}

// Reset clears both hands and returns to NotStarted. If the shoe crossed
// its penetration threshold it is shuffled here and the counter resets with
// it; the count always survives an ordinary between-hands reset.
func (e *Engine) Reset() {
	e.player.Clear()
	e.dealer.Clear()
	e.result = nil
	e.doubled = false
	e.state = StateNotStarted

	if e.shoe.NeedsShuffle() {
		e.shoe.Shuffle()
		e.counter.Reset()
		e.bus.Publish(NewShoeShuffledEvent())
		e.logger.Debug("shoe shuffled", "decks", e.shoe.NumDecks())
	}
}

// CanDouble reports whether doubling is currently legal.
func (e *Engine) CanDouble() bool {
	return e.state == StateInProgress && e.player.CanDouble() && !e.player.IsBlackjack()
}

// CanSplit reports whether the player holds a splittable pair.
func (e *Engine) CanSplit() bool {
	return e.state == StateInProgress && e.player.CanSplit() && !e.player.IsBlackjack()
}

// CanSurrender reports whether surrender is currently legal.
func (e *Engine) CanSurrender() bool {
	return e.state == StateInProgress &&
		e.rules.SurrenderAllowed &&
		e.player.CardCount() == 2 &&
		!e.player.IsBlackjack()
}

// AvailableActions returns the legal actions in the current state. It is
// empty outside InProgress.
func (e *Engine) AvailableActions() []Action {
	if e.state != StateInProgress {
		return nil
	}
	actions := []Action{Hit, Stand}
	if e.CanDouble() {
		actions = append(actions, Double)
	}
	if e.CanSplit() {
		actions = append(actions, Split)
	}
	if e.CanSurrender() {
		actions = append(actions, Surrender)
	}
	return actions
}

// RunningCount returns the counter's running count.
func (e *Engine) RunningCount() int {
	return e.counter.RunningCount()
}

// TrueCount returns the counter's true count.
func (e *Engine) TrueCount() float64 {
	return e.counter.TrueCount()
}

// CardsSeen returns the number of cards the counter has seen since the last
// shuffle.
func (e *Engine) CardsSeen() int {
	return e.counter.CardsSeen()
}

// RemainingDecks returns the counter's remaining-deck estimate.
func (e *Engine) RemainingDecks() float64 {
	return e.counter.RemainingDecks()
}

// CountingSystemName returns the name of the active counting system.
func (e *Engine) CountingSystemName() string {
	return e.counter.System().Name()
}

// SwitchCountingSystem replaces the counting system. The accumulated count
// is discarded: previously seen cards are not replayed under the new
// weights, so the count starts from zero mid-shoe. This is a deliberate
// trade-off, not a bug.
func (e *Engine) SwitchCountingSystem(system counting.System) {
	e.counter = counting.NewCounter(system, e.rules.NumDecks)
	e.logger.Debug("switched counting system", "system", system.Name())
}

func (e *Engine) requireInProgress() error {
	switch e.state {
	case StateNotStarted:
		return ErrHandNotStarted
	case StateOver:
		return ErrHandOver
	}
	return nil
}

// reveal updates the counter and publishes the card to subscribers.
func (e *Engine) reveal(card deck.Card, dealer bool) {
	e.counter.Update(card)
	e.bus.Publish(NewCardRevealedEvent(card, dealer))
}

// revealDealerHole reveals the hole card and any dealer hit cards, in hand
// order.
func (e *Engine) revealDealerHole() {
	for i := 1; i < e.dealer.CardCount(); i++ {
		e.reveal(e.dealer.Card(i), true)
	}
}

// dealerPlay draws for the dealer: hit below 17, hit soft 17 under H17
// rules, stand otherwise.
func (e *Engine) dealerPlay() error {
	if e.player.IsBust() {
		return nil
	}
	for {
		value := e.dealer.Value()
		if value > 17 {
			return nil
		}
		if value == 17 && !(e.dealer.IsSoft() && e.rules.DealerHitsSoft17) {
			return nil
		}
		card, err := e.shoe.Deal()
		if err != nil {
			return fmt.Errorf("dealer play: %w", err)
		}
		e.dealer.AddCard(card)
	}
}

func (e *Engine) determineWinner() GameResult {
	playerValue := e.player.Value()
	dealerValue := e.dealer.Value()
	playerBJ := e.player.IsBlackjack()
	dealerBJ := e.dealer.IsBlackjack()

	var result GameResult
	switch {
	case e.player.IsBust():
		result = NewGameResult(OutcomeLoss, playerValue, dealerValue, -1.0)
	case e.dealer.IsBust():
		result = NewGameResult(OutcomeWin, playerValue, dealerValue, 1.0)
	case playerBJ && dealerBJ:
		result = NewGameResult(OutcomePush, playerValue, dealerValue, 0.0)
	case playerBJ:
		result = NewGameResult(OutcomeBlackjack, playerValue, dealerValue, e.rules.BlackjackPayout)
	case dealerBJ:
		result = NewGameResult(OutcomeLoss, playerValue, dealerValue, -1.0)
		result.DealerBlackjack = true
	case playerValue > dealerValue:
		result = NewGameResult(OutcomeWin, playerValue, dealerValue, 1.0)
	case playerValue < dealerValue:
		result = NewGameResult(OutcomeLoss, playerValue, dealerValue, -1.0)
	default:
		result = NewGameResult(OutcomePush, playerValue, dealerValue, 0.0)
	}
	if playerBJ && dealerBJ {
		result.PlayerBlackjack = true
		result.DealerBlackjack = true
	}
	return result
}

func (e *Engine) finish(result GameResult) {
	result.Doubled = e.doubled
	e.result = &result
	e.state = StateOver
	e.bus.Publish(NewHandFinishedEvent(result))
	e.logger.Debug("hand finished", "result", result.String())
}
