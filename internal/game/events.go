package game

import (
	"time"

	"github.com/lox/blackjack/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeCardRevealed EventType = "card_revealed"
	EventTypeShoeShuffled EventType = "shoe_shuffled"
	EventTypeHandFinished EventType = "hand_finished"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during play
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// CardRevealedEvent is published when a card becomes visible to the table,
// in the exact order the counter must see them. Dealer reports whether the
// card landed in the dealer's hand.
type CardRevealedEvent struct {
	Card      deck.Card
	Dealer    bool
	timestamp time.Time
}

func (e CardRevealedEvent) EventType() EventType { return EventTypeCardRevealed }
func (e CardRevealedEvent) Timestamp() time.Time { return e.timestamp }

// NewCardRevealedEvent creates a new card revealed event
func NewCardRevealedEvent(card deck.Card, dealer bool) CardRevealedEvent {
	return CardRevealedEvent{Card: card, Dealer: dealer, timestamp: time.Now()}
}

// ShoeShuffledEvent is published when the shoe is shuffled and the count
// resets.
type ShoeShuffledEvent struct {
	timestamp time.Time
}

func (e ShoeShuffledEvent) EventType() EventType { return EventTypeShoeShuffled }
func (e ShoeShuffledEvent) Timestamp() time.Time { return e.timestamp }

// NewShoeShuffledEvent creates a new shoe shuffled event
func NewShoeShuffledEvent() ShoeShuffledEvent {
	return ShoeShuffledEvent{timestamp: time.Now()}
}

// HandFinishedEvent is published when a hand reaches a terminal state.
type HandFinishedEvent struct {
	Result    GameResult
	timestamp time.Time
}

func (e HandFinishedEvent) EventType() EventType { return EventTypeHandFinished }
func (e HandFinishedEvent) Timestamp() time.Time { return e.timestamp }

// NewHandFinishedEvent creates a new hand finished event
func NewHandFinishedEvent(result GameResult) HandFinishedEvent {
	return HandFinishedEvent{Result: result, timestamp: time.Now()}
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{subscribers: make([]EventSubscriber, 0)}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
