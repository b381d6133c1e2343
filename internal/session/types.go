// Package session persists play sessions as JSON files so results can be
// reviewed and aggregated across runs.
package session

import (
	"time"

	"github.com/lox/blackjack/internal/game"
)

// HandRecord is one completed hand inside a session. Actions holds every
// decision the player took in order; OptimalActions holds the strategy
// recommendation at each of those decision points.
type HandRecord struct {
	Number         int             `json:"number"`
	PlayerCards    []string        `json:"player_cards"`
	DealerCards    []string        `json:"dealer_cards"`
	Actions        []game.Action   `json:"actions"`
	OptimalActions []game.Action   `json:"optimal_actions"`
	Bet            float64         `json:"bet"`
	Result         game.GameResult `json:"result"`
	RunningCnt     int             `json:"running_count"`
	TrueCount      float64         `json:"true_count"`
	PlayedAt       time.Time       `json:"played_at"`
}

// SessionMetadata describes a session without its hand records.
type SessionMetadata struct {
	ID             string         `json:"id"`
	StartedAt      time.Time      `json:"started_at"`
	EndedAt        time.Time      `json:"ended_at,omitempty"`
	Rules          game.GameRules `json:"rules"`
	CountingSystem string         `json:"counting_system"`
	Hands          int            `json:"hands"`
	NetUnits       float64        `json:"net_units"`
}

// SessionData is the full on-disk session document.
type SessionData struct {
	Metadata SessionMetadata `json:"metadata"`
	Hands    []HandRecord    `json:"hands"`
}

// RecordHand appends a hand and keeps the metadata aggregates in sync.
func (d *SessionData) RecordHand(record HandRecord) {
	record.Number = len(d.Hands) + 1
	d.Hands = append(d.Hands, record)
	d.Metadata.Hands = len(d.Hands)
	d.Metadata.NetUnits += record.Result.Payout
}
