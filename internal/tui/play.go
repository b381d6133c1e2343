// Package tui implements the interactive table and the counting drill as
// bubbletea programs.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/analytics"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/session"
	"github.com/lox/blackjack/internal/strategy"
)

// PlayModel is the interactive single-player table.
type PlayModel struct {
	engine   *game.Engine
	strat    strategy.Engine
	stats    *analytics.SessionStats
	tracker  *analytics.PerformanceTracker
	sessions *session.Manager
	data     *session.SessionData
	logger   *log.Logger

	actions     []game.Action
	handActions []game.Action
	handOptimal []game.Action
	message     string
	showAdvice  bool
	showCount   bool
	quitting    bool
}

// NewPlayModel creates the interactive table model. The session manager may
// be nil, in which case nothing is persisted.
func NewPlayModel(engine *game.Engine, strat strategy.Engine, sessions *session.Manager, logger *log.Logger) *PlayModel {
	m := &PlayModel{
		engine:   engine,
		strat:    strat,
		stats:    &analytics.SessionStats{},
		tracker:  analytics.NewPerformanceTracker(),
		sessions: sessions,
		logger:   logger,
	}
	if sessions != nil {
		m.data = sessions.NewSession(engine.Rules(), engine.CountingSystemName())
	}
	return m
}

// Init deals the first hand.
func (m *PlayModel) Init() tea.Cmd {
	m.dealNext()
	return nil
}

// Update handles key presses.
func (m *PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "q", "ctrl+c":
		m.finishSession()
		m.quitting = true
		return m, tea.Quit
	case "a":
		m.showAdvice = !m.showAdvice
	case "c":
		m.showCount = !m.showCount
	case "n":
		if m.engine.IsOver() {
			m.dealNext()
		}
	case "h":
		m.playerAction(game.Hit)
	case "s":
		m.playerAction(game.Stand)
	case "d":
		m.playerAction(game.Double)
	case "r":
		m.playerAction(game.Surrender)
	}
	return m, nil
}

func (m *PlayModel) dealNext() {
	m.engine.Reset()
	m.message = ""
	m.handActions = m.handActions[:0]
	m.handOptimal = m.handOptimal[:0]
	if err := m.engine.DealInitialCards(); err != nil {
		m.message = ErrorStyle.Render(fmt.Sprintf("deal failed: %v", err))
		return
	}
	m.actions = m.engine.AvailableActions()
	if m.engine.IsOver() {
		m.recordHand()
	}
}

func (m *PlayModel) playerAction(action game.Action) {
	if m.engine.IsOver() {
		return
	}
	if !m.actionAvailable(action) {
		m.message = WarningStyle.Render(fmt.Sprintf("%s not available", action))
		return
	}

	if recommended, ok := m.trackDecision(action); ok {
		m.handActions = append(m.handActions, action)
		m.handOptimal = append(m.handOptimal, recommended)
	}

	var err error
	switch action {
	case game.Hit:
		_, err = m.engine.Hit()
	case game.Stand:
		err = m.engine.Stand()
	case game.Double:
		_, err = m.engine.Double()
	case game.Surrender:
		err = m.engine.Surrender()
	}
	if err != nil {
		m.message = ErrorStyle.Render(err.Error())
		return
	}

	m.actions = m.engine.AvailableActions()
	if m.engine.IsOver() {
		m.recordHand()
	}
}

func (m *PlayModel) actionAvailable(action game.Action) bool {
	for _, a := range m.actions {
		if a == action {
			return true
		}
	}
	return false
}

// trackDecision logs one decision against the strategy recommendation and
// returns the recommendation for the hand record.
func (m *PlayModel) trackDecision(took game.Action) (game.Action, bool) {
	upcard, ok := m.engine.DealerUpcard()
	if !ok {
		return 0, false
	}
	hand := m.engine.PlayerHand()
	recommended := m.strat.Recommend(hand, upcard, m.engine.TrueCount())
	m.tracker.Record(analytics.Categorize(hand), hand.Value(), upcard.Value(), took, recommended)
	return recommended, true
}

func (m *PlayModel) recordHand() {
	result, ok := m.engine.Result()
	if !ok {
		return
	}
	m.stats.Add(result)
	m.message = m.resultMessage(result)

	if m.data == nil {
		return
	}
	record := session.HandRecord{
		PlayerCards:    cardNames(m.engine.PlayerHand().Cards()),
		DealerCards:    cardNames(m.engine.DealerHand().Cards()),
		Actions:        append([]game.Action(nil), m.handActions...),
		OptimalActions: append([]game.Action(nil), m.handOptimal...),
		Bet:            1.0,
		Result:         result,
		RunningCnt:     m.engine.RunningCount(),
		TrueCount:      m.engine.TrueCount(),
		PlayedAt:       time.Now(),
	}
	m.data.RecordHand(record)
}

func (m *PlayModel) finishSession() {
	if m.sessions == nil || m.data == nil || len(m.data.Hands) == 0 {
		return
	}
	if err := m.sessions.Save(m.data); err != nil {
		m.logger.Error("failed to save session", "error", err)
	}
}

func (m *PlayModel) resultMessage(result game.GameResult) string {
	switch result.Outcome {
	case game.OutcomeWin:
		return SuccessStyle.Render(fmt.Sprintf("You win! (%+.1f)", result.Payout))
	case game.OutcomeBlackjack:
		return SuccessStyle.Render(fmt.Sprintf("Blackjack! (%+.1f)", result.Payout))
	case game.OutcomePush:
		return InfoStyle.Render("Push.")
	case game.OutcomeSurrender:
		return WarningStyle.Render("Surrendered. (-0.5)")
	default:
		if result.PlayerBusted {
			return ErrorStyle.Render(fmt.Sprintf("Bust! (%+.1f)", result.Payout))
		}
		return ErrorStyle.Render(fmt.Sprintf("Dealer wins. (%+.1f)", result.Payout))
	}
}

// View renders the table.
func (m *PlayModel) View() string {
	if m.quitting {
		return m.summaryView()
	}

	var sb strings.Builder
	sb.WriteString(HeaderStyle.Render(" Blackjack  " + m.engine.Rules().Summary() + " "))
	sb.WriteString("\n\n")

	hideHole := !m.engine.IsOver()
	dealer := m.engine.DealerHand()
	sb.WriteString("Dealer: " + RenderCards(dealer.Cards(), hideHole))
	if !hideHole {
		sb.WriteString(HandInfoStyle.Render(fmt.Sprintf("  (%d)", dealer.Value())))
	}
	sb.WriteString("\n")

	player := m.engine.PlayerHand()
	sb.WriteString("You:    " + RenderCards(player.Cards(), false))
	sb.WriteString(HandInfoStyle.Render(fmt.Sprintf("  (%s)", handTotal(player))))
	sb.WriteString("\n\n")

	if m.showCount {
		sb.WriteString(CountStyle.Render(fmt.Sprintf("%s  running %+d  true %+.1f",
			m.engine.CountingSystemName(), m.engine.RunningCount(), m.engine.TrueCount())))
		sb.WriteString("\n")
	}
	if m.showAdvice && !m.engine.IsOver() {
		if upcard, ok := m.engine.DealerUpcard(); ok {
			advice := m.strat.Recommend(player, upcard, m.engine.TrueCount())
			sb.WriteString(InfoStyle.Render("advice: " + advice.String()))
			sb.WriteString("\n")
		}
	}
	if m.message != "" {
		sb.WriteString(m.message)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if m.engine.IsOver() {
		sb.WriteString(ActionsStyle.Render("[n]ext hand  [q]uit"))
	} else {
		sb.WriteString(ActionsStyle.Render(actionBar(m.actions)))
	}
	sb.WriteString(InfoStyle.Render("   [a]dvice [c]ount"))
	sb.WriteString("\n")
	return sb.String()
}

func (m *PlayModel) summaryView() string {
	var sb strings.Builder
	sb.WriteString("Session over.\n")
	sb.WriteString(fmt.Sprintf("Hands: %d  Net: %+.1f units  Win rate: %.1f%%\n",
		m.stats.Hands, m.stats.SumUnit, m.stats.WinRate()*100))
	if m.tracker.Decisions() > 0 {
		sb.WriteString(fmt.Sprintf("Strategy accuracy: %.1f%%\n", m.tracker.Accuracy()*100))
	}
	return sb.String()
}

func handTotal(h *game.Hand) string {
	if h.IsSoft() && h.Value() != 21 {
		return fmt.Sprintf("soft %d", h.Value())
	}
	return fmt.Sprintf("%d", h.Value())
}

func actionBar(actions []game.Action) string {
	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		switch a {
		case game.Hit:
			parts = append(parts, "[h]it")
		case game.Stand:
			parts = append(parts, "[s]tand")
		case game.Double:
			parts = append(parts, "[d]ouble")
		case game.Surrender:
			parts = append(parts, "sur[r]ender")
		}
	}
	return strings.Join(parts, "  ")
}

func cardNames(cards []deck.Card) []string {
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.String()
	}
	return names
}
