package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/blackjack/internal/deck"
)

// Static styles for content elements
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#1B5E20")).
			Bold(true)

	HandInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ActionsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	RedCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	BlackCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true)

	HiddenCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	CountStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#74B9FF"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// RenderCard renders a single card colored by suit.
func RenderCard(c deck.Card) string {
	if c.Suit.IsRed() {
		return RedCardStyle.Render(c.String())
	}
	return BlackCardStyle.Render(c.String())
}

// RenderHiddenCard renders the dealer's face-down card.
func RenderHiddenCard() string {
	return HiddenCardStyle.Render("🂠")
}

// RenderCards renders a row of cards, hiding all but the first when
// hideHole is set.
func RenderCards(cards []deck.Card, hideHole bool) string {
	parts := make([]string, 0, len(cards))
	for i, c := range cards {
		if hideHole && i > 0 {
			parts = append(parts, RenderHiddenCard())
			continue
		}
		parts = append(parts, RenderCard(c))
	}
	return strings.Join(parts, " ")
}
