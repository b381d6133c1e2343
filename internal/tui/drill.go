package tui

import (
	"fmt"
	rand "math/rand/v2"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/blackjack/internal/counting"
	"github.com/lox/blackjack/internal/deck"
)

// DrillModel runs a card counting drill: cards flash by and the player is
// quizzed on the running count.
type DrillModel struct {
	shoe    *deck.Shoe
	counter *counting.Counter
	input   textinput.Model

	cardsPerRound int
	round         int
	rounds        int
	lastCards     []deck.Card
	correct       int
	message       string
	awaiting      bool
	done          bool
}

// NewDrillModel creates a drill over numDecks decks using the given
// counting system, quizzing after every cardsPerRound cards.
func NewDrillModel(system counting.System, numDecks, cardsPerRound, rounds int, rng *rand.Rand) (*DrillModel, error) {
	shoe, err := deck.NewShoe(numDecks, 0.95, rng)
	if err != nil {
		return nil, err
	}

	input := textinput.New()
	input.Placeholder = "running count"
	input.CharLimit = 4
	input.Width = 14
	input.Focus()

	return &DrillModel{
		shoe:          shoe,
		counter:       counting.NewCounter(system, numDecks),
		input:         input,
		cardsPerRound: cardsPerRound,
		rounds:        rounds,
	}, nil
}

// Init starts the first round.
func (m *DrillModel) Init() tea.Cmd {
	m.nextRound()
	return textinput.Blink
}

// Update handles input: any key advances past feedback, enter submits a
// count guess.
func (m *DrillModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "ctrl+c", "esc":
		m.done = true
		return m, tea.Quit
	case "enter":
		if m.awaiting {
			m.checkAnswer()
			return m, nil
		}
		if m.done {
			return m, tea.Quit
		}
		m.nextRound()
		return m, nil
	}

	if m.awaiting {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *DrillModel) nextRound() {
	if m.round >= m.rounds {
		m.done = true
		return
	}
	m.round++
	m.lastCards = m.lastCards[:0]
	for i := 0; i < m.cardsPerRound; i++ {
		card, err := m.shoe.Deal()
		if err != nil {
			m.shoe.Shuffle()
			m.counter.Reset()
			card, err = m.shoe.Deal()
			if err != nil {
				m.done = true
				return
			}
		}
		m.counter.Update(card)
		m.lastCards = append(m.lastCards, card)
	}
	m.input.SetValue("")
	m.message = ""
	m.awaiting = true
}

func (m *DrillModel) checkAnswer() {
	m.awaiting = false
	guess, err := strconv.Atoi(strings.TrimSpace(m.input.Value()))
	actual := m.counter.RunningCount()
	if err != nil {
		m.message = ErrorStyle.Render(fmt.Sprintf("not a number; running count is %+d", actual))
	} else if guess == actual {
		m.correct++
		m.message = SuccessStyle.Render(fmt.Sprintf("Correct: %+d", actual))
	} else {
		m.message = ErrorStyle.Render(fmt.Sprintf("Off by %d; running count is %+d", abs(guess-actual), actual))
	}
	if m.round >= m.rounds {
		m.done = true
	}
}

// View renders the current round.
func (m *DrillModel) View() string {
	var sb strings.Builder
	sb.WriteString(HeaderStyle.Render(fmt.Sprintf(" Counting drill  %s  round %d/%d ",
		m.counter.System().Name(), m.round, m.rounds)))
	sb.WriteString("\n\n")

	parts := make([]string, len(m.lastCards))
	for i, c := range m.lastCards {
		parts[i] = RenderCard(c)
	}
	sb.WriteString(strings.Join(parts, " "))
	sb.WriteString("\n\n")

	if m.awaiting {
		sb.WriteString(m.input.View())
		sb.WriteString("\n")
		sb.WriteString(InfoStyle.Render("enter the running count, esc to quit"))
	} else {
		sb.WriteString(m.message)
		sb.WriteString("\n")
		if m.done {
			sb.WriteString(fmt.Sprintf("Score: %d/%d\n", m.correct, m.rounds))
			sb.WriteString(InfoStyle.Render("enter to exit"))
		} else {
			sb.WriteString(InfoStyle.Render("enter for the next round"))
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
