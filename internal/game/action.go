package game

import "fmt"

// Action represents a player decision at the table.
type Action int

const (
	Hit Action = iota
	Stand
	Double
	Split
	Surrender
)

// String returns the lowercase name of the action.
func (a Action) String() string {
	switch a {
	case Hit:
		return "hit"
	case Stand:
		return "stand"
	case Double:
		return "double"
	case Split:
		return "split"
	case Surrender:
		return "surrender"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// ParseAction converts an action name back into an Action.
func ParseAction(s string) (Action, error) {
	switch s {
	case "hit":
		return Hit, nil
	case "stand":
		return Stand, nil
	case "double":
		return Double, nil
	case "split":
		return Split, nil
	case "surrender":
		return Surrender, nil
	default:
		return 0, fmt.Errorf("unknown action %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler so actions serialize as
// their names in session files.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
