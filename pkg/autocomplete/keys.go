package autocomplete

import "strings"

// Key is a navigation key understood by the state machine.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyEnter
)

func (k Key) String() string {
	switch k {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyEnter:
		return "enter"
	default:
		return "none"
	}
}

// ParseKey decodes key names from DOM events ("ArrowDown"), terminal
// libraries ("down", "ctrl+n") and legacy key codes ("40").
func ParseKey(name string) Key {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "arrowup", "up", "ctrl+p", "38":
		return KeyUp
	case "arrowdown", "down", "ctrl+n", "40":
		return KeyDown
	case "enter", "return", "13":
		return KeyEnter
	default:
		return KeyNone
	}
}

// HandleKey applies a navigation key and reports whether it was consumed.
// Enter is consumed only when something is highlighted.
func (s *State[T]) HandleKey(k Key) bool {
	switch k {
	case KeyDown:
		s.HighlightNext()
		return true
	case KeyUp:
		s.HighlightPrevious()
		return true
	case KeyEnter:
		if _, ok := s.Highlighted(); !ok {
			return false
		}
		s.SelectCurrent()
		return true
	default:
		return false
	}
}
