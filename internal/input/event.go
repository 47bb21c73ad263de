package input

import (
	"fmt"

	"github.com/dshills/panes/internal/input/key"
	"github.com/dshills/panes/internal/renderer/core"
)

// EventType identifies the type of input event.
type EventType uint8

const (
	EventNone EventType = iota
	EventKey
	EventPaste
	EventResize
	EventMouse
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventKey:
		return "key"
	case EventPaste:
		return "paste"
	case EventResize:
		return "resize"
	case EventMouse:
		return "mouse"
	default:
		return "none"
	}
}

// MouseButton represents mouse button state.
type MouseButton uint8

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// Event is one input event. Only the fields for its Type are meaningful.
type Event struct {
	Type EventType

	// Key is the key press for EventKey.
	Key key.Event

	// Text is the pasted text for EventPaste.
	Text string

	// Width and Height are the new terminal size for EventResize.
	Width, Height int

	// Pos and Button describe an EventMouse in screen coordinates.
	Pos    core.ScreenPos
	Button MouseButton
}

// KeyPress wraps a key event.
func KeyPress(k key.Event) Event {
	return Event{Type: EventKey, Key: k}
}

// Rune creates a key event for an unmodified character.
func Rune(r rune) Event {
	return KeyPress(key.NewRuneEvent(r, key.ModNone))
}

// Special creates a key event for a special key with modifiers.
func Special(k key.Key, mods key.Modifier) Event {
	return KeyPress(key.NewSpecialEvent(k, mods))
}

// Ctrl creates a key event for Ctrl plus a character.
func Ctrl(r rune) Event {
	return KeyPress(key.NewRuneEvent(r, key.ModCtrl))
}

// Paste creates a paste event.
func Paste(text string) Event {
	return Event{Type: EventPaste, Text: text}
}

// Resize creates a resize event.
func Resize(width, height int) Event {
	return Event{Type: EventResize, Width: width, Height: height}
}

// Click creates a mouse event at a screen position.
func Click(pos core.ScreenPos, button MouseButton) Event {
	return Event{Type: EventMouse, Pos: pos, Button: button}
}

// Runes returns one key event per character of s.
func Runes(s string) []Event {
	evs := make([]Event, 0, len(s))
	for _, r := range s {
		evs = append(evs, Rune(r))
	}
	return evs
}

// Keys parses key specifications into key events.
func Keys(specs ...string) ([]Event, error) {
	evs := make([]Event, 0, len(specs))
	for _, spec := range specs {
		k, err := key.Parse(spec)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", spec, err)
		}
		evs = append(evs, KeyPress(k))
	}
	return evs, nil
}

// String returns a short description for logs.
func (e Event) String() string {
	switch e.Type {
	case EventKey:
		return "key " + e.Key.String()
	case EventPaste:
		return fmt.Sprintf("paste %d bytes", len(e.Text))
	case EventResize:
		return fmt.Sprintf("resize %dx%d", e.Width, e.Height)
	case EventMouse:
		return fmt.Sprintf("mouse %d at %d,%d", e.Button, e.Pos.Row, e.Pos.Col)
	default:
		return "none"
	}
}
