package key

import (
	"fmt"
	"strings"
	"unicode"
)

// Event is a single key press.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers holds the active modifier keys.
	Modifiers Modifier
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialEvent creates a key event for a special key.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsChar reports whether the event inserts a printable character: a rune
// with no modifier other than Shift.
func (e Event) IsChar() bool {
	return e.IsRune() && unicode.IsPrint(e.Rune) && !e.IsModified()
}

// IsModified returns true if any modifier is pressed. Shift alone does not
// count for characters since it is part of the character itself.
func (e Event) IsModified() bool {
	if e.IsRune() {
		return e.Modifiers&(ModCtrl|ModAlt|ModMeta) != 0
	}
	return e.Modifiers != ModNone
}

// Equals reports whether two events are the same key press. Shift is ignored
// for characters because terminals disagree on reporting it.
func (e Event) Equals(other Event) bool {
	if e.Key != other.Key || e.Rune != other.Rune {
		return false
	}
	if e.Key == KeyRune {
		return e.Modifiers.Without(ModShift) == other.Modifiers.Without(ModShift)
	}
	return e.Modifiers == other.Modifiers
}

// Matches checks the event against a key specification.
func (e Event) Matches(spec string) bool {
	parsed, err := Parse(spec)
	if err != nil {
		return false
	}
	return e.Equals(parsed)
}

// Is reports whether the event is k with no modifiers.
func (e Event) Is(k Key) bool {
	return e.Key == k && e.Modifiers == ModNone
}

// IsCtrl reports whether the event is Ctrl plus the character r.
func (e Event) IsCtrl(r rune) bool {
	return e.Key == KeyRune && e.Modifiers.Without(ModShift) == ModCtrl &&
		unicode.ToLower(e.Rune) == unicode.ToLower(r)
}

// String returns the Vim-style form, e.g. "a", "<C-s>", "<CR>", "<F2>".
// Parse accepts it back.
func (e Event) String() string {
	if e.IsRune() && !e.IsModified() {
		switch e.Rune {
		case ' ':
			return "<Space>"
		case '<':
			return "<lt>"
		}
		return string(e.Rune)
	}

	var parts []string
	mods := e.Modifiers
	if e.IsRune() {
		mods = mods.Without(ModShift)
	}
	if s := mods.ShortString(); s != "" {
		parts = append(parts, s)
	}

	switch e.Key {
	case KeyRune:
		switch e.Rune {
		case ' ':
			parts = append(parts, "Space")
		case '<':
			parts = append(parts, "lt")
		default:
			parts = append(parts, string(e.Rune))
		}
	case KeyEscape:
		parts = append(parts, "Esc")
	case KeyEnter:
		parts = append(parts, "CR")
	case KeyBackspace:
		parts = append(parts, "BS")
	case KeyDelete:
		parts = append(parts, "Del")
	default:
		parts = append(parts, e.Key.String())
	}
	return "<" + strings.Join(parts, "-") + ">"
}

// GoString implements fmt.GoStringer for debugging.
func (e Event) GoString() string {
	return fmt.Sprintf("key.Event{Key: %s, Rune: %q, Modifiers: %s}", e.Key, e.Rune, e.Modifiers)
}
