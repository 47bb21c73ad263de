package renderer

import (
	"fmt"

	"github.com/dshills/panes/internal/renderer/core"
)

// Theme defines the colors the renderer applies underneath buffer text.
type Theme struct {
	// Name is the display name of the theme.
	Name string

	// Foreground and Background are the base colors of every pane.
	Foreground core.Color
	Background core.Color

	// Focus is the foreground of the focused pane. Default keeps Foreground.
	Focus core.Color

	// Cursor is the color of a painted cursor cell (Options.SoftCursor).
	Cursor core.Color

	// Separator colors divider lines.
	Separator core.Color
}

// DefaultTheme uses the terminal's own colors and a gray separator.
func DefaultTheme() Theme {
	return Theme{
		Name:      "default",
		Separator: core.ColorGray,
	}
}

// ThemeFromHex builds a theme from hex color strings. Empty strings keep the
// terminal default. With both foreground and background set, separators are
// drawn in a mix of the two.
func ThemeFromHex(name, fg, bg, focus, cursor string) (Theme, error) {
	t := DefaultTheme()
	t.Name = name
	for _, c := range []struct {
		field string
		value string
		dst   *core.Color
	}{
		{"foreground", fg, &t.Foreground},
		{"background", bg, &t.Background},
		{"focus", focus, &t.Focus},
		{"cursor", cursor, &t.Cursor},
	} {
		if c.value == "" {
			continue
		}
		col, err := core.ColorFromHex(c.value)
		if err != nil {
			return Theme{}, fmt.Errorf("theme %s: %w", c.field, err)
		}
		*c.dst = col
	}
	if t.Foreground.Set && t.Background.Set {
		t.Separator = t.Foreground.Blend(t.Background, 0.6)
	}
	return t, nil
}

// Base returns the style applied under unfocused buffer text.
func (t Theme) Base() core.Style {
	return core.Style{Foreground: t.Foreground, Background: t.Background}
}

// FocusBase returns the style applied under the focused buffer's text.
func (t Theme) FocusBase() core.Style {
	s := t.Base()
	if !t.Focus.IsDefault() {
		s.Foreground = t.Focus
	}
	return s
}

// SeparatorStyle returns the style of divider lines.
func (t Theme) SeparatorStyle() core.Style {
	return core.Style{Foreground: t.Separator, Background: t.Background}
}

// CursorStyle returns the style of a painted cursor cell. Without a cursor
// color it is reverse video, as terminals draw a block cursor.
func (t Theme) CursorStyle(under core.Style) core.Style {
	if t.Cursor.IsDefault() {
		return under.Reverse()
	}
	return under.WithBackground(t.Cursor)
}
