package config

// UIConfig holds layout and rendering settings.
type UIConfig struct {
	// Layout is a split tree literal over the buffers "output" and
	// "prompt".
	Layout string `toml:"layout" yaml:"layout"`

	// CursorStyle is "block", "bar", "underline" or "hidden".
	CursorStyle string `toml:"cursor_style" yaml:"cursor_style"`

	// FollowTail keeps the output pane scrolled to its last line.
	FollowTail bool `toml:"follow_tail" yaml:"follow_tail"`

	// TabWidth is the distance between tab stops.
	TabWidth int `toml:"tab_width" yaml:"tab_width"`

	// Separators draws a line between sibling panes.
	Separators bool `toml:"separators" yaml:"separators"`

	// SoftCursor paints the cursor as a styled cell instead of moving the
	// terminal cursor.
	SoftCursor bool `toml:"soft_cursor" yaml:"soft_cursor"`
}

// ThemeConfig holds hex colours. Empty values keep the terminal default.
type ThemeConfig struct {
	Name       string `toml:"name" yaml:"name"`
	Foreground string `toml:"foreground" yaml:"foreground"`
	Background string `toml:"background" yaml:"background"`
	Focus      string `toml:"focus" yaml:"focus"`
	Cursor     string `toml:"cursor" yaml:"cursor"`
}

// KeysConfig selects the prompt's line editing scheme.
type KeysConfig struct {
	// Scheme is "simple", "emacs", "vim" or "lua".
	Scheme string `toml:"scheme" yaml:"scheme"`

	// LuaScript is the script defining the lua scheme.
	LuaScript string `toml:"lua_script" yaml:"lua_script"`

	// Keymap is an optional keymap file layered over the simple or emacs
	// bindings.
	Keymap string `toml:"keymap" yaml:"keymap"`

	// SwitchKey cycles schemes. Empty disables it.
	SwitchKey string `toml:"switch_key" yaml:"switch_key"`

	// Confirm and Abort override the simple scheme's keys.
	Confirm string `toml:"confirm" yaml:"confirm"`
	Abort   string `toml:"abort" yaml:"abort"`
}

// LogConfig controls logging.
type LogConfig struct {
	// Level is "debug", "info", "warn" or "error".
	Level string `toml:"level" yaml:"level"`

	// File receives log output. Empty discards logs, since the terminal
	// belongs to the renderer.
	File string `toml:"file" yaml:"file"`
}
