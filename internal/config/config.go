package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dimchansky/utfbom"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/panes/internal/input/key"
	"github.com/dshills/panes/internal/renderer/backend"
	"github.com/dshills/panes/internal/renderer/core"
)

// DefaultLayout stacks the output pane over a one-row prompt.
const DefaultLayout = "Vertical: { 1: output, 1!: prompt }"

// Known key schemes.
var Schemes = []string{"simple", "emacs", "vim", "lua"}

// Config holds all panes settings.
type Config struct {
	UI    UIConfig    `toml:"ui" yaml:"ui"`
	Theme ThemeConfig `toml:"theme" yaml:"theme"`
	Keys  KeysConfig  `toml:"keys" yaml:"keys"`
	Log   LogConfig   `toml:"log" yaml:"log"`

	// Path is the file the settings were read from, if any.
	Path string `toml:"-" yaml:"-"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		UI: UIConfig{
			Layout:      DefaultLayout,
			CursorStyle: "block",
			FollowTail:  true,
			TabWidth:    4,
		},
		Theme: ThemeConfig{Name: "default"},
		Keys: KeysConfig{
			Scheme:    "simple",
			SwitchKey: "<F2>",
			Confirm:   "<CR>",
			Abort:     "<C-c>",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Clone returns a copy of c.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Format is a config file encoding.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath returns the format implied by path's extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "panes", "panes.toml")
}

// FindFile returns DefaultPath when that file exists, else "".
func FindFile() string {
	path := DefaultPath()
	if path == "" {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// Load builds the configuration from defaults, the file at path and the
// environment. An empty path skips the file. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.ReadFile(path); err != nil {
			return nil, err
		}
	}
	ApplyEnv(cfg, os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadFile decodes the file at path over c.
func (c *Config) ReadFile(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	defer f.Close()

	if err := c.Decode(f, format); err != nil {
		return &ParseError{Path: path, Err: err}
	}
	c.Path = path
	return nil
}

// Decode reads settings in format from r over c. Keys missing from r keep
// their current values.
func (c *Config) Decode(r io.Reader, format Format) error {
	r = utfbom.SkipOnly(r)
	switch format {
	case FormatTOML:
		return toml.NewDecoder(r).DisallowUnknownFields().Decode(c)
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Encode writes c in format.
func (c *Config) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(c)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Validate checks every setting and reports all problems found.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(path, msg string, value any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value})
	}

	if strings.TrimSpace(c.UI.Layout) == "" {
		invalid("ui.layout", "must not be empty", c.UI.Layout)
	}
	if _, err := backend.ParseCursorStyle(c.UI.CursorStyle); err != nil {
		invalid("ui.cursor_style", "must be block, bar, underline or hidden", c.UI.CursorStyle)
	}
	if c.UI.TabWidth < 1 || c.UI.TabWidth > 16 {
		invalid("ui.tab_width", "must be between 1 and 16", c.UI.TabWidth)
	}

	for name, hex := range map[string]string{
		"theme.foreground": c.Theme.Foreground,
		"theme.background": c.Theme.Background,
		"theme.focus":      c.Theme.Focus,
		"theme.cursor":     c.Theme.Cursor,
	} {
		if hex == "" {
			continue
		}
		if _, err := core.ColorFromHex(hex); err != nil {
			invalid(name, "must be a hex colour", hex)
		}
	}

	if !isScheme(c.Keys.Scheme) {
		invalid("keys.scheme", "must be one of "+strings.Join(Schemes, ", "), c.Keys.Scheme)
	}
	if c.Keys.Scheme == "lua" && c.Keys.LuaScript == "" {
		invalid("keys.lua_script", "is required by the lua scheme", c.Keys.LuaScript)
	}
	for name, spec := range map[string]string{
		"keys.switch_key": c.Keys.SwitchKey,
		"keys.confirm":    c.Keys.Confirm,
		"keys.abort":      c.Keys.Abort,
	} {
		if spec == "" {
			continue
		}
		if _, err := key.Parse(spec); err != nil {
			invalid(name, "must be a key specification", spec)
		}
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		invalid("log.level", "must be debug, info, warn or error", c.Log.Level)
	}

	return errors.Join(errs...)
}

func isScheme(name string) bool {
	for _, s := range Schemes {
		if s == name {
			return true
		}
	}
	return false
}
