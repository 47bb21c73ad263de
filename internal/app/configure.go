package app

import (
	"errors"
	"fmt"
	"io"

	"github.com/dshills/panes/internal/config"
	"github.com/dshills/panes/internal/input/keymap"
	"github.com/dshills/panes/internal/lineeditor"
	"github.com/dshills/panes/internal/renderer"
	"github.com/dshills/panes/internal/renderer/backend"
)

// RendererOptions converts the ui and theme settings.
func RendererOptions(cfg *config.Config) (renderer.Options, error) {
	opts := renderer.DefaultOptions()

	style, err := backend.ParseCursorStyle(cfg.UI.CursorStyle)
	if err != nil {
		return opts, err
	}
	theme, err := renderer.ThemeFromHex(cfg.Theme.Name,
		cfg.Theme.Foreground, cfg.Theme.Background, cfg.Theme.Focus, cfg.Theme.Cursor)
	if err != nil {
		return opts, err
	}

	opts.CursorStyle = style
	opts.Theme = theme
	opts.TabWidth = cfg.UI.TabWidth
	opts.ShowSeparators = cfg.UI.Separators
	opts.SoftCursor = cfg.UI.SoftCursor
	return opts, nil
}

// SchemeName returns the switcher name of a configured scheme.
func SchemeName(scheme string) string {
	if scheme == "vim" {
		return lineeditor.VimInsertName
	}
	return scheme
}

// Schemes holds the line editing schemes built from configuration.
type Schemes struct {
	*lineeditor.Switcher

	closers []io.Closer
}

// Close releases scheme resources such as Lua states.
func (s *Schemes) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// BuildSchemes creates a switcher holding every built-in scheme, plus the
// Lua scheme when a script is configured. The configured scheme is active
// and the others are reachable with the switch key.
func BuildSchemes(keys config.KeysConfig) (*Schemes, error) {
	var user *keymap.Keymap
	if keys.Keymap != "" {
		km, err := keymap.LoadFile(keys.Keymap)
		if err != nil {
			return nil, NewComponentError("keys", "load keymap", err)
		}
		user = km
	}

	simpleKeys := lineeditor.SimpleKeymap(keys.Confirm, keys.Abort)
	emacsKeys := lineeditor.EmacsKeymap()
	if user != nil {
		simpleKeys = simpleKeys.Extend(user)
		emacsKeys = emacsKeys.Extend(user)
	}
	simple, err := lineeditor.NewKeymapScheme("simple", simpleKeys)
	if err != nil {
		return nil, NewComponentError("keys", "simple scheme", err)
	}
	emacs, err := lineeditor.NewKeymapScheme("emacs", emacsKeys)
	if err != nil {
		return nil, NewComponentError("keys", "emacs scheme", err)
	}

	s := &Schemes{Switcher: lineeditor.NewSwitcher()}
	handlers := []lineeditor.Handler{simple, emacs}
	handlers = append(handlers, lineeditor.Vim()...)

	if keys.LuaScript != "" {
		lua, err := lineeditor.LoadLuaScheme("lua", keys.LuaScript)
		if err != nil {
			return nil, NewComponentError("keys", "lua scheme", err)
		}
		s.closers = append(s.closers, lua)
		handlers = append(handlers, lua)
	}

	for _, h := range handlers {
		s.Register(h)
	}
	if err := s.SetSwitchKey(keys.SwitchKey); err != nil {
		_ = s.Close()
		return nil, NewComponentError("keys", "switch key", err)
	}
	if err := s.Switch(SchemeName(keys.Scheme)); err != nil {
		_ = s.Close()
		return nil, NewComponentError("keys", "select scheme", err)
	}
	return s, nil
}

// Configure applies the ui and theme settings to the session. The layout
// literal is resolved against the session buffers.
func (s *Session) Configure(cfg *config.Config) error {
	opts, err := RendererOptions(cfg)
	if err != nil {
		return NewComponentError("config", "renderer options", err)
	}
	if err := s.SetLayout(cfg.UI.Layout); err != nil {
		return err
	}
	s.renderer.SetOptions(opts)
	s.output.SetFollowTail(cfg.UI.FollowTail)
	s.logger.SetLevel(ParseLogLevel(cfg.Log.Level))
	s.logger.Debug("configuration applied from %s", sourceName(cfg))
	s.RequestRedraw()
	return nil
}

// Reload applies a changed configuration to the session and selects the
// configured scheme. It is meant as the callback of config.Watch.
func (s *Session) Reload(cfg *config.Config, schemes *Schemes) {
	if err := s.Configure(cfg); err != nil {
		s.logger.Warn("reload: %v", err)
		return
	}
	if schemes == nil {
		return
	}
	name := SchemeName(cfg.Keys.Scheme)
	if schemes.CurrentName() == name {
		return
	}
	if err := schemes.Switch(name); err != nil {
		s.logger.Warn("reload: %v", err)
		return
	}
	s.logger.Debug("key scheme switched to %s", name)
}

func sourceName(cfg *config.Config) string {
	if cfg.Path == "" {
		return "defaults"
	}
	return fmt.Sprintf("%q", cfg.Path)
}
