package lineeditor

import (
	"fmt"

	"github.com/dshills/panes/internal/buffer"
	"github.com/dshills/panes/internal/input"
	"github.com/dshills/panes/internal/input/keymap"
	"github.com/dshills/panes/internal/renderer/core"
)

// KeymapScheme edits according to a keymap. Keys without a binding insert
// themselves when printable and are ignored otherwise.
type KeymapScheme struct {
	name  string
	keys  *keymap.ParsedKeymap
	cmds  []Command
	style core.Style
}

// SchemeOption configures a scheme.
type SchemeOption func(*KeymapScheme)

// WithInsertStyle sets the style of inserted text.
func WithInsertStyle(style core.Style) SchemeOption {
	return func(s *KeymapScheme) {
		s.style = style
	}
}

// NewKeymapScheme builds a scheme from km. Every binding must name a known
// action.
func NewKeymapScheme(name string, km *keymap.Keymap, opts ...SchemeOption) (*KeymapScheme, error) {
	parsed, err := km.Parse()
	if err != nil {
		return nil, err
	}
	cmds := make([]Command, len(parsed.ParsedBindings))
	for i, pb := range parsed.ParsedBindings {
		a, err := ActionFromName(pb.Action)
		if err != nil {
			return nil, fmt.Errorf("keymap %s: binding %s: %w", km.Name, pb.Keys, err)
		}
		cmds[i] = Command{Action: a, Text: pb.Arg}
		if a == ActionInsertRune {
			cmds[i].Rune = firstRune(pb.Arg)
		}
	}
	s := &KeymapScheme{name: name, keys: parsed, cmds: cmds}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func (s *KeymapScheme) Name() string { return s.name }

// Keymap returns the keymap the scheme was built from.
func (s *KeymapScheme) Keymap() *keymap.Keymap {
	return s.keys.Keymap
}

func (s *KeymapScheme) Handle(ev input.Event, buf *buffer.Buffer) Result {
	if res, ok := handleCommon(ev, buf, s.style); ok {
		return res
	}
	if cmd, ok := s.lookup(ev); ok {
		if cmd.Action == ActionInsertRune && cmd.Rune == 0 {
			cmd.Rune = ev.Key.Rune
		}
		return Apply(cmd, buf, s.style)
	}
	if ev.Key.IsChar() {
		return Apply(Command{Action: ActionInsertRune, Rune: ev.Key.Rune}, buf, s.style)
	}
	return Result{Kind: Continue}
}

func (s *KeymapScheme) lookup(ev input.Event) (Command, bool) {
	for i := len(s.keys.ParsedBindings) - 1; i >= 0; i-- {
		if s.keys.ParsedBindings[i].Match(ev.Key) {
			return s.cmds[i], true
		}
	}
	return Command{}, false
}

// Default key specifications of the simple scheme.
const (
	DefaultConfirmKey = "<CR>"
	DefaultAbortKey   = "<C-c>"
)

// SimpleKeymap returns the bindings of the simple scheme with the given
// confirm and abort keys. Empty keys use the defaults.
func SimpleKeymap(confirm, abort string) *keymap.Keymap {
	if confirm == "" {
		confirm = DefaultConfirmKey
	}
	if abort == "" {
		abort = DefaultAbortKey
	}
	return keymap.NewKeymap("simple").WithSource("default").
		Add("<BS>", ActionDeleteBackward.String()).
		Add("<Del>", ActionDeleteForward.String()).
		Add("<Left>", ActionMoveBackward.String()).
		Add("<Right>", ActionMoveForward.String()).
		Add("<Home>", ActionMoveStart.String()).
		Add("<End>", ActionMoveEnd.String()).
		Add(confirm, ActionConfirm.String()).
		Add(abort, ActionAbort.String())
}

// Simple returns the default scheme: Enter confirms, Ctrl+C aborts,
// Backspace deletes and printable keys insert.
func Simple(opts ...SchemeOption) *KeymapScheme {
	s, err := NewKeymapScheme("simple", SimpleKeymap("", ""), opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// SimpleWith returns the simple scheme with custom confirm and abort keys.
func SimpleWith(confirm, abort string, opts ...SchemeOption) (*KeymapScheme, error) {
	return NewKeymapScheme("simple", SimpleKeymap(confirm, abort), opts...)
}

// EmacsKeymap returns readline style bindings on top of the simple ones.
func EmacsKeymap() *keymap.Keymap {
	emacs := keymap.NewKeymap("emacs").
		Add("<C-a>", ActionMoveStart.String()).
		Add("<C-e>", ActionMoveEnd.String()).
		Add("<C-f>", ActionMoveForward.String()).
		Add("<C-b>", ActionMoveBackward.String()).
		Add("<C-d>", ActionDeleteForward.String()).
		Add("<C-h>", ActionDeleteBackward.String()).
		Add("<C-g>", ActionAbort.String()).
		Add("<C-j>", ActionConfirm.String())
	km := SimpleKeymap("", "").Extend(emacs)
	km.Name = "emacs"
	return km
}

// Emacs returns the readline style scheme.
func Emacs(opts ...SchemeOption) *KeymapScheme {
	s, err := NewKeymapScheme("emacs", EmacsKeymap(), opts...)
	if err != nil {
		panic(err)
	}
	return s
}
