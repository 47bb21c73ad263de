package lineeditor

import (
	"github.com/dshills/panes/internal/buffer"
	"github.com/dshills/panes/internal/input"
	"github.com/dshills/panes/internal/input/keymap"
	"github.com/dshills/panes/internal/renderer/core"
)

// Names of the two vim schemes.
const (
	VimInsertName = "vim-insert"
	VimNormalName = "vim-normal"
)

// VimInsertKeymap returns the insert mode bindings. Esc leaves for normal
// mode.
func VimInsertKeymap() *keymap.Keymap {
	km := SimpleKeymap("", "").Extend(keymap.NewKeymap("vim-insert").
		AddBinding(keymap.NewBinding("<Esc>", ActionSwitch.String()).WithArg(VimNormalName)))
	km.Name = VimInsertName
	return km
}

// VimNormalKeymap returns the normal mode bindings that map to a single
// action. Entering insert mode with a motion is handled by VimNormal
// itself.
func VimNormalKeymap() *keymap.Keymap {
	return keymap.NewKeymap(VimNormalName).WithSource("default").
		Add("h", ActionMoveBackward.String()).
		Add("<Left>", ActionMoveBackward.String()).
		Add("<BS>", ActionMoveBackward.String()).
		Add("l", ActionMoveForward.String()).
		Add("<Right>", ActionMoveForward.String()).
		Add("<Space>", ActionMoveForward.String()).
		Add("0", ActionMoveStart.String()).
		Add("^", ActionMoveStart.String()).
		Add("<Home>", ActionMoveStart.String()).
		Add("$", ActionMoveEnd.String()).
		Add("<End>", ActionMoveEnd.String()).
		Add("x", ActionDeleteForward.String()).
		Add("<Del>", ActionDeleteForward.String()).
		Add("X", ActionDeleteBackward.String()).
		Add("<CR>", ActionConfirm.String()).
		Add("<C-c>", ActionAbort.String())
}

// VimInsert is vim's insert mode: keys insert text until Esc switches to
// VimNormal. The cursor steps back one character on leaving, as in vim.
type VimInsert struct {
	keys *KeymapScheme
}

// NewVimInsert creates the insert mode scheme.
func NewVimInsert(opts ...SchemeOption) *VimInsert {
	s, err := NewKeymapScheme(VimInsertName, VimInsertKeymap(), opts...)
	if err != nil {
		panic(err)
	}
	return &VimInsert{keys: s}
}

func (v *VimInsert) Name() string { return VimInsertName }

func (v *VimInsert) Handle(ev input.Event, buf *buffer.Buffer) Result {
	res := v.keys.Handle(ev, buf)
	if res.Kind == Switch {
		buf.MoveCursorBy(-1)
	}
	return res
}

// VimNormal is vim's normal mode. Printable keys without a binding do
// nothing.
type VimNormal struct {
	cmds  *KeymapScheme
	style core.Style
}

// NewVimNormal creates the normal mode scheme.
func NewVimNormal(opts ...SchemeOption) *VimNormal {
	s, err := NewKeymapScheme(VimNormalName, VimNormalKeymap(), opts...)
	if err != nil {
		panic(err)
	}
	return &VimNormal{cmds: s, style: s.style}
}

func (v *VimNormal) Name() string { return VimNormalName }

// insertEntries maps the keys that enter insert mode to the motion made
// first.
var insertEntries = map[rune]Action{
	'i': ActionNone,
	'a': ActionMoveForward,
	'I': ActionMoveStart,
	'A': ActionMoveEnd,
}

func (v *VimNormal) Handle(ev input.Event, buf *buffer.Buffer) Result {
	if res, ok := handleCommon(ev, buf, v.style); ok {
		return res
	}
	if ev.Key.IsChar() {
		if motion, ok := insertEntries[ev.Key.Rune]; ok {
			Apply(Command{Action: motion}, buf, v.style)
			return Result{Kind: Switch, Scheme: VimInsertName}
		}
	}
	if cmd, ok := v.cmds.lookup(ev); ok {
		return Apply(cmd, buf, v.style)
	}
	return Result{Kind: Continue}
}

// Vim returns both vim schemes, insert mode first.
func Vim(opts ...SchemeOption) []Handler {
	return []Handler{NewVimInsert(opts...), NewVimNormal(opts...)}
}
