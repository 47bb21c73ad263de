package lineeditor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/panes/internal/buffer"
	"github.com/dshills/panes/internal/input"
	"github.com/dshills/panes/internal/input/key"
	"github.com/dshills/panes/internal/input/keymap"
	"github.com/dshills/panes/internal/renderer/core"
)

// feed sends events until one ends the session and returns that result, or
// the last one.
func feed(t *testing.T, h Handler, buf *buffer.Buffer, events ...input.Event) Result {
	t.Helper()
	var res Result
	for _, ev := range events {
		res = h.Handle(ev, buf)
		require.NoError(t, res.Err, "event %s", ev)
		if res.Done() {
			return res
		}
	}
	return res
}

func keys(t *testing.T, specs ...string) []input.Event {
	t.Helper()
	evs, err := input.Keys(specs...)
	require.NoError(t, err)
	return evs
}

func seq(parts ...[]input.Event) []input.Event {
	var out []input.Event
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestActionNames(t *testing.T) {
	for a := ActionNone; a <= ActionSwitch; a++ {
		got, err := ActionFromName(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
	_, err := ActionFromName("explode")
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestSimpleConfirm(t *testing.T) {
	buf := buffer.New()
	res := feed(t, Simple(), buf, seq(input.Runes("hi"), keys(t, "<CR>"))...)

	assert.Equal(t, LineDone, res.Kind)
	assert.Equal(t, "hi", res.Line.String())
	assert.Equal(t, "", buf.CurrentLine().String(), "confirm drains the line")
	assert.Equal(t, 0, buf.Cursor().Col)
}

func TestSimpleEditing(t *testing.T) {
	tests := []struct {
		name   string
		events []input.Event
		line   string
		col    int
	}{
		{"backspace at start", keys(t, "<BS>"), "", 0},
		{"backspace", seq(input.Runes("abc"), keys(t, "<BS>")), "ab", 2},
		{"insert in middle", seq(input.Runes("ac"), keys(t, "<Left>"), input.Runes("b")), "abc", 2},
		{"delete at end", seq(input.Runes("ab"), keys(t, "<Del>")), "ab", 2},
		{"delete forward", seq(input.Runes("ab"), keys(t, "<Home>", "<Del>")), "b", 0},
		{"move past end", seq(input.Runes("ab"), keys(t, "<Right>", "<Right>")), "ab", 2},
		{"move before start", seq(input.Runes("ab"), keys(t, "<Home>", "<Left>")), "ab", 0},
		{"end", seq(input.Runes("ab"), keys(t, "<Home>", "<End>")), "ab", 2},
		{"paste", seq(input.Runes("a"), []input.Event{input.Paste("b\nc")}), "ab c", 4},
		{"unbound special", keys(t, "<F7>", "<C-x>"), "", 0},
		{"resize ignored", []input.Event{input.Resize(10, 10)}, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := buffer.New()
			res := feed(t, Simple(), buf, tt.events...)
			assert.Equal(t, Continue, res.Kind)
			assert.Equal(t, tt.line, buf.CurrentLine().String())
			assert.Equal(t, tt.col, buf.Cursor().Col)
		})
	}
}

func TestSimpleAbortKeepsText(t *testing.T) {
	buf := buffer.New()
	res := feed(t, Simple(), buf, seq(input.Runes("draft"), []input.Event{input.Ctrl('c')})...)
	assert.Equal(t, Abort, res.Kind)
	assert.Equal(t, "draft", buf.CurrentLine().String())
}

func TestSimpleInsertStyle(t *testing.T) {
	style := core.NewStyle(core.ColorCyan)
	buf := buffer.New()
	feed(t, Simple(WithInsertStyle(style)), buf, input.Rune('x'))
	assert.True(t, buf.CurrentLine().StyleAt(0).Equals(style))
}

func TestSimpleIsDeterministic(t *testing.T) {
	events := seq(input.Runes("hello"), keys(t, "<Left>", "<Left>", "<BS>"), input.Runes("L"), keys(t, "<End>"), input.Runes("!"))
	a, b := buffer.New(), buffer.New()
	feed(t, Simple(), a, events...)
	feed(t, Simple(), b, events...)
	assert.Equal(t, "heLlo!", a.CurrentLine().String())
	assert.True(t, a.CurrentLine().Equal(b.CurrentLine()))
	assert.Equal(t, a.Cursor(), b.Cursor())
}

func TestSimpleWithCustomKeys(t *testing.T) {
	h, err := SimpleWith("<C-j>", "<Esc>")
	require.NoError(t, err)

	buf := buffer.New()
	res := feed(t, h, buf, seq(input.Runes("ok"), keys(t, "<CR>"))...)
	assert.Equal(t, Continue, res.Kind, "Enter is no longer bound")

	res = feed(t, h, buf, keys(t, "<C-j>")...)
	assert.Equal(t, LineDone, res.Kind)
	assert.Equal(t, "ok", res.Line.String())

	res = feed(t, h, buf, keys(t, "<Esc>")...)
	assert.Equal(t, Abort, res.Kind)

	_, err = SimpleWith("<Bogus>", "")
	assert.ErrorIs(t, err, key.ErrInvalidSpec)
}

func TestEmacs(t *testing.T) {
	buf := buffer.New()
	h := Emacs()
	feed(t, h, buf, seq(input.Runes("abc"), keys(t, "<C-a>"), input.Runes("x"), keys(t, "<C-e>"), input.Runes("y"))...)
	assert.Equal(t, "xabcy", buf.CurrentLine().String())

	feed(t, h, buf, keys(t, "<C-b>", "<C-d>")...)
	assert.Equal(t, "xabc", buf.CurrentLine().String())

	feed(t, h, buf, keys(t, "<C-h>")...)
	assert.Equal(t, "xab", buf.CurrentLine().String())

	feed(t, h, buf, keys(t, "<C-f>", "<C-b>", "<C-b>")...)
	assert.Equal(t, 1, buf.Cursor().Col)

	res := feed(t, h, buf, keys(t, "<C-g>")...)
	assert.Equal(t, Abort, res.Kind)

	res = feed(t, h, buf, keys(t, "<CR>")...)
	assert.Equal(t, LineDone, res.Kind)
	assert.Equal(t, "xab", res.Line.String())
}

func TestKeymapScheme(t *testing.T) {
	km := SimpleKeymap("", "").Extend(keymap.NewKeymap("user").
		AddBinding(keymap.NewBinding("<C-t>", "insert-text").WithArg("tea")).
		AddBinding(keymap.NewBinding("<C-o>", "insert-rune").WithArg("ö")))
	h, err := NewKeymapScheme("custom", km)
	require.NoError(t, err)
	assert.Equal(t, "custom", h.Name())
	assert.Same(t, km, h.Keymap())

	buf := buffer.New()
	feed(t, h, buf, keys(t, "<C-t>", "<C-o>")...)
	assert.Equal(t, "teaö", buf.CurrentLine().String())

	_, err = NewKeymapScheme("bad", keymap.NewKeymap("bad").Add("x", "teleport"))
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestVimSwitching(t *testing.T) {
	sw := NewSwitcher(Vim()...)
	require.NoError(t, sw.SetSwitchKey(""))
	assert.Equal(t, VimInsertName, sw.CurrentName())

	var changes []string
	sw.OnChange(func(from, to Handler) {
		changes = append(changes, from.Name()+">"+to.Name())
	})

	buf := buffer.New()
	feed(t, sw, buf, seq(input.Runes("abc"), keys(t, "<Esc>"))...)
	assert.Equal(t, VimNormalName, sw.CurrentName())
	assert.Equal(t, 2, buf.Cursor().Col, "leaving insert steps back")

	feed(t, sw, buf, input.Runes("xq")...)
	assert.Equal(t, "ab", buf.CurrentLine().String(), "q is not bound in normal mode")

	feed(t, sw, buf, input.Runes("0iz")...)
	assert.Equal(t, "zab", buf.CurrentLine().String())
	assert.Equal(t, VimInsertName, sw.CurrentName())

	feed(t, sw, buf, seq(keys(t, "<Esc>"), input.Runes("A!"))...)
	assert.Equal(t, "zab!", buf.CurrentLine().String())

	feed(t, sw, buf, seq(keys(t, "<Esc>"), input.Runes("Ia"))...)
	assert.Equal(t, "azab!", buf.CurrentLine().String())

	feed(t, sw, buf, seq(keys(t, "<Esc>"), input.Runes("$X"))...)
	assert.Equal(t, "azab", buf.CurrentLine().String(), "$ moves past the last character")

	res := feed(t, sw, buf, keys(t, "<CR>")...)
	assert.Equal(t, LineDone, res.Kind)
	assert.Equal(t, "azab", res.Line.String())

	assert.Equal(t, []string{
		"vim-insert>vim-normal", "vim-normal>vim-insert",
		"vim-insert>vim-normal", "vim-normal>vim-insert",
		"vim-insert>vim-normal", "vim-normal>vim-insert",
		"vim-insert>vim-normal",
	}, changes)
}

func TestVimAppend(t *testing.T) {
	sw := NewSwitcher(Vim()...)
	buf := buffer.New()
	feed(t, sw, buf, seq(input.Runes("ac"), keys(t, "<Esc>", "h"), input.Runes("ab"))...)
	assert.Equal(t, "abc", buf.CurrentLine().String())
}

func TestSwitcherSwitchKey(t *testing.T) {
	sw := NewSwitcher(Simple(), Emacs())
	assert.Equal(t, []string{"emacs", "simple"}, sw.Schemes())
	assert.Equal(t, "simple", sw.CurrentName())

	buf := buffer.New()
	feed(t, sw, buf, keys(t, "<F2>")...)
	assert.Equal(t, "emacs", sw.CurrentName())
	feed(t, sw, buf, keys(t, "<F2>")...)
	assert.Equal(t, "simple", sw.CurrentName())
	assert.Equal(t, "", buf.CurrentLine().String(), "the switch key is not inserted")

	require.NoError(t, sw.SetSwitchKey("<F3>"))
	feed(t, sw, buf, keys(t, "<F3>")...)
	assert.Equal(t, "emacs", sw.CurrentName())

	assert.Error(t, sw.SetSwitchKey("<Nope>"))
	assert.Error(t, sw.Switch("missing"))
}

func TestSwitcherUnknownTarget(t *testing.T) {
	jump := HandlerFunc{ID: "jump", Fn: func(input.Event, *buffer.Buffer) Result {
		return Result{Kind: Switch, Scheme: "nowhere"}
	}}
	sw := NewSwitcher(jump)
	res := sw.Handle(input.Rune('x'), buffer.New())
	assert.Equal(t, Continue, res.Kind)
	assert.Error(t, res.Err)
	assert.Equal(t, "jump", sw.CurrentName())
}

func TestSwitcherUnregisterCallback(t *testing.T) {
	sw := NewSwitcher(Simple(), Emacs())
	calls := 0
	remove := sw.OnChange(func(_, _ Handler) { calls++ })
	require.NoError(t, sw.Switch("emacs"))
	remove()
	require.NoError(t, sw.Switch("simple"))
	assert.Equal(t, 1, calls)
}

func TestEmptySwitcher(t *testing.T) {
	sw := NewSwitcher()
	assert.Nil(t, sw.Current())
	res := sw.Handle(input.Rune('x'), buffer.New())
	assert.Equal(t, Continue, res.Kind)
}

const upperScript = `
function handle(key, char, mods)
  if key == "<CR>" then return "confirm" end
  if key == "<C-c>" then return "abort" end
  if key == "<C-u>" then return "insert-text", "user" end
  if key == "<F9>" then return "switch", "simple" end
  if char ~= "" and mods == "" then return "insert-rune", string.upper(char) end
end
`

func TestLuaScheme(t *testing.T) {
	h, err := NewLuaScheme("upper", upperScript)
	require.NoError(t, err)
	defer h.Close()
	assert.Equal(t, "upper", h.Name())

	buf := buffer.New()
	res := feed(t, h, buf, seq(input.Runes("ab"), keys(t, "<C-u>", "<F5>"))...)
	assert.Equal(t, Continue, res.Kind)
	assert.Equal(t, "ABuser", buf.CurrentLine().String())

	res = feed(t, h, buf, keys(t, "<F9>")...)
	assert.Equal(t, Switch, res.Kind)
	assert.Equal(t, "simple", res.Scheme)

	res = feed(t, h, buf, keys(t, "<CR>")...)
	assert.Equal(t, LineDone, res.Kind)
	assert.Equal(t, "ABuser", res.Line.String())

	res = feed(t, h, buf, input.Ctrl('c'))
	assert.Equal(t, Abort, res.Kind)
}

func TestLuaSchemeInSwitcher(t *testing.T) {
	h, err := NewLuaScheme("upper", upperScript)
	require.NoError(t, err)
	defer h.Close()

	sw := NewSwitcher(h, Simple())
	buf := buffer.New()
	feed(t, sw, buf, seq(input.Runes("a"), keys(t, "<F9>"), input.Runes("b"))...)
	assert.Equal(t, "Ab", buf.CurrentLine().String())
	assert.Equal(t, "simple", sw.CurrentName())
}

func TestLuaSchemeErrors(t *testing.T) {
	_, err := NewLuaScheme("none", `x = 1`)
	assert.ErrorIs(t, err, ErrNoHandleFunc)

	_, err = NewLuaScheme("syntax", `function handle(`)
	assert.Error(t, err)

	h, err := NewLuaScheme("boom", `function handle(key) error("boom") end`)
	require.NoError(t, err)
	res := h.Handle(input.Rune('a'), buffer.New())
	assert.Equal(t, Continue, res.Kind)
	assert.ErrorContains(t, res.Err, "boom")

	h, err = NewLuaScheme("unknown", `function handle() return "fly" end`)
	require.NoError(t, err)
	res = h.Handle(input.Rune('a'), buffer.New())
	assert.ErrorIs(t, res.Err, ErrUnknownAction)

	require.NoError(t, h.Close())
	res = h.Handle(input.Rune('a'), buffer.New())
	assert.ErrorIs(t, res.Err, ErrSchemeClosed)
}

func TestLuaSchemeTimeout(t *testing.T) {
	h, err := NewLuaScheme("spin", `function handle() while true do end end`, WithScriptTimeout(20*time.Millisecond))
	require.NoError(t, err)
	defer h.Close()

	buf := buffer.New()
	res := h.Handle(input.Rune('a'), buf)
	assert.Error(t, res.Err)
	assert.Equal(t, "", buf.CurrentLine().String())
}

func TestLuaSchemeSandbox(t *testing.T) {
	h, err := NewLuaScheme("probe", `function handle() return "insert-text", tostring(io) .. tostring(os) .. tostring(require) end`)
	require.NoError(t, err)
	defer h.Close()

	buf := buffer.New()
	feed(t, h, buf, input.Rune('a'))
	assert.Equal(t, "nilnilnil", buf.CurrentLine().String())
}
