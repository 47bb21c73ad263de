package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/panes/internal/buffer"
	"github.com/dshills/panes/internal/config"
	"github.com/dshills/panes/internal/input"
	"github.com/dshills/panes/internal/input/key"
	"github.com/dshills/panes/internal/lineeditor"
	"github.com/dshills/panes/internal/renderer"
	"github.com/dshills/panes/internal/renderer/backend"
	"github.com/dshills/panes/internal/split"
	"github.com/dshills/panes/internal/styledtext"
	"github.com/dshills/panes/internal/worker"
)

func newSession(t *testing.T, cols, rows int, src input.Source) (*Session, *backend.NullBackend) {
	t.Helper()
	nb := backend.NewNullBackend(cols, rows)
	if src == nil {
		src = nb
	}
	s := NewSession(renderer.New(nb, renderer.DefaultOptions()), src)
	t.Cleanup(s.Close)
	return s, nb
}

func typed(text string, specs ...string) []input.Event {
	evs := input.Runes(text)
	for _, spec := range specs {
		evs = append(evs, input.KeyPress(key.MustParse(spec)))
	}
	return evs
}

func TestSessionDefaultLayout(t *testing.T) {
	s, nb := newSession(t, 10, 4, nil)
	for i := 1; i <= 5; i++ {
		s.Output().AddLine(styledtext.Plain(fmt.Sprintf("line %d", i)))
	}
	s.Prompt().AddLine(styledtext.Plain("typing"))

	require.NoError(t, s.Render())
	assert.Equal(t, "line 3    ", nb.Row(0), "output follows its tail")
	assert.Equal(t, "line 5    ", nb.Row(2))
	assert.Equal(t, "typing    ", nb.Row(3))

	rect, ok := s.Renderer().SplitMap().Lookup(s.Prompt())
	require.True(t, ok)
	assert.Equal(t, 1, rect.Height())
}

func TestSessionTooSmall(t *testing.T) {
	s, nb := newSession(t, 20, 1, nil)
	require.NoError(t, s.Render())
	assert.Equal(t, TooSmallMessage[:20], nb.Row(0))

	_, ok := s.Renderer().SplitMap().Lookup(s.Prompt())
	assert.False(t, ok)
}

func TestSessionSetLayout(t *testing.T) {
	s, nb := newSession(t, 10, 2, nil)
	s.Output().AddLine(styledtext.Plain("out"))
	s.Prompt().AddLine(styledtext.Plain("in"))

	require.NoError(t, s.SetLayout("Horizontal: { 1: output, 1: prompt }"))
	require.NoError(t, s.Render())
	assert.Equal(t, "out  in   ", nb.Row(0))

	err := s.SetLayout("Horizontal: { 1: output, 1: nowhere }")
	require.Error(t, err)
	assert.ErrorIs(t, err, split.ErrUnknownBuffer)
	var cerr *ComponentError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "layout", cerr.Component)
}

func TestEditPromptConfirm(t *testing.T) {
	src := input.Script(typed("hi", "<CR>")...)
	s, nb := newSession(t, 10, 3, src)

	res, err := s.EditPrompt(context.Background(), lineeditor.Simple())
	require.NoError(t, err)
	assert.Equal(t, lineeditor.LineDone, res.Kind)
	assert.Equal(t, "hi", res.Line.String())
	assert.False(t, s.Prompt().CursorVisible(), "cursor is hidden after editing")
	assert.Equal(t, 3, nb.Shows(), "one frame before each event")
}

func TestEditPromptShowsCursor(t *testing.T) {
	src := input.Script(typed("ab", "<CR>")...)
	s, nb := newSession(t, 10, 3, src)

	var cursors [][3]any
	spy := lineeditor.HandlerFunc{ID: "spy", Fn: func(ev input.Event, buf *buffer.Buffer) lineeditor.Result {
		x, y, visible := nb.CursorPosition()
		cursors = append(cursors, [3]any{x, y, visible})
		return lineeditor.Simple().Handle(ev, buf)
	}}

	_, err := s.EditPrompt(context.Background(), spy)
	require.NoError(t, err)
	assert.Equal(t, [][3]any{{0, 2, true}, {1, 2, true}, {2, 2, true}}, cursors)
}

func TestEditPromptSourceClosed(t *testing.T) {
	s, _ := newSession(t, 10, 3, input.Script(input.Rune('x')))
	_, err := s.EditPrompt(context.Background(), lineeditor.Simple())
	assert.ErrorIs(t, err, input.ErrClosed)
	assert.Equal(t, "x", s.Prompt().CurrentLine().String())
}

func TestEditPromptRenderFailure(t *testing.T) {
	s, nb := newSession(t, 10, 3, nil)
	boom := errors.New("broken pipe")
	nb.FailShow(boom)

	_, err := s.EditPrompt(context.Background(), lineeditor.Simple())
	assert.ErrorIs(t, err, boom)
	var rerr *renderer.RenderError
	assert.ErrorAs(t, err, &rerr)
}

func TestEditPromptCancel(t *testing.T) {
	s, _ := newSession(t, 10, 3, input.NewQueue(1))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := s.EditPrompt(ctx, lineeditor.Simple())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEventsSurviveBetweenPrompts(t *testing.T) {
	q := input.Script(append(typed("one", "<CR>"), typed("two", "<CR>")...)...)
	s, _ := newSession(t, 10, 3, q)

	for _, want := range []string{"one", "two"} {
		res, err := s.EditPrompt(context.Background(), lineeditor.Simple())
		require.NoError(t, err)
		assert.Equal(t, want, res.Line.String())
	}
}

func TestChatEchoAndQuit(t *testing.T) {
	src := input.Script(typed("hi", "<CR>", "q")...)
	s, _ := newSession(t, 10, 3, src)

	opts := DefaultChatOptions()
	require.NoError(t, s.Chat(context.Background(), lineeditor.Simple(), opts))

	last := s.Output().Line(s.Output().LineCount() - 1)
	assert.Equal(t, "> hi", last.String())
	assert.True(t, last.StyleAt(0).Equals(opts.EchoStyle))
}

func TestChatQuitKeyOnlyOnEmptyPrompt(t *testing.T) {
	src := input.Script(typed("aq", "<CR>", "<C-c>")...)
	s, _ := newSession(t, 10, 3, src)

	err := s.Chat(context.Background(), lineeditor.Simple(), DefaultChatOptions())
	assert.ErrorIs(t, err, ErrAborted)
	assert.Equal(t, "> aq", s.Output().Line(s.Output().LineCount()-1).String())
}

func TestChatWithProducer(t *testing.T) {
	q := input.NewQueue(8)
	s, nb := newSession(t, 12, 4, q)

	n := 0
	producer := worker.ProducerFunc(func(context.Context) (styledtext.Text, error) {
		if n == 3 {
			return styledtext.Text{}, worker.ErrStop
		}
		n++
		return styledtext.Plain(fmt.Sprintf("tick %d", n)), nil
	})

	done := make(chan error, 1)
	go func() {
		opts := DefaultChatOptions()
		opts.Producer = producer
		opts.Interval = time.Millisecond
		done <- s.Chat(context.Background(), lineeditor.Simple(), opts)
	}()

	require.Eventually(t, func() bool {
		return s.Output().LineCount() >= 3
	}, 2*time.Second, 5*time.Millisecond)
	q.Post(input.Rune('q'))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("chat did not quit")
	}

	require.NoError(t, s.Render())
	assert.Equal(t, "tick 1      ", nb.Row(0))
	assert.Equal(t, "tick 3      ", nb.Row(2))
}

func TestChatProducerFailure(t *testing.T) {
	s, _ := newSession(t, 10, 3, input.NewQueue(1))
	opts := DefaultChatOptions()
	opts.Interval = time.Millisecond
	opts.Producer = worker.ProducerFunc(func(context.Context) (styledtext.Text, error) {
		return styledtext.Text{}, errors.New("feed down")
	})

	err := s.Chat(context.Background(), lineeditor.Simple(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feed down")
}

func TestConfigure(t *testing.T) {
	s, nb := newSession(t, 10, 3, nil)
	cfg := config.Default()
	cfg.UI.CursorStyle = "bar"
	cfg.UI.Layout = "Horizontal: { 1: output, 1: prompt }"
	cfg.UI.Separators = true
	cfg.UI.FollowTail = false

	require.NoError(t, s.Configure(cfg))
	assert.Equal(t, backend.CursorBar, nb.CursorStyleValue())
	assert.True(t, s.Renderer().Options().ShowSeparators)
	assert.False(t, s.Output().FollowTail())
	assert.Equal(t, split.SideBySide, s.Tree().Root().(*split.Container).Orientation)

	cfg.Theme.Focus = "nope"
	assert.Error(t, s.Configure(cfg))
}

func TestBuildSchemes(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "shout.lua")
	require.NoError(t, os.WriteFile(script, []byte(`
function handle(key, char, mods)
  if key == "<CR>" then return "confirm" end
  if char ~= "" then return "insert-rune", string.upper(char) end
end
`), 0o644))
	keymapFile := filepath.Join(dir, "keys.toml")
	require.NoError(t, os.WriteFile(keymapFile, []byte(`
name = "mine"

[[bindings]]
keys = "<C-t>"
action = "insert-text"
arg = "hey"
`), 0o644))

	tests := []struct {
		scheme string
		want   string
	}{
		{"simple", "simple"},
		{"emacs", "emacs"},
		{"vim", lineeditor.VimInsertName},
		{"lua", "lua"},
	}
	for _, tt := range tests {
		t.Run(tt.scheme, func(t *testing.T) {
			keys := config.Default().Keys
			keys.Scheme = tt.scheme
			keys.LuaScript = script
			sc, err := BuildSchemes(keys)
			require.NoError(t, err)
			defer sc.Close()
			assert.Equal(t, tt.want, sc.CurrentName())
		})
	}

	keys := config.Default().Keys
	keys.Keymap = keymapFile
	sc, err := BuildSchemes(keys)
	require.NoError(t, err)
	buf := buffer.New()
	sc.Handle(input.KeyPress(key.MustParse("<C-t>")), buf)
	assert.Equal(t, "hey", buf.CurrentLine().String())
	assert.Equal(t, []string{"emacs", "simple", "vim-insert", "vim-normal"}, sc.Schemes())

	keys = config.Default().Keys
	keys.Scheme = "lua"
	_, err = BuildSchemes(keys)
	assert.Error(t, err, "lua without a script is not registered")
}

func TestReloadSwitchesScheme(t *testing.T) {
	s, _ := newSession(t, 10, 3, nil)
	sc, err := BuildSchemes(config.Default().Keys)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Keys.Scheme = "emacs"
	s.Reload(cfg, sc)
	assert.Equal(t, "emacs", sc.CurrentName())
	before := s.Tree()

	cfg.UI.Layout = "Vertical: { 1: missing }"
	cfg.Keys.Scheme = "simple"
	s.Reload(cfg, sc)
	assert.Same(t, before, s.Tree(), "a bad layout keeps the old tree")
	assert.Equal(t, "emacs", sc.CurrentName(), "nothing is applied from a rejected config")
}
