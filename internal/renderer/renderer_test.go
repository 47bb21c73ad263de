package renderer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/panes/internal/buffer"
	"github.com/dshills/panes/internal/renderer/backend"
	"github.com/dshills/panes/internal/renderer/core"
	"github.com/dshills/panes/internal/split"
	"github.com/dshills/panes/internal/styledtext"
)

func newBuffer(name string, lines ...string) *buffer.Buffer {
	b := buffer.New(buffer.WithName(name))
	for _, l := range lines {
		b.AddLine(styledtext.Plain(l))
	}
	return b
}

func rows(b *backend.NullBackend) []string {
	_, h := b.Size()
	out := make([]string, h)
	for y := range out {
		out[y] = b.Row(y)
	}
	return out
}

func TestRenderOutputAndPrompt(t *testing.T) {
	out := newBuffer("out", "hello", "world")
	prompt := buffer.New(buffer.WithName("prompt"))
	prompt.SetCursorVisible(true)
	tree := split.NewTree(split.Vertical(
		split.Flex(1, split.Leaf(out)),
		split.Fixed(1, split.Leaf(prompt)),
	))

	nb := backend.NewNullBackend(10, 3)
	r := New(nb, DefaultOptions())
	require.NoError(t, r.Render(tree))

	assert.Equal(t, []string{"hello     ", "world     ", "          "}, rows(nb))
	x, y, visible := nb.CursorPosition()
	assert.True(t, visible)
	assert.Equal(t, 0, x)
	assert.Equal(t, 2, y)
	assert.Equal(t, 1, nb.Shows())

	prompt.InsertRune('h', core.DefaultStyle())
	prompt.InsertRune('i', core.DefaultStyle())
	require.NoError(t, r.Render(tree))
	assert.Equal(t, "hi        ", nb.Row(2))
	x, y, _ = nb.CursorPosition()
	assert.Equal(t, 2, x)
	assert.Equal(t, 2, y)
}

func TestRenderTruncatesAndPads(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		width int
		want  string
	}{
		{"pad", "ab", 4, "ab  "},
		{"truncate", "abcdef", 3, "abc"},
		{"wide fits", "a世b", 3, "a世"},
		{"wide straddles", "a世b", 2, "a "},
		{"control dropped", "a\x01b", 3, "ab "},
		{"tab", "\tx", 6, "    x "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nb := backend.NewNullBackend(tt.width, 1)
			r := New(nb, DefaultOptions())
			tree := split.NewTree(split.Leaf(newBuffer("b", tt.line)))
			require.NoError(t, r.Render(tree))
			assert.Equal(t, tt.want, nb.Row(0))
		})
	}
}

func TestRenderWideRuneContinuation(t *testing.T) {
	nb := backend.NewNullBackend(4, 1)
	r := New(nb, DefaultOptions())
	require.NoError(t, r.Render(split.NewTree(split.Leaf(newBuffer("b", "世")))))

	assert.Equal(t, 2, nb.GetCell(0, 0).Width)
	assert.True(t, nb.GetCell(1, 0).IsContinuation())
	assert.Equal(t, ' ', nb.GetCell(2, 0).Rune)
}

func TestRenderStyles(t *testing.T) {
	var line styledtext.Text
	line.AppendString("r", core.NewStyle(core.ColorRed))
	line.AppendString("p", core.DefaultStyle())
	buf := buffer.New()
	buf.AddLine(line)

	opts := DefaultOptions()
	opts.Theme.Background = core.ColorBlue
	nb := backend.NewNullBackend(3, 1)
	require.NoError(t, New(nb, opts).Render(split.NewTree(split.Leaf(buf))))

	red := nb.GetCell(0, 0).Style
	assert.True(t, red.Foreground.Equals(core.ColorRed))
	assert.True(t, red.Background.Equals(core.ColorBlue))
	assert.True(t, nb.GetCell(1, 0).Style.Foreground.IsDefault())
	assert.True(t, nb.GetCell(2, 0).Style.Background.Equals(core.ColorBlue), "padding uses the theme")
}

func TestRenderFollowTail(t *testing.T) {
	buf := buffer.New(buffer.WithFollowTail(true))
	for _, l := range []string{"1", "2", "3", "4", "5"} {
		buf.AddLine(styledtext.Plain(l))
	}
	nb := backend.NewNullBackend(1, 2)
	require.NoError(t, New(nb, DefaultOptions()).Render(split.NewTree(split.Leaf(buf))))
	assert.Equal(t, []string{"4", "5"}, rows(nb))
}

func TestRenderCursorPastLineEnd(t *testing.T) {
	buf := newBuffer("b", "abc")
	buf.SetCursorVisible(true)
	buf.MoveToLineEnd()

	nb := backend.NewNullBackend(5, 1)
	require.NoError(t, New(nb, DefaultOptions()).Render(split.NewTree(split.Leaf(buf))))
	x, _, visible := nb.CursorPosition()
	assert.True(t, visible)
	assert.Equal(t, 3, x)

	// A narrow pane pins the cursor to its last column.
	narrow := backend.NewNullBackend(2, 1)
	require.NoError(t, New(narrow, DefaultOptions()).Render(split.NewTree(split.Leaf(buf))))
	x, _, _ = narrow.CursorPosition()
	assert.Equal(t, 1, x)
}

func TestRenderCursorAfterTab(t *testing.T) {
	buf := newBuffer("b", "\tx")
	buf.SetCursorVisible(true)
	buf.SetCursor(buffer.Position{Line: 0, Col: 1})

	nb := backend.NewNullBackend(10, 1)
	opts := DefaultOptions()
	opts.TabWidth = 8
	require.NoError(t, New(nb, opts).Render(split.NewTree(split.Leaf(buf))))
	x, _, _ := nb.CursorPosition()
	assert.Equal(t, 8, x)
}

func TestRenderFocus(t *testing.T) {
	a := newBuffer("a", "aaa")
	b := newBuffer("b", "bbb")
	a.SetCursorVisible(true)
	b.SetCursorVisible(true)
	b.MoveToLineEnd()
	tree := split.NewTree(split.Horizontal(
		split.Flex(1, split.Leaf(a)),
		split.Flex(1, split.Leaf(b)),
	))

	nb := backend.NewNullBackend(10, 1)
	r := New(nb, DefaultOptions())
	require.NoError(t, r.Render(tree))
	x, _, _ := nb.CursorPosition()
	assert.Equal(t, 0, x, "first visible cursor without focus")

	r.SetFocus(b)
	assert.Same(t, b, r.Focus())
	require.NoError(t, r.Render(tree))
	x, _, _ = nb.CursorPosition()
	assert.Equal(t, 8, x)

	b.SetCursorVisible(false)
	require.NoError(t, r.Render(tree))
	_, _, visible := nb.CursorPosition()
	assert.False(t, visible)
}

func TestRenderSameBufferTwiceIsStable(t *testing.T) {
	b := buffer.New(buffer.WithName("log"))
	for i := range 50 {
		b.AddLine(styledtext.Plain(fmt.Sprintf("l%d", i)))
	}
	b.SetCursorVisible(true)
	b.SetCursor(buffer.Position{Line: 49})
	tree := split.NewTree(split.Vertical(
		split.Fixed(10, split.Leaf(b)),
		split.Fixed(5, split.Leaf(b)),
	))

	nb := backend.NewNullBackend(5, 15)
	r := New(nb, DefaultOptions())
	require.NoError(t, r.Render(tree))
	first := rows(nb)
	assert.Equal(t, "l40  ", first[0])
	assert.Equal(t, "l49  ", first[9])
	assert.Equal(t, "l40  ", first[10])
	assert.Equal(t, "l44  ", first[14])
	x, y, visible := nb.CursorPosition()
	assert.True(t, visible)
	assert.Equal(t, 0, x)
	assert.Equal(t, 9, y)

	for range 2 {
		require.NoError(t, r.Render(tree))
		assert.Equal(t, first, rows(nb))
	}
	assert.Equal(t, 40, b.ScrollTop())
}

func TestRenderHiddenCursorStyle(t *testing.T) {
	buf := newBuffer("b", "x")
	buf.SetCursorVisible(true)
	opts := DefaultOptions()
	opts.CursorStyle = backend.CursorHidden

	nb := backend.NewNullBackend(3, 1)
	require.NoError(t, New(nb, opts).Render(split.NewTree(split.Leaf(buf))))
	_, _, visible := nb.CursorPosition()
	assert.False(t, visible)
	assert.Equal(t, backend.CursorHidden, nb.CursorStyleValue())
}

func TestRenderSoftCursor(t *testing.T) {
	buf := newBuffer("b", "xy")
	buf.SetCursorVisible(true)
	buf.SetCursor(buffer.Position{Col: 1})

	opts := DefaultOptions()
	opts.SoftCursor = true
	nb := backend.NewNullBackend(3, 1)
	require.NoError(t, New(nb, opts).Render(split.NewTree(split.Leaf(buf))))

	_, _, visible := nb.CursorPosition()
	assert.False(t, visible)
	cell := nb.GetCell(1, 0)
	assert.Equal(t, 'y', cell.Rune)
	assert.True(t, cell.Style.Attributes.Has(core.AttrReverse))
	assert.False(t, nb.GetCell(0, 0).Style.Attributes.Has(core.AttrReverse))
}

func TestRenderSeparators(t *testing.T) {
	a := newBuffer("a", "aaaa")
	b := newBuffer("b", "bbbb")
	tree := split.NewTree(split.Horizontal(
		split.Flex(1, split.Leaf(a)),
		split.Flex(1, split.Leaf(b)),
	))

	nb := backend.NewNullBackend(5, 1)
	opts := DefaultOptions()
	opts.ShowSeparators = true
	require.NoError(t, New(nb, opts).Render(tree))
	assert.Equal(t, "aa│bb", nb.Row(0))

	stacked := split.NewTree(split.Vertical(
		split.Flex(1, split.Leaf(a)),
		split.Flex(1, split.Leaf(b)),
	)).WithSeparators(true)
	nb = backend.NewNullBackend(2, 3)
	require.NoError(t, New(nb, DefaultOptions()).Render(stacked))
	assert.Equal(t, []string{"aa", "──", "bb"}, rows(nb))
}

func TestRenderUnclaimedAreaIsBlank(t *testing.T) {
	nb := backend.NewNullBackend(3, 2)
	nb.Fill(core.RectFromSize(0, 0, 2, 3), core.NewCell('#'))
	r := New(nb, DefaultOptions())

	require.NoError(t, r.Render(nil))
	assert.Equal(t, []string{"   ", "   "}, rows(nb))
	_, _, visible := nb.CursorPosition()
	assert.False(t, visible)

	zero := split.NewTree(split.Vertical(split.Flex(0, split.Leaf(newBuffer("z", "zzz")))))
	require.NoError(t, r.Render(zero))
	assert.Equal(t, []string{"   ", "   "}, rows(nb))
}

func TestRenderShowFailure(t *testing.T) {
	nb := backend.NewNullBackend(3, 1)
	r := New(nb, DefaultOptions())
	tree := split.NewTree(split.Leaf(newBuffer("b", "x")))

	boom := errors.New("broken pipe")
	nb.FailShow(boom)
	err := r.Render(tree)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, uint64(1), re.Frame)
	assert.Equal(t, 1, nb.Shows(), "failures are not retried")

	nb.FailShow(nil)
	assert.NoError(t, r.Render(tree))
	assert.Equal(t, uint64(2), r.Frames())
}

func TestRenderFollowsResize(t *testing.T) {
	nb := backend.NewNullBackend(4, 1)
	r := New(nb, DefaultOptions())
	tree := split.NewTree(split.Leaf(newBuffer("b", "abcdef")))
	require.NoError(t, r.Render(tree))
	assert.Equal(t, split.Viewport{Rows: 1, Cols: 4}, r.SplitMap().Size)

	nb.Resize(6, 2)
	require.NoError(t, r.Render(tree))
	assert.Equal(t, split.Viewport{Rows: 2, Cols: 6}, r.SplitMap().Size)
	assert.Equal(t, "abcdef", nb.Row(0))
}

func TestRenderThroughBufferedBackend(t *testing.T) {
	inner := backend.NewNullBackend(5, 2)
	bb := backend.NewBufferedBackend(inner)
	require.NoError(t, bb.Init())
	r := New(bb, DefaultOptions())

	buf := newBuffer("b", "one")
	tree := split.NewTree(split.Leaf(buf))
	require.NoError(t, r.Render(tree))
	buf.AddLine(styledtext.Plain("two"))
	require.NoError(t, r.Render(tree))

	assert.Equal(t, []string{"one  ", "two  "}, rows(inner))
}

func TestThemeFromHex(t *testing.T) {
	theme, err := ThemeFromHex("dusk", "#ffffff", "#000000", "#00ff00", "")
	require.NoError(t, err)
	assert.True(t, theme.Foreground.Equals(core.ColorWhite))
	assert.True(t, theme.FocusBase().Foreground.Equals(core.ColorGreen))
	assert.True(t, theme.Base().Background.Equals(core.ColorBlack))
	assert.True(t, theme.CursorStyle(core.DefaultStyle()).Attributes.Has(core.AttrReverse))
	sep := theme.SeparatorStyle().Foreground
	assert.True(t, sep.Set)
	assert.False(t, sep.Equals(core.ColorWhite) || sep.Equals(core.ColorBlack))
	assert.True(t, DefaultTheme().Separator.Equals(core.ColorGray))

	_, err = ThemeFromHex("bad", "#zzzzzz", "", "", "")
	assert.Error(t, err)
}
