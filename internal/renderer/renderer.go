package renderer

import (
	"sync"

	"github.com/dshills/panes/internal/buffer"
	"github.com/dshills/panes/internal/renderer/backend"
	"github.com/dshills/panes/internal/renderer/core"
	"github.com/dshills/panes/internal/split"
)

// Options configures the renderer.
type Options struct {
	// CursorStyle is the shape of the terminal cursor.
	CursorStyle backend.CursorStyle

	// Theme supplies the base colors.
	Theme Theme

	// ShowSeparators reserves and draws divider lines between siblings even
	// when the tree does not ask for them.
	ShowSeparators bool

	// TabWidth is the distance between tab stops.
	TabWidth int

	// SoftCursor paints the cursor cell in the theme's cursor style instead
	// of moving the terminal cursor. Useful for sinks without a cursor, such
	// as a recorded frame.
	SoftCursor bool
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		CursorStyle: backend.CursorBlock,
		Theme:       DefaultTheme(),
		TabWidth:    DefaultTabWidth,
	}
}

// Renderer paints split trees onto a backend.
type Renderer struct {
	mu sync.Mutex

	opts    Options
	backend backend.Backend
	focus   *buffer.Buffer

	last   *split.SplitMap
	frames uint64
}

// New creates a renderer drawing into b.
func New(b backend.Backend, opts Options) *Renderer {
	b.SetCursorStyle(opts.CursorStyle)
	return &Renderer{
		opts:    opts,
		backend: b,
	}
}

// Backend returns the backend being drawn into.
func (r *Renderer) Backend() backend.Backend {
	return r.backend
}

// Options returns the current options.
func (r *Renderer) Options() Options {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opts
}

// SetOptions updates the renderer options. They apply from the next frame.
func (r *Renderer) SetOptions(opts Options) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.opts = opts
	r.backend.SetCursorStyle(opts.CursorStyle)
}

// SetFocus selects the buffer whose cursor is placed. With no focus the
// first buffer in the layout that shows its cursor is used.
func (r *Renderer) SetFocus(buf *buffer.Buffer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.focus = buf
}

// Focus returns the focused buffer, if any.
func (r *Renderer) Focus() *buffer.Buffer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.focus
}

// SplitMap returns the layout of the last frame, or nil before the first.
// It can translate mouse positions until the next Render.
func (r *Renderer) SplitMap() *split.SplitMap {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Frames returns how many frames were rendered, including failed ones.
func (r *Renderer) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Render lays tree out against the backend's current size, paints every
// pane and shows the frame. A nil tree renders a blank screen. Backend
// failures are returned as *RenderError.
func (r *Renderer) Render(tree *split.Tree) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.frames++
	cols, rows := r.backend.Size()
	vp := split.Viewport{Rows: rows, Cols: cols}

	var sm *split.SplitMap
	switch {
	case tree == nil:
		sm = split.Layout(nil, vp)
	case tree.Separators() || r.opts.ShowSeparators:
		sm = split.LayoutSeparated(tree.Root(), vp)
	default:
		sm = tree.Layout(vp)
	}
	r.last = sm

	// Area no pane claims, such as space left by zero weights, is blanked.
	r.backend.Fill(core.RectFromSize(0, 0, rows, cols), core.Cell{Rune: ' ', Width: 1, Style: r.opts.Theme.Base()})

	cursor, hasCursor := r.paintPanes(sm)
	for _, sep := range sm.Separators {
		r.paintSeparator(sep.Rect, sep.Orientation == split.SideBySide)
	}

	switch {
	case !hasCursor || r.opts.CursorStyle == backend.CursorHidden:
		r.backend.HideCursor()
	case r.opts.SoftCursor:
		c := r.backend.GetCell(cursor.Col, cursor.Row)
		if c.IsContinuation() || c.Rune == 0 {
			c = core.EmptyCell()
		}
		c.Style = r.opts.Theme.CursorStyle(c.Style)
		r.backend.SetCell(cursor.Col, cursor.Row, c)
		r.backend.HideCursor()
	default:
		r.backend.ShowCursor(cursor.Col, cursor.Row)
	}

	if err := r.backend.Show(); err != nil {
		return &RenderError{Frame: r.frames, Err: err}
	}
	return nil
}

// paintPanes paints each entry and returns the screen position of the
// cursor to show.
func (r *Renderer) paintPanes(sm *split.SplitMap) (core.ScreenPos, bool) {
	focus := r.focus
	if focus != nil {
		if _, ok := sm.Lookup(focus); !ok {
			focus = nil
		}
	}

	var (
		cursor    core.ScreenPos
		hasCursor bool
		tops      = make(map[*buffer.Buffer]int, len(sm.Entries))
	)
	for _, e := range sm.Entries {
		base := r.opts.Theme.Base()
		if e.Buffer == focus {
			base = r.opts.Theme.FocusBase()
		}
		// The first placement settles the window; later ones reuse its top
		// line so painting never moves the buffer's scroll position twice.
		top, seen := tops[e.Buffer]
		var snap buffer.Snapshot
		if seen {
			snap = e.Buffer.SnapshotAt(top, e.Rect.Height())
		} else {
			snap = e.Buffer.Snapshot(e.Rect.Height())
			tops[e.Buffer] = snap.First
		}
		for i := range e.Rect.Height() {
			y := e.Rect.Top + i
			if i < len(snap.Lines) {
				r.paintLine(e.Rect, y, snap.Lines[i], base)
			} else {
				r.backend.Fill(core.RectFromSize(y, e.Rect.Left, 1, e.Rect.Width()),
					core.Cell{Rune: ' ', Width: 1, Style: base})
			}
		}

		// Only the first placement of a buffer carries its cursor.
		if hasCursor || seen || (focus != nil && e.Buffer != focus) {
			continue
		}
		if pos, ok := r.cursorPosition(e.Rect, snap); ok {
			cursor, hasCursor = pos, true
		}
	}
	return cursor, hasCursor
}

// cursorPosition converts a snapshot's cursor into screen coordinates. A
// cursor past the right edge is pinned to the last column.
func (r *Renderer) cursorPosition(rect core.ScreenRect, snap buffer.Snapshot) (core.ScreenPos, bool) {
	if rect.IsEmpty() {
		return core.ScreenPos{}, false
	}
	row, ok := snap.CursorRow()
	if !ok || row >= rect.Height() {
		return core.ScreenPos{}, false
	}
	col := 0
	if row < len(snap.Lines) {
		col = displayColumn(snap.Lines[row], snap.Cursor.Col, r.tabWidth())
	}
	return core.ScreenPos{
		Row: rect.Top + row,
		Col: rect.Left + min(col, rect.Width()-1),
	}, true
}

func (r *Renderer) tabWidth() int {
	if r.opts.TabWidth > 0 {
		return r.opts.TabWidth
	}
	return DefaultTabWidth
}
