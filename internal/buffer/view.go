package buffer

import (
	"github.com/dshills/panes/internal/styledtext"
)

// Snapshot is a consistent copy of the part of a buffer a renderer paints.
type Snapshot struct {
	// First is the document line shown on the first row.
	First int

	// Lines holds up to height lines starting at First.
	Lines []styledtext.Text

	// Cursor is the cursor position in document coordinates.
	Cursor Position

	// CursorVisible reports whether the cursor should be drawn.
	CursorVisible bool

	// LineCount is the total number of document lines.
	LineCount int
}

// CursorRow returns the cursor's row relative to the snapshot, and false when
// the cursor is hidden or outside the captured lines.
func (s Snapshot) CursorRow() (int, bool) {
	if !s.CursorVisible {
		return 0, false
	}
	row := s.Cursor.Line - s.First
	if row < 0 || row >= len(s.Lines) {
		if row == 0 && len(s.Lines) == 0 {
			// Empty document: the cursor sits on the first row.
			return 0, true
		}
		return 0, false
	}
	return row, true
}

// Snapshot captures the lines visible in a window of the given height.
//
// When following the tail the window shows the last height lines. Otherwise
// it starts at the scroll position. In both cases a visible cursor is kept
// inside the window, and the resulting top line is remembered as the new
// scroll position.
func (b *Buffer) Snapshot(height int) Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	count := b.doc.LineCount()
	height = max(height, 0)

	first := b.scrollTop
	if b.followTail {
		first = count - height
	}
	if b.cursorVisible && height > 0 {
		if b.cursor.Line < first {
			first = b.cursor.Line
		} else if b.cursor.Line >= first+height {
			first = b.cursor.Line - height + 1
		}
	}
	first = min(max(first, 0), max(count-1, 0))
	b.scrollTop = first

	return Snapshot{
		First:         first,
		Lines:         b.doc.VisibleLines(first, height),
		Cursor:        b.cursor,
		CursorVisible: b.cursorVisible,
		LineCount:     count,
	}
}

// SnapshotAt captures up to height lines starting at first without touching
// the scroll position. It serves extra placements of a buffer that is shown
// more than once.
func (b *Buffer) SnapshotAt(first, height int) Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	count := b.doc.LineCount()
	first = min(max(first, 0), max(count-1, 0))
	return Snapshot{
		First:         first,
		Lines:         b.doc.VisibleLines(first, max(height, 0)),
		Cursor:        b.cursor,
		CursorVisible: b.cursorVisible,
		LineCount:     count,
	}
}
