// Package buffer provides Buffer, the shared handle through which a document
// is displayed and edited.
//
// A Buffer owns one document plus its view state: cursor position, cursor
// visibility and scroll position. Every method locks the buffer for the
// duration of that call only, so a Buffer can be shared freely between a
// background producer and the foreground input loop. No atomicity is implied
// across calls.
package buffer

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/panes/internal/document"
	"github.com/dshills/panes/internal/renderer/core"
	"github.com/dshills/panes/internal/styledtext"
)

// Position is a cursor location. Col is a rune index into the line and may
// equal the line length (cursor after the last character).
type Position struct {
	Line int
	Col  int
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Col)
}

// Buffer is a lockable handle around a document and its view state.
type Buffer struct {
	id   uuid.UUID
	name string

	mu            sync.Mutex
	doc           *document.Document
	cursor        Position
	cursorVisible bool
	scrollTop     int
	followTail    bool

	version atomic.Uint64
}

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithName sets a human-readable name, used in logs and tree literals.
func WithName(name string) Option {
	return func(b *Buffer) {
		b.name = name
	}
}

// WithDocument makes the buffer display an existing document. The buffer
// takes ownership; callers must not touch the document directly afterwards.
func WithDocument(doc *document.Document) Option {
	return func(b *Buffer) {
		if doc != nil {
			b.doc = doc
		}
	}
}

// WithFollowTail keeps the view scrolled to the last line as lines are added.
func WithFollowTail(follow bool) Option {
	return func(b *Buffer) {
		b.followTail = follow
	}
}

// New creates an empty buffer with an invisible cursor.
func New(opts ...Option) *Buffer {
	b := &Buffer{
		id:  uuid.New(),
		doc: &document.Document{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ID returns the buffer's identity.
func (b *Buffer) ID() uuid.UUID {
	return b.id
}

// Name returns the buffer's name, or a short form of its ID when unnamed.
func (b *Buffer) Name() string {
	if b.name != "" {
		return b.name
	}
	return b.id.String()[:8]
}

// String implements fmt.Stringer.
func (b *Buffer) String() string {
	return "buffer(" + b.Name() + ")"
}

// Version increases on every mutation. Readers compare versions to decide
// whether a redraw is due.
func (b *Buffer) Version() uint64 {
	return b.version.Load()
}

// View runs fn with read access to the document under the buffer lock. fn
// must not retain the document or call back into the buffer.
func (b *Buffer) View(fn func(doc *document.Document)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b.doc)
}

// Update runs fn with write access to the document under the buffer lock.
// The cursor is clamped to the new content afterwards. fn must not retain the
// document or call back into the buffer.
func (b *Buffer) Update(fn func(doc *document.Document)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b.doc)
	b.cursor = b.clamp(b.cursor)
	b.touch()
}

// AddLine appends a line to the document.
func (b *Buffer) AddLine(text styledtext.Text) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.doc.AddLine(text)
	b.touch()
}

// AddText appends s split on newlines.
func (b *Buffer) AddText(s string, style core.Style) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.doc.AddText(s, style)
	b.touch()
}

// LineCount returns the number of lines in the document.
func (b *Buffer) LineCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.doc.LineCount()
}

// Line returns a copy of line i.
func (b *Buffer) Line(i int) styledtext.Text {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.doc.Line(i).Clone()
}

// Cursor returns the cursor position.
func (b *Buffer) Cursor() Position {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursor
}

// SetCursor moves the cursor, clamped to the document.
func (b *Buffer) SetCursor(p Position) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursor = b.clamp(p)
	b.touch()
}

// MoveCursorBy moves the cursor horizontally within its line, clamped to the
// line bounds.
func (b *Buffer) MoveCursorBy(delta int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursor = b.clamp(Position{Line: b.cursor.Line, Col: b.cursor.Col + delta})
	b.touch()
}

// MoveToLineStart moves the cursor to column 0.
func (b *Buffer) MoveToLineStart() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursor.Col = 0
	b.touch()
}

// MoveToLineEnd moves the cursor past the last character of its line.
func (b *Buffer) MoveToLineEnd() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursor.Col = b.doc.LineLen(b.cursor.Line)
	b.touch()
}

// CursorVisible reports whether the cursor should be drawn.
func (b *Buffer) CursorVisible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursorVisible
}

// SetCursorVisible shows or hides the cursor.
func (b *Buffer) SetCursorVisible(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursorVisible = v
	b.touch()
}

// InsertRune inserts r at the cursor and moves the cursor right by one.
func (b *Buffer) InsertRune(r rune, style core.Style) {
	b.mu.Lock()
	defer b.mu.Unlock()
	col := b.cursor.Col
	b.doc.UpdateLine(b.cursor.Line, func(t *styledtext.Text) {
		t.InsertAt(col, styledtext.Styled(string(r), style))
	})
	b.cursor.Col++
	b.touch()
}

// InsertText inserts s at the cursor. Newlines in s split the cursor line;
// the cursor ends up after the inserted text.
func (b *Buffer) InsertText(s string, style core.Style) {
	if s == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	parts := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	line, col := b.cursor.Line, b.cursor.Col

	var tail styledtext.Text
	b.doc.UpdateLine(line, func(t *styledtext.Text) {
		var head styledtext.Text
		head, tail = t.SplitAt(col)
		head.AppendString(parts[0], style)
		if len(parts) == 1 {
			head.Append(tail)
		}
		*t = head
	})

	if len(parts) == 1 {
		b.cursor.Col = col + len([]rune(parts[0]))
		b.touch()
		return
	}
	for i, p := range parts[1:] {
		text := styledtext.Styled(p, style)
		if i == len(parts)-2 {
			text.Append(tail)
		}
		b.doc.InsertLine(line+1+i, text)
	}
	last := parts[len(parts)-1]
	b.cursor = Position{Line: line + len(parts) - 1, Col: len([]rune(last))}
	b.touch()
}

// DeleteBackward removes the character before the cursor. At column 0 it is
// a no-op and returns false.
func (b *Buffer) DeleteBackward() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cursor.Col == 0 {
		return false
	}
	col := b.cursor.Col
	b.doc.UpdateLine(b.cursor.Line, func(t *styledtext.Text) {
		t.DeleteRange(col-1, col)
	})
	b.cursor.Col--
	b.touch()
	return true
}

// DeleteForward removes the character under the cursor. At the end of the
// line it is a no-op and returns false.
func (b *Buffer) DeleteForward() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cursor.Col >= b.doc.LineLen(b.cursor.Line) {
		return false
	}
	col := b.cursor.Col
	b.doc.UpdateLine(b.cursor.Line, func(t *styledtext.Text) {
		t.DeleteRange(col, col+1)
	})
	b.touch()
	return true
}

// CurrentLine returns a copy of the cursor line.
func (b *Buffer) CurrentLine() styledtext.Text {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.doc.Line(b.cursor.Line).Clone()
}

// TakeLine drains the cursor line: its content is returned, the line is left
// empty and the cursor moves to column 0.
func (b *Buffer) TakeLine() styledtext.Text {
	b.mu.Lock()
	defer b.mu.Unlock()
	var taken styledtext.Text
	b.doc.UpdateLine(b.cursor.Line, func(t *styledtext.Text) {
		taken = t.Take()
	})
	b.cursor.Col = 0
	b.touch()
	return taken
}

// ScrollTop returns the first document line shown when not following the
// tail.
func (b *Buffer) ScrollTop() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.scrollTop
}

// SetScrollTop anchors the view at line, clamped to the document.
func (b *Buffer) SetScrollTop(line int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scrollTop = min(max(line, 0), max(b.doc.LineCount()-1, 0))
	b.touch()
}

// FollowTail reports whether the view sticks to the last line.
func (b *Buffer) FollowTail() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.followTail
}

// SetFollowTail toggles sticking the view to the last line.
func (b *Buffer) SetFollowTail(follow bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.followTail = follow
	b.touch()
}

// clamp limits p to valid document coordinates. Must hold lock.
func (b *Buffer) clamp(p Position) Position {
	p.Line = min(max(p.Line, 0), max(b.doc.LineCount()-1, 0))
	p.Col = min(max(p.Col, 0), b.doc.LineLen(p.Line))
	return p
}

func (b *Buffer) touch() {
	b.version.Add(1)
}
