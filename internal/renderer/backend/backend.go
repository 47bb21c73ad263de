// Package backend provides the terminal output sinks the renderer paints
// into.
//
// A Backend is a grid of cells plus a cursor. Drawing calls only touch the
// grid; Show pushes the grid to the real output and is the one place output
// errors surface. Terminal drives a tcell screen, Writer emits ANSI escape
// sequences to any io.Writer, and NullBackend keeps everything in memory for
// tests.
package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/dshills/panes/internal/input"
	"github.com/dshills/panes/internal/renderer/core"
)

// CursorStyle defines how the cursor appears.
type CursorStyle int

const (
	CursorBlock CursorStyle = iota
	CursorUnderline
	CursorBar
	CursorHidden
)

// String returns the configuration name of the style.
func (s CursorStyle) String() string {
	switch s {
	case CursorBlock:
		return "block"
	case CursorUnderline:
		return "underline"
	case CursorBar:
		return "bar"
	case CursorHidden:
		return "hidden"
	default:
		return fmt.Sprintf("CursorStyle(%d)", int(s))
	}
}

// ParseCursorStyle parses a configuration name such as "bar".
func ParseCursorStyle(name string) (CursorStyle, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "block":
		return CursorBlock, nil
	case "underline":
		return CursorUnderline, nil
	case "bar":
		return CursorBar, nil
	case "hidden":
		return CursorHidden, nil
	default:
		return CursorBlock, fmt.Errorf("unknown cursor style %q", name)
	}
}

// Backend defines the interface for terminal output sinks.
type Backend interface {
	// Init prepares the backend for use.
	// Must be called before any other methods.
	Init() error

	// Shutdown releases backend resources and restores terminal state.
	Shutdown()

	// Size returns the current dimensions in cells.
	Size() (width, height int)

	// SetCell sets a single cell at the given position.
	// Positions outside the grid are silently ignored.
	SetCell(x, y int, cell core.Cell)

	// GetCell returns the cell at the given position.
	// Returns an empty cell for positions outside the grid.
	GetCell(x, y int) core.Cell

	// Fill fills a rectangular region with the given cell.
	Fill(rect core.ScreenRect, cell core.Cell)

	// Clear clears the entire grid with the default style.
	Clear()

	// Show pushes pending changes to the output. Write failures are
	// returned, never retried.
	Show() error

	// ShowCursor positions and displays the cursor.
	ShowCursor(x, y int)

	// HideCursor hides the cursor.
	HideCursor()

	// SetCursorStyle changes the cursor appearance.
	SetCursorStyle(style CursorStyle)
}

// NullBackend is an in-memory backend for testing. It also acts as an
// input.Source fed through PostEvent.
type NullBackend struct {
	width, height int
	cells         [][]core.Cell
	cursorX       int
	cursorY       int
	cursorVisible bool
	cursorStyle   CursorStyle
	shows         int
	showErr       error
	events        *input.Queue
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	b := &NullBackend{
		width:  width,
		height: height,
		events: input.NewQueue(100),
	}
	b.allocate()
	return b
}

func (b *NullBackend) allocate() {
	b.cells = make([][]core.Cell, b.height)
	for i := range b.cells {
		b.cells[i] = make([]core.Cell, b.width)
		for j := range b.cells[i] {
			b.cells[i][j] = core.EmptyCell()
		}
	}
}

func (b *NullBackend) Init() error { return nil }

func (b *NullBackend) Shutdown() {
	b.events.Close()
}

func (b *NullBackend) Size() (int, int) {
	return b.width, b.height
}

func (b *NullBackend) SetCell(x, y int, cell core.Cell) {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		b.cells[y][x] = cell
	}
}

func (b *NullBackend) GetCell(x, y int) core.Cell {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		return b.cells[y][x]
	}
	return core.EmptyCell()
}

func (b *NullBackend) Fill(rect core.ScreenRect, cell core.Cell) {
	for y := max(rect.Top, 0); y < rect.Bottom && y < b.height; y++ {
		for x := max(rect.Left, 0); x < rect.Right && x < b.width; x++ {
			b.cells[y][x] = cell
		}
	}
}

func (b *NullBackend) Clear() {
	b.Fill(core.RectFromSize(0, 0, b.height, b.width), core.EmptyCell())
}

// Show counts frames and returns the error set by FailShow, if any.
func (b *NullBackend) Show() error {
	b.shows++
	return b.showErr
}

func (b *NullBackend) ShowCursor(x, y int) {
	b.cursorX = x
	b.cursorY = y
	b.cursorVisible = true
}

func (b *NullBackend) HideCursor() {
	b.cursorVisible = false
}

func (b *NullBackend) SetCursorStyle(style CursorStyle) {
	b.cursorStyle = style
}

// PollEvent implements input.Source.
func (b *NullBackend) PollEvent(ctx context.Context) (input.Event, error) {
	return b.events.PollEvent(ctx)
}

// PostEvent queues a synthetic event. Events are dropped when the queue is
// full.
func (b *NullBackend) PostEvent(ev input.Event) {
	b.events.Post(ev)
}

// FailShow makes every following Show return err. Pass nil to recover.
func (b *NullBackend) FailShow(err error) {
	b.showErr = err
}

// Shows returns how many times Show was called.
func (b *NullBackend) Shows() int {
	return b.shows
}

// CursorPosition returns the current cursor position for testing.
func (b *NullBackend) CursorPosition() (x, y int, visible bool) {
	return b.cursorX, b.cursorY, b.cursorVisible
}

// CursorStyleValue returns the current cursor style for testing.
func (b *NullBackend) CursorStyleValue() CursorStyle {
	return b.cursorStyle
}

// Row returns the characters of row y, skipping wide-character
// continuation cells.
func (b *NullBackend) Row(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	var sb strings.Builder
	for _, c := range b.cells[y] {
		if !c.IsContinuation() {
			sb.WriteRune(c.Rune)
		}
	}
	return sb.String()
}

// Resize simulates a terminal resize: the grid is cleared and a resize event
// is queued.
func (b *NullBackend) Resize(width, height int) {
	b.width = width
	b.height = height
	b.allocate()
	b.PostEvent(input.Resize(width, height))
}
