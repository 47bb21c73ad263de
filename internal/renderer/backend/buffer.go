package backend

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/dshills/panes/internal/renderer/core"
)

// ScreenBuffer provides double-buffered rendering with change tracking.
// It keeps the cells last pushed to the output (front) and the cells being
// drawn (back). Rows touched since the last sync are tracked in a bitset so
// the diff only scans those rows.
type ScreenBuffer struct {
	width, height int
	front         [][]core.Cell
	back          [][]core.Cell
	dirty         *bitset.BitSet
	fullRedraw    bool
}

// NewScreenBuffer creates a screen buffer with the given dimensions.
func NewScreenBuffer(width, height int) *ScreenBuffer {
	sb := &ScreenBuffer{
		width:      max(width, 0),
		height:     max(height, 0),
		fullRedraw: true,
	}
	sb.allocate()
	return sb
}

func (sb *ScreenBuffer) allocate() {
	sb.front = make([][]core.Cell, sb.height)
	sb.back = make([][]core.Cell, sb.height)
	sb.dirty = bitset.New(uint(sb.height))
	for y := range sb.height {
		sb.front[y] = make([]core.Cell, sb.width)
		sb.back[y] = make([]core.Cell, sb.width)
		for x := range sb.width {
			sb.front[y][x] = core.EmptyCell()
			sb.back[y][x] = core.EmptyCell()
		}
	}
}

// Resize resizes the buffer, preserving drawn content where it still fits.
func (sb *ScreenBuffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if width == sb.width && height == sb.height {
		return
	}
	oldBack := sb.back
	copyHeight := min(sb.height, height)
	copyWidth := min(sb.width, width)

	sb.width = width
	sb.height = height
	sb.allocate()
	for y := range copyHeight {
		copy(sb.back[y][:copyWidth], oldBack[y][:copyWidth])
	}
	sb.fullRedraw = true
}

// Size returns the buffer dimensions.
func (sb *ScreenBuffer) Size() (width, height int) {
	return sb.width, sb.height
}

// SetCell sets a cell in the back buffer.
func (sb *ScreenBuffer) SetCell(x, y int, cell core.Cell) {
	if x < 0 || x >= sb.width || y < 0 || y >= sb.height {
		return
	}
	sb.back[y][x] = cell
	sb.dirty.Set(uint(y))
}

// GetCell returns a cell from the back buffer.
func (sb *ScreenBuffer) GetCell(x, y int) core.Cell {
	if x < 0 || x >= sb.width || y < 0 || y >= sb.height {
		return core.EmptyCell()
	}
	return sb.back[y][x]
}

// GetFrontCell returns a cell from the front buffer (last pushed).
func (sb *ScreenBuffer) GetFrontCell(x, y int) core.Cell {
	if x < 0 || x >= sb.width || y < 0 || y >= sb.height {
		return core.EmptyCell()
	}
	return sb.front[y][x]
}

// Fill fills a rectangle with the given cell.
func (sb *ScreenBuffer) Fill(rect core.ScreenRect, cell core.Cell) {
	for y := max(rect.Top, 0); y < rect.Bottom && y < sb.height; y++ {
		for x := max(rect.Left, 0); x < rect.Right && x < sb.width; x++ {
			sb.back[y][x] = cell
		}
		if rect.Left < rect.Right {
			sb.dirty.Set(uint(y))
		}
	}
}

// Clear clears the back buffer with empty cells.
func (sb *ScreenBuffer) Clear() {
	sb.Fill(core.RectFromSize(0, 0, sb.height, sb.width), core.EmptyCell())
}

// DiffChange represents a cell change for synchronization.
type DiffChange struct {
	X, Y int
	Cell core.Cell
}

// ComputeDiff returns the cells that differ from what was last pushed.
// Returns nil if no changes are needed.
func (sb *ScreenBuffer) ComputeDiff() []DiffChange {
	var changes []DiffChange
	for y := range sb.height {
		if !sb.fullRedraw && !sb.dirty.Test(uint(y)) {
			continue
		}
		for x := range sb.width {
			if sb.fullRedraw || !sb.back[y][x].Equals(sb.front[y][x]) {
				changes = append(changes, DiffChange{X: x, Y: y, Cell: sb.back[y][x]})
			}
		}
	}
	return changes
}

// Sync copies the back buffer to the front buffer and clears dirty rows.
// Call this after applying changes to the output.
func (sb *ScreenBuffer) Sync() {
	for y := range sb.height {
		copy(sb.front[y], sb.back[y])
	}
	sb.dirty.ClearAll()
	sb.fullRedraw = false
}

// MarkFullRedraw forces a complete redraw on next sync.
func (sb *ScreenBuffer) MarkFullRedraw() {
	sb.fullRedraw = true
}

// IsDirty returns true if there are pending changes.
func (sb *ScreenBuffer) IsDirty() bool {
	return sb.fullRedraw || sb.dirty.Any()
}

// DirtyRows returns the number of rows touched since the last sync.
func (sb *ScreenBuffer) DirtyRows() int {
	if sb.fullRedraw {
		return sb.height
	}
	return int(sb.dirty.Count())
}

// BufferedBackend wraps a Backend so that Show only forwards changed cells.
// Output correctness never depends on it: wrapping and not wrapping produce
// the same screen.
type BufferedBackend struct {
	backend Backend
	buffer  *ScreenBuffer
}

// NewBufferedBackend creates a buffered wrapper around a backend.
func NewBufferedBackend(backend Backend) *BufferedBackend {
	width, height := backend.Size()
	return &BufferedBackend{
		backend: backend,
		buffer:  NewScreenBuffer(width, height),
	}
}

func (b *BufferedBackend) Init() error {
	if err := b.backend.Init(); err != nil {
		return err
	}
	b.buffer.Resize(b.backend.Size())
	return nil
}

func (b *BufferedBackend) Shutdown() {
	b.backend.Shutdown()
}

// Size reports the wrapped backend's size; a change is picked up by the
// screen buffer here so the next frame is drawn at the new size.
func (b *BufferedBackend) Size() (int, int) {
	w, h := b.backend.Size()
	b.buffer.Resize(w, h)
	return w, h
}

func (b *BufferedBackend) SetCell(x, y int, cell core.Cell) {
	b.buffer.SetCell(x, y, cell)
}

func (b *BufferedBackend) GetCell(x, y int) core.Cell {
	return b.buffer.GetCell(x, y)
}

func (b *BufferedBackend) Fill(rect core.ScreenRect, cell core.Cell) {
	b.buffer.Fill(rect, cell)
}

func (b *BufferedBackend) Clear() {
	b.buffer.Clear()
}

// Show applies only changed cells to the wrapped backend and shows it. On
// failure the next Show redraws everything.
func (b *BufferedBackend) Show() error {
	for _, ch := range b.buffer.ComputeDiff() {
		b.backend.SetCell(ch.X, ch.Y, ch.Cell)
	}
	if err := b.backend.Show(); err != nil {
		b.buffer.MarkFullRedraw()
		return err
	}
	b.buffer.Sync()
	return nil
}

func (b *BufferedBackend) ShowCursor(x, y int) {
	b.backend.ShowCursor(x, y)
}

func (b *BufferedBackend) HideCursor() {
	b.backend.HideCursor()
}

func (b *BufferedBackend) SetCursorStyle(style CursorStyle) {
	b.backend.SetCursorStyle(style)
}

// Buffer returns the underlying screen buffer.
func (b *BufferedBackend) Buffer() *ScreenBuffer {
	return b.buffer
}
