package split

import (
	"github.com/google/uuid"

	"github.com/dshills/panes/internal/buffer"
	"github.com/dshills/panes/internal/renderer/core"
)

// Entry is one leaf's placement.
type Entry struct {
	Buffer *buffer.Buffer
	Rect   core.ScreenRect
}

// Separator is a divider line reserved between two siblings. Stacked
// containers produce one-row separators, side-by-side containers one-column
// separators.
type Separator struct {
	Orientation Orientation
	Rect        core.ScreenRect
}

// SplitMap is the geometry of one layout pass. It is valid only for the
// viewport it was computed against.
type SplitMap struct {
	// Size is the viewport the map was computed for.
	Size Viewport

	// Entries lists leaf placements in tree order.
	Entries []Entry

	// Separators lists reserved divider lines, empty unless requested.
	Separators []Separator

	byID map[uuid.UUID]int
}

func newSplitMap(vp Viewport) *SplitMap {
	return &SplitMap{Size: vp, byID: make(map[uuid.UUID]int)}
}

func (m *SplitMap) add(buf *buffer.Buffer, rect core.ScreenRect) {
	if _, ok := m.byID[buf.ID()]; !ok {
		m.byID[buf.ID()] = len(m.Entries)
	}
	m.Entries = append(m.Entries, Entry{Buffer: buf, Rect: rect})
}

func (m *SplitMap) addSeparator(o Orientation, rect core.ScreenRect) {
	m.Separators = append(m.Separators, Separator{Orientation: o, Rect: rect})
}

// Len returns the number of leaf placements.
func (m *SplitMap) Len() int {
	return len(m.Entries)
}

// Rect returns the rectangle of the buffer with the given ID. A buffer placed
// more than once reports its first placement.
func (m *SplitMap) Rect(id uuid.UUID) (core.ScreenRect, bool) {
	i, ok := m.byID[id]
	if !ok {
		return core.ScreenRect{}, false
	}
	return m.Entries[i].Rect, true
}

// Lookup returns the rectangle of buf.
func (m *SplitMap) Lookup(buf *buffer.Buffer) (core.ScreenRect, bool) {
	if buf == nil {
		return core.ScreenRect{}, false
	}
	return m.Rect(buf.ID())
}

// At finds the buffer displayed at a screen position and translates the
// position into that buffer's rectangle.
func (m *SplitMap) At(pos core.ScreenPos) (*buffer.Buffer, core.ScreenPos, bool) {
	for _, e := range m.Entries {
		if e.Rect.Contains(pos) {
			return e.Buffer, core.ScreenPos{Row: pos.Row - e.Rect.Top, Col: pos.Col - e.Rect.Left}, true
		}
	}
	return nil, core.ScreenPos{}, false
}
