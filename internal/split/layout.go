package split

import (
	"math"
	"math/bits"

	"github.com/dshills/panes/internal/renderer/core"
)

// Viewport is the size of the area a tree is laid out against.
type Viewport struct {
	Rows int
	Cols int
}

// Layout computes leaf rectangles for root against vp without separators.
//
// Layout never fails. Fixed children are served first, in order, each
// clamped to what is left. Flexible children then share the remainder in
// proportion to their weights; the rounding leftover goes one cell at a time
// to the earliest flexible children, so child extents always sum to the
// parent extent unless no child can absorb it. Containers with zero extent
// still recurse and give their leaves empty rectangles.
func Layout(root Node, vp Viewport) *SplitMap {
	return layout(root, vp, false)
}

// LayoutSeparated is Layout with a one-cell separator reserved between
// siblings.
func LayoutSeparated(root Node, vp Viewport) *SplitMap {
	return layout(root, vp, true)
}

func layout(root Node, vp Viewport, separators bool) *SplitMap {
	vp.Rows, vp.Cols = max(vp.Rows, 0), max(vp.Cols, 0)
	m := newSplitMap(vp)
	l := &layouter{m: m, separators: separators}
	l.place(root, core.RectFromSize(0, 0, vp.Rows, vp.Cols))
	return m
}

type layouter struct {
	m          *SplitMap
	separators bool
}

func (l *layouter) place(n Node, rect core.ScreenRect) {
	switch n := n.(type) {
	case *LeafNode:
		if n.Buffer != nil {
			l.m.add(n.Buffer, rect)
		}
	case *Container:
		l.placeChildren(n, rect)
	}
}

func (l *layouter) placeChildren(c *Container, rect core.ScreenRect) {
	if len(c.Children) == 0 {
		return
	}

	total := rect.Height()
	if c.Orientation == SideBySide {
		total = rect.Width()
	}

	gaps := 0
	if l.separators {
		gaps = min(len(c.Children)-1, total)
	}
	extents := Distribute(total-gaps, c.Children)

	offset := 0
	for i, ch := range c.Children {
		if i > 0 && i <= gaps {
			l.m.addSeparator(c.Orientation, l.slot(c.Orientation, rect, offset, 1))
			offset++
		}
		l.place(ch.Node, l.slot(c.Orientation, rect, offset, extents[i]))
		offset += extents[i]
	}
}

// slot returns the sub-rectangle of rect starting offset cells along the
// container axis with the given extent. The cross axis is inherited.
func (l *layouter) slot(o Orientation, rect core.ScreenRect, offset, extent int) core.ScreenRect {
	if o == Stacked {
		return core.RectFromSize(rect.Top+offset, rect.Left, extent, rect.Width())
	}
	return core.RectFromSize(rect.Top, rect.Left+offset, rect.Height(), extent)
}

// MaxWeight is the largest flexible weight Distribute honours; larger
// weights are treated as MaxWeight.
const MaxWeight = math.MaxInt32

// Distribute splits total cells between children by their sizing hints and
// returns one extent per child.
func Distribute(total int, children []Child) []int {
	extents := make([]int, len(children))
	remaining := max(total, 0)

	var weights uint64
	for i, ch := range children {
		v := max(ch.Size.Value, 0)
		if ch.Size.Kind == SizeFixed {
			extents[i] = min(v, remaining)
			remaining -= extents[i]
			continue
		}
		weights += uint64(min(v, MaxWeight))
	}
	if weights == 0 || remaining == 0 {
		return extents
	}

	used := 0
	for i, ch := range children {
		if ch.Size.Kind == SizeFlex {
			w := uint64(min(max(ch.Size.Value, 0), MaxWeight))
			// w <= weights, so the quotient fits and Div64 cannot panic.
			hi, lo := bits.Mul64(uint64(remaining), w)
			share, _ := bits.Div64(hi, lo, weights)
			extents[i] = int(share)
			used += extents[i]
		}
	}
	for i := 0; used < remaining; i = (i + 1) % len(children) {
		ch := children[i]
		if ch.Size.Kind == SizeFlex && ch.Size.Value > 0 {
			extents[i]++
			used++
		}
	}
	return extents
}
