package renderer

import (
	"github.com/dshills/panes/internal/renderer/core"
	"github.com/dshills/panes/internal/styledtext"
)

// DefaultTabWidth is used when Options.TabWidth is not positive.
const DefaultTabWidth = 4

// nextTabStop returns the column after a tab at col.
func nextTabStop(col, tabWidth int) int {
	return col + tabWidth - col%tabWidth
}

// paintLine writes one line of text into row y of rect. Text beyond the
// rectangle is cut off, a wide rune that would straddle the right edge is
// dropped, and the rest of the row is padded with blanks in base.
func (r *Renderer) paintLine(rect core.ScreenRect, y int, line styledtext.Text, base core.Style) {
	width := rect.Width()
	tabWidth := r.tabWidth()
	x := 0

paint:
	for _, seg := range line.Segments() {
		style := base.Merge(seg.Style)
		for _, ch := range seg.Text {
			if x >= width {
				break paint
			}
			if ch == '\t' {
				for stop := min(nextTabStop(x, tabWidth), width); x < stop; x++ {
					r.backend.SetCell(rect.Left+x, y, core.Cell{Rune: ' ', Width: 1, Style: style})
				}
				continue
			}
			w := core.RuneWidth(ch)
			if w == 0 {
				continue
			}
			if x+w > width {
				break paint
			}
			r.backend.SetCell(rect.Left+x, y, core.Cell{Rune: ch, Width: w, Style: style})
			for i := 1; i < w; i++ {
				r.backend.SetCell(rect.Left+x+i, y, core.ContinuationCell(style))
			}
			x += w
		}
	}

	blank := core.Cell{Rune: ' ', Width: 1, Style: base}
	for ; x < width; x++ {
		r.backend.SetCell(rect.Left+x, y, blank)
	}
}

// displayColumn returns the cell offset of character col within line, with
// tabs expanded. Columns past the end count as single cells.
func displayColumn(line styledtext.Text, col, tabWidth int) int {
	x := 0
	for i := 0; i < col; i++ {
		ch := line.RuneAt(i)
		switch {
		case i >= line.Len():
			x++
		case ch == '\t':
			x = nextTabStop(x, tabWidth)
		default:
			x += core.RuneWidth(ch)
		}
	}
	return x
}

// paintSeparator draws a divider line across rect.
func (r *Renderer) paintSeparator(rect core.ScreenRect, vertical bool) {
	ch := '─'
	if vertical {
		ch = '│'
	}
	r.backend.Fill(rect, core.Cell{Rune: ch, Width: 1, Style: r.opts.Theme.SeparatorStyle()})
}
