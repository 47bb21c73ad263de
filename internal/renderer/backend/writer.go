package backend

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/dshills/panes/internal/renderer/core"
)

// Default size used when the output is not a terminal.
const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

// Writer implements Backend by emitting ANSI escape sequences to an
// io.Writer. Every Show writes a complete frame in a single Write call, so
// the output can be a terminal, a file or a test buffer.
type Writer struct {
	out     io.Writer
	profile termenv.Profile
	width   int
	height  int
	sized   bool
	cells   [][]core.Cell

	cursorX, cursorY int
	cursorVisible    bool
	cursorStyle      CursorStyle
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithSize fixes the grid size instead of querying the terminal.
func WithSize(width, height int) WriterOption {
	return func(w *Writer) {
		w.width, w.height = max(width, 0), max(height, 0)
		w.sized = true
	}
}

// WithProfile sets the color profile. The default is detected from the
// environment.
func WithProfile(p termenv.Profile) WriterOption {
	return func(w *Writer) {
		w.profile = p
	}
}

// NewWriter creates an ANSI backend writing to out.
func NewWriter(out io.Writer, opts ...WriterOption) *Writer {
	w := &Writer{
		out:     out,
		profile: termenv.EnvColorProfile(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if !w.sized {
		w.width, w.height = terminalSize(out)
	}
	w.allocate()
	return w
}

// terminalSize asks the terminal behind out for its size, falling back to
// the defaults for anything that is not a tty.
func terminalSize(out io.Writer) (int, int) {
	if f, ok := out.(*os.File); ok && f != nil {
		fd := int(f.Fd())
		if term.IsTerminal(fd) {
			if w, h, err := term.GetSize(fd); err == nil && w > 0 && h > 0 {
				return w, h
			}
		}
	}
	return DefaultWidth, DefaultHeight
}

func (w *Writer) allocate() {
	w.cells = make([][]core.Cell, w.height)
	for y := range w.cells {
		w.cells[y] = make([]core.Cell, w.width)
		for x := range w.cells[y] {
			w.cells[y][x] = core.EmptyCell()
		}
	}
}

// Init clears the output.
func (w *Writer) Init() error {
	_, err := io.WriteString(w.out, termenv.CSI+fmt.Sprintf(termenv.EraseDisplaySeq, 2))
	return err
}

// Shutdown leaves the cursor visible. Errors are ignored since the output
// may already be gone.
func (w *Writer) Shutdown() {
	_, _ = io.WriteString(w.out, termenv.CSI+termenv.ShowCursorSeq)
}

// Size returns the grid size. When it was not fixed, the terminal is asked
// again and the grid follows a resize.
func (w *Writer) Size() (int, int) {
	if !w.sized {
		if width, height := terminalSize(w.out); width != w.width || height != w.height {
			w.width, w.height = width, height
			w.allocate()
		}
	}
	return w.width, w.height
}

func (w *Writer) SetCell(x, y int, cell core.Cell) {
	if x >= 0 && x < w.width && y >= 0 && y < w.height {
		w.cells[y][x] = cell
	}
}

func (w *Writer) GetCell(x, y int) core.Cell {
	if x >= 0 && x < w.width && y >= 0 && y < w.height {
		return w.cells[y][x]
	}
	return core.EmptyCell()
}

func (w *Writer) Fill(rect core.ScreenRect, cell core.Cell) {
	for y := max(rect.Top, 0); y < rect.Bottom && y < w.height; y++ {
		for x := max(rect.Left, 0); x < rect.Right && x < w.width; x++ {
			w.cells[y][x] = cell
		}
	}
}

func (w *Writer) Clear() {
	w.Fill(core.RectFromSize(0, 0, w.height, w.width), core.EmptyCell())
}

// Show writes the whole grid followed by the cursor state.
func (w *Writer) Show() error {
	var frame bytes.Buffer
	frame.WriteString(termenv.CSI + termenv.HideCursorSeq)
	for y, row := range w.cells {
		fmt.Fprintf(&frame, termenv.CSI+termenv.CursorPositionSeq, y+1, 1)
		w.writeRow(&frame, row)
	}
	if w.cursorVisible && w.cursorStyle != CursorHidden {
		fmt.Fprintf(&frame, termenv.CSI+termenv.CursorPositionSeq, w.cursorY+1, w.cursorX+1)
		fmt.Fprintf(&frame, termenv.CSI+"%d q", decscusr(w.cursorStyle))
		frame.WriteString(termenv.CSI + termenv.ShowCursorSeq)
	}
	_, err := w.out.Write(frame.Bytes())
	return err
}

// writeRow emits a row as runs of equally styled cells.
func (w *Writer) writeRow(frame *bytes.Buffer, row []core.Cell) {
	var (
		run   strings.Builder
		style core.Style
	)
	flush := func() {
		if run.Len() > 0 {
			frame.WriteString(w.styled(run.String(), style))
			run.Reset()
		}
	}
	for _, c := range row {
		if c.IsContinuation() {
			continue
		}
		if !c.Style.Equals(style) {
			flush()
			style = c.Style
		}
		r := c.Rune
		if r == 0 || core.RuneWidth(r) == 0 {
			r = ' '
		}
		run.WriteRune(r)
	}
	flush()
}

// styled wraps s in SGR sequences for style under the writer's profile.
func (w *Writer) styled(s string, style core.Style) string {
	if style.IsDefault() || w.profile == termenv.Ascii {
		return s
	}
	out := w.profile.String(s)
	if c := w.color(style.Foreground); c != nil {
		out = out.Foreground(c)
	}
	if c := w.color(style.Background); c != nil {
		out = out.Background(c)
	}
	a := style.Attributes
	if a.Has(core.AttrBold) {
		out = out.Bold()
	}
	if a.Has(core.AttrDim) {
		out = out.Faint()
	}
	if a.Has(core.AttrItalic) {
		out = out.Italic()
	}
	if a.Has(core.AttrUnderline) {
		out = out.Underline()
	}
	if a.Has(core.AttrBlink) {
		out = out.Blink()
	}
	if a.Has(core.AttrReverse) {
		out = out.Reverse()
	}
	if a.Has(core.AttrStrikethrough) {
		out = out.CrossOut()
	}
	return out.String()
}

// color converts c to the writer's profile, or nil for the default color.
func (w *Writer) color(c core.Color) termenv.Color {
	if c.IsDefault() {
		return nil
	}
	var tc termenv.Color
	if c.Indexed {
		tc = termenv.ANSI256Color(int(c.R))
	} else {
		tc = termenv.RGBColor(c.ToHex())
	}
	tc = w.profile.Convert(tc)
	if _, none := tc.(termenv.NoColor); none {
		return nil
	}
	return tc
}

// decscusr returns the steady cursor shape code for the style.
func decscusr(s CursorStyle) int {
	switch s {
	case CursorUnderline:
		return 4
	case CursorBar:
		return 6
	default:
		return 2
	}
}

func (w *Writer) ShowCursor(x, y int) {
	w.cursorX, w.cursorY = x, y
	w.cursorVisible = true
}

func (w *Writer) HideCursor() {
	w.cursorVisible = false
}

func (w *Writer) SetCursorStyle(style CursorStyle) {
	w.cursorStyle = style
}
