package backend

import (
	"context"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/panes/internal/input"
	"github.com/dshills/panes/internal/input/key"
	"github.com/dshills/panes/internal/renderer/core"
)

// eventQueueSize bounds the events buffered between the tcell poller and
// the consumer. Events beyond it are dropped.
const eventQueueSize = 1024

// Terminal implements Backend and input.Source on a tcell screen.
type Terminal struct {
	screen  tcell.Screen
	events  *input.Queue
	mu      sync.Mutex
	started bool
	done    chan struct{}
}

// NewTerminal creates a terminal backend for the controlling terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalWithScreen(screen), nil
}

// NewTerminalWithScreen wraps an existing screen, such as a
// tcell.SimulationScreen.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{
		screen: screen,
		events: input.NewQueue(eventQueueSize),
		done:   make(chan struct{}),
	}
}

// Init initializes the screen with mouse and bracketed paste enabled and
// starts delivering input events.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnableMouse()
	t.screen.EnablePaste()
	t.started = true
	go t.pollLoop()
	return nil
}

// Shutdown restores the terminal and stops event delivery.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	if !t.started {
		t.mu.Unlock()
		return
	}
	t.started = false
	t.screen.Fini()
	t.mu.Unlock()
	<-t.done
}

// pollLoop converts tcell events until the screen is finalized.
func (t *Terminal) pollLoop() {
	defer close(t.done)
	defer t.events.Close()

	var (
		pasting bool
		paste   strings.Builder
	)
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}

		if p, ok := ev.(*tcell.EventPaste); ok {
			if p.Start() {
				pasting = true
				paste.Reset()
				continue
			}
			pasting = false
			t.events.Post(input.Paste(paste.String()))
			continue
		}
		if k, ok := ev.(*tcell.EventKey); ok && pasting {
			switch k.Key() {
			case tcell.KeyRune:
				paste.WriteRune(k.Rune())
			case tcell.KeyEnter:
				paste.WriteByte('\n')
			case tcell.KeyTab:
				paste.WriteByte('\t')
			}
			continue
		}

		if out, ok := convertEvent(ev); ok {
			t.events.Post(out)
		}
	}
}

// PollEvent implements input.Source.
func (t *Terminal) PollEvent(ctx context.Context) (input.Event, error) {
	return t.events.PollEvent(ctx)
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

func (t *Terminal) SetCell(x, y int, cell core.Cell) {
	if cell.IsContinuation() {
		// tcell lays out the trailing half of wide runes itself.
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.SetContent(x, y, cell.Rune, nil, convertStyle(cell.Style))
}

func (t *Terminal) GetCell(x, y int) core.Cell {
	t.mu.Lock()
	defer t.mu.Unlock()

	mainc, _, style, _ := t.screen.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
	return core.Cell{
		Rune:  mainc,
		Width: core.RuneWidth(mainc),
		Style: convertTcellStyle(style),
	}
}

func (t *Terminal) Fill(rect core.ScreenRect, cell core.Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()

	style := convertStyle(cell.Style)
	width, height := t.screen.Size()
	for y := max(rect.Top, 0); y < rect.Bottom && y < height; y++ {
		for x := max(rect.Left, 0); x < rect.Right && x < width; x++ {
			t.screen.SetContent(x, y, cell.Rune, nil, style)
		}
	}
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

// Show flushes the screen. tcell reports no write errors, so it always
// returns nil.
func (t *Terminal) Show() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
	return nil
}

func (t *Terminal) ShowCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.ShowCursor(x, y)
}

func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.HideCursor()
}

func (t *Terminal) SetCursorStyle(style CursorStyle) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var tcellStyle tcell.CursorStyle
	switch style {
	case CursorBlock:
		tcellStyle = tcell.CursorStyleSteadyBlock
	case CursorUnderline:
		tcellStyle = tcell.CursorStyleSteadyUnderline
	case CursorBar:
		tcellStyle = tcell.CursorStyleSteadyBar
	case CursorHidden:
		t.screen.HideCursor()
		return
	}
	t.screen.SetCursorStyle(tcellStyle)
}

// HasTrueColor returns true if the terminal supports 24-bit color.
func (t *Terminal) HasTrueColor() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Colors() > 256
}

// convertStyle converts our Style to tcell.Style.
func convertStyle(s core.Style) tcell.Style {
	style := tcell.StyleDefault.
		Foreground(convertColor(s.Foreground)).
		Background(convertColor(s.Background))

	a := s.Attributes
	return style.
		Bold(a.Has(core.AttrBold)).
		Dim(a.Has(core.AttrDim)).
		Italic(a.Has(core.AttrItalic)).
		Underline(a.Has(core.AttrUnderline)).
		Blink(a.Has(core.AttrBlink)).
		Reverse(a.Has(core.AttrReverse)).
		StrikeThrough(a.Has(core.AttrStrikethrough))
}

func convertColor(c core.Color) tcell.Color {
	switch {
	case c.IsDefault():
		return tcell.ColorDefault
	case c.Indexed:
		return tcell.PaletteColor(int(c.R))
	default:
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	}
}

// convertTcellStyle converts tcell.Style back to our Style.
func convertTcellStyle(ts tcell.Style) core.Style {
	fg, bg, attrs := ts.Decompose()

	s := core.Style{
		Foreground: convertTcellColor(fg),
		Background: convertTcellColor(bg),
	}
	for _, m := range attrMap {
		if attrs&m.tcell != 0 {
			s.Attributes |= m.core
		}
	}
	return s
}

var attrMap = []struct {
	tcell tcell.AttrMask
	core  core.Attribute
}{
	{tcell.AttrBold, core.AttrBold},
	{tcell.AttrDim, core.AttrDim},
	{tcell.AttrItalic, core.AttrItalic},
	{tcell.AttrUnderline, core.AttrUnderline},
	{tcell.AttrBlink, core.AttrBlink},
	{tcell.AttrReverse, core.AttrReverse},
	{tcell.AttrStrikeThrough, core.AttrStrikethrough},
}

// convertTcellColor converts tcell.Color to our Color.
func convertTcellColor(tc tcell.Color) core.Color {
	if tc == tcell.ColorDefault {
		return core.ColorDefault
	}
	if tc&tcell.ColorIsRGB == 0 && tc >= tcell.ColorValid {
		return core.ColorFromIndex(uint8(tc - tcell.ColorValid))
	}
	r, g, b := tc.RGB()
	return core.ColorFromRGB(uint8(r), uint8(g), uint8(b))
}

// convertEvent converts a tcell event; ok is false for events we ignore.
func convertEvent(ev tcell.Event) (input.Event, bool) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		k := convertKey(e)
		if k.Key == key.KeyNone {
			return input.Event{}, false
		}
		return input.KeyPress(k), true

	case *tcell.EventMouse:
		// Releases and motion carry no button.
		button := convertMouseButton(e.Buttons())
		if button == input.MouseNone {
			return input.Event{}, false
		}
		x, y := e.Position()
		return input.Click(core.ScreenPos{Row: y, Col: x}, button), true

	case *tcell.EventResize:
		w, h := e.Size()
		return input.Resize(w, h), true
	}
	return input.Event{}, false
}

// specialKeys maps tcell keys with a dedicated identity. Ctrl+H, Ctrl+I and
// Ctrl+M share codes with Backspace, Tab and Enter and decode as those.
var specialKeys = map[tcell.Key]key.Key{
	tcell.KeyEscape:     key.KeyEscape,
	tcell.KeyEnter:      key.KeyEnter,
	tcell.KeyTab:        key.KeyTab,
	tcell.KeyBacktab:    key.KeyTab,
	tcell.KeyBackspace:  key.KeyBackspace,
	tcell.KeyBackspace2: key.KeyBackspace,
	tcell.KeyDelete:     key.KeyDelete,
	tcell.KeyInsert:     key.KeyInsert,
	tcell.KeyHome:       key.KeyHome,
	tcell.KeyEnd:        key.KeyEnd,
	tcell.KeyPgUp:       key.KeyPageUp,
	tcell.KeyPgDn:       key.KeyPageDown,
	tcell.KeyUp:         key.KeyUp,
	tcell.KeyDown:       key.KeyDown,
	tcell.KeyLeft:       key.KeyLeft,
	tcell.KeyRight:      key.KeyRight,
	tcell.KeyF1:         key.KeyF1,
	tcell.KeyF2:         key.KeyF2,
	tcell.KeyF3:         key.KeyF3,
	tcell.KeyF4:         key.KeyF4,
	tcell.KeyF5:         key.KeyF5,
	tcell.KeyF6:         key.KeyF6,
	tcell.KeyF7:         key.KeyF7,
	tcell.KeyF8:         key.KeyF8,
	tcell.KeyF9:         key.KeyF9,
	tcell.KeyF10:        key.KeyF10,
	tcell.KeyF11:        key.KeyF11,
	tcell.KeyF12:        key.KeyF12,
}

// convertKey converts a tcell key event. Control characters become Ctrl
// plus the lowercase letter so schemes can match "<C-a>".
func convertKey(e *tcell.EventKey) key.Event {
	mods := convertMod(e.Modifiers())
	k := e.Key()
	if kk, ok := specialKeys[k]; ok {
		if k == tcell.KeyBacktab {
			mods = mods.With(key.ModShift)
		}
		return key.NewSpecialEvent(kk, mods)
	}
	switch {
	case k == tcell.KeyRune:
		return key.NewRuneEvent(e.Rune(), mods)
	case k == tcell.KeyCtrlSpace:
		return key.NewRuneEvent(' ', mods.With(key.ModCtrl))
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return key.NewRuneEvent('a'+rune(k-tcell.KeyCtrlA), mods.With(key.ModCtrl))
	}
	return key.Event{}
}

// convertMod converts tcell modifier mask to ours.
func convertMod(m tcell.ModMask) key.Modifier {
	var result key.Modifier
	if m&tcell.ModShift != 0 {
		result = result.With(key.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		result = result.With(key.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		result = result.With(key.ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		result = result.With(key.ModMeta)
	}
	return result
}

// convertMouseButton converts tcell button mask to our MouseButton.
func convertMouseButton(b tcell.ButtonMask) input.MouseButton {
	switch {
	case b&tcell.Button1 != 0:
		return input.MouseLeft
	case b&tcell.Button2 != 0:
		return input.MouseMiddle
	case b&tcell.Button3 != 0:
		return input.MouseRight
	case b&tcell.WheelUp != 0:
		return input.MouseWheelUp
	case b&tcell.WheelDown != 0:
		return input.MouseWheelDown
	default:
		return input.MouseNone
	}
}
