package lineeditor

import (
	"strings"

	"github.com/dshills/panes/internal/buffer"
	"github.com/dshills/panes/internal/input"
	"github.com/dshills/panes/internal/renderer/core"
)

// Handler edits a buffer line in response to input events.
type Handler interface {
	// Name identifies the scheme, e.g. "emacs".
	Name() string

	// Handle applies ev to buf. It touches nothing but buf.
	Handle(ev input.Event, buf *buffer.Buffer) Result
}

// HandlerFunc adapts a function to a Handler.
type HandlerFunc struct {
	ID string
	Fn func(ev input.Event, buf *buffer.Buffer) Result
}

func (h HandlerFunc) Name() string { return h.ID }

func (h HandlerFunc) Handle(ev input.Event, buf *buffer.Buffer) Result {
	return h.Fn(ev, buf)
}

// Command is an action with its operand.
type Command struct {
	Action Action

	// Rune is inserted by ActionInsertRune.
	Rune rune

	// Text is inserted by ActionInsertText. For ActionSwitch it names the
	// target scheme.
	Text string
}

// Apply runs cmd against buf. Inserted text gets style. Moves and deletes at
// a line boundary do nothing.
func Apply(cmd Command, buf *buffer.Buffer, style core.Style) Result {
	switch cmd.Action {
	case ActionInsertRune:
		if cmd.Rune != 0 {
			buf.InsertRune(cmd.Rune, style)
		}
	case ActionInsertText:
		buf.InsertText(cmd.Text, style)
	case ActionMoveStart:
		buf.MoveToLineStart()
	case ActionMoveEnd:
		buf.MoveToLineEnd()
	case ActionMoveForward:
		buf.MoveCursorBy(1)
	case ActionMoveBackward:
		buf.MoveCursorBy(-1)
	case ActionDeleteBackward:
		buf.DeleteBackward()
	case ActionDeleteForward:
		buf.DeleteForward()
	case ActionConfirm:
		return Result{Kind: LineDone, Line: buf.TakeLine()}
	case ActionAbort:
		return Result{Kind: Abort}
	case ActionSwitch:
		return Result{Kind: Switch, Scheme: cmd.Text}
	}
	return Result{Kind: Continue}
}

// lineBreaks flattens pasted text onto the edited line.
var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// handleCommon handles the events every scheme treats the same way. ok is
// false when the scheme should interpret ev itself.
func handleCommon(ev input.Event, buf *buffer.Buffer, style core.Style) (Result, bool) {
	if ev.Type == input.EventPaste {
		text := lineBreaks.Replace(ev.Text)
		return Apply(Command{Action: ActionInsertText, Text: text}, buf, style), true
	}
	if ev.Type != input.EventKey {
		return Result{Kind: Continue}, true
	}
	return Result{}, false
}
