package lineeditor

import (
	"fmt"

	"github.com/dshills/panes/internal/styledtext"
)

// Kind tells the caller what to do after an event was handled.
type Kind uint8

const (
	// Continue means the line is still being edited.
	Continue Kind = iota
	// LineDone means the line was confirmed; Result.Line holds it.
	LineDone
	// Abort means editing was cancelled.
	Abort
	// Switch asks for the scheme named in Result.Scheme.
	Switch
)

func (k Kind) String() string {
	switch k {
	case Continue:
		return "continue"
	case LineDone:
		return "line-done"
	case Abort:
		return "abort"
	case Switch:
		return "switch"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Result is the outcome of handling one event.
type Result struct {
	Kind Kind

	// Line is the confirmed line for LineDone.
	Line styledtext.Text

	// Scheme is the scheme to switch to for Switch.
	Scheme string

	// Err reports a failure inside the scheme, such as a script error. The
	// event had no effect and editing continues.
	Err error
}

// Done reports whether the edit session is over.
func (r Result) Done() bool {
	return r.Kind == LineDone || r.Kind == Abort
}
