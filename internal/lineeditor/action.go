package lineeditor

import (
	"errors"
	"fmt"
)

// ErrUnknownAction is returned for action names no scheme understands.
var ErrUnknownAction = errors.New("unknown action")

// Action is an editing operation shared by all schemes.
type Action uint8

const (
	ActionNone Action = iota
	ActionInsertRune
	ActionInsertText
	ActionMoveStart
	ActionMoveEnd
	ActionMoveForward
	ActionMoveBackward
	ActionDeleteBackward
	ActionDeleteForward
	ActionConfirm
	ActionAbort
	ActionSwitch
)

var actionNames = [...]string{
	ActionNone:           "none",
	ActionInsertRune:     "insert-rune",
	ActionInsertText:     "insert-text",
	ActionMoveStart:      "move-start",
	ActionMoveEnd:        "move-end",
	ActionMoveForward:    "move-forward",
	ActionMoveBackward:   "move-backward",
	ActionDeleteBackward: "delete-backward",
	ActionDeleteForward:  "delete-forward",
	ActionConfirm:        "confirm",
	ActionAbort:          "abort",
	ActionSwitch:         "switch",
}

// String returns the name used in keymaps and scripts.
func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// ActionFromName looks up an action by name. The empty name is ActionNone.
func ActionFromName(name string) (Action, error) {
	if name == "" {
		return ActionNone, nil
	}
	for a, n := range actionNames {
		if n == name {
			return Action(a), nil
		}
	}
	return ActionNone, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}
