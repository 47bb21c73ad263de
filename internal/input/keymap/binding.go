package keymap

import (
	"github.com/dshills/panes/internal/input/key"
)

// Binding represents a single key-to-action mapping.
type Binding struct {
	// Keys is the key specification that triggers this binding.
	// Formats: "j", "C-s", "<C-S-a>", "Ctrl+Shift+A"
	Keys string `json:"keys" toml:"keys" yaml:"keys"`

	// Action is the name of the action to run.
	// Examples: "move-start", "confirm", "insert-text"
	Action string `json:"action" toml:"action" yaml:"action"`

	// Arg is an optional argument for the action, such as the text of
	// an insert-text binding.
	Arg string `json:"arg,omitempty" toml:"arg,omitempty" yaml:"arg,omitempty"`

	// Description provides documentation for the binding.
	Description string `json:"description,omitempty" toml:"description,omitempty" yaml:"description,omitempty"`
}

// NewBinding creates a new binding with the given keys and action.
func NewBinding(keys, action string) Binding {
	return Binding{
		Keys:   keys,
		Action: action,
	}
}

// WithArg sets the argument for this binding.
func (b Binding) WithArg(arg string) Binding {
	b.Arg = arg
	return b
}

// WithDescription sets the description for this binding.
func (b Binding) WithDescription(desc string) Binding {
	b.Description = desc
	return b
}

// ParsedBinding is a binding with its key specification parsed.
type ParsedBinding struct {
	Binding
	Event key.Event
}

// Match reports whether ev triggers this binding.
func (pb *ParsedBinding) Match(ev key.Event) bool {
	if pb == nil {
		return false
	}
	return pb.Event.Equals(ev)
}
