package keymap

import (
	"fmt"

	"github.com/dshills/panes/internal/input/key"
)

// Keymap holds key bindings for one scheme.
type Keymap struct {
	// Name is the keymap identifier.
	Name string `json:"name" toml:"name" yaml:"name"`

	// Bindings are the key-to-action mappings, in precedence order:
	// later bindings override earlier ones for the same key.
	Bindings []Binding `json:"bindings" toml:"bindings" yaml:"bindings"`

	// Source indicates where this keymap was defined.
	// Examples: "default", "user", a file path.
	Source string `json:"source,omitempty" toml:"source,omitempty" yaml:"source,omitempty"`
}

// NewKeymap creates a new keymap with the given name.
func NewKeymap(name string) *Keymap {
	return &Keymap{
		Name:     name,
		Bindings: make([]Binding, 0),
	}
}

// WithSource sets the source for this keymap.
func (k *Keymap) WithSource(source string) *Keymap {
	k.Source = source
	return k
}

// Add adds a binding to this keymap.
func (k *Keymap) Add(keys, action string) *Keymap {
	k.Bindings = append(k.Bindings, NewBinding(keys, action))
	return k
}

// AddBinding adds a fully configured binding to this keymap.
func (k *Keymap) AddBinding(binding Binding) *Keymap {
	k.Bindings = append(k.Bindings, binding)
	return k
}

// Validate checks that all bindings in the keymap are valid.
func (k *Keymap) Validate() error {
	_, err := k.Parse()
	return err
}

// ParsedKeymap is a keymap with pre-parsed key specifications.
type ParsedKeymap struct {
	*Keymap
	ParsedBindings []ParsedBinding
}

// Parse parses all bindings in the keymap.
func (k *Keymap) Parse() (*ParsedKeymap, error) {
	parsed := &ParsedKeymap{
		Keymap:         k,
		ParsedBindings: make([]ParsedBinding, 0, len(k.Bindings)),
	}

	for i, b := range k.Bindings {
		if b.Action == "" {
			return nil, fmt.Errorf("keymap %s: binding %d (%s): empty action", k.Name, i, b.Keys)
		}
		ev, err := key.Parse(b.Keys)
		if err != nil {
			return nil, fmt.Errorf("keymap %s: binding %d: parsing %q: %w", k.Name, i, b.Keys, err)
		}
		parsed.ParsedBindings = append(parsed.ParsedBindings, ParsedBinding{
			Binding: b,
			Event:   ev,
		})
	}

	return parsed, nil
}

// MustParse is like Parse but panics on error. Use only for built-in
// keymaps.
func (k *Keymap) MustParse() *ParsedKeymap {
	p, err := k.Parse()
	if err != nil {
		panic(err)
	}
	return p
}

// Lookup returns the binding triggered by ev. The last matching binding
// wins.
func (p *ParsedKeymap) Lookup(ev key.Event) (*Binding, bool) {
	for i := len(p.ParsedBindings) - 1; i >= 0; i-- {
		if p.ParsedBindings[i].Match(ev) {
			return &p.ParsedBindings[i].Binding, true
		}
	}
	return nil, false
}

// Clone creates a deep copy of the keymap.
func (k *Keymap) Clone() *Keymap {
	clone := &Keymap{
		Name:     k.Name,
		Source:   k.Source,
		Bindings: make([]Binding, len(k.Bindings)),
	}
	copy(clone.Bindings, k.Bindings)
	return clone
}

// Extend returns a copy of k with the bindings of other appended, so they
// take precedence.
func (k *Keymap) Extend(other *Keymap) *Keymap {
	res := k.Clone()
	if other != nil {
		res.Bindings = append(res.Bindings, other.Bindings...)
	}
	return res
}
