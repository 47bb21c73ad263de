package lineeditor

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/panes/internal/buffer"
	"github.com/dshills/panes/internal/input"
	"github.com/dshills/panes/internal/input/key"
)

// DefaultSwitchKey cycles through the registered schemes.
const DefaultSwitchKey = "<F2>"

// ChangeCallback is called when the active scheme changes.
type ChangeCallback func(from, to Handler)

// Switcher routes events to the active one of several named schemes. A
// Switch result from a scheme or the switch key selects another one. The
// choice of scheme is the only state a Switcher keeps between events.
type Switcher struct {
	mu sync.RWMutex

	// schemes holds all registered schemes by name.
	schemes map[string]Handler

	// order is the registration order used by the switch key.
	order []string

	current Handler

	switchKey    key.Event
	hasSwitchKey bool

	callbacks []ChangeCallback
}

// NewSwitcher creates a switcher over schemes. The first one is active.
// The switch key cycles through the schemes in order.
func NewSwitcher(schemes ...Handler) *Switcher {
	s := &Switcher{
		schemes:      make(map[string]Handler),
		switchKey:    key.MustParse(DefaultSwitchKey),
		hasSwitchKey: true,
	}
	for _, h := range schemes {
		s.Register(h)
	}
	return s
}

// Register adds a scheme. A scheme with the same name is replaced. The
// first registered scheme becomes active.
func (s *Switcher) Register(h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := h.Name()
	if _, ok := s.schemes[name]; !ok {
		s.order = append(s.order, name)
	}
	s.schemes[name] = h
	if s.current == nil || s.current.Name() == name {
		s.current = h
	}
}

// SetSwitchKey sets the key that cycles schemes. An empty spec disables it.
func (s *Switcher) SetSwitchKey(spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if spec == "" {
		s.hasSwitchKey = false
		return nil
	}
	ev, err := key.Parse(spec)
	if err != nil {
		return fmt.Errorf("switch key: %w", err)
	}
	s.switchKey = ev
	s.hasSwitchKey = true
	return nil
}

// Current returns the active scheme, or nil when none is registered.
func (s *Switcher) Current() Handler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// CurrentName returns the name of the active scheme.
func (s *Switcher) CurrentName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Name()
}

// Schemes returns the registered scheme names, sorted.
func (s *Switcher) Schemes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.schemes))
	for name := range s.schemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Switch activates the named scheme.
func (s *Switcher) Switch(name string) error {
	s.mu.Lock()
	next, ok := s.schemes[name]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("unknown scheme: %s", name)
	}
	prev := s.current
	s.current = next
	callbacks := append([]ChangeCallback(nil), s.callbacks...)
	s.mu.Unlock()

	// Notify callbacks outside of lock
	if prev != next {
		for _, cb := range callbacks {
			if cb != nil {
				cb(prev, next)
			}
		}
	}
	return nil
}

// OnChange registers a callback for scheme changes.
// Returns a function to unregister the callback.
func (s *Switcher) OnChange(callback ChangeCallback) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.callbacks = append(s.callbacks, callback)
	index := len(s.callbacks) - 1

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		// Remove callback by setting to nil (preserves indices)
		if index < len(s.callbacks) {
			s.callbacks[index] = nil
		}
	}
}

// next returns the scheme after the active one in registration order.
func (s *Switcher) next() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.order) == 0 {
		return ""
	}
	for i, name := range s.order {
		if s.current != nil && name == s.current.Name() {
			return s.order[(i+1)%len(s.order)]
		}
	}
	return s.order[0]
}

func (s *Switcher) Name() string { return "switcher" }

// Handle passes ev to the active scheme and performs any switch it asks
// for. Switch results are absorbed: the caller sees Continue, or Continue
// with Err when the requested scheme does not exist.
func (s *Switcher) Handle(ev input.Event, buf *buffer.Buffer) Result {
	s.mu.RLock()
	current := s.current
	isSwitchKey := s.hasSwitchKey && ev.Type == input.EventKey && ev.Key.Equals(s.switchKey)
	s.mu.RUnlock()

	if isSwitchKey {
		if name := s.next(); name != "" {
			if err := s.Switch(name); err != nil {
				return Result{Kind: Continue, Err: err}
			}
		}
		return Result{Kind: Continue}
	}
	if current == nil {
		return Result{Kind: Continue}
	}

	res := current.Handle(ev, buf)
	if res.Kind != Switch {
		return res
	}
	if err := s.Switch(res.Scheme); err != nil {
		return Result{Kind: Continue, Err: err}
	}
	return Result{Kind: Continue}
}
