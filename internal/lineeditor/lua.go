package lineeditor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/panes/internal/buffer"
	"github.com/dshills/panes/internal/input"
	"github.com/dshills/panes/internal/renderer/core"
)

// Lua scheme errors.
var (
	ErrNoHandleFunc = errors.New("lua script does not define function handle")
	ErrSchemeClosed = errors.New("lua scheme is closed")
)

// DefaultScriptTimeout bounds a single call into the script.
const DefaultScriptTimeout = 100 * time.Millisecond

// LuaScheme lets a Lua script pick the action for every key. The script
// defines
//
//	function handle(key, char, mods)
//	  return "insert-rune"
//	end
//
// where key is the key in "<C-a>" notation, char the typed character (empty
// for special keys) and mods the modifiers in short form such as "C-A". It
// returns an action name and an optional argument: the text for
// "insert-text", the character for "insert-rune" or the scheme for
// "switch". Returning nothing ignores the key.
//
// gopher-lua states are not goroutine-safe; calls are serialized.
type LuaScheme struct {
	name    string
	timeout time.Duration
	style   core.Style

	mu     sync.Mutex
	L      *lua.LState
	closed bool
}

// LuaOption configures a LuaScheme.
type LuaOption func(*LuaScheme)

// WithScriptTimeout bounds each call into the script.
func WithScriptTimeout(d time.Duration) LuaOption {
	return func(s *LuaScheme) {
		s.timeout = d
	}
}

// WithLuaInsertStyle sets the style of inserted text.
func WithLuaInsertStyle(style core.Style) LuaOption {
	return func(s *LuaScheme) {
		s.style = style
	}
}

// NewLuaScheme runs script in a fresh sandboxed state and checks that it
// defines handle.
func NewLuaScheme(name, script string, opts ...LuaOption) (*LuaScheme, error) {
	s := &LuaScheme{
		name:    name,
		timeout: DefaultScriptTimeout,
		L:       lua.NewState(lua.Options{SkipOpenLibs: true}),
	}
	for _, opt := range opts {
		opt(s)
	}
	openSafeLibraries(s.L)

	if err := s.protect(func() error { return s.L.DoString(script) }); err != nil {
		s.L.Close()
		return nil, fmt.Errorf("lua scheme %s: %w", name, err)
	}
	if fn := s.L.GetGlobal("handle"); fn.Type() != lua.LTFunction {
		s.L.Close()
		return nil, fmt.Errorf("lua scheme %s: %w", name, ErrNoHandleFunc)
	}
	return s, nil
}

// LoadLuaScheme loads a script file. An empty name uses the file name.
func LoadLuaScheme(name, path string, opts ...LuaOption) (*LuaScheme, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lua scheme: %w", err)
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return NewLuaScheme(name, string(src), opts...)
}

// openSafeLibraries opens the libraries a key handler needs. io, os, debug
// and package stay closed and the file loaders are removed.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// protect runs fn, turning a Go panic inside the VM into an error.
func (s *LuaScheme) protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

func (s *LuaScheme) Name() string { return s.name }

func (s *LuaScheme) Handle(ev input.Event, buf *buffer.Buffer) Result {
	if res, ok := handleCommon(ev, buf, s.style); ok {
		return res
	}

	name, arg, err := s.call(ev)
	if err != nil {
		return Result{Kind: Continue, Err: err}
	}
	a, err := ActionFromName(name)
	if err != nil {
		return Result{Kind: Continue, Err: fmt.Errorf("lua scheme %s: %w", s.name, err)}
	}

	cmd := Command{Action: a, Text: arg}
	if a == ActionInsertRune {
		cmd.Rune = firstRune(arg)
		if cmd.Rune == 0 {
			cmd.Rune = ev.Key.Rune
		}
	}
	return Apply(cmd, buf, s.style)
}

// call invokes handle for ev and returns its action name and argument.
func (s *LuaScheme) call(ev input.Event) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", "", ErrSchemeClosed
	}

	char := ""
	if ev.Key.IsRune() {
		char = string(ev.Key.Rune)
	}

	if s.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.L.SetContext(ctx)
		defer s.L.RemoveContext()
	}

	top := s.L.GetTop()
	err := s.protect(func() error {
		return s.L.CallByParam(lua.P{
			Fn:      s.L.GetGlobal("handle"),
			NRet:    2,
			Protect: true,
		}, lua.LString(ev.Key.String()), lua.LString(char), lua.LString(ev.Key.Modifiers.ShortString()))
	})
	if err != nil {
		s.L.SetTop(top)
		return "", "", fmt.Errorf("lua scheme %s: %w", s.name, err)
	}
	name := lua.LVAsString(s.L.Get(-2))
	arg := lua.LVAsString(s.L.Get(-1))
	s.L.Pop(2)
	return name, arg, nil
}

// Close releases the Lua state. Handle then reports ErrSchemeClosed.
func (s *LuaScheme) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.L.Close()
		s.closed = true
	}
	return nil
}
