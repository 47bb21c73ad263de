package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/panes/internal/buffer"
	"github.com/dshills/panes/internal/input"
	"github.com/dshills/panes/internal/lineeditor"
	"github.com/dshills/panes/internal/renderer"
	"github.com/dshills/panes/internal/split"
	"github.com/dshills/panes/internal/styledtext"
)

// Names of the session's buffers in layout literals.
const (
	OutputName = "output"
	PromptName = "prompt"
)

// TooSmallMessage replaces the UI when the terminal cannot hold it.
const TooSmallMessage = "The terminal window is too small to render the ui, please enlarge"

// Session is one interactive screen: an output buffer, a prompt buffer,
// the tree laying them out and the renderer drawing it.
type Session struct {
	mu sync.Mutex

	tree     *split.Tree
	output   *buffer.Buffer
	prompt   *buffer.Buffer
	renderer *renderer.Renderer
	source   input.Source
	logger   *Logger

	minRows, minCols int
	tooSmall         *split.Tree

	redraw chan struct{}

	// The event pump outlives a single EditPrompt so no polled event is
	// lost between prompts.
	ctx      context.Context
	cancel   context.CancelFunc
	pumpOnce sync.Once
	events   chan input.Event
	pollErr  error
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithMinSize sets the smallest terminal the UI is drawn on. Below it a
// notice is shown instead.
func WithMinSize(rows, cols int) Option {
	return func(s *Session) {
		s.minRows, s.minCols = rows, cols
	}
}

// NewSession creates a session drawing with r and reading events from src.
// The prompt has focus and the default layout is used.
func NewSession(r *renderer.Renderer, src input.Source, opts ...Option) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		output:   buffer.New(buffer.WithName(OutputName), buffer.WithFollowTail(true)),
		prompt:   buffer.New(buffer.WithName(PromptName)),
		renderer: r,
		source:   src,
		logger:   GetLogger(),
		minRows:  2,
		minCols:  1,
		redraw:   make(chan struct{}, 1),
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan input.Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("session")
	s.tree = DefaultTree(s.output, s.prompt)
	s.prompt.SetCursorVisible(false)
	r.SetFocus(s.prompt)

	notice := buffer.New(buffer.WithName("notice"))
	notice.AddLine(styledtext.Plain(TooSmallMessage))
	s.tooSmall = split.NewTree(split.Leaf(notice))
	return s
}

// DefaultTree stacks output over a one-row prompt.
func DefaultTree(output, prompt *buffer.Buffer) *split.Tree {
	return split.NewTree(split.Vertical(
		split.Flex(1, split.Leaf(output)),
		split.Fixed(1, split.Leaf(prompt)),
	))
}

// Output returns the output buffer.
func (s *Session) Output() *buffer.Buffer { return s.output }

// Prompt returns the prompt buffer.
func (s *Session) Prompt() *buffer.Buffer { return s.prompt }

// Renderer returns the session renderer.
func (s *Session) Renderer() *renderer.Renderer { return s.renderer }

// Logger returns the session logger.
func (s *Session) Logger() *Logger { return s.logger }

// Buffers returns the session buffers by layout name.
func (s *Session) Buffers() map[string]*buffer.Buffer {
	return map[string]*buffer.Buffer{
		OutputName: s.output,
		PromptName: s.prompt,
	}
}

// Tree returns the current layout.
func (s *Session) Tree() *split.Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree
}

// SetTree replaces the layout from the next frame on.
func (s *Session) SetTree(t *split.Tree) {
	s.mu.Lock()
	s.tree = t
	s.mu.Unlock()
	s.RequestRedraw()
}

// SetLayout parses a layout literal over the session buffers and uses it.
func (s *Session) SetLayout(literal string) error {
	t, err := split.Parse(literal, s.Buffers())
	if err != nil {
		return NewComponentError("layout", "parse", err)
	}
	s.SetTree(t)
	s.logger.Debug("layout set to %s", t)
	return nil
}

// Redraw returns the channel workers post redraw requests on.
func (s *Session) Redraw() chan<- struct{} {
	return s.redraw
}

// RequestRedraw asks a running EditPrompt to render again. Requests
// coalesce.
func (s *Session) RequestRedraw() {
	select {
	case s.redraw <- struct{}{}:
	default:
	}
}

// Render draws one frame. A terminal smaller than the minimum size shows
// a notice instead of the layout.
func (s *Session) Render() error {
	tree := s.Tree()
	cols, rows := s.renderer.Backend().Size()
	if rows < s.minRows || cols < s.minCols {
		s.logger.Debug("terminal %dx%d below minimum %dx%d", cols, rows, s.minCols, s.minRows)
		tree = s.tooSmall
	}

	if err := s.renderer.Render(tree); err != nil {
		s.logger.Error("render failed: %v", err)
		return NewComponentError("renderer", "render", err)
	}
	if sm := s.renderer.SplitMap(); sm != nil && sm.Len() == 0 && rows > 0 && cols > 0 {
		s.logger.Debug("layout placed no buffers in %dx%d", cols, rows)
	}
	return nil
}

// pump forwards source events to s.events until the source fails or the
// session is closed.
func (s *Session) pump() {
	defer close(s.events)
	for {
		ev, err := s.source.PollEvent(s.ctx)
		if err != nil {
			s.mu.Lock()
			s.pollErr = err
			s.mu.Unlock()
			return
		}
		select {
		case s.events <- ev:
		case <-s.ctx.Done():
			return
		}
	}
}

// EditPrompt lets h edit the prompt until it confirms or aborts the line.
// The prompt cursor is visible while editing. Every event and every redraw
// request renders a frame. Switch results from h are logged and ignored,
// since scheme selection belongs to a lineeditor.Switcher.
func (s *Session) EditPrompt(ctx context.Context, h lineeditor.Handler) (lineeditor.Result, error) {
	s.pumpOnce.Do(func() { go s.pump() })

	s.prompt.SetCursorVisible(true)
	defer s.prompt.SetCursorVisible(false)

	log := s.logger.WithField("scheme", h.Name())
	for {
		if err := s.Render(); err != nil {
			return lineeditor.Result{}, err
		}

		var ev input.Event
		select {
		case <-ctx.Done():
			return lineeditor.Result{}, ctx.Err()
		case <-s.redraw:
			continue
		case e, ok := <-s.events:
			if !ok {
				return lineeditor.Result{}, s.sourceErr()
			}
			ev = e
		}

		if ev.Type == input.EventMouse {
			s.click(ev)
			continue
		}

		res := h.Handle(ev, s.prompt)
		if res.Err != nil {
			if errors.Is(res.Err, ErrQuit) {
				return res, ErrQuit
			}
			log.Warn("handling %s: %v", ev, res.Err)
		}
		switch res.Kind {
		case lineeditor.LineDone, lineeditor.Abort:
			log.Debug("prompt finished: %s", res.Kind)
			return res, nil
		case lineeditor.Switch:
			log.Debug("ignoring switch to %q outside a switcher", res.Scheme)
		}
	}
}

func (s *Session) sourceErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pollErr == nil {
		return ErrClosed
	}
	return NewComponentError("input", "poll", s.pollErr)
}

// click logs which pane a mouse event landed in.
func (s *Session) click(ev input.Event) {
	sm := s.renderer.SplitMap()
	if sm == nil {
		return
	}
	if buf, pos, ok := sm.At(ev.Pos); ok {
		s.logger.Debug("click on %s at %d,%d", buf.Name(), pos.Row, pos.Col)
	}
}

// Close stops the event pump. The session cannot edit afterwards.
func (s *Session) Close() {
	s.cancel()
}

// String describes the session for logs.
func (s *Session) String() string {
	return fmt.Sprintf("session(%s)", s.Tree())
}
