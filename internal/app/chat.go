package app

import (
	"context"
	"errors"
	"time"

	"github.com/dshills/panes/internal/buffer"
	"github.com/dshills/panes/internal/input"
	"github.com/dshills/panes/internal/lineeditor"
	"github.com/dshills/panes/internal/renderer/core"
	"github.com/dshills/panes/internal/styledtext"
	"github.com/dshills/panes/internal/worker"
)

// ChatOptions configures Chat.
type ChatOptions struct {
	// Producer writes into the output while the user types. Nil disables
	// background output.
	Producer worker.Producer

	// Interval is the time between produced lines.
	Interval time.Duration

	// EchoPrefix is put before each confirmed line.
	EchoPrefix string

	// EchoStyle styles the prefix.
	EchoStyle core.Style

	// QuitKey quits when pressed on an empty prompt. Zero disables it.
	QuitKey rune
}

// DefaultChatOptions returns options echoing with "> " and quitting on q.
func DefaultChatOptions() ChatOptions {
	return ChatOptions{
		Interval:   time.Second,
		EchoPrefix: "> ",
		EchoStyle:  core.NewStyle(core.ColorCyan).Bold(),
		QuitKey:    'q',
	}
}

// Chat edits prompt lines until the user quits or aborts, echoing every
// confirmed line into the output. The producer runs for the whole call.
// Quitting returns nil; aborting returns ErrAborted.
func (s *Session) Chat(ctx context.Context, h lineeditor.Handler, opts ChatOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := worker.NewGroup(ctx)
	if opts.Producer != nil {
		g.Go(s.output, opts.Producer, opts.Interval, s.Redraw())
		s.logger.Debug("producer started")
	}

	err := s.chat(gctx, quitOnEmpty(h, opts.QuitKey), opts)

	cancel()
	if werr := g.Wait(); werr != nil {
		s.logger.Error("producer stopped: %v", werr)
		if err == nil || errors.Is(err, context.Canceled) {
			err = NewComponentError("worker", "produce", werr)
		}
	} else if opts.Producer != nil {
		s.logger.Debug("producer stopped")
	}
	return err
}

func (s *Session) chat(ctx context.Context, h lineeditor.Handler, opts ChatOptions) error {
	for {
		res, err := s.EditPrompt(ctx, h)
		switch {
		case errors.Is(err, ErrQuit):
			return nil
		case err != nil:
			return err
		}

		switch res.Kind {
		case lineeditor.Abort:
			return ErrAborted
		case lineeditor.LineDone:
			s.echo(res.Line, opts)
		}
	}
}

func (s *Session) echo(line styledtext.Text, opts ChatOptions) {
	echo := styledtext.Styled(opts.EchoPrefix, opts.EchoStyle)
	echo.Append(line)
	s.output.AddLine(echo)
}

// quitOnEmpty wraps h so that key on an empty prompt reports ErrQuit.
func quitOnEmpty(h lineeditor.Handler, key rune) lineeditor.Handler {
	if key == 0 {
		return h
	}
	return lineeditor.HandlerFunc{
		ID: h.Name(),
		Fn: func(ev input.Event, buf *buffer.Buffer) lineeditor.Result {
			if ev.Type == input.EventKey && ev.Key.IsChar() && ev.Key.Rune == key && buf.CurrentLine().IsEmpty() {
				return lineeditor.Result{Kind: lineeditor.Abort, Err: ErrQuit}
			}
			return h.Handle(ev, buf)
		},
	}
}
