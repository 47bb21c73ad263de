package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dshills/panes/internal/buffer"
	"github.com/dshills/panes/internal/styledtext"
)

// ErrStop may be returned by a producer to end its worker without error.
var ErrStop = errors.New("worker: stop")

// DefaultInterval is used when Run is given a non-positive interval.
const DefaultInterval = time.Second

// Producer generates lines for a worker.
type Producer interface {
	Produce(ctx context.Context) (styledtext.Text, error)
}

// ProducerFunc adapts a function to a Producer.
type ProducerFunc func(ctx context.Context) (styledtext.Text, error)

// Produce calls f.
func (f ProducerFunc) Produce(ctx context.Context) (styledtext.Text, error) {
	return f(ctx)
}

// Run polls p every interval and appends each line to buf until ctx is
// done or p fails. A redraw request is sent on notify after every append;
// it is dropped when notify is full. notify may be nil.
//
// Cancellation is a normal stop and returns nil, as does ErrStop from p.
func Run(ctx context.Context, buf *buffer.Buffer, p Producer, interval time.Duration, notify chan<- struct{}) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		line, err := p.Produce(ctx)
		if errors.Is(err, ErrStop) {
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("produce: %w", err)
		}

		buf.AddLine(line)
		Notify(notify)
	}
}

// Notify posts a redraw request on ch without blocking.
func Notify(ch chan<- struct{}) {
	if ch == nil {
		return
	}
	select {
	case ch <- struct{}{}:
	default:
	}
}
