package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/panes/internal/buffer"
)

// Group runs several workers that share a context. The first failure
// cancels the others.
type Group struct {
	g   *errgroup.Group
	ctx context.Context

	started atomic.Int64
	failed  atomic.Int64
}

// NewGroup creates a group derived from ctx. The returned context is
// cancelled when any worker fails or when Wait returns.
func NewGroup(ctx context.Context) (*Group, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	return &Group{g: g, ctx: gctx}, gctx
}

// Go starts a worker appending p's lines to buf.
func (g *Group) Go(buf *buffer.Buffer, p Producer, interval time.Duration, notify chan<- struct{}) {
	g.started.Add(1)
	g.g.Go(func() error {
		if err := Run(g.ctx, buf, p, interval, notify); err != nil {
			g.failed.Add(1)
			return fmt.Errorf("worker %s: %w", buf.Name(), err)
		}
		return nil
	})
}

// Wait blocks until all workers stop and returns the first failure.
func (g *Group) Wait() error {
	return g.g.Wait()
}

// Started returns the number of workers started.
func (g *Group) Started() int {
	return int(g.started.Load())
}

// Failed returns the number of workers that stopped with an error.
func (g *Group) Failed() int {
	return int(g.failed.Load())
}
