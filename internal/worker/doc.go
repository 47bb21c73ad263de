// Package worker runs background producers that append lines to a buffer
// while the foreground handles input.
//
// A producer is polled on a fixed interval. Each produced line is appended
// to the target buffer and a redraw request is posted on a notify channel
// without blocking, so a slow render loop coalesces requests instead of
// stalling producers. Workers stop cooperatively when their context is
// cancelled.
//
//	ctx, cancel := context.WithCancel(context.Background())
//	g, ctx := worker.NewGroup(ctx)
//	g.Go(output, worker.NewLorem(style), 500*time.Millisecond, redraw)
//	...
//	cancel()
//	err := g.Wait()
package worker
