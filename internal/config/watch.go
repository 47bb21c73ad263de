package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events a single save produces.
const DefaultDebounce = 50 * time.Millisecond

type watchOptions struct {
	debounce time.Duration
	onError  func(error)
}

// WatchOption configures Watch.
type WatchOption func(*watchOptions)

// WithDebounce sets how long Watch waits for events to settle.
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		if d >= 0 {
			o.debounce = d
		}
	}
}

// WithErrorHandler receives reload and watcher errors. They are dropped
// otherwise.
func WithErrorHandler(fn func(error)) WatchOption {
	return func(o *watchOptions) {
		o.onError = fn
	}
}

// Watch reloads the file at path whenever it is written and passes each
// valid configuration to fn. Invalid files are reported to the error
// handler and the previous configuration stays in effect. Watch blocks
// until ctx is done.
//
// The containing directory is watched so editors that save by renaming a
// temporary file are noticed.
func Watch(ctx context.Context, path string, fn func(*Config), opts ...WatchOption) error {
	o := watchOptions{debounce: DefaultDebounce, onError: func(error) {}}
	for _, opt := range opts {
		opt(&o)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(o.debounce)
			} else {
				timer.Reset(o.debounce)
			}
			fire = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			o.onError(err)

		case <-fire:
			fire = nil
			cfg, err := Load(path)
			if err != nil {
				o.onError(err)
				continue
			}
			fn(cfg)
		}
	}
}
