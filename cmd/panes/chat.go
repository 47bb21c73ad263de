package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/panes/internal/app"
	"github.com/dshills/panes/internal/config"
	"github.com/dshills/panes/internal/lineeditor"
	"github.com/dshills/panes/internal/renderer"
	"github.com/dshills/panes/internal/renderer/backend"
	"github.com/dshills/panes/internal/renderer/core"
	"github.com/dshills/panes/internal/worker"
)

const greeting = "Type a line and press Enter. q on an empty prompt quits."

func newChatCmd(opts *Options) *cobra.Command {
	var (
		scheme   string
		interval time.Duration
		quiet    bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Edit prompt lines while a fake feed fills the output pane",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if scheme != "" {
				cfg.Keys.Scheme = scheme
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			chat := app.DefaultChatOptions()
			chat.Interval = interval
			if !quiet {
				chat.Producer = worker.NewLorem(core.DefaultStyle().Dim())
			}
			return runChat(cmd.Context(), cfg, chat)
		},
	}

	cmd.Flags().StringVarP(&scheme, "scheme", "s", "", "key scheme (simple, emacs, vim, lua)")
	cmd.Flags().DurationVar(&interval, "interval", worker.DefaultInterval, "time between fake feed lines")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "disable the fake feed")
	return cmd
}

func runChat(ctx context.Context, cfg *config.Config, chat app.ChatOptions) error {
	logger, closer, err := openLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()
	app.SetLogger(logger)

	schemes, err := app.BuildSchemes(cfg.Keys)
	if err != nil {
		return err
	}
	defer schemes.Close()
	unsubscribe := schemes.OnChange(func(from, to lineeditor.Handler) {
		logger.Info("key scheme %s -> %s", from.Name(), to.Name())
	})
	defer unsubscribe()

	term, err := backend.NewTerminal()
	if err != nil {
		return fmt.Errorf("create terminal: %w", err)
	}
	if err := term.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer term.Shutdown()

	// Only changed cells reach tcell; events still come straight from it.
	r := renderer.New(backend.NewBufferedBackend(term), renderer.DefaultOptions())
	s := app.NewSession(r, term, app.WithLogger(logger))
	defer s.Close()
	if err := s.Configure(cfg); err != nil {
		return err
	}
	s.Output().AddText(greeting, core.DefaultStyle().Italic())

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Path != "" {
		go func() {
			err := config.Watch(ctx, cfg.Path, func(c *config.Config) {
				logger.Info("config reloaded from %s", c.Path)
				s.Reload(c, schemes)
			}, config.WithErrorHandler(func(err error) {
				logger.Warn("config reload: %v", err)
			}))
			if err != nil {
				logger.Warn("config watch: %v", err)
			}
		}()
	}

	logger.Info("chat started: %s", s)
	err = s.Chat(ctx, schemes, chat)
	if errors.Is(err, app.ErrAborted) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
