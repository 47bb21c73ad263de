package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/panes/internal/app"
	"github.com/dshills/panes/internal/config"
)

// Options holds the persistent flags.
type Options struct {
	ConfigPath string
	LogFile    string
	LogLevel   string
}

func NewRootCmd() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:           "panes",
		Short:         "Split-pane terminal UI with pluggable line editing",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Chat with a fake feed in the top pane
  panes chat --scheme emacs

  # Show where a layout puts its panes
  panes layout "Vertical: { 2: { 1: left, 1: right }, 1!: prompt }" --rows 24 --cols 80

  # Print the effective configuration
  panes config
`),
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to configuration file (.toml or .yaml)")
	cmd.PersistentFlags().StringVar(&opts.LogFile, "log-file", "", "write logs to this file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newChatCmd(opts),
		newLayoutCmd(),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// loadConfig reads the configuration named by the flags, falling back to
// the per-user file when it exists.
func loadConfig(opts *Options) (*config.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.FindFile()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if opts.LogFile != "" {
		cfg.Log.File = opts.LogFile
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	return cfg, cfg.Validate()
}

// openLogger builds the process logger. Without a log file everything is
// discarded because the terminal belongs to the UI.
func openLogger(cfg config.LogConfig) (*app.Logger, io.Closer, error) {
	if cfg.File == "" {
		return app.NullLogger, io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := app.NewLogger(app.LoggerConfig{
		Level:  app.ParseLogLevel(cfg.Level),
		Output: f,
		Prefix: "panes",
	})
	return logger, f, nil
}
