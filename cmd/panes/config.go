package main

import (
	"github.com/spf13/cobra"

	"github.com/dshills/panes/internal/config"
)

func newConfigCmd(opts *Options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after defaults, the config file and the
environment are combined. Recognised variables: PANES_LOG_LEVEL,
PANES_LOG_FILE, PANES_KEY_SCHEME, PANES_LUA_SCRIPT, PANES_LAYOUT and
PANES_CURSOR_STYLE.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			return cfg.Encode(cmd.OutOrStdout(), config.Format(format))
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(config.FormatTOML), "output format (toml or yaml)")
	return cmd
}
