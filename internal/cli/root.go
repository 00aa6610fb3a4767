// Package cli holds the gdbot command tree.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gdbot/internal/config"
	"gdbot/internal/infrastructure/logging"
)

// RootOptions holds what every command needs once flags and environment
// have been read.
type RootOptions struct {
	LogLevel string

	Config *config.Config
	Log    *zap.Logger
}

// NewRootCommand creates the gdbot command. Without a subcommand it runs the
// bot.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "gdbot",
		Short:         "Group-discussion practice recruitment bot for Discord",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.Log != nil {
				_ = opts.Log.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "override LOG_LEVEL (debug|info|warn|error)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSettingsCommand(opts))

	return cmd
}

func (o *RootOptions) load() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	o.Config = cfg
	o.Log = log
	return nil
}
