package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gdbot/internal/adapters/discord"
	"gdbot/internal/application"
	"gdbot/internal/config"
	"gdbot/internal/infrastructure/database"
	"gdbot/internal/infrastructure/i18n"
	"gdbot/internal/ports/output"
	"gdbot/pkg/tz"
)

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Connect to Discord and serve the recruitment channel",
		Long: `Apply pending migrations, load the guild settings and start the bot.

The channel_id setting must be stored first:
  gdbot settings set channel_id <channel id>`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd.Context(), rootOpts)
		},
	}
}

func runBot(ctx context.Context, opts *RootOptions) error {
	cfg, log := opts.Config, opts.Log
	if err := cfg.RequireToken(); err != nil {
		return err
	}
	loc, err := tz.Load(cfg.Timezone)
	if err != nil {
		return err
	}

	if err := database.RunMigrations(cfg.DatabaseURL, log); err != nil {
		return err
	}
	db, err := database.Open(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer db.Close()

	settingsRepo := database.NewSettingsRepository(db)
	settings, err := application.LoadSettings(ctx, settingsRepo)
	if errors.Is(err, application.ErrMissingChannel) {
		return fmt.Errorf("%w: run `gdbot settings set %s <channel id>` first", err, output.SettingChannelID)
	}
	if err != nil {
		return err
	}
	log.Info("settings loaded",
		zap.String("channel_id", settings.ChannelID),
		zap.Bool("mentor_role", settings.MentorRoleID != ""),
		zap.Bool("admin_role", settings.AdminRoleID != ""))

	catalog, err := config.LoadCatalog()
	if err != nil {
		return err
	}
	bot, err := discord.NewBot(cfg, settings, discord.Stores{
		Recruits: database.NewRecruitRepository(db),
		Settings: settingsRepo,
		Users:    database.NewUserRepository(db),
	}, catalog, i18n.NewTranslator(cfg.Locale, log), loc, log)
	if err != nil {
		return err
	}
	return bot.Start(ctx)
}
