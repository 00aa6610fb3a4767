package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"gdbot/internal/infrastructure/database"
	"gdbot/internal/ports/output"
)

// settingKeys are the settings an administrator may edit.
var settingKeys = []string{
	output.SettingChannelID,
	output.SettingMentorRoleID,
	output.SettingAdminRoleID,
}

// NewSettingsCommand creates the settings command, used to store the guild
// channel and role ids the bot reads at startup.
func NewSettingsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the guild settings",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print every setting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSettings(cmd.Context(), rootOpts, func(repo output.SettingsRepository) error {
				for _, key := range settingKeys {
					v, err := repo.GetSetting(cmd.Context(), key)
					if err != nil {
						return err
					}
					if v == "" {
						v = "(unset)"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, v)
				}
				return nil
			})
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <id>",
		Short: "Store a setting; an empty id clears it",
		Long:  "Keys: " + strings.Join(settingKeys, ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], strings.TrimSpace(args[1])
			if err := validateSetting(key, value); err != nil {
				return err
			}
			return withSettings(cmd.Context(), rootOpts, func(repo output.SettingsRepository) error {
				if err := repo.SetSetting(cmd.Context(), key, value); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s updated\n", key)
				return nil
			})
		},
	}

	cmd.AddCommand(show, set)
	return cmd
}

func validateSetting(key, value string) error {
	if !slices.Contains(settingKeys, key) {
		return fmt.Errorf("unknown setting %q (want one of %s)", key, strings.Join(settingKeys, ", "))
	}
	if value == "" {
		return nil
	}
	if _, err := strconv.ParseUint(value, 10, 64); err != nil {
		return fmt.Errorf("setting %s: %q is not a Discord id", key, value)
	}
	return nil
}

func withSettings(ctx context.Context, opts *RootOptions, fn func(output.SettingsRepository) error) error {
	if err := database.RunMigrations(opts.Config.DatabaseURL, opts.Log); err != nil {
		return err
	}
	db, err := database.Open(ctx, opts.Config.DatabaseURL, opts.Log)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(database.NewSettingsRepository(db))
}
