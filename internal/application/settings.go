package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gdbot/internal/ports/output"
)

// ErrMissingChannel is fatal: without a channel there is nothing to sync.
var ErrMissingChannel = errors.New("settings: channel_id is not set")

// Settings are the guild-specific values an administrator stores in the
// settings table. They are read once, before any action is accepted.
type Settings struct {
	ChannelID    string
	MentorRoleID string
	AdminRoleID  string
}

// LoadSettings reads the settings table. A missing channel_id returns
// ErrMissingChannel; missing role ids only disable the matching checks.
func LoadSettings(ctx context.Context, repo output.SettingsRepository) (Settings, error) {
	get := func(key string) (string, error) {
		v, err := repo.GetSetting(ctx, key)
		if err != nil {
			return "", fmt.Errorf("read setting %s: %w", key, err)
		}
		return strings.TrimSpace(v), nil
	}

	var s Settings
	var err error
	if s.ChannelID, err = get(output.SettingChannelID); err != nil {
		return Settings{}, err
	}
	if s.ChannelID == "" {
		return Settings{}, ErrMissingChannel
	}
	if s.MentorRoleID, err = get(output.SettingMentorRoleID); err != nil {
		return Settings{}, err
	}
	if s.AdminRoleID, err = get(output.SettingAdminRoleID); err != nil {
		return Settings{}, err
	}
	return s, nil
}
