package output

import "context"

// Settings keys stored in the settings table.
const (
	SettingChannelID     = "channel_id"
	SettingMentorRoleID  = "mentor_role_id"
	SettingAdminRoleID   = "admin_role_id"
	SettingHeaderMessage = "header_message_id"
)

// SettingsRepository reads and writes string key/value settings. A missing
// key returns "" and no error.
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}
