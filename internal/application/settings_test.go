package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gdbot/internal/ports/output"
)

func TestLoadSettings(t *testing.T) {
	ctx := context.Background()

	_, err := LoadSettings(ctx, memSettings{})
	assert.ErrorIs(t, err, ErrMissingChannel)

	_, err = LoadSettings(ctx, memSettings{output.SettingChannelID: "  "})
	assert.ErrorIs(t, err, ErrMissingChannel)

	s, err := LoadSettings(ctx, memSettings{
		output.SettingChannelID:   " 123 ",
		output.SettingAdminRoleID: "9",
	})
	require.NoError(t, err)
	assert.Equal(t, Settings{ChannelID: "123", AdminRoleID: "9"}, s)
}
