package discord

import (
	"fmt"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"

	"gdbot/internal/domain"
)

func restErr(code int) error {
	return &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: code, Message: "test"}}
}

func TestMapRESTError(t *testing.T) {
	assert.NoError(t, MapRESTError("edit", nil))
	assert.ErrorIs(t, MapRESTError("edit", restErr(discordgo.ErrCodeUnknownMessage)), domain.ErrMessageNotFound)
	assert.ErrorIs(t, MapRESTError("edit", restErr(discordgo.ErrCodeMissingPermissions)), domain.ErrForbidden)
	assert.ErrorIs(t, MapRESTError("member", restErr(discordgo.ErrCodeUnknownMember)), domain.ErrMemberNotFound)

	other := MapRESTError("send", restErr(30003))
	assert.NotErrorIs(t, other, domain.ErrForbidden)
	assert.Contains(t, other.Error(), "send")

	wrapped := MapRESTError("send", fmt.Errorf("dial: %w", assert.AnError))
	assert.ErrorIs(t, wrapped, assert.AnError)
}

func TestReplyKey(t *testing.T) {
	assert.Equal(t, "", ReplyKey(nil))
	assert.Equal(t, "errors.capacity_exceeded", ReplyKey(domain.ErrCapacityExceeded))
	assert.Equal(t, "errors.invalid_date", ReplyKey(fmt.Errorf("wrap: %w", domain.ErrInvalidDate)))
	assert.Equal(t, "errors.internal", ReplyKey(domain.ErrForbidden))
	assert.Equal(t, "errors.internal", ReplyKey(assert.AnError))
}
