package discord

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"gdbot/internal/domain"
)

// ReplyKey maps an action error to the i18n key of the reply shown to the
// acting user. Anything that is not a user-facing domain error gets the
// generic message.
func ReplyKey(err error) string {
	if err == nil {
		return ""
	}
	if domain.IsUserFacing(err) {
		return "errors." + domain.Code(err)
	}
	return "errors.internal"
}

// MapRESTError translates Discord API failures into the transport errors the
// application understands. Other errors are returned wrapped with op.
func MapRESTError(op string, err error) error {
	if err == nil {
		return nil
	}
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Message != nil {
		switch rest.Message.Code {
		case discordgo.ErrCodeUnknownMessage, discordgo.ErrCodeUnknownChannel:
			return fmt.Errorf("%s: %w", op, domain.ErrMessageNotFound)
		case discordgo.ErrCodeUnknownMember, discordgo.ErrCodeUnknownUser:
			return fmt.Errorf("%s: %w", op, domain.ErrMemberNotFound)
		case discordgo.ErrCodeMissingPermissions, discordgo.ErrCodeMissingAccess:
			return fmt.Errorf("%s: %w", op, domain.ErrForbidden)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
