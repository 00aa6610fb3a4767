package discord

import (
	"errors"

	"github.com/bwmarrin/discordgo"

	"gdbot/internal/domain/entities"
)

// Discord rejects message content longer than this.
const maxContentLen = 2000

// Nick > GlobalName > Username
func resolveDisplayName(member *discordgo.Member) string {
	if member == nil || member.User == nil {
		return ""
	}
	if member.Nick != "" {
		return member.Nick
	}
	if member.User.GlobalName != "" {
		return member.User.GlobalName
	}
	return member.User.Username
}

// interactionUser returns who triggered i, in a guild or a DM.
func interactionUser(i *discordgo.InteractionCreate) (entities.UserID, error) {
	var u *discordgo.User
	switch {
	case i.Member != nil && i.Member.User != nil:
		u = i.Member.User
	case i.User != nil:
		u = i.User
	default:
		return 0, errors.New("interaction without user")
	}
	return entities.ParseUserID(u.ID)
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}

func respondEphemeral(s *discordgo.Session, i *discordgo.Interaction, content string) error {
	return s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: truncate(content, maxContentLen),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func deferEphemeral(s *discordgo.Session, i *discordgo.Interaction) error {
	return s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
}

func deferUpdate(s *discordgo.Session, i *discordgo.Interaction) error {
	return s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}

func followup(s *discordgo.Session, i *discordgo.Interaction, content string) error {
	_, err := s.FollowupMessageCreate(i, true, &discordgo.WebhookParams{
		Content: truncate(content, maxContentLen),
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	return err
}

// respondForm shows a form, either as a new ephemeral message or by
// replacing the message the interaction came from.
func respondForm(s *discordgo.Session, i *discordgo.Interaction, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent, update bool) error {
	typ := discordgo.InteractionResponseChannelMessageWithSource
	if update {
		typ = discordgo.InteractionResponseUpdateMessage
	}
	return s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: typ,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
}

func followupForm(s *discordgo.Session, i *discordgo.Interaction, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	_, err := s.FollowupMessageCreate(i, true, &discordgo.WebhookParams{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
		Flags:      discordgo.MessageFlagsEphemeral,
	})
	return err
}

// closeForm replaces a deferred form message with plain text.
func closeForm(s *discordgo.Session, i *discordgo.Interaction, content string) error {
	content = truncate(content, maxContentLen)
	embeds := []*discordgo.MessageEmbed{}
	components := []discordgo.MessageComponent{}
	_, err := s.InteractionResponseEdit(i, &discordgo.WebhookEdit{
		Content:    &content,
		Embeds:     &embeds,
		Components: &components,
	})
	return err
}

func editForm(s *discordgo.Session, i *discordgo.Interaction, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	embeds := []*discordgo.MessageEmbed{embed}
	_, err := s.InteractionResponseEdit(i, &discordgo.WebhookEdit{
		Embeds:     &embeds,
		Components: &components,
	})
	return err
}
