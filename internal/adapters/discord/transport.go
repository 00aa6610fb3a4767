package discord

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"gdbot/internal/domain/entities"
	"gdbot/internal/ports/output"
	pkgdiscord "gdbot/pkg/discord"
)

const (
	threadArchiveMinutes = 1440
	eventDuration        = 2 * time.Hour
)

// Transport implements output.Messenger and output.Authorizer over a
// discordgo session bound to one guild.
type Transport struct {
	s       *discordgo.Session
	guildID string
	log     *zap.Logger
}

var (
	_ output.Messenger  = (*Transport)(nil)
	_ output.Authorizer = (*Transport)(nil)
)

func NewTransport(s *discordgo.Session, guildID string, log *zap.Logger) *Transport {
	if log == nil {
		log = zap.NewNop()
	}
	return &Transport{s: s, guildID: guildID, log: log}
}

func (t *Transport) SendMessage(ctx context.Context, channelID string, msg output.Message) (string, error) {
	m, err := t.s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    msg.Content,
		Components: BuildComponents(msg.Controls),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", pkgdiscord.MapRESTError("send message", err)
	}
	return m.ID, nil
}

func (t *Transport) EditMessage(ctx context.Context, channelID, messageID string, msg output.Message) error {
	content := msg.Content
	components := BuildComponents(msg.Controls)
	_, err := t.s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         messageID,
		Channel:    channelID,
		Content:    &content,
		Components: &components,
	}, discordgo.WithContext(ctx))
	return pkgdiscord.MapRESTError("edit message", err)
}

func (t *Transport) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	err := t.s.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
	return pkgdiscord.MapRESTError("delete message", err)
}

// CreateThread starts a public thread in the channel and removes the
// "started a thread" notice Discord posts alongside it.
func (t *Transport) CreateThread(ctx context.Context, channelID, name string) (string, error) {
	th, err := t.s.ThreadStart(channelID, name, discordgo.ChannelTypeGuildPublicThread, threadArchiveMinutes, discordgo.WithContext(ctx))
	if err != nil {
		return "", pkgdiscord.MapRESTError("create thread", err)
	}
	recent, err := t.s.ChannelMessages(channelID, 5, "", "", "", discordgo.WithContext(ctx))
	t.dropThreadNotice(th.ID, recent, err, func(id string) error {
		return t.s.ChannelMessageDelete(channelID, id, discordgo.WithContext(ctx))
	})
	return th.ID, nil
}

// dropThreadNotice deletes the thread-created notice found in recent. The
// thread itself already exists, so failures are only logged.
func (t *Transport) dropThreadNotice(threadID string, recent []*discordgo.Message, listErr error, del func(messageID string) error) {
	if listErr != nil {
		t.log.Warn("list messages for thread notice failed", zap.String("thread_id", threadID), zap.Error(listErr))
		return
	}
	notice := threadNotice(recent, threadID)
	if notice == "" {
		return
	}
	if err := del(notice); err != nil {
		t.log.Warn("delete thread notice failed",
			zap.String("thread_id", threadID),
			zap.String("message_id", notice),
			zap.Error(pkgdiscord.MapRESTError("delete message", err)))
	}
}

func threadNotice(recent []*discordgo.Message, threadID string) string {
	for _, m := range recent {
		if m.Type != discordgo.MessageTypeThreadCreated {
			continue
		}
		if m.MessageReference == nil || m.MessageReference.ChannelID == threadID {
			return m.ID
		}
	}
	return ""
}

// FetchMember prefers the state cache and falls back to the REST API.
func (t *Transport) FetchMember(ctx context.Context, userID entities.UserID) (string, error) {
	member, err := t.member(ctx, userID)
	if err != nil {
		return "", err
	}
	return resolveDisplayName(member), nil
}

func (t *Transport) member(ctx context.Context, userID entities.UserID) (*discordgo.Member, error) {
	if t.s.State != nil {
		if m, err := t.s.State.Member(t.guildID, userID.String()); err == nil {
			return m, nil
		}
	}
	m, err := t.s.GuildMember(t.guildID, userID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, pkgdiscord.MapRESTError("fetch member", err)
	}
	return m, nil
}

func (t *Transport) CreateScheduledEvent(ctx context.Context, ev output.ScheduledEvent) error {
	channels, err := t.s.GuildChannels(t.guildID, discordgo.WithContext(ctx))
	if err != nil {
		return pkgdiscord.MapRESTError("list channels", err)
	}
	_, err = t.s.GuildScheduledEventCreate(t.guildID, eventParams(ev, channels), discordgo.WithContext(ctx))
	return pkgdiscord.MapRESTError("create scheduled event", err)
}

// eventParams hosts the event in the voice channel named like the place,
// or externally at the place when there is none.
func eventParams(ev output.ScheduledEvent, channels []*discordgo.Channel) *discordgo.GuildScheduledEventParams {
	start := ev.StartsAt
	params := &discordgo.GuildScheduledEventParams{
		Name:               ev.Name,
		Description:        ev.Description,
		ScheduledStartTime: &start,
		PrivacyLevel:       discordgo.GuildScheduledEventPrivacyLevelGuildOnly,
	}
	if ch := voiceChannel(channels, ev.Location); ch != nil {
		params.ChannelID = ch.ID
		params.EntityType = discordgo.GuildScheduledEventEntityTypeVoice
		return params
	}
	end := start.Add(eventDuration)
	params.ScheduledEndTime = &end
	params.EntityType = discordgo.GuildScheduledEventEntityTypeExternal
	params.EntityMetadata = &discordgo.GuildScheduledEventEntityMetadata{Location: ev.Location}
	return params
}

func voiceChannel(channels []*discordgo.Channel, name string) *discordgo.Channel {
	name = strings.TrimSpace(name)
	idx := slices.IndexFunc(channels, func(c *discordgo.Channel) bool {
		return c.Type == discordgo.ChannelTypeGuildVoice && c.Name == name
	})
	if idx < 0 {
		return nil
	}
	return channels[idx]
}

func (t *Transport) SendDirect(ctx context.Context, userID entities.UserID, content string) error {
	ch, err := t.s.UserChannelCreate(userID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return pkgdiscord.MapRESTError("open dm channel", err)
	}
	_, err = t.s.ChannelMessageSend(ch.ID, content, discordgo.WithContext(ctx))
	return pkgdiscord.MapRESTError("send dm", err)
}

func (t *Transport) SetTopic(ctx context.Context, channelID, topic string) error {
	_, err := t.s.ChannelEdit(channelID, &discordgo.ChannelEdit{Topic: topic}, discordgo.WithContext(ctx))
	return pkgdiscord.MapRESTError("set topic", err)
}

func (t *Transport) HasRole(ctx context.Context, userID entities.UserID, roleID string) (bool, error) {
	member, err := t.member(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("has role %s: %w", roleID, err)
	}
	return slices.Contains(member.Roles, roleID), nil
}
