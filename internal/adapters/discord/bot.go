package discord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"gdbot/internal/application"
	"gdbot/internal/config"
	"gdbot/internal/ports/output"
)

const jobTimeout = 2 * time.Minute

// Stores are the persistence ports the bot needs.
type Stores struct {
	Recruits output.RecruitRepository
	Settings output.SettingsRepository
	Users    output.UserDirectory
}

// Bot is the Discord adapter.
type Bot struct {
	session  *discordgo.Session
	config   *config.Config
	settings application.Settings
	stores   Stores
	catalog  *config.Catalog
	t        output.T
	loc      *time.Location
	log      *zap.Logger

	transport *Transport
	handler   *Handler
	gate      *application.ActionGate
	loop      *application.Loop
	sync      *application.SyncEngine
}

// NewBot creates the session. Settings must already be loaded: the bot
// never starts without a channel.
func NewBot(
	cfg *config.Config,
	settings application.Settings,
	stores Stores,
	catalog *config.Catalog,
	t output.T,
	loc *time.Location,
	log *zap.Logger,
) (*Bot, error) {
	if settings.ChannelID == "" {
		return nil, application.ErrMissingChannel
	}
	if log == nil {
		log = zap.NewNop()
	}
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages
	return &Bot{
		session:  s,
		config:   cfg,
		settings: settings,
		stores:   stores,
		catalog:  catalog,
		t:        t,
		loc:      loc,
		log:      log,
	}, nil
}

// guildID returns the configured guild, or the guild owning the channel.
func (b *Bot) guildID(ctx context.Context) (string, error) {
	if b.config.GuildID != "" {
		return b.config.GuildID, nil
	}
	ch, err := b.session.Channel(b.settings.ChannelID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("resolve guild of channel %s: %w", b.settings.ChannelID, err)
	}
	if ch.GuildID == "" {
		return "", fmt.Errorf("channel %s is not in a guild", b.settings.ChannelID)
	}
	return ch.GuildID, nil
}

// wire builds the application layer on top of the session transport.
func (b *Bot) wire(guildID string) {
	transport := NewTransport(b.session, guildID, b.log.Named("transport"))
	b.transport = transport
	b.sync = application.NewSyncEngine(b.stores.Recruits, transport, b.stores.Users, b.stores.Settings, application.SyncConfig{
		ChannelID:   b.settings.ChannelID,
		GuildID:     guildID,
		Location:    b.loc,
		CallTimeout: b.config.CallTimeout,
	}, b.log.Named("sync"))
	recruit := application.NewRecruitService(b.stores.Recruits, transport, transport, b.sync, b.settings, b.config.AuthorAutoJoin, b.log.Named("recruit"))
	notifier := application.NewNotificationScheduler(b.stores.Recruits, transport, b.t, b.config.Locale, b.sync, b.log.Named("notifier"))
	dedup := application.NewDeduplicator(application.DedupRetention, nil)
	forms := NewFormStore(FormTTL, nil)

	b.gate = application.NewActionGate(dedup, recruit)
	b.loop = application.NewLoop(jobTimeout, b.log.Named("loop"), scheduledTasks(b.sync, notifier, dedup, forms, b.log)...)
	b.handler = NewHandler(b.gate, b.loop, b.sync, recruit, forms, b.catalog, b.t, b.config.Locale, b.log.Named("handler"))
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if i.ApplicationCommandData().Name == commandName {
			b.handler.HandleCommand(s, i)
		}
	case discordgo.InteractionModalSubmit:
		b.handler.HandleModalSubmit(s, i)
	case discordgo.InteractionMessageComponent:
		b.handler.HandleComponent(s, i)
	}
}

// Start runs the bot until ctx is cancelled. Interactions that arrive
// before the startup sync finished are answered with the unconfigured reply.
func (b *Bot) Start(ctx context.Context) error {
	guildID, err := b.guildID(ctx)
	if err != nil {
		return err
	}
	b.wire(guildID)
	b.session.AddHandler(b.handleInteraction)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	defer b.session.Close()

	for _, cmd := range commands {
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, guildID, cmd); err != nil {
			b.log.Warn("register command failed", zap.String("command", cmd.Name), zap.Error(err))
		}
	}

	loopDone := make(chan error, 1)
	go func() { loopDone <- b.loop.Run(ctx) }()

	err = b.loop.Do(ctx, func(ctx context.Context) {
		b.sync.RestoreHeader(ctx)
		if b.catalog.Topic != "" {
			if err := b.setTopic(ctx); err != nil {
				b.log.Warn("set channel topic failed", zap.Error(err))
			}
		}
		b.sync.SyncAll(ctx)
	})
	if err != nil {
		return fmt.Errorf("startup sync: %w", err)
	}
	b.gate.MarkReady()
	b.log.Info("bot online", zap.String("guild_id", guildID), zap.String("channel_id", b.settings.ChannelID))

	if err := <-loopDone; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	b.log.Info("bot stopping")
	return nil
}

func (b *Bot) setTopic(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, b.config.CallTimeout)
	defer cancel()
	return b.transport.SetTopic(ctx, b.settings.ChannelID, b.catalog.Topic)
}
