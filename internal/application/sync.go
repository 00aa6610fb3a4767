package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"gdbot/internal/domain"
	"gdbot/internal/domain/entities"
	"gdbot/internal/ports/output"
)

// SyncConfig wires the SyncEngine to one channel.
type SyncConfig struct {
	ChannelID   string
	GuildID     string
	Location    *time.Location
	CallTimeout time.Duration
	Now         func() time.Time
}

// SyncEngine keeps each recruitment's channel post, and the channel header,
// consistent with the store. Transport failures are logged and left for the
// next sweep; nothing here reports them to the acting user.
type SyncEngine struct {
	repo      output.RecruitRepository
	messenger output.Messenger
	users     output.UserDirectory
	settings  output.SettingsRepository
	log       *zap.Logger

	channelID   string
	guildID     string
	loc         *time.Location
	callTimeout time.Duration
	clock       func() time.Time

	mu       sync.Mutex
	headerID string
	// headerSeen is true once this process has posted or successfully edited
	// the header; a restored id is only trusted after that.
	headerSeen bool
	rendered   map[int64]domain.Status
}

// NewSyncEngine builds an engine. users and settings may be nil: names then
// fall back to the placeholder and the header id is kept in memory only.
func NewSyncEngine(
	repo output.RecruitRepository,
	messenger output.Messenger,
	users output.UserDirectory,
	settings output.SettingsRepository,
	cfg SyncConfig,
	log *zap.Logger,
) *SyncEngine {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SyncEngine{
		repo:        repo,
		messenger:   messenger,
		users:       users,
		settings:    settings,
		log:         log,
		channelID:   cfg.ChannelID,
		guildID:     cfg.GuildID,
		loc:         cfg.Location,
		callTimeout: cfg.CallTimeout,
		clock:       cfg.Now,
		rendered:    make(map[int64]domain.Status),
	}
}

// Now returns the current time in the reference zone.
func (e *SyncEngine) Now() time.Time { return e.clock().In(e.loc) }

func (e *SyncEngine) ChannelID() string { return e.channelID }

func (e *SyncEngine) GuildID() string { return e.guildID }

func (e *SyncEngine) call(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.callTimeout)
}

// Publish renders recruitment id into the channel, creating the post when it
// does not exist yet or vanished. Only a store read failure is returned.
func (e *SyncEngine) Publish(ctx context.Context, id int64) (domain.Status, error) {
	r, err := e.repo.Get(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("publish %d: %w", id, err)
	}
	return e.publish(ctx, r), nil
}

func (e *SyncEngine) publish(ctx context.Context, r *entities.Recruit) domain.Status {
	now := e.Now()
	status := domain.StatusOf(r, now)
	log := e.log.With(zap.Int64("recruit_id", r.ID), zap.Stringer("status", status))

	// A deleted recruitment that never reached the channel has nothing to show.
	if status == domain.StatusDeleted && r.MessageID == "" {
		e.markRendered(r.ID, status)
		return status
	}

	msg := Render(r, e.resolveNames(ctx, r), e.guildID, now)

	if r.MessageID != "" {
		cctx, cancel := e.call(ctx)
		err := e.messenger.EditMessage(cctx, e.channelID, r.MessageID, msg)
		cancel()
		switch {
		case err == nil:
			e.markRendered(r.ID, status)
			return status
		case errors.Is(err, domain.ErrMessageNotFound):
			if status == domain.StatusDeleted {
				e.markRendered(r.ID, status)
				return status
			}
			log.Info("recruit message vanished, posting a new one", zap.String("message_id", r.MessageID))
		default:
			e.forget(r.ID)
			log.Warn("edit recruit message failed", zap.String("message_id", r.MessageID), zap.Error(err))
			return status
		}
	}

	cctx, cancel := e.call(ctx)
	ref, err := e.messenger.SendMessage(cctx, e.channelID, msg)
	cancel()
	if err != nil {
		e.forget(r.ID)
		log.Warn("send recruit message failed", zap.Error(err))
		return status
	}
	if err := e.repo.SetExternalMessageRef(ctx, r.ID, ref); err != nil {
		// The post exists but the store does not know it; the next publish
		// will post again rather than edit.
		e.forget(r.ID)
		log.Error("persist recruit message id failed", zap.String("message_id", ref), zap.Error(err))
		return status
	}
	r.MessageID = ref
	e.markRendered(r.ID, status)
	return status
}

func (e *SyncEngine) markRendered(id int64, status domain.Status) {
	e.mu.Lock()
	e.rendered[id] = status
	e.mu.Unlock()
}

func (e *SyncEngine) forget(id int64) {
	e.mu.Lock()
	delete(e.rendered, id)
	e.mu.Unlock()
}

func (e *SyncEngine) lastRendered(id int64) (domain.Status, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.rendered[id]
	return st, ok
}

// resolveNames looks every member up once. A failed lookup falls back to the
// user directory, then to the placeholder; it never aborts the render.
func (e *SyncEngine) resolveNames(ctx context.Context, r *entities.Recruit) Names {
	cache := make(map[entities.UserID]string)
	lookup := func(u entities.UserID) string {
		if name, ok := cache[u]; ok {
			return name
		}
		name := e.memberName(ctx, u)
		cache[u] = name
		return name
	}

	names := Names{
		Author:       lookup(r.AuthorID),
		Participants: make([]string, len(r.Participants)),
		Mentors:      make([]string, len(r.Mentors)),
	}
	for i, u := range r.Participants {
		names.Participants[i] = lookup(u)
	}
	for i, u := range r.Mentors {
		names.Mentors[i] = lookup(u)
	}
	return names
}

func (e *SyncEngine) memberName(ctx context.Context, u entities.UserID) string {
	cctx, cancel := e.call(ctx)
	name, err := e.messenger.FetchMember(cctx, u)
	cancel()
	if err == nil && name != "" {
		if e.users != nil {
			if err := e.users.RememberUser(ctx, u, name); err != nil {
				e.log.Debug("remember user failed", zap.Stringer("user_id", u), zap.Error(err))
			}
		}
		return name
	}
	e.log.Warn("member lookup failed", zap.Stringer("user_id", u), zap.Error(err))
	if e.users != nil {
		if cached, lerr := e.users.LookupUser(ctx, u); lerr == nil && cached != "" {
			return cached
		}
	}
	return unknownUser
}

// RestoreHeader seeds the in-memory header id from the settings table so a
// header left by a previous process can be found and removed.
func (e *SyncEngine) RestoreHeader(ctx context.Context) {
	if e.settings == nil {
		return
	}
	id, err := e.settings.GetSetting(ctx, output.SettingHeaderMessage)
	if err != nil {
		e.log.Warn("read header message id failed", zap.Error(err))
		return
	}
	e.mu.Lock()
	e.headerID = id
	e.headerSeen = false
	e.mu.Unlock()
}

// HeaderID returns the header message id the engine believes is posted.
func (e *SyncEngine) HeaderID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.headerID
}

func (e *SyncEngine) headerTrusted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.headerSeen
}

func (e *SyncEngine) setHeader(ctx context.Context, id string) {
	e.mu.Lock()
	e.headerID = id
	e.headerSeen = id != ""
	e.mu.Unlock()
	if e.settings == nil {
		return
	}
	if err := e.settings.SetSetting(ctx, output.SettingHeaderMessage, id); err != nil {
		e.log.Warn("persist header message id failed", zap.Error(err))
	}
}

// EnsureHeader posts the header when no recruitment is active and removes
// it as soon as one is. It performs at most one create or delete per call
// and nothing once reconciled.
func (e *SyncEngine) EnsureHeader(ctx context.Context) {
	recruits, err := e.repo.ListAll(ctx)
	if err != nil {
		e.log.Error("ensure header: list recruits failed", zap.Error(err))
		return
	}
	e.reconcileHeader(ctx, hasActive(recruits, e.Now()), false)
}

func hasActive(recruits []entities.Recruit, now time.Time) bool {
	for i := range recruits {
		if domain.StatusOf(&recruits[i], now).Active() {
			return true
		}
	}
	return false
}

// reconcileHeader deletes the header while something is active and posts
// it otherwise. An idle header id that this process has not confirmed, or
// any idle header when verify is set, is checked by editing it in place; a
// vanished header is posted again.
func (e *SyncEngine) reconcileHeader(ctx context.Context, active, verify bool) {
	headerID := e.HeaderID()
	switch {
	case active && headerID != "":
		cctx, cancel := e.call(ctx)
		err := e.messenger.DeleteMessage(cctx, e.channelID, headerID)
		cancel()
		switch {
		case err == nil:
			e.setHeader(ctx, "")
		case errors.Is(err, domain.ErrMessageNotFound):
			e.log.Info("header message already gone", zap.String("message_id", headerID))
			e.setHeader(ctx, "")
		default:
			e.log.Warn("delete header message failed", zap.String("message_id", headerID), zap.Error(err))
		}
	case !active && headerID != "":
		if !verify && e.headerTrusted() {
			return
		}
		cctx, cancel := e.call(ctx)
		err := e.messenger.EditMessage(cctx, e.channelID, headerID, HeaderMessage())
		cancel()
		switch {
		case err == nil:
			e.mu.Lock()
			e.headerSeen = true
			e.mu.Unlock()
		case errors.Is(err, domain.ErrMessageNotFound):
			e.log.Info("header message vanished, posting a new one", zap.String("message_id", headerID))
			e.postHeader(ctx)
		default:
			e.log.Warn("check header message failed", zap.String("message_id", headerID), zap.Error(err))
		}
	case !active:
		e.postHeader(ctx)
	}
}

func (e *SyncEngine) postHeader(ctx context.Context) {
	cctx, cancel := e.call(ctx)
	id, err := e.messenger.SendMessage(cctx, e.channelID, HeaderMessage())
	cancel()
	if err != nil {
		e.log.Warn("send header message failed", zap.Error(err))
		return
	}
	e.setHeader(ctx, id)
}

// CheckExpired republishes every recruitment whose status differs from what
// this process last rendered (time-driven expiry, or a render that failed),
// then reconciles the header. One bad record never stops the sweep.
func (e *SyncEngine) CheckExpired(ctx context.Context) {
	recruits, err := e.repo.ListAll(ctx)
	if err != nil {
		e.log.Error("expiry sweep: list recruits failed", zap.Error(err))
		return
	}
	now := e.Now()
	republished := 0
	for i := range recruits {
		if ctx.Err() != nil {
			return
		}
		r := &recruits[i]
		status := domain.StatusOf(r, now)
		if prev, ok := e.lastRendered(r.ID); ok && prev == status {
			continue
		}
		e.publish(ctx, r)
		republished++
	}
	if republished > 0 {
		e.log.Info("expiry sweep republished recruits", zap.Int("count", republished))
	}
	e.reconcileHeader(ctx, hasActive(recruits, now), true)
}

// SyncAll publishes every recruitment and reconciles the header. Run once at
// startup so the channel matches the store before actions are accepted.
func (e *SyncEngine) SyncAll(ctx context.Context) {
	recruits, err := e.repo.ListAll(ctx)
	if err != nil {
		e.log.Error("startup sync: list recruits failed", zap.Error(err))
		return
	}
	for i := range recruits {
		if ctx.Err() != nil {
			return
		}
		e.publish(ctx, &recruits[i])
	}
	e.reconcileHeader(ctx, hasActive(recruits, e.Now()), true)
}

// Summary is the ephemeral text behind the header's refresh button.
func (e *SyncEngine) Summary(ctx context.Context) (string, error) {
	recruits, err := e.repo.ListAll(ctx)
	if err != nil {
		return "", fmt.Errorf("summary: %w", err)
	}
	return RenderSummary(recruits, e.Now()), nil
}
