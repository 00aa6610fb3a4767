package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gdbot/internal/domain"
	"gdbot/internal/domain/entities"
	"gdbot/internal/ports/output"
)

// Reminder window: a recruitment is due when it starts more than
// ReminderWindowStart and at most ReminderLead from now.
const (
	ReminderLead        = 60 * time.Minute
	ReminderWindowStart = 55 * time.Minute
	reminderKey         = "dm.reminder"
)

// NotificationScheduler sends the one-hour reminder DM to everyone signed
// up for a recruitment.
type NotificationScheduler struct {
	repo      output.RecruitRepository
	messenger output.Messenger
	t         output.T
	locale    string
	sync      *SyncEngine
	log       *zap.Logger
}

func NewNotificationScheduler(
	repo output.RecruitRepository,
	messenger output.Messenger,
	t output.T,
	locale string,
	sync *SyncEngine,
	log *zap.Logger,
) *NotificationScheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &NotificationScheduler{repo: repo, messenger: messenger, t: t, locale: locale, sync: sync, log: log}
}

// Due reports whether r should get its reminder at now.
func Due(r *entities.Recruit, now time.Time) bool {
	if r.Deleted || r.NotificationSent {
		return false
	}
	at, err := domain.ParseScheduledAt(r.DateStr, now.Location())
	if err != nil {
		return false
	}
	until := at.Sub(now)
	return until > ReminderWindowStart && until <= ReminderLead
}

// Sweep sends every due reminder. A failed DM is logged and does not stop
// the other recipients or the sent flag.
func (n *NotificationScheduler) Sweep(ctx context.Context) {
	recruits, err := n.repo.ListAll(ctx)
	if err != nil {
		n.log.Error("reminder sweep: list recruits failed", zap.Error(err))
		return
	}
	now := n.sync.Now()
	for i := range recruits {
		r := &recruits[i]
		if !Due(r, now) {
			continue
		}
		if ctx.Err() != nil {
			return
		}
		n.remind(ctx, r)
	}
}

func (n *NotificationScheduler) remind(ctx context.Context, r *entities.Recruit) {
	log := n.log.With(zap.Int64("recruit_id", r.ID))
	content := n.t.T(n.locale, reminderKey, map[string]any{
		"Date":  r.DateStr,
		"Place": r.Place,
		"URL":   ThreadURL(n.sync.GuildID(), r.ThreadID),
	})
	sent := 0
	for _, u := range r.Recipients() {
		cctx, cancel := n.sync.call(ctx)
		err := n.messenger.SendDirect(cctx, u, content)
		cancel()
		if err != nil {
			log.Warn("reminder DM failed", zap.Stringer("user_id", u), zap.Error(err))
			continue
		}
		sent++
	}
	if err := n.repo.MarkNotificationSent(ctx, r.ID); err != nil {
		log.Error("mark notification sent failed", zap.Error(err))
		return
	}
	log.Info("reminder sent", zap.Int("delivered", sent), zap.Int("recipients", len(r.Recipients())))
}
