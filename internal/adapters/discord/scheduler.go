package discord

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gdbot/internal/application"
)

const (
	expiryEvery   = 5 * time.Minute
	reminderEvery = 5 * time.Minute
	evictEvery    = time.Minute
)

// scheduledTasks are the periodic sweeps run on the event loop: expiry and
// header reconciliation, one-hour reminders, and eviction of interaction ids
// and abandoned forms.
func scheduledTasks(
	sync *application.SyncEngine,
	notifier *application.NotificationScheduler,
	dedup *application.Deduplicator,
	forms *FormStore,
	log *zap.Logger,
) []application.Sweep {
	return []application.Sweep{
		{Name: "expiry", Every: expiryEvery, Run: sync.CheckExpired},
		{Name: "reminder", Every: reminderEvery, Run: notifier.Sweep},
		{Name: "evict", Every: evictEvery, Run: func(context.Context) {
			ids, sessions := dedup.Evict(), forms.Evict()
			if ids > 0 || sessions > 0 {
				log.Debug("evicted stale entries", zap.Int("interactions", ids), zap.Int("forms", sessions))
			}
		}},
	}
}
