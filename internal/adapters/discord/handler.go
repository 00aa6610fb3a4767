package discord

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"gdbot/internal/application"
	"gdbot/internal/config"
	"gdbot/internal/domain"
	"gdbot/internal/ports/input"
	"gdbot/internal/ports/output"
	pkgdiscord "gdbot/pkg/discord"
)

// actionWait bounds how long an interaction waits for its job to be queued
// and run. Followup tokens stay valid far longer.
const actionWait = 2 * time.Minute

// Handler handles Discord interactions. Handlers run on discordgo's
// goroutines; everything that touches the store goes through the loop.
type Handler struct {
	gate    *application.ActionGate
	loop    *application.Loop
	sync    *application.SyncEngine
	recruit input.RecruitUseCase
	forms   *FormStore
	view    formView
	t       output.T
	locale  string
	log     *zap.Logger
}

// NewHandler creates a Handler. locale is used when an interaction carries
// none.
func NewHandler(
	gate *application.ActionGate,
	loop *application.Loop,
	sync *application.SyncEngine,
	recruit input.RecruitUseCase,
	forms *FormStore,
	catalog *config.Catalog,
	t output.T,
	locale string,
	log *zap.Logger,
) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		gate:    gate,
		loop:    loop,
		sync:    sync,
		recruit: recruit,
		forms:   forms,
		view:    formView{catalog: catalog, t: t},
		t:       t,
		locale:  locale,
		log:     log,
	}
}

// onLoop runs fn on the event loop and waits for it. On error fn never ran.
func (h *Handler) onLoop(fn func(ctx context.Context)) error {
	ctx, cancel := context.WithTimeout(context.Background(), actionWait)
	defer cancel()
	return h.loop.Do(ctx, fn)
}

// dispatch applies an admitted action on the loop.
func (h *Handler) dispatch(a application.Action) (input.Outcome, error) {
	var out input.Outcome
	var err error
	if lerr := h.onLoop(func(ctx context.Context) { out, err = h.gate.Dispatch(ctx, a) }); lerr != nil {
		return input.Outcome{}, lerr
	}
	return out, err
}

// replyText is the localized reply for an action result. Failures that are
// not the user's to fix are logged here.
func (h *Handler) replyText(locale string, a application.Action, out input.Outcome, err error) string {
	if err != nil {
		if !domain.IsUserFacing(err) {
			h.log.Error("action failed",
				zap.Stringer("action", a.Kind),
				zap.Int64("recruit_id", a.RecruitID),
				zap.Stringer("user_id", a.Actor.ID),
				zap.Error(err))
		}
		return h.t.T(locale, pkgdiscord.ReplyKey(err), nil)
	}
	return h.t.T(locale, out.Key, out.Data)
}

func isValidation(err error) bool {
	var de *domain.Error
	return errors.As(err, &de) && de.Kind == domain.KindValidation
}
