package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"gdbot/internal/application"
	"gdbot/internal/domain"
	"gdbot/internal/domain/entities"
	"gdbot/internal/domain/form"
	"gdbot/internal/ports/input"
	"gdbot/internal/ports/output"
)

var actionKinds = map[output.ControlKind]application.ActionKind{
	output.ControlJoin:       application.ActionJoin,
	output.ControlJoinMentor: application.ActionJoinMentor,
	output.ControlLeave:      application.ActionLeave,
	output.ControlDelete:     application.ActionDelete,
	output.ControlEvent:      application.ActionEvent,
}

func (h *Handler) localeOf(i *discordgo.InteractionCreate) string {
	if i.Locale != "" {
		return string(i.Locale)
	}
	return h.locale
}

func (h *Handler) actor(i *discordgo.InteractionCreate) (input.Actor, bool) {
	u, err := interactionUser(i)
	if err != nil {
		h.log.Warn("interaction without a usable user", zap.String("interaction_id", i.ID), zap.Error(err))
		return input.Actor{}, false
	}
	return input.Actor{ID: u, Locale: h.localeOf(i)}, true
}

// HandleComponent routes button and select presses.
func (h *Handler) HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.MessageComponentData()
	if sid, op, ok := parseFormID(data.CustomID); ok {
		h.handleFormComponent(s, i, sid, op, data.Values)
		return
	}
	c, ok := ParseControl(data.CustomID)
	if !ok {
		h.log.Debug("ignoring unknown component", zap.String("custom_id", data.CustomID))
		return
	}
	actor, ok := h.actor(i)
	if !ok {
		return
	}

	switch c.Kind {
	case output.ControlMake:
		h.openForm(s, i, actor, form.New())
	case output.ControlRefresh:
		h.handleRefresh(s, i, actor)
	case output.ControlEdit:
		h.handleEdit(s, i, actor, c.RecruitID)
	default:
		kind, ok := actionKinds[c.Kind]
		if !ok {
			return
		}
		h.runAction(s, i, application.Action{
			ID:        i.ID,
			Kind:      kind,
			RecruitID: c.RecruitID,
			Actor:     actor,
		})
	}
}

// runAction deduplicates, acknowledges, applies and answers one action.
func (h *Handler) runAction(s *discordgo.Session, i *discordgo.InteractionCreate, a application.Action) {
	log := h.log.With(zap.String("interaction_id", a.ID), zap.Stringer("action", a.Kind), zap.Int64("recruit_id", a.RecruitID))
	if !h.gate.Admit(a.ID) {
		log.Debug("duplicate interaction ignored")
		return
	}
	if err := deferEphemeral(s, i.Interaction); err != nil {
		log.Warn("acknowledge interaction failed", zap.Error(err))
	}
	out, err := h.dispatch(a)
	if ferr := followup(s, i.Interaction, h.replyText(a.Actor.Locale, a, out, err)); ferr != nil {
		log.Warn("send reply failed", zap.Error(ferr))
	}
}

func (h *Handler) notReady(s *discordgo.Session, i *discordgo.InteractionCreate, actor input.Actor) bool {
	if h.gate.Ready() {
		return false
	}
	if err := respondEphemeral(s, i.Interaction, h.t.T(actor.Locale, "errors."+domain.ErrUnconfigured.Code, nil)); err != nil {
		h.log.Warn("respond failed", zap.Error(err))
	}
	return true
}

func (h *Handler) handleRefresh(s *discordgo.Session, i *discordgo.InteractionCreate, actor input.Actor) {
	if h.notReady(s, i, actor) {
		return
	}
	if err := deferEphemeral(s, i.Interaction); err != nil {
		h.log.Warn("acknowledge interaction failed", zap.Error(err))
	}
	var text string
	var err error
	if lerr := h.onLoop(func(ctx context.Context) { text, err = h.sync.Summary(ctx) }); lerr != nil {
		err = lerr
	}
	if err != nil {
		h.log.Error("summary failed", zap.Error(err))
		text = h.t.T(actor.Locale, "errors.internal", nil)
	}
	if ferr := followup(s, i.Interaction, text); ferr != nil {
		h.log.Warn("send summary failed", zap.Error(ferr))
	}
}

// handleEdit checks the actor may edit, then opens a pre-filled form.
func (h *Handler) handleEdit(s *discordgo.Session, i *discordgo.InteractionCreate, actor input.Actor, id int64) {
	if h.notReady(s, i, actor) {
		return
	}
	if err := deferEphemeral(s, i.Interaction); err != nil {
		h.log.Warn("acknowledge interaction failed", zap.Error(err))
	}
	var fields entities.Fields
	var err error
	if lerr := h.onLoop(func(ctx context.Context) { fields, err = h.recruit.Prefill(ctx, actor, id) }); lerr != nil {
		err = lerr
	}
	if err != nil {
		a := application.Action{ID: i.ID, Kind: application.ActionEdit, RecruitID: id, Actor: actor}
		if ferr := followup(s, i.Interaction, h.replyText(actor.Locale, a, input.Outcome{}, err)); ferr != nil {
			h.log.Warn("send reply failed", zap.Error(ferr))
		}
		return
	}
	st := form.ForEdit(id, fields)
	sid := h.forms.Open(st)
	if err := followupForm(s, i.Interaction, h.view.embed(st, actor.Locale), h.view.components(sid, st)); err != nil {
		h.log.Warn("send edit form failed", zap.Error(err))
		h.forms.Close(sid)
	}
}

// HandleCommand opens the create form from the slash command.
func (h *Handler) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	actor, ok := h.actor(i)
	if !ok {
		return
	}
	h.openForm(s, i, actor, form.New())
}

func (h *Handler) openForm(s *discordgo.Session, i *discordgo.InteractionCreate, actor input.Actor, st form.State) {
	if h.notReady(s, i, actor) {
		return
	}
	sid := h.forms.Open(st)
	if err := respondForm(s, i.Interaction, h.view.embed(st, actor.Locale), h.view.components(sid, st), false); err != nil {
		h.log.Warn("open form failed", zap.Error(err))
		h.forms.Close(sid)
	}
}
