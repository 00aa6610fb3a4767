package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"gdbot/internal/application"
	"gdbot/internal/domain"
	"gdbot/internal/domain/form"
	pkgdiscord "gdbot/pkg/discord"
)

// modalInput maps a submitted form modal to a reducer input. A date that
// cannot be normalized becomes an empty SetDate, which the reducer rejects.
func modalInput(field, value string, now time.Time) form.Input {
	switch field {
	case fieldDate:
		day, err := pkgdiscord.NormalizeDay(value, now)
		if err != nil {
			return form.SetDate{}
		}
		return form.SetDate{Date: day}
	case fieldPlace:
		return form.SetPlace{Place: value}
	case fieldMessage:
		return form.SetMessage{Message: value}
	}
	return nil
}

func (h *Handler) formExpired(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := respondEphemeral(s, i.Interaction, h.t.T(h.localeOf(i), "info.form_expired", nil)); err != nil {
		h.log.Warn("respond failed", zap.Error(err))
	}
}

func (h *Handler) handleFormComponent(s *discordgo.Session, i *discordgo.InteractionCreate, sid, op string, values []string) {
	st, ok := h.forms.Get(sid)
	if !ok {
		h.formExpired(s, i)
		return
	}
	if op == opSubmit {
		h.submitForm(s, i, sid, st)
		return
	}
	if modal := h.view.modal(sid, op, st); modal != nil {
		if err := s.InteractionRespond(i.Interaction, modal); err != nil {
			h.log.Warn("open modal failed", zap.String("op", op), zap.Error(err))
		}
		return
	}
	in := componentInput(op, values)
	if in == nil {
		h.log.Debug("ignoring unknown form op", zap.String("op", op))
		return
	}
	h.updateForm(s, i, sid, form.Reduce(st, in))
}

// HandleModalSubmit applies a form modal.
func (h *Handler) HandleModalSubmit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ModalSubmitData()
	sid, field, ok := parseFormModalID(data.CustomID)
	if !ok {
		h.log.Debug("ignoring unknown modal", zap.String("custom_id", data.CustomID))
		return
	}
	st, ok := h.forms.Get(sid)
	if !ok {
		h.formExpired(s, i)
		return
	}
	in := modalInput(field, pkgdiscord.ModalValues(data)[modalInputID], h.sync.Now())
	if in == nil {
		return
	}
	h.updateForm(s, i, sid, form.Reduce(st, in))
}

func (h *Handler) updateForm(s *discordgo.Session, i *discordgo.InteractionCreate, sid string, st form.State) {
	if !h.forms.Put(sid, st) {
		h.formExpired(s, i)
		return
	}
	locale := h.localeOf(i)
	if err := respondForm(s, i.Interaction, h.view.embed(st, locale), h.view.components(sid, st), true); err != nil {
		h.log.Warn("update form failed", zap.Error(err))
	}
}

// submitForm turns the form into a create or edit action. Validation
// failures keep the form open with the problem shown; anything else closes
// it with the reply.
func (h *Handler) submitForm(s *discordgo.Session, i *discordgo.InteractionCreate, sid string, st form.State) {
	actor, ok := h.actor(i)
	if !ok {
		return
	}
	fields, err := st.Fields()
	if err != nil {
		st.Problem = domain.Code(err)
		h.updateForm(s, i, sid, st)
		return
	}
	a := application.Action{ID: i.ID, Kind: application.ActionCreate, RecruitID: st.RecruitID, Actor: actor, Fields: fields}
	if st.Editing() {
		a.Kind = application.ActionEdit
	}
	log := h.log.With(zap.String("interaction_id", a.ID), zap.Stringer("action", a.Kind))
	if !h.gate.Admit(a.ID) {
		log.Debug("duplicate interaction ignored")
		return
	}
	if err := deferUpdate(s, i.Interaction); err != nil {
		log.Warn("acknowledge interaction failed", zap.Error(err))
	}

	out, err := h.dispatch(a)
	if isValidation(err) {
		st.Problem = domain.Code(err)
		if h.forms.Put(sid, st) {
			if eerr := editForm(s, i.Interaction, h.view.embed(st, actor.Locale), h.view.components(sid, st)); eerr != nil {
				log.Warn("update form failed", zap.Error(eerr))
			}
			return
		}
	}
	h.forms.Close(sid)
	if cerr := closeForm(s, i.Interaction, h.replyText(actor.Locale, a, out, err)); cerr != nil {
		log.Warn("send reply failed", zap.Error(cerr))
	}
}
