package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"gdbot/internal/domain"
	"gdbot/internal/domain/entities"
	"gdbot/internal/ports/input"
	"gdbot/internal/ports/output"
)

var _ input.RecruitUseCase = (*RecruitService)(nil)

// Reply keys for successful actions.
const (
	ReplyCreated       = "reply.created"
	ReplyJoined        = "reply.joined"
	ReplyJoinedMentor  = "reply.joined_mentor"
	ReplyLeft          = "reply.left"
	ReplyUpdated       = "reply.updated"
	ReplyDeleted       = "reply.deleted"
	ReplyEventCreated  = "reply.event_created"
	ReplyEventFailed   = "reply.event_failed"
	ReplyThreadMissing = "reply.created_without_thread"
)

// RecruitService applies validated user actions to the store and then asks
// the SyncEngine to re-render. Replies depend only on the store mutation.
type RecruitService struct {
	repo      output.RecruitRepository
	messenger output.Messenger
	authz     output.Authorizer
	sync      *SyncEngine
	settings  Settings
	autoJoin  bool
	log       *zap.Logger
}

// NewRecruitService wires the service. autoJoin adds the author as the first
// participant of every new recruitment.
func NewRecruitService(
	repo output.RecruitRepository,
	messenger output.Messenger,
	authz output.Authorizer,
	sync *SyncEngine,
	settings Settings,
	autoJoin bool,
	log *zap.Logger,
) *RecruitService {
	if log == nil {
		log = zap.NewNop()
	}
	return &RecruitService{
		repo:      repo,
		messenger: messenger,
		authz:     authz,
		sync:      sync,
		settings:  settings,
		autoJoin:  autoJoin,
		log:       log,
	}
}

func (s *RecruitService) hasRole(ctx context.Context, u entities.UserID, roleID string) bool {
	if roleID == "" || s.authz == nil {
		return false
	}
	ok, err := s.authz.HasRole(ctx, u, roleID)
	if err != nil {
		s.log.Warn("role lookup failed", zap.Stringer("user_id", u), zap.String("role_id", roleID), zap.Error(err))
		return false
	}
	return ok
}

func (s *RecruitService) isAdmin(ctx context.Context) func(entities.UserID) bool {
	return func(u entities.UserID) bool { return s.hasRole(ctx, u, s.settings.AdminRoleID) }
}

// isMentor treats an unconfigured mentor role as open to everyone.
func (s *RecruitService) isMentor(ctx context.Context, u entities.UserID) bool {
	if s.settings.MentorRoleID == "" {
		return true
	}
	return s.hasRole(ctx, u, s.settings.MentorRoleID)
}

// refresh re-renders one recruitment and the header after a mutation.
func (s *RecruitService) refresh(ctx context.Context, id int64) {
	if _, err := s.sync.Publish(ctx, id); err != nil {
		s.log.Error("re-render after mutation failed", zap.Int64("recruit_id", id), zap.Error(err))
	}
	s.sync.EnsureHeader(ctx)
}

func (s *RecruitService) Create(ctx context.Context, actor input.Actor, fields entities.Fields) (input.Outcome, error) {
	fields, err := domain.ValidateFields(fields, s.sync.Now())
	if err != nil {
		return input.Outcome{}, err
	}

	reply := ReplyCreated
	cctx, cancel := s.sync.call(ctx)
	threadID, err := s.messenger.CreateThread(cctx, s.sync.ChannelID(), fmt.Sprintf("🗨 %s GD練習について", fields.DateStr))
	cancel()
	if err != nil {
		s.log.Warn("create recruit thread failed", zap.Error(err))
		threadID = ""
		reply = ReplyThreadMissing
	}

	var participants []entities.UserID
	if s.autoJoin {
		participants = []entities.UserID{actor.ID}
	}
	id, err := s.repo.Create(ctx, fields, actor.ID, threadID, participants)
	if err != nil {
		return input.Outcome{}, fmt.Errorf("create recruit: %w", err)
	}
	s.log.Info("recruit created", zap.Int64("recruit_id", id), zap.Stringer("author_id", actor.ID))
	s.refresh(ctx, id)
	return input.Outcome{Key: reply, Data: map[string]any{"Date": fields.DateStr}}, nil
}

func (s *RecruitService) Join(ctx context.Context, actor input.Actor, id int64) (input.Outcome, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return input.Outcome{}, err
	}
	if err := domain.CheckJoinParticipant(r, actor.ID, s.sync.Now()); err != nil {
		return input.Outcome{}, err
	}
	if err := s.repo.UpdateParticipants(ctx, id, entities.AddUser(r.Participants, actor.ID)); err != nil {
		return input.Outcome{}, fmt.Errorf("join recruit: %w", err)
	}
	s.refresh(ctx, id)
	return input.Outcome{Key: ReplyJoined}, nil
}

func (s *RecruitService) JoinAsMentor(ctx context.Context, actor input.Actor, id int64) (input.Outcome, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return input.Outcome{}, err
	}
	if err := domain.CheckJoinMentor(r, actor.ID, s.isMentor(ctx, actor.ID), s.sync.Now()); err != nil {
		return input.Outcome{}, err
	}
	if err := s.repo.UpdateMentors(ctx, id, entities.AddUser(r.Mentors, actor.ID)); err != nil {
		return input.Outcome{}, fmt.Errorf("join recruit as mentor: %w", err)
	}
	s.refresh(ctx, id)
	return input.Outcome{Key: ReplyJoinedMentor}, nil
}

func (s *RecruitService) Leave(ctx context.Context, actor input.Actor, id int64) (input.Outcome, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return input.Outcome{}, err
	}
	if err := domain.CheckLeave(r, actor.ID); err != nil {
		return input.Outcome{}, err
	}
	if r.IsParticipant(actor.ID) {
		err = s.repo.UpdateParticipants(ctx, id, entities.RemoveUser(r.Participants, actor.ID))
	} else {
		err = s.repo.UpdateMentors(ctx, id, entities.RemoveUser(r.Mentors, actor.ID))
	}
	if err != nil {
		return input.Outcome{}, fmt.Errorf("leave recruit: %w", err)
	}
	s.refresh(ctx, id)
	return input.Outcome{Key: ReplyLeft}, nil
}

func (s *RecruitService) Prefill(ctx context.Context, actor input.Actor, id int64) (entities.Fields, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return entities.Fields{}, err
	}
	if err := domain.CheckEdit(actor.ID, r, s.isAdmin(ctx)); err != nil {
		return entities.Fields{}, err
	}
	return r.Fields(), nil
}

func (s *RecruitService) Edit(ctx context.Context, actor input.Actor, id int64, fields entities.Fields) (input.Outcome, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return input.Outcome{}, err
	}
	if err := domain.CheckEdit(actor.ID, r, s.isAdmin(ctx)); err != nil {
		return input.Outcome{}, err
	}
	fields, err = domain.ValidateFields(fields, s.sync.Now())
	if err != nil {
		return input.Outcome{}, err
	}
	if err := domain.CheckCapacity(r, fields.Capacity); err != nil {
		return input.Outcome{}, err
	}
	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		return input.Outcome{}, fmt.Errorf("edit recruit: %w", err)
	}
	s.log.Info("recruit edited", zap.Int64("recruit_id", id), zap.Stringer("user_id", actor.ID))
	s.refresh(ctx, id)
	return input.Outcome{Key: ReplyUpdated}, nil
}

func (s *RecruitService) Delete(ctx context.Context, actor input.Actor, id int64) (input.Outcome, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return input.Outcome{}, err
	}
	if err := domain.CheckDelete(actor.ID, r, s.isAdmin(ctx)); err != nil {
		return input.Outcome{}, err
	}
	if err := s.repo.MarkDeleted(ctx, id); err != nil {
		return input.Outcome{}, fmt.Errorf("delete recruit: %w", err)
	}
	s.log.Info("recruit deleted", zap.Int64("recruit_id", id), zap.Stringer("user_id", actor.ID))
	s.refresh(ctx, id)
	return input.Outcome{Key: ReplyDeleted}, nil
}

// RequestEvent creates a guild scheduled event for the recruitment. A
// platform failure is reported through the reply key, not as an error.
func (s *RecruitService) RequestEvent(ctx context.Context, actor input.Actor, id int64) (input.Outcome, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return input.Outcome{}, err
	}
	now := s.sync.Now()
	if !domain.StatusOf(r, now).Active() {
		return input.Outcome{}, domain.ErrRecruitmentGone
	}
	if err := domain.CheckEdit(actor.ID, r, s.isAdmin(ctx)); err != nil {
		return input.Outcome{}, err
	}
	startsAt, err := domain.ParseScheduledAt(r.DateStr, now.Location())
	if err != nil {
		return input.Outcome{}, err
	}
	name := fmt.Sprintf("%s GD練習会", r.DateStr)
	cctx, cancel := s.sync.call(ctx)
	err = s.messenger.CreateScheduledEvent(cctx, output.ScheduledEvent{
		Name:        name,
		StartsAt:    startsAt,
		Location:    r.Place,
		Description: r.Message,
	})
	cancel()
	if err != nil {
		s.log.Warn("create scheduled event failed", zap.Int64("recruit_id", id), zap.Error(err))
		return input.Outcome{Key: ReplyEventFailed}, nil
	}
	return input.Outcome{Key: ReplyEventCreated, Data: map[string]any{"Name": name}}, nil
}
