package application

import (
	"context"
	"fmt"
	"sync/atomic"

	"gdbot/internal/domain"
	"gdbot/internal/domain/entities"
	"gdbot/internal/ports/input"
)

// ActionKind names a user action that mutates a recruitment.
type ActionKind int

const (
	ActionCreate ActionKind = iota + 1
	ActionJoin
	ActionJoinMentor
	ActionLeave
	ActionEdit
	ActionDelete
	ActionEvent
)

func (k ActionKind) String() string {
	switch k {
	case ActionCreate:
		return "create"
	case ActionJoin:
		return "join"
	case ActionJoinMentor:
		return "join_mentor"
	case ActionLeave:
		return "leave"
	case ActionEdit:
		return "edit"
	case ActionDelete:
		return "delete"
	case ActionEvent:
		return "event"
	default:
		return "unknown"
	}
}

// Action is one user interaction. ID is the transport's interaction id and
// is the deduplication key.
type Action struct {
	ID        string
	Kind      ActionKind
	RecruitID int64
	Actor     input.Actor
	Fields    entities.Fields
}

// ActionGate admits each interaction once and routes it to the use case.
// Until MarkReady is called every action is rejected with ErrUnconfigured.
type ActionGate struct {
	dedup   *Deduplicator
	recruit input.RecruitUseCase
	ready   atomic.Bool
}

func NewActionGate(dedup *Deduplicator, recruit input.RecruitUseCase) *ActionGate {
	return &ActionGate{dedup: dedup, recruit: recruit}
}

// MarkReady opens the gate once settings are loaded and the channel is synced.
func (g *ActionGate) MarkReady() { g.ready.Store(true) }

func (g *ActionGate) Ready() bool { return g.ready.Load() }

// Admit reports whether the interaction id is seen for the first time.
func (g *ActionGate) Admit(id string) bool {
	return g.dedup.Observe(id)
}

// Dispatch applies an admitted action.
func (g *ActionGate) Dispatch(ctx context.Context, a Action) (input.Outcome, error) {
	if !g.Ready() {
		return input.Outcome{}, domain.ErrUnconfigured
	}
	switch a.Kind {
	case ActionCreate:
		return g.recruit.Create(ctx, a.Actor, a.Fields)
	case ActionJoin:
		return g.recruit.Join(ctx, a.Actor, a.RecruitID)
	case ActionJoinMentor:
		return g.recruit.JoinAsMentor(ctx, a.Actor, a.RecruitID)
	case ActionLeave:
		return g.recruit.Leave(ctx, a.Actor, a.RecruitID)
	case ActionEdit:
		return g.recruit.Edit(ctx, a.Actor, a.RecruitID, a.Fields)
	case ActionDelete:
		return g.recruit.Delete(ctx, a.Actor, a.RecruitID)
	case ActionEvent:
		return g.recruit.RequestEvent(ctx, a.Actor, a.RecruitID)
	default:
		return input.Outcome{}, fmt.Errorf("unknown action kind %d", a.Kind)
	}
}

// Handle admits and dispatches a. A duplicate returns admitted=false and no
// outcome; the caller must not reply to it.
func (g *ActionGate) Handle(ctx context.Context, a Action) (out input.Outcome, admitted bool, err error) {
	if !g.Admit(a.ID) {
		return input.Outcome{}, false, nil
	}
	out, err = g.Dispatch(ctx, a)
	return out, true, err
}
