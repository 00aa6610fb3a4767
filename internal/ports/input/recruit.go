package input

import (
	"context"

	"gdbot/internal/domain/entities"
)

// Actor is the user behind an action.
type Actor struct {
	ID     entities.UserID
	Locale string
}

// Outcome names the reply sent to the actor once an action succeeded.
// Key is an i18n message id.
type Outcome struct {
	Key  string
	Data map[string]any
}

// RecruitUseCase is every state-changing action a user can take. Errors are
// domain errors to surface to the actor, or store failures.
type RecruitUseCase interface {
	Create(ctx context.Context, actor Actor, fields entities.Fields) (Outcome, error)
	Join(ctx context.Context, actor Actor, id int64) (Outcome, error)
	JoinAsMentor(ctx context.Context, actor Actor, id int64) (Outcome, error)
	Leave(ctx context.Context, actor Actor, id int64) (Outcome, error)
	Edit(ctx context.Context, actor Actor, id int64, fields entities.Fields) (Outcome, error)
	Delete(ctx context.Context, actor Actor, id int64) (Outcome, error)
	RequestEvent(ctx context.Context, actor Actor, id int64) (Outcome, error)
	// Prefill returns the stored fields for the edit form after checking the
	// actor may edit.
	Prefill(ctx context.Context, actor Actor, id int64) (entities.Fields, error)
}
