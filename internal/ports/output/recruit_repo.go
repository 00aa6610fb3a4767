package output

import (
	"context"

	"gdbot/internal/domain/entities"
)

// RecruitRepository is the durable record of recruitments. It enforces no
// domain invariant; callers validate with the domain package first. Writes
// are last-writer-wins per recruitment. Unknown ids yield domain.ErrRecruitNotFound.
type RecruitRepository interface {
	Create(ctx context.Context, fields entities.Fields, authorID entities.UserID, threadID string, participants []entities.UserID) (int64, error)
	Get(ctx context.Context, id int64) (*entities.Recruit, error)
	// ListAll returns every recruitment, deleted ones included, by id ascending.
	ListAll(ctx context.Context) ([]entities.Recruit, error)
	UpdateParticipants(ctx context.Context, id int64, participants []entities.UserID) error
	UpdateMentors(ctx context.Context, id int64, mentors []entities.UserID) error
	UpdateFields(ctx context.Context, id int64, fields entities.Fields) error
	SetExternalMessageRef(ctx context.Context, id int64, messageID string) error
	MarkDeleted(ctx context.Context, id int64) error
	MarkNotificationSent(ctx context.Context, id int64) error
}
