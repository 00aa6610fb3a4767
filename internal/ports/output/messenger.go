package output

import (
	"context"
	"time"

	"gdbot/internal/domain/entities"
)

// ControlKind identifies what a control does when pressed.
type ControlKind int

const (
	ControlJoin ControlKind = iota
	ControlJoinMentor
	ControlLeave
	ControlEdit
	ControlDelete
	ControlEvent
	ControlThreadLink
	ControlMake
	ControlRefresh
)

// Control is a transport-neutral button. RecruitID is zero for controls that
// are not bound to a recruitment; URL is only set on links.
type Control struct {
	Kind      ControlKind
	Label     string
	RecruitID int64
	URL       string
}

// Message is a rendered post: text plus rows of controls.
type Message struct {
	Content  string
	Controls [][]Control
}

// ScheduledEvent is a guild event created from a recruitment.
type ScheduledEvent struct {
	Name        string
	StartsAt    time.Time
	Location    string
	Description string
}

// Messenger is the chat transport. Edit and delete report a vanished target
// as domain.ErrMessageNotFound and a permission problem as domain.ErrForbidden.
type Messenger interface {
	SendMessage(ctx context.Context, channelID string, msg Message) (string, error)
	EditMessage(ctx context.Context, channelID, messageID string, msg Message) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	CreateThread(ctx context.Context, channelID, name string) (string, error)
	// FetchMember returns the member's display name or domain.ErrMemberNotFound.
	FetchMember(ctx context.Context, userID entities.UserID) (string, error)
	CreateScheduledEvent(ctx context.Context, ev ScheduledEvent) error
	SendDirect(ctx context.Context, userID entities.UserID, content string) error
	SetTopic(ctx context.Context, channelID, topic string) error
}

// Authorizer answers role membership questions.
type Authorizer interface {
	HasRole(ctx context.Context, userID entities.UserID, roleID string) (bool, error)
}
