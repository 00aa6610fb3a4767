package entities

import (
	"slices"
	"strconv"
	"time"
)

// UserID is a Discord user snowflake. Persisted as a JSON integer.
type UserID int64

func (u UserID) String() string { return strconv.FormatInt(int64(u), 10) }

// ParseUserID parses a snowflake string as delivered by the Discord API.
func ParseUserID(s string) (UserID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return UserID(n), nil
}

// Fields are the user-editable parts of a recruitment.
type Fields struct {
	DateStr         string // YYYY/MM/DD HH:MM in the reference zone
	Place           string
	Capacity        int
	Message         string
	MentorRequested bool
	Industry        string
}

// Recruit is one signup post for a scheduled group-discussion session.
type Recruit struct {
	ID               int64
	DateStr          string
	Place            string
	Capacity         int
	Message          string
	MentorRequested  bool
	Industry         string
	AuthorID         UserID
	ThreadID         string
	MessageID        string // empty until the first successful render
	Participants     []UserID
	Mentors          []UserID
	Deleted          bool
	NotificationSent bool
	CreatedAt        time.Time
}

func (r *Recruit) IsParticipant(u UserID) bool { return slices.Contains(r.Participants, u) }

func (r *Recruit) IsMentor(u UserID) bool { return slices.Contains(r.Mentors, u) }

// HasJoined reports whether u holds a participant or mentor slot.
func (r *Recruit) HasJoined(u UserID) bool { return r.IsParticipant(u) || r.IsMentor(u) }

func (r *Recruit) IsEmpty() bool { return len(r.Participants) == 0 && len(r.Mentors) == 0 }

func (r *Recruit) Fields() Fields {
	return Fields{
		DateStr:         r.DateStr,
		Place:           r.Place,
		Capacity:        r.Capacity,
		Message:         r.Message,
		MentorRequested: r.MentorRequested,
		Industry:        r.Industry,
	}
}

// Recipients returns participants followed by mentors, without duplicates.
func (r *Recruit) Recipients() []UserID {
	out := make([]UserID, 0, len(r.Participants)+len(r.Mentors))
	for _, u := range r.Participants {
		out = AddUser(out, u)
	}
	for _, u := range r.Mentors {
		out = AddUser(out, u)
	}
	return out
}

// AddUser returns a copy of ids with u appended, unless already present.
func AddUser(ids []UserID, u UserID) []UserID {
	if slices.Contains(ids, u) {
		return slices.Clone(ids)
	}
	out := make([]UserID, 0, len(ids)+1)
	out = append(out, ids...)
	return append(out, u)
}

// RemoveUser returns a copy of ids without u, preserving order.
func RemoveUser(ids []UserID, u UserID) []UserID {
	out := make([]UserID, 0, len(ids))
	for _, id := range ids {
		if id != u {
			out = append(out, id)
		}
	}
	return out
}
