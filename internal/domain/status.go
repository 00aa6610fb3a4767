package domain

import (
	"time"

	"gdbot/internal/domain/entities"
)

// Status is the derived display state of a recruitment.
type Status int

const (
	StatusOpen Status = iota
	StatusFull
	StatusExpired
	StatusDeleted
)

func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusFull:
		return "full"
	case StatusExpired:
		return "expired"
	case StatusDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Active reports whether the recruitment still accepts signups or leaves.
func (s Status) Active() bool { return s == StatusOpen || s == StatusFull }

// ExpiryGrace is how long after its start a recruitment stays active.
const ExpiryGrace = time.Hour

// StatusOf computes the status of r at now. The date is interpreted in
// now's location; an unparseable date counts as expired.
func StatusOf(r *entities.Recruit, now time.Time) Status {
	if r.Deleted {
		return StatusDeleted
	}
	at, err := ParseScheduledAt(r.DateStr, now.Location())
	if err != nil || at.Before(now.Add(-ExpiryGrace)) {
		return StatusExpired
	}
	if len(r.Participants) >= r.Capacity {
		return StatusFull
	}
	return StatusOpen
}

func CanJoinAsParticipant(r *entities.Recruit, u entities.UserID, now time.Time) bool {
	return !r.HasJoined(u) && StatusOf(r, now) == StatusOpen
}

// CanJoinAsMentor ignores capacity: mentors never take a participant slot.
func CanJoinAsMentor(r *entities.Recruit, u entities.UserID) bool {
	return !r.HasJoined(u)
}

func CanLeave(r *entities.Recruit, u entities.UserID) bool {
	return r.HasJoined(u)
}

func CanDelete(r *entities.Recruit) bool {
	return r.IsEmpty()
}

// CanEdit reports whether u is the author or passes the externally supplied
// role predicate.
func CanEdit(u entities.UserID, r *entities.Recruit, authorized func(entities.UserID) bool) bool {
	if u == r.AuthorID {
		return true
	}
	return authorized != nil && authorized(u)
}

// CheckJoinParticipant explains why CanJoinAsParticipant is false.
func CheckJoinParticipant(r *entities.Recruit, u entities.UserID, now time.Time) error {
	switch StatusOf(r, now) {
	case StatusDeleted, StatusExpired:
		return ErrRecruitmentGone
	case StatusFull:
		if r.HasJoined(u) {
			return ErrAlreadyJoined
		}
		return ErrCapacityExceeded
	}
	if r.HasJoined(u) {
		return ErrAlreadyJoined
	}
	return nil
}

// CheckJoinMentor requires the recruitment to have asked for mentors and the
// user to hold the mentor role.
func CheckJoinMentor(r *entities.Recruit, u entities.UserID, isMentor bool, now time.Time) error {
	if !StatusOf(r, now).Active() {
		return ErrRecruitmentGone
	}
	if !r.MentorRequested {
		return ErrMentorNotRequested
	}
	if !isMentor {
		return ErrNotAuthorized
	}
	if !CanJoinAsMentor(r, u) {
		return ErrAlreadyJoined
	}
	return nil
}

func CheckLeave(r *entities.Recruit, u entities.UserID) error {
	if r.Deleted {
		return ErrRecruitmentGone
	}
	if !CanLeave(r, u) {
		return ErrNotJoined
	}
	return nil
}

func CheckDelete(u entities.UserID, r *entities.Recruit, authorized func(entities.UserID) bool) error {
	if r.Deleted {
		return ErrRecruitmentGone
	}
	if !CanEdit(u, r, authorized) {
		return ErrNotAuthorized
	}
	if !CanDelete(r) {
		return ErrNotEmpty
	}
	return nil
}

func CheckEdit(u entities.UserID, r *entities.Recruit, authorized func(entities.UserID) bool) error {
	if r.Deleted {
		return ErrRecruitmentGone
	}
	if !CanEdit(u, r, authorized) {
		return ErrNotAuthorized
	}
	return nil
}

// CheckCapacity rejects an edit that would leave more participants than slots.
func CheckCapacity(r *entities.Recruit, capacity int) error {
	if capacity < len(r.Participants) {
		return ErrCannotReduceCapacity
	}
	return nil
}
