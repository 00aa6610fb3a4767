package domain

import "errors"

// Kind classifies a domain error by how the caller must react to it.
type Kind int

const (
	// KindValidation: malformed input, rejected before any store mutation.
	KindValidation Kind = iota + 1
	// KindConflict: the action is illegal in the recruitment's current state.
	KindConflict
	// KindTransport: the chat platform refused or failed a call. Logged, never surfaced.
	KindTransport
)

// Error is a typed domain error. Code is stable and doubles as the i18n key
// suffix ("errors.<code>") for the reply shown to the acting user.
type Error struct {
	Kind Kind
	Code string
	msg  string
}

func (e *Error) Error() string { return e.msg }

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, msg: msg}
}

// Validation errors.
var (
	ErrInvalidDate          = newError(KindValidation, "invalid_date", "date must match YYYY/MM/DD HH:MM")
	ErrDateTimeInPast       = newError(KindValidation, "datetime_in_past", "date and time must be in the future")
	ErrInvalidCapacity      = newError(KindValidation, "invalid_capacity", "capacity must be a positive integer")
	ErrInvalidPlace         = newError(KindValidation, "invalid_place", "place is required")
	ErrCannotReduceCapacity = newError(KindValidation, "cannot_reduce_capacity", "capacity cannot go below the current participant count")
	ErrFormIncomplete       = newError(KindValidation, "form_incomplete", "date, time, place and capacity are required")
)

// State-conflict errors.
var (
	ErrRecruitNotFound    = newError(KindConflict, "recruit_not_found", "recruitment not found")
	ErrRecruitmentGone    = newError(KindConflict, "recruitment_gone", "recruitment is deleted or over")
	ErrAlreadyJoined      = newError(KindConflict, "already_joined", "user already joined this recruitment")
	ErrNotJoined          = newError(KindConflict, "not_joined", "user has not joined this recruitment")
	ErrCapacityExceeded   = newError(KindConflict, "capacity_exceeded", "recruitment is full")
	ErrNotEmpty           = newError(KindConflict, "not_empty", "recruitment still has participants or mentors")
	ErrNotAuthorized      = newError(KindConflict, "not_authorized", "only the author or an administrator can do this")
	ErrMentorNotRequested = newError(KindConflict, "mentor_not_requested", "this recruitment did not request mentors")
	ErrUnconfigured       = newError(KindConflict, "unconfigured", "bot settings are not loaded yet")
)

// Transport errors returned by the chat platform adapter.
var (
	ErrMessageNotFound = newError(KindTransport, "message_not_found", "message not found")
	ErrForbidden       = newError(KindTransport, "forbidden", "missing permission")
	ErrMemberNotFound  = newError(KindTransport, "member_not_found", "member not found")
)

// Code extracts the domain error code from err, or "" when err is not a domain error.
func Code(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsUserFacing reports whether err must be surfaced to the acting user
// (validation or state conflict) rather than logged and swallowed.
func IsUserFacing(err error) bool {
	var de *Error
	if !errors.As(err, &de) {
		return false
	}
	return de.Kind == KindValidation || de.Kind == KindConflict
}
