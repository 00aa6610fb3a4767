// Package form models the recruitment create/edit form as a finite state
// machine. Rendering lives in the Discord adapter; this package only decides
// which screen is shown and which values are set.
package form

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gdbot/internal/domain"
	"gdbot/internal/domain/entities"
)

// Screen is the tag of the form's current screen.
type Screen int

const (
	Main Screen = iota
	DateEntry
	CapacityEntry
	NoteEntry
)

func (s Screen) String() string {
	switch s {
	case Main:
		return "main"
	case DateEntry:
		return "date"
	case CapacityEntry:
		return "capacity"
	case NoteEntry:
		return "note"
	default:
		return "unknown"
	}
}

const dayLayout = "2006/01/02"

// Values holds what the user entered so far. Empty strings and a zero
// capacity mean "not set".
type Values struct {
	Date            string // YYYY/MM/DD
	Hour            string // "00".."23"
	Minute          string // "00".."59"
	Place           string
	Capacity        int
	Message         string
	MentorRequested bool
	Industry        string
}

// State is one form session. RecruitID is zero while creating.
type State struct {
	Screen    Screen
	RecruitID int64
	Values    Values
	// Problem is the domain error code of the last rejected input, cleared by
	// the next accepted one.
	Problem string
}

// New returns the empty create form.
func New() State { return State{Screen: Main} }

// ForEdit pre-fills the form from a stored recruitment. A stored date that no
// longer parses leaves the date and time unset.
func ForEdit(id int64, f entities.Fields) State {
	s := State{Screen: Main, RecruitID: id}
	s.Values.Place = f.Place
	s.Values.Capacity = f.Capacity
	s.Values.Message = f.Message
	s.Values.MentorRequested = f.MentorRequested
	s.Values.Industry = f.Industry
	if t, err := time.Parse(domain.DateLayout, strings.TrimSpace(f.DateStr)); err == nil {
		s.Values.Date = t.Format(dayLayout)
		s.Values.Hour = t.Format("15")
		s.Values.Minute = t.Format("04")
	}
	return s
}

func (s State) Editing() bool { return s.RecruitID != 0 }

func (s State) TimeComplete() bool {
	return s.Values.Hour != "" && s.Values.Minute != ""
}

// Complete reports whether the submit button may be enabled.
func (s State) Complete() bool {
	v := s.Values
	return v.Date != "" && s.TimeComplete() && strings.TrimSpace(v.Place) != "" && v.Capacity > 0
}

// DateStr joins date and time in the storage layout, or "" when incomplete.
func (s State) DateStr() string {
	if s.Values.Date == "" || !s.TimeComplete() {
		return ""
	}
	return fmt.Sprintf("%s %s:%s", s.Values.Date, s.Values.Hour, s.Values.Minute)
}

// Fields converts the form into storable fields. Semantic validation (past
// dates, capacity bounds) is left to domain.ValidateFields.
func (s State) Fields() (entities.Fields, error) {
	if !s.Complete() {
		return entities.Fields{}, domain.ErrFormIncomplete
	}
	return entities.Fields{
		DateStr:         s.DateStr(),
		Place:           strings.TrimSpace(s.Values.Place),
		Capacity:        s.Values.Capacity,
		Message:         strings.TrimSpace(s.Values.Message),
		MentorRequested: s.Values.MentorRequested,
		Industry:        s.Values.Industry,
	}, nil
}

// Input is one user interaction with the form. The set of inputs is closed.
type Input interface {
	apply(State) State
}

type (
	// Open switches to another screen without changing values.
	Open struct{ Screen Screen }
	// SetDate is the date modal submission; on success the time selectors open.
	SetDate        struct{ Date string }
	SelectHour     struct{ Hour string }
	SelectMinute   struct{ Minute string }
	ConfirmTime    struct{}
	SetPlace       struct{ Place string }
	SelectCapacity struct{ Capacity int }
	SetMessage     struct{ Message string }
	ToggleMentor   struct{}
	SelectIndustry struct{ Industry string }
	Back           struct{}
)

// Reduce applies in to s and returns the next state. It never mutates s.
func Reduce(s State, in Input) State {
	if in == nil {
		return s
	}
	return in.apply(s)
}

func (in Open) apply(s State) State {
	s.Screen = in.Screen
	s.Problem = ""
	return s
}

func (in SetDate) apply(s State) State {
	d, err := time.Parse(dayLayout, strings.TrimSpace(in.Date))
	if err != nil {
		s.Problem = domain.ErrInvalidDate.Code
		return s
	}
	s.Values.Date = d.Format(dayLayout)
	s.Screen = DateEntry
	s.Problem = ""
	return s
}

func (in SelectHour) apply(s State) State {
	h, ok := twoDigits(in.Hour, 23)
	if !ok {
		s.Problem = domain.ErrInvalidDate.Code
		return s
	}
	s.Values.Hour = h
	s.Problem = ""
	return s
}

func (in SelectMinute) apply(s State) State {
	m, ok := twoDigits(in.Minute, 59)
	if !ok {
		s.Problem = domain.ErrInvalidDate.Code
		return s
	}
	s.Values.Minute = m
	s.Problem = ""
	return s
}

func (ConfirmTime) apply(s State) State {
	if !s.TimeComplete() {
		s.Problem = domain.ErrInvalidDate.Code
		return s
	}
	s.Screen = Main
	s.Problem = ""
	return s
}

func (in SetPlace) apply(s State) State {
	s.Values.Place = strings.TrimSpace(in.Place)
	s.Problem = ""
	return s
}

func (in SelectCapacity) apply(s State) State {
	if in.Capacity < 1 {
		s.Problem = domain.ErrInvalidCapacity.Code
		return s
	}
	s.Values.Capacity = in.Capacity
	s.Screen = Main
	s.Problem = ""
	return s
}

func (in SetMessage) apply(s State) State {
	s.Values.Message = strings.TrimSpace(in.Message)
	s.Problem = ""
	return s
}

func (ToggleMentor) apply(s State) State {
	s.Values.MentorRequested = !s.Values.MentorRequested
	s.Problem = ""
	return s
}

func (in SelectIndustry) apply(s State) State {
	s.Values.Industry = strings.TrimSpace(in.Industry)
	s.Problem = ""
	return s
}

func (Back) apply(s State) State {
	s.Screen = Main
	s.Problem = ""
	return s
}

func twoDigits(v string, limit int) (string, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 || n > limit {
		return "", false
	}
	return fmt.Sprintf("%02d", n), true
}
