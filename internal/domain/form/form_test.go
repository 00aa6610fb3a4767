package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gdbot/internal/domain"
	"gdbot/internal/domain/entities"
)

func fill(s State, inputs ...Input) State {
	for _, in := range inputs {
		s = Reduce(s, in)
	}
	return s
}

func TestReduce_CreateFlow(t *testing.T) {
	s := New()
	assert.Equal(t, Main, s.Screen)
	assert.False(t, s.Complete())

	s = Reduce(s, SetDate{Date: "2026/10/20"})
	assert.Equal(t, DateEntry, s.Screen)
	assert.Equal(t, "2026/10/20", s.Values.Date)

	s = Reduce(s, ConfirmTime{})
	assert.Equal(t, DateEntry, s.Screen, "time not chosen yet")
	assert.Equal(t, domain.ErrInvalidDate.Code, s.Problem)

	s = fill(s, SelectHour{Hour: "18"}, SelectMinute{Minute: "5"}, ConfirmTime{})
	assert.Equal(t, Main, s.Screen)
	assert.Empty(t, s.Problem)
	assert.Equal(t, "2026/10/20 18:05", s.DateStr())

	s = Reduce(s, SetPlace{Place: "  Zoom  "})
	assert.False(t, s.Complete())

	s = Reduce(s, Open{Screen: CapacityEntry})
	assert.Equal(t, CapacityEntry, s.Screen)
	s = Reduce(s, SelectCapacity{Capacity: 4})
	assert.Equal(t, Main, s.Screen)
	assert.True(t, s.Complete())

	f, err := s.Fields()
	require.NoError(t, err)
	assert.Equal(t, entities.Fields{DateStr: "2026/10/20 18:05", Place: "Zoom", Capacity: 4}, f)
}

func TestReduce_NoteScreen(t *testing.T) {
	s := Reduce(New(), Open{Screen: NoteEntry})
	assert.Equal(t, NoteEntry, s.Screen)

	s = fill(s, SetMessage{Message: "ES持参"}, ToggleMentor{}, SelectIndustry{Industry: "コンサル"})
	assert.Equal(t, NoteEntry, s.Screen)
	assert.True(t, s.Values.MentorRequested)
	assert.Equal(t, "ES持参", s.Values.Message)
	assert.Equal(t, "コンサル", s.Values.Industry)

	s = Reduce(s, ToggleMentor{})
	assert.False(t, s.Values.MentorRequested, "toggling twice is a no-op")

	s = Reduce(s, Back{})
	assert.Equal(t, Main, s.Screen)
}

func TestReduce_RejectsBadInput(t *testing.T) {
	s := Reduce(New(), SetDate{Date: "10/20"})
	assert.Equal(t, Main, s.Screen)
	assert.Empty(t, s.Values.Date)
	assert.Equal(t, domain.ErrInvalidDate.Code, s.Problem)

	s = Reduce(s, SelectHour{Hour: "24"})
	assert.Empty(t, s.Values.Hour)

	s = Reduce(s, SelectCapacity{Capacity: 0})
	assert.Equal(t, domain.ErrInvalidCapacity.Code, s.Problem)
	assert.Zero(t, s.Values.Capacity)

	s = Reduce(s, SetPlace{Place: "Meet"})
	assert.Empty(t, s.Problem, "accepted input clears the problem")
}

func TestReduce_RejectsTrailingJunkInTime(t *testing.T) {
	for _, in := range []Input{
		SelectHour{Hour: "12abc"},
		SelectHour{Hour: "1 2"},
		SelectMinute{Minute: "5x"},
		SelectMinute{Minute: "-1"},
	} {
		s := Reduce(New(), in)
		assert.Equal(t, domain.ErrInvalidDate.Code, s.Problem, "%#v", in)
		assert.Empty(t, s.Values.Hour, "%#v", in)
		assert.Empty(t, s.Values.Minute, "%#v", in)
	}

	s := Reduce(New(), SelectHour{Hour: " 07 "})
	assert.Equal(t, "07", s.Values.Hour)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	s := New()
	next := Reduce(s, SetPlace{Place: "Zoom"})
	assert.Empty(t, s.Values.Place)
	assert.Equal(t, "Zoom", next.Values.Place)
	assert.Equal(t, s, Reduce(s, nil))
}

func TestForEdit(t *testing.T) {
	s := ForEdit(42, entities.Fields{
		DateStr:         "2026/10/20 18:30",
		Place:           "Zoom",
		Capacity:        5,
		Message:         "hi",
		MentorRequested: true,
		Industry:        "金融",
	})
	assert.True(t, s.Editing())
	assert.Equal(t, "2026/10/20", s.Values.Date)
	assert.Equal(t, "18", s.Values.Hour)
	assert.Equal(t, "30", s.Values.Minute)
	assert.True(t, s.Complete())

	f, err := s.Fields()
	require.NoError(t, err)
	assert.Equal(t, "2026/10/20 18:30", f.DateStr)
	assert.True(t, f.MentorRequested)

	broken := ForEdit(1, entities.Fields{DateStr: "garbage", Place: "Zoom", Capacity: 3})
	assert.False(t, broken.Complete())
	_, err = broken.Fields()
	assert.ErrorIs(t, err, domain.ErrFormIncomplete)
}
