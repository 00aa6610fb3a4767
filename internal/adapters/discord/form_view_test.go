package discord

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gdbot/internal/config"
	"gdbot/internal/domain"
	"gdbot/internal/domain/form"
)

type keyT struct{}

func (keyT) T(locale, key string, _ map[string]any) string { return locale + "|" + key }

func testView(t *testing.T) formView {
	t.Helper()
	catalog, err := config.LoadCatalog()
	require.NoError(t, err)
	return formView{catalog: catalog, t: keyT{}}
}

func buttonByID(t *testing.T, rows []discordgo.MessageComponent, customID string) discordgo.Button {
	t.Helper()
	for _, r := range rows {
		for _, c := range r.(discordgo.ActionsRow).Components {
			if b, ok := c.(discordgo.Button); ok && b.CustomID == customID {
				return b
			}
		}
	}
	t.Fatalf("button %q not found", customID)
	return discordgo.Button{}
}

func selectByID(t *testing.T, rows []discordgo.MessageComponent, customID string) discordgo.SelectMenu {
	t.Helper()
	for _, r := range rows {
		for _, c := range r.(discordgo.ActionsRow).Components {
			if m, ok := c.(discordgo.SelectMenu); ok && m.CustomID == customID {
				return m
			}
		}
	}
	t.Fatalf("select %q not found", customID)
	return discordgo.SelectMenu{}
}

func completeState() form.State {
	s := form.New()
	for _, in := range []form.Input{
		form.SetDate{Date: "2026/10/20"},
		form.SelectHour{Hour: "18"},
		form.SelectMinute{Minute: "00"},
		form.ConfirmTime{},
		form.SetPlace{Place: "Zoom"},
		form.SelectCapacity{Capacity: 4},
	} {
		s = form.Reduce(s, in)
	}
	return s
}

func TestFormView_SubmitEnabledOnlyWhenComplete(t *testing.T) {
	v := testView(t)

	empty := v.components("s1", form.New())
	assert.True(t, buttonByID(t, empty, formID("s1", opSubmit)).Disabled)

	done := completeState()
	require.Equal(t, form.Main, done.Screen)
	rows := v.components("s1", done)
	submit := buttonByID(t, rows, formID("s1", opSubmit))
	assert.False(t, submit.Disabled)
	assert.Equal(t, "募集を作成", submit.Label)

	done.RecruitID = 5
	assert.Equal(t, "更新する", buttonByID(t, v.components("s1", done), formID("s1", opSubmit)).Label)
}

func TestFormView_DateScreen(t *testing.T) {
	v := testView(t)
	s := form.Reduce(form.New(), form.SetDate{Date: "2026/10/20"})
	require.Equal(t, form.DateEntry, s.Screen)

	rows := v.components("s1", s)
	hours := selectByID(t, rows, formID("s1", opHour))
	assert.Len(t, hours.Options, 24)
	assert.Equal(t, "08", hours.Options[0].Value)
	minutes := selectByID(t, rows, formID("s1", opMinute))
	assert.Len(t, minutes.Options, 12)
	assert.True(t, buttonByID(t, rows, formID("s1", opConfirm)).Disabled)

	s = form.Reduce(s, form.SelectHour{Hour: "18"})
	s = form.Reduce(s, form.SelectMinute{Minute: "30"})
	rows = v.components("s1", s)
	assert.False(t, buttonByID(t, rows, formID("s1", opConfirm)).Disabled)
	for _, o := range selectByID(t, rows, formID("s1", opHour)).Options {
		assert.Equal(t, o.Value == "18", o.Default, o.Value)
	}
}

func TestFormView_NoteScreen(t *testing.T) {
	v := testView(t)
	s := form.Reduce(form.New(), form.Open{Screen: form.NoteEntry})
	rows := v.components("s1", s)

	assert.Contains(t, buttonByID(t, rows, formID("s1", opMentor)).Label, "OFF")
	industries := selectByID(t, rows, formID("s1", opIndustry))
	assert.Equal(t, noIndustryValue, industries.Options[0].Value)
	assert.True(t, industries.Options[0].Default)
	assert.LessOrEqual(t, len(industries.Options), 25)
	buttonByID(t, rows, formID("s1", opBack))
}

func TestFormView_Embed(t *testing.T) {
	v := testView(t)
	s := completeState()
	e := v.embed(s, "ja")
	assert.Equal(t, "募集作成フォーム", e.Title)
	assert.Equal(t, "ja|info.form_open", e.Description)
	require.Len(t, e.Fields, 6)
	assert.Equal(t, "2026/10/20 18:00", e.Fields[0].Value)
	assert.Equal(t, "4名", e.Fields[2].Value)
	assert.Equal(t, unsetText, e.Fields[3].Value)

	s.Problem = domain.ErrDateTimeInPast.Code
	assert.Contains(t, v.embed(s, "en").Description, "en|errors.datetime_in_past")
}

func TestFormView_Modal(t *testing.T) {
	v := testView(t)
	s := completeState()

	resp := v.modal("s1", opPlace, s)
	require.NotNil(t, resp)
	assert.Equal(t, formModalID("s1", fieldPlace), resp.Data.CustomID)
	input := resp.Data.Components[0].(discordgo.ActionsRow).Components[0].(discordgo.TextInput)
	assert.Equal(t, "Zoom", input.Value)
	assert.Equal(t, modalInputID, input.CustomID)

	assert.NotNil(t, v.modal("s1", opDate, s))
	assert.NotNil(t, v.modal("s1", opMessage, s))
	assert.Nil(t, v.modal("s1", opHour, s))
}

func TestComponentInput(t *testing.T) {
	tests := []struct {
		op     string
		values []string
		want   form.Input
	}{
		{opOpenCapacity, nil, form.Open{Screen: form.CapacityEntry}},
		{opOpenNote, nil, form.Open{Screen: form.NoteEntry}},
		{opHour, []string{"09"}, form.SelectHour{Hour: "09"}},
		{opMinute, []string{"45"}, form.SelectMinute{Minute: "45"}},
		{opConfirm, nil, form.ConfirmTime{}},
		{opCapacity, []string{"6"}, form.SelectCapacity{Capacity: 6}},
		{opCapacity, []string{"x"}, form.SelectCapacity{Capacity: 0}},
		{opMentor, nil, form.ToggleMentor{}},
		{opIndustry, []string{"IT"}, form.SelectIndustry{Industry: "IT"}},
		{opIndustry, []string{noIndustryValue}, form.SelectIndustry{Industry: ""}},
		{opBack, nil, form.Back{}},
		{"bogus", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			assert.Equal(t, tt.want, componentInput(tt.op, tt.values))
		})
	}
}

func TestModalInput(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, form.SetDate{Date: "2026/10/20"}, modalInput(fieldDate, "10/20", now))
	assert.Equal(t, form.SetDate{Date: "2027/01/05"}, modalInput(fieldDate, "2027-1-5", now))
	assert.Equal(t, form.SetDate{}, modalInput(fieldDate, "someday", now))
	assert.Equal(t, form.SetPlace{Place: "Zoom"}, modalInput(fieldPlace, "Zoom", now))
	assert.Equal(t, form.SetMessage{Message: "hi"}, modalInput(fieldMessage, "hi", now))
	assert.Nil(t, modalInput("other", "x", now))

	s := form.Reduce(form.New(), modalInput(fieldDate, "someday", now))
	assert.Equal(t, domain.ErrInvalidDate.Code, s.Problem)
}
