package application

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gdbot/internal/domain/entities"
	"gdbot/internal/ports/output"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func openRecruit() *entities.Recruit {
	return &entities.Recruit{
		ID:       1,
		DateStr:  "2026/10/20 18:00",
		Place:    "Zoom",
		Capacity: 4,
		AuthorID: 100,
		ThreadID: "555",
	}
}

func kinds(rows [][]output.Control) [][]output.ControlKind {
	out := make([][]output.ControlKind, len(rows))
	for i, row := range rows {
		for _, c := range row {
			out[i] = append(out[i], c.Kind)
		}
	}
	return out
}

func TestRender_Open(t *testing.T) {
	now := at("2026/10/19 12:00")
	msg := Render(openRecruit(), Names{Author: "Alice"}, "42", now)

	newGoldie(t).Assert(t, "render_open", []byte(msg.Content))
	assert.Equal(t, [][]output.ControlKind{
		{output.ControlJoin, output.ControlLeave},
		{output.ControlThreadLink, output.ControlMake},
		{output.ControlEdit, output.ControlDelete, output.ControlEvent},
	}, kinds(msg.Controls))
	assert.Equal(t, "https://discord.com/channels/42/555", msg.Controls[1][0].URL)
	assert.Equal(t, int64(1), msg.Controls[0][0].RecruitID)
}

func TestRender_FullWithMentors(t *testing.T) {
	now := at("2026/10/19 12:00")
	r := openRecruit()
	r.Place = "渋谷オフィス"
	r.Capacity = 2
	r.Message = "よろしくお願いします"
	r.MentorRequested = true
	r.Industry = "IT"
	r.Participants = []entities.UserID{1, 2}
	r.Mentors = []entities.UserID{3}
	names := Names{Author: "Alice", Participants: []string{"Bob", "Carol"}, Mentors: []string{"Dave"}}

	msg := Render(r, names, "42", now)

	newGoldie(t).Assert(t, "render_full_mentor", []byte(msg.Content))
	assert.Equal(t, []output.ControlKind{output.ControlJoin, output.ControlJoinMentor, output.ControlLeave}, kinds(msg.Controls)[0])
}

func TestRender_Expired(t *testing.T) {
	now := at("2026/10/19 12:00")
	r := openRecruit()
	r.DateStr = "2026/10/19 10:00"
	r.Participants = []entities.UserID{1}

	msg := Render(r, Names{Author: "Alice", Participants: []string{"Bob"}}, "42", now)

	newGoldie(t).Assert(t, "render_expired", []byte(msg.Content))
	assert.Equal(t, [][]output.ControlKind{{output.ControlThreadLink}}, kinds(msg.Controls))
}

func TestRender_Deleted(t *testing.T) {
	now := at("2026/10/19 12:00")
	r := openRecruit()
	r.Deleted = true
	r.ThreadID = ""

	msg := Render(r, Names{}, "42", now)

	newGoldie(t).Assert(t, "render_deleted", []byte(msg.Content))
	assert.Nil(t, msg.Controls)
}

func TestRender_JoinRoundTrip(t *testing.T) {
	now := at("2026/10/19 12:00")
	r := openRecruit()

	before := Render(r, Names{Author: "Alice"}, "42", now).Content
	assert.Contains(t, before, "(0/4名)")
	assert.Contains(t, before, "👥 参加者：なし")

	r.Participants = entities.AddUser(r.Participants, 7)
	after := Render(r, Names{Author: "Alice", Participants: []string{"Bob"}}, "42", now).Content
	assert.Contains(t, after, "(1/4名)  [🧑・・・]")
	assert.Contains(t, after, "👥 参加者：Bob")
}

func TestRender_IsDeterministic(t *testing.T) {
	now := at("2026/10/19 12:00")
	names := Names{Author: "Alice"}
	assert.Equal(t, Render(openRecruit(), names, "42", now), Render(openRecruit(), names, "42", now))
}

func TestHeaderMessage(t *testing.T) {
	msg := HeaderMessage()
	assert.Equal(t, "📢 ボタンはこちら", msg.Content)
	require.Len(t, msg.Controls, 1)
	assert.Equal(t, []output.ControlKind{output.ControlMake, output.ControlRefresh}, kinds(msg.Controls)[0])
}

func TestRenderSummary(t *testing.T) {
	now := at("2026/10/19 12:00")
	recruits := []entities.Recruit{
		{ID: 1, DateStr: "2026/10/20 18:00", Place: "Zoom", Capacity: 4, Participants: []entities.UserID{1}},
		{ID: 2, DateStr: "2026/10/21 19:30", Place: "渋谷オフィス", Message: "よろしくお願いします", Capacity: 2, Participants: []entities.UserID{1, 2}},
		{ID: 3, DateStr: "2026/10/18 19:30", Place: "Zoom", Capacity: 2},
		{ID: 4, DateStr: "2026/10/22 19:30", Place: "Zoom", Capacity: 2, Deleted: true},
	}

	newGoldie(t).Assert(t, "summary", []byte(RenderSummary(recruits, now)))
	assert.Equal(t, "現在募集はありません。", RenderSummary(recruits[2:], now))
}

func TestThreadURL(t *testing.T) {
	assert.Equal(t, "", ThreadURL("", "1"))
	assert.Equal(t, "", ThreadURL("1", ""))
	assert.Equal(t, "https://discord.com/channels/1/2", ThreadURL("1", "2"))
}
