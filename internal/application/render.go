package application

import (
	"fmt"
	"strings"
	"time"

	"gdbot/internal/domain"
	"gdbot/internal/domain/entities"
	"gdbot/internal/ports/output"
)

const (
	separator       = "-----------------------------"
	unknownUser     = "不明なユーザー"
	none            = "なし"
	headerContent   = "📢 ボタンはこちら"
	noRecruitsText  = "現在募集はありません。"
	slotFilledRune  = "🧑"
	slotEmptyRune   = "・"
	threadLinkLabel = "スレッドへ"
)

// Names carries resolved display names for one recruitment, in the same
// order as its participant and mentor lists.
type Names struct {
	Author       string
	Participants []string
	Mentors      []string
}

// ThreadURL links to a thread in the guild, or "" when either id is unknown.
func ThreadURL(guildID, threadID string) string {
	if guildID == "" || threadID == "" {
		return ""
	}
	return fmt.Sprintf("https://discord.com/channels/%s/%s", guildID, threadID)
}

// Render builds the channel post for r. It is a pure function of its inputs.
func Render(r *entities.Recruit, names Names, guildID string, now time.Time) output.Message {
	status := domain.StatusOf(r, now)
	return output.Message{
		Content:  renderBlock(r, names, status),
		Controls: renderControls(r, status, guildID),
	}
}

func renderBlock(r *entities.Recruit, names Names, status domain.Status) string {
	filled := len(r.Participants)
	author := names.Author
	if author == "" {
		author = unknownUser
	}
	message := r.Message
	if message == "" {
		message = none
	}

	var label string
	switch status {
	case domain.StatusDeleted:
		label = "【削除】"
	case domain.StatusExpired:
		label = "【終了】"
	}

	lines := make([]string, 0, 16)
	if label != "" {
		lines = append(lines, fmt.Sprintf("(%d/%d名)", filled, r.Capacity))
	} else {
		empty := max(r.Capacity-filled, 0)
		slots := strings.Repeat(slotFilledRune, filled) + strings.Repeat(slotEmptyRune, empty)
		lines = append(lines, fmt.Sprintf("(%d/%d名)  [%s]", filled, r.Capacity, slots))
	}
	lines = append(lines,
		separator,
		"👤 募集者："+author,
		separator,
		"【場所】",
		r.Place,
		separator,
		"【メッセージ】",
		message,
		separator,
	)

	if label != "" {
		return fmt.Sprintf("> %s📅 %s\n```\n%s\n```", label, r.DateStr, strings.Join(lines, "\n"))
	}

	if r.MentorRequested {
		lines = append(lines, "🤝メンター希望：ON")
	}
	if r.Industry != "" {
		lines = append(lines, "🏢想定業界: "+r.Industry)
	}
	if status == domain.StatusFull {
		lines = append(lines, "🟡 満員")
	} else {
		lines = append(lines, "⬜ 募集中")
	}
	lines = append(lines,
		"👥 参加者："+joinNames(names.Participants),
		"🤝 メンター："+joinNames(names.Mentors),
	)
	return fmt.Sprintf("# 📅 %s\n```\n%s\n```", r.DateStr, strings.Join(lines, "\n"))
}

func joinNames(names []string) string {
	if len(names) == 0 {
		return none
	}
	return strings.Join(names, ", ")
}

func renderControls(r *entities.Recruit, status domain.Status, guildID string) [][]output.Control {
	link := ThreadURL(guildID, r.ThreadID)
	if !status.Active() {
		if link == "" {
			return nil
		}
		return [][]output.Control{{{Kind: output.ControlThreadLink, Label: threadLinkLabel, URL: link}}}
	}

	signup := []output.Control{{Kind: output.ControlJoin, Label: "参加予定に追加", RecruitID: r.ID}}
	if r.MentorRequested {
		signup = append(signup, output.Control{Kind: output.ControlJoinMentor, Label: "メンターとして参加", RecruitID: r.ID})
	}
	signup = append(signup, output.Control{Kind: output.ControlLeave, Label: "参加予定を削除", RecruitID: r.ID})

	var nav []output.Control
	if link != "" {
		nav = append(nav, output.Control{Kind: output.ControlThreadLink, Label: threadLinkLabel, URL: link})
	}
	nav = append(nav, output.Control{Kind: output.ControlMake, Label: "新たな募集を追加"})

	manage := []output.Control{
		{Kind: output.ControlEdit, Label: "✏️ 編集", RecruitID: r.ID},
		{Kind: output.ControlDelete, Label: "🗑️ 削除", RecruitID: r.ID},
		{Kind: output.ControlEvent, Label: "📅 イベント作成", RecruitID: r.ID},
	}
	return [][]output.Control{signup, nav, manage}
}

// HeaderMessage is the channel entry point shown while nothing is active.
func HeaderMessage() output.Message {
	return output.Message{
		Content: headerContent,
		Controls: [][]output.Control{{
			{Kind: output.ControlMake, Label: "募集を作成"},
			{Kind: output.ControlRefresh, Label: "最新状況を反映"},
		}},
	}
}

// RenderSummary lists the active recruitments, one code block each.
func RenderSummary(recruits []entities.Recruit, now time.Time) string {
	blocks := make([]string, 0, len(recruits))
	for i := range recruits {
		r := &recruits[i]
		status := domain.StatusOf(r, now)
		if !status.Active() {
			continue
		}
		state := "⬜ 募集中"
		if status == domain.StatusFull {
			state = "🟨 満員"
		}
		mentions := make([]string, len(r.Participants))
		for j, u := range r.Participants {
			mentions[j] = fmt.Sprintf("<@%s>", u)
		}
		lines := []string{
			fmt.Sprintf("📅 %s   🧑 %d/%d名", r.DateStr, len(r.Participants), r.Capacity),
			r.Place,
		}
		if r.Message != "" {
			lines = append(lines, r.Message)
		}
		lines = append(lines, state, "👥 参加者: "+joinNames(mentions))
		blocks = append(blocks, "```\n"+strings.Join(lines, "\n")+"\n```")
	}
	if len(blocks) == 0 {
		return noRecruitsText
	}
	return strings.Join(blocks, "\n")
}
