package discord

import (
	"strconv"

	"github.com/bwmarrin/discordgo"

	"gdbot/internal/config"
	"gdbot/internal/domain/form"
	"gdbot/internal/ports/output"
	pkgdiscord "gdbot/pkg/discord"
)

// Form operations carried in "form:{session}:{op}" custom ids.
const (
	opDate         = "date"
	opPlace        = "place"
	opOpenCapacity = "open_capacity"
	opOpenNote     = "open_note"
	opSubmit       = "submit"
	opHour         = "hour"
	opMinute       = "minute"
	opConfirm      = "confirm"
	opCapacity     = "capacity"
	opMessage      = "message"
	opMentor       = "mentor"
	opIndustry     = "industry"
	opBack         = "back"
)

// Fields of "formmodal:{session}:{field}" ids and the input inside them.
const (
	fieldDate    = "date"
	fieldPlace   = "place"
	fieldMessage = "message"
	modalInputID = "value"
)

const (
	noIndustryValue = "none"
	unsetText       = "未設定"
	messageMaxLen   = 500
)

// formView renders form states for one catalog.
type formView struct {
	catalog *config.Catalog
	t       output.T
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

func (v formView) embed(s form.State, locale string) *discordgo.MessageEmbed {
	title := "募集作成フォーム"
	if s.Editing() {
		title = "募集編集フォーム"
	}
	desc := v.t.T(locale, "info.form_open", nil)
	if s.Problem != "" {
		desc += "\n⚠️ " + v.t.T(locale, "errors."+s.Problem, nil)
	}

	when := s.DateStr()
	if when == "" && s.Values.Date != "" {
		when = s.Values.Date
	}
	capacity := ""
	if s.Values.Capacity > 0 {
		capacity = strconv.Itoa(s.Values.Capacity) + "名"
	}
	return pkgdiscord.BuildEmbed(title, desc, unsetText, []pkgdiscord.Field{
		{Name: "📅 日時", Value: when},
		{Name: "📍 場所", Value: s.Values.Place},
		{Name: "👥 人数", Value: capacity},
		{Name: "📝 メッセージ", Value: s.Values.Message},
		{Name: "🤝 メンター希望", Value: onOff(s.Values.MentorRequested)},
		{Name: "🏢 想定業界", Value: s.Values.Industry},
	})
}

func (v formView) components(sid string, s form.State) []discordgo.MessageComponent {
	switch s.Screen {
	case form.DateEntry:
		return v.dateScreen(sid, s)
	case form.CapacityEntry:
		return v.capacityScreen(sid, s)
	case form.NoteEntry:
		return v.noteScreen(sid, s)
	default:
		return v.mainScreen(sid, s)
	}
}

func (v formView) mainScreen(sid string, s form.State) []discordgo.MessageComponent {
	submit := "募集を作成"
	if s.Editing() {
		submit = "更新する"
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "📅 日付・時刻", Style: discordgo.SecondaryButton, CustomID: formID(sid, opDate)},
			discordgo.Button{Label: "📍 場所", Style: discordgo.SecondaryButton, CustomID: formID(sid, opPlace)},
			discordgo.Button{Label: "👥 人数", Style: discordgo.SecondaryButton, CustomID: formID(sid, opOpenCapacity)},
			discordgo.Button{Label: "📝 詳細設定", Style: discordgo.SecondaryButton, CustomID: formID(sid, opOpenNote)},
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: submit, Style: discordgo.SuccessButton, CustomID: formID(sid, opSubmit), Disabled: !s.Complete()},
		}},
	}
}

func options(values []string, selected, suffix string) []discordgo.SelectMenuOption {
	out := make([]discordgo.SelectMenuOption, len(values))
	for i, val := range values {
		out[i] = discordgo.SelectMenuOption{Label: val + suffix, Value: val, Default: val == selected}
	}
	return out
}

func (v formView) dateScreen(sid string, s form.State) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				MenuType:    discordgo.StringSelectMenu,
				CustomID:    formID(sid, opHour),
				Placeholder: "時を選択",
				Options:     options(v.catalog.Hours(), s.Values.Hour, "時"),
			},
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				MenuType:    discordgo.StringSelectMenu,
				CustomID:    formID(sid, opMinute),
				Placeholder: "分を選択",
				Options:     options(v.catalog.Minutes(), s.Values.Minute, "分"),
			},
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "決定", Style: discordgo.SuccessButton, CustomID: formID(sid, opConfirm), Disabled: !s.TimeComplete()},
			discordgo.Button{Label: "日付を入れ直す", Style: discordgo.SecondaryButton, CustomID: formID(sid, opDate)},
		}},
	}
}

func (v formView) capacityScreen(sid string, s form.State) []discordgo.MessageComponent {
	values := make([]string, len(v.catalog.Capacities))
	for i, n := range v.catalog.Capacities {
		values[i] = strconv.Itoa(n)
	}
	selected := ""
	if s.Values.Capacity > 0 {
		selected = strconv.Itoa(s.Values.Capacity)
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				MenuType:    discordgo.StringSelectMenu,
				CustomID:    formID(sid, opCapacity),
				Placeholder: "人数を選択",
				Options:     options(values, selected, "名"),
			},
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "戻る", Style: discordgo.SecondaryButton, CustomID: formID(sid, opBack)},
		}},
	}
}

func (v formView) noteScreen(sid string, s form.State) []discordgo.MessageComponent {
	rows := []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "📝 メッセージ", Style: discordgo.SecondaryButton, CustomID: formID(sid, opMessage)},
			discordgo.Button{Label: "🤝 メンター希望: " + onOff(s.Values.MentorRequested), Style: discordgo.PrimaryButton, CustomID: formID(sid, opMentor)},
		}},
	}
	if len(v.catalog.Industries) > 0 {
		opts := []discordgo.SelectMenuOption{{Label: "指定なし", Value: noIndustryValue, Default: s.Values.Industry == ""}}
		opts = append(opts, options(v.catalog.Industries, s.Values.Industry, "")...)
		if len(opts) > 25 {
			opts = opts[:25]
		}
		rows = append(rows, discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				MenuType:    discordgo.StringSelectMenu,
				CustomID:    formID(sid, opIndustry),
				Placeholder: "想定業界を選択",
				Options:     opts,
			},
		}})
	}
	rows = append(rows, discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{Label: "戻る", Style: discordgo.SecondaryButton, CustomID: formID(sid, opBack)},
	}})
	return rows
}

// modal returns the text modal for a form button, or nil when op does not
// open one.
func (v formView) modal(sid, op string, s form.State) *discordgo.InteractionResponse {
	switch op {
	case opDate:
		return pkgdiscord.TextModal{
			CustomID:    formModalID(sid, fieldDate),
			Title:       "日付の入力",
			InputID:     modalInputID,
			Label:       "日付",
			Value:       s.Values.Date,
			Placeholder: "YYYY/MM/DD または MM/DD",
			Required:    true,
			MaxLength:   10,
		}.Response()
	case opPlace:
		return pkgdiscord.TextModal{
			CustomID:  formModalID(sid, fieldPlace),
			Title:     "場所の入力",
			InputID:   modalInputID,
			Label:     "開催場所",
			Value:     s.Values.Place,
			Required:  true,
			MaxLength: 100,
		}.Response()
	case opMessage:
		return pkgdiscord.TextModal{
			CustomID:  formModalID(sid, fieldMessage),
			Title:     "メッセージの入力",
			InputID:   modalInputID,
			Label:     "メッセージ",
			Value:     s.Values.Message,
			Paragraph: true,
			MaxLength: messageMaxLen,
		}.Response()
	}
	return nil
}

// componentInput maps a form component interaction to a reducer input.
func componentInput(op string, values []string) form.Input {
	first := ""
	if len(values) > 0 {
		first = values[0]
	}
	switch op {
	case opOpenCapacity:
		return form.Open{Screen: form.CapacityEntry}
	case opOpenNote:
		return form.Open{Screen: form.NoteEntry}
	case opHour:
		return form.SelectHour{Hour: first}
	case opMinute:
		return form.SelectMinute{Minute: first}
	case opConfirm:
		return form.ConfirmTime{}
	case opCapacity:
		n, _ := strconv.Atoi(first)
		return form.SelectCapacity{Capacity: n}
	case opMentor:
		return form.ToggleMentor{}
	case opIndustry:
		if first == noIndustryValue {
			first = ""
		}
		return form.SelectIndustry{Industry: first}
	case opBack:
		return form.Back{}
	}
	return nil
}
