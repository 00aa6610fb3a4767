package discord

import (
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"gdbot/internal/ports/output"
)

// Custom ids of the channel controls. Bound controls carry the recruitment
// id after a colon ("join:12"); header controls have none.
var controlPrefixes = map[output.ControlKind]string{
	output.ControlJoin:       "join",
	output.ControlJoinMentor: "mentor",
	output.ControlLeave:      "leave",
	output.ControlEdit:       "edit",
	output.ControlDelete:     "delete",
	output.ControlEvent:      "event",
	output.ControlMake:       "make",
	output.ControlRefresh:    "refresh",
}

var controlKinds = func() map[string]output.ControlKind {
	m := make(map[string]output.ControlKind, len(controlPrefixes))
	for k, p := range controlPrefixes {
		m[p] = k
	}
	return m
}()

// EncodeControl returns the custom id of c. Links have none.
func EncodeControl(c output.Control) string {
	prefix, ok := controlPrefixes[c.Kind]
	if !ok {
		return ""
	}
	if c.RecruitID == 0 {
		return prefix
	}
	return prefix + ":" + strconv.FormatInt(c.RecruitID, 10)
}

// ParseControl is the inverse of EncodeControl.
func ParseControl(customID string) (output.Control, bool) {
	prefix, rest, bound := strings.Cut(customID, ":")
	kind, ok := controlKinds[prefix]
	if !ok {
		return output.Control{}, false
	}
	c := output.Control{Kind: kind}
	unbound := kind == output.ControlMake || kind == output.ControlRefresh
	switch {
	case unbound && !bound:
		return c, true
	case unbound || !bound:
		return output.Control{}, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return output.Control{}, false
	}
	c.RecruitID = id
	return c, true
}

func buttonStyle(k output.ControlKind) discordgo.ButtonStyle {
	switch k {
	case output.ControlJoin, output.ControlJoinMentor, output.ControlMake:
		return discordgo.SuccessButton
	case output.ControlLeave, output.ControlDelete:
		return discordgo.DangerButton
	case output.ControlEdit, output.ControlEvent:
		return discordgo.PrimaryButton
	default:
		return discordgo.SecondaryButton
	}
}

// BuildComponents turns rendered control rows into Discord action rows.
func BuildComponents(rows [][]output.Control) []discordgo.MessageComponent {
	out := make([]discordgo.MessageComponent, 0, len(rows))
	for _, row := range rows {
		buttons := make([]discordgo.MessageComponent, 0, len(row))
		for _, c := range row {
			if c.Kind == output.ControlThreadLink {
				buttons = append(buttons, discordgo.Button{Label: c.Label, Style: discordgo.LinkButton, URL: c.URL})
				continue
			}
			buttons = append(buttons, discordgo.Button{
				Label:    c.Label,
				Style:    buttonStyle(c.Kind),
				CustomID: EncodeControl(c),
			})
		}
		if len(buttons) > 0 {
			out = append(out, discordgo.ActionsRow{Components: buttons})
		}
	}
	return out
}

// Form custom ids: "form:{session}:{op}" on components and
// "formmodal:{session}:{field}" on modal submissions.
const (
	formPrefix      = "form"
	formModalPrefix = "formmodal"
)

func formID(sid, op string) string { return formPrefix + ":" + sid + ":" + op }

func formModalID(sid, field string) string { return formModalPrefix + ":" + sid + ":" + field }

func parseScoped(prefix, customID string) (sid, op string, ok bool) {
	rest, found := strings.CutPrefix(customID, prefix+":")
	if !found {
		return "", "", false
	}
	sid, op, ok = strings.Cut(rest, ":")
	if !ok || sid == "" || op == "" {
		return "", "", false
	}
	return sid, op, true
}

func parseFormID(customID string) (sid, op string, ok bool) {
	return parseScoped(formPrefix, customID)
}

func parseFormModalID(customID string) (sid, field string, ok bool) {
	return parseScoped(formModalPrefix, customID)
}
