package discord

import "github.com/bwmarrin/discordgo"

// ModalValues collects the text inputs of a submitted modal by custom id.
func ModalValues(data discordgo.ModalSubmitInteractionData) map[string]string {
	values := make(map[string]string)
	for _, c := range data.Components {
		row, ok := c.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, rc := range row.Components {
			if input, ok := rc.(*discordgo.TextInput); ok {
				values[input.CustomID] = input.Value
			}
		}
	}
	return values
}

// TextModal is a single-input modal response.
type TextModal struct {
	CustomID    string
	Title       string
	InputID     string
	Label       string
	Value       string
	Placeholder string
	Paragraph   bool
	Required    bool
	MaxLength   int
}

func (m TextModal) Response() *discordgo.InteractionResponse {
	style := discordgo.TextInputShort
	if m.Paragraph {
		style = discordgo.TextInputParagraph
	}
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: m.CustomID,
			Title:    m.Title,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    m.InputID,
						Label:       m.Label,
						Style:       style,
						Value:       m.Value,
						Placeholder: m.Placeholder,
						Required:    m.Required,
						MaxLength:   m.MaxLength,
					},
				}},
			},
		},
	}
}
