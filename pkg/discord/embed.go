package discord

import "github.com/bwmarrin/discordgo"

const embedColor = 0x5865F2

// Field is one embed field. Blank values render as the placeholder.
type Field struct {
	Name  string
	Value string
}

// BuildEmbed builds the embed used by ephemeral form messages.
func BuildEmbed(title, description, placeholder string, fields []Field) *discordgo.MessageEmbed {
	out := make([]*discordgo.MessageEmbedField, 0, len(fields))
	for _, f := range fields {
		value := f.Value
		if value == "" {
			value = placeholder
		}
		out = append(out, &discordgo.MessageEmbedField{Name: f.Name, Value: value})
	}
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       embedColor,
		Fields:      out,
	}
}
