package discord

import (
	"github.com/bwmarrin/discordgo"
)

const commandName = "gd"

var commands = []*discordgo.ApplicationCommand{
	{
		Name:        commandName,
		Description: "GD練習の募集を作成します",
		DescriptionLocalizations: &map[discordgo.Locale]string{
			discordgo.EnglishUS: "Create a group-discussion practice recruitment",
		},
	},
}
