package settings

import (
	"starbot/service"

	"github.com/bwmarrin/discordgo"
)

// buildSettingsEmbed renders the full settings overview for a guild
func buildSettingsEmbed(gs *service.GuildSettings) *discordgo.MessageEmbed {
	botNews := "<not set>"
	if channel := gs.BotNewsChannel(); channel != nil {
		botNews = channel.Mention()
	}

	ad := gs.Autodaily()
	autodailyChannel := "<not set>"
	if channel := ad.Channel(); channel != nil {
		autodailyChannel = channel.Mention()
	}

	title := "Server settings"
	if guild := gs.Guild(); guild != nil {
		title = "Settings for " + guild.Name
	}

	return &discordgo.MessageEmbed{
		Title: title,
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Prefix",
				Value:  "`" + gs.Prefix() + "`",
				Inline: true,
			},
			{
				Name:   "Pagination",
				Value:  gs.PaginationDisplay(),
				Inline: true,
			},
			{
				Name:   "Bot news channel",
				Value:  botNews,
				Inline: true,
			},
			{
				Name:   "Autodaily channel",
				Value:  autodailyChannel,
				Inline: true,
			},
			{
				Name:   "Autodaily mode",
				Value:  ad.ChangeMode().Display(),
				Inline: false,
			},
			{
				Name:   "Autodaily notify",
				Value:  ad.NotifyDisplay(),
				Inline: true,
			},
		},
	}
}
