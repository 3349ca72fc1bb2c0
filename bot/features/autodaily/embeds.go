package autodaily

import (
	"starbot/bot/common"
	"starbot/service"

	"github.com/bwmarrin/discordgo"
)

// buildAutodailyEmbed renders the autodaily configuration for a guild
func buildAutodailyEmbed(ad *service.AutodailySettings) *discordgo.MessageEmbed {
	channel := "<not set>"
	if c := ad.Channel(); c != nil {
		channel = c.Mention()
	}

	lastPost := "never"
	if createdAt := ad.LatestMessageCreatedAt(); createdAt != nil {
		lastPost = common.FormatDiscordTimestamp(*createdAt, "R")
	}

	return &discordgo.MessageEmbed{
		Title: "Autodaily settings",
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Channel",
				Value:  channel,
				Inline: true,
			},
			{
				Name:   "Notify",
				Value:  ad.NotifyDisplay(),
				Inline: true,
			},
			{
				Name:   "Mode",
				Value:  ad.ChangeMode().Display(),
				Inline: false,
			},
			{
				Name:   "Last posted",
				Value:  lastPost,
				Inline: true,
			},
		},
	}
}
