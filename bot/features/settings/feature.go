package settings

import (
	"starbot/service"

	"github.com/bwmarrin/discordgo"
)

// Feature handles guild settings commands
type Feature struct {
	settings *service.GuildSettingsCollection
}

// NewFeature creates a new settings feature instance
func NewFeature(settings *service.GuildSettingsCollection) *Feature {
	return &Feature{settings: settings}
}

// HandleCommand routes settings subcommands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "view":
		f.handleView(s, i)
	case "prefix":
		f.handlePrefix(s, i)
	case "pagination":
		f.handlePagination(s, i)
	case "botnews":
		f.handleBotNews(s, i)
	case "reset":
		f.handleReset(s, i)
	}
}
