package autodaily

import (
	"starbot/service"

	"github.com/bwmarrin/discordgo"
)

// Feature handles autodaily configuration commands
type Feature struct {
	settings *service.GuildSettingsCollection
}

// NewFeature creates a new autodaily feature instance
func NewFeature(settings *service.GuildSettingsCollection) *Feature {
	return &Feature{settings: settings}
}

// HandleCommand routes autodaily subcommands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "view":
		f.handleView(s, i)
	case "channel":
		f.handleChannel(s, i)
	case "mode":
		f.handleMode(s, i)
	case "notify":
		f.handleNotify(s, i)
	case "reset":
		f.handleReset(s, i)
	}
}
