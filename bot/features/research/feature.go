package research

import (
	"starbot/service"

	"github.com/bwmarrin/discordgo"
)

// Feature handles research lookup commands
type Feature struct {
	settings *service.GuildSettingsCollection
	research *service.ResearchService
}

// NewFeature creates a new research feature instance
func NewFeature(settings *service.GuildSettingsCollection, research *service.ResearchService) *Feature {
	return &Feature{
		settings: settings,
		research: research,
	}
}

// HandleCommand handles the /research command
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleLookup(s, i)
}
