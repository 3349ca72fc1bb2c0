package research

import (
	"context"
	"fmt"

	"starbot/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Discord rejects responses with more than ten embeds.
const maxEmbedsPerResponse = 10

// handleLookup handles the /research command. Guilds with pagination enabled
// get embeds, others get a plain text listing.
func (f *Feature) handleLookup(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	name := i.ApplicationCommandData().Options[0].StringValue()

	details, err := f.research.DetailsByName(ctx, name)
	if err != nil {
		log.Errorf("Research lookup for %q failed: %v", name, err)
		common.RespondWithError(s, i, "Unable to look up research. Please try again.")
		return
	}

	if len(details) == 0 {
		common.RespondWithError(s, i, fmt.Sprintf("Could not find a research named **%s**.", name))
		return
	}

	useEmbeds := true
	if guildID, err := common.ParseSnowflake(i.GuildID); err == nil {
		if gs, err := f.settings.Get(ctx, guildID); err == nil {
			useEmbeds = gs.UsePagination()
		}
	}

	if useEmbeds {
		embeds := buildResearchEmbeds(details)
		if len(embeds) > maxEmbedsPerResponse {
			embeds = embeds[:maxEmbedsPerResponse]
		}
		if err := common.RespondWithEmbeds(s, i, embeds, false); err != nil {
			log.Errorf("Failed to respond to research lookup: %v", err)
		}
		return
	}

	if err := common.RespondWithText(s, i, buildResearchText(name, details), false); err != nil {
		log.Errorf("Failed to respond to research lookup: %v", err)
	}
}
