package autodaily

import (
	"context"
	"fmt"

	"starbot/bot/common"
	"starbot/models"
	"starbot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// autodailySettings resolves the interaction's autodaily sub-record
func (f *Feature) autodailySettings(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) (*service.AutodailySettings, bool) {
	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID: %v", err)
		common.RespondWithError(s, i, "Failed to process command")
		return nil, false
	}

	gs, err := f.settings.Get(ctx, guildID)
	if err != nil {
		log.Errorf("Failed to load settings for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Failed to load settings")
		return nil, false
	}
	return gs.Autodaily(), true
}

// handleView handles the /autodaily view command
func (f *Feature) handleView(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ad, ok := f.autodailySettings(context.Background(), s, i)
	if !ok {
		return
	}

	if err := common.RespondWithEmbed(s, i, buildAutodailyEmbed(ad), false); err != nil {
		log.Errorf("Failed to respond to autodaily view: %v", err)
	}
}

// handleChannel handles the /autodaily channel command
func (f *Feature) handleChannel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsUserAdmin(i) {
		common.RespondWithError(s, i, "You need administrator permissions to use this command")
		return
	}

	ctx := context.Background()
	ad, ok := f.autodailySettings(ctx, s, i)
	if !ok {
		return
	}

	discordChannel := i.ApplicationCommandData().Options[0].Options[0].ChannelValue(s)
	channelID, err := common.ParseSnowflake(discordChannel.ID)
	if err != nil {
		log.Errorf("Failed to parse channel ID: %v", err)
		common.RespondWithError(s, i, "Invalid channel selected")
		return
	}

	channel := &service.ChannelRef{ID: channelID, Name: discordChannel.Name}
	if err := ad.SetChannel(ctx, channel); err != nil {
		log.Errorf("Failed to set autodaily channel for guild %d: %v", ad.GuildID(), err)
		common.RespondWithError(s, i, "Failed to update settings")
		return
	}

	common.RespondWithSuccess(s, i, fmt.Sprintf("The daily will be posted to %s", channel.Mention()), false)
}

// handleMode handles the /autodaily mode command
func (f *Feature) handleMode(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsUserAdmin(i) {
		common.RespondWithError(s, i, "You need administrator permissions to use this command")
		return
	}

	ctx := context.Background()
	ad, ok := f.autodailySettings(ctx, s, i)
	if !ok {
		return
	}

	mode, err := ad.ToggleChangeMode(ctx)
	if err != nil {
		log.Errorf("Failed to toggle change mode for guild %d: %v", ad.GuildID(), err)
		common.RespondWithError(s, i, "Failed to update settings")
		return
	}

	common.RespondWithSuccess(s, i, mode.Display(), false)
}

// handleNotify handles the /autodaily notify command. The mentionable option
// resolves to either a role or a user; anything else is rejected.
func (f *Feature) handleNotify(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsUserAdmin(i) {
		common.RespondWithError(s, i, "You need administrator permissions to use this command")
		return
	}

	ctx := context.Background()
	ad, ok := f.autodailySettings(ctx, s, i)
	if !ok {
		return
	}

	target, err := resolveNotifyTarget(i)
	if err != nil {
		common.RespondWithError(s, i, err.Error())
		return
	}

	if err := ad.SetNotify(ctx, target); err != nil {
		log.Errorf("Failed to set notify target for guild %d: %v", ad.GuildID(), err)
		common.RespondWithError(s, i, err.Error())
		return
	}

	common.RespondWithSuccess(s, i, fmt.Sprintf("%s will be notified on daily changes", ad.NotifyDisplay()), false)
}

// resolveNotifyTarget decides whether the mentionable option is a user or a
// role from the interaction's resolved data.
func resolveNotifyTarget(i *discordgo.InteractionCreate) (*models.NotifyTarget, error) {
	options := i.ApplicationCommandData().Options[0].Options
	if len(options) == 0 {
		return nil, fmt.Errorf("a user or role is required")
	}

	rawID := options[0].Value.(string)
	id, err := common.ParseSnowflake(rawID)
	if err != nil {
		return nil, fmt.Errorf("the provided mention is neither a role nor a user")
	}

	resolved := i.ApplicationCommandData().Resolved
	if resolved != nil {
		if _, ok := resolved.Roles[rawID]; ok {
			return &models.NotifyTarget{Kind: models.NotifyKindRole, ID: id}, nil
		}
		if _, ok := resolved.Users[rawID]; ok {
			return &models.NotifyTarget{Kind: models.NotifyKindUser, ID: id}, nil
		}
	}
	return nil, fmt.Errorf("the provided mention is neither a role nor a user")
}

// handleReset handles the /autodaily reset command
func (f *Feature) handleReset(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsUserAdmin(i) {
		common.RespondWithError(s, i, "You need administrator permissions to use this command")
		return
	}

	ctx := context.Background()
	ad, ok := f.autodailySettings(ctx, s, i)
	if !ok {
		return
	}

	what := "all"
	options := i.ApplicationCommandData().Options[0].Options
	if len(options) > 0 {
		what = options[0].StringValue()
	}

	var err error
	switch what {
	case "channel":
		err = ad.ResetChannel(ctx)
	case "mode":
		err = ad.ResetChangeMode(ctx)
	case "notify":
		err = ad.ResetNotify(ctx)
	default:
		err = ad.Reset(ctx)
	}
	if err != nil {
		log.Errorf("Failed to reset autodaily (%s) for guild %d: %v", what, ad.GuildID(), err)
		common.RespondWithError(s, i, "Failed to reset autodaily settings")
		return
	}

	if what == "all" {
		common.RespondWithSuccess(s, i, "Autodaily settings have been reset", false)
	} else {
		common.RespondWithSuccess(s, i, fmt.Sprintf("Autodaily %s has been reset", what), false)
	}
}
