package settings

import (
	"context"
	"fmt"

	"starbot/bot/common"
	"starbot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// guildSettings resolves the interaction's guild settings entity
func (f *Feature) guildSettings(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) (*service.GuildSettings, bool) {
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
	return gs, true
}

// handleView handles the /settings view command
func (f *Feature) handleView(s *discordgo.Session, i *discordgo.InteractionCreate) {
	gs, ok := f.guildSettings(context.Background(), s, i)
	if !ok {
		return
	}

	if err := common.RespondWithEmbed(s, i, buildSettingsEmbed(gs), false); err != nil {
		log.Errorf("Failed to respond to settings view: %v", err)
	}
}

// handlePrefix handles the /settings prefix command
func (f *Feature) handlePrefix(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsUserAdmin(i) {
		common.RespondWithError(s, i, "You need administrator permissions to use this command")
		return
	}

	ctx := context.Background()
	gs, ok := f.guildSettings(ctx, s, i)
	if !ok {
		return
	}

	prefix := i.ApplicationCommandData().Options[0].Options[0].StringValue()
	if err := gs.SetPrefix(ctx, prefix); err != nil {
		log.Errorf("Failed to set prefix for guild %d: %v", gs.ID(), err)
		common.RespondWithError(s, i, err.Error())
		return
	}

	common.RespondWithSuccess(s, i, fmt.Sprintf("Prefix set to `%s`", gs.Prefix()), false)
}

// handlePagination handles the /settings pagination command
func (f *Feature) handlePagination(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsUserAdmin(i) {
		common.RespondWithError(s, i, "You need administrator permissions to use this command")
		return
	}

	ctx := context.Background()
	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID: %v", err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	var token *string
	options := i.ApplicationCommandData().Options[0].Options
	if len(options) > 0 {
		value := options[0].StringValue()
		token = &value
	}

	result, err := f.settings.SetPagination(ctx, guildID, token)
	if err != nil {
		log.Errorf("Failed to set pagination for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, err.Error())
		return
	}

	state := "OFF"
	if result {
		state = "ON"
	}
	common.RespondWithSuccess(s, i, fmt.Sprintf("Pagination is now **%s**", state), false)
}

// handleBotNews handles the /settings botnews command
func (f *Feature) handleBotNews(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsUserAdmin(i) {
		common.RespondWithError(s, i, "You need administrator permissions to use this command")
		return
	}

	ctx := context.Background()
	gs, ok := f.guildSettings(ctx, s, i)
	if !ok {
		return
	}

	options := i.ApplicationCommandData().Options[0].Options
	if len(options) == 0 {
		if err := gs.ResetBotNewsChannel(ctx); err != nil {
			log.Errorf("Failed to reset bot news channel for guild %d: %v", gs.ID(), err)
			common.RespondWithError(s, i, "Failed to update settings")
			return
		}
		common.RespondWithSuccess(s, i, "Bot news channel cleared", false)
		return
	}

	discordChannel := options[0].ChannelValue(s)
	channelID, err := common.ParseSnowflake(discordChannel.ID)
	if err != nil {
		log.Errorf("Failed to parse channel ID: %v", err)
		common.RespondWithError(s, i, "Invalid channel selected")
		return
	}

	channel := &service.ChannelRef{ID: channelID, Name: discordChannel.Name}
	if err := gs.SetBotNewsChannel(ctx, channel); err != nil {
		log.Errorf("Failed to set bot news channel for guild %d: %v", gs.ID(), err)
		common.RespondWithError(s, i, "Failed to update settings")
		return
	}

	common.RespondWithSuccess(s, i, fmt.Sprintf("Bot news will be posted to %s", channel.Mention()), false)
}

// handleReset handles the /settings reset command. Every setting resets
// independently, so one failure does not keep the others at their old values.
func (f *Feature) handleReset(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsUserAdmin(i) {
		common.RespondWithError(s, i, "You need administrator permissions to use this command")
		return
	}

	ctx := context.Background()
	gs, ok := f.guildSettings(ctx, s, i)
	if !ok {
		return
	}

	outcome := gs.Reset(ctx)
	if outcome.Succeeded() {
		common.RespondWithSuccess(s, i, "All settings have been reset", false)
		return
	}

	var failed []string
	if outcome.Prefix != nil {
		failed = append(failed, "prefix")
		log.Errorf("Failed to reset prefix for guild %d: %v", gs.ID(), outcome.Prefix)
	}
	if outcome.Pagination != nil {
		failed = append(failed, "pagination")
		log.Errorf("Failed to reset pagination for guild %d: %v", gs.ID(), outcome.Pagination)
	}
	if outcome.Autodaily != nil {
		failed = append(failed, "autodaily")
		log.Errorf("Failed to reset autodaily for guild %d: %v", gs.ID(), outcome.Autodaily)
	}
	if outcome.BotNewsChannel != nil {
		failed = append(failed, "bot news channel")
		log.Errorf("Failed to reset bot news channel for guild %d: %v", gs.ID(), outcome.BotNewsChannel)
	}
	common.RespondWithError(s, i, fmt.Sprintf("Could not reset: %v. Other settings were reset.", failed))
}
