package bot

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"starbot/bot/common"
	"starbot/bot/features/autodaily"
	"starbot/bot/features/research"
	"starbot/bot/features/settings"
	"starbot/events"
	"starbot/service"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Token             string
	GuildID           string
	AutodailyPostHour int
}

type Bot struct {
	config   Config
	session  *discordgo.Session
	settings *service.GuildSettingsCollection
	eventBus *events.Bus

	settingsFeature  *settings.Feature
	autodailyFeature *autodaily.Feature
	researchFeature  *research.Feature
	dailyPoster      *DailyPoster
}

func New(config Config, repo service.GuildSettingsRepository, researchService *service.ResearchService, contentProvider DailyContentProvider, defaults service.Defaults, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	collection := service.NewGuildSettingsCollection(repo, newSessionDirectory(dg), defaults, eventBus)

	bot := &Bot{
		config:   config,
		session:  dg,
		settings: collection,
		eventBus: eventBus,
	}
	bot.settingsFeature = settings.NewFeature(collection)
	bot.autodailyFeature = autodaily.NewFeature(collection)
	bot.researchFeature = research.NewFeature(collection, researchService)
	bot.dailyPoster = NewDailyPoster(dg, collection, contentProvider, eventBus, config.AutodailyPostHour)

	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleGuildCreate)
	dg.AddHandler(bot.handleGuildDelete)
	dg.AddHandler(bot.handleReady)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := collection.Init(context.Background()); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error loading guild settings: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	bot.dailyPoster.Start()

	return bot, nil
}

func (b *Bot) Close() error {
	b.dailyPoster.Stop()
	return b.session.Close()
}

// Settings exposes the guild settings collection
func (b *Bot) Settings() *service.GuildSettingsCollection {
	return b.settings
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "settings":
		b.settingsFeature.HandleCommand(s, i)
	case "autodaily":
		b.autodailyFeature.HandleCommand(s, i)
	case "research":
		b.researchFeature.HandleCommand(s, i)
	}
}

// handleGuildCreate ensures a settings row exists for every guild the bot
// joins or reconnects to.
func (b *Bot) handleGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	guildID, err := common.ParseSnowflake(g.ID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", g.ID, err)
		return
	}

	if _, err := b.settings.Create(context.Background(), guildID); err != nil {
		log.Errorf("Failed to create settings for guild %d: %v", guildID, err)
		return
	}
	log.WithFields(log.Fields{
		"guild_id":   guildID,
		"guild_name": g.Name,
	}).Info("Guild available")
}

// handleGuildDelete drops a guild's settings when the bot is removed. Outages
// arrive as unavailable guilds and keep their settings.
func (b *Bot) handleGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	if g.Unavailable {
		return
	}

	guildID, err := common.ParseSnowflake(g.ID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", g.ID, err)
		return
	}

	if err := b.settings.Delete(context.Background(), guildID); err != nil {
		log.Errorf("Failed to delete settings for guild %d: %v", guildID, err)
		return
	}
	log.WithField("guild_id", guildID).Info("Removed from guild")
}

// handleReady reconciles stored settings against current guild membership
func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	log.WithField("guild_count", len(r.Guilds)).Info("Discord session ready")

	live := make(map[int64]bool, len(r.Guilds))
	for _, guild := range r.Guilds {
		guildID, err := common.ParseSnowflake(guild.ID)
		if err != nil {
			log.Errorf("Failed to parse guild ID %s: %v", guild.ID, err)
			continue
		}
		live[guildID] = true
	}

	if err := b.settings.CleanupStale(context.Background(), live); err != nil {
		log.Errorf("Failed to clean up stale guild settings: %v", err)
	}
}
