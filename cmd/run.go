package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"starbot/bot"
	"starbot/config"
	"starbot/database"
	"starbot/events"
	"starbot/pss"
	"starbot/repository"
	"starbot/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting starbot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()
	eventBus.Subscribe(events.EventTypeGuildSettingsCreated, logSettingsEvent)
	eventBus.Subscribe(events.EventTypeGuildSettingsDeleted, logSettingsEvent)
	eventBus.Subscribe(events.EventTypeDailyPosted, logSettingsEvent)

	// Initialize services
	log.Println("Initializing services...")
	settingsRepo := repository.NewGuildSettingsRepository(db)
	pssClient := pss.NewClient(cfg.PssAPIBaseURL)
	researchService := service.NewResearchService(pssClient)
	defaults := service.Defaults{
		Prefix:        cfg.DefaultPrefix,
		UsePagination: cfg.DefaultUsePagination,
	}

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:             cfg.DiscordToken,
		GuildID:           cfg.DiscordGuildID,
		AutodailyPostHour: cfg.AutodailyPostHour,
	}
	contentProvider := bot.NewResearchDailyContent(pssClient)
	discordBot, err := bot.New(botConfig, settingsRepo, researchService, contentProvider, defaults, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")
	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}

// logSettingsEvent is the audit subscriber for settings lifecycle events
func logSettingsEvent(ctx context.Context, event events.Event) {
	switch e := event.(type) {
	case events.GuildSettingsCreatedEvent:
		log.Printf("Guild settings created for guild %d", e.GuildID)
	case events.GuildSettingsDeletedEvent:
		log.Printf("Guild settings deleted for guild %d", e.GuildID)
	case events.DailyPostedEvent:
		log.Printf("Daily posted to guild %d channel %d message %d", e.GuildID, e.ChannelID, e.MessageID)
	}
}
