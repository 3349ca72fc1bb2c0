package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"starbot/events"
	"starbot/models"

	log "github.com/sirupsen/logrus"
)

// GuildSettingsCollection caches one GuildSettings entity per guild, creating
// default storage rows lazily on first access. The collection lock serializes
// creation so each guild row is inserted exactly once per process.
type GuildSettingsCollection struct {
	repo     GuildSettingsRepository
	dir      Directory
	defaults Defaults
	eventBus *events.Bus

	mu       sync.Mutex
	settings map[int64]*GuildSettings
}

// NewGuildSettingsCollection creates a collection backed by the given repository
func NewGuildSettingsCollection(repo GuildSettingsRepository, dir Directory, defaults Defaults, eventBus *events.Bus) *GuildSettingsCollection {
	return &GuildSettingsCollection{
		repo:     repo,
		dir:      dir,
		defaults: defaults,
		eventBus: eventBus,
		settings: make(map[int64]*GuildSettings),
	}
}

// Init repairs malformed stored prefixes and loads every settings row into the
// cache. Called once at startup before handlers are registered.
func (c *GuildSettingsCollection) Init(ctx context.Context) error {
	if err := c.fixPrefixes(ctx); err != nil {
		return fmt.Errorf("failed to fix prefixes: %w", err)
	}

	records, err := c.repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load guild settings: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, record := range records {
		c.settings[record.GuildID] = NewGuildSettings(c.repo, c.dir, c.defaults, record)
	}

	log.WithField("guild_count", len(records)).Info("Loaded guild settings")
	return nil
}

// fixPrefixes trims leading whitespace from stored prefixes. Older versions
// accepted prefixes with a leading space, which made commands unmatchable.
func (c *GuildSettingsCollection) fixPrefixes(ctx context.Context) error {
	records, err := c.repo.GetAll(ctx)
	if err != nil {
		return err
	}

	for _, record := range records {
		if record.Prefix == nil {
			continue
		}
		fixed := strings.TrimLeft(*record.Prefix, " ")
		if fixed == *record.Prefix {
			continue
		}

		patch := &models.SettingsPatch{}
		if fixed == "" {
			patch.Prefix = models.Clear[string]()
		} else {
			patch.Prefix = models.Set(fixed)
		}
		if err := c.repo.Update(ctx, record.GuildID, patch); err != nil {
			return fmt.Errorf("failed to fix prefix for guild %d: %w", record.GuildID, err)
		}

		log.WithFields(log.Fields{
			"guild_id": record.GuildID,
			"prefix":   fixed,
		}).Info("Repaired stored prefix")
	}
	return nil
}

// Get returns the settings entity for a guild, creating a default storage row
// if the guild has none yet.
func (c *GuildSettingsCollection) Get(ctx context.Context, guildID int64) (*GuildSettings, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getLocked(ctx, guildID)
}

func (c *GuildSettingsCollection) getLocked(ctx context.Context, guildID int64) (*GuildSettings, error) {
	if gs, ok := c.settings[guildID]; ok {
		return gs, nil
	}
	return c.createLocked(ctx, guildID)
}

// Create inserts a default settings row for the guild if none exists and
// caches the resulting entity. Safe to call for guilds that already have a
// row.
func (c *GuildSettingsCollection) Create(ctx context.Context, guildID int64) (*GuildSettings, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gs, ok := c.settings[guildID]; ok {
		return gs, nil
	}
	return c.createLocked(ctx, guildID)
}

func (c *GuildSettingsCollection) createLocked(ctx context.Context, guildID int64) (*GuildSettings, error) {
	if err := c.repo.CreateDefault(ctx, guildID); err != nil {
		return nil, fmt.Errorf("failed to create settings for guild %d: %w", guildID, err)
	}

	record, err := c.repo.Get(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload settings for guild %d: %w", guildID, err)
	}
	if record == nil {
		log.Warnf("Settings row for guild %d missing immediately after creation", guildID)
		return nil, fmt.Errorf("settings for guild %d could not be created", guildID)
	}

	gs := NewGuildSettings(c.repo, c.dir, c.defaults, record)
	c.settings[guildID] = gs

	if c.eventBus != nil {
		c.eventBus.Emit(ctx, events.GuildSettingsCreatedEvent{GuildID: guildID})
	}
	return gs, nil
}

// Delete removes the guild's settings row and evicts the cached entity.
// Deleting a guild without settings succeeds.
func (c *GuildSettingsCollection) Delete(ctx context.Context, guildID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.repo.Delete(ctx, guildID); err != nil {
		return fmt.Errorf("failed to delete settings for guild %d: %w", guildID, err)
	}
	delete(c.settings, guildID)

	if c.eventBus != nil {
		c.eventBus.Emit(ctx, events.GuildSettingsDeletedEvent{GuildID: guildID})
	}
	return nil
}

// AutodailySettings returns the autodaily sub-records of every cached guild
func (c *GuildSettingsCollection) AutodailySettings() []*AutodailySettings {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]*AutodailySettings, 0, len(c.settings))
	for _, gs := range c.settings {
		result = append(result, gs.Autodaily())
	}
	return result
}

// AutodailySettingsDue returns the autodaily sub-records whose channel is
// configured and whose recorded post is not from now's UTC calendar day.
func (c *GuildSettingsCollection) AutodailySettingsDue(now time.Time) []*AutodailySettings {
	c.mu.Lock()
	entities := make([]*AutodailySettings, 0, len(c.settings))
	for _, gs := range c.settings {
		entities = append(entities, gs.Autodaily())
	}
	c.mu.Unlock()

	due := make([]*AutodailySettings, 0, len(entities))
	for _, ad := range entities {
		if ad.ChannelID() == nil {
			continue
		}
		createdAt := ad.LatestMessageCreatedAt()
		if createdAt != nil && createdAt.UTC().Day() == now.UTC().Day() {
			continue
		}
		due = append(due, ad)
	}
	return due
}

// BotNewsChannels returns the configured bot news channel of every cached guild
func (c *GuildSettingsCollection) BotNewsChannels() []*ChannelRef {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]*ChannelRef, 0, len(c.settings))
	for _, gs := range c.settings {
		if channel := gs.BotNewsChannel(); channel != nil {
			result = append(result, channel)
		}
	}
	return result
}

// CleanupStale deletes settings rows for guilds the bot is no longer a member
// of. liveGuildIDs is the full current membership.
func (c *GuildSettingsCollection) CleanupStale(ctx context.Context, liveGuildIDs map[int64]bool) error {
	records, err := c.repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load guild settings: %w", err)
	}

	for _, record := range records {
		if liveGuildIDs[record.GuildID] {
			continue
		}
		if err := c.Delete(ctx, record.GuildID); err != nil {
			return err
		}
		log.WithField("guild_id", record.GuildID).Info("Removed settings for departed guild")
	}
	return nil
}

// PrefixOrDefault returns the effective prefix for a guild without creating a
// settings row. Guilds with no row get the process default.
func (c *GuildSettingsCollection) PrefixOrDefault(guildID int64) string {
	c.mu.Lock()
	gs, ok := c.settings[guildID]
	c.mu.Unlock()

	if !ok {
		return c.defaults.Prefix
	}
	return gs.Prefix()
}

// SetPrefix stores a new command prefix for the guild
func (c *GuildSettingsCollection) SetPrefix(ctx context.Context, guildID int64, prefix string) error {
	gs, err := c.Get(ctx, guildID)
	if err != nil {
		return err
	}
	return gs.SetPrefix(ctx, prefix)
}

// SetPagination updates pagination from a user-supplied switch token. A nil
// token toggles the current value. Returns the resulting effective value.
func (c *GuildSettingsCollection) SetPagination(ctx context.Context, guildID int64, token *string) (bool, error) {
	gs, err := c.Get(ctx, guildID)
	if err != nil {
		return false, err
	}

	if token == nil {
		return gs.SetUsePagination(ctx, nil)
	}

	value, ok := models.ParseOnOffSwitch(*token)
	if !ok {
		return false, fmt.Errorf("the given value %q cannot be mapped to on or off", *token)
	}
	return gs.SetUsePagination(ctx, &value)
}
