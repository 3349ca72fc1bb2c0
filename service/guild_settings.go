package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"starbot/models"

	log "github.com/sirupsen/logrus"
)

// GuildSettings is the in-memory settings record for one guild. Every mutation
// diffs against the cached row first and only issues a write for actual
// changes; on success the cached row is updated to match storage.
type GuildSettings struct {
	mu       sync.Mutex
	repo     GuildSettingsRepository
	dir      Directory
	defaults Defaults
	now      func() time.Time

	record *models.GuildSettingsRecord

	guild          *GuildRef
	botNewsChannel *ChannelRef

	autodaily *AutodailySettings
}

// NewGuildSettings builds an entity from one storage row, resolving live
// channel/guild/member/role objects through the directory. Any lookup miss
// degrades to "unset" with a warning; construction never fails.
func NewGuildSettings(repo GuildSettingsRepository, dir Directory, defaults Defaults, record *models.GuildSettingsRecord) *GuildSettings {
	gs := &GuildSettings{
		repo:     repo,
		dir:      dir,
		defaults: defaults,
		now:      time.Now,
		record:   record,
	}

	if guild, ok := dir.Guild(record.GuildID); ok {
		gs.guild = guild
	} else {
		log.Warnf("Could not get guild for id %d", record.GuildID)
	}

	if record.BotNewsChannelID != nil {
		if channel, ok := dir.Channel(*record.BotNewsChannelID); ok {
			gs.botNewsChannel = channel
		} else {
			log.Warnf("Could not get bot news channel for id %d", *record.BotNewsChannelID)
		}
	}

	gs.autodaily = newAutodailySettings(gs)
	return gs
}

// ID returns the guild identifier
func (gs *GuildSettings) ID() int64 {
	return gs.record.GuildID
}

// Guild returns the resolved guild, or nil when the lookup degraded
func (gs *GuildSettings) Guild() *GuildRef {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.guild
}

// Autodaily returns the embedded autodaily sub-settings
func (gs *GuildSettings) Autodaily() *AutodailySettings {
	return gs.autodaily
}

// Prefix returns the configured command prefix, falling back to the default
func (gs *GuildSettings) Prefix() string {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	if gs.record.Prefix != nil && *gs.record.Prefix != "" {
		return *gs.record.Prefix
	}
	return gs.defaults.Prefix
}

// HasCustomPrefix reports whether a prefix is stored for the guild
func (gs *GuildSettings) HasCustomPrefix() bool {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.record.Prefix != nil
}

// UsePagination returns the pagination preference, falling back to the default
func (gs *GuildSettings) UsePagination() bool {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.usePaginationLocked()
}

func (gs *GuildSettings) usePaginationLocked() bool {
	if gs.record.UsePagination != nil {
		return *gs.record.UsePagination
	}
	return gs.defaults.UsePagination
}

// PaginationDisplay renders the effective pagination preference as ON/OFF
func (gs *GuildSettings) PaginationDisplay() string {
	value := gs.UsePagination()
	return models.FormatOnOff(&value)
}

// BotNewsChannel returns the resolved bot news channel, or nil when unset
func (gs *GuildSettings) BotNewsChannel() *ChannelRef {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.botNewsChannel
}

// BotNewsChannelID returns the stored bot news channel id, or nil when unset
func (gs *GuildSettings) BotNewsChannelID() *int64 {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.record.BotNewsChannelID
}

// applyPatch issues a single UPDATE for the patch and, on success, folds it
// into the cached row. Callers must hold gs.mu.
func (gs *GuildSettings) applyPatch(ctx context.Context, patch *models.SettingsPatch) error {
	if err := gs.repo.Update(ctx, gs.record.GuildID, patch); err != nil {
		return err
	}
	patch.Apply(gs.record)
	return nil
}

// SetPrefix stores a new command prefix
func (gs *GuildSettings) SetPrefix(ctx context.Context, prefix string) error {
	if prefix == "" {
		return fmt.Errorf("prefix must not be empty")
	}

	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.record.Prefix != nil && *gs.record.Prefix == prefix {
		return nil
	}

	return gs.applyPatch(ctx, &models.SettingsPatch{
		Prefix: models.Set(prefix),
	})
}

// ResetPrefix clears the stored prefix so the default applies again
func (gs *GuildSettings) ResetPrefix(ctx context.Context) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.record.Prefix == nil {
		return nil
	}

	return gs.applyPatch(ctx, &models.SettingsPatch{
		Prefix: models.Clear[string](),
	})
}

// SetUsePagination stores the pagination preference. A nil value toggles the
// current effective preference. Returns the resulting preference.
func (gs *GuildSettings) SetUsePagination(ctx context.Context, value *bool) (bool, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	var target bool
	if value == nil {
		target = !gs.usePaginationLocked()
	} else {
		target = *value
	}

	if gs.record.UsePagination != nil && *gs.record.UsePagination == target {
		return target, nil
	}

	err := gs.applyPatch(ctx, &models.SettingsPatch{
		UsePagination: models.Set(target),
	})
	if err != nil {
		return gs.usePaginationLocked(), err
	}
	return target, nil
}

// ResetUsePagination clears the stored pagination preference
func (gs *GuildSettings) ResetUsePagination(ctx context.Context) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.record.UsePagination == nil {
		return nil
	}

	return gs.applyPatch(ctx, &models.SettingsPatch{
		UsePagination: models.Clear[bool](),
	})
}

// SetBotNewsChannel stores the channel bot news get forwarded to
func (gs *GuildSettings) SetBotNewsChannel(ctx context.Context, channel *ChannelRef) error {
	if channel == nil {
		return fmt.Errorf("a text channel is required")
	}

	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.record.BotNewsChannelID != nil && *gs.record.BotNewsChannelID == channel.ID {
		return nil
	}

	err := gs.applyPatch(ctx, &models.SettingsPatch{
		BotNewsChannelID: models.Set(channel.ID),
	})
	if err != nil {
		return err
	}

	gs.botNewsChannel = channel
	return nil
}

// ResetBotNewsChannel clears the bot news channel
func (gs *GuildSettings) ResetBotNewsChannel(ctx context.Context) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.record.BotNewsChannelID == nil {
		return nil
	}

	err := gs.applyPatch(ctx, &models.SettingsPatch{
		BotNewsChannelID: models.Clear[int64](),
	})
	if err != nil {
		return err
	}

	gs.botNewsChannel = nil
	return nil
}

// ResetOutcome carries the individual results of the four sub-resets of
// Reset. Partial failure is possible and intentional; callers must check
// every field.
type ResetOutcome struct {
	Prefix         error
	Pagination     error
	Autodaily      error
	BotNewsChannel error
}

// Succeeded reports whether all four sub-resets succeeded
func (o ResetOutcome) Succeeded() bool {
	return o.Prefix == nil && o.Pagination == nil && o.Autodaily == nil && o.BotNewsChannel == nil
}

// Reset clears prefix, pagination, autodaily and bot news channel through four
// independent writes. This is deliberately not a transaction.
func (gs *GuildSettings) Reset(ctx context.Context) ResetOutcome {
	return ResetOutcome{
		Prefix:         gs.ResetPrefix(ctx),
		Pagination:     gs.ResetUsePagination(ctx),
		Autodaily:      gs.autodaily.Reset(ctx),
		BotNewsChannel: gs.ResetBotNewsChannel(ctx),
	}
}
