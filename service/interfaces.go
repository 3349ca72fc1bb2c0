package service

import (
	"context"
	"strconv"

	"starbot/models"
)

// GuildSettingsRepository defines the persistence surface for serversettings rows
type GuildSettingsRepository interface {
	// Get retrieves the settings row for a guild, or nil if no row exists
	Get(ctx context.Context, guildID int64) (*models.GuildSettingsRecord, error)

	// GetAll retrieves every settings row
	GetAll(ctx context.Context) ([]*models.GuildSettingsRecord, error)

	// Exists reports whether a settings row exists for the guild
	Exists(ctx context.Context, guildID int64) (bool, error)

	// CreateDefault inserts a default row for the guild if none exists
	CreateDefault(ctx context.Context, guildID int64) error

	// Delete removes the settings row for a guild
	Delete(ctx context.Context, guildID int64) error

	// Update writes only the columns assigned in the patch, in a single statement
	Update(ctx context.Context, guildID int64, patch *models.SettingsPatch) error
}

// ChannelRef is a resolved chat channel
type ChannelRef struct {
	ID   int64
	Name string
}

// Mention returns the channel mention string
func (c *ChannelRef) Mention() string {
	return "<#" + strconv.FormatInt(c.ID, 10) + ">"
}

// GuildRef is a resolved guild
type GuildRef struct {
	ID   int64
	Name string
}

// MemberRef is a resolved guild member
type MemberRef struct {
	ID          int64
	Username    string
	DisplayName string
}

// RoleRef is a resolved guild role
type RoleRef struct {
	ID   int64
	Name string
}

// Directory resolves live chat-platform objects by id. A missing or
// unreachable object is reported via ok=false, never through an error; callers
// treat every miss as "unset".
type Directory interface {
	Channel(id int64) (*ChannelRef, bool)
	Guild(id int64) (*GuildRef, bool)
	Member(guildID, userID int64) (*MemberRef, bool)
	Role(guildID, roleID int64) (*RoleRef, bool)
}

// ResearchProvider fetches the research design catalog from the game content API
type ResearchProvider interface {
	ResearchDesigns(ctx context.Context) (map[string]*models.ResearchDesign, error)
}

// Defaults are the process-wide fallbacks applied when a guild has no stored value
type Defaults struct {
	Prefix        string
	UsePagination bool
}
