package repository

import (
	"context"
	"fmt"
	"strings"

	"starbot/database"
	"starbot/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// queryable abstracts over a connection pool and a transaction
type queryable interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// serverSettingsColumns is the column list every SELECT on serversettings uses,
// in GuildSettingsRecord scan order
const serverSettingsColumns = `guildid, prefix, usepagination, dailycanpost, dailychannelid,
		dailylatestmessageid, dailychangemode, dailynotifyid, dailynotifytype,
		dailylatestmessagecreatedate, dailylatestmessagemodifydate, botnewschannelid`

// GuildSettingsRepository provides access to the serversettings table
type GuildSettingsRepository struct {
	q queryable
}

// NewGuildSettingsRepository creates a new guild settings repository
func NewGuildSettingsRepository(db *database.DB) *GuildSettingsRepository {
	return &GuildSettingsRepository{q: db.Pool}
}

func scanServerSettings(row pgx.Row) (*models.GuildSettingsRecord, error) {
	var record models.GuildSettingsRecord
	err := row.Scan(
		&record.GuildID,
		&record.Prefix,
		&record.UsePagination,
		&record.DailyCanPost,
		&record.DailyChannelID,
		&record.DailyLatestMessageID,
		&record.DailyChangeMode,
		&record.DailyNotifyID,
		&record.DailyNotifyType,
		&record.DailyLatestMessageCreatedAt,
		&record.DailyLatestMessageModifiedAt,
		&record.BotNewsChannelID,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Get retrieves the settings row for a guild, or nil if no row exists
func (r *GuildSettingsRepository) Get(ctx context.Context, guildID int64) (*models.GuildSettingsRecord, error) {
	query := `
		SELECT ` + serverSettingsColumns + `
		FROM serversettings
		WHERE guildid = $1
	`

	record, err := scanServerSettings(r.q.QueryRow(ctx, query, guildID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get server settings for guild %d: %w", guildID, err)
	}

	return record, nil
}

// GetAll retrieves every settings row
func (r *GuildSettingsRepository) GetAll(ctx context.Context) ([]*models.GuildSettingsRecord, error) {
	query := `
		SELECT ` + serverSettingsColumns + `
		FROM serversettings
		ORDER BY guildid
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all server settings: %w", err)
	}
	defer rows.Close()

	var records []*models.GuildSettingsRecord
	for rows.Next() {
		record, err := scanServerSettings(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan server settings: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate server settings: %w", err)
	}

	return records, nil
}

// Exists reports whether a settings row exists for the guild
func (r *GuildSettingsRepository) Exists(ctx context.Context, guildID int64) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM serversettings WHERE guildid = $1)
	`

	var exists bool
	if err := r.q.QueryRow(ctx, query, guildID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check server settings for guild %d: %w", guildID, err)
	}

	return exists, nil
}

// CreateDefault inserts a default row for the guild if none exists. The
// check-then-insert is deliberately not transactional: a racing creator's
// insert turns into a no-op through the existence check, and callers reload
// the row afterwards either way.
func (r *GuildSettingsRepository) CreateDefault(ctx context.Context, guildID int64) error {
	exists, err := r.Exists(ctx, guildID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	query := `
		INSERT INTO serversettings (guildid, dailychangemode)
		VALUES ($1, $2)
	`

	if _, err := r.q.Exec(ctx, query, guildID, models.DefaultAutodailyChangeMode); err != nil {
		return fmt.Errorf("failed to create server settings for guild %d: %w", guildID, err)
	}

	return nil
}

// Delete removes the settings row for a guild. Deleting an absent row succeeds.
func (r *GuildSettingsRepository) Delete(ctx context.Context, guildID int64) error {
	query := `
		DELETE FROM serversettings WHERE guildid = $1
	`

	if _, err := r.q.Exec(ctx, query, guildID); err != nil {
		return fmt.Errorf("failed to delete server settings for guild %d: %w", guildID, err)
	}

	return nil
}

// Update writes only the columns assigned in the patch, in a single statement.
// An empty patch is a no-op.
func (r *GuildSettingsRepository) Update(ctx context.Context, guildID int64, patch *models.SettingsPatch) error {
	if patch == nil || patch.IsEmpty() {
		return nil
	}

	sets := make([]string, 0, 11)
	args := []any{guildID}
	assign := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Prefix.IsSet() {
		assign("prefix", patch.Prefix.Value())
	}
	if patch.UsePagination.IsSet() {
		assign("usepagination", patch.UsePagination.Value())
	}
	if patch.DailyCanPost.IsSet() {
		assign("dailycanpost", patch.DailyCanPost.Value())
	}
	if patch.DailyChannelID.IsSet() {
		assign("dailychannelid", patch.DailyChannelID.Value())
	}
	if patch.DailyLatestMessageID.IsSet() {
		assign("dailylatestmessageid", patch.DailyLatestMessageID.Value())
	}
	if patch.DailyChangeMode.IsSet() {
		assign("dailychangemode", patch.DailyChangeMode.Value())
	}
	if patch.DailyNotifyID.IsSet() {
		assign("dailynotifyid", patch.DailyNotifyID.Value())
	}
	if patch.DailyNotifyType.IsSet() {
		assign("dailynotifytype", patch.DailyNotifyType.Value())
	}
	if patch.DailyLatestMessageCreatedAt.IsSet() {
		assign("dailylatestmessagecreatedate", patch.DailyLatestMessageCreatedAt.Value())
	}
	if patch.DailyLatestMessageModifiedAt.IsSet() {
		assign("dailylatestmessagemodifydate", patch.DailyLatestMessageModifiedAt.Value())
	}
	if patch.BotNewsChannelID.IsSet() {
		assign("botnewschannelid", patch.BotNewsChannelID.Value())
	}

	query := fmt.Sprintf(`UPDATE serversettings SET %s WHERE guildid = $1`, strings.Join(sets, ", "))

	result, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update server settings for guild %d: %w", guildID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("server settings for guild %d not found", guildID)
	}

	return nil
}
