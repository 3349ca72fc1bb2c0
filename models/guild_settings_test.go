package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAutodailyChangeMode_Next(t *testing.T) {
	assert.Equal(t, ChangeModeDeleteAndPostNew, ChangeModePostNew.Next())
	assert.Equal(t, ChangeModeEdit, ChangeModeDeleteAndPostNew.Next())
	assert.Equal(t, ChangeModePostNew, ChangeModeEdit.Next())
}

func TestAutodailyChangeMode_Display(t *testing.T) {
	assert.Equal(t, "Post new daily on change.", ChangeModePostNew.Display())
	assert.Equal(t, "Delete daily post and post new daily on change.", ChangeModeDeleteAndPostNew.Display())
	assert.Equal(t, "Edit daily post on change.", ChangeModeEdit.Display())
	assert.Equal(t, "<not specified>", AutodailyChangeMode(0).Display())
	assert.Equal(t, "<not specified>", AutodailyChangeMode(7).Display())
}

func TestNotifyKindFromInt(t *testing.T) {
	kind, ok := NotifyKindFromInt(1)
	assert.True(t, ok)
	assert.Equal(t, NotifyKindUser, kind)

	kind, ok = NotifyKindFromInt(2)
	assert.True(t, ok)
	assert.Equal(t, NotifyKindRole, kind)

	_, ok = NotifyKindFromInt(3)
	assert.False(t, ok)
	_, ok = NotifyKindFromInt(0)
	assert.False(t, ok)
}

func TestNotifyTarget_Mention(t *testing.T) {
	user := NotifyTarget{Kind: NotifyKindUser, ID: 42}
	assert.Equal(t, "<@42>", user.Mention())

	role := NotifyTarget{Kind: NotifyKindRole, ID: 42}
	assert.Equal(t, "<@&42>", role.Mention())
}

func TestGuildSettingsRecord_NotifyTarget(t *testing.T) {
	id := int64(42)
	validKind := int16(2)
	unknownKind := int16(9)

	record := &GuildSettingsRecord{}
	assert.Nil(t, record.NotifyTarget())

	// Id without a kind is incomplete.
	record = &GuildSettingsRecord{DailyNotifyID: &id}
	assert.Nil(t, record.NotifyTarget())

	record = &GuildSettingsRecord{DailyNotifyID: &id, DailyNotifyType: &unknownKind}
	assert.Nil(t, record.NotifyTarget())

	record = &GuildSettingsRecord{DailyNotifyID: &id, DailyNotifyType: &validKind}
	target := record.NotifyTarget()
	assert.NotNil(t, target)
	assert.Equal(t, NotifyKindRole, target.Kind)
	assert.Equal(t, int64(42), target.ID)
}

func TestDailyMessage_ModifiedAt(t *testing.T) {
	createdAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	msg := DailyMessage{ID: 1, CreatedAt: createdAt}
	assert.Equal(t, createdAt, msg.ModifiedAt())

	editedAt := createdAt.Add(time.Hour)
	msg.EditedAt = &editedAt
	assert.Equal(t, editedAt, msg.ModifiedAt())
}
