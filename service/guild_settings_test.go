package service

import (
	"context"
	"errors"
	"testing"

	"starbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testDefaults() Defaults {
	return Defaults{Prefix: "/", UsePagination: true}
}

// emptyDirectory returns a directory where every lookup misses, so entities
// degrade all live references to "unset".
func emptyDirectory() *MockDirectory {
	dir := new(MockDirectory)
	dir.On("Guild", mock.Anything).Return(nil, false).Maybe()
	dir.On("Channel", mock.Anything).Return(nil, false).Maybe()
	dir.On("Member", mock.Anything, mock.Anything).Return(nil, false).Maybe()
	dir.On("Role", mock.Anything, mock.Anything).Return(nil, false).Maybe()
	return dir
}

func TestGuildSettings_Prefix_FallsBackToDefault(t *testing.T) {
	repo := new(MockGuildSettingsRepository)
	gs := NewGuildSettings(repo, emptyDirectory(), testDefaults(), &models.GuildSettingsRecord{GuildID: 100})

	assert.Equal(t, "/", gs.Prefix())
	assert.False(t, gs.HasCustomPrefix())
}

func TestGuildSettings_Prefix_UsesStoredValue(t *testing.T) {
	repo := new(MockGuildSettingsRepository)
	prefix := "!"
	gs := NewGuildSettings(repo, emptyDirectory(), testDefaults(), &models.GuildSettingsRecord{
		GuildID: 100,
		Prefix:  &prefix,
	})

	assert.Equal(t, "!", gs.Prefix())
	assert.True(t, gs.HasCustomPrefix())
}

func TestGuildSettings_SetPrefix_RejectsEmpty(t *testing.T) {
	ctx := context.Background()
	repo := new(MockGuildSettingsRepository)
	gs := NewGuildSettings(repo, emptyDirectory(), testDefaults(), &models.GuildSettingsRecord{GuildID: 100})

	err := gs.SetPrefix(ctx, "")
	assert.Error(t, err)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestGuildSettings_SetPrefix_SkipsWriteWhenUnchanged(t *testing.T) {
	ctx := context.Background()
	repo := new(MockGuildSettingsRepository)
	prefix := "!"
	gs := NewGuildSettings(repo, emptyDirectory(), testDefaults(), &models.GuildSettingsRecord{
		GuildID: 100,
		Prefix:  &prefix,
	})

	err := gs.SetPrefix(ctx, "!")
	assert.NoError(t, err)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestGuildSettings_SetPrefix_WritesAndUpdatesCache(t *testing.T) {
	ctx := context.Background()
	repo := new(MockGuildSettingsRepository)
	gs := NewGuildSettings(repo, emptyDirectory(), testDefaults(), &models.GuildSettingsRecord{GuildID: 100})

	repo.On("Update", ctx, int64(100), mock.MatchedBy(func(p *models.SettingsPatch) bool {
		return p.Prefix.IsSet() && p.Prefix.Value() != nil && *p.Prefix.Value() == "!"
	})).Return(nil)

	err := gs.SetPrefix(ctx, "!")
	assert.NoError(t, err)
	assert.Equal(t, "!", gs.Prefix())
	repo.AssertExpectations(t)
}

func TestGuildSettings_ResetPrefix_SkipsWriteWhenUnset(t *testing.T) {
	ctx := context.Background()
	repo := new(MockGuildSettingsRepository)
	gs := NewGuildSettings(repo, emptyDirectory(), testDefaults(), &models.GuildSettingsRecord{GuildID: 100})

	err := gs.ResetPrefix(ctx)
	assert.NoError(t, err)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestGuildSettings_ResetPrefix_ClearsStoredValue(t *testing.T) {
	ctx := context.Background()
	repo := new(MockGuildSettingsRepository)
	prefix := "!"
	gs := NewGuildSettings(repo, emptyDirectory(), testDefaults(), &models.GuildSettingsRecord{
		GuildID: 100,
		Prefix:  &prefix,
	})

	repo.On("Update", ctx, int64(100), mock.MatchedBy(func(p *models.SettingsPatch) bool {
		return p.Prefix.IsSet() && p.Prefix.Value() == nil
	})).Return(nil)

	err := gs.ResetPrefix(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "/", gs.Prefix())
	repo.AssertExpectations(t)
}

func TestGuildSettings_SetUsePagination_TogglesOnNil(t *testing.T) {
	ctx := context.Background()
	repo := new(MockGuildSettingsRepository)
	gs := NewGuildSettings(repo, emptyDirectory(), testDefaults(), &models.GuildSettingsRecord{GuildID: 100})

	// Effective value is the default (true), so a toggle stores false.
	repo.On("Update", ctx, int64(100), mock.MatchedBy(func(p *models.SettingsPatch) bool {
		return p.UsePagination.IsSet() && p.UsePagination.Value() != nil && !*p.UsePagination.Value()
	})).Return(nil)

	result, err := gs.SetUsePagination(ctx, nil)
	assert.NoError(t, err)
	assert.False(t, result)
	assert.False(t, gs.UsePagination())
	repo.AssertExpectations(t)
}

func TestGuildSettings_SetUsePagination_WritesWhenStoredValueIsUnset(t *testing.T) {
	ctx := context.Background()
	repo := new(MockGuildSettingsRepository)
	gs := NewGuildSettings(repo, emptyDirectory(), testDefaults(), &models.GuildSettingsRecord{GuildID: 100})

	// The effective value already matches the default, but nothing is stored
	// yet, so the preference must still be persisted.
	repo.On("Update", ctx, int64(100), mock.MatchedBy(func(p *models.SettingsPatch) bool {
		return p.UsePagination.IsSet() && p.UsePagination.Value() != nil && *p.UsePagination.Value()
	})).Return(nil).Once()

	value := true
	result, err := gs.SetUsePagination(ctx, &value)
	assert.NoError(t, err)
	assert.True(t, result)
	repo.AssertExpectations(t)
}

func TestGuildSettings_SetUsePagination_SkipsWriteWhenStoredValueUnchanged(t *testing.T) {
	ctx := context.Background()
	repo := new(MockGuildSettingsRepository)
	stored := true
	gs := NewGuildSettings(repo, emptyDirectory(), testDefaults(), &models.GuildSettingsRecord{
		GuildID:       100,
		UsePagination: &stored,
	})

	value := true
	result, err := gs.SetUsePagination(ctx, &value)
	assert.NoError(t, err)
	assert.True(t, result)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestGuildSettings_SetBotNewsChannel_RejectsNil(t *testing.T) {
	ctx := context.Background()
	repo := new(MockGuildSettingsRepository)
	gs := NewGuildSettings(repo, emptyDirectory(), testDefaults(), &models.GuildSettingsRecord{GuildID: 100})

	err := gs.SetBotNewsChannel(ctx, nil)
	assert.Error(t, err)
}

func TestGuildSettings_SetBotNewsChannel_StoresChannel(t *testing.T) {
	ctx := context.Background()
	repo := new(MockGuildSettingsRepository)
	gs := NewGuildSettings(repo, emptyDirectory(), testDefaults(), &models.GuildSettingsRecord{GuildID: 100})

	repo.On("Update", ctx, int64(100), mock.MatchedBy(func(p *models.SettingsPatch) bool {
		return p.BotNewsChannelID.IsSet() && p.BotNewsChannelID.Value() != nil && *p.BotNewsChannelID.Value() == 555
	})).Return(nil)

	err := gs.SetBotNewsChannel(ctx, &ChannelRef{ID: 555, Name: "news"})
	assert.NoError(t, err)
	assert.NotNil(t, gs.BotNewsChannel())
	assert.Equal(t, int64(555), gs.BotNewsChannel().ID)
	repo.AssertExpectations(t)
}

func TestGuildSettings_Reset_ResetsEverySettingIndependently(t *testing.T) {
	ctx := context.Background()
	repo := new(MockGuildSettingsRepository)

	prefix := "!"
	pagination := false
	channelID := int64(555)
	gs := NewGuildSettings(repo, emptyDirectory(), testDefaults(), &models.GuildSettingsRecord{
		GuildID:          100,
		Prefix:           &prefix,
		UsePagination:    &pagination,
		BotNewsChannelID: &channelID,
	})

	// Make the prefix reset fail; the other three settings must still reset.
	repo.On("Update", ctx, int64(100), mock.MatchedBy(func(p *models.SettingsPatch) bool {
		return p.Prefix.IsSet()
	})).Return(errors.New("connection reset"))
	repo.On("Update", ctx, int64(100), mock.MatchedBy(func(p *models.SettingsPatch) bool {
		return !p.Prefix.IsSet()
	})).Return(nil)

	outcome := gs.Reset(ctx)
	assert.Error(t, outcome.Prefix)
	assert.NoError(t, outcome.Pagination)
	assert.NoError(t, outcome.Autodaily)
	assert.NoError(t, outcome.BotNewsChannel)
	assert.False(t, outcome.Succeeded())

	// Failed reset leaves the prefix untouched, successful ones took effect.
	assert.Equal(t, "!", gs.Prefix())
	assert.True(t, gs.UsePagination())
	assert.Nil(t, gs.BotNewsChannel())
}

func TestGuildSettings_Reset_SucceedsOnCleanState(t *testing.T) {
	ctx := context.Background()
	repo := new(MockGuildSettingsRepository)
	gs := NewGuildSettings(repo, emptyDirectory(), testDefaults(), &models.GuildSettingsRecord{GuildID: 100})

	outcome := gs.Reset(ctx)
	assert.True(t, outcome.Succeeded())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}
