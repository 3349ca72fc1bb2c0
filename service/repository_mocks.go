package service

import (
	"context"

	"starbot/models"

	"github.com/stretchr/testify/mock"
)

// MockGuildSettingsRepository is a mock implementation of GuildSettingsRepository
type MockGuildSettingsRepository struct {
	mock.Mock
}

func (m *MockGuildSettingsRepository) Get(ctx context.Context, guildID int64) (*models.GuildSettingsRecord, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildSettingsRecord), args.Error(1)
}

func (m *MockGuildSettingsRepository) GetAll(ctx context.Context) ([]*models.GuildSettingsRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GuildSettingsRecord), args.Error(1)
}

func (m *MockGuildSettingsRepository) Exists(ctx context.Context, guildID int64) (bool, error) {
	args := m.Called(ctx, guildID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuildSettingsRepository) CreateDefault(ctx context.Context, guildID int64) error {
	args := m.Called(ctx, guildID)
	return args.Error(0)
}

func (m *MockGuildSettingsRepository) Delete(ctx context.Context, guildID int64) error {
	args := m.Called(ctx, guildID)
	return args.Error(0)
}

func (m *MockGuildSettingsRepository) Update(ctx context.Context, guildID int64, patch *models.SettingsPatch) error {
	args := m.Called(ctx, guildID, patch)
	return args.Error(0)
}

// MockDirectory is a mock implementation of Directory
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) Channel(id int64) (*ChannelRef, bool) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*ChannelRef), args.Bool(1)
}

func (m *MockDirectory) Guild(id int64) (*GuildRef, bool) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*GuildRef), args.Bool(1)
}

func (m *MockDirectory) Member(guildID, userID int64) (*MemberRef, bool) {
	args := m.Called(guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*MemberRef), args.Bool(1)
}

func (m *MockDirectory) Role(guildID, roleID int64) (*RoleRef, bool) {
	args := m.Called(guildID, roleID)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*RoleRef), args.Bool(1)
}

// MockResearchProvider is a mock implementation of ResearchProvider
type MockResearchProvider struct {
	mock.Mock
}

func (m *MockResearchProvider) ResearchDesigns(ctx context.Context) (map[string]*models.ResearchDesign, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*models.ResearchDesign), args.Error(1)
}
