package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"starbot/events"
	"starbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestCollection(repo *MockGuildSettingsRepository) *GuildSettingsCollection {
	return NewGuildSettingsCollection(repo, emptyDirectory(), testDefaults(), events.NewBus())
}

func TestGuildSettingsCollection_Get_CreatesRowOnFirstAccess(t *testing.T) {
	ctx := context.Background()
	repo := new(MockGuildSettingsRepository)
	collection := newTestCollection(repo)

	repo.On("CreateDefault", ctx, int64(100)).Return(nil).Once()
	repo.On("Get", ctx, int64(100)).Return(&models.GuildSettingsRecord{GuildID: 100}, nil).Once()

	gs, err := collection.Get(ctx, 100)
	assert.NoError(t, err)
	assert.Equal(t, int64(100), gs.ID())

	// Second access hits only the cache.
	again, err := collection.Get(ctx, 100)
	assert.NoError(t, err)
	assert.Same(t, gs, again)
	repo.AssertExpectations(t)
}

func TestGuildSettingsCollection_Get_ConcurrentAccessCreatesRowOnce(t *testing.T) {
	ctx := context.Background()
	repo := new(MockGuildSettingsRepository)
	collection := newTestCollection(repo)

	repo.On("CreateDefault", ctx, int64(100)).Return(nil).Once()
	repo.On("Get", ctx, int64(100)).Return(&models.GuildSettingsRecord{GuildID: 100}, nil).Once()

	var wg sync.WaitGroup
	results := make([]*GuildSettings, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = collection.Get(ctx, 100)
		}(i)
	}
	wg.Wait()

	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])
	assert.Same(t, results[0], results[1])
	repo.AssertExpectations(t)
}

func TestGuildSettingsCollection_Get_ReportsMissingRowAfterCreation(t *testing.T) {
	ctx := context.Background()
	repo := new(MockGuildSettingsRepository)
	collection := newTestCollection(repo)

	repo.On("CreateDefault", ctx, int64(100)).Return(nil)
	repo.On("Get", ctx, int64(100)).Return(nil, nil)

	_, err := collection.Get(ctx, 100)
	assert.Error(t, err)
}

func TestGuildSettingsCollection_Get_PropagatesCreateFailure(t *testing.T) {
	ctx := context.Background()
	repo := new(MockGuildSettingsRepository)
	collection := newTestCollection(repo)

	repo.On("CreateDefault", ctx, int64(100)).Return(errors.New("connection reset"))

	_, err := collection.Get(ctx, 100)
	assert.Error(t, err)
}

func TestGuildSettingsCollection_Init_LoadsAllRows(t *testing.T) {
	ctx := context.Background()
	repo := new(MockGuildSettingsRepository)
	collection := newTestCollection(repo)

	records := []*models.GuildSettingsRecord{
		{GuildID: 100},
		{GuildID: 200},
	}
	repo.On("GetAll", ctx).Return(records, nil)

	err := collection.Init(ctx)
	assert.NoError(t, err)

	gs, err := collection.Get(ctx, 200)
	assert.NoError(t, err)
	assert.Equal(t, int64(200), gs.ID())
	repo.AssertNotCalled(t, "CreateDefault", mock.Anything, mock.Anything)
}

func TestGuildSettingsCollection_Init_RepairsLeadingSpacePrefixes(t *testing.T) {
	ctx := context.Background()
	repo := new(MockGuildSettingsRepository)
	collection := newTestCollection(repo)

	broken := " !"
	spacesOnly := "  "
	fine := "!"
	records := []*models.GuildSettingsRecord{
		{GuildID: 100, Prefix: &broken},
		{GuildID: 200, Prefix: &spacesOnly},
		{GuildID: 300, Prefix: &fine},
	}
	repo.On("GetAll", ctx).Return(records, nil)

	repo.On("Update", ctx, int64(100), mock.MatchedBy(func(p *models.SettingsPatch) bool {
		return p.Prefix.IsSet() && p.Prefix.Value() != nil && *p.Prefix.Value() == "!"
	})).Return(nil).Once()
	repo.On("Update", ctx, int64(200), mock.MatchedBy(func(p *models.SettingsPatch) bool {
		return p.Prefix.IsSet() && p.Prefix.Value() == nil
	})).Return(nil).Once()

	err := collection.Init(ctx)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "Update", ctx, int64(300), mock.Anything)
}

func TestGuildSettingsCollection_Delete_EvictsCachedEntity(t *testing.T) {
	ctx := context.Background()
	repo := new(MockGuildSettingsRepository)
	collection := newTestCollection(repo)

	repo.On("CreateDefault", ctx, int64(100)).Return(nil).Twice()
	repo.On("Get", ctx, int64(100)).Return(&models.GuildSettingsRecord{GuildID: 100}, nil).Twice()
	repo.On("Delete", ctx, int64(100)).Return(nil).Once()

	_, err := collection.Get(ctx, 100)
	assert.NoError(t, err)

	err = collection.Delete(ctx, 100)
	assert.NoError(t, err)

	// Next access recreates the row.
	_, err = collection.Get(ctx, 100)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGuildSettingsCollection_AutodailySettingsDue_FiltersByChannelAndDay(t *testing.T) {
	ctx := context.Background()
	repo := new(MockGuildSettingsRepository)
	collection := newTestCollection(repo)

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	channelA := int64(10)
	channelB := int64(20)
	channelC := int64(30)

	records := []*models.GuildSettingsRecord{
		// No channel configured: never due.
		{GuildID: 100},
		// Channel set, never posted: due.
		{GuildID: 200, DailyChannelID: &channelA},
		// Channel set, last post yesterday: due.
		{GuildID: 300, DailyChannelID: &channelB, DailyLatestMessageCreatedAt: &yesterday},
		// Channel set, already posted today: not due.
		{GuildID: 400, DailyChannelID: &channelC, DailyLatestMessageCreatedAt: &now},
	}
	repo.On("GetAll", ctx).Return(records, nil)

	err := collection.Init(ctx)
	assert.NoError(t, err)

	due := collection.AutodailySettingsDue(now)
	dueGuilds := make(map[int64]bool, len(due))
	for _, ad := range due {
		dueGuilds[ad.GuildID()] = true
	}
	assert.Equal(t, map[int64]bool{200: true, 300: true}, dueGuilds)
}

func TestGuildSettingsCollection_CleanupStale_DeletesDepartedGuilds(t *testing.T) {
	ctx := context.Background()
	repo := new(MockGuildSettingsRepository)
	collection := newTestCollection(repo)

	records := []*models.GuildSettingsRecord{
		{GuildID: 100},
		{GuildID: 200},
	}
	repo.On("GetAll", ctx).Return(records, nil)
	repo.On("Delete", ctx, int64(200)).Return(nil).Once()

	err := collection.CleanupStale(ctx, map[int64]bool{100: true})
	assert.NoError(t, err)
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "Delete", ctx, int64(100))
}

func TestGuildSettingsCollection_PrefixOrDefault_WithoutRow(t *testing.T) {
	repo := new(MockGuildSettingsRepository)
	collection := newTestCollection(repo)

	assert.Equal(t, "/", collection.PrefixOrDefault(100))
	repo.AssertNotCalled(t, "CreateDefault", mock.Anything, mock.Anything)
}

func TestGuildSettingsCollection_SetPagination_RejectsUnknownToken(t *testing.T) {
	ctx := context.Background()
	repo := new(MockGuildSettingsRepository)
	collection := newTestCollection(repo)

	repo.On("CreateDefault", ctx, int64(100)).Return(nil)
	repo.On("Get", ctx, int64(100)).Return(&models.GuildSettingsRecord{GuildID: 100}, nil)

	token := "maybe"
	_, err := collection.SetPagination(ctx, 100, &token)
	assert.Error(t, err)
}

func TestGuildSettingsCollection_SetPagination_ParsesSwitchTokens(t *testing.T) {
	ctx := context.Background()
	repo := new(MockGuildSettingsRepository)
	collection := newTestCollection(repo)

	repo.On("CreateDefault", ctx, int64(100)).Return(nil)
	repo.On("Get", ctx, int64(100)).Return(&models.GuildSettingsRecord{GuildID: 100}, nil)
	repo.On("Update", ctx, int64(100), mock.MatchedBy(func(p *models.SettingsPatch) bool {
		return p.UsePagination.IsSet() && p.UsePagination.Value() != nil && !*p.UsePagination.Value()
	})).Return(nil)

	token := "off"
	result, err := collection.SetPagination(ctx, 100, &token)
	assert.NoError(t, err)
	assert.False(t, result)
	repo.AssertExpectations(t)
}
