package service

import (
	"context"
	"testing"
	"time"

	"starbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func researchCatalog() map[string]*models.ResearchDesign {
	return map[string]*models.ResearchDesign{
		"1": {
			ID:                       "1",
			Name:                     "Advanced Training",
			StarbuxCost:              500,
			ResearchTimeSeconds:      3600,
			RequiredLabLevel:         2,
			RequiredResearchDesignID: "0",
		},
		"2": {
			ID:                       "2",
			Name:                     "Expert Training",
			GasCost:                  25000,
			ResearchTimeSeconds:      90000,
			RequiredLabLevel:         5,
			RequiredResearchDesignID: "1",
		},
		"30": {
			ID:                       "30",
			Name:                     "Elite Training",
			StarbuxCost:              1500000,
			ResearchTimeSeconds:      30,
			RequiredLabLevel:         9,
			RequiredResearchDesignID: "2",
		},
		"40": {
			ID:                       "40",
			Name:                     "Hull Plating",
			ResearchTimeSeconds:      60,
			RequiredLabLevel:         1,
			RequiredResearchDesignID: "0",
		},
	}
}

func TestResearchService_DetailsByName_MatchesCaseInsensitiveSubstring(t *testing.T) {
	ctx := context.Background()
	provider := new(MockResearchProvider)
	provider.On("ResearchDesigns", ctx).Return(researchCatalog(), nil)

	service := NewResearchService(provider)
	details, err := service.DetailsByName(ctx, "TRAINING")
	assert.NoError(t, err)
	assert.Len(t, details, 3)
}

func TestResearchService_DetailsByName_OrdersAlongResearchTree(t *testing.T) {
	ctx := context.Background()
	provider := new(MockResearchProvider)
	provider.On("ResearchDesigns", ctx).Return(researchCatalog(), nil)

	service := NewResearchService(provider)
	details, err := service.DetailsByName(ctx, "training")
	assert.NoError(t, err)

	names := make([]string, 0, len(details))
	for _, d := range details {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"Advanced Training", "Expert Training", "Elite Training"}, names)
}

func TestResearchService_DetailsByName_NoMatchesIsNotAnError(t *testing.T) {
	ctx := context.Background()
	provider := new(MockResearchProvider)
	provider.On("ResearchDesigns", ctx).Return(researchCatalog(), nil)

	service := NewResearchService(provider)
	details, err := service.DetailsByName(ctx, "warp drive")
	assert.NoError(t, err)
	assert.Empty(t, details)
}

func TestResearchService_DetailsByName_RejectsBlankName(t *testing.T) {
	provider := new(MockResearchProvider)
	service := NewResearchService(provider)

	_, err := service.DetailsByName(context.Background(), "   ")
	assert.Error(t, err)
	provider.AssertNotCalled(t, "ResearchDesigns", mock.Anything)
}

func TestResearchService_Details_CostAndDurationAndParent(t *testing.T) {
	ctx := context.Background()
	provider := new(MockResearchProvider)
	provider.On("ResearchDesigns", ctx).Return(researchCatalog(), nil)

	service := NewResearchService(provider)
	details, err := service.DetailsByName(ctx, "expert training")
	assert.NoError(t, err)
	assert.Len(t, details, 1)

	expert := details[0]
	assert.Equal(t, "25K ⛽", expert.CostDisplay)
	assert.Equal(t, "1d 1h 0m 0s", expert.DurationDisplay)
	assert.Equal(t, 5, expert.RequiredLabLevel)
	assert.Equal(t, "Advanced Training", expert.RequiredResearchName)
}

func TestResearchService_Details_StarbuxTakesPriorityAndReduces(t *testing.T) {
	ctx := context.Background()
	provider := new(MockResearchProvider)
	provider.On("ResearchDesigns", ctx).Return(researchCatalog(), nil)

	service := NewResearchService(provider)
	details, err := service.DetailsByName(ctx, "elite")
	assert.NoError(t, err)
	assert.Len(t, details, 1)
	assert.Equal(t, "1.5M 💎", details[0].CostDisplay)
}

func TestResearchService_Details_ZeroCostAndRootResearch(t *testing.T) {
	ctx := context.Background()
	provider := new(MockResearchProvider)
	provider.On("ResearchDesigns", ctx).Return(researchCatalog(), nil)

	service := NewResearchService(provider)
	details, err := service.DetailsByName(ctx, "hull")
	assert.NoError(t, err)
	assert.Len(t, details, 1)
	assert.Equal(t, "0", details[0].CostDisplay)
	assert.Empty(t, details[0].RequiredResearchName)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0s", formatDuration(0))
	assert.Equal(t, "45s", formatDuration(45*time.Second))
	assert.Equal(t, "1h 0m 0s", formatDuration(time.Hour))
	assert.Equal(t, "2d 3h 4m 5s", formatDuration(51*time.Hour+4*time.Minute+5*time.Second))
}

func TestReducedNumber(t *testing.T) {
	assert.Equal(t, "999", reducedNumber(999))
	assert.Equal(t, "1K", reducedNumber(1000))
	assert.Equal(t, "10.5K", reducedNumber(10500))
	assert.Equal(t, "1.5M", reducedNumber(1500000))
}
