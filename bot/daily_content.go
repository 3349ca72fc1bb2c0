package bot

import (
	"context"
	"fmt"
	"sort"
	"time"

	"starbot/service"
)

// ResearchDailyContent builds the daily post from the research catalog,
// featuring one research per day in catalog order.
type ResearchDailyContent struct {
	provider service.ResearchProvider
}

func NewResearchDailyContent(provider service.ResearchProvider) *ResearchDailyContent {
	return &ResearchDailyContent{provider: provider}
}

func (c *ResearchDailyContent) DailyContent(ctx context.Context) (string, error) {
	designs, err := c.provider.ResearchDesigns(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch research designs: %w", err)
	}
	if len(designs) == 0 {
		return "", fmt.Errorf("research catalog is empty")
	}

	ids := make([]string, 0, len(designs))
	for id := range designs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	now := time.Now().UTC()
	featured := designs[ids[now.YearDay()%len(ids)]]

	return fmt.Sprintf("**Daily briefing — %s**\nFeatured research: **%s**\n%s",
		now.Format("January 2, 2006"), featured.Name, featured.Description), nil
}
