package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"starbot/models"
)

// ResearchService answers research lookups against the game content catalog
type ResearchService struct {
	provider ResearchProvider
}

// NewResearchService creates a research service backed by the given provider
func NewResearchService(provider ResearchProvider) *ResearchService {
	return &ResearchService{provider: provider}
}

// DetailsByName returns display details for every research whose name contains
// the given term, case-insensitive, ordered along the research tree. An empty
// result is not an error.
func (s *ResearchService) DetailsByName(ctx context.Context, name string) ([]*models.ResearchDetails, error) {
	term := strings.TrimSpace(name)
	if term == "" {
		return nil, fmt.Errorf("a research name is required")
	}

	designs, err := s.provider.ResearchDesigns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch research designs: %w", err)
	}

	term = strings.ToLower(term)
	matches := make([]*models.ResearchDesign, 0)
	for _, design := range designs {
		if strings.Contains(strings.ToLower(design.Name), term) {
			matches = append(matches, design)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return treeSortKey(matches[i], designs) < treeSortKey(matches[j], designs)
	})

	details := make([]*models.ResearchDetails, 0, len(matches))
	for _, design := range matches {
		details = append(details, buildDetails(design, designs))
	}
	return details, nil
}

// treeSortKey concatenates the zero-padded ids of a design's ancestor chain,
// root first, then the design's own id, so sorting groups each research with
// its prerequisites.
func treeSortKey(design *models.ResearchDesign, designs map[string]*models.ResearchDesign) string {
	var sb strings.Builder
	for _, parent := range parentChain(design, designs) {
		sb.WriteString(padResearchID(parent.ID))
	}
	sb.WriteString(padResearchID(design.ID))
	return sb.String()
}

// parentChain walks RequiredResearchDesignID links up to the root, returned
// root first. Unknown parent ids end the walk; the visited set guards against
// a cyclic catalog.
func parentChain(design *models.ResearchDesign, designs map[string]*models.ResearchDesign) []*models.ResearchDesign {
	var chain []*models.ResearchDesign
	visited := map[string]bool{design.ID: true}

	current := design
	for current.HasParent() {
		parent, ok := designs[current.RequiredResearchDesignID]
		if !ok || visited[parent.ID] {
			break
		}
		visited[parent.ID] = true
		chain = append([]*models.ResearchDesign{parent}, chain...)
		current = parent
	}
	return chain
}

func padResearchID(id string) string {
	if len(id) >= 4 {
		return id
	}
	return strings.Repeat("0", 4-len(id)) + id
}

func buildDetails(design *models.ResearchDesign, designs map[string]*models.ResearchDesign) *models.ResearchDetails {
	details := &models.ResearchDetails{
		Name:             design.Name,
		Description:      design.Description,
		CostDisplay:      costDisplay(design),
		DurationDisplay:  formatDuration(design.Duration()),
		RequiredLabLevel: design.RequiredLabLevel,
	}
	if design.HasParent() {
		if parent, ok := designs[design.RequiredResearchDesignID]; ok {
			details.RequiredResearchName = parent.Name
		}
	}
	return details
}

const (
	starbuxEmoji = "💎"
	gasEmoji     = "⛽"
)

// costDisplay renders the research cost with its currency emoji. Starbux takes
// priority over gas when both are present.
func costDisplay(design *models.ResearchDesign) string {
	var cost int64
	var emoji string
	switch {
	case design.StarbuxCost > 0:
		cost = design.StarbuxCost
		emoji = starbuxEmoji
	case design.GasCost > 0:
		cost = design.GasCost
		emoji = gasEmoji
	default:
		return "0"
	}
	return fmt.Sprintf("%s %s", reducedNumber(cost), emoji)
}

// reducedNumber shortens large amounts to one decimal with a K or M suffix,
// dropping a trailing ".0".
func reducedNumber(n int64) string {
	var reduced float64
	var suffix string
	switch {
	case n >= 1_000_000:
		reduced = float64(n) / 1_000_000
		suffix = "M"
	case n >= 1_000:
		reduced = float64(n) / 1_000
		suffix = "K"
	default:
		return strconv.FormatInt(n, 10)
	}

	s := strconv.FormatFloat(reduced, 'f', 1, 64)
	s = strings.TrimSuffix(s, ".0")
	return s + suffix
}

// formatDuration renders a duration as compact day/hour/minute/second parts,
// omitting leading zero units.
func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}

	total := int64(d.Seconds())
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	parts := make([]string, 0, 4)
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || len(parts) > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || len(parts) > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))
	return strings.Join(parts, " ")
}
