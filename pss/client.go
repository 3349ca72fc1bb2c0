package pss

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"starbot/models"

	gocache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
)

const (
	researchDesignPath = "ResearchService/ListAllResearchDesigns2?languageKey=en"

	researchCacheKey = "ResearchDesigns"
	cacheTTL         = 30 * time.Minute
	requestTimeout   = 30 * time.Second
)

// Client fetches game content from the Pixel Starships API. Decoded catalogs
// are cached with a TTL so repeated lookups stay off the wire.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *gocache.Cache
}

// NewClient creates a game content client for the given API base URL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
		cache:   gocache.New(cacheTTL, 10*time.Minute),
	}
}

type researchDesignList struct {
	Designs []*models.ResearchDesign `xml:"ListAllResearchDesigns>ResearchDesigns>ResearchDesign"`
}

// ResearchDesigns returns the full research catalog keyed by design id,
// served from cache when fresh.
func (c *Client) ResearchDesigns(ctx context.Context) (map[string]*models.ResearchDesign, error) {
	if cached, ok := c.cache.Get(researchCacheKey); ok {
		return cached.(map[string]*models.ResearchDesign), nil
	}

	url := c.baseURL + "/" + researchDesignPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build research designs request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch research designs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("research designs request returned status %d", resp.StatusCode)
	}

	var list researchDesignList
	if err := xml.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode research designs: %w", err)
	}

	designs := make(map[string]*models.ResearchDesign, len(list.Designs))
	for _, design := range list.Designs {
		designs[design.ID] = design
	}

	c.cache.Set(researchCacheKey, designs, gocache.DefaultExpiration)
	log.WithField("design_count", len(designs)).Debug("Refreshed research design catalog")
	return designs, nil
}
