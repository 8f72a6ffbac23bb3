package listings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gereonelvers/mortgage-moment/internal/model"
)

// Fixed aggregator search parameters: the product only ever searches active
// buy-side apartment listings around a city.
const (
	searchType     = "APARTMENTBUY"
	searchSort     = "distance"
	searchDistance = "30km"
	geoSearchKind  = "city"

	aggregatorTimeout = 15 * time.Second
)

// AggregatorClient searches the external listing aggregator. If BaseURL is
// empty, Search returns (nil, nil) gracefully — the chain simply advances to
// the next provider.
type AggregatorClient struct {
	baseURL string
	apiKey  string
	cache   *Cache
	logger  *slog.Logger
	client  *http.Client
}

// NewAggregatorClient constructs a client with a shared HTTP client. cache
// may be nil to disable caching.
func NewAggregatorClient(baseURL, apiKey string, cache *Cache, logger *slog.Logger) *AggregatorClient {
	return &AggregatorClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		cache:   cache,
		logger:  logger,
		client:  &http.Client{Timeout: aggregatorTimeout},
	}
}

type geoSearch struct {
	GeoSearchQuery string `json:"geoSearchQuery"`
	Distance       string `json:"distance"`
	GeoSearchType  string `json:"geoSearchType"`
}

type searchRequest struct {
	Active      bool      `json:"active"`
	Type        string    `json:"type"`
	SortBy      string    `json:"sortBy"`
	From        int       `json:"from"`
	Size        int       `json:"size"`
	GeoSearches geoSearch `json:"geoSearches"`
}

type searchResponse struct {
	Total   int                `json:"total"`
	Results []AggregatorRecord `json:"results"`
}

// Search queries the aggregator for q.Location, normalizes the results and
// applies the query filters. Cached pages are served without a network call.
func (c *AggregatorClient) Search(ctx context.Context, q Query) (*Page, error) {
	if c.baseURL == "" {
		return nil, nil
	}

	key := q.CacheKey()
	if page, ok := c.cache.Get(ctx, key); ok {
		return page, nil
	}

	resp, err := c.search(ctx, q)
	if err != nil {
		return nil, err
	}

	items := make([]model.Listing, 0, len(resp.Results))
	for _, raw := range resp.Results {
		l := NormalizeAggregator(raw)
		if q.Matches(l) {
			items = append(items, l)
		}
	}

	page := &Page{Items: items, Total: resp.Total, Source: SourceExternalAPI}
	c.cache.Set(ctx, key, page)
	return page, nil
}

func (c *AggregatorClient) search(ctx context.Context, q Query) (*searchResponse, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	payload, err := json.Marshal(searchRequest{
		Active: true,
		Type:   searchType,
		SortBy: searchSort,
		From:   q.Offset,
		Size:   limit,
		GeoSearches: geoSearch{
			GeoSearchQuery: q.Location,
			Distance:       searchDistance,
			GeoSearchType:  geoSearchKind,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http POST: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("aggregator returned %d: %s", resp.StatusCode, string(raw))
	}

	var out searchResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return &out, nil
}
