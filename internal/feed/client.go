// Package feed talks to the external market-data supplier. The upstream is
// treated as opaque: on any failure both entry points log the error and
// return an empty list, never an error, so a flaky feed can not take down a
// chat command.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/mkrelic/casevault/internal/logger"
	"github.com/mkrelic/casevault/internal/metrics"
)

const (
	// DefaultCacheTTL matches the upstream's own refresh cadence
	DefaultCacheTTL = 5 * time.Minute

	// DefaultTimeout bounds every upstream request
	DefaultTimeout = 10 * time.Second

	// cacheSize bounds the read-through cache; one entry per distinct query
	cacheSize = 256

	// maxRetries and retryDelay govern transient-failure retries. Client
	// errors (4xx) are never retried.
	maxRetries = 3
	retryDelay = 500 * time.Millisecond

	cacheKeyLimiteds = "limiteds"

	outcomeOK    = "ok"
	outcomeError = "error"
)

// imageRefTemplate builds a thumbnail URL from the upstream asset id
const imageRefTemplate = "https://tr.rbxcdn.com/%d/150/150/Image/Png"

// Client defines the feed collaborator contract
type Client interface {
	// SearchItems looks up items matching query. Returns an empty slice on
	// upstream failure.
	SearchItems(ctx context.Context, query string) []ItemRecord

	// FetchAllLimiteds returns every limited item the feed knows about.
	// Returns an empty slice on upstream failure.
	FetchAllLimiteds(ctx context.Context) []ItemRecord
}

type client struct {
	baseURL string
	http    *http.Client
	cache   *expirable.LRU[string, []ItemRecord]
}

// NewClient creates a feed client with a bounded read-through TTL cache.
// Zero ttl or timeout select the defaults.
func NewClient(baseURL string, timeout, ttl time.Duration) Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		cache:   expirable.NewLRU[string, []ItemRecord](cacheSize, nil, ttl),
	}
}

// feedItem is the upstream wire shape
type feedItem struct {
	ID      int64  `json:"id"`
	AssetID int64  `json:"asset_id"`
	Name    string `json:"name"`
	Value   int    `json:"value"`
	RAP     int    `json:"rap"`
}

// feedResponse is the upstream envelope
type feedResponse struct {
	Items []feedItem `json:"items"`
}

func (c *client) SearchItems(ctx context.Context, query string) []ItemRecord {
	cacheKey := "search:" + query
	if cached, ok := c.cache.Get(cacheKey); ok {
		metrics.FeedCacheHits.Inc()
		return cached
	}

	endpoint := fmt.Sprintf("%s/v1/search?q=%s", c.baseURL, url.QueryEscape(query))
	records, err := c.fetch(ctx, endpoint)
	if err != nil {
		logger.FromContext(ctx).Error("Feed search failed", "query", query, "error", err)
		return []ItemRecord{}
	}

	c.cache.Add(cacheKey, records)
	return records
}

func (c *client) FetchAllLimiteds(ctx context.Context) []ItemRecord {
	if cached, ok := c.cache.Get(cacheKeyLimiteds); ok {
		metrics.FeedCacheHits.Inc()
		return cached
	}

	endpoint := c.baseURL + "/v2/items/limiteds"
	records, err := c.fetch(ctx, endpoint)
	if err != nil {
		logger.FromContext(ctx).Error("Feed limiteds fetch failed", "error", err)
		return []ItemRecord{}
	}

	c.cache.Add(cacheKeyLimiteds, records)
	return records
}

// fetch runs the request with bounded retries for transient failures only
func (c *client) fetch(ctx context.Context, endpoint string) ([]ItemRecord, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay * time.Duration(attempt)):
			}
		}

		records, retryable, err := c.doRequest(ctx, endpoint)
		if err == nil {
			metrics.FeedRequests.WithLabelValues(outcomeOK).Inc()
			return records, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		logger.FromContext(ctx).Warn("Feed request failed, retrying",
			"endpoint", endpoint, "attempt", attempt+1, "error", err)
	}

	metrics.FeedRequests.WithLabelValues(outcomeError).Inc()
	return nil, lastErr
}

func (c *client) doRequest(ctx context.Context, endpoint string) (records []ItemRecord, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to build feed request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, true, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var body feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, false, fmt.Errorf("failed to decode feed response: %w", err)
	}

	records = make([]ItemRecord, 0, len(body.Items))
	for _, item := range body.Items {
		records = append(records, ItemRecord{
			ItemID:   strconv.FormatInt(item.ID, 10),
			Name:     item.Name,
			ImageRef: fmt.Sprintf(imageRefTemplate, item.AssetID),
			Value:    item.Value,
			RAP:      item.RAP,
		})
	}
	return records, false, nil
}
