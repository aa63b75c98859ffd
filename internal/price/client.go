// Package price fetches token fiat prices from the CoinGecko public API.
package price

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/icw-wallet/icw/internal/log"
)

// ErrFeedUnavailable is returned when no price can be obtained, fresh or
// cached. Callers degrade output instead of failing the whole operation.
var ErrFeedUnavailable = errors.New("price feed unavailable")

// DefaultBaseURL is the CoinGecko simple-price endpoint (free, no API key).
const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// cacheTTL bounds how often we hit the feed. Stale entries are still
// served when the feed is down.
const cacheTTL = 30 * time.Second

const userAgent = "icw/1.0"

type cachedPrice struct {
	usd float64
	at  time.Time
}

// Client is a CoinGecko price client with a short-lived cache.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger

	mu    sync.Mutex
	cache map[string]cachedPrice
	now   func() time.Time
}

// New creates a price client with the default endpoint and timeout.
func New() *Client {
	return NewWithBaseURL(DefaultBaseURL, 10*time.Second)
}

// NewWithBaseURL creates a price client with a custom endpoint and HTTP
// timeout (tests point this at a local server).
func NewWithBaseURL(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  log.Price,
		cache:   make(map[string]cachedPrice),
		now:     time.Now,
	}
}

// USDPrice returns the current USD price for one CoinGecko ID. An empty ID
// means the token has no public feed and fails immediately.
func (c *Client) USDPrice(ctx context.Context, id string) (float64, error) {
	if id == "" {
		return 0, fmt.Errorf("%w: token has no price feed", ErrFeedUnavailable)
	}
	prices, err := c.USDPrices(ctx, []string{id})
	if err != nil {
		return 0, err
	}
	usd, ok := prices[id]
	if !ok {
		return 0, fmt.Errorf("%w: no quote for %q", ErrFeedUnavailable, id)
	}
	return usd, nil
}

// USDPrices returns USD prices for several CoinGecko IDs in one request.
// Fresh cache entries are served without a network call; on feed failure
// stale entries are served instead when present.
func (c *Client) USDPrices(ctx context.Context, ids []string) (map[string]float64, error) {
	wanted := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			wanted = append(wanted, id)
		}
	}
	if len(wanted) == 0 {
		return nil, fmt.Errorf("%w: no feed IDs", ErrFeedUnavailable)
	}

	if fresh, ok := c.fromCache(wanted, cacheTTL); ok {
		return fresh, nil
	}

	fetched, err := c.fetch(ctx, wanted)
	if err != nil {
		// Serve stale quotes rather than blocking balance display.
		if stale, ok := c.fromCache(wanted, 0); ok {
			c.logger.Warn().Err(err).Msg("price feed down, serving stale quotes")
			return stale, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}

	c.store(fetched)
	return fetched, nil
}

// fromCache returns cached quotes for all wanted IDs. A zero maxAge
// accepts entries of any age.
func (c *Client) fromCache(ids []string, maxAge time.Duration) (map[string]float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]float64, len(ids))
	for _, id := range ids {
		entry, ok := c.cache[id]
		if !ok {
			return nil, false
		}
		if maxAge > 0 && c.now().Sub(entry.at) >= maxAge {
			return nil, false
		}
		out[id] = entry.usd
	}
	return out, true
}

func (c *Client) store(prices map[string]float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	at := c.now()
	for id, usd := range prices {
		c.cache[id] = cachedPrice{usd: usd, at: at}
	}
}

func (c *Client) fetch(ctx context.Context, ids []string) (map[string]float64, error) {
	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd",
		c.baseURL, url.QueryEscape(strings.Join(ids, ",")))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var quotes map[string]map[string]float64
	if err := json.Unmarshal(body, &quotes); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	out := make(map[string]float64, len(quotes))
	for id, q := range quotes {
		if usd, ok := q["usd"]; ok {
			out[id] = usd
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no quotes in response")
	}
	return out, nil
}
