package pubg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const (
	// API base URL
	defaultBaseURL = "https://api.pubg.com"

	// Default platform shard
	DefaultShard = "steam"

	defaultTimeout = 30 * time.Second

	// Upper bound for the startup key check
	keyCheckTimeout = 10 * time.Second

	// JSON:API media type required by the PUBG API
	acceptHeader = "application/vnd.api+json"
)

// API error types
var (
	ErrNotFound     = errors.New("not found (404)")
	ErrUnauthorized = errors.New("api key rejected (401)")
	ErrForbidden    = errors.New("api key forbidden (403)")
	ErrRateLimited  = errors.New("rate limited (429)")
)

// Client is a PUBG API client. It does not retry or pace requests; callers
// own the cadence.
type Client struct {
	apiKey     string
	baseURL    string
	shard      string
	httpClient *http.Client
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL (useful for testing)
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithShard sets the platform shard (steam, kakao, psn, xbox...)
func WithShard(shard string) ClientOption {
	return func(c *Client) {
		if shard != "" {
			c.shard = shard
		}
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new PUBG API client
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("PUBG API key not set")
	}

	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		shard:   DefaultShard,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// doRequest makes an authenticated GET and decodes the JSON body into result
func (c *Client) doRequest(ctx context.Context, url string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", acceptHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		if reset := resp.Header.Get("X-RateLimit-Reset"); reset != "" {
			return fmt.Errorf("%w, resets at %s", ErrRateLimited, reset)
		}
		return ErrRateLimited
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) shardURL(path string) string {
	return fmt.Sprintf("%s/shards/%s%s", c.baseURL, c.shard, path)
}

// GetPlayersByName fetches player resources by exact name
func (c *Client) GetPlayersByName(ctx context.Context, names ...string) ([]Player, error) {
	q := url.Values{}
	q.Set("filter[playerNames]", strings.Join(names, ","))

	var players PlayersResponse
	if err := c.doRequest(ctx, c.shardURL("/players?"+q.Encode()), &players); err != nil {
		return nil, err
	}
	return players.Data, nil
}

// GetPlayer fetches a player by account id, including recent match refs
func (c *Client) GetPlayer(ctx context.Context, accountID string) (*Player, error) {
	var player PlayerResponse
	err := c.doRequest(ctx, c.shardURL("/players/"+url.PathEscape(accountID)), &player)
	if err != nil {
		return nil, err
	}
	return &player.Data, nil
}

// GetMatch fetches match details
func (c *Client) GetMatch(ctx context.Context, matchID string) (*MatchResponse, error) {
	var match MatchResponse
	err := c.doRequest(ctx, c.shardURL("/matches/"+url.PathEscape(matchID)), &match)
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// GetSeasons fetches the shard's season list
func (c *Client) GetSeasons(ctx context.Context) ([]ResourceRef, error) {
	var seasons SeasonsResponse
	if err := c.doRequest(ctx, c.shardURL("/seasons"), &seasons); err != nil {
		return nil, err
	}
	return seasons.Data, nil
}

// ValidateKey checks the API key with a cheap authenticated request.
// Returns:
//   - (true, nil) if the key is valid
//   - (false, nil) if the API rejected it (401/403)
//   - (false, error) on network or server errors (key validity unknown)
func (c *Client) ValidateKey(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, keyCheckTimeout)
	defer cancel()

	_, err := c.GetSeasons(ctx)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrForbidden):
		return false, nil
	default:
		return false, err
	}
}
