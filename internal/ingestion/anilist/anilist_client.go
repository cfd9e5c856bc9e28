package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"scenehub/internal/metrics"
)

const (
	DefaultAPIURL = "https://graphql.anilist.co"

	// AniList allows ~90 requests per minute
	defaultRatePerSecond = 1.0
	rateBurst            = 5

	maxRetries   = 5
	initialDelay = 1 * time.Second
	maxDelay     = 32 * time.Second

	// breaker opens after this many consecutive failed calls and half-opens after breakerTimeout
	breakerFailures = 5
	breakerTimeout  = 30 * time.Second
)

// ErrUnavailable is returned while the circuit breaker is open.
var ErrUnavailable = errors.New("anime catalog unavailable")

const animeFields = `
	id
	title { english romaji }
	coverImage { extraLarge large color }
	bannerImage
	genres
	averageScore
	popularity
	seasonYear
	season
	description(asHtml: false)
	episodes
	status
`

// ClientConfig configures the catalog client. Zero values fall back to the defaults above.
type ClientConfig struct {
	APIURL        string
	RatePerSecond float64
	MaxRetries    int
	InitialDelay  time.Duration
	HTTPClient    *http.Client
	Logger        *slog.Logger
}

// AniListClient handles GraphQL API requests with rate limiting, retry and a circuit breaker
type AniListClient struct {
	apiURL       string
	httpClient   *http.Client
	rateLimiter  *rate.Limiter
	breaker      *gobreaker.CircuitBreaker[json.RawMessage]
	maxRetries   int
	initialDelay time.Duration
	logger       *slog.Logger
}

// NewClient creates a new AniList API client
func NewClient(cfg ClientConfig) *AniListClient {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = defaultRatePerSecond
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = maxRetries
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = initialDelay
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	logger := cfg.Logger.With("component", "anilist")

	return &AniListClient{
		apiURL:       cfg.APIURL,
		httpClient:   cfg.HTTPClient,
		rateLimiter:  rate.NewLimiter(rate.Limit(cfg.RatePerSecond), rateBurst),
		maxRetries:   cfg.MaxRetries,
		initialDelay: cfg.InitialDelay,
		logger:       logger,
		breaker: gobreaker.NewCircuitBreaker[json.RawMessage](gobreaker.Settings{
			Name:    "anilist",
			Timeout: breakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= breakerFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			},
		}),
	}
}

// BreakerState is "closed", "half-open" or "open".
func (c *AniListClient) BreakerState() string {
	return c.breaker.State().String()
}

// GraphQLRequest represents a GraphQL query request
type GraphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// GraphQLResponse represents a GraphQL response
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// GraphQLError represents a GraphQL error
type GraphQLError struct {
	Message string `json:"message"`
}

// FetchTrending returns the currently trending non-adult anime.
func (c *AniListClient) FetchTrending(ctx context.Context, page, perPage int) ([]Media, error) {
	query := `
	query ($page: Int, $perPage: Int) {
		Page(page: $page, perPage: $perPage) {
			media(type: ANIME, sort: TRENDING_DESC, isAdult: false) {` + animeFields + `}
		}
	}`
	var result PageResponse
	err := c.execute(ctx, "trending", query, map[string]any{"page": page, "perPage": perPage}, &result)
	if err != nil {
		return nil, err
	}
	return result.Page.Media, nil
}

// SearchAnime searches by title, best match first.
func (c *AniListClient) SearchAnime(ctx context.Context, search string, page, perPage int) ([]Media, error) {
	search = strings.TrimSpace(search)
	if search == "" {
		return []Media{}, nil
	}
	query := `
	query ($search: String, $page: Int, $perPage: Int) {
		Page(page: $page, perPage: $perPage) {
			media(type: ANIME, search: $search, isAdult: false, sort: SEARCH_MATCH) {` + animeFields + `}
		}
	}`
	var result PageResponse
	vars := map[string]any{"search": search, "page": page, "perPage": perPage}
	if err := c.execute(ctx, "search", query, vars, &result); err != nil {
		return nil, err
	}
	return result.Page.Media, nil
}

// FetchByGenre returns the most popular anime in a genre.
func (c *AniListClient) FetchByGenre(ctx context.Context, genre string, page, perPage int) ([]Media, error) {
	query := `
	query ($genre: String, $page: Int, $perPage: Int) {
		Page(page: $page, perPage: $perPage) {
			media(type: ANIME, genre: $genre, isAdult: false, sort: POPULARITY_DESC) {` + animeFields + `}
		}
	}`
	var result PageResponse
	vars := map[string]any{"genre": genre, "page": page, "perPage": perPage}
	if err := c.execute(ctx, "genre", query, vars, &result); err != nil {
		return nil, err
	}
	return result.Page.Media, nil
}

// FetchAnimeByID fetches a single anime.
func (c *AniListClient) FetchAnimeByID(ctx context.Context, id int64) (*Media, error) {
	query := `
	query ($id: Int) {
		Media(id: $id, type: ANIME) {` + animeFields + `}
	}`
	var result MediaResponse
	if err := c.execute(ctx, "anime", query, map[string]any{"id": id}, &result); err != nil {
		return nil, err
	}
	if result.Media == nil {
		return nil, fmt.Errorf("anime %d not found", id)
	}
	return result.Media, nil
}

// FetchPopular returns the most popular finished or airing anime. Used for seeding.
func (c *AniListClient) FetchPopular(ctx context.Context, page, perPage int) ([]Media, error) {
	query := `
	query ($page: Int, $perPage: Int) {
		Page(page: $page, perPage: $perPage) {
			media(type: ANIME, sort: POPULARITY_DESC, isAdult: false, status_in: [FINISHED, RELEASING]) {` + animeFields + `}
		}
	}`
	var result PageResponse
	err := c.execute(ctx, "popular", query, map[string]any{"page": page, "perPage": perPage}, &result)
	if err != nil {
		return nil, err
	}
	return result.Page.Media, nil
}

// execute runs a query through the breaker and decodes its data into result.
func (c *AniListClient) execute(ctx context.Context, operation, query string, variables map[string]any, result any) error {
	data, err := c.breaker.Execute(func() (json.RawMessage, error) {
		return c.doRequest(ctx, query, variables)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CatalogRequests.WithLabelValues(operation, "rejected").Inc()
			return fmt.Errorf("%s: %w", operation, ErrUnavailable)
		}
		metrics.CatalogRequests.WithLabelValues(operation, "error").Inc()
		return fmt.Errorf("%s: %w", operation, err)
	}

	if err := json.Unmarshal(data, result); err != nil {
		metrics.CatalogRequests.WithLabelValues(operation, "error").Inc()
		return fmt.Errorf("failed to parse data: %w", err)
	}
	metrics.CatalogRequests.WithLabelValues(operation, "ok").Inc()
	return nil
}

// doRequest performs a GraphQL request with rate limiting and retry logic
func (c *AniListClient) doRequest(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	bodyJSON, err := json.Marshal(GraphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	delay := c.initialDelay

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		status, header, respBody, err := c.post(ctx, bodyJSON)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			if attempt < c.maxRetries {
				c.logger.Warn("request failed, retrying",
					"attempt", attempt+1, "max_retries", c.maxRetries, "delay", delay, "error", err)
				if err := sleep(ctx, delay); err != nil {
					return nil, err
				}
				delay = min(delay*2, maxDelay)
				continue
			}
			return nil, fmt.Errorf("request failed after %d attempts: %w", c.maxRetries, err)
		}

		if status != http.StatusOK {
			lastErr = fmt.Errorf("HTTP %d: %s", status, truncateBody(respBody))
			if shouldRetry(status) && attempt < c.maxRetries {
				if retryAfter := header.Get("Retry-After"); retryAfter != "" {
					if d, err := time.ParseDuration(retryAfter + "s"); err == nil {
						delay = d
					}
				}
				c.logger.Warn("catalog returned retryable status",
					"status", status, "attempt", attempt+1, "max_retries", c.maxRetries, "delay", delay)
				if err := sleep(ctx, delay); err != nil {
					return nil, err
				}
				delay = min(delay*2, maxDelay)
				continue
			}
			return nil, lastErr
		}

		var gqlResp GraphQLResponse
		if err := json.Unmarshal(respBody, &gqlResp); err != nil {
			return nil, fmt.Errorf("failed to parse GraphQL response: %w", err)
		}
		if len(gqlResp.Errors) > 0 {
			msgs := make([]string, len(gqlResp.Errors))
			for i, e := range gqlResp.Errors {
				msgs[i] = e.Message
			}
			return nil, fmt.Errorf("GraphQL errors: %s", strings.Join(msgs, "; "))
		}
		return gqlResp.Data, nil
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.maxRetries, lastErr)
}

func (c *AniListClient) post(ctx context.Context, body []byte) (int, http.Header, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, resp.Header, respBody, nil
}

// shouldRetry determines if an HTTP status code warrants a retry
func shouldRetry(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func truncateBody(b []byte) string {
	const limit = 256
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
