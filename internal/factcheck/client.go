// Package factcheck looks claims up against an external fact-check API.
//
// Lookups are opt-in, cached for 24 hours and retried once. Only the page title
// or the first sentence of the text is ever sent, never the full article.
package factcheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/credence/internal/cache"
	"github.com/ppiankov/credence/internal/extract"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/worker"
)

// ErrNoResult is returned when the API answered but nothing usable could be normalized
var ErrNoResult = errors.New("no actionable result")

const (
	// MaxQueryRunes bounds what leaves the machine
	MaxQueryRunes = 140

	// DefaultMaxAge is how long a cached lookup is served without refetching
	DefaultMaxAge = 24 * time.Hour

	cacheNamespace = "factcheck:v1"
	errOffline     = "offline"
)

// Client performs fact-check lookups
type Client struct {
	httpClient  *http.Client
	store       cache.Store
	limiter     *worker.Limiter
	logger      *slog.Logger
	defaultBase string
	attempts    int
	backoff     time.Duration
	maxAge      time.Duration

	online func() bool
	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLimiter throttles requests per API host
func WithLimiter(l *worker.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithOnline overrides connectivity detection
func WithOnline(fn func() bool) Option {
	return func(c *Client) { c.online = fn }
}

// WithClock overrides the clock used for cache freshness
func WithClock(fn func() time.Time) Option {
	return func(c *Client) { c.now = fn }
}

// WithSleep overrides the backoff sleep
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) { c.sleep = fn }
}

// WithMaxAge sets how long a cached lookup stays fresh; non-positive values keep the default
func WithMaxAge(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.maxAge = d
		}
	}
}

// NewClient creates a client. A nil store disables caching.
func NewClient(cfg model.FactCheckConfig, store cache.Store, opts ...Option) *Client {
	if store == nil {
		store = cache.Nop{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		httpClient:  &http.Client{Timeout: timeout},
		store:       store,
		logger:      slog.New(slog.DiscardHandler),
		defaultBase: cfg.DefaultBase,
		attempts:    max(cfg.Attempts, 1),
		backoff:     cfg.Backoff,
		maxAge:      DefaultMaxAge,
		online:      func() bool { return true },
		now:         time.Now,
		sleep:       sleepCtx,
	}
	if c.defaultBase == "" {
		c.defaultBase = model.DefaultConfig().FactCheck.DefaultBase
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BuildQuery returns the trimmed title, else the first sentence of text, truncated to MaxQueryRunes
func BuildQuery(title, text string) string {
	if t := strings.TrimSpace(title); t != "" {
		return extract.Truncate(t, MaxQueryRunes)
	}
	return extract.Truncate(extract.FirstSentence(text), MaxQueryRunes)
}

// Lookup consults the fact-check API for the claim behind title or text.
// It never returns an error; failures are reported in the lookup's Error field.
func (c *Client) Lookup(ctx context.Context, s model.Settings, title, text string) *model.FactCheckLookup {
	if !s.SnopesOptIn {
		return &model.FactCheckLookup{Used: false}
	}
	if !c.online() {
		return &model.FactCheckLookup{Used: true, Error: errOffline}
	}

	base := s.SnopesAPIBase
	if base == "" {
		base = c.defaultBase
	}
	query := BuildQuery(title, text)
	key := cache.Key(cacheNamespace, query, base)

	if fc, ok := c.cached(ctx, key); ok {
		c.logger.Debug("fact-check cache hit", "query", query)
		return &model.FactCheckLookup{Used: true, Result: fc, Cached: true}
	}

	var lastErr error
	for attempt := 0; attempt < c.attempts; attempt++ {
		fc, err := c.fetch(ctx, base, s.SnopesAPIKey, query)
		if err == nil {
			if err := c.store.Put(ctx, key, c.entry(fc)); err != nil {
				c.logger.Debug("fact-check cache write failed", "error", err)
			}
			return &model.FactCheckLookup{Used: true, Result: fc}
		}
		lastErr = err
		c.logger.Warn("fact-check attempt failed", "attempt", attempt+1, "error", err)

		if errors.Is(err, ErrNoResult) || attempt == c.attempts-1 {
			continue
		}
		if err := c.sleep(ctx, c.backoff*time.Duration(attempt+1)); err != nil {
			lastErr = err
			break
		}
	}
	return &model.FactCheckLookup{Used: true, Error: lastErr.Error()}
}

func (c *Client) cached(ctx context.Context, key string) (*model.FactCheck, bool) {
	entry, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Debug("fact-check cache read failed", "error", err)
		return nil, false
	}
	if !ok || !entry.Fresh(c.now(), c.maxAge) {
		return nil, false
	}
	var fc model.FactCheck
	if err := json.Unmarshal(entry.Value, &fc); err != nil {
		return nil, false
	}
	return &fc, true
}

func (c *Client) entry(fc *model.FactCheck) cache.Entry {
	raw, _ := json.Marshal(fc)
	return cache.Entry{TS: c.now(), Value: raw}
}

func (c *Client) fetch(ctx context.Context, base, apiKey, query string) (*model.FactCheck, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse api base: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	u.RawQuery = q.Encode()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, u.String()); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fact-check HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	fc := Normalize(doc)
	if fc == nil {
		return nil, ErrNoResult
	}
	return fc, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
