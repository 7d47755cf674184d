// Package rates fetches currency exchange rates over HTTP.
package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"fintrack/internal/cache"
	"fintrack/internal/core"
)

const (
	DefaultBaseURL = "https://api.exchangerate-api.com/v4/latest"
	defaultTimeout = 5 * time.Second
	cacheSize      = 64
)

var (
	ErrUnknownCurrency = errors.New("currency not listed by rate source")
	ErrBadRate         = errors.New("rate source returned a non-positive rate")
	ErrInvalidCurrency = errors.New("invalid currency code")
)

// Table maps target currency codes to the price of one unit of the base.
type Table map[string]decimal.Decimal

// Client reads GET <baseURL>/<FROM> and returns {"rates": {...}}. Whole
// tables are cached per base currency; concurrent misses for the same base
// share one request.
type Client struct {
	baseURL string
	http    *http.Client
	tables  *cache.LRU[Table]
	group   singleflight.Group
}

type Config struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		tables:  cache.NewLRU[Table](cacheSize, cfg.CacheTTL),
	}
}

// Cache exposes the table cache so its expiry can be scheduled.
func (c *Client) Cache() *cache.LRU[Table] { return c.tables }

// Rate returns how many units of to one unit of from buys.
func (c *Client) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	if !core.ValidCurrency(from) || !core.ValidCurrency(to) {
		return decimal.Zero, fmt.Errorf("%q/%q: %w", from, to, ErrInvalidCurrency)
	}
	table, err := c.table(ctx, from)
	if err != nil {
		return decimal.Zero, err
	}
	rate, ok := table[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s: %w", to, ErrUnknownCurrency)
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%s/%s: %w", from, to, ErrBadRate)
	}
	return rate, nil
}

func (c *Client) table(ctx context.Context, base string) (Table, error) {
	if t, ok := c.tables.Get(base); ok {
		return t, nil
	}
	ch := c.group.DoChan(base, func() (any, error) {
		// Detached so one caller's cancellation does not fail the others.
		t, err := c.fetch(context.WithoutCancel(ctx), base)
		if err != nil {
			return nil, err
		}
		c.tables.Set(base, t)
		return t, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Table), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Client) fetch(ctx context.Context, base string) (Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+base, nil)
	if err != nil {
		return nil, fmt.Errorf("build rate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rates for %s: %w", base, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch rates for %s: status %d: %s", base, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Rates Table `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode rates for %s: %w", base, err)
	}
	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("fetch rates for %s: empty rate table", base)
	}
	slog.DebugContext(ctx, "Exchange rates fetched",
		"base", base,
		"currencies", len(payload.Rates),
		"duration", time.Since(start))
	return payload.Rates, nil
}
