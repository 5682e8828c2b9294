// Package scraper reads attendance data from the public Eventernote pages.
//
// Every request goes through a circuit breaker so a struggling upstream is
// left alone for a while instead of being hammered by every dashboard load.
package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/net/html"

	"github.com/hamproductions/eventernote-report/internal/logger"
	"github.com/hamproductions/eventernote-report/internal/metrics"
)

const (
	DefaultBaseURL    = "https://www.eventernote.com"
	DefaultUserAgent  = "eventernote-report/1.0 (+https://github.com/hamproductions/eventernote-report)"
	DefaultEventLimit = 10000

	// maxPageSize caps how much of a response body is read
	maxPageSize = 16 << 20
)

var (
	// ErrNotFound is returned when Eventernote answers 404
	ErrNotFound = errors.New("eventernote page not found")
	// ErrUpstream is returned when Eventernote cannot be reached or fails
	ErrUpstream = errors.New("eventernote unavailable")
)

// Config holds scraper settings
type Config struct {
	BaseURL          string
	UserAgent        string
	Timeout          time.Duration
	BatchSize        int
	BatchDelay       time.Duration
	BreakerThreshold uint32
	BreakerTimeout   time.Duration
}

// DefaultConfig returns the settings used against the live site
func DefaultConfig() Config {
	return Config{
		BaseURL:          DefaultBaseURL,
		UserAgent:        DefaultUserAgent,
		Timeout:          30 * time.Second,
		BatchSize:        10,
		BatchDelay:       100 * time.Millisecond,
		BreakerThreshold: 5,
		BreakerTimeout:   time.Minute,
	}
}

// Client fetches and parses Eventernote pages
type Client struct {
	cfg     Config
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// New creates a Client. Zero fields of cfg fall back to DefaultConfig.
func New(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.BatchDelay < 0 {
		cfg.BatchDelay = 0
	}
	if cfg.BreakerThreshold == 0 {
		cfg.BreakerThreshold = def.BreakerThreshold
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = def.BreakerTimeout
	}

	metrics.SetBreakerState(0)

	threshold := cfg.BreakerThreshold
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "eventernote",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// a missing page is a valid answer, not an unhealthy upstream
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Scraper circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
			metrics.SetBreakerState(stateValue(to))
		},
	})

	return &Client{
		cfg:     cfg,
		http:    NewHTTPClient(cfg.Timeout),
		breaker: breaker,
	}
}

// NewHTTPClient returns an http.Client with pooled connections and bounded
// dial and handshake times
func NewHTTPClient(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}

// BaseURL returns the site root the client scrapes
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

// fetch downloads path and parses it as HTML. endpoint labels the request in
// metrics.
func (c *Client) fetch(ctx context.Context, endpoint, path string) (*html.Node, error) {
	start := time.Now()

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.get(ctx, path)
	})

	metrics.RecordScrape(endpoint, outcome(err), time.Since(start))

	if err != nil {
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		default:
			return nil, err
		}
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrUpstream, path, err)
	}
	return doc, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d for %s", ErrUpstream, resp.StatusCode, path)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUpstream, path, err)
	}
	return body, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "breaker_open"
	default:
		return "error"
	}
}

func stateValue(s gobreaker.State) int {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
