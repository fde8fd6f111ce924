package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Options tune retry behaviour for page and feed downloads.
type Options struct {
	MaxRetries int
	Backoff    time.Duration
	Timeout    time.Duration
	UserAgent  string
}

// Client is an HTTP fetcher with exponential backoff. The initial backoff
// delay doubles after every failed attempt.
type Client struct {
	opts   Options
	client *http.Client
	logger zerolog.Logger
}

// New constructs a fetch client.
func New(opts Options, logger zerolog.Logger) *Client {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 5
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 2 * time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}

	return &Client{
		opts:   opts,
		client: &http.Client{Timeout: opts.Timeout},
		logger: logger.With().Str("component", "fetcher").Logger(),
	}
}

// Fetch downloads a URL with the given headers, retrying transient failures.
// Any non-2xx status counts as a failure. After the final attempt the last
// error propagates.
func (c *Client) Fetch(ctx context.Context, url string, headers map[string]string) (string, error) {
	var lastErr error

	for attempt := 0; attempt < c.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.opts.Backoff << (attempt - 1)
			c.logger.Warn().
				Str("url", url).
				Int("attempt", attempt).
				Int("max_retries", c.opts.MaxRetries).
				Dur("retry_in", delay).
				Err(lastErr).
				Msg("request failed, retrying")

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return "", ctx.Err()
			case <-timer.C:
			}
		}

		body, err := c.get(ctx, url, headers)
		if err == nil {
			return body, nil
		}
		lastErr = err
	}

	return "", fmt.Errorf("fetch %s: %w", url, lastErr)
}

func (c *Client) get(ctx context.Context, url string, headers map[string]string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	for name, value := range headers {
		req.Header.Set(name, value)
	}
	if req.Header.Get("User-Agent") == "" && c.opts.UserAgent != "" {
		req.Header.Set("User-Agent", c.opts.UserAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return string(body), nil
}
