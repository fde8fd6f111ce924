package bnz

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rafau/kiwi-rates/internal/fetcher"
	"github.com/rafau/kiwi-rates/internal/source"
)

const (
	defaultPageURL = "https://www.bnz.co.nz/personal-banking/home-loans/compare-bnz-home-loan-rates"
	defaultFeedURL = "https://api.bnz.co.nz/v1/ratesfeed/home/xml"
)

// Options parameterise the BNZ scraper.
type Options struct {
	PageURL string
	FeedURL string
}

// Scraper fetches BNZ home-loan rates: the public compare-rates page yields
// the API key, which unlocks the XML rates feed.
type Scraper struct {
	opts   Options
	client *fetcher.Client
	logger zerolog.Logger
}

// New constructs a BNZ scraper.
func New(opts Options, client *fetcher.Client, logger zerolog.Logger) *Scraper {
	if opts.PageURL == "" {
		opts.PageURL = defaultPageURL
	}
	if opts.FeedURL == "" {
		opts.FeedURL = defaultFeedURL
	}
	return &Scraper{
		opts:   opts,
		client: client,
		logger: logger.With().Str("component", "bnz_scraper").Logger(),
	}
}

// Name implements source.Source.
func (s *Scraper) Name() string { return "bnz" }

// Fetch retrieves and parses the current rate listing.
func (s *Scraper) Fetch(ctx context.Context) (source.Result, error) {
	page, err := s.client.Fetch(ctx, s.opts.PageURL, pageHeaders())
	if err != nil {
		return source.Result{}, fmt.Errorf("fetch rates page: %w", err)
	}

	apiKey, err := ExtractAPIKey(page)
	if err != nil {
		return source.Result{}, err
	}

	feed, err := s.client.Fetch(ctx, s.opts.FeedURL, feedHeaders(apiKey))
	if err != nil {
		return source.Result{}, fmt.Errorf("fetch rates feed: %w", err)
	}

	lastUpdated, snapshot, err := ParseFeed(feed)
	if err != nil {
		return source.Result{}, err
	}

	s.logger.Debug().Int("rates", len(snapshot)).Time("last_updated", lastUpdated).Msg("feed parsed")
	return source.Result{LastUpdated: lastUpdated, Snapshot: snapshot}, nil
}

func pageHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		"Accept-Language": "en-GB,en;q=0.9",
	}
}

func feedHeaders(apiKey string) map[string]string {
	return map[string]string{
		"User-Agent":      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:147.0) Gecko/20100101 Firefox/147.0",
		"Accept":          "application/xml, text/xml",
		"Accept-Language": "en-GB,en;q=0.9",
		"Referer":         "https://www.bnz.co.nz/",
		"Origin":          "https://www.bnz.co.nz",
		"apikey":          apiKey,
	}
}

var _ source.Source = (*Scraper)(nil)
