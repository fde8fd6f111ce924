package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rafau/kiwi-rates/internal/notify"
	"github.com/rafau/kiwi-rates/internal/rates"
	"github.com/rafau/kiwi-rates/internal/source"
	"github.com/rafau/kiwi-rates/internal/storage"
)

// Service runs the scrape pipeline: fetch a snapshot per source, detect
// changes against the persisted history, append the delta, and send a
// best-effort push notification. Fetch, parse, and persist failures are
// fatal for the run; notification failures are logged and swallowed.
type Service struct {
	sources  []source.Source
	store    *storage.Store
	notifier notify.Notifier
	logger   zerolog.Logger
	now      func() time.Time
}

// New constructs the scrape service. notifier may be nil when push
// notifications are disabled.
func New(sources []source.Source, store *storage.Store, notifier notify.Notifier, logger zerolog.Logger) *Service {
	return &Service{
		sources:  sources,
		store:    store,
		notifier: notifier,
		logger:   logger.With().Str("component", "service").Logger(),
		now:      time.Now,
	}
}

// RunOnce executes one linear pipeline pass over every configured source.
// The first source error aborts the run; histories already persisted for
// earlier sources stay in place, the failing source's file is untouched.
func (s *Service) RunOnce(ctx context.Context) error {
	for _, src := range s.sources {
		if err := s.processSource(ctx, src); err != nil {
			return fmt.Errorf("source %s: %w", src.Name(), err)
		}
	}
	return nil
}

func (s *Service) processSource(ctx context.Context, src source.Source) error {
	logger := s.logger.With().Str("source", src.Name()).Logger()

	result, err := src.Fetch(ctx)
	if err != nil {
		return err
	}

	history, err := s.store.Load(src.Name())
	if err != nil {
		return err
	}

	// Observation stamps are taken in the source's own timezone, one shared
	// timestamp per fetch cycle.
	observedAt := s.now().In(result.LastUpdated.Location())

	var (
		changed  rates.Snapshot
		previous map[rates.Key]rates.Rate
	)
	if rates.ShouldUpdate(history, result.Snapshot) {
		previous = rates.LatestByKey(history)
		changed = rates.FilterChanged(history, result.Snapshot)
		history = rates.Merge(history, changed, observedAt)
	}

	// Source metadata refreshes regardless of whether any rates changed.
	lastUpdated := result.LastUpdated
	history.SourceLastUpdated = &lastUpdated

	if err := s.store.Save(src.Name(), history); err != nil {
		return err
	}

	logger.Info().
		Int("fetched", len(result.Snapshot)).
		Int("changed", len(changed)).
		Time("source_last_updated", result.LastUpdated).
		Msg("scrape cycle complete")

	if len(changed) > 0 && s.notifier != nil {
		bank := strings.ToUpper(src.Name())
		if err := s.notifier.Notify(ctx, bank, changed, previous); err != nil {
			logger.Warn().Err(err).Msg("notification failed")
		}
	}

	return nil
}
