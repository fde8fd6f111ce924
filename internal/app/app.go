package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/rafau/kiwi-rates/internal/config"
	"github.com/rafau/kiwi-rates/internal/fetcher"
	"github.com/rafau/kiwi-rates/internal/notify"
	"github.com/rafau/kiwi-rates/internal/scheduler"
	"github.com/rafau/kiwi-rates/internal/service"
	"github.com/rafau/kiwi-rates/internal/source"
	"github.com/rafau/kiwi-rates/internal/source/bnz"
	"github.com/rafau/kiwi-rates/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

// RunOptions configure a single scrape pass.
type RunOptions struct {
	NoReport bool
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Source string
}

// ExportOptions hold parameters for exporting one source's history.
type ExportOptions struct {
	Source    string
	CSVPath   string
	PNGPath   string
	MaxPoints int
}

func (a *App) newStore() *storage.Store {
	return storage.NewStore(a.Config.DataDir, a.Logger)
}

func (a *App) newSources() ([]source.Source, error) {
	client := fetcher.New(fetcher.Options{
		MaxRetries: a.Config.HTTP.MaxRetries,
		Backoff:    a.Config.HTTP.Backoff,
		Timeout:    a.Config.HTTP.Timeout,
		UserAgent:  a.Config.HTTP.UserAgent,
	}, a.Logger)

	sources := make([]source.Source, 0, len(a.Config.Sources))
	for _, cfg := range a.Config.Sources {
		switch cfg.Name {
		case "bnz":
			sources = append(sources, bnz.New(bnz.Options{
				PageURL: cfg.PageURL,
				FeedURL: cfg.FeedURL,
			}, client, a.Logger))
		default:
			return nil, fmt.Errorf("unsupported source %q", cfg.Name)
		}
	}
	return sources, nil
}

func (a *App) newNotifier() notify.Notifier {
	cfg := a.Config.Notify
	if !cfg.Enabled || cfg.Topic == "" {
		return nil
	}
	return notify.NewNtfy(cfg.Topic, cfg.BaseURL, cfg.Tags, cfg.Timeout, a.Logger)
}

func (a *App) newService() (*service.Service, error) {
	sources, err := a.newSources()
	if err != nil {
		return nil, err
	}
	return service.New(sources, a.newStore(), a.newNotifier(), a.Logger), nil
}

// Run executes one scrape pass over every configured source, then
// regenerates the report unless disabled.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	svc, err := a.newService()
	if err != nil {
		return err
	}

	if err := svc.RunOnce(ctx); err != nil {
		return err
	}

	if opts.NoReport {
		return nil
	}
	return a.Report(ctx)
}

// Watch runs the scrape pipeline on an interval until interrupted.
func (a *App) Watch(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	svc, err := a.newService()
	if err != nil {
		return err
	}

	sched := scheduler.New(scheduler.Options{
		Interval:     a.Config.Watch.Interval,
		AlignToStart: a.Config.Watch.AlignToInterval,
		StartupDelay: a.Config.Watch.StartupDelay,
	}, a.Logger)

	a.Logger.Info().Dur("interval", a.Config.Watch.Interval).Msg("starting watch loop")
	err = sched.Run(ctx, func(ctx context.Context, _ time.Time) error {
		if err := svc.RunOnce(ctx); err != nil {
			return err
		}
		return a.Report(ctx)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("watch loop terminated with error")
		return err
	}

	a.Logger.Info().Msg("watch loop stopped")
	return nil
}
