package app

import (
	"context"
	"time"

	"github.com/rafau/kiwi-rates/internal/rates"
	"github.com/rafau/kiwi-rates/internal/report"
)

// Report regenerates the static HTML report from the persisted histories.
func (a *App) Report(_ context.Context) error {
	store := a.newStore()
	now := time.Now()

	perSource := make(map[string][]rates.EnrichedState, len(a.Config.Sources))
	for _, src := range a.Config.Sources {
		history, err := store.Load(src.Name)
		if err != nil {
			return err
		}
		perSource[src.Name] = rates.Reduce(history, now)
	}

	view := rates.Assemble(perSource, now)
	renderer := report.NewRenderer(a.Config.Report.Title, a.Logger)
	return renderer.WriteFile(a.Config.Report.Output, view, now)
}
