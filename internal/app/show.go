package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rafau/kiwi-rates/internal/rates"
)

// Show prints the current enriched state per source as a table.
func (a *App) Show(_ context.Context, opts ShowOptions) error {
	store := a.newStore()
	now := time.Now()

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Source\tProduct\tTerm\tRate\tChange\tUpdated\tDays\tNew")

	total := 0
	for _, src := range a.Config.Sources {
		if opts.Source != "" && src.Name != opts.Source {
			continue
		}

		history, err := store.Load(src.Name)
		if err != nil {
			return err
		}

		for _, state := range rates.Reduce(history, now) {
			change := "-"
			if !state.RateChange.IsZero() {
				change = state.RateChange.StringFixed(2)
			}
			isNew := ""
			if state.IsNewProduct {
				isNew = "yes"
			}
			fmt.Fprintf(writer, "%s\t%s\t%s\t%s%%\t%s\t%s\t%d\t%s\n",
				src.Name,
				state.ProductName,
				state.Term,
				state.RatePercentage.StringFixed(2),
				change,
				state.ObservedAt.Format("2006-01-02"),
				state.DaysSinceUpdate,
				isNew,
			)
			total++
		}
	}

	if total == 0 {
		fmt.Fprintln(os.Stdout, "no rate history found")
		return nil
	}

	return writer.Flush()
}
