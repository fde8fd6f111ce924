package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/rafau/kiwi-rates/internal/rates"
)

// Export writes one source's full observation history as CSV and/or a PNG
// time-series chart, one chart series per (product, term).
func (a *App) Export(_ context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	opts.MaxPoints = a.Config.ResolveMaxPoints(opts.MaxPoints)

	history, err := a.newStore().Load(opts.Source)
	if err != nil {
		return err
	}
	if len(history.Observations) == 0 {
		a.Logger.Info().Str("source", opts.Source).Msg("no observations to export")
		return nil
	}

	observations := downsampleObservations(history.Observations, opts.MaxPoints)
	a.Logger.Info().
		Str("source", opts.Source).
		Int("total", len(history.Observations)).
		Int("exported", len(observations)).
		Msg("exporting observations")

	if opts.CSVPath != "" {
		if err := writeObservationsCSV(opts.CSVPath, observations); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := writeObservationsPNG(opts.PNGPath, opts.Source, observations); err != nil {
			return err
		}
	}

	return nil
}

func downsampleObservations(observations []rates.Observation, max int) []rates.Observation {
	if max <= 0 || len(observations) <= max {
		return observations
	}

	result := make([]rates.Observation, 0, max)
	step := float64(len(observations)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(math.Round(step * float64(i)))
		if idx >= len(observations) {
			idx = len(observations) - 1
		}
		result = append(result, observations[idx])
	}
	return result
}

func writeObservationsCSV(path string, observations []rates.Observation) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"observed_at", "product_name", "term", "rate_percentage"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, obs := range observations {
		record := []string{
			obs.ObservedAt.Format(time.RFC3339),
			obs.ProductName,
			obs.Term,
			obs.RatePercentage.StringFixed(2),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func writeObservationsPNG(path, sourceName string, observations []rates.Observation) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	var order []rates.Key
	byKey := make(map[rates.Key][]rates.Observation)
	for _, obs := range observations {
		key := obs.Key()
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], obs)
	}

	series := make([]chart.Series, 0, len(order))
	for _, key := range order {
		part := byKey[key]
		// go-chart cannot draw a line through a single point.
		if len(part) < 2 {
			continue
		}
		x := make([]time.Time, len(part))
		y := make([]float64, len(part))
		for i, obs := range part {
			x[i] = obs.ObservedAt
			y[i] = obs.RatePercentage.InexactFloat64()
		}
		series = append(series, chart.TimeSeries{
			Name:    key.String(),
			XValues: x,
			YValues: y,
		})
	}
	if len(series) == 0 {
		return errors.New("not enough observations per series to chart")
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].(chart.TimeSeries).Name < series[j].(chart.TimeSeries).Name
	})

	rateFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.2f")
	}
	graph := chart.Chart{
		Title:  fmt.Sprintf("%s home loan rates", sourceName),
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Rate (%)",
			ValueFormatter: rateFormatter,
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
