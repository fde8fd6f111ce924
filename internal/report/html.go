package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rafau/kiwi-rates/internal/rates"
)

// Renderer turns an assembled view into a static HTML document.
type Renderer struct {
	title  string
	logger zerolog.Logger
}

// NewRenderer constructs a report renderer.
func NewRenderer(title string, logger zerolog.Logger) *Renderer {
	if title == "" {
		title = "Kiwi Rates"
	}
	return &Renderer{title: title, logger: logger.With().Str("component", "report").Logger()}
}

type pageData struct {
	Title        string
	GeneratedAt  string
	Banks        []bankSection
	LatestChange string
}

type bankSection struct {
	Name string
	Rows []rateRow
}

type rateRow struct {
	Product   string
	Term      string
	Rate      string
	Change    string
	Direction string
	IsNew     bool
	IsRecent  bool
	Updated   string
}

// Render produces the report document for a unified view.
func (r *Renderer) Render(view rates.View, now time.Time) ([]byte, error) {
	data := pageData{
		Title:        r.title,
		GeneratedAt:  now.Format("2006-01-02 15:04:05"),
		LatestChange: latestChangeLine(view.LatestChange),
	}

	for _, src := range view.Sources {
		section := bankSection{Name: strings.ToUpper(src.Name)}
		for _, state := range src.States {
			section.Rows = append(section.Rows, buildRow(state))
		}
		data.Banks = append(data.Banks, section)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders the view and writes it to path, creating parent
// directories as needed.
func (r *Renderer) WriteFile(path string, view rates.View, now time.Time) error {
	html, err := r.Render(view, now)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	if err := os.WriteFile(path, html, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}

	r.logger.Info().Str("path", path).Int("banks", len(view.Sources)).Msg("report written")
	return nil
}

func buildRow(state rates.EnrichedState) rateRow {
	row := rateRow{
		Product:  state.ProductName,
		Term:     state.Term,
		Rate:     state.RatePercentage.StringFixed(2) + "%",
		Change:   "–",
		IsNew:    state.IsNewProduct,
		IsRecent: state.IsRecentChange,
		Updated:  state.ObservedAt.Format("2006-01-02"),
	}

	switch state.RateChange.Sign() {
	case 1:
		row.Change = "↑ +" + state.RateChange.StringFixed(2)
		row.Direction = "up"
	case -1:
		row.Change = "↓ " + state.RateChange.StringFixed(2)
		row.Direction = "down"
	}
	return row
}

func latestChangeLine(change *rates.LatestChange) string {
	if change == nil {
		return "No changes detected."
	}
	plural := "s"
	if change.DaysAgo == 1 {
		plural = ""
	}
	return fmt.Sprintf("Most recent change: %s %s (%s) on %s, %d day%s ago",
		strings.ToUpper(change.Source), change.Key.Product, change.Key.Term,
		change.ObservedAt.Format("2006-01-02"), change.DaysAgo, plural)
}

var pageTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}} - NZ Home Loan Rates</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            max-width: 1200px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f5f5f5;
        }
        h1 { color: #333; text-align: center; }
        .last-updated, .latest-change { text-align: center; color: #666; }
        .latest-change { margin-bottom: 30px; }
        .bank-section {
            background: white;
            margin-bottom: 30px;
            padding: 20px;
            border-radius: 8px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
        }
        h2 {
            color: #2c5282;
            margin-top: 0;
            border-bottom: 2px solid #2c5282;
            padding-bottom: 10px;
        }
        table { width: 100%; border-collapse: collapse; }
        th {
            background-color: #2c5282;
            color: white;
            padding: 12px;
            text-align: left;
            font-weight: 600;
        }
        td { padding: 12px; border-bottom: 1px solid #e2e8f0; }
        tr:hover { background-color: #f7fafc; }
        tr.recent { background-color: #fffbea; }
        .rate { font-weight: 600; color: #2c5282; }
        .change.up { color: #c53030; }
        .change.down { color: #2f855a; }
        .badge {
            background-color: #2c5282;
            color: white;
            border-radius: 4px;
            padding: 2px 6px;
            font-size: 0.75em;
            margin-left: 6px;
        }
    </style>
</head>
<body>
    <h1>{{.Title}}</h1>
    <p class="last-updated">Last updated: {{.GeneratedAt}}</p>
    <p class="latest-change">{{.LatestChange}}</p>
{{if not .Banks}}    <p style="text-align: center; color: #666;">No rate data available.</p>
{{end}}{{range .Banks}}    <div class="bank-section">
        <h2>{{.Name}}</h2>
        <table>
            <thead>
                <tr>
                    <th>Product</th>
                    <th>Term</th>
                    <th>Rate</th>
                    <th>Change</th>
                    <th>Last Updated</th>
                </tr>
            </thead>
            <tbody>
{{range .Rows}}                <tr{{if .IsRecent}} class="recent"{{end}}>
                    <td>{{.Product}}{{if .IsNew}}<span class="badge">new</span>{{end}}</td>
                    <td>{{.Term}}</td>
                    <td class="rate">{{.Rate}}</td>
                    <td class="change {{.Direction}}">{{.Change}}</td>
                    <td>{{.Updated}}</td>
                </tr>
{{end}}            </tbody>
        </table>
    </div>
{{end}}</body>
</html>
`))
