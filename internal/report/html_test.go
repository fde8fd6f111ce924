package report

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rafau/kiwi-rates/internal/rates"
)

var nzdt = time.FixedZone("NZDT", 13*60*60)

func state(product, term string, rate, change float64, at time.Time, isNew, recent bool) rates.EnrichedState {
	return rates.EnrichedState{
		Observation: rates.Observation{
			ProductName:    product,
			Term:           term,
			RatePercentage: rates.RateFromFloat(rate),
			ObservedAt:     at,
		},
		RateChange:     rates.RateFromFloat(change),
		IsNewProduct:   isNew,
		IsRecentChange: recent,
	}
}

func TestRenderRateTable(t *testing.T) {
	at := time.Date(2025, 12, 20, 12, 0, 0, 0, nzdt)
	now := time.Date(2025, 12, 22, 12, 0, 0, 0, nzdt)
	view := rates.View{
		Sources: []rates.SourceView{{
			Name: "bnz",
			States: []rates.EnrichedState{
				state("Standard", "1 year", 4.39, -0.10, at, false, true),
				state("Special", "2 years", 4.15, 0.05, at, true, true),
				state("Standard", "Variable", 5.84, 0, at, false, false),
			},
		}},
		LatestChange: &rates.LatestChange{
			Source:     "bnz",
			Key:        rates.Key{Product: "Standard", Term: "1 year"},
			RateChange: rates.RateFromFloat(-0.10),
			ObservedAt: at,
			DaysAgo:    2,
		},
	}

	html, err := NewRenderer("Kiwi Rates", zerolog.Nop()).Render(view, now)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	out := string(html)

	for _, want := range []string{
		"<h2>BNZ</h2>",
		"4.39%",
		"↓ -0.10",
		"↑ +0.05",
		`<span class="badge">new</span>`,
		`class="recent"`,
		"Most recent change: BNZ Standard (1 year) on 2025-12-20, 2 days ago",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q, got:\n%s", want, out)
		}
	}

	if !strings.Contains(out, "–") {
		t.Fatal("zero-change rows should show a dash")
	}
}

func TestRenderEmptyView(t *testing.T) {
	now := time.Date(2025, 12, 22, 12, 0, 0, 0, nzdt)

	html, err := NewRenderer("", zerolog.Nop()).Render(rates.View{}, now)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	out := string(html)

	if !strings.Contains(out, "No rate data available.") {
		t.Fatal("empty view must say no data is available")
	}
	if !strings.Contains(out, "No changes detected.") {
		t.Fatal("empty view must report no changes detected")
	}
}

func TestWriteFileCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/docs/index.html"
	now := time.Date(2025, 12, 22, 12, 0, 0, 0, nzdt)

	renderer := NewRenderer("Kiwi Rates", zerolog.Nop())
	if err := renderer.WriteFile(path, rates.View{}, now); err != nil {
		t.Fatalf("write failed: %v", err)
	}
}
