package rates

import (
	"testing"
	"time"
)

func enriched(product, term string, rate, change float64, at time.Time) EnrichedState {
	return EnrichedState{
		Observation: Observation{
			ProductName:    product,
			Term:           term,
			RatePercentage: RateFromFloat(rate),
			ObservedAt:     at,
		},
		RateChange: RateFromFloat(change),
	}
}

func TestAssembleSortsSourcesAndStates(t *testing.T) {
	at := time.Date(2025, 12, 20, 12, 0, 0, 0, nzdt)
	now := time.Date(2025, 12, 22, 12, 0, 0, 0, nzdt)

	perSource := map[string][]EnrichedState{
		"westpac": {
			enriched("Standard", "Variable", 5.99, 0, at),
			enriched("Special", "2 years", 4.15, 0, at),
			enriched("Special", "1 year", 4.29, 0, at),
		},
		"bnz":   {enriched("Standard", "1 year", 4.39, 0, at)},
		"empty": {},
	}

	view := Assemble(perSource, now)

	if len(view.Sources) != 2 {
		t.Fatalf("sources without states must be dropped; got %d sources", len(view.Sources))
	}
	if view.Sources[0].Name != "bnz" || view.Sources[1].Name != "westpac" {
		t.Fatalf("sources must sort by name, got %s then %s", view.Sources[0].Name, view.Sources[1].Name)
	}

	westpac := view.Sources[1].States
	wantOrder := []Key{
		{Product: "Special", Term: "1 year"},
		{Product: "Special", Term: "2 years"},
		{Product: "Standard", Term: "Variable"},
	}
	for i, want := range wantOrder {
		if westpac[i].Key() != want {
			t.Fatalf("state %d out of order: got %+v want %+v", i, westpac[i].Key(), want)
		}
	}
}

func TestAssembleDoesNotReorderInput(t *testing.T) {
	at := time.Date(2025, 12, 20, 12, 0, 0, 0, nzdt)
	states := []EnrichedState{
		enriched("Standard", "Variable", 5.99, 0, at),
		enriched("Special", "1 year", 4.29, 0, at),
	}
	perSource := map[string][]EnrichedState{"bnz": states}

	Assemble(perSource, at)

	if states[0].ProductName != "Standard" {
		t.Fatal("assemble must sort a copy, not the caller's slice")
	}
}

func TestAssembleLatestChangeAcrossSources(t *testing.T) {
	now := time.Date(2025, 12, 22, 12, 0, 0, 0, nzdt)
	older := time.Date(2025, 12, 10, 12, 0, 0, 0, nzdt)
	newer := time.Date(2025, 12, 20, 12, 0, 0, 0, nzdt)

	perSource := map[string][]EnrichedState{
		"bnz": {
			enriched("Standard", "1 year", 4.39, -0.10, older),
			enriched("Standard", "Variable", 5.84, 0, newer), // zero delta never counts
		},
		"westpac": {enriched("Special", "2 years", 4.15, 0.05, newer)},
	}

	view := Assemble(perSource, now)

	if view.LatestChange == nil {
		t.Fatal("expected a latest change")
	}
	if view.LatestChange.Source != "westpac" {
		t.Fatalf("expected the most recent non-zero change to win, got source %s", view.LatestChange.Source)
	}
	if !view.LatestChange.ObservedAt.Equal(newer) {
		t.Fatalf("unexpected latest change timestamp %s", view.LatestChange.ObservedAt)
	}
	if view.LatestChange.DaysAgo != 2 {
		t.Fatalf("expected 2 days ago, got %d", view.LatestChange.DaysAgo)
	}
}

func TestAssembleNoChangesAnywhere(t *testing.T) {
	at := time.Date(2025, 12, 20, 12, 0, 0, 0, nzdt)
	perSource := map[string][]EnrichedState{
		"bnz": {enriched("Standard", "1 year", 4.39, 0, at)},
	}

	view := Assemble(perSource, at)
	if view.LatestChange != nil {
		t.Fatalf("expected no latest change, got %+v", view.LatestChange)
	}
}
