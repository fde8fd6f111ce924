package rates

import (
	"testing"
	"time"
)

var nzdt = time.FixedZone("NZDT", 13*60*60)

func entry(product, term string, rate float64) Entry {
	return Entry{ProductName: product, Term: term, RatePercentage: RateFromFloat(rate)}
}

func obs(product, term string, rate float64, at time.Time) Observation {
	return Observation{ProductName: product, Term: term, RatePercentage: RateFromFloat(rate), ObservedAt: at}
}

func TestShouldUpdateEmptyHistory(t *testing.T) {
	if !ShouldUpdate(History{}, Snapshot{entry("Standard", "1 year", 4.49)}) {
		t.Fatal("non-empty snapshot against empty history should update")
	}
	if ShouldUpdate(History{}, Snapshot{}) {
		t.Fatal("empty snapshot against empty history should not update")
	}
}

func TestShouldUpdateUnorderedEquality(t *testing.T) {
	at := time.Date(2025, 12, 15, 12, 0, 0, 0, nzdt)
	history := History{Observations: []Observation{
		obs("Standard", "1 year", 4.49, at),
		obs("Standard", "Variable", 5.84, at),
	}}
	snap := Snapshot{
		entry("Standard", "Variable", 5.84),
		entry("Standard", "1 year", 4.49),
	}

	if ShouldUpdate(history, snap) {
		t.Fatal("same keys and rates in different order should not update")
	}
}

func TestShouldUpdateValueChanged(t *testing.T) {
	at := time.Date(2025, 12, 15, 12, 0, 0, 0, nzdt)
	history := History{Observations: []Observation{obs("Standard", "1 year", 4.49, at)}}
	snap := Snapshot{entry("Standard", "1 year", 4.29)}

	if !ShouldUpdate(history, snap) {
		t.Fatal("changed rate should update")
	}
}

func TestShouldUpdateKeyAddedOrRemoved(t *testing.T) {
	at := time.Date(2025, 12, 15, 12, 0, 0, 0, nzdt)
	history := History{Observations: []Observation{
		obs("Standard", "1 year", 4.49, at),
		obs("Standard", "Variable", 5.84, at),
	}}

	added := Snapshot{
		entry("Standard", "1 year", 4.49),
		entry("Standard", "Variable", 5.84),
		entry("Special", "2 years", 4.15),
	}
	if !ShouldUpdate(history, added) {
		t.Fatal("added key should update")
	}

	removed := Snapshot{entry("Standard", "1 year", 4.49)}
	if !ShouldUpdate(history, removed) {
		t.Fatal("removed key should update")
	}
}

func TestShouldUpdateLatestWinsOnDuplicateKeys(t *testing.T) {
	t1 := time.Date(2025, 12, 15, 12, 0, 0, 0, nzdt)
	t2 := time.Date(2025, 12, 20, 12, 0, 0, 0, nzdt)
	history := History{Observations: []Observation{
		obs("Standard", "1 year", 4.49, t1),
		obs("Standard", "1 year", 4.39, t2),
	}}

	if ShouldUpdate(history, Snapshot{entry("Standard", "1 year", 4.39)}) {
		t.Fatal("snapshot matching the latest entry should not update")
	}
	if !ShouldUpdate(history, Snapshot{entry("Standard", "1 year", 4.49)}) {
		t.Fatal("snapshot matching only the superseded entry should update")
	}
}

func TestFilterChangedSubsetInSnapshotOrder(t *testing.T) {
	at := time.Date(2025, 12, 15, 12, 0, 0, 0, nzdt)
	history := History{Observations: []Observation{
		obs("Standard", "1 year", 4.49, at),
		obs("Standard", "Variable", 5.84, at),
	}}
	snap := Snapshot{
		entry("Standard", "Variable", 5.99), // changed
		entry("Standard", "1 year", 4.49),   // unchanged
		entry("Special", "2 years", 4.15),   // new key
	}

	changed := FilterChanged(history, snap)
	if len(changed) != 2 {
		t.Fatalf("expected 2 changed entries, got %d", len(changed))
	}
	if changed[0].Key() != (Key{Product: "Standard", Term: "Variable"}) {
		t.Fatalf("changed entries must preserve snapshot order, got %+v first", changed[0])
	}
	if changed[1].Key() != (Key{Product: "Special", Term: "2 years"}) {
		t.Fatalf("expected new key last, got %+v", changed[1])
	}
}

func TestFilterChangedIdempotentOnUnchangedSnapshot(t *testing.T) {
	at := time.Date(2025, 12, 15, 12, 0, 0, 0, nzdt)
	history := History{Observations: []Observation{obs("Standard", "1 year", 4.49, at)}}
	snap := Snapshot{entry("Standard", "1 year", 4.49)}

	for i := 0; i < 2; i++ {
		if ShouldUpdate(history, snap) {
			t.Fatalf("pass %d: unchanged snapshot should not update", i+1)
		}
		if changed := FilterChanged(history, snap); len(changed) != 0 {
			t.Fatalf("pass %d: expected no changed entries, got %d", i+1, len(changed))
		}
	}
}

func TestFilterChangedEmptyHistoryReturnsAll(t *testing.T) {
	snap := Snapshot{entry("Standard", "1 year", 4.49)}

	changed := FilterChanged(History{}, snap)
	if len(changed) != 1 {
		t.Fatalf("expected all entries back, got %d", len(changed))
	}
	if changed[0] != snap[0] {
		t.Fatalf("entry must pass through unchanged, got %+v", changed[0])
	}
}
