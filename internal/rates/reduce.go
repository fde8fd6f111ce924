package rates

import "time"

const (
	recentChangeMaxDays = 14
	newProductMaxDays   = 30
)

// Reduce collapses the append-only log into one EnrichedState per distinct
// key. Observations are partitioned by key in insertion order and the
// positionally-last entry of each partition is taken as latest; timestamps
// are not re-sorted, insertion order is trusted as chronological.
//
// now is injected by the caller so the derived day counts stay deterministic
// under test; it is evaluated in each stored timestamp's own zone.
func Reduce(h History, now time.Time) []EnrichedState {
	var order []Key
	partitions := make(map[Key][]Observation)
	for _, obs := range h.Observations {
		key := obs.Key()
		if _, seen := partitions[key]; !seen {
			order = append(order, key)
		}
		partitions[key] = append(partitions[key], obs)
	}

	states := make([]EnrichedState, 0, len(order))
	for _, key := range order {
		partition := partitions[key]
		latest := partition[len(partition)-1]

		// Delta against the immediately preceding observation only.
		var change Rate
		if len(partition) > 1 {
			previous := partition[len(partition)-2]
			change = NewRate(latest.RatePercentage.Sub(previous.RatePercentage.Decimal))
		} else {
			change = RateFromFloat(0)
		}

		daysSinceUpdate := daysBetween(latest.ObservedAt, now)
		daysSinceFirst := daysBetween(partition[0].ObservedAt, now)

		states = append(states, EnrichedState{
			Observation:              latest,
			RateChange:               change,
			IsRecentChange:           !change.IsZero() && daysSinceUpdate <= recentChangeMaxDays,
			IsNewProduct:             daysSinceFirst < newProductMaxDays,
			DaysSinceFirstAppearance: daysSinceFirst,
			DaysSinceUpdate:          daysSinceUpdate,
		})
	}
	return states
}

// daysBetween counts whole elapsed days from ts to now, with now shifted
// into ts's zone. Never negative.
func daysBetween(ts, now time.Time) int {
	elapsed := now.In(ts.Location()).Sub(ts)
	if elapsed < 0 {
		return 0
	}
	return int(elapsed.Hours() / 24)
}
