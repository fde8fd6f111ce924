package rates

import "time"

// Merge appends changed entries to the history, each stamped with the shared
// batch timestamp. Existing observations are never mutated or reordered; new
// entries land at the tail in input order. SourceLastUpdated is carried over
// unchanged — the caller refreshes it from freshly parsed source metadata,
// independent of whether any rates changed.
func Merge(h History, changed Snapshot, observedAt time.Time) History {
	observations := make([]Observation, 0, len(h.Observations)+len(changed))
	observations = append(observations, h.Observations...)
	for _, entry := range changed {
		observations = append(observations, Observation{
			ProductName:    entry.ProductName,
			Term:           entry.Term,
			RatePercentage: entry.RatePercentage,
			ObservedAt:     observedAt,
		})
	}
	return History{
		SourceLastUpdated: h.SourceLastUpdated,
		Observations:      observations,
	}
}
