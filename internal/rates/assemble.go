package rates

import (
	"sort"
	"time"
)

// SourceView is one source's enriched states, sorted for display.
type SourceView struct {
	Name   string
	States []EnrichedState
}

// LatestChange identifies the single most recent non-zero rate change across
// every source.
type LatestChange struct {
	Source     string
	Key        Key
	RateChange Rate
	ObservedAt time.Time
	DaysAgo    int
}

// View is the unified multi-source report input.
type View struct {
	Sources      []SourceView
	LatestChange *LatestChange
}

// Assemble composes per-source enriched states into a unified view. Sources
// with no states are dropped; the rest are sorted by name, and states within
// a source by (product, term). LatestChange is nil when no state anywhere
// carries a non-zero delta.
func Assemble(perSource map[string][]EnrichedState, now time.Time) View {
	names := make([]string, 0, len(perSource))
	for name, states := range perSource {
		if len(states) == 0 {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	view := View{Sources: make([]SourceView, 0, len(names))}
	for _, name := range names {
		states := make([]EnrichedState, len(perSource[name]))
		copy(states, perSource[name])
		sort.Slice(states, func(i, j int) bool {
			if states[i].ProductName != states[j].ProductName {
				return states[i].ProductName < states[j].ProductName
			}
			return states[i].Term < states[j].Term
		})
		view.Sources = append(view.Sources, SourceView{Name: name, States: states})

		for _, state := range states {
			if state.RateChange.IsZero() {
				continue
			}
			if view.LatestChange == nil || state.ObservedAt.After(view.LatestChange.ObservedAt) {
				view.LatestChange = &LatestChange{
					Source:     name,
					Key:        state.Key(),
					RateChange: state.RateChange,
					ObservedAt: state.ObservedAt,
					DaysAgo:    daysBetween(state.ObservedAt, now),
				}
			}
		}
	}
	return view
}
