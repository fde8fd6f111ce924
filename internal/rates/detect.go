package rates

// ShouldUpdate reports whether a fresh snapshot differs from the latest
// persisted state. With an empty history any non-empty snapshot counts as a
// change. Otherwise the latest rate per key is compared against the snapshot
// as unordered (key, rate) sets: any key added, removed, or re-priced
// triggers an update.
func ShouldUpdate(h History, snap Snapshot) bool {
	if len(h.Observations) == 0 {
		return len(snap) > 0
	}

	existing := LatestByKey(h)

	fresh := make(map[Key]Rate, len(snap))
	for _, entry := range snap {
		fresh[entry.Key()] = entry.RatePercentage
	}

	if len(existing) != len(fresh) {
		return true
	}
	for key, rate := range fresh {
		prev, ok := existing[key]
		if !ok || !prev.Equal(rate) {
			return true
		}
	}
	return false
}

// FilterChanged returns the subset of snap whose key is absent from the
// history's latest state or whose rate differs from it, preserving snapshot
// order. Keys that dropped out of the snapshot produce no output; removal is
// not separately signalled.
func FilterChanged(h History, snap Snapshot) Snapshot {
	existing := LatestByKey(h)

	changed := make(Snapshot, 0, len(snap))
	for _, entry := range snap {
		prev, ok := existing[entry.Key()]
		if !ok || !prev.Equal(entry.RatePercentage) {
			changed = append(changed, entry)
		}
	}
	return changed
}
