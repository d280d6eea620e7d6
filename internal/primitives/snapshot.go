package primitives

import "sort"

// SnapshotEntry is one competitor's view in a tick snapshot.
type SnapshotEntry struct {
	Index    int // roster index
	Rank     int // 1 = leading
	Lane     int
	Distance float64
	Finished bool
}

// TickSnapshot is the ephemeral, derived view of the field at the end of one
// tick. Entries is indexed by roster position; Order lists roster indices by
// rank. Snapshots are recomputed every tick and never stored.
type TickSnapshot struct {
	Tick    int
	Entries []SnapshotEntry
	Order   []int
}

// Leader returns the roster index of the rank-1 competitor, or -1 for an
// empty snapshot.
func (s *TickSnapshot) Leader() int {
	if len(s.Order) == 0 {
		return -1
	}
	return s.Order[0]
}

// BuildSnapshot ranks the field at the given tick. Ordering is by literal
// values only: distance descending, then earlier crossing time for finished
// pairs, then inside lane, then roster index as the final stable key.
func BuildSnapshot(tick int, states []*CompetitorRaceState) *TickSnapshot {
	snap := &TickSnapshot{
		Tick:    tick,
		Entries: make([]SnapshotEntry, len(states)),
		Order:   make([]int, len(states)),
	}
	for i, st := range states {
		snap.Entries[i] = SnapshotEntry{
			Index:    i,
			Lane:     st.Lane,
			Distance: st.Distance,
			Finished: st.Finished(),
		}
		snap.Order[i] = i
	}

	sort.SliceStable(snap.Order, func(a, b int) bool {
		ia, ib := snap.Order[a], snap.Order[b]
		sa, sb := states[ia], states[ib]
		if sa.Finished() && sb.Finished() && sa.FinishTime != sb.FinishTime {
			return sa.FinishTime < sb.FinishTime
		}
		if sa.Distance != sb.Distance {
			return sa.Distance > sb.Distance
		}
		if sa.Lane != sb.Lane {
			return sa.Lane < sb.Lane
		}
		return ia < ib
	})

	for rank, idx := range snap.Order {
		snap.Entries[idx].Rank = rank + 1
	}
	return snap
}
