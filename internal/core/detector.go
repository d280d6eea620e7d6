package core

import (
	"sort"

	"github.com/comalice/racesimx/internal/primitives"
)

// Detector diffs consecutive tick snapshots into the typed event stream.
// Detection is pure comparison over derived state; the only memory the
// detector keeps is which one-shot events have already fired.
type Detector struct {
	stretchFired bool
}

// NewDetector returns a detector for one race.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect emits this tick's events in the fixed deterministic order:
// start, lead change, lane changes, position changes, stretch entry,
// finishes. The photo-finish event is appended by the clock at resolution.
func (d *Detector) Detect(prev, cur *primitives.TickSnapshot, outcomes []TrafficOutcome, roster []primitives.CompetitorStats, states []*primitives.CompetitorRaceState, tick, totalTicks int) []primitives.RaceEvent {
	var events []primitives.RaceEvent

	if tick == 1 {
		events = append(events, primitives.RaceEvent{
			Type: primitives.EventRaceStarted,
			Tick: tick,
		})
	}

	// Leader changed iff the rank-1 identity differs. Suppressed on the
	// first tick, where the previous "leader" is only a start-line tiebreak.
	if tick > 1 {
		if lead, prevLead := cur.Leader(), prev.Leader(); lead >= 0 && prevLead >= 0 && lead != prevLead {
			events = append(events, primitives.RaceEvent{
				Type:       primitives.EventLeadChanged,
				Tick:       tick,
				Competitor: roster[lead].Name,
				PrevLeader: roster[prevLead].Name,
			})
		}
	}

	// Lane changes, tagged with the kind the resolver fixed at decision
	// time. A risky-blocked attempt is reported even though no lane moved.
	for idx, out := range outcomes {
		if out.Kind == "" {
			continue
		}
		events = append(events, primitives.RaceEvent{
			Type:       primitives.EventLaneChanged,
			Tick:       tick,
			Competitor: roster[idx].Name,
			Kind:       out.Kind,
			FromLane:   out.FromLane,
			ToLane:     out.ToLane,
		})
	}

	// Only improvements are reported, not every shuffle, and a competitor
	// crossing the line this tick is covered by its finish event instead.
	for idx := range cur.Entries {
		if cur.Entries[idx].Finished && !prev.Entries[idx].Finished {
			continue
		}
		if cur.Entries[idx].Rank < prev.Entries[idx].Rank {
			events = append(events, primitives.RaceEvent{
				Type:       primitives.EventPositionsChanged,
				Tick:       tick,
				Competitor: roster[idx].Name,
				FromRank:   prev.Entries[idx].Rank,
				ToRank:     cur.Entries[idx].Rank,
			})
		}
	}

	if !d.stretchFired && float64(tick)/float64(totalTicks) >= finalStretchFraction {
		d.stretchFired = true
		events = append(events, primitives.RaceEvent{
			Type: primitives.EventFinalStretch,
			Tick: tick,
		})
	}

	var crossed []int
	for idx := range cur.Entries {
		if cur.Entries[idx].Finished && !prev.Entries[idx].Finished {
			crossed = append(crossed, idx)
		}
	}
	sort.SliceStable(crossed, func(a, b int) bool {
		return states[crossed[a]].FinishTime < states[crossed[b]].FinishTime
	})
	for _, idx := range crossed {
		events = append(events, primitives.RaceEvent{
			Type:       primitives.EventCompetitorFinished,
			Tick:       tick,
			Competitor: roster[idx].Name,
			Place:      d.provisionalPlace(idx, states),
			TimeTicks:  states[idx].FinishTime,
		})
	}

	return events
}

// provisionalPlace counts how many competitors crossed at or before this
// one's crossing time. Final places are assigned at resolution; this is the
// place as it stood the moment the line was crossed.
func (d *Detector) provisionalPlace(idx int, states []*primitives.CompetitorRaceState) int {
	place := 1
	for j, st := range states {
		if j == idx || !st.Finished() {
			continue
		}
		if st.FinishTime < states[idx].FinishTime {
			place++
		}
	}
	return place
}
