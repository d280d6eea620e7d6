package core

import (
	"testing"

	"github.com/comalice/racesimx/internal/primitives"
)

func detectorRoster(n int) []primitives.CompetitorStats {
	roster := make([]primitives.CompetitorStats, n)
	for i := range roster {
		roster[i] = neutralStats(primitives.FrontRunner)
		roster[i].Name = string(rune('A' + i))
		roster[i].Lane = i + 1
	}
	return roster
}

func noOutcomes(n int) []TrafficOutcome {
	out := make([]TrafficOutcome, n)
	for i := range out {
		out[i].BlockerIndex = -1
	}
	return out
}

func TestDetectRaceStartedOnlyOnFirstTick(t *testing.T) {
	states := []*primitives.CompetitorRaceState{
		runningState(1, 0),
		runningState(2, 0),
	}
	prev := primitives.BuildSnapshot(0, states)
	states[0].Distance = 0.02
	states[1].Distance = 0.01
	cur := primitives.BuildSnapshot(1, states)

	d := NewDetector()
	events := d.Detect(prev, cur, noOutcomes(2), detectorRoster(2), states, 1, 600)
	if len(events) == 0 || events[0].Type != primitives.EventRaceStarted {
		t.Fatalf("first tick must open with race-started, got %v", events)
	}
	for _, evt := range events {
		if evt.Type == primitives.EventLeadChanged {
			t.Error("lead change must be suppressed on the first tick")
		}
	}

	prev = cur
	states[0].Distance = 0.04
	cur = primitives.BuildSnapshot(2, states)
	events = d.Detect(prev, cur, noOutcomes(2), detectorRoster(2), states, 2, 600)
	for _, evt := range events {
		if evt.Type == primitives.EventRaceStarted {
			t.Error("race-started fired twice")
		}
	}
}

func TestDetectLeadChange(t *testing.T) {
	states := []*primitives.CompetitorRaceState{
		runningState(1, 1.0),
		runningState(2, 0.9),
	}
	prev := primitives.BuildSnapshot(9, states)
	states[1].Distance = 1.1 // B overtakes A
	cur := primitives.BuildSnapshot(10, states)

	d := NewDetector()
	events := d.Detect(prev, cur, noOutcomes(2), detectorRoster(2), states, 10, 600)

	var lead *primitives.RaceEvent
	for i := range events {
		if events[i].Type == primitives.EventLeadChanged {
			lead = &events[i]
		}
	}
	if lead == nil {
		t.Fatal("expected a lead-changed event")
	}
	if lead.Competitor != "B" || lead.PrevLeader != "A" {
		t.Errorf("lead change identities wrong: %+v", lead)
	}
}

func TestDetectPositionImprovementsOnly(t *testing.T) {
	states := []*primitives.CompetitorRaceState{
		runningState(1, 1.0),
		runningState(2, 0.9),
		runningState(3, 0.8),
	}
	prev := primitives.BuildSnapshot(9, states)
	// C jumps from 3rd to 2nd; B drops to 3rd; A keeps the lead.
	states[2].Distance = 0.95
	cur := primitives.BuildSnapshot(10, states)

	d := NewDetector()
	events := d.Detect(prev, cur, noOutcomes(3), detectorRoster(3), states, 10, 600)

	improvements := 0
	for _, evt := range events {
		if evt.Type != primitives.EventPositionsChanged {
			continue
		}
		improvements++
		if evt.Competitor != "C" || evt.FromRank != 3 || evt.ToRank != 2 {
			t.Errorf("unexpected position event %+v", evt)
		}
	}
	if improvements != 1 {
		t.Errorf("expected exactly one improvement event, got %d", improvements)
	}
}

func TestDetectLaneChangeCarriesResolverKind(t *testing.T) {
	states := []*primitives.CompetitorRaceState{
		runningState(2, 1.0),
		runningState(1, 1.1),
	}
	prev := primitives.BuildSnapshot(9, states)
	cur := primitives.BuildSnapshot(10, states)

	outcomes := noOutcomes(2)
	outcomes[0] = TrafficOutcome{
		Blocked:      true,
		BlockerIndex: 1,
		Changed:      true,
		Kind:         primitives.LaneChangeRiskySuccess,
		FromLane:     1,
		ToLane:       2,
	}

	d := NewDetector()
	events := d.Detect(prev, cur, outcomes, detectorRoster(2), states, 10, 600)

	found := false
	for _, evt := range events {
		if evt.Type == primitives.EventLaneChanged {
			found = true
			if evt.Kind != primitives.LaneChangeRiskySuccess || evt.FromLane != 1 || evt.ToLane != 2 {
				t.Errorf("lane event lost resolver classification: %+v", evt)
			}
		}
	}
	if !found {
		t.Fatal("expected a lane-changed event")
	}
}

func TestDetectFinalStretchFiresOnce(t *testing.T) {
	states := []*primitives.CompetitorRaceState{
		runningState(1, 7.0),
		runningState(2, 6.9),
	}
	d := NewDetector()
	roster := detectorRoster(2)
	totalTicks := 100

	fired := 0
	prev := primitives.BuildSnapshot(73, states)
	for tick := 74; tick <= 80; tick++ {
		states[0].Distance += 0.01
		cur := primitives.BuildSnapshot(tick, states)
		for _, evt := range d.Detect(prev, cur, noOutcomes(2), roster, states, tick, totalTicks) {
			if evt.Type == primitives.EventFinalStretch {
				fired++
				if tick != 75 {
					t.Errorf("stretch fired at tick %d, want 75 (75%% of %d)", tick, totalTicks)
				}
			}
		}
		prev = cur
	}
	if fired != 1 {
		t.Errorf("final stretch fired %d times, want exactly once", fired)
	}
}

func TestDetectFinishEvents(t *testing.T) {
	states := []*primitives.CompetitorRaceState{
		runningState(1, 9.9),
		runningState(2, 10.1),
		runningState(3, 9.5),
	}
	states[1].FinishTime = 593.5
	prev := primitives.BuildSnapshot(594, states)

	states[0].Distance = 10.05
	states[0].FinishTime = 594.7
	cur := primitives.BuildSnapshot(595, states)

	d := NewDetector()
	events := d.Detect(prev, cur, noOutcomes(3), detectorRoster(3), states, 595, 600)

	var finish *primitives.RaceEvent
	for i := range events {
		if events[i].Type == primitives.EventCompetitorFinished {
			finish = &events[i]
		}
	}
	if finish == nil {
		t.Fatal("expected a finish event")
	}
	if finish.Competitor != "A" {
		t.Errorf("finisher = %s, want A", finish.Competitor)
	}
	if finish.Place != 2 {
		t.Errorf("provisional place = %d, want 2 (B crossed earlier)", finish.Place)
	}
	if finish.TimeTicks != 594.7 {
		t.Errorf("finish time = %v, want the interpolated 594.7", finish.TimeTicks)
	}
}
