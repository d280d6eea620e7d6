package core

import (
	"math"
	"testing"

	"github.com/comalice/racesimx/internal/primitives"
)

func testConfig(t *testing.T) primitives.RaceConfig {
	t.Helper()
	cfg, err := primitives.NewRaceConfig(10, primitives.SurfaceDirt, primitives.ConditionFast)
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func runningState(lane int, distance float64) *primitives.CompetitorRaceState {
	return &primitives.CompetitorRaceState{
		Lane:                 lane,
		Distance:             distance,
		Stamina:              1000,
		InitialStamina:       1000,
		TicksSinceLaneChange: laneChangeCooldown,
		FinishTime:           -1,
	}
}

func distances(states []*primitives.CompetitorRaceState) []float64 {
	out := make([]float64, len(states))
	for i, st := range states {
		out[i] = st.Distance
	}
	return out
}

func TestUnblockedRunsClean(t *testing.T) {
	cfg := testConfig(t)
	states := []*primitives.CompetitorRaceState{
		runningState(1, 0),
		runningState(2, 0.5),
	}
	roster := []primitives.CompetitorStats{
		neutralStats(primitives.FrontRunner),
		neutralStats(primitives.FrontRunner),
	}
	base := []float64{cfg.BaselineSpeed, cfg.BaselineSpeed}

	r := NewResolver(cfg, 2, stubRand{value: 0.5})
	speed, out := r.Resolve(0, states, distances(states), base, roster)
	if speed != base[0] {
		t.Errorf("unblocked speed = %v, want untouched %v", speed, base[0])
	}
	if out.Blocked || out.Capped || out.Changed || out.Kind != "" {
		t.Errorf("unexpected outcome for clean running: %+v", out)
	}
}

func TestCleanLaneChange(t *testing.T) {
	cfg := testConfig(t)
	states := []*primitives.CompetitorRaceState{
		runningState(1, 0),
		runningState(1, 0.01), // directly ahead, inside the look-ahead window
	}
	roster := []primitives.CompetitorStats{
		neutralStats(primitives.FrontRunner),
		neutralStats(primitives.FrontRunner),
	}
	base := []float64{cfg.BaselineSpeed, cfg.BaselineSpeed}

	r := NewResolver(cfg, 2, stubRand{value: 0.99})
	speed, out := r.Resolve(0, states, distances(states), base, roster)

	if !out.Changed || out.Kind != primitives.LaneChangeClean {
		t.Fatalf("expected clean lane change, got %+v", out)
	}
	if states[0].Lane != 2 || out.ToLane != 2 || out.FromLane != 1 {
		t.Errorf("lane mutation wrong: lane=%d outcome=%+v", states[0].Lane, out)
	}
	if states[0].TicksSinceLaneChange != 0 {
		t.Error("clean change must reset the cooldown counter")
	}
	if states[0].PenaltyTicks != 0 {
		t.Error("clean change carries no speed penalty")
	}
	if speed != base[0] {
		t.Errorf("post-change speed = %v, want full %v", speed, base[0])
	}
}

func TestRiskySqueezeSuccess(t *testing.T) {
	cfg := testConfig(t)
	states := []*primitives.CompetitorRaceState{
		runningState(1, 0),
		runningState(1, 0.01), // blocker ahead in lane
		runningState(2, 0),    // one body in the target lane gap
	}
	roster := []primitives.CompetitorStats{
		neutralStats(primitives.FrontRunner),
		neutralStats(primitives.FrontRunner),
		neutralStats(primitives.FrontRunner),
	}
	base := []float64{cfg.BaselineSpeed, cfg.BaselineSpeed, cfg.BaselineSpeed}

	r := NewResolver(cfg, 3, stubRand{value: 0.0}) // draw always under the chance
	speed, out := r.Resolve(0, states, distances(states), base, roster)

	if !out.Changed || out.Kind != primitives.LaneChangeRiskySuccess {
		t.Fatalf("expected risky success, got %+v", out)
	}
	if states[0].Lane != 2 {
		t.Errorf("lane = %d, want 2", states[0].Lane)
	}
	if states[0].PenaltyTicks != riskyPenaltyTicks {
		t.Errorf("penalty ticks = %d, want %d", states[0].PenaltyTicks, riskyPenaltyTicks)
	}
	if speed != base[0] {
		t.Errorf("squeeze succeeds at full pipeline speed %v, got %v (handicap is paid over the cooldown)", base[0], speed)
	}
}

// Threading past a slower body that sits ahead in the target lane cannot
// end the tick in front of it: the squeeze tick itself is capped at that
// occupant's pipeline speed.
func TestRiskySqueezeCappedBySlowOccupant(t *testing.T) {
	cfg := testConfig(t)
	states := []*primitives.CompetitorRaceState{
		runningState(1, 0),
		runningState(1, 0.01),  // blocker ahead in lane
		runningState(2, 0.005), // slow body ahead in the target lane gap
	}
	roster := []primitives.CompetitorStats{
		neutralStats(primitives.FrontRunner),
		neutralStats(primitives.FrontRunner),
		neutralStats(primitives.FrontRunner),
	}
	occupantBase := cfg.BaselineSpeed * 0.5
	base := []float64{cfg.BaselineSpeed, cfg.BaselineSpeed, occupantBase}

	r := NewResolver(cfg, 3, stubRand{value: 0.0})
	speed, out := r.Resolve(0, states, distances(states), base, roster)

	if !out.Changed || out.Kind != primitives.LaneChangeRiskySuccess {
		t.Fatalf("expected risky success, got %+v", out)
	}
	if out.SqueezedPast != 2 {
		t.Errorf("squeezed-past index = %d, want 2", out.SqueezedPast)
	}
	if !out.Capped || speed != occupantBase {
		t.Errorf("squeeze tick speed = %v, want occupant speed %v", speed, occupantBase)
	}
	if speed <= 0 {
		t.Errorf("squeeze tick must still advance, got %v", speed)
	}
}

func TestRiskySqueezeBlocked(t *testing.T) {
	cfg := testConfig(t)
	states := []*primitives.CompetitorRaceState{
		runningState(1, 0),
		runningState(1, 0.01),
		runningState(2, 0),
	}
	roster := []primitives.CompetitorStats{
		neutralStats(primitives.FrontRunner),
		neutralStats(primitives.FrontRunner),
		neutralStats(primitives.FrontRunner),
	}
	base := []float64{cfg.BaselineSpeed, cfg.BaselineSpeed * 0.5, cfg.BaselineSpeed}

	r := NewResolver(cfg, 3, stubRand{value: 0.99}) // draw always over the chance
	speed, out := r.Resolve(0, states, distances(states), base, roster)

	if out.Changed || out.Kind != primitives.LaneChangeRiskyBlocked {
		t.Fatalf("expected risky-blocked outcome, got %+v", out)
	}
	if states[0].Lane != 1 {
		t.Error("failed squeeze must not mutate the lane")
	}
	if states[0].TicksSinceLaneChange != 0 {
		t.Error("failed attempt still spends the cooldown")
	}
	if !out.Capped {
		t.Fatal("still boxed in, speed must be capped")
	}
	wantCap := base[1] * (1 - roster[0].Style.Profile().Frustration)
	if math.Abs(speed-wantCap) > 1e-15 {
		t.Errorf("capped speed = %v, want blocker speed minus frustration %v", speed, wantCap)
	}
}

// A blocked competitor can never gain more ground per tick than the body
// ahead of it, and its distance still advances every tick: the cap follows
// the blocker's own pipeline speed, here fatigued to half the trailer's,
// across 50 consecutive ticks.
func TestBlockedCapHoldsOverFiftyTicks(t *testing.T) {
	cfg := testConfig(t)
	trailer := runningState(1, 0)
	blocker := runningState(1, 0.01)
	sitter := runningState(2, 0) // keeps lane 2 congested so no clean escape
	states := []*primitives.CompetitorRaceState{trailer, blocker, sitter}
	roster := []primitives.CompetitorStats{
		neutralStats(primitives.FrontRunner),
		neutralStats(primitives.FrontRunner),
		neutralStats(primitives.FrontRunner),
	}
	trailerBase := cfg.BaselineSpeed
	blockerBase := cfg.BaselineSpeed * 0.5
	frustration := roster[0].Style.Profile().Frustration

	r := NewResolver(cfg, 3, stubRand{value: 0.99}) // every squeeze fails

	for tick := 0; tick < 50; tick++ {
		trailer.TicksSinceLaneChange++
		base := []float64{trailerBase, blockerBase, cfg.BaselineSpeed}
		speed, out := r.Resolve(0, states, distances(states), base, roster)

		if !out.Blocked {
			t.Fatalf("tick %d: trailer unexpectedly unblocked (gap %v)", tick, blocker.Distance-trailer.Distance)
		}
		if !out.Capped {
			t.Fatalf("tick %d: expected capped speed, got %+v", tick, out)
		}
		wantCap := blockerBase * (1 - frustration)
		if speed > wantCap+1e-15 {
			t.Fatalf("tick %d: capped speed %v exceeds blocker speed minus frustration %v", tick, speed, wantCap)
		}
		if speed > blockerBase {
			t.Fatalf("tick %d: ghost overtake, trailer gain %v above blocker gain %v", tick, speed, blockerBase)
		}
		if speed <= 0 {
			t.Fatalf("tick %d: capped trailer must still advance, got %v", tick, speed)
		}

		before := trailer.Distance
		trailer.Distance += speed
		if trailer.Distance < before {
			t.Fatalf("tick %d: trailer distance moved backwards, %v -> %v", tick, before, trailer.Distance)
		}
		blocker.Distance += blockerBase
		sitter.Distance = trailer.Distance // stays alongside
	}
}

func TestLaneBoundaryRespected(t *testing.T) {
	cfg := testConfig(t)
	// Field of two lanes; the trailer sits in lane 2 with both escape slots
	// conflicted, so no candidate outside 1..2 may ever be considered.
	states := []*primitives.CompetitorRaceState{
		runningState(2, 0),
		runningState(2, 0.01),
		runningState(1, 0),
		runningState(1, 0.005),
	}
	roster := []primitives.CompetitorStats{
		neutralStats(primitives.EarlyBurst), // outside-preferring, but lane 3 does not exist
		neutralStats(primitives.FrontRunner),
		neutralStats(primitives.FrontRunner),
		neutralStats(primitives.FrontRunner),
	}
	base := []float64{cfg.BaselineSpeed, cfg.BaselineSpeed, cfg.BaselineSpeed, cfg.BaselineSpeed}

	r := NewResolver(cfg, 2, stubRand{value: 0.0})
	_, out := r.Resolve(0, states, distances(states), base, roster)

	if out.Changed {
		t.Fatalf("no clear or nearly-clear lane exists, got change %+v", out)
	}
	if states[0].Lane != 2 {
		t.Errorf("lane = %d, want unchanged 2", states[0].Lane)
	}
	if !out.Capped {
		t.Error("boxed-in competitor must be capped")
	}
}

func TestCooldownBlocksAllAttempts(t *testing.T) {
	cfg := testConfig(t)
	states := []*primitives.CompetitorRaceState{
		runningState(1, 0),
		runningState(1, 0.01),
	}
	states[0].TicksSinceLaneChange = laneChangeCooldown - 1
	roster := []primitives.CompetitorStats{
		neutralStats(primitives.FrontRunner),
		neutralStats(primitives.FrontRunner),
	}
	base := []float64{cfg.BaselineSpeed, cfg.BaselineSpeed}

	r := NewResolver(cfg, 2, stubRand{value: 0.0})
	_, out := r.Resolve(0, states, distances(states), base, roster)

	if out.Changed || out.Kind != "" {
		t.Fatalf("attempt inside the cooldown window, outcome %+v", out)
	}
	if states[0].Lane != 1 {
		t.Error("lane must not move during cooldown")
	}
}
