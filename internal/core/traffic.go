package core

import "github.com/comalice/racesimx/internal/primitives"

// Traffic resolver constants. Gap windows are expressed in ticks of baseline
// running and scaled by the race's baseline speed so they behave identically
// at any distance.
const (
	lookAheadTicks       = 2.5 // forward window that counts as "blocked"
	laneClearGapTicks    = 1.5 // conflict window when entering a lane
	congestionGapTicks   = 6.0 // window for per-lane congestion counts
	laneChangeCooldown   = 8   // ticks between change attempts, any outcome
	riskyBaseChance      = 0.30
	riskyAgilityPerPoint = 0.004
	riskyChanceMin       = 0.05
	riskyChanceMax       = 0.85
	riskyPenaltyTicks    = 6
	riskyPenaltyFactor   = 0.97 // speed handicap while the squeeze cooldown runs
)

// TrafficOutcome records what the resolver decided for one competitor in one
// tick. Lane-change classification is fixed here, at the moment of decision;
// the event detector never re-derives it from later state.
type TrafficOutcome struct {
	Blocked      bool
	Capped       bool
	BlockerIndex int
	Changed      bool
	Kind         primitives.LaneChangeKind
	FromLane     int
	ToLane       int
	SqueezedPast int // roster index of the body threaded past, -1 if none
}

// Resolver applies lane contention for one race. It holds no per-tick state;
// the clock passes in start-of-tick distances and live lane assignments.
type Resolver struct {
	cfg       primitives.RaceConfig
	fieldSize int
	rng       Rand
}

// NewResolver builds a resolver for a field of the given size.
func NewResolver(cfg primitives.RaceConfig, fieldSize int, rng Rand) *Resolver {
	return &Resolver{cfg: cfg, fieldSize: fieldSize, rng: rng}
}

// Resolve determines the traffic-adjusted speed for the competitor at roster
// index idx. baseSpeeds holds every competitor's modifier-pipeline speed for
// this tick (traffic-free, which breaks the re-entrancy cycle when capping);
// startDist holds start-of-tick distances. Lanes on states are live: changes
// made by competitors processed earlier in the tick are visible. At most one
// risky attempt resolves per competitor per tick.
func (r *Resolver) Resolve(idx int, states []*primitives.CompetitorRaceState, startDist, baseSpeeds []float64, roster []primitives.CompetitorStats) (float64, TrafficOutcome) {
	me := states[idx]
	outcome := TrafficOutcome{BlockerIndex: -1, SqueezedPast: -1, FromLane: me.Lane, ToLane: me.Lane}

	blocker := r.blockerAhead(idx, states, startDist)
	if blocker < 0 {
		return baseSpeeds[idx], outcome
	}
	outcome.Blocked = true
	outcome.BlockerIndex = blocker

	if me.TicksSinceLaneChange >= laneChangeCooldown {
		if changed := r.attemptLaneChange(idx, states, startDist, roster, &outcome); changed {
			// A clean change leaves the old lane's blocker behind at full
			// speed; the squeeze handicap is applied by the clock through
			// PenaltyTicks. A squeeze past a body ahead cannot end the
			// tick in front of it, so the squeeze tick itself is capped at
			// that occupant's pipeline speed.
			speed := baseSpeeds[idx]
			if occ := outcome.SqueezedPast; occ >= 0 && startDist[occ] > startDist[idx] && baseSpeeds[occ] < speed {
				speed = baseSpeeds[occ]
				outcome.Capped = true
			}
			return speed, outcome
		}
	}

	// Still boxed in: cap at the blocker's own pipeline speed minus the
	// archetype's frustration fraction. A fast blocker yields a higher cap
	// than a fatigued one; the trailing competitor can never gain more
	// ground than the body ahead of it.
	capSpeed := baseSpeeds[blocker] * (1 - roster[idx].Style.Profile().Frustration)
	if capSpeed < baseSpeeds[idx] {
		outcome.Capped = true
		return capSpeed, outcome
	}
	return baseSpeeds[idx], outcome
}

// blockerAhead returns the roster index of the nearest unfinished competitor
// occupying the same lane within the forward look-ahead window, or -1.
func (r *Resolver) blockerAhead(idx int, states []*primitives.CompetitorRaceState, startDist []float64) int {
	me := states[idx]
	lookAhead := lookAheadTicks * r.cfg.BaselineSpeed
	best := -1
	bestGap := 0.0
	for j, other := range states {
		if j == idx || other.Finished() || other.Lane != me.Lane {
			continue
		}
		gap := startDist[j] - startDist[idx]
		if gap <= 0 || gap > lookAhead {
			continue
		}
		if best < 0 || gap < bestGap {
			best = j
			bestGap = gap
		}
	}
	return best
}

// attemptLaneChange tries the adjacent lanes in order of congestion and
// archetype preference. A fully clear lane yields a clean change. Otherwise a
// single risky squeeze into the best nearly-clear lane may be attempted, with
// success odds scaled by agility. Reports the decision on outcome and returns
// whether the lane actually changed.
func (r *Resolver) attemptLaneChange(idx int, states []*primitives.CompetitorRaceState, startDist []float64, roster []primitives.CompetitorStats, outcome *TrafficOutcome) bool {
	me := states[idx]
	candidates := r.candidateLanes(me.Lane, roster[idx].Style.Profile().Preference, states, startDist, idx)

	for _, lane := range candidates {
		if n, _ := r.conflicts(lane, idx, states, startDist); n == 0 {
			outcome.Changed = true
			outcome.Kind = primitives.LaneChangeClean
			outcome.ToLane = lane
			me.Lane = lane
			me.TicksSinceLaneChange = 0
			return true
		}
	}

	for _, lane := range candidates {
		n, occ := r.conflicts(lane, idx, states, startDist)
		if n != 1 {
			continue
		}
		// One body in the gap: a probabilistic squeeze, at most once per tick.
		chance := riskyBaseChance + (primitives.ClampStat(roster[idx].Agility)-primitives.StatNeutral)*riskyAgilityPerPoint
		if chance < riskyChanceMin {
			chance = riskyChanceMin
		}
		if chance > riskyChanceMax {
			chance = riskyChanceMax
		}
		if r.rng.Float64() < chance {
			outcome.Changed = true
			outcome.Kind = primitives.LaneChangeRiskySuccess
			outcome.ToLane = lane
			outcome.SqueezedPast = occ
			me.Lane = lane
			me.TicksSinceLaneChange = 0
			me.PenaltyTicks = riskyPenaltyTicks
			return true
		}
		outcome.Kind = primitives.LaneChangeRiskyBlocked
		me.TicksSinceLaneChange = 0 // failed attempt still spends the cooldown
		return false
	}

	return false
}

// candidateLanes returns the adjacent lanes within the valid range, ordered
// by congestion ascending with the archetype's side preference as tiebreak.
func (r *Resolver) candidateLanes(current int, pref primitives.LanePreference, states []*primitives.CompetitorRaceState, startDist []float64, idx int) []int {
	inner, outer := current-1, current+1
	var lanes []int
	appendValid := func(lane int) {
		if lane >= 1 && lane <= r.fieldSize {
			lanes = append(lanes, lane)
		}
	}
	if pref == primitives.PreferOutside {
		appendValid(outer)
		appendValid(inner)
	} else {
		appendValid(inner)
		appendValid(outer)
	}
	if len(lanes) == 2 {
		// Preference order stands unless the other side is clearly quieter.
		if r.congestion(lanes[1], idx, states, startDist) < r.congestion(lanes[0], idx, states, startDist) {
			lanes[0], lanes[1] = lanes[1], lanes[0]
		}
	}
	return lanes
}

// conflicts counts unfinished competitors in lane whose position collides
// with the would-be entrant, and returns the roster index of the last one
// found (-1 when the lane is clear).
func (r *Resolver) conflicts(lane, idx int, states []*primitives.CompetitorRaceState, startDist []float64) (int, int) {
	gap := laneClearGapTicks * r.cfg.BaselineSpeed
	n, last := 0, -1
	for j, other := range states {
		if j == idx || other.Finished() || other.Lane != lane {
			continue
		}
		d := startDist[j] - startDist[idx]
		if d < 0 {
			d = -d
		}
		if d < gap {
			n++
			last = j
		}
	}
	return n, last
}

// congestion counts unfinished competitors running in lane within the wider
// congestion window around the entrant.
func (r *Resolver) congestion(lane, idx int, states []*primitives.CompetitorRaceState, startDist []float64) int {
	window := congestionGapTicks * r.cfg.BaselineSpeed
	n := 0
	for j, other := range states {
		if j == idx || other.Finished() || other.Lane != lane {
			continue
		}
		d := startDist[j] - startDist[idx]
		if d < 0 {
			d = -d
		}
		if d <= window {
			n++
		}
	}
	return n
}
