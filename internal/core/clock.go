package core

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/comalice/racesimx/internal/primitives"
)

var (
	// ErrInvalidConfig is returned before any tick runs when the race
	// definition or roster cannot produce a valid simulation.
	ErrInvalidConfig = errors.New("invalid race configuration")
	// ErrDidNotConverge is returned when the field fails to finish within
	// the safety tick ceiling; it signals a configuration or data problem
	// upstream, and no result is produced.
	ErrDidNotConverge = errors.New("simulation did not converge")
)

// RacePhase is the lifecycle state of one Clock.
type RacePhase int

const (
	PhaseNotStarted RacePhase = iota
	PhaseRunning
	PhaseFinished
)

func (p RacePhase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not-started"
	case PhaseRunning:
		return "running"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Clock constants.
const (
	maxTickFactor        = 4    // safety ceiling = factor × nominal tick count
	photoFinishMargin    = 0.25 // ticks; top-two margin below this is a photo finish
	finalStretchFraction = 0.75
	secondsPerTick       = 0.2
)

// ResultEntry is one competitor's line in the final ranked result.
type ResultEntry struct {
	Name          string  `json:"name" yaml:"name"`
	Place         int     `json:"place" yaml:"place"`
	FinishTicks   float64 `json:"finishTicks" yaml:"finishTicks"`
	FinishSeconds float64 `json:"finishSeconds" yaml:"finishSeconds"`
	FinalLane     int     `json:"finalLane" yaml:"finalLane"`
	StaminaLeft   float64 `json:"staminaLeft" yaml:"staminaLeft"`
}

// Result is the complete output of one simulated race: the ranked finish
// order plus the ordered event log. Entries are sorted by place. RunID is
// derived from the race definition and seed, so two identical runs carry
// the same identity and serialize byte for byte.
type Result struct {
	RunID      string                 `json:"runID" yaml:"runID"`
	Seed       uint64                 `json:"seed" yaml:"seed"`
	Config     primitives.RaceConfig  `json:"config" yaml:"config"`
	TotalTicks int                    `json:"totalTicks" yaml:"totalTicks"`
	Entries    []ResultEntry          `json:"entries" yaml:"entries"`
	Events     []primitives.RaceEvent `json:"events" yaml:"events"`
}

// Clock owns the authoritative state of one race and advances it tick by
// tick. A Clock simulates exactly one race and is then discarded; it is not
// safe for concurrent use, and does not need to be.
type Clock struct {
	cfg      primitives.RaceConfig
	roster   []primitives.CompetitorStats
	states   []*primitives.CompetitorRaceState
	seed     uint64
	rng      Rand
	logger   *log.Logger
	maxTicks int

	resolver *Resolver
	detector *Detector
	phase    RacePhase
	tick     int
	events   []primitives.RaceEvent

	// onTick, when set, observes the field after each tick's movement
	// phase. Test instrumentation only; nil in normal operation.
	onTick func(tick int, states []*primitives.CompetitorRaceState)
}

// NewClock validates the race definition and prepares a clock. The roster's
// stats are clamped and copied; the caller's slices are not retained.
// Configuration errors are detected here, never mid-race.
func NewClock(cfg primitives.RaceConfig, roster []primitives.CompetitorStats, seed uint64, opts ...Option) (*Clock, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if cfg.TotalTicks <= 0 || cfg.BaselineSpeed <= 0 {
		return nil, fmt.Errorf("%w: config missing derived pace (use NewRaceConfig)", ErrInvalidConfig)
	}
	if len(roster) < 2 {
		return nil, fmt.Errorf("%w: at least two competitors required, got %d", ErrInvalidConfig, len(roster))
	}
	fieldSize := len(roster)
	for _, stats := range roster {
		if err := stats.Validate(fieldSize); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}

	c := &Clock{
		cfg:      cfg,
		roster:   make([]primitives.CompetitorStats, fieldSize),
		states:   make([]*primitives.CompetitorRaceState, fieldSize),
		seed:     seed,
		maxTicks: cfg.TotalTicks * maxTickFactor,
		phase:    PhaseNotStarted,
		detector: NewDetector(),
	}
	for i, stats := range roster {
		c.roster[i] = stats.Normalized()
		reserve := InitialReserve(c.roster[i].Stamina)
		c.states[i] = &primitives.CompetitorRaceState{
			Lane:                 c.roster[i].Lane,
			Stamina:              reserve,
			InitialStamina:       reserve,
			TicksSinceLaneChange: laneChangeCooldown,
			FinishTime:           -1,
		}
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(seed, seed))
	}
	c.resolver = NewResolver(cfg, fieldSize, c.rng)

	return c, nil
}

// Phase returns the clock's lifecycle state.
func (c *Clock) Phase() RacePhase {
	return c.phase
}

// Run advances the race to completion and returns the ranked result with the
// full event log. A clock can run exactly once.
func (c *Clock) Run() (*Result, error) {
	if c.phase != PhaseNotStarted {
		return nil, fmt.Errorf("race already %s", c.phase)
	}
	c.phase = PhaseRunning
	if c.logger != nil {
		c.logger.Info("race started",
			"distance", c.cfg.DistanceFurlongs,
			"surface", c.cfg.Surface,
			"condition", c.cfg.Condition,
			"field", len(c.roster),
			"seed", c.seed,
		)
	}

	envMod, _ := primitives.EnvironmentModifier(c.cfg.Surface, c.cfg.Condition)
	prev := primitives.BuildSnapshot(0, c.states)

	baseSpeeds := make([]float64, len(c.states))
	adjusted := make([]float64, len(c.states))
	startDist := make([]float64, len(c.states))
	outcomes := make([]TrafficOutcome, len(c.states))

	for c.tick = 1; ; c.tick++ {
		if c.tick > c.maxTicks {
			return nil, fmt.Errorf("%w: field not home after %d ticks", ErrDidNotConverge, c.maxTicks)
		}

		// Trailing competitors are processed first so contention never
		// systematically favors the leaders.
		order := processingOrder(prev)
		progress := float64(c.tick) / float64(c.cfg.TotalTicks)
		for i := range c.states {
			startDist[i] = c.states[i].Distance
		}

		// Phase A: pipeline speeds for the whole field, traffic-free.
		for _, idx := range order {
			st := c.states[idx]
			if st.Finished() {
				baseSpeeds[idx] = 0
				continue
			}
			st.TicksSinceLaneChange++
			fatigue := FatigueMultiplier(st.Stamina, st.InitialStamina)
			baseSpeeds[idx] = c.cfg.BaselineSpeed * SpeedMultiplier(c.roster[idx], envMod, progress, fatigue, c.rng)
		}

		// Phase B: lane contention, with live lane mutations.
		for _, idx := range order {
			if c.states[idx].Finished() {
				outcomes[idx] = TrafficOutcome{BlockerIndex: -1, SqueezedPast: -1}
				continue
			}
			adjusted[idx], outcomes[idx] = c.resolver.Resolve(idx, c.states, startDist, baseSpeeds, c.roster)
		}

		// Phase C: penalties, movement, stamina, finish detection.
		for _, idx := range order {
			st := c.states[idx]
			if st.Finished() {
				continue
			}
			speed := adjusted[idx]
			if st.PenaltyTicks > 0 {
				speed *= riskyPenaltyFactor
				st.PenaltyTicks--
			}
			before := st.Distance
			st.Distance += speed
			effort := speed / c.cfg.BaselineSpeed
			st.Stamina = Deplete(st.Stamina, effort, c.cfg.Condition, c.roster[idx].Durability)
			if st.Distance >= c.cfg.DistanceFurlongs {
				// Interpolate the exact crossing moment inside the tick so
				// placements and photo finishes use fractional time.
				frac := 1.0
				if st.Distance > before {
					frac = (c.cfg.DistanceFurlongs - before) / (st.Distance - before)
				}
				st.FinishTime = float64(c.tick-1) + frac
			}
		}

		if c.onTick != nil {
			c.onTick(c.tick, c.states)
		}

		cur := primitives.BuildSnapshot(c.tick, c.states)
		tickEvents := c.detector.Detect(prev, cur, outcomes, c.roster, c.states, c.tick, c.cfg.TotalTicks)
		c.record(tickEvents)

		if c.allFinished() {
			break
		}
		prev = cur
	}

	result := c.finalize()
	c.phase = PhaseFinished
	if c.logger != nil {
		c.logger.Info("race finished", "runID", result.RunID, "ticks", c.tick, "winner", result.Entries[0].Name)
	}
	return result, nil
}

// processingOrder returns roster indices in reverse rank order of the
// previous tick: trailing competitors first.
func processingOrder(snap *primitives.TickSnapshot) []int {
	order := make([]int, len(snap.Order))
	for i, idx := range snap.Order {
		order[len(snap.Order)-1-i] = idx
	}
	return order
}

func (c *Clock) allFinished() bool {
	for _, st := range c.states {
		if !st.Finished() {
			return false
		}
	}
	return true
}

func (c *Clock) record(events []primitives.RaceEvent) {
	for _, evt := range events {
		c.events = append(c.events, evt)
		if c.logger != nil {
			c.logger.Debug("race event", "type", evt.Type, "tick", evt.Tick, "competitor", evt.Competitor)
		}
	}
}

// runNamespace scopes race run IDs in the name-based UUID space.
var runNamespace = uuid.MustParse("9f2d7c64-3b1e-4e8a-8d05-61c0a4b7f3d2")

// runID derives a stable identity from the race definition and seed. The
// same definition and seed always replay to the same trace, so they name
// the same run.
func (c *Clock) runID() string {
	name := fmt.Sprintf("%g|%s|%s|%d", c.cfg.DistanceFurlongs, c.cfg.Surface, c.cfg.Condition, c.seed)
	for _, stats := range c.roster {
		name += "|" + stats.Name
	}
	return uuid.NewSHA1(runNamespace, []byte(name)).String()
}

// finalize sorts the field by crossing time, assigns places 1..N, and emits
// the photo-finish event when the top-two margin is inside the documented
// threshold. Ties break on literal values only, never on roster order.
func (c *Clock) finalize() *Result {
	order := make([]int, len(c.states))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := c.states[order[a]], c.states[order[b]]
		if sa.FinishTime != sb.FinishTime {
			return sa.FinishTime < sb.FinishTime
		}
		if sa.Distance != sb.Distance {
			return sa.Distance > sb.Distance
		}
		return sa.Lane < sb.Lane
	})

	result := &Result{
		RunID:      c.runID(),
		Seed:       c.seed,
		Config:     c.cfg,
		TotalTicks: c.tick,
		Entries:    make([]ResultEntry, len(order)),
	}
	for place, idx := range order {
		st := c.states[idx]
		st.Place = place + 1
		result.Entries[place] = ResultEntry{
			Name:          c.roster[idx].Name,
			Place:         st.Place,
			FinishTicks:   st.FinishTime,
			FinishSeconds: st.FinishTime * secondsPerTick,
			FinalLane:     st.Lane,
			StaminaLeft:   st.Stamina,
		}
	}

	margin := c.states[order[1]].FinishTime - c.states[order[0]].FinishTime
	if margin < photoFinishMargin {
		c.events = append(c.events, primitives.RaceEvent{
			Type:        primitives.EventPhotoFinish,
			Tick:        c.tick,
			Competitor:  c.roster[order[0]].Name,
			RunnerUp:    c.roster[order[1]].Name,
			MarginTicks: margin,
		})
	}

	result.Events = c.events
	return result
}
