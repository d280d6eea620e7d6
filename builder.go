package racesimx

import (
	"fmt"

	"github.com/comalice/racesimx/internal/core"
)

// RaceBuilder provides a fluent API for assembling a race definition without
// constructing config and roster structs by hand. Validation happens once,
// in Build; the builder itself never fails.
type RaceBuilder struct {
	distance  float64
	surface   Surface
	condition TrackCondition
	seed      uint64
	roster    []CompetitorStats
	opts      []Option
}

// NewRaceBuilder starts a race definition over the given distance. The
// surface defaults to fast dirt and the seed to zero.
func NewRaceBuilder(distanceFurlongs float64) *RaceBuilder {
	return &RaceBuilder{
		distance:  distanceFurlongs,
		surface:   SurfaceDirt,
		condition: ConditionFast,
	}
}

// Surface sets the racing surface.
func (b *RaceBuilder) Surface(s Surface) *RaceBuilder {
	b.surface = s
	return b
}

// Condition sets the track condition.
func (b *RaceBuilder) Condition(c TrackCondition) *RaceBuilder {
	b.condition = c
	return b
}

// Seed sets the random seed for the race.
func (b *RaceBuilder) Seed(seed uint64) *RaceBuilder {
	b.seed = seed
	return b
}

// Options appends clock options applied at Build time.
func (b *RaceBuilder) Options(opts ...Option) *RaceBuilder {
	b.opts = append(b.opts, opts...)
	return b
}

// Competitor adds one competitor to the field. A zero Lane is assigned the
// next unclaimed lane in registration order.
func (b *RaceBuilder) Competitor(stats CompetitorStats) *RaceBuilder {
	if stats.Lane == 0 {
		stats.Lane = b.nextFreeLane()
	}
	b.roster = append(b.roster, stats)
	return b
}

func (b *RaceBuilder) nextFreeLane() int {
	taken := make(map[int]bool, len(b.roster))
	for _, c := range b.roster {
		taken[c.Lane] = true
	}
	for lane := 1; ; lane++ {
		if !taken[lane] {
			return lane
		}
	}
}

// Build validates the accumulated definition and returns a runnable Race.
func (b *RaceBuilder) Build() (*Race, error) {
	cfg, err := NewRaceConfig(b.distance, b.surface, b.condition)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	clock, err := core.NewClock(cfg, b.roster, b.seed, b.opts...)
	if err != nil {
		return nil, err
	}
	return &Race{clock: clock}, nil
}

// Race is a fully parameterized, single-use simulation. Abandoning a race
// is simply dropping the value; there is no cancellation inside a run.
type Race struct {
	clock *core.Clock
}

// Run simulates the race to completion. It can be called exactly once.
func (r *Race) Run() (*Result, error) {
	return r.clock.Run()
}

// Phase reports the race lifecycle state.
func (r *Race) Phase() RacePhase {
	return r.clock.Phase()
}
