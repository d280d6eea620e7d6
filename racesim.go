// Package racesimx simulates a multi-competitor race as a deterministic
// discrete-time process. Given a race configuration (distance, surface,
// track condition), a roster of competitors, and a seed, it advances a
// shared clock tick by tick, resolves lane contention, depletes stamina,
// and produces a final ranked result plus a structured log of notable
// state transitions (lead changes, lane changes, finishes, photo finishes).
//
// Two runs with the same configuration, roster, and seed produce identical
// tick-by-tick traces. A race is a short-lived, fully parameterized,
// non-blocking computation: no I/O, no locks, no shared state between
// races, so independent races may be simulated in parallel freely.
package racesimx

import (
	"github.com/comalice/racesimx/internal/core"
	"github.com/comalice/racesimx/internal/primitives"
)

// Engine types, re-exported for callers.
type (
	RaceConfig      = primitives.RaceConfig
	Surface         = primitives.Surface
	TrackCondition  = primitives.TrackCondition
	CompetitorStats = primitives.CompetitorStats
	LegType         = primitives.LegType
	RaceEvent       = primitives.RaceEvent
	EventType       = primitives.EventType
	LaneChangeKind  = primitives.LaneChangeKind
	Result          = core.Result
	ResultEntry     = core.ResultEntry
	RacePhase       = core.RacePhase
	Option          = core.Option
	Rand            = core.Rand
)

// Surfaces and track conditions.
const (
	SurfaceDirt      = primitives.SurfaceDirt
	SurfaceTurf      = primitives.SurfaceTurf
	SurfaceSynthetic = primitives.SurfaceSynthetic

	ConditionFast  = primitives.ConditionFast
	ConditionGood  = primitives.ConditionGood
	ConditionSoft  = primitives.ConditionSoft
	ConditionHeavy = primitives.ConditionHeavy
)

// Running-style archetypes.
const (
	EarlyBurst    = primitives.EarlyBurst
	FrontRunner   = primitives.FrontRunner
	MidSurger     = primitives.MidSurger
	LateCloser    = primitives.LateCloser
	RailTactician = primitives.RailTactician
)

// Event types and lane-change kinds.
const (
	EventRaceStarted        = primitives.EventRaceStarted
	EventLeadChanged        = primitives.EventLeadChanged
	EventLaneChanged        = primitives.EventLaneChanged
	EventPositionsChanged   = primitives.EventPositionsChanged
	EventFinalStretch       = primitives.EventFinalStretch
	EventCompetitorFinished = primitives.EventCompetitorFinished
	EventPhotoFinish        = primitives.EventPhotoFinish

	LaneChangeClean        = primitives.LaneChangeClean
	LaneChangeRiskySuccess = primitives.LaneChangeRiskySuccess
	LaneChangeRiskyBlocked = primitives.LaneChangeRiskyBlocked
)

// Failure sentinels. Any reported failure means "no result", never a
// degraded one.
var (
	ErrInvalidConfig  = core.ErrInvalidConfig
	ErrDidNotConverge = core.ErrDidNotConverge
)

// Clock options.
var (
	WithRand     = core.WithRand
	WithLogger   = core.WithLogger
	WithMaxTicks = core.WithMaxTicks
)

// NewRaceConfig builds a validated race configuration with its derived tick
// count and baseline speed.
func NewRaceConfig(distanceFurlongs float64, s Surface, c TrackCondition) (RaceConfig, error) {
	return primitives.NewRaceConfig(distanceFurlongs, s, c)
}

// Simulate runs one complete race and returns the ranked result together
// with the ordered event log. It is the one-shot equivalent of building a
// Race and calling Run.
func Simulate(cfg RaceConfig, roster []CompetitorStats, seed uint64, opts ...Option) (*Result, error) {
	clock, err := core.NewClock(cfg, roster, seed, opts...)
	if err != nil {
		return nil, err
	}
	return clock.Run()
}
