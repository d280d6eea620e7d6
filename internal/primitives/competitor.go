package primitives

import (
	"errors"
	"fmt"
)

// Stat bounds. Every genetic stat lives on a 0-100 scale with 50 neutral.
const (
	StatMin     = 0.0
	StatMax     = 100.0
	StatNeutral = 50.0
)

// ClampStat forces a stat into its valid domain. Degenerate inputs are
// clamped, never propagated into the modifier arithmetic.
func ClampStat(v float64) float64 {
	if v < StatMin {
		return StatMin
	}
	if v > StatMax {
		return StatMax
	}
	return v
}

// CompetitorStats is the immutable per-race copy of a competitor's genetic
// stats, running style, and starting lane, as supplied by the roster layer.
type CompetitorStats struct {
	Name       string  `json:"name" yaml:"name"`
	Speed      float64 `json:"speed" yaml:"speed"`
	Agility    float64 `json:"agility" yaml:"agility"`
	Stamina    float64 `json:"stamina" yaml:"stamina"`
	Durability float64 `json:"durability" yaml:"durability"`
	Happiness  float64 `json:"happiness" yaml:"happiness"`
	Style      LegType `json:"style" yaml:"style"`
	Lane       int     `json:"lane" yaml:"lane"`
}

// Normalized returns a copy of s with every stat clamped to [StatMin, StatMax].
func (s CompetitorStats) Normalized() CompetitorStats {
	s.Speed = ClampStat(s.Speed)
	s.Agility = ClampStat(s.Agility)
	s.Stamina = ClampStat(s.Stamina)
	s.Durability = ClampStat(s.Durability)
	s.Happiness = ClampStat(s.Happiness)
	return s
}

// Validate checks the non-numeric fields; lanes must fit the field size.
// Numeric stats are never rejected, only clamped.
func (s CompetitorStats) Validate(fieldSize int) error {
	if s.Name == "" {
		return errors.New("competitor name is required")
	}
	if !s.Style.Valid() {
		return fmt.Errorf("competitor %q has unknown running style %q", s.Name, s.Style)
	}
	if s.Lane < 1 || s.Lane > fieldSize {
		return fmt.Errorf("competitor %q lane %d outside valid range 1..%d", s.Name, s.Lane, fieldSize)
	}
	return nil
}

// CompetitorRaceState is the mutable per-competitor state for one race.
// It is owned exclusively by the race clock; every other component receives
// read-only snapshots.
type CompetitorRaceState struct {
	Distance             float64 // cumulative furlongs
	Lane                 int
	Stamina              float64 // remaining reserve
	InitialStamina       float64
	TicksSinceLaneChange int
	PenaltyTicks         int     // remaining ticks of the risky-squeeze handicap
	FinishTime           float64 // fractional tick of crossing; negative until crossed
	Place                int     // 0 until the race is resolved
}

// Finished reports whether the competitor has crossed the line.
func (s *CompetitorRaceState) Finished() bool {
	return s.FinishTime >= 0
}
