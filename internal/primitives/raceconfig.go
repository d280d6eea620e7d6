package primitives

import (
	"errors"
	"fmt"
	"math"
)

// Surface is the racing surface of the track.
type Surface string

const (
	SurfaceDirt      Surface = "dirt"
	SurfaceTurf      Surface = "turf"
	SurfaceSynthetic Surface = "synthetic"
)

// TrackCondition describes the state of the surface on race day.
type TrackCondition string

const (
	ConditionFast  TrackCondition = "fast"
	ConditionGood  TrackCondition = "good"
	ConditionSoft  TrackCondition = "soft"
	ConditionHeavy TrackCondition = "heavy"
)

// TicksPerFurlong is the reference pace: the number of ticks a neutral
// competitor needs to cover one furlong at baseline speed.
const TicksPerFurlong = 60

// environmentTable maps (surface, condition) to a speed multiplier applied
// identically to every competitor. A missing pair is an invalid configuration.
var environmentTable = map[Surface]map[TrackCondition]float64{
	SurfaceDirt: {
		ConditionFast:  1.00,
		ConditionGood:  0.99,
		ConditionSoft:  0.97,
		ConditionHeavy: 0.94,
	},
	SurfaceTurf: {
		ConditionFast:  1.00,
		ConditionGood:  0.99,
		ConditionSoft:  0.96,
		ConditionHeavy: 0.93,
	},
	SurfaceSynthetic: {
		ConditionFast:  1.00,
		ConditionGood:  1.00,
		ConditionSoft:  0.98,
		ConditionHeavy: 0.97,
	},
}

// drainTable maps a track condition to a stamina drain amplifier. Adverse
// going makes every stride cost more.
var drainTable = map[TrackCondition]float64{
	ConditionFast:  1.00,
	ConditionGood:  1.05,
	ConditionSoft:  1.15,
	ConditionHeavy: 1.25,
}

// EnvironmentModifier returns the speed multiplier for a surface/condition
// pair. ok is false when the pair is not a valid combination.
func EnvironmentModifier(s Surface, c TrackCondition) (mult float64, ok bool) {
	row, ok := environmentTable[s]
	if !ok {
		return 0, false
	}
	mult, ok = row[c]
	return mult, ok
}

// DrainFactor returns the stamina drain amplifier for a track condition.
// ok is false for an unknown condition.
func DrainFactor(c TrackCondition) (factor float64, ok bool) {
	factor, ok = drainTable[c]
	return factor, ok
}

// RaceConfig is the immutable definition of a single race. Construct it with
// NewRaceConfig so the derived fields are computed exactly once.
type RaceConfig struct {
	DistanceFurlongs float64        `json:"distanceFurlongs" yaml:"distanceFurlongs"`
	Surface          Surface        `json:"surface" yaml:"surface"`
	Condition        TrackCondition `json:"condition" yaml:"condition"`

	// Derived once from the reference pace.
	TotalTicks    int     `json:"totalTicks" yaml:"totalTicks"`
	BaselineSpeed float64 `json:"baselineSpeed" yaml:"baselineSpeed"` // furlongs per tick
}

// NewRaceConfig builds a validated RaceConfig with its derived tick count and
// baseline speed.
func NewRaceConfig(distanceFurlongs float64, s Surface, c TrackCondition) (RaceConfig, error) {
	cfg := RaceConfig{
		DistanceFurlongs: distanceFurlongs,
		Surface:          s,
		Condition:        c,
	}
	if err := cfg.Validate(); err != nil {
		return RaceConfig{}, err
	}
	cfg.TotalTicks = int(math.Round(distanceFurlongs * TicksPerFurlong))
	cfg.BaselineSpeed = distanceFurlongs / float64(cfg.TotalTicks)
	return cfg, nil
}

// Validate checks the externally supplied fields of the configuration.
func (c RaceConfig) Validate() error {
	if c.DistanceFurlongs <= 0 {
		return errors.New("distance must be positive")
	}
	if _, ok := EnvironmentModifier(c.Surface, c.Condition); !ok {
		return fmt.Errorf("invalid surface/condition combination %q/%q", c.Surface, c.Condition)
	}
	return nil
}
