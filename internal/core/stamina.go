package core

import "github.com/comalice/racesimx/internal/primitives"

// Stamina model constants. The comfort fraction and quadratic penalty are the
// key balance lever: above half reserve fatigue is negligible, below it the
// multiplier degrades with the square of the shortfall so a nearly exhausted
// competitor suffers disproportionately more than a lightly tired one.
const (
	baseReserve         = 600.0
	reservePerStatPoint = 8.0
	baseDrainPerTick    = 1.0
	durabilityPerPoint  = 0.002 // ±10% drain across the 0-100 durability scale
	comfortFraction     = 0.5
	maxFatiguePenalty   = 0.4
)

// InitialReserve derives a competitor's starting stamina reserve from its
// Stamina stat.
func InitialReserve(staminaStat float64) float64 {
	return baseReserve + reservePerStatPoint*primitives.ClampStat(staminaStat)
}

// Deplete returns the remaining reserve after one tick of running. Drain is
// proportional to effort (current speed over baseline), amplified by adverse
// track conditions, and damped by durability. The result is clamped at zero.
func Deplete(remaining, effort float64, condition primitives.TrackCondition, durabilityStat float64) float64 {
	if effort < 0 {
		effort = 0
	}
	drainFactor, ok := primitives.DrainFactor(condition)
	if !ok {
		drainFactor = 1.0
	}
	durability := primitives.ClampStat(durabilityStat)
	drain := baseDrainPerTick * effort * drainFactor * (1 - (durability-primitives.StatNeutral)*durabilityPerPoint)
	remaining -= drain
	if remaining < 0 {
		return 0
	}
	return remaining
}

// FatigueMultiplier maps remaining reserve to the pipeline's fatigue term.
// At or above the comfort fraction the term is exactly 1.0; below it the
// penalty grows quadratically in the shortfall, bottoming out at
// 1-maxFatiguePenalty when the tank is empty. Always in (0, 1].
func FatigueMultiplier(remaining, initial float64) float64 {
	if initial <= 0 {
		return 1.0
	}
	frac := remaining / initial
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	if frac >= comfortFraction {
		return 1.0
	}
	short := (comfortFraction - frac) / comfortFraction
	return 1 - maxFatiguePenalty*short*short
}
