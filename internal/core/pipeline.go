// Package core provides the engine tier of the race simulator: the modifier
// pipeline, stamina model, lane traffic resolver, event detector, and the
// tick-loop race clock that orchestrates them. One Clock simulates one race,
// sequentially and deterministically; independent races may run in parallel
// since no state is shared between Clock instances.
package core

import "github.com/comalice/racesimx/internal/primitives"

// Rand is the injected random source. *rand/v2.Rand satisfies it; tests may
// substitute a stub for fully scripted draws.
type Rand interface {
	Float64() float64
}

// Modifier pipeline constants. Per-point rates are linear around the neutral
// stat value: Speed spans ±10% across the 0-100 scale, Happiness ±5%.
const (
	speedPerPoint     = 0.002
	happinessPerPoint = 0.001
	varianceBand      = 0.01 // symmetric ±1% per-tick random variance
)

// StatModifier is the innate-stat term of the pipeline: the product of the
// linear Speed and Happiness scalings, with both stats clamped first.
func StatModifier(stats primitives.CompetitorStats) float64 {
	speed := primitives.ClampStat(stats.Speed)
	happiness := primitives.ClampStat(stats.Happiness)
	return (1 + (speed-primitives.StatNeutral)*speedPerPoint) *
		(1 + (happiness-primitives.StatNeutral)*happinessPerPoint)
}

// PhaseModifier is the running-style term: the archetype's window bonus at
// the given progress fraction, 1.0 outside all windows.
func PhaseModifier(style primitives.LegType, progress float64) float64 {
	return style.Profile().PhaseBonus(progress)
}

// VarianceModifier draws the bounded per-tick variance term from rng:
// uniform in [1-varianceBand, 1+varianceBand].
func VarianceModifier(rng Rand) float64 {
	return 1 - varianceBand + 2*varianceBand*rng.Float64()
}

// SpeedMultiplier combines the five per-tick terms in fixed order:
// stat, environment, phase, fatigue, variance. Strictly multiplicative; every
// term is a pure function of its declared inputs, so the result is always the
// exact product of the five sub-multipliers.
func SpeedMultiplier(stats primitives.CompetitorStats, envMod float64, progress float64, fatigueMod float64, rng Rand) float64 {
	return StatModifier(stats) * envMod * PhaseModifier(stats.Style, progress) * fatigueMod * VarianceModifier(rng)
}
