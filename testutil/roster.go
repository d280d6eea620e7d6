// Package testutil provides roster construction helpers shared by the
// engine's tests and benchmarks.
package testutil

import (
	"fmt"

	"github.com/comalice/racesimx"
)

// Neutral returns a competitor with every stat at the neutral value 50.
func Neutral(name string, style racesimx.LegType, lane int) racesimx.CompetitorStats {
	return racesimx.CompetitorStats{
		Name:       name,
		Speed:      50,
		Agility:    50,
		Stamina:    50,
		Durability: 50,
		Happiness:  50,
		Style:      style,
		Lane:       lane,
	}
}

// EvenField returns n competitors with identical neutral stats in lanes
// 1..n, so only the seed separates their outcomes.
func EvenField(n int) []racesimx.CompetitorStats {
	roster := make([]racesimx.CompetitorStats, n)
	styles := []racesimx.LegType{
		racesimx.EarlyBurst,
		racesimx.FrontRunner,
		racesimx.MidSurger,
		racesimx.LateCloser,
		racesimx.RailTactician,
	}
	for i := range roster {
		roster[i] = Neutral(fmt.Sprintf("runner-%d", i+1), styles[i%len(styles)], i+1)
	}
	return roster
}

// UniformField is EvenField with a single shared running style, for tests
// that must rule out archetype effects.
func UniformField(n int, style racesimx.LegType) []racesimx.CompetitorStats {
	roster := make([]racesimx.CompetitorStats, n)
	for i := range roster {
		roster[i] = Neutral(fmt.Sprintf("runner-%d", i+1), style, i+1)
	}
	return roster
}
