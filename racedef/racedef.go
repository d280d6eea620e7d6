// Package racedef loads race definitions from YAML documents. A definition
// is the boundary format the surrounding product layers hand to the
// simulation core: distance, surface, condition, seed, and the roster with
// starting lanes. Everything loaded here still passes through the engine's
// own validation before a tick runs.
package racedef

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/comalice/racesimx"
)

// Definition is one race as described by an external YAML document.
type Definition struct {
	Name             string                     `yaml:"name"`
	DistanceFurlongs float64                    `yaml:"distanceFurlongs"`
	Surface          racesimx.Surface           `yaml:"surface"`
	Condition        racesimx.TrackCondition    `yaml:"condition"`
	Seed             uint64                     `yaml:"seed"`
	Roster           []racesimx.CompetitorStats `yaml:"roster"`
}

// Parse decodes a YAML race definition. Empty surface and condition default
// to fast dirt.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if def.Surface == "" {
		def.Surface = racesimx.SurfaceDirt
	}
	if def.Condition == "" {
		def.Condition = racesimx.ConditionFast
	}
	return &def, nil
}

// Load reads and parses a YAML race definition file.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return def, nil
}

// Race assembles a runnable race from the definition. Roster entries with a
// zero lane receive the next unclaimed lane in document order.
func (d *Definition) Race(opts ...racesimx.Option) (*racesimx.Race, error) {
	b := racesimx.NewRaceBuilder(d.DistanceFurlongs).
		Surface(d.Surface).
		Condition(d.Condition).
		Seed(d.Seed).
		Options(opts...)
	for _, c := range d.Roster {
		b.Competitor(c)
	}
	return b.Build()
}
