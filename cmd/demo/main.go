package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/comalice/racesimx"
	"github.com/comalice/racesimx/internal/production"
	"github.com/comalice/racesimx/racedef"
)

func main() {
	defPath := flag.String("def", "", "path to a YAML race definition (built-in demo field when empty)")
	seed := flag.Uint64("seed", 0, "override the race seed")
	replayDir := flag.String("replay", "", "directory to write a replay file of the run")
	verbose := flag.Bool("v", false, "log every race event")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "racesim",
	})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	def := builtinField()
	if *defPath != "" {
		loaded, err := racedef.Load(*defPath)
		if err != nil {
			logger.Fatal("load race definition", "err", err)
		}
		def = loaded
	}
	if *seed != 0 {
		def.Seed = *seed
	}

	race, err := def.Race(racesimx.WithLogger(logger))
	if err != nil {
		logger.Fatal("build race", "err", err)
	}

	result, err := race.Run()
	if err != nil {
		logger.Fatal("run race", "err", err)
	}

	for _, evt := range result.Events {
		switch evt.Type {
		case racesimx.EventLeadChanged:
			logger.Info("new leader", "tick", evt.Tick, "leader", evt.Competitor, "previous", evt.PrevLeader)
		case racesimx.EventLaneChanged:
			logger.Info("lane change", "tick", evt.Tick, "competitor", evt.Competitor, "kind", evt.Kind, "from", evt.FromLane, "to", evt.ToLane)
		case racesimx.EventFinalStretch:
			logger.Info("into the final stretch", "tick", evt.Tick)
		case racesimx.EventCompetitorFinished:
			logger.Info("crossed the line", "tick", evt.Tick, "competitor", evt.Competitor, "place", evt.Place, "time", evt.TimeTicks)
		case racesimx.EventPhotoFinish:
			logger.Info("photo finish", "first", evt.Competitor, "second", evt.RunnerUp, "margin", evt.MarginTicks)
		}
	}

	if *replayDir != "" {
		writer, err := production.NewReplayWriter(*replayDir)
		if err != nil {
			logger.Fatal("open replay dir", "err", err)
		}
		if err := writer.Save(result); err != nil {
			logger.Fatal("write replay", "err", err)
		}
		logger.Info("replay written", "dir", *replayDir, "runID", result.RunID)
	}

	fmt.Printf("\n%s: %.1ff %s/%s, seed %d, run %s\n\n",
		def.Name, def.DistanceFurlongs, def.Surface, def.Condition, def.Seed, result.RunID)
	for _, entry := range result.Entries {
		fmt.Printf("%2d. %-14s %7.2fs  lane %d  stamina left %.0f\n",
			entry.Place, entry.Name, entry.FinishSeconds, entry.FinalLane, entry.StaminaLeft)
	}
}

// builtinField is the canned demo race used when no definition is supplied.
func builtinField() *racedef.Definition {
	return &racedef.Definition{
		Name:             "demo stakes",
		DistanceFurlongs: 10,
		Surface:          racesimx.SurfaceDirt,
		Condition:        racesimx.ConditionGood,
		Seed:             7,
		Roster: []racesimx.CompetitorStats{
			{Name: "Copper Kettle", Speed: 72, Agility: 55, Stamina: 60, Durability: 50, Happiness: 65, Style: racesimx.FrontRunner, Lane: 1},
			{Name: "Night Ledger", Speed: 64, Agility: 70, Stamina: 58, Durability: 62, Happiness: 50, Style: racesimx.RailTactician, Lane: 2},
			{Name: "Paper Lantern", Speed: 68, Agility: 48, Stamina: 70, Durability: 55, Happiness: 58, Style: racesimx.LateCloser, Lane: 3},
			{Name: "Gale Warning", Speed: 75, Agility: 52, Stamina: 45, Durability: 48, Happiness: 60, Style: racesimx.EarlyBurst, Lane: 4},
			{Name: "Quiet Harbor", Speed: 60, Agility: 60, Stamina: 66, Durability: 70, Happiness: 55, Style: racesimx.MidSurger, Lane: 5},
			{Name: "Brass Compass", Speed: 66, Agility: 58, Stamina: 62, Durability: 52, Happiness: 62, Style: racesimx.FrontRunner, Lane: 6},
			{Name: "Winter Theory", Speed: 70, Agility: 45, Stamina: 55, Durability: 58, Happiness: 48, Style: racesimx.MidSurger, Lane: 7},
			{Name: "Salt Meridian", Speed: 62, Agility: 66, Stamina: 68, Durability: 60, Happiness: 52, Style: racesimx.LateCloser, Lane: 8},
		},
	}
}
