package primitives

// LegType is a competitor's running-style archetype. It is a closed variant:
// all archetype-specific behavior (phase windows, lane preference, blocked
// frustration) lives in one table keyed by LegType rather than in scattered
// per-method branches.
type LegType string

const (
	EarlyBurst    LegType = "early-burst"
	FrontRunner   LegType = "front-runner"
	MidSurger     LegType = "mid-surger"
	LateCloser    LegType = "late-closer"
	RailTactician LegType = "rail-tactician"
)

// LanePreference states which side of the track an archetype drifts toward
// when it has to leave its lane.
type LanePreference int

const (
	PreferNone LanePreference = iota
	PreferRail                // lower lane numbers
	PreferOutside
)

// PhaseWindow is a race-progress interval carrying a fixed speed bonus.
// Progress is the fraction currentTick/totalTicks in [0,1].
type PhaseWindow struct {
	From  float64
	To    float64
	Bonus float64
}

// StyleProfile is the full behavioral table entry for one archetype.
type StyleProfile struct {
	Windows     []PhaseWindow
	Preference  LanePreference
	Frustration float64 // fraction shaved off the blocker's speed when capped
}

var styleProfiles = map[LegType]StyleProfile{
	EarlyBurst: {
		Windows:     []PhaseWindow{{From: 0.0, To: 0.25, Bonus: 1.04}},
		Preference:  PreferOutside,
		Frustration: 0.07,
	},
	FrontRunner: {
		Windows:     []PhaseWindow{{From: 0.0, To: 0.50, Bonus: 1.02}},
		Preference:  PreferRail,
		Frustration: 0.06,
	},
	MidSurger: {
		Windows:     []PhaseWindow{{From: 0.30, To: 0.60, Bonus: 1.03}},
		Preference:  PreferOutside,
		Frustration: 0.05,
	},
	LateCloser: {
		Windows:     []PhaseWindow{{From: 0.70, To: 1.0, Bonus: 1.04}},
		Preference:  PreferOutside,
		Frustration: 0.04,
	},
	RailTactician: {
		Windows:     []PhaseWindow{{From: 0.45, To: 0.75, Bonus: 1.02}},
		Preference:  PreferRail,
		Frustration: 0.05,
	},
}

// Valid reports whether t is one of the defined archetypes.
func (t LegType) Valid() bool {
	_, ok := styleProfiles[t]
	return ok
}

// Profile returns the behavioral table entry for t. Unknown archetypes get a
// neutral profile so downstream arithmetic stays total.
func (t LegType) Profile() StyleProfile {
	if p, ok := styleProfiles[t]; ok {
		return p
	}
	return StyleProfile{}
}

// PhaseBonus returns the archetype's bonus multiplier at the given progress
// fraction, or 1.0 outside all of its windows.
func (p StyleProfile) PhaseBonus(progress float64) float64 {
	for _, w := range p.Windows {
		if progress >= w.From && progress <= w.To {
			return w.Bonus
		}
	}
	return 1.0
}
