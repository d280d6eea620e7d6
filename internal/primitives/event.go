package primitives

// EventType tags an entry in the race event log.
type EventType string

const (
	EventRaceStarted        EventType = "race-started"
	EventLeadChanged        EventType = "lead-changed"
	EventLaneChanged        EventType = "lane-changed"
	EventPositionsChanged   EventType = "positions-changed"
	EventFinalStretch       EventType = "final-stretch"
	EventCompetitorFinished EventType = "competitor-finished"
	EventPhotoFinish        EventType = "photo-finish"
)

// LaneChangeKind classifies a lane-change attempt at the moment the traffic
// resolver decides it, never re-derived from later state.
type LaneChangeKind string

const (
	LaneChangeClean        LaneChangeKind = "clean"
	LaneChangeRiskySuccess LaneChangeKind = "risky-success"
	LaneChangeRiskyBlocked LaneChangeKind = "risky-blocked"
)

// RaceEvent is one entry of the append-only race log. Only the fields
// meaningful for the Type are set; everything needed to render commentary
// (identity, lanes, places, margins) is carried on the event itself.
type RaceEvent struct {
	Type EventType `json:"type" yaml:"type"`
	Tick int       `json:"tick" yaml:"tick"`

	Competitor string `json:"competitor,omitempty" yaml:"competitor,omitempty"`
	PrevLeader string `json:"prevLeader,omitempty" yaml:"prevLeader,omitempty"`
	RunnerUp   string `json:"runnerUp,omitempty" yaml:"runnerUp,omitempty"`

	FromLane int `json:"fromLane,omitempty" yaml:"fromLane,omitempty"`
	ToLane   int `json:"toLane,omitempty" yaml:"toLane,omitempty"`

	FromRank int `json:"fromRank,omitempty" yaml:"fromRank,omitempty"`
	ToRank   int `json:"toRank,omitempty" yaml:"toRank,omitempty"`

	Kind LaneChangeKind `json:"kind,omitempty" yaml:"kind,omitempty"`

	Place       int     `json:"place,omitempty" yaml:"place,omitempty"`
	TimeTicks   float64 `json:"timeTicks,omitempty" yaml:"timeTicks,omitempty"`
	MarginTicks float64 `json:"marginTicks,omitempty" yaml:"marginTicks,omitempty"`
}
