// Package primitives defines the foundational data structures for the race
// simulation engine: race configuration, competitor stats and mutable race
// state, running-style archetypes, tick snapshots, and the RaceEvent log
// entry. All implementations use only the Go standard library.
//
// Validation follows a single pattern: every externally supplied value is
// checked by a Validate() method before the engine starts, and every numeric
// stat is clamped to its valid domain before use so per-tick arithmetic is
// total.
package primitives
