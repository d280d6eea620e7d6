// Package core options for configuring Clock instances.
package core

import "github.com/charmbracelet/log"

// Option applies configuration to a Clock via the functional options pattern.
type Option func(*Clock)

// WithRand injects a custom random source. The default is a PCG generator
// keyed on the race seed; tests substitute stubs for scripted draws.
func WithRand(r Rand) Option {
	return func(c *Clock) {
		c.rng = r
	}
}

// WithLogger attaches a structured logger. The clock is silent without one.
func WithLogger(l *log.Logger) Option {
	return func(c *Clock) {
		c.logger = l
	}
}

// WithMaxTicks overrides the safety tick ceiling. Values below the nominal
// tick count are kept as given so tests can force non-convergence.
func WithMaxTicks(n int) Option {
	return func(c *Clock) {
		if n > 0 {
			c.maxTicks = n
		}
	}
}
