package agent

import (
	"math/rand/v2"
	"time"
)

type MachineOpt func(*Machine)

// WithEventLog routes agent events to the given log.
func WithEventLog(l EventLog) MachineOpt {
	return func(m *Machine) {
		m.events = l
	}
}

// WithRand replaces the idle-behavior randomness source.
func WithRand(r *rand.Rand) MachineOpt {
	return func(m *Machine) {
		m.rng = r
	}
}

// WithPerceptionInterval overrides how often the machine refreshes its
// sensed surroundings.
func WithPerceptionInterval(d time.Duration) MachineOpt {
	return func(m *Machine) {
		m.perceptionInterval = d
		m.sincePerception = d
	}
}
