package world

import (
	"math/rand/v2"
	"time"
)

type WorldStateOpt func(*WorldState)

// WithEventLog sets the sink for world events.
func WithEventLog(e EventLog) WorldStateOpt {
	return func(w *WorldState) {
		w.events = e
	}
}

// WithRand overrides the random source, for reproducible tests.
func WithRand(r *rand.Rand) WorldStateOpt {
	return func(w *WorldState) {
		w.rng = r
	}
}

// WithClock overrides the wall clock used by Tick.
func WithClock(now func() time.Time) WorldStateOpt {
	return func(w *WorldState) {
		w.now = now
	}
}
