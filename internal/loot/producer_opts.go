package loot

import (
	"math/rand/v2"
	"time"
)

type ProducerOpt func(*Producer)

// WithEventLog sets the sink for producer events.
func WithEventLog(e EventLog) ProducerOpt {
	return func(p *Producer) {
		p.events = e
	}
}

// WithRand overrides the random source, for reproducible tests.
func WithRand(r *rand.Rand) ProducerOpt {
	return func(p *Producer) {
		p.rng = r
	}
}

// WithClock overrides the wall clock used by Tick.
func WithClock(now func() time.Time) ProducerOpt {
	return func(p *Producer) {
		p.now = now
	}
}
