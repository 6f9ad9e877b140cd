package coordinator

import "time"

type CoordinatorOpt func(*Coordinator)

// WithLeaseDuration sets how long a claim lasts before it is force released.
func WithLeaseDuration(d time.Duration) CoordinatorOpt {
	return func(c *Coordinator) {
		c.leaseDuration = d
	}
}

// WithEventLog sets the sink for registry events.
func WithEventLog(e EventLog) CoordinatorOpt {
	return func(c *Coordinator) {
		c.events = e
	}
}

// WithClock overrides the wall clock used by Tick.
func WithClock(now func() time.Time) CoordinatorOpt {
	return func(c *Coordinator) {
		c.now = now
	}
}
