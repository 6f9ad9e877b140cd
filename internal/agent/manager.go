package agent

import (
	"context"
	"slices"
	"strings"
	"time"
)

// Manager steps every behavior machine once per simulation tick. Machines
// run in a fixed order each tick so two runs with the same seed stay
// comparable.
type Manager struct {
	machines []*Machine

	now      func() time.Time
	lastTick time.Time
}

func NewManager(machines []*Machine, opts ...ManagerOpt) *Manager {
	m := &Manager{
		machines: machines,
		now:      time.Now,
	}

	slices.SortFunc(m.machines, func(a, b *Machine) int {
		return strings.Compare(a.Dwarf().InstanceId, b.Dwarf().InstanceId)
	})

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Machines returns the managed machines in step order.
func (m *Manager) Machines() []*Machine {
	return m.machines
}

// Tick advances every machine by the wall time elapsed since the last
// tick. Downed dwarves respawn at the depot instead of acting.
func (m *Manager) Tick(ctx context.Context) error {
	now := m.now()
	if m.lastTick.IsZero() {
		m.lastTick = now
		return nil
	}
	elapsed := now.Sub(m.lastTick)
	m.lastTick = now

	m.Advance(ctx, elapsed)
	return nil
}

// Advance steps every machine by an explicit duration.
func (m *Manager) Advance(ctx context.Context, elapsed time.Duration) {
	for _, mach := range m.machines {
		if !mach.Dwarf().IsAlive() {
			mach.respawn(ctx)
			continue
		}
		mach.Step(ctx, elapsed)
	}
}

type ManagerOpt func(*Manager)

// WithManagerClock replaces the tick clock.
func WithManagerClock(now func() time.Time) ManagerOpt {
	return func(m *Manager) {
		m.now = now
	}
}
