package build

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/pixil98/go-fortress/internal/coordinator"
	"github.com/pixil98/go-fortress/internal/geom"
	"github.com/pixil98/go-fortress/internal/storage"
	"github.com/pixil98/go-fortress/internal/world"
)

// EventLog receives notable construction events.
type EventLog interface {
	Emit(ctx context.Context, name string, data any)
}

// Manager owns every outstanding construction task: ordering them, timing
// their progress, and raising the finished structure in the world.
type Manager struct {
	mu sync.Mutex

	coord      *coordinator.Coordinator
	world      *world.WorldState
	blueprints storage.Storer[*world.Blueprint]
	events     EventLog

	tasks map[string]*Task

	now      func() time.Time
	lastTick time.Time
}

// NewManager creates a construction manager.
func NewManager(coord *coordinator.Coordinator, w *world.WorldState, blueprints storage.Storer[*world.Blueprint], opts ...ManagerOpt) *Manager {
	m := &Manager{
		coord:      coord,
		world:      w,
		blueprints: blueprints,
		tasks:      map[string]*Task{},
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Request orders a construction: debits the blueprint cost from the depot
// pool, creates the task, and registers it as a claimable build site.
func (m *Manager) Request(ctx context.Context, blueprintId string, pos geom.Point) (*Task, error) {
	bp := m.blueprints.Get(blueprintId)
	if bp == nil {
		return nil, fmt.Errorf("unknown blueprint %q", blueprintId)
	}

	if !m.world.SpendResources(bp.Cost) {
		return nil, fmt.Errorf("not enough resources for %q", blueprintId)
	}

	task := NewTask(blueprintId, bp, pos)
	id := m.coord.Register(task)

	m.mu.Lock()
	m.tasks[id] = task
	m.mu.Unlock()

	if m.events != nil {
		m.events.Emit(ctx, "build.requested", struct {
			TaskId    string
			Blueprint string
			X, Y      float64
		}{id, bp.Name, pos.X, pos.Y})
	}

	return task, nil
}

// Begin starts construction at a task. Called by the agent that claimed
// the site once it is standing on it. Starting a task that is already in
// progress is a no-op.
func (m *Manager) Begin(ctx context.Context, taskId, agentId string) error {
	m.mu.Lock()
	task, ok := m.tasks[taskId]
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("unknown build task %q", taskId)
	}

	if !task.begin() {
		return nil
	}

	if m.events != nil {
		m.events.Emit(ctx, "build.started", struct {
			TaskId string
			Agent  string
		}{taskId, agentId})
	}
	return nil
}

// Lookup returns the task with the given id, or nil.
func (m *Manager) Lookup(taskId string) *Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tasks[taskId]
}

// Tick advances every in-progress task by the elapsed wall time.
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

// Advance is the time-based body of Tick, split out for tests.
func (m *Manager) Advance(ctx context.Context, elapsed time.Duration) {
	m.mu.Lock()
	ids := make([]string, 0, len(m.tasks))
	for id := range m.tasks {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	m.mu.Unlock()

	for _, id := range ids {
		m.mu.Lock()
		task := m.tasks[id]
		m.mu.Unlock()
		if task == nil || !task.advance(elapsed) {
			continue
		}

		m.complete(ctx, id, task)
	}
}

// complete finishes one task: the structure goes up, the claim entry goes
// away, and whoever was holding the claim learns about it at their next
// evaluation.
func (m *Manager) complete(ctx context.Context, id string, task *Task) {
	m.world.AddStructure(world.NewStructure(task.blueprint, task.pos))
	m.coord.Remove(id)

	m.mu.Lock()
	delete(m.tasks, id)
	m.mu.Unlock()

	if m.events != nil {
		m.events.Emit(ctx, "build.completed", struct {
			TaskId    string
			Blueprint string
		}{id, task.blueprint.Name})
	}
}

type ManagerOpt func(*Manager)

// WithEventLog sets the sink for construction events.
func WithEventLog(e EventLog) ManagerOpt {
	return func(m *Manager) {
		m.events = e
	}
}

// WithClock overrides the wall clock used by Tick.
func WithClock(now func() time.Time) ManagerOpt {
	return func(m *Manager) {
		m.now = now
	}
}
