package build

import (
	"sync"
	"time"

	"github.com/pixil98/go-fortress/internal/coordinator"
	"github.com/pixil98/go-fortress/internal/geom"
	"github.com/pixil98/go-fortress/internal/world"
)

// Status tracks a construction task through its life.
type Status int

const (
	StatusAwaitingWorker Status = iota
	StatusInProgress
	StatusComplete
)

func (s Status) String() string {
	switch s {
	case StatusAwaitingWorker:
		return "awaiting worker"
	case StatusInProgress:
		return "in progress"
	case StatusComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Task is one outstanding construction order. The claim registry controls
// which agent may work it; AssignedAgent is a softer pairing on top of the
// lease that keeps one agent responsible for seeing the build through even
// if its lease lapses and is retaken.
type Task struct {
	mu sync.Mutex

	id          string
	blueprintId string
	blueprint   *world.Blueprint
	pos         geom.Point

	status    Status
	assigned  string
	remaining time.Duration
}

// NewTask creates a task for a blueprint at a position.
func NewTask(blueprintId string, bp *world.Blueprint, pos geom.Point) *Task {
	return &Task{
		blueprintId: blueprintId,
		blueprint:   bp,
		pos:         pos,
		status:      StatusAwaitingWorker,
	}
}

// Status returns the task's current status.
func (t *Task) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Awaiting reports whether the task still needs a worker to start it.
func (t *Task) Awaiting() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status == StatusAwaitingWorker
}

// Assign pairs an agent with the task.
func (t *Task) Assign(agentId string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.assigned = agentId
}

// ClearAssignment drops the pairing, but only if it still belongs to the
// given agent; a successor's assignment is left alone.
func (t *Task) ClearAssignment(agentId string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.assigned == agentId {
		t.assigned = ""
	}
}

// AssignedTo returns the paired agent, or "".
func (t *Task) AssignedTo() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.assigned
}

// begin moves the task to in progress and arms the build timer. Reports
// whether the call changed anything.
func (t *Task) begin() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status != StatusAwaitingWorker {
		return false
	}
	t.status = StatusInProgress
	t.remaining = t.blueprint.BuildTime.Duration
	return true
}

// advance burns elapsed build time and reports whether the task just
// finished.
func (t *Task) advance(elapsed time.Duration) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status != StatusInProgress {
		return false
	}
	t.remaining -= elapsed
	if t.remaining > 0 {
		return false
	}
	t.status = StatusComplete
	t.assigned = ""
	return true
}

// coordinator.Object implementation.

func (t *Task) ClaimableID() string      { return t.id }
func (t *Task) SetClaimableID(id string) { t.id = id }
func (t *Task) Kind() coordinator.Kind   { return coordinator.KindBuildSite }
func (t *Task) Position() geom.Point     { return t.pos }
func (t *Task) Ready() bool              { return t.Status() != StatusComplete }
func (t *Task) Done() bool               { return t.Status() == StatusComplete }
