package coordinator

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/go-fortress/internal/geom"
	"github.com/pixil98/go-log"
)

const (
	// DefaultLeaseDuration bounds how long a silently stuck or destroyed
	// agent can keep a world object unavailable to everyone else.
	DefaultLeaseDuration = 30 * time.Second

	// sampleInterval is how often lease bookkeeping runs, regardless of
	// how fast the driver ticks.
	sampleInterval = 100 * time.Millisecond
)

// Kind distinguishes the categories of claimable world objects.
type Kind int

const (
	KindLootNode Kind = iota
	KindBuildSite
)

func (k Kind) String() string {
	switch k {
	case KindLootNode:
		return "loot node"
	case KindBuildSite:
		return "build site"
	default:
		return "unknown"
	}
}

// Object is the registry's view of a claimable world object. The domain
// object behind it (a loot node, a construction task) stays authoritative
// for its own lifecycle; the registry only tracks who may act on it.
type Object interface {
	ClaimableID() string
	SetClaimableID(id string)
	Kind() Kind
	Position() geom.Point
	// Ready reports whether the object is currently workable: a loot node
	// that has settled, a build site that isn't finished.
	Ready() bool
	// Done reports a terminal state: collected loot, completed construction.
	Done() bool
}

// EventLog receives notable registry events.
type EventLog interface {
	Emit(ctx context.Context, name string, data any)
}

// claim pairs a registered object with its lease state.
type claim struct {
	obj            Object
	holder         string
	leaseRemaining time.Duration
}

// Coordinator is the single source of truth for which agent may act on
// which world object. All mutation goes through its methods; claims are
// exclusive and lease-bounded.
type Coordinator struct {
	mu      sync.Mutex
	objects map[string]*claim

	leaseDuration time.Duration
	pending       time.Duration
	events        EventLog

	now      func() time.Time
	lastTick time.Time
}

// NewCoordinator creates an empty registry.
func NewCoordinator(opts ...CoordinatorOpt) *Coordinator {
	c := &Coordinator{
		objects:       make(map[string]*claim),
		leaseDuration: DefaultLeaseDuration,
		now:           time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Register inserts a new object, assigning an id if the caller didn't.
// Registering an id that already exists is a no-op. Returns the object id.
func (c *Coordinator) Register(obj Object) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := obj.ClaimableID()
	if id == "" {
		id = uuid.New().String()
		obj.SetClaimableID(id)
	}

	if _, exists := c.objects[id]; exists {
		return id
	}

	c.objects[id] = &claim{obj: obj}
	return id
}

// TryClaim attempts to take exclusive hold of an object for an agent.
// It succeeds only if the object exists, is unclaimed, is ready to be
// worked, and isn't terminal. There is no error path: losing the race or
// naming an unknown id simply returns false.
func (c *Coordinator) TryClaim(objectId, agentId string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	cl, ok := c.objects[objectId]
	if !ok {
		return false
	}
	if cl.holder != "" || !cl.obj.Ready() || cl.obj.Done() {
		return false
	}

	cl.holder = agentId
	cl.leaseRemaining = c.leaseDuration
	return true
}

// Release clears the holder and lease unconditionally. Releasing an
// unclaimed or unknown object is a no-op.
func (c *Coordinator) Release(objectId string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cl, ok := c.objects[objectId]
	if !ok {
		return
	}
	cl.holder = ""
	cl.leaseRemaining = 0
}

// Remove deletes the object from the registry entirely. Unknown ids are a
// no-op.
func (c *Coordinator) Remove(objectId string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.objects, objectId)
}

// Lookup returns the registered object, or nil if the id is unknown.
func (c *Coordinator) Lookup(objectId string) Object {
	c.mu.Lock()
	defer c.mu.Unlock()

	cl, ok := c.objects[objectId]
	if !ok {
		return nil
	}
	return cl.obj
}

// Holder returns the agent currently holding the object, or "" if it is
// unclaimed or unknown.
func (c *Coordinator) Holder(objectId string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	cl, ok := c.objects[objectId]
	if !ok {
		return ""
	}
	return cl.holder
}

// HeldBy reports whether the object is still held by the given agent.
// Agents call this before mutating an object they believe they hold, so a
// lease that expired out from under them degrades to "lost claim" instead
// of a double mutation.
func (c *Coordinator) HeldBy(objectId, agentId string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	cl, ok := c.objects[objectId]
	return ok && cl.holder == agentId
}

// ListClaimable returns every unclaimed, ready, non-terminal object of the
// requested kind, ordered by id so agents stepping in a fixed order see a
// deterministic view.
func (c *Coordinator) ListClaimable(kind Kind) []Object {
	c.mu.Lock()
	defer c.mu.Unlock()

	var objs []Object
	for _, cl := range c.objects {
		if cl.obj.Kind() != kind {
			continue
		}
		if cl.holder != "" || !cl.obj.Ready() || cl.obj.Done() {
			continue
		}
		objs = append(objs, cl.obj)
	}

	slices.SortFunc(objs, func(a, b Object) int {
		switch {
		case a.ClaimableID() < b.ClaimableID():
			return -1
		case a.ClaimableID() > b.ClaimableID():
			return 1
		default:
			return 0
		}
	})

	return objs
}

// Tick advances lease bookkeeping by the wall time elapsed since the last
// tick. Called every driver tick.
func (c *Coordinator) Tick(ctx context.Context) error {
	now := c.now()
	if c.lastTick.IsZero() {
		c.lastTick = now
		return nil
	}

	elapsed := now.Sub(c.lastTick)
	c.lastTick = now
	c.Advance(ctx, elapsed)
	return nil
}

// Advance accumulates elapsed simulation time and runs the lease sweep on
// every full sampling interval crossed. The lease is a flat timeout from
// the moment of claim: it is never renewed while the holder works, so a
// stuck holder frees the object after at most the lease duration.
func (c *Coordinator) Advance(ctx context.Context, elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending += elapsed
	for c.pending >= sampleInterval {
		c.pending -= sampleInterval
		c.sweep(ctx, sampleInterval)
	}
}

// sweep runs one sampling window: age every held lease, force-release the
// expired ones, and garbage-collect collected loot. Caller holds the lock.
func (c *Coordinator) sweep(ctx context.Context, window time.Duration) {
	logger := log.GetLogger(ctx)

	for id, cl := range c.objects {
		if cl.holder == "" {
			continue
		}
		cl.leaseRemaining -= window
		if cl.leaseRemaining > 0 {
			continue
		}

		// Liveness recovery, not a normal release: the holder never let go.
		logger.Warnf("claim on %s %s held by %s expired, force releasing", cl.obj.Kind(), id, cl.holder)
		if c.events != nil {
			c.events.Emit(ctx, "claim.expired", struct {
				ObjectId string
				Kind     string
				Holder   string
			}{id, cl.obj.Kind().String(), cl.holder})
		}
		cl.holder = ""
		cl.leaseRemaining = 0
	}

	for id, cl := range c.objects {
		if cl.obj.Kind() == KindLootNode && cl.obj.Done() {
			delete(c.objects, id)
		}
	}
}
