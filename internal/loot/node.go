package loot

import (
	"sync"

	"github.com/pixil98/go-fortress/internal/coordinator"
	"github.com/pixil98/go-fortress/internal/geom"
)

// Node is a loot drop working its way to rest. While it is still sliding
// it is invisible to the claim registry; once settled it is registered and
// becomes claimable.
type Node struct {
	mu sync.Mutex

	id       string
	resource string

	pos geom.Point
	vel geom.Point

	settled   bool
	collected bool
}

// NewNode creates a loot drop with an initial sliding velocity. The id is
// assigned by the coordinator at registration.
func NewNode(resource string, pos, vel geom.Point) *Node {
	return &Node{
		resource: resource,
		pos:      pos,
		vel:      vel,
	}
}

// NewSettledNode creates a loot drop already at rest, for seeding a world
// with pre-placed resources.
func NewSettledNode(resource string, pos geom.Point) *Node {
	return &Node{
		resource: resource,
		pos:      pos,
		settled:  true,
	}
}

// ResourceType returns the resource one unit of which this node yields.
func (n *Node) ResourceType() string {
	return n.resource
}

// Stable reports whether the node has finished settling.
func (n *Node) Stable() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.settled
}

// Collected reports whether the node has been collected.
func (n *Node) Collected() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.collected
}

// Collect marks the node collected. The first call returns true; every
// later call returns false, so a racing double-collect can never yield
// two units.
func (n *Node) Collect() bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.collected {
		return false
	}
	n.collected = true
	return true
}

// step advances the settling motion by dt seconds with exponential damping
// and reports whether the node has come to rest.
func (n *Node) step(dt float64, damping float64, bounds geom.Rect) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.settled {
		return false
	}

	n.pos = bounds.Clamp(n.pos.Add(n.vel.Scale(dt)))
	n.vel = n.vel.Scale(damping)

	if n.vel.Len() < settleSpeed {
		n.vel = geom.Point{}
		n.settled = true
		return true
	}
	return false
}

// coordinator.Object implementation.

func (n *Node) ClaimableID() string      { return n.id }
func (n *Node) SetClaimableID(id string) { n.id = id }
func (n *Node) Kind() coordinator.Kind   { return coordinator.KindLootNode }
func (n *Node) Ready() bool              { return n.Stable() }
func (n *Node) Done() bool               { return n.Collected() }

func (n *Node) Position() geom.Point {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pos
}
