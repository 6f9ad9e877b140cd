package loot

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/pixil98/go-fortress/internal/coordinator"
	"github.com/pixil98/go-fortress/internal/geom"
	"github.com/pixil98/go-fortress/internal/world"
	"github.com/pixil98/go-testutil"
)

// mockResourceStore is a fixed set of resource definitions.
type mockResourceStore struct {
	defs map[string]*world.Resource
}

func (s *mockResourceStore) Get(id string) *world.Resource {
	return s.defs[id]
}

func (s *mockResourceStore) GetAll() map[string]*world.Resource {
	return s.defs
}

// mockEventLog records emitted event names.
type mockEventLog struct {
	names []string
}

func (l *mockEventLog) Emit(_ context.Context, name string, _ any) {
	l.names = append(l.names, name)
}

var testBounds = geom.Rect{X: 0, Y: 0, W: 100, H: 100}

func testStore() *mockResourceStore {
	return &mockResourceStore{defs: map[string]*world.Resource{
		"iron": {Name: "iron", Weight: 1},
		"wood": {Name: "wood", Weight: 9},
	}}
}

func TestNode_CollectIdempotent(t *testing.T) {
	n := NewSettledNode("iron", geom.Point{X: 5, Y: 5})

	testutil.AssertEqual(t, "first collect", n.Collect(), true)
	testutil.AssertEqual(t, "second collect", n.Collect(), false)
	testutil.AssertEqual(t, "done", n.Done(), true)
}

func TestNode_SettledIsReady(t *testing.T) {
	sliding := NewNode("iron", geom.Point{X: 5, Y: 5}, geom.Point{X: 4, Y: 0})
	testutil.AssertEqual(t, "sliding ready", sliding.Ready(), false)

	settled := NewSettledNode("iron", geom.Point{X: 5, Y: 5})
	testutil.AssertEqual(t, "settled ready", settled.Ready(), true)
}

func TestDrop_SettlesAndRegisters(t *testing.T) {
	ctx := context.Background()
	coord := coordinator.NewCoordinator()
	events := &mockEventLog{}

	p := NewProducer(coord, testStore(), testBounds, time.Hour,
		WithEventLog(events),
		WithRand(rand.New(rand.NewPCG(1, 2))),
	)

	p.Drop("iron", geom.Point{X: 50, Y: 50})
	testutil.AssertEqual(t, "not yet claimable", len(coord.ListClaimable(coordinator.KindLootNode)), 0)

	for i := 0; i < 30; i++ {
		p.Advance(ctx, 100*time.Millisecond)
	}

	nodes := coord.ListClaimable(coordinator.KindLootNode)
	if len(nodes) != 1 {
		t.Fatalf("expected one settled node, got %d", len(nodes))
	}

	node, ok := nodes[0].(*Node)
	if !ok {
		t.Fatal("expected a loot node")
	}
	testutil.AssertEqual(t, "resource", node.ResourceType(), "iron")
	testutil.AssertEqual(t, "in bounds", testBounds.Contains(node.Position()), true)
	testutil.AssertEqual(t, "settled events", len(events.names), 1)
	testutil.AssertEqual(t, "event name", events.names[0], "loot.settled")
}

func TestAdvance_ScheduledSpawn(t *testing.T) {
	ctx := context.Background()
	coord := coordinator.NewCoordinator()

	p := NewProducer(coord, testStore(), testBounds, 5*time.Second,
		WithRand(rand.New(rand.NewPCG(3, 4))),
	)

	p.Advance(ctx, 4*time.Second)
	testutil.AssertEqual(t, "nothing pending early", len(p.pending), 0)

	p.Advance(ctx, time.Second)
	if len(p.pending)+len(coord.ListClaimable(coordinator.KindLootNode)) != 1 {
		t.Fatal("expected one spawned node")
	}

	for i := 0; i < 30; i++ {
		p.Advance(ctx, 100*time.Millisecond)
	}

	nodes := coord.ListClaimable(coordinator.KindLootNode)
	if len(nodes) != 1 {
		t.Fatalf("expected one settled node, got %d", len(nodes))
	}
	node := nodes[0].(*Node)
	if node.ResourceType() != "iron" && node.ResourceType() != "wood" {
		t.Errorf("unexpected resource %q", node.ResourceType())
	}
}

func TestPickResource_FollowsWeights(t *testing.T) {
	coord := coordinator.NewCoordinator()
	p := NewProducer(coord, testStore(), testBounds, time.Hour,
		WithRand(rand.New(rand.NewPCG(5, 6))),
	)

	counts := map[string]int{}
	for i := 0; i < 100; i++ {
		counts[p.pickResource()]++
	}

	testutil.AssertEqual(t, "total", counts["iron"]+counts["wood"], 100)
	if counts["wood"] <= counts["iron"] {
		t.Errorf("expected wood to dominate, got iron=%d wood=%d", counts["iron"], counts["wood"])
	}
}

func TestPickResource_EmptyStore(t *testing.T) {
	coord := coordinator.NewCoordinator()
	p := NewProducer(coord, &mockResourceStore{defs: map[string]*world.Resource{}}, testBounds, time.Hour)

	testutil.AssertEqual(t, "empty pick", p.pickResource(), "")
}
