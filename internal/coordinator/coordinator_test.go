package coordinator

import (
	"context"
	"testing"
	"time"

	"github.com/pixil98/go-fortress/internal/geom"
	"github.com/pixil98/go-testutil"
)

// mockObject implements Object for registry tests.
type mockObject struct {
	id    string
	kind  Kind
	pos   geom.Point
	ready bool
	done  bool
}

func (o *mockObject) ClaimableID() string      { return o.id }
func (o *mockObject) SetClaimableID(id string) { o.id = id }
func (o *mockObject) Kind() Kind               { return o.kind }
func (o *mockObject) Position() geom.Point     { return o.pos }
func (o *mockObject) Ready() bool              { return o.ready }
func (o *mockObject) Done() bool               { return o.done }

// mockEventLog records emitted event names.
type mockEventLog struct {
	names []string
}

func (l *mockEventLog) Emit(_ context.Context, name string, _ any) {
	l.names = append(l.names, name)
}

func TestRegister_AssignsId(t *testing.T) {
	c := NewCoordinator()

	obj := &mockObject{ready: true}
	id := c.Register(obj)

	if id == "" {
		t.Fatal("expected an assigned id")
	}
	testutil.AssertEqual(t, "object id", obj.id, id)
	if c.Lookup(id) != Object(obj) {
		t.Error("expected lookup to return the registered object")
	}
}

func TestRegister_DuplicateIsNoop(t *testing.T) {
	c := NewCoordinator()

	first := &mockObject{id: "node-1", ready: true}
	second := &mockObject{id: "node-1", ready: true}
	c.Register(first)
	c.Register(second)

	if c.Lookup("node-1") != Object(first) {
		t.Error("expected the original registration to survive")
	}
}

func TestTryClaim(t *testing.T) {
	tests := map[string]struct {
		obj      *mockObject
		objectId string
		exp      bool
	}{
		"ready object": {
			obj:      &mockObject{id: "a", ready: true},
			objectId: "a",
			exp:      true,
		},
		"unknown id": {
			obj:      &mockObject{id: "a", ready: true},
			objectId: "missing",
			exp:      false,
		},
		"not ready": {
			obj:      &mockObject{id: "a", ready: false},
			objectId: "a",
			exp:      false,
		},
		"terminal": {
			obj:      &mockObject{id: "a", ready: true, done: true},
			objectId: "a",
			exp:      false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := NewCoordinator()
			c.Register(tt.obj)

			testutil.AssertEqual(t, "claim result", c.TryClaim(tt.objectId, "agent-1"), tt.exp)
		})
	}
}

func TestTryClaim_MutualExclusion(t *testing.T) {
	c := NewCoordinator()
	c.Register(&mockObject{id: "node", ready: true})

	testutil.AssertEqual(t, "first claim", c.TryClaim("node", "agent-1"), true)
	testutil.AssertEqual(t, "racing claim", c.TryClaim("node", "agent-2"), false)
	testutil.AssertEqual(t, "holder", c.Holder("node"), "agent-1")

	c.Release("node")
	testutil.AssertEqual(t, "claim after release", c.TryClaim("node", "agent-2"), true)
	testutil.AssertEqual(t, "new holder", c.Holder("node"), "agent-2")
}

func TestRelease_Idempotent(t *testing.T) {
	c := NewCoordinator()
	c.Register(&mockObject{id: "node", ready: true})

	// Never claimed, released twice, and an unknown id: all fine.
	c.Release("node")
	c.Release("node")
	c.Release("missing")

	testutil.AssertEqual(t, "holder", c.Holder("node"), "")
}

func TestHeldBy(t *testing.T) {
	c := NewCoordinator()
	c.Register(&mockObject{id: "node", ready: true})
	c.TryClaim("node", "agent-1")

	testutil.AssertEqual(t, "holder check", c.HeldBy("node", "agent-1"), true)
	testutil.AssertEqual(t, "other agent", c.HeldBy("node", "agent-2"), false)

	c.Release("node")
	testutil.AssertEqual(t, "after release", c.HeldBy("node", "agent-1"), false)
}

func TestListClaimable(t *testing.T) {
	c := NewCoordinator()
	c.Register(&mockObject{id: "b", kind: KindLootNode, ready: true})
	c.Register(&mockObject{id: "a", kind: KindLootNode, ready: true})
	c.Register(&mockObject{id: "c", kind: KindLootNode, ready: false})
	c.Register(&mockObject{id: "d", kind: KindLootNode, ready: true, done: true})
	c.Register(&mockObject{id: "e", kind: KindBuildSite, ready: true})
	c.Register(&mockObject{id: "f", kind: KindLootNode, ready: true})
	c.TryClaim("f", "agent-1")

	objs := c.ListClaimable(KindLootNode)

	testutil.AssertEqual(t, "claimable count", len(objs), 2)
	testutil.AssertEqual(t, "first id", objs[0].ClaimableID(), "a")
	testutil.AssertEqual(t, "second id", objs[1].ClaimableID(), "b")
}

func TestAdvance_LeaseExpiry(t *testing.T) {
	events := &mockEventLog{}
	c := NewCoordinator(WithLeaseDuration(500*time.Millisecond), WithEventLog(events))
	c.Register(&mockObject{id: "node", ready: true})
	c.TryClaim("node", "agent-1")

	ctx := context.Background()

	// One sampling window short of the lease: still held.
	c.Advance(ctx, 400*time.Millisecond)
	testutil.AssertEqual(t, "holder before expiry", c.Holder("node"), "agent-1")
	testutil.AssertEqual(t, "events before expiry", len(events.names), 0)

	// Crossing the lease boundary force releases.
	c.Advance(ctx, 100*time.Millisecond)
	testutil.AssertEqual(t, "holder after expiry", c.Holder("node"), "")
	testutil.AssertEqual(t, "event count", len(events.names), 1)
	testutil.AssertEqual(t, "event name", events.names[0], "claim.expired")

	// The object is claimable again.
	testutil.AssertEqual(t, "reclaim", c.TryClaim("node", "agent-2"), true)
}

func TestAdvance_ReleaseResetsLease(t *testing.T) {
	c := NewCoordinator(WithLeaseDuration(500 * time.Millisecond))
	c.Register(&mockObject{id: "node", ready: true})

	ctx := context.Background()

	// Burn most of a lease, release, reclaim: the fresh claim must get a
	// full lease, not the remainder of the old one.
	c.TryClaim("node", "agent-1")
	c.Advance(ctx, 400*time.Millisecond)
	c.Release("node")
	c.TryClaim("node", "agent-2")

	c.Advance(ctx, 400*time.Millisecond)
	testutil.AssertEqual(t, "holder", c.Holder("node"), "agent-2")

	c.Advance(ctx, 100*time.Millisecond)
	testutil.AssertEqual(t, "holder after full lease", c.Holder("node"), "")
}

func TestAdvance_SubSampleAccumulation(t *testing.T) {
	c := NewCoordinator(WithLeaseDuration(200 * time.Millisecond))
	c.Register(&mockObject{id: "node", ready: true})
	c.TryClaim("node", "agent-1")

	ctx := context.Background()

	// Many tiny advances must add up to full sampling windows.
	for range 20 {
		c.Advance(ctx, 10*time.Millisecond)
	}

	testutil.AssertEqual(t, "holder", c.Holder("node"), "")
}

func TestAdvance_CollectsDoneLoot(t *testing.T) {
	c := NewCoordinator()
	loot := &mockObject{id: "loot", kind: KindLootNode, ready: true}
	site := &mockObject{id: "site", kind: KindBuildSite, ready: true, done: true}
	c.Register(loot)
	c.Register(site)

	loot.done = true
	c.Advance(context.Background(), sampleInterval)

	if c.Lookup("loot") != nil {
		t.Error("expected collected loot to be swept from the registry")
	}
	if c.Lookup("site") == nil {
		t.Error("expected build sites to be left for their manager to remove")
	}
}

func TestTick_UsesWallClock(t *testing.T) {
	now := time.Now()
	c := NewCoordinator(
		WithLeaseDuration(300*time.Millisecond),
		WithClock(func() time.Time { return now }),
	)
	c.Register(&mockObject{id: "node", ready: true})
	c.TryClaim("node", "agent-1")

	ctx := context.Background()

	// First tick only arms the clock.
	if err := c.Tick(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now = now.Add(time.Second)
	if err := c.Tick(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "holder after elapsed second", c.Holder("node"), "")
}
