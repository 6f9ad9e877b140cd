package loot

import (
	"context"
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/pixil98/go-fortress/internal/coordinator"
	"github.com/pixil98/go-fortress/internal/geom"
	"github.com/pixil98/go-fortress/internal/storage"
	"github.com/pixil98/go-fortress/internal/world"
)

const (
	// settleSpeed is the speed below which a sliding node counts as at
	// rest.
	settleSpeed = 0.5

	// dampingPerSecond is the fraction of velocity kept after one second
	// of sliding.
	dampingPerSecond = 0.05

	// impulse range for fresh drops, world units per second.
	minImpulse = 2.0
	maxImpulse = 6.0
)

// EventLog receives notable producer events.
type EventLog interface {
	Emit(ctx context.Context, name string, data any)
}

// Producer creates loot drops, settles their motion, and hands them to the
// claim registry once stable. Drops come from two sources: a periodic
// spawn schedule and slain hostiles.
type Producer struct {
	mu sync.Mutex

	coord     *coordinator.Coordinator
	resources storage.Storer[*world.Resource]
	bounds    geom.Rect

	pending []*Node

	spawnInterval time.Duration
	sinceSpawn    time.Duration

	events EventLog
	rng    *rand.Rand

	now      func() time.Time
	lastTick time.Time
}

// NewProducer creates a producer spawning loot inside bounds.
func NewProducer(coord *coordinator.Coordinator, resources storage.Storer[*world.Resource], bounds geom.Rect, spawnInterval time.Duration, opts ...ProducerOpt) *Producer {
	p := &Producer{
		coord:         coord,
		resources:     resources,
		bounds:        bounds,
		spawnInterval: spawnInterval,
		rng:           rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:           time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Drop creates a loot node of the given resource at pos with a random
// sliding impulse. Satisfies world.Dropper.
func (p *Producer) Drop(resource string, pos geom.Point) {
	p.mu.Lock()
	defer p.mu.Unlock()

	angle := p.rng.Float64() * 2 * math.Pi
	speed := minImpulse + p.rng.Float64()*(maxImpulse-minImpulse)
	vel := geom.Point{X: math.Cos(angle) * speed, Y: math.Sin(angle) * speed}

	p.pending = append(p.pending, NewNode(resource, pos, vel))
}

// Tick advances drop physics and the spawn schedule.
func (p *Producer) Tick(ctx context.Context) error {
	now := p.now()
	if p.lastTick.IsZero() {
		p.lastTick = now
		return nil
	}

	elapsed := now.Sub(p.lastTick)
	p.lastTick = now
	p.Advance(ctx, elapsed)
	return nil
}

// Advance is the time-based body of Tick, split out for tests.
func (p *Producer) Advance(ctx context.Context, elapsed time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.sinceSpawn += elapsed
	for p.sinceSpawn >= p.spawnInterval {
		p.sinceSpawn -= p.spawnInterval
		p.spawnScheduled()
	}

	dt := elapsed.Seconds()
	damping := math.Pow(dampingPerSecond, dt)

	var still []*Node
	for _, n := range p.pending {
		if !n.step(dt, damping, p.bounds) {
			still = append(still, n)
			continue
		}

		// Settled: the registry takes over from here.
		id := p.coord.Register(n)
		if p.events != nil {
			pos := n.Position()
			p.events.Emit(ctx, "loot.settled", struct {
				NodeId   string
				Resource string
				X, Y     float64
			}{id, n.ResourceType(), pos.X, pos.Y})
		}
	}
	p.pending = still
}

// spawnScheduled drops one weighted-random resource at a random world
// position. Caller holds the lock.
func (p *Producer) spawnScheduled() {
	resource := p.pickResource()
	if resource == "" {
		return
	}

	pos := geom.Point{
		X: p.bounds.X + p.rng.Float64()*p.bounds.W,
		Y: p.bounds.Y + p.rng.Float64()*p.bounds.H,
	}

	angle := p.rng.Float64() * 2 * math.Pi
	speed := minImpulse + p.rng.Float64()*(maxImpulse-minImpulse)
	vel := geom.Point{X: math.Cos(angle) * speed, Y: math.Sin(angle) * speed}

	p.pending = append(p.pending, NewNode(resource, pos, vel))
}

// pickResource selects a resource id weighted by its definition weight.
// Caller holds the lock.
func (p *Producer) pickResource() string {
	defs := p.resources.GetAll()
	if len(defs) == 0 {
		return ""
	}

	ids := make([]string, 0, len(defs))
	total := 0
	for id, def := range defs {
		ids = append(ids, id)
		total += def.Weight
	}
	slices.Sort(ids)

	roll := p.rng.IntN(total)
	for _, id := range ids {
		roll -= defs[id].Weight
		if roll < 0 {
			return id
		}
	}
	return ids[len(ids)-1]
}
