package world

import (
	"context"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/pixil98/go-fortress/internal/geom"
	"github.com/pixil98/go-fortress/internal/storage"
)

// Spawner periodically raises packs of hostiles at the world rim.
type Spawner struct {
	world    *WorldState
	hostiles storage.Storer[*Hostile]

	interval   time.Duration
	packSize   int
	sinceSpawn time.Duration

	events EventLog
	rng    *rand.Rand

	now      func() time.Time
	lastTick time.Time
}

// NewSpawner creates a spawner for the given hostile definitions.
func NewSpawner(w *WorldState, defs storage.Storer[*Hostile], interval time.Duration, packSize int, opts ...SpawnerOpt) *Spawner {
	s := &Spawner{
		world:    w,
		hostiles: defs,
		interval: interval,
		packSize: packSize,
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Tick accumulates elapsed time and spawns a pack on every full interval.
func (s *Spawner) Tick(ctx context.Context) error {
	now := s.now()
	if s.lastTick.IsZero() {
		s.lastTick = now
		return nil
	}

	elapsed := now.Sub(s.lastTick)
	s.lastTick = now
	s.Advance(ctx, elapsed)
	return nil
}

// Advance is the time-based body of Tick, split out for tests.
func (s *Spawner) Advance(ctx context.Context, elapsed time.Duration) {
	s.sinceSpawn += elapsed
	for s.sinceSpawn >= s.interval {
		s.sinceSpawn -= s.interval
		s.spawnPack(ctx)
	}
}

func (s *Spawner) spawnPack(ctx context.Context) {
	defs := s.hostiles.GetAll()
	if len(defs) == 0 {
		return
	}

	ids := make([]string, 0, len(defs))
	for id := range defs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	def := defs[ids[s.rng.IntN(len(ids))]]

	for range s.packSize {
		pos := s.rimPoint()
		s.world.AddHostile(NewHostileInstance(def, pos))

		if s.events != nil {
			s.events.Emit(ctx, "hostile.sighted", struct {
				Name string
				X, Y float64
			}{def.ShortDesc, pos.X, pos.Y})
		}
	}
}

// rimPoint picks a random point on the edge of the world rectangle, so
// intruders always walk in from outside.
func (s *Spawner) rimPoint() geom.Point {
	b := s.world.Bounds()
	switch s.rng.IntN(4) {
	case 0:
		return geom.Point{X: b.X, Y: b.Y + s.rng.Float64()*b.H}
	case 1:
		return geom.Point{X: b.X + b.W, Y: b.Y + s.rng.Float64()*b.H}
	case 2:
		return geom.Point{X: b.X + s.rng.Float64()*b.W, Y: b.Y}
	default:
		return geom.Point{X: b.X + s.rng.Float64()*b.W, Y: b.Y + b.H}
	}
}

type SpawnerOpt func(*Spawner)

// WithSpawnerEventLog sets the sink for spawn events.
func WithSpawnerEventLog(e EventLog) SpawnerOpt {
	return func(s *Spawner) {
		s.events = e
	}
}

// WithSpawnerRand overrides the random source, for reproducible tests.
func WithSpawnerRand(r *rand.Rand) SpawnerOpt {
	return func(s *Spawner) {
		s.rng = r
	}
}

// WithSpawnerClock overrides the wall clock used by Tick.
func WithSpawnerClock(now func() time.Time) SpawnerOpt {
	return func(s *Spawner) {
		s.now = now
	}
}
