package world

import (
	"context"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/pixil98/go-fortress/internal/combat"
	"github.com/pixil98/go-fortress/internal/geom"
)

// EventLog receives notable world events.
type EventLog interface {
	Emit(ctx context.Context, name string, data any)
}

// Dropper creates a loot drop at a position. Implemented by the loot
// producer; hooked up at wiring time so slain hostiles can shed their
// loot table.
type Dropper interface {
	Drop(resource string, pos geom.Point)
}

// WorldState is the single source of truth for all mutable world state
// outside the claim registry: the resource pool, standing structures,
// hostile intruders, and the defender roster.
type WorldState struct {
	mu sync.RWMutex

	bounds geom.Rect
	depot  geom.Rect

	pool       map[string]int
	hostiles   map[string]*HostileInstance
	structures map[string]*Structure
	defenders  []combat.Combatant

	dropper Dropper
	events  EventLog
	rng     *rand.Rand

	now      func() time.Time
	lastTick time.Time
}

// NewWorldState creates a world with the given bounds and depot zone.
func NewWorldState(bounds, depot geom.Rect, opts ...WorldStateOpt) *WorldState {
	w := &WorldState{
		bounds:     bounds,
		depot:      depot,
		pool:       map[string]int{},
		hostiles:   map[string]*HostileInstance{},
		structures: map[string]*Structure{},
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Bounds returns the world rectangle.
func (w *WorldState) Bounds() geom.Rect {
	return w.bounds
}

// Depot returns the depot zone.
func (w *WorldState) Depot() geom.Rect {
	return w.depot
}

// SetDropper hooks up the loot producer. Done after construction because
// the producer and the world are built independently at wiring time.
func (w *WorldState) SetDropper(d Dropper) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dropper = d
}

// AddDefender registers a combatant hostiles may target.
func (w *WorldState) AddDefender(c combat.Combatant) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.defenders = append(w.defenders, c)
}

// AddHostile places a hostile instance in the world.
func (w *WorldState) AddHostile(h *HostileInstance) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.hostiles[h.InstanceId] = h
}

// HostilesNear returns all living hostiles within radius of p.
func (w *WorldState) HostilesNear(p geom.Point, radius float64) []combat.Combatant {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var found []combat.Combatant
	for _, h := range w.hostiles {
		if h.IsAlive() && geom.Dist(p, h.Pos) <= radius {
			found = append(found, h)
		}
	}
	return found
}

// HostileCount returns the number of living hostiles.
func (w *WorldState) HostileCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	n := 0
	for _, h := range w.hostiles {
		if h.IsAlive() {
			n++
		}
	}
	return n
}

// AddStructure places a finished structure in the world.
func (w *WorldState) AddStructure(s *Structure) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.structures[s.InstanceId] = s
}

// StructureCount returns the number of standing structures.
func (w *WorldState) StructureCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.structures)
}

// CreditResources adds delivered goods to the shared pool.
func (w *WorldState) CreditResources(goods map[string]int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for id, n := range goods {
		w.pool[id] += n
	}
}

// SpendResources atomically debits the pool, or returns false leaving it
// untouched if any resource is short.
func (w *WorldState) SpendResources(cost map[string]int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	for id, n := range cost {
		if w.pool[id] < n {
			return false
		}
	}
	for id, n := range cost {
		w.pool[id] -= n
	}
	return true
}

// PoolSnapshot returns a copy of the resource pool.
func (w *WorldState) PoolSnapshot() map[string]int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	snap := make(map[string]int, len(w.pool))
	for id, n := range w.pool {
		snap[id] = n
	}
	return snap
}

// Tick advances hostile behavior and sweeps the dead. Called every driver
// tick.
func (w *WorldState) Tick(ctx context.Context) error {
	now := w.now()
	if w.lastTick.IsZero() {
		w.lastTick = now
		return nil
	}

	elapsed := now.Sub(w.lastTick)
	w.lastTick = now

	w.Advance(ctx, elapsed)
	return nil
}

// Advance runs hostile behavior for one slice of elapsed time.
func (w *WorldState) Advance(ctx context.Context, elapsed time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Fixed iteration order keeps runs reproducible under a seeded rng.
	ids := make([]string, 0, len(w.hostiles))
	for id := range w.hostiles {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		h := w.hostiles[id]
		if h.IsAlive() {
			w.actHostile(ctx, h, elapsed)
		}
	}

	w.sweepDead(ctx)
}

// actHostile moves one hostile toward the closest defender or structure
// and attacks when in range. Caller holds the lock.
func (w *WorldState) actHostile(ctx context.Context, h *HostileInstance, elapsed time.Duration) {
	h.cooldown -= elapsed

	// Keep a live target; otherwise look for a new one.
	if h.target == nil || !h.target.IsAlive() {
		h.target = combat.Nearest(w.targets(), h.Pos, h.Hostile.AggroRadius)
	}
	if h.target == nil {
		return
	}

	if geom.Dist(h.Pos, h.target.Position()) > h.Hostile.AttackRange {
		h.Pos = geom.StepToward(h.Pos, h.target.Position(), h.Hostile.MoveSpeed*elapsed.Seconds())
		return
	}

	if h.cooldown > 0 {
		return
	}
	h.cooldown = h.Hostile.AttackInterval.Duration

	dmg := combat.Damage(h.AttackPower(), h.target.Armor())
	h.target.TakeDamage(dmg)

	if w.events != nil {
		w.events.Emit(ctx, "combat.hit", struct {
			Attacker string
			Verb     string
			Target   string
			Damage   int
		}{h.CombatName(), combat.DamageVerb(dmg), h.target.CombatName(), dmg})
	}
}

// targets returns everything a hostile may attack. Caller holds the lock.
func (w *WorldState) targets() []combat.Combatant {
	targets := make([]combat.Combatant, 0, len(w.defenders)+len(w.structures))
	targets = append(targets, w.defenders...)
	for _, s := range w.structures {
		targets = append(targets, s)
	}
	return targets
}

// sweepDead removes slain hostiles (shedding their loot) and razed
// structures. Caller holds the lock.
func (w *WorldState) sweepDead(ctx context.Context) {
	for id, h := range w.hostiles {
		if h.IsAlive() {
			continue
		}
		delete(w.hostiles, id)

		if w.events != nil {
			w.events.Emit(ctx, "hostile.slain", struct{ Name string }{h.CombatName()})
		}

		if w.dropper != nil && len(h.Hostile.Loot) > 0 {
			pick := h.Hostile.Loot[w.rng.IntN(len(h.Hostile.Loot))]
			w.dropper.Drop(pick.Get(), h.Pos)
		}
	}

	for id, s := range w.structures {
		if s.IsAlive() {
			continue
		}
		delete(w.structures, id)

		if w.events != nil {
			w.events.Emit(ctx, "structure.destroyed", struct{ Name string }{s.Name})
		}
	}
}
