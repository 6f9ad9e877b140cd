package agent

import (
	"context"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/pixil98/go-fortress/internal/combat"
	"github.com/pixil98/go-fortress/internal/coordinator"
	"github.com/pixil98/go-fortress/internal/geom"
	"github.com/pixil98/go-fortress/internal/world"
	"github.com/pixil98/go-log"
)

const (
	// DefaultPerceptionInterval is how often the sensed snapshot of nearby
	// hostiles and build sites is refreshed. Loot is never cached: the
	// registry is the authority on claim state and is queried directly.
	DefaultPerceptionInterval = 200 * time.Millisecond

	// collectRange is how close an agent must be to pick up a loot node.
	collectRange = 1.0
)

// Builder signals the construction manager that a worker is on site.
type Builder interface {
	Begin(ctx context.Context, taskId, agentId string) error
}

// EventLog receives notable agent events.
type EventLog interface {
	Emit(ctx context.Context, name string, data any)
}

// buildSite is the machine's view of a construction task.
type buildSite interface {
	coordinator.Object
	Assign(agentId string)
	ClearAssignment(agentId string)
	AssignedTo() string
	Awaiting() bool
}

// lootNode is the machine's view of a loot drop.
type lootNode interface {
	coordinator.Object
	ResourceType() string
	Collect() bool
}

// perception is a snapshot of nearby world objects, refreshed on its own
// cadence rather than every step.
type perception struct {
	hostiles []combat.Combatant
	sites    []coordinator.Object
}

type idleMode int

const (
	idleHold idleMode = iota
	idleWander
)

// Machine drives one agent: every step it re-evaluates what the agent
// should be doing in priority order, then executes the current state. The
// re-evaluation runs every step, not only on completion, which is what
// makes higher-priority work preemptive.
type Machine struct {
	dwarf   *world.DwarfInstance
	coord   *coordinator.Coordinator
	world   *world.WorldState
	builder Builder
	events  EventLog

	state   State
	claimId string
	target  combat.Combatant

	perceived          perception
	perceptionInterval time.Duration
	sincePerception    time.Duration

	attackCooldown time.Duration

	idleMode      idleMode
	idleRemaining time.Duration
	wanderTo      geom.Point

	rng *rand.Rand
}

// NewMachine creates a behavior machine for one dwarf.
func NewMachine(dwarf *world.DwarfInstance, coord *coordinator.Coordinator, w *world.WorldState, builder Builder, opts ...MachineOpt) *Machine {
	m := &Machine{
		dwarf:              dwarf,
		coord:              coord,
		world:              w,
		builder:            builder,
		state:              StateIdle,
		perceptionInterval: DefaultPerceptionInterval,
		rng:                rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}

	// Force a perception pass on the first step.
	m.sincePerception = m.perceptionInterval

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// State returns the machine's current state.
func (m *Machine) State() State {
	return m.state
}

// Dwarf returns the instance this machine drives.
func (m *Machine) Dwarf() *world.DwarfInstance {
	return m.dwarf
}

// ClaimId returns the id of the held loot or build claim, or "".
func (m *Machine) ClaimId() string {
	return m.claimId
}

// Step runs one simulation step: refresh perception when its cadence is
// due, re-evaluate transitions, then act in the resulting state.
func (m *Machine) Step(ctx context.Context, elapsed time.Duration) {
	m.sincePerception += elapsed
	if m.sincePerception >= m.perceptionInterval {
		m.sincePerception = 0
		m.refreshPerception()
	}

	m.evaluateTransitions(ctx)
	m.executeState(ctx, elapsed)
}

func (m *Machine) refreshPerception() {
	def := m.dwarf.Dwarf
	m.perceived.hostiles = m.world.HostilesNear(m.dwarf.Pos, def.SenseRadius)

	var sites []coordinator.Object
	for _, obj := range m.coord.ListClaimable(coordinator.KindBuildSite) {
		if geom.Dist(m.dwarf.Pos, obj.Position()) <= def.SenseRadius {
			sites = append(sites, obj)
		}
	}
	m.perceived.sites = sites
}

// evaluateTransitions walks the priority ladder top down and settles on a
// state for this step. Stale targets and lost claims are detected here and
// degrade to "nothing to do", never a fault.
func (m *Machine) evaluateTransitions(ctx context.Context) {
	me := m.dwarf.InstanceId

	// 1. A hostile inside the threat radius forces combat no matter what
	// was in progress.
	if h := combat.Nearest(m.perceived.hostiles, m.dwarf.Pos, m.dwarf.Dwarf.ThreatRadius); h != nil {
		if m.state != StateCombat {
			m.abandon()
			m.state = StateCombat
			m.target = h
		} else if m.target == nil || !m.target.IsAlive() {
			m.target = h
		}
		return
	}

	// 2. Combat persists while the target lives; a dead or vanished
	// target falls through to the remaining checks this same step.
	if m.state == StateCombat {
		if m.target != nil && m.target.IsAlive() {
			return
		}
		m.target = nil
		m.state = StateIdle
	}

	// 3. Build.
	if m.state == StateBuild {
		if m.buildClaimValid() {
			return
		}
		// Completed out from under us, or the lease lapsed. Either way
		// the claim is no longer ours to release. Reset to idle so the
		// rest of the ladder sees the real priority, not a stale BUILD.
		m.claimId = ""
		m.state = StateIdle
	}
	if m.state < StateBuild {
		if site := m.claimBuildSite(); site != nil {
			m.abandon()
			m.state = StateBuild
			m.claimId = site.ClaimableID()
			site.Assign(me)
			return
		}
	}

	// 4. Deliver. An agent already delivering keeps at it until the depot
	// empties its pockets.
	if m.dwarf.Carrying() && m.state <= StateDeliver {
		if m.state != StateDeliver {
			m.abandon()
			m.state = StateDeliver
		}
		return
	}

	// 5. Gather.
	if m.state == StateGather {
		if m.gatherClaimValid() {
			return
		}
		m.claimId = ""
	}
	if node := m.claimLootNode(); node != nil {
		m.state = StateGather
		m.claimId = node.ClaimableID()
		return
	}

	// 6. Nothing to do this step.
	if m.state != StateIdle {
		m.abandon()
		m.state = StateIdle
		m.idleRemaining = 0
	}
}

// buildClaimValid reports whether the held build claim is still this
// agent's to work.
func (m *Machine) buildClaimValid() bool {
	if m.claimId == "" || !m.coord.HeldBy(m.claimId, m.dwarf.InstanceId) {
		return false
	}
	obj := m.coord.Lookup(m.claimId)
	return obj != nil && !obj.Done()
}

// gatherClaimValid reports whether the held loot claim is still this
// agent's to work.
func (m *Machine) gatherClaimValid() bool {
	if m.claimId == "" || !m.coord.HeldBy(m.claimId, m.dwarf.InstanceId) {
		return false
	}
	obj := m.coord.Lookup(m.claimId)
	return obj != nil && !obj.Done()
}

// claimBuildSite picks a perceived build site and tries to claim it. A
// site already paired with this agent comes first, so a lapsed lease is
// retaken by the agent responsible for the build.
func (m *Machine) claimBuildSite() buildSite {
	me := m.dwarf.InstanceId

	var pick buildSite
	for _, obj := range m.perceived.sites {
		site, ok := obj.(buildSite)
		if !ok {
			continue
		}
		if site.AssignedTo() == me {
			pick = site
			break
		}
		if pick == nil && site.AssignedTo() == "" {
			pick = site
		}
	}

	if pick == nil || !m.coord.TryClaim(pick.ClaimableID(), me) {
		return nil
	}
	return pick
}

// claimLootNode queries the registry for claimable loot and races for the
// nearest. Losing every race leaves the agent idle this step; it retries
// next step.
func (m *Machine) claimLootNode() coordinator.Object {
	nodes := m.coord.ListClaimable(coordinator.KindLootNode)
	if len(nodes) == 0 {
		return nil
	}

	slices.SortStableFunc(nodes, func(a, b coordinator.Object) int {
		da := geom.Dist(m.dwarf.Pos, a.Position())
		db := geom.Dist(m.dwarf.Pos, b.Position())
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		default:
			return 0
		}
	})

	for _, node := range nodes {
		if m.coord.TryClaim(node.ClaimableID(), m.dwarf.InstanceId) {
			return node
		}
	}
	return nil
}

// abandon lets go of whatever the machine holds as part of leaving its
// current state, so other agents never wait out a lease on work this one
// walked away from. Claims retaken by someone else are left alone.
func (m *Machine) abandon() {
	if m.claimId != "" {
		if obj := m.coord.Lookup(m.claimId); obj != nil {
			if site, ok := obj.(buildSite); ok {
				site.ClearAssignment(m.dwarf.InstanceId)
			}
		}
		if m.coord.HeldBy(m.claimId, m.dwarf.InstanceId) {
			m.coord.Release(m.claimId)
		}
		m.claimId = ""
	}
	m.target = nil
}

func (m *Machine) executeState(ctx context.Context, elapsed time.Duration) {
	switch m.state {
	case StateCombat:
		m.fight(ctx, elapsed)
	case StateBuild:
		m.workSite(ctx, elapsed)
	case StateDeliver:
		m.deliver(ctx, elapsed)
	case StateGather:
		m.gather(ctx, elapsed)
	default:
		m.rest(elapsed)
	}
}

func (m *Machine) fight(ctx context.Context, elapsed time.Duration) {
	m.attackCooldown -= elapsed

	if m.target == nil || !m.target.IsAlive() {
		return
	}

	if geom.Dist(m.dwarf.Pos, m.target.Position()) > m.dwarf.AttackRange() {
		m.move(m.target.Position(), elapsed)
		return
	}

	// In range: hold position and swing on the cooldown.
	if m.attackCooldown > 0 {
		return
	}
	m.attackCooldown = m.dwarf.AttackInterval()

	dmg := combat.Damage(m.dwarf.AttackPower(), m.target.Armor())
	m.target.TakeDamage(dmg)

	if m.events != nil {
		m.events.Emit(ctx, "combat.hit", struct {
			Attacker string
			Verb     string
			Target   string
			Damage   int
		}{m.dwarf.CombatName(), combat.DamageVerb(dmg), m.target.CombatName(), dmg})
	}
}

func (m *Machine) workSite(ctx context.Context, elapsed time.Duration) {
	obj := m.coord.Lookup(m.claimId)
	if obj == nil {
		m.claimId = ""
		return
	}
	site, ok := obj.(buildSite)
	if !ok {
		return
	}

	if m.dwarf.Pos != site.Position() {
		m.move(site.Position(), elapsed)
		return
	}

	// On site. Kick off construction if nobody has; otherwise hold
	// position until the manager reports completion.
	if site.Awaiting() {
		if err := m.builder.Begin(ctx, m.claimId, m.dwarf.InstanceId); err != nil {
			log.GetLogger(ctx).Errorf("starting construction at %s: %s", m.claimId, err)
		}
	}
}

func (m *Machine) deliver(ctx context.Context, elapsed time.Duration) {
	depot := m.world.Depot()
	m.move(depot.Center(), elapsed)

	if !depot.Contains(m.dwarf.Pos) {
		return
	}

	goods := m.dwarf.FlushInventory()
	total := 0
	for _, n := range goods {
		total += n
	}
	if total == 0 {
		return
	}

	m.world.CreditResources(goods)

	if m.events != nil {
		m.events.Emit(ctx, "depot.delivery", struct {
			Agent string
			Total int
		}{m.dwarf.CombatName(), total})
	}
}

func (m *Machine) gather(ctx context.Context, elapsed time.Duration) {
	if m.claimId == "" {
		return
	}

	// The lease may have expired between evaluation and now; re-check
	// before touching the node so a force-released claim degrades to
	// "lost the claim" instead of a double collection.
	if !m.coord.HeldBy(m.claimId, m.dwarf.InstanceId) {
		m.claimId = ""
		return
	}

	obj := m.coord.Lookup(m.claimId)
	if obj == nil {
		m.claimId = ""
		return
	}
	node, ok := obj.(lootNode)
	if !ok {
		return
	}

	if geom.Dist(m.dwarf.Pos, node.Position()) > collectRange {
		m.move(node.Position(), elapsed)
		return
	}

	if node.Collect() {
		m.dwarf.AddLoot(node.ResourceType(), 1)

		if m.events != nil {
			m.events.Emit(ctx, "loot.collected", struct {
				Agent    string
				Resource string
				NodeId   string
			}{m.dwarf.CombatName(), node.ResourceType(), m.claimId})
		}
	}

	// Collected (or someone beat us to it): either way the claim is done.
	m.coord.Release(m.claimId)
	m.claimId = ""
}

// rest runs the cosmetic idle micro-behavior: hold still or wander a short
// way, re-rolled on a bounded timer. Perception and transition evaluation
// are never blocked by it.
func (m *Machine) rest(elapsed time.Duration) {
	m.idleRemaining -= elapsed
	if m.idleRemaining <= 0 {
		m.idleRemaining = time.Second + time.Duration(m.rng.Int64N(int64(2*time.Second)))

		if m.rng.IntN(10) < 6 {
			m.idleMode = idleHold
		} else {
			m.idleMode = idleWander
			offset := geom.Point{
				X: (m.rng.Float64() - 0.5) * 16,
				Y: (m.rng.Float64() - 0.5) * 16,
			}
			m.wanderTo = m.world.Bounds().Clamp(m.dwarf.Pos.Add(offset))
		}
	}

	if m.idleMode == idleWander {
		m.move(m.wanderTo, elapsed)
	}
}

func (m *Machine) move(to geom.Point, elapsed time.Duration) {
	m.dwarf.Pos = geom.StepToward(m.dwarf.Pos, to, m.dwarf.Dwarf.MoveSpeed*elapsed.Seconds())
}

// respawn brings a downed dwarf back at the depot. Any held claim is
// released first so nothing stays locked to a corpse.
func (m *Machine) respawn(ctx context.Context) {
	m.abandon()
	m.state = StateIdle
	m.idleRemaining = 0
	m.dwarf.Pos = m.world.Depot().Center()
	m.dwarf.CurrentHP = m.dwarf.Dwarf.MaxHP

	if m.events != nil {
		m.events.Emit(ctx, "dwarf.revived", struct{ Name string }{m.dwarf.CombatName()})
	}
}
