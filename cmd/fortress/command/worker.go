package command

import (
	"context"
	"fmt"
	"time"

	"github.com/pixil98/go-fortress/internal/agent"
	"github.com/pixil98/go-fortress/internal/build"
	"github.com/pixil98/go-fortress/internal/coordinator"
	"github.com/pixil98/go-fortress/internal/driver"
	"github.com/pixil98/go-fortress/internal/geom"
	"github.com/pixil98/go-fortress/internal/loot"
	"github.com/pixil98/go-fortress/internal/report"
	"github.com/pixil98/go-fortress/internal/world"
	"github.com/pixil98/go-service"
)

const (
	defaultLootSpawnInterval    = 20 * time.Second
	defaultHostileSpawnInterval = 45 * time.Second
	defaultHostilePackSize      = 2
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}
	sim := cfg.Simulation

	// Create the message bus
	nats, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	events, err := report.NewLog(report.WithPublisher(nats))
	if err != nil {
		return nil, fmt.Errorf("creating event log: %w", err)
	}

	// Load definition assets
	dict, err := cfg.Storage.BuildDictionary()
	if err != nil {
		return nil, fmt.Errorf("building dictionary: %w", err)
	}

	bounds := sim.World.Rect()
	depot := sim.Depot.Rect()

	coord := coordinator.NewCoordinator(
		coordinator.WithLeaseDuration(duration(sim.LeaseDuration, coordinator.DefaultLeaseDuration)),
		coordinator.WithEventLog(events),
	)
	w := world.NewWorldState(bounds, depot, world.WithEventLog(events))
	w.CreditResources(sim.InitialResources)

	producer := loot.NewProducer(coord, dict.Resources, bounds,
		duration(sim.LootSpawnInterval, defaultLootSpawnInterval),
		loot.WithEventLog(events),
	)
	w.SetDropper(producer)

	packSize := sim.HostilePackSize
	if packSize == 0 {
		packSize = defaultHostilePackSize
	}
	spawner := world.NewSpawner(w, dict.Hostiles,
		duration(sim.HostileSpawnInterval, defaultHostileSpawnInterval), packSize,
		world.WithSpawnerEventLog(events),
	)

	buildMgr := build.NewManager(coord, w, dict.Blueprints, build.WithEventLog(events))

	machines, err := spawnDwarves(sim, dict, coord, w, buildMgr, events)
	if err != nil {
		return nil, err
	}
	agents := agent.NewManager(machines)

	if err := seedWorld(sim, dict, coord, buildMgr); err != nil {
		return nil, err
	}

	// Order matters: loot settles and hostiles act before agents decide,
	// construction timers run on agent-started work, and lease accounting
	// closes out the tick.
	simDriver := driver.NewSimDriver([]driver.Manager{
		producer,
		spawner,
		w,
		agents,
		buildMgr,
		coord,
	}, driver.WithTickLength(duration(cfg.TickInterval, driver.DefaultTickLength)))

	return service.WorkerList{
		"nats":           nats,
		"driver":         simDriver,
		"build-requests": build.NewRequestListener(nats, buildMgr),
	}, nil
}

// spawnDwarves creates the defender roster and one behavior machine per
// dwarf, all starting at the depot.
func spawnDwarves(sim SimulationConfig, dict *world.Dictionary, coord *coordinator.Coordinator, w *world.WorldState, buildMgr *build.Manager, events *report.Log) ([]*agent.Machine, error) {
	var machineOpts []agent.MachineOpt
	machineOpts = append(machineOpts, agent.WithEventLog(events))
	if sim.PerceptionInterval != "" {
		machineOpts = append(machineOpts, agent.WithPerceptionInterval(duration(sim.PerceptionInterval, agent.DefaultPerceptionInterval)))
	}

	var machines []*agent.Machine
	for _, spawn := range sim.Dwarves {
		def := dict.Dwarves.Get(spawn.Definition)
		if def == nil {
			return nil, fmt.Errorf("unknown dwarf definition %q", spawn.Definition)
		}
		for range spawn.Count {
			inst := world.NewDwarfInstance(def, w.Depot().Center())
			w.AddDefender(inst)
			machines = append(machines, agent.NewMachine(inst, coord, w, buildMgr, machineOpts...))
		}
	}
	return machines, nil
}

// seedWorld places configured starting loot and orders starting builds.
func seedWorld(sim SimulationConfig, dict *world.Dictionary, coord *coordinator.Coordinator, buildMgr *build.Manager) error {
	for _, l := range sim.InitialLoot {
		if dict.Resources.Get(l.Resource) == nil {
			return fmt.Errorf("unknown resource %q in initial loot", l.Resource)
		}
		coord.Register(loot.NewSettledNode(l.Resource, geom.Point{X: l.X, Y: l.Y}))
	}

	for _, b := range sim.InitialBuilds {
		_, err := buildMgr.Request(context.Background(), b.Blueprint, geom.Point{X: b.X, Y: b.Y})
		if err != nil {
			return fmt.Errorf("ordering initial build: %w", err)
		}
	}
	return nil
}
