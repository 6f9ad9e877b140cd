package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-fortress/internal/geom"
)

type SimulationConfig struct {
	World RectConfig `json:"world"`
	Depot RectConfig `json:"depot"`

	LeaseDuration        string `json:"lease_duration"`
	PerceptionInterval   string `json:"perception_interval"`
	LootSpawnInterval    string `json:"loot_spawn_interval"`
	HostileSpawnInterval string `json:"hostile_spawn_interval"`
	HostilePackSize      int    `json:"hostile_pack_size"`

	Dwarves []DwarfSpawnConfig `json:"dwarves"`

	InitialResources map[string]int       `json:"initial_resources,omitempty"`
	InitialLoot      []InitialLootConfig  `json:"initial_loot,omitempty"`
	InitialBuilds    []InitialBuildConfig `json:"initial_builds,omitempty"`
}

func (c *SimulationConfig) validate() error {
	el := errors.NewErrorList()

	if c.World.W <= 0 || c.World.H <= 0 {
		el.Add(fmt.Errorf("world must have positive width and height"))
	}
	if c.Depot.W <= 0 || c.Depot.H <= 0 {
		el.Add(fmt.Errorf("depot must have positive width and height"))
	}

	world := c.World.Rect()
	if !world.Contains(geom.Point{X: c.Depot.X, Y: c.Depot.Y}) ||
		!world.Contains(geom.Point{X: c.Depot.X + c.Depot.W, Y: c.Depot.Y + c.Depot.H}) {
		el.Add(fmt.Errorf("depot must lie inside the world"))
	}

	for name, v := range map[string]string{
		"lease_duration":         c.LeaseDuration,
		"perception_interval":    c.PerceptionInterval,
		"loot_spawn_interval":    c.LootSpawnInterval,
		"hostile_spawn_interval": c.HostileSpawnInterval,
	} {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			el.Add(fmt.Errorf("parsing %s: %w", name, err))
		}
	}

	if c.HostilePackSize < 0 {
		el.Add(fmt.Errorf("hostile_pack_size must not be negative"))
	}

	if len(c.Dwarves) == 0 {
		el.Add(fmt.Errorf("at least one dwarf spawn is required"))
	}
	for i, d := range c.Dwarves {
		if err := d.validate(); err != nil {
			el.Add(fmt.Errorf("dwarf spawn %d: %w", i, err))
		}
	}

	for i, l := range c.InitialLoot {
		if l.Resource == "" {
			el.Add(fmt.Errorf("initial loot %d: resource is required", i))
		}
	}
	for i, b := range c.InitialBuilds {
		if b.Blueprint == "" {
			el.Add(fmt.Errorf("initial build %d: blueprint is required", i))
		}
	}

	return el.Err()
}

// duration parses an optional config duration, falling back to def when
// unset. Call only after Validate.
func duration(v string, def time.Duration) time.Duration {
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

type RectConfig struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func (c RectConfig) Rect() geom.Rect {
	return geom.Rect{X: c.X, Y: c.Y, W: c.W, H: c.H}
}

type DwarfSpawnConfig struct {
	Definition string `json:"definition"`
	Count      int    `json:"count"`
}

func (c *DwarfSpawnConfig) validate() error {
	el := errors.NewErrorList()
	if c.Definition == "" {
		el.Add(fmt.Errorf("definition is required"))
	}
	if c.Count < 1 {
		el.Add(fmt.Errorf("count must be at least 1"))
	}
	return el.Err()
}

type InitialLootConfig struct {
	Resource string  `json:"resource"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

type InitialBuildConfig struct {
	Blueprint string  `json:"blueprint"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}
