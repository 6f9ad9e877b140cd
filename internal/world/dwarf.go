package world

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-fortress/internal/geom"
)

// Dwarf defines a type of worker agent loaded from asset files. Multiple
// instances can be spawned from one definition.
type Dwarf struct {
	// Name is used in event messages (e.g., "Durin hits the troll.")
	Name string `json:"name"`

	// MoveSpeed is walking speed in world units per second
	MoveSpeed float64 `json:"move_speed"`

	MaxHP  int `json:"max_hp"`
	Attack int `json:"attack"`
	Armor  int `json:"armor"`

	// AttackRange is how close the dwarf must be to land a blow
	AttackRange float64 `json:"attack_range"`

	// AttackInterval is the cooldown between blows
	AttackInterval Duration `json:"attack_interval"`

	// SenseRadius is how far the dwarf perceives world objects
	SenseRadius float64 `json:"sense_radius"`

	// ThreatRadius is the distance at which a hostile forces the dwarf
	// into combat. Must not exceed SenseRadius or the dwarf could be
	// threatened by something it never perceives.
	ThreatRadius float64 `json:"threat_radius"`
}

// Validate satisfies storage.ValidatingSpec
func (d *Dwarf) Validate() error {
	el := errors.NewErrorList()
	if d.Name == "" {
		el.Add(fmt.Errorf("dwarf name is required"))
	}
	if d.MoveSpeed <= 0 {
		el.Add(fmt.Errorf("dwarf move_speed must be positive"))
	}
	if d.MaxHP <= 0 {
		el.Add(fmt.Errorf("dwarf max_hp must be positive"))
	}
	if d.AttackRange <= 0 {
		el.Add(fmt.Errorf("dwarf attack_range must be positive"))
	}
	if d.AttackInterval.Duration <= 0 {
		el.Add(fmt.Errorf("dwarf attack_interval must be positive"))
	}
	if d.SenseRadius <= 0 {
		el.Add(fmt.Errorf("dwarf sense_radius must be positive"))
	}
	if d.ThreatRadius <= 0 || d.ThreatRadius > d.SenseRadius {
		el.Add(fmt.Errorf("dwarf threat_radius must be positive and within sense_radius"))
	}
	return el.Err()
}

// DwarfInstance represents a single spawned instance of a Dwarf
// definition. All mutation happens inside the step loop, which serializes
// access.
type DwarfInstance struct {
	InstanceId string
	Dwarf      *Dwarf

	Pos       geom.Point
	CurrentHP int

	// Inventory counts carried goods by resource id. Unbounded; hauling
	// capacity is not modeled.
	Inventory map[string]int
}

// NewDwarfInstance spawns an instance of a dwarf definition at a position.
func NewDwarfInstance(def *Dwarf, pos geom.Point) *DwarfInstance {
	return &DwarfInstance{
		InstanceId: uuid.New().String(),
		Dwarf:      def,
		Pos:        pos,
		CurrentHP:  def.MaxHP,
		Inventory:  map[string]int{},
	}
}

// AddLoot adds count units of a resource to the inventory.
func (d *DwarfInstance) AddLoot(resource string, count int) {
	if d.Inventory == nil {
		d.Inventory = map[string]int{}
	}
	d.Inventory[resource] += count
}

// Carrying reports whether the inventory holds anything.
func (d *DwarfInstance) Carrying() bool {
	for _, n := range d.Inventory {
		if n > 0 {
			return true
		}
	}
	return false
}

// FlushInventory empties the inventory and returns what was carried.
func (d *DwarfInstance) FlushInventory() map[string]int {
	goods := d.Inventory
	d.Inventory = map[string]int{}
	return goods
}

// Combatant implementation.

func (d *DwarfInstance) CombatID() string      { return fmt.Sprintf("dwarf:%s", d.InstanceId) }
func (d *DwarfInstance) CombatName() string    { return d.Dwarf.Name }
func (d *DwarfInstance) Position() geom.Point  { return d.Pos }
func (d *DwarfInstance) IsAlive() bool         { return d.CurrentHP > 0 }
func (d *DwarfInstance) Armor() int            { return d.Dwarf.Armor }
func (d *DwarfInstance) AttackPower() int      { return d.Dwarf.Attack }
func (d *DwarfInstance) AttackRange() float64  { return d.Dwarf.AttackRange }
func (d *DwarfInstance) AttackInterval() time.Duration {
	return d.Dwarf.AttackInterval.Duration
}

func (d *DwarfInstance) TakeDamage(amount int) {
	d.CurrentHP -= amount
	if d.CurrentHP < 0 {
		d.CurrentHP = 0
	}
}
