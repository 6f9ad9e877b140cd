package world

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-fortress/internal/combat"
	"github.com/pixil98/go-fortress/internal/geom"
	"github.com/pixil98/go-fortress/internal/storage"
)

// Hostile defines a type of intruder loaded from asset files.
type Hostile struct {
	// ShortDesc is used in event messages (e.g., "a cave troll")
	ShortDesc string `json:"short_desc"`

	MaxHP  int `json:"max_hp"`
	Attack int `json:"attack"`
	Armor  int `json:"armor"`

	MoveSpeed      float64  `json:"move_speed"`
	AttackRange    float64  `json:"attack_range"`
	AttackInterval Duration `json:"attack_interval"`

	// AggroRadius is how far the hostile looks for something to hit
	AggroRadius float64 `json:"aggro_radius"`

	// Loot lists resources this hostile can drop when slain
	Loot []storage.SmartIdentifier[*Resource] `json:"loot,omitempty"`
}

// Resolve resolves foreign keys from the dictionary.
func (h *Hostile) Resolve(resources storage.Storer[*Resource]) error {
	el := errors.NewErrorList()
	for i := range h.Loot {
		el.Add(h.Loot[i].Resolve(resources))
	}
	return el.Err()
}

// Validate satisfies storage.ValidatingSpec
func (h *Hostile) Validate() error {
	el := errors.NewErrorList()
	if h.ShortDesc == "" {
		el.Add(fmt.Errorf("hostile short description is required"))
	}
	if h.MaxHP <= 0 {
		el.Add(fmt.Errorf("hostile max_hp must be positive"))
	}
	if h.MoveSpeed <= 0 {
		el.Add(fmt.Errorf("hostile move_speed must be positive"))
	}
	if h.AttackRange <= 0 {
		el.Add(fmt.Errorf("hostile attack_range must be positive"))
	}
	if h.AttackInterval.Duration <= 0 {
		el.Add(fmt.Errorf("hostile attack_interval must be positive"))
	}
	if h.AggroRadius <= 0 {
		el.Add(fmt.Errorf("hostile aggro_radius must be positive"))
	}
	for i := range h.Loot {
		el.Add(h.Loot[i].Validate())
	}
	return el.Err()
}

// HostileInstance represents a single spawned instance of a Hostile
// definition.
type HostileInstance struct {
	InstanceId string
	Hostile    *Hostile

	Pos       geom.Point
	CurrentHP int

	target   combat.Combatant
	cooldown time.Duration
}

// NewHostileInstance spawns an instance of a hostile definition.
func NewHostileInstance(def *Hostile, pos geom.Point) *HostileInstance {
	return &HostileInstance{
		InstanceId: uuid.New().String(),
		Hostile:    def,
		Pos:        pos,
		CurrentHP:  def.MaxHP,
	}
}

// Combatant implementation.

func (h *HostileInstance) CombatID() string     { return fmt.Sprintf("hostile:%s", h.InstanceId) }
func (h *HostileInstance) CombatName() string   { return h.Hostile.ShortDesc }
func (h *HostileInstance) Position() geom.Point { return h.Pos }
func (h *HostileInstance) IsAlive() bool        { return h.CurrentHP > 0 }
func (h *HostileInstance) Armor() int           { return h.Hostile.Armor }
func (h *HostileInstance) AttackPower() int     { return h.Hostile.Attack }
func (h *HostileInstance) AttackRange() float64 { return h.Hostile.AttackRange }
func (h *HostileInstance) AttackInterval() time.Duration {
	return h.Hostile.AttackInterval.Duration
}

func (h *HostileInstance) TakeDamage(amount int) {
	h.CurrentHP -= amount
	if h.CurrentHP < 0 {
		h.CurrentHP = 0
	}
}
