package world

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/go-fortress/internal/geom"
)

// Structure is a finished defensive building. It can be attacked but never
// attacks back; it wins by soaking hits that would otherwise land on
// dwarves.
type Structure struct {
	InstanceId string
	Name       string

	Pos       geom.Point
	CurrentHP int
	armor     int
}

// NewStructure raises a finished structure from a blueprint.
func NewStructure(bp *Blueprint, pos geom.Point) *Structure {
	return &Structure{
		InstanceId: uuid.New().String(),
		Name:       bp.Name,
		Pos:        pos,
		CurrentHP:  bp.MaxHP,
		armor:      bp.Armor,
	}
}

// Combatant implementation.

func (s *Structure) CombatID() string              { return fmt.Sprintf("structure:%s", s.InstanceId) }
func (s *Structure) CombatName() string            { return s.Name }
func (s *Structure) Position() geom.Point          { return s.Pos }
func (s *Structure) IsAlive() bool                 { return s.CurrentHP > 0 }
func (s *Structure) Armor() int                    { return s.armor }
func (s *Structure) AttackPower() int              { return 0 }
func (s *Structure) AttackRange() float64          { return 0 }
func (s *Structure) AttackInterval() time.Duration { return 0 }

func (s *Structure) TakeDamage(amount int) {
	s.CurrentHP -= amount
	if s.CurrentHP < 0 {
		s.CurrentHP = 0
	}
}
