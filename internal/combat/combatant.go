package combat

import (
	"time"

	"github.com/pixil98/go-fortress/internal/geom"
)

// Combatant is anything that can take part in a fight. Dwarves, hostiles,
// and standing structures all implement it; attackers never care which
// kind they are hitting.
type Combatant interface {
	CombatID() string
	CombatName() string
	Position() geom.Point
	IsAlive() bool
	Armor() int
	AttackPower() int
	AttackRange() float64
	AttackInterval() time.Duration
	TakeDamage(amount int)
}

// Nearest returns the combatant closest to p within radius, or nil if none
// qualify. Dead combatants are skipped.
func Nearest(candidates []Combatant, p geom.Point, radius float64) Combatant {
	var best Combatant
	var bestDist float64
	for _, c := range candidates {
		if !c.IsAlive() {
			continue
		}
		d := geom.Dist(p, c.Position())
		if d > radius {
			continue
		}
		if best == nil || d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}
