package world

import (
	"fmt"

	"github.com/pixil98/go-fortress/internal/storage"
)

// Dictionary holds all definition stores. It provides a single reference
// that can be passed around instead of threading four stores everywhere.
type Dictionary struct {
	Resources  storage.Storer[*Resource]
	Dwarves    storage.Storer[*Dwarf]
	Hostiles   storage.Storer[*Hostile]
	Blueprints storage.Storer[*Blueprint]
}

// Resolve resolves all foreign key references between asset types.
// Dwarves carry no references and are skipped.
func (d *Dictionary) Resolve() error {
	for id, h := range d.Hostiles.GetAll() {
		if err := h.Resolve(d.Resources); err != nil {
			return fmt.Errorf("hostile %s: %w", id, err)
		}
	}

	for id, bp := range d.Blueprints.GetAll() {
		if err := bp.Resolve(d.Resources); err != nil {
			return fmt.Errorf("blueprint %s: %w", id, err)
		}
	}
	return nil
}
