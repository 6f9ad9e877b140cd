package world

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// Resource defines a type of deliverable good loaded from asset files.
// Resource IDs are the currency of the whole economy: loot nodes carry
// them, inventories count them, and blueprint costs are keyed by them.
type Resource struct {
	// Name is the display name (e.g., "wood")
	Name string `json:"name"`

	// Weight biases random loot drops toward common resources. Higher is
	// more common.
	Weight int `json:"weight"`
}

// Validate satisfies storage.ValidatingSpec
func (r *Resource) Validate() error {
	el := errors.NewErrorList()
	if r.Name == "" {
		el.Add(fmt.Errorf("resource name is required"))
	}
	if r.Weight < 1 {
		el.Add(fmt.Errorf("resource weight must be at least 1"))
	}
	return el.Err()
}
