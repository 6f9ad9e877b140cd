package world

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-fortress/internal/storage"
)

// Blueprint defines a type of defensive structure loaded from asset files.
type Blueprint struct {
	// Name is the display name (e.g., "watchtower")
	Name string `json:"name"`

	// Cost is the resources debited from the depot pool when construction
	// is ordered, keyed by resource id.
	Cost map[string]int `json:"cost,omitempty"`

	// BuildTime is how long a worked site takes to finish
	BuildTime Duration `json:"build_time"`

	// MaxHP and Armor of the finished structure
	MaxHP int `json:"max_hp"`
	Armor int `json:"armor"`
}

// Resolve resolves foreign keys from the dictionary.
func (b *Blueprint) Resolve(resources storage.Storer[*Resource]) error {
	el := errors.NewErrorList()
	for id := range b.Cost {
		if resources.Get(id) == nil {
			el.Add(fmt.Errorf("Resource %q not found", id))
		}
	}
	return el.Err()
}

// Validate satisfies storage.ValidatingSpec
func (b *Blueprint) Validate() error {
	el := errors.NewErrorList()
	if b.Name == "" {
		el.Add(fmt.Errorf("blueprint name is required"))
	}
	if b.BuildTime.Duration <= 0 {
		el.Add(fmt.Errorf("blueprint build_time must be positive"))
	}
	if b.MaxHP <= 0 {
		el.Add(fmt.Errorf("blueprint max_hp must be positive"))
	}
	for id, n := range b.Cost {
		if n <= 0 {
			el.Add(fmt.Errorf("blueprint cost for %q must be positive", id))
		}
	}
	return el.Err()
}
