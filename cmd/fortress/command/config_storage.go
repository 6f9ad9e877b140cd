package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-fortress/internal/storage"
	"github.com/pixil98/go-fortress/internal/world"
)

type StorageConfig struct {
	Resources  AssetConfig[*world.Resource]  `json:"resources"`
	Dwarves    AssetConfig[*world.Dwarf]     `json:"dwarves"`
	Hostiles   AssetConfig[*world.Hostile]   `json:"hostiles"`
	Blueprints AssetConfig[*world.Blueprint] `json:"blueprints"`
}

func (c *StorageConfig) BuildDictionary() (*world.Dictionary, error) {
	resources, err := c.Resources.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating resource store: %w", err)
	}
	dwarves, err := c.Dwarves.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating dwarf store: %w", err)
	}
	hostiles, err := c.Hostiles.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating hostile store: %w", err)
	}
	blueprints, err := c.Blueprints.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating blueprint store: %w", err)
	}

	dict := &world.Dictionary{
		Resources:  resources,
		Dwarves:    dwarves,
		Hostiles:   hostiles,
		Blueprints: blueprints,
	}

	if err := dict.Resolve(); err != nil {
		return nil, fmt.Errorf("resolving references: %w", err)
	}

	return dict, nil
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Resources.Validate("resources"))
	el.Add(c.Dwarves.Validate("dwarves"))
	el.Add(c.Hostiles.Validate("hostiles"))
	el.Add(c.Blueprints.Validate("blueprints"))
	return el.Err()
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
