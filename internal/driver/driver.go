package driver

import (
	"context"
	"time"
)

const (
	DefaultTickLength = time.Millisecond * 100
)

type Manager interface {
	Tick(context.Context) error
}

// SimDriver owns the simulation loop: every tick it runs each manager
// once, in the order given. Managers that need a different internal
// cadence sample their own timers off the elapsed wall time.
type SimDriver struct {
	tickLength time.Duration
	managers   []Manager
}

func NewSimDriver(managers []Manager, opts ...SimDriverOpt) *SimDriver {
	d := &SimDriver{
		tickLength: DefaultTickLength,
		managers:   managers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *SimDriver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			err := d.Tick(ctx)
			if err != nil {
				return err
			}
		}
	}
}

func (d *SimDriver) Tick(ctx context.Context) error {
	for _, m := range d.managers {
		if err := m.Tick(ctx); err != nil {
			return err
		}
	}
	return nil
}
