package mem

import (
	"github.com/joshuapare/emumem/mem/dirty"
	"github.com/joshuapare/emumem/mem/region"
	"github.com/joshuapare/emumem/pkg/types"
)

// Option configures a Manager at construction time.
type Option func(*config)

type config struct {
	capacity int
	strategy region.Strategy
	tracker  dirty.DirtyTracker
}

func defaultConfig() config {
	return config{
		capacity: types.DefaultCapacity,
		strategy: region.FirstFit{},
	}
}

// WithCapacity sets the address space size in bytes.
func WithCapacity(n int) Option {
	return func(c *config) { c.capacity = n }
}

// WithStrategy sets the allocation strategy. Nil keeps first-fit.
func WithStrategy(s region.Strategy) Option {
	return func(c *config) {
		if s != nil {
			c.strategy = s
		}
	}
}

// WithDirtyTracker reports every successful write to dt.
func WithDirtyTracker(dt dirty.DirtyTracker) Option {
	return func(c *config) { c.tracker = dt }
}
