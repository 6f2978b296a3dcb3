package region

import (
	"fmt"
	"strings"
)

// Strategy selects the free region an allocation is carved from.
//
// Select receives the free list sorted by ascending start address and returns
// the index of the chosen region, or false if none is large enough. It must
// not modify the slice. The ledger always allocates from the region it is
// given, so stateful strategies may record the choice.
type Strategy interface {
	Select(free []Region, size int) (int, bool)
}

// FirstFit picks the lowest-addressed free region that is large enough.
type FirstFit struct{}

// Select implements Strategy.
func (FirstFit) Select(free []Region, size int) (int, bool) {
	for i, r := range free {
		if r.Length >= size {
			return i, true
		}
	}
	return 0, false
}

func (FirstFit) String() string { return "first-fit" }

// NextFit is first-fit with a roving pointer: each search starts at the free
// region containing (or following) the address just past the previous
// allocation, runs to the top of memory, then wraps to the bottom.
//
// NextFit keeps state and is not safe for concurrent use; give each ledger
// its own instance.
type NextFit struct {
	rover int
}

// Select implements Strategy.
func (n *NextFit) Select(free []Region, size int) (int, bool) {
	start := len(free)
	for i, r := range free {
		if r.End() > n.rover {
			start = i
			break
		}
	}

	for k := range free {
		i := (start + k) % len(free)
		if free[i].Length >= size {
			n.rover = free[i].Start + size
			return i, true
		}
	}
	return 0, false
}

func (n *NextFit) String() string { return "next-fit" }

// BestFit picks the smallest free region that is large enough, minimizing the
// leftover. Ties go to the lowest address.
type BestFit struct{}

// Select implements Strategy.
func (BestFit) Select(free []Region, size int) (int, bool) {
	best := -1
	for i, r := range free {
		if r.Length < size {
			continue
		}
		if best < 0 || r.Length < free[best].Length {
			best = i
			if r.Length == size {
				break
			}
		}
	}
	return best, best >= 0
}

func (BestFit) String() string { return "best-fit" }

// StrategyNames lists the names accepted by StrategyByName.
var StrategyNames = []string{"first", "next", "best"}

// StrategyByName returns a fresh strategy for "first", "next" or "best"
// (case-insensitive; a "-fit" suffix is accepted).
func StrategyByName(name string) (Strategy, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), "-fit") {
	case "", "first":
		return FirstFit{}, nil
	case "next":
		return &NextFit{}, nil
	case "best":
		return BestFit{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)",
			ErrUnknownStrategy, name, strings.Join(StrategyNames, ", "))
	}
}
