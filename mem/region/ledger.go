package region

import (
	"fmt"
	"slices"
)

// Stats holds ledger counters for instrumentation and tests.
type Stats struct {
	AllocCalls     int   `json:"alloc_calls"`     // Allocate calls, including rejected ones
	AllocFailures  int   `json:"alloc_failures"`  // Allocations that returned NoAddress
	Splits         int   `json:"splits"`          // Allocations that left a remainder
	ExactFits      int   `json:"exact_fits"`      // Allocations that consumed a free region
	FreeCalls      int   `json:"free_calls"`      // Release calls, including rejected ones
	CoalesceBelow  int   `json:"coalesce_below"`  // MergedBelow outcomes
	CoalesceAbove  int   `json:"coalesce_above"`  // MergedAbove outcomes
	CoalesceBoth   int   `json:"coalesce_both"`   // MergedBoth outcomes
	Inserts        int   `json:"inserts"`         // Inserted outcomes
	Appends        int   `json:"appends"`         // Appended outcomes
	BytesAllocated int64 `json:"bytes_allocated"` // Cumulative bytes handed out
	BytesFreed     int64 `json:"bytes_freed"`     // Cumulative bytes released
}

// Ledger tracks which parts of a fixed-size address space are free and which
// are allocated.
type Ledger struct {
	capacity  int
	strategy  Strategy
	free      []Region // Sorted by Start, pairwise non-adjacent
	allocated []Region // In allocation order
	allocSize int      // Sum of allocated lengths
	stats     Stats
}

// NewLedger creates a ledger whose single free region spans [0, capacity).
// A nil strategy selects FirstFit.
func NewLedger(capacity int, s Strategy) (*Ledger, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	if s == nil {
		s = FirstFit{}
	}
	return &Ledger{
		capacity: capacity,
		strategy: s,
		free:     []Region{{Start: 0, Length: capacity}},
	}, nil
}

// Allocate carves size bytes out of the free region chosen by the strategy
// and returns its start address. It returns NoAddress, with a nil error,
// when no free region is large enough.
func (l *Ledger) Allocate(size int) (int, error) {
	l.stats.AllocCalls++
	if size <= 0 {
		return NoAddress, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	i, ok := l.strategy.Select(l.free, size)
	if !ok {
		l.stats.AllocFailures++
		return NoAddress, nil
	}

	f := &l.free[i]
	r := Region{Start: f.Start, Length: size}
	f.Start += size
	f.Length -= size
	if f.Length == 0 {
		l.free = slices.Delete(l.free, i, i+1)
		l.stats.ExactFits++
	} else {
		l.stats.Splits++
	}

	l.allocated = append(l.allocated, r)
	l.allocSize += size
	l.stats.BytesAllocated += int64(size)
	return r.Start, nil
}

// Release returns the allocated region starting at addr to the free list,
// merging it with adjacent free regions. It returns the released region as it
// was recorded before removal.
func (l *Ledger) Release(addr int) (Region, Outcome, error) {
	l.stats.FreeCalls++
	if addr < 0 {
		return Region{}, 0, fmt.Errorf("%w: %d", ErrInvalidAddress, addr)
	}

	idx := l.indexOf(addr)
	if idx < 0 {
		return Region{}, 0, fmt.Errorf("%w: %d", ErrUnknownAddress, addr)
	}
	r := l.allocated[idx]

	outcome := l.coalesce(r)
	l.allocated = slices.Delete(l.allocated, idx, idx+1)
	l.allocSize -= r.Length
	l.stats.BytesFreed += int64(r.Length)

	switch outcome {
	case MergedBelow:
		l.stats.CoalesceBelow++
	case MergedBoth:
		l.stats.CoalesceBoth++
	case MergedAbove:
		l.stats.CoalesceAbove++
	case Inserted:
		l.stats.Inserts++
	case Appended:
		l.stats.Appends++
	}
	return r, outcome, nil
}

// coalesce folds r into the free list. The first free region, in ascending
// address order, that touches or lies above r decides the outcome.
func (l *Ledger) coalesce(r Region) Outcome {
	for i := range l.free {
		f := &l.free[i]

		if f.End() == r.Start {
			f.Length += r.Length
			if i+1 < len(l.free) && l.free[i+1].Start == f.End() {
				f.Length += l.free[i+1].Length
				l.free = slices.Delete(l.free, i+1, i+2)
				return MergedBoth
			}
			return MergedBelow
		}

		if r.End() == f.Start {
			f.Start = r.Start
			f.Length += r.Length
			return MergedAbove
		}

		if r.End() < f.Start {
			l.free = slices.Insert(l.free, i, r)
			return Inserted
		}
	}

	l.free = append(l.free, r)
	return Appended
}

func (l *Ledger) indexOf(addr int) int {
	for i, r := range l.allocated {
		if r.Start == addr {
			return i
		}
	}
	return -1
}

// Lookup returns the allocated region starting at addr.
func (l *Ledger) Lookup(addr int) (Region, bool) {
	if i := l.indexOf(addr); i >= 0 {
		return l.allocated[i], true
	}
	return Region{}, false
}

// Capacity returns the size of the address space the ledger describes.
func (l *Ledger) Capacity() int { return l.capacity }

// Strategy returns the active allocation strategy.
func (l *Ledger) Strategy() Strategy { return l.strategy }

// AllocatedSize returns the number of bytes currently allocated.
func (l *Ledger) AllocatedSize() int { return l.allocSize }

// FreeSize returns the number of bytes currently free.
func (l *Ledger) FreeSize() int { return l.capacity - l.allocSize }

// LargestFree returns the length of the largest free region, or 0 when
// memory is exhausted.
func (l *Ledger) LargestFree() int {
	largest := 0
	for _, r := range l.free {
		largest = max(largest, r.Length)
	}
	return largest
}

// Empty reports whether no region is allocated.
func (l *Ledger) Empty() bool { return len(l.allocated) == 0 }

// Free returns a copy of the free list, sorted by start address.
func (l *Ledger) Free() []Region { return slices.Clone(l.free) }

// Allocated returns a copy of the allocated regions in allocation order.
func (l *Ledger) Allocated() []Region { return slices.Clone(l.allocated) }

// Stats returns a copy of the ledger counters.
func (l *Ledger) Stats() Stats { return l.stats }

// Verify checks the ledger's structural invariants.
func (l *Ledger) Verify() error {
	return Verify(l.capacity, l.free, l.allocated)
}
