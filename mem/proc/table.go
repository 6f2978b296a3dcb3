// Package proc provides the fixed-capacity process descriptor table and the
// admission and exit paths that tie descriptors to allocated memory.
package proc

import (
	"fmt"
	"sync"

	"github.com/joshuapare/emumem/pkg/types"
)

// Descriptor is anything the table can hold: it only needs a process identifier.
type Descriptor interface {
	PID() int
}

// Table is a fixed array of process slots. The first free slot wins on
// insertion; lookups are linear scans, O(capacity).
//
// Table is safe for concurrent use. Its lock is independent of any memory
// manager lock.
type Table struct {
	mu    sync.Mutex
	slots []Descriptor // nil means empty
	n     int          // occupied slots
}

// NewTable creates a table with capacity slots. A capacity <= 0 selects
// types.DefaultProcessSlots.
func NewTable(capacity int) *Table {
	if capacity <= 0 {
		capacity = types.DefaultProcessSlots
	}
	return &Table{slots: make([]Descriptor, capacity)}
}

// Insert places d in the first empty slot and returns the slot index.
// It fails with ErrTableFull when no slot is empty and with ErrDuplicatePID
// when an occupied slot already holds d's PID.
func (t *Table) Insert(d Descriptor) (int, error) {
	if d == nil {
		return -1, fmt.Errorf("%w: nil descriptor", ErrNotAdmitted)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	empty := -1
	for i, s := range t.slots {
		if s == nil {
			if empty < 0 {
				empty = i
			}
			continue
		}
		if s.PID() == d.PID() {
			return -1, fmt.Errorf("%w: %d", ErrDuplicatePID, d.PID())
		}
	}
	if empty < 0 {
		return -1, ErrTableFull
	}

	t.slots[empty] = d
	t.n++
	return empty, nil
}

// Add places d in the first empty slot. It returns false when the table is
// full or the PID is already present; the caller decides whether to retry.
func (t *Table) Add(d Descriptor) bool {
	_, err := t.Insert(d)
	return err == nil
}

// Remove vacates the slot holding exactly d (by identity) and reports whether
// one was found.
func (t *Table) Remove(d Descriptor) bool {
	if d == nil {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for i, s := range t.slots {
		if s == d {
			t.slots[i] = nil
			t.n--
			return true
		}
	}
	return false
}

// Lookup returns the descriptor in the first occupied slot with the given PID.
func (t *Table) Lookup(pid int) (Descriptor, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, s := range t.slots {
		if s != nil && s.PID() == pid {
			return s, true
		}
	}
	return nil, false
}

// Len returns the number of occupied slots.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.n
}

// Cap returns the number of slots.
func (t *Table) Cap() int { return len(t.slots) }

// Slots returns a copy of the slot array; empty slots are nil.
func (t *Table) Slots() []Descriptor {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Descriptor, len(t.slots))
	copy(out, t.slots)
	return out
}

// Snapshot returns Info for each occupied slot, in slot order.
func (t *Table) Snapshot() []Info {
	var out []Info
	for _, d := range t.Slots() {
		switch v := d.(type) {
		case nil:
		case interface{ Info() Info }:
			out = append(out, v.Info())
		default:
			out = append(out, Info{PID: d.PID()})
		}
	}
	return out
}
