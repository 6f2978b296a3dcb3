package proc

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// stub is a minimal non-PCB descriptor.
type stub struct{ pid int }

func (s *stub) PID() int { return s.pid }

// Scenario E: two slots, add, overflow, remove, re-add, lookup.
func TestTable_CapacityTwo(t *testing.T) {
	tbl := NewTable(2)
	a, b, c, d := &stub{1}, &stub{2}, &stub{3}, &stub{4}

	require.True(t, tbl.Add(a))
	require.True(t, tbl.Add(b))
	require.False(t, tbl.Add(c))
	require.Equal(t, []Descriptor{a, b}, tbl.Slots())

	require.True(t, tbl.Remove(a))
	require.True(t, tbl.Add(d))
	require.Equal(t, []Descriptor{d, b}, tbl.Slots(), "first free slot is reused")

	got, ok := tbl.Lookup(4)
	require.True(t, ok)
	require.Same(t, d, got)
	got, ok = tbl.Lookup(2)
	require.True(t, ok)
	require.Same(t, b, got)
	_, ok = tbl.Lookup(1)
	require.False(t, ok)
	_, ok = tbl.Lookup(3)
	require.False(t, ok)

	require.Equal(t, 2, tbl.Len())
	require.Equal(t, 2, tbl.Cap())
}

func TestTable_DefaultCapacity(t *testing.T) {
	require.Equal(t, 10, NewTable(0).Cap())
	require.Equal(t, 10, NewTable(-3).Cap())
}

func TestTable_InsertErrors(t *testing.T) {
	tbl := NewTable(2)

	slot, err := tbl.Insert(&stub{7})
	require.NoError(t, err)
	require.Equal(t, 0, slot)

	_, err = tbl.Insert(&stub{7})
	require.ErrorIs(t, err, ErrDuplicatePID)

	slot, err = tbl.Insert(&stub{8})
	require.NoError(t, err)
	require.Equal(t, 1, slot)

	_, err = tbl.Insert(&stub{9})
	require.ErrorIs(t, err, ErrTableFull)

	_, err = tbl.Insert(nil)
	require.ErrorIs(t, err, ErrNotAdmitted)
	require.False(t, tbl.Add(nil))
}

func TestTable_RemoveIsByIdentity(t *testing.T) {
	tbl := NewTable(3)
	a := &stub{1}
	require.True(t, tbl.Add(a))

	// same PID, different descriptor
	require.False(t, tbl.Remove(&stub{1}))
	require.False(t, tbl.Remove(nil))
	require.Equal(t, 1, tbl.Len())

	require.True(t, tbl.Remove(a))
	require.False(t, tbl.Remove(a))
	require.Zero(t, tbl.Len())
}

func TestTable_SlotsIsCopy(t *testing.T) {
	tbl := NewTable(2)
	require.True(t, tbl.Add(&stub{1}))

	slots := tbl.Slots()
	slots[0] = nil
	slots[1] = &stub{5}

	_, ok := tbl.Lookup(1)
	require.True(t, ok)
	_, ok = tbl.Lookup(5)
	require.False(t, ok)
}

func TestTable_Snapshot(t *testing.T) {
	tbl := NewTable(4)
	p := NewPCB(10, "a.out", 64, 32)
	p.SetStatus(Running)
	p.SetPC(72)

	require.True(t, tbl.Add(&stub{1}))
	require.True(t, tbl.Add(p))
	require.True(t, tbl.Remove(tbl.Slots()[0]))

	require.Equal(t, []Info{
		{PID: 10, Image: "a.out", Status: "running", Base: 64, Size: 32, PC: 72},
	}, tbl.Snapshot())

	require.True(t, tbl.Add(&stub{2}))
	snap := tbl.Snapshot()
	require.Len(t, snap, 2)
	require.Equal(t, Info{PID: 2}, snap[0])
}

func TestTable_ConcurrentAddRemove(t *testing.T) {
	tbl := NewTable(10)

	var wg sync.WaitGroup
	for w := range 20 {
		wg.Add(1)
		go func(pid int) {
			defer wg.Done()
			d := &stub{pid}
			for range 100 {
				if tbl.Add(d) {
					got, ok := tbl.Lookup(pid)
					if !ok || got != Descriptor(d) {
						t.Errorf("pid %d: lookup after add returned %v", pid, got)
						return
					}
					if !tbl.Remove(d) {
						t.Errorf("pid %d: remove after add failed", pid)
						return
					}
				}
			}
		}(w)
	}
	wg.Wait()

	require.Zero(t, tbl.Len())
	for _, s := range tbl.Slots() {
		require.Nil(t, s)
	}
}
