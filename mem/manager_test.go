package mem

import (
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/emumem/mem/dirty"
	"github.com/joshuapare/emumem/mem/region"
	"github.com/joshuapare/emumem/mem/space"
)

func newTestManager(t testing.TB, opts ...Option) *Manager {
	t.Helper()
	m, err := New(opts...)
	require.NoError(t, err)
	return m
}

func TestNew_Defaults(t *testing.T) {
	m := newTestManager(t)

	require.Equal(t, 512, m.Capacity())
	require.Equal(t, "first-fit", m.Strategy())
	require.True(t, m.IsFullyFree())
	require.Zero(t, m.AllocatedSize())
	require.Equal(t, []region.Region{{Start: 0, Length: 512}}, m.FreeRegions())
}

func TestNew_RejectsBadCapacity(t *testing.T) {
	for _, c := range []int{0, -1, math.MaxInt} {
		_, err := New(WithCapacity(c))
		require.ErrorIs(t, err, ErrCapacity, "capacity %d", c)
	}
}

func TestNew_Options(t *testing.T) {
	m := newTestManager(t, WithCapacity(64), WithStrategy(region.BestFit{}), WithStrategy(nil))
	require.Equal(t, 64, m.Capacity())
	require.Equal(t, "best-fit", m.Strategy())
}

// Scenarios A through D in one sequence.
func TestManager_Scenarios(t *testing.T) {
	m := newTestManager(t)

	// A
	addr, err := m.Alloc(100)
	require.NoError(t, err)
	require.Equal(t, 0, addr)
	require.Equal(t, []region.Region{{Start: 100, Length: 412}}, m.FreeRegions())
	require.Equal(t, []region.Region{{Start: 0, Length: 100}}, m.AllocatedRegions())
	require.Equal(t, 100, m.AllocatedSize())

	// B
	addr, err = m.Alloc(412)
	require.NoError(t, err)
	require.Equal(t, 100, addr)
	require.Empty(t, m.FreeRegions())
	require.False(t, m.IsFullyFree())

	addr, err = m.Alloc(1)
	require.NoError(t, err)
	require.Equal(t, region.NoAddress, addr)
	require.Equal(t, 512, m.AllocatedSize())

	// D: nothing changes on an unknown address
	before := m.Snapshot()
	require.ErrorIs(t, m.Free(50), region.ErrUnknownAddress)
	require.ErrorIs(t, m.Free(-4), region.ErrInvalidAddress)
	require.Equal(t, before, m.Snapshot())

	// C
	require.NoError(t, m.Free(0))
	require.Equal(t, 412, m.AllocatedSize())
	require.NoError(t, m.Free(100))
	require.Equal(t, []region.Region{{Start: 0, Length: 512}}, m.FreeRegions())
	require.True(t, m.IsFullyFree())
	require.Zero(t, m.AllocatedSize())
}

func TestManager_AllocInvalidSize(t *testing.T) {
	m := newTestManager(t)

	addr, err := m.Alloc(0)
	require.ErrorIs(t, err, region.ErrInvalidSize)
	require.Equal(t, region.NoAddress, addr)
	require.True(t, m.IsFullyFree())
}

func TestManager_WordRoundTrip(t *testing.T) {
	m := newTestManager(t)
	values := []int32{0, -1, 1, math.MaxInt32, math.MinInt32, 0x7F, -0x80}

	for _, a := range []int{0, 1, 100, 508} {
		for _, v := range values {
			require.NoError(t, m.WriteWord(a, v))
			got, err := m.ReadWord(a)
			require.NoError(t, err)
			require.Equal(t, v, got)
		}
	}

	_, err := m.ReadWord(509)
	require.ErrorIs(t, err, space.ErrOutOfBounds)
	require.ErrorIs(t, m.WriteByteAt(512, 0), space.ErrOutOfBounds)
}

func TestManager_AccessIgnoresOwnership(t *testing.T) {
	m := newTestManager(t, WithCapacity(32))

	// unallocated memory is still readable and writable
	require.NoError(t, m.WriteByteAt(31, 7))
	b, err := m.ReadByteAt(31)
	require.NoError(t, err)
	require.Equal(t, byte(7), b)

	// freeing does not clear contents
	base, err := m.Alloc(8)
	require.NoError(t, err)
	require.NoError(t, m.Write(base, []byte("program!")))
	require.NoError(t, m.Free(base))

	data, err := m.Read(base, 8)
	require.NoError(t, err)
	require.Equal(t, []byte("program!"), data)
}

func TestManager_RegionSizeAndFragmentation(t *testing.T) {
	m := newTestManager(t, WithCapacity(100))
	for range 4 {
		_, err := m.Alloc(25)
		require.NoError(t, err)
	}
	require.Zero(t, m.Fragmentation())

	size, ok := m.RegionSize(25)
	require.True(t, ok)
	require.Equal(t, 25, size)
	_, ok = m.RegionSize(26)
	require.False(t, ok)

	require.NoError(t, m.Free(0))
	require.NoError(t, m.Free(50))
	require.Equal(t, 50, m.FreeSize())
	require.Equal(t, 25, m.LargestFree())
	require.InDelta(t, 0.5, m.Fragmentation(), 1e-9)

	require.NoError(t, m.Free(25))
	require.Equal(t, 75, m.LargestFree())
	require.Zero(t, m.Fragmentation())
}

func TestManager_SnapshotIsCopy(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Alloc(10)
	require.NoError(t, err)

	snap := m.Snapshot()
	snap.Free[0].Length = 1
	snap.Allocated[0].Start = 99

	require.Equal(t, []region.Region{{Start: 10, Length: 502}}, m.FreeRegions())
	require.Equal(t, []region.Region{{Start: 0, Length: 10}}, m.AllocatedRegions())
	require.Equal(t, 512, snap.Capacity)
	require.Equal(t, 10, snap.AllocatedSize)
}

func TestManager_DirtyTracking(t *testing.T) {
	dt := dirty.NewTracker(512, 8)
	m := newTestManager(t, WithDirtyTracker(dt))

	base, err := m.Alloc(20)
	require.NoError(t, err)
	require.Empty(t, dt.Ranges(), "allocation alone writes nothing")

	require.NoError(t, m.Write(base, make([]byte, 20)))
	require.Equal(t, []dirty.Range{{Off: 0, Len: 24}}, dt.Drain())
}

func TestManager_Stats(t *testing.T) {
	m := newTestManager(t, WithCapacity(16))
	_, _ = m.Alloc(8)
	_, _ = m.Alloc(8)
	_, _ = m.Alloc(8)
	require.NoError(t, m.Free(8))

	st := m.Stats()
	assert.Equal(t, 3, st.AllocCalls)
	assert.Equal(t, 1, st.AllocFailures)
	assert.Equal(t, 1, st.Splits)
	assert.Equal(t, 1, st.ExactFits)
	assert.Equal(t, 1, st.FreeCalls)
	assert.Equal(t, 1, st.Appends)
}

// Concurrent allocators and observers: every observed snapshot must satisfy
// the invariants, and allocated regions must never be handed out twice.
func TestManager_ConcurrentAllocFree(t *testing.T) {
	m := newTestManager(t, WithCapacity(4096))

	const workers = 8
	const rounds = 300

	done := make(chan struct{})
	var observers sync.WaitGroup
	for range 2 {
		observers.Add(1)
		go func() {
			defer observers.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				snap := m.Snapshot()
				if err := region.Verify(snap.Capacity, snap.Free, snap.Allocated); err != nil {
					t.Errorf("torn snapshot: %v", err)
					return
				}
				sum := 0
				for _, r := range snap.Allocated {
					sum += r.Length
				}
				if sum != snap.AllocatedSize {
					t.Errorf("allocated size %d does not match regions %d", snap.AllocatedSize, sum)
					return
				}
			}
		}()
	}

	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			var mine []int
			for range rounds {
				if rng.Intn(3) > 0 {
					size := 4 + rng.Intn(61)
					addr, err := m.Alloc(size)
					if err != nil {
						t.Errorf("alloc: %v", err)
						return
					}
					if addr == region.NoAddress {
						continue
					}
					// stamp the region; the race detector flags a double hand-out
					if err := m.WriteWord(addr, int32(seed)); err != nil {
						t.Errorf("write: %v", err)
						return
					}
					mine = append(mine, addr)
				} else if len(mine) > 0 {
					addr := mine[len(mine)-1]
					mine = mine[:len(mine)-1]
					if err := m.Free(addr); err != nil {
						t.Errorf("free %d: %v", addr, err)
						return
					}
				}
			}
			for _, addr := range mine {
				if err := m.Free(addr); err != nil {
					t.Errorf("free %d: %v", addr, err)
				}
			}
		}(int64(w + 1))
	}
	wg.Wait()
	close(done)
	observers.Wait()

	require.True(t, m.IsFullyFree())
	require.Equal(t, []region.Region{{Start: 0, Length: 4096}}, m.FreeRegions())
	require.NoError(t, m.Verify())
}
