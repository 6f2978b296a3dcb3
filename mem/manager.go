package mem

import (
	"errors"
	"fmt"
	"sync"

	"github.com/joshuapare/emumem/internal/logger"
	"github.com/joshuapare/emumem/mem/region"
	"github.com/joshuapare/emumem/mem/space"
	"github.com/joshuapare/emumem/pkg/types"
)

// ErrCapacity indicates a capacity outside (0, types.MaxCapacity].
var ErrCapacity = errors.New("mem: capacity out of range")

// Manager serializes allocation and release over one address space.
type Manager struct {
	mu     sync.Mutex // Guards ledger
	ledger *region.Ledger
	space  *space.Space
}

// Snapshot is a mutually consistent copy of the region bookkeeping.
type Snapshot struct {
	Capacity      int             `json:"capacity"`
	AllocatedSize int             `json:"allocated_size"`
	Free          []region.Region `json:"free"`
	Allocated     []region.Region `json:"allocated"`
}

// New creates a Manager. Without options it has types.DefaultCapacity bytes
// and allocates first-fit.
func New(opts ...Option) (*Manager, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.capacity <= 0 || cfg.capacity > types.MaxCapacity {
		return nil, fmt.Errorf("%w: %d", ErrCapacity, cfg.capacity)
	}

	ledger, err := region.NewLedger(cfg.capacity, cfg.strategy)
	if err != nil {
		return nil, err
	}
	return &Manager{
		ledger: ledger,
		space:  space.New(cfg.capacity, cfg.tracker),
	}, nil
}

// Alloc reserves size contiguous bytes and returns their base address.
// When no free region is large enough it returns region.NoAddress and a nil
// error; a non-positive size fails with region.ErrInvalidSize.
func (m *Manager) Alloc(size int) (int, error) {
	m.mu.Lock()
	addr, err := m.ledger.Allocate(size)
	m.mu.Unlock()

	switch {
	case err != nil:
		logger.Warn("alloc rejected", "size", size, "err", err)
	case addr == region.NoAddress:
		logger.Debug("alloc exhausted", "size", size)
	default:
		logger.Debug("alloc", "size", size, "addr", addr)
	}
	return addr, err
}

// Free releases the region that Alloc returned at addr. Freeing an address
// that does not start an allocated region fails with
// region.ErrUnknownAddress and changes nothing.
func (m *Manager) Free(addr int) error {
	m.mu.Lock()
	r, outcome, err := m.ledger.Release(addr)
	m.mu.Unlock()

	if err != nil {
		logger.Warn("free rejected", "addr", addr, "err", err)
		return err
	}
	logger.Debug("free", "addr", addr, "size", r.Length, "outcome", outcome.String())
	return nil
}

// ReadByteAt returns the byte at addr.
func (m *Manager) ReadByteAt(addr int) (byte, error) { return m.space.ReadByteAt(addr) }

// WriteByteAt stores value at addr.
func (m *Manager) WriteByteAt(addr int, value byte) error { return m.space.WriteByteAt(addr, value) }

// ReadWord returns the little-endian 32-bit word at addr.
func (m *Manager) ReadWord(addr int) (int32, error) { return m.space.ReadWord(addr) }

// WriteWord stores value little-endian at addr.
func (m *Manager) WriteWord(addr int, value int32) error { return m.space.WriteWord(addr, value) }

// Read copies n bytes starting at addr.
func (m *Manager) Read(addr, n int) ([]byte, error) { return m.space.Read(addr, n) }

// Write copies data into memory starting at addr, all or nothing.
func (m *Manager) Write(addr int, data []byte) error { return m.space.Write(addr, data) }

// Capacity returns the address space size in bytes.
func (m *Manager) Capacity() int { return m.space.Size() }

// AllocatedSize returns the number of bytes currently allocated.
func (m *Manager) AllocatedSize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ledger.AllocatedSize()
}

// FreeSize returns the number of bytes currently free.
func (m *Manager) FreeSize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ledger.FreeSize()
}

// LargestFree returns the largest request that would currently succeed.
func (m *Manager) LargestFree() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ledger.LargestFree()
}

// Fragmentation returns 1 - largestFree/freeSize: 0 when the free bytes are
// one region (or there are none), approaching 1 as they scatter.
func (m *Manager) Fragmentation() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	free := m.ledger.FreeSize()
	if free == 0 {
		return 0
	}
	return 1 - float64(m.ledger.LargestFree())/float64(free)
}

// IsFullyFree reports whether no region is allocated.
func (m *Manager) IsFullyFree() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ledger.Empty()
}

// RegionSize returns the length of the allocated region starting at addr.
func (m *Manager) RegionSize(addr int) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.ledger.Lookup(addr)
	return r.Length, ok
}

// FreeRegions returns a copy of the free list, sorted by address.
func (m *Manager) FreeRegions() []region.Region {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ledger.Free()
}

// AllocatedRegions returns a copy of the allocated regions in allocation order.
func (m *Manager) AllocatedRegions() []region.Region {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ledger.Allocated()
}

// Snapshot copies both region lists and the allocated size under one lock.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Capacity:      m.ledger.Capacity(),
		AllocatedSize: m.ledger.AllocatedSize(),
		Free:          m.ledger.Free(),
		Allocated:     m.ledger.Allocated(),
	}
}

// Stats returns the allocation counters.
func (m *Manager) Stats() region.Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ledger.Stats()
}

// Strategy returns the name of the active allocation strategy.
func (m *Manager) Strategy() string {
	if s, ok := m.ledger.Strategy().(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", m.ledger.Strategy())
}

// Verify checks the region invariants.
func (m *Manager) Verify() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ledger.Verify()
}
