package types

// ============================================================================
// Memory Subsystem Defaults
// ============================================================================
// These constants are the construction-time defaults. Nothing reconfigures a
// running manager or table; pass explicit values at construction to override.

const (
	// DefaultCapacity is the size in bytes of the simulated user address space.
	DefaultCapacity = 512

	// DefaultProcessSlots is the number of process descriptor slots.
	DefaultProcessSlots = 10

	// MaxCapacity bounds the address space so every offset and word fits in
	// an int32 program counter.
	MaxCapacity = 1 << 30
)

// ============================================================================
// Observer Geometry
// ============================================================================

const (
	// MapColumns is the width of the memory usage map in blocks.
	MapColumns = 16

	// MapRows is the height of the memory usage map in blocks.
	MapRows = MapColumns / 2

	// MapBlocks is the total number of blocks the address space is divided into.
	MapBlocks = MapColumns * MapRows

	// SeriesLength is the number of samples kept by usage series.
	SeriesLength = 30

	// DefaultDirtyBlockSize is the granularity of dirty tracking in bytes.
	DefaultDirtyBlockSize = 4
)
