package monitor

import (
	"strings"

	"github.com/joshuapare/emumem/internal/format"
	"github.com/joshuapare/emumem/mem"
	"github.com/joshuapare/emumem/pkg/types"
)

// BlockState is the display state of one map block.
type BlockState uint8

const (
	BlockFree BlockState = iota
	BlockUsed
)

func (b BlockState) String() string {
	if b == BlockUsed {
		return "used"
	}
	return "free"
}

// MarshalText encodes the state by name, so Map.Blocks marshals as a JSON
// array of strings rather than base64.
func (b BlockState) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// Map divides the address space into Cols*Rows equal blocks. Blocks need not
// be a whole number of bytes.
type Map struct {
	Cols          int          `json:"cols"`
	Rows          int          `json:"rows"`
	BytesPerBlock float64      `json:"bytes_per_block"`
	Blocks        []BlockState `json:"blocks"` // Row-major
}

// MemoryMap builds the block map for snap. A block is used when any
// allocated region overlaps it. Non-positive dimensions select the default
// 16 x 8 geometry.
func MemoryMap(snap mem.Snapshot, cols, rows int) Map {
	if cols <= 0 || rows <= 0 {
		cols, rows = types.MapColumns, types.MapRows
	}
	n := cols * rows
	m := Map{
		Cols:   cols,
		Rows:   rows,
		Blocks: make([]BlockState, n),
	}
	if snap.Capacity <= 0 {
		return m
	}
	m.BytesPerBlock = float64(snap.Capacity) / float64(n)

	// block i spans [i*cap/n, (i+1)*cap/n); compare in integers scaled by n
	for _, r := range snap.Allocated {
		first := r.Start * n / snap.Capacity
		last := min(format.CeilDiv(r.End()*n, snap.Capacity)-1, n-1)
		for b := first; b <= last; b++ {
			m.Blocks[b] = BlockUsed
		}
	}
	return m
}

// At returns the state of the block at row, col.
func (m Map) At(row, col int) BlockState { return m.Blocks[row*m.Cols+col] }

// Used returns the number of used blocks.
func (m Map) Used() int {
	used := 0
	for _, b := range m.Blocks {
		if b == BlockUsed {
			used++
		}
	}
	return used
}

// String renders the map one row per line, '#' for used and '.' for free.
func (m Map) String() string {
	var sb strings.Builder
	for row := range m.Rows {
		for col := range m.Cols {
			if m.At(row, col) == BlockUsed {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
