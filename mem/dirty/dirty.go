package dirty

import (
	"math/bits"
	"sync/atomic"

	"github.com/joshuapare/emumem/internal/format"
	"github.com/joshuapare/emumem/pkg/types"
)

const wordBits = 64

// Range represents a dirty byte range within the address space.
type Range struct {
	Off int // Offset of the first dirty byte (block aligned)
	Len int // Length in bytes
}

// End returns the offset one past the last byte of the range.
func (r Range) End() int { return r.Off + r.Len }

// Tracker accumulates dirty blocks in an atomic bitset.
type Tracker struct {
	size      int // Address space size in bytes
	blockSize int // Bytes per tracked block
	blocks    int // Number of tracked blocks
	bits      []atomic.Uint64
}

var _ DirtyTracker = (*Tracker)(nil)

// NewTracker creates a tracker for an address space of size bytes.
// A blockSize <= 0 selects types.DefaultDirtyBlockSize.
func NewTracker(size, blockSize int) *Tracker {
	if blockSize <= 0 {
		blockSize = types.DefaultDirtyBlockSize
	}
	if size < 0 {
		size = 0
	}
	blocks := format.CeilDiv(size, blockSize)
	return &Tracker{
		size:      size,
		blockSize: blockSize,
		blocks:    blocks,
		bits:      make([]atomic.Uint64, format.CeilDiv(blocks, wordBits)),
	}
}

// BlockSize returns the tracking granularity in bytes.
func (t *Tracker) BlockSize() int { return t.blockSize }

// Add records a dirty range. Parts of the range outside the address space
// are ignored, as are empty ranges.
func (t *Tracker) Add(off, length int) {
	end := off + length
	if off < 0 {
		off = 0
	}
	if end > t.size {
		end = t.size
	}
	if length <= 0 || off >= end {
		return
	}

	first := off / t.blockSize
	last := (end - 1) / t.blockSize
	for b := first; b <= last; {
		w := b / wordBits
		lo := uint(b % wordBits)
		hi := uint(wordBits - 1)
		if last/wordBits == w {
			hi = uint(last % wordBits)
		}
		mask := (^uint64(0) >> (wordBits - 1 - hi)) &^ (uint64(1)<<lo - 1)
		t.bits[w].Or(mask)
		b = (w + 1) * wordBits
	}
}

// Dirty reports whether the block containing off has been written since the
// last Drain.
func (t *Tracker) Dirty(off int) bool {
	if off < 0 || off >= t.size {
		return false
	}
	b := off / t.blockSize
	return t.bits[b/wordBits].Load()&(1<<uint(b%wordBits)) != 0
}

// Ranges returns the coalesced dirty ranges without clearing them.
func (t *Tracker) Ranges() []Range {
	snap := make([]uint64, len(t.bits))
	for i := range t.bits {
		snap[i] = t.bits[i].Load()
	}
	return t.coalesce(snap)
}

// Drain returns the coalesced dirty ranges and clears them.
func (t *Tracker) Drain() []Range {
	snap := make([]uint64, len(t.bits))
	for i := range t.bits {
		snap[i] = t.bits[i].Swap(0)
	}
	return t.coalesce(snap)
}

// Reset clears all dirty blocks.
func (t *Tracker) Reset() {
	for i := range t.bits {
		t.bits[i].Store(0)
	}
}

// coalesce turns a bitset into sorted, non-overlapping, non-adjacent ranges.
func (t *Tracker) coalesce(set []uint64) []Range {
	var out []Range
	run := -1 // first block of the current run, -1 when outside a run
	next := 0 // block just past the current run
	emit := func() {
		off := run * t.blockSize
		end := min(next*t.blockSize, t.size)
		out = append(out, Range{Off: off, Len: end - off})
	}

	for w, word := range set {
		for word != 0 {
			b := w*wordBits + bits.TrailingZeros64(word)
			word &= word - 1
			if b >= t.blocks {
				break
			}
			if run >= 0 && b == next {
				next++
				continue
			}
			if run >= 0 {
				emit()
			}
			run, next = b, b+1
		}
	}
	if run >= 0 {
		emit()
	}
	return out
}
