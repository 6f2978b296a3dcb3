// Package dirty tracks which parts of the simulated address space have been
// written since an observer last looked.
//
// # Overview
//
// The address space forwards every successful write to a DirtyTracker. The
// Tracker implementation rounds each write out to whole blocks and sets one
// bit per block, so recording a write is a couple of atomic ORs and never
// takes a lock. Raw memory access stays unserialized, as on real hardware.
//
// Observers call Ranges to peek at the dirty blocks, or Drain to take and
// clear them in one pass. Both coalesce neighbouring dirty blocks into
// contiguous byte ranges:
//
//	t := dirty.NewTracker(512, 4)
//	t.Add(10, 4)  // marks blocks 2 and 3
//	t.Add(16, 1)  // marks block 4
//	t.Drain()     // [{Off: 8, Len: 12}]
//
// # Thread Safety
//
// Add, Ranges, Dirty and Drain may be called concurrently. A write racing
// with Drain lands either in the drained set or in the next one, never in
// neither.
package dirty
