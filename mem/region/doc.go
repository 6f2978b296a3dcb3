// Package region provides free/allocated region bookkeeping for the simulated
// address space.
//
// # Overview
//
// A Ledger owns two collections of half-open byte ranges:
//
//   - free regions, sorted by ascending start address and never adjacent to
//     one another
//   - allocated regions, one per successful Allocate, in allocation order
//
// Together they tile [0, capacity) exactly: no overlaps, no gaps.
//
// # Allocation
//
// Allocate asks the ledger's Strategy which free region to carve from, then
// splits it: the low bytes become the new allocated region and the remainder
// stays free in place. A free region consumed exactly is removed.
//
// Running out of space is an ordinary outcome, not an error:
//
//	addr, err := l.Allocate(100)
//	if err != nil {
//	    return err // bad size: a caller bug
//	}
//	if addr == region.NoAddress {
//	    // fragmented or full; back off and retry later
//	}
//
// # Strategies
//
//   - FirstFit: lowest-addressed region that is large enough (default)
//   - NextFit: like FirstFit, but resumes scanning where the previous
//     allocation ended and wraps around once
//   - BestFit: smallest region that is large enough, lowest address on ties
//
// Strategies only search; splitting and coalescing are the ledger's job, so a
// new strategy cannot break the ledger's invariants.
//
// # Release and Coalescing
//
// Release walks the free list in address order and stops at the first free
// region that decides the outcome:
//
//	MergedBelow  free region ends where the released one starts
//	MergedBoth   as above, and the next free region starts where it now ends
//	MergedAbove  released region ends where the free region starts
//	Inserted     released region ends before the free region starts
//	Appended     no free region lies above the released one
//
// # Thread Safety
//
// Ledger instances are not thread-safe. The mem package serializes every
// Allocate and Release under one lock so the split and merge edits happen as
// a single transaction.
//
// # Related Packages
//
//   - github.com/joshuapare/emumem/mem: Manager façade that owns a Ledger
//   - github.com/joshuapare/emumem/mem/space: the bytes the regions describe
package region
