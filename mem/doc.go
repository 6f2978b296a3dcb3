// Package mem simulates the flat physical memory shared by the processes of a
// teaching operating system.
//
// A Manager owns three things: a zero-filled byte buffer (package space), a
// ledger of free and allocated regions (package region), and the strategy
// the ledger uses to pick a free region. Collaborators use it like this:
//
//	m, err := mem.New(mem.WithCapacity(512))
//	if err != nil {
//	    return err
//	}
//
//	base, err := m.Alloc(len(image))
//	if err != nil {
//	    return err // non-positive size: a caller bug
//	}
//	if base == region.NoAddress {
//	    // out of contiguous space; requeue the process
//	}
//	_ = m.Write(base, image)
//	...
//	_ = m.Free(base)
//
// # Concurrency
//
// Alloc, Free and every accessor that reads the ledger take one exclusive
// lock, so observers never see a half-finished split or merge. Raw byte and
// word access does not take that lock: like unprotected RAM, concurrent
// access to the same bytes is the callers' race, and the manager does not
// check that an address belongs to the caller's region.
package mem
