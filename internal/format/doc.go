// Package format houses the low-level byte layout helpers shared by the
// address space and its observers: little-endian word encoding, range checks,
// and alignment. Everything here operates on plain byte slices and performs no
// allocation, so the callers decide how to lock and how to report errors.
package format
