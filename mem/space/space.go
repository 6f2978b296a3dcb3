// Package space implements the simulated physical memory: a fixed-size,
// zero-initialized byte buffer with byte and little-endian word access.
//
// Access is not synchronized. Like unprotected physical memory, concurrent
// writers to the same bytes race, and nothing prevents reads or writes to
// bytes that are not currently allocated to anyone.
package space

import (
	"fmt"

	"github.com/joshuapare/emumem/internal/format"
	"github.com/joshuapare/emumem/mem/dirty"
)

// Space is a fixed-size byte-addressable memory.
type Space struct {
	buf []byte
	dt  dirty.DirtyTracker // Optional; notified of every successful write
}

// New creates a zero-filled address space of size bytes. The dirty tracker
// may be nil.
func New(size int, dt dirty.DirtyTracker) *Space {
	if size < 0 {
		size = 0
	}
	return &Space{buf: make([]byte, size), dt: dt}
}

// Size returns the capacity in bytes.
func (s *Space) Size() int { return len(s.buf) }

// ReadByteAt returns the byte at addr.
func (s *Space) ReadByteAt(addr int) (byte, error) {
	if err := s.check(addr, 1); err != nil {
		return 0, err
	}
	return s.buf[addr], nil
}

// WriteByteAt stores value at addr.
func (s *Space) WriteByteAt(addr int, value byte) error {
	if err := s.check(addr, 1); err != nil {
		return err
	}
	s.buf[addr] = value
	s.mark(addr, 1)
	return nil
}

// ReadWord reconstructs the 32-bit little-endian word at addr..addr+3.
func (s *Space) ReadWord(addr int) (int32, error) {
	if err := s.check(addr, format.WordSize); err != nil {
		return 0, err
	}
	return format.ReadI32(s.buf, addr), nil
}

// WriteWord stores value little-endian at addr..addr+3.
func (s *Space) WriteWord(addr int, value int32) error {
	if err := s.check(addr, format.WordSize); err != nil {
		return err
	}
	format.PutI32(s.buf, addr, value)
	s.mark(addr, format.WordSize)
	return nil
}

// Read copies n bytes starting at addr into a new slice.
func (s *Space) Read(addr, n int) ([]byte, error) {
	if err := s.check(addr, n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, s.buf[addr:addr+n])
	return out, nil
}

// Write copies data into memory starting at addr. Nothing is written unless
// the whole run fits.
func (s *Space) Write(addr int, data []byte) error {
	if err := s.check(addr, len(data)); err != nil {
		return err
	}
	copy(s.buf[addr:], data)
	s.mark(addr, len(data))
	return nil
}

func (s *Space) check(addr, n int) error {
	if !format.InRange(len(s.buf), addr, n) {
		return fmt.Errorf("%w: [%d, %d) outside [0, %d)", ErrOutOfBounds, addr, addr+n, len(s.buf))
	}
	return nil
}

func (s *Space) mark(addr, n int) {
	if s.dt != nil && n > 0 {
		s.dt.Add(addr, n)
	}
}
