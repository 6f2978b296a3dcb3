package format

import "encoding/binary"

// Binary encoding utilities for little-endian words.
//
// Simulated memory stores 32-bit words as four consecutive bytes, least
// significant byte first. These helpers do not bounds-check beyond what the
// slice expression enforces; use InRange first when the offset is untrusted.

// WordSize is the number of bytes occupied by one machine word.
const WordSize = 4

// PutI32 writes an int32 value to the buffer at the specified offset in little-endian format.
func PutI32(b []byte, off int, v int32) {
	binary.LittleEndian.PutUint32(b[off:off+WordSize], uint32(v))
}

// ReadI32 reads an int32 value from the buffer at the specified offset in little-endian format.
func ReadI32(b []byte, off int) int32 {
	return int32(binary.LittleEndian.Uint32(b[off : off+WordSize]))
}

// InRange reports whether the n bytes starting at off lie inside a buffer of
// the given length. Negative offsets and negative counts are never in range.
func InRange(length, off, n int) bool {
	return off >= 0 && n >= 0 && off <= length && n <= length-off
}
