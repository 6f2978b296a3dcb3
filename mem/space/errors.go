package space

import "errors"

// ErrOutOfBounds indicates a byte or word access outside the address space.
var ErrOutOfBounds = errors.New("space: address out of bounds")
