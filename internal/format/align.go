package format

// Block arithmetic for block-granular bookkeeping (dirty tracking and the
// monitor's memory map). Block counts here are chosen at construction time,
// so they need not be powers of two.

// CeilDiv returns ceil(n / d) for non-negative n and positive d.
//
// Example:
//
//	CeilDiv(13, 4) = 4
//	CeilDiv(12, 4) = 3
func CeilDiv(n, d int) int {
	return (n + d - 1) / d
}
