package dirty

// DirtyTracker is the minimal interface for tracking written byte ranges.
// The address space only needs to notify; draining is up to observers.
type DirtyTracker interface {
	// Add marks a byte range as dirty.
	// off is the offset from the start of the address space, length is the number of bytes.
	Add(off, length int)
}
