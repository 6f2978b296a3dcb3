package monitor

import (
	"slices"
	"sync"

	"github.com/joshuapare/emumem/pkg/types"
)

// Series is a fixed-width sliding window of samples. Pushing shifts every
// sample one place toward the front and stores the new one last.
type Series struct {
	mu     sync.Mutex
	values []int
}

// NewSeries creates a zero-filled series of n samples. A non-positive n
// selects types.SeriesLength.
func NewSeries(n int) *Series {
	if n <= 0 {
		n = types.SeriesLength
	}
	return &Series{values: make([]int, n)}
}

// Push appends v, dropping the oldest sample.
func (s *Series) Push(v int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy(s.values, s.values[1:])
	s.values[len(s.values)-1] = v
}

// Values returns a copy of the samples, oldest first.
func (s *Series) Values() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.values)
}

// Last returns the newest sample.
func (s *Series) Last() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[len(s.values)-1]
}

// Max returns the largest sample in the window.
func (s *Series) Max() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Max(s.values)
}

// Len returns the window width.
func (s *Series) Len() int { return len(s.values) }
