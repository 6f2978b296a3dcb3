package monitor

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/joshuapare/emumem/internal/logger"
)

// Source is what a Sampler polls; *mem.Manager satisfies it.
type Source interface {
	AllocatedSize() int
}

// Sampler polls a Source's allocated size into a Series.
type Sampler struct {
	src     Source
	series  *Series
	samples atomic.Int64
}

// NewSampler creates a sampler keeping the last n samples.
func NewSampler(src Source, n int) *Sampler {
	return &Sampler{src: src, series: NewSeries(n)}
}

// Sample takes one reading now and returns it.
func (s *Sampler) Sample() int {
	v := s.src.AllocatedSize()
	s.series.Push(v)
	s.samples.Add(1)
	return v
}

// Run samples every interval until ctx is done, then returns ctx.Err().
func (s *Sampler) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Debug("sampler started", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			logger.Debug("sampler stopped", "samples", s.samples.Load())
			return ctx.Err()
		case <-ticker.C:
			s.Sample()
		}
	}
}

// Series returns the sample window.
func (s *Sampler) Series() *Series { return s.series }

// Count returns how many samples have been taken.
func (s *Sampler) Count() int64 { return s.samples.Load() }
