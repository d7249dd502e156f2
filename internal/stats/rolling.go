// Package stats implements the rolling-window accumulators backing the
// cache hit-rate and byte-hit-rate counters.
package stats

import (
	"gonum.org/v1/gonum/stat"
)

// Rolling keeps the most recent N samples in a ring and reports their mean.
// Not safe for concurrent use; the cache mutates and reads it under its
// guard.
type Rolling struct {
	samples []float64
	next    int
	full    bool
}

func NewRolling(window uint32) *Rolling {
	if window == 0 {
		window = 1
	}
	return &Rolling{samples: make([]float64, window)}
}

// Record appends one sample, displacing the oldest once the window is full.
func (r *Rolling) Record(sample float64) {
	r.samples[r.next] = sample
	r.next++
	if r.next == len(r.samples) {
		r.next = 0
		r.full = true
	}
}

// Mean returns the mean of the recorded samples, or 0 before the first
// sample.
func (r *Rolling) Mean() float64 {
	view := r.view()
	if len(view) == 0 {
		return 0
	}
	return stat.Mean(view, nil)
}

// Reset drops every sample.
func (r *Rolling) Reset() {
	r.next = 0
	r.full = false
}

// Window returns the configured window size.
func (r *Rolling) Window() uint32 {
	return uint32(len(r.samples))
}

func (r *Rolling) view() []float64 {
	if r.full {
		return r.samples
	}
	return r.samples[:r.next]
}
