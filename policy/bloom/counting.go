package bloom

import "math"

// CountingFilter is a counting bloom filter: a count-min style frequency
// estimator over a fixed slot table. Increments are conservative, so the
// estimate is an upper bound on the true count that only collisions can
// inflate.
type CountingFilter struct {
	cardinality uint32
	counters    []uint32
	nbHashes    int
	nbNonzero   int // non-zero slots, tracked for Saturation
}

func NewCountingFilter(cardinality uint32) *CountingFilter {
	if cardinality == 0 {
		cardinality = 1
	}
	size := optimalFilterSize(cardinality)
	return &CountingFilter{
		cardinality: cardinality,
		counters:    make([]uint32, size),
		nbHashes:    optimalNbOfHashFunctions(cardinality, size),
	}
}

// Add observes one occurrence of the hash. Conservative increment: only the
// slots currently holding the minimum of the k probed counters are bumped,
// which bounds over-counting caused by collisions.
func (f *CountingFilter) Add(h uint64) {
	mix := newMixer(h, len(f.counters))

	indices := make([]int, f.nbHashes)
	minimum := uint32(math.MaxUint32)
	for i := range indices {
		idx := mix.next()
		indices[i] = idx
		if f.counters[idx] < minimum {
			minimum = f.counters[idx]
		}
	}

	for _, idx := range indices {
		if f.counters[idx] == minimum {
			f.counters[idx]++
			if minimum == 0 {
				f.nbNonzero++
			}
		}
	}
}

// Estimate returns the minimum of the k probed counters: an upper bound on
// the number of times the hash was added since the last Clear, modulo decay.
func (f *CountingFilter) Estimate(h uint64) uint32 {
	mix := newMixer(h, len(f.counters))

	minimum := uint32(math.MaxUint32)
	for i := 0; i < f.nbHashes; i++ {
		if c := f.counters[mix.next()]; c < minimum {
			minimum = c
		}
	}
	return minimum
}

// Clear zeroes every counter.
func (f *CountingFilter) Clear() {
	for i := range f.counters {
		f.counters[i] = 0
	}
	f.nbNonzero = 0
}

// Decay halves every counter, aging out stale frequency information while
// preserving the relative order of hot and cold keys.
func (f *CountingFilter) Decay() {
	for i, c := range f.counters {
		if c == 1 {
			f.nbNonzero--
		}
		f.counters[i] = c / 2
	}
}

// Saturation is the fraction of non-zero slots, in [0, 1].
func (f *CountingFilter) Saturation() float64 {
	return float64(f.nbNonzero) / float64(len(f.counters))
}

// Cardinality returns the expected cardinality the filter was sized for.
// TinyLFU uses it as the decay trigger threshold.
func (f *CountingFilter) Cardinality() uint32 { return f.cardinality }

// MemoryUsed returns the filter footprint in bytes.
func (f *CountingFilter) MemoryUsed() uint64 {
	return uint64(len(f.counters)*4) + uint64(16) // counter table + bookkeeping
}
