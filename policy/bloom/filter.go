// Package bloom implements the fixed-size probabilistic sets backing the
// frequency-aware policies: a plain bloom filter for membership and a
// counting bloom filter for frequency estimation with halving decay.
//
// Both filters are keyed by a precomputed 64-bit hash rather than by the key
// itself; callers apply their hash.Hasher first. All probe indices for one
// hash come from the same seeded LCG stream, so a membership check probes
// exactly the slots an earlier add touched.
package bloom

// Filter is a plain bloom filter: no false negatives, bounded false
// positives. Bits are packed 64 per word.
type Filter struct {
	cardinality uint32
	bits        []uint64
	size        int // addressable bits, m
	nbHashes    int // probes per operation, k
	nbSet       int // set bits, tracked for Saturation
}

func NewFilter(cardinality uint32) *Filter {
	if cardinality == 0 {
		cardinality = 1
	}
	size := optimalFilterSize(cardinality)
	return &Filter{
		cardinality: cardinality,
		bits:        make([]uint64, (size+63)/64),
		size:        size,
		nbHashes:    optimalNbOfHashFunctions(cardinality, size),
	}
}

// Add marks the hash as seen. Every subsequent MaybeContains for the same
// hash returns true until Clear.
func (f *Filter) Add(h uint64) {
	mix := newMixer(h, f.size)
	for i := 0; i < f.nbHashes; i++ {
		idx := mix.next()
		if !f.get(idx) {
			f.set(idx)
			f.nbSet++
		}
	}
}

// MaybeContains reports whether the hash may have been added since the last
// Clear. False means definitely not present.
func (f *Filter) MaybeContains(h uint64) bool {
	mix := newMixer(h, f.size)
	for i := 0; i < f.nbHashes; i++ {
		if !f.get(mix.next()) {
			return false
		}
	}
	return true
}

// Clear resets the filter to empty.
func (f *Filter) Clear() {
	for i := range f.bits {
		f.bits[i] = 0
	}
	f.nbSet = 0
}

// Saturation is the fraction of set bits, in [0, 1]. A saturation close to 1
// means the filter answers true for almost everything and should be resized
// or cleared.
func (f *Filter) Saturation() float64 {
	return float64(f.nbSet) / float64(f.size)
}

// MemoryUsed returns the filter footprint in bytes.
func (f *Filter) MemoryUsed() uint64 {
	return uint64(len(f.bits)*8) + uint64(8) // bit array + probe count
}

// Cardinality returns the expected cardinality the filter was sized for.
func (f *Filter) Cardinality() uint32 { return f.cardinality }

func (f *Filter) get(idx int) bool {
	return f.bits[idx>>6]&(1<<(uint(idx)&63)) != 0
}

func (f *Filter) set(idx int) {
	f.bits[idx>>6] |= 1 << (uint(idx) & 63)
}
