package eviction

import (
	"iter"
	"sort"

	"github.com/Borislavv/go-policy-cache/hash"
	"github.com/Borislavv/go-policy-cache/model"
	"github.com/Borislavv/go-policy-cache/policy"
	"github.com/Borislavv/go-policy-cache/policy/bloom"
)

// DefaultGDSFCardinality sizes the private frequency sketch.
const DefaultGDSFCardinality uint32 = 2000

// CostFunc returns the cost of loading an item into cache. It must be
// positive; typical choices are a constant, the item size, or a measured
// load latency.
type CostFunc[K comparable, V any] func(key K, item *model.Item[K, V]) float64

// ConstantCost assigns every item the same cost, reducing GDSF to a
// frequency/size trade-off.
func ConstantCost[K comparable, V any](cost float64) CostFunc[K, V] {
	return func(K, *model.Item[K, V]) float64 { return cost }
}

// GDSF (Greedy-Dual-Size-Frequency) orders keys by the coefficient
//
//	H(key, item) = clock + frequency(key) * cost(key, item) / item.TotalSize
//
// and evicts the smallest coefficient first: small, expensive, hot items
// rise; large, cheap, cold items sink. The clock holds the largest
// coefficient ever evicted, so newly inserted items always start above
// everything already evicted and cannot be starved forever.
type GDSF[K comparable, V any] struct {
	policy.Base[K, V]

	hasher hash.Hasher[K]
	cost   CostFunc[K, V]
	sketch *bloom.CountingFilter

	// entries is kept sorted by ascending coefficient; index maps each key
	// to its current coefficient so an exact entry can be located again.
	entries []gdsfEntry[K]
	index   map[K]float64
	clock   float64
}

type gdsfEntry[K comparable] struct {
	key         K
	coefficient float64
}

func NewGDSF[K comparable, V any](hasher hash.Hasher[K], cost CostFunc[K, V]) *GDSF[K, V] {
	g := &GDSF[K, V]{
		hasher: hasher,
		cost:   cost,
		index:  make(map[K]float64),
	}
	g.SetCardinality(DefaultGDSFCardinality)
	return g
}

// SetCardinality rebuilds the frequency sketch for the given expected
// cardinality, discarding all frequency state.
func (p *GDSF[K, V]) SetCardinality(cardinality uint32) {
	p.sketch = bloom.NewCountingFilter(cardinality)
}

func (p *GDSF[K, V]) OnInsert(key K, item *model.Item[K, V]) {
	p.sketch.Add(p.hasher.Hash(key))
	coefficient := p.coefficient(key, item)
	p.insertEntry(gdsfEntry[K]{key: key, coefficient: coefficient})
	p.index[key] = coefficient
}

// OnCacheHit re-ranks the entry: the old coefficient is dropped and the
// insert action runs again, so frequency, cost and size changes all compose
// into the new coefficient.
func (p *GDSF[K, V]) OnCacheHit(key K, item *model.Item[K, V]) {
	p.removeEntry(key)
	p.OnInsert(key, item)
}

func (p *GDSF[K, V]) OnUpdate(key K, _, new *model.Item[K, V]) {
	p.OnCacheHit(key, new)
}

func (p *GDSF[K, V]) OnEvict(key K, _ *model.Item[K, V]) {
	coefficient, ok := p.index[key]
	if !ok {
		panic("eviction/gdsf: evicting an untracked key")
	}
	if coefficient > p.clock {
		p.clock = coefficient
	}
	p.removeEntry(key)
	delete(p.index, key)
}

func (p *GDSF[K, V]) Clear() {
	p.entries = p.entries[:0]
	clear(p.index)
	p.sketch.Clear()
	p.clock = 0
}

// Victims yields keys by ascending coefficient.
func (p *GDSF[K, V]) Victims() iter.Seq[K] {
	return func(yield func(K) bool) {
		for i := range p.entries {
			if !yield(p.entries[i].key) {
				return
			}
		}
	}
}

// Len returns the number of tracked keys.
func (p *GDSF[K, V]) Len() int { return len(p.entries) }

// Clock exposes the inflation clock for diagnostics.
func (p *GDSF[K, V]) Clock() float64 { return p.clock }

func (p *GDSF[K, V]) coefficient(key K, item *model.Item[K, V]) float64 {
	frequency := float64(p.sketch.Estimate(p.hasher.Hash(key)))
	return p.clock + frequency*p.cost(key, item)/float64(item.TotalSize)
}

func (p *GDSF[K, V]) insertEntry(entry gdsfEntry[K]) {
	at := sort.Search(len(p.entries), func(i int) bool {
		return p.entries[i].coefficient > entry.coefficient
	})
	p.entries = append(p.entries, gdsfEntry[K]{})
	copy(p.entries[at+1:], p.entries[at:])
	p.entries[at] = entry
}

func (p *GDSF[K, V]) removeEntry(key K) {
	coefficient, ok := p.index[key]
	if !ok {
		panic("eviction/gdsf: removing an untracked key")
	}
	at := sort.Search(len(p.entries), func(i int) bool {
		return p.entries[i].coefficient >= coefficient
	})
	for ; at < len(p.entries); at++ {
		if p.entries[at].key == key {
			p.entries = append(p.entries[:at], p.entries[at+1:]...)
			return
		}
	}
	panic("eviction/gdsf: entry index out of sync with priority order")
}

var _ policy.Eviction[string, int] = (*GDSF[string, int])(nil)
