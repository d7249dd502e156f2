package admission

import (
	"github.com/Borislavv/go-policy-cache/hash"
	"github.com/Borislavv/go-policy-cache/model"
	"github.com/Borislavv/go-policy-cache/policy"
	"github.com/Borislavv/go-policy-cache/policy/bloom"
)

// DefaultCardinality sizes the TinyLFU sketches when the caller does not
// tune them. Align it with the expected number of resident items.
const DefaultCardinality uint32 = 2000

// TinyLFU is a frequency-aware admission policy built on two sketches:
//
//   - gatekeeper: a plain bloom filter answering "has this key ever been
//     seen". A key must have been observed at least once before it is
//     allowed in, and only keys seen at least twice reach the frequency
//     sketch, which keeps one-hit wonders from polluting it.
//   - frequency sketch: a counting bloom filter estimating how often each
//     key was accessed.
//
// When any estimate outgrows the sketch cardinality the policy resets:
// the gatekeeper is cleared and every frequency counter is halved, which
// bounds counter growth and ages out stale popularity.
type TinyLFU[K comparable, V any] struct {
	policy.Base[K, V]

	hasher     hash.Hasher[K]
	gatekeeper *bloom.Filter
	sketch     *bloom.CountingFilter
}

func NewTinyLFU[K comparable, V any](hasher hash.Hasher[K]) *TinyLFU[K, V] {
	t := &TinyLFU[K, V]{hasher: hasher}
	t.SetCardinality(DefaultCardinality)
	return t
}

// SetCardinality rebuilds both sketches for the given expected cardinality,
// discarding all frequency state.
func (t *TinyLFU[K, V]) SetCardinality(cardinality uint32) {
	t.gatekeeper = bloom.NewFilter(cardinality)
	t.sketch = bloom.NewCountingFilter(cardinality)
}

// ShouldAdd admits only keys the gatekeeper has seen before: a brand-new
// key has to miss at least once before it can enter.
func (t *TinyLFU[K, V]) ShouldAdd(key K) bool {
	return t.gatekeeper.MaybeContains(t.hasher.Hash(key))
}

// ShouldReplace prefers the candidate only when its estimated frequency is
// strictly higher than the victim's, which keeps eviction stable on ties.
func (t *TinyLFU[K, V]) ShouldReplace(victim, candidate K) bool {
	return t.estimate(t.hasher.Hash(candidate)) > t.estimate(t.hasher.Hash(victim))
}

// OnCacheHit observes an access to a resident key.
func (t *TinyLFU[K, V]) OnCacheHit(key K, _ *model.Item[K, V]) {
	t.touch(t.hasher.Hash(key))
}

// OnCacheMiss observes an access to an absent key. Misses count toward
// frequency just like hits: a key that keeps being asked for earns its
// admission.
func (t *TinyLFU[K, V]) OnCacheMiss(key K) {
	t.touch(t.hasher.Hash(key))
}

func (t *TinyLFU[K, V]) Clear() {
	t.gatekeeper.Clear()
	t.sketch.Clear()
}

// Estimate exposes the frequency estimate for diagnostics.
func (t *TinyLFU[K, V]) Estimate(key K) uint32 {
	return t.estimate(t.hasher.Hash(key))
}

// MemoryUsed returns the combined sketch footprint in bytes.
func (t *TinyLFU[K, V]) MemoryUsed() uint64 {
	return t.gatekeeper.MemoryUsed() + t.sketch.MemoryUsed()
}

func (t *TinyLFU[K, V]) estimate(h uint64) uint32 {
	estimate := t.sketch.Estimate(h)
	if t.gatekeeper.MaybeContains(h) {
		estimate++
	}
	return estimate
}

func (t *TinyLFU[K, V]) touch(h uint64) {
	if t.gatekeeper.MaybeContains(h) {
		t.sketch.Add(h)
		if t.sketch.Estimate(h) > t.sketch.Cardinality() {
			t.reset()
		}
	} else {
		t.gatekeeper.Add(h)
	}
}

func (t *TinyLFU[K, V]) reset() {
	t.gatekeeper.Clear()
	t.sketch.Decay()
}

var _ policy.Admission[string, int] = (*TinyLFU[string, int])(nil)
