package eviction

import (
	"container/list"
	"iter"

	"github.com/Borislavv/go-policy-cache/model"
	"github.com/Borislavv/go-policy-cache/policy"
)

// DefaultProtectedSegmentSize bounds the protected segment when the caller
// does not tune it.
const DefaultProtectedSegmentSize = 32

// SegmentedLRU splits the keys into two LRU segments. New entries enter the
// probation segment; a hit on a probation entry promotes it to the
// protected segment, whose size is bounded. When a promotion overflows the
// protected segment its tail is demoted back to the front of probation.
// Victims are drawn from probation first, so an entry must prove itself
// with a re-access before it outlives one-time scans.
type SegmentedLRU[K comparable, V any] struct {
	policy.Base[K, V]

	protectedSegmentSize int

	probationList  *list.List // front = most recently used
	protectedList  *list.List
	probationNodes map[K]*list.Element
	protectedNodes map[K]*list.Element
}

func NewSegmentedLRU[K comparable, V any]() *SegmentedLRU[K, V] {
	return &SegmentedLRU[K, V]{
		protectedSegmentSize: DefaultProtectedSegmentSize,
		probationList:        list.New(),
		protectedList:        list.New(),
		probationNodes:       make(map[K]*list.Element),
		protectedNodes:       make(map[K]*list.Element),
	}
}

// SetProtectedSegmentSize bounds the protected segment. Shrinking it takes
// effect on the next hit or update; resident protected entries are not
// demoted eagerly.
func (p *SegmentedLRU[K, V]) SetProtectedSegmentSize(size int) {
	p.protectedSegmentSize = size
}

func (p *SegmentedLRU[K, V]) OnInsert(key K, _ *model.Item[K, V]) {
	if _, ok := p.probationNodes[key]; ok {
		panic("eviction/slru: on_insert for a key already in probation")
	}
	if _, ok := p.protectedNodes[key]; ok {
		panic("eviction/slru: on_insert for a key already protected")
	}
	p.probationNodes[key] = p.probationList.PushFront(key)
}

func (p *SegmentedLRU[K, V]) OnCacheHit(key K, _ *model.Item[K, V]) {
	if node, ok := p.protectedNodes[key]; ok {
		if node != p.protectedList.Front() {
			p.protectedList.MoveToFront(node)
		}
	} else {
		p.promote(key)
	}

	for p.protectedList.Len() > p.protectedSegmentSize {
		p.demoteTail()
	}
}

func (p *SegmentedLRU[K, V]) OnUpdate(key K, _, new *model.Item[K, V]) {
	p.OnCacheHit(key, new)
}

func (p *SegmentedLRU[K, V]) OnEvict(key K, _ *model.Item[K, V]) {
	if node, ok := p.probationNodes[key]; ok {
		p.probationList.Remove(node)
		delete(p.probationNodes, key)
		return
	}
	if node, ok := p.protectedNodes[key]; ok {
		p.protectedList.Remove(node)
		delete(p.protectedNodes, key)
		return
	}
	panic("eviction/slru: evicting an untracked key")
}

func (p *SegmentedLRU[K, V]) Clear() {
	p.probationList.Init()
	p.protectedList.Init()
	clear(p.probationNodes)
	clear(p.protectedNodes)
}

// Victims yields every probation key tail-to-head, then every protected key
// tail-to-head.
func (p *SegmentedLRU[K, V]) Victims() iter.Seq[K] {
	return func(yield func(K) bool) {
		for el := p.probationList.Back(); el != nil; el = el.Prev() {
			if !yield(el.Value.(K)) {
				return
			}
		}
		for el := p.protectedList.Back(); el != nil; el = el.Prev() {
			if !yield(el.Value.(K)) {
				return
			}
		}
	}
}

// Len returns the number of tracked keys across both segments.
func (p *SegmentedLRU[K, V]) Len() int {
	return p.probationList.Len() + p.protectedList.Len()
}

// promote moves a probation entry to the front of the protected segment.
func (p *SegmentedLRU[K, V]) promote(key K) {
	node, ok := p.probationNodes[key]
	if !ok {
		panic("eviction/slru: cache hit for an untracked key")
	}
	p.probationList.Remove(node)
	delete(p.probationNodes, key)
	p.protectedNodes[key] = p.protectedList.PushFront(key)
}

// demoteTail moves the protected tail back to the front of probation.
func (p *SegmentedLRU[K, V]) demoteTail() {
	tail := p.protectedList.Back()
	if tail == nil {
		return
	}
	key := tail.Value.(K)
	p.protectedList.Remove(tail)
	delete(p.protectedNodes, key)
	p.probationNodes[key] = p.probationList.PushFront(key)
}

var _ policy.Eviction[string, int] = (*SegmentedLRU[string, int])(nil)
