// Package eviction implements the eviction-order policies: classical LRU,
// Segmented-LRU with a probation/protected split, and GDSF cost-weighted
// priority eviction.
package eviction

import (
	"container/list"
	"iter"

	"github.com/Borislavv/go-policy-cache/model"
	"github.com/Borislavv/go-policy-cache/policy"
)

// LRU orders keys by recency: a doubly-linked list with the most recently
// used key at the front and the first eviction victim at the tail, plus a
// map from key to list node for O(1) promotion and removal.
type LRU[K comparable, V any] struct {
	policy.Base[K, V]

	keys  *list.List // front = most recently used
	nodes map[K]*list.Element
}

func NewLRU[K comparable, V any]() *LRU[K, V] {
	return &LRU[K, V]{
		keys:  list.New(),
		nodes: make(map[K]*list.Element),
	}
}

func (p *LRU[K, V]) OnInsert(key K, _ *model.Item[K, V]) {
	if _, ok := p.nodes[key]; ok {
		panic("eviction/lru: on_insert for a key already tracked")
	}
	p.nodes[key] = p.keys.PushFront(key)
}

func (p *LRU[K, V]) OnCacheHit(key K, _ *model.Item[K, V]) {
	node, ok := p.nodes[key]
	if !ok {
		// The policy and the cache store are out of sync.
		panic("eviction/lru: cache hit for an untracked key")
	}
	if node != p.keys.Front() {
		p.keys.MoveToFront(node)
	}
}

func (p *LRU[K, V]) OnUpdate(key K, _, new *model.Item[K, V]) {
	p.OnCacheHit(key, new)
}

func (p *LRU[K, V]) OnEvict(key K, _ *model.Item[K, V]) {
	node, ok := p.nodes[key]
	if !ok {
		panic("eviction/lru: evicting an untracked key")
	}
	p.keys.Remove(node)
	delete(p.nodes, key)
}

func (p *LRU[K, V]) Clear() {
	p.keys.Init()
	clear(p.nodes)
}

// Victims yields keys coldest-first, walking the list from tail to head.
func (p *LRU[K, V]) Victims() iter.Seq[K] {
	return func(yield func(K) bool) {
		for el := p.keys.Back(); el != nil; el = el.Prev() {
			if !yield(el.Value.(K)) {
				return
			}
		}
	}
}

// Len returns the number of tracked keys.
func (p *LRU[K, V]) Len() int { return p.keys.Len() }

var _ policy.Eviction[string, int] = (*LRU[string, int])(nil)
