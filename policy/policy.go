// Package policy defines the three collaborator contracts of the cache
// core: an admission policy deciding whether a key may enter, an eviction
// policy ordering resident keys by preferred eviction order, and a
// constraint policy arbitrating whether the cache still fits its budget.
//
// The cache orchestrator routes every mutation through all three as event
// notifications. Events are dispatched in a fixed order (admission first,
// then eviction, then constraint), exactly once per policy, always under
// the cache guard; policies never synchronise on their own and may assume
// exclusive access whenever they are called.
package policy

import (
	"iter"

	"github.com/Borislavv/go-policy-cache/model"
)

// Hooks are the lifecycle notifications a policy may observe. Embed Base to
// get no-op implementations for the events a policy does not care about.
//
// Lifetime contract: for every key a policy saw in OnInsert it receives
// exactly one OnEvict strictly before the store erases the entry, so a
// policy may hold its own copy of the key (keys are values in Go) and drop
// it on OnEvict.
type Hooks[K comparable, V any] interface {
	OnCacheHit(key K, item *model.Item[K, V])
	OnCacheMiss(key K)
	OnInsert(key K, item *model.Item[K, V])
	OnUpdate(key K, old, new *model.Item[K, V])
	OnEvict(key K, item *model.Item[K, V])
	Clear()
}

// Admission decides whether a candidate key is worth admitting, or worth
// keeping over a resident victim.
type Admission[K comparable, V any] interface {
	Hooks[K, V]

	// ShouldAdd reports whether the candidate may be admitted when the
	// constraint already has room for it.
	ShouldAdd(key K) bool

	// ShouldReplace reports whether candidate is preferable to victim.
	ShouldReplace(victim, candidate K) bool
}

// Eviction produces victim candidates on demand.
type Eviction[K comparable, V any] interface {
	Hooks[K, V]

	// Victims yields resident keys most-evictable-first. The sequence is
	// lazy and restartable; it reflects policy state at the moment it is
	// consumed and must be re-opened after any mutation. It must enumerate
	// every resident key.
	Victims() iter.Seq[K]
}

// Constraint arbitrates whether the cache fits its budget. Constraints are
// clonable so the orchestrator can simulate a sequence of evictions on a
// copy before committing any of them.
type Constraint[K comparable, V any] interface {
	Hooks[K, V]

	// CanAdd reports whether the constraint would still hold after
	// admitting item under key.
	CanAdd(key K, item *model.Item[K, V]) bool

	// CanReplace reports whether the constraint would still hold after
	// replacing old with new in place. Key size is invariant across a
	// replacement.
	CanReplace(key K, old, new *model.Item[K, V]) bool

	// IsSatisfied reports whether the constraint holds right now.
	IsSatisfied() bool

	// Clone returns an independent copy used for speculative eviction
	// planning. Mutating the clone must not affect the original.
	Clone() Constraint[K, V]
}

// Base provides no-op implementations of every hook.
type Base[K comparable, V any] struct{}

func (Base[K, V]) OnCacheHit(K, *model.Item[K, V])                  {}
func (Base[K, V]) OnCacheMiss(K)                                    {}
func (Base[K, V]) OnInsert(K, *model.Item[K, V])                    {}
func (Base[K, V]) OnUpdate(K, *model.Item[K, V], *model.Item[K, V]) {}
func (Base[K, V]) OnEvict(K, *model.Item[K, V])                     {}
func (Base[K, V]) Clear()                                           {}
