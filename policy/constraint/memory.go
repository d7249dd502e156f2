// Package constraint implements the capacity arbiters: a byte budget over
// the measured item sizes and a plain item-count bound.
package constraint

import (
	"github.com/Borislavv/go-policy-cache/model"
	"github.com/Borislavv/go-policy-cache/policy"
)

// Memory bounds the cache by the sum of the measured total sizes of its
// resident items.
type Memory[K comparable, V any] struct {
	policy.Base[K, V]

	memory        uint64
	maximumMemory uint64
}

func NewMemory[K comparable, V any](maximumMemory uint64) *Memory[K, V] {
	return &Memory[K, V]{maximumMemory: maximumMemory}
}

func (c *Memory[K, V]) CanAdd(_ K, item *model.Item[K, V]) bool {
	return c.memory+item.TotalSize <= c.maximumMemory
}

func (c *Memory[K, V]) CanReplace(_ K, old, new *model.Item[K, V]) bool {
	// Key size is invariant across a replacement, only the value delta counts.
	return c.memory-old.ValueSize+new.ValueSize <= c.maximumMemory
}

func (c *Memory[K, V]) IsSatisfied() bool {
	return c.memory <= c.maximumMemory
}

// Update changes the byte budget. Usage is untouched; the cache shrinks to
// the new budget through its own eviction loop.
func (c *Memory[K, V]) Update(maximumMemory uint64) {
	c.maximumMemory = maximumMemory
}

func (c *Memory[K, V]) Clone() policy.Constraint[K, V] {
	clone := *c
	return &clone
}

func (c *Memory[K, V]) OnInsert(_ K, item *model.Item[K, V]) {
	c.memory += item.TotalSize
}

func (c *Memory[K, V]) OnUpdate(_ K, old, new *model.Item[K, V]) {
	c.memory = c.memory - old.ValueSize + new.ValueSize
}

func (c *Memory[K, V]) OnEvict(_ K, item *model.Item[K, V]) {
	if item.TotalSize > c.memory {
		panic("constraint/memory: evicting more bytes than tracked")
	}
	c.memory -= item.TotalSize
}

func (c *Memory[K, V]) Clear() {
	c.memory = 0
}

// Memory returns the tracked usage in bytes.
func (c *Memory[K, V]) Memory() uint64 { return c.memory }

// MaximumMemory returns the byte budget.
func (c *Memory[K, V]) MaximumMemory() uint64 { return c.maximumMemory }

var _ policy.Constraint[string, int] = (*Memory[string, int])(nil)
