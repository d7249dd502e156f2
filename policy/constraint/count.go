package constraint

import (
	"github.com/Borislavv/go-policy-cache/model"
	"github.com/Borislavv/go-policy-cache/policy"
)

// Count bounds the cache by its number of resident items.
type Count[K comparable, V any] struct {
	policy.Base[K, V]

	count        uint64
	maximumCount uint64
}

func NewCount[K comparable, V any](maximumCount uint64) *Count[K, V] {
	return &Count[K, V]{maximumCount: maximumCount}
}

func (c *Count[K, V]) CanAdd(K, *model.Item[K, V]) bool {
	return c.count < c.maximumCount
}

func (c *Count[K, V]) CanReplace(K, *model.Item[K, V], *model.Item[K, V]) bool {
	// A replacement never changes the count.
	return true
}

func (c *Count[K, V]) IsSatisfied() bool {
	return c.count <= c.maximumCount
}

// Update changes the item budget.
func (c *Count[K, V]) Update(maximumCount uint64) {
	c.maximumCount = maximumCount
}

func (c *Count[K, V]) Clone() policy.Constraint[K, V] {
	clone := *c
	return &clone
}

func (c *Count[K, V]) OnInsert(K, *model.Item[K, V]) {
	c.count++
}

func (c *Count[K, V]) OnEvict(K, *model.Item[K, V]) {
	if c.count == 0 {
		panic("constraint/count: evicting from an empty constraint")
	}
	c.count--
}

func (c *Count[K, V]) Clear() {
	c.count = 0
}

// Count returns the tracked number of items.
func (c *Count[K, V]) Count() uint64 { return c.count }

// MaximumCount returns the item budget.
func (c *Count[K, V]) MaximumCount() uint64 { return c.maximumCount }

var _ policy.Constraint[string, int] = (*Count[string, int])(nil)
