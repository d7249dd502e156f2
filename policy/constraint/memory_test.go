package constraint

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Borislavv/go-policy-cache/model"
)

func sized(key int, keySize, valueSize uint64) *model.Item[int, int] {
	return model.NewItem(key, keySize, key, valueSize)
}

func TestMemory_CanAddWithinBudget(t *testing.T) {
	c := NewMemory[int, int](100)

	require.True(t, c.CanAdd(1, sized(1, 10, 90)))
	require.False(t, c.CanAdd(1, sized(1, 10, 91)))

	c.OnInsert(1, sized(1, 10, 40))
	require.Equal(t, uint64(50), c.Memory())
	require.True(t, c.CanAdd(2, sized(2, 10, 40)))
	require.False(t, c.CanAdd(2, sized(2, 10, 41)))
}

func TestMemory_CanReplaceUsesValueDelta(t *testing.T) {
	c := NewMemory[int, int](100)

	old := sized(1, 10, 40)
	c.OnInsert(1, old)

	// Key size is invariant: only the value delta matters.
	require.True(t, c.CanReplace(1, old, sized(1, 10, 90)))
	require.False(t, c.CanReplace(1, old, sized(1, 10, 91)))
}

func TestMemory_OnUpdateAdjustsByDelta(t *testing.T) {
	c := NewMemory[int, int](100)

	old := sized(1, 10, 40)
	c.OnInsert(1, old)

	grown := sized(1, 10, 60)
	c.OnUpdate(1, old, grown)
	require.Equal(t, uint64(70), c.Memory())

	shrunk := sized(1, 10, 5)
	c.OnUpdate(1, grown, shrunk)
	require.Equal(t, uint64(15), c.Memory())
}

func TestMemory_EvictReleasesBytes(t *testing.T) {
	c := NewMemory[int, int](100)

	item := sized(1, 10, 40)
	c.OnInsert(1, item)
	c.OnEvict(1, item)
	require.Zero(t, c.Memory())
}

func TestMemory_IsSatisfiedAfterBudgetCut(t *testing.T) {
	c := NewMemory[int, int](100)

	c.OnInsert(1, sized(1, 10, 40))
	require.True(t, c.IsSatisfied())

	c.Update(30)
	require.False(t, c.IsSatisfied())
	require.Equal(t, uint64(30), c.MaximumMemory())

	c.OnEvict(1, sized(1, 10, 40))
	require.True(t, c.IsSatisfied())
}

func TestMemory_CloneIsIndependent(t *testing.T) {
	c := NewMemory[int, int](100)
	c.OnInsert(1, sized(1, 10, 40))

	clone := c.Clone()
	clone.OnEvict(1, sized(1, 10, 40))

	require.Equal(t, uint64(50), c.Memory(), "mutating the clone must not touch the original")
	require.True(t, clone.CanAdd(2, sized(2, 10, 90)))
	require.False(t, c.CanAdd(2, sized(2, 10, 90)))
}

func TestMemory_Clear(t *testing.T) {
	c := NewMemory[int, int](100)
	c.OnInsert(1, sized(1, 10, 40))
	c.Clear()
	require.Zero(t, c.Memory())
	require.Equal(t, uint64(100), c.MaximumMemory(), "clear drops usage, not the budget")
}
