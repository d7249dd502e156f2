package constraint

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCount_Budget(t *testing.T) {
	c := NewCount[int, int](2)

	require.True(t, c.CanAdd(1, sized(1, 1, 1)))
	c.OnInsert(1, sized(1, 1, 1))
	require.True(t, c.CanAdd(2, sized(2, 1, 1)))
	c.OnInsert(2, sized(2, 1, 1))

	require.False(t, c.CanAdd(3, sized(3, 1, 1)))
	require.Equal(t, uint64(2), c.Count())
}

func TestCount_ReplaceIsAlwaysAllowed(t *testing.T) {
	c := NewCount[int, int](1)
	c.OnInsert(1, sized(1, 1, 1))

	require.True(t, c.CanReplace(1, sized(1, 1, 1), sized(1, 1, 999)))
}

func TestCount_UpdateBudget(t *testing.T) {
	c := NewCount[int, int](5)
	for i := 0; i < 5; i++ {
		c.OnInsert(i, sized(i, 1, 1))
	}
	require.True(t, c.IsSatisfied())

	c.Update(2)
	require.False(t, c.IsSatisfied())
	require.Equal(t, uint64(2), c.MaximumCount())

	c.OnEvict(0, sized(0, 1, 1))
	c.OnEvict(1, sized(1, 1, 1))
	c.OnEvict(2, sized(2, 1, 1))
	require.True(t, c.IsSatisfied())
}

func TestCount_CloneIsIndependent(t *testing.T) {
	c := NewCount[int, int](3)
	c.OnInsert(1, sized(1, 1, 1))

	clone := c.Clone()
	clone.OnEvict(1, sized(1, 1, 1))

	require.Equal(t, uint64(1), c.Count())
}

func TestCount_Clear(t *testing.T) {
	c := NewCount[int, int](3)
	c.OnInsert(1, sized(1, 1, 1))
	c.Clear()
	require.Zero(t, c.Count())
	require.Equal(t, uint64(3), c.MaximumCount())
}
