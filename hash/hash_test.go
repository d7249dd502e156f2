package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestString_Deterministic(t *testing.T) {
	var h String
	require.Equal(t, h.Hash("key"), h.Hash("key"))
	require.NotEqual(t, h.Hash("key"), h.Hash("other"))
}

func TestBytesAgreesWithString(t *testing.T) {
	// A []byte probe can stand in for a string key: equal contents hash
	// identically across the two hashers.
	var s String
	var b Bytes
	require.Equal(t, s.Hash("heterogeneous"), b.Hash([]byte("heterogeneous")))
}

func TestFuncAdapter(t *testing.T) {
	doubler := Func[int](func(k int) uint64 { return uint64(k * 2) })
	require.Equal(t, uint64(84), doubler.Hash(42))
}

func TestIntegralHashers(t *testing.T) {
	require.Equal(t, uint64(7), Uint64{}.Hash(7))
	require.Equal(t, uint64(7), Int{}.Hash(7))
}
