package eviction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Borislavv/go-policy-cache/hash"
	"github.com/Borislavv/go-policy-cache/model"
)

func stringItem(key string, valueSize uint64) *model.Item[string, string] {
	return model.NewItem(key, uint64(len(key)), key, valueSize)
}

func collectGDSF(p *GDSF[string, string]) []string {
	var out []string
	for key := range p.Victims() {
		out = append(out, key)
	}
	return out
}

func TestGDSF_ConstantCostFavoursSmallItems(t *testing.T) {
	p := NewGDSF[string, string](hash.String{}, ConstantCost[string, string](1))

	short := "a"
	long := strings.Repeat("x", 43)

	p.OnInsert(short, stringItem(short, 8))
	p.OnInsert(long, stringItem(long, 8))

	// Equal frequency, equal cost: the large item has the smaller
	// coefficient and goes first.
	require.Equal(t, long, collectGDSF(p)[0])
}

func TestGDSF_FrequencyLiftsLargeItems(t *testing.T) {
	p := NewGDSF[string, string](hash.String{}, ConstantCost[string, string](1))

	short := "a"
	long := strings.Repeat("x", 43)

	p.OnInsert(short, stringItem(short, 8))
	p.OnInsert(long, stringItem(long, 8))

	for i := 0; i < 10; i++ {
		p.OnUpdate(long, stringItem(long, 8), stringItem(long, 8))
	}

	// Ten re-uses outweigh the size penalty: the cold small item flips
	// into the victim slot.
	require.Equal(t, short, collectGDSF(p)[0])
}

func TestGDSF_QuadraticCostFavoursLargeItems(t *testing.T) {
	quadratic := func(_ string, item *model.Item[string, string]) float64 {
		return float64(item.TotalSize) * float64(item.TotalSize)
	}
	p := NewGDSF[string, string](hash.String{}, quadratic)

	short := "a"
	long := strings.Repeat("x", 43)

	p.OnInsert(short, stringItem(short, 8))
	p.OnInsert(long, stringItem(long, 8))

	// cost/size grows with size, so now the small item goes first.
	require.Equal(t, short, collectGDSF(p)[0])
}

func TestGDSF_ClockPreventsStarvation(t *testing.T) {
	p := NewGDSF[string, string](hash.String{}, ConstantCost[string, string](1))

	hot := "hot"
	p.OnInsert(hot, stringItem(hot, 8))
	for i := 0; i < 20; i++ {
		p.OnCacheHit(hot, stringItem(hot, 8))
	}

	cold := "cold"
	p.OnInsert(cold, stringItem(cold, 8))
	require.Equal(t, cold, collectGDSF(p)[0])

	p.OnEvict(cold, stringItem(cold, 8))
	require.Greater(t, p.Clock(), 0.0, "evicting records the coefficient in the clock")

	// A fresh insert starts above everything already evicted.
	fresh := "fresh"
	p.OnInsert(fresh, stringItem(fresh, 8))
	require.Greater(t, p.index[fresh], p.Clock())
	require.Equal(t, 2, p.Len())
}

func TestGDSF_EvictReleasesEntry(t *testing.T) {
	p := NewGDSF[string, string](hash.String{}, ConstantCost[string, string](1))

	p.OnInsert("a", stringItem("a", 8))
	p.OnInsert("b", stringItem("b", 8))

	p.OnEvict("a", stringItem("a", 8))
	require.Equal(t, []string{"b"}, collectGDSF(p))

	// The key may come back.
	p.OnInsert("a", stringItem("a", 8))
	require.Equal(t, 2, p.Len())
}

func TestGDSF_HitRecomputesCoefficient(t *testing.T) {
	p := NewGDSF[string, string](hash.String{}, ConstantCost[string, string](1))

	p.OnInsert("a", stringItem("a", 100))
	p.OnInsert("b", stringItem("b", 8))

	// a is large and goes first; repeated hits on a flip the order.
	require.Equal(t, "a", collectGDSF(p)[0])
	for i := 0; i < 30; i++ {
		p.OnCacheHit("a", stringItem("a", 100))
	}
	require.Equal(t, "b", collectGDSF(p)[0])
}

func TestGDSF_Clear(t *testing.T) {
	p := NewGDSF[string, string](hash.String{}, ConstantCost[string, string](1))

	p.OnInsert("a", stringItem("a", 8))
	p.OnEvict("a", stringItem("a", 8))
	p.Clear()

	require.Zero(t, p.Len())
	require.Zero(t, p.Clock())
}
