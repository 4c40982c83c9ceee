package chainmap

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

// checkStructure cross-checks the two linked structures: every entry-chain
// node must appear in exactly the bucket chain its hash selects, every
// bucket-chain node must be on the entry chain, prev/next must agree, and
// the size counter must match the chain length.
func checkStructure[K comparable, V any](t *testing.T, m *MapOf[K, V]) {
	t.Helper()
	if m.buckets == nil {
		require.Nil(t, m.head)
		require.Zero(t, m.size)
		return
	}
	require.Equal(t, 0, len(m.buckets)&(len(m.buckets)-1),
		"bucket count %d is not a power of two", len(m.buckets))
	require.GreaterOrEqual(t, len(m.buckets), m.size, "load factor above threshold")

	onChain := make(map[*node[K, V]]bool, m.size)
	var prev *node[K, V]
	for e := m.head; e != nil; e = e.next {
		require.False(t, onChain[e], "entry chain revisits a node")
		onChain[e] = true
		require.Same(t, prev, e.prev, "prev link disagrees with walk")
		require.Equal(t, m.hashOf(&e.Key), e.hash, "cached hash is stale")
		prev = e
	}
	require.Len(t, onChain, m.size, "size counter disagrees with entry chain")

	inBucket := make(map[*node[K, V]]bool, m.size)
	for bidx := range m.buckets {
		for e := m.buckets[bidx]; e != nil; e = e.bucketNext {
			require.True(t, onChain[e], "bucket chain holds a node not on the entry chain")
			require.False(t, inBucket[e], "node appears in more than one bucket chain")
			inBucket[e] = true
			require.Equal(t, uintptr(bidx), e.hash&uintptr(len(m.buckets)-1),
				"node filed under the wrong bucket")
		}
	}
	require.Len(t, inBucket, m.size, "entry missing from every bucket chain")
}

func TestMapOf_StructureAfterEachOperation(t *testing.T) {
	m := NewMapOf[int, int]()
	checkStructure(t, m)
	n := defaultMinTableLen + 1 // crosses the first growth boundary
	for i := 0; i < n; i++ {
		m.Insert(i, i)
		checkStructure(t, m)
	}
	for i := 0; i < n; i++ {
		m.Delete(i)
		checkStructure(t, m)
	}
	require.True(t, m.IsZero())
}

func TestMapOf_StructureUnderRandomOps(t *testing.T) {
	m := NewMapOf[int, int]()
	mirror := make(map[int]int)
	r := rand.New(rand.NewPCG(42, 42))

	for i := 0; i < 20_000; i++ {
		k := int(r.Int32N(1024))
		switch r.Int32N(5) {
		case 0, 1:
			if m.Insert(k, i) {
				mirror[k] = i
			}
		case 2:
			m.Delete(k)
			delete(mirror, k)
		case 3:
			p := m.Ref(k)
			if _, ok := mirror[k]; !ok {
				mirror[k] = 0
			}
			*p = i
			mirror[k] = i
		case 4:
			v, ok := m.Load(k)
			ev, eok := mirror[k]
			require.Equal(t, eok, ok, "presence of key %d", k)
			require.Equal(t, ev, v, "value of key %d", k)
		}
	}

	checkStructure(t, m)
	require.Equal(t, len(mirror), m.Size())
	for k, v := range mirror {
		got, ok := m.Load(k)
		require.True(t, ok, "key %d", k)
		require.Equal(t, v, got, "key %d", k)
	}
}

func TestMapOf_StructureSurvivesClearAndCopy(t *testing.T) {
	a := NewMapOf[int, int]()
	for i := 0; i < 1000; i++ {
		a.Insert(i, i)
	}
	checkStructure(t, a)

	b := NewMapOf[int, int]()
	b.CopyFrom(a)
	checkStructure(t, b)
	require.Equal(t, defaultMinTableLen<<b.Stats().TotalGrowths, len(b.buckets),
		"CopyFrom did not regrow from the minimum table length")

	a.Clear()
	checkStructure(t, a)
	require.Equal(t, a.minTableLen, len(a.buckets), "Clear did not reset the table")
	require.Equal(t, 1000, b.Size(), "clearing the source disturbed the copy")
}
