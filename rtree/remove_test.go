package rtree

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterstace/geoindex/geom"
)

func TestRemoveRandom(t *testing.T) {
	for _, s := range strategies {
		for _, caps := range [][2]int{{1, 2}, {1, 3}, {2, 4}, {2, 5}, {3, 8}} {
			minEntries, maxEntries := caps[0], caps[1]
			t.Run(fmt.Sprintf("%v_min_%d_max_%d", s, minEntries, maxEntries), func(t *testing.T) {
				rnd := rand.New(rand.NewSource(6))
				type V = Pair[geom.Box, int]
				tr := NewPairTranslator[geom.Box, int]()
				rt, err := New[V](tr, Params{Dims: 2, MinEntries: minEntries, MaxEntries: maxEntries, Strategy: s})
				require.NoError(t, err)

				var live []V
				for i := 0; i < 60; i++ {
					v := V{First: randomBox(rnd, 2, 10, 1), Second: i}
					require.NoError(t, rt.Insert(v))
					live = append(live, v)
				}
				checkInvariants(t, rt)

				rnd.Shuffle(len(live), func(i, j int) { live[i], live[j] = live[j], live[i] })
				for len(live) > 0 {
					v := live[len(live)-1]
					live = live[:len(live)-1]

					removed, err := rt.Remove(v)
					require.NoError(t, err)
					require.True(t, removed, "value %v not found", v)
					checkInvariants(t, rt)
					require.Equal(t, len(live), rt.Size())
					require.True(t, geom.Equal(bruteForceBox[V](tr, 2, live), rt.Box()))

					removed, err = rt.Remove(v)
					require.NoError(t, err)
					require.False(t, removed, "value %v removed twice", v)

					if len(live)%7 == 0 {
						q := randomBox(rnd, 2, 10, 5)
						var want []V
						for _, w := range live {
							if geom.Intersects(w.First, q) {
								want = append(want, w)
							}
						}
						require.True(t, sameValues[V](tr, rt.QueryAppend(nil, Intersects(q)), want))
					}
				}
				assert.True(t, rt.Empty())
				assert.Zero(t, rt.Height())
				assert.True(t, rt.Box().IsInverse())

				// The tree is usable again after being emptied by removals.
				require.NoError(t, rt.Insert(V{First: randomBox(rnd, 2, 10, 1), Second: -1}))
				checkInvariants(t, rt)
				assert.Equal(t, 1, rt.Size())
			})
		}
	}
}

func TestRemoveUsesTranslatorEquality(t *testing.T) {
	type P = Pair[geom.Box, string]
	tr := NewShared[P](NewPairTranslator[geom.Box, string]())
	rt, err := New[*P](tr, Params{Dims: 2, MinEntries: 2, MaxEntries: 4, Strategy: RStar})
	require.NoError(t, err)

	bb := geom.NewBox(geom.Point{1, 1}, geom.Point{2, 2})
	require.NoError(t, rt.Insert(&P{First: bb, Second: "a"}))
	require.NoError(t, rt.Insert(&P{First: bb, Second: "b"}))

	// A different pointer to an equal value removes the stored one.
	removed, err := rt.Remove(&P{First: geom.NewBox(geom.Point{1, 1}, geom.Point{2, 2}), Second: "a"})
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 1, rt.Size())

	removed, err = rt.Remove(&P{First: bb, Second: "c"})
	require.NoError(t, err)
	assert.False(t, removed)

	got := rt.QueryAppend(nil)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].Second)
}

func TestRemoveDuplicates(t *testing.T) {
	rt := newBoxTree(t, 2, 2, 4, Quadratic)
	bb := geom.NewBox(geom.Point{0, 0}, geom.Point{1, 1})
	for i := 0; i < 12; i++ {
		require.NoError(t, rt.Insert(bb))
	}
	checkInvariants(t, rt)
	for i := 12; i > 0; i-- {
		removed, err := rt.Remove(bb)
		require.NoError(t, err)
		require.True(t, removed)
		require.Equal(t, i-1, rt.Size())
		checkInvariants(t, rt)
	}
}
