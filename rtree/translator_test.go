package rtree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterstace/geoindex/geom"
)

func TestSelfTranslator(t *testing.T) {
	tr := Self[geom.Point]{}
	p := geom.Point{1, 2}
	assert.Equal(t, geom.NewBox(p, p), tr.Indexable(p).Envelope())
	assert.True(t, tr.Equal(geom.Point{1, 2}, geom.Point{1, 2}))
	assert.False(t, tr.Equal(geom.Point{1, 2}, geom.Point{2, 1}))
}

func TestPairTranslator(t *testing.T) {
	type V = Pair[geom.Box, string]
	tr := NewPairTranslator[geom.Box, string]()
	bb := geom.NewBox(geom.Point{0, 0}, geom.Point{1, 1})

	assert.True(t, geom.Equal(bb, tr.Indexable(V{First: bb, Second: "x"}).Envelope()))
	assert.True(t, tr.Equal(V{bb, "x"}, V{bb.Clone(), "x"}))
	assert.False(t, tr.Equal(V{bb, "x"}, V{bb, "y"}))
	assert.False(t, tr.Equal(V{bb, "x"}, V{geom.NewBox(geom.Point{0, 0}, geom.Point{1, 2}), "x"}))

	// Custom equality on the auxiliary data.
	fold := PairTranslator[geom.Box, string]{EqualSecond: strings.EqualFold}
	assert.True(t, fold.Equal(V{bb, "Key"}, V{bb, "KEY"}))
}

func TestSharedTranslator(t *testing.T) {
	type V = Pair[geom.Point, int]
	tr := NewShared[V](NewPairTranslator[geom.Point, int]())
	a := &V{First: geom.Point{1, 1}, Second: 1}
	b := &V{First: geom.Point{1, 1}, Second: 1}
	c := &V{First: geom.Point{1, 1}, Second: 2}

	assert.True(t, tr.Equal(a, a))
	assert.True(t, tr.Equal(a, b))
	assert.False(t, tr.Equal(a, c))
	assert.True(t, tr.Equal(nil, nil))
	assert.False(t, tr.Equal(a, nil))
	assert.False(t, tr.Equal(nil, a))
	assert.True(t, geom.Equal(a.First.Envelope(), tr.Indexable(a).Envelope()))
}

func TestTranslatorFuncs(t *testing.T) {
	type item struct {
		id  int
		loc geom.Point
	}
	tr := TranslatorFuncs[item]{
		IndexableFunc: func(v item) geom.Indexable { return v.loc },
		EqualFunc:     func(a, b item) bool { return a.id == b.id },
	}
	rt, err := New[item](tr, DefaultParams(2))
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		require.NoError(t, rt.Insert(item{id: i, loc: geom.Point{float64(i % 7), float64(i / 7)}}))
	}
	checkInvariants(t, rt)

	// Equality is by id alone, so the location passed to Remove is only
	// used to find the leaf.
	removed, err := rt.Remove(item{id: 10, loc: geom.Point{3, 1}})
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = rt.Remove(item{id: 11, loc: geom.Point{6, 6}})
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 49, rt.Size())
}
