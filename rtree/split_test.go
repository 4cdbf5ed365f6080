package rtree

import (
	"bytes"
	"fmt"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterstace/geoindex/geom"
)

func boxEntries(boxes ...geom.Box) []entry {
	entries := make([]entry, len(boxes))
	for i, bb := range boxes {
		entries[i] = entry{box: bb, index: i}
	}
	return entries
}

func TestSplitPartitions(t *testing.T) {
	for _, s := range strategies {
		for maxEntries := 2; maxEntries <= 12; maxEntries++ {
			for minEntries := 1; minEntries <= maxEntries/2; minEntries++ {
				t.Run(fmt.Sprintf("%v_min_%d_max_%d", s, minEntries, maxEntries), func(t *testing.T) {
					rnd := rand.New(rand.NewSource(int64(maxEntries*100 + minEntries)))
					var boxes []geom.Box
					for i := 0; i <= maxEntries; i++ {
						boxes = append(boxes, randomBox(rnd, 3, 10, 2))
					}
					entries := boxEntries(boxes...)

					a, b := newSplitter(s).split(entries, minEntries)
					assert.GreaterOrEqual(t, len(a), minEntries)
					assert.GreaterOrEqual(t, len(b), minEntries)
					assert.LessOrEqual(t, len(a), maxEntries)
					assert.LessOrEqual(t, len(b), maxEntries)

					seen := make(map[int]bool)
					for _, e := range append(append([]entry(nil), a...), b...) {
						require.False(t, seen[e.index], "entry %d in both groups", e.index)
						seen[e.index] = true
						require.True(t, geom.Equal(boxes[e.index], e.box))
					}
					assert.Len(t, seen, maxEntries+1)

					// Appending to one group must not clobber the other or the input.
					a = append(a, entry{index: -1})
					for _, e := range b {
						assert.NotEqual(t, -1, e.index)
					}
					for i, e := range entries {
						assert.Equal(t, i, e.index)
					}
				})
			}
		}
	}
}

func TestSplitSeparatesClusters(t *testing.T) {
	// Two well separated clusters should end up in different groups with any
	// strategy.
	left := []geom.Box{
		geom.NewBox(geom.Point{0, 0}, geom.Point{1, 1}),
		geom.NewBox(geom.Point{0.5, 0.5}, geom.Point{1.5, 1.5}),
		geom.NewBox(geom.Point{0, 1}, geom.Point{1, 2}),
	}
	right := []geom.Box{
		geom.NewBox(geom.Point{100, 100}, geom.Point{101, 101}),
		geom.NewBox(geom.Point{100.5, 100}, geom.Point{101.5, 101}),
	}
	entries := boxEntries(append(append([]geom.Box(nil), left...), right...)...)
	for _, s := range strategies {
		t.Run(s.String(), func(t *testing.T) {
			a, b := newSplitter(s).split(entries, 2)
			groupOf := func(idx int) int {
				for _, e := range a {
					if e.index == idx {
						return 0
					}
				}
				for _, e := range b {
					if e.index == idx {
						return 1
					}
				}
				return -1
			}
			g := groupOf(0)
			for i := range left {
				assert.Equal(t, g, groupOf(i))
			}
			for i := range right {
				assert.Equal(t, 1-g, groupOf(len(left)+i))
			}
		})
	}
}

func TestLinearPickSeeds(t *testing.T) {
	entries := boxEntries(
		geom.NewBox(geom.Point{0, 0}, geom.Point{1, 1}),
		geom.NewBox(geom.Point{2, 0}, geom.Point{3, 1}),
		geom.NewBox(geom.Point{9, 0}, geom.Point{10, 1}),
		geom.NewBox(geom.Point{4, 0}, geom.Point{5, 1}),
	)
	s1, s2 := linearPickSeeds(entries)
	assert.ElementsMatch(t, []int{0, 2}, []int{s1, s2})
}

func TestQuadraticPickSeeds(t *testing.T) {
	entries := boxEntries(
		geom.NewBox(geom.Point{0, 0}, geom.Point{1, 1}),
		geom.NewBox(geom.Point{1, 1}, geom.Point{2, 2}),
		geom.NewBox(geom.Point{9, 9}, geom.Point{10, 10}),
		geom.NewBox(geom.Point{4, 4}, geom.Point{5, 5}),
	)
	s1, s2 := quadraticPickSeeds(entries)
	assert.ElementsMatch(t, []int{0, 2}, []int{s1, s2})
}

func TestChooseSubtree(t *testing.T) {
	entries := boxEntries(
		geom.NewBox(geom.Point{0, 0}, geom.Point{4, 4}),
		geom.NewBox(geom.Point{5, 0}, geom.Point{6, 1}),
		geom.NewBox(geom.Point{0, 0}, geom.Point{10, 10}),
	)
	inside := geom.NewBox(geom.Point{1, 1}, geom.Point{2, 2})
	near := geom.NewBox(geom.Point{6, 1}, geom.Point{6.5, 1.5})
	for _, s := range strategies {
		for _, leafChildren := range []bool{false, true} {
			// Entries 0 and 2 need no enlargement and add no overlap; 0 has
			// less content.
			assert.Equal(t, 0, newSplitter(s).chooseSubtree(entries, inside, leafChildren), s.String())
			assert.Equal(t, 2, newSplitter(s).chooseSubtree(entries, near, leafChildren), s.String())
		}
	}
}

func TestRStarChooseSubtreePrefersLeastOverlap(t *testing.T) {
	entries := boxEntries(
		geom.NewBox(geom.Point{0, 0}, geom.Point{4, 4}),
		geom.NewBox(geom.Point{5, 0}, geom.Point{9, 4}),
		geom.NewBox(geom.Point{0, 5}, geom.Point{4, 9}),
	)
	// Growing entry 0 right to x=6 is the smallest enlargement (8, tied
	// with entry 1) but overlaps entry 1. Growing entry 2 down to y=4 costs
	// more (14) but overlaps nothing.
	bb := geom.NewBox(geom.Point{3, 4}, geom.Point{6, 4})
	assert.Equal(t, 0, newSplitter(RStar).chooseSubtree(entries, bb, false))
	assert.Equal(t, 2, newSplitter(RStar).chooseSubtree(entries, bb, true))
}

func TestForcedReinsertion(t *testing.T) {
	// With R*, an overflowing non-root leaf first gives up its outlying
	// entries before it would be split. The tree must stay valid either way.
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	rt, err := New[geom.Box](Self[geom.Box]{}, Params{Dims: 2, MinEntries: 2, MaxEntries: 6, Strategy: RStar, ReinsertCount: 3}, WithLogger(log))
	require.NoError(t, err)
	rnd := rand.New(rand.NewSource(8))
	for i := 0; i < 200; i++ {
		require.NoError(t, rt.Insert(randomBox(rnd, 2, 50, 2)))
		if i%10 == 0 {
			checkInvariants(t, rt)
		}
	}
	checkInvariants(t, rt)
	assert.Equal(t, 200, rt.Size())
	assert.Contains(t, buf.String(), "forced reinsert")
	assert.Contains(t, buf.String(), "split")
	assert.Equal(t, 3, rt.Params().reinsertCount())

	p := Params{Dims: 2, MinEntries: 2, MaxEntries: 4, Strategy: RStar}
	assert.Equal(t, 1, p.reinsertCount())
	p = Params{Dims: 2, MinEntries: 1, MaxEntries: 10, Strategy: RStar}
	assert.Equal(t, 3, p.reinsertCount())
}
