package rtree

import (
	"math"
	"sort"

	"github.com/peterstace/geoindex/geom"
)

// splitter holds the strategy specific parts of insertion: which subtree a
// new entry descends into, and how an overflowing node's entries are divided.
type splitter interface {
	// chooseSubtree picks the entry of a non-leaf node to descend into.
	// leafChildren is set when the entries point at leaves.
	chooseSubtree(entries []entry, bb geom.Box, leafChildren bool) int

	// split partitions entries into two groups of at least minEntries each.
	// The returned slices don't share memory with entries.
	split(entries []entry, minEntries int) (a, b []entry)
}

func newSplitter(s Strategy) splitter {
	switch s {
	case Quadratic:
		return quadraticSplitter{}
	case RStar:
		return rstarSplitter{}
	default:
		return linearSplitter{}
	}
}

// leastEnlargement picks the entry whose box needs the least enlargement to
// include bb. Content is used as a tie breaker if the enlargements are the
// same.
func leastEnlargement(entries []entry, bb geom.Box) int {
	best := 0
	bestDelta := geom.Enlargement(entries[0].box, bb)
	for i := 1; i < len(entries); i++ {
		delta := geom.Enlargement(entries[i].box, bb)
		if delta < bestDelta {
			bestDelta = delta
			best = i
		} else if delta == bestDelta && geom.Content(entries[i].box) < geom.Content(entries[best].box) {
			best = i
		}
	}
	return best
}

type linearSplitter struct{}

func (linearSplitter) chooseSubtree(entries []entry, bb geom.Box, _ bool) int {
	return leastEnlargement(entries, bb)
}

func (linearSplitter) split(entries []entry, minEntries int) ([]entry, []entry) {
	s1, s2 := linearPickSeeds(entries)
	return distribute(entries, s1, s2, minEntries, false)
}

// linearPickSeeds finds, along each axis, the entry with the highest low side
// and the entry with the lowest high side. The pair with the greatest
// separation, normalised by the width of the whole set along that axis, are
// the seeds.
func linearPickSeeds(entries []entry) (int, int) {
	dims := entries[0].box.Dims()
	bestSep := math.Inf(-1)
	seed1, seed2 := 0, 1
	for d := 0; d < dims; d++ {
		highLow := 0
		lo, hi := entries[0].box.Min[d], entries[0].box.Max[d]
		for i, e := range entries {
			if e.box.Min[d] > entries[highLow].box.Min[d] {
				highLow = i
			}
			lo = math.Min(lo, e.box.Min[d])
			hi = math.Max(hi, e.box.Max[d])
		}
		lowHigh := -1
		for i, e := range entries {
			if i == highLow {
				continue
			}
			if lowHigh == -1 || e.box.Max[d] < entries[lowHigh].box.Max[d] {
				lowHigh = i
			}
		}
		sep := entries[highLow].box.Min[d] - entries[lowHigh].box.Max[d]
		if width := hi - lo; width > 0 {
			sep /= width
		}
		if sep > bestSep {
			bestSep = sep
			seed1, seed2 = highLow, lowHigh
		}
	}
	return seed1, seed2
}

type quadraticSplitter struct{}

func (quadraticSplitter) chooseSubtree(entries []entry, bb geom.Box, _ bool) int {
	return leastEnlargement(entries, bb)
}

func (quadraticSplitter) split(entries []entry, minEntries int) ([]entry, []entry) {
	s1, s2 := quadraticPickSeeds(entries)
	return distribute(entries, s1, s2, minEntries, true)
}

// quadraticPickSeeds picks the pair of entries that would waste the most
// content if they were put in the same group.
func quadraticPickSeeds(entries []entry) (int, int) {
	bestWaste := math.Inf(-1)
	seed1, seed2 := 0, 1
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			a, b := entries[i].box, entries[j].box
			waste := geom.Content(geom.Union(a, b)) - geom.Content(a) - geom.Content(b)
			if waste > bestWaste {
				bestWaste = waste
				seed1, seed2 = i, j
			}
		}
	}
	return seed1, seed2
}

// quadraticPickNext picks the entry with the strongest preference for one
// group over the other.
func quadraticPickNext(rest []entry, boxes [2]geom.Box) int {
	best := 0
	bestDiff := math.Inf(-1)
	for i, e := range rest {
		d0 := geom.Enlargement(boxes[0], e.box)
		d1 := geom.Enlargement(boxes[1], e.box)
		if diff := math.Abs(d0 - d1); diff > bestDiff {
			bestDiff = diff
			best = i
		}
	}
	return best
}

// distribute seeds two groups with entries s1 and s2 and assigns the others
// to the group needing the least enlargement. Once a group needs every
// remaining entry to reach minEntries, it gets them all.
func distribute(entries []entry, s1, s2, minEntries int, pickNext bool) ([]entry, []entry) {
	groups := [2][]entry{
		make([]entry, 0, len(entries)),
		make([]entry, 0, len(entries)),
	}
	groups[0] = append(groups[0], entries[s1])
	groups[1] = append(groups[1], entries[s2])
	boxes := [2]geom.Box{entries[s1].box, entries[s2].box}

	rest := make([]entry, 0, len(entries)-2)
	for i, e := range entries {
		if i != s1 && i != s2 {
			rest = append(rest, e)
		}
	}

	for len(rest) > 0 {
		for g := range groups {
			if len(groups[g])+len(rest) <= minEntries {
				groups[g] = append(groups[g], rest...)
				return groups[0], groups[1]
			}
		}
		i := 0
		if pickNext {
			i = quadraticPickNext(rest, boxes)
		}
		e := rest[i]
		rest = append(rest[:i], rest[i+1:]...)

		g := chooseGroup(e.box, groups, boxes)
		groups[g] = append(groups[g], e)
		boxes[g] = geom.Union(boxes[g], e.box)
	}
	return groups[0], groups[1]
}

// chooseGroup prefers the group needing the least enlargement, then the one
// with the least content, then the one with fewer entries, then group 0.
func chooseGroup(bb geom.Box, groups [2][]entry, boxes [2]geom.Box) int {
	d0 := geom.Enlargement(boxes[0], bb)
	d1 := geom.Enlargement(boxes[1], bb)
	switch {
	case d0 < d1:
		return 0
	case d1 < d0:
		return 1
	}
	c0, c1 := geom.Content(boxes[0]), geom.Content(boxes[1])
	switch {
	case c0 < c1:
		return 0
	case c1 < c0:
		return 1
	}
	if len(groups[1]) < len(groups[0]) {
		return 1
	}
	return 0
}

type rstarSplitter struct{}

// chooseSubtree picks the least enlargement, breaking ties by the least
// content. Just above the leaves, the least increase in overlap with sibling
// entries is considered first.
func (rstarSplitter) chooseSubtree(entries []entry, bb geom.Box, leafChildren bool) int {
	if !leafChildren {
		return leastEnlargement(entries, bb)
	}
	best := -1
	var bestOverlap, bestEnl, bestContent float64
	for i, e := range entries {
		grown := geom.Union(e.box, bb)
		var overlap float64
		for j, o := range entries {
			if j != i {
				overlap += geom.OverlapContent(grown, o.box) - geom.OverlapContent(e.box, o.box)
			}
		}
		content := geom.Content(e.box)
		enl := geom.Content(grown) - content
		if best < 0 || overlap < bestOverlap ||
			(overlap == bestOverlap && enl < bestEnl) ||
			(overlap == bestOverlap && enl == bestEnl && content < bestContent) {
			best = i
			bestOverlap, bestEnl, bestContent = overlap, enl, content
		}
	}
	return best
}

// split chooses the axis whose candidate distributions have the smallest
// total margin, then the distribution along it with the least overlap
// between the two groups, then the least total content.
func (rstarSplitter) split(entries []entry, minEntries int) ([]entry, []entry) {
	dims := entries[0].box.Dims()

	bestAxis := 0
	bestMargin := math.Inf(+1)
	for d := 0; d < dims; d++ {
		var margin float64
		for _, sorted := range axisSorts(entries, d) {
			lower, upper := splitBounds(sorted)
			for k := minEntries; k <= len(sorted)-minEntries; k++ {
				margin += geom.Margin(lower[k]) + geom.Margin(upper[k])
			}
		}
		if margin < bestMargin {
			bestMargin = margin
			bestAxis = d
		}
	}

	var bestSorted []entry
	bestK := -1
	var bestOverlap, bestContent float64
	for _, sorted := range axisSorts(entries, bestAxis) {
		lower, upper := splitBounds(sorted)
		for k := minEntries; k <= len(sorted)-minEntries; k++ {
			overlap := geom.OverlapContent(lower[k], upper[k])
			content := geom.Content(lower[k]) + geom.Content(upper[k])
			if bestK < 0 || overlap < bestOverlap ||
				(overlap == bestOverlap && content < bestContent) {
				bestSorted, bestK = sorted, k
				bestOverlap, bestContent = overlap, content
			}
		}
	}

	a := append([]entry(nil), bestSorted[:bestK]...)
	b := append([]entry(nil), bestSorted[bestK:]...)
	return a, b
}

// axisSorts returns two copies of entries, one sorted by the lower side of
// each box along axis d and one by the upper side.
func axisSorts(entries []entry, d int) [2][]entry {
	byMin := append([]entry(nil), entries...)
	sort.SliceStable(byMin, func(i, j int) bool {
		bi, bj := byMin[i].box, byMin[j].box
		if bi.Min[d] != bj.Min[d] {
			return bi.Min[d] < bj.Min[d]
		}
		return bi.Max[d] < bj.Max[d]
	})
	byMax := append([]entry(nil), entries...)
	sort.SliceStable(byMax, func(i, j int) bool {
		bi, bj := byMax[i].box, byMax[j].box
		if bi.Max[d] != bj.Max[d] {
			return bi.Max[d] < bj.Max[d]
		}
		return bi.Min[d] < bj.Min[d]
	})
	return [2][]entry{byMin, byMax}
}

// splitBounds returns, for each k in [1, n-1], the bound of sorted[:k] in
// lower[k] and the bound of sorted[k:] in upper[k].
func splitBounds(sorted []entry) (lower, upper []geom.Box) {
	n := len(sorted)
	lower = make([]geom.Box, n)
	upper = make([]geom.Box, n)
	bb := sorted[0].box
	for k := 1; k < n; k++ {
		lower[k] = bb
		bb = geom.Union(bb, sorted[k].box)
	}
	bb = sorted[n-1].box
	for k := n - 1; k >= 1; k-- {
		upper[k] = bb
		bb = geom.Union(bb, sorted[k-1].box)
	}
	return lower, upper
}
