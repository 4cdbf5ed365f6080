package rtree

import (
	"fmt"
	"sort"

	"github.com/peterstace/geoindex/geom"
)

// Insert adds a value to the tree. The value's indexable must have the
// tree's dimension count and finite coordinates; otherwise an error wrapping
// geom.ErrInvalidGeometry or geom.ErrDimensionMismatch is returned and the
// tree is left unchanged.
func (t *Tree[V]) Insert(v V) error {
	bb := t.tr.Indexable(v).Envelope()
	if err := bb.Validate(t.params.Dims); err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	bb = bb.Clone() // the envelope may alias the caller's coordinates
	slot := t.allocValue(v)
	t.size++
	t.insertEntries([]pendingEntry{{entry{box: bb, index: slot}, 0}})
	return nil
}

// pendingEntry is an entry waiting to be inserted into a node at the given
// level.
type pendingEntry struct {
	e     entry
	level int
}

// insertState tracks a single top level insertion, including any forced
// reinsertions it triggers.
type insertState struct {
	reinserted map[int]bool // levels where forced reinsertion already ran
	pending    []pendingEntry
}

func (t *Tree[V]) insertEntries(entries []pendingEntry) {
	st := insertState{pending: entries}
	for len(st.pending) > 0 {
		pe := st.pending[0]
		st.pending = st.pending[1:]
		t.insertEntry(pe.e, pe.level, &st)
	}
}

func (t *Tree[V]) insertEntry(e entry, level int, st *insertState) {
	if t.root < 0 {
		t.root = t.allocNode(true, nil)
		t.height = 1
	}
	if sibling := t.insertAt(t.root, t.height-1, e, level, st); sibling >= 0 {
		t.joinRoots(t.root, sibling)
	}
}

// insertAt inserts e into the subtree rooted at node n (which is at
// nodeLevel), placing it in a node at the target level. Bounding boxes on the
// way back up are recalculated. If n had to be split, the index of the new
// sibling node is returned, otherwise -1.
//
// The node arena may grow during the recursive call, so no pointers into it
// are held across it.
func (t *Tree[V]) insertAt(n, nodeLevel int, e entry, level int, st *insertState) int {
	if nodeLevel == level {
		t.nodes[n].entries = append(t.nodes[n].entries, e)
	} else {
		i := t.splitter.chooseSubtree(t.nodes[n].entries, e.box, nodeLevel == 1)
		child := t.nodes[n].entries[i].index
		sibling := t.insertAt(child, nodeLevel-1, e, level, st)
		t.nodes[n].entries[i].box = t.bound(child)
		if sibling >= 0 {
			t.nodes[n].entries = append(t.nodes[n].entries, entry{
				box:   t.bound(sibling),
				index: sibling,
			})
		}
	}

	if len(t.nodes[n].entries) <= t.params.MaxEntries {
		return -1
	}
	if t.params.Strategy == RStar && n != t.root && !st.reinserted[nodeLevel] {
		if st.reinserted == nil {
			st.reinserted = make(map[int]bool)
		}
		st.reinserted[nodeLevel] = true
		t.forceReinsert(n, nodeLevel, st)
		return -1
	}
	return t.splitNode(n, nodeLevel)
}

// splitNode splits node n into two nodes. The first node replaces n, and the
// second node is newly created. The return value is the index of the new
// node.
func (t *Tree[V]) splitNode(n, level int) int {
	a, b := t.splitter.split(t.nodes[n].entries, t.params.MinEntries)
	t.nodes[n].entries = a
	sibling := t.allocNode(t.nodes[n].isLeaf, b)
	t.debug("split", "level", level, "node", n, "sibling", sibling, "left", len(a), "right", len(b))
	return sibling
}

// joinRoots creates a new root above r1 and r2. It is the only way the tree
// grows taller.
func (t *Tree[V]) joinRoots(r1, r2 int) {
	t.root = t.allocNode(false, []entry{
		{box: t.bound(r1), index: r1},
		{box: t.bound(r2), index: r2},
	})
	t.height++
	t.debug("root grown", "root", t.root, "height", t.height)
}

// forceReinsert removes the entries of overflowing node n whose centers are
// farthest from the center of n's box, and queues them for insertion back at
// the same level, closest first.
func (t *Tree[V]) forceReinsert(n, level int, st *insertState) {
	entries := append([]entry(nil), t.nodes[n].entries...)
	nodeBox := entriesBound(entries)
	dist := make([]float64, len(entries))
	for i, e := range entries {
		dist[i] = geom.CenterDistance(e.box, nodeBox)
	}
	order := make([]int, len(entries))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return dist[order[i]] > dist[order[j]]
	})

	p := t.params.reinsertCount()
	kept := make([]entry, 0, len(entries)-p)
	for _, i := range order[p:] {
		kept = append(kept, entries[i])
	}
	t.nodes[n].entries = kept
	for i := p - 1; i >= 0; i-- {
		st.pending = append(st.pending, pendingEntry{entries[order[i]], level})
	}
	t.debug("forced reinsert", "level", level, "node", n, "count", p)
}
