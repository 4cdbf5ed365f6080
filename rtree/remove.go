package rtree

import (
	"fmt"

	"github.com/peterstace/geoindex/geom"
)

// Remove deletes one value equal to v (according to the tree's Translator)
// and reports whether one was found. Only leaves whose boxes cover v's
// indexable are searched, so equal values must have equal indexables.
//
// Nodes left with fewer than MinEntries entries are dissolved and their
// values inserted again, and the root is shortened while it has a single
// child.
func (t *Tree[V]) Remove(v V) (bool, error) {
	bb := t.tr.Indexable(v).Envelope()
	if err := bb.Validate(t.params.Dims); err != nil {
		return false, fmt.Errorf("remove: %w", err)
	}
	if t.root < 0 {
		return false, nil
	}

	path, leaf, i, ok := t.findLeaf(t.root, bb, v, nil)
	if !ok {
		return false, nil
	}
	e := t.removeEntry(leaf, i)
	t.freeValue(e.index)
	t.size--

	orphans := t.condenseTree(path, leaf)
	t.shortenRoot()

	var pending []pendingEntry
	for _, n := range orphans {
		pending = t.collectLeafEntries(n, pending)
	}
	if len(pending) > 0 {
		t.debug("reinserting orphans", "nodes", len(orphans), "values", len(pending))
		t.insertEntries(pending)
	}
	return true, nil
}

// step records that the path went through entry of node.
type step struct {
	node, entry int
}

// findLeaf locates the leaf entry holding a value equal to v. The returned
// path runs from the root down to the leaf's parent.
func (t *Tree[V]) findLeaf(n int, bb geom.Box, v V, path []step) ([]step, int, int, bool) {
	nd := &t.nodes[n]
	if nd.isLeaf {
		for i, e := range nd.entries {
			if t.tr.Equal(t.values[e.index], v) {
				return path, n, i, true
			}
		}
		return nil, -1, -1, false
	}
	for i, e := range nd.entries {
		if !geom.Covers(e.box, bb) {
			continue
		}
		if p, leaf, j, ok := t.findLeaf(e.index, bb, v, append(path, step{n, i})); ok {
			return p, leaf, j, true
		}
	}
	return nil, -1, -1, false
}

// condenseTree walks from a leaf that just lost an entry back to the root.
// Underfull nodes are unlinked from their parents and returned so their
// contents can be inserted again, and the boxes of the remaining ancestors
// are tightened.
func (t *Tree[V]) condenseTree(path []step, leaf int) []int {
	var orphans []int
	child := leaf
	for i := len(path) - 1; i >= 0; i-- {
		parent, ei := path[i].node, path[i].entry
		if len(t.nodes[child].entries) < t.params.MinEntries {
			t.removeEntry(parent, ei)
			orphans = append(orphans, child)
		} else {
			t.nodes[parent].entries[ei].box = t.bound(child)
		}
		child = parent
	}
	return orphans
}

// shortenRoot removes roots with a single child, and empties the tree when
// the root has no entries left.
func (t *Tree[V]) shortenRoot() {
	for {
		root := &t.nodes[t.root]
		if len(root.entries) == 0 {
			t.freeNode(t.root)
			t.root = -1
			t.height = 0
			return
		}
		if root.isLeaf || len(root.entries) > 1 {
			return
		}
		old := t.root
		t.root = root.entries[0].index
		t.freeNode(old)
		t.height--
		t.debug("root shortened", "root", t.root, "height", t.height)
	}
}

// collectLeafEntries appends the leaf entries below node n to dst, releasing
// n and its descendants.
func (t *Tree[V]) collectLeafEntries(n int, dst []pendingEntry) []pendingEntry {
	nd := t.nodes[n]
	for _, e := range nd.entries {
		if nd.isLeaf {
			dst = append(dst, pendingEntry{e, 0})
		} else {
			dst = t.collectLeafEntries(e.index, dst)
		}
	}
	t.freeNode(n)
	return dst
}
