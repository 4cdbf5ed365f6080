package rtree

import "github.com/peterstace/geoindex/geom"

// node is a node in an R-Tree. Nodes can either be leaf nodes holding entries
// for stored values, or intermediate nodes holding entries for more nodes.
type node struct {
	isLeaf  bool
	entries []entry
}

// entry is an entry under a node, leading either to a stored value or to
// another node. For leaf nodes index is a slot in the value arena. For
// non-leaf nodes it is the index of the child node.
type entry struct {
	box   geom.Box
	index int
}

// allocNode adds a node to the arena, reusing a released slot if one exists.
func (t *Tree[V]) allocNode(isLeaf bool, entries []entry) int {
	n := node{isLeaf: isLeaf, entries: entries}
	if k := len(t.freeNodes); k > 0 {
		idx := t.freeNodes[k-1]
		t.freeNodes = t.freeNodes[:k-1]
		t.nodes[idx] = n
		return idx
	}
	t.nodes = append(t.nodes, n)
	return len(t.nodes) - 1
}

func (t *Tree[V]) freeNode(n int) {
	t.nodes[n] = node{}
	t.freeNodes = append(t.freeNodes, n)
}

func (t *Tree[V]) allocValue(v V) int {
	if k := len(t.freeSlots); k > 0 {
		slot := t.freeSlots[k-1]
		t.freeSlots = t.freeSlots[:k-1]
		t.values[slot] = v
		return slot
	}
	t.values = append(t.values, v)
	return len(t.values) - 1
}

func (t *Tree[V]) freeValue(slot int) {
	var zero V
	t.values[slot] = zero
	t.freeSlots = append(t.freeSlots, slot)
}

// bound calculates the smallest bounding box that fits a node. The node must
// have at least one entry.
func (t *Tree[V]) bound(n int) geom.Box {
	return entriesBound(t.nodes[n].entries)
}

func entriesBound(entries []entry) geom.Box {
	bb := entries[0].box
	for _, e := range entries[1:] {
		bb = geom.Union(bb, e.box)
	}
	return bb
}

// removeEntry deletes the i-th entry of node n, preserving the order of the
// remaining entries.
func (t *Tree[V]) removeEntry(n, i int) entry {
	entries := t.nodes[n].entries
	e := entries[i]
	copy(entries[i:], entries[i+1:])
	entries[len(entries)-1] = entry{}
	t.nodes[n].entries = entries[:len(entries)-1]
	return e
}
