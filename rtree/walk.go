package rtree

import "github.com/peterstace/geoindex/geom"

// NodeInfo describes a node visited by Walk.
type NodeInfo struct {
	Level   int // 0 for leaves
	Leaf    bool
	Box     geom.Box
	Entries int
}

// Walk visits every node of the tree in depth-first pre-order. Returning
// false from fn skips the children of that node. Walk doesn't modify the
// tree, and fn must not either.
func (t *Tree[V]) Walk(fn func(NodeInfo) bool) {
	if t.root < 0 {
		return
	}
	t.walk(t.root, t.height-1, fn)
}

func (t *Tree[V]) walk(n, level int, fn func(NodeInfo) bool) {
	nd := &t.nodes[n]
	info := NodeInfo{
		Level:   level,
		Leaf:    nd.isLeaf,
		Entries: len(nd.entries),
	}
	if len(nd.entries) > 0 {
		info.Box = t.bound(n)
	} else {
		info.Box = geom.InverseBox(t.params.Dims)
	}
	if !fn(info) || nd.isLeaf {
		return
	}
	for _, e := range nd.entries {
		t.walk(e.index, level-1, fn)
	}
}

// Stats summarises the shape of a tree.
type Stats struct {
	Size   int
	Height int
	Nodes  int
	Leaves int

	// Fill is the mean number of entries per node as a fraction of
	// MaxEntries. It is 0 for an empty tree.
	Fill float64
}

// Stats walks the tree and reports its shape.
func (t *Tree[V]) Stats() Stats {
	s := Stats{Size: t.size, Height: t.height}
	var entries int
	t.Walk(func(n NodeInfo) bool {
		s.Nodes++
		if n.Leaf {
			s.Leaves++
		}
		entries += n.Entries
		return true
	})
	if s.Nodes > 0 {
		s.Fill = float64(entries) / float64(s.Nodes*t.params.MaxEntries)
	}
	return s
}
