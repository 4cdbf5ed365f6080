package rtree

import (
	"cmp"
	"fmt"

	"github.com/emirpasic/gods/queues/priorityqueue"
	"github.com/emirpasic/gods/trees/binaryheap"

	"github.com/peterstace/geoindex/geom"
)

// candidate is either an unexpanded node or a matching value, keyed by the
// smallest comparable distance anything inside it can have to the query
// point.
type candidate struct {
	dist    float64
	index   int // node index, or value slot when isValue is set
	isValue bool
}

func byDistance(a, b interface{}) int {
	return cmp.Compare(a.(candidate).dist, b.(candidate).dist)
}

func byDistanceDesc(a, b interface{}) int {
	return -byDistance(a, b)
}

// Nearest returns up to k values satisfying every predicate, ordered by
// non-decreasing comparable distance from p to their indexables. Values at
// the same distance are returned in an unspecified order, so when several
// values tie for the k-th place which of them are included is unspecified.
//
// The search expands the closest unexpanded node first and stops as soon as
// no unexpanded node can be closer than the k-th best value found so far.
//
// An error wrapping geom.ErrInvalidGeometry or geom.ErrDimensionMismatch is
// returned if p is unusable. An empty tree or k <= 0 gives no values and no
// error.
func (t *Tree[V]) Nearest(p geom.Point, k int, preds ...Predicate) ([]V, error) {
	if err := p.Validate(t.params.Dims); err != nil {
		return nil, fmt.Errorf("nearest: %w", err)
	}
	if k <= 0 || t.root < 0 {
		return nil, nil
	}
	m := compile[V](preds)

	frontier := priorityqueue.NewWith(byDistance)
	best := binaryheap.NewWith(byDistanceDesc) // worst of the k best on top
	worst := func() (float64, bool) {
		if best.Size() < k {
			return 0, false
		}
		top, _ := best.Peek()
		return top.(candidate).dist, true
	}

	frontier.Enqueue(candidate{dist: geom.ComparableDistance(p, t.bound(t.root)), index: t.root})
	for !frontier.Empty() {
		item, _ := frontier.Dequeue()
		c := item.(candidate)
		if w, full := worst(); full && c.dist > w {
			break
		}
		if c.isValue {
			best.Push(c)
			if best.Size() > k {
				best.Pop()
			}
			continue
		}

		nd := &t.nodes[c.index]
		for _, e := range nd.entries {
			if nd.isLeaf {
				if !m.matchValue(t.values[e.index], e.box) {
					continue
				}
			} else if !m.matchNode(e.box) {
				continue
			}
			d := geom.ComparableDistance(p, e.box)
			if w, full := worst(); full && d > w {
				continue
			}
			frontier.Enqueue(candidate{dist: d, index: e.index, isValue: nd.isLeaf})
		}
	}

	out := make([]V, best.Size())
	for i := len(out) - 1; i >= 0; i-- {
		top, _ := best.Pop()
		out[i] = t.values[top.(candidate).index]
	}
	return out, nil
}
