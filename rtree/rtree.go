package rtree

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/peterstace/geoindex/geom"
)

// Tree is an in-memory R-Tree holding values of type V. The geometry of each
// value is obtained through the tree's Translator.
//
// A Tree is not safe for concurrent mutation. Read-only operations (Query,
// Nearest, Walk, Stats, Box, Size, Clone) never write to the tree, so they
// may run concurrently with each other as long as nothing mutates it. Use
// Clone to take an independent snapshot.
type Tree[V any] struct {
	params   Params
	tr       Translator[V]
	splitter splitter
	log      *slog.Logger

	// Nodes and values are arenas addressed by index. Released slots are
	// kept on free lists and reused.
	nodes     []node
	freeNodes []int
	values    []V
	freeSlots []int

	root   int // -1 when the tree is empty
	height int // number of levels; leaves are level 0
	size   int
}

// Option configures optional behaviour of a Tree.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger that structural events (splits, forced
// reinsertions, root changes) are reported to at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New creates an empty tree. The params are validated up front; an error
// wrapping ErrInvalidParams is returned if they are unusable.
func New[V any](tr Translator[V], p Params, opts ...Option) (*Tree[V], error) {
	if tr == nil {
		return nil, fmt.Errorf("%w: nil translator", ErrInvalidParams)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	return &Tree[V]{
		params:   p,
		tr:       tr,
		splitter: newSplitter(p.Strategy),
		log:      o.logger,
		root:     -1,
	}, nil
}

// Params returns the parameters the tree was constructed with.
func (t *Tree[V]) Params() Params {
	return t.params
}

// Translator returns the tree's translator.
func (t *Tree[V]) Translator() Translator[V] {
	return t.tr
}

// Size is the number of values stored in the tree.
func (t *Tree[V]) Size() int {
	return t.size
}

// Empty reports whether the tree holds no values.
func (t *Tree[V]) Empty() bool {
	return t.size == 0
}

// Height is the number of levels in the tree. An empty tree has height 0,
// and a tree with a single leaf has height 1.
func (t *Tree[V]) Height() int {
	return t.height
}

// Box gives the box that most closely bounds every value in the tree. If the
// tree is empty, the inverse box (see geom.InverseBox) is returned.
func (t *Tree[V]) Box() geom.Box {
	if t.root < 0 {
		return geom.InverseBox(t.params.Dims)
	}
	return t.bound(t.root)
}

// Clear removes every value from the tree.
func (t *Tree[V]) Clear() {
	t.debug("cleared", "size", t.size, "height", t.height)
	t.nodes = nil
	t.freeNodes = nil
	t.values = nil
	t.freeSlots = nil
	t.root = -1
	t.height = 0
	t.size = 0
}

// Clone returns a deep copy of the tree. The copy shares no nodes with the
// original, so mutating one never affects the other. Values themselves are
// copied by assignment; values held through pointers stay shared with the
// caller as they were before.
func (t *Tree[V]) Clone() *Tree[V] {
	c := *t
	c.nodes = make([]node, len(t.nodes))
	for i, n := range t.nodes {
		c.nodes[i] = node{
			isLeaf:  n.isLeaf,
			entries: append([]entry(nil), n.entries...),
		}
	}
	c.freeNodes = append([]int(nil), t.freeNodes...)
	c.values = append([]V(nil), t.values...)
	c.freeSlots = append([]int(nil), t.freeSlots...)
	return &c
}

// Query returns the sequence of values satisfying every one of the given
// predicates. With no predicates, every value is returned. The order of the
// values is unspecified. The sequence may be iterated more than once, but the
// tree must not be modified while an iteration is in progress.
func (t *Tree[V]) Query(preds ...Predicate) iter.Seq[V] {
	m := compile[V](preds)
	return func(yield func(V) bool) {
		if t.root < 0 {
			return
		}
		t.search(t.root, m, yield)
	}
}

// QueryAppend appends the values satisfying every predicate to dst and
// returns the extended slice.
func (t *Tree[V]) QueryAppend(dst []V, preds ...Predicate) []V {
	for v := range t.Query(preds...) {
		dst = append(dst, v)
	}
	return dst
}

func (t *Tree[V]) search(n int, m matcher[V], yield func(V) bool) bool {
	nd := &t.nodes[n]
	for _, e := range nd.entries {
		if nd.isLeaf {
			v := t.values[e.index]
			if m.matchValue(v, e.box) && !yield(v) {
				return false
			}
			continue
		}
		if !m.matchNode(e.box) {
			continue
		}
		if !t.search(e.index, m, yield) {
			return false
		}
	}
	return true
}

func (t *Tree[V]) debug(msg string, args ...any) {
	if t.log.Enabled(context.Background(), slog.LevelDebug) {
		t.log.Debug(msg, args...)
	}
}
