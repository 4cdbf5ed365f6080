package rtree

import (
	"fmt"

	"github.com/peterstace/geoindex/geom"
)

// Predicate is a test applied during Query and Nearest. Predicates passed
// together are combined by conjunction.
type Predicate interface {
	// MatchNode reports whether a subtree bounded by bb could contain a
	// matching value. It must never return false when a match is possible.
	MatchNode(bb geom.Box) bool

	// MatchIndexable reports whether a value whose indexable has envelope bb
	// matches.
	MatchIndexable(bb geom.Box) bool
}

// ValuePredicate is a Predicate that also tests the stored value itself.
type ValuePredicate[V any] interface {
	Predicate
	MatchValue(v V) bool
}

// Relation is a spatial relationship between a stored value and a query
// geometry.
type Relation int

const (
	RelIntersects Relation = iota
	RelDisjoint
	RelWithin
	RelCoveredBy
	RelOverlaps
)

var relationNames = [...]string{
	RelIntersects: "intersects",
	RelDisjoint:   "disjoint",
	RelWithin:     "within",
	RelCoveredBy:  "covered_by",
	RelOverlaps:   "overlaps",
}

func (r Relation) String() string {
	if r < 0 || int(r) >= len(relationNames) {
		return fmt.Sprintf("Relation(%d)", int(r))
	}
	return relationNames[r]
}

// Spatial is a predicate relating each value's indexable to a fixed query
// box, optionally negated.
type Spatial struct {
	Rel     Relation
	Negated bool
	Box     geom.Box
}

// Intersects matches values whose indexable shares at least one point with g.
func Intersects(g geom.Indexable) Spatial {
	return Spatial{Rel: RelIntersects, Box: g.Envelope()}
}

// Disjoint matches values whose indexable shares no point with g.
func Disjoint(g geom.Indexable) Spatial {
	return Spatial{Rel: RelDisjoint, Box: g.Envelope()}
}

// Within matches values whose indexable lies inside g and reaches into its
// interior. A point value must lie strictly inside g.
func Within(g geom.Indexable) Spatial {
	return Spatial{Rel: RelWithin, Box: g.Envelope()}
}

// CoveredBy matches values whose indexable lies inside g, boundary included.
func CoveredBy(g geom.Indexable) Spatial {
	return Spatial{Rel: RelCoveredBy, Box: g.Envelope()}
}

// Overlaps matches values whose indexable shares interior with g, where
// neither covers the other. Points never overlap anything.
func Overlaps(g geom.Indexable) Spatial {
	return Spatial{Rel: RelOverlaps, Box: g.Envelope()}
}

// Not inverts the result of a spatial predicate for values.
func Not(s Spatial) Spatial {
	s.Negated = !s.Negated
	return s
}

func (s Spatial) String() string {
	if s.Negated {
		return "not_" + s.Rel.String()
	}
	return s.Rel.String()
}

// MatchIndexable implements Predicate.
func (s Spatial) MatchIndexable(bb geom.Box) bool {
	var ok bool
	switch s.Rel {
	case RelIntersects:
		ok = geom.Intersects(bb, s.Box)
	case RelDisjoint:
		ok = !geom.Intersects(bb, s.Box)
	case RelWithin:
		ok = geom.Covers(s.Box, bb) && geom.InteriorsIntersect(bb, s.Box)
	case RelCoveredBy:
		ok = geom.Covers(s.Box, bb)
	case RelOverlaps:
		ok = geom.InteriorsIntersect(bb, s.Box) && !geom.Covers(s.Box, bb) && !geom.Covers(bb, s.Box)
	default:
		panic(fmt.Sprintf("rtree: unknown relation %d", int(s.Rel)))
	}
	return ok != s.Negated
}

// MatchNode implements Predicate. A subtree is skipped only when none of the
// boxes it could contain can satisfy the predicate.
func (s Spatial) MatchNode(bb geom.Box) bool {
	rel := s.Rel
	if s.Negated {
		switch rel {
		case RelIntersects:
			rel = RelDisjoint
		case RelDisjoint:
			rel = RelIntersects
		case RelCoveredBy:
			return !geom.Covers(s.Box, bb)
		default:
			return true
		}
	}
	switch rel {
	case RelIntersects, RelCoveredBy:
		return geom.Intersects(bb, s.Box)
	case RelDisjoint:
		return !geom.Covers(s.Box, bb)
	case RelWithin, RelOverlaps:
		return geom.InteriorsIntersect(bb, s.Box)
	default:
		panic(fmt.Sprintf("rtree: unknown relation %d", int(s.Rel)))
	}
}

// Satisfies matches values for which fn returns true. It doesn't prune any
// subtrees, so it is best combined with a spatial predicate.
func Satisfies[V any](fn func(V) bool) ValuePredicate[V] {
	return valueFunc[V](fn)
}

type valueFunc[V any] func(V) bool

func (valueFunc[V]) MatchNode(geom.Box) bool      { return true }
func (valueFunc[V]) MatchIndexable(geom.Box) bool { return true }
func (f valueFunc[V]) MatchValue(v V) bool        { return f(v) }
func (valueFunc[V]) valuePredicate()              {}

// matcher is a conjunction of predicates, split up front into the tests
// applied to boxes and the tests applied to values.
type matcher[V any] struct {
	spatial []Predicate
	values  []ValuePredicate[V]
}

func compile[V any](preds []Predicate) matcher[V] {
	var m matcher[V]
	for _, p := range preds {
		if vp, ok := p.(ValuePredicate[V]); ok {
			m.values = append(m.values, vp)
		} else if _, ok := p.(interface{ valuePredicate() }); ok {
			var zero V
			panic(fmt.Sprintf("rtree: predicate %T can't test values of type %T", p, zero))
		}
		m.spatial = append(m.spatial, p)
	}
	return m
}

func (m matcher[V]) matchNode(bb geom.Box) bool {
	for _, p := range m.spatial {
		if !p.MatchNode(bb) {
			return false
		}
	}
	return true
}

func (m matcher[V]) matchValue(v V, bb geom.Box) bool {
	for _, p := range m.spatial {
		if !p.MatchIndexable(bb) {
			return false
		}
	}
	for _, p := range m.values {
		if !p.MatchValue(v) {
			return false
		}
	}
	return true
}

// Match reports whether v, with indexable envelope bb, satisfies every
// predicate. It is the brute-force counterpart of Query.
func Match[V any](v V, bb geom.Box, preds ...Predicate) bool {
	return compile[V](preds).matchValue(v, bb)
}
