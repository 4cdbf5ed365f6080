// Package orbtr lets github.com/paulmach/orb geometries be stored directly in
// an rtree.Tree. Every orb geometry is planar and 2-D, so trees built here
// always have two dimensions.
package orbtr

import (
	"github.com/paulmach/orb"

	"github.com/peterstace/geoindex/geom"
	"github.com/peterstace/geoindex/rtree"
)

// Point converts an orb point.
func Point(p orb.Point) geom.Point {
	return geom.Point{p.X(), p.Y()}
}

// Envelope converts an orb bound to a box.
func Envelope(b orb.Bound) geom.Box {
	return geom.Box{Min: Point(b.Min), Max: Point(b.Max)}
}

// Bound converts a 2-D box back to an orb bound.
func Bound(bb geom.Box) orb.Bound {
	return orb.Bound{
		Min: orb.Point{bb.Min[0], bb.Min[1]},
		Max: orb.Point{bb.Max[0], bb.Max[1]},
	}
}

// Translator indexes orb geometries by their bound. Two geometries are the
// same value when orb.Equal says so.
type Translator[V orb.Geometry] struct{}

func (Translator[V]) Indexable(v V) geom.Indexable {
	return Envelope(v.Bound())
}

func (Translator[V]) Equal(a, b V) bool {
	return orb.Equal(a, b)
}

// New creates a 2-D tree of orb geometries.
func New[V orb.Geometry](p rtree.Params, opts ...rtree.Option) (*rtree.Tree[V], error) {
	p.Dims = 2
	return rtree.New[V](Translator[V]{}, p, opts...)
}

// Feature is an orb geometry with an identifier.
type Feature struct {
	ID       string
	Geometry orb.Geometry
}

// FeatureTranslator indexes features by the bound of their geometry. Features
// are the same value when both the ID and the geometry match.
type FeatureTranslator struct{}

func (FeatureTranslator) Indexable(f Feature) geom.Indexable {
	return Envelope(f.Geometry.Bound())
}

func (FeatureTranslator) Equal(a, b Feature) bool {
	return a.ID == b.ID && orb.Equal(a.Geometry, b.Geometry)
}

// NewFeatureTree creates a 2-D tree of features.
func NewFeatureTree(p rtree.Params, opts ...rtree.Option) (*rtree.Tree[Feature], error) {
	p.Dims = 2
	return rtree.New[Feature](FeatureTranslator{}, p, opts...)
}

// Intersects matches values whose bound shares a point with b.
func Intersects(b orb.Bound) rtree.Spatial {
	return rtree.Intersects(Envelope(b))
}

// CoveredBy matches values whose bound lies inside b.
func CoveredBy(b orb.Bound) rtree.Spatial {
	return rtree.CoveredBy(Envelope(b))
}

// Nearest returns up to k values closest to p, measured between p and each
// value's bound.
func Nearest[V any](t *rtree.Tree[V], p orb.Point, k int, preds ...rtree.Predicate) ([]V, error) {
	return t.Nearest(Point(p), k, preds...)
}
