package geom

// Point is a location with one coordinate per dimension.
type Point []float64

// Indexable is a geometry that can be stored in a spatial index. Points and
// boxes are both indexable; a point's envelope is the degenerate box with
// both corners at the point.
type Indexable interface {
	Envelope() Box
}

// Envelope implements Indexable.
func (p Point) Envelope() Box {
	return Box{Min: p, Max: p}
}

// Dims is the number of dimensions of the point.
func (p Point) Dims() int {
	return len(p)
}

// Validate checks that p has the given dimension count and finite
// coordinates.
func (p Point) Validate(dims int) error {
	if len(p) != dims {
		return mismatch(dims, len(p), len(p))
	}
	for i, c := range p {
		if !finite(c) {
			return invalid("point has non-finite coordinate on axis %d: %v", i, c)
		}
	}
	return nil
}

// Equal reports whether the points have identical coordinates.
func (p Point) Equal(o Point) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of p that shares no memory with it.
func (p Point) Clone() Point {
	if p == nil {
		return nil
	}
	c := make(Point, len(p))
	copy(c, p)
	return c
}
