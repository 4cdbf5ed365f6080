package geom

import "math"

// Box is an axis-aligned bounding box. Min and Max have one coordinate per
// dimension. Boxes are treated as immutable: functions in this package always
// return new coordinate slices and never write through their arguments.
type Box struct {
	Min, Max Point
}

// NewBox builds a box from two corners. The corners are copied.
func NewBox(min, max Point) Box {
	return Box{Min: min.Clone(), Max: max.Clone()}
}

// InverseBox returns the canonical invalid box: Min is +Inf and Max is -Inf
// on every axis. It is the identity element of Union.
func InverseBox(dims int) Box {
	bb := Box{Min: make(Point, dims), Max: make(Point, dims)}
	for i := 0; i < dims; i++ {
		bb.Min[i] = math.Inf(+1)
		bb.Max[i] = math.Inf(-1)
	}
	return bb
}

// Envelope implements Indexable.
func (b Box) Envelope() Box {
	return b
}

// Dims is the number of dimensions of the box.
func (b Box) Dims() int {
	return len(b.Min)
}

// IsInverse reports whether min > max on every axis.
func (b Box) IsInverse() bool {
	if len(b.Min) == 0 {
		return false
	}
	for i := range b.Min {
		if !(b.Min[i] > b.Max[i]) {
			return false
		}
	}
	return true
}

// Validate checks that b has the given dimension count, finite coordinates,
// and min <= max on every axis.
func (b Box) Validate(dims int) error {
	if len(b.Min) != dims || len(b.Max) != dims {
		return mismatch(dims, len(b.Min), len(b.Max))
	}
	for i := 0; i < dims; i++ {
		if !finite(b.Min[i]) || !finite(b.Max[i]) {
			return invalid("box has non-finite coordinate on axis %d: [%v, %v]", i, b.Min[i], b.Max[i])
		}
		if b.Min[i] > b.Max[i] {
			return invalid("box min exceeds max on axis %d: [%v, %v]", i, b.Min[i], b.Max[i])
		}
	}
	return nil
}

// Clone returns a deep copy of b.
func (b Box) Clone() Box {
	return Box{Min: b.Min.Clone(), Max: b.Max.Clone()}
}

// Union gives the smallest bounding box containing both bbox1 and bbox2.
func Union(bbox1, bbox2 Box) Box {
	n := len(bbox1.Min)
	bb := Box{Min: make(Point, n), Max: make(Point, n)}
	for i := 0; i < n; i++ {
		bb.Min[i] = math.Min(bbox1.Min[i], bbox2.Min[i])
		bb.Max[i] = math.Max(bbox1.Max[i], bbox2.Max[i])
	}
	return bb
}

// Intersection returns the box shared by bbox1 and bbox2. The result is not
// valid (min > max on some axis) when the boxes are disjoint.
func Intersection(bbox1, bbox2 Box) Box {
	n := len(bbox1.Min)
	bb := Box{Min: make(Point, n), Max: make(Point, n)}
	for i := 0; i < n; i++ {
		bb.Min[i] = math.Max(bbox1.Min[i], bbox2.Min[i])
		bb.Max[i] = math.Min(bbox1.Max[i], bbox2.Max[i])
	}
	return bb
}

// Intersects reports whether the closed boxes share at least one point.
func Intersects(bbox1, bbox2 Box) bool {
	for i := range bbox1.Min {
		if bbox1.Min[i] > bbox2.Max[i] || bbox1.Max[i] < bbox2.Min[i] {
			return false
		}
	}
	return true
}

// InteriorsIntersect is like Intersects, but touching boundaries don't count.
func InteriorsIntersect(bbox1, bbox2 Box) bool {
	for i := range bbox1.Min {
		if bbox1.Min[i] >= bbox2.Max[i] || bbox1.Max[i] <= bbox2.Min[i] {
			return false
		}
	}
	return true
}

// Covers reports whether inner lies entirely inside outer, boundaries
// included.
func Covers(outer, inner Box) bool {
	for i := range outer.Min {
		if inner.Min[i] < outer.Min[i] || inner.Max[i] > outer.Max[i] {
			return false
		}
	}
	return true
}

// Equal reports whether the two boxes have identical corners.
func Equal(bbox1, bbox2 Box) bool {
	return bbox1.Min.Equal(bbox2.Min) && bbox1.Max.Equal(bbox2.Max)
}

// Content is the D-dimensional volume of the box (area in 2-D). Inverse
// boxes have zero content.
func Content(bb Box) float64 {
	c := 1.0
	for i := range bb.Min {
		d := bb.Max[i] - bb.Min[i]
		if d <= 0 {
			return 0
		}
		c *= d
	}
	return c
}

// Margin is the sum of the box's edge lengths along each axis, proportional
// to its perimeter.
func Margin(bb Box) float64 {
	var m float64
	for i := range bb.Min {
		if d := bb.Max[i] - bb.Min[i]; d > 0 {
			m += d
		}
	}
	return m
}

// Center returns the midpoint of the box.
func Center(bb Box) Point {
	c := make(Point, len(bb.Min))
	for i := range bb.Min {
		c[i] = (bb.Min[i] + bb.Max[i]) / 2
	}
	return c
}

// OverlapContent is the content of the intersection of the two boxes.
func OverlapContent(bbox1, bbox2 Box) float64 {
	c := 1.0
	for i := range bbox1.Min {
		lo := math.Max(bbox1.Min[i], bbox2.Min[i])
		hi := math.Min(bbox1.Max[i], bbox2.Max[i])
		if hi <= lo {
			return 0
		}
		c *= hi - lo
	}
	return c
}

// Enlargement returns how much additional content the existing box would
// have to grow by to accommodate the additional box.
func Enlargement(existing, additional Box) float64 {
	return Content(Union(existing, additional)) - Content(existing)
}

// ComparableDistance is the squared Euclidean distance from p to the nearest
// point of bb, and zero when p is inside bb. It orders the same way as the
// true distance but avoids the square root.
func ComparableDistance(p Point, bb Box) float64 {
	var d float64
	for i, c := range p {
		var diff float64
		switch {
		case c < bb.Min[i]:
			diff = bb.Min[i] - c
		case c > bb.Max[i]:
			diff = c - bb.Max[i]
		}
		d += diff * diff
	}
	return d
}

// CenterDistance is the squared distance between the centers of two boxes.
func CenterDistance(bbox1, bbox2 Box) float64 {
	var d float64
	for i := range bbox1.Min {
		diff := (bbox1.Min[i] + bbox1.Max[i] - bbox2.Min[i] - bbox2.Max[i]) / 2
		d += diff * diff
	}
	return d
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
