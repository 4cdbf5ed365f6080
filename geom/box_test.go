package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(minX, minY, maxX, maxY float64) Box {
	return Box{Min: Point{minX, minY}, Max: Point{maxX, maxY}}
}

func TestInverseBoxIsUnionIdentity(t *testing.T) {
	inv := InverseBox(2)
	assert.True(t, inv.IsInverse())

	b := box(1, 2, 3, 4)
	assert.True(t, Equal(b, Union(inv, b)))
	assert.True(t, Equal(b, Union(b, inv)))
	assert.False(t, b.IsInverse())
	assert.Zero(t, Content(inv))
	assert.Zero(t, Margin(inv))
}

func TestUnionDoesNotAlias(t *testing.T) {
	a := box(0, 0, 1, 1)
	b := box(2, 2, 3, 3)
	u := Union(a, b)
	u.Min[0] = -100
	assert.Equal(t, 0.0, a.Min[0])
	assert.Equal(t, 2.0, b.Min[0])
}

func TestIntersectionPredicates(t *testing.T) {
	for _, tt := range []struct {
		name     string
		a, b     Box
		inter    bool
		interior bool
	}{
		{"disjoint", box(0, 0, 1, 1), box(2, 2, 3, 3), false, false},
		{"touching edge", box(0, 0, 1, 1), box(1, 0, 2, 1), true, false},
		{"touching corner", box(0, 0, 1, 1), box(1, 1, 2, 2), true, false},
		{"overlapping", box(0, 0, 2, 2), box(1, 1, 3, 3), true, true},
		{"contained", box(0, 0, 4, 4), box(1, 1, 2, 2), true, true},
		{"point inside", box(0, 0, 4, 4), Point{1, 1}.Envelope(), true, true},
		{"point on edge", box(0, 0, 4, 4), Point{0, 1}.Envelope(), true, false},
	} {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.inter, Intersects(tt.a, tt.b))
			assert.Equal(t, tt.inter, Intersects(tt.b, tt.a))
			assert.Equal(t, tt.interior, InteriorsIntersect(tt.a, tt.b))
			assert.Equal(t, tt.interior, InteriorsIntersect(tt.b, tt.a))
		})
	}
}

func TestCovers(t *testing.T) {
	outer := box(0, 0, 4, 4)
	assert.True(t, Covers(outer, outer))
	assert.True(t, Covers(outer, box(1, 1, 2, 2)))
	assert.True(t, Covers(outer, box(0, 0, 4, 1)))
	assert.False(t, Covers(outer, box(1, 1, 5, 2)))
	assert.False(t, Covers(box(1, 1, 2, 2), outer))
}

func TestMeasures(t *testing.T) {
	b := box(1, 2, 4, 6)
	assert.Equal(t, 12.0, Content(b))
	assert.Equal(t, 7.0, Margin(b))
	assert.Equal(t, Point{2.5, 4}, Center(b))
	assert.Equal(t, 0.0, Content(box(1, 1, 1, 5)))

	assert.Equal(t, 1.0, OverlapContent(box(0, 0, 2, 2), box(1, 1, 3, 3)))
	assert.Equal(t, 0.0, OverlapContent(box(0, 0, 1, 1), box(1, 1, 3, 3)))
	assert.Equal(t, 5.0, Enlargement(box(0, 0, 2, 2), box(0, 0, 3, 3)))

	b3 := Box{Min: Point{0, 0, 0}, Max: Point{1, 2, 3}}
	assert.Equal(t, 6.0, Content(b3))
	assert.Equal(t, 6.0, Margin(b3))
}

func TestComparableDistance(t *testing.T) {
	b := box(1, 1, 3, 3)
	assert.Equal(t, 0.0, ComparableDistance(Point{2, 2}, b))
	assert.Equal(t, 0.0, ComparableDistance(Point{1, 3}, b))
	assert.Equal(t, 1.0, ComparableDistance(Point{0, 2}, b))
	assert.Equal(t, 2.0, ComparableDistance(Point{0, 0}, b))
	assert.Equal(t, 25.0, ComparableDistance(Point{6, 7}, b))
	assert.Equal(t, 8.0, CenterDistance(box(0, 0, 2, 2), box(2, 2, 4, 4)))
}

func TestValidate(t *testing.T) {
	require.NoError(t, box(0, 0, 1, 1).Validate(2))
	require.NoError(t, Point{1, 2, 3}.Validate(3))

	err := box(0, 0, 1, 1).Validate(3)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	err = box(2, 0, 1, 1).Validate(2)
	assert.ErrorIs(t, err, ErrInvalidGeometry)

	err = box(math.NaN(), 0, 1, 1).Validate(2)
	assert.ErrorIs(t, err, ErrInvalidGeometry)

	err = Point{0, math.Inf(1)}.Validate(2)
	assert.ErrorIs(t, err, ErrInvalidGeometry)

	err = InverseBox(2).Validate(2)
	assert.ErrorIs(t, err, ErrInvalidGeometry)

	err = Box{Min: Point{0, 0}, Max: Point{1}}.Validate(2)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(box(0, 0, 1, 1), NewBox(Point{0, 0}, Point{1, 1})))
	assert.False(t, Equal(box(0, 0, 1, 1), box(0, 0, 1, 2)))
	assert.True(t, Equal(Point{1, 2}.Envelope(), box(1, 2, 1, 2)))
	assert.False(t, Point{1, 2}.Equal(Point{1, 2, 3}))
}
