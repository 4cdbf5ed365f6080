// Package geom provides the D-dimensional points and axis-aligned boxes used
// as keys by the rtree package, along with the box arithmetic that the index
// relies on: union, intersection tests, content, margin, and comparable
// distances.
package geom
