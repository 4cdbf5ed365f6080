// Package rtree implements an in-memory R-Tree: a balanced tree over
// axis-aligned boxes supporting spatial predicate queries and k-nearest
// neighbour search.
//
// Values of any type can be stored. A Translator maps each value to its
// geometry (a geom.Point or geom.Box) and decides value equality. Nodes are
// split with one of three strategies chosen at construction: Linear,
// Quadratic or RStar.
//
//	tr := rtree.Self[geom.Box]{}
//	t, err := rtree.New[geom.Box](tr, rtree.DefaultParams(2))
//	if err != nil {
//		return err
//	}
//	_ = t.Insert(geom.NewBox(geom.Point{0, 0}, geom.Point{1, 1}))
//	for b := range t.Query(rtree.Intersects(geom.Point{0.5, 0.5})) {
//		fmt.Println(b)
//	}
package rtree
