package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"slices"
	"time"

	"github.com/peterstace/geoindex/geom"
	"github.com/peterstace/geoindex/orbtr"
	"github.com/peterstace/geoindex/rtree"
)

// result summarises one benchmark run.
type result struct {
	Strategy   rtree.Strategy
	Inserted   int
	Removed    int
	Checked    int
	Mismatches int

	InsertTime time.Duration
	CheckTime  time.Duration
	RemoveTime time.Duration

	Stats rtree.Stats
}

var predicateKinds = []func(geom.Indexable) rtree.Spatial{
	rtree.Intersects,
	rtree.Disjoint,
	rtree.Within,
	rtree.CoveredBy,
	rtree.Overlaps,
}

// randomItem is a value with a unique id, so that removals are exact even
// when two boxes coincide.
type randomItem = rtree.Pair[geom.Box, int]

func randomBox(rnd *rand.Rand, dims int, extent, maxSize float64) geom.Box {
	bb := geom.Box{Min: make(geom.Point, dims), Max: make(geom.Point, dims)}
	for i := 0; i < dims; i++ {
		bb.Min[i] = rnd.Float64() * extent
		bb.Max[i] = bb.Min[i] + rnd.Float64()*maxSize
	}
	return bb
}

// runRandom indexes cfg.Count random boxes, checks queries against a brute
// force scan, removes a fraction of the boxes and checks again.
func runRandom(cfg config, log *slog.Logger) (*rtree.Tree[randomItem], result, error) {
	rnd := rand.New(rand.NewSource(cfg.Seed))
	tr := rtree.NewPairTranslator[geom.Box, int]()
	rt, err := rtree.New[randomItem](tr, cfg.Params, rtree.WithLogger(log))
	if err != nil {
		return nil, result{}, err
	}
	res := result{Strategy: cfg.Params.Strategy}

	values := make([]randomItem, cfg.Count)
	for i := range values {
		values[i] = randomItem{First: randomBox(rnd, cfg.Params.Dims, cfg.Extent, cfg.MaxSize), Second: i}
	}
	start := time.Now()
	for _, v := range values {
		if err := rt.Insert(v); err != nil {
			return nil, res, fmt.Errorf("inserting value %d: %w", v.Second, err)
		}
	}
	res.InsertTime = time.Since(start)
	res.Inserted = len(values)
	log.Info("inserted", "strategy", cfg.Params.Strategy, "count", len(values), "elapsed", res.InsertTime)

	start = time.Now()
	res.Checked, res.Mismatches = check[randomItem](rt, tr, values, cfg, rnd, log)
	res.CheckTime = time.Since(start)

	rnd.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })
	n := int(float64(len(values)) * cfg.Remove)
	start = time.Now()
	for _, v := range values[:n] {
		ok, err := rt.Remove(v)
		if err != nil {
			return nil, res, fmt.Errorf("removing value %d: %w", v.Second, err)
		}
		if !ok {
			log.Error("value not found for removal", "id", v.Second)
			res.Mismatches++
		}
	}
	res.RemoveTime = time.Since(start)
	res.Removed = n
	values = values[n:]
	log.Info("removed", "count", n, "elapsed", res.RemoveTime)

	checked, mismatches := check[randomItem](rt, tr, values, cfg, rnd, log)
	res.Checked += checked
	res.Mismatches += mismatches
	res.Stats = rt.Stats()
	return rt, res, nil
}

// runGeoJSON indexes the features of cfg.GeoJSON and checks queries against
// a brute force scan.
func runGeoJSON(cfg config, log *slog.Logger) (*rtree.Tree[orbtr.Feature], result, error) {
	data, err := os.ReadFile(cfg.GeoJSON)
	if err != nil {
		return nil, result{}, fmt.Errorf("reading geojson: %w", err)
	}
	features, err := orbtr.FeaturesFromGeoJSON(data)
	if err != nil {
		return nil, result{}, err
	}
	rt, err := orbtr.NewFeatureTree(cfg.Params, rtree.WithLogger(log))
	if err != nil {
		return nil, result{}, err
	}
	res := result{Strategy: cfg.Params.Strategy}

	start := time.Now()
	for _, f := range features {
		if err := rt.Insert(f); err != nil {
			return nil, res, fmt.Errorf("inserting feature %s: %w", f.ID, err)
		}
	}
	res.InsertTime = time.Since(start)
	res.Inserted = len(features)
	log.Info("inserted features", "file", cfg.GeoJSON, "count", len(features), "elapsed", res.InsertTime)

	rnd := rand.New(rand.NewSource(cfg.Seed))
	start = time.Now()
	res.Checked, res.Mismatches = check[orbtr.Feature](rt, orbtr.FeatureTranslator{}, features, cfg, rnd, log)
	res.CheckTime = time.Since(start)
	res.Stats = rt.Stats()
	return rt, res, nil
}

// check runs cfg.Queries random queries and nearest searches within the
// tree's box and compares each with a scan over values. It returns the number
// of checks made and how many disagreed.
func check[V any](rt *rtree.Tree[V], tr rtree.Translator[V], values []V, cfg config, rnd *rand.Rand, log *slog.Logger) (int, int) {
	if rt.Empty() {
		return 0, 0
	}
	extent := rt.Box()
	var checked, mismatches int
	for i := 0; i < cfg.Queries; i++ {
		q := queryBox(rnd, extent)
		pred := predicateKinds[i%len(predicateKinds)](q)
		if i%2 == 1 {
			pred = rtree.Not(pred)
		}

		got := rt.QueryAppend(nil, pred)
		want := 0
		for _, v := range values {
			if rtree.Match(v, tr.Indexable(v).Envelope(), pred) {
				want++
			}
		}
		ok := len(got) == want
		for _, v := range got {
			ok = ok && rtree.Match(v, tr.Indexable(v).Envelope(), pred)
		}
		checked++
		if !ok {
			mismatches++
			log.Error("query mismatch", "predicate", pred, "box", q, "got", len(got), "want", want)
		}

		pt := geom.Center(q)
		near, err := rt.Nearest(pt, cfg.K)
		if err != nil {
			log.Error("nearest failed", "point", pt, "err", err)
			mismatches++
			continue
		}
		checked++
		if !slices.Equal(distances(tr, pt, near), bruteNearest(tr, values, pt, cfg.K)) {
			mismatches++
			log.Error("nearest mismatch", "point", pt, "k", cfg.K)
		}
	}
	log.Debug("checked", "queries", checked, "mismatches", mismatches)
	return checked, mismatches
}

// queryBox picks a box inside extent covering up to a tenth of it on each
// axis.
func queryBox(rnd *rand.Rand, extent geom.Box) geom.Box {
	dims := extent.Dims()
	bb := geom.Box{Min: make(geom.Point, dims), Max: make(geom.Point, dims)}
	for i := 0; i < dims; i++ {
		width := extent.Max[i] - extent.Min[i]
		bb.Min[i] = extent.Min[i] + rnd.Float64()*width
		bb.Max[i] = min(extent.Max[i], bb.Min[i]+rnd.Float64()*width/10)
	}
	return bb
}

func distances[V any](tr rtree.Translator[V], pt geom.Point, values []V) []float64 {
	ds := make([]float64, len(values))
	for i, v := range values {
		ds[i] = geom.ComparableDistance(pt, tr.Indexable(v).Envelope())
	}
	return ds
}

func bruteNearest[V any](tr rtree.Translator[V], values []V, pt geom.Point, k int) []float64 {
	ds := distances(tr, pt, values)
	slices.Sort(ds)
	if len(ds) > k {
		ds = ds[:k]
	}
	return ds
}
