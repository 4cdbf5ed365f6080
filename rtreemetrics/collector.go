// Package rtreemetrics exports the shape of an rtree.Tree as Prometheus
// gauges. Statistics are gathered on every scrape, so the source must be safe
// to read while the scrape runs.
package rtreemetrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/peterstace/geoindex/rtree"
)

const (
	namespace = "geoindex"
	subsystem = "rtree"
)

// StatsSource is anything that can report tree statistics. *rtree.Tree
// satisfies it.
type StatsSource interface {
	Stats() rtree.Stats
}

// StatsFunc adapts a function to StatsSource, for example to take a lock
// around the call when the tree is shared with writers.
type StatsFunc func() rtree.Stats

func (f StatsFunc) Stats() rtree.Stats { return f() }

// Collector is a prometheus.Collector reporting the statistics of one tree.
type Collector struct {
	src StatsSource

	size   *prometheus.Desc
	height *prometheus.Desc
	nodes  *prometheus.Desc
	leaves *prometheus.Desc
	fill   *prometheus.Desc
}

// NewCollector creates a collector for src. Every metric carries a "tree"
// label set to name, so several trees can share a registry.
func NewCollector(name string, src StatsSource) *Collector {
	labels := prometheus.Labels{"tree": name}
	desc := func(metric, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystem, metric), help, nil, labels)
	}
	return &Collector{
		src:    src,
		size:   desc("values", "Number of values stored in the tree."),
		height: desc("height", "Number of levels in the tree, 0 when empty."),
		nodes:  desc("nodes", "Number of nodes in the tree."),
		leaves: desc("leaves", "Number of leaf nodes in the tree."),
		fill:   desc("fill_ratio", "Mean node occupancy as a fraction of the max entries."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.size
	ch <- c.height
	ch <- c.nodes
	ch <- c.leaves
	ch <- c.fill
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()
	ch <- prometheus.MustNewConstMetric(c.size, prometheus.GaugeValue, float64(s.Size))
	ch <- prometheus.MustNewConstMetric(c.height, prometheus.GaugeValue, float64(s.Height))
	ch <- prometheus.MustNewConstMetric(c.nodes, prometheus.GaugeValue, float64(s.Nodes))
	ch <- prometheus.MustNewConstMetric(c.leaves, prometheus.GaugeValue, float64(s.Leaves))
	ch <- prometheus.MustNewConstMetric(c.fill, prometheus.GaugeValue, s.Fill)
}
