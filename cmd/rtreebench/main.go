// Command rtreebench builds R-trees from random boxes or a GeoJSON file,
// checks every query against a brute force scan and reports timings and the
// shape of the resulting trees.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/peterstace/geoindex/rtree"
	"github.com/peterstace/geoindex/rtreemetrics"
)

var errMismatch = errors.New("tree disagreed with brute force")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		all        bool
		flagCfg    = defaultConfig()
	)
	cmd := &cobra.Command{
		Use:   "rtreebench",
		Short: "Build R-trees and check them against brute force",
		Long: `rtreebench inserts random boxes (or the features of a GeoJSON file)
into an R-tree, checks spatial and nearest neighbour queries against a
brute force scan, removes some of the values and checks again.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := defaultConfig()
			if configPath != "" {
				var err error
				if cfg, err = loadConfig(configPath); err != nil {
					return err
				}
			}
			applyFlags(cmd, &cfg, flagCfg)
			if err := cfg.validate(); err != nil {
				return err
			}

			log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.logLevel()}))
			strategies := []rtree.Strategy{cfg.Params.Strategy}
			if all {
				strategies = []rtree.Strategy{rtree.Linear, rtree.Quadratic, rtree.RStar}
			}
			return run(cfg, strategies, log, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "YAML config file; flags override its values")
	f.BoolVar(&all, "all", false, "Run every split strategy in turn")
	f.Var(&flagCfg.Params.Strategy, "strategy", "Split strategy (linear, quadratic, rstar)")
	f.IntVar(&flagCfg.Params.Dims, "dims", flagCfg.Params.Dims, "Number of dimensions")
	f.IntVar(&flagCfg.Params.MaxEntries, "max", flagCfg.Params.MaxEntries, "Max entries per node")
	f.IntVar(&flagCfg.Params.MinEntries, "min", flagCfg.Params.MinEntries, "Min entries per non-root node")
	f.IntVar(&flagCfg.Params.ReinsertCount, "reinsert", flagCfg.Params.ReinsertCount, "Entries moved by R* forced reinsertion (0 for the default)")
	f.IntVarP(&flagCfg.Count, "count", "n", flagCfg.Count, "Number of random values")
	f.IntVarP(&flagCfg.Queries, "queries", "q", flagCfg.Queries, "Number of checked queries")
	f.IntVar(&flagCfg.K, "k", flagCfg.K, "Neighbours per nearest query")
	f.Int64Var(&flagCfg.Seed, "seed", flagCfg.Seed, "Random seed")
	f.Float64Var(&flagCfg.Remove, "remove", flagCfg.Remove, "Fraction of values to remove")
	f.Float64Var(&flagCfg.Extent, "extent", flagCfg.Extent, "Coordinate range of random values")
	f.Float64Var(&flagCfg.MaxSize, "max-size", flagCfg.MaxSize, "Largest width of random values")
	f.StringVar(&flagCfg.GeoJSON, "geojson", "", "Index the features of a GeoJSON FeatureCollection")
	f.StringVar(&flagCfg.LogLevel, "log-level", flagCfg.LogLevel, "Log level (debug, info, warn, error)")
	return cmd
}

// applyFlags copies the values of explicitly set flags from flagCfg.
func applyFlags(cmd *cobra.Command, cfg *config, flagCfg config) {
	set := func(name string, apply func()) {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	set("strategy", func() { cfg.Params.Strategy = flagCfg.Params.Strategy })
	set("dims", func() { cfg.Params.Dims = flagCfg.Params.Dims })
	set("max", func() { cfg.Params.MaxEntries = flagCfg.Params.MaxEntries })
	set("min", func() { cfg.Params.MinEntries = flagCfg.Params.MinEntries })
	set("reinsert", func() { cfg.Params.ReinsertCount = flagCfg.Params.ReinsertCount })
	set("count", func() { cfg.Count = flagCfg.Count })
	set("queries", func() { cfg.Queries = flagCfg.Queries })
	set("k", func() { cfg.K = flagCfg.K })
	set("seed", func() { cfg.Seed = flagCfg.Seed })
	set("remove", func() { cfg.Remove = flagCfg.Remove })
	set("extent", func() { cfg.Extent = flagCfg.Extent })
	set("max-size", func() { cfg.MaxSize = flagCfg.MaxSize })
	set("geojson", func() { cfg.GeoJSON = flagCfg.GeoJSON })
	set("log-level", func() { cfg.LogLevel = flagCfg.LogLevel })
}

// run benchmarks each strategy in turn and writes a report to out. The tree
// statistics are reported through a Prometheus registry, the same way a
// service embedding a tree would export them.
func run(cfg config, strategies []rtree.Strategy, log *slog.Logger, out io.Writer) error {
	reg := prometheus.NewRegistry()
	var failed bool
	for _, s := range strategies {
		cfg.Params.Strategy = s
		l := log.With("strategy", s)

		var (
			res   result
			stats rtreemetrics.StatsSource
			err   error
		)
		if cfg.GeoJSON != "" {
			stats, res, err = runGeoJSON(cfg, l)
		} else {
			stats, res, err = runRandom(cfg, l)
		}
		if err != nil {
			return fmt.Errorf("%v: %w", s, err)
		}
		if err := reg.Register(rtreemetrics.NewCollector(s.String(), stats)); err != nil {
			return fmt.Errorf("registering collector: %w", err)
		}

		fmt.Fprintf(out, "%-9s inserted=%d removed=%d checked=%d mismatches=%d insert=%v check=%v remove=%v\n",
			s, res.Inserted, res.Removed, res.Checked, res.Mismatches, res.InsertTime, res.CheckTime, res.RemoveTime)
		if res.Mismatches > 0 {
			failed = true
		}
	}

	mfs, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gathering stats: %w", err)
	}
	for _, mf := range mfs {
		ms := mf.GetMetric()
		sort.Slice(ms, func(i, j int) bool {
			return ms[i].GetLabel()[0].GetValue() < ms[j].GetLabel()[0].GetValue()
		})
		for _, m := range ms {
			fmt.Fprintf(out, "%s{tree=%q} %g\n", mf.GetName(), m.GetLabel()[0].GetValue(), m.GetGauge().GetValue())
		}
	}
	if failed {
		return errMismatch
	}
	return nil
}
