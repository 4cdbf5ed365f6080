package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/peterstace/geoindex/rtree"
)

// config controls a benchmark run. It can be loaded from a YAML file and
// then overridden by command line flags.
type config struct {
	Params rtree.Params `yaml:"params" validate:"-"`

	// Count is the number of random values inserted. Ignored when GeoJSON
	// is set.
	Count int `yaml:"count" validate:"gte=0"`

	// Queries is the number of random queries checked against a brute
	// force scan, both before and after removals.
	Queries int `yaml:"queries" validate:"gte=0"`

	// K is the neighbour count used for nearest queries.
	K int `yaml:"k" validate:"gte=1"`

	Seed int64 `yaml:"seed"`

	// Remove is the fraction of values removed after insertion.
	Remove float64 `yaml:"remove" validate:"gte=0,lte=1"`

	// Extent bounds the coordinates of random values on every axis, and
	// MaxSize bounds their width.
	Extent  float64 `yaml:"extent" validate:"gt=0"`
	MaxSize float64 `yaml:"max_size" validate:"gte=0"`

	// GeoJSON names a FeatureCollection file to index instead of random
	// values.
	GeoJSON string `yaml:"geojson"`

	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`
}

func defaultConfig() config {
	return config{
		Params:   rtree.DefaultParams(2),
		Count:    10000,
		Queries:  200,
		K:        10,
		Seed:     1,
		Remove:   0.25,
		Extent:   1000,
		MaxSize:  10,
		LogLevel: "info",
	}
}

// loadConfig reads a YAML config file on top of the defaults. Keys that are
// absent keep their default values, and unknown keys are rejected.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config %s: %w", path, err)
	}
	return cfg, nil
}

var configValidate = validator.New()

func (c config) validate() error {
	if err := configValidate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s is %v, must be %s %s", fe.Field(), fe.Value(), fe.Tag(), fe.Param())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.GeoJSON != "" && c.Params.Dims != 2 {
		return fmt.Errorf("invalid config: geojson input needs 2 dims, got %d", c.Params.Dims)
	}
	return c.Params.Validate()
}

func (c config) logLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
