package bench

import (
	"bytes"
	"math"
	"os"
	"path/filepath"

	"github.com/jinzhu/copier"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/quarkchain/sensordb/libs/store"
)

var ErrInvalidConfig = errors.New("invalid benchmark config")

// Config describes one benchmark run. Every field is explicit; nothing is
// read from the environment.
type Config struct {
	// Samples is the number of synthetic readings fed to every backend.
	Samples int `toml:"samples,omitempty" yaml:"samples,omitempty"`
	// MinValue and MaxValue bound the uniform reading distribution [min, max).
	MinValue float64 `toml:"min_value,omitempty" yaml:"min_value,omitempty"`
	MaxValue float64 `toml:"max_value,omitempty" yaml:"max_value,omitempty"`
	// RangeLo and RangeHi are the inclusive bounds of the timed range query.
	RangeLo float64 `toml:"range_lo,omitempty" yaml:"range_lo,omitempty"`
	RangeHi float64 `toml:"range_hi,omitempty" yaml:"range_hi,omitempty"`
	// Seed of the workload generator. Equal seeds give equal workloads.
	Seed uint64 `toml:"seed,omitempty" yaml:"seed,omitempty"`
	// Backends lists store backends by name, see store.Backends.
	Backends []string `toml:"backends,omitempty" yaml:"backends,omitempty"`
	// Rounds repeats the insert and query phases on a fresh store.
	Rounds int `toml:"rounds,omitempty" yaml:"rounds,omitempty"`
	// MetricsFile, if set, receives the run's metrics in prometheus text format.
	MetricsFile string `toml:"metrics_file,omitempty" yaml:"metrics_file,omitempty"`
}

// DefaultConfig returns the reference workload: 10000 temperatures in
// [15, 45), range query over [20, 30].
func DefaultConfig() Config {
	return Config{
		Samples:  10000,
		MinValue: 15.0,
		MaxValue: 45.0,
		RangeLo:  20.0,
		RangeHi:  30.0,
		Seed:     1,
		Backends: []string{store.BackendSortedList, store.BackendOSTree},
		Rounds:   1,
	}
}

// LoadConfig reads a TOML (.toml) or YAML (.yaml, .yml) file on top of
// DefaultConfig. Unknown fields are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "failed to load configuration")
	}
	switch filepath.Ext(path) {
	case ".toml":
		err = toml.NewDecoder(bytes.NewReader(raw)).DisallowUnknownFields().Decode(&cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		err = dec.Decode(&cfg)
	default:
		return cfg, errors.Errorf("unsupported configuration format %q", filepath.Ext(path))
	}
	if err != nil {
		return cfg, errors.Wrapf(err, "failed to decode configuration %s", path)
	}
	return cfg, nil
}

// Merge copies every non-zero field of overrides into c.
func (c *Config) Merge(overrides Config) error {
	if err := copier.CopyWithOption(c, &overrides, copier.Option{IgnoreEmpty: true}); err != nil {
		return errors.Wrap(err, "failed to merge configuration overrides")
	}
	return nil
}

// Validate checks that the config describes a runnable benchmark.
func (c Config) Validate() error {
	if c.Samples <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "samples must be positive, got %d", c.Samples)
	}
	if !finite(c.MinValue) || !finite(c.MaxValue) || c.MinValue >= c.MaxValue {
		return errors.Wrapf(ErrInvalidConfig, "value range [%v, %v) is empty or not finite", c.MinValue, c.MaxValue)
	}
	if math.IsNaN(c.RangeLo) || math.IsNaN(c.RangeHi) || c.RangeLo > c.RangeHi {
		return errors.Wrapf(ErrInvalidConfig, "range query bounds [%v, %v] are invalid", c.RangeLo, c.RangeHi)
	}
	if c.Rounds <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "rounds must be positive, got %d", c.Rounds)
	}
	if len(c.Backends) == 0 {
		return errors.Wrap(ErrInvalidConfig, "no backend selected")
	}
	seen := make(map[string]bool, len(c.Backends))
	for _, b := range c.Backends {
		if _, err := store.New(b); err != nil {
			return errors.Wrapf(ErrInvalidConfig, "backend %q: %v", b, err)
		}
		if seen[b] {
			return errors.Wrapf(ErrInvalidConfig, "backend %q listed twice", b)
		}
		seen[b] = true
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
