package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/fzft/go-sparse-set/sparse"
)

type Config struct {
	Table Table `yaml:"table"`
	Log   Log   `yaml:"log"`
	CLI   CLI   `yaml:"cli"`
}

// Table holds the construction parameters of the console's containers.
type Table struct {
	InitialCapacity int     `yaml:"initial_capacity"`
	LoadFactor      float64 `yaml:"load_factor"`
	GrowthFactor    float64 `yaml:"growth_factor"`
}

type Log struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type CLI struct {
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
	RCFile      string `yaml:"rc_file"`
}

var defaultConfig = Config{
	Table: Table{
		InitialCapacity: sparse.DefaultCapacity,
		LoadFactor:      sparse.DefaultLoadFactor,
		GrowthFactor:    sparse.DefaultGrowthFactor,
	},
	Log: Log{
		Level: "info",
	},
	CLI: CLI{
		Prompt: "sparse> ",
	},
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := defaultConfig
	return &cfg
}

// Load decodes the YAML file at path over the defaults. An empty path
// yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	fp, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer fp.Close()

	return Decode(fp)
}

// Decode reads YAML from r over the defaults and validates the result.
func Decode(r io.Reader) (*Config, error) {
	cfg := defaultConfig
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate reports every out-of-range setting.
func (c *Config) Validate() error {
	var err error
	if c.Table.InitialCapacity < 0 {
		err = multierr.Append(err, fmt.Errorf("table.initial_capacity %d is negative", c.Table.InitialCapacity))
	}
	if !(c.Table.LoadFactor > 0 && c.Table.LoadFactor < 1) {
		err = multierr.Append(err, fmt.Errorf("table.load_factor %v outside (0, 1)", c.Table.LoadFactor))
	}
	if !(c.Table.GrowthFactor > 1) || math.IsInf(c.Table.GrowthFactor, 1) {
		err = multierr.Append(err, fmt.Errorf("table.growth_factor %v must be finite and greater than 1", c.Table.GrowthFactor))
	}
	return err
}

// Options turns the table section into container options.
func (t Table) Options() []sparse.Option {
	return []sparse.Option{
		sparse.WithCapacity(t.InitialCapacity),
		sparse.WithLoadFactor(t.LoadFactor),
		sparse.WithGrowthFactor(t.GrowthFactor),
	}
}
