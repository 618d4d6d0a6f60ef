package engine

import (
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"morphogen/pkg/core"
)

// Config controls the engine: growth volume, structural limits, per-tick work
// bounds, and the archetype parameters.
type Config struct {
	Seed int64 `yaml:"seed"`

	Bounds core.Bounds `yaml:"bounds"`

	// SeedCount root nodes are planted on Reset.
	SeedCount int `yaml:"seed_count"`
	MaxNodes  int `yaml:"max_nodes"`

	// MinNodeDistance is the base spacing rule; ConnectDistance bounds
	// proximity connections and sizes the spatial grid cells.
	MinNodeDistance float64 `yaml:"min_node_distance"`
	ConnectDistance float64 `yaml:"connect_distance"`
	// FieldCellSize sets the influence-field resolution.
	FieldCellSize float64 `yaml:"field_cell_size"`

	// StepsPerTickMax bounds the growth sub-steps of one tick; the effective
	// count scales with the growth-rate parameter.
	StepsPerTickMax int `yaml:"steps_per_tick_max"`
	// TickDelta is the simulated seconds per tick fed to adaptation.
	TickDelta float64 `yaml:"tick_delta"`

	// WallBudget and TickBudget are the safety net against non-convergent
	// parameter combinations; zero disables either cap.
	WallBudget time.Duration `yaml:"wall_budget"`
	TickBudget int           `yaml:"tick_budget"`

	// Attraction-point tunables (space colonization).
	AttractionRadius float64 `yaml:"attraction_radius"`
	KillRadius       float64 `yaml:"kill_radius"`
	AttractorCap     int     `yaml:"attractor_cap"`

	Params core.Params `yaml:"params"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Seed:             1337,
		Bounds:           core.NewBounds(core.Vec3{X: -20, Y: 0, Z: -20}, core.Vec3{X: 20, Y: 40, Z: 20}),
		SeedCount:        1,
		MaxNodes:         2000,
		MinNodeDistance:  1.0,
		ConnectDistance:  3.0,
		FieldCellSize:    2.0,
		StepsPerTickMax:  8,
		TickDelta:        1.0 / 60,
		WallBudget:       30 * time.Second,
		TickBudget:       100000,
		AttractionRadius: 6.0,
		KillRadius:       1.5,
		AttractorCap:     200,
		Params:           core.DefaultParams(),
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["seed_count"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.SeedCount = parsed
		}
	}
	if v, ok := cfg["max_nodes"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.MaxNodes = parsed
		}
	}
	if v, ok := cfg["min_node_distance"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.MinNodeDistance = parsed
		}
	}
	if v, ok := cfg["connect_distance"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.ConnectDistance = parsed
		}
	}
	if v, ok := cfg["steps_per_tick_max"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.StepsPerTickMax = parsed
		}
	}
	if v, ok := cfg["biomorph"]; ok && v != "" {
		c.Params.Biomorph = core.BiomorphType(v)
	}
	if v, ok := cfg["density"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Params.Density = parsed
		}
	}
	if v, ok := cfg["complexity"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Params.Complexity = parsed
		}
	}
	if v, ok := cfg["connectivity"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Params.Connectivity = parsed
		}
	}
	if v, ok := cfg["growth_rate"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Params.GrowthRate = parsed
		}
	}
	if v, ok := cfg["adaptation_rate"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Params.AdaptationRate = parsed
		}
	}
	c.Params = c.Params.Normalized()
	if c.ConnectDistance < c.MinNodeDistance {
		c.ConnectDistance = c.MinNodeDistance
	}
	return c
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrap(err, "engine: read config")
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, errors.Wrapf(err, "engine: parse config %s", path)
	}
	c.Params = c.Params.Normalized()
	if c.ConnectDistance < c.MinNodeDistance {
		c.ConnectDistance = c.MinNodeDistance
	}
	return c, nil
}

// TargetNodeCount derives the growth target from density, clamped into
// [SeedCount, MaxNodes].
func (c Config) TargetNodeCount() int {
	span := float64(c.MaxNodes - c.SeedCount)
	if span < 0 {
		span = 0
	}
	target := c.SeedCount + int(core.Clamp01(c.Params.Density)*span+0.5)
	if target < 1 {
		target = 1
	}
	if target > c.MaxNodes {
		target = c.MaxNodes
	}
	return target
}
