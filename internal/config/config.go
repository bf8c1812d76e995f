// Package config loads meshctl settings from a TOML file and MESHKIT_*
// environment variables.
//
// Precedence, lowest first: built-in defaults, the TOML file, the
// environment. LoadEnvFile can seed the environment from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/joshuapare/meshkit/mesh/plan"
)

type Config struct {
	Memory  MemoryConfig  `toml:"memory"`
	Planner PlannerConfig `toml:"planner"`
	Logging LoggingConfig `toml:"logging"`
}

type MemoryConfig struct {
	// BudgetMB is the requested memory budget, 0 for automatic.
	BudgetMB int64 `toml:"budget_mb" env:"MESHKIT_MEM"`
}

type PlannerConfig struct {
	XPointRatio     float64 `toml:"xpoint_ratio" env:"MESHKIT_XPOINT_RATIO"`
	TriangleRatio   float64 `toml:"triangle_ratio" env:"MESHKIT_TRIANGLE_RATIO"`
	EdgeRatio       float64 `toml:"edge_ratio" env:"MESHKIT_EDGE_RATIO"`
	Growth          float64 `toml:"growth" env:"MESHKIT_GROWTH"`
	DefaultBudgetMB int64   `toml:"default_budget_mb" env:"MESHKIT_DEFAULT_BUDGET_MB"`
	CapMB           int64   `toml:"cap_mb" env:"MESHKIT_CAP_MB"`
	MinBudgetMB     int64   `toml:"min_budget_mb" env:"MESHKIT_MIN_BUDGET_MB"`

	Floors FloorsConfig `toml:"floors"`
}

type FloorsConfig struct {
	Points    int `toml:"points" env:"MESHKIT_FLOOR_POINTS"`
	XPoints   int `toml:"xpoints" env:"MESHKIT_FLOOR_XPOINTS"`
	Triangles int `toml:"triangles" env:"MESHKIT_FLOOR_TRIANGLES"`
	Edges     int `toml:"edges" env:"MESHKIT_FLOOR_EDGES"`
}

type LoggingConfig struct {
	Level  string `toml:"level" env:"MESHKIT_LOG_LEVEL"`
	Format string `toml:"format" env:"MESHKIT_LOG_FORMAT"` // "text" or "json"
	Dir    string `toml:"dir" env:"MESHKIT_LOG_DIR"`
}

// Default returns the built-in settings, matching plan.DefaultConfig.
func Default() *Config {
	d := plan.DefaultConfig()
	return &Config{
		Planner: PlannerConfig{
			XPointRatio:     d.Ratios.XPoints,
			TriangleRatio:   d.Ratios.Triangles,
			EdgeRatio:       d.Ratios.Edges,
			Growth:          d.Growth,
			DefaultBudgetMB: d.DefaultBudgetMB,
			CapMB:           d.CapMB,
			MinBudgetMB:     d.MinBudgetMB,
			Floors: FloorsConfig{
				Points:    d.Floors.Points,
				XPoints:   d.Floors.XPoints,
				Triangles: d.Floors.Triangles,
				Edges:     d.Floors.Edges,
			},
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load reads path over the defaults, then applies environment overrides. An
// empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("parse config: unknown key %q", undecoded[0].String())
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvFile adds the variables of a .env file to the environment. Variables
// already set are left alone. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// Validate checks the settings that plan.Config does not cover.
func (c *Config) Validate() error {
	if c.Memory.BudgetMB < 0 {
		return fmt.Errorf("config: memory.budget_mb must not be negative, got %d", c.Memory.BudgetMB)
	}
	return nil
}

// Plan overlays the planner settings on base, which supplies the entity
// costs and overhead.
func (c *Config) Plan(base plan.Config) plan.Config {
	p := c.Planner
	base.Ratios = plan.Ratios{
		XPoints:   p.XPointRatio,
		Triangles: p.TriangleRatio,
		Edges:     p.EdgeRatio,
	}
	base.Growth = p.Growth
	base.DefaultBudgetMB = p.DefaultBudgetMB
	base.CapMB = p.CapMB
	base.MinBudgetMB = p.MinBudgetMB
	base.Floors = plan.Counts{
		Points:    p.Floors.Points,
		XPoints:   p.Floors.XPoints,
		Triangles: p.Floors.Triangles,
		Edges:     p.Floors.Edges,
	}
	return base
}
