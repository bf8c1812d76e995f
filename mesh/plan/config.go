package plan

import (
	"fmt"
	"math"
)

// MB is the unit of memory budgets.
const MB = 1 << 20

// Bounds on Ratios. Values outside them are rejected by Validate.
const (
	MinRatio = 1e-6
	MaxRatio = 1e6
)

// Counts holds a number per entity kind.
type Counts struct {
	Points    int `json:"points"`
	XPoints   int `json:"xpoints"`
	Triangles int `json:"triangles"`
	Edges     int `json:"edges"`
}

// Ratios are the expected number of each entity per mesh vertex. For a closed
// triangulated surface Euler's formula gives about two triangles per vertex.
type Ratios struct {
	XPoints   float64
	Triangles float64
	Edges     float64
}

// Costs are bytes per entity. Vertex covers per-vertex data stored outside
// the pools (adjacency, metric).
type Costs struct {
	Point    int64
	XPoint   int64
	Triangle int64
	Edge     int64
	Vertex   int64
}

// Config parameterizes a Planner.
type Config struct {
	Ratios Ratios
	Costs  Costs

	// Floors are the smallest default capacities, used when the loaded mesh
	// is small or empty.
	Floors Counts

	// Growth scales loaded counts into default capacities.
	Growth float64

	// DefaultBudgetMB is the budget used when none is requested and physical
	// memory is unknown or does not exceed CapMB.
	DefaultBudgetMB int64

	// CapMB bounds the automatic budget on hosts with plenty of memory.
	CapMB int64

	// MinBudgetMB is the smallest budget ever accepted.
	MinBudgetMB int64

	// OverheadBytes is the fixed per-mesh auxiliary data.
	OverheadBytes int64
}

// DefaultConfig returns the stock ratios and limits. Costs are left zero: they
// depend on the entity layout and are filled in by the mesh package.
func DefaultConfig() Config {
	return Config{
		Ratios: Ratios{
			XPoints:   0.1,
			Triangles: 2,
			Edges:     0.2,
		},
		Floors: Counts{
			Points:    1_000_000,
			XPoints:   500_000,
			Triangles: 2_000_000,
			Edges:     200_000,
		},
		Growth:          1.5,
		DefaultBudgetMB: 800,
		CapMB:           2000,
		MinBudgetMB:     39,
		OverheadBytes:   8 * MB,
	}
}

// Validate checks that c can drive a Planner.
func (c Config) Validate() error {
	for name, r := range map[string]float64{
		"xpoint ratio":   c.Ratios.XPoints,
		"triangle ratio": c.Ratios.Triangles,
		"edge ratio":     c.Ratios.Edges,
	} {
		if !(r >= MinRatio && r <= MaxRatio) {
			return fmt.Errorf("%w: %s must be in [%g, %g], got %v",
				ErrBadConfig, name, MinRatio, MaxRatio, r)
		}
	}
	for name, v := range map[string]int64{
		"point cost":    c.Costs.Point,
		"xpoint cost":   c.Costs.XPoint,
		"triangle cost": c.Costs.Triangle,
		"edge cost":     c.Costs.Edge,
	} {
		if v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrBadConfig, name, v)
		}
	}
	if c.Costs.Vertex < 0 {
		return fmt.Errorf("%w: vertex cost must not be negative", ErrBadConfig)
	}
	if c.Floors.Points < 0 || c.Floors.XPoints < 0 || c.Floors.Triangles < 0 || c.Floors.Edges < 0 {
		return fmt.Errorf("%w: floors must not be negative", ErrBadConfig)
	}
	if c.Growth < 1 || math.IsInf(c.Growth, 0) {
		return fmt.Errorf("%w: growth must be at least 1, got %v", ErrBadConfig, c.Growth)
	}
	if c.DefaultBudgetMB <= 0 || c.CapMB <= 0 {
		return fmt.Errorf("%w: default and cap budgets must be positive", ErrBadConfig)
	}
	if c.MinBudgetMB < 0 || c.OverheadBytes < 0 {
		return fmt.Errorf("%w: minimum budget and overhead must not be negative", ErrBadConfig)
	}
	return nil
}

// VertexBytes returns the average cost of one vertex with its share of the
// other entities, rounded up to a whole byte.
func (c Config) VertexBytes() int64 {
	b := float64(c.Costs.Point) +
		c.Ratios.XPoints*float64(c.Costs.XPoint) +
		c.Ratios.Triangles*float64(c.Costs.Triangle) +
		c.Ratios.Edges*float64(c.Costs.Edge) +
		float64(c.Costs.Vertex)
	return int64(math.Ceil(b))
}
