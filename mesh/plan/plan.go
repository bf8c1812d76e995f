package plan

import (
	"io"
	"log/slog"
	"math"
)

// Capacities are the planned maximum entity counts per kind.
type Capacities struct {
	Points    int `json:"points"`
	XPoints   int `json:"xpoints"`
	Triangles int `json:"triangles"`
	Edges     int `json:"edges"`

	// BudgetBytes is the effective memory budget the plan was made for.
	BudgetBytes int64 `json:"budget_bytes"`

	// Defaulted is set when no budget was requested and the per-kind
	// defaults were used as is.
	Defaulted bool `json:"defaulted"`
}

// BudgetMB returns the effective budget in whole megabytes.
func (c Capacities) BudgetMB() int64 { return c.BudgetBytes / MB }

// Counts returns the capacities as a Counts value.
func (c Capacities) Counts() Counts {
	return Counts{
		Points:    c.Points,
		XPoints:   c.XPoints,
		Triangles: c.Triangles,
		Edges:     c.Edges,
	}
}

// Planner computes pool capacities. It performs no allocation.
type Planner struct {
	cfg         Config
	vertexBytes int64
	log         *slog.Logger
}

// New creates a Planner. A nil logger discards diagnostics.
func New(cfg Config, log *slog.Logger) (*Planner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Planner{
		cfg:         cfg,
		vertexBytes: cfg.VertexBytes(),
		log:         log,
	}, nil
}

// Config returns the planner configuration.
func (p *Planner) Config() Config { return p.cfg }

// Defaults returns max(Growth * loaded, floor) for every kind.
func (p *Planner) Defaults(loaded Counts) Counts {
	grow := func(n, floor int) int {
		return max(int(math.Ceil(p.cfg.Growth*float64(n))), floor)
	}
	return Counts{
		Points:    grow(loaded.Points, p.cfg.Floors.Points),
		XPoints:   grow(loaded.XPoints, p.cfg.Floors.XPoints),
		Triangles: grow(loaded.Triangles, p.cfg.Floors.Triangles),
		Edges:     grow(loaded.Edges, p.cfg.Floors.Edges),
	}
}

// Compute plans capacities for a mesh with the given loaded counts.
//
// budgetMB <= 0 selects the automatic budget: CapMB when detected memory is
// known and larger than that, DefaultBudgetMB otherwise. detected is the host
// physical memory in bytes, 0 when unknown.
//
// A positive budget larger than detected memory is reported with a warning,
// and the authorized budget becomes the physical figure, but the pools are
// still sized from the requested budget. A budget that cannot hold the loaded
// mesh, or that falls below the floor, yields an *InsufficientMemoryError with
// the minimum that would work.
func (p *Planner) Compute(budgetMB int64, loaded Counts, detected uint64) (Capacities, error) {
	def := p.Defaults(loaded)

	if budgetMB <= 0 {
		budget := p.cfg.DefaultBudgetMB * MB
		if capBytes := p.cfg.CapMB * MB; detected > uint64(capBytes) {
			budget = capBytes
		} else {
			p.log.Warn("maximum memory set to default value",
				"mb", p.cfg.DefaultBudgetMB, "detected_mb", detected/MB)
		}
		caps := withCounts(def, budget)
		caps.Defaulted = true
		p.logCapacities(caps)
		return caps, nil
	}

	budgetMB = min(budgetMB, math.MaxInt64/MB)
	budget := budgetMB * MB
	authorized := budget
	if detected > 0 && uint64(budget) > detected {
		p.log.Warn("requested memory exceeds physical memory",
			"requested_mb", budgetMB, "available_mb", detected/MB)
		authorized = int64(min(detected, math.MaxInt64))
	}

	if budget < p.floorBytes() {
		return Capacities{}, p.insufficient(budgetMB, loaded)
	}

	np := p.VertexBudget(budget)
	r := p.cfg.Ratios
	caps := withCounts(Counts{
		Points:    clampInt(np, def.Points),
		XPoints:   clampInt(scale(r.XPoints, np), def.XPoints),
		Triangles: clampInt(scale(r.Triangles, np), def.Triangles),
		Edges:     clampInt(scale(r.Edges, np), def.Edges),
	}, authorized)

	if loaded.Points > caps.Points || loaded.XPoints > caps.XPoints ||
		loaded.Triangles > caps.Triangles || loaded.Edges > caps.Edges {
		return Capacities{}, p.insufficient(budgetMB, loaded)
	}

	p.logCapacities(caps)
	return caps, nil
}

// VertexBudget returns how many vertices, with their share of the other
// entities, fit in budget bytes after the fixed overhead.
func (p *Planner) VertexBudget(budget int64) int64 {
	avail := budget - p.cfg.OverheadBytes
	if avail <= 0 {
		return 0
	}
	return avail / p.vertexBytes
}

// MinimumBytes returns the smallest budget, in bytes, that Compute accepts for
// a mesh with the given loaded counts.
func (p *Planner) MinimumBytes(loaded Counts) int64 {
	r := p.cfg.Ratios
	n := max(
		int64(max(loaded.Points, 0)),
		need(r.XPoints, loaded.XPoints),
		need(r.Triangles, loaded.Triangles),
		need(r.Edges, loaded.Edges),
	)
	if n > (math.MaxInt64-p.cfg.OverheadBytes)/p.vertexBytes {
		return math.MaxInt64
	}
	return max(p.floorBytes(), p.cfg.OverheadBytes+n*p.vertexBytes)
}

// MinimumMB is MinimumBytes rounded up to whole megabytes.
func (p *Planner) MinimumMB(loaded Counts) int64 {
	b := p.MinimumBytes(loaded)
	mb := b / MB
	if b%MB != 0 {
		mb++
	}
	return mb
}

// floorBytes is the smallest budget accepted for any mesh: the configured
// minimum, and never less than the overhead plus one vertex.
func (p *Planner) floorBytes() int64 {
	return max(p.cfg.MinBudgetMB*MB, p.cfg.OverheadBytes+p.vertexBytes)
}

func (p *Planner) insufficient(requestedMB int64, loaded Counts) error {
	err := &InsufficientMemoryError{
		RequestedMB: requestedMB,
		MinimumMB:   p.MinimumMB(loaded),
	}
	p.log.Error("requested memory insufficient",
		"requested_mb", err.RequestedMB, "minimum_mb", err.MinimumMB)
	return err
}

func (p *Planner) logCapacities(caps Capacities) {
	p.log.Info("maximum memory authorized", "mb", caps.BudgetMB())
	p.log.Debug("planned capacities",
		"points", caps.Points,
		"xpoints", caps.XPoints,
		"triangles", caps.Triangles,
		"edges", caps.Edges,
	)
}

func withCounts(c Counts, budget int64) Capacities {
	return Capacities{
		Points:      c.Points,
		XPoints:     c.XPoints,
		Triangles:   c.Triangles,
		Edges:       c.Edges,
		BudgetBytes: budget,
	}
}

// scale returns floor(r * n), the number of entities of a kind that n
// vertices account for.
func scale(r float64, n int64) int64 {
	return int64(math.Floor(r * float64(n)))
}

// maxNeed bounds need so that later byte arithmetic saturates instead of
// wrapping.
const maxNeed = 1 << 53

// need returns the smallest vertex count n with scale(r, n) >= c, or maxNeed
// when that count is out of range.
func need(r float64, c int) int64 {
	if c <= 0 {
		return 0
	}
	target := int64(c)
	f := math.Ceil(float64(c) / r)
	if math.IsInf(f, 0) || math.IsNaN(f) || f >= maxNeed {
		return maxNeed
	}
	n := int64(f)
	for n > 0 && scale(r, n-1) >= target {
		n--
	}
	for scale(r, n) < target {
		n++
	}
	return n
}

func clampInt(n int64, limit int) int {
	if n > int64(limit) {
		return limit
	}
	return int(n)
}
