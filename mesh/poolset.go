package mesh

import (
	"errors"
	"fmt"

	"github.com/joshuapare/meshkit/mesh/plan"
	"github.com/joshuapare/meshkit/mesh/pool"
)

// vertexAuxBytes is the per-vertex data kept outside the pools: adjacency for
// the two triangles a vertex accounts for (3 int32 each) and a symmetric 3x3
// metric (6 float64).
const vertexAuxBytes = 2*3*4 + 6*8

// Costs returns the per-entity byte costs of this package's pools.
func Costs() plan.Costs {
	return plan.Costs{
		Point:    int64(pool.SlotSize[Point]()),
		XPoint:   int64(pool.SlotSize[XPoint]()),
		Triangle: int64(pool.SlotSize[Triangle]()),
		Edge:     int64(pool.SlotSize[Edge]()),
		Vertex:   vertexAuxBytes,
	}
}

// PlanConfig returns the default planner configuration with Costs filled in.
func PlanConfig() plan.Config {
	cfg := plan.DefaultConfig()
	cfg.Costs = Costs()
	return cfg
}

// PoolSet is the entity storage of one mesh.
//
// XPoints and Edges are nil until the mesh uses them.
type PoolSet struct {
	Points    *pool.Pool[Point]
	XPoints   *pool.Pool[XPoint]
	Triangles *pool.Pool[Triangle]
	Edges     *pool.Pool[Edge]

	caps plan.Capacities
}

// Initialize allocates the pools at the planned capacities. Ids
// 1..loaded[kind] start live so that a reader can fill them with Set.
//
// The point and triangle pools are always allocated. The extended point and
// edge pools are allocated only if loaded has entities of that kind.
//
// If any pool cannot be allocated, Initialize returns an *OutOfMemoryError
// and no PoolSet.
func Initialize(caps plan.Capacities, loaded plan.Counts) (*PoolSet, error) {
	ps := &PoolSet{caps: caps}

	var err error
	if ps.Points, err = newPool[Point](KindPoint, caps.Points, loaded.Points); err != nil {
		return nil, err
	}
	if loaded.XPoints > 0 {
		if ps.XPoints, err = newPool[XPoint](KindXPoint, caps.XPoints, loaded.XPoints); err != nil {
			return nil, err
		}
	}
	if ps.Triangles, err = newPool[Triangle](KindTriangle, caps.Triangles, loaded.Triangles); err != nil {
		return nil, err
	}
	if loaded.Edges > 0 {
		if ps.Edges, err = newPool[Edge](KindEdge, caps.Edges, loaded.Edges); err != nil {
			return nil, err
		}
	}
	return ps, nil
}

func newPool[T any](kind Kind, capacity, loaded int) (*pool.Pool[T], error) {
	p, err := pool.New[T](capacity, loaded)
	if err != nil {
		var ae *pool.AllocError
		if errors.As(err, &ae) {
			return nil, &OutOfMemoryError{Kind: kind, Bytes: ae.Bytes, Err: err}
		}
		return nil, fmt.Errorf("mesh: %s pool: %w", kind, err)
	}
	return p, nil
}

// EnableXPoints allocates the extended point pool at its planned capacity.
// It does nothing if the pool exists.
func (ps *PoolSet) EnableXPoints() error {
	if ps.XPoints != nil {
		return nil
	}
	p, err := newPool[XPoint](KindXPoint, ps.caps.XPoints, 0)
	if err != nil {
		return err
	}
	ps.XPoints = p
	return nil
}

// EnableEdges allocates the edge pool at its planned capacity. It does
// nothing if the pool exists.
func (ps *PoolSet) EnableEdges() error {
	if ps.Edges != nil {
		return nil
	}
	p, err := newPool[Edge](KindEdge, ps.caps.Edges, 0)
	if err != nil {
		return err
	}
	ps.Edges = p
	return nil
}

// Capacities returns the plan the pools were built from.
func (ps *PoolSet) Capacities() plan.Capacities { return ps.caps }

// PoolStats describes one pool.
type PoolStats struct {
	Kind      Kind   `json:"kind"`
	Enabled   bool   `json:"enabled"`
	Live      int    `json:"live"`
	Capacity  int    `json:"capacity"`
	HighWater int    `json:"high_water"`
	Bytes     uint64 `json:"bytes"`
}

// Stats returns the state of every pool, disabled ones included, in Kind
// order.
func (ps *PoolSet) Stats() []PoolStats {
	return []PoolStats{
		statsOf(KindPoint, ps.Points),
		statsOf(KindXPoint, ps.XPoints),
		statsOf(KindTriangle, ps.Triangles),
		statsOf(KindEdge, ps.Edges),
	}
}

// Bytes returns the storage held by all enabled pools.
func (ps *PoolSet) Bytes() uint64 {
	var total uint64
	for _, s := range ps.Stats() {
		total += s.Bytes
	}
	return total
}

// Verify checks the free-list invariants of every enabled pool.
func (ps *PoolSet) Verify() error {
	for _, v := range []struct {
		kind Kind
		fn   func() error
	}{
		{KindPoint, verifier(ps.Points)},
		{KindXPoint, verifier(ps.XPoints)},
		{KindTriangle, verifier(ps.Triangles)},
		{KindEdge, verifier(ps.Edges)},
	} {
		if err := v.fn(); err != nil {
			return fmt.Errorf("mesh: %s pool: %w", v.kind, err)
		}
	}
	return nil
}

func verifier[T any](p *pool.Pool[T]) func() error {
	if p == nil {
		return func() error { return nil }
	}
	return p.Verify
}

func statsOf[T any](kind Kind, p *pool.Pool[T]) PoolStats {
	if p == nil {
		return PoolStats{Kind: kind}
	}
	st := p.State()
	return PoolStats{
		Kind:      kind,
		Enabled:   true,
		Live:      p.Len(),
		Capacity:  p.Cap(),
		HighWater: int(st.HighWater),
		Bytes:     p.Bytes(),
	}
}
