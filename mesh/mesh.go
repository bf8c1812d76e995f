package mesh

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/joshuapare/meshkit/mesh/pool"
)

// Mesh provides entity create and delete operations on top of a PoolSet.
//
// Create operations return pool.Nil when their pool is exhausted; callers
// check for it, typically after reserving room with HasFreePoints or
// HasFreeTriangles. Delete operations on invalid ids are logged and returned
// as errors wrapping pool.ErrInvalidEntity; the mesh is left unchanged.
//
// A Mesh is not safe for concurrent use.
type Mesh struct {
	pools *PoolSet
	log   *slog.Logger
}

// New wraps pools. A nil logger discards diagnostics.
func New(pools *PoolSet, log *slog.Logger) *Mesh {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Mesh{pools: pools, log: log}
}

// Pools returns the underlying storage.
func (m *Mesh) Pools() *PoolSet { return m.pools }

// NewPoint creates a vertex at c.
func (m *Mesh) NewPoint(c [3]float64, ref int32, tag Tag) ID {
	return m.pools.Points.Alloc(Point{C: c, Ref: ref, Tag: tag})
}

// Point returns the vertex ip.
func (m *Mesh) Point(ip ID) (Point, bool) { return m.pools.Points.Get(ip) }

// DelPoint deletes the vertex ip together with its extended record.
func (m *Mesh) DelPoint(ip ID) error {
	p, ok := m.pools.Points.Get(ip)
	if !ok {
		return m.reject(KindPoint, ip, m.pools.Points.Free(ip))
	}
	if p.XP != pool.Nil && m.pools.XPoints != nil {
		if err := m.pools.XPoints.Free(p.XP); err != nil {
			m.log.Warn("dangling extended point", "point", ip, "xpoint", p.XP, "error", err)
		}
	}
	return m.reject(KindPoint, ip, m.pools.Points.Free(ip))
}

// NewXPoint attaches an extended record to the vertex ip and returns its id,
// or pool.Nil if the extended point pool is exhausted. A vertex that already
// has a record gets it overwritten in place.
func (m *Mesh) NewXPoint(ip ID, xp XPoint) (ID, error) {
	if m.pools.XPoints == nil {
		return pool.Nil, fmt.Errorf("%w: %s", ErrNoPool, KindXPoint)
	}
	p, ok := m.pools.Points.Get(ip)
	if !ok {
		return pool.Nil, m.reject(KindPoint, ip,
			fmt.Errorf("%w: point %d has no live vertex", pool.ErrInvalidEntity, ip))
	}
	if p.XP != pool.Nil {
		return p.XP, m.pools.XPoints.Set(p.XP, xp)
	}

	id := m.pools.XPoints.Alloc(xp)
	if id == pool.Nil {
		return pool.Nil, nil
	}
	p.XP = id
	return id, m.pools.Points.Set(ip, p)
}

// XPoint returns the extended record of the vertex ip.
func (m *Mesh) XPoint(ip ID) (XPoint, bool) {
	p, ok := m.pools.Points.Get(ip)
	if !ok || p.XP == pool.Nil || m.pools.XPoints == nil {
		return XPoint{}, false
	}
	return m.pools.XPoints.Get(p.XP)
}

// NewEdge creates the edge a-b.
func (m *Mesh) NewEdge(a, b ID, ref int32, tag Tag) (ID, error) {
	if m.pools.Edges == nil {
		return pool.Nil, fmt.Errorf("%w: %s", ErrNoPool, KindEdge)
	}
	return m.pools.Edges.Alloc(Edge{A: a, B: b, Ref: ref, Tag: tag}), nil
}

// Edge returns the edge ia.
func (m *Mesh) Edge(ia ID) (Edge, bool) {
	if m.pools.Edges == nil {
		return Edge{}, false
	}
	return m.pools.Edges.Get(ia)
}

// DelEdge deletes the edge ia.
func (m *Mesh) DelEdge(ia ID) error {
	if m.pools.Edges == nil {
		return fmt.Errorf("%w: %s", ErrNoPool, KindEdge)
	}
	return m.reject(KindEdge, ia, m.pools.Edges.Free(ia))
}

// NewTriangle creates a triangle on the vertices v.
func (m *Mesh) NewTriangle(v [3]ID, ref int32) ID {
	return m.pools.Triangles.Alloc(Triangle{V: v, Ref: ref})
}

// Triangle returns the triangle it.
func (m *Mesh) Triangle(it ID) (Triangle, bool) { return m.pools.Triangles.Get(it) }

// UpdateTriangle calls fn on the triangle it.
func (m *Mesh) UpdateTriangle(it ID, fn func(*Triangle)) error {
	return m.reject(KindTriangle, it, m.pools.Triangles.Update(it, fn))
}

// DelTriangle deletes the triangle it. Its quality and tags are cleared with
// the rest of the slot.
func (m *Mesh) DelTriangle(it ID) error {
	return m.reject(KindTriangle, it, m.pools.Triangles.Free(it))
}

// HasFreePoints reports whether n vertices can be created.
func (m *Mesh) HasFreePoints(n int) bool { return m.pools.Points.CapacityCheck(n) }

// HasFreeTriangles reports whether n triangles can be created.
func (m *Mesh) HasFreeTriangles(n int) bool { return m.pools.Triangles.CapacityCheck(n) }

// reject logs err, if any, as a rejected operation on id and returns it.
func (m *Mesh) reject(kind Kind, id ID, err error) error {
	if err != nil {
		m.log.Warn("invalid entity", "kind", kind.String(), "id", id, "error", err)
	}
	return err
}
