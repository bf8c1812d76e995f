package mesh

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/meshkit/mesh/plan"
	"github.com/joshuapare/meshkit/mesh/pool"
)

func newMesh(t *testing.T, loaded plan.Counts) (*Mesh, *bytes.Buffer) {
	t.Helper()
	ps, err := Initialize(smallCaps(), loaded)
	require.NoError(t, err)
	var buf bytes.Buffer
	return New(ps, slog.New(slog.NewTextHandler(&buf, nil))), &buf
}

func TestMesh_PointLifecycle(t *testing.T) {
	m, _ := newMesh(t, plan.Counts{})

	ip := m.NewPoint([3]float64{1, 2, 3}, 7, TagRequired|TagCorner)
	require.Equal(t, ID(1), ip)

	p, ok := m.Point(ip)
	require.True(t, ok)
	assert.Equal(t, [3]float64{1, 2, 3}, p.C)
	assert.Equal(t, int32(7), p.Ref)
	assert.True(t, p.Tag.Has(TagRequired))
	assert.True(t, p.Tag.Has(TagCorner))
	assert.False(t, p.Tag.Has(TagGeo|TagRequired), "Has needs every bit")

	require.NoError(t, m.DelPoint(ip))
	_, ok = m.Point(ip)
	assert.False(t, ok)
}

func TestMesh_InvalidDeleteIsLogged(t *testing.T) {
	m, log := newMesh(t, plan.Counts{Points: 2, Triangles: 1})

	require.NoError(t, m.DelPoint(2))
	err := m.DelPoint(2)
	require.ErrorIs(t, err, pool.ErrInvalidEntity)
	assert.Contains(t, log.String(), "invalid entity")
	assert.Contains(t, log.String(), "kind=point")

	require.ErrorIs(t, m.DelTriangle(pool.Nil), pool.ErrInvalidEntity)
	require.ErrorIs(t, m.DelTriangle(9), pool.ErrInvalidEntity)
	assert.Contains(t, log.String(), "kind=triangle")

	// The mesh keeps working after rejected calls.
	assert.Equal(t, ID(2), m.NewPoint([3]float64{}, 0, 0))
	require.NoError(t, m.Pools().Verify())
}

func TestMesh_XPoints(t *testing.T) {
	m, _ := newMesh(t, plan.Counts{})
	ip := m.NewPoint([3]float64{0, 0, 1}, 0, TagGeo)

	_, err := m.NewXPoint(ip, XPoint{})
	require.ErrorIs(t, err, ErrNoPool)

	require.NoError(t, m.Pools().EnableXPoints())
	xp := XPoint{N1: [3]float64{0, 0, 1}}
	id, err := m.NewXPoint(ip, xp)
	require.NoError(t, err)
	require.NotEqual(t, pool.Nil, id)

	got, ok := m.XPoint(ip)
	require.True(t, ok)
	assert.Equal(t, xp, got)

	// A second record for the same point replaces the first in place.
	xp2 := XPoint{N1: [3]float64{1, 0, 0}}
	id2, err := m.NewXPoint(ip, xp2)
	require.NoError(t, err)
	assert.Equal(t, id, id2)
	got, _ = m.XPoint(ip)
	assert.Equal(t, xp2, got)

	// Deleting the point releases its extended record.
	require.NoError(t, m.DelPoint(ip))
	assert.Equal(t, 0, m.Pools().XPoints.Len())
	require.NoError(t, m.Pools().Verify())

	_, err = m.NewXPoint(ip, xp)
	require.ErrorIs(t, err, pool.ErrInvalidEntity)
}

func TestMesh_XPointsExhausted(t *testing.T) {
	m, _ := newMesh(t, plan.Counts{})
	require.NoError(t, m.Pools().EnableXPoints())

	for i := 0; i < smallCaps().XPoints; i++ {
		ip := m.NewPoint([3]float64{}, 0, 0)
		id, err := m.NewXPoint(ip, XPoint{})
		require.NoError(t, err)
		require.NotEqual(t, pool.Nil, id)
	}

	ip := m.NewPoint([3]float64{}, 0, 0)
	id, err := m.NewXPoint(ip, XPoint{})
	require.NoError(t, err)
	assert.Equal(t, pool.Nil, id)
	_, ok := m.XPoint(ip)
	assert.False(t, ok)
}

func TestMesh_Edges(t *testing.T) {
	m, _ := newMesh(t, plan.Counts{})
	a := m.NewPoint([3]float64{}, 0, 0)
	b := m.NewPoint([3]float64{1, 0, 0}, 0, 0)

	_, err := m.NewEdge(a, b, 1, TagRef)
	require.ErrorIs(t, err, ErrNoPool)
	require.ErrorIs(t, m.DelEdge(1), ErrNoPool)
	_, ok := m.Edge(1)
	assert.False(t, ok)

	require.NoError(t, m.Pools().EnableEdges())
	ia, err := m.NewEdge(a, b, 1, TagRef)
	require.NoError(t, err)
	e, ok := m.Edge(ia)
	require.True(t, ok)
	assert.Equal(t, Edge{A: a, B: b, Ref: 1, Tag: TagRef}, e)

	require.NoError(t, m.DelEdge(ia))
	require.ErrorIs(t, m.DelEdge(ia), pool.ErrInvalidEntity)
}

func TestMesh_Triangles(t *testing.T) {
	m, _ := newMesh(t, plan.Counts{})
	require.True(t, m.HasFreeTriangles(20))
	require.False(t, m.HasFreeTriangles(21))

	var v [3]ID
	for i := range v {
		v[i] = m.NewPoint([3]float64{float64(i), 0, 0}, 0, 0)
	}

	it := m.NewTriangle(v, 3)
	require.NoError(t, m.UpdateTriangle(it, func(tr *Triangle) {
		tr.Qual = 0.5
		tr.EdgeTag[1] = TagBoundary
		tr.Base = 2
	}))
	tr, ok := m.Triangle(it)
	require.True(t, ok)
	assert.Equal(t, Triangle{V: v, Ref: 3, Base: 2, EdgeTag: [3]Tag{0, TagBoundary, 0}, Qual: 0.5}, tr)

	require.NoError(t, m.DelTriangle(it))
	require.ErrorIs(t, m.UpdateTriangle(it, func(*Triangle) {}), pool.ErrInvalidEntity)

	// Reuse hands back a clean slot.
	again := m.NewTriangle(v, 0)
	require.Equal(t, it, again)
	tr, _ = m.Triangle(again)
	assert.Zero(t, tr.Qual)
	assert.Equal(t, [3]Tag{}, tr.EdgeTag)
}

func TestMesh_PointExhaustion(t *testing.T) {
	m, _ := newMesh(t, plan.Counts{Points: 8})
	require.True(t, m.HasFreePoints(2))
	require.False(t, m.HasFreePoints(3))

	assert.Equal(t, ID(9), m.NewPoint([3]float64{}, 0, 0))
	assert.Equal(t, ID(10), m.NewPoint([3]float64{}, 0, 0))
	assert.Equal(t, pool.Nil, m.NewPoint([3]float64{}, 0, 0))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "point", KindPoint.String())
	assert.Equal(t, "xpoint", KindXPoint.String())
	assert.Equal(t, "triangle", KindTriangle.String())
	assert.Equal(t, "edge", KindEdge.String())
	assert.Equal(t, "unknown", Kind(42).String())

	b, err := KindEdge.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "edge", string(b))

	var k Kind
	require.NoError(t, k.UnmarshalText([]byte("triangle")))
	assert.Equal(t, KindTriangle, k)
	require.Error(t, k.UnmarshalText([]byte("unknown")))
}
