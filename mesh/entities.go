package mesh

import (
	"fmt"

	"github.com/joshuapare/meshkit/mesh/pool"
)

// ID is the id of an entity within its pool.
type ID = pool.ID

// Tag is a bitset of point and edge properties.
type Tag uint16

const (
	TagRef      Tag = 1 << iota // edge or point on a reference boundary
	TagGeo                      // ridge
	TagRequired                 // must not be moved or removed
	TagNonManifold
	TagCorner
	TagBoundary
)

// Has reports whether all bits of x are set in t.
func (t Tag) Has(x Tag) bool { return t&x == x }

// Point is a mesh vertex.
type Point struct {
	C   [3]float64
	Ref int32
	Tag Tag
	XP  ID // extended record, 0 when none
}

// XPoint holds the boundary data of a point that lies on a ridge or
// reference edge.
type XPoint struct {
	N1 [3]float64
	N2 [3]float64
	T  [3]float64
}

// Edge is a boundary or feature edge.
type Edge struct {
	A, B ID
	Ref  int32
	Tag  Tag
}

// Triangle is a surface element.
type Triangle struct {
	V       [3]ID
	Ref     int32
	Base    int32  // generation marker used by adaptation passes
	EdgeTag [3]Tag // tags of the edges opposite V[0], V[1], V[2]
	Qual    float64
}

// Kind identifies an entity pool.
type Kind uint8

const (
	KindPoint Kind = iota
	KindXPoint
	KindTriangle
	KindEdge
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindXPoint:
		return "xpoint"
	case KindTriangle:
		return "triangle"
	case KindEdge:
		return "edge"
	default:
		return "unknown"
	}
}

// MarshalText encodes k as its name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	for c := KindPoint; c <= KindEdge; c++ {
		if c.String() == string(b) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("unknown entity kind %q", b)
}
