// Package tilemesh converts a tile grid into a renderable quad mesh and the
// matching per-tile collision outlines.
package tilemesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/arena/pkg/math"
)

// ErrInconsistentMesh is returned by Validate when buffer sizes or indices
// disagree with the cell count.
var ErrInconsistentMesh = errors.New("inconsistent mesh buffers")

// Vertex is the interleaved layout uploaded to the GPU.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Path is a closed collision outline. The last point connects back to the first.
type Path []math.Vec2

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Size returns the extent of the box.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Mesh holds the geometry built from a grid. Buffers are parallel: vertex i
// has UVs[i] and Normals[i]; every 4 vertices belong to one tile, and
// Paths[k] is the outline of the k-th tile in scan order.
type Mesh struct {
	Vertices []math.Vec3
	Indices  []uint32
	UVs      []math.Vec2
	Normals  []math.Vec3
	Paths    []Path
	Bounds   Bounds
	Cells    int
}

// Empty reports whether the mesh has no tiles.
func (m *Mesh) Empty() bool {
	return m == nil || m.Cells == 0
}

// Interleaved packs position, normal and UV per vertex.
func (m *Mesh) Interleaved() []Vertex {
	if m.Empty() {
		return nil
	}
	out := make([]Vertex, len(m.Vertices))
	for i, p := range m.Vertices {
		n := m.Normals[i]
		uv := m.UVs[i]
		out[i] = Vertex{
			Position: [3]float32{p.X, p.Y, p.Z},
			Normal:   [3]float32{n.X, n.Y, n.Z},
			TexCoord: [2]float32{uv.X, uv.Y},
		}
	}
	return out
}

// Validate checks the buffer invariants.
func (m *Mesh) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: nil mesh", ErrInconsistentMesh)
	}
	switch {
	case len(m.Vertices) != 4*m.Cells:
		return fmt.Errorf("%w: %d vertices for %d cells", ErrInconsistentMesh, len(m.Vertices), m.Cells)
	case len(m.UVs) != len(m.Vertices):
		return fmt.Errorf("%w: %d uvs for %d vertices", ErrInconsistentMesh, len(m.UVs), len(m.Vertices))
	case len(m.Normals) != len(m.Vertices):
		return fmt.Errorf("%w: %d normals for %d vertices", ErrInconsistentMesh, len(m.Normals), len(m.Vertices))
	case len(m.Indices) != 6*m.Cells:
		return fmt.Errorf("%w: %d indices for %d cells", ErrInconsistentMesh, len(m.Indices), m.Cells)
	case len(m.Paths) != m.Cells:
		return fmt.Errorf("%w: %d paths for %d cells", ErrInconsistentMesh, len(m.Paths), m.Cells)
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("%w: index %d at %d out of range", ErrInconsistentMesh, idx, i)
		}
	}
	return nil
}
