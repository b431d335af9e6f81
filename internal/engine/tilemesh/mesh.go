package tilemesh

import (
	"fmt"

	"github.com/Faultbox/arena/pkg/math"
	"github.com/Faultbox/arena/pkg/tilemap"
)

// Options controls the scale of the built mesh.
type Options struct {
	// TileSize is the world-space edge length of one cell.
	TileSize float32
	// UVTileSize is the edge length of one atlas cell in UV space.
	UVTileSize float32
}

// DefaultOptions returns 32-unit tiles sampling a 4x4 atlas.
func DefaultOptions() Options {
	return Options{
		TileSize:   32,
		UVTileSize: UVTileSizeFor(4),
	}
}

// UVTileSizeFor returns the UV edge length of one cell in an atlas with the
// given number of columns.
func UVTileSizeFor(columns int) float32 {
	if columns <= 0 {
		return 1
	}
	return 1 / float32(columns)
}

// quadIndices splits a quad along the v0-v2 diagonal.
var quadIndices = [6]uint32{0, 1, 2, 0, 2, 3}

// Build creates the mesh and collision paths for every non-empty cell of grid.
// Cells are visited in the grid's scan order and each emits its own four
// vertices; no vertices are shared between neighbours, which keeps the
// one-path-per-tile mapping exact.
//
// Only a nil or zero-sized grid is rejected. A grid with no tiles
// yields an empty mesh.
func Build(grid *tilemap.Grid, opts Options) (*Mesh, error) {
	if grid == nil {
		return nil, fmt.Errorf("build mesh: %w: nil grid", tilemap.ErrInvalidDimensions)
	}
	if grid.Width() <= 0 || grid.Height() <= 0 {
		return nil, fmt.Errorf("build mesh: %w: %dx%d", tilemap.ErrInvalidDimensions, grid.Width(), grid.Height())
	}

	n := grid.Count()
	m := &Mesh{
		Vertices: make([]math.Vec3, 0, 4*n),
		Indices:  make([]uint32, 0, 6*n),
		UVs:      make([]math.Vec2, 0, 4*n),
		Normals:  make([]math.Vec3, 0, 4*n),
		Paths:    make([]Path, 0, n),
	}

	first := true
	grid.Each(func(x, y int, tile tilemap.Tile) {
		corners := quadCorners(x, y, opts.TileSize)

		base := uint32(len(m.Vertices))
		path := make(Path, 4)
		for i, c := range corners {
			m.Vertices = append(m.Vertices, c.Vec3())
			path[i] = c
		}
		m.Paths = append(m.Paths, path)

		for _, idx := range quadIndices {
			m.Indices = append(m.Indices, base+idx)
		}

		uvs := CornerUVs(tile, opts.UVTileSize)
		m.UVs = append(m.UVs, uvs[:]...)

		normal := faceNormal(corners)
		m.Normals = append(m.Normals, normal, normal, normal, normal)

		if first {
			m.Bounds = Bounds{Min: corners[0].Vec3(), Max: corners[0].Vec3()}
			first = false
		}
		for _, c := range corners {
			updateBounds(&m.Bounds, c.Vec3())
		}

		m.Cells++
	})

	return m, nil
}

// quadCorners returns the cell's corners in winding order:
// (x,y), (x+1,y), (x+1,y+1), (x,y+1), scaled by tileSize.
func quadCorners(x, y int, tileSize float32) [4]math.Vec2 {
	x0 := float32(x) * tileSize
	y0 := float32(y) * tileSize
	x1 := float32(x+1) * tileSize
	y1 := float32(y+1) * tileSize
	return [4]math.Vec2{
		{X: x0, Y: y0},
		{X: x1, Y: y0},
		{X: x1, Y: y1},
		{X: x0, Y: y1},
	}
}

// CornerUVs returns the atlas UVs for the four quad corners of t, in vertex
// order. Rotation shifts which atlas corner lands on which vertex; the quad
// itself never moves.
//
//	0:   c0 c1 c2 c3
//	90:  c3 c0 c1 c2
//	180: c2 c3 c0 c1
//	270: c1 c2 c3 c0
func CornerUVs(t tilemap.Tile, uvTileSize float32) [4]math.Vec2 {
	u1 := uvTileSize * float32(t.GraphicX())
	u2 := u1 + uvTileSize
	v1 := uvTileSize * float32(t.GraphicY())
	v2 := v1 + uvTileSize

	atlas := [4]math.Vec2{
		{X: u1, Y: v1},
		{X: u2, Y: v1},
		{X: u2, Y: v2},
		{X: u1, Y: v2},
	}

	shift := t.Rotation().Steps()
	var out [4]math.Vec2
	for i := range out {
		out[i] = atlas[(i-shift+4)%4]
	}
	return out
}

// faceNormal returns the unit normal of the quad's plane. Degenerate quads
// (zero tile size) get +Z.
func faceNormal(c [4]math.Vec2) math.Vec3 {
	e1 := c[1].Sub(c[0]).Vec3()
	e2 := c[2].Sub(c[0]).Vec3()
	n := e1.Cross(e2).Normalize()
	if n == (math.Vec3{}) {
		return math.Vec3{X: 0, Y: 0, Z: 1}
	}
	return n
}

func updateBounds(b *Bounds, p math.Vec3) {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.Z < b.Min.Z {
		b.Min.Z = p.Z
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	if p.Z > b.Max.Z {
		b.Max.Z = p.Z
	}
}
