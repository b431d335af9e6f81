package tilemap

import (
	"errors"
	"fmt"
)

// Grid errors.
var (
	ErrInvalidDimensions = errors.New("invalid grid dimensions")
	ErrOutOfRange        = errors.New("cell out of range")
)

// DefaultSize is the edge length of the placeholder grid used before a level
// is loaded.
const DefaultSize = 16

// Grid is a fixed-size, dense, row-major array of optional tiles.
// Width and height never change; load a new Grid to resize.
type Grid struct {
	width  int
	height int
	cells  []Tile
	filled []bool
	count  int
}

// NewGrid creates an empty grid. Both dimensions must be positive.
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	n := width * height
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]Tile, n),
		filled: make([]bool, n),
	}, nil
}

// DiagonalGrid builds a size x size grid where every cell holds a tile:
// atlas (1,0) on the diagonal, atlas (0,0) elsewhere, all unrotated.
func DiagonalGrid(size int) (*Grid, error) {
	g, err := NewGrid(size, size)
	if err != nil {
		return nil, err
	}
	diag := MustTile(1, 0, Rotation0)
	fill := MustTile(0, 0, Rotation0)
	for y := range size {
		for x := range size {
			t := fill
			if x == y {
				t = diag
			}
			g.put(x, y, t)
		}
	}
	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Count returns the number of non-empty cells.
func (g *Grid) Count() int { return g.count }

// InBounds reports whether (x, y) addresses a cell of the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// At returns the tile at (x, y). ok is false for empty or out-of-range cells.
func (g *Grid) At(x, y int) (t Tile, ok bool) {
	if !g.InBounds(x, y) {
		return Tile{}, false
	}
	i := y*g.width + x
	return g.cells[i], g.filled[i]
}

// Set places a tile at (x, y), replacing any previous tile.
func (g *Grid) Set(x, y int, t Tile) error {
	if !g.InBounds(x, y) {
		return fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfRange, x, y, g.width, g.height)
	}
	g.put(x, y, t)
	return nil
}

// Clear empties the cell at (x, y).
func (g *Grid) Clear(x, y int) error {
	if !g.InBounds(x, y) {
		return fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfRange, x, y, g.width, g.height)
	}
	i := y*g.width + x
	if g.filled[i] {
		g.filled[i] = false
		g.cells[i] = Tile{}
		g.count--
	}
	return nil
}

// Each calls fn for every non-empty cell in scan order: rows top to bottom
// (y outer), columns left to right (x inner). The order is part of the
// contract; collision paths are indexed by it.
func (g *Grid) Each(fn func(x, y int, t Tile)) {
	for y := range g.height {
		row := y * g.width
		for x := range g.width {
			if g.filled[row+x] {
				fn(x, y, g.cells[row+x])
			}
		}
	}
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	c := &Grid{
		width:  g.width,
		height: g.height,
		cells:  make([]Tile, len(g.cells)),
		filled: make([]bool, len(g.filled)),
		count:  g.count,
	}
	copy(c.cells, g.cells)
	copy(c.filled, g.filled)
	return c
}

func (g *Grid) put(x, y int, t Tile) {
	i := y*g.width + x
	if !g.filled[i] {
		g.count++
	}
	g.cells[i] = t
	g.filled[i] = true
}
