// Package tilemap provides the tile grid that describes an arena's visual
// layout: which atlas cell each grid cell shows and how it is rotated.
package tilemap

import (
	"errors"
	"fmt"
)

// Tile errors.
var (
	ErrInvalidRotation = errors.New("invalid tile rotation: must be a multiple of 90 degrees")
	ErrNegativeGraphic = errors.New("negative atlas coordinate")
)

// Rotation is a cardinal rotation of a tile's texture sampling.
type Rotation uint8

// Rotation constants. The value is the number of quarter turns.
const (
	Rotation0 Rotation = iota
	Rotation90
	Rotation180
	Rotation270
)

// ParseRotation converts degrees to a Rotation.
// Any multiple of 90 is accepted and normalized into [0, 360).
func ParseRotation(degrees int) (Rotation, error) {
	if degrees%90 != 0 {
		return Rotation0, fmt.Errorf("%w: %d", ErrInvalidRotation, degrees)
	}
	steps := (degrees / 90) % 4
	if steps < 0 {
		steps += 4
	}
	return Rotation(steps), nil
}

// Degrees returns the rotation in degrees (0, 90, 180 or 270).
func (r Rotation) Degrees() int {
	return int(r%4) * 90
}

// Steps returns the number of quarter turns (0-3).
func (r Rotation) Steps() int {
	return int(r % 4)
}

// Next returns the rotation one quarter turn further; 270 wraps to 0.
func (r Rotation) Next() Rotation {
	return (r + 1) % 4
}

// Valid reports whether r is one of the four cardinal rotations.
func (r Rotation) Valid() bool {
	return r <= Rotation270
}

// String returns the rotation as "<deg>deg".
func (r Rotation) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Rotation(%d)", uint8(r))
	}
	return fmt.Sprintf("%ddeg", r.Degrees())
}

// Tile describes the appearance of one grid cell. Tiles are values with
// unexported fields, so a Tile cannot change once constructed.
type Tile struct {
	graphicX int
	graphicY int
	rotation Rotation
}

// NewTile creates a tile showing atlas cell (graphicX, graphicY).
func NewTile(graphicX, graphicY int, rot Rotation) (Tile, error) {
	if graphicX < 0 || graphicY < 0 {
		return Tile{}, fmt.Errorf("%w: (%d, %d)", ErrNegativeGraphic, graphicX, graphicY)
	}
	if !rot.Valid() {
		return Tile{}, fmt.Errorf("%w: %s", ErrInvalidRotation, rot)
	}
	return Tile{graphicX: graphicX, graphicY: graphicY, rotation: rot}, nil
}

// MustTile is like NewTile but panics on invalid input.
// Intended for literals in code and tests.
func MustTile(graphicX, graphicY int, rot Rotation) Tile {
	t, err := NewTile(graphicX, graphicY, rot)
	if err != nil {
		panic(err)
	}
	return t
}

// GraphicX returns the atlas column.
func (t Tile) GraphicX() int { return t.graphicX }

// GraphicY returns the atlas row.
func (t Tile) GraphicY() int { return t.graphicY }

// Rotation returns the texture rotation.
func (t Tile) Rotation() Rotation { return t.rotation }

// WithRotation returns a copy of t with a different rotation.
func (t Tile) WithRotation(r Rotation) Tile {
	t.rotation = r % 4
	return t
}

// String returns a compact description like "(1,0)@90deg".
func (t Tile) String() string {
	return fmt.Sprintf("(%d,%d)@%s", t.graphicX, t.graphicY, t.rotation)
}
