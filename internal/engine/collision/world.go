// Package collision keeps a resolv space in sync with the tilemap's
// collision paths.
package collision

import (
	gomath "math"

	"github.com/solarlune/resolv"
	"go.uber.org/zap"

	"github.com/Faultbox/arena/internal/engine/tilemesh"
	"github.com/Faultbox/arena/internal/logger"
)

// TagSolid marks objects created from tile paths.
const TagSolid = "solid"

// World is the physics view of the tilemap: one solid object per path.
type World struct {
	cellSize float64
	log      *zap.Logger

	space   *resolv.Space
	paths   []tilemesh.Path
	objects []*resolv.Object
}

// NewWorld creates an empty world. cellSize is the resolv broadphase cell
// edge and should match the tile size. A nil log uses the global logger.
func NewWorld(cellSize float64, log *zap.Logger) *World {
	if cellSize <= 0 {
		cellSize = 1
	}
	if log == nil {
		log = logger.Named("collision")
	}
	return &World{cellSize: cellSize, log: log}
}

// SetPaths replaces every solid object with one per path. The previous space
// is discarded, so no object from an older grid survives.
func (w *World) SetPaths(paths []tilemesh.Path) {
	w.paths = paths
	w.objects = make([]*resolv.Object, 0, len(paths))
	w.space = nil

	if len(paths) == 0 {
		w.log.Debug("collision cleared")
		return
	}

	var maxX, maxY float64
	for _, p := range paths {
		_, _, x1, y1 := pathBox(p)
		maxX = gomath.Max(maxX, x1)
		maxY = gomath.Max(maxY, y1)
	}

	cell := int(gomath.Ceil(w.cellSize))
	spaceW := int(gomath.Ceil(maxX)) + cell
	spaceH := int(gomath.Ceil(maxY)) + cell
	w.space = resolv.NewSpace(spaceW, spaceH, cell, cell)

	for _, p := range paths {
		x0, y0, x1, y1 := pathBox(p)
		obj := resolv.NewObject(x0, y0, x1-x0, y1-y0, TagSolid)
		obj.SetShape(resolv.NewRectangle(0, 0, x1-x0, y1-y0))
		w.space.Add(obj)
		w.objects = append(w.objects, obj)
	}

	w.log.Debug("collision rebuilt",
		zap.Int("paths", len(paths)),
		zap.Int("space_w", spaceW),
		zap.Int("space_h", spaceH),
	)
}

// PathCount returns the number of collision paths.
func (w *World) PathCount() int {
	return len(w.paths)
}

// Path returns the i-th path in grid scan order.
func (w *World) Path(i int) (tilemesh.Path, bool) {
	if i < 0 || i >= len(w.paths) {
		return nil, false
	}
	return w.paths[i], true
}

// Blocked reports whether the rectangle (x, y, width, height) overlaps any
// solid tile. Touching edges do not count.
func (w *World) Blocked(x, y, width, height float64) bool {
	if w.space == nil {
		return false
	}

	probe := resolv.NewObject(x, y, width, height)
	w.space.Add(probe)
	defer w.space.Remove(probe)

	check := probe.Check(0, 0, TagSolid)
	if check == nil {
		return false
	}

	// The space only knows about shared cells; confirm real overlap.
	for _, obj := range check.Objects {
		if x < obj.X+obj.W && obj.X < x+width && y < obj.Y+obj.H && obj.Y < y+height {
			return true
		}
	}
	return false
}

// SolidAt reports whether the point lies inside any collision path.
func (w *World) SolidAt(x, y float64) bool {
	_, ok := w.PathAt(x, y)
	return ok
}

// PathAt returns the index of the first path containing the point.
func (w *World) PathAt(x, y float64) (int, bool) {
	for i, p := range w.paths {
		if contains(p, x, y) {
			return i, true
		}
	}
	return -1, false
}

// pathBox returns the axis-aligned box around a path.
func pathBox(p tilemesh.Path) (x0, y0, x1, y1 float64) {
	if len(p) == 0 {
		return 0, 0, 0, 0
	}
	x0, y0 = float64(p[0].X), float64(p[0].Y)
	x1, y1 = x0, y0
	for _, pt := range p[1:] {
		x0 = gomath.Min(x0, float64(pt.X))
		y0 = gomath.Min(y0, float64(pt.Y))
		x1 = gomath.Max(x1, float64(pt.X))
		y1 = gomath.Max(y1, float64(pt.Y))
	}
	return x0, y0, x1, y1
}

// contains is an even-odd point-in-polygon test.
func contains(p tilemesh.Path, x, y float64) bool {
	inside := false
	j := len(p) - 1
	for i := range p {
		xi, yi := float64(p[i].X), float64(p[i].Y)
		xj, yj := float64(p[j].X), float64(p[j].Y)
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}
