// Package arena holds the headless tilemap arena: surface, collision world,
// staged edits and route queries.
package arena

import (
	"errors"
	"fmt"
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/arena/internal/config"
	"github.com/Faultbox/arena/internal/engine/collision"
	"github.com/Faultbox/arena/internal/engine/navigation"
	"github.com/Faultbox/arena/internal/engine/surface"
	"github.com/Faultbox/arena/internal/engine/tilemesh"
	"github.com/Faultbox/arena/internal/level"
	"github.com/Faultbox/arena/internal/logger"
	"github.com/Faultbox/arena/pkg/math"
	"github.com/Faultbox/arena/pkg/tilemap"
)

// Arena errors.
var (
	ErrNoTile = errors.New("no tile at position")
	ErrNoPath = errors.New("no path")
	// ErrSolidCell is returned when a route endpoint lies inside a tile.
	ErrSolidCell = errors.New("route endpoint inside tile")
)

// Arena is the headless half of the viewer: it owns the surface and the
// collision world and applies edits between frames. Edits are staged and
// committed together at the start of the next Update.
type Arena struct {
	surface *surface.Surface
	world   *collision.World
	log     *zap.Logger

	staged *tilemap.Grid
}

// New builds the surface from cfg and loads the configured level, or
// the diagonal placeholder grid when no level is set.
func New(cfg *config.Config) (*Arena, error) {
	opts := tilemesh.Options{
		TileSize:   cfg.Tilemap.TileSize,
		UVTileSize: tilemesh.UVTileSizeFor(cfg.Tilemap.AtlasColumns),
	}

	a := &Arena{
		surface: surface.New(opts, logger.Named("surface")),
		world:   collision.NewWorld(cfg.CollisionCellSize(), logger.Named("collision")),
		log:     logger.Named("arena"),
	}
	if err := a.surface.Attach(a.world); err != nil {
		return nil, err
	}

	if cfg.Level.Path == "" {
		a.log.Info("no level configured, using placeholder grid")
		a.surface.Init()
		return a, nil
	}

	grid, err := level.LoadFile(cfg.Level.Path, cfg.Level.Layer)
	if err != nil {
		return nil, fmt.Errorf("load level: %w", err)
	}
	a.log.Info("level loaded",
		zap.String("path", cfg.Level.Path),
		zap.Int("width", grid.Width()),
		zap.Int("height", grid.Height()),
		zap.Int("tiles", grid.Count()),
	)
	a.surface.SetGrid(grid)
	return a, nil
}

// Attach registers extra mesh or path sinks on the surface.
func (a *Arena) Attach(sinks ...any) error {
	return a.surface.Attach(sinks...)
}

// Update commits staged edits and rebuilds the surface if needed.
// It reports whether a rebuild happened.
func (a *Arena) Update() (bool, error) {
	if a.surface.Commit() {
		a.log.Debug("staged grid committed")
	}
	a.staged = nil
	return a.surface.Render()
}

// editable returns the grid edits should apply to: the staged grid if one
// is waiting, otherwise a copy of the committed grid.
func (a *Arena) editable() *tilemap.Grid {
	if a.staged != nil && a.surface.Pending() {
		return a.staged
	}
	if g := a.surface.Grid(); g != nil {
		return g.Clone()
	}
	return nil
}

func (a *Arena) stage(g *tilemap.Grid) {
	a.staged = g
	a.surface.Stage(g)
}

// DiscardEdits drops edits staged since the last Update.
func (a *Arena) DiscardEdits() {
	a.staged = nil
	a.surface.Discard()
}

// RotateAll stages a grid with every tile turned one quarter step.
func (a *Arena) RotateAll() {
	g := a.editable()
	if g == nil {
		return
	}
	g.Each(func(x, y int, t tilemap.Tile) {
		// Set cannot fail for coordinates Each yields
		_ = g.Set(x, y, t.WithRotation(t.Rotation().Next()))
	})
	a.stage(g)
}

// RotateAt stages a quarter turn of the tile under a world position.
func (a *Arena) RotateAt(p math.Vec2) error {
	g := a.editable()
	if g == nil {
		return ErrNoTile
	}
	x, y, ok := a.CellAt(p)
	if !ok {
		return fmt.Errorf("%w: (%g, %g)", ErrNoTile, p.X, p.Y)
	}
	t, ok := g.At(x, y)
	if !ok {
		return fmt.Errorf("%w: cell (%d, %d)", ErrNoTile, x, y)
	}
	if err := g.Set(x, y, t.WithRotation(t.Rotation().Next())); err != nil {
		return err
	}
	a.stage(g)
	return nil
}

// CellAt maps a world position to grid coordinates.
func (a *Arena) CellAt(p math.Vec2) (x, y int, ok bool) {
	g := a.surface.Grid()
	size := a.surface.Options().TileSize
	if g == nil || size <= 0 {
		return 0, 0, false
	}
	x = int(gomath.Floor(float64(p.X / size)))
	y = int(gomath.Floor(float64(p.Y / size)))
	return x, y, g.InBounds(x, y)
}

// FindPath routes between two world positions through empty cells,
// allowing diagonal steps that do not cut tile corners.
func (a *Arena) FindPath(from, to math.Vec2) ([]navigation.Cell, error) {
	g := a.surface.Grid()
	if g == nil {
		return nil, ErrNoPath
	}
	for _, p := range []math.Vec2{from, to} {
		if err := a.checkOpen(p); err != nil {
			return nil, err
		}
	}
	fx, fy, _ := a.CellAt(from)
	tx, ty, _ := a.CellAt(to)
	pf := navigation.NewPathFinder(navigation.FromGrid(g), true)
	path := pf.FindPath(navigation.Cell{X: fx, Y: fy}, navigation.Cell{X: tx, Y: ty})
	if path == nil {
		return nil, fmt.Errorf("%w: (%d, %d) -> (%d, %d)", ErrNoPath, fx, fy, tx, ty)
	}
	return path, nil
}

func (a *Arena) checkOpen(p math.Vec2) error {
	i, ok := a.world.PathAt(float64(p.X), float64(p.Y))
	if !ok {
		return nil
	}
	outline, _ := a.world.Path(i)
	return fmt.Errorf("%w: (%g, %g) in outline %d %v", ErrSolidCell, p.X, p.Y, i, outline)
}

// Blocked reports whether a box overlaps any solid tile.
func (a *Arena) Blocked(x, y, w, h float64) bool {
	return a.world.Blocked(x, y, w, h)
}

// Bounds returns the extent of the last built mesh on the XY plane.
func (a *Arena) Bounds() (math.Vec2, math.Vec2, bool) {
	m := a.surface.Mesh()
	if m == nil || m.Empty() {
		return math.Vec2{}, math.Vec2{}, false
	}
	return m.Bounds.Min.XY(), m.Bounds.Max.XY(), true
}

// Surface returns the underlying surface.
func (a *Arena) Surface() *surface.Surface {
	return a.surface
}

// World returns the collision world.
func (a *Arena) World() *collision.World {
	return a.world
}
