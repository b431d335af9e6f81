// Package surface owns the arena's tile grid and keeps a cached mesh and
// collision set in step with it.
package surface

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/arena/internal/engine/tilemesh"
	"github.com/Faultbox/arena/internal/logger"
	"github.com/Faultbox/arena/pkg/tilemap"
)

// ErrNoGrid is returned by Render when no grid has been assigned.
var ErrNoGrid = errors.New("surface has no grid")

// MeshSink receives every successfully rebuilt mesh (the renderer).
// The mesh stays valid until the next successful Render.
type MeshSink interface {
	SetMesh(mesh *tilemesh.Mesh)
}

// PathSink receives the collision paths of every rebuild (the physics world).
// Paths are indexed in grid scan order.
type PathSink interface {
	SetPaths(paths []tilemesh.Path)
}

// Surface is the stateful wrapper around a grid. It is not safe for
// concurrent use; drive it from the frame loop.
//
// A grid moves through two states: pending (Stage) and committed (SetGrid or
// Commit). Only the committed grid is ever built.
type Surface struct {
	opts tilemesh.Options
	log  *zap.Logger

	grid    *tilemap.Grid
	pending *tilemap.Grid
	dirty   bool

	mesh       *tilemesh.Mesh
	generation uint64

	meshSinks []MeshSink
	pathSinks []PathSink
}

// New creates a surface with no grid. A nil log uses the global logger.
func New(opts tilemesh.Options, log *zap.Logger) *Surface {
	if log == nil {
		log = logger.Named("surface")
	}
	return &Surface{
		opts: opts,
		log:  log,
	}
}

// Init installs a 16x16 placeholder grid with a diagonal pattern and marks
// the surface dirty.
func (s *Surface) Init() {
	g, err := tilemap.DiagonalGrid(tilemap.DefaultSize)
	if err != nil {
		// DefaultSize is a positive constant.
		panic(err)
	}
	s.SetGrid(g)
}

// OnEnable is the engine-enable hook; it forces the next Render to rebuild.
func (s *Surface) OnEnable() {
	s.MarkDirty()
}

// SetGrid replaces the committed grid and marks the surface dirty. Any
// staged grid is dropped. The surface owns grid from now on; callers that
// keep editing should pass a Clone.
func (s *Surface) SetGrid(grid *tilemap.Grid) {
	s.grid = grid
	s.pending = nil
	s.dirty = true
}

// Stage records grid as pending without touching the committed grid or the
// dirty flag. Staging again replaces the previous pending grid.
func (s *Surface) Stage(grid *tilemap.Grid) {
	s.pending = grid
}

// Pending reports whether a staged grid is waiting for Commit.
func (s *Surface) Pending() bool {
	return s.pending != nil
}

// Commit promotes the staged grid and marks the surface dirty.
// It reports false when nothing was staged.
func (s *Surface) Commit() bool {
	if s.pending == nil {
		return false
	}
	s.SetGrid(s.pending)
	return true
}

// Discard drops the staged grid.
func (s *Surface) Discard() {
	s.pending = nil
}

// MarkDirty forces the next Render to rebuild.
func (s *Surface) MarkDirty() {
	s.dirty = true
}

// Dirty reports whether the cached output is stale.
func (s *Surface) Dirty() bool {
	return s.dirty
}

// Attach registers collaborators. Each value may implement MeshSink,
// PathSink or both; other values are rejected.
func (s *Surface) Attach(sinks ...any) error {
	for _, sink := range sinks {
		ms, isMesh := sink.(MeshSink)
		ps, isPath := sink.(PathSink)
		if !isMesh && !isPath {
			return fmt.Errorf("attach %T: implements neither MeshSink nor PathSink", sink)
		}
		if isMesh {
			s.meshSinks = append(s.meshSinks, ms)
		}
		if isPath {
			s.pathSinks = append(s.pathSinks, ps)
		}
	}
	return nil
}

// Render rebuilds the mesh if the surface is dirty and reports whether it did.
// A clean surface returns immediately without touching the cache. On failure
// the previous mesh stays in place and the surface stays dirty.
func (s *Surface) Render() (bool, error) {
	if !s.dirty {
		return false, nil
	}
	if s.grid == nil {
		return false, ErrNoGrid
	}

	mesh, err := tilemesh.Build(s.grid, s.opts)
	if err == nil {
		err = mesh.Validate()
	}
	if err != nil {
		s.log.Error("tilemap rebuild failed", zap.Error(err))
		return false, fmt.Errorf("render: %w", err)
	}

	s.mesh = mesh
	s.dirty = false
	s.generation++

	for _, sink := range s.meshSinks {
		sink.SetMesh(mesh)
	}
	for _, sink := range s.pathSinks {
		sink.SetPaths(mesh.Paths)
	}

	s.log.Debug("tilemap rebuilt",
		zap.Uint64("generation", s.generation),
		zap.Int("width", s.grid.Width()),
		zap.Int("height", s.grid.Height()),
		zap.Int("cells", mesh.Cells),
		zap.Int("vertices", len(mesh.Vertices)),
	)
	return true, nil
}

// Mesh returns the last built mesh, or nil before the first Render.
func (s *Surface) Mesh() *tilemesh.Mesh {
	return s.mesh
}

// Paths returns the collision paths of the last built mesh.
func (s *Surface) Paths() []tilemesh.Path {
	if s.mesh == nil {
		return nil
	}
	return s.mesh.Paths
}

// Grid returns the committed grid.
func (s *Surface) Grid() *tilemap.Grid {
	return s.grid
}

// Generation counts successful rebuilds.
func (s *Surface) Generation() uint64 {
	return s.generation
}

// Options returns the build options.
func (s *Surface) Options() tilemesh.Options {
	return s.opts
}
