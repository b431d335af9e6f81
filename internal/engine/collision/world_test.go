package collision

import (
	"testing"

	"go.uber.org/zap"

	"github.com/Faultbox/arena/internal/engine/tilemesh"
	"github.com/Faultbox/arena/pkg/tilemap"
)

const tileSize = 16

// buildPaths returns collision paths for a grid with tiles at the given cells.
func buildPaths(t *testing.T, w, h int, cells ...[2]int) []tilemesh.Path {
	t.Helper()
	g, err := tilemap.NewGrid(w, h)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}
	for _, c := range cells {
		if err := g.Set(c[0], c[1], tilemap.MustTile(0, 0, tilemap.Rotation0)); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
	m, err := tilemesh.Build(g, tilemesh.Options{TileSize: tileSize, UVTileSize: 0.25})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return m.Paths
}

func TestWorld_EmptyPaths(t *testing.T) {
	w := NewWorld(tileSize, zap.NewNop())
	w.SetPaths(nil)

	if w.PathCount() != 0 {
		t.Errorf("expected 0 paths, got %d", w.PathCount())
	}
	if _, ok := w.PathAt(1, 1); ok {
		t.Error("empty world has no paths to hit")
	}
	if w.Blocked(0, 0, 10, 10) {
		t.Error("empty world should block nothing")
	}
	if w.SolidAt(1, 1) {
		t.Error("empty world has no solid points")
	}
}

func TestWorld_Blocked(t *testing.T) {
	w := NewWorld(tileSize, zap.NewNop())
	w.SetPaths(buildPaths(t, 8, 8, [2]int{1, 1}, [2]int{5, 5}))

	tests := []struct {
		name       string
		x, y, w, h float64
		want       bool
	}{
		{"inside first tile", 20, 20, 4, 4, true},
		{"inside second tile", 85, 85, 6, 6, true},
		{"empty tile", 52, 52, 8, 8, false},
		{"straddles solid edge", 10, 20, 8, 4, true},
		{"touches edge only", 0, 16, 16, 16, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Blocked(tt.x, tt.y, tt.w, tt.h); got != tt.want {
				t.Errorf("Blocked(%v, %v, %v, %v) = %v, want %v", tt.x, tt.y, tt.w, tt.h, got, tt.want)
			}
		})
	}
}

func TestWorld_SolidAt(t *testing.T) {
	w := NewWorld(tileSize, zap.NewNop())
	w.SetPaths(buildPaths(t, 4, 4, [2]int{2, 0}))

	if !w.SolidAt(40, 8) {
		t.Error("expected (40, 8) solid")
	}
	if w.SolidAt(8, 8) {
		t.Error("expected (8, 8) open")
	}
	if w.SolidAt(40, 24) {
		t.Error("expected (40, 24) open")
	}
}

func TestWorld_SetPathsReplacesPrevious(t *testing.T) {
	w := NewWorld(tileSize, zap.NewNop())
	w.SetPaths(buildPaths(t, 4, 4, [2]int{0, 0}, [2]int{1, 0}, [2]int{2, 0}))
	if w.PathCount() != 3 {
		t.Fatalf("expected 3 paths, got %d", w.PathCount())
	}

	w.SetPaths(buildPaths(t, 2, 2, [2]int{1, 1}))
	if w.PathCount() != 1 {
		t.Errorf("expected 1 path, got %d", w.PathCount())
	}
	if w.Blocked(4, 4, 4, 4) {
		t.Error("tile from the previous grid still blocks")
	}
	if !w.Blocked(20, 20, 4, 4) {
		t.Error("new tile should block")
	}
}

func TestWorld_PathByIndex(t *testing.T) {
	w := NewWorld(tileSize, zap.NewNop())
	w.SetPaths(buildPaths(t, 3, 3, [2]int{2, 2}, [2]int{0, 1}))

	p, ok := w.Path(0)
	if !ok {
		t.Fatal("expected path 0")
	}
	// Scan order puts (0,1) before (2,2).
	if p[0].X != 0 || p[0].Y != tileSize {
		t.Errorf("path 0 starts at %v", p[0])
	}
	if _, ok := w.Path(2); ok {
		t.Error("path 2 should not exist")
	}
	if _, ok := w.Path(-1); ok {
		t.Error("path -1 should not exist")
	}

	i, ok := w.PathAt(40, 40)
	if !ok || i != 1 {
		t.Fatalf("PathAt(40, 40) = %d, %v; want 1, true", i, ok)
	}
	p, _ = w.Path(i)
	if p[0].X != 2*tileSize || p[0].Y != 2*tileSize {
		t.Errorf("path %d starts at %v", i, p[0])
	}
	if i, ok := w.PathAt(40, 8); ok {
		t.Errorf("PathAt(40, 8) hit path %d in an empty cell", i)
	}
}

func TestPathBox(t *testing.T) {
	paths := buildPaths(t, 3, 3, [2]int{1, 2})
	x0, y0, x1, y1 := pathBox(paths[0])
	if x0 != 16 || y0 != 32 || x1 != 32 || y1 != 48 {
		t.Errorf("pathBox = (%v, %v, %v, %v)", x0, y0, x1, y1)
	}
}
