package navigation

import (
	"testing"

	"github.com/Faultbox/arena/pkg/tilemap"
)

// mockGrid creates a grid with solid tiles at the given cells.
func mockGrid(t *testing.T, width, height int, solid []Cell) *tilemap.Grid {
	t.Helper()

	g, err := tilemap.NewGrid(width, height)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}
	for _, c := range solid {
		if err := g.Set(c.X, c.Y, tilemap.MustTile(0, 0, tilemap.Rotation0)); err != nil {
			t.Fatalf("Set(%d, %d) failed: %v", c.X, c.Y, err)
		}
	}
	return g
}

func checkPath(t *testing.T, pf *PathFinder, path []Cell, start, goal Cell) {
	t.Helper()

	if path == nil {
		t.Fatal("expected path, got nil")
	}
	if path[0] != start {
		t.Errorf("path should start at %v, got %v", start, path[0])
	}
	if last := path[len(path)-1]; last != goal {
		t.Errorf("path should end at %v, got %v", goal, last)
	}
	for i, c := range path {
		if !pf.IsWalkable(c) {
			t.Errorf("path step %d %v is blocked", i, c)
		}
		if i == 0 {
			continue
		}
		dx, dy := abs(c.X-path[i-1].X), abs(c.Y-path[i-1].Y)
		if dx > 1 || dy > 1 || dx+dy == 0 {
			t.Errorf("step %d jumps from %v to %v", i, path[i-1], c)
		}
		if !pf.diagonal && dx+dy != 1 {
			t.Errorf("step %d is diagonal in 4-way search", i)
		}
	}
}

func TestFindPath_Open(t *testing.T) {
	pf := NewPathFinder(FromGrid(mockGrid(t, 5, 5, nil)), true)

	path := pf.FindPath(Cell{0, 0}, Cell{4, 4})
	checkPath(t, pf, path, Cell{0, 0}, Cell{4, 4})

	// Straight diagonal is optimal
	if len(path) != 5 {
		t.Errorf("expected 5 cells, got %d: %v", len(path), path)
	}
}

func TestFindPath_FourWay(t *testing.T) {
	pf := NewPathFinder(FromGrid(mockGrid(t, 5, 5, nil)), false)

	path := pf.FindPath(Cell{0, 0}, Cell{4, 4})
	checkPath(t, pf, path, Cell{0, 0}, Cell{4, 4})
	if len(path) != 9 {
		t.Errorf("expected 9 cells, got %d", len(path))
	}
	if Cost(path) != 8 {
		t.Errorf("expected cost 8, got %f", Cost(path))
	}
}

func TestFindPath_WithWall(t *testing.T) {
	// Wall at x=2 with a gap at the bottom
	wall := []Cell{{2, 0}, {2, 1}, {2, 2}, {2, 3}}
	pf := NewPathFinder(FromGrid(mockGrid(t, 5, 5, wall)), true)

	path := pf.FindPath(Cell{0, 0}, Cell{4, 0})
	checkPath(t, pf, path, Cell{0, 0}, Cell{4, 0})

	throughGap := false
	for _, c := range path {
		if c == (Cell{2, 4}) {
			throughGap = true
		}
	}
	if !throughGap {
		t.Errorf("path should pass the gap at (2,4): %v", path)
	}
}

func TestFindPath_NoCornerCutting(t *testing.T) {
	// Two solid tiles touching diagonally block the diagonal between them
	solid := []Cell{{1, 0}, {0, 1}}
	pf := NewPathFinder(FromGrid(mockGrid(t, 3, 3, solid)), true)

	if path := pf.FindPath(Cell{0, 0}, Cell{1, 1}); path != nil {
		t.Errorf("expected no path, got %v", path)
	}
}

func TestFindPath_Unreachable(t *testing.T) {
	wall := []Cell{{2, 0}, {2, 1}, {2, 2}}
	pf := NewPathFinder(FromGrid(mockGrid(t, 5, 3, wall)), true)

	tests := []struct {
		name        string
		start, goal Cell
	}{
		{"walled off", Cell{0, 0}, Cell{4, 0}},
		{"goal solid", Cell{0, 0}, Cell{2, 1}},
		{"start solid", Cell{2, 0}, Cell{0, 0}},
		{"goal outside", Cell{0, 0}, Cell{5, 0}},
		{"start negative", Cell{-1, 0}, Cell{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if path := pf.FindPath(tt.start, tt.goal); path != nil {
				t.Errorf("expected nil, got %v", path)
			}
		})
	}
}

func TestFindPath_SameCell(t *testing.T) {
	pf := NewPathFinder(FromGrid(mockGrid(t, 2, 2, nil)), true)

	path := pf.FindPath(Cell{1, 1}, Cell{1, 1})
	if len(path) != 1 || path[0] != (Cell{1, 1}) {
		t.Errorf("expected single-cell path, got %v", path)
	}
	if Cost(path) != 0 {
		t.Errorf("expected zero cost, got %f", Cost(path))
	}
}

func TestNilPathFinder(t *testing.T) {
	var pf *PathFinder
	if pf.FindPath(Cell{0, 0}, Cell{0, 0}) != nil {
		t.Error("nil pathfinder should return nil")
	}
	if NewPathFinder(nil, true) != nil {
		t.Error("NewPathFinder(nil) should return nil")
	}
}

func TestFromGridOnDiagonal(t *testing.T) {
	// Diagonal grid is fully tiled, so nothing is walkable
	g, err := tilemap.DiagonalGrid(4)
	if err != nil {
		t.Fatalf("DiagonalGrid failed: %v", err)
	}
	pf := NewPathFinder(FromGrid(g), true)
	if pf.IsWalkable(Cell{0, 0}) {
		t.Error("tiled cell should block")
	}
}
