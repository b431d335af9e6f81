package tilemap

import (
	"errors"
	"testing"
)

func TestNewGrid_InvalidDimensions(t *testing.T) {
	tests := []struct {
		w, h int
	}{
		{0, 4},
		{4, 0},
		{-1, 4},
		{4, -3},
		{0, 0},
	}

	for _, tc := range tests {
		g, err := NewGrid(tc.w, tc.h)
		if !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("NewGrid(%d, %d) error = %v, want ErrInvalidDimensions", tc.w, tc.h, err)
		}
		if g != nil {
			t.Errorf("NewGrid(%d, %d) returned non-nil grid", tc.w, tc.h)
		}
	}
}

func TestGrid_SetAtClear(t *testing.T) {
	g, err := NewGrid(3, 2)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}

	if _, ok := g.At(1, 1); ok {
		t.Error("new grid should be empty")
	}

	tile := MustTile(2, 1, Rotation180)
	if err := g.Set(1, 1, tile); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, ok := g.At(1, 1)
	if !ok || got != tile {
		t.Errorf("At(1, 1) = %v, %v; want %v, true", got, ok, tile)
	}
	if g.Count() != 1 {
		t.Errorf("expected count 1, got %d", g.Count())
	}

	// Overwrite does not change count
	if err := g.Set(1, 1, MustTile(0, 0, Rotation0)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if g.Count() != 1 {
		t.Errorf("expected count 1 after overwrite, got %d", g.Count())
	}

	if err := g.Clear(1, 1); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok := g.At(1, 1); ok {
		t.Error("cell should be empty after Clear")
	}
	if g.Count() != 0 {
		t.Errorf("expected count 0, got %d", g.Count())
	}

	// Clearing an empty cell is a no-op
	if err := g.Clear(1, 1); err != nil || g.Count() != 0 {
		t.Errorf("Clear on empty cell: err=%v count=%d", err, g.Count())
	}
}

func TestGrid_OutOfRange(t *testing.T) {
	g, _ := NewGrid(4, 4)
	tile := MustTile(0, 0, Rotation0)

	coords := [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 4}}
	for _, c := range coords {
		if _, ok := g.At(c[0], c[1]); ok {
			t.Errorf("At(%d, %d) should report empty", c[0], c[1])
		}
		if err := g.Set(c[0], c[1], tile); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Set(%d, %d) error = %v, want ErrOutOfRange", c[0], c[1], err)
		}
		if err := g.Clear(c[0], c[1]); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Clear(%d, %d) error = %v, want ErrOutOfRange", c[0], c[1], err)
		}
	}
}

func TestGrid_EachScanOrder(t *testing.T) {
	g, _ := NewGrid(3, 3)
	g.Set(2, 0, MustTile(0, 0, Rotation0))
	g.Set(0, 1, MustTile(0, 0, Rotation0))
	g.Set(1, 0, MustTile(0, 0, Rotation0))
	g.Set(2, 2, MustTile(0, 0, Rotation0))

	var got [][2]int
	g.Each(func(x, y int, _ Tile) {
		got = append(got, [2]int{x, y})
	})

	want := [][2]int{{1, 0}, {2, 0}, {0, 1}, {2, 2}}
	if len(got) != len(want) {
		t.Fatalf("visited %d cells, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("visit %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestGrid_CloneIsIndependent(t *testing.T) {
	g, _ := NewGrid(2, 2)
	g.Set(0, 0, MustTile(1, 1, Rotation0))

	c := g.Clone()
	c.Set(1, 1, MustTile(0, 0, Rotation0))
	c.Clear(0, 0)

	if g.Count() != 1 {
		t.Errorf("original count changed to %d", g.Count())
	}
	if _, ok := g.At(0, 0); !ok {
		t.Error("original lost tile at (0, 0)")
	}
	if _, ok := g.At(1, 1); ok {
		t.Error("original gained tile at (1, 1)")
	}
}

func TestDiagonalGrid(t *testing.T) {
	g, err := DiagonalGrid(DefaultSize)
	if err != nil {
		t.Fatalf("DiagonalGrid failed: %v", err)
	}
	if g.Width() != 16 || g.Height() != 16 {
		t.Fatalf("expected 16x16, got %dx%d", g.Width(), g.Height())
	}
	if g.Count() != 256 {
		t.Errorf("expected every cell filled, got %d", g.Count())
	}

	for y := range 16 {
		for x := range 16 {
			tile, ok := g.At(x, y)
			if !ok {
				t.Fatalf("(%d, %d) empty", x, y)
			}
			wantX := 0
			if x == y {
				wantX = 1
			}
			if tile.GraphicX() != wantX || tile.GraphicY() != 0 || tile.Rotation() != Rotation0 {
				t.Errorf("(%d, %d) = %s", x, y, tile)
			}
		}
	}

	if _, err := DiagonalGrid(0); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("DiagonalGrid(0) error = %v", err)
	}
}
