package level

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/arena/pkg/tilemap"
)

const sampleYAML = `
name: pit
width: 4
height: 3
tiles:
  - {x: 0, y: 0, gx: 1, gy: 0}
  - {x: 3, y: 0, gx: 2, gy: 1, rot: 90}
  - {x: 1, y: 2, gx: 0, gy: 3, rot: 270}
`

func TestParseAndGrid(t *testing.T) {
	doc, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if doc.Name != "pit" || doc.Width != 4 || doc.Height != 3 || len(doc.Tiles) != 3 {
		t.Fatalf("unexpected document %+v", doc)
	}

	g, err := doc.Grid()
	if err != nil {
		t.Fatalf("Grid failed: %v", err)
	}
	if g.Count() != 3 {
		t.Errorf("expected 3 tiles, got %d", g.Count())
	}

	tile, ok := g.At(3, 0)
	if !ok {
		t.Fatal("expected tile at (3, 0)")
	}
	if tile.GraphicX() != 2 || tile.GraphicY() != 1 || tile.Rotation() != tilemap.Rotation90 {
		t.Errorf("unexpected tile %s", tile)
	}

	tile, _ = g.At(1, 2)
	if tile.Rotation() != tilemap.Rotation270 {
		t.Errorf("expected 270, got %s", tile.Rotation())
	}
}

func TestGridErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		want error
	}{
		{
			name: "zero width",
			doc:  Document{Width: 0, Height: 2},
			want: tilemap.ErrInvalidDimensions,
		},
		{
			name: "out of range",
			doc:  Document{Width: 2, Height: 2, Tiles: []TileEntry{{X: 2, Y: 0}}},
			want: tilemap.ErrOutOfRange,
		},
		{
			name: "bad rotation",
			doc:  Document{Width: 2, Height: 2, Tiles: []TileEntry{{X: 0, Y: 0, Rot: 45}}},
			want: tilemap.ErrInvalidRotation,
		},
		{
			name: "negative graphic",
			doc:  Document{Width: 2, Height: 2, Tiles: []TileEntry{{X: 0, Y: 0, GX: -1}}},
			want: tilemap.ErrNegativeGraphic,
		},
		{
			name: "duplicate",
			doc:  Document{Width: 2, Height: 2, Tiles: []TileEntry{{X: 1, Y: 1}, {X: 1, Y: 1, GX: 1}}},
			want: ErrDuplicateTile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.doc.Grid()
			if !errors.Is(err, tt.want) {
				t.Errorf("Grid() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseInvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("width: [not, a, number")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	g, _ := tilemap.NewGrid(3, 3)
	g.Set(0, 0, tilemap.MustTile(1, 0, tilemap.Rotation180))
	g.Set(2, 1, tilemap.MustTile(3, 3, tilemap.Rotation90))

	path := filepath.Join(t.TempDir(), "level.yaml")
	if err := Save(path, g, "roundtrip"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if doc.Name != "roundtrip" {
		t.Errorf("expected name roundtrip, got %q", doc.Name)
	}
	loaded, err := doc.Grid()
	if err != nil {
		t.Fatalf("Grid failed: %v", err)
	}

	g.Each(func(x, y int, want tilemap.Tile) {
		got, ok := loaded.At(x, y)
		if !ok || got != want {
			t.Errorf("(%d, %d) = %v, want %v", x, y, got, want)
		}
	})
	if loaded.Count() != g.Count() {
		t.Errorf("count %d, want %d", loaded.Count(), g.Count())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/level.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFileDispatch(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "arena.yml")
	if err := os.WriteFile(yamlPath, []byte(sampleYAML), 0644); err != nil {
		t.Fatalf("failed to write level: %v", err)
	}
	g, err := LoadFile(yamlPath, "")
	if err != nil {
		t.Fatalf("LoadFile(yaml) failed: %v", err)
	}
	if g.Width() != 4 || g.Height() != 3 {
		t.Errorf("unexpected size %dx%d", g.Width(), g.Height())
	}

	if _, err := LoadFile(filepath.Join(dir, "arena.json"), ""); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}
