package level

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/arena/pkg/tilemap"
)

// Tiled GID flag bits.
const (
	flipH = 0x80000000
	flipV = 0x40000000
	flipD = 0x20000000
)

// writeTMX writes a single-layer map using an inline 4-column tileset and
// CSV layer data. gids are row-major, 0 for empty.
func writeTMX(t *testing.T, dir, layer string, w, h int, gids []uint32) string {
	t.Helper()

	data := ""
	for i, gid := range gids {
		if i > 0 {
			data += ","
		}
		if i > 0 && i%w == 0 {
			data += "\n"
		}
		data += fmt.Sprint(gid)
	}

	tmx := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" tiledversion="1.10.2" orientation="orthogonal" renderorder="right-down" width="%d" height="%d" tilewidth="16" tileheight="16" infinite="0" nextlayerid="2" nextobjectid="1">
 <tileset firstgid="1" name="atlas" tilewidth="16" tileheight="16" tilecount="16" columns="4">
  <image source="atlas.png" width="64" height="64"/>
 </tileset>
 <layer id="1" name="%s" width="%d" height="%d">
  <data encoding="csv">
%s
</data>
 </layer>
</map>
`, w, h, layer, w, h, data)

	path := filepath.Join(dir, "arena.tmx")
	if err := os.WriteFile(path, []byte(tmx), 0644); err != nil {
		t.Fatalf("failed to write TMX: %v", err)
	}
	return path
}

func TestLoadTMX(t *testing.T) {
	dir := t.TempDir()
	gids := []uint32{
		1, 0, 6,
		0, 3 | flipD | flipH, 8 | flipH | flipV,
	}
	writeTMX(t, dir, "tiles", 3, 2, gids)

	g, err := LoadTMX(os.DirFS(dir), "arena.tmx", "tiles")
	if err != nil {
		t.Fatalf("LoadTMX failed: %v", err)
	}
	if g.Width() != 3 || g.Height() != 2 {
		t.Fatalf("unexpected size %dx%d", g.Width(), g.Height())
	}
	if g.Count() != 4 {
		t.Errorf("expected 4 tiles, got %d", g.Count())
	}

	tests := []struct {
		x, y   int
		gx, gy int
		rot    tilemap.Rotation
	}{
		{0, 0, 0, 0, tilemap.Rotation0},
		{2, 0, 1, 1, tilemap.Rotation0},
		{1, 1, 2, 0, tilemap.Rotation90},
		{2, 1, 3, 1, tilemap.Rotation180},
	}
	for _, tc := range tests {
		tile, ok := g.At(tc.x, tc.y)
		if !ok {
			t.Errorf("(%d, %d) empty", tc.x, tc.y)
			continue
		}
		if tile.GraphicX() != tc.gx || tile.GraphicY() != tc.gy || tile.Rotation() != tc.rot {
			t.Errorf("(%d, %d) = %s, want (%d,%d)@%s", tc.x, tc.y, tile, tc.gx, tc.gy, tc.rot)
		}
	}
	if _, ok := g.At(1, 0); ok {
		t.Error("(1, 0) should be empty")
	}
}

func TestLoadTMX_DefaultLayerAndLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTMX(t, dir, "ground", 2, 2, []uint32{1, 2, 3, 4 | flipD | flipV})

	g, err := LoadFile(path, "")
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	tile, _ := g.At(1, 1)
	if tile.Rotation() != tilemap.Rotation270 {
		t.Errorf("expected 270, got %s", tile.Rotation())
	}
}

func TestLoadTMX_MissingLayer(t *testing.T) {
	dir := t.TempDir()
	writeTMX(t, dir, "ground", 1, 1, []uint32{1})

	_, err := LoadTMX(os.DirFS(dir), "arena.tmx", "walls")
	if !errors.Is(err, ErrLayerNotFound) {
		t.Errorf("expected ErrLayerNotFound, got %v", err)
	}
}

func TestLoadTMX_MirroredTileRejected(t *testing.T) {
	dir := t.TempDir()
	writeTMX(t, dir, "ground", 1, 1, []uint32{1 | flipH})

	_, err := LoadTMX(os.DirFS(dir), "arena.tmx", "")
	if !errors.Is(err, ErrUnsupportedFlip) {
		t.Errorf("expected ErrUnsupportedFlip, got %v", err)
	}
}

func TestFlipsToRotation(t *testing.T) {
	tests := []struct {
		h, v, d bool
		want    tilemap.Rotation
		wantErr bool
	}{
		{false, false, false, tilemap.Rotation0, false},
		{true, false, true, tilemap.Rotation90, false},
		{true, true, false, tilemap.Rotation180, false},
		{false, true, true, tilemap.Rotation270, false},
		{true, false, false, 0, true},
		{false, true, false, 0, true},
		{false, false, true, 0, true},
		{true, true, true, 0, true},
	}

	for _, tc := range tests {
		got, err := flipsToRotation(tc.h, tc.v, tc.d)
		if tc.wantErr {
			if !errors.Is(err, ErrUnsupportedFlip) {
				t.Errorf("flips(%t,%t,%t) error = %v", tc.h, tc.v, tc.d, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("flips(%t,%t,%t) = %v, %v; want %v", tc.h, tc.v, tc.d, got, err, tc.want)
		}
	}
}
