package level

import (
	"fmt"
	"io/fs"

	"github.com/lafriks/go-tiled"

	"github.com/Faultbox/arena/pkg/tilemap"
)

// LoadTMX reads one tile layer of a Tiled map into a grid. An empty layer
// name selects the first tile layer. Atlas coordinates come from the tile's
// local ID and the tileset's column count. Tiled encodes rotation as flip
// flags; only the combinations that are pure rotations are accepted.
func LoadTMX(fsys fs.FS, path, layer string) (*tilemap.Grid, error) {
	m, err := tiled.LoadFile(path, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", path, err)
	}

	src, err := findLayer(m, layer)
	if err != nil {
		return nil, fmt.Errorf("TMX %s: %w", path, err)
	}

	g, err := tilemap.NewGrid(m.Width, m.Height)
	if err != nil {
		return nil, fmt.Errorf("TMX %s: %w", path, err)
	}

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			i := y*m.Width + x
			if i >= len(src.Tiles) {
				break
			}
			lt := src.Tiles[i]
			if lt == nil || lt.IsNil() {
				continue
			}

			tile, err := convertTile(lt)
			if err != nil {
				return nil, fmt.Errorf("TMX %s: cell (%d, %d): %w", path, x, y, err)
			}
			if err := g.Set(x, y, tile); err != nil {
				return nil, err
			}
		}
	}

	return g, nil
}

func findLayer(m *tiled.Map, name string) (*tiled.Layer, error) {
	for _, l := range m.Layers {
		if name == "" || l.Name == name {
			return l, nil
		}
	}
	if name == "" {
		return nil, fmt.Errorf("%w: map has no tile layers", ErrLayerNotFound)
	}
	return nil, fmt.Errorf("%w: %q", ErrLayerNotFound, name)
}

func convertTile(lt *tiled.LayerTile) (tilemap.Tile, error) {
	columns := 1
	if lt.Tileset != nil && lt.Tileset.Columns > 0 {
		columns = lt.Tileset.Columns
	}
	id := int(lt.ID)

	rot, err := flipsToRotation(lt.HorizontalFlip, lt.VerticalFlip, lt.DiagonalFlip)
	if err != nil {
		return tilemap.Tile{}, err
	}
	return tilemap.NewTile(id%columns, id/columns, rot)
}

// flipsToRotation maps Tiled's flip flags to a quarter-turn rotation.
// Tiled's "rotate 90 clockwise" sets diagonal+horizontal, 180 sets
// horizontal+vertical, 270 sets diagonal+vertical.
func flipsToRotation(h, v, d bool) (tilemap.Rotation, error) {
	switch {
	case !h && !v && !d:
		return tilemap.Rotation0, nil
	case h && !v && d:
		return tilemap.Rotation90, nil
	case h && v && !d:
		return tilemap.Rotation180, nil
	case !h && v && d:
		return tilemap.Rotation270, nil
	default:
		return tilemap.Rotation0, fmt.Errorf("%w: h=%t v=%t d=%t", ErrUnsupportedFlip, h, v, d)
	}
}
