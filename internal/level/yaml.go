package level

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/arena/pkg/tilemap"
)

// Document is the YAML level layout.
//
//	name: arena
//	width: 16
//	height: 16
//	tiles:
//	  - {x: 0, y: 0, gx: 1, gy: 0, rot: 90}
type Document struct {
	Name   string      `yaml:"name"`
	Width  int         `yaml:"width"`
	Height int         `yaml:"height"`
	Tiles  []TileEntry `yaml:"tiles"`
}

// TileEntry places one tile. Rot is in degrees.
type TileEntry struct {
	X   int `yaml:"x"`
	Y   int `yaml:"y"`
	GX  int `yaml:"gx"`
	GY  int `yaml:"gy"`
	Rot int `yaml:"rot,omitempty"`
}

// Load reads a YAML level document from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading level: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a YAML level document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}
	return &doc, nil
}

// Grid builds the grid described by the document. Every entry must be in
// range, have a valid rotation and address a distinct cell.
func (d *Document) Grid() (*tilemap.Grid, error) {
	g, err := tilemap.NewGrid(d.Width, d.Height)
	if err != nil {
		return nil, err
	}

	for i, e := range d.Tiles {
		rot, err := tilemap.ParseRotation(e.Rot)
		if err != nil {
			return nil, fmt.Errorf("tile %d: %w", i, err)
		}
		tile, err := tilemap.NewTile(e.GX, e.GY, rot)
		if err != nil {
			return nil, fmt.Errorf("tile %d: %w", i, err)
		}
		if _, taken := g.At(e.X, e.Y); taken {
			return nil, fmt.Errorf("tile %d: %w at (%d, %d)", i, ErrDuplicateTile, e.X, e.Y)
		}
		if err := g.Set(e.X, e.Y, tile); err != nil {
			return nil, fmt.Errorf("tile %d: %w", i, err)
		}
	}

	return g, nil
}

// FromGrid describes a grid as a document, listing tiles in scan order.
func FromGrid(g *tilemap.Grid, name string) *Document {
	doc := &Document{
		Name:   name,
		Width:  g.Width(),
		Height: g.Height(),
		Tiles:  make([]TileEntry, 0, g.Count()),
	}
	g.Each(func(x, y int, t tilemap.Tile) {
		doc.Tiles = append(doc.Tiles, TileEntry{
			X:   x,
			Y:   y,
			GX:  t.GraphicX(),
			GY:  t.GraphicY(),
			Rot: t.Rotation().Degrees(),
		})
	})
	return doc
}

// Marshal encodes a grid as a YAML level document.
func Marshal(g *tilemap.Grid, name string) ([]byte, error) {
	return yaml.Marshal(FromGrid(g, name))
}

// Save writes a grid to path as a YAML level document.
func Save(path string, g *tilemap.Grid, name string) error {
	data, err := Marshal(g, name)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
