// Package level loads tile grids from level files. Two formats are
// understood: a plain YAML document and Tiled TMX maps.
package level

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/arena/pkg/tilemap"
)

// Level errors.
var (
	ErrUnknownFormat   = errors.New("unknown level format")
	ErrDuplicateTile   = errors.New("duplicate tile")
	ErrLayerNotFound   = errors.New("tile layer not found")
	ErrUnsupportedFlip = errors.New("unsupported tile flip")
)

// LoadFile loads a grid from disk, choosing the format by extension.
// layer selects the TMX tile layer and is ignored for YAML.
func LoadFile(path, layer string) (*tilemap.Grid, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		doc, err := Load(path)
		if err != nil {
			return nil, err
		}
		return doc.Grid()
	case ".tmx":
		return LoadTMX(os.DirFS(filepath.Dir(path)), filepath.Base(path), layer)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}
