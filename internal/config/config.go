// Package config handles arena configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Validate for unusable settings.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all arena settings.
type Config struct {
	Graphics  GraphicsConfig  `yaml:"graphics"`
	Tilemap   TilemapConfig   `yaml:"tilemap"`
	Level     LevelConfig     `yaml:"level"`
	Collision CollisionConfig `yaml:"collision"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// TilemapConfig holds mesh generation settings.
type TilemapConfig struct {
	TileSize     float32 `yaml:"tile_size"`     // World units per cell edge
	AtlasColumns int     `yaml:"atlas_columns"` // Atlas cells per row; UV cell size is 1/columns
	Atlas        string  `yaml:"atlas"`         // Atlas image path, empty for a generated checker
}

// LevelConfig selects the level to load at startup.
type LevelConfig struct {
	Path  string `yaml:"path"`  // .yaml/.yml or .tmx, empty for the built-in diagonal grid
	Layer string `yaml:"layer"` // TMX layer name, empty for the first layer
}

// CollisionConfig holds collision world settings.
type CollisionConfig struct {
	CellSize float64 `yaml:"cell_size"` // Broadphase cell size, 0 uses the tile size
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Tilemap: TilemapConfig{
			TileSize:     32,
			AtlasColumns: 4,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings the mesh builder or window cannot work with.
func (c *Config) Validate() error {
	if c.Tilemap.TileSize <= 0 {
		return fmt.Errorf("%w: tile_size must be positive, got %g", ErrInvalidConfig, c.Tilemap.TileSize)
	}
	if c.Tilemap.AtlasColumns <= 0 {
		return fmt.Errorf("%w: atlas_columns must be positive, got %d", ErrInvalidConfig, c.Tilemap.AtlasColumns)
	}
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Graphics.Width, c.Graphics.Height)
	}
	if c.Collision.CellSize < 0 {
		return fmt.Errorf("%w: cell_size must not be negative, got %g", ErrInvalidConfig, c.Collision.CellSize)
	}
	return nil
}

// CollisionCellSize returns the broadphase cell size, falling back to the tile size.
func (c *Config) CollisionCellSize() float64 {
	if c.Collision.CellSize > 0 {
		return c.Collision.CellSize
	}
	return float64(c.Tilemap.TileSize)
}
