// Package camera provides the top-down orthographic camera used by the viewer.
package camera

import (
	"github.com/Faultbox/arena/pkg/math"
)

// TopDownCamera looks straight down -Z at the XY plane the tile mesh lives on.
type TopDownCamera struct {
	// Center of the view in world units
	CenterX, CenterY float32

	// Zoom is screen pixels per world unit
	Zoom    float32
	MinZoom float32
	MaxZoom float32

	// Sensitivity
	PanSpeed        float32 // Screen pixels per second at any zoom
	ZoomSensitivity float32

	viewportW, viewportH int
}

// NewTopDownCamera creates a camera for a viewport of the given pixel size.
func NewTopDownCamera(width, height int) *TopDownCamera {
	return &TopDownCamera{
		Zoom:            1.0,
		MinZoom:         0.05,
		MaxZoom:         20.0,
		PanSpeed:        600.0,
		ZoomSensitivity: 0.1,
		viewportW:       width,
		viewportH:       height,
	}
}

// SetViewport updates the viewport size after a window resize.
func (c *TopDownCamera) SetViewport(width, height int) {
	c.viewportW = width
	c.viewportH = height
}

// Viewport returns the viewport size in pixels.
func (c *TopDownCamera) Viewport() (int, int) {
	return c.viewportW, c.viewportH
}

// halfExtents returns half the visible world width and height.
func (c *TopDownCamera) halfExtents() (float32, float32) {
	return float32(c.viewportW) / (2 * c.Zoom), float32(c.viewportH) / (2 * c.Zoom)
}

// ViewProj returns the combined view-projection matrix.
func (c *TopDownCamera) ViewProj() math.Mat4 {
	hw, hh := c.halfExtents()
	return math.Ortho(
		c.CenterX-hw, c.CenterX+hw,
		c.CenterY-hh, c.CenterY+hh,
		-1, 1,
	)
}

// HandleMovement pans by a direction in [-1, 1] per axis over dt seconds.
func (c *TopDownCamera) HandleMovement(dx, dy, dt float32) {
	step := c.PanSpeed * dt / c.Zoom
	c.CenterX += dx * step
	c.CenterY += dy * step
}

// HandleZoom scales the zoom by delta steps, positive zooming in.
func (c *TopDownCamera) HandleZoom(delta float32) {
	c.Zoom += delta * c.Zoom * c.ZoomSensitivity
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	if c.Zoom > c.MaxZoom {
		c.Zoom = c.MaxZoom
	}
}

// FitToBounds centers the camera on a box and zooms so it fills the viewport.
func (c *TopDownCamera) FitToBounds(lo, hi math.Vec2) {
	c.CenterX = (lo.X + hi.X) / 2
	c.CenterY = (lo.Y + hi.Y) / 2

	sizeX := hi.X - lo.X
	sizeY := hi.Y - lo.Y
	if sizeX <= 0 || sizeY <= 0 || c.viewportW <= 0 || c.viewportH <= 0 {
		return
	}

	zx := float32(c.viewportW) / sizeX
	zy := float32(c.viewportH) / sizeY
	c.Zoom = zx
	if zy < zx {
		c.Zoom = zy
	}
	// Leave a small margin around the level
	c.Zoom *= 0.9
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	if c.Zoom > c.MaxZoom {
		c.Zoom = c.MaxZoom
	}
}

// ScreenToWorld converts window pixel coordinates (origin top-left, Y down)
// to world coordinates on the mesh plane.
func (c *TopDownCamera) ScreenToWorld(sx, sy int) math.Vec2 {
	hw, hh := c.halfExtents()
	return math.Vec2{
		X: c.CenterX - hw + float32(sx)/c.Zoom,
		Y: c.CenterY + hh - float32(sy)/c.Zoom,
	}
}
