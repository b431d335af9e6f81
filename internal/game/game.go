// Package game implements the viewer's frame loop.
package game

import (
	"fmt"
	"image"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/arena/internal/config"
	"github.com/Faultbox/arena/internal/engine/camera"
	"github.com/Faultbox/arena/internal/engine/input"
	"github.com/Faultbox/arena/internal/engine/navigation"
	"github.com/Faultbox/arena/internal/engine/renderer"
	"github.com/Faultbox/arena/internal/engine/texture"
	"github.com/Faultbox/arena/internal/engine/window"
	"github.com/Faultbox/arena/internal/game/arena"
	"github.com/Faultbox/arena/internal/logger"
	"github.com/Faultbox/arena/pkg/math"
)

// Title is the window title.
const Title = "Arena"

// Game is the windowed viewer.
type Game struct {
	cfg     *config.Config
	running bool
	log     *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	tilemap  *renderer.TilemapRenderer
	input    *input.Input
	camera   *camera.TopDownCamera
	arena    *arena.Arena

	// First right click picks a route start, the second finds the route
	routeStart *math.Vec2
}

// New creates the window, GL state and arena.
func New(cfg *config.Config) (*Game, error) {
	g := &Game{
		cfg: cfg,
		log: logger.Named("game"),
	}
	g.log.Info("initializing game",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	var err error
	g.arena, err = arena.New(cfg)
	if err != nil {
		return nil, err
	}

	g.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer needs the GL context the window just created
	fbW, fbH := g.window.DrawableSize()
	g.renderer, err = renderer.New(renderer.Config{Width: fbW, Height: fbH})
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	g.tilemap, err = renderer.NewTilemapRenderer()
	if err != nil {
		g.Close()
		return nil, err
	}
	g.tilemap.SetAtlas(g.loadAtlas())

	if err := g.arena.Attach(g.tilemap); err != nil {
		g.Close()
		return nil, err
	}

	winW, winH := g.window.Size()
	g.camera = camera.NewTopDownCamera(winW, winH)
	g.input = input.New()

	// First build so the camera can frame the level
	if _, err := g.arena.Update(); err != nil {
		g.Close()
		return nil, err
	}
	if lo, hi, ok := g.arena.Bounds(); ok {
		g.camera.FitToBounds(lo, hi)
	}

	g.log.Info("game initialized")
	return g, nil
}

// loadAtlas loads the configured atlas, falling back to a generated checker.
func (g *Game) loadAtlas() *image.RGBA {
	cols := g.cfg.Tilemap.AtlasColumns
	if path := g.cfg.Tilemap.Atlas; path != "" {
		img, err := texture.LoadAtlas(path)
		if err == nil {
			return img
		}
		g.log.Warn("atlas load failed, using checker", zap.String("path", path), zap.Error(err))
	}
	return texture.Checker(cols, 32)
}

// Run drives the frame loop until the window closes or Esc is pressed.
func (g *Game) Run() error {
	g.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	g.log.Info("starting game loop")

	for g.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if g.input.Update() {
			g.running = false
			break
		}
		g.handleEvents()

		g.update(dt)

		if _, err := g.arena.Update(); err != nil {
			// The previous mesh is still drawable
			g.log.Error("arena update failed", zap.Error(err))
		}

		g.render()
		g.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			g.log.Debug("fps", zap.Int("count", frameCount), zap.Float32("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (g *Game) handleEvents() {
	for _, event := range g.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			g.camera.SetViewport(g.window.Size())
			g.renderer.Resize(g.window.DrawableSize())

		case input.EventKeyDown:
			if event.Repeat {
				continue
			}
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				g.running = false
			case sdl.SCANCODE_R:
				g.arena.RotateAll()
			case sdl.SCANCODE_C:
				g.tilemap.ShowOutlines = !g.tilemap.ShowOutlines
			case sdl.SCANCODE_F:
				if lo, hi, ok := g.arena.Bounds(); ok {
					g.camera.FitToBounds(lo, hi)
				}
			case sdl.SCANCODE_EQUALS, sdl.SCANCODE_KP_PLUS:
				g.camera.HandleZoom(1)
			case sdl.SCANCODE_MINUS, sdl.SCANCODE_KP_MINUS:
				g.camera.HandleZoom(-1)
			}

		case input.EventMouseWheel:
			g.camera.HandleZoom(float32(event.WheelY))

		case input.EventMouseDown:
			p := g.camera.ScreenToWorld(event.MouseX, event.MouseY)
			switch event.Button {
			case sdl.BUTTON_LEFT:
				if err := g.arena.RotateAt(p); err != nil {
					g.log.Debug("rotate skipped", zap.Error(err))
				}
			case sdl.BUTTON_RIGHT:
				g.route(p)
			}
		}
	}
}

func (g *Game) route(p math.Vec2) {
	if g.routeStart == nil {
		g.routeStart = &p
		return
	}
	from := *g.routeStart
	g.routeStart = nil

	path, err := g.arena.FindPath(from, p)
	if err != nil {
		g.log.Info("no route", zap.Error(err))
		return
	}
	g.log.Info("route found",
		zap.Int("cells", len(path)),
		zap.Float32("cost", navigation.Cost(path)),
	)
}

func (g *Game) update(dt float32) {
	dx := g.input.Axis(sdl.SCANCODE_LEFT, sdl.SCANCODE_RIGHT)
	dy := g.input.Axis(sdl.SCANCODE_DOWN, sdl.SCANCODE_UP)
	if dx != 0 || dy != 0 {
		g.camera.HandleMovement(dx, dy, dt)
	}
}

func (g *Game) render() {
	g.renderer.Begin()
	g.tilemap.Draw(g.camera.ViewProj())
	g.renderer.End()
}

// Close releases GPU, window and SDL resources.
func (g *Game) Close() {
	g.log.Info("closing game")

	if g.tilemap != nil {
		g.tilemap.Close()
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}
