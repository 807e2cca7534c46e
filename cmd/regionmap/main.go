// Package main is a top-down viewer that shows regions streaming around the
// autopilot in real time.
package main

import (
	"fmt"
	"os"
	"time"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/skybound/internal/config"
	"github.com/Faultbox/skybound/internal/engine/debug"
	"github.com/Faultbox/skybound/internal/engine/input"
	"github.com/Faultbox/skybound/internal/engine/window"
	"github.com/Faultbox/skybound/internal/game"
	"github.com/Faultbox/skybound/internal/logger"
)

const (
	windowTitle = "Skybound Region Map"
	minZoom     = 4
	maxZoom     = 96
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Skybound Region Map ===")

	if err := run(cfg); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("viewer closed normally")
}

func run(cfg *config.Config) error {
	g, err := game.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create simulation: %w", err)
	}
	defer g.Close()

	win, err := window.New(window.Config{
		Title:  windowTitle,
		Width:  cfg.Viewer.Width,
		Height: cfg.Viewer.Height,
		VSync:  true,
	})
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer win.Close()

	in := input.New()
	view := newMapView(g, cfg.Viewer.PixelsPerRegion)
	shots := debug.NewScreenshotCapture("screenshots", "regionmap")
	wantShot := false

	step := time.Second / time.Duration(cfg.Simulation.TickRate)
	dt := float32(step.Seconds())
	paused := false

	g.Step(0)

	start := time.Now()
	lastTime := start
	var accumulator time.Duration
	titleTimer := start
	tickCount := 0

	for {
		now := time.Now()
		accumulator += now.Sub(lastTime)
		lastTime = now

		if in.Update() {
			return nil
		}
		for _, ev := range in.Events() {
			switch ev.Type {
			case input.EventKeyDown:
				switch ev.Key {
				case sdl.SCANCODE_ESCAPE:
					return nil
				case sdl.SCANCODE_SPACE:
					paused = !paused
				case sdl.SCANCODE_EQUALS, sdl.SCANCODE_KP_PLUS:
					view.zoom(2)
				case sdl.SCANCODE_MINUS, sdl.SCANCODE_KP_MINUS:
					view.zoom(-2)
				case sdl.SCANCODE_C:
					view.showColliders = !view.showColliders
				case sdl.SCANCODE_F12:
					wantShot = true
				}
			case input.EventWheel:
				view.zoom(ev.Wheel)
			}
		}

		// Fixed timestep: catch up on whole ticks, never more than a quarter
		// second at once.
		if accumulator > time.Second/4 {
			accumulator = time.Second / 4
		}
		for accumulator >= step {
			accumulator -= step
			if !paused {
				g.Step(dt)
				tickCount++
			}
		}

		w, h := win.GetSize()
		if err := view.draw(win.Renderer(), w, h); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		if wantShot {
			wantShot = false
			if name, err := screenshot(win, shots, w, h); err != nil {
				logger.Warn("screenshot failed", zap.Error(err))
			} else {
				logger.Info("screenshot saved", zap.String("file", name))
			}
		}
		win.Present()

		if time.Since(titleTimer) >= time.Second {
			pos := g.Pilot().PlayerPosition()
			win.SetTitle(fmt.Sprintf("%s | region %v | %d regions | %d tps | alt %.0f",
				windowTitle, g.World().PlayerRegion(), g.World().Count(), tickCount, pos.Y))
			tickCount = 0
			titleTimer = time.Now()
		}

		if d := cfg.Simulation.Duration; d > 0 && time.Since(start) >= d {
			return nil
		}
	}
}

// screenshot reads back the frame drawn so far and saves it as PNG.
func screenshot(win *window.Window, shots *debug.ScreenshotCapture, w, h int) (string, error) {
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return "", fmt.Errorf("empty window")
	}
	// ABGR8888 is laid out R, G, B, A in memory on little-endian hosts.
	if err := win.Renderer().ReadPixels(nil, sdl.PIXELFORMAT_ABGR8888, unsafe.Pointer(&pixels[0]), w*4); err != nil {
		return "", fmt.Errorf("read pixels: %w", err)
	}
	return shots.CaptureFromPixels(pixels, w, h)
}
