package main

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/skybound/internal/engine/debug"
	"github.com/Faultbox/skybound/internal/engine/scene"
	"github.com/Faultbox/skybound/internal/engine/terrain"
	"github.com/Faultbox/skybound/internal/game"
	"github.com/Faultbox/skybound/internal/region"
	wmath "github.com/Faultbox/skybound/pkg/math"
)

var (
	colorBackground = sdl.Color{R: 12, G: 14, B: 20, A: 255}
	colorSettlement = sdl.Color{R: 214, G: 150, B: 64, A: 255}
	colorPatrol     = sdl.Color{R: 220, G: 48, B: 48, A: 255}
	colorPlayer     = sdl.Color{R: 255, G: 255, B: 255, A: 255}
	colorGrid       = sdl.Color{R: 0, G: 0, B: 0, A: 90}
	colorRadius     = sdl.Color{R: 120, G: 170, B: 255, A: 160}
	colorCollider   = sdl.Color{R: 250, G: 240, B: 120, A: 200}
)

// mapView draws the loaded regions centred on the player.
type mapView struct {
	g   *game.Game
	ppr int // pixels per region

	showColliders bool
}

func newMapView(g *game.Game, pixelsPerRegion int) *mapView {
	return &mapView{g: g, ppr: pixelsPerRegion}
}

func (v *mapView) zoom(delta int) {
	v.ppr += delta
	if v.ppr < minZoom {
		v.ppr = minZoom
	}
	if v.ppr > maxZoom {
		v.ppr = maxZoom
	}
}

func (v *mapView) draw(r *sdl.Renderer, width, height int) error {
	if err := setColor(r, colorBackground); err != nil {
		return err
	}
	if err := r.Clear(); err != nil {
		return err
	}

	layout := v.g.World().Layout()
	player := v.g.Pilot().PlayerPosition()
	cx, cy := float32(width)/2, float32(height)/2
	scale := float32(v.ppr) / layout.Edge

	// toScreen maps world XZ to window pixels, +Z pointing down.
	toScreen := func(x, z float32) (int32, int32) {
		return int32(cx + (x-player.X)*scale), int32(cy + (z-player.Z)*scale)
	}

	field := v.g.Field()
	for _, k := range v.g.World().Loaded() {
		origin := layout.Origin(k)
		x, y := toScreen(origin.X, origin.Z)
		rect := sdl.Rect{X: x, Y: y, W: int32(v.ppr), H: int32(v.ppr)}

		fill := groundColor(field, layout, k)
		if region.ShouldSpawnSettlement(k) {
			fill = colorSettlement
		}
		if err := setColor(r, fill); err != nil {
			return err
		}
		if err := r.FillRect(&rect); err != nil {
			return err
		}
		if v.ppr >= 8 {
			if err := setColor(r, colorGrid); err != nil {
				return err
			}
			if err := r.DrawRect(&rect); err != nil {
				return err
			}
		}

		if region.ShouldSpawnPatrol(k) {
			c := layout.Center(k)
			px, py := toScreen(c.X, c.Z)
			size := int32(v.ppr/4 + 1)
			marker := sdl.Rect{X: px - size/2, Y: py - size/2, W: size, H: size}
			if err := setColor(r, colorPatrol); err != nil {
				return err
			}
			if err := r.FillRect(&marker); err != nil {
				return err
			}
		}
	}

	if v.showColliders {
		if err := v.drawColliders(r, layout.Edge, toScreen); err != nil {
			return err
		}
	}

	// Bounding square of the load radius around the player's region.
	cfg := v.g.World().Config()
	cur := layout.Origin(v.g.World().PlayerRegion())
	rx, ry := toScreen(cur.X-float32(cfg.LoadRadius)*layout.Edge, cur.Z-float32(cfg.LoadRadius)*layout.Edge)
	side := (2*cfg.LoadRadius + 1) * int32(v.ppr)
	if err := setColor(r, colorRadius); err != nil {
		return err
	}
	if err := r.DrawRect(&sdl.Rect{X: rx, Y: ry, W: side, H: side}); err != nil {
		return err
	}

	// Player marker and heading.
	heading := v.g.Pilot().Heading()
	if err := setColor(r, colorPlayer); err != nil {
		return err
	}
	if err := r.FillRect(&sdl.Rect{X: int32(cx) - 3, Y: int32(cy) - 3, W: 7, H: 7}); err != nil {
		return err
	}
	return r.DrawLine(int32(cx), int32(cy), int32(cx+heading.X*16), int32(cy+heading.Z*16))
}

// drawColliders outlines the XZ footprint of every non-ground collider.
func (v *mapView) drawColliders(r *sdl.Renderer, edge float32, toScreen func(x, z float32) (int32, int32)) error {
	if err := setColor(r, colorCollider); err != nil {
		return err
	}
	var drawErr error
	v.g.Graph().Colliders(func(_ scene.Handle, c scene.Collider, world wmath.Mat4) {
		if drawErr != nil {
			return
		}
		fp := debug.ColliderFootprint(c, world)
		if fp.Max.X-fp.Min.X >= edge {
			return
		}
		x0, y0 := toScreen(fp.Min.X, fp.Min.Y)
		x1, y1 := toScreen(fp.Max.X, fp.Max.Y)
		drawErr = r.DrawRect(&sdl.Rect{X: x0, Y: y0, W: max(x1-x0, 1), H: max(y1-y0, 1)})
	})
	return drawErr
}

// groundColor shades a region by the terrain height at its centre.
func groundColor(field terrain.HeightField, layout region.Layout, k region.Key) sdl.Color {
	c := layout.Center(k)
	t := (field.HeightAt(c.X, c.Z) - terrain.MinHeight) / (terrain.MaxHeight - terrain.MinHeight)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return sdl.Color{R: uint8(30 + 60*t), G: uint8(90 + 120*t), B: uint8(40 + 30*t), A: 255}
}

func setColor(r *sdl.Renderer, c sdl.Color) error {
	return r.SetDrawColor(c.R, c.G, c.B, c.A)
}
