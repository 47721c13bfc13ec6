package erosion

import (
	"fmt"
	"image/color"
	"math"

	"github.com/crazy3lf/colorconv"

	"erode/internal/core"
)

// ViewMode selects how Pixels colours the grid.
type ViewMode int

const (
	// ViewShaded lights the terrain by its normal and tints water over it.
	ViewShaded ViewMode = iota
	ViewHeight
	ViewWater
	ViewSediment
	ViewVelocity
	viewModeCount
)

var viewModeNames = [...]string{"shaded", "height", "water", "sediment", "velocity"}

func (m ViewMode) String() string {
	if m < 0 || m >= viewModeCount {
		return fmt.Sprintf("ViewMode(%d)", int(m))
	}
	return viewModeNames[m]
}

// Next cycles to the following view mode.
func (m ViewMode) Next() ViewMode { return (m + 1) % viewModeCount }

var (
	lowland  = color.NRGBA{R: 70, G: 110, B: 50, A: 255}
	highland = color.NRGBA{R: 140, G: 120, B: 95, A: 255}
	peak     = color.NRGBA{R: 235, G: 235, B: 240, A: 255}
	water    = color.NRGBA{R: 35, G: 90, B: 190, A: 255}
	silt     = color.NRGBA{R: 150, G: 110, B: 60, A: 255}
)

// light direction, normalized (x, y-up, z)
var lightDir = [3]float64{-0.48, 0.8, 0.36}

const (
	waterOpacityDepth = 0.5
	siltVisibility    = 40
)

// Pixels writes RGBA pixels for the current front buffers into buf, which
// must hold 4·R·R bytes. Row 0 of the image is the north edge of the grid.
func (e *Engine) Pixels(mode ViewMode, buf []byte) {
	r := e.store.Resolution()
	if len(buf) < r*r*4 {
		return
	}
	terrain := e.store.Read(Terrain)
	switch mode {
	case ViewHeight:
		lo, hi := channelRange(terrain, 0)
		fill(buf, r, func(i int) color.NRGBA {
			v := uint8(255 * normalize(float64(terrain.Cell(i)[0]), lo, hi))
			return color.NRGBA{R: v, G: v, B: v, A: 255}
		})
	case ViewWater:
		_, hi := channelRange(terrain, 1)
		fill(buf, r, func(i int) color.NRGBA {
			t := normalize(float64(terrain.Cell(i)[1]), 0, hi)
			return blendColors(color.NRGBA{A: 255}, water, math.Sqrt(t))
		})
	case ViewSediment:
		blend := e.store.Read(SedimentBlend)
		_, hi := channelRange(blend, 0)
		fill(buf, r, func(i int) color.NRGBA {
			t := normalize(float64(blend.Cell(i)[0]), 0, hi)
			return hsv(240*(1-t), 1, 0.15+0.85*t)
		})
	case ViewVelocity:
		velocity := e.store.Read(Velocity)
		maxSpeed := 0.0
		for i := 0; i < r*r; i++ {
			v := velocity.Cell(i)
			maxSpeed = math.Max(maxSpeed, math.Hypot(float64(v[0]), float64(v[1])))
		}
		fill(buf, r, func(i int) color.NRGBA {
			v := velocity.Cell(i)
			speed := math.Hypot(float64(v[0]), float64(v[1]))
			angle := math.Atan2(float64(v[1]), float64(v[0])) * 180 / math.Pi
			return hsv(angle, 1, normalize(speed, 0, maxSpeed))
		})
	default:
		normals := e.store.Read(TerrainNormal)
		blend := e.store.Read(SedimentBlend)
		lo, hi := channelRange(terrain, 0)
		fill(buf, r, func(i int) color.NRGBA {
			cell := terrain.Cell(i)
			base := heightColor(normalize(float64(cell[0]), lo, hi))
			base = blendColors(base, silt, math.Min(float64(blend.Cell(i)[0])*siltVisibility, 0.6))
			n := normals.Cell(i)
			lit := float64(n[0])*lightDir[0] + float64(n[1])*lightDir[1] + float64(n[2])*lightDir[2]
			base = scale(base, 0.35+0.65*math.Max(lit, 0))
			depth := float64(cell[1])
			if depth > 0 {
				base = blendColors(base, water, math.Min(depth/waterOpacityDepth, 0.85))
			}
			return base
		})
	}
}

// fill writes colour(i) for every cell, flipping rows so north is up.
func fill(buf []byte, r int, colour func(i int) color.NRGBA) {
	for y := 0; y < r; y++ {
		row := (r - 1 - y) * r * 4
		for x := 0; x < r; x++ {
			c := colour(y*r + x)
			base := row + x*4
			buf[base+0] = c.R
			buf[base+1] = c.G
			buf[base+2] = c.B
			buf[base+3] = c.A
		}
	}
}

func channelRange(v core.View, ch int) (lo, hi float64) {
	n := v.Width() * v.Height()
	if n == 0 {
		return 0, 0
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for i := 0; i < n; i++ {
		f := float64(v.Cell(i)[ch])
		lo = math.Min(lo, f)
		hi = math.Max(hi, f)
	}
	return lo, hi
}

func normalize(v, lo, hi float64) float64 {
	if hi-lo <= 1e-9 {
		return 0
	}
	t := (v - lo) / (hi - lo)
	return math.Max(0, math.Min(1, t))
}

func heightColor(t float64) color.NRGBA {
	if t < 0.5 {
		return blendColors(lowland, highland, t*2)
	}
	return blendColors(highland, peak, (t-0.5)*2)
}

func hsv(h, s, v float64) color.NRGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	r, g, b, err := colorconv.HSVToRGB(h, s, v)
	if err != nil {
		return color.NRGBA{A: 255}
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

func scale(c color.NRGBA, k float64) color.NRGBA {
	return color.NRGBA{
		R: uint8(math.Min(255, float64(c.R)*k)),
		G: uint8(math.Min(255, float64(c.G)*k)),
		B: uint8(math.Min(255, float64(c.B)*k)),
		A: c.A,
	}
}

func blendColors(base, overlay color.NRGBA, overlayWeight float64) color.NRGBA {
	if overlayWeight <= 0 {
		return base
	}
	if overlayWeight >= 1 {
		return overlay
	}
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a)*(1-overlayWeight) + float64(b)*overlayWeight + 0.5)
	}
	return color.NRGBA{
		R: mix(base.R, overlay.R),
		G: mix(base.G, overlay.G),
		B: mix(base.B, overlay.B),
		A: 255,
	}
}

// VelocityAt samples the flow velocity at a cell-space position, with y
// growing northwards.
func (e *Engine) VelocityAt(px, py float64) (float64, float64) {
	v := e.store.Read(Velocity)
	return float64(v.Sample(px, py, 0)), float64(v.Sample(px, py, 1))
}

// SedimentMask writes the suspended sediment of every cell, scaled to [0,1]
// by the current maximum, into dst in image row order.
func (e *Engine) SedimentMask(dst []float32) []float32 {
	sediment := e.store.Read(Sediment)
	r := sediment.Width()
	if cap(dst) < r*r {
		dst = make([]float32, r*r)
	}
	dst = dst[:r*r]
	_, hi := channelRange(sediment, 0)
	for y := 0; y < r; y++ {
		row := (r - 1 - y) * r
		for x := 0; x < r; x++ {
			dst[row+x] = float32(normalize(float64(sediment.Cell(y*r + x)[0]), 0, hi))
		}
	}
	return dst
}
