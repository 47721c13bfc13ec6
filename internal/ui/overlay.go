//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"erode/internal/core"
	"erode/internal/render"
)

type velocityProvider interface {
	VelocityAt(px, py float64) (float64, float64)
}

type sedimentProvider interface {
	SedimentMask(dst []float32) []float32
}

const arrowSpacing = 18 // screen pixels between flow arrows

var (
	sedimentTint = color.RGBA{R: 230, G: 150, B: 60, A: 170}
	calmColor    = color.RGBA{R: 90, G: 130, B: 170, A: 90}
)

// Overlay draws flow diagnostics over the terrain view. Key 1 toggles flow
// arrows and key 2 the suspended sediment mask.
type Overlay struct {
	sim          core.Sim
	scale        int
	showFlow     bool
	showSediment bool

	mask    []float32
	frame   *render.Frame
	painter *render.Painter

	speeds []float64
	dirs   [][2]float64
}

// NewOverlay returns an overlay for sim drawn at scale screen pixels per cell.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	size := sim.Size()
	return &Overlay{
		sim:     sim,
		scale:   scale,
		frame:   render.NewFrame(size.W, size.H),
		painter: render.NewPainter(size.W, size.H),
	}
}

// SetScale updates the screen pixels per cell.
func (o *Overlay) SetScale(scale int) { o.scale = scale }

// Update handles the overlay toggles.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showFlow = !o.showFlow
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showSediment = !o.showSediment
	}
}

// Draw renders the enabled overlays onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	scale := max(o.scale, 1)
	if p, ok := o.sim.(sedimentProvider); ok && o.showSediment {
		o.mask = p.SedimentMask(o.mask)
		o.frame.Resize(size.W, size.H)
		o.frame.Tint(o.mask, sedimentTint)
		o.painter.Blit(screen, o.frame, scale)
	}
	if p, ok := o.sim.(velocityProvider); ok && o.showFlow {
		o.drawFlow(screen, p, size, scale)
	}
}

// drawFlow samples velocity on a screen-space lattice and draws one arrow per
// sample. Lengths are relative to the fastest sample of the frame.
func (o *Overlay) drawFlow(screen *ebiten.Image, p velocityProvider, size core.Size, scale int) {
	w, h := size.W*scale, size.H*scale
	cols, rows := w/arrowSpacing, h/arrowSpacing
	if cols == 0 || rows == 0 {
		return
	}
	o.speeds = o.speeds[:0]
	o.dirs = o.dirs[:0]
	top := 0.0
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			sx := (float64(c) + 0.5) * arrowSpacing
			sy := (float64(r) + 0.5) * arrowSpacing
			// cell space has y pointing north
			vx, vy := p.VelocityAt(sx/float64(scale), float64(size.H)-sy/float64(scale))
			s := math.Hypot(vx, vy)
			o.speeds = append(o.speeds, s)
			o.dirs = append(o.dirs, [2]float64{vx, -vy})
			top = math.Max(top, s)
		}
	}

	const calm = 0.02
	half := arrowSpacing * 0.45
	for i, s := range o.speeds {
		sx := (float64(i%cols) + 0.5) * arrowSpacing
		sy := (float64(i/cols) + 0.5) * arrowSpacing
		if s < calm || top == 0 {
			vector.DrawFilledCircle(screen, float32(sx), float32(sy), 1.5, calmColor, false)
			continue
		}
		t := s / top
		nx, ny := o.dirs[i][0]/s, o.dirs[i][1]/s
		l := half * (0.35 + 0.65*math.Sqrt(t))
		x0, y0 := sx-nx*l, sy-ny*l
		x1, y1 := sx+nx*l, sy+ny*l
		col := flowColor(t)
		width := float32(1 + t)
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), width, col, true)
		// arrow head
		for _, a := range [2]float64{math.Pi / 6, -math.Pi / 6} {
			hx := x1 - (nx*math.Cos(a)-ny*math.Sin(a))*l*0.6
			hy := y1 - (nx*math.Sin(a)+ny*math.Cos(a))*l*0.6
			vector.StrokeLine(screen, float32(x1), float32(y1), float32(hx), float32(hy), width, col, true)
		}
	}
}

// flowColor ramps from slow blue to fast orange.
func flowColor(t float64) color.RGBA {
	t = math.Max(0, math.Min(1, t))
	lerp := func(a, b float64) uint8 { return uint8(math.Round(a + (b-a)*t)) }
	return color.RGBA{R: lerp(80, 250), G: lerp(200, 160), B: lerp(240, 60), A: lerp(160, 240)}
}
