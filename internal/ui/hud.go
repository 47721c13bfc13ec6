//go:build ebiten

package ui

import (
	"image"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"erode/internal/core"
)

const (
	panelPadding     = 12
	titleBaseline    = 18
	rowsTop          = panelPadding + titleBaseline + 14
	rowHeight        = 26
	rowBaseline      = 17
	buttonSize       = 18
	buttonGap        = 5
	statusLineHeight = 15
)

var (
	panelColor    = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	titleColor    = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	labelColor    = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	mutedColor    = color.RGBA{R: 140, G: 140, B: 150, A: 255}
	statusColor   = color.RGBA{R: 150, G: 170, B: 190, A: 255}
	errorColor    = color.RGBA{R: 230, G: 110, B: 90, A: 255}
	buttonColor   = color.RGBA{R: 54, G: 56, B: 64, A: 255}
	buttonOffFill = color.RGBA{R: 32, G: 34, B: 40, A: 255}
)

// HUD is the parameter panel drawn to the right of the terrain view. Each row
// steps one simulation parameter with its - and + buttons, or with the mouse
// wheel while the cursor is over the row.
type HUD struct {
	sim     core.Sim
	src     core.ParameterSource
	width   int
	title   string
	rows    []hudRow
	status  []string
	problem string
	offsetX int

	panel *ebiten.Image
	pixel *ebiten.Image
}

type hudRow struct {
	ctrl        core.ParameterControl
	value       string
	known       bool
	top         int
	minus, plus image.Rectangle
}

// NewHUD builds the panel for sim. Simulations that are not a
// core.ParameterSource get a title and status lines only.
func NewHUD(sim core.Sim, width int) *HUD {
	h := &HUD{sim: sim, width: max(width, 0), title: panelTitle(sim)}
	if h.width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	src, ok := sim.(core.ParameterSource)
	if !ok {
		return h
	}
	h.src = src
	for i, ctrl := range src.ParameterControls() {
		top := rowsTop + i*rowHeight
		by := top + (rowHeight-buttonSize)/2
		plus := image.Rect(h.width-panelPadding-buttonSize, by, h.width-panelPadding, by+buttonSize)
		minus := plus.Sub(image.Pt(buttonSize+buttonGap, 0))
		h.rows = append(h.rows, hudRow{ctrl: ctrl, value: "--", top: top, minus: minus, plus: plus})
	}
	return h
}

func panelTitle(sim core.Sim) string {
	if sim == nil || sim.Name() == "" {
		return "Controls"
	}
	name := sim.Name()
	return strings.ToUpper(name[:1]) + name[1:] + " controls"
}

// Update pulls current values from the simulation and applies any click or
// wheel edit. offsetX is the panel's left edge in screen pixels.
func (h *HUD) Update(offsetX int) {
	if h.src == nil {
		return
	}
	h.offsetX = offsetX
	snap := h.src.Parameters()
	for i := range h.rows {
		r := &h.rows[i]
		p, ok := snap.Lookup(r.ctrl.Key)
		r.known = ok
		r.value = "--"
		if ok {
			r.value = p.Value
		}
	}

	mx, my := ebiten.CursorPosition()
	x := mx - h.offsetX
	if x < 0 || x >= h.width {
		return
	}
	i, dir := h.hit(x, my)
	if i < 0 {
		return
	}
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && dir != 0:
		h.edit(&h.rows[i], dir)
	case dir == 0:
		if _, wy := ebiten.Wheel(); wy > 0 {
			h.edit(&h.rows[i], 1)
		} else if wy < 0 {
			h.edit(&h.rows[i], -1)
		}
	}
}

// hit finds the row under panel coordinates (x, y) and whether a button was
// hit: -1 minus, +1 plus, 0 elsewhere on the row.
func (h *HUD) hit(x, y int) (row, dir int) {
	p := image.Pt(x, y)
	for i, r := range h.rows {
		switch {
		case p.In(r.minus):
			return i, -1
		case p.In(r.plus):
			return i, 1
		case y >= r.top && y < r.top+rowHeight:
			return i, 0
		}
	}
	return -1, 0
}

func (h *HUD) edit(r *hudRow, dir int) {
	if !r.known {
		return
	}
	next, ok := r.ctrl.Nudge(r.value, dir)
	if !ok {
		return
	}
	if err := h.src.SetParameter(r.ctrl.Key, next); err != nil {
		h.problem = err.Error()
		return
	}
	h.problem = ""
	r.value = next
}

// SetStatus replaces the read-only lines at the foot of the panel.
func (h *HUD) SetStatus(lines []string) {
	h.status = append(h.status[:0], lines...)
}

// Draw paints the panel at offsetX. scale is the view's pixels per cell and
// sets the panel height.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, scale int) {
	if h.width <= 0 {
		return
	}
	height := h.sim.Size().H * max(scale, 1)
	if height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		if h.panel != nil {
			h.panel.Deallocate()
		}
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(panelColor)

	face := basicfont.Face7x13
	text.Draw(h.panel, h.title, face, panelPadding, panelPadding+titleBaseline, titleColor)
	if h.src == nil {
		text.Draw(h.panel, "No adjustable parameters", face, panelPadding, rowsTop+rowBaseline, mutedColor)
	}
	for _, r := range h.rows {
		h.drawRow(r)
	}

	y := height - panelPadding - (len(h.status)-1)*statusLineHeight
	if h.problem != "" {
		msg := h.problem
		if limit := (h.width - 2*panelPadding) / 7; limit > 3 && len(msg) > limit {
			msg = msg[:limit-3] + "..."
		}
		text.Draw(h.panel, msg, face, panelPadding, y-statusLineHeight, errorColor)
	}
	for _, line := range h.status {
		text.Draw(h.panel, line, face, panelPadding, y, statusColor)
		y += statusLineHeight
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawRow(r hudRow) {
	face := basicfont.Face7x13
	baseline := r.top + rowBaseline
	text.Draw(h.panel, r.ctrl.Label, face, panelPadding, baseline, labelColor)

	value, fg := r.ctrl.Format(r.value), labelColor
	if !r.known {
		fg = mutedColor
	}
	w := text.BoundString(face, value).Dx()
	text.Draw(h.panel, value, face, r.minus.Min.X-buttonGap-w, baseline, fg)

	_, down := r.ctrl.Nudge(r.value, -1)
	_, up := r.ctrl.Nudge(r.value, 1)
	h.drawButton(r.minus, "-", r.known && down)
	h.drawButton(r.plus, "+", r.known && up)
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	bg, fg := buttonColor, labelColor
	if !enabled {
		bg, fg = buttonOffFill, mutedColor
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	b := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-b.Dx())/2
	y := rect.Min.Y + (rect.Dy()-b.Dy())/2 + b.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}
