package core

import "math"

// Vec4 is one four-channel cell value.
type Vec4 [4]float32

// Grid stores a 2D grid of four-channel cells in row-major order.
type Grid struct {
	W, H int
	data []Vec4
}

// NewGrid allocates a grid with the given dimensions.
func NewGrid(w, h int) *Grid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Grid{W: w, H: h, data: make([]Vec4, w*h)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *Grid) Cells() []Vec4 { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid) Index(x, y int) int { return y*g.W + x }

// Clamp pins the provided coordinates to the nearest edge cell.
func (g *Grid) Clamp(x, y int) (int, int) {
	if x < 0 {
		x = 0
	} else if x >= g.W {
		x = g.W - 1
	}
	if y < 0 {
		y = 0
	} else if y >= g.H {
		y = g.H - 1
	}
	return x, y
}

// Inside reports whether (x, y) lies on the grid.
func (g *Grid) Inside(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

// At returns the cell at (x, y), clamping out-of-range coordinates to the edge.
func (g *Grid) At(x, y int) Vec4 {
	x, y = g.Clamp(x, y)
	return g.data[y*g.W+x]
}

// Set stores v at (x, y). Coordinates must be on the grid.
func (g *Grid) Set(x, y int, v Vec4) { g.data[y*g.W+x] = v }

// Clear fills the grid with zeros.
func (g *Grid) Clear() {
	for i := range g.data {
		g.data[i] = Vec4{}
	}
}

// CopyFrom copies the contents of src, which must have the same dimensions.
func (g *Grid) CopyFrom(src *Grid) {
	copy(g.data, src.data)
}

// Corners returns the channel ch of the four cells whose centres surround the
// cell-space position (px, py), where cell (x, y) has its centre at
// (x+0.5, y+0.5). The order is (x0,y0), (x1,y0), (x0,y1), (x1,y1).
func (g *Grid) Corners(px, py float64, ch int) (vals [4]float32, tx, ty float64) {
	fx := px - 0.5
	fy := py - 0.5
	x0f := math.Floor(fx)
	y0f := math.Floor(fy)
	tx = fx - x0f
	ty = fy - y0f
	x0, y0 := int(x0f), int(y0f)
	vals[0] = g.At(x0, y0)[ch]
	vals[1] = g.At(x0+1, y0)[ch]
	vals[2] = g.At(x0, y0+1)[ch]
	vals[3] = g.At(x0+1, y0+1)[ch]
	return vals, tx, ty
}

// Sample bilinearly interpolates channel ch at the cell-space position
// (px, py) using clamp-to-edge addressing.
func (g *Grid) Sample(px, py float64, ch int) float32 {
	c, tx, ty := g.Corners(px, py, ch)
	a := float64(c[0])*(1-tx) + float64(c[1])*tx
	b := float64(c[2])*(1-tx) + float64(c[3])*tx
	return float32(a*(1-ty) + b*ty)
}
