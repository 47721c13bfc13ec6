package core

// View is a read-only window onto a Grid. Kernels receive their inputs as
// Views so that only destination grids can be written.
type View struct {
	g *Grid
}

// ViewOf wraps g in a read-only View.
func ViewOf(g *Grid) View { return View{g: g} }

// Width reports the number of columns.
func (v View) Width() int { return v.g.W }

// Height reports the number of rows.
func (v View) Height() int { return v.g.H }

// At returns the cell at (x, y) with clamp-to-edge addressing.
func (v View) At(x, y int) Vec4 { return v.g.At(x, y) }

// Cell returns the cell at linear index i.
func (v View) Cell(i int) Vec4 { return v.g.data[i] }

// Neighbor returns the cell at (x, y) or the zero value when (x, y) is off
// the grid.
func (v View) Neighbor(x, y int) Vec4 {
	if !v.g.Inside(x, y) {
		return Vec4{}
	}
	return v.g.data[y*v.g.W+x]
}

// Sample bilinearly interpolates channel ch at cell-space position (px, py).
func (v View) Sample(px, py float64, ch int) float32 { return v.g.Sample(px, py, ch) }

// Corners returns the four nodes surrounding (px, py); see Grid.Corners.
func (v View) Corners(px, py float64, ch int) [4]float32 {
	c, _, _ := v.g.Corners(px, py, ch)
	return c
}

// Channel copies channel ch of every cell into dst, growing it if needed.
func (v View) Channel(ch int, dst []float64) []float64 {
	if cap(dst) < len(v.g.data) {
		dst = make([]float64, len(v.g.data))
	}
	dst = dst[:len(v.g.data)]
	for i, c := range v.g.data {
		dst[i] = float64(c[ch])
	}
	return dst
}

// Snapshot returns a copy of all cells.
func (v View) Snapshot() []Vec4 {
	return append([]Vec4(nil), v.g.data...)
}

// Same reports whether v and g refer to the same storage.
func (v View) Same(g *Grid) bool { return v.g == g }
