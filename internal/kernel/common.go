package kernel

import (
	"math"

	"erode/internal/core"
)

// Channel indices of four-directional fields.
const (
	North = 0 // towards y+1
	East  = 1 // towards x+1
	South = 2 // towards y-1
	West  = 3 // towards x-1
)

// Gravity is the acceleration used by the virtual-pipe model.
const Gravity = 0.8

// offsets lists the neighbour step for each direction channel.
var offsets = [4][2]int{
	North: {0, 1},
	East:  {1, 0},
	South: {0, -1},
	West:  {-1, 0},
}

// opposite maps a direction to the direction pointing back at the cell.
var opposite = [4]int{North: South, East: West, South: North, West: East}

// centre returns the cell-space position of the centre of cell (x, y).
func centre(x, y int) (float64, float64) {
	return float64(x) + 0.5, float64(y) + 0.5
}

// inflow gathers, per direction, the outflow each neighbour sends towards
// (x, y). Off-grid neighbours contribute nothing.
func inflow(v core.View, x, y int) core.Vec4 {
	var in core.Vec4
	for d, off := range offsets {
		in[d] = v.Neighbor(x+off[0], y+off[1])[opposite[d]]
	}
	return in
}

func sum4(v core.Vec4) float32 { return v[0] + v[1] + v[2] + v[3] }

// surfaceNormal derives the normal of the height channel at (x, y) from
// central differences with clamp-to-edge addressing.
func surfaceNormal(terrain core.View, x, y int) (nx, ny, nz float64) {
	hE := float64(terrain.At(x+1, y)[0])
	hW := float64(terrain.At(x-1, y)[0])
	hN := float64(terrain.At(x, y+1)[0])
	hS := float64(terrain.At(x, y-1)[0])
	nx, ny, nz = hW-hE, 2, hS-hN
	l := math.Sqrt(nx*nx + ny*ny + nz*nz)
	return nx / l, ny / l, nz / l
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
