package kernel

import (
	"math"

	"erode/internal/core"
)

// ErosionParams holds the sediment capacity, dissolving and deposition
// constants.
type ErosionParams struct {
	Kc float32
	Ks float32
	Kd float32
}

// Active reports whether any constant would move material.
func (p ErosionParams) Active() bool {
	return p.Kc != 0 || p.Ks != 0 || p.Kd != 0
}

const minCapacitySlope = 0.1

// Erode exchanges material between terrain height and suspended sediment.
// The transport capacity grows with local slope and flow speed; cells below
// capacity dissolve ground, cells above it deposit the excess. It writes
// terrain (z holds the new sediment value) and sediment.
func (e *Executor) Erode(p ErosionParams, terrain, velocity, sediment core.View, dstTerrain, dstSediment *core.Grid) {
	outT := dstTerrain.Cells()
	outS := dstSediment.Cells()
	srcs := []core.View{terrain, velocity, sediment}
	e.run("erode", []*core.Grid{dstTerrain, dstSediment}, srcs, func(x, y, i int) {
		_, ny, _ := surfaceNormal(terrain, x, y)
		slope := math.Sqrt(math.Max(0, 1-ny*ny))
		if slope < minCapacitySlope {
			slope = minCapacitySlope
		}
		vel := velocity.Cell(i)
		speed := math.Hypot(float64(vel[0]), float64(vel[1]))
		capacity := float32(float64(p.Kc) * slope * speed)

		cur := terrain.Cell(i)
		height := cur[0]
		sed := sediment.Cell(i)[0]
		if capacity > sed {
			change := (capacity - sed) * p.Ks
			height -= change
			sed += change
		} else {
			change := (sed - capacity) * p.Kd
			height += change
			sed -= change
		}
		outT[i] = core.Vec4{height, cur[1], sed, cur[3]}
		outS[i] = core.Vec4{sed, 0, 0, 0}
	})
}

// AdvectParams configures a semi-Lagrangian trace. Multiplier +1 samples
// upstream of the cell, -1 samples downstream.
type AdvectParams struct {
	Timestep   float32
	Multiplier float32
}

const (
	blendHistory = 1660
	blendGain    = 0.1
)

// Trace returns the cell-space source position for cell (x, y) given its
// velocity.
func (p AdvectParams) Trace(x, y int, vel core.Vec4) (float64, float64) {
	cx, cy := centre(x, y)
	s := 0.5 * float64(p.Timestep) * float64(p.Multiplier)
	return cx - float64(vel[0])*s, cy - float64(vel[1])*s
}

// ClampSource returns the position a full timestep upstream of cell (x, y),
// around which Correct bounds its result.
func (p AdvectParams) ClampSource(x, y int, vel core.Vec4) (float64, float64) {
	cx, cy := centre(x, y)
	dt := float64(p.Timestep)
	return cx - float64(vel[0])*dt, cy - float64(vel[1])*dt
}

// Advect moves sediment and velocity along the velocity field and refreshes
// the time-decayed sediment trace used for display.
func (e *Executor) Advect(p AdvectParams, velocity, sediment, blend, terrain core.View, dstSediment, dstVelocity, dstBlend *core.Grid) {
	outS := dstSediment.Cells()
	outV := dstVelocity.Cells()
	outB := dstBlend.Cells()
	dst := []*core.Grid{dstSediment, dstVelocity, dstBlend}
	srcs := []core.View{velocity, sediment, blend, terrain}
	e.run("advect", dst, srcs, func(x, y, i int) {
		vel := velocity.Cell(i)
		px, py := p.Trace(x, y, vel)

		outS[i] = core.Vec4{sediment.Sample(px, py, 0), 0, 0, 0}
		outV[i] = core.Vec4{velocity.Sample(px, py, 0), velocity.Sample(px, py, 1), 0, 0}

		trace := sediment.Cell(i)[0] * terrain.Cell(i)[1] * blendGain
		prev := blend.Cell(i)[0]
		outB[i] = core.Vec4{(prev*blendHistory + trace) / (blendHistory + 1), 0, 0, 0}
	})
}

// AdvectScalar resamples channel 0 of src along the velocity trace.
func (e *Executor) AdvectScalar(p AdvectParams, velocity, src core.View, dst *core.Grid) {
	out := dst.Cells()
	e.run("advect-scalar", []*core.Grid{dst}, []core.View{velocity, src}, func(x, y, i int) {
		px, py := p.Trace(x, y, velocity.Cell(i))
		out[i] = core.Vec4{src.Sample(px, py, 0), 0, 0, 0}
	})
}

// Correct combines the forward and backward MacCormack passes,
// value = forward + (source - backward)/2, and clamps the result to the
// range of the four nodes around ClampSource so no new extrema appear.
func (e *Executor) Correct(p AdvectParams, velocity, sediment, forward, backward core.View, dst *core.Grid) {
	out := dst.Cells()
	srcs := []core.View{velocity, sediment, forward, backward}
	e.run("correct", []*core.Grid{dst}, srcs, func(x, y, i int) {
		px, py := p.ClampSource(x, y, velocity.Cell(i))
		nodes := sediment.Corners(px, py, 0)
		lo, hi := nodes[0], nodes[0]
		for _, n := range nodes[1:] {
			lo = minf(lo, n)
			hi = maxf(hi, n)
		}
		res := forward.Cell(i)[0] + 0.5*(sediment.Cell(i)[0]-backward.Cell(i)[0])
		if !finite(res) {
			res = forward.Cell(i)[0]
		}
		out[i] = core.Vec4{maxf(minf(res, hi), lo), 0, 0, 0}
	})
}
