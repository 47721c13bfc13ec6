package kernel

import (
	"math"

	"erode/internal/core"
)

// FluxParams configures the virtual-pipe outflow kernel.
type FluxParams struct {
	PipeLength float32
	PipeArea   float32
	Timestep   float32
}

// Flux accelerates each cell's outflow along its four pipes by the hydraulic
// head difference to the neighbour. Outflow is non-negative, rescaled by a
// common factor so a cell never drains more water than it holds, and zero
// towards off-grid neighbours.
func (e *Executor) Flux(p FluxParams, terrain, flux core.View, dst *core.Grid) {
	out := dst.Cells()
	l := p.PipeLength
	accel := p.Timestep * Gravity * p.PipeArea / l
	e.run("flux", []*core.Grid{dst}, []core.View{terrain, flux}, func(x, y, i int) {
		cur := terrain.Cell(i)
		head := cur[0] + cur[1]
		prev := flux.Cell(i)
		var f core.Vec4
		for d, off := range offsets {
			nx, ny := x+off[0], y+off[1]
			if !dst.Inside(nx, ny) {
				continue
			}
			n := terrain.At(nx, ny)
			f[d] = maxf(0, prev[d]+accel*(head-(n[0]+n[1])))
		}
		drain := p.Timestep * sum4(f)
		if drain > 0 {
			k := minf(1, cur[1]*l*l/drain)
			for d := range f {
				f[d] *= k
			}
		}
		out[i] = f
	})
}

// WaterParams configures the water depth and velocity update.
type WaterParams struct {
	PipeLength         float32
	Timestep           float32
	VelocityMultiplier float32
	AdvectionMag       float32
}

const (
	minMeanDepth     = 1e-4
	minVelocityDepth = 0.01
)

// Water integrates the flux balance into water depth and derives the flow
// velocity, blended with the previous velocity traced back along the flow.
// It writes terrain and velocity.
func (e *Executor) Water(p WaterParams, terrain, flux, velocity core.View, dstTerrain, dstVelocity *core.Grid) {
	outT := dstTerrain.Cells()
	outV := dstVelocity.Cells()
	area := p.PipeLength * p.PipeLength
	srcs := []core.View{terrain, flux, velocity}
	e.run("water", []*core.Grid{dstTerrain, dstVelocity}, srcs, func(x, y, i int) {
		cur := terrain.Cell(i)
		fo := flux.Cell(i)
		fi := inflow(flux, x, y)

		delta := p.Timestep * (sum4(fi) - sum4(fo)) / area
		d1 := cur[1]
		d2 := maxf(d1+delta, 0)
		mean := (d1 + d2) / 2

		vx := (fi[West] - fo[West] + fo[East] - fi[East]) / 2
		vy := (fi[South] - fo[South] + fo[North] - fi[North]) / 2
		if mean <= minMeanDepth {
			vx, vy = 0, 0
		} else {
			vx /= mean * p.PipeLength
			vy /= mean * p.PipeLength
		}

		prev := velocity.Cell(i)
		cx, cy := centre(x, y)
		half := 0.5 * float64(p.Timestep)
		px := cx - float64(prev[0])*half
		py := cy - float64(prev[1])*half
		vx += velocity.Sample(px, py, 0) * p.AdvectionMag
		vy += velocity.Sample(px, py, 1) * p.AdvectionMag

		if d1 < minVelocityDepth || !finite(vx) || !finite(vy) {
			vx, vy = 0, 0
		}

		outT[i] = core.Vec4{cur[0], d2, cur[2], cur[3]}
		outV[i] = core.Vec4{vx * p.VelocityMultiplier, vy * p.VelocityMultiplier, 0, 0}
	})
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
