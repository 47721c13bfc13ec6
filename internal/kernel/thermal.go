package kernel

import "erode/internal/core"

// ThermalParams configures the talus relaxation kernels.
type ThermalParams struct {
	TalusScale float32
	Rate       float32
	Scale      float32
	Timestep   float32
}

// Active reports whether thermal relaxation moves any material.
func (p ThermalParams) Active() bool { return p.Rate != 0 && p.Scale != 0 }

const (
	thermalFlowGain   = 1.2
	thermalMaxStep    = 50
	thermalMinOutflow = 1e-5
	ridgeSensitivity  = 10
	ridgeTolerance    = 0.01
)

// MaxSlippage computes the height difference a cell tolerates before
// material slides. The talus limit shrinks where the cell sits well above or
// below its 4-neighbour mean, which marks a ridge or a valley floor.
func (e *Executor) MaxSlippage(p ThermalParams, terrain core.View, dst *core.Grid) {
	out := dst.Cells()
	talus := p.TalusScale
	e.run("max-slippage", []*core.Grid{dst}, []core.View{terrain}, func(x, y, i int) {
		h := terrain.Cell(i)[0]
		var avg float32
		for _, off := range offsets {
			avg += terrain.At(x+off[0], y+off[1])[0]
		}
		diff := avg*0.25 - h
		if diff < 0 {
			diff = -diff
		}
		reduce := ridgeSensitivity * maxf(diff-talus*ridgeTolerance, 0)
		out[i] = core.Vec4{maxf(talus-reduce, 0), 0, 0, 0}
	})
}

// ThermalFlux computes the material each cell sheds towards each lower
// neighbour beyond the pair's mean slippage limit. A cell never sheds more
// than its own height within one timestep.
func (e *Executor) ThermalFlux(p ThermalParams, terrain, slippage core.View, dst *core.Grid) {
	out := dst.Cells()
	gain := thermalFlowGain * p.Rate
	e.run("thermal-flux", []*core.Grid{dst}, []core.View{terrain, slippage}, func(x, y, i int) {
		h := terrain.Cell(i)[0]
		m := slippage.Cell(i)[0]
		var f core.Vec4
		for d, off := range offsets {
			nx, ny := x+off[0], y+off[1]
			if !dst.Inside(nx, ny) {
				continue
			}
			diff := h - terrain.At(nx, ny)[0] - (m+slippage.At(nx, ny)[0])*0.5
			f[d] = maxf(diff, 0) * gain
		}
		total := sum4(f) * p.Timestep
		if total > thermalMinOutflow {
			k := minf(maxf(h, 0)/total, 1)
			for d := range f {
				f[d] *= k
			}
		}
		out[i] = f
	})
}

// ThermalApply moves the material computed by ThermalFlux between cells.
func (e *Executor) ThermalApply(p ThermalParams, terrain, terrainFlux core.View, dst *core.Grid) {
	out := dst.Cells()
	step := minf(thermalMaxStep, p.Timestep*p.Scale)
	e.run("thermal-apply", []*core.Grid{dst}, []core.View{terrain, terrainFlux}, func(x, y, i int) {
		vol := sum4(inflow(terrainFlux, x, y)) - sum4(terrainFlux.Cell(i))
		cur := terrain.Cell(i)
		cur[0] += step * vol
		out[i] = cur
	})
}
