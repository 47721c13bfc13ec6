package erosion

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Stats summarizes the current front buffers.
type Stats struct {
	Frame       uint64
	WaterVolume float64
	HeightSum   float64
	SedimentSum float64
	MaxDepth    float64
	MaxHeight   float64
	MinHeight   float64
	MaxSpeed    float64
}

// Stats computes totals and extrema over the whole grid.
func (e *Engine) Stats() Stats {
	st := Stats{Frame: e.frame}

	terrain := e.store.Read(Terrain)
	e.statsScratch = terrain.Channel(1, e.statsScratch)
	st.WaterVolume = floats.Sum(e.statsScratch)
	st.MaxDepth = floats.Max(e.statsScratch)

	e.statsScratch = terrain.Channel(0, e.statsScratch)
	st.HeightSum = floats.Sum(e.statsScratch)
	st.MaxHeight = floats.Max(e.statsScratch)
	st.MinHeight = floats.Min(e.statsScratch)

	e.statsScratch = e.store.Read(Sediment).Channel(0, e.statsScratch)
	st.SedimentSum = floats.Sum(e.statsScratch)

	velocity := e.store.Read(Velocity)
	e.statsScratch = velocity.Channel(0, e.statsScratch)
	e.speedScratch = velocity.Channel(1, e.speedScratch)
	for i, vx := range e.statsScratch {
		e.speedScratch[i] = math.Hypot(vx, e.speedScratch[i])
	}
	st.MaxSpeed = floats.Max(e.speedScratch)
	return st
}
