package erosion

import "erode/internal/core"

// Field names of the erosion catalogue.
const (
	Terrain         = "terrain"
	Flux            = "flux"
	Velocity        = "velocity"
	Sediment        = "sediment"
	SedimentBlend   = "sedimentBlend"
	TerrainFlux     = "terrainFlux"
	MaxSlippage     = "maxSlippage"
	TerrainNormal   = "terrainNormal"
	SedimentAdvectA = "sedimentAdvectA"
	SedimentAdvectB = "sedimentAdvectB"
)

// Fields declares the catalogue allocated by every engine.
func Fields() []core.FieldSpec {
	return []core.FieldSpec{
		{Name: Terrain, Buffering: core.DoubleBuffered},
		{Name: Flux, Buffering: core.DoubleBuffered},
		{Name: Velocity, Buffering: core.DoubleBuffered},
		{Name: Sediment, Buffering: core.DoubleBuffered},
		{Name: SedimentBlend, Buffering: core.DoubleBuffered},
		{Name: TerrainFlux, Buffering: core.DoubleBuffered},
		{Name: MaxSlippage, Buffering: core.DoubleBuffered},
		{Name: TerrainNormal, Buffering: core.SingleBuffered},
		{Name: SedimentAdvectA, Buffering: core.SingleBuffered},
		{Name: SedimentAdvectB, Buffering: core.SingleBuffered},
	}
}
