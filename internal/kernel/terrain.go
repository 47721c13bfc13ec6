package kernel

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"erode/internal/core"
)

// TerrainParams shapes the generated initial terrain.
type TerrainParams struct {
	Scale  float64
	Height float64
	Mask   bool
}

const (
	terrainOctaves     = 12
	terrainPersistence = 0.47
	terrainHeightUnit  = 120
	terrainContrast    = 1.1
	rainOctaves        = 6
	rainPersistence    = 0.53
	rainGain           = 0.1
)

// fbm sums octaves of normalized noise, doubling the frequency and scaling
// the amplitude by persistence at each octave.
func fbm(noise opensimplex.Noise, x, y float64, octaves int, persistence float64) float64 {
	value := 0.0
	amp := 0.5
	for o := 0; o < octaves; o++ {
		value += amp * noise.Eval2(x, y)
		x *= 2
		y *= 2
		amp *= persistence
	}
	return value
}

// uv returns the normalized coordinate of the centre of cell (x, y).
func uv(x, y, w, h int) (float64, float64) {
	return (float64(x) + 0.5) / float64(w), (float64(y) + 0.5) / float64(h)
}

// InitialTerrain fills dst with fractal height and zero water. The noise is
// cubed so lowlands stay flat while peaks sharpen; with Mask set the height
// falls to zero outside a centred disk.
func (e *Executor) InitialTerrain(p TerrainParams, noise opensimplex.Noise, dst *core.Grid) {
	out := dst.Cells()
	e.run("initial-terrain", []*core.Grid{dst}, nil, func(x, y, i int) {
		u, v := uv(x, y, dst.W, dst.H)
		px := 2 * (1.5*u*p.Scale + 2.1)
		py := 2 * (1.5*v*p.Scale + 4.6)
		h := fbm(noise, px, py, terrainOctaves, terrainPersistence) * terrainContrast
		h = h * h * h * p.Height * terrainHeightUnit
		if p.Mask {
			h *= 2 * math.Max(0.5-math.Hypot(u-0.5, v-0.5), 0)
		}
		out[i] = core.Vec4{float32(h), 0, 0, 0}
	})
}

// RainParams configures the rain kernel. Time animates the rainfall pattern.
type RainParams struct {
	Degree float64
	Time   float64
}

// Rain adds spatially varying rainfall to the water depth.
func (e *Executor) Rain(p RainParams, noise opensimplex.Noise, terrain core.View, dst *core.Grid) {
	out := dst.Cells()
	ox := math.Sin(p.Time * 5)
	oy := math.Cos(p.Time * 15)
	e.run("rain", []*core.Grid{dst}, []core.View{terrain}, func(x, y, i int) {
		u, v := uv(x, y, dst.W, dst.H)
		rain := fbm(noise, u+ox, v+oy, rainOctaves, rainPersistence) * p.Degree * rainGain
		cur := terrain.Cell(i)
		cur[1] = maxf(cur[1]+float32(rain), 0)
		out[i] = cur
	})
}

// Evaporate removes the fraction k of every cell's water.
func (e *Executor) Evaporate(k float32, terrain core.View, dst *core.Grid) {
	out := dst.Cells()
	keep := 1 - k
	e.run("evaporate", []*core.Grid{dst}, []core.View{terrain}, func(x, y, i int) {
		cur := terrain.Cell(i)
		cur[1] = maxf(cur[1]*keep, 0)
		out[i] = cur
	})
}

// Normals writes the unit surface normal of the height channel.
func (e *Executor) Normals(terrain core.View, dst *core.Grid) {
	out := dst.Cells()
	e.run("normals", []*core.Grid{dst}, []core.View{terrain}, func(x, y, i int) {
		nx, ny, nz := surfaceNormal(terrain, x, y)
		out[i] = core.Vec4{float32(nx), float32(ny), float32(nz), 0}
	})
}
