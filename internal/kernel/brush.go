package kernel

import (
	"math"

	"erode/internal/core"
)

// BrushChannel selects the terrain channel a brush edits.
type BrushChannel int

const (
	BrushHeight BrushChannel = iota
	BrushWater
)

// BrushSign selects whether a brush adds or removes material.
type BrushSign int

const (
	BrushAdd BrushSign = iota
	BrushSubtract
)

// Brush describes one localized edit. Position and Radius are in normalized
// [0,1] grid coordinates.
type Brush struct {
	Active   bool
	Position [2]float32
	Radius   float32
	Strength float32
	Channel  BrushChannel
	Sign     BrushSign
}

const (
	brushHeightGain = 100
	brushWaterGain  = 50
)

// Weight returns the Gaussian falloff of the brush at normalized distance d.
// It is exactly zero at and beyond the radius.
func (b Brush) Weight(d float64) float64 {
	r := float64(b.Radius)
	if d >= r {
		return 0
	}
	return math.Exp(-d * d / (0.5 * r * r))
}

// Brush blends the edit into the selected terrain channel and clamps it at
// zero. An inactive brush copies terrain unchanged.
func (e *Executor) Brush(b Brush, terrain core.View, dst *core.Grid) {
	out := dst.Cells()
	ch, gain := 0, float32(brushHeightGain)
	if b.Channel == BrushWater {
		ch, gain = 1, brushWaterGain
	}
	amount := b.Strength * gain
	if b.Sign == BrushSubtract {
		amount = -amount
	}
	px, py := float64(b.Position[0]), float64(b.Position[1])
	e.run("brush", []*core.Grid{dst}, []core.View{terrain}, func(x, y, i int) {
		cur := terrain.Cell(i)
		if b.Active {
			u, v := uv(x, y, dst.W, dst.H)
			if w := b.Weight(math.Hypot(u-px, v-py)); w > 0 {
				cur[ch] = maxf(cur[ch]+amount*float32(w), 0)
			}
		}
		out[i] = cur
	})
}
