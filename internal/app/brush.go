package app

import "erode/internal/sims/erosion"

// BrushState holds the viewer's brush settings between frames.
type BrushState struct {
	Radius   float32
	Strength float32
	Channel  erosion.BrushChannel
}

const (
	minBrushRadius   = 0.005
	maxBrushRadius   = 0.5
	minBrushStrength = 0.01
	maxBrushStrength = 0.5
)

// NewBrushState returns the default brush.
func NewBrushState() BrushState {
	return BrushState{Radius: 0.05, Strength: 0.1, Channel: erosion.BrushHeight}
}

// Params converts a cursor position in screen pixels into brush parameters.
// The image shows north at the top, so the screen row is flipped.
func (b BrushState) Params(mx, my, scale, res int, active, subtract bool) erosion.BrushParams {
	if scale <= 0 {
		scale = 1
	}
	span := float32(res * scale)
	p := erosion.BrushParams{
		Active:   active,
		Position: [2]float32{float32(mx) / span, 1 - float32(my)/span},
		Radius:   b.Radius,
		Strength: b.Strength,
		Channel:  b.Channel,
		Sign:     erosion.BrushAdd,
	}
	if subtract {
		p.Sign = erosion.BrushSubtract
	}
	return p
}

// Grow scales the radius by factor within its limits.
func (b *BrushState) Grow(factor float32) {
	b.Radius = clampf(b.Radius*factor, minBrushRadius, maxBrushRadius)
}

// Strengthen adds delta to the strength within its limits.
func (b *BrushState) Strengthen(delta float32) {
	b.Strength = clampf(b.Strength+delta, minBrushStrength, maxBrushStrength)
}

// ToggleChannel switches between height and water.
func (b *BrushState) ToggleChannel() {
	if b.Channel == erosion.BrushHeight {
		b.Channel = erosion.BrushWater
		return
	}
	b.Channel = erosion.BrushHeight
}

func (b BrushState) channelName() string {
	if b.Channel == erosion.BrushWater {
		return "water"
	}
	return "height"
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
