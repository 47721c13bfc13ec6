package kernel

import (
	"fmt"

	"erode/internal/core"
)

// SmoothMode selects how the sharpness threshold of Smooth is derived.
type SmoothMode int

const (
	// SmoothPlain uses a fixed threshold.
	SmoothPlain SmoothMode = iota
	// SmoothRidge keeps plains flat and ridges sharp.
	SmoothRidge
	// SmoothPolygonal produces faceted terrain.
	SmoothPolygonal
)

var smoothModeNames = [...]string{"plain", "ridge", "polygonal"}

func (m SmoothMode) String() string {
	if m < 0 || int(m) >= len(smoothModeNames) {
		return fmt.Sprintf("SmoothMode(%d)", int(m))
	}
	return smoothModeNames[m]
}

// SmoothModeNames lists the modes in value order.
func SmoothModeNames() []string { return append([]string(nil), smoothModeNames[:]...) }

const (
	diagonalWeight  = 0.707
	centreWeight    = 8
	plainThreshold  = 0.1
	ridgeThreshold  = 0.5
	smoothNeighbors = 4 * (1 + diagonalWeight)
)

// Smooth flattens spikes and pits. A cell is averaged with its 8 neighbours
// when, along any opposing neighbour pair, both height differences exceed
// the threshold and share a sign.
func (e *Executor) Smooth(mode SmoothMode, terrain core.View, dst *core.Grid) {
	out := dst.Cells()
	e.run("smooth", []*core.Grid{dst}, []core.View{terrain}, func(x, y, i int) {
		cur := terrain.Cell(i)
		h := cur[0]
		n := terrain.At(x, y+1)[0]
		s := terrain.At(x, y-1)[0]
		east := terrain.At(x+1, y)[0]
		west := terrain.At(x-1, y)[0]
		ne := terrain.At(x+1, y+1)[0]
		se := terrain.At(x+1, y-1)[0]
		sw := terrain.At(x-1, y-1)[0]
		nw := terrain.At(x-1, y+1)[0]

		dN, dS, dE, dW := h-n, h-s, h-east, h-west
		dNE, dSE, dSW, dNW := h-ne, h-se, h-sw, h-nw

		threshold := float32(plainThreshold)
		if mode != SmoothPlain {
			avg := (dN + dS + dE + dW + (dNE+dSE+dSW+dNW)*diagonalWeight) / smoothNeighbors
			if avg < 0 {
				avg = -avg
			}
			if mode == SmoothRidge {
				threshold = avg * ridgeThreshold
			} else {
				threshold = avg * avg * avg
			}
		}

		if sharp(dE, dW, threshold) || sharp(dN, dS, threshold) ||
			sharp(dNE, dSW, threshold) || sharp(dNW, dSE, threshold) {
			straight := n + s + east + west
			diagonal := (ne + se + sw + nw) * diagonalWeight
			cur[0] = (h*centreWeight + straight + diagonal) / (smoothNeighbors + centreWeight)
		}
		out[i] = cur
	})
}

func sharp(a, b, threshold float32) bool {
	return abs32(a) > threshold && abs32(b) > threshold && a*b > 0
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
