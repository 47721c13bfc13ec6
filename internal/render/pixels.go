package render

import (
	"image/color"
	"math"
)

// Frame is an RGBA pixel buffer matching a square simulation grid.
type Frame struct {
	w, h int
	buf  []byte
}

// NewFrame allocates a w×h frame.
func NewFrame(w, h int) *Frame {
	f := &Frame{}
	f.Resize(w, h)
	return f
}

// Resize reallocates the buffer when the dimensions change.
func (f *Frame) Resize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	if f.w == w && f.h == h && f.buf != nil {
		return
	}
	f.w, f.h = w, h
	f.buf = make([]byte, 4*w*h)
}

// Size returns the frame dimensions.
func (f *Frame) Size() (int, int) { return f.w, f.h }

// Bytes exposes the RGBA pixels, row 0 first.
func (f *Frame) Bytes() []byte { return f.buf }

// Clear sets every pixel to transparent black.
func (f *Frame) Clear() {
	for i := range f.buf {
		f.buf[i] = 0
	}
}

// DrawRing blends a one-pixel circle outline centred at (cx, cy) with the
// given radius, all in pixel units.
func (f *Frame) DrawRing(cx, cy, radius float64, col color.RGBA) {
	if radius <= 0 || f.w == 0 || f.h == 0 {
		return
	}
	steps := int(math.Ceil(2 * math.Pi * radius))
	if steps < 8 {
		steps = 8
	}
	for s := 0; s < steps; s++ {
		a := 2 * math.Pi * float64(s) / float64(steps)
		x := int(math.Floor(cx + radius*math.Cos(a)))
		y := int(math.Floor(cy + radius*math.Sin(a)))
		f.blend(x, y, col)
	}
}

func (f *Frame) blend(x, y int, col color.RGBA) {
	if x < 0 || y < 0 || x >= f.w || y >= f.h {
		return
	}
	base := (y*f.w + x) * 4
	alpha := float64(col.A) / 255
	mix := func(dst, src uint8) uint8 {
		return uint8(math.Round(float64(dst)*(1-alpha) + float64(src)*alpha))
	}
	f.buf[base+0] = mix(f.buf[base+0], col.R)
	f.buf[base+1] = mix(f.buf[base+1], col.G)
	f.buf[base+2] = mix(f.buf[base+2], col.B)
	f.buf[base+3] = 255
}

// Tint fills the frame with premultiplied col, using mask[i] in [0,1] as the
// coverage of pixel i. Zero coverage leaves the pixel transparent. A mask
// whose length does not match the frame is ignored.
func (f *Frame) Tint(mask []float32, col color.RGBA) {
	if len(mask) != f.w*f.h {
		return
	}
	for i, m := range mask {
		p := f.buf[i*4 : i*4+4]
		c := math.Max(0, math.Min(1, float64(m)))
		if c == 0 {
			p[0], p[1], p[2], p[3] = 0, 0, 0, 0
			continue
		}
		// a square-root ramp keeps thin sediment visible
		a := float64(col.A) / 255 * math.Sqrt(c)
		p[0] = uint8(math.Round(float64(col.R) * a))
		p[1] = uint8(math.Round(float64(col.G) * a))
		p[2] = uint8(math.Round(float64(col.B) * a))
		p[3] = uint8(math.Round(255 * a))
	}
}
