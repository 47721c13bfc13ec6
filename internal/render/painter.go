//go:build ebiten

package render

import "github.com/hajimehoshi/ebiten/v2"

// Painter uploads a Frame into a GPU image and draws it scaled.
type Painter struct {
	w, h int
	img  *ebiten.Image
}

// NewPainter allocates a painter for a w×h frame.
func NewPainter(w, h int) *Painter {
	return &Painter{w: w, h: h, img: ebiten.NewImage(w, h)}
}

// Blit uploads the frame pixels and draws them onto dst. The image is
// reallocated when the frame size changes.
func (p *Painter) Blit(dst *ebiten.Image, f *Frame, scale int) {
	w, h := f.Size()
	if w == 0 || h == 0 {
		return
	}
	if w != p.w || h != p.h {
		p.img.Deallocate()
		p.w, p.h = w, h
		p.img = ebiten.NewImage(w, h)
	}
	p.img.WritePixels(f.Bytes())

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(p.img, op)
}
