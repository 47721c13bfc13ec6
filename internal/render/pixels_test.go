package render

import (
	"image/color"
	"testing"
)

func TestFrameResizeReallocates(t *testing.T) {
	f := NewFrame(4, 4)
	if got := len(f.Bytes()); got != 64 {
		t.Fatalf("buffer length %d, want 64", got)
	}
	f.Resize(8, 2)
	if w, h := f.Size(); w != 8 || h != 2 {
		t.Fatalf("size = %dx%d", w, h)
	}
	if got := len(f.Bytes()); got != 64 {
		t.Fatalf("buffer length %d after resize", got)
	}
}

func TestDrawRingStaysOnCircle(t *testing.T) {
	f := NewFrame(32, 32)
	f.DrawRing(16, 16, 6, color.RGBA{R: 255, A: 255})
	buf := f.Bytes()
	if buf[(16*32+16)*4] != 0 {
		t.Fatal("ring filled its centre")
	}
	painted := 0
	for i := 0; i < len(buf); i += 4 {
		if buf[i] == 255 {
			painted++
		}
	}
	if painted < 16 {
		t.Fatalf("ring painted only %d pixels", painted)
	}
}

func TestDrawRingClipsOutsideFrame(t *testing.T) {
	f := NewFrame(4, 4)
	f.DrawRing(0, 0, 20, color.RGBA{G: 255, A: 255})
	for i := 1; i < len(f.Bytes()); i += 4 {
		if f.Bytes()[i] != 0 {
			t.Fatal("ring far outside the frame painted a pixel")
		}
	}
}

func TestTintPremultipliesCoverage(t *testing.T) {
	f := NewFrame(2, 1)
	f.Tint([]float32{0, 1}, color.RGBA{R: 200, G: 100, B: 0, A: 255})
	b := f.Bytes()
	if b[0] != 0 || b[3] != 0 {
		t.Fatalf("zero coverage pixel = %v", b[:4])
	}
	if b[4] != 200 || b[5] != 100 || b[7] != 255 {
		t.Fatalf("full coverage pixel = %v", b[4:8])
	}

	f.Tint([]float32{0.25, 2}, color.RGBA{R: 200, A: 128})
	if b[3] >= b[7] || b[0] > b[3] {
		t.Fatalf("partial coverage not premultiplied: %v", b)
	}
	f.Tint([]float32{1}, color.RGBA{A: 255})
	if b[7] == 0 {
		t.Fatal("mismatched mask must be ignored")
	}
}
