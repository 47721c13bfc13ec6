package app

import (
	"errors"
	"flag"
	"testing"

	"erode/internal/sims/erosion"
)

func TestConfigBindParsesFlags(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("erode", flag.ContinueOnError)
	cfg.Bind(fs)
	err := fs.Parse([]string{"-preset", "rugged", "-res", "128", "-seed", "9", "-set", "kc=0.2", "-set", "rain_enabled=true"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	sim, err := cfg.SimConfig()
	if err != nil {
		t.Fatalf("SimConfig: %v", err)
	}
	if sim.Resolution != 128 || sim.Seed != 9 {
		t.Fatalf("flags not applied: res %d seed %d", sim.Resolution, sim.Seed)
	}
	if sim.Kc != 0.2 || !sim.RainEnabled {
		t.Fatalf("overrides not applied: kc %v rain %v", sim.Kc, sim.RainEnabled)
	}
	if sim.SmoothingMode != erosion.RuggedPreset().SmoothingMode {
		t.Fatal("preset not used as the base")
	}
}

func TestSimConfigRejectsBadInput(t *testing.T) {
	cfg := NewConfig()
	cfg.Preset = "volcanic"
	if _, err := cfg.SimConfig(); err == nil {
		t.Fatal("unknown preset accepted")
	}

	cfg = NewConfig()
	cfg.Overrides = KVList{"kc"}
	if _, err := cfg.SimConfig(); err == nil {
		t.Fatal("override without '=' accepted")
	}

	cfg = NewConfig()
	cfg.Overrides = KVList{"pipe_area=-1"}
	if _, err := cfg.SimConfig(); !errors.Is(err, erosion.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestBrushParamsFlipRows(t *testing.T) {
	b := NewBrushState()
	p := b.Params(0, 0, 2, 100, true, false)
	if p.Position != [2]float32{0, 1} {
		t.Fatalf("top-left pixel maps to %v, want north-west corner", p.Position)
	}
	p = b.Params(100, 150, 2, 100, true, true)
	if p.Position != [2]float32{0.5, 0.25} {
		t.Fatalf("position = %v", p.Position)
	}
	if p.Sign != erosion.BrushSubtract {
		t.Fatal("right button must subtract")
	}
}

func TestBrushLimits(t *testing.T) {
	b := NewBrushState()
	for i := 0; i < 50; i++ {
		b.Grow(2)
		b.Strengthen(1)
	}
	if b.Radius != maxBrushRadius || b.Strength != maxBrushStrength {
		t.Fatalf("limits not enforced: r=%v s=%v", b.Radius, b.Strength)
	}
	b.ToggleChannel()
	if b.Channel != erosion.BrushWater {
		t.Fatal("toggle did not select water")
	}
}
