package erosion

import (
	"errors"
	"math"
	"slices"
	"testing"

	"gonum.org/v1/gonum/floats"

	"erode/internal/core"
)

func testConfig(res int) Config {
	cfg := DefaultConfig()
	cfg.Resolution = res
	cfg.Speed = 1
	cfg.Workers = 2
	return cfg
}

func mustEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := NewWithConfig(cfg)
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	return e
}

func channelTotal(v core.View, ch int) float64 {
	return floats.Sum(v.Channel(ch, nil))
}

func TestBootstrapFillsBothBuffers(t *testing.T) {
	cfg := testConfig(32)
	cfg.Speed = 3
	e := mustEngine(t, cfg)

	e.Advance(0.016, true)
	if !e.Initialized() {
		t.Fatal("bootstrap must run even while paused")
	}
	if e.Frame() != 0 {
		t.Fatalf("paused advance ran %d steps", e.Frame())
	}
	front := e.store.Read(Terrain).Snapshot()
	back := e.store.Write(Terrain).Cells()
	if !slices.Equal(front, back) {
		t.Fatal("terrain buffers differ after bootstrap")
	}
	nonZero := false
	for _, c := range front {
		if c[0] != 0 {
			nonZero = true
		}
		if c[1] != 0 {
			t.Fatalf("bootstrap left water %v", c[1])
		}
	}
	if !nonZero {
		t.Fatal("bootstrap produced flat terrain")
	}
}

func TestAdvanceCountsBootstrapAsStep(t *testing.T) {
	cfg := testConfig(16)
	cfg.Speed = 3
	e := mustEngine(t, cfg)

	e.Advance(0.016, false)
	if got := e.Frame(); got != 2 {
		t.Fatalf("first frame ran %d steps, want 2", got)
	}
	e.Advance(0.016, false)
	if got := e.Frame(); got != 5 {
		t.Fatalf("second frame reached step %d, want 5", got)
	}
	e.Advance(0.016, true)
	if got := e.Frame(); got != 5 {
		t.Fatalf("paused frame advanced to %d", got)
	}
}

func TestResizeMatchesFreshEngine(t *testing.T) {
	e := mustEngine(t, testConfig(32))
	e.Advance(0, false)
	for i := 0; i < 3; i++ {
		e.Step()
	}

	next := e.Config()
	next.Resolution = 64
	if err := e.UpdateConfig(next); err != nil {
		t.Fatalf("UpdateConfig: %v", err)
	}
	if e.Initialized() {
		t.Fatal("resolution change must schedule a bootstrap")
	}
	e.Advance(0, false)

	fresh := mustEngine(t, testConfig(64))
	fresh.Advance(0, false)

	if size := e.Size(); size.W != 64 || size.H != 64 {
		t.Fatalf("size after resize = %v", size)
	}
	for _, name := range e.store.Names() {
		if w := e.Field(name).Width(); w != 64 {
			t.Fatalf("field %s has width %d after resize", name, w)
		}
	}
	if !slices.Equal(e.Field(Terrain).Snapshot(), fresh.Field(Terrain).Snapshot()) {
		t.Fatal("resized terrain differs from a fresh bootstrap")
	}
	if !slices.Equal(e.Field(Sediment).Snapshot(), fresh.Field(Sediment).Snapshot()) {
		t.Fatal("sediment not reset by resize")
	}
}

func TestUpdateConfigRejectsInvalid(t *testing.T) {
	e := mustEngine(t, testConfig(16))
	prev := e.Config()

	bad := prev
	bad.Resolution = 0
	bad.Timestep = -1
	err := e.UpdateConfig(bad)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if e.Config() != prev {
		t.Fatal("rejected config must leave the previous one in place")
	}

	if err := e.ApplyOverrides(map[string]string{"no_such_key": "1"}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("unknown key: expected ErrInvalidConfig, got %v", err)
	}
	if err := e.ApplyOverrides(map[string]string{"kc": "abc"}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("bad float: expected ErrInvalidConfig, got %v", err)
	}
	if e.Config() != prev {
		t.Fatal("failed overrides must not change the config")
	}
}

func TestApplyOverridesResetsOnlyForTerrainShape(t *testing.T) {
	e := mustEngine(t, testConfig(16))
	e.Advance(0, false)

	if err := e.ApplyOverrides(map[string]string{"kc": "0.1", "advection_method": "semi_lagrangian"}); err != nil {
		t.Fatalf("ApplyOverrides: %v", err)
	}
	if !e.Initialized() {
		t.Fatal("erosion constant change must not reset")
	}
	if got := e.Config().AdvectionMethod; got != AdvectionSemiLagrangian {
		t.Fatalf("advection method = %v", got)
	}

	if err := e.ApplyOverrides(map[string]string{"terrain_height": "1.5"}); err != nil {
		t.Fatalf("ApplyOverrides: %v", err)
	}
	if e.Initialized() {
		t.Fatal("terrain height change must reset")
	}
}

func TestApplyBrushBeforeBootstrapIsNoop(t *testing.T) {
	e := mustEngine(t, testConfig(16))
	e.ApplyBrush(BrushParams{Active: true, Position: [2]float32{0.5, 0.5}, Radius: 0.3, Strength: 1, Channel: BrushWater})
	if channelTotal(e.Field(Terrain), 1) != 0 {
		t.Fatal("brush before bootstrap changed the terrain")
	}

	e.Advance(0, true)
	e.ApplyBrush(BrushParams{Active: true, Position: [2]float32{0.5, 0.5}, Radius: 0.3, Strength: 1, Channel: BrushWater})
	if channelTotal(e.Field(Terrain), 1) <= 0 {
		t.Fatal("water brush added no water")
	}
}

// Resolution 64 run with rain, thermal relaxation and smoothing disabled.
func TestScenarioWaterAndMaterial(t *testing.T) {
	cfg := testConfig(64)
	cfg.TerrainScale = 3.2
	cfg.TerrainHeight = 2.0
	cfg.RainEnabled = false
	cfg.Kc, cfg.Ks, cfg.Kd = 0.06, 0.036, 0.006
	cfg.ThermalRate = 0
	cfg.EvaporationConstant = 0.003
	cfg.SmoothingEnabled = false
	e := mustEngine(t, cfg)

	e.Advance(0, false)
	e.ApplyBrush(BrushParams{Active: true, Position: [2]float32{0.4, 0.6}, Radius: 0.25, Strength: 0.5, Channel: BrushWater})

	water := channelTotal(e.Field(Terrain), 1)
	if water <= 0 {
		t.Fatal("scenario needs standing water")
	}
	exchanged := 0.0
	for step := 0; step < 10; step++ {
		before := e.Field(Terrain).Snapshot()
		sedBefore := e.Field(Sediment).Snapshot()
		e.Step()
		after := e.Field(Terrain).Snapshot()

		next := channelTotal(e.Field(Terrain), 1)
		if next > water {
			t.Fatalf("step %d: water volume rose from %v to %v", step, water, next)
		}
		water = next

		// With thermal, smoothing and rain off only Erode changes height, and
		// terrain z holds the sediment Erode produced before advection moved
		// it. Every unit of height lost or gained must show up there.
		dh := make([]float64, len(before))
		ds := make([]float64, len(before))
		for i := range before {
			dh[i] = float64(after[i][0]) - float64(before[i][0])
			ds[i] = float64(after[i][2]) - float64(sedBefore[i][0])
			tol := 1e-5 * (1 + math.Abs(float64(before[i][0])))
			if math.Abs(dh[i]+ds[i]) > tol {
				t.Fatalf("step %d cell %d: height changed %v but sediment exchanged %v", step, i, dh[i], ds[i])
			}
			exchanged += math.Abs(ds[i])
		}
		bound := 0.0
		for _, d := range ds {
			bound += math.Abs(d)
		}
		if delta := math.Abs(floats.Sum(dh)); delta > bound+1e-3 {
			t.Fatalf("step %d: height sum moved %v but only %v sediment was exchanged", step, delta, bound)
		}

		for i, c := range e.Field(Terrain).Snapshot() {
			if c[1] < 0 {
				t.Fatalf("step %d cell %d: negative depth %v", step, i, c[1])
			}
		}
		for i, c := range e.Field(Sediment).Snapshot() {
			if c[0] < 0 {
				t.Fatalf("step %d cell %d: negative sediment %v", step, i, c[0])
			}
		}
		for i, c := range e.Field(Flux).Snapshot() {
			if c[0] < 0 || c[1] < 0 || c[2] < 0 || c[3] < 0 {
				t.Fatalf("step %d cell %d: negative flux %v", step, i, c)
			}
		}
	}
	if exchanged == 0 {
		t.Fatal("flowing water moved no material")
	}
}

func TestHeightStaticWithoutErosion(t *testing.T) {
	cfg := testConfig(32)
	cfg.Kc, cfg.Ks, cfg.Kd = 0, 0, 0
	cfg.ThermalRate = 0
	cfg.SmoothingEnabled = false
	cfg.RainEnabled = true
	e := mustEngine(t, cfg)
	e.Advance(0, false)

	before := e.Field(Terrain).Channel(0, nil)
	for i := 0; i < 5; i++ {
		e.Step()
	}
	if !slices.Equal(before, e.Field(Terrain).Channel(0, nil)) {
		t.Fatal("height changed with every material kernel disabled")
	}
	if channelTotal(e.Field(Terrain), 1) <= 0 {
		t.Fatal("rain added no water")
	}
}

func TestResetReseeds(t *testing.T) {
	e := mustEngine(t, testConfig(16))
	e.Advance(0, false)
	first := e.Field(Terrain).Snapshot()

	e.Reset(0)
	if e.Initialized() || e.Frame() != 0 {
		t.Fatal("Reset must clear the initialized flag and frame counter")
	}
	e.Advance(0, false)
	if !slices.Equal(first, e.Field(Terrain).Snapshot()) {
		t.Fatal("Reset(0) must reuse the configured seed")
	}

	e.Reset(4242)
	e.Advance(0, false)
	if e.Config().Seed != 4242 {
		t.Fatalf("seed = %d, want 4242", e.Config().Seed)
	}
	if slices.Equal(first, e.Field(Terrain).Snapshot()) {
		t.Fatal("new seed produced identical terrain")
	}
}

func TestThermalAndSmoothingRun(t *testing.T) {
	cfg := RuggedPreset()
	cfg.Resolution = 32
	cfg.Speed = 2
	cfg.Workers = 3
	e := mustEngine(t, cfg)
	e.Advance(0, false)
	e.Advance(0, false)
	for i, c := range e.Field(Terrain).Snapshot() {
		if math.IsNaN(float64(c[0])) || math.IsNaN(float64(c[1])) {
			t.Fatalf("cell %d became NaN: %v", i, c)
		}
	}
	for i, n := range e.Field(TerrainNormal).Snapshot() {
		l := math.Sqrt(float64(n[0]*n[0] + n[1]*n[1] + n[2]*n[2]))
		if math.Abs(l-1) > 1e-3 {
			t.Fatalf("normal %d has length %v", i, l)
		}
	}
}

func TestStatsMatchFields(t *testing.T) {
	cfg := testConfig(16)
	cfg.RainEnabled = true
	e := mustEngine(t, cfg)
	e.Advance(0, false)
	e.Step()

	st := e.Stats()
	if st.Frame != e.Frame() {
		t.Fatalf("stats frame %d, engine frame %d", st.Frame, e.Frame())
	}
	if got := channelTotal(e.Field(Terrain), 1); math.Abs(got-st.WaterVolume) > 1e-9 {
		t.Fatalf("water volume %v, want %v", st.WaterVolume, got)
	}
	if st.MaxHeight < st.MinHeight {
		t.Fatalf("height range inverted: %v..%v", st.MinHeight, st.MaxHeight)
	}
}

func TestPixelsFillsOpaqueImage(t *testing.T) {
	e := mustEngine(t, testConfig(8))
	e.Advance(0, false)
	buf := make([]byte, 8*8*4)
	for mode := ViewShaded; mode < viewModeCount; mode++ {
		for i := range buf {
			buf[i] = 0
		}
		e.Pixels(mode, buf)
		for i := 3; i < len(buf); i += 4 {
			if buf[i] != 255 {
				t.Fatalf("mode %v: pixel %d alpha %d", mode, i/4, buf[i])
			}
		}
	}
}

func TestNewPanicsOnBadResolution(t *testing.T) {
	if e := New(32); e.Size().W != 32 {
		t.Fatalf("New(32) size = %v", e.Size())
	}
	for _, res := range []int{0, -4, maxResolution + 1} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("New(%d) did not panic", res)
				}
			}()
			New(res)
		}()
	}
}

func TestRegistryBuildsEngine(t *testing.T) {
	if !slices.Contains(core.SimNames(), "erosion") {
		t.Fatal("erosion not registered")
	}
	sim, err := core.Build("erosion", map[string]string{"resolution": "24"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if size := sim.Size(); size.W != 24 || size.H != 24 {
		t.Fatalf("size = %v", size)
	}
	if _, err := core.Build("erodes", nil); !errors.Is(err, core.ErrUnknownSim) {
		t.Fatalf("expected ErrUnknownSim, got %v", err)
	}
	if _, err := core.Build("erosion", map[string]string{"timestep": "0"}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for zero timestep, got %v", err)
	}
}

func TestOverlaySamplersFlipRows(t *testing.T) {
	e := mustEngine(t, testConfig(8))
	e.Advance(0, true)

	sed := e.store.Write(Sediment)
	sed.Clear()
	sed.Set(1, 0, core.Vec4{0.5})
	sed.Set(2, 7, core.Vec4{1})
	vel := e.store.Write(Velocity)
	vel.Clear()
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			vel.Set(x, y, core.Vec4{1, -2})
		}
	}
	e.store.SwapAll(Sediment, Velocity)

	mask := e.SedimentMask(nil)
	if len(mask) != 64 {
		t.Fatalf("mask length %d", len(mask))
	}
	// image row 0 is the northern edge (y = 7)
	if mask[2] != 1 || mask[7*8+1] != 0.5 {
		t.Fatalf("mask rows not flipped: %v %v", mask[2], mask[7*8+1])
	}
	if vx, vy := e.VelocityAt(3.5, 4.5); vx != 1 || vy != -2 {
		t.Fatalf("VelocityAt = (%v, %v)", vx, vy)
	}
}
