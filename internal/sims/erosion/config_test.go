package erosion

import (
	"errors"
	"strings"
	"testing"

	"erode/internal/core"
)

func TestDefaultConfigValid(t *testing.T) {
	for name, preset := range Presets() {
		if err := preset().Validate(); err != nil {
			t.Fatalf("preset %s invalid: %v", name, err)
		}
	}
}

func TestFromMapIgnoresBadValues(t *testing.T) {
	c := FromMap(map[string]string{
		"resolution":        "256",
		"kc":                "not-a-number",
		"rain_enabled":      "true",
		"smoothing_mode":    "ridge",
		"terrain_base_mask": "1",
	})
	def := DefaultConfig()
	if c.Resolution != 256 {
		t.Fatalf("resolution = %d", c.Resolution)
	}
	if c.Kc != def.Kc {
		t.Fatalf("unparsable kc overwrote default: %v", c.Kc)
	}
	if !c.RainEnabled || !c.TerrainBaseMask {
		t.Fatal("bool overrides not applied")
	}
	if c.SmoothingMode != SmoothingRidge {
		t.Fatalf("smoothing mode = %v", c.SmoothingMode)
	}
}

func TestApplyMapJoinsErrors(t *testing.T) {
	c := DefaultConfig()
	err := ApplyMap(&c, map[string]string{
		"speed":   "x",
		"bogus":   "1",
		"workers": "2",
	})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "speed") || !strings.Contains(msg, "bogus") {
		t.Fatalf("error does not name every bad key: %v", msg)
	}
	if c.Workers != 0 {
		t.Fatal("partial overrides must not be applied")
	}
}

func TestValidateReportsEveryViolation(t *testing.T) {
	c := DefaultConfig()
	c.Resolution = -1
	c.PipeLength = 0
	c.EvaporationConstant = 2
	err := c.Validate()
	if err == nil {
		t.Fatal("expected violations")
	}
	for _, key := range []string{"resolution", "pipe_length", "evaporation_constant"} {
		if !strings.Contains(err.Error(), key) {
			t.Fatalf("missing %s in %v", key, err)
		}
	}
}

func TestAdvectionAliases(t *testing.T) {
	for _, v := range []string{"simple", "semi_lagrangian", "0"} {
		c := DefaultConfig()
		if err := ApplyMap(&c, map[string]string{"advection_method": v}); err != nil {
			t.Fatalf("%q: %v", v, err)
		}
		if c.AdvectionMethod != AdvectionSemiLagrangian {
			t.Fatalf("%q parsed to %v", v, c.AdvectionMethod)
		}
	}
	c := DefaultConfig()
	if err := ApplyMap(&c, map[string]string{"advection_method": "euler"}); err == nil {
		t.Fatal("unknown advection method accepted")
	}
}

func TestSetParameterRoundTrip(t *testing.T) {
	e := mustEngine(t, testConfig(16))
	for key, value := range map[string]string{"kd": "0.01", "rain_enabled": "true", "smoothing_mode": "polygonal"} {
		if err := e.SetParameter(key, value); err != nil {
			t.Fatalf("SetParameter(%s): %v", key, err)
		}
	}
	if err := e.SetParameter("timestep", "-1"); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("negative timestep: %v", err)
	}
	c := e.Config()
	if c.Kd != 0.01 || !c.RainEnabled || c.SmoothingMode != SmoothingPolygonal {
		t.Fatalf("setters not applied: %+v", c)
	}

	snap := e.Parameters()
	if p, ok := snap.Lookup("kd"); !ok || p.Value != "0.01" {
		t.Fatalf("snapshot kd = %+v", p)
	}
	if p, _ := snap.Lookup("smoothing_mode"); p.Value != "polygonal" {
		t.Fatalf("snapshot smoothing_mode = %q", p.Value)
	}

	// every HUD control must be able to step from its current snapshot value
	for _, ctrl := range e.ParameterControls() {
		p, ok := snap.Lookup(ctrl.Key)
		if !ok {
			t.Fatalf("control %s has no snapshot value", ctrl.Key)
		}
		if _, changed := ctrl.Nudge(p.Value, 1); !changed && ctrl.Kind != core.KindBool {
			if _, changed = ctrl.Nudge(p.Value, -1); !changed {
				t.Fatalf("control %s cannot step from %q", ctrl.Key, p.Value)
			}
		}
	}
}
