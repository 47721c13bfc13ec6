package erosion

import (
	"context"
	"errors"
	"testing"
)

func TestGridExpandsCombinations(t *testing.T) {
	combos := Grid(map[string][]string{
		"kc":           {"0.02", "0.06"},
		"rain_enabled": {"false", "true"},
		"speed":        {"1"},
	})
	if len(combos) != 4 {
		t.Fatalf("got %d combinations, want 4", len(combos))
	}
	seen := map[string]bool{}
	for _, c := range combos {
		if len(c) != 3 {
			t.Fatalf("combination %v misses keys", c)
		}
		seen[RunResult{Overrides: c}.Label()] = true
	}
	if len(seen) != 4 {
		t.Fatalf("combinations not distinct: %v", seen)
	}
}

func TestSweepSortsByErosion(t *testing.T) {
	base := testConfig(16)
	base.Workers = 1
	combos := []map[string]string{
		{"kc": "0", "ks": "0", "kd": "0", "thermal_rate": "0", "smoothing_enabled": "false"},
		{"rain_enabled": "true", "thermal_rate": "1"},
	}
	results, err := Sweep(context.Background(), base, combos, 4, 2)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].Eroded < results[1].Eroded {
		t.Fatal("results not sorted by material moved")
	}
	if results[1].Eroded != 0 {
		t.Fatalf("static configuration moved %v material", results[1].Eroded)
	}
	if results[0].Final.Frame != 4 {
		t.Fatalf("final frame %d, want 4", results[0].Final.Frame)
	}
}

func TestSweepRejectsBadCombination(t *testing.T) {
	_, err := Sweep(context.Background(), testConfig(8), []map[string]string{{"speed": "0"}}, 1, 1)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, testConfig(8), 3, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
