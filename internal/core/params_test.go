package core

import "testing"

func TestNudgeNumeric(t *testing.T) {
	speed := ParameterControl{Key: "speed", Kind: KindInt, Step: 1, Range: Between(1, 4)}
	if next, ok := speed.Nudge("3", 1); !ok || next != "4" {
		t.Fatalf("speed up: %q %v", next, ok)
	}
	if _, ok := speed.Nudge("4", 1); ok {
		t.Fatal("nudge past the upper bound reported a change")
	}

	kd := ParameterControl{Key: "kd", Kind: KindFloat, Step: 0.002, Range: AtLeast(0)}
	if next, ok := kd.Nudge("0.006", 1); !ok || next != "0.008" {
		t.Fatalf("kd up: %q %v", next, ok)
	}
	if next, ok := kd.Nudge("0.001", -1); !ok || next != "0.000" {
		t.Fatalf("kd clamps at zero: %q %v", next, ok)
	}
	if _, ok := kd.Nudge("0", -1); ok {
		t.Fatal("kd moved below its lower bound")
	}
	if _, ok := kd.Nudge("--", 1); ok {
		t.Fatal("unparseable value accepted")
	}
}

func TestNudgeToggleAndChoice(t *testing.T) {
	rain := ParameterControl{Kind: KindBool}
	if next, ok := rain.Nudge("false", 1); !ok || next != "true" {
		t.Fatalf("rain on: %q %v", next, ok)
	}
	if _, ok := rain.Nudge("true", 1); ok {
		t.Fatal("switching on an enabled toggle reported a change")
	}

	mode := ParameterControl{Kind: KindChoice, Choices: []string{"plain", "ridge", "polygonal"}}
	if next, _ := mode.Nudge("plain", -1); next != "polygonal" {
		t.Fatalf("choices must wrap, got %q", next)
	}
	if next, _ := mode.Nudge("ridge", 1); next != "polygonal" {
		t.Fatalf("next choice = %q", next)
	}
	if _, ok := mode.Nudge("flat", 1); ok {
		t.Fatal("unknown choice accepted")
	}
}

func TestSnapshotLookupAndFormat(t *testing.T) {
	s := ParameterSnapshot{Groups: []ParameterGroup{
		{Name: "a", Params: []Parameter{{Key: "kc", Kind: KindFloat, Value: "0.06"}}},
		{Name: "b", Params: []Parameter{{Key: "speed", Kind: KindInt, Value: "3"}}},
	}}
	p, ok := s.Lookup("speed")
	if !ok || p.Value != "3" {
		t.Fatalf("lookup speed: %+v %v", p, ok)
	}
	if _, ok := s.Lookup("missing"); ok {
		t.Fatal("lookup of a missing key succeeded")
	}
	for _, tc := range []struct {
		step float64
		want string
	}{
		{0.5, "0.1"},
		{0.01, "0.06"},
		{0.005, "0.060"},
		{0.0005, "0.0600"},
	} {
		c := ParameterControl{Kind: KindFloat, Step: tc.step}
		if got := c.Format("0.06"); got != tc.want {
			t.Fatalf("step %v: format = %q, want %q", tc.step, got, tc.want)
		}
	}
}
