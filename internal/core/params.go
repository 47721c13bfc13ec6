package core

import (
	"math"
	"strconv"
)

// ParamKind is the value kind of a tunable.
type ParamKind uint8

const (
	KindInt ParamKind = iota
	KindFloat
	KindBool
	// KindChoice values are one of a control's Choices, by name.
	KindChoice
)

// Parameter is one tunable rendered as text. Keys match the override keys
// accepted by the owning simulation.
type Parameter struct {
	Key   string
	Label string
	Kind  ParamKind
	Value string
}

// ParameterGroup clusters related parameters for presentation.
type ParameterGroup struct {
	Name    string
	Summary string
	Params  []Parameter
}

// ParameterSnapshot captures the current tunables of a simulation.
type ParameterSnapshot struct {
	Groups []ParameterGroup
}

// Lookup finds a parameter by key across all groups.
func (s ParameterSnapshot) Lookup(key string) (Parameter, bool) {
	for _, g := range s.Groups {
		for _, p := range g.Params {
			if p.Key == key {
				return p, true
			}
		}
	}
	return Parameter{}, false
}

// Range bounds a numeric control. The zero Range is unbounded.
type Range struct {
	Lo, Hi float64
}

// AtLeast bounds values from below only.
func AtLeast(lo float64) Range { return Range{Lo: lo, Hi: math.Inf(1)} }

// Between bounds values to [lo, hi].
func Between(lo, hi float64) Range { return Range{Lo: lo, Hi: hi} }

// Clamp limits v to the range.
func (r Range) Clamp(v float64) float64 {
	if r == (Range{}) {
		return v
	}
	return math.Max(r.Lo, math.Min(r.Hi, v))
}

// ParameterControl makes a parameter adjustable one step at a time.
type ParameterControl struct {
	Key     string
	Label   string
	Kind    ParamKind
	Step    float64
	Range   Range
	Choices []string
}

const defaultFloatStep = 0.05

func (c ParameterControl) step() float64 {
	if c.Step > 0 {
		return c.Step
	}
	if c.Kind == KindFloat {
		return defaultFloatStep
	}
	return 1
}

// Precision is the number of decimals needed to show values of a float
// control at its step size.
func (c ParameterControl) Precision() int {
	switch s := c.step(); {
	case s < 0.001:
		return 4
	case s < 0.01:
		return 3
	case s < 0.1:
		return 2
	default:
		return 1
	}
}

// Format renders value for display.
func (c ParameterControl) Format(value string) string {
	if c.Kind != KindFloat {
		return value
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return value
	}
	return strconv.FormatFloat(f, 'f', c.Precision(), 64)
}

// Nudge returns the value one step from current in direction dir. Numeric
// values are clamped to the range, booleans switch off for dir < 0 and on
// otherwise, and choices wrap around. ok is false when current cannot be
// parsed or the value would not change.
func (c ParameterControl) Nudge(current string, dir int) (next string, ok bool) {
	if dir == 0 {
		return current, false
	}
	switch c.Kind {
	case KindInt:
		v, err := strconv.ParseInt(current, 10, 64)
		if err != nil {
			return current, false
		}
		step := int64(math.Max(1, math.Round(c.step())))
		t := int64(c.Range.Clamp(float64(v + int64(dir)*step)))
		next = strconv.FormatInt(t, 10)
	case KindFloat:
		v, err := strconv.ParseFloat(current, 64)
		if err != nil {
			return current, false
		}
		t := c.Range.Clamp(v + float64(dir)*c.step())
		if math.Abs(t-v) < 1e-9 {
			return current, false
		}
		next = strconv.FormatFloat(t, 'f', c.Precision(), 64)
	case KindBool:
		v, err := strconv.ParseBool(current)
		if err != nil {
			return current, false
		}
		next = strconv.FormatBool(dir > 0)
		if v == (dir > 0) {
			return current, false
		}
	case KindChoice:
		n := len(c.Choices)
		i := -1
		for k, name := range c.Choices {
			if name == current {
				i = k
			}
		}
		if i < 0 || n < 2 {
			return current, false
		}
		next = c.Choices[((i+dir)%n+n)%n]
	default:
		return current, false
	}
	return next, next != current
}

// ParameterSource is implemented by simulations whose tunables can be shown
// and edited by a parameter panel.
type ParameterSource interface {
	Parameters() ParameterSnapshot
	ParameterControls() []ParameterControl
	// SetParameter applies a textual value; a rejected value leaves the
	// simulation unchanged.
	SetParameter(key, value string) error
}
