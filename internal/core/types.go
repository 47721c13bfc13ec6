package core

import (
	"errors"
	"fmt"
	"sort"
)

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Sim defines the contract a frame-driven field simulation must implement.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	// Advance is called once per output frame with the elapsed wall time.
	// The simulation decides how many internal steps that frame covers.
	Advance(dt float64, paused bool)
}

// Factory builds a Sim from string overrides.
type Factory func(overrides map[string]string) (Sim, error)

// ErrUnknownSim is returned by Build for names nobody registered.
var ErrUnknownSim = errors.New("core: unknown simulation")

var registry = map[string]Factory{}

// Register makes a factory available under name. It panics on an empty
// name, a nil factory or a duplicate registration.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		panic("core: Register needs a name and a factory")
	}
	if _, dup := registry[name]; dup {
		panic("core: simulation " + name + " registered twice")
	}
	registry[name] = f
}

// Build constructs the named simulation.
func Build(name string, overrides map[string]string) (Sim, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownSim, name)
	}
	return f(overrides)
}

// SimNames lists the registered simulations in sorted order.
func SimNames() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
