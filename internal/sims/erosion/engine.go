// Package erosion drives the hydraulic and thermal erosion pipeline over a
// double-buffered field store.
package erosion

import (
	"fmt"
	"log"
	"math/bits"

	opensimplex "github.com/ojrac/opensimplex-go"

	"erode/internal/core"
	"erode/internal/kernel"
)

// ThermalIterations is the number of thermal relaxation passes per step.
const ThermalIterations = 3

// BrushParams describes a brush edit; see kernel.Brush.
type BrushParams = kernel.Brush

// Brush selector types.
type (
	BrushChannel = kernel.BrushChannel
	BrushSign    = kernel.BrushSign
)

// Brush selectors.
const (
	BrushHeight   = kernel.BrushHeight
	BrushWater    = kernel.BrushWater
	BrushAdd      = kernel.BrushAdd
	BrushSubtract = kernel.BrushSubtract
)

// Engine owns the field store and runs the fixed per-step kernel sequence.
// It is not safe for concurrent use.
type Engine struct {
	cfg   Config
	store *core.Store
	exec  *kernel.Executor
	noise opensimplex.Noise

	initialized bool
	frame       uint64

	logger *log.Logger

	statsScratch []float64
	speedScratch []float64
}

// New creates an engine with default parameters at the given resolution.
// It panics when res is not an accepted resolution; callers taking
// resolutions from input use NewWithConfig.
func New(res int) *Engine {
	cfg := DefaultConfig()
	cfg.Resolution = res
	e, err := NewWithConfig(cfg)
	if err != nil {
		panic(err)
	}
	return e
}

// NewWithConfig validates cfg and allocates every field.
func NewWithConfig(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	store, err := core.NewStore(cfg.Resolution, Fields())
	if err != nil {
		return nil, fmt.Errorf("erosion: allocate fields: %w", err)
	}
	return &Engine{
		cfg:   cfg,
		store: store,
		exec:  kernel.NewExecutor(cfg.Workers),
		noise: opensimplex.NewNormalized(cfg.Seed),
	}, nil
}

// SetLogger routes lifecycle notices to l. A nil logger silences them.
func (e *Engine) SetLogger(l *log.Logger) { e.logger = l }

func (e *Engine) logf(format string, args ...any) {
	if e.logger != nil {
		e.logger.Printf(format, args...)
	}
}

// Name identifies the simulation in the registry.
func (e *Engine) Name() string { return "erosion" }

// Size reports the grid dimensions.
func (e *Engine) Size() core.Size {
	r := e.store.Resolution()
	return core.Size{W: r, H: r}
}

// Config returns a copy of the live configuration.
func (e *Engine) Config() Config { return e.cfg }

// Field returns the front buffer of a named field. The view is invalidated
// by the next resolution change.
func (e *Engine) Field(name string) core.View { return e.store.Read(name) }

// Frame counts the steps run since the last bootstrap.
func (e *Engine) Frame() uint64 { return e.frame }

// Initialized reports whether the terrain has been bootstrapped.
func (e *Engine) Initialized() bool { return e.initialized }

// Reset schedules a fresh bootstrap on the next Advance. A nonzero seed
// replaces the noise seed.
func (e *Engine) Reset(seed int64) {
	if seed != 0 && seed != e.cfg.Seed {
		e.cfg.Seed = seed
		e.noise = opensimplex.NewNormalized(seed)
	}
	e.initialized = false
	e.frame = 0
}

// Advance runs one frame. An uninitialized engine bootstraps first, even
// while paused, and the bootstrap counts as one of the Speed iterations.
func (e *Engine) Advance(dt float64, paused bool) {
	steps := e.cfg.Speed
	if !e.initialized {
		e.bootstrap()
		steps--
	}
	if paused {
		return
	}
	for i := 0; i < steps; i++ {
		e.Step()
	}
}

func (e *Engine) bootstrap() {
	s := e.store
	s.ClearAll()
	tp := e.cfg.terrainParams()
	e.exec.InitialTerrain(tp, e.noise, s.Write(Terrain))
	s.Swap(Terrain)
	e.exec.InitialTerrain(tp, e.noise, s.Write(Terrain))
	e.exec.Normals(s.Read(Terrain), s.Write(TerrainNormal))
	e.initialized = true
	e.frame = 0
	e.logf("erosion: bootstrapped %dx%d terrain (seed %d)", s.Resolution(), s.Resolution(), e.cfg.Seed)
}

// Step runs the fixed kernel sequence once. Disabled stages skip both their
// kernel and their swap.
func (e *Engine) Step() {
	if !e.initialized {
		e.bootstrap()
	}
	cfg := e.cfg
	s := e.store
	x := e.exec

	if cfg.RainEnabled {
		rp := kernel.RainParams{Degree: cfg.RainDegree, Time: float64(e.frame) * cfg.Timestep}
		x.Rain(rp, e.noise, s.Read(Terrain), s.Write(Terrain))
		s.Swap(Terrain)
	}

	x.Flux(cfg.fluxParams(), s.Read(Terrain), s.Read(Flux), s.Write(Flux))
	s.Swap(Flux)

	x.Water(cfg.waterParams(), s.Read(Terrain), s.Read(Flux), s.Read(Velocity), s.Write(Terrain), s.Write(Velocity))
	s.SwapAll(Terrain, Velocity)

	if ep := cfg.erosionParams(); ep.Active() {
		x.Erode(ep, s.Read(Terrain), s.Read(Velocity), s.Read(Sediment), s.Write(Terrain), s.Write(Sediment))
		s.SwapAll(Terrain, Sediment)
	}

	e.advect()

	if tp := cfg.thermalParams(); tp.Active() {
		for i := 0; i < ThermalIterations; i++ {
			x.MaxSlippage(tp, s.Read(Terrain), s.Write(MaxSlippage))
			s.Swap(MaxSlippage)
			x.ThermalFlux(tp, s.Read(Terrain), s.Read(MaxSlippage), s.Write(TerrainFlux))
			s.Swap(TerrainFlux)
			x.ThermalApply(tp, s.Read(Terrain), s.Read(TerrainFlux), s.Write(Terrain))
			s.Swap(Terrain)
		}
	}

	if cfg.EvaporationConstant > 0 {
		x.Evaporate(float32(cfg.EvaporationConstant), s.Read(Terrain), s.Write(Terrain))
		s.Swap(Terrain)
	}

	if cfg.SmoothingEnabled {
		x.Smooth(cfg.SmoothingMode, s.Read(Terrain), s.Write(Terrain))
		s.Swap(Terrain)
	}

	x.Normals(s.Read(Terrain), s.Write(TerrainNormal))
	e.frame++
}

func (e *Engine) advect() {
	s := e.store
	x := e.exec
	dt := float32(e.cfg.Timestep)
	forward := kernel.AdvectParams{Timestep: dt, Multiplier: 1}

	switch e.cfg.AdvectionMethod {
	case AdvectionMacCormack:
		x.Advect(forward, s.Read(Velocity), s.Read(Sediment), s.Read(SedimentBlend), s.Read(Terrain),
			s.Write(SedimentAdvectA), s.Write(Velocity), s.Write(SedimentBlend))
		backward := kernel.AdvectParams{Timestep: dt, Multiplier: -1}
		x.AdvectScalar(backward, s.Read(Velocity), s.Read(SedimentAdvectA), s.Write(SedimentAdvectB))
		x.Correct(forward, s.Read(Velocity), s.Read(Sediment), s.Read(SedimentAdvectA), s.Read(SedimentAdvectB), s.Write(Sediment))
	default:
		x.Advect(forward, s.Read(Velocity), s.Read(Sediment), s.Read(SedimentBlend), s.Read(Terrain),
			s.Write(Sediment), s.Write(Velocity), s.Write(SedimentBlend))
	}
	// velocity and blend keep the forward pass values in both modes; only
	// sediment gets the MacCormack correction and clamp
	s.SwapAll(Sediment, Velocity, SedimentBlend)
}

// ApplyBrush blends a brush edit into the terrain. It does nothing before
// the terrain is bootstrapped.
func (e *Engine) ApplyBrush(b BrushParams) {
	if !e.initialized {
		return
	}
	s := e.store
	e.exec.Brush(b, s.Read(Terrain), s.Write(Terrain))
	s.Swap(Terrain)
	if b.Active {
		e.exec.Normals(s.Read(Terrain), s.Write(TerrainNormal))
	}
}

// UpdateConfig replaces the live configuration. An invalid config or a
// failed reallocation leaves the previous configuration in place. Changes to
// the resolution, the seed or the terrain shape schedule a fresh bootstrap.
func (e *Engine) UpdateConfig(next Config) error {
	if err := next.Validate(); err != nil {
		return err
	}
	prev := e.cfg
	if next.Resolution != prev.Resolution {
		if err := e.store.Resize(next.Resolution); err != nil {
			return fmt.Errorf("erosion: resize to %d: %w", next.Resolution, err)
		}
		e.statsScratch, e.speedScratch = nil, nil
		e.logf("erosion: resolution %d -> %d", prev.Resolution, next.Resolution)
		if bits.OnesCount(uint(next.Resolution)) != 1 {
			e.logf("erosion: resolution %d is not a power of two; filtering may be asymmetric", next.Resolution)
		}
	}
	if next.Workers != prev.Workers {
		e.exec = kernel.NewExecutor(next.Workers)
	}
	if next.Seed != prev.Seed {
		e.noise = opensimplex.NewNormalized(next.Seed)
	}
	e.cfg = next
	if prev.needsReset(next) {
		e.initialized = false
		e.frame = 0
	}
	return nil
}

// ApplyOverrides merges key/value overrides into the live configuration.
func (e *Engine) ApplyOverrides(overrides map[string]string) error {
	next := e.cfg
	if err := ApplyMap(&next, overrides); err != nil {
		return err
	}
	return e.UpdateConfig(next)
}

func init() {
	core.Register("erosion", func(cfg map[string]string) (core.Sim, error) {
		e, err := NewWithConfig(FromMap(cfg))
		if err != nil {
			return nil, err
		}
		return e, nil
	})
}
