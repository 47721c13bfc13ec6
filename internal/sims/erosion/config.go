package erosion

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"erode/internal/kernel"
)

// ErrInvalidConfig is wrapped by every configuration rejection.
var ErrInvalidConfig = errors.New("erosion: invalid config")

// AdvectionMethod selects the sediment transport strategy.
type AdvectionMethod int

const (
	// AdvectionSemiLagrangian takes one backward-traced sample.
	AdvectionSemiLagrangian AdvectionMethod = iota
	// AdvectionMacCormack adds a backward pass and an error-correcting clamp.
	AdvectionMacCormack
)

var advectionNames = [...]string{"semi_lagrangian", "maccormack"}

func (m AdvectionMethod) String() string {
	if m < 0 || int(m) >= len(advectionNames) {
		return fmt.Sprintf("AdvectionMethod(%d)", int(m))
	}
	return advectionNames[m]
}

// AdvectionMethodNames lists the methods in value order.
func AdvectionMethodNames() []string { return append([]string(nil), advectionNames[:]...) }

// SmoothingMode re-exports the kernel smoothing modes.
type SmoothingMode = kernel.SmoothMode

const (
	SmoothingPlain     = kernel.SmoothPlain
	SmoothingRidge     = kernel.SmoothRidge
	SmoothingPolygonal = kernel.SmoothPolygonal
)

const maxResolution = 8192

// Config holds every tunable of the erosion pipeline.
type Config struct {
	Resolution int
	// Speed is the number of steps per advanced frame.
	Speed int
	Seed  int64

	TerrainScale    float64
	TerrainHeight   float64
	TerrainBaseMask bool

	PipeLength float64
	PipeArea   float64
	Timestep   float64

	Kc float64
	Ks float64
	Kd float64

	RainEnabled         bool
	RainDegree          float64
	EvaporationConstant float64

	ThermalRate            float64
	ThermalTalusAngleScale float64
	ThermalErosionScale    float64

	VelocityMultiplier   float64
	VelocityAdvectionMag float64

	AdvectionMethod  AdvectionMethod
	SmoothingMode    SmoothingMode
	SmoothingEnabled bool

	// Workers bounds kernel parallelism; 0 uses every CPU.
	Workers int
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Resolution:             1024,
		Speed:                  3,
		Seed:                   1337,
		TerrainScale:           3.2,
		TerrainHeight:          2.0,
		PipeLength:             0.8,
		PipeArea:               0.6,
		Timestep:               0.05,
		Kc:                     0.06,
		Ks:                     0.036,
		Kd:                     0.006,
		RainDegree:             4.5,
		EvaporationConstant:    0.003,
		ThermalRate:            0.5,
		ThermalTalusAngleScale: 8.0,
		ThermalErosionScale:    1.0,
		VelocityMultiplier:     1.0,
		VelocityAdvectionMag:   0.2,
		AdvectionMethod:        AdvectionMacCormack,
		SmoothingMode:          SmoothingPlain,
		SmoothingEnabled:       true,
	}
}

// GentlePreset favours slow, rain-fed river carving with little slumping.
func GentlePreset() Config {
	c := DefaultConfig()
	c.RainEnabled = true
	c.RainDegree = 2.5
	c.Ks = 0.02
	c.Kd = 0.01
	c.ThermalRate = 0.2
	c.ThermalTalusAngleScale = 12
	c.SmoothingMode = SmoothingRidge
	return c
}

// RuggedPreset raises the terrain and lets slopes collapse aggressively.
func RuggedPreset() Config {
	c := DefaultConfig()
	c.TerrainHeight = 3.0
	c.TerrainScale = 4.5
	c.Kc = 0.1
	c.Ks = 0.05
	c.ThermalRate = 1.0
	c.ThermalTalusAngleScale = 4
	c.ThermalErosionScale = 1.5
	c.SmoothingMode = SmoothingPolygonal
	return c
}

// Presets names the built-in configurations.
func Presets() map[string]func() Config {
	return map[string]func() Config{
		"default": DefaultConfig,
		"gentle":  GentlePreset,
		"rugged":  RuggedPreset,
	}
}

// Validate reports every out-of-range field, joined, each wrapping
// ErrInvalidConfig.
func (c Config) Validate() error {
	var errs []error
	bad := func(key string, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s %s", ErrInvalidConfig, key, fmt.Sprintf(format, args...)))
	}
	if c.Resolution <= 0 || c.Resolution > maxResolution {
		bad("resolution", "must be in [1, %d], got %d", maxResolution, c.Resolution)
	}
	if c.Speed < 1 {
		bad("speed", "must be at least 1, got %d", c.Speed)
	}
	positive := []struct {
		key string
		v   float64
	}{
		{"pipe_length", c.PipeLength},
		{"pipe_area", c.PipeArea},
		{"timestep", c.Timestep},
	}
	for _, p := range positive {
		if !(p.v > 0) {
			bad(p.key, "must be positive, got %v", p.v)
		}
	}
	nonNegative := []struct {
		key string
		v   float64
	}{
		{"terrain_scale", c.TerrainScale},
		{"terrain_height", c.TerrainHeight},
		{"kc", c.Kc},
		{"ks", c.Ks},
		{"kd", c.Kd},
		{"rain_degree", c.RainDegree},
		{"thermal_rate", c.ThermalRate},
		{"thermal_talus_angle_scale", c.ThermalTalusAngleScale},
		{"thermal_erosion_scale", c.ThermalErosionScale},
		{"velocity_multiplier", c.VelocityMultiplier},
		{"velocity_advection_mag", c.VelocityAdvectionMag},
	}
	for _, p := range nonNegative {
		if !(p.v >= 0) {
			bad(p.key, "must be non-negative, got %v", p.v)
		}
	}
	if !(c.EvaporationConstant >= 0 && c.EvaporationConstant <= 1) {
		bad("evaporation_constant", "must be in [0, 1], got %v", c.EvaporationConstant)
	}
	if c.AdvectionMethod < 0 || int(c.AdvectionMethod) >= len(advectionNames) {
		bad("advection_method", "unknown value %d", int(c.AdvectionMethod))
	}
	if c.SmoothingMode < 0 || int(c.SmoothingMode) >= len(kernel.SmoothModeNames()) {
		bad("smoothing_mode", "unknown value %d", int(c.SmoothingMode))
	}
	if c.Workers < 0 {
		bad("workers", "must be non-negative, got %d", c.Workers)
	}
	return errors.Join(errs...)
}

// Keys lists every override key accepted by ApplyMap, sorted.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FromMap populates the config from a string map (flag-style key/value
// pairs). Values that fail to parse are ignored.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	for k, v := range cfg {
		if set, ok := setters[k]; ok {
			_ = set(&c, strings.TrimSpace(v))
		}
	}
	return c
}

// ApplyMap merges overrides into c. Unknown keys and unparsable values are
// reported together; c is only modified when every override parses and the
// result validates.
func ApplyMap(c *Config, overrides map[string]string) error {
	next := *c
	var errs []error
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		set, ok := setters[k]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: unknown key %q", ErrInvalidConfig, k))
			continue
		}
		if err := set(&next, strings.TrimSpace(overrides[k])); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, k, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

type setter func(c *Config, v string) error

var setters = map[string]setter{
	"resolution":                intField(func(c *Config) *int { return &c.Resolution }),
	"speed":                     intField(func(c *Config) *int { return &c.Speed }),
	"workers":                   intField(func(c *Config) *int { return &c.Workers }),
	"seed":                      seedField,
	"terrain_scale":             floatField(func(c *Config) *float64 { return &c.TerrainScale }),
	"terrain_height":            floatField(func(c *Config) *float64 { return &c.TerrainHeight }),
	"terrain_base_mask":         boolField(func(c *Config) *bool { return &c.TerrainBaseMask }),
	"pipe_length":               floatField(func(c *Config) *float64 { return &c.PipeLength }),
	"pipe_area":                 floatField(func(c *Config) *float64 { return &c.PipeArea }),
	"timestep":                  floatField(func(c *Config) *float64 { return &c.Timestep }),
	"kc":                        floatField(func(c *Config) *float64 { return &c.Kc }),
	"ks":                        floatField(func(c *Config) *float64 { return &c.Ks }),
	"kd":                        floatField(func(c *Config) *float64 { return &c.Kd }),
	"rain_enabled":              boolField(func(c *Config) *bool { return &c.RainEnabled }),
	"rain_degree":               floatField(func(c *Config) *float64 { return &c.RainDegree }),
	"evaporation_constant":      floatField(func(c *Config) *float64 { return &c.EvaporationConstant }),
	"thermal_rate":              floatField(func(c *Config) *float64 { return &c.ThermalRate }),
	"thermal_talus_angle_scale": floatField(func(c *Config) *float64 { return &c.ThermalTalusAngleScale }),
	"thermal_erosion_scale":     floatField(func(c *Config) *float64 { return &c.ThermalErosionScale }),
	"velocity_multiplier":       floatField(func(c *Config) *float64 { return &c.VelocityMultiplier }),
	"velocity_advection_mag":    floatField(func(c *Config) *float64 { return &c.VelocityAdvectionMag }),
	"advection_method":          advectionField,
	"smoothing_mode":            smoothingField,
	"smoothing_enabled":         boolField(func(c *Config) *bool { return &c.SmoothingEnabled }),
}

func intField(field func(*Config) *int) setter {
	return func(c *Config, v string) error {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(c) = parsed
		return nil
	}
}

func floatField(field func(*Config) *float64) setter {
	return func(c *Config, v string) error {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*field(c) = parsed
		return nil
	}
}

func boolField(field func(*Config) *bool) setter {
	return func(c *Config, v string) error {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*field(c) = parsed
		return nil
	}
}

func seedField(c *Config, v string) error {
	parsed, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return err
	}
	c.Seed = parsed
	return nil
}

func advectionField(c *Config, v string) error {
	idx, err := parseChoice(v, advectionNames[:], map[string]int{"simple": 0, "semi-lagrangian": 0})
	if err != nil {
		return err
	}
	c.AdvectionMethod = AdvectionMethod(idx)
	return nil
}

func smoothingField(c *Config, v string) error {
	idx, err := parseChoice(v, kernel.SmoothModeNames(), nil)
	if err != nil {
		return err
	}
	c.SmoothingMode = SmoothingMode(idx)
	return nil
}

// parseChoice accepts a choice name, an alias or the choice index.
func parseChoice(v string, names []string, aliases map[string]int) (int, error) {
	lower := strings.ToLower(v)
	for i, n := range names {
		if lower == n {
			return i, nil
		}
	}
	if i, ok := aliases[lower]; ok {
		return i, nil
	}
	if i, err := strconv.Atoi(v); err == nil && i >= 0 && i < len(names) {
		return i, nil
	}
	return 0, fmt.Errorf("unknown choice %q (want one of %s)", v, strings.Join(names, ", "))
}

// kernel parameter projections

func (c Config) fluxParams() kernel.FluxParams {
	return kernel.FluxParams{
		PipeLength: float32(c.PipeLength),
		PipeArea:   float32(c.PipeArea),
		Timestep:   float32(c.Timestep),
	}
}

func (c Config) waterParams() kernel.WaterParams {
	return kernel.WaterParams{
		PipeLength:         float32(c.PipeLength),
		Timestep:           float32(c.Timestep),
		VelocityMultiplier: float32(c.VelocityMultiplier),
		AdvectionMag:       float32(c.VelocityAdvectionMag),
	}
}

func (c Config) erosionParams() kernel.ErosionParams {
	return kernel.ErosionParams{Kc: float32(c.Kc), Ks: float32(c.Ks), Kd: float32(c.Kd)}
}

func (c Config) thermalParams() kernel.ThermalParams {
	return kernel.ThermalParams{
		TalusScale: float32(c.ThermalTalusAngleScale),
		Rate:       float32(c.ThermalRate),
		Scale:      float32(c.ThermalErosionScale),
		Timestep:   float32(c.Timestep),
	}
}

func (c Config) terrainParams() kernel.TerrainParams {
	return kernel.TerrainParams{Scale: c.TerrainScale, Height: c.TerrainHeight, Mask: c.TerrainBaseMask}
}

// needsReset reports whether moving from c to next invalidates the terrain.
func (c Config) needsReset(next Config) bool {
	return c.Resolution != next.Resolution ||
		c.TerrainScale != next.TerrainScale ||
		c.TerrainHeight != next.TerrainHeight ||
		c.TerrainBaseMask != next.TerrainBaseMask ||
		c.Seed != next.Seed
}
