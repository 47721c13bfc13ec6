package app

import (
	"flag"
	"fmt"
	"strings"

	"erode/internal/sims/erosion"
)

// KVList collects repeatable key=value flags.
type KVList []string

func (l *KVList) String() string {
	return strings.Join(*l, ",")
}

func (l *KVList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

// Map splits the entries into an override map. Later entries win.
func (l KVList) Map() (map[string]string, error) {
	out := make(map[string]string, len(l))
	for _, kv := range l {
		key, value, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("override %q is not in key=value form", kv)
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}

// Config represents the command-line parameters for the viewer.
type Config struct {
	Preset     string
	Resolution int
	Scale      int
	TPS        int
	Seed       int64
	Workers    int
	HUDWidth   int
	Verbose    bool
	Overrides  KVList
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Preset: "default", Resolution: 256, Scale: 3, TPS: 60, Seed: 1337, HUDWidth: 260}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Preset, "preset", c.Preset, "parameter preset (default, gentle, rugged)")
	fs.IntVar(&c.Resolution, "res", c.Resolution, "grid resolution in cells per side")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "terrain noise seed")
	fs.IntVar(&c.Workers, "workers", c.Workers, "kernel worker goroutines (0 = one per CPU)")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "parameter panel width in pixels (0 hides it)")
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "log engine lifecycle notices")
	fs.Var(&c.Overrides, "set", "parameter override in key=value form (repeatable)")
}

// SimConfig resolves the preset, the flag values and the -set overrides
// into an engine configuration.
func (c *Config) SimConfig() (erosion.Config, error) {
	preset, ok := erosion.Presets()[c.Preset]
	if !ok {
		return erosion.Config{}, fmt.Errorf("unknown preset %q", c.Preset)
	}
	cfg := preset()
	cfg.Resolution = c.Resolution
	cfg.Seed = c.Seed
	cfg.Workers = c.Workers
	overrides, err := c.Overrides.Map()
	if err != nil {
		return erosion.Config{}, err
	}
	if err := erosion.ApplyMap(&cfg, overrides); err != nil {
		return erosion.Config{}, err
	}
	return cfg, nil
}
