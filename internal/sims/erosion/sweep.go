package erosion

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// RunResult summarizes one headless run.
type RunResult struct {
	Overrides map[string]string
	Initial   Stats
	Final     Stats
	// Eroded is the total absolute height change per cell over the run.
	Eroded  float64
	Elapsed time.Duration
}

// Label renders the overrides as sorted key=value pairs.
func (r RunResult) Label() string {
	keys := make([]string, 0, len(r.Overrides))
	for k := range r.Overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + r.Overrides[k]
	}
	if len(parts) == 0 {
		return "(base)"
	}
	return strings.Join(parts, " ")
}

// Run bootstraps cfg, runs steps steps and reports the material moved.
// progress, when non-nil, is called after every step.
func Run(ctx context.Context, cfg Config, steps int, progress func(step int, st Stats)) (RunResult, error) {
	start := time.Now()
	e, err := NewWithConfig(cfg)
	if err != nil {
		return RunResult{}, err
	}
	e.Advance(0, true)
	res := RunResult{Initial: e.Stats()}
	before := e.Field(Terrain).Channel(0, nil)
	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return RunResult{}, fmt.Errorf("erosion: run stopped after %d steps: %w", i, err)
		}
		e.Step()
		if progress != nil {
			progress(i+1, e.Stats())
		}
	}
	after := e.Field(Terrain).Channel(0, nil)
	floats.Sub(after, before)
	for i, d := range after {
		after[i] = math.Abs(d)
	}
	res.Eroded = floats.Sum(after)
	res.Final = e.Stats()
	res.Elapsed = time.Since(start)
	return res, nil
}

// Grid expands per-key value lists into every combination of overrides.
// Keys are combined in sorted order so the expansion is deterministic.
func Grid(values map[string][]string) []map[string]string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	combos := []map[string]string{{}}
	for _, k := range keys {
		var next []map[string]string
		for _, base := range combos {
			for _, v := range values[k] {
				c := make(map[string]string, len(base)+1)
				for bk, bv := range base {
					c[bk] = bv
				}
				c[k] = v
				next = append(next, c)
			}
		}
		combos = next
	}
	return combos
}

// Sweep runs one engine per override combination, at most workers at a time,
// and returns the results sorted by material moved, largest first. Every
// combination is validated before any run starts.
func Sweep(ctx context.Context, base Config, combos []map[string]string, steps, workers int) ([]RunResult, error) {
	configs := make([]Config, len(combos))
	for i, overrides := range combos {
		cfg := base
		if err := ApplyMap(&cfg, overrides); err != nil {
			return nil, fmt.Errorf("erosion: sweep combination %d: %w", i, err)
		}
		configs[i] = cfg
	}

	results := make([]RunResult, len(combos))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := range configs {
		i := i
		g.Go(func() error {
			res, err := Run(ctx, configs[i], steps, nil)
			if err != nil {
				return err
			}
			res.Overrides = combos[i]
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.SliceStable(results, func(a, b int) bool { return results[a].Eroded > results[b].Eroded })
	return results, nil
}
