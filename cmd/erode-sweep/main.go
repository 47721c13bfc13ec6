package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"time"

	"erode/internal/app"
	"erode/internal/sims/erosion"
)

func main() {
	cfg := app.NewConfig()
	cfg.Resolution = 96
	cfg.Workers = 1
	cfg.Bind(flag.CommandLine)
	steps := flag.Int("steps", 120, "steps to simulate per combination")
	parallel := flag.Int("parallel", runtime.NumCPU(), "engines run concurrently")
	top := flag.Int("top", 10, "results to print")
	var axes app.KVList
	flag.Var(&axes, "grid", "sweep axis in key=v1,v2,... form (repeatable)")
	flag.Parse()

	base, err := cfg.SimConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	axisMap, err := axes.Map()
	if err != nil {
		log.Fatalf("grid: %v", err)
	}
	values := make(map[string][]string, len(axisMap))
	for k, v := range axisMap {
		values[k] = strings.Split(v, ",")
	}
	if len(values) == 0 {
		values = map[string][]string{
			"kc":           {"0.03", "0.06", "0.1"},
			"thermal_rate": {"0", "0.5", "1"},
		}
	}
	combos := erosion.Grid(values)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Sweeping %d combinations (%d concurrent, %d steps, %dx%d)\n", len(combos), *parallel, *steps, base.Resolution, base.Resolution)
	start := time.Now()
	results, err := erosion.Sweep(ctx, base, combos, *steps, *parallel)
	if err != nil {
		log.Fatal(err)
	}

	n := *top
	if n <= 0 || n > len(results) {
		n = len(results)
	}
	fmt.Printf("\n%10s %10s %10s  %s\n", "moved", "relief", "sediment", "overrides")
	for _, r := range results[:n] {
		fmt.Printf("%10.3f %10.3f %10.4f  %s\n", r.Eroded, r.Final.MaxHeight-r.Final.MinHeight, r.Final.SedimentSum, r.Label())
	}
	fmt.Printf("\nCompleted in %s\n", time.Since(start).Round(time.Millisecond))
}
