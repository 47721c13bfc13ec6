package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"erode/internal/app"
	"erode/internal/sims/erosion"
)

func main() {
	cfg := app.NewConfig()
	cfg.Resolution = 128
	cfg.Bind(flag.CommandLine)
	steps := flag.Int("steps", 200, "steps to simulate")
	every := flag.Int("every", 20, "print statistics every N steps (0 prints only the summary)")
	listKeys := flag.Bool("keys", false, "list the accepted -set keys and exit")
	flag.Parse()

	if *listKeys {
		fmt.Println(strings.Join(erosion.Keys(), "\n"))
		return
	}

	simCfg, err := cfg.SimConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Running %d steps at %dx%d (preset %s, seed %d)\n", *steps, simCfg.Resolution, simCfg.Resolution, cfg.Preset, simCfg.Seed)
	fmt.Printf("%6s %12s %12s %10s %10s %10s\n", "step", "water", "sediment", "maxDepth", "maxSpeed", "relief")
	progress := func(step int, st erosion.Stats) {
		if *every > 0 && step%*every == 0 {
			printStats(step, st)
		}
	}
	res, err := erosion.Run(ctx, simCfg, *steps, progress)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("\nInitial: relief %.2f, height sum %.1f\n", res.Initial.MaxHeight-res.Initial.MinHeight, res.Initial.HeightSum)
	fmt.Printf("Final:   relief %.2f, height sum %.1f, water %.2f, sediment %.3f\n",
		res.Final.MaxHeight-res.Final.MinHeight, res.Final.HeightSum, res.Final.WaterVolume, res.Final.SedimentSum)
	fmt.Printf("Material moved %.3f in %s\n", res.Eroded, res.Elapsed.Round(1e6))
}

func printStats(step int, st erosion.Stats) {
	fmt.Printf("%6d %12.3f %12.4f %10.4f %10.4f %10.3f\n",
		step, st.WaterVolume, st.SedimentSum, st.MaxDepth, st.MaxSpeed, st.MaxHeight-st.MinHeight)
}
