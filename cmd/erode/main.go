//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"erode/internal/app"
	"erode/internal/sims/erosion"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	simCfg, err := cfg.SimConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	engine, err := erosion.NewWithConfig(simCfg)
	if err != nil {
		log.Fatalf("engine: %v", err)
	}
	if cfg.Verbose {
		engine.SetLogger(log.Default())
	}

	game := app.New(engine, cfg)
	size := engine.Size()

	ebiten.SetWindowTitle("erode: " + cfg.Preset)
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(size.W*cfg.Scale+cfg.HUDWidth, size.H*cfg.Scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
