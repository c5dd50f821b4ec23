//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"hiekkapeli/internal/app"
	"hiekkapeli/internal/config"
	"hiekkapeli/internal/grid"
	"hiekkapeli/internal/kernel"
	"hiekkapeli/internal/scenes"
	"hiekkapeli/internal/ui"
)

func main() {
	logger := log.New(os.Stderr, "[sand] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		logger.Fatal(err)
	}

	scene, ok := scenes.Lookup(cfg.Scene, cfg.SceneOptions)
	if !ok {
		logger.Fatalf("unknown scene %q (have %v)", cfg.Scene, scenes.Names())
	}
	g, err := grid.New(cfg.Width, cfg.Height)
	if err != nil {
		logger.Fatal(err)
	}
	k := kernel.New(g.Width(), cfg.Workers, cfg.Rules)
	logger.Printf("%s %dx%d, %d workers", scene.Name(), cfg.Width, cfg.Height, k.Workers())

	game := app.New(g, k, scene, app.Options{
		Scale:  cfg.Scale,
		TPS:    cfg.TPS,
		Seed:   cfg.Seed,
		Logger: logger,
	})

	ebiten.SetTPS(max(cfg.TPS, ebiten.DefaultTPS))
	ebiten.SetWindowTitle("hiekkapeli - " + scene.Name())
	ebiten.SetWindowSize(cfg.Width*cfg.Scale+ui.PanelWidth, cfg.Height*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Fatal(err)
	}
}
