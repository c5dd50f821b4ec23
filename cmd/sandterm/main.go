// Command sandterm runs the simulation without a window: as text on stdout,
// as a colored tcell screen, or silently, printing the final digest.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"hiekkapeli/internal/config"
	"hiekkapeli/internal/driver"
	"hiekkapeli/internal/grid"
	"hiekkapeli/internal/kernel"
	"hiekkapeli/internal/scenes"
	"hiekkapeli/internal/sink"
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

	var (
		out    sink.Sink
		screen *sink.Terminal
		held   bytes.Buffer
	)
	switch cfg.Sink {
	case config.SinkText:
		out = sink.NewText(os.Stdout, term.IsTerminal(int(os.Stdout.Fd())))
	case config.SinkTerm:
		s, err := tcell.NewScreen()
		if err != nil {
			logger.Fatal(err)
		}
		if screen, err = sink.NewTerminal(s); err != nil {
			logger.Fatal(err)
		}
		out = screen
		// The screen owns the terminal until it is closed.
		logger.SetOutput(&held)
	}
	digest := sink.NewDigest()

	loop := driver.New(g, k, sink.Tee(out, digest), driver.Options{
		TPS:      cfg.TPS,
		MaxTicks: cfg.Ticks,
		Logger:   logger,
	})
	logger.Printf("%s %dx%d, %d workers, seed %d", scene.Name(), cfg.Width, cfg.Height, k.Workers(), cfg.Seed)
	loop.Reset(scene, cfg.Seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if screen != nil {
		go screen.Listen(loop.Stop)
	}

	err = loop.Run(ctx)
	if screen != nil {
		logger.SetOutput(os.Stderr)
		os.Stderr.Write(held.Bytes())
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal(err)
	}
	if cfg.Digest {
		fmt.Printf("tick %d sha256 %s\n", digest.Tick(), digest.Hex())
	}
}
