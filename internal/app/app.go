//go:build ebiten

package app

import (
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"hiekkapeli/internal/core"
	"hiekkapeli/internal/driver"
	"hiekkapeli/internal/grid"
	"hiekkapeli/internal/kernel"
	"hiekkapeli/internal/render"
	"hiekkapeli/internal/sink"
	"hiekkapeli/internal/tile"
	"hiekkapeli/internal/ui"
)

// Options tunes the window runner.
type Options struct {
	Scale  int
	TPS    int
	Seed   int64
	Logger *log.Logger
}

// Game adapts the simulation loop to the ebiten.Game interface.
type Game struct {
	loop    *driver.Loop
	scene   core.Scene
	size    core.Size
	painter *render.Painter
	overlay *ui.Overlay
	tracker *ui.Tracker
	hud     *ui.HUD
	pace    *core.FixedStep

	scale    int
	paused   bool
	tickOnce bool
	seed     int64
	brush    tile.Material
}

// New wires a Game around g and k and populates the grid from scene.
func New(g *grid.Grid, k *kernel.Kernel, scene core.Scene, opts Options) *Game {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	size := g.Size()
	game := &Game{
		scene:   scene,
		size:    size,
		painter: render.NewPainter(size.W, size.H),
		tracker: &ui.Tracker{},
		hud:     ui.NewHUD(k, ui.PanelWidth),
		pace:    core.NewFixedStep(opts.TPS),
		scale:   opts.Scale,
		seed:    opts.Seed,
		brush:   tile.MaterialSand,
	}
	game.overlay = ui.NewOverlay(size.W, size.H, opts.Scale, func() int {
		return k.Rules().Params().MaxPressure
	})
	game.loop = driver.New(g, k, sink.Tee(game.painter, game.overlay, game.tracker), driver.Options{Logger: opts.Logger})
	game.Reset(opts.Seed)
	return game
}

// Reset rebuilds the grid from the scene with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.loop.Reset(g.scene, seed)
	g.tickOnce = false
}

// Update handles per-frame input and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.loop.Close()
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	g.selectBrush()
	if g.overlay.Update() || g.paint() {
		g.loop.Present()
	}

	if g.tickOnce || (!g.paused && g.pace.ShouldStep()) {
		g.loop.Step()
		g.tickOnce = false
	}

	g.hud.Update(g.size.W*g.scale, ui.Status{
		Scene:  g.scene.Name(),
		Tick:   g.tracker.Tick(),
		Census: g.tracker.Census(),
		Brush:  g.brush,
		Paused: g.paused,
	})
	return nil
}

func (g *Game) selectBrush() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit1):
		g.brush = tile.MaterialSand
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit2):
		g.brush = tile.MaterialWater
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit3):
		g.brush = tile.MaterialAir
	}
}

const brushRadius = 2

// paint stamps the brush under the cursor. The right button always erases.
func (g *Game) paint() bool {
	material := g.brush
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		material = tile.MaterialAir
	default:
		return false
	}
	mx, my := ebiten.CursorPosition()
	cx, cy := mx/g.scale, my/g.scale
	if cx < 0 || cy < 0 || cx >= g.size.W || cy >= g.size.H {
		return false
	}
	t := brushTile(material)
	painted := false
	for dx := -brushRadius; dx <= brushRadius; dx++ {
		for dy := -brushRadius; dy <= brushRadius; dy++ {
			if dx*dx+dy*dy > brushRadius*brushRadius {
				continue
			}
			if g.loop.Paint(cx+dx, cy+dy, t) {
				painted = true
			}
		}
	}
	return painted
}

func brushTile(m tile.Material) tile.Tile {
	switch m {
	case tile.MaterialSand:
		return tile.Sand(0)
	case tile.MaterialWater:
		return tile.Water(0)
	default:
		return tile.Air(0)
	}
}

// Draw renders the current frame, the overlay and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Draw(screen, g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.size.W*g.scale, g.size.H*g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.size.W*g.scale + g.hud.Width(), g.size.H * g.scale
}
