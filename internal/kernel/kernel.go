package kernel

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"hiekkapeli/internal/core"
	"hiekkapeli/internal/grid"
	"hiekkapeli/internal/tile"
)

// Kernel advances a grid by one tick using column-parallel workers.
type Kernel struct {
	rules Rules
	width int
	spans []span
}

// span is a contiguous run of columns [lo, hi) owned by one worker.
type span struct {
	lo, hi int
}

// New partitions width columns between workers. A non-positive worker count
// uses GOMAXPROCS; the count never exceeds the number of columns.
func New(width, workers int, p Params) *Kernel {
	if width <= 0 {
		panic(fmt.Sprintf("kernel: width %d", width))
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > width {
		workers = width
	}
	return &Kernel{rules: NewRules(p), width: width, spans: partition(width, workers)}
}

// partition spreads columns as evenly as possible, giving the first
// width%workers spans one extra column.
func partition(width, workers int) []span {
	spans := make([]span, workers)
	base, extra := width/workers, width%workers
	lo := 0
	for i := range spans {
		n := base
		if i < extra {
			n++
		}
		spans[i] = span{lo: lo, hi: lo + n}
		lo += n
	}
	if lo != width {
		panic(fmt.Sprintf("kernel: partition covers %d of %d columns", lo, width))
	}
	return spans
}

// Workers reports how many column spans run in parallel.
func (k *Kernel) Workers() int { return len(k.spans) }

// Rules returns the transition function.
func (k *Kernel) Rules() Rules { return k.rules }

// SetParams replaces the rule parameters. It must only be called between
// ticks.
func (k *Kernel) SetParams(p Params) { k.rules = NewRules(p) }

// Parameters reports the effective rule parameters for the HUD.
func (k *Kernel) Parameters() core.ParameterSnapshot { return k.rules.p.Parameters() }

// ParameterControls lists the parameters the HUD may adjust.
func (k *Kernel) ParameterControls() []core.ParameterControl {
	return k.rules.p.ParameterControls()
}

// SetIntParameter adjusts one rule parameter between ticks.
func (k *Kernel) SetIntParameter(key string, value int) bool {
	p := k.rules.p
	if !p.SetIntParameter(key, value) {
		return false
	}
	k.SetParams(p)
	return true
}

// Step writes the next frame into g's Current buffer. It returns once every
// column is written; the caller swaps buffers afterwards.
func (k *Kernel) Step(g *grid.Grid, tick uint64) {
	if g.Width() != k.width {
		panic(fmt.Sprintf("kernel: built for %d columns, grid has %d", k.width, g.Width()))
	}
	prev := g.Previous()
	cols := g.Columns()

	var eg errgroup.Group
	eg.SetLimit(len(k.spans))
	for _, s := range k.spans {
		owned := cols[s.lo:s.hi:s.hi]
		eg.Go(func() error {
			for _, c := range owned {
				fillColumn(k.rules, prev, c, tick)
			}
			return nil
		})
	}
	eg.Wait() // barrier
}

type columnWriter interface {
	X() int
	Len() int
	Set(y int, t tile.Tile)
}

func fillColumn[C columnWriter](r Rules, prev grid.View, c C, tick uint64) {
	x := c.X()
	for y := 0; y < c.Len(); y++ {
		c.Set(y, r.Next(prev, x, y, tick))
	}
}
