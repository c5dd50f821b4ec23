package driver

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"hiekkapeli/internal/core"
	"hiekkapeli/internal/grid"
	"hiekkapeli/internal/kernel"
	"hiekkapeli/internal/sink"
	"hiekkapeli/internal/tile"
)

// State is the lifecycle phase of a Loop.
type State int32

const (
	Idle State = iota
	Ticking
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Ticking:
		return "ticking"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Options tunes a Loop.
type Options struct {
	// TPS caps Run to this many ticks per second. Zero runs unpaced.
	TPS int
	// MaxTicks stops Run after this many completed ticks. Zero means no limit.
	MaxTicks uint64
	// Logger receives sink failures and lifecycle messages.
	Logger *log.Logger
}

// Loop owns the grid for the lifetime of a simulation and ties the kernel and
// the render sink together, one tick at a time.
type Loop struct {
	grid     *grid.Grid
	kernel   *kernel.Kernel
	sink     sink.Sink
	interval time.Duration
	maxTicks uint64
	logger   *log.Logger

	tick   atomic.Uint64
	state  atomic.Int32
	stop   atomic.Bool
	closed sync.Once
}

// New wires a loop. A nil sink discards frames.
func New(g *grid.Grid, k *kernel.Kernel, s sink.Sink, opts Options) *Loop {
	if s == nil {
		s = sink.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Loop{
		grid:     g,
		kernel:   k,
		sink:     s,
		interval: core.TickInterval(opts.TPS),
		maxTicks: opts.MaxTicks,
		logger:   logger,
	}
}

// State reports the current lifecycle phase. It is safe to call from any
// goroutine.
func (l *Loop) State() State { return State(l.state.Load()) }

// Tick reports how many ticks have completed.
func (l *Loop) Tick() uint64 { return l.tick.Load() }

// Size returns the grid dimensions.
func (l *Loop) Size() core.Size { return l.grid.Size() }

// Stop asks the loop to stop. The request is observed between ticks; a tick
// in flight always completes first. It is safe to call from any goroutine.
func (l *Loop) Stop() { l.stop.Store(true) }

// Step runs one full tick: every column is updated, the buffers are swapped
// and the new frame is handed to the sink. It reports false once the loop has
// stopped. Step must only be called from the goroutine that drives the loop.
func (l *Loop) Step() bool {
	if l.stop.Load() {
		l.shutdown()
		return false
	}
	if !l.state.CompareAndSwap(int32(Idle), int32(Ticking)) {
		return false
	}
	tick := l.tick.Load()
	l.kernel.Step(l.grid, tick)
	l.grid.Swap()
	l.tick.Store(tick + 1)
	l.present()
	l.state.Store(int32(Idle))
	return true
}

// Run ticks until ctx is cancelled, Stop is called or the tick limit is hit.
// It returns ctx.Err() when the context ended the run and nil otherwise. The
// loop is stopped when Run returns.
func (l *Loop) Run(ctx context.Context) error {
	defer l.shutdown()

	var pace <-chan time.Time
	if l.interval > 0 {
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()
		pace = ticker.C
	}
	for {
		if l.stop.Load() || l.limitReached() {
			return nil
		}
		if pace != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-pace:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		if !l.Step() {
			return nil
		}
	}
}

func (l *Loop) limitReached() bool {
	return l.maxTicks > 0 && l.tick.Load() >= l.maxTicks
}

// Present hands the current frame to the sink again without ticking, for
// example after the grid was painted while paused.
func (l *Loop) Present() {
	if l.State() != Idle {
		return
	}
	l.present()
}

func (l *Loop) present() {
	tick := l.tick.Load()
	if err := l.sink.Render(l.grid.Frame(tick)); err != nil {
		l.logger.Printf("render tick %d: %v", tick, err)
	}
}

// Paint writes an interior tile between ticks.
func (l *Loop) Paint(x, y int, t tile.Tile) bool {
	if l.State() != Idle {
		return false
	}
	return l.grid.Paint(x, y, t)
}

// Reset rebuilds the grid from a scene and restarts the tick counter.
func (l *Loop) Reset(scene core.Scene, seed int64) {
	if l.State() != Idle {
		return
	}
	l.grid.Reset()
	if scene != nil {
		scene.Populate(l.grid, seed)
	}
	l.tick.Store(0)
	l.present()
}

// Close stops the loop and releases the sink. It is for hosts that drive
// Step themselves; Run closes on its own.
func (l *Loop) Close() {
	l.Stop()
	l.shutdown()
}

func (l *Loop) shutdown() {
	l.closed.Do(func() {
		l.state.Store(int32(Stopped))
		if c, ok := l.sink.(io.Closer); ok {
			if err := c.Close(); err != nil {
				l.logger.Printf("close sink: %v", err)
			}
		}
		l.logger.Printf("stopped after %d ticks", l.tick.Load())
	})
}
