package grid

import (
	"errors"
	"fmt"
	"math"

	"hiekkapeli/internal/core"
	"hiekkapeli/internal/tile"
)

// ErrInvalidDimensions is returned when a grid would be empty or too large to
// address.
var ErrInvalidDimensions = errors.New("invalid grid dimensions")

// Buffer names one of the two tile buffers.
type Buffer int

const (
	// Previous is the completed frame read during a tick.
	Previous Buffer = iota
	// Current is the scratch buffer written during a tick.
	Current
)

// Grid is a double-buffered W×H tile array stored column-major, so every
// column is a contiguous run of H tiles.
type Grid struct {
	w, h  int
	bufs  [2][]tile.Tile
	cols  [2][]Column
	front int
}

// New allocates a grid, fills it with calm air and raises the border walls.
func New(w, h int) (*Grid, error) {
	if w <= 0 || h <= 0 || w > math.MaxInt/h {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, w, h)
	}
	g := &Grid{w: w, h: h}
	for b := range g.bufs {
		g.bufs[b] = make([]tile.Tile, w*h)
		g.cols[b] = make([]Column, w)
		for x := 0; x < w; x++ {
			start := x * h
			g.cols[b][x] = Column{x: x, cells: g.bufs[b][start : start+h : start+h]}
		}
	}
	g.Reset()
	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.w }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.h }

// Size returns the grid dimensions.
func (g *Grid) Size() core.Size { return core.Size{W: g.w, H: g.h} }

// Index returns the linear offset of (x, y) inside either buffer.
func (g *Grid) Index(x, y int) int {
	if uint(x) >= uint(g.w) || uint(y) >= uint(g.h) {
		panic(fmt.Sprintf("grid: (%d,%d) outside %dx%d", x, y, g.w, g.h))
	}
	return x*g.h + y
}

// Interior reports whether (x, y) lies inside the border walls.
func (g *Grid) Interior(x, y int) bool {
	return x > 0 && y > 0 && x < g.w-1 && y < g.h-1
}

func (g *Grid) buffer(b Buffer) []tile.Tile {
	switch b {
	case Previous:
		return g.bufs[g.front]
	case Current:
		return g.bufs[1-g.front]
	}
	panic(fmt.Sprintf("grid: unknown buffer %d", b))
}

// Read returns the tile at (x, y) in the named buffer.
func (g *Grid) Read(b Buffer, x, y int) tile.Tile {
	return g.buffer(b)[g.Index(x, y)]
}

// Write replaces the tile at (x, y) in the named buffer.
func (g *Grid) Write(b Buffer, x, y int, t tile.Tile) {
	g.buffer(b)[g.Index(x, y)] = t
}

// Swap exchanges the roles of the two buffers. The buffer just written becomes
// Previous and the old Previous is reused as scratch.
func (g *Grid) Swap() { g.front = 1 - g.front }

// Columns returns one handle per column over the Current buffer. The handles
// are built once in New and stay valid for the lifetime of the grid.
func (g *Grid) Columns() []Column { return g.cols[1-g.front] }

// Previous returns a read-only view of the completed frame.
func (g *Grid) Previous() View {
	return View{w: g.w, h: g.h, cells: g.bufs[g.front]}
}

// Frame wraps the Previous buffer for a render sink.
func (g *Grid) Frame(tick uint64) Frame {
	return Frame{View: g.Previous(), Tick: tick}
}

// Reset fills both buffers with calm air and re-asserts the border walls.
// Rows are written first, so the left and right columns own the corners.
func (g *Grid) Reset() {
	for b := range g.bufs {
		cells := g.bufs[b]
		for i := range cells {
			cells[i] = tile.Air(0)
		}
		for x := 0; x < g.w; x++ {
			cells[x*g.h] = tile.Sand(0)
			cells[x*g.h+g.h-1] = tile.Water(0)
		}
		for y := 0; y < g.h; y++ {
			cells[y] = tile.Sand(0)
			cells[(g.w-1)*g.h+y] = tile.Water(0)
		}
	}
}

// Paint writes t into the Previous buffer when (x, y) is an interior cell. It
// must only be called between ticks.
func (g *Grid) Paint(x, y int, t tile.Tile) bool {
	if !g.Interior(x, y) {
		return false
	}
	g.bufs[g.front][x*g.h+y] = t
	return true
}

// Column is the exclusive write handle for one column of the Current buffer.
type Column struct {
	x     int
	cells []tile.Tile
}

// X returns the column coordinate.
func (c Column) X() int { return c.x }

// Len returns the number of rows.
func (c Column) Len() int { return len(c.cells) }

// Set writes row y of the column.
func (c Column) Set(y int, t tile.Tile) { c.cells[y] = t }
