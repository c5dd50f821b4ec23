package grid

import "hiekkapeli/internal/tile"

// View is a read-only window over one buffer.
type View struct {
	w, h  int
	cells []tile.Tile
}

func (v View) Width() int  { return v.w }
func (v View) Height() int { return v.h }

// At returns the tile at (x, y). Coordinates must be in range.
func (v View) At(x, y int) tile.Tile { return v.cells[x*v.h+y] }

// Interior reports whether (x, y) lies inside the border walls.
func (v View) Interior(x, y int) bool {
	return x > 0 && y > 0 && x < v.w-1 && y < v.h-1
}

// Frame is the snapshot handed to a render sink after a completed tick. It
// aliases grid memory and is only valid for the duration of the sink call.
type Frame struct {
	View
	Tick uint64
}

// Census counts tiles per material.
type Census struct {
	Air   int
	Sand  int
	Water int
}

// Census counts the tiles of every material in the view.
func (v View) Census() Census {
	var c Census
	for _, t := range v.cells {
		switch t.Material() {
		case tile.MaterialSand:
			c.Sand++
		case tile.MaterialWater:
			c.Water++
		default:
			c.Air++
		}
	}
	return c
}

// Clone copies the view's tiles in column-major order.
func (v View) Clone() []tile.Tile {
	return append([]tile.Tile(nil), v.cells...)
}
