package kernel

import (
	"hiekkapeli/internal/grid"
	"hiekkapeli/internal/tile"
)

// move is the single displacement a tile intends to make during a tick.
type move uint8

const (
	stay move = iota
	fall
	sink
	slideLeft
	slideRight
	flowLeft
	flowRight
)

func (m move) delta() (dx, dy int) {
	switch m {
	case fall, sink:
		return 0, 1
	case slideLeft:
		return -1, 1
	case slideRight:
		return 1, 1
	case flowLeft:
		return -1, 0
	case flowRight:
		return 1, 0
	}
	return 0, 0
}

// Rules is the per-cell transition function. Every decision is a pure
// function of the previous frame and the tick number, so the cell that a tile
// leaves and the cell it enters reach the same verdict independently.
//
// A moving tile targets exactly one air cell. An air cell accepts at most one
// tile, checking candidates in a fixed order: straight above, above-left,
// above-right, left, right. The lower column therefore wins every tie.
// Sand resting on motionless water swaps places with it.
type Rules struct {
	p Params
}

// NewRules returns the transition function for the given parameters.
func NewRules(p Params) Rules { return Rules{p: p.sanitized()} }

// Params returns the effective parameters.
func (r Rules) Params() Params { return r.p }

// Next computes the tile at (x, y) for the frame after prev. Border cells are
// walls and never change.
func (r Rules) Next(prev grid.View, x, y int, tick uint64) tile.Tile {
	t := prev.At(x, y)
	if !prev.Interior(x, y) {
		return t
	}
	switch t.Material() {
	case tile.MaterialSand:
		m := r.sandIntent(prev, x, y, t, tick)
		switch {
		case m == sink:
			return tile.Water(prev.At(x, y+1).Pressure())
		case m != stay && r.accepted(prev, x, y, m, tick):
			return tile.Air(r.vacated(prev, x, y))
		}
		return tile.Sand(r.humidity(prev, x, y, t.Humidity()))
	case tile.MaterialWater:
		if r.intent(prev, x, y-1, tick) == sink {
			return tile.Sand(255)
		}
		m := r.waterIntent(prev, x, y, t, tick)
		if m != stay && r.accepted(prev, x, y, m, tick) {
			return tile.Air(r.vacated(prev, x, y))
		}
		return tile.Water(r.head(prev, x, y))
	default:
		if sx, sy, m, ok := r.claim(prev, x, y, tick); ok {
			return r.arrive(prev, x, y, prev.At(sx, sy), m, t)
		}
		return tile.Air(r.diffuse(prev, x, y, t.Pressure()))
	}
}

// leftFirst alternates the preferred side every tick so piles stay symmetric.
func leftFirst(tick uint64) bool { return tick%2 == 0 }

func open(v grid.View, x, y int) bool {
	return v.Interior(x, y) && v.At(x, y).IsAir()
}

func (r Rules) intent(v grid.View, x, y int, tick uint64) move {
	if !v.Interior(x, y) {
		return stay
	}
	t := v.At(x, y)
	switch t.Material() {
	case tile.MaterialSand:
		return r.sandIntent(v, x, y, t, tick)
	case tile.MaterialWater:
		return r.waterIntent(v, x, y, t, tick)
	}
	return stay
}

func (r Rules) sandIntent(v grid.View, x, y int, t tile.Tile, tick uint64) move {
	if open(v, x, y+1) {
		return fall
	}
	if v.Interior(x, y+1) {
		if below := v.At(x, y+1); below.IsWater() && r.waterIntent(v, x, y+1, below, tick) == stay {
			return sink
		}
	}
	if int(t.Humidity()) >= r.p.WetThreshold {
		return stay
	}
	return slide(v, x, y, tick)
}

func (r Rules) waterIntent(v grid.View, x, y int, t tile.Tile, tick uint64) move {
	if open(v, x, y+1) {
		return fall
	}
	if m := slide(v, x, y, tick); m != stay {
		return m
	}
	p := t.Pressure()
	left := open(v, x-1, y) && v.At(x-1, y).Pressure() <= p
	right := open(v, x+1, y) && v.At(x+1, y).Pressure() <= p
	switch {
	case left && right:
		pl, pr := v.At(x-1, y).Pressure(), v.At(x+1, y).Pressure()
		if pl < pr || (pl == pr && leftFirst(tick)) {
			return flowLeft
		}
		return flowRight
	case left:
		return flowLeft
	case right:
		return flowRight
	}
	return stay
}

func slide(v grid.View, x, y int, tick uint64) move {
	left, right := open(v, x-1, y+1), open(v, x+1, y+1)
	switch {
	case left && right:
		if leftFirst(tick) {
			return slideLeft
		}
		return slideRight
	case left:
		return slideLeft
	case right:
		return slideRight
	}
	return stay
}

// claim picks the tile that moves into the air cell at (x, y), if any.
func (r Rules) claim(v grid.View, x, y int, tick uint64) (int, int, move, bool) {
	switch {
	case r.intent(v, x, y-1, tick) == fall:
		return x, y - 1, fall, true
	case r.intent(v, x-1, y-1, tick) == slideRight:
		return x - 1, y - 1, slideRight, true
	case r.intent(v, x+1, y-1, tick) == slideLeft:
		return x + 1, y - 1, slideLeft, true
	case r.intent(v, x-1, y, tick) == flowRight:
		return x - 1, y, flowRight, true
	case r.intent(v, x+1, y, tick) == flowLeft:
		return x + 1, y, flowLeft, true
	}
	return 0, 0, stay, false
}

func (r Rules) accepted(v grid.View, x, y int, m move, tick uint64) bool {
	dx, dy := m.delta()
	sx, sy, _, ok := r.claim(v, x+dx, y+dy, tick)
	return ok && sx == x && sy == y
}

// arrive builds the tile that lands on the air cell at (x, y). Sand takes
// the humidity of its new surroundings.
func (r Rules) arrive(v grid.View, x, y int, src tile.Tile, m move, dst tile.Tile) tile.Tile {
	if src.IsSand() {
		return tile.Sand(r.humidity(v, x, y, src.Humidity()))
	}
	if m == flowLeft || m == flowRight {
		mean := (int(src.Pressure()) + int(dst.Pressure())) / 2
		return tile.Water(r.saturate(mean))
	}
	return tile.Water(src.Pressure())
}

var neighbours = [4][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}

// diffuse moves air pressure toward its air neighbours, decays it toward
// zero and saturates the result.
func (r Rules) diffuse(v grid.View, x, y int, p int8) int8 {
	self := int(p)
	acc := self
	for _, d := range neighbours {
		n := v.At(x+d[0], y+d[1])
		if n.IsAir() {
			acc += (int(n.Pressure()) - self) / r.p.Diffusion
		}
	}
	switch {
	case acc > 0:
		acc = max(acc-r.p.AirDecay, 0)
	case acc < 0:
		acc = min(acc+r.p.AirDecay, 0)
	}
	return r.saturate(acc)
}

// vacated returns the pressure of the air left behind by a moving tile: the
// mean of the surrounding air.
func (r Rules) vacated(v grid.View, x, y int) int8 {
	sum, n := 0, 0
	for _, d := range neighbours {
		t := v.At(x+d[0], y+d[1])
		if t.IsAir() {
			sum += int(t.Pressure())
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return r.saturate(sum / n)
}

// head is the hydrostatic pressure of resting water: one more than the water
// directly above it.
func (r Rules) head(v grid.View, x, y int) int8 {
	above := v.At(x, y-1)
	if !above.IsWater() {
		return 0
	}
	return r.saturate(int(above.Pressure()) + 1)
}

// humidity wets sand touching interior water and dries it otherwise. The
// water walls are not a moisture source.
func (r Rules) humidity(v grid.View, x, y int, h uint8) uint8 {
	for _, d := range neighbours {
		nx, ny := x+d[0], y+d[1]
		if v.Interior(nx, ny) && v.At(nx, ny).IsWater() {
			return addSat(h, r.p.WetGain)
		}
	}
	return subSat(h, r.p.DryRate)
}

func (r Rules) saturate(p int) int8 {
	return int8(clampInt(p, -r.p.MaxPressure, r.p.MaxPressure))
}

func addSat(v uint8, d int) uint8 {
	return uint8(min(int(v)+d, 255))
}

func subSat(v uint8, d int) uint8 {
	return uint8(max(int(v)-d, 0))
}
