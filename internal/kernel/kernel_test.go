package kernel

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"hiekkapeli/internal/core"
	"hiekkapeli/internal/grid"
	"hiekkapeli/internal/tile"
)

// load builds a grid from rows of glyphs. Border glyphs are ignored because
// New raises the walls itself.
func load(t *testing.T, rows ...string) *grid.Grid {
	t.Helper()
	g, err := grid.New(len(rows[0]), len(rows))
	if err != nil {
		t.Fatal(err)
	}
	for y, row := range rows {
		for x, r := range row {
			tl, ok := tile.ParseGlyph(r)
			if !ok {
				t.Fatalf("bad glyph %q at (%d,%d)", r, x, y)
			}
			g.Paint(x, y, tl)
		}
	}
	return g
}

func render(g *grid.Grid) []string {
	rows := make([]string, g.Height())
	for y := range rows {
		line := make([]rune, g.Width())
		for x := range line {
			line[x] = g.Read(grid.Previous, x, y).Glyph()
		}
		rows[y] = string(line)
	}
	return rows
}

func advance(g *grid.Grid, k *Kernel, from uint64, n int) {
	for i := 0; i < n; i++ {
		k.Step(g, from+uint64(i))
		g.Swap()
	}
}

func expectRows(t *testing.T, g *grid.Grid, want ...string) {
	t.Helper()
	got := render(g)
	if !slices.Equal(got, want) {
		t.Fatalf("grid mismatch\n got: %q\nwant: %q", got, want)
	}
}

func scatter(t *testing.T, w, h int, seed int64) *grid.Grid {
	t.Helper()
	g, err := grid.New(w, h)
	if err != nil {
		t.Fatal(err)
	}
	rng := core.NewRNG(seed)
	for x := 1; x < w-1; x++ {
		for y := 1; y < h-1; y++ {
			switch rng.IntN(10) {
			case 0, 1, 2:
				g.Paint(x, y, tile.Sand(rng.Uint8n(200)))
			case 3, 4, 5:
				g.Paint(x, y, tile.Water(0))
			case 6:
				g.Paint(x, y, tile.Air(int8(rng.IntN(60)-30)))
			}
		}
	}
	return g
}

func TestMinimalGridIsStable(t *testing.T) {
	g, err := grid.New(3, 3)
	if err != nil {
		t.Fatal(err)
	}
	k := New(g.Width(), 2, DefaultParams())
	advance(g, k, 0, 1)
	if got := g.Read(grid.Previous, 1, 1); got != tile.Air(0) {
		t.Fatalf("center = %v, expected Air{pressure:0}", got)
	}
	expectRows(t, g, "##~", "# ~", "#~~")
}

func TestWallsNeverChange(t *testing.T) {
	g := scatter(t, 12, 9, 3)
	walls := map[[2]int]tile.Tile{}
	for x := 0; x < g.Width(); x++ {
		for y := 0; y < g.Height(); y++ {
			if !g.Interior(x, y) {
				walls[[2]int{x, y}] = g.Read(grid.Previous, x, y)
			}
		}
	}
	k := New(g.Width(), 3, DefaultParams())
	advance(g, k, 0, 25)
	for pos, want := range walls {
		if got := g.Read(grid.Previous, pos[0], pos[1]); got != want {
			t.Fatalf("wall %v changed to %v", pos, got)
		}
	}
}

func TestSandFalls(t *testing.T) {
	g := load(t,
		"#####",
		"#.#.~",
		"#...~",
		"#...~",
		"~~~~~",
	)
	k := New(g.Width(), 1, DefaultParams())
	advance(g, k, 0, 1)
	expectRows(t, g,
		"####~",
		"#   ~",
		"# # ~",
		"#   ~",
		"#~~~~",
	)
	advance(g, k, 1, 5)
	expectRows(t, g,
		"####~",
		"#   ~",
		"#   ~",
		"# # ~",
		"#~~~~",
	)
}

func TestSlideAlternatesSides(t *testing.T) {
	art := []string{
		"#####",
		"#.#.~",
		"#.#.~",
		"~~~~~",
	}
	g := load(t, art...)
	k := New(g.Width(), 1, DefaultParams())
	advance(g, k, 0, 1)
	expectRows(t, g, "####~", "#   ~", "### ~", "#~~~~")

	g = load(t, art...)
	advance(g, k, 1, 1)
	expectRows(t, g, "####~", "#   ~", "# ##~", "#~~~~")
}

func TestDiagonalTieGoesToLowerColumn(t *testing.T) {
	g := load(t,
		"#####",
		"##.#~",
		"##.#~",
		"~~~~~",
	)
	k := New(g.Width(), 2, DefaultParams())
	advance(g, k, 0, 1)
	expectRows(t, g,
		"####~",
		"#  #~",
		"####~",
		"#~~~~",
	)
	if got := g.Read(grid.Previous, 2, 2); !got.IsSand() {
		t.Fatalf("contested cell = %v", got)
	}
}

func TestWetSandClumps(t *testing.T) {
	g := load(t,
		"#####",
		"#...~",
		"#.#.~",
		"~~~~~",
	)
	g.Paint(2, 1, tile.Sand(200))
	k := New(g.Width(), 1, DefaultParams())
	advance(g, k, 0, 3)
	expectRows(t, g,
		"####~",
		"# # ~",
		"# # ~",
		"#~~~~",
	)
}

type cell struct {
	x, y int
	t    tile.Tile
}

func TestOneTickTileValues(t *testing.T) {
	tests := []struct {
		name  string
		paint []cell
		want  []cell
	}{
		{
			name:  "resting sand dries",
			paint: []cell{{1, 3, tile.Sand(10)}},
			want:  []cell{{1, 3, tile.Sand(9)}},
		},
		{
			name:  "water walls do not wet sand",
			paint: []cell{{4, 3, tile.Sand(10)}},
			want:  []cell{{4, 3, tile.Sand(9)}},
		},
		{
			name: "sand beside still water gains",
			paint: []cell{
				{1, 3, tile.Sand(10)},
				{2, 3, tile.Water(0)}, {3, 3, tile.Water(0)}, {4, 3, tile.Water(0)},
			},
			want: []cell{{1, 3, tile.Sand(34)}, {2, 3, tile.Water(0)}},
		},
		{
			name: "sand landing beside water is wetted",
			paint: []cell{
				{1, 2, tile.Sand(10)},
				{2, 3, tile.Water(0)}, {3, 3, tile.Water(0)}, {4, 3, tile.Water(0)},
			},
			want: []cell{{1, 2, tile.Air(0)}, {1, 3, tile.Sand(34)}, {2, 3, tile.Water(0)}},
		},
		{
			name:  "dry sand stays dry after falling",
			paint: []cell{{2, 1, tile.Sand(0)}, {1, 1, tile.Air(30)}, {3, 1, tile.Air(10)}, {2, 2, tile.Air(-4)}},
			want:  []cell{{2, 1, tile.Air(12)}, {2, 2, tile.Sand(0)}},
		},
		{
			name:  "sideways flow takes mean pressure",
			paint: []cell{{1, 3, tile.Water(40)}, {2, 3, tile.Air(-20)}},
			want:  []cell{{1, 3, tile.Air(-10)}, {2, 3, tile.Water(10)}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := grid.New(6, 5)
			if err != nil {
				t.Fatal(err)
			}
			for _, c := range tt.paint {
				if !g.Paint(c.x, c.y, c.t) {
					t.Fatalf("paint (%d,%d) refused", c.x, c.y)
				}
			}
			advance(g, New(g.Width(), 1, DefaultParams()), 0, 1)
			for _, c := range tt.want {
				if got := g.Read(grid.Previous, c.x, c.y); got != c.t {
					t.Fatalf("(%d,%d) = %v, expected %v", c.x, c.y, got, c.t)
				}
			}
		})
	}
}

func TestContactWettingStopsSliding(t *testing.T) {
	tests := []struct {
		wetTicks int
		want     []cell
	}{
		{3, []cell{{2, 2, tile.Air(0)}, {1, 3, tile.Sand(71)}}},
		{4, []cell{{2, 2, tile.Sand(120)}, {1, 3, tile.Air(0)}}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d ticks", tt.wetTicks), func(t *testing.T) {
			g := load(t,
				"######",
				"#....~",
				"#.#~#~",
				"#####~",
				"~~~~~~",
			)
			k := New(g.Width(), 1, DefaultParams())
			advance(g, k, 0, tt.wetTicks)
			if got, want := g.Read(grid.Previous, 2, 2), tile.Sand(uint8(24*tt.wetTicks)); got != want {
				t.Fatalf("sand beside water = %v, expected %v", got, want)
			}
			g.Paint(1, 3, tile.Air(0))
			advance(g, k, uint64(tt.wetTicks), 1)
			for _, c := range tt.want {
				if got := g.Read(grid.Previous, c.x, c.y); got != c.t {
					t.Fatalf("(%d,%d) = %v, expected %v", c.x, c.y, got, c.t)
				}
			}
		})
	}
}

func TestSandSinksThroughStillWater(t *testing.T) {
	g := load(t,
		"#####",
		"#.#.~",
		"##~#~",
		"~~~~~",
	)
	k := New(g.Width(), 1, DefaultParams())
	advance(g, k, 0, 1)
	if got := g.Read(grid.Previous, 2, 1); got != tile.Water(0) {
		t.Fatalf("displaced water = %v", got)
	}
	if got := g.Read(grid.Previous, 2, 2); got != tile.Sand(255) {
		t.Fatalf("sunk sand = %v, expected soaked sand", got)
	}
}

func TestWaterLevelsOut(t *testing.T) {
	g := load(t,
		"#######",
		"#..~..~",
		"#..~..~",
		"#..~..~",
		"~~~~~~~",
	)
	k := New(g.Width(), 2, DefaultParams())
	for tick := uint64(0); tick < 40; tick++ {
		advance(g, k, tick, 1)
		if tick < 2 {
			continue
		}
		for x := 1; x < g.Width()-1; x++ {
			for y := 1; y < g.Height()-2; y++ {
				if g.Read(grid.Previous, x, y).IsWater() {
					t.Fatalf("tick %d: water left above the floor row at (%d,%d)\n%q", tick, x, y, render(g))
				}
			}
		}
	}
}

func TestWaterHeadPressure(t *testing.T) {
	g := load(t,
		"#####",
		"##~##",
		"##~##",
		"##~##",
		"~~~~~",
	)
	k := New(g.Width(), 1, DefaultParams())
	advance(g, k, 0, 3)
	for y, want := range []int8{0, 1, 2} {
		if got := g.Read(grid.Previous, 2, y+1).Pressure(); got != want {
			t.Fatalf("pressure at depth %d = %d, expected %d", y, got, want)
		}
	}
}

func TestAirPressureDiffusesAndSaturates(t *testing.T) {
	g := load(t,
		"#######",
		"#.....~",
		"#.....~",
		"~~~~~~~",
	)
	g.Paint(3, 1, tile.Air(120))
	p := DefaultParams()
	k := New(g.Width(), 1, p)
	advance(g, k, 0, 1)
	center := g.Read(grid.Previous, 3, 1).Pressure()
	if int(center) > p.MaxPressure {
		t.Fatalf("pressure %d exceeds saturation", center)
	}
	if side := g.Read(grid.Previous, 2, 1).Pressure(); side <= 0 {
		t.Fatalf("neighbour should gain pressure, got %d", side)
	}
	advance(g, k, 1, 200)
	for x := 1; x < 6; x++ {
		for y := 1; y < 3; y++ {
			if got := g.Read(grid.Previous, x, y).Pressure(); got != 0 {
				t.Fatalf("pressure should decay to zero, (%d,%d) = %d", x, y, got)
			}
		}
	}
}

func TestConservation(t *testing.T) {
	for seed := int64(1); seed <= 4; seed++ {
		g := scatter(t, 40, 30, seed)
		before := g.Previous().Census()
		k := New(g.Width(), 4, DefaultParams())
		for tick := uint64(0); tick < 60; tick++ {
			advance(g, k, tick, 1)
			if got := g.Previous().Census(); got != before {
				t.Fatalf("seed %d tick %d: census %+v, expected %+v", seed, tick, got, before)
			}
		}
	}
}

func TestDeterminism(t *testing.T) {
	a := scatter(t, 48, 32, 11)
	b := scatter(t, 48, 32, 11)
	advance(a, New(a.Width(), 1, DefaultParams()), 0, 50)
	advance(b, New(b.Width(), 7, DefaultParams()), 0, 50)
	if !slices.Equal(a.Previous().Clone(), b.Previous().Clone()) {
		t.Fatal("same grid and ticks must produce identical results regardless of worker count")
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	g := scatter(t, 33, 21, 5)
	r := NewRules(DefaultParams())
	for tick := uint64(0); tick < 10; tick++ {
		prev := g.Previous()
		want := make([]tile.Tile, 0, g.Width()*g.Height())
		for x := 0; x < g.Width(); x++ {
			for y := 0; y < g.Height(); y++ {
				want = append(want, r.Next(prev, x, y, tick))
			}
		}
		New(g.Width(), 6, DefaultParams()).Step(g, tick)
		g.Swap()
		if got := g.Previous().Clone(); !slices.Equal(got, want) {
			t.Fatalf("tick %d: parallel step diverged from serial evaluation", tick)
		}
	}
}

type recordingColumn struct {
	x      int
	n      int
	writes map[[2]int]int
}

func (c *recordingColumn) X() int                 { return c.x }
func (c *recordingColumn) Len() int               { return c.n }
func (c *recordingColumn) Set(y int, _ tile.Tile) { c.writes[[2]int{c.x, y}]++ }

func TestColumnLocality(t *testing.T) {
	g := scatter(t, 16, 12, 9)
	r := NewRules(DefaultParams())
	for x := 0; x < g.Width(); x++ {
		col := &recordingColumn{x: x, n: g.Height(), writes: map[[2]int]int{}}
		fillColumn(r, g.Previous(), col, 0)
		if len(col.writes) != g.Height() {
			t.Fatalf("column %d wrote %d cells, expected %d", x, len(col.writes), g.Height())
		}
		for pos, n := range col.writes {
			if pos[0] != x {
				t.Fatalf("column %d wrote outside itself at %v", x, pos)
			}
			if n != 1 {
				t.Fatalf("cell %v written %d times", pos, n)
			}
		}
	}
}

func TestPartition(t *testing.T) {
	cases := []struct {
		width, workers, spans int
	}{
		{10, 3, 3},
		{3, 8, 3},
		{1, 1, 1},
		{211, 8, 8},
	}
	for _, tc := range cases {
		k := New(tc.width, tc.workers, DefaultParams())
		if k.Workers() != tc.spans {
			t.Fatalf("New(%d,%d) has %d spans, expected %d", tc.width, tc.workers, k.Workers(), tc.spans)
		}
		next := 0
		for _, s := range k.spans {
			if s.lo != next || s.hi <= s.lo {
				t.Fatalf("span %+v does not continue at %d", s, next)
			}
			next = s.hi
		}
		if next != tc.width {
			t.Fatalf("spans cover %d of %d columns", next, tc.width)
		}
	}
	if New(5, 0, DefaultParams()).Workers() < 1 {
		t.Fatal("default worker count must be positive")
	}
}

func TestStepPanicsOnWidthMismatch(t *testing.T) {
	g, _ := grid.New(4, 4)
	k := New(5, 1, DefaultParams())
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for mismatched grid width")
		}
	}()
	k.Step(g, 0)
}

func TestParamsSanitized(t *testing.T) {
	r := NewRules(Params{MaxPressure: 500, Diffusion: -1, WetThreshold: 999, AirDecay: -3})
	p := r.Params()
	if p.MaxPressure != DefaultParams().MaxPressure || p.Diffusion != DefaultParams().Diffusion {
		t.Fatalf("invalid params not replaced: %+v", p)
	}
	if p.WetThreshold != 256 || p.AirDecay != 0 {
		t.Fatalf("params not clamped: %+v", p)
	}
	snap := DefaultParams().Parameters()
	if len(snap.Groups) != 2 || snap.Groups[0].Params[0].Value != "100" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestParamOverrides(t *testing.T) {
	p := DefaultParams()
	if err := p.Set("wet_gain", "40"); err != nil || p.WetGain != 40 {
		t.Fatalf("Set wet_gain: %v, %+v", err, p)
	}
	if err := p.Set("max_pressure", "900"); err != nil || p.MaxPressure != 127 {
		t.Fatalf("max_pressure should clamp to 127: %v, %+v", err, p)
	}
	if err := p.Set("viscosity", "1"); !errors.Is(err, ErrUnknownParam) {
		t.Fatalf("unknown key: %v", err)
	}
	if err := p.Set("dry_rate", "fast"); err == nil {
		t.Fatal("non-numeric value accepted")
	}
	if got := len(p.ParameterControls()); got != 6 {
		t.Fatalf("controls = %d", got)
	}
}

func TestKernelSetIntParameter(t *testing.T) {
	k := New(5, 1, DefaultParams())
	if k.SetIntParameter("nope", 1) {
		t.Fatal("unknown key accepted")
	}
	if !k.SetIntParameter("wet_threshold", 8) {
		t.Fatal("wet_threshold rejected")
	}
	if got := k.Rules().Params().WetThreshold; got != 8 {
		t.Fatalf("wet_threshold = %d", got)
	}
	var found bool
	for _, g := range k.Parameters().Groups {
		for _, prm := range g.Params {
			if prm.Key == "wet_threshold" && prm.Value == "8" {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("snapshot does not reflect the update")
	}
}

func BenchmarkStep(b *testing.B) {
	for _, workers := range []int{1, 2, 4, 8} {
		b.Run(fmt.Sprintf("%d_workers", workers), func(b *testing.B) {
			g, _ := grid.New(640, 480)
			rng := core.NewRNG(1)
			for x := 1; x < 639; x++ {
				for y := 1; y < 479; y++ {
					if rng.IntN(3) == 0 {
						g.Paint(x, y, tile.Sand(0))
					}
				}
			}
			k := New(g.Width(), workers, DefaultParams())
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				k.Step(g, uint64(i))
				g.Swap()
			}
		})
	}
}
