package scenes

import (
	"slices"
	"testing"

	"hiekkapeli/internal/core"
	"hiekkapeli/internal/grid"
	"hiekkapeli/internal/tile"
)

func populate(t *testing.T, s core.Scene, w, h int, seed int64) *grid.Grid {
	t.Helper()
	g, err := grid.New(w, h)
	if err != nil {
		t.Fatal(err)
	}
	s.Populate(g, seed)
	return g
}

// count tallies interior tiles only.
func count(g *grid.Grid) (sand, water int) {
	v := g.Previous()
	for x := 1; x < g.Width()-1; x++ {
		for y := 1; y < g.Height()-1; y++ {
			switch {
			case v.At(x, y).IsSand():
				sand++
			case v.At(x, y).IsWater():
				water++
			}
		}
	}
	return sand, water
}

func TestScenesRegistered(t *testing.T) {
	names := core.SceneNames()
	for _, want := range []string{"art", "dam", "scatter", "walls"} {
		if !slices.Contains(names, want) {
			t.Fatalf("scene %q missing from %v", want, names)
		}
	}
	if _, ok := Lookup("volcano", nil); ok {
		t.Fatal("unknown scene resolved")
	}
	s, ok := Lookup(Default, nil)
	if !ok || s.Name() != Default {
		t.Fatalf("default scene lookup = %v, %v", s, ok)
	}
}

func TestWallsLeavesInteriorEmpty(t *testing.T) {
	g := populate(t, Walls{}, 12, 9, 1)
	if sand, water := count(g); sand != 0 || water != 0 {
		t.Fatalf("interior sand=%d water=%d", sand, water)
	}
}

func TestScatterDeterministicPerSeed(t *testing.T) {
	s := NewScatter(DefaultScatterConfig())
	a := populate(t, s, 40, 30, 7).Previous().Clone()
	b := populate(t, s, 40, 30, 7).Previous().Clone()
	c := populate(t, s, 40, 30, 8).Previous().Clone()
	if !slices.Equal(a, b) {
		t.Fatal("same seed produced different layouts")
	}
	if slices.Equal(a, c) {
		t.Fatal("different seeds produced identical layouts")
	}
}

func TestScatterOptions(t *testing.T) {
	dry := NewScatter(ScatterFromMap(map[string]string{"density": "1", "water_ratio": "0"}))
	g := populate(t, dry, 10, 10, 3)
	sand, water := count(g)
	if sand != 64 || water != 0 {
		t.Fatalf("full sand fill: sand=%d water=%d", sand, water)
	}

	empty := NewScatter(ScatterFromMap(map[string]string{"density": "0"}))
	if sand, water := count(populate(t, empty, 10, 10, 3)); sand+water != 0 {
		t.Fatal("zero density filled cells")
	}

	wet := NewScatter(ScatterFromMap(map[string]string{"density": "1", "water_ratio": "0", "humidity": "300"}))
	g = populate(t, wet, 30, 30, 3)
	var humid bool
	v := g.Previous()
	for x := 1; x < 29 && !humid; x++ {
		for y := 1; y < 29; y++ {
			if v.At(x, y).Humidity() > 200 {
				humid = true
				break
			}
		}
	}
	if !humid {
		t.Fatal("humidity option was not applied")
	}
}

func TestScatterFromMapRejectsBadValues(t *testing.T) {
	got := ScatterFromMap(map[string]string{"density": "2", "water_ratio": "x", "humidity": "-4"})
	want := DefaultScatterConfig()
	if got != want {
		t.Fatalf("got %+v, want defaults %+v", got, want)
	}
}

func TestDamLayout(t *testing.T) {
	d := NewDam(DamFromMap(map[string]string{"wall": "5", "thickness": "2", "level": "0.5"}))
	g := populate(t, d, 12, 10, 0)
	sand, water := count(g)
	// Interior is 8 rows high, so the reservoir holds 4 rows over columns 1..4.
	if water != 16 {
		t.Fatalf("water = %d", water)
	}
	if sand != 16 {
		t.Fatalf("dam sand = %d", sand)
	}
	for y := 1; y < 9; y++ {
		if got := g.Read(grid.Previous, 5, y); got != tile.Sand(255) {
			t.Fatalf("dam cell (5,%d) = %v", y, got)
		}
	}
	if !g.Read(grid.Previous, 1, 5).IsWater() || !g.Read(grid.Previous, 1, 4).IsAir() {
		t.Fatal("reservoir level misplaced")
	}
}

func TestDamCentersByDefault(t *testing.T) {
	g := populate(t, NewDam(DefaultDamConfig()), 20, 10, 0)
	if !g.Read(grid.Previous, 10, 1).IsSand() || !g.Read(grid.Previous, 11, 1).IsSand() {
		t.Fatal("default dam should start at the middle column")
	}
}

func TestArtPaintsGlyphs(t *testing.T) {
	a := NewArt(ArtFromMap(map[string]string{"art": "#####/# ~ ~/#.#.~/#~~~~"}))
	g := populate(t, a, 5, 4, 0)
	want := map[[2]int]tile.Tile{
		{2, 1}: tile.Water(0),
		{1, 2}: tile.Air(0),
		{2, 2}: tile.Sand(0),
		{3, 2}: tile.Air(0),
	}
	for p, w := range want {
		if got := g.Read(grid.Previous, p[0], p[1]); got != w {
			t.Fatalf("(%d,%d) = %v, want %v", p[0], p[1], got, w)
		}
	}
	if got := g.Read(grid.Previous, 0, 0); !got.IsSand() {
		t.Fatalf("art must not repaint walls, got %v", got)
	}
	if got := g.Read(grid.Previous, 4, 1); !got.IsWater() {
		t.Fatalf("border glyph should be ignored, got %v", got)
	}
}

func TestArtOffsetAndUnknownGlyphs(t *testing.T) {
	a := NewArt(ArtFromMap(map[string]string{"art": "#?#\n~", "x": "2", "y": "3"}))
	g := populate(t, a, 8, 8, 0)
	if !g.Read(grid.Previous, 2, 3).IsSand() || !g.Read(grid.Previous, 4, 3).IsSand() {
		t.Fatal("first row not placed at the offset")
	}
	if !g.Read(grid.Previous, 3, 3).IsAir() {
		t.Fatal("unknown glyph should leave the cell untouched")
	}
	if !g.Read(grid.Previous, 2, 4).IsWater() {
		t.Fatal("second row not placed")
	}
}

func TestSplitRows(t *testing.T) {
	if got := SplitRows("ab/cd\nef"); !slices.Equal(got, []string{"ab", "cd", "ef"}) {
		t.Fatalf("SplitRows = %q", got)
	}
	if SplitRows("") != nil {
		t.Fatal("empty art should have no rows")
	}
}
