package tile

import "fmt"

// Material enumerates the tile variants.
type Material uint8

const (
	MaterialAir Material = iota
	MaterialSand
	MaterialWater
)

// String returns the lower-case material name.
func (m Material) String() string {
	switch m {
	case MaterialAir:
		return "air"
	case MaterialSand:
		return "sand"
	case MaterialWater:
		return "water"
	default:
		return fmt.Sprintf("material(%d)", uint8(m))
	}
}

// Tile is the state of one grid cell. Exactly one variant is active at a
// time; the zero value is Air with zero pressure.
type Tile struct {
	material Material
	value    uint8
}

// Air returns empty space carrying the given pressure.
func Air(pressure int8) Tile { return Tile{material: MaterialAir, value: uint8(pressure)} }

// Sand returns a granular solid with the given humidity.
func Sand(humidity uint8) Tile { return Tile{material: MaterialSand, value: humidity} }

// Water returns a liquid tile carrying the given pressure.
func Water(pressure int8) Tile { return Tile{material: MaterialWater, value: uint8(pressure)} }

// Material reports the active variant.
func (t Tile) Material() Material { return t.material }

func (t Tile) IsAir() bool   { return t.material == MaterialAir }
func (t Tile) IsSand() bool  { return t.material == MaterialSand }
func (t Tile) IsWater() bool { return t.material == MaterialWater }

// IsFluid reports whether the tile carries a pressure (Air or Water).
func (t Tile) IsFluid() bool { return t.material != MaterialSand }

// Pressure returns the pressure of Air and Water tiles and 0 for Sand.
func (t Tile) Pressure() int8 {
	if t.material == MaterialSand {
		return 0
	}
	return int8(t.value)
}

// Humidity returns the humidity of Sand tiles and 0 otherwise.
func (t Tile) Humidity() uint8 {
	if t.material != MaterialSand {
		return 0
	}
	return t.value
}

// String renders the tile in variant{field:value} form.
func (t Tile) String() string {
	switch t.material {
	case MaterialSand:
		return fmt.Sprintf("Sand{humidity:%d}", t.value)
	case MaterialWater:
		return fmt.Sprintf("Water{pressure:%d}", int8(t.value))
	default:
		return fmt.Sprintf("Air{pressure:%d}", int8(t.value))
	}
}
