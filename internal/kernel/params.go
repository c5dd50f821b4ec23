package kernel

import (
	"errors"
	"fmt"
	"strconv"

	"hiekkapeli/internal/core"
)

// Params holds the tunable thresholds of the transition rules.
type Params struct {
	// MaxPressure saturates air and water pressure to [-MaxPressure, MaxPressure].
	MaxPressure int `yaml:"max_pressure"`
	// Diffusion divides each neighbour's pressure difference before it is
	// added to an air cell. Values below 5 can overshoot.
	Diffusion int `yaml:"diffusion"`
	// AirDecay pulls air pressure back toward zero every tick.
	AirDecay int `yaml:"air_decay"`

	WetGain      int `yaml:"wet_gain"`
	DryRate      int `yaml:"dry_rate"`
	WetThreshold int `yaml:"wet_threshold"`
}

// ErrUnknownParam is returned for a parameter key the rules do not have.
var ErrUnknownParam = errors.New("unknown rule parameter")

// DefaultParams returns the standard rule set.
func DefaultParams() Params {
	return Params{
		MaxPressure:  100,
		Diffusion:    5,
		AirDecay:     1,
		WetGain:      24,
		DryRate:      1,
		WetThreshold: 96,
	}
}

// sanitized clamps every field into the range the rules assume.
func (p Params) sanitized() Params {
	d := DefaultParams()
	if p.MaxPressure <= 0 || p.MaxPressure > 127 {
		p.MaxPressure = d.MaxPressure
	}
	if p.Diffusion <= 0 {
		p.Diffusion = d.Diffusion
	}
	p.AirDecay = clampInt(p.AirDecay, 0, 127)
	p.WetGain = clampInt(p.WetGain, 0, 255)
	p.DryRate = clampInt(p.DryRate, 0, 255)
	if p.WetThreshold <= 0 {
		p.WetThreshold = d.WetThreshold
	}
	if p.WetThreshold > 256 {
		p.WetThreshold = 256
	}
	return p
}

// Parameters exposes the rule set for the HUD.
func (p Params) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Pressure",
			Params: []core.Parameter{
				intParam("max_pressure", "Max pressure", p.MaxPressure),
				intParam("diffusion", "Diffusion divisor", p.Diffusion),
				intParam("air_decay", "Air decay", p.AirDecay),
			},
		},
		{
			Name: "Humidity",
			Params: []core.Parameter{
				intParam("wet_gain", "Wet gain", p.WetGain),
				intParam("dry_rate", "Dry rate", p.DryRate),
				intParam("wet_threshold", "Clump threshold", p.WetThreshold),
			},
		},
	}}
}

var controls = []core.ParameterControl{
	{Key: "max_pressure", Label: "Max pressure", Type: core.ParamTypeInt, Step: 5, Min: 1, Max: 127},
	{Key: "diffusion", Label: "Diffusion divisor", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 64},
	{Key: "air_decay", Label: "Air decay", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: 127},
	{Key: "wet_gain", Label: "Wet gain", Type: core.ParamTypeInt, Step: 4, Min: 0, Max: 255},
	{Key: "dry_rate", Label: "Dry rate", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: 255},
	{Key: "wet_threshold", Label: "Clump threshold", Type: core.ParamTypeInt, Step: 8, Min: 1, Max: 256},
}

// ParameterControls lists the adjustable parameters and their bounds.
func (p Params) ParameterControls() []core.ParameterControl {
	out := make([]core.ParameterControl, len(controls))
	copy(out, controls)
	return out
}

func (p *Params) field(key string) *int {
	switch key {
	case "max_pressure":
		return &p.MaxPressure
	case "diffusion":
		return &p.Diffusion
	case "air_decay":
		return &p.AirDecay
	case "wet_gain":
		return &p.WetGain
	case "dry_rate":
		return &p.DryRate
	case "wet_threshold":
		return &p.WetThreshold
	}
	return nil
}

// SetIntParameter sets the named parameter, clamped to its control bounds. It
// reports false for unknown keys.
func (p *Params) SetIntParameter(key string, value int) bool {
	f := p.field(key)
	if f == nil {
		return false
	}
	for _, c := range controls {
		if c.Key == key {
			value = clampInt(value, c.Min, c.Max)
			break
		}
	}
	*f = value
	return true
}

// Set parses value and assigns it to the named parameter.
func (p *Params) Set(key, value string) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("rule %s: %w", key, err)
	}
	if !p.SetIntParameter(key, v) {
		return fmt.Errorf("%w: %q", ErrUnknownParam, key)
	}
	return nil
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
