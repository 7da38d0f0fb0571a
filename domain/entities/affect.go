package entities

import "sort"

// AffectiveState maps named affect dimensions ("curiosity", "confidence",
// "joy", ...) to intensities in [0,1]. Keys are open-ended: any dimension
// name is accepted, unknown ones are simply carried through the codec.
type AffectiveState map[string]float64

// Clamped returns a copy with every intensity clamped to [0,1].
func (a AffectiveState) Clamped() AffectiveState {
	out := make(AffectiveState, len(a))
	for name, v := range a {
		out[name] = ClampUnit(v)
	}
	return out
}

// SortedDimensions returns the dimension names in lexical order. The codec
// serializes dimensions in this order so that encoding is deterministic.
func (a AffectiveState) SortedDimensions() []string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AffectLevel is a single affect dimension quantized to a 4-bit level
// (0..15). This is the form that survives the wire round trip.
type AffectLevel struct {
	Name  string `json:"name"`
	Level uint8  `json:"level"`
}

// QuantizeAffect converts an affective state into ordered 4-bit levels.
func QuantizeAffect(a AffectiveState) []AffectLevel {
	clamped := a.Clamped()
	names := clamped.SortedDimensions()
	levels := make([]AffectLevel, 0, len(names))
	for _, name := range names {
		levels = append(levels, AffectLevel{
			Name:  name,
			Level: uint8(clamped[name]*15 + 0.5),
		})
	}
	return levels
}

// DequantizeAffect reverses QuantizeAffect up to quantization error.
func DequantizeAffect(levels []AffectLevel) AffectiveState {
	out := make(AffectiveState, len(levels))
	for _, l := range levels {
		out[l.Name] = float64(l.Level) / 15
	}
	return out
}
