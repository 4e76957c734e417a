package main

import (
	"math"

	"github.com/pthm-cable/officerage/autopilot"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Integer bool    // rounded before it is applied
}

// ParamVector holds the set of all tunable autopilot parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard parameter set.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "lookahead", Min: 2, Max: 40, Integer: true},
			{Name: "margin", Min: 0, Max: 20},
			{Name: "trap_penalty", Min: 0, Max: 200},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp bounds every value and rounds integer parameters.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := math.Max(spec.Min, math.Min(spec.Max, v[i]))
		if spec.Integer {
			val = math.Round(val)
		}
		clamped[i] = val
	}
	return clamped
}

// Options converts parameter values to pilot options. Order must match Specs.
func (pv *ParamVector) Options(values []float64) autopilot.Options {
	c := pv.Clamp(values)
	return autopilot.Options{
		Lookahead:   int(c[0]),
		Margin:      float32(c[1]),
		TrapPenalty: float32(c[2]),
	}
}

// Extract reads parameter values from pilot options.
func (pv *ParamVector) Extract(o autopilot.Options) []float64 {
	return []float64{float64(o.Lookahead), float64(o.Margin), float64(o.TrapPenalty)}
}
