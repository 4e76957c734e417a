package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.0},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	// Unsorted input must not matter.
	values := []float64{40, 10, 30, 20}
	d := Describe(values)

	if math.Abs(d.Mean-25) > 1e-9 {
		t.Errorf("mean = %v, want 25", d.Mean)
	}
	// Population std of {10,20,30,40} is sqrt(125).
	if math.Abs(d.Std-math.Sqrt(125)) > 1e-9 {
		t.Errorf("std = %v, want %v", d.Std, math.Sqrt(125))
	}
	if d.Min != 10 || d.Max != 40 {
		t.Errorf("min/max = %v/%v, want 10/40", d.Min, d.Max)
	}
	if values[0] != 40 {
		t.Error("Describe must not reorder its input")
	}
}

func TestDescribeEmpty(t *testing.T) {
	if d := Describe(nil); d != (Distribution{}) {
		t.Errorf("empty sample = %+v, want zero value", d)
	}
}
