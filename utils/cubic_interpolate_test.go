// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestCubicInterpolate_Knots(t *testing.T) {
	t.Parallel()

	windows := [][4]float32{
		{0, 1, 2, 3},
		{-0.5, 0.25, -0.75, 1},
		{1, 1, 1, 1},
		{0.3, -0.9, 0.9, -0.3},
	}

	for _, w := range windows {
		if got := CubicInterpolate(w[0], w[1], w[2], w[3], 0); got != w[1] {
			t.Errorf("%v at x=0 = %v, want %v", w, got, w[1])
		}
		if got := CubicInterpolate(w[0], w[1], w[2], w[3], 1); math.Abs(float64(got-w[2])) > 1e-5 {
			t.Errorf("%v at x=1 = %v, want %v", w, got, w[2])
		}
	}
}

func TestCubicInterpolate_Values(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		window [4]float32
		x      float32
		want   float32
	}{
		{"ramp quarter", [4]float32{1, 2, 3, 4}, 0.25, 2.25},
		{"ramp three quarters", [4]float32{-3, -2, -1, 0}, 0.75, -1.25},
		{"constant", [4]float32{0.4, 0.4, 0.4, 0.4}, 0.6, 0.4},
		// midpoint is (-y0 + 9y1 + 9y2 - y3) / 16
		{"midpoint", [4]float32{0.2, 0.6, -0.4, 1.0}, 0.5, (-0.2 + 9*0.6 + 9*-0.4 - 1.0) / 16},
		{"step midpoint", [4]float32{0, 0, 1, 1}, 0.5, 0.5},
		{"dip between equal knots", [4]float32{1, 0, 0, 1}, 0.5, -0.125},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := tt.window
			got := CubicInterpolate(w[0], w[1], w[2], w[3], tt.x)
			if math.Abs(float64(got-tt.want)) > 1e-5 {
				t.Errorf("CubicInterpolate(%v, %v) = %v, want %v", w, tt.x, got, tt.want)
			}
		})
	}
}

// A ramp is reproduced exactly anywhere in the window.
func TestCubicInterpolate_Linear(t *testing.T) {
	t.Parallel()

	for i := range 20 {
		x := float32(i) / 20
		got := CubicInterpolate(-1, 0, 1, 2, x)
		if math.Abs(float64(got-x)) > 1e-5 {
			t.Errorf("ramp at %v = %v", x, got)
		}
	}
}

func BenchmarkCubicInterpolate(b *testing.B) {
	var out float32
	b.ReportAllocs()

	for b.Loop() {
		out = CubicInterpolate(0.5, 1.0, 0.8, 0.3, 0.5)
	}

	_ = out
}

func TestCubicInterpolate_ZeroAllocs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping allocation test in short mode")
	}

	allocs := testing.AllocsPerRun(1000, func() {
		_ = CubicInterpolate(0.5, 1.0, 0.8, 0.3, 0.5)
	})
	if allocs > 0 {
		t.Errorf("CubicInterpolate allocated %v times, want 0", allocs)
	}
}
