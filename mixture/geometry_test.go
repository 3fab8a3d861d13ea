// SPDX-License-Identifier: EPL-2.0

package mixture

import "testing"

func TestMixture_AziSepAndElevation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		azimuths   []float64 // target first
		elevations []float64
		wantSep    float64
		wantEl     float64
	}{
		{"single source", []float64{30}, []float64{10}, 0, 10},
		{"signed span", []float64{-30, 45}, []float64{0, 20}, 75, 10},
		{"signed wide span", []float64{-90, 150}, []float64{0, 0}, 60, 0},
		{"unsigned wraps through zero", []float64{10, 350}, []float64{5, 5}, 20, 5},
		{"unsigned quarter", []float64{0, 90}, []float64{-10, 0}, 90, -5},
		{"three sources", []float64{-60, 0, 60}, []float64{0, 30, -30}, 120, 0},
		{"half circle folds to zero", []float64{-90, 90}, []float64{0, 0}, 0, 0},
		{"even count median", []float64{0, 10, 20, 30}, []float64{0, 10, 40, 90}, 150, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			sources := make([]*Source, len(tt.azimuths))
			for i := range sources {
				sources[i] = f.source("", WithAzimuth(tt.azimuths[i]), WithElevation(tt.elevations[i]))
			}
			m := f.mixture(sources[0], sources[1:])

			if got := m.AziSep(); !near(got, tt.wantSep, 1e-9) {
				t.Errorf("AziSep() = %v, want %v", got, tt.wantSep)
			}
			if got := m.Elevation(); !near(got, tt.wantEl, 1e-9) {
				t.Errorf("Elevation() = %v, want %v", got, tt.wantEl)
			}
		})
	}
}

func TestMixture_AziSepDoesNotInvalidate(t *testing.T) {
	t.Parallel()

	_, m := scene(t)
	if err := m.Write(""); err != nil {
		t.Fatal(err)
	}

	_ = m.AziSep()
	_ = m.Elevation()
	if !m.Rendered() {
		t.Error("reading the geometry invalidated the mixture")
	}
}
