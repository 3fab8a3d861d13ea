// SPDX-License-Identifier: EPL-2.0

package mixture

import (
	"math"
	"slices"
)

// AziSep is the angular separation in degrees, in [0, 180), between the
// widest-spaced sources of the mixture.
//
// Azimuths are read in the -179..180 convention when any of them is
// negative, where the span is max-min, and in the 0..359 convention
// otherwise, where the span wraps through 0 as 360-max+min.
func (m *Mixture) AziSep() float64 {
	az := make([]float64, 0, len(m.interferers)+1)
	az = append(az, m.target.azimuth)
	for _, s := range m.interferers {
		az = append(az, s.azimuth)
	}

	lo, hi := slices.Min(az), slices.Max(az)

	span := 360 - hi + lo
	if lo < 0 {
		span = hi - lo
	}

	sep := math.Mod(span, 180)
	if sep < 0 {
		sep += 180
	}

	return sep
}

// Elevation is the median elevation of target and interferers.
func (m *Mixture) Elevation() float64 {
	el := make([]float64, 0, len(m.interferers)+1)
	el = append(el, m.target.elevation)
	for _, s := range m.interferers {
		el = append(el, s.elevation)
	}

	return median(el)
}

func median(v []float64) float64 {
	s := slices.Clone(v)
	slices.Sort(s)

	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}

	return (s[n/2-1] + s[n/2]) / 2
}
