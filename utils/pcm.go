// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// PCMScale is the full-scale magnitude of a signed integer sample of the
// given bit depth, 2^(bits-1).
func PCMScale(bitDepth int) float64 {
	return math.Ldexp(1, bitDepth-1)
}

// FloatToPCM clamps x to [-1, 1] and rounds it to a signed integer sample.
// The positive side tops out at scale-1 so 1.0 does not overflow.
func FloatToPCM(x float64, bitDepth int) int {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	scale := PCMScale(bitDepth)
	v := math.Round(x * scale)
	if v > scale-1 {
		v = scale - 1
	}

	return int(v)
}

// PCMToFloat maps a signed integer sample back to [-1, 1).
func PCMToFloat(v int, bitDepth int) float64 {
	return float64(v) / PCMScale(bitDepth)
}
