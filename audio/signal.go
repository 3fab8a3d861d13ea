// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// Signal is a fully materialised block of audio: Frames() frames of
// Channels interleaved float64 samples at Rate Hz.
type Signal struct {
	Data     []float64
	Channels int
	Rate     int
}

// NewSignal allocates a silent signal of the given shape.
func NewSignal(rate, channels, frames int) *Signal {
	return &Signal{
		Data:     make([]float64, frames*channels),
		Channels: channels,
		Rate:     rate,
	}
}

// Frames is the number of sample frames (rows) in the signal.
func (s *Signal) Frames() int {
	if s == nil || s.Channels == 0 {
		return 0
	}
	return len(s.Data) / s.Channels
}

// At returns the sample of channel ch in frame f.
func (s *Signal) At(f, ch int) float64 {
	return s.Data[f*s.Channels+ch]
}

// Clone returns a deep copy.
func (s *Signal) Clone() *Signal {
	out := &Signal{
		Data:     make([]float64, len(s.Data)),
		Channels: s.Channels,
		Rate:     s.Rate,
	}
	copy(out.Data, s.Data)

	return out
}

// SetLength returns a copy of s with exactly n frames: the first n frames
// when s is longer, s followed by silence when it is shorter.
func (s *Signal) SetLength(n int) *Signal {
	if n < 0 {
		n = 0
	}
	out := NewSignal(s.Rate, s.Channels, n)
	copy(out.Data, s.Data)

	return out
}

// RMS is the root mean square over every sample of every channel.
func (s *Signal) RMS() float64 {
	if len(s.Data) == 0 {
		return 0
	}

	return math.Sqrt(vecmath.DotProduct(s.Data, s.Data) / float64(len(s.Data)))
}

// Peak is the largest absolute sample value.
func (s *Signal) Peak() float64 {
	if len(s.Data) == 0 {
		return 0
	}

	return vecmath.MaxAbs(s.Data)
}

// Gain scales every sample in place.
func (s *Signal) Gain(g float64) {
	if len(s.Data) == 0 {
		return
	}
	vecmath.ScaleBlockInPlace(s.Data, g)
}

// Mix adds src into s sample by sample. When src is longer, s first grows
// with silence; s is never cropped.
func (s *Signal) Mix(src *Signal) error {
	if src.Channels != s.Channels {
		return fmt.Errorf("%w: %d and %d", ErrChannelMismatch, s.Channels, src.Channels)
	}

	if len(src.Data) > len(s.Data) {
		grown := make([]float64, len(src.Data))
		copy(grown, s.Data)
		s.Data = grown
	}

	if len(src.Data) > 0 {
		vecmath.AddBlockInPlace(s.Data[:len(src.Data)], src.Data)
	}

	return nil
}

// Sum returns a+b after both are brought to the longer of the two lengths.
func Sum(a, b *Signal) (*Signal, error) {
	n := max(a.Frames(), b.Frames())
	out := a.SetLength(n)
	if err := out.Mix(b.SetLength(n)); err != nil {
		return nil, err
	}

	return out, nil
}

// Concat joins the sample data of several signals into one slice. Only the
// values matter to callers, e.g. to find a shared peak.
func Concat(signals ...*Signal) []float64 {
	total := 0
	for _, s := range signals {
		total += len(s.Data)
	}

	out := make([]float64, 0, total)
	for _, s := range signals {
		out = append(out, s.Data...)
	}

	return out
}
