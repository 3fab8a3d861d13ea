// SPDX-License-Identifier: EPL-2.0

package audio

import "io"

// signalSource streams a Signal through the Source interface so in-memory
// audio can feed a Resampler or ChannelMixer.
type signalSource struct {
	sig *Signal
	pos int
}

// NewSignalSource returns a Source reading sig from the start.
func NewSignalSource(sig *Signal) Source {
	return &signalSource{sig: sig}
}

func (s *signalSource) SampleRate() int { return s.sig.Rate }
func (s *signalSource) Channels() int   { return s.sig.Channels }
func (s *signalSource) BufSize() int    { return 4096 }
func (s *signalSource) Close() error    { return nil }

func (s *signalSource) ReadSamples(dst []float32) (int, error) {
	if len(dst)%s.sig.Channels != 0 {
		return 0, ErrInvalidDstSize
	}

	remaining := len(s.sig.Data) - s.pos
	if remaining <= 0 {
		return 0, io.EOF
	}

	n := min(len(dst), remaining)
	for i := range n {
		dst[i] = float32(s.sig.Data[s.pos+i])
	}
	s.pos += n

	if s.pos >= len(s.sig.Data) {
		return n, io.EOF
	}

	return n, nil
}
