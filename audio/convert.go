// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// maxIdleReads bounds consecutive empty reads before Collect gives up.
const maxIdleReads = 100

// Collect drains src into a Signal. src is not closed.
//
// bufferSize is the number of float32 values read per call; it is rounded
// down to a whole number of frames (minimum one frame).
func Collect(src Source, bufferSize int) (*Signal, error) {
	channels := src.Channels()
	if channels < 1 {
		return nil, ErrInvalidChannels
	}

	frames := max(bufferSize/channels, 1)
	buf := make([]float32, frames*channels)
	out := &Signal{Channels: channels, Rate: src.SampleRate()}

	idle := 0
	for {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			idle = 0
			for i := range n {
				out.Data = append(out.Data, float64(buf[i]))
			}
		} else if err == nil {
			idle++
			if idle >= maxIdleReads {
				return nil, io.ErrNoProgress
			}
		}

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
	}

	// drop a trailing partial frame, if a decoder produced one
	out.Data = out.Data[:out.Frames()*channels]

	return out, nil
}

// Convert brings sig to the given sample rate and channel count. The rate is
// converted first, then the channel layout, through the streaming
// Resampler -> ChannelMixer pipeline. sig itself is never modified; when
// nothing needs to change a copy is returned.
func Convert(sig *Signal, rate, channels int) (*Signal, error) {
	if rate < 1 {
		return nil, ErrInvalidRate
	}
	if channels < 1 {
		return nil, ErrInvalidChannels
	}

	if sig.Rate == rate && sig.Channels == channels {
		return sig.Clone(), nil
	}

	var src Source = NewSignalSource(sig)
	if sig.Rate != rate {
		src = NewResampler(src, rate)
	}
	if sig.Channels != channels {
		src = NewChannelMixer(src, channels)
	}
	defer src.Close()

	out, err := Collect(src, 4096*channels)
	if err != nil {
		return nil, fmt.Errorf("converting %d Hz/%dch to %d Hz/%dch: %w",
			sig.Rate, sig.Channels, rate, channels, err)
	}
	out.Rate = rate

	return out, nil
}
