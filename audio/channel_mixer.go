// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// ChannelMixer re-lays interleaved audio from src.Channels() to a fixed
// output channel count.
//
//   - same count: pass-through
//   - N -> 1: average of all input channels
//   - 1 -> M: the mono channel duplicated into every output channel
//   - N -> M, M < N: output channel c averages inputs c, c+M, c+2M, ...
//   - N -> M, M > N: output channel c repeats input c mod N
type ChannelMixer struct {
	src      Source
	channels int
	tmp      []float32
}

// NewChannelMixer wraps src. channels below one are treated as one.
func NewChannelMixer(src Source, channels int) *ChannelMixer {
	return &ChannelMixer{
		src:      src,
		channels: max(channels, 1),
		tmp:      make([]float32, 4096),
	}
}

// NewMonoMixer is a ChannelMixer that down-mixes to a single channel.
func NewMonoMixer(src Source) *ChannelMixer {
	return NewChannelMixer(src, 1)
}

func (m *ChannelMixer) SampleRate() int { return m.src.SampleRate() }
func (m *ChannelMixer) Channels() int   { return m.channels }
func (m *ChannelMixer) BufSize() int    { return m.src.BufSize() }
func (m *ChannelMixer) Close() error {
	err := m.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (m *ChannelMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	in := m.src.Channels()
	if in == m.channels {
		return m.src.ReadSamples(dst)
	}

	if len(dst)%m.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	frames := len(dst) / m.channels
	needed := frames * in

	// grow, never shrink
	if cap(m.tmp) < needed {
		m.tmp = make([]float32, max(needed, 8192))
	}
	m.tmp = m.tmp[:needed]

	n, err := m.src.ReadSamples(m.tmp)
	if n == 0 {
		return 0, err
	}
	got := n / in

	switch {
	case m.channels == 1:
		m.downmixMono(dst, got, in)
	case in == 1:
		for f := range got {
			v := m.tmp[f]
			out := dst[f*m.channels : (f+1)*m.channels]
			for c := range out {
				out[c] = v
			}
		}
	case m.channels < in:
		m.fold(dst, got, in)
	default:
		for f := range got {
			frame := m.tmp[f*in : (f+1)*in]
			out := dst[f*m.channels : (f+1)*m.channels]
			for c := range out {
				out[c] = frame[c%in]
			}
		}
	}

	return got * m.channels, err
}

func (m *ChannelMixer) downmixMono(dst []float32, frames, in int) {
	switch in {
	case 2:
		for f := range frames {
			idx := f << 1
			dst[f] = (m.tmp[idx] + m.tmp[idx+1]) * 0.5
		}
	default:
		inv := float32(1.0) / float32(in)
		for f := range frames {
			sum := float32(0)
			for _, v := range m.tmp[f*in : (f+1)*in] {
				sum += v
			}
			dst[f] = sum * inv
		}
	}
}

func (m *ChannelMixer) fold(dst []float32, frames, in int) {
	for f := range frames {
		frame := m.tmp[f*in : (f+1)*in]
		out := dst[f*m.channels : (f+1)*m.channels]
		for c := range out {
			sum := float32(0)
			count := 0
			for k := c; k < in; k += m.channels {
				sum += frame[k]
				count++
			}
			out[c] = sum / float32(count)
		}
	}
}
