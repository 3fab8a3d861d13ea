// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ttftufj/binmix/utils"
)

// Resampler streams src at a new sample rate using Catmull-Rom cubic
// interpolation over a four-frame window. The channel count is preserved.
// Downsampling runs the input through a one-pole low-pass first.
//
// Output frame k sits at source position k*srcRate/dstRate, starting on
// source frame 0, and the stream ends once that position passes the last
// source frame. N input frames give ceil(N*dstRate/srcRate) output frames.
type Resampler struct {
	src      Source
	srcRate  int
	dstRate  int
	channels int

	// window[0..3] = frames t-1, t0, t+1, t+2
	window [4][]float32
	valid  [4]bool

	// position between window[1] and window[2] is acc/dstRate
	acc    int
	srcBuf []float32
	primed bool
	eof    bool // source exhausted
	done   bool // io.EOF already reported

	lowpass bool
	alpha   float32
	state   []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()

	r := &Resampler{
		src:      src,
		srcRate:  src.SampleRate(),
		dstRate:  dstRate,
		channels: channels,
		srcBuf:   make([]float32, channels),
		lowpass:  src.SampleRate() > dstRate,
		alpha:    0.5,
		state:    make([]float32, channels),
	}
	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }
func (r *Resampler) Close() error {
	err := r.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (r *Resampler) filter(frame []float32) {
	if !r.lowpass {
		return
	}
	for c := range frame {
		frame[c] = r.alpha*frame[c] + (1-r.alpha)*r.state[c]
		r.state[c] = frame[c]
	}
}

// readFrame loads the next source frame into dst. ok is false once the
// source is exhausted.
func (r *Resampler) readFrame(dst []float32) (ok bool, err error) {
	if r.eof {
		return false, nil
	}

	for range maxIdleReads {
		n, err := r.src.ReadSamples(r.srcBuf)
		if n > 0 {
			copy(dst, r.srcBuf[:n])
			if !r.primed {
				copy(r.state, dst)
			}
			r.filter(dst)
		}

		switch {
		case err == io.EOF:
			r.eof = true
			return n > 0, nil
		case err != nil:
			return false, fmt.Errorf("%w", err)
		case n > 0:
			return true, nil
		}
	}

	return false, io.ErrNoProgress
}

// prime loads source frames 0..2 into window[1..3]. It reports io.EOF
// only when the source holds no frame at all.
func (r *Resampler) prime() error {
	for i := 1; i < len(r.window); i++ {
		ok, err := r.readFrame(r.window[i])
		if err != nil {
			return err
		}
		r.valid[i] = ok
		r.primed = true
		if !ok {
			break
		}
	}

	if !r.valid[1] {
		return io.EOF
	}

	return nil
}

// advance shifts the window by one source frame.
func (r *Resampler) advance() error {
	copy(r.window[0], r.window[1])
	copy(r.window[1], r.window[2])
	copy(r.window[2], r.window[3])
	r.valid[0], r.valid[1], r.valid[2] = r.valid[1], r.valid[2], r.valid[3]

	r.valid[3] = false
	if !r.valid[2] {
		return nil
	}

	ok, err := r.readFrame(r.window[3])
	if err != nil {
		return err
	}
	r.valid[3] = ok

	return nil
}

// ReadSamples produces interleaved samples at the destination rate.
// len(dst) must be a multiple of Channels().
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if r.done {
		return 0, io.EOF
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			r.done = err == io.EOF
			return 0, err
		}
	}

	written := 0
	want := len(dst) / r.channels

	for written < want {
		for r.acc >= r.dstRate {
			r.acc -= r.dstRate
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		// window[1] is past the last source frame
		if !r.valid[1] {
			r.done = true
			return written * r.channels, io.EOF
		}

		x := float32(r.acc) / float32(r.dstRate)
		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range out {
			y1 := r.window[1][c]
			y0, y2 := y1, y1
			if r.valid[0] {
				y0 = r.window[0][c]
			}
			if r.valid[2] {
				y2 = r.window[2][c]
			}
			y3 := y2
			if r.valid[3] {
				y3 = r.window[3][c]
			}
			out[c] = utils.CubicInterpolate(y0, y1, y2, y3, x)
		}

		written++
		r.acc += r.srcRate
	}

	return written * r.channels, nil
}
