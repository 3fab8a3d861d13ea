// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteWAV stores interleaved samples as a 16-bit PCM WAV file under dir
// and returns its path. The test fails on any I/O error.
func WriteWAV(tb testing.TB, dir, name string, rate, channels int, samples []float64) string {
	tb.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		tb.Fatalf("creating %s: %v", path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, rate, 16, channels, 1)

	data := make([]int, len(samples))
	for i, v := range samples {
		v = math.Max(-1, math.Min(1, v))
		data[i] = int(math.Round(v * 32767))
	}

	buf := &goaudio.IntBuffer{
		Data:           data,
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: rate},
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		tb.Fatalf("writing %s: %v", path, err)
	}
	if err := enc.Close(); err != nil {
		tb.Fatalf("closing %s: %v", path, err)
	}

	return path
}

// Tone returns frames frames of a sine at frequency Hz and the given
// amplitude, copied to every channel.
func Tone(rate, channels, frames int, frequency, amplitude float64) []float64 {
	out := make([]float64, frames*channels)
	for f := range frames {
		v := amplitude * Sine(rate, frequency, f)
		for ch := range channels {
			out[f*channels+ch] = v
		}
	}

	return out
}
