// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/ttftufj/binmix/internal/audiotest"
)

func drain(t *testing.T, src Source, bufSize int) []float32 {
	t.Helper()

	buf := make([]float32, bufSize)
	var out []float32
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
}

func TestResampler_Metadata(t *testing.T) {
	t.Parallel()

	r := NewResampler(audiotest.NewSilentSource(44100, 2, 1000), 8000)

	if r.SampleRate() != 8000 {
		t.Errorf("SampleRate() = %d, want 8000", r.SampleRate())
	}
	if r.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", r.Channels())
	}
}

func TestResampler_Length(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		from, to int
		frames   int
		want     int
	}{
		{"down 48k->44.1k", 48000, 44100, 48000, 44100},
		{"up 22.05k->44.1k", 22050, 44100, 22050, 44100},
		{"down 44.1k->8k", 44100, 8000, 44100, 8000},
		{"up 8k->48k", 8000, 48000, 8000, 48000},
		{"same rate", 16000, 16000, 16000, 16000},
		{"partial second rounds up", 44100, 8000, 1000, 182},
		{"short upsample", 8000, 16000, 3, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := audiotest.NewSineSource(tt.from, 1, tt.frames, 440)
			got := drain(t, NewResampler(src, tt.to), 1024)

			if len(got) != tt.want {
				t.Errorf("resampled %d frames, want %d", len(got), tt.want)
			}
			for i, s := range got {
				if s < -1.5 || s > 1.5 {
					t.Fatalf("sample %d = %v, outside [-1.5, 1.5]", i, s)
				}
			}
		})
	}
}

// Output frame 0 is source frame 0, and every output landing on a source
// frame reproduces it.
func TestResampler_Alignment(t *testing.T) {
	t.Parallel()

	src := audiotest.NewMockSource(8000, 2, 50, func(frame int, ch int) float32 {
		return float32(frame) * 0.01 * float32(ch+1)
	})
	got := drain(t, NewResampler(src, 24000), 96)

	if len(got) != 150*2 {
		t.Fatalf("resampled %d values, want %d", len(got), 150*2)
	}
	for k := 0; k < 150; k += 3 {
		for ch := range 2 {
			want := float32(k/3) * 0.01 * float32(ch+1)
			if d := got[2*k+ch] - want; d > 1e-6 || d < -1e-6 {
				t.Errorf("frame %d ch %d = %v, want source frame %d = %v", k, ch, got[2*k+ch], k/3, want)
			}
		}
	}
	// between knots a ramp is reproduced exactly
	if d := got[2*31] - 0.1033333; d > 1e-5 || d < -1e-5 {
		t.Errorf("frame 31 = %v, want 0.10333", got[2*31])
	}
}

func TestResampler_ConstantStaysConstant(t *testing.T) {
	t.Parallel()

	src := audiotest.NewMockSource(44100, 2, 1000, func(_ int, ch int) float32 {
		if ch == 0 {
			return 0.3
		}
		return 0.7
	})
	got := drain(t, NewResampler(src, 22050), 64)

	if len(got)%2 != 0 {
		t.Fatalf("got %d values, not whole stereo frames", len(got))
	}
	for f := 0; f < len(got); f += 2 {
		if math.Abs(float64(got[f]-0.3)) > 1e-5 || math.Abs(float64(got[f+1]-0.7)) > 1e-5 {
			t.Fatalf("frame %d = (%v, %v), want (0.3, 0.7)", f/2, got[f], got[f+1])
		}
	}
}

func TestResampler_EOFIsSticky(t *testing.T) {
	t.Parallel()

	r := NewResampler(audiotest.NewSilentSource(44100, 1, 100), 8000)

	if got := drain(t, r, 1024); len(got) == 0 {
		t.Fatal("no samples before EOF")
	}

	for range 3 {
		n, err := r.ReadSamples(make([]float32, 16))
		if n != 0 || err != io.EOF {
			t.Errorf("after EOF ReadSamples() = (%d, %v), want (0, EOF)", n, err)
		}
	}
}

func TestResampler_EmptySource(t *testing.T) {
	t.Parallel()

	r := NewResampler(audiotest.NewSilentSource(44100, 1, 0), 8000)

	n, err := r.ReadSamples(make([]float32, 16))
	if n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() = (%d, %v), want (0, EOF)", n, err)
	}
}

func TestResampler_SingleFrame(t *testing.T) {
	t.Parallel()

	src := audiotest.NewConstantSource(8000, 1, 1, 0.25)
	got := drain(t, NewResampler(src, 16000), 16)

	if len(got) == 0 {
		t.Fatal("single-frame source produced nothing")
	}
	for i, v := range got {
		if v != 0.25 {
			t.Errorf("sample %d = %v, want 0.25", i, v)
		}
	}
}

func TestResampler_InvalidDstSize(t *testing.T) {
	t.Parallel()

	r := NewResampler(audiotest.NewSilentSource(44100, 2, 1000), 8000)

	if _, err := r.ReadSamples(make([]float32, 7)); !errors.Is(err, ErrInvalidDstSize) {
		t.Errorf("ReadSamples() error = %v, want ErrInvalidDstSize", err)
	}
}

func TestResampler_MultiChannelFrames(t *testing.T) {
	t.Parallel()

	src := audiotest.NewMockSource(44100, 6, 1000, func(_ int, ch int) float32 {
		return float32(ch) * 0.1
	})
	r := NewResampler(src, 8000)

	n, err := r.ReadSamples(make([]float32, 60))
	if err != nil && err != io.EOF {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n%6 != 0 {
		t.Errorf("ReadSamples() n = %d, not a multiple of 6", n)
	}
}

func BenchmarkResampler_Downsample(b *testing.B) {
	src := audiotest.NewSineSource(44100, 2, 100000, 440)
	buf := make([]float32, 4096)

	b.ReportAllocs()

	for b.Loop() {
		src.Reset()
		r := NewResampler(src, 8000)
		for {
			if _, err := r.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
