// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"io"
	"testing"
)

type mockOggVorbisReader struct {
	sampleRate int
	channels   int
	values     []float32
}

func (m *mockOggVorbisReader) SampleRate() int { return m.sampleRate }
func (m *mockOggVorbisReader) Channels() int   { return m.channels }

func (m *mockOggVorbisReader) Read(p []float32) (int, error) {
	if len(m.values) == 0 {
		return 0, io.EOF
	}
	n := copy(p, m.values)
	m.values = m.values[n:]
	return n, nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	_, err := Decoder{}.Decode(bytes.NewReader([]byte("This is not Ogg Vorbis data")))
	if err == nil {
		t.Error("Decode() error = nil, want error for invalid data")
	}
}

func TestSource_ReadSamples_WholeFrames(t *testing.T) {
	t.Parallel()

	mock := &mockOggVorbisReader{
		sampleRate: 44100,
		channels:   2,
		values:     []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6},
	}
	src := &source{dec: mock, sampleRate: 44100, channels: 2}

	// 5 slots hold two whole stereo frames
	buf := make([]float32, 5)
	n, err := src.ReadSamples(buf)
	if err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n != 4 {
		t.Fatalf("ReadSamples() n = %d, want 4", n)
	}
	if buf[3] != 0.4 {
		t.Errorf("buf[3] = %v, want 0.4", buf[3])
	}

	n, _ = src.ReadSamples(buf)
	if n != 2 {
		t.Errorf("second ReadSamples() n = %d, want 2", n)
	}

	n, err = src.ReadSamples(buf)
	if n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() at end = (%d, %v), want (0, EOF)", n, err)
	}
}

func TestSource_ReadSamples_TooSmall(t *testing.T) {
	t.Parallel()

	src := &source{dec: &mockOggVorbisReader{channels: 2, values: []float32{1, 1}}, channels: 2}

	n, err := src.ReadSamples(make([]float32, 1))
	if n != 0 || err != nil {
		t.Errorf("ReadSamples(1 slot) = (%d, %v), want (0, nil)", n, err)
	}
}
