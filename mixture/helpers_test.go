// SPDX-License-Identifier: EPL-2.0

package mixture

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/ttftufj/binmix/asset"
	"github.com/ttftufj/binmix/audio"
	"github.com/ttftufj/binmix/internal/audiotest"
)

// fixture is a scratch directory with a logger and store wired for tests.
type fixture struct {
	t     *testing.T
	dir   string
	log   *logrus.Logger
	hook  *test.Hook
	store *asset.Files
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	return &fixture{
		t:     t,
		dir:   t.TempDir(),
		log:   log,
		hook:  hook,
		store: asset.NewFiles(nil, log),
	}
}

func (f *fixture) path(elem ...string) string {
	return filepath.Join(append([]string{f.dir}, elem...)...)
}

// tone writes a sine fixture and returns its path.
func (f *fixture) tone(name string, rate, channels, frames int, freq, amp float64) string {
	f.t.Helper()
	return audiotest.WriteWAV(f.t, f.dir, name, rate, channels, audiotest.Tone(rate, channels, frames, freq, amp))
}

func (f *fixture) source(path string, opts ...SourceOption) *Source {
	f.t.Helper()

	opts = append([]SourceOption{WithStore(f.store), WithLogger(f.log)}, opts...)
	s, err := NewSource(path, opts...)
	if err != nil {
		f.t.Fatalf("NewSource(%q) error = %v", path, err)
	}

	return s
}

func (f *fixture) mixture(target *Source, interferers []*Source, opts ...MixtureOption) *Mixture {
	f.t.Helper()

	opts = append([]MixtureOption{WithMixtureStore(f.store), WithMixtureLogger(f.log)}, opts...)
	m, err := NewMixture(target, interferers, opts...)
	if err != nil {
		f.t.Fatalf("NewMixture() error = %v", err)
	}

	return m
}

// hrtfFile creates an empty placeholder for a dataset served by a fake
// spatializer.
func (f *fixture) hrtfFile() string {
	f.t.Helper()

	path := f.path("hrtf.wav")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		f.t.Fatal(err)
	}

	return path
}

func (f *fixture) read(path string) *audio.Signal {
	f.t.Helper()

	sig, err := f.store.Read(path)
	if err != nil {
		f.t.Fatalf("reading %s: %v", path, err)
	}

	return sig
}

func (f *fixture) warnings() int {
	n := 0
	for _, e := range f.hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			n++
		}
	}
	return n
}

type spatializeCall struct {
	path      string
	channels  int
	azimuth   float64
	elevation float64
	fs        int
}

// fakeSpatializer pans a mono signal: left at full level, right at half.
type fakeSpatializer struct {
	rate  int
	calls []spatializeCall
}

func (f *fakeSpatializer) SampleRate(string) (int, error) {
	return f.rate, nil
}

func (f *fakeSpatializer) Spatialize(path string, mono *audio.Signal, az, el float64, fs int) (*audio.Signal, error) {
	f.calls = append(f.calls, spatializeCall{path, mono.Channels, az, el, fs})
	if mono.Channels != 1 {
		return nil, fmt.Errorf("fake spatializer got %d channels", mono.Channels)
	}

	out := audio.NewSignal(fs, 2, mono.Frames())
	for i, v := range mono.Data {
		out.Data[2*i] = v
		out.Data[2*i+1] = v / 2
	}

	return out, nil
}

func ratio(a, b *audio.Signal) float64 {
	return a.RMS() / b.RMS()
}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
