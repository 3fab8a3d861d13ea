// SPDX-License-Identifier: EPL-2.0

package spatial

import (
	"fmt"
	"sync"

	vecmath "github.com/cwbudde/algo-vecmath"
	"github.com/sirupsen/logrus"

	"github.com/ttftufj/binmix/audio"
)

type responseKey struct {
	path string
	rate int
}

// HRTF spatialises mono signals with datasets loaded from disk. Datasets,
// and their responses resampled to each requested rate, are cached per path
// for the lifetime of the HRTF. It is safe for concurrent use.
type HRTF struct {
	mu        sync.Mutex
	datasets  map[string]*Dataset
	responses map[responseKey]*Dataset
	log       logrus.FieldLogger
}

// NewHRTF returns an empty spatializer. A nil log means the logrus
// standard logger.
func NewHRTF(log logrus.FieldLogger) *HRTF {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &HRTF{
		datasets:  make(map[string]*Dataset),
		responses: make(map[responseKey]*Dataset),
		log:       log,
	}
}

// Dataset returns the dataset at path, loading it on first use.
func (h *HRTF) Dataset(path string) (*Dataset, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.dataset(path)
}

func (h *HRTF) dataset(path string) (*Dataset, error) {
	if ds, ok := h.datasets[path]; ok {
		return ds, nil
	}

	ds, err := LoadDataset(path)
	if err != nil {
		return nil, err
	}
	h.datasets[path] = ds

	h.log.WithFields(logrus.Fields{
		"file":       path,
		"rate":       ds.Rate,
		"directions": len(ds.Directions),
		"taps":       len(ds.Left[0]),
	}).Debug("loaded hrtf dataset")

	return ds, nil
}

// SampleRate is the native rate of the dataset at path.
func (h *HRTF) SampleRate(path string) (int, error) {
	ds, err := h.Dataset(path)
	if err != nil {
		return 0, err
	}

	return ds.Rate, nil
}

// at returns the dataset at path with its responses at rate.
func (h *HRTF) at(path string, rate int) (*Dataset, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ds, err := h.dataset(path)
	if err != nil {
		return nil, err
	}
	if ds.Rate == rate {
		return ds, nil
	}

	key := responseKey{path: path, rate: rate}
	if r, ok := h.responses[key]; ok {
		return r, nil
	}

	r, err := resampleDataset(ds, rate)
	if err != nil {
		return nil, err
	}
	h.responses[key] = r

	h.log.WithFields(logrus.Fields{"file": path, "from": ds.Rate, "to": rate}).
		Debug("resampled hrtf dataset")

	return r, nil
}

func resampleDataset(ds *Dataset, rate int) (*Dataset, error) {
	out := &Dataset{
		Rate:       rate,
		Directions: ds.Directions,
		Left:       make([][]float64, len(ds.Directions)),
		Right:      make([][]float64, len(ds.Directions)),
	}

	convert := func(ir []float64) ([]float64, error) {
		sig, err := audio.Convert(&audio.Signal{Data: ir, Channels: 1, Rate: ds.Rate}, rate, 1)
		if err != nil {
			return nil, err
		}
		return sig.Data, nil
	}

	var err error
	for i := range ds.Directions {
		if out.Left[i], err = convert(ds.Left[i]); err != nil {
			return nil, fmt.Errorf("resampling hrtf: %w", err)
		}
		if out.Right[i], err = convert(ds.Right[i]); err != nil {
			return nil, fmt.Errorf("resampling hrtf: %w", err)
		}
	}

	// keep both ears the same length
	for i := range ds.Directions {
		n := min(len(out.Left[i]), len(out.Right[i]))
		out.Left[i], out.Right[i] = out.Left[i][:n], out.Right[i][:n]
	}

	return out, nil
}

// Spatialize convolves mono with the left and right responses nearest to
// (azimuth, elevation), at rate fs. The result has two channels and
// len(mono)+taps-1 frames.
func (h *HRTF) Spatialize(path string, mono *audio.Signal, azimuth, elevation float64, fs int) (*audio.Signal, error) {
	if mono.Channels != 1 {
		return nil, fmt.Errorf("%w: got %d channels", ErrNotMono, mono.Channels)
	}
	if fs < 1 {
		return nil, audio.ErrInvalidRate
	}

	in := mono
	if mono.Rate != fs {
		var err error
		if in, err = audio.Convert(mono, fs, 1); err != nil {
			return nil, fmt.Errorf("resampling input: %w", err)
		}
	}

	ds, err := h.at(path, fs)
	if err != nil {
		return nil, err
	}
	idx := ds.Nearest(azimuth, elevation)

	h.log.WithFields(logrus.Fields{
		"azimuth":   azimuth,
		"elevation": elevation,
		"nearest":   ds.Directions[idx],
	}).Debug("spatialising source")

	left := Convolve(in.Data, ds.Left[idx])
	right := Convolve(in.Data, ds.Right[idx])

	out := audio.NewSignal(fs, 2, len(left))
	for f := range left {
		out.Data[2*f] = left[f]
		out.Data[2*f+1] = right[f]
	}

	return out, nil
}

// Convolve is the full linear convolution of x and h, len(x)+len(h)-1
// samples long. Either input empty gives an empty result.
func Convolve(x, h []float64) []float64 {
	if len(x) == 0 || len(h) == 0 {
		return []float64{}
	}

	m := len(h)
	rev := make([]float64, m)
	for i, v := range h {
		rev[m-1-i] = v
	}

	out := make([]float64, len(x)+m-1)
	for n := range out {
		lo := max(0, n-m+1)
		hi := min(n, len(x)-1)
		off := m - 1 - n
		out[n] = vecmath.DotProduct(x[lo:hi+1], rev[off+lo:off+hi+1])
	}

	return out
}
