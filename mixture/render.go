// SPDX-License-Identifier: EPL-2.0

package mixture

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/ttftufj/binmix/asset"
	"github.com/ttftufj/binmix/audio"
)

// SignalT is the target branch: the rendered target, attenuated against
// the unattenuated interferers when tir < 0.
func (m *Mixture) SignalT() (*audio.Signal, error) {
	_, path, _ := m.Files()
	if sig, ok, err := m.cached(path); ok || err != nil {
		return sig, err
	}

	t, err := m.returnSource(m.target)
	if err != nil {
		return nil, err
	}
	if m.tir < 0 {
		i, err := m.sumInterferers()
		if err != nil {
			return nil, err
		}
		if err := m.balance(t, i, m.tir, "target"); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// SignalI is the interferer branch: the sum of all rendered interferers,
// attenuated against the unattenuated target when tir >= 0.
func (m *Mixture) SignalI() (*audio.Signal, error) {
	_, _, path := m.Files()
	if sig, ok, err := m.cached(path); ok || err != nil {
		return sig, err
	}

	i, err := m.sumInterferers()
	if err != nil {
		return nil, err
	}
	if m.tir >= 0 {
		t, err := m.returnSource(m.target)
		if err != nil {
			return nil, err
		}
		if err := m.balance(i, t, -m.tir, "interferer"); err != nil {
			return nil, err
		}
	}

	return i, nil
}

// Signal is the sum of both branches, each padded to the longer of the
// two.
func (m *Mixture) Signal() (*audio.Signal, error) {
	path, _, _ := m.Files()
	if sig, ok, err := m.cached(path); ok || err != nil {
		return sig, err
	}

	mix, _, _, err := m.render()
	return mix, err
}

// render computes all three signals, rendering every source once.
func (m *Mixture) render() (mix, t, i *audio.Signal, err error) {
	if t, err = m.returnSource(m.target); err != nil {
		return nil, nil, nil, err
	}
	if i, err = m.sumInterferers(); err != nil {
		return nil, nil, nil, err
	}

	// each side is scaled against the other's unscaled level
	if m.tir < 0 {
		err = m.balance(t, i, m.tir, "target")
	} else {
		err = m.balance(i, t, -m.tir, "interferer")
	}
	if err != nil {
		return nil, nil, nil, err
	}

	if mix, err = audio.Sum(t, i); err != nil {
		return nil, nil, nil, fmt.Errorf("mixing branches: %w", err)
	}

	return mix, t, i, nil
}

// cached reads path when the mixture is rendered and the file exists.
func (m *Mixture) cached(path string) (*audio.Signal, bool, error) {
	if !m.Rendered() || !m.store.Exists(path) {
		return nil, false, nil
	}

	sig, err := m.store.Read(path)
	if err != nil {
		return nil, true, classify(err, path)
	}
	m.log.WithField("file", path).Debug("cache hit")

	return sig, true, nil
}

// returnSource renders one source for mixing. Point sources are read as
// mono and spatialised when an HRTF dataset is set; everything else is
// read as stereo and used directly. The chosen channel count is stored on
// the source.
func (m *Mixture) returnSource(s *Source) (*audio.Signal, error) {
	spatialise := !s.precomposed && m.hrtfs != ""

	chans := 2
	if spatialise {
		chans = 1
	}
	if s.numChans != chans {
		if err := s.SetNumChans(chans); err != nil {
			return nil, err
		}
	}

	sig, err := s.Signal()
	if err != nil {
		return nil, err
	}
	if !spatialise {
		return sig, nil
	}

	out, err := m.spatializer.Spatialize(m.hrtfs, sig, s.azimuth, s.elevation, m.fs)
	if err != nil {
		return nil, fmt.Errorf("spatialising %s: %w", s.filename, classify(err, m.hrtfs))
	}

	return out, nil
}

// sumInterferers adds every rendered interferer into a stereo accumulator
// that only ever grows.
func (m *Mixture) sumInterferers() (*audio.Signal, error) {
	acc := audio.NewSignal(m.fs, 2, 0)
	for _, s := range m.interferers {
		sig, err := m.returnSource(s)
		if err != nil {
			return nil, err
		}
		if err := acc.Mix(sig); err != nil {
			return nil, fmt.Errorf("adding %s: %w", s.filename, err)
		}
	}

	return acc, nil
}

// balance scales sig so that rms(sig)/rms(ref) equals db in decibels.
// Scaling is skipped when either signal is silent.
func (m *Mixture) balance(sig, ref *audio.Signal, db float64, branch string) error {
	rs, rr := sig.RMS(), ref.RMS()
	if rs == 0 || rr == 0 {
		m.log.WithFields(logrus.Fields{
			"branch":  branch,
			"rms":     rs,
			"ref_rms": rr,
		}).Warn("silent signal; skipping tir scaling")
		return nil
	}

	g := math.Pow(10, db/20) * rr / rs
	if math.IsNaN(g) || math.IsInf(g, 0) {
		return fmt.Errorf("%w: %s gain for %v dB is %v", ErrNumeric, branch, db, g)
	}
	sig.Gain(g)

	m.log.WithFields(logrus.Fields{"branch": branch, "tir": m.tir, "gain": g}).
		Debug("applied tir gain")

	return nil
}

// Write materialises the mixture, target and interferer signals.
//
// When the mixture is already rendered, a new filename copies the existing
// files instead of recomputing, and filename "" (or the current one) does
// nothing. Otherwise all three signals are computed, scaled by one shared
// gain so their peak is the configured peak, and written. filename "" means
// the current filename.
func (m *Mixture) Write(filename string) error {
	if m.Rendered() {
		if filename == "" || filename == m.filename {
			m.log.Debug("files are up to date")
			return nil
		}

		if err := m.copyFiles(filename); err != nil {
			return err
		}
		m.filename = filename
		m.log = m.log.WithField("mixture", filename)
		return nil
	}

	if filename == "" {
		filename = m.filename
	}
	if filename == "" {
		return fmt.Errorf("%w: mixture write needs a filename", ErrState)
	}

	mix, t, i, err := m.render()
	if err != nil {
		return err
	}
	normalize(m.log, m.peak, mix, t, i)

	for _, f := range []struct {
		path string
		sig  *audio.Signal
	}{
		{filename, mix},
		{asset.Derive(filename, asset.SuffixTarget), t},
		{asset.Derive(filename, asset.SuffixInterferer), i},
	} {
		if err := m.store.Write(f.path, f.sig); err != nil {
			return classify(err, f.path)
		}
	}

	m.filename = filename
	m.log = m.log.WithField("mixture", filename)
	m.rendered = true
	m.versions = m.sourceVersions()
	m.log.WithField("frames", mix.Frames()).Debug("rendered mixture")

	return nil
}
