// SPDX-License-Identifier: EPL-2.0

package mixture

import (
	"fmt"
	"slices"
	"weak"

	"github.com/sirupsen/logrus"

	"github.com/ttftufj/binmix/asset"
	"github.com/ttftufj/binmix/audio"
	"github.com/ttftufj/binmix/spatial"
)

// Spatializer renders a mono signal at a direction into two channels at
// rate fs, using the HRTF dataset at hrtfPath.
type Spatializer interface {
	Spatialize(hrtfPath string, mono *audio.Signal, azimuth, elevation float64, fs int) (*audio.Signal, error)
	SampleRate(hrtfPath string) (int, error)
}

// Mixture combines a target Source with interferer Sources at a
// target-to-interferer ratio, optionally spatialised through an HRTF
// dataset.
//
// The mixture, target and interferer signals are computed on demand. Once
// written, they are read back from three files until the mixture or any of
// its sources changes. A Mixture is not safe for concurrent use.
type Mixture struct {
	target      *Source
	interferers []*Source
	hrtfs       string
	tir         float64
	fs          int
	filename    string
	peak        float64

	rendered bool
	// versions of target and interferers when the files were written
	versions []uint64

	spatializer Spatializer
	store       asset.Store
	log         logrus.FieldLogger
}

// NewMixture binds target and interferers by reference. Both are required;
// an empty, non-nil interferers slice is a mixture without interferers.
//
// The mixture rate is target's rate, the HRTF dataset's rate when hrtfs is
// set, or the WithMixtureFS value, in increasing precedence. Every source
// is moved to that rate and adopted by the mixture.
func NewMixture(target *Source, interferers []*Source, opts ...MixtureOption) (*Mixture, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: mixture needs a target", ErrValidation)
	}
	if interferers == nil {
		return nil, fmt.Errorf("%w: mixture needs an interferer list", ErrValidation)
	}
	if err := checkSources(interferers); err != nil {
		return nil, err
	}

	o := mixtureOptions{
		peak:  DefaultPeak,
		store: asset.Default(),
		log:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}
	if o.spatializer == nil {
		o.spatializer = spatial.NewHRTF(o.log)
	}

	m := &Mixture{
		target:      target,
		interferers: slices.Clone(interferers),
		tir:         o.tir,
		fs:          target.fs,
		filename:    o.filename,
		peak:        o.peak,
		spatializer: o.spatializer,
		store:       o.store,
		log:         o.log.WithField("mixture", o.filename),
	}

	if err := m.SetHRTFs(o.hrtfs); err != nil {
		return nil, err
	}
	if m.hrtfs != "" && o.fs == 0 {
		fs, err := m.spatializer.SampleRate(m.hrtfs)
		if err != nil {
			return nil, classify(err, m.hrtfs)
		}
		m.fs = fs
	}
	if o.fs > 0 {
		m.fs = o.fs
	}

	m.adopt(m.target)
	for _, s := range m.interferers {
		m.adopt(s)
	}
	m.invalidate()

	return m, nil
}

func checkSources(sources []*Source) error {
	for i, s := range sources {
		if s == nil {
			return fmt.Errorf("%w: interferer %d is nil", ErrValidation, i)
		}
	}
	return nil
}

// adopt forces s to the mixture rate and makes m its parent.
func (m *Mixture) adopt(s *Source) {
	s.parent = weak.Make(m)
	if s.fs != m.fs {
		// fs was validated when m.fs was set, and the parent already agrees
		_ = s.SetFS(m.fs)
	}
}

// release clears the parent of each source in old that m no longer holds.
func (m *Mixture) release(old ...*Source) {
	for _, s := range old {
		if s.Parent() == m && s != m.target && !slices.Contains(m.interferers, s) {
			s.parent = weak.Pointer[Mixture]{}
		}
	}
}

func (m *Mixture) Target() *Source  { return m.target }
func (m *Mixture) HRTFs() string    { return m.hrtfs }
func (m *Mixture) TIR() float64     { return m.tir }
func (m *Mixture) FS() int          { return m.fs }
func (m *Mixture) Filename() string { return m.filename }

// Interferers returns a copy of the interferer list.
func (m *Mixture) Interferers() []*Source {
	return slices.Clone(m.interferers)
}

// Files returns the paths of the mixture, target and interferer files.
// All are empty when the mixture has no filename.
func (m *Mixture) Files() (mix, target, interferer string) {
	return m.filename,
		asset.Derive(m.filename, asset.SuffixTarget),
		asset.Derive(m.filename, asset.SuffixInterferer)
}

// Rendered reports whether the written files match the current state of
// the mixture and of every source in it.
func (m *Mixture) Rendered() bool {
	if !m.rendered {
		return false
	}

	return slices.Equal(m.versions, m.sourceVersions())
}

func (m *Mixture) sourceVersions() []uint64 {
	v := make([]uint64, 0, len(m.interferers)+1)
	v = append(v, m.target.version)
	for _, s := range m.interferers {
		v = append(v, s.version)
	}
	return v
}

func (m *Mixture) invalidate() {
	m.rendered = false
	m.versions = nil
}

// SetTIR sets the target-to-interferer ratio in dB.
func (m *Mixture) SetTIR(db float64) error {
	if err := checkTIR(db); err != nil {
		return err
	}
	m.tir = db
	m.invalidate()
	return nil
}

// SetHRTFs sets the HRTF dataset. path must name an existing file, or be
// empty to disable spatialisation.
func (m *Mixture) SetHRTFs(path string) error {
	if path != "" && !m.store.Exists(path) {
		return fmt.Errorf("%w: hrtf dataset %s does not exist", ErrValidation, path)
	}
	m.hrtfs = path
	m.invalidate()
	return nil
}

// SetTarget replaces the target and adopts it. The old target is detached.
func (m *Mixture) SetTarget(s *Source) error {
	if s == nil {
		return fmt.Errorf("%w: mixture needs a target", ErrValidation)
	}
	old := m.target
	m.target = s
	m.adopt(s)
	m.release(old)
	m.invalidate()
	return nil
}

// SetInterferers replaces the interferers and adopts them. A nil or empty
// slice leaves the mixture without interferers. Sources dropped from the
// mixture are detached.
func (m *Mixture) SetInterferers(sources []*Source) error {
	if err := checkSources(sources); err != nil {
		return err
	}
	old := m.interferers
	m.interferers = slices.Clone(sources)
	for _, s := range m.interferers {
		m.adopt(s)
	}
	m.release(old...)
	m.invalidate()
	return nil
}

// SetFilename changes the base path without copying anything; use Write
// with a new filename to reuse rendered files.
func (m *Mixture) SetFilename(name string) {
	m.filename = name
	m.log = m.log.WithField("mixture", name)
	m.invalidate()
}

// SetFS changes the mixture rate and moves every source to it.
func (m *Mixture) SetFS(fs int) error {
	if err := positive("fs", fs); err != nil {
		return err
	}
	m.fs = fs
	m.invalidate()

	m.log.WithField("fs", fs).Debug("propagating sample rate to sources")

	for _, s := range append([]*Source{m.target}, m.interferers...) {
		if s.fs != fs {
			if err := s.SetFS(fs); err != nil {
				return err
			}
		}
	}

	return nil
}

// Copy returns an independent mixture with new sources. When m is
// rendered its three files are duplicated under the first _copy name whose
// files are all unused, and these become the files of the copy; the
// originals are not touched. A failed copy removes what it created.
func (m *Mixture) Copy() (c *Mixture, err error) {
	var created []string
	defer func() {
		if err != nil {
			m.discard(created...)
		}
	}()

	clone := func(s *Source) (*Source, error) {
		cs, err := s.Clone()
		if err != nil {
			return nil, err
		}
		if cs.filename != s.filename {
			created = append(created, cs.filename)
		}
		return cs, nil
	}

	target, err := clone(m.target)
	if err != nil {
		return nil, err
	}
	interferers := make([]*Source, len(m.interferers))
	for i, s := range m.interferers {
		if interferers[i], err = clone(s); err != nil {
			return nil, err
		}
	}

	c = &Mixture{
		target:      target,
		interferers: interferers,
		hrtfs:       m.hrtfs,
		tir:         m.tir,
		fs:          m.fs,
		filename:    m.filename,
		peak:        m.peak,
		spatializer: m.spatializer,
		store:       m.store,
		log:         m.log,
	}
	c.adopt(c.target)
	for _, s := range c.interferers {
		c.adopt(s)
	}

	if !m.Rendered() || m.filename == "" {
		return c, nil
	}

	base := asset.CopyName(m.filename, func(p string) bool {
		return slices.ContainsFunc(fileSet(p), m.store.Exists)
	})
	created = append(created, fileSet(base)...)
	if err := m.copyFiles(base); err != nil {
		return nil, err
	}

	c.filename = base
	c.log = m.log.WithField("mixture", base)
	c.rendered = true
	c.versions = c.sourceVersions()

	return c, nil
}

// fileSet lists the mixture, target and interferer paths for base.
func fileSet(base string) []string {
	return []string{
		base,
		asset.Derive(base, asset.SuffixTarget),
		asset.Derive(base, asset.SuffixInterferer),
	}
}

// discard removes files left by an abandoned copy.
func (m *Mixture) discard(paths ...string) {
	for _, p := range paths {
		if err := m.store.Remove(p); err != nil {
			m.log.WithError(err).WithField("file", p).Warn("could not remove partial copy")
		}
	}
}

// copyFiles duplicates the three rendered files to the names derived
// from base.
func (m *Mixture) copyFiles(base string) error {
	dst := fileSet(base)
	for i, src := range fileSet(m.filename) {
		if err := m.store.Copy(src, dst[i]); err != nil {
			return classify(err, src)
		}
	}

	return nil
}
