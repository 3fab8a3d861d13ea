// SPDX-License-Identifier: EPL-2.0

package mixture

import (
	"fmt"
	"weak"

	vecmath "github.com/cwbudde/algo-vecmath"
	"github.com/sirupsen/logrus"

	"github.com/ttftufj/binmix/asset"
	"github.com/ttftufj/binmix/audio"
)

// Defaults of a Source created without a file.
const (
	DefaultFS       = 44100
	DefaultNumChans = 2
)

// Source is one sound origin: an audio file observed at a chosen sample
// rate and channel count, with a direction used for spatialisation.
//
// A Source converts on read and never modifies its file until Write is
// called. It is not safe for concurrent use.
type Source struct {
	filename    string
	azimuth     float64
	elevation   float64
	numChans    int
	precomposed bool
	fs          int

	rendered bool
	// version grows with every change and every write; mixtures compare it
	// to decide whether their rendered files still match their sources.
	version uint64

	parent weak.Pointer[Mixture]
	store  asset.Store
	log    logrus.FieldLogger
}

// NewSource creates a Source for filename. The file's sample rate and
// channel count are the defaults for fs and numchans. An empty filename
// gives an empty Source at DefaultFS with DefaultNumChans.
func NewSource(filename string, opts ...SourceOption) (*Source, error) {
	o := sourceOptions{
		store: asset.Default(),
		log:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}

	fs, numChans := DefaultFS, DefaultNumChans
	if filename != "" {
		info, err := o.store.Info(filename)
		if err != nil {
			return nil, classify(err, filename)
		}
		fs, numChans = info.Rate, info.Channels
	}
	if o.fs > 0 {
		fs = o.fs
	}
	if o.numChans > 0 {
		numChans = o.numChans
	}

	return &Source{
		filename:    filename,
		azimuth:     o.azimuth,
		elevation:   o.elevation,
		numChans:    numChans,
		precomposed: o.precomposed,
		fs:          fs,
		store:       o.store,
		log:         o.log.WithField("source", filename),
	}, nil
}

func (s *Source) Filename() string   { return s.filename }
func (s *Source) Azimuth() float64   { return s.azimuth }
func (s *Source) Elevation() float64 { return s.elevation }
func (s *Source) NumChans() int      { return s.numChans }
func (s *Source) Precomposed() bool  { return s.precomposed }
func (s *Source) FS() int            { return s.fs }

// Rendered reports whether the file already holds the signal at the
// current fs and numchans.
func (s *Source) Rendered() bool { return s.rendered }

// Parent is the mixture that currently holds s, or nil.
func (s *Source) Parent() *Mixture { return s.parent.Value() }

func (s *Source) invalidate() {
	s.rendered = false
	s.version++
}

func (s *Source) SetAzimuth(deg float64) error {
	if err := finite("azimuth", deg); err != nil {
		return err
	}
	s.azimuth = deg
	s.invalidate()
	return nil
}

func (s *Source) SetElevation(deg float64) error {
	if err := finite("elevation", deg); err != nil {
		return err
	}
	s.elevation = deg
	s.invalidate()
	return nil
}

func (s *Source) SetNumChans(n int) error {
	if err := positive("numchans", n); err != nil {
		return err
	}
	s.numChans = n
	s.invalidate()
	return nil
}

func (s *Source) SetPrecomposed(v bool) {
	s.precomposed = v
	s.invalidate()
}

// SetFilename points the source at another file. The file is not checked
// until it is read.
func (s *Source) SetFilename(name string) {
	s.filename = name
	s.invalidate()
}

// SetFS changes the observed sample rate. When s belongs to a mixture with
// a different rate, the mixture and all of its sources follow.
func (s *Source) SetFS(fs int) error {
	if err := positive("fs", fs); err != nil {
		return err
	}
	s.fs = fs
	s.invalidate()

	if p := s.parent.Value(); p != nil && p.fs != fs {
		s.log.WithField("fs", fs).Debug("propagating sample rate to mixture")
		return p.SetFS(fs)
	}

	return nil
}

// Signal reads the file as seen through the current fs and numchans:
// resampled first, then channel converted, when the file differs. A
// rendered source returns the file unchanged.
func (s *Source) Signal() (*audio.Signal, error) {
	if s.filename == "" {
		return nil, fmt.Errorf("%w: source has no file to read", ErrState)
	}

	sig, err := s.store.Read(s.filename)
	if err != nil {
		return nil, classify(err, s.filename)
	}

	if s.rendered || (sig.Rate == s.fs && sig.Channels == s.numChans) {
		return sig, nil
	}

	s.log.WithFields(logrus.Fields{
		"from_fs":       sig.Rate,
		"to_fs":         s.fs,
		"from_channels": sig.Channels,
		"to_channels":   s.numChans,
	}).Debug("converting on read")

	out, err := audio.Convert(sig, s.fs, s.numChans)
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", s.filename, err)
	}

	return out, nil
}

// Write peak-normalises the signal and stores it at filename, or at the
// current filename when filename is "". Afterwards the source refers to
// the written file and is rendered.
func (s *Source) Write(filename string) error {
	if filename == "" {
		filename = s.filename
	}
	if filename == "" {
		return fmt.Errorf("%w: source write needs a filename", ErrState)
	}

	sig, err := s.Signal()
	if err != nil {
		return err
	}
	normalize(s.log, DefaultPeak, sig)

	if err := s.store.Write(filename, sig); err != nil {
		return classify(err, filename)
	}

	s.filename = filename
	s.rendered = true
	s.version++
	s.log = s.log.WithField("source", filename)

	return nil
}

// Clone returns an independent copy without a parent. The file of a
// rendered source is duplicated under the first unused _copy name (see
// asset.CopyName) and the copy refers to the duplicate.
func (s *Source) Clone() (*Source, error) {
	c := &Source{
		filename:    s.filename,
		azimuth:     s.azimuth,
		elevation:   s.elevation,
		numChans:    s.numChans,
		precomposed: s.precomposed,
		fs:          s.fs,
		rendered:    s.rendered,
		store:       s.store,
		log:         s.log,
	}

	if s.rendered && s.filename != "" {
		dst := asset.CopyName(s.filename, s.store.Exists)
		if err := s.store.Copy(s.filename, dst); err != nil {
			return nil, classify(err, s.filename)
		}
		c.filename = dst
		c.log = s.log.WithField("source", dst)
	}

	return c, nil
}

// normalize scales sig in place so its absolute peak equals peak. Silence
// is left as it is.
func normalize(log logrus.FieldLogger, peak float64, signals ...*audio.Signal) {
	all := audio.Concat(signals...)
	if len(all) == 0 {
		return
	}

	top := vecmath.MaxAbs(all)
	if top == 0 {
		log.Warn("signal is silent; writing without normalisation")
		return
	}

	g := peak / top
	for _, sig := range signals {
		sig.Gain(g)
	}
}
