// SPDX-License-Identifier: EPL-2.0

package mixture

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/ttftufj/binmix/asset"
)

// DefaultPeak is the absolute peak written files are normalised to.
const DefaultPeak = 0.99

type sourceOptions struct {
	azimuth     float64
	elevation   float64
	fs          int
	numChans    int
	precomposed bool
	store       asset.Store
	log         logrus.FieldLogger
}

// SourceOption configures NewSource.
type SourceOption func(*sourceOptions) error

// WithAzimuth sets the azimuth in degrees.
func WithAzimuth(deg float64) SourceOption {
	return func(o *sourceOptions) error {
		if err := finite("azimuth", deg); err != nil {
			return err
		}
		o.azimuth = deg
		return nil
	}
}

// WithElevation sets the elevation in degrees.
func WithElevation(deg float64) SourceOption {
	return func(o *sourceOptions) error {
		if err := finite("elevation", deg); err != nil {
			return err
		}
		o.elevation = deg
		return nil
	}
}

// WithFS overrides the sample rate the source is observed at.
func WithFS(fs int) SourceOption {
	return func(o *sourceOptions) error {
		if err := positive("fs", fs); err != nil {
			return err
		}
		o.fs = fs
		return nil
	}
}

// WithNumChans overrides the channel count the source is observed at.
func WithNumChans(n int) SourceOption {
	return func(o *sourceOptions) error {
		if err := positive("numchans", n); err != nil {
			return err
		}
		o.numChans = n
		return nil
	}
}

// WithPrecomposed marks the source as already spatial.
func WithPrecomposed(v bool) SourceOption {
	return func(o *sourceOptions) error {
		o.precomposed = v
		return nil
	}
}

// WithStore sets the file access used by the source.
func WithStore(s asset.Store) SourceOption {
	return func(o *sourceOptions) error {
		if s == nil {
			return fmt.Errorf("%w: nil store", ErrValidation)
		}
		o.store = s
		return nil
	}
}

func WithLogger(l logrus.FieldLogger) SourceOption {
	return func(o *sourceOptions) error {
		if l == nil {
			return fmt.Errorf("%w: nil logger", ErrValidation)
		}
		o.log = l
		return nil
	}
}

type mixtureOptions struct {
	filename    string
	fs          int
	hrtfs       string
	tir         float64
	peak        float64
	spatializer Spatializer
	store       asset.Store
	log         logrus.FieldLogger
}

// MixtureOption configures NewMixture.
type MixtureOption func(*mixtureOptions) error

// WithFilename sets the base path of the rendered mixture.
func WithFilename(name string) MixtureOption {
	return func(o *mixtureOptions) error {
		o.filename = name
		return nil
	}
}

// WithMixtureFS sets the mixture sample rate explicitly. It takes
// precedence over the rate of the HRTF dataset.
func WithMixtureFS(fs int) MixtureOption {
	return func(o *mixtureOptions) error {
		if err := positive("fs", fs); err != nil {
			return err
		}
		o.fs = fs
		return nil
	}
}

// WithHRTFs sets the HRTF dataset used to spatialise point sources. The
// file must exist; this is checked by NewMixture.
func WithHRTFs(path string) MixtureOption {
	return func(o *mixtureOptions) error {
		o.hrtfs = path
		return nil
	}
}

// WithTIR sets the target-to-interferer ratio in dB.
func WithTIR(db float64) MixtureOption {
	return func(o *mixtureOptions) error {
		if err := checkTIR(db); err != nil {
			return err
		}
		o.tir = db
		return nil
	}
}

// WithPeak sets the absolute peak written files are normalised to.
func WithPeak(peak float64) MixtureOption {
	return func(o *mixtureOptions) error {
		if math.IsNaN(peak) || peak <= 0 || peak > 1 {
			return fmt.Errorf("%w: peak %v outside (0, 1]", ErrValidation, peak)
		}
		o.peak = peak
		return nil
	}
}

func WithSpatializer(s Spatializer) MixtureOption {
	return func(o *mixtureOptions) error {
		if s == nil {
			return fmt.Errorf("%w: nil spatializer", ErrValidation)
		}
		o.spatializer = s
		return nil
	}
}

func WithMixtureStore(s asset.Store) MixtureOption {
	return func(o *mixtureOptions) error {
		if s == nil {
			return fmt.Errorf("%w: nil store", ErrValidation)
		}
		o.store = s
		return nil
	}
}

func WithMixtureLogger(l logrus.FieldLogger) MixtureOption {
	return func(o *mixtureOptions) error {
		if l == nil {
			return fmt.Errorf("%w: nil logger", ErrValidation)
		}
		o.log = l
		return nil
	}
}

func finite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be finite, got %v", ErrValidation, name, v)
	}
	return nil
}

func positive(name string, v int) error {
	if v < 1 {
		return fmt.Errorf("%w: %s must be positive, got %d", ErrValidation, name, v)
	}
	return nil
}

func checkTIR(db float64) error {
	if math.IsNaN(db) || math.IsInf(db, 0) {
		return fmt.Errorf("%w: %w: tir must be finite, got %v", ErrValidation, ErrNumeric, db)
	}
	return nil
}
