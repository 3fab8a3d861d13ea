// SPDX-License-Identifier: EPL-2.0

package binmix

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ttftufj/binmix/mixture"
)

// Placement is one input file of a Scene and where it sits.
type Placement struct {
	Path      string
	Azimuth   float64
	Elevation float64
	// Precomposed marks a file that is already binaural and must not be
	// spatialised.
	Precomposed bool
}

// Scene describes a mixture to render from files.
type Scene struct {
	Target      Placement
	Interferers []Placement
	// TIR is the target-to-interferer ratio in dB.
	TIR float64
	// HRTFs is the dataset used for spatialisation; "" disables it.
	HRTFs string
	// FS forces the output rate; 0 keeps the default.
	FS     int
	Output string
}

// Render builds the mixture described by sc and writes its three files.
// A nil log means the logrus standard logger.
//
// This is a convenience function for one-shot use. Keep the returned
// Mixture, or build one with the mixture package directly, to change
// parameters and re-render incrementally.
func Render(sc Scene, log logrus.FieldLogger) (*mixture.Mixture, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	target, err := newSource(sc.Target, log)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}

	interferers := make([]*mixture.Source, 0, len(sc.Interferers))
	for i, p := range sc.Interferers {
		s, err := newSource(p, log)
		if err != nil {
			return nil, fmt.Errorf("interferer %d: %w", i, err)
		}
		interferers = append(interferers, s)
	}

	opts := []mixture.MixtureOption{
		mixture.WithTIR(sc.TIR),
		mixture.WithHRTFs(sc.HRTFs),
		mixture.WithFilename(sc.Output),
		mixture.WithMixtureLogger(log),
	}
	if sc.FS > 0 {
		opts = append(opts, mixture.WithMixtureFS(sc.FS))
	}

	m, err := mixture.NewMixture(target, interferers, opts...)
	if err != nil {
		return nil, err
	}
	if err := m.Write(""); err != nil {
		return nil, err
	}

	return m, nil
}

func newSource(p Placement, log logrus.FieldLogger) (*mixture.Source, error) {
	return mixture.NewSource(p.Path,
		mixture.WithAzimuth(p.Azimuth),
		mixture.WithElevation(p.Elevation),
		mixture.WithPrecomposed(p.Precomposed),
		mixture.WithLogger(log),
	)
}
