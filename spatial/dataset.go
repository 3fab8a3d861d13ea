// SPDX-License-Identifier: EPL-2.0

// Package spatial renders point sources binaurally by convolving them with
// head-related impulse responses.
//
// A dataset is stored as a WAV file. Each measured direction contributes
// two channels, left then right, holding its impulse responses; the file's
// INFO comment lists the directions in channel order as
// "azimuth elevation" pairs separated by semicolons, in degrees:
//
//	0 0;30 0;-30 0;0 45
package spatial

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ttftufj/binmix/audio"
	"github.com/ttftufj/binmix/formats/wav"
)

// Direction is a measurement position in degrees. Azimuth grows towards
// the left ear, elevation upwards.
type Direction struct {
	Azimuth   float64
	Elevation float64
}

// Dataset holds one impulse-response pair per direction, all of the same
// length and sampled at Rate.
type Dataset struct {
	Rate       int
	Directions []Direction
	Left       [][]float64
	Right      [][]float64
}

// Validate checks the shape of d.
func (d *Dataset) Validate() error {
	if len(d.Directions) == 0 {
		return ErrEmptyDataset
	}
	if d.Rate < 1 {
		return audio.ErrInvalidRate
	}
	if len(d.Left) != len(d.Directions) || len(d.Right) != len(d.Directions) {
		return fmt.Errorf("%w: %d directions, %d/%d responses",
			ErrBadDirections, len(d.Directions), len(d.Left), len(d.Right))
	}

	n := len(d.Left[0])
	for i := range d.Directions {
		if len(d.Left[i]) != n || len(d.Right[i]) != n {
			return fmt.Errorf("%w: response %d has a different length", ErrBadDirections, i)
		}
	}

	return nil
}

// Nearest returns the index of the direction with the smallest great-circle
// distance to (azimuth, elevation).
func (d *Dataset) Nearest(azimuth, elevation float64) int {
	want := unit(azimuth, elevation)

	best, bestDot := 0, math.Inf(-1)
	for i, dir := range d.Directions {
		u := unit(dir.Azimuth, dir.Elevation)
		dot := u[0]*want[0] + u[1]*want[1] + u[2]*want[2]
		if dot > bestDot {
			best, bestDot = i, dot
		}
	}

	return best
}

func unit(azimuth, elevation float64) [3]float64 {
	az := azimuth * math.Pi / 180
	el := elevation * math.Pi / 180

	return [3]float64{
		math.Cos(el) * math.Cos(az),
		math.Cos(el) * math.Sin(az),
		math.Sin(el),
	}
}

// LoadDataset reads a dataset file.
func LoadDataset(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening hrtf dataset: %w", err)
	}
	defer f.Close()

	comment, err := wav.ReadComment(f)
	if err != nil {
		return nil, fmt.Errorf("reading hrtf directions: %w", err)
	}
	dirs, err := parseDirections(comment)
	if err != nil {
		return nil, err
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding hrtf dataset: %w", err)
	}
	src, err := wav.Decoder{}.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding hrtf dataset: %w", err)
	}
	defer src.Close()

	sig, err := audio.Collect(src, src.BufSize())
	if err != nil {
		return nil, fmt.Errorf("reading hrtf responses: %w", err)
	}
	if sig.Channels != 2*len(dirs) {
		return nil, fmt.Errorf("%w: %d directions for %d channels",
			ErrBadDirections, len(dirs), sig.Channels)
	}

	ds := &Dataset{
		Rate:       sig.Rate,
		Directions: dirs,
		Left:       make([][]float64, len(dirs)),
		Right:      make([][]float64, len(dirs)),
	}
	frames := sig.Frames()
	for i := range dirs {
		ds.Left[i] = make([]float64, frames)
		ds.Right[i] = make([]float64, frames)
		for f := range frames {
			ds.Left[i][f] = sig.At(f, 2*i)
			ds.Right[i][f] = sig.At(f, 2*i+1)
		}
	}

	return ds, ds.Validate()
}

// WriteDataset stores d at path as 32-bit PCM so responses keep their
// precision. Response samples must lie in [-1, 1].
func WriteDataset(path string, d *Dataset) error {
	if err := d.Validate(); err != nil {
		return err
	}

	frames := len(d.Left[0])
	sig := audio.NewSignal(d.Rate, 2*len(d.Directions), frames)
	for i := range d.Directions {
		for f := range frames {
			sig.Data[f*sig.Channels+2*i] = d.Left[i][f]
			sig.Data[f*sig.Channels+2*i+1] = d.Right[i][f]
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating hrtf dataset: %w", err)
	}

	err = wav.Encode(f, sig, wav.Encoding{
		BitDepth: 32,
		Comment:  formatDirections(d.Directions),
		Software: "binmix",
	})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing hrtf dataset: %w", err)
	}

	return nil
}

func parseDirections(s string) ([]Direction, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyDataset
	}

	var dirs []Direction
	for _, item := range strings.Split(s, ";") {
		fields := strings.Fields(item)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: %q", ErrBadDirections, item)
		}
		az, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: azimuth %q", ErrBadDirections, fields[0])
		}
		el, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: elevation %q", ErrBadDirections, fields[1])
		}
		dirs = append(dirs, Direction{Azimuth: az, Elevation: el})
	}

	return dirs, nil
}

func formatDirections(dirs []Direction) string {
	parts := make([]string, len(dirs))
	for i, d := range dirs {
		parts[i] = strconv.FormatFloat(d.Azimuth, 'g', -1, 64) + " " +
			strconv.FormatFloat(d.Elevation, 'g', -1, 64)
	}

	return strings.Join(parts, ";")
}
