// SPDX-License-Identifier: EPL-2.0

package mixture

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrValidation is returned by constructors, options and setters for a
	// value of the wrong shape or a required file that does not exist.
	ErrValidation = errors.New("invalid value")

	// ErrNotFound is returned when an audio or HRTF file is missing at the
	// time it is read.
	ErrNotFound = errors.New("file not found")

	// ErrState is returned when writing or reading an entity that has no
	// filename.
	ErrState = errors.New("no filename")

	// ErrNumeric is returned when a level computation cannot produce a
	// finite gain.
	ErrNumeric = errors.New("numeric error")
)

// classify adds ErrNotFound to errors caused by a missing file.
func classify(err error, path string) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	}

	return err
}
