// SPDX-License-Identifier: EPL-2.0

package spatial

import "errors"

var (
	// ErrEmptyDataset is returned for a dataset without any direction.
	ErrEmptyDataset = errors.New("hrtf dataset has no directions")

	// ErrBadDirections is returned when the direction list does not match
	// the impulse responses, or cannot be parsed.
	ErrBadDirections = errors.New("hrtf direction list is malformed")

	// ErrNotMono is returned when Spatialize gets more than one channel.
	ErrNotMono = errors.New("spatialisation input must be mono")
)
