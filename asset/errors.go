// SPDX-License-Identifier: EPL-2.0

package asset

import "errors"

var (
	// ErrUnsupportedFormat is returned for an extension no codec handles,
	// or when writing anything other than WAV.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrNoFilename is returned when an operation needs a path and got "".
	ErrNoFilename = errors.New("no filename")
)
