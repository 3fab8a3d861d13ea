// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")

	// ErrInvalidChannels is returned for a channel count below one.
	ErrInvalidChannels = errors.New("channel count must be positive")

	// ErrInvalidRate is returned for a sample rate below one.
	ErrInvalidRate = errors.New("sample rate must be positive")

	// ErrChannelMismatch is returned when two signals must share a layout but do not.
	ErrChannelMismatch = errors.New("signals have different channel counts")
)
