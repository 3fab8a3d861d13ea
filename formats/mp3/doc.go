// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III audio with
// github.com/hajimehoshi/go-mp3.
//
// go-mp3 always produces 16-bit little-endian stereo, so a decoded Source
// reports two channels even for mono files. Feed it through
// audio.NewMonoMixer when a single channel is needed.
package mp3
