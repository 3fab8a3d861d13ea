// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files through github.com/go-audio/aiff.
//
// Integer PCM at 8, 16, 24 and 32 bit is accepted in any channel layout and
// at any sample rate. Samples come out as float32 in [-1, 1]:
//
//	f, _ := os.Open("speech.aif")
//	src, err := aiff.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//	sig, err := audio.Collect(src, src.BufSize())
//
// The go-audio decoder needs to seek. Readers that cannot seek are read
// fully into memory first.
package aiff
