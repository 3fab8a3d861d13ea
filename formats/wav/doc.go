// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes integer PCM WAV files on top of
// github.com/go-audio/wav.
//
// # Decoding
//
// Decoder returns an audio.Source producing float32 samples in [-1, 1):
//
//	f, _ := os.Open("speech.wav")
//	src, err := wav.Decoder{}.Decode(f)
//
// 16, 24 and 32 bit integer PCM with any channel count are accepted. Other
// encodings fail with ErrOnlyPCMSupported or ErrUnsupportedBitDepth.
//
// # Encoding
//
// Encode writes an audio.Signal. The destination must be seekable because
// chunk sizes are patched after the payload:
//
//	f, _ := os.Create("mix.wav")
//	err := wav.Encode(f, sig, wav.Encoding{BitDepth: 16})
//
// A Comment is stored in the LIST/INFO chunk and read back with
// ReadComment; the spatial package keeps HRTF direction tables there.
package wav
