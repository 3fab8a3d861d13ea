// SPDX-License-Identifier: EPL-2.0

// Package binmix renders binaural mixtures of a target sound and competing
// interferers at a chosen target-to-interferer ratio, for use as stimuli
// in sound-source-separation experiments.
//
// # Quick Start
//
// Render handles the common case in one call:
//
//	m, err := binmix.Render(binmix.Scene{
//	    Target:      binmix.Placement{Path: "speech.wav"},
//	    Interferers: []binmix.Placement{{Path: "babble.wav", Azimuth: 45}},
//	    TIR:         -3,
//	    HRTFs:       "kemar.wav",
//	    Output:      "out/scene.wav",
//	}, nil)
//
// It writes out/scene.wav together with out/scene_target.wav and
// out/scene_interferer.wav.
//
// # Packages
//
//   - mixture: Source and Mixture, the lazily rendered and cached scene graph
//   - spatial: HRTF datasets and the convolution spatializer
//   - asset: reading any supported file, writing WAV atomically
//   - audio: streaming Source pipeline, Resampler, ChannelMixer, Signal
//   - formats/wav, formats/aiff, formats/mp3, formats/vorbis: decoders
//
// # Supported Formats
//
// Inputs may be WAV (16, 24 or 32 bit PCM), AIFF, MP3 or Ogg Vorbis.
// Rendered files are always 16-bit PCM WAV.
package binmix
