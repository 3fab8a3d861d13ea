// SPDX-License-Identifier: EPL-2.0

// Package mixture renders binaural mixtures of a target source and
// interfering sources for source-separation experiments.
//
// A Source observes one audio file at a chosen sample rate and channel
// count. A Mixture owns a target and any number of interferers by
// reference and produces three signals on demand:
//
//   - SignalT, the target branch
//   - SignalI, the sum of all interferers
//   - Signal, the two added together
//
// The target-to-interferer ratio (TIR, in dB) is realised by attenuating
// exactly one branch. With tir < 0 the target is scaled against the
// unscaled interferers; with tir >= 0 the interferers are scaled against
// the unscaled target. Neither branch ever needs its own scaled form.
//
// # Sample rate
//
// The mixture rate is authoritative. Adopting a source moves it to the
// mixture rate; changing the rate of either side afterwards moves the
// other, and through the mixture every sibling source.
//
// # Caching
//
// Write stores the three signals next to each other:
//
//	mix.wav, mix_target.wav, mix_interferer.wav
//
// and marks the mixture rendered. While it stays rendered, the signal
// accessors read those files instead of recomputing. Any setter on the
// mixture, and any change to one of its sources, ends that state.
//
//	target, _ := mixture.NewSource("speech.wav", mixture.WithAzimuth(0))
//	noise, _ := mixture.NewSource("babble.wav", mixture.WithAzimuth(30))
//	m, err := mixture.NewMixture(target, []*mixture.Source{noise},
//	    mixture.WithTIR(-5), mixture.WithFilename("out/mix.wav"))
//	if err != nil {
//	    return err
//	}
//	err = m.Write("")
package mixture
