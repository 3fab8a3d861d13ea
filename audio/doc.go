// SPDX-License-Identifier: EPL-2.0

// Package audio provides the signal primitives the mixture renderer is
// built from.
//
// Two representations live side by side. A Source streams interleaved
// float32 samples and is what decoders produce; Resampler and ChannelMixer
// wrap a Source and are chained into pipelines:
//
//	var src audio.Source = wavSource
//	src = audio.NewResampler(src, 16000)
//	src = audio.NewMonoMixer(src)
//
// A Signal is a fully materialised float64 block. Collect turns a Source
// into a Signal and NewSignalSource goes the other way, so Convert can run
// in-memory audio through the same streaming pipeline.
//
// Signal carries the level arithmetic used for mixing: RMS, Peak, Gain,
// Mix and SetLength. The vector kernels come from
// github.com/cwbudde/algo-vecmath.
//
// # Sample Format
//
// Samples are in [-1.0, 1.0] with 0.0 as silence. Intermediate sums may
// leave that range; writers clip when quantising.
//
// # Error Handling
//
// ReadSamples reports io.EOF once the stream is finished, possibly together
// with the final samples:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    // use buf[:n]
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
package audio
