// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams with
// github.com/jfreymuth/oggvorbis.
//
// Vorbis is lossy, so decoded audio is suitable as mixture input but is
// never written back by this module.
package vorbis
