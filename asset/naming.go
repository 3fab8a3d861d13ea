// SPDX-License-Identifier: EPL-2.0

package asset

import (
	"path/filepath"
	"strconv"
	"strings"
)

// Suffixes inserted before the extension of a mixture's base filename.
const (
	SuffixTarget     = "_target"
	SuffixInterferer = "_interferer"
	SuffixCopy       = "_copy"
)

// Derive inserts suffix before the extension of path:
// Derive("out/mix.wav", "_target") is "out/mix_target.wav".
// A path without an extension gets the suffix appended.
func Derive(path, suffix string) string {
	if path == "" {
		return ""
	}

	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}

// CopyName returns the first of path_copy, path_copy2, path_copy3, ...
// for which taken is false.
func CopyName(path string, taken func(string) bool) string {
	if path == "" {
		return ""
	}

	for n := 1; ; n++ {
		suffix := SuffixCopy
		if n > 1 {
			suffix += strconv.Itoa(n)
		}
		if name := Derive(path, suffix); !taken(name) {
			return name
		}
	}
}
