// SPDX-License-Identifier: EPL-2.0

package asset

import "testing"

func TestDerive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path, suffix, want string
	}{
		{"mix.wav", SuffixTarget, "mix_target.wav"},
		{"out/mix.wav", SuffixInterferer, "out/mix_interferer.wav"},
		{"/tmp/a.b/mix.WAV", SuffixCopy, "/tmp/a.b/mix_copy.WAV"},
		{"mix", SuffixTarget, "mix_target"},
		{"dir.v2/mix", SuffixCopy, "dir.v2/mix_copy"},
		{"mix_copy.wav", SuffixTarget, "mix_copy_target.wav"},
		{"", SuffixTarget, ""},
	}

	for _, tt := range tests {
		if got := Derive(tt.path, tt.suffix); got != tt.want {
			t.Errorf("Derive(%q, %q) = %q, want %q", tt.path, tt.suffix, got, tt.want)
		}
	}
}

func TestCopyName(t *testing.T) {
	t.Parallel()

	taken := map[string]bool{
		"out/mix_copy.wav":  true,
		"out/mix_copy2.wav": true,
	}
	has := func(p string) bool { return taken[p] }

	if got := CopyName("out/mix.wav", has); got != "out/mix_copy3.wav" {
		t.Errorf("CopyName() = %q, want out/mix_copy3.wav", got)
	}
	if got := CopyName("out/other.wav", has); got != "out/other_copy.wav" {
		t.Errorf("CopyName() = %q, want out/other_copy.wav", got)
	}
	if got := CopyName("", has); got != "" {
		t.Errorf("CopyName(\"\") = %q, want empty", got)
	}
}
