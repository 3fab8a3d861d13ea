// SPDX-License-Identifier: EPL-2.0

// Package asset reads and writes the audio files behind sources and
// mixtures.
//
// Any format with a registered decoder can be read. Only WAV is written,
// always as 16-bit PCM, and always through a temporary file in the target
// directory that is renamed into place once complete.
package asset

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ttftufj/binmix/audio"
	"github.com/ttftufj/binmix/formats/aiff"
	"github.com/ttftufj/binmix/formats/mp3"
	"github.com/ttftufj/binmix/formats/vorbis"
	"github.com/ttftufj/binmix/formats/wav"
)

// BitDepth of every file written by Files.
const BitDepth = 16

// Info is the stream layout of an audio file.
type Info struct {
	Rate     int
	Channels int
}

// Store is the file access the mixture engine depends on.
type Store interface {
	Info(path string) (Info, error)
	Read(path string) (*audio.Signal, error)
	Write(path string, sig *audio.Signal) error
	Copy(src, dst string) error
	Exists(path string) bool
	Remove(path string) error
}

// Files is the filesystem Store.
type Files struct {
	registry *audio.Registry
	log      logrus.FieldLogger
}

var _ Store = (*Files)(nil)

// NewRegistry returns a registry with every decoder this module ships.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	for _, ext := range wav.Extensions {
		reg.Register(ext, wav.Decoder{})
	}
	for _, ext := range aiff.Extensions {
		reg.Register(ext, aiff.Decoder{})
	}
	for _, ext := range mp3.Extensions {
		reg.Register(ext, mp3.Decoder{})
	}
	for _, ext := range vorbis.Extensions {
		reg.Register(ext, vorbis.Decoder{})
	}

	return reg
}

// NewFiles returns a Store using reg to pick decoders. A nil reg means
// NewRegistry(), a nil log the logrus standard logger.
func NewFiles(reg *audio.Registry, log logrus.FieldLogger) *Files {
	if reg == nil {
		reg = NewRegistry()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Files{registry: reg, log: log}
}

var defaultFiles = NewFiles(nil, nil)

// Default is the process-wide Files store.
func Default() *Files {
	return defaultFiles
}

// open decodes the header of path. The caller closes both return values.
func (f *Files) open(path string) (*os.File, audio.Source, error) {
	if path == "" {
		return nil, nil, ErrNoFilename
	}

	dec, ok := f.registry.Lookup(path)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening audio: %w", err)
	}

	src, err := dec.Decode(file)
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return file, src, nil
}

func (f *Files) Info(path string) (Info, error) {
	file, src, err := f.open(path)
	if err != nil {
		return Info{}, err
	}
	defer file.Close()
	defer src.Close()

	return Info{Rate: src.SampleRate(), Channels: src.Channels()}, nil
}

// Read decodes the whole of path.
func (f *Files) Read(path string) (*audio.Signal, error) {
	file, src, err := f.open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	defer src.Close()

	sig, err := audio.Collect(src, src.BufSize())
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	f.log.WithFields(logrus.Fields{
		"file":     path,
		"rate":     sig.Rate,
		"channels": sig.Channels,
		"frames":   sig.Frames(),
	}).Debug("read audio")

	return sig, nil
}

// Write stores sig at path as 16-bit PCM WAV. The file appears only once
// it is complete.
func (f *Files) Write(path string, sig *audio.Signal) error {
	if path == "" {
		return ErrNoFilename
	}
	if !isWAV(path) {
		return fmt.Errorf("%w: only wav can be written: %s", ErrUnsupportedFormat, path)
	}

	err := replace(path, func(w *os.File) error {
		return wav.Encode(w, sig, wav.Encoding{BitDepth: BitDepth})
	})
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	f.log.WithFields(logrus.Fields{
		"file":     path,
		"rate":     sig.Rate,
		"channels": sig.Channels,
		"frames":   sig.Frames(),
	}).Debug("wrote audio")

	return nil
}

// Copy duplicates src at dst, replacing dst atomically.
func (f *Files) Copy(src, dst string) error {
	if src == "" || dst == "" {
		return ErrNoFilename
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening copy source: %w", err)
	}
	defer in.Close()

	err = replace(dst, func(w *os.File) error {
		_, err := io.Copy(w, in)
		return err
	})
	if err != nil {
		return fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}

	f.log.WithFields(logrus.Fields{"from": src, "to": dst}).Debug("copied audio")

	return nil
}

// Remove deletes path. A path that does not exist is not an error.
func (f *Files) Remove(path string) error {
	if path == "" {
		return ErrNoFilename
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	f.log.WithField("file", path).Debug("removed audio")

	return nil
}

// Exists reports whether path names an existing regular file.
func (f *Files) Exists(path string) bool {
	if path == "" {
		return false
	}

	st, err := os.Stat(path)
	return err == nil && st.Mode().IsRegular()
}

// replace runs fill against a temporary file next to path and renames it
// over path on success. On failure the temporary file is removed and path
// is left as it was.
func replace(path string, fill func(w *os.File) error) (err error) {
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = fill(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("syncing: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("setting mode: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming into place: %w", err)
	}

	return nil
}

func isWAV(path string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	for _, e := range wav.Extensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}

	return false
}
