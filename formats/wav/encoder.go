// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"
	"strings"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ttftufj/binmix/audio"
	"github.com/ttftufj/binmix/utils"
)

// DefaultBitDepth is used when Encoding.BitDepth is zero.
const DefaultBitDepth = 16

// Encoding controls how Encode lays out the file.
type Encoding struct {
	// BitDepth of the integer PCM samples: 16, 24 or 32.
	BitDepth int
	// Comment is stored in the LIST/INFO ICMT entry when not empty.
	Comment string
	// Software is stored in the LIST/INFO ISFT entry when not empty.
	Software string
}

// Encode writes sig as an integer PCM WAV file. Samples outside [-1, 1]
// are clipped.
func Encode(w io.WriteSeeker, sig *audio.Signal, enc Encoding) error {
	bitDepth := enc.BitDepth
	if bitDepth == 0 {
		bitDepth = DefaultBitDepth
	}
	switch bitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
	if sig.Channels < 1 {
		return audio.ErrInvalidChannels
	}
	if sig.Rate < 1 {
		return audio.ErrInvalidRate
	}

	e := gowav.NewEncoder(w, sig.Rate, bitDepth, sig.Channels, 1)
	if enc.Comment != "" || enc.Software != "" {
		e.Metadata = &gowav.Metadata{
			Comments: padInfo(enc.Comment),
			Software: padInfo(enc.Software),
		}
	}

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: sig.Channels,
			SampleRate:  sig.Rate,
		},
		Data:           make([]int, len(sig.Data)),
		SourceBitDepth: bitDepth,
	}
	for i, v := range sig.Data {
		buf.Data[i] = utils.FloatToPCM(v, bitDepth)
	}

	if err := e.Write(buf); err != nil {
		return fmt.Errorf("writing wav pcm: %w", err)
	}

	if err := e.Close(); err != nil {
		return fmt.Errorf("finalising wav: %w", err)
	}

	return nil
}

// ReadComment returns the INFO/ICMT text of a WAV file, or "" if none.
func ReadComment(r io.Reader) (string, error) {
	dec, err := open(r)
	if err != nil {
		return "", err
	}

	dec.ReadMetadata()
	if err := dec.Err(); err != nil {
		return "", fmt.Errorf("reading wav metadata: %w", err)
	}
	if dec.Metadata == nil {
		return "", nil
	}

	return strings.TrimRight(dec.Metadata.Comments, " "), nil
}

// padInfo keeps INFO entries at an even size (text plus NUL terminator);
// the go-audio writer does not emit the RIFF pad byte itself.
func padInfo(s string) string {
	if s != "" && (len(s)+1)%2 == 1 {
		return s + " "
	}
	return s
}
