//go:build !headless

package audio

import (
	"bytes"
	"io"

	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// FormatDecoder decodes WAV, Ogg Vorbis and MP3 samples to 16-bit
// little-endian stereo PCM with ebiten's decoders and resampler. The
// decoders share oto with the device output.
type FormatDecoder struct{}

// Decode sniffs the format of data and decodes it completely.
func (FormatDecoder) Decode(data []byte, sampleRate int) ([]byte, error) {
	format := Sniff(data)

	var (
		stream io.Reader
		err    error
	)
	src := bytes.NewReader(data)
	switch format {
	case FormatWAV:
		stream, err = wav.DecodeWithSampleRate(sampleRate, src)
	case FormatVorbis:
		stream, err = vorbis.DecodeWithSampleRate(sampleRate, src)
	case FormatMP3:
		stream, err = mp3.DecodeWithSampleRate(sampleRate, src)
	default:
		return nil, &DecodeError{Err: ErrUnknownFormat}
	}
	if err != nil {
		return nil, &DecodeError{Format: string(format), Err: err}
	}

	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, &DecodeError{Format: string(format), Err: err}
	}
	// Drop a trailing partial frame.
	return pcm[:len(pcm)-len(pcm)%bytesPerFrame], nil
}

func defaultDecoder() Decoder {
	return FormatDecoder{}
}
