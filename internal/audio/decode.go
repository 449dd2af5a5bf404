package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

const (
	channelCount   = 2
	bytesPerSample = 2
	bytesPerFrame  = channelCount * bytesPerSample
)

var (
	errInvalidWAV    = errors.New("not a valid WAV file")
	errNoChannels    = errors.New("stream has no channels")
	errBadSampleRate = errors.New("invalid sample rate")
)

// Decoder turns encoded sample bytes into PCM for a voice.
type Decoder interface {
	Decode(data []byte, sampleRate int) ([]byte, error)
}

// Format identifies an encoded sample format.
type Format string

// Supported formats.
const (
	FormatUnknown Format = ""
	FormatWAV     Format = "wav"
	FormatVorbis  Format = "vorbis"
	FormatMP3     Format = "mp3"
)

// Sniff detects the format of data from its leading bytes.
func Sniff(data []byte) Format {
	switch {
	case len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return FormatWAV
	case bytes.HasPrefix(data, []byte("OggS")):
		return FormatVorbis
	case bytes.HasPrefix(data, []byte("ID3")):
		return FormatMP3
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return FormatMP3
	}
	return FormatUnknown
}

// CodecDecoder decodes WAV, Ogg Vorbis and MP3 samples to 16-bit
// little-endian stereo PCM using pure Go codecs. It does not touch the
// audio device, so it is the decoder of headless builds.
type CodecDecoder struct{}

// Decode sniffs the format of data, decodes it completely and resamples
// it linearly to sampleRate.
func (CodecDecoder) Decode(data []byte, sampleRate int) ([]byte, error) {
	format := Sniff(data)
	if sampleRate <= 0 {
		return nil, &DecodeError{Format: string(format), Err: errBadSampleRate}
	}

	var (
		frames []int16
		rate   int
		err    error
	)
	switch format {
	case FormatWAV:
		frames, rate, err = decodeWAV(data)
	case FormatVorbis:
		frames, rate, err = decodeVorbis(data)
	case FormatMP3:
		frames, rate, err = decodeMP3(data)
	default:
		return nil, &DecodeError{Err: ErrUnknownFormat}
	}
	if err != nil {
		return nil, &DecodeError{Format: string(format), Err: err}
	}
	if rate <= 0 {
		return nil, &DecodeError{Format: string(format), Err: errBadSampleRate}
	}

	return encodePCM(resample(frames, rate, sampleRate)), nil
}

func decodeWAV(data []byte) ([]int16, int, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		return nil, 0, errInvalidWAV
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, 0, err
	}
	if d.NumChans == 0 {
		return nil, 0, errNoChannels
	}

	depth := int(d.BitDepth)
	samples := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		switch {
		case depth == 8:
			// 8-bit WAV is unsigned.
			samples[i] = int16((v - 128) << 8)
		case depth > 16:
			samples[i] = int16(v >> (depth - 16))
		default:
			samples[i] = int16(v)
		}
	}
	return toStereo(samples, int(d.NumChans)), int(d.SampleRate), nil
}

func decodeVorbis(data []byte) ([]int16, int, error) {
	samples, format, err := oggvorbis.ReadAll(bytes.NewReader(data))
	if err != nil {
		return nil, 0, err
	}
	if format.Channels == 0 {
		return nil, 0, errNoChannels
	}

	pcm := make([]int16, len(samples))
	for i, s := range samples {
		pcm[i] = floatToInt16(s)
	}
	return toStereo(pcm, format.Channels), format.SampleRate, nil
}

// decodeMP3 relies on go-mp3 always producing 16-bit stereo.
func decodeMP3(data []byte) ([]int16, int, error) {
	d, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, 0, err
	}
	raw, err := io.ReadAll(d)
	if err != nil {
		return nil, 0, err
	}

	samples := make([]int16, len(raw)/bytesPerSample)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[i*bytesPerSample:]))
	}
	return toStereo(samples, channelCount), d.SampleRate(), nil
}

func floatToInt16(s float32) int16 {
	switch {
	case s >= 1:
		return math.MaxInt16
	case s <= -1:
		return -math.MaxInt16
	}
	return int16(math.Round(float64(s) * math.MaxInt16))
}

// toStereo converts interleaved samples with the given channel count to
// interleaved stereo. Mono is duplicated; extra channels are dropped.
func toStereo(samples []int16, channels int) []int16 {
	n := len(samples) / channels
	if channels == channelCount {
		return samples[:n*channelCount]
	}

	out := make([]int16, 0, n*channelCount)
	for i := 0; i < n; i++ {
		left := samples[i*channels]
		right := left
		if channels > 1 {
			right = samples[i*channels+1]
		}
		out = append(out, left, right)
	}
	return out
}

// resample converts interleaved stereo frames from one rate to another
// by linear interpolation.
func resample(frames []int16, from, to int) []int16 {
	n := len(frames) / channelCount
	if from == to || n == 0 {
		return frames
	}

	outN := int(int64(n) * int64(to) / int64(from))
	out := make([]int16, outN*channelCount)
	step := float64(from) / float64(to)
	for i := 0; i < outN; i++ {
		pos := float64(i) * step
		j := int(pos)
		frac := pos - float64(j)
		k := min(j+1, n-1)
		for c := 0; c < channelCount; c++ {
			a := float64(frames[j*channelCount+c])
			b := float64(frames[k*channelCount+c])
			out[i*channelCount+c] = int16(math.Round(a + (b-a)*frac))
		}
	}
	return out
}

func encodePCM(frames []int16) []byte {
	pcm := make([]byte, len(frames)*bytesPerSample)
	for i, s := range frames {
		binary.LittleEndian.PutUint16(pcm[i*bytesPerSample:], uint16(s))
	}
	return pcm
}
