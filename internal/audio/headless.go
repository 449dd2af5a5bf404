//go:build headless

package audio

// NewDeviceOutput returns a silent output in headless builds.
func NewDeviceOutput(sampleRate, bufferMillis int) (Output, error) {
	return NewNullOutput(sampleRate), nil
}

func defaultDecoder() Decoder {
	return CodecDecoder{}
}
