package audio

// Output is an audio device that can create playback voices.
type Output interface {
	// SampleRate returns the device sample rate in Hz.
	SampleRate() int
	// NewVoice creates an independent playback stream.
	NewVoice() (Voice, error)
	// Close releases the device. Voices must be closed first.
	Close() error
}

// Voice is one playback stream on an Output.
type Voice interface {
	// Enqueue appends PCM after anything already queued on the voice.
	// It never waits for playback.
	Enqueue(pcm []byte)
	// Close stops the voice and drops queued audio.
	Close() error
}

// NullOutput is an Output whose voices discard everything.
type NullOutput struct {
	Rate int
}

// NewNullOutput returns a silent output reporting sampleRate.
func NewNullOutput(sampleRate int) *NullOutput {
	return &NullOutput{Rate: sampleRate}
}

// SampleRate returns the configured rate.
func (o *NullOutput) SampleRate() int { return o.Rate }

// NewVoice returns a discarding voice.
func (o *NullOutput) NewVoice() (Voice, error) { return nullVoice{}, nil }

// Close does nothing.
func (o *NullOutput) Close() error { return nil }

type nullVoice struct{}

func (nullVoice) Enqueue([]byte) {}

func (nullVoice) Close() error { return nil }
