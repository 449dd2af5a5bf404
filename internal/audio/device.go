//go:build !headless

package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// deviceOutput plays voices through the system audio device.
type deviceOutput struct {
	ctx        *oto.Context
	sampleRate int

	mu     sync.Mutex
	closed bool
}

// NewDeviceOutput opens the system audio device for 16-bit stereo PCM.
// Only one device output may exist per process.
func NewDeviceOutput(sampleRate, bufferMillis int) (Output, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channelCount,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   time.Duration(bufferMillis) * time.Millisecond,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	<-ready

	return &deviceOutput{ctx: ctx, sampleRate: sampleRate}, nil
}

func (o *deviceOutput) SampleRate() int {
	return o.sampleRate
}

func (o *deviceOutput) NewVoice() (Voice, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil, ErrOutputClosed
	}

	q := &streamQueue{}
	p := o.ctx.NewPlayer(q)
	p.Play()
	return &deviceVoice{queue: q, player: p}, nil
}

// Close suspends the device. oto contexts cannot be destroyed, so the
// context stays allocated until the process exits.
func (o *deviceOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}
	o.closed = true
	return o.ctx.Suspend()
}

type deviceVoice struct {
	queue  *streamQueue
	player *oto.Player
	once   sync.Once
}

func (v *deviceVoice) Enqueue(pcm []byte) {
	v.queue.push(pcm)
}

func (v *deviceVoice) Close() error {
	var err error
	v.once.Do(func() {
		v.queue.close()
		err = v.player.Close()
	})
	return err
}
