package audio

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// DefaultVoices is the pool size used when none is given.
const DefaultVoices = 8

// Pool assigns sounds to a fixed set of voices in round-robin order.
//
// Dispatch and Cursor must only be called from one goroutine; the cursor is
// not locked.
type Pool struct {
	out     Output
	decoder Decoder
	voices  []Voice
	cursor  int

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithDecoder sets the decoder used by Dispatch.
func WithDecoder(d Decoder) PoolOption {
	return func(p *Pool) {
		if d != nil {
			p.decoder = d
		}
	}
}

// NewPool creates size voices on out. A size of zero or less uses
// DefaultVoices.
func NewPool(out Output, size int, opts ...PoolOption) (*Pool, error) {
	if size <= 0 {
		size = DefaultVoices
	}

	p := &Pool{
		out:     out,
		decoder: defaultDecoder(),
		voices:  make([]Voice, 0, size),
	}
	for _, opt := range opts {
		opt(p)
	}

	for i := 0; i < size; i++ {
		v, err := out.NewVoice()
		if err != nil {
			_ = p.closeVoices()
			return nil, fmt.Errorf("creating voice %d: %w", i, err)
		}
		p.voices = append(p.voices, v)
	}
	return p, nil
}

// Dispatch decodes data and queues it on the voice at the cursor, then
// advances the cursor. The cursor advances even when decoding fails, in
// which case the sound is dropped and a *DecodeError is returned.
func (p *Pool) Dispatch(data []byte) error {
	if p.closed.Load() {
		return ErrPoolClosed
	}

	idx := p.cursor
	p.cursor = (p.cursor + 1) % len(p.voices)

	pcm, err := p.decoder.Decode(data, p.out.SampleRate())
	if err != nil {
		var derr *DecodeError
		if errors.As(err, &derr) {
			derr.Voice = idx
			return derr
		}
		return &DecodeError{Voice: idx, Err: err}
	}

	p.voices[idx].Enqueue(pcm)
	return nil
}

// Cursor returns the index of the voice the next sound goes to.
func (p *Pool) Cursor() int {
	return p.cursor
}

// Size returns the number of voices.
func (p *Pool) Size() int {
	return len(p.voices)
}

// Close closes every voice. It is safe to call more than once.
func (p *Pool) Close() error {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		p.closeErr = p.closeVoices()
	})
	return p.closeErr
}

func (p *Pool) closeVoices() error {
	var errs []error
	for _, v := range p.voices {
		if err := v.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
