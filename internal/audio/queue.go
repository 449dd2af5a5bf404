package audio

import (
	"io"
	"sync"
)

// streamQueue is an endless PCM reader. Queued streams are played back to
// back and silence fills the gaps, so the device player never stalls.
type streamQueue struct {
	mu      sync.Mutex
	streams [][]byte
	closed  bool
}

// push queues pcm after the streams already waiting.
func (q *streamQueue) push(pcm []byte) {
	if len(pcm) == 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.streams = append(q.streams, pcm)
}

func (q *streamQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.streams = nil
	q.mu.Unlock()
}

// Read fills p from the queued streams and pads the rest with silence.
// It returns io.EOF only after close.
func (q *streamQueue) Read(p []byte) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return 0, io.EOF
	}

	n := 0
	for n < len(p) && len(q.streams) > 0 {
		c := copy(p[n:], q.streams[0])
		n += c
		if c == len(q.streams[0]) {
			q.streams[0] = nil
			q.streams = q.streams[1:]
		} else {
			q.streams[0] = q.streams[0][c:]
		}
	}
	clear(p[n:])
	return len(p), nil
}
