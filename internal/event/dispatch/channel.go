package dispatch

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultQueueSize is the queue capacity used when none is configured.
const DefaultQueueSize = 256

// Handler consumes logical sound keys on the worker goroutine.
type Handler interface {
	Handle(ctx context.Context, key string) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, key string) error

// Handle calls f(ctx, key).
func (f HandlerFunc) Handle(ctx context.Context, key string) error {
	return f(ctx, key)
}

// PanicHandler is called when the handler panics.
// It receives the key being processed, the panic value, and the stack trace.
type PanicHandler func(key string, panicValue any, stack []byte)

// ErrorHandler is called when the handler returns an error.
type ErrorHandler func(key string, err error)

// Channel is a bounded, non-blocking key queue drained by a single worker.
type Channel struct {
	handler      Handler
	queueSize    int
	panicHandler PanicHandler
	errorHandler ErrorHandler

	// mu guards queue replacement and closing against concurrent Send.
	mu      sync.RWMutex
	queue   chan string
	running atomic.Bool
	discard atomic.Bool
	done    chan struct{}
	cancel  context.CancelFunc

	enqueued    atomic.Uint64
	processed   atomic.Uint64
	failed      atomic.Uint64
	panicked    atomic.Uint64
	dropped     atomic.Uint64
	discarded   atomic.Uint64
	totalTimeNs atomic.Int64
}

// Option configures a Channel.
type Option func(*Channel)

// WithQueueSize sets the queue capacity. Non-positive sizes are ignored.
func WithQueueSize(size int) Option {
	return func(c *Channel) {
		if size > 0 {
			c.queueSize = size
		}
	}
}

// WithPanicHandler sets the callback for recovered handler panics.
func WithPanicHandler(h PanicHandler) Option {
	return func(c *Channel) {
		c.panicHandler = h
	}
}

// WithErrorHandler sets the callback for handler errors.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *Channel) {
		c.errorHandler = h
	}
}

// New creates a stopped channel that delivers keys to h.
func New(h Handler, opts ...Option) *Channel {
	c := &Channel{
		handler:   h,
		queueSize: DefaultQueueSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start creates the queue and launches the worker.
func (c *Channel) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running.Load() {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.queue = make(chan string, c.queueSize)
	c.done = make(chan struct{})
	c.cancel = cancel
	c.discard.Store(false)
	c.running.Store(true)

	go c.worker(ctx, c.queue, c.done)
	return nil
}

// Stop closes the queue and waits for the worker to exit.
//
// Queued keys are played until ctx expires; after that they are discarded
// and Stop returns ctx.Err() once the worker is gone.
func (c *Channel) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.running.Load() {
		c.mu.Unlock()
		return ErrNotRunning
	}
	c.running.Store(false)
	close(c.queue)
	done, cancel := c.done, c.cancel
	c.mu.Unlock()

	select {
	case <-done:
		cancel()
		return nil
	case <-ctx.Done():
	}

	c.discard.Store(true)
	cancel()
	<-done
	return ctx.Err()
}

// Send queues key for the worker without blocking.
// A full queue drops key and returns ErrQueueFull.
func (c *Channel) Send(key string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.running.Load() {
		return ErrNotRunning
	}

	select {
	case c.queue <- key:
		c.enqueued.Add(1)
		return nil
	default:
		c.dropped.Add(1)
		return ErrQueueFull
	}
}

func (c *Channel) worker(ctx context.Context, queue <-chan string, done chan<- struct{}) {
	defer close(done)

	for key := range queue {
		if c.discard.Load() {
			c.discarded.Add(1)
			continue
		}
		c.handle(ctx, key)
	}
}

// handle runs the handler for one key with panic recovery.
func (c *Channel) handle(ctx context.Context, key string) {
	c.processed.Add(1)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			c.panicked.Add(1)
			if c.panicHandler != nil {
				stack := debug.Stack()
				func() {
					defer func() { _ = recover() }()
					c.panicHandler(key, r, stack)
				}()
			}
		}
		c.totalTimeNs.Add(time.Since(start).Nanoseconds())
	}()

	if err := c.handler.Handle(ctx, key); err != nil {
		c.failed.Add(1)
		if c.errorHandler != nil {
			c.errorHandler(key, err)
		}
	}
}

// QueueDepth returns the number of keys waiting in the queue.
// Returns 0 if the channel is not running.
func (c *Channel) QueueDepth() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.running.Load() {
		return 0
	}
	return len(c.queue)
}

// IsRunning reports whether the channel accepts keys.
func (c *Channel) IsRunning() bool {
	return c.running.Load()
}

// Stats returns channel statistics.
func (c *Channel) Stats() Stats {
	processed := c.processed.Load()
	totalNs := c.totalTimeNs.Load()

	var avgNs int64
	if processed > 0 {
		avgNs = totalNs / int64(processed)
	}

	return Stats{
		Enqueued:      c.enqueued.Load(),
		Processed:     processed,
		Failed:        c.failed.Load(),
		Panicked:      c.panicked.Load(),
		Dropped:       c.dropped.Load(),
		Discarded:     c.discarded.Load(),
		QueueDepth:    c.QueueDepth(),
		TotalDuration: time.Duration(totalNs),
		AvgDuration:   time.Duration(avgNs),
	}
}

// Stats contains counters for a Channel.
type Stats struct {
	// Enqueued is the number of keys accepted by Send.
	Enqueued uint64

	// Processed is the number of keys handed to the handler.
	Processed uint64

	// Failed is the number of handler calls that returned an error.
	Failed uint64

	// Panicked is the number of handler calls that panicked.
	Panicked uint64

	// Dropped is the number of keys rejected because the queue was full.
	Dropped uint64

	// Discarded is the number of queued keys skipped after a Stop deadline.
	Discarded uint64

	// QueueDepth is the current number of keys waiting in the queue.
	QueueDepth int

	// TotalDuration is the cumulative time spent in the handler.
	TotalDuration time.Duration

	// AvgDuration is the average handler time per key.
	AvgDuration time.Duration
}
