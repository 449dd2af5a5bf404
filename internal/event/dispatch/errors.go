package dispatch

import "errors"

// Sentinel errors for the dispatch package.
var (
	// ErrAlreadyRunning is returned when Start is called on a running channel.
	ErrAlreadyRunning = errors.New("dispatch channel is already running")

	// ErrNotRunning is returned when operations are attempted on a stopped channel.
	ErrNotRunning = errors.New("dispatch channel is not running")

	// ErrQueueFull is returned when the queue is at capacity and the key was dropped.
	ErrQueueFull = errors.New("key queue is full")
)
