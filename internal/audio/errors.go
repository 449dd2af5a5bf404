package audio

import (
	"errors"
	"fmt"
)

// Sentinel errors for the audio package.
var (
	// ErrUnknownFormat is returned when sample bytes match no supported format.
	ErrUnknownFormat = errors.New("unknown audio format")

	// ErrOutputClosed is returned when a voice is requested from a closed output.
	ErrOutputClosed = errors.New("audio output is closed")

	// ErrPoolClosed is returned when dispatching to a closed pool.
	ErrPoolClosed = errors.New("voice pool is closed")
)

// DecodeError reports a sample that could not be decoded.
type DecodeError struct {
	Format string
	Voice  int
	Err    error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("voice %d: decode: %v", e.Voice, e.Err)
	}
	return fmt.Sprintf("voice %d: decode %s: %v", e.Voice, e.Format, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
