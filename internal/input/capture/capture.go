// Package capture delivers physical key presses from the user's terminal.
package capture

import (
	"context"
	"errors"
	"os"

	"golang.org/x/term"

	"github.com/dshills/keyclack/internal/input/key"
)

var (
	// ErrNotTTY is returned when input does not come from an interactive terminal.
	ErrNotTTY = errors.New("input is not a terminal")

	// ErrSourceUsed is returned by Listen on a source that has already listened.
	ErrSourceUsed = errors.New("key source already used")
)

// Source produces key presses.
type Source interface {
	// Listen calls fn for every key press until ctx is cancelled or the
	// user quits, and then returns nil. Any other return is a failure of
	// the source itself. fn runs on the caller's goroutine and must not block.
	Listen(ctx context.Context, fn func(key.Key)) error
}

// CheckTTY returns ErrNotTTY unless f is an interactive terminal.
func CheckTTY(f *os.File) error {
	if !term.IsTerminal(int(f.Fd())) {
		return ErrNotTTY
	}
	return nil
}
