package app

import (
	"errors"
	"testing"
)

func TestInitError(t *testing.T) {
	base := errors.New("no such file")
	err := &InitError{Component: "pack", Err: base}

	if err.Error() != "init pack: no such file" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, base) {
		t.Error("expected errors.Is to match the wrapped error")
	}
}

func TestComponentError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ComponentError
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "component only",
			err:      &ComponentError{Component: "capture"},
			expected: "capture",
		},
		{
			name:     "component and action",
			err:      &ComponentError{Component: "capture", Action: "listen"},
			expected: "capture: listen",
		},
		{
			name:     "component and error",
			err:      &ComponentError{Component: "audio", Err: errors.New("device busy")},
			expected: "audio: device busy",
		},
		{
			name:     "full",
			err:      NewComponentError("capture", "listen", errors.New("tty closed")),
			expected: "capture: listen: tty closed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.err.Error()
			if result != tt.expected {
				t.Errorf("Error() = '%s', expected '%s'", result, tt.expected)
			}
		})
	}
}

func TestComponentError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	err := NewComponentError("audio", "close", inner)

	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to find the wrapped error")
	}

	var nilErr *ComponentError
	if nilErr.Unwrap() != nil {
		t.Error("expected nil Unwrap on nil receiver")
	}
}
