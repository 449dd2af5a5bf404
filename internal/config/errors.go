package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrPackNotFound indicates no sound pack config exists at any search path.
	ErrPackNotFound = errors.New("sound pack config not found")

	// ErrSettingsNotFound indicates an explicitly requested settings file is missing.
	ErrSettingsNotFound = errors.New("settings file not found")

	// ErrValidationFailed indicates a setting fails validation.
	ErrValidationFailed = errors.New("validation failed")
)

// PackNotFoundError lists the paths that were searched for a sound pack.
type PackNotFoundError struct {
	Name     string
	Searched []string
}

// Error implements the error interface.
func (e *PackNotFoundError) Error() string {
	return fmt.Sprintf("could not find %s/config.json in any expected location (searched %d paths)", e.Name, len(e.Searched))
}

// Is matches ErrPackNotFound.
func (e *PackNotFoundError) Is(target error) bool {
	return target == ErrPackNotFound
}

// ValidationError describes a validation failure for a setting.
type ValidationError struct {
	// Path is the setting path that failed validation.
	Path string
	// Message describes the validation error.
	Message string
	// Value is the invalid value.
	Value any
	// Code categorizes the validation error.
	Code ValidationErrorCode
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (value: %v)", e.Path, e.Message, e.Value)
}

// Is matches ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// ValidationErrorCode categorizes validation errors.
type ValidationErrorCode uint8

const (
	// ErrCodeOutOfRange indicates a numeric value is out of range.
	ErrCodeOutOfRange ValidationErrorCode = iota
	// ErrCodeInvalidEnum indicates the value is not in the allowed enum.
	ErrCodeInvalidEnum
	// ErrCodeRequiredMissing indicates a required setting is missing.
	ErrCodeRequiredMissing
)

// String returns a human-readable name for the error code.
func (c ValidationErrorCode) String() string {
	switch c {
	case ErrCodeOutOfRange:
		return "out_of_range"
	case ErrCodeInvalidEnum:
		return "invalid_enum"
	case ErrCodeRequiredMissing:
		return "required_missing"
	default:
		return "unknown"
	}
}
