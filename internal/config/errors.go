package config

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig marks a value that loaded but cannot be used.
	ErrInvalidConfig = errors.New("config: invalid value")
	// ErrLoadConfig marks a file or environment source that could not be read.
	ErrLoadConfig = errors.New("config: load failed")
)

// FieldError names the configuration key that failed validation.
// It matches ErrInvalidConfig with errors.Is.
type FieldError struct {
	Key    string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidConfig, e.Key, e.Reason)
}

// Is reports whether target is ErrInvalidConfig.
func (e *FieldError) Is(target error) bool { return target == ErrInvalidConfig }

func invalid(key, reason string) error {
	return &FieldError{Key: key, Reason: reason}
}
