package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors
	ErrMissingRequiredInput = errors.New("required input table missing")
	ErrUnparseableDate      = errors.New("unparseable date")

	// Configuration errors
	ErrInvalidConfiguration = errors.New("invalid phase configuration")

	// Analysis errors
	ErrInsufficientSamples = errors.New("insufficient samples for test")
	ErrUnknownMetric       = errors.New("metric not present in dataset")
)

// Error constructors with context
func NewMissingInputError(table string) error {
	return fmt.Errorf("%w: %s", ErrMissingRequiredInput, table)
}

func NewConfigurationError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, reason)
}

func NewInsufficientSamplesError(test string, n int) error {
	return fmt.Errorf("%w: %s requires more than %d points", ErrInsufficientSamples, test, n)
}

// Error checking helpers
func IsMissingInputError(err error) bool {
	return errors.Is(err, ErrMissingRequiredInput)
}

func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration)
}

func IsRecoverable(err error) bool {
	return errors.Is(err, ErrUnparseableDate) ||
		errors.Is(err, ErrInsufficientSamples)
}
