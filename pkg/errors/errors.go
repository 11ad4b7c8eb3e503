package errors

import (
	"errors"
	"fmt"
)

// Domain error types for business logic

var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal error")

	// ErrUnavailable indicates a service is unavailable
	ErrUnavailable = errors.New("service unavailable")
)

// Artifact and model errors

var (
	// ErrArtifactNotFound indicates a persisted model artifact is missing
	ErrArtifactNotFound = errors.New("model artifact not found")

	// ErrArtifactCorrupt indicates a persisted model artifact could not be parsed
	ErrArtifactCorrupt = errors.New("model artifact corrupt")

	// ErrNotFitted indicates a model was used before fitting
	ErrNotFitted = errors.New("model not fitted")

	// ErrDimensionMismatch indicates a feature vector of unexpected length
	ErrDimensionMismatch = errors.New("feature dimension mismatch")
)

// Image upload errors

var (
	// ErrNoImage indicates the request carried no image part
	ErrNoImage = errors.New("no image provided")

	// ErrEmptyImage indicates the uploaded image payload was empty
	ErrEmptyImage = errors.New("empty image file")

	// ErrBadImage indicates the uploaded bytes could not be decoded as an image
	ErrBadImage = errors.New("unable to decode image")

	// ErrImageModelDisabled indicates no image feature extractor is configured
	ErrImageModelDisabled = errors.New("image prediction not enabled")
)

// ValidationError represents a validation error with field-specific details
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// Helper functions

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error {
	return errors.New(message)
}

func Newf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
