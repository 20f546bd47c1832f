package service

import (
	"errors"
	"fmt"

	"notebook-ai/internal/notebook"
)

var (
	// ErrInvalidInput matches every *ValidationError.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a notebook or report does not exist.
	ErrNotFound = errors.New("not found")
	// ErrExternalService marks failures of the LLM provider or another upstream.
	ErrExternalService = errors.New("external service error")
)

// ValidationError names the request field that was rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// externalError marks err as an upstream failure and keeps it in the chain.
func externalError(err error, msg string) error {
	return fmt.Errorf("%s: %w: %w", msg, ErrExternalService, err)
}

// storeError maps notebook store errors onto the service sentinels.
func storeError(err error, msg string) error {
	var vErr *notebook.ValidationError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &vErr):
		return invalid(vErr.Field, vErr.Message)
	case errors.Is(err, notebook.ErrNotFound):
		return fmt.Errorf("%s: %w: %w", msg, ErrNotFound, err)
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}
