package models

import "fmt"

// ValidationError reports a request body that could not be turned into the
// records an operation needs. Handlers map it to 400.
type ValidationError struct {
	Message string
	cause   error
}

func NewValidationError(cause error, format string, args ...any) *ValidationError {
	return &ValidationError{
		Message: fmt.Sprintf(format, args...),
		cause:   cause,
	}
}

func (e *ValidationError) Error() string {
	if e.cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.cause)
}

func (e *ValidationError) Unwrap() error {
	return e.cause
}
