package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or incomplete input. Always recoverable
	// by the caller fixing the request.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks an unknown id, or a draft exam accessed through the
	// taking path. Never conflated with validation failure.
	ErrNotFound = errors.New("not found")

	// ErrConflict is reserved for a future optimistic-lock feature. Nothing
	// raises it today.
	ErrConflict = errors.New("conflict")
)

func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// ImportError is one entry of the per-question error report produced by bulk
// import. QuestionNumber 0 means the error concerns the exam info block.
type ImportError struct {
	QuestionNumber int    `json:"question_number"`
	Message        string `json:"message"`
}

// ImportValidationError aggregates every failure found while validating an
// import document, so the caller gets the complete report in one round trip.
type ImportValidationError struct {
	Errors []ImportError `json:"errors"`
}

func (e *ImportValidationError) Error() string {
	return fmt.Sprintf("import rejected: %d validation error(s)", len(e.Errors))
}

func (e *ImportValidationError) Unwrap() error { return ErrValidation }
