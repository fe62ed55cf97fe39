package dto

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotCSV             = fmt.Errorf("%w: The file must be a CSV.", ErrValidation)
	ErrDateFormatRequired = fmt.Errorf("%w: Date format header missing.", ErrValidation)

	ErrDecode = errors.New("decode failed")
)

// DecodeError describes the first malformed row of an upload.
type DecodeError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *DecodeError) Error() string {
	switch {
	case e.Line > 0 && e.Column != "":
		return fmt.Sprintf("line %d: %s=%q: %v", e.Line, e.Column, e.Value, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}

// InternalError hides unexpected failures from callers; Unwrap keeps the detail for logs.
type InternalError struct {
	Err error
}

func (e *InternalError) Error() string {
	return "internal error"
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// ValidationMessage returns the text shown to the caller for a validation error.
func ValidationMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotCSV):
		return "The file must be a CSV."
	case errors.Is(err, ErrDateFormatRequired):
		return "Date format header missing."
	default:
		return err.Error()
	}
}
