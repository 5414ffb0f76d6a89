package core

import "github.com/pkg/errors"

// FieldError names a single bad input field and what is wrong with it.
type FieldError struct {
	Field string
	Error string
}

// ValidationError reports rejected input. The API layer renders Fields as a
// field-to-message map with a 400 status.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// shutdown marks a fault the process cannot serve through; the server stops
// once its error handler sees one.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
