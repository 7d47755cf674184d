package core

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Match with errors.Is; the HTTP layer maps each kind to a status.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrRateUnavailable = errors.New("rate unavailable")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrInternal        = errors.New("internal error")
)

var (
	ErrInvalidAmount = Invalid("amount must be greater than zero")
	ErrInvalidMonth  = Invalid("month must be between 1 and 12")
)

// Error is a domain error carrying a user-visible message and its kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// Errorf builds a domain error of the given kind.
func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Invalid(msg string) error  { return &Error{Kind: ErrInvalidInput, Msg: msg} }
func NotFound(msg string) error { return &Error{Kind: ErrNotFound, Msg: msg} }

// PartialCompletionError reports a multi-record mutation that failed midway
// and could not be fully undone. Mutated lists the record ids left changed.
type PartialCompletionError struct {
	Op      string
	Mutated []string
	Err     error
}

func (e *PartialCompletionError) Error() string {
	return fmt.Sprintf("%s partially applied (%s): %v", e.Op, strings.Join(e.Mutated, ", "), e.Err)
}

func (e *PartialCompletionError) Unwrap() error { return e.Err }

// Message returns the user-visible text of err, or a generic message when err
// is not a domain error.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Msg
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrConflict), errors.Is(err, ErrRateUnavailable),
		errors.Is(err, ErrUnauthorized), errors.Is(err, ErrForbidden):
		return err.Error()
	}
	return "Internal Server Error"
}
