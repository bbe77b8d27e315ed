package db

import (
	"errors"
	"fmt"
)

var (
	// requested record is not found.
	ErrMissing = errors.New("missing")

	// given record does not satisfy invariants.
	ErrInvalid = errors.New("invalid")

	// given record conflicts with another record (for example, unique key violation).
	ErrConflict = errors.New("conflict")
)

// NewErrInvalid creates an error wrapping ErrInvalid.
//
// # Args
//
// - field: path to the field violating invariant, like "forward_to".
//
// - reason: why the field is invalid.
func NewErrInvalid(field string, reason string) error {
	return &InvalidError{Field: field, Reason: reason}
}

// InvalidError tells a field violating invariant.
type InvalidError struct {
	Field  string
	Reason string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("%s (field = %s): %s", ErrInvalid, e.Field, e.Reason)
}

func (e *InvalidError) Unwrap() error {
	return ErrInvalid
}

// NewErrMissing creates an error wrapping ErrMissing.
//
// # Args
//
// - table: where the record is looked up.
//
// - identity: how the record is identified.
func NewErrMissing(table string, identity any) error {
	return fmt.Errorf("%w: %v is not found in %s", ErrMissing, identity, table)
}
