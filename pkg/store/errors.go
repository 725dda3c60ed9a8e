package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a lookup yields no row. It is always
	// distinct from a failed statement, which surfaces as *QueryError.
	ErrNotFound = errors.New("record not found")

	// ErrUnknownColumn is returned when a filter names a column the
	// entity's descriptor does not declare.
	ErrUnknownColumn = errors.New("unknown column")
)

// QueryError wraps a failed statement execution with the statement text.
type QueryError struct {
	Query string
	Err   error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("query error: %v\nQuery: %s", e.Err, e.Query)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Err
}
