// Package common defines shared sentinel and typed errors used across the
// persistence core. Callers should use errors.Is / errors.As to match them.
package common

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned on an optimistic-concurrency mismatch or a
	// violated cascading reference.
	ErrConflict = errors.New("conflict")
)

// ValidationError reports a rejected field before any row or blob is written.
// It is always recoverable locally and never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a single offending field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// StorageError wraps a blob put/get/delete failure. Distinguished from
// RelationalError so callers can apply a different retry policy.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// RelationalError wraps a query or transaction failure from the relational
// engine.
type RelationalError struct {
	Op  string
	Err error
}

func (e *RelationalError) Error() string {
	return fmt.Sprintf("relational %s: %v", e.Op, e.Err)
}

func (e *RelationalError) Unwrap() error { return e.Err }

// IsRetryable reports whether the caller may retry the failed operation with
// backoff. Only storage and relational failures qualify; validation,
// not-found and conflict outcomes are final.
func IsRetryable(err error) bool {
	var se *StorageError
	if errors.As(err, &se) {
		return true
	}
	var re *RelationalError
	if errors.As(err, &re) {
		return true
	}
	return false
}
