// Package errors provides custom error types for the catalog engine.
// These errors enable programmatic error checking and consistent
// wrapping across the store, reconciler, and presentation layers.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is is an alias for the standard library errors.Is.
var Is = errors.Is

// As is an alias for the standard library errors.As.
var As = errors.As

// Common sentinel errors for the catalog engine
var (
	// ErrNotFound indicates that a requested document was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that a document already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrIdentityNotReady indicates that an operation requiring a
	// caller identity ran before the identity handshake completed.
	// This is a precondition gate, not a failure.
	ErrIdentityNotReady = errors.New("identity not ready")

	// ErrStoreUnavailable indicates a transient remote store failure
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrSubscriptionClosed indicates use of a released subscription
	ErrSubscriptionClosed = errors.New("subscription closed")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")

	// ErrReadOnly indicates an attempt to modify a read-only catalog
	ErrReadOnly = errors.New("read only")
)

// NotFoundError represents an error when a document is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// BatchError represents a failed atomic batch commit. Batches are
// all-or-nothing, so Deletes and Creates describe work that did NOT
// apply.
type BatchError struct {
	Collection string
	Deletes    int
	Creates    int
	Err        error
}

// Error implements the error interface
func (e *BatchError) Error() string {
	return fmt.Sprintf("batch commit to %s failed (%d deletes, %d creates): %v",
		e.Collection, e.Deletes, e.Creates, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *BatchError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *BatchError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

// NewBatchError creates a new BatchError
func NewBatchError(collection string, deletes, creates int, err error) *BatchError {
	return &BatchError{
		Collection: collection,
		Deletes:    deletes,
		Creates:    creates,
		Err:        err,
	}
}

// DocError represents an error during a single-document operation
type DocError struct {
	Operation string // "get", "create", "update", "delete", "merge"
	Path      string
	Err       error
}

// Error implements the error interface
func (e *DocError) Error() string {
	return fmt.Sprintf("failed to %s document %s: %v", e.Operation, e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *DocError) Unwrap() error {
	return e.Err
}

// NewDocError creates a new DocError
func NewDocError(operation, path string, err error) *DocError {
	return &DocError{Operation: operation, Path: path, Err: err}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml"
	Source  string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("parse error in %s %s: %s", e.Format, e.Source, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, source string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, Source: source, Message: err.Error(), Err: err}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsIdentityNotReady checks if an error is the identity precondition gate
func IsIdentityNotReady(err error) bool {
	return errors.Is(err, ErrIdentityNotReady)
}

// IsStoreUnavailable checks if an error indicates a transient store failure
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}
