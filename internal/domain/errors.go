package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound marks lookups for entities that do not exist. Repositories
// wrap it with context; handlers map it to 404.
var ErrNotFound = errors.New("not found")

// ConflictError is a business or concurrency conflict surfaced as an
// explicit value by the persistence adapter, so callers never inspect
// driver error codes. Retryable conflicts (optimistic version mismatch,
// serialization failure) should be resubmitted by the caller.
type ConflictError struct {
	Reason    string
	Value     string
	Retryable bool
}

func (e *ConflictError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s", e.Reason, e.Value)
	}
	return e.Reason
}

// NameNotUniqueError reports a duplicate vehicle name.
func NameNotUniqueError(name string) *ConflictError {
	return &ConflictError{Reason: "vehicle name is not unique", Value: name}
}

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RequestValidationError reports malformed or missing request fields. The
// operation is never attempted.
type RequestValidationError struct {
	Fields []FieldError
}

func (e *RequestValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return "request validation failed: " + strings.Join(msgs, "; ")
}

// RowError describes one invalid field of one import row. RowNumber is
// 1-based.
type RowError struct {
	RowNumber int    `json:"rowNumber"`
	Field     string `json:"field"`
	Message   string `json:"message"`
}

// ImportValidationError rejects a whole import batch. It carries every
// violation found, ordered by row then field.
type ImportValidationError struct {
	Errors []RowError
}

func (e *ImportValidationError) Error() string {
	return fmt.Sprintf("import validation failed with %d error(s)", len(e.Errors))
}

// StorageError marks object-store operations that failed after bounded
// retry. During an import it forces the surrounding transaction to roll
// back; handlers map it to 503.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("object storage %s failed for key %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
