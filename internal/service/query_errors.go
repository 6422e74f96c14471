package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound indicates no record matched the filter.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a record with the same unique kwargs exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNothingToUpdate indicates the update body changed no field.
	ErrNothingToUpdate = errors.New("nothing to update")
	// ErrInvalidInput indicates the request body was rejected before touching the database.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotList indicates a batch body that is not a JSON list.
	ErrNotList = fmt.Errorf("%w: not list", ErrInvalidInput)
	// ErrFieldMismatch indicates a batch item contradicting a forced field.
	ErrFieldMismatch = fmt.Errorf("%w: forced field mismatch", ErrInvalidInput)
	// ErrFilterRequired guards bulk mutations against an empty filter.
	ErrFilterRequired = errors.New("a filter is required")
)

// QueryError carries the client-facing message for a classified failure.
type QueryError struct {
	Kind    error
	Message string
}

func (e *QueryError) Error() string {
	return e.Message
}

func (e *QueryError) Unwrap() error {
	return e.Kind
}

func newQueryError(kind error, format string, args ...any) error {
	return &QueryError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// FormatKwargs renders a filter as "{key: value, ...}" with sorted keys.
func FormatKwargs[V any](kwargs map[string]V) string {
	keys := make([]string, 0, len(kwargs))
	for key := range kwargs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", key, kwargs[key]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
