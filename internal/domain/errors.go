package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSolutionNotFound signals a missing solution id.
	ErrSolutionNotFound = errors.New("solution not found")
	// ErrProjectNotFound signals a missing project id.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidCatalog signals a catalog that breaks a referential or enumeration invariant.
	ErrInvalidCatalog = errors.New("invalid catalog")
	// ErrInvalidRequest signals a malformed search or browse request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidSession signals a malformed session identifier.
	ErrInvalidSession = errors.New("invalid session")
	// ErrInvalidHistoryItem signals a history entry with an unknown type or empty path.
	ErrInvalidHistoryItem = errors.New("invalid history item")
	// ErrSelectionFull signals that the shortlist reached its configured size.
	ErrSelectionFull = errors.New("selection is full")
	// ErrCorruptState signals persisted session state that cannot be decoded.
	ErrCorruptState = errors.New("corrupt session state")

	// ErrAssistUnavailable signals that assisted search is not configured.
	ErrAssistUnavailable = errors.New("assisted search unavailable")
	// ErrAssistProviderError signals an assist provider failure.
	ErrAssistProviderError = errors.New("assist provider error")
)

// CatalogError describes a single catalog invariant violation.
type CatalogError struct {
	Record string
	Field  string
	Value  string
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("%s: %s: %s %q", ErrInvalidCatalog.Error(), e.Record, e.Field, e.Value)
}

func (e *CatalogError) Unwrap() error { return ErrInvalidCatalog }

// NewCatalogError creates a catalog invariant error for the given record field.
func NewCatalogError(record, field, value string) error {
	return &CatalogError{Record: record, Field: field, Value: value}
}
