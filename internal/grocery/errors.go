package grocery

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound means an id in the request path does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict means the item is already on the target list.
	ErrConflict = errors.New("item already exists in purchase list")
	// ErrInUse means a delete was refused because other rows depend on the target.
	ErrInUse = errors.New("resource is in use")
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field problem found in one input.
type ValidationError struct {
	Details []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Details))
	for i, d := range e.Details {
		parts[i] = d.Field + ": " + d.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Details: []FieldError{{Field: field, Message: message}}}
}

func notFound(what, id string) error {
	return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
}
