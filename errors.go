package appsettings

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by container and section operations.
var (
	// ErrFileNotFound indicates the parameter file (or an included file)
	// does not exist and the caller requested strict behavior.
	ErrFileNotFound = errors.New("parameter file not found")

	// ErrInvalidPath indicates a caller-supplied path is not syntactically
	// valid for the current operating system.
	ErrInvalidPath = errors.New("invalid file path")

	// ErrNoFilePath indicates a save or update was attempted while no file
	// path is resolvable for the container.
	ErrNoFilePath = errors.New("no file path specified")

	// ErrUnknownContainerClass indicates a qualified container class name
	// could not be resolved against the class registry.
	ErrUnknownContainerClass = errors.New("unknown container class")
)

// FieldError describes a single field that failed validation or coercion.
type FieldError struct {
	// Field is the dotted path of the offending field.
	Field string
	// Message describes why the value was rejected.
	Message string
}

func (e FieldError) String() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError reports every field of a section that could not be coerced
// to its declared type. Construction is all-or-nothing: when a
// ValidationError is returned, no instance has been registered.
type ValidationError struct {
	// Section is the Go type name of the section that failed to construct.
	Section string
	// Fields lists all violating fields.
	Fields []FieldError

	err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, fe := range e.Fields {
		msgs = append(msgs, fe.String())
	}
	return fmt.Sprintf("validation of %s failed: %s", e.Section, strings.Join(msgs, "; "))
}

// Unwrap returns the underlying decode error.
func (e *ValidationError) Unwrap() error {
	return e.err
}
