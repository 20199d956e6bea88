// Package errors provides error types and handling for Synapse upload operations.
package errors

import (
	"errors"
	"fmt"
)

// Error represents an upload operation error with context about the operation
// that failed. It wraps the underlying error with additional context for better
// debugging.
type Error struct {
	// Op is the operation that failed (e.g., "upload", "createFileHandle")
	Op string

	// Path is the local file path involved (if applicable)
	Path string

	// Destination describes the upload destination involved (if applicable)
	Destination string

	// Err is the underlying error from a collaborator or other source
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Path != "" && e.Destination != "" {
		return fmt.Sprintf("synapse.%s %s to %s: %v", e.Op, e.Path, e.Destination, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("synapse.%s %s: %v", e.Op, e.Path, e.Err)
	}
	if e.Destination != "" {
		return fmt.Sprintf("synapse.%s destination %s: %v", e.Op, e.Destination, e.Err)
	}
	return fmt.Sprintf("synapse.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithPath adds local path context to an existing error.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// WithDestination adds destination context to an existing error.
func (e *Error) WithDestination(destination string) *Error {
	e.Destination = destination
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// NewPathError creates a new Error with local path context.
func NewPathError(op, path string, err error) *Error {
	return &Error{
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// NewDestinationError creates a new Error with destination context.
func NewDestinationError(op, destination string, err error) *Error {
	return &Error{
		Op:          op,
		Destination: destination,
		Err:         err,
	}
}

// Sentinel errors for upload operation failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrInvalidArgument indicates that a required path or URL is missing or malformed
	ErrInvalidArgument = errors.New("synapse: invalid argument")

	// ErrChecksumMismatch indicates that a locally computed digest disagrees with
	// a caller-supplied digest
	ErrChecksumMismatch = errors.New("synapse: checksum mismatch")

	// ErrUnsupportedDestination indicates a recognized destination kind whose
	// configured sub-type is not supported
	ErrUnsupportedDestination = errors.New("synapse: unsupported destination")

	// ErrTransferFailed indicates that a byte transfer to a destination failed
	ErrTransferFailed = errors.New("synapse: transfer failed")

	// ErrNotFound indicates that the requested platform resource does not exist
	ErrNotFound = errors.New("synapse: not found")

	// ErrUnauthorized indicates that the request lacks valid platform credentials
	ErrUnauthorized = errors.New("synapse: unauthorized")

	// ErrInvalidCredentials indicates that configured endpoint credentials are
	// missing or unusable
	ErrInvalidCredentials = errors.New("synapse: invalid credentials")
)

// IsInvalidArgument checks if an error indicates a missing or malformed argument.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsChecksumMismatch checks if an error indicates a content digest disagreement.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsChecksumMismatch(err error) bool {
	return errors.Is(err, ErrChecksumMismatch)
}

// IsUnsupportedDestination checks if an error indicates an unsupported destination
// sub-type. This is a convenience function that handles both sentinel errors and
// wrapped errors.
func IsUnsupportedDestination(err error) bool {
	return errors.Is(err, ErrUnsupportedDestination)
}

// IsTransferFailed checks if an error indicates a failed byte transfer.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsTransferFailed(err error) bool {
	return errors.Is(err, ErrTransferFailed)
}
