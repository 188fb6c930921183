// Package apperr defines the error taxonomy shared by the store, the
// notifier, and the HTTP boundary. Handlers dispatch on these types with
// errors.As to pick a status code instead of collapsing everything to 500.
package apperr

import "fmt"

// ValidationError reports input that fails shape or content checks, such as
// an empty title.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a reference to a document that does not exist.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("document %s not found", e.ID)
}

// StorageError wraps a fault from the underlying persistence layer. The
// store does not retry; callers decide whether a retry is safe.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ChannelError reports a connection-level fault in the real-time layer.
// These are swallowed at the notifier boundary and never reach the HTTP
// path or other connections.
type ChannelError struct {
	Err error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("channel: %v", e.Err)
}

func (e *ChannelError) Unwrap() error { return e.Err }
