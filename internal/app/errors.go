package app

import "errors"

// Application errors.
var (
	// ErrClosed indicates the application has been closed.
	ErrClosed = errors.New("application closed")

	// ErrNoFile indicates the document has no backing file.
	ErrNoFile = errors.New("document has no file")

	// ErrReadOnly indicates a save was attempted on a read-only document.
	ErrReadOnly = errors.New("document is read-only")
)

// InitError reports a component that failed to start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}
