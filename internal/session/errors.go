package session

import (
	"errors"
	"fmt"
)

// LineError reports the input line on which processing stopped.
type LineError struct {
	// Line is the 1-based input line number.
	Line int

	// Err is the underlying error, usually a *cipher.ConfigurationError.
	Err error
}

// Error implements the error interface.
func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying error.
func (e *LineError) Unwrap() error { return e.Err }

// LineOf returns the line number of the wrapped LineError, or 0 if none.
func LineOf(err error) int {
	var le *LineError
	if errors.As(err, &le) {
		return le.Line
	}
	return 0
}
