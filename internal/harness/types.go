package harness

import "github.com/roach88/enigma/internal/session"

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every assertion holds.
	Pass bool `json:"pass"`

	// Output is the converted stream exactly as written.
	Output string `json:"output"`

	// Messages summarizes each message in the stream.
	Messages []session.MessageReport `json:"messages"`

	// ErrorCode is the configuration error code processing stopped on,
	// empty if the stream was processed completely.
	ErrorCode string `json:"error_code,omitempty"`

	// ErrorLine is the input line processing stopped on.
	ErrorLine int `json:"error_line,omitempty"`

	// Error is the full processing error message.
	Error string `json:"error,omitempty"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Messages: []session.MessageReport{},
		Errors:   []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Failed reports whether processing stopped on an error.
func (r *Result) Failed() bool {
	return r.Error != ""
}
