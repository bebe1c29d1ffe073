package catalog

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// ParseError reports a syntax problem in a text catalog or settings line.
type ParseError struct {
	Line    int // 1-based; 0 if unknown
	Message string
	Err     error // underlying error, if any
}

func (e *ParseError) Error() string {
	msg := e.Message
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = msg + ": " + e.Err.Error()
		}
	}
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error { return e.Err }

// CompileError represents a CUE catalog error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError converts a CUE error into a *CompileError. The position
// is the first one inside the catalog file; when CUE only reports schema
// positions, the failing path is looked up in src instead.
func formatCUEError(err error, src cue.Value) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &CompileError{Field: "cue", Message: err.Error(), Pos: src.Pos()}
	}

	first := errs[0]
	path := catalogPath(first.Path())
	field := strings.Join(path, ".")
	if field == "" {
		field = "cue"
	}
	format, args := first.Msg()

	pos, ok := catalogPos(errs)
	if !ok {
		pos = lookupPos(src, path)
	}
	return &CompileError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
	}
}

// catalogPath drops schema definition selectors such as #Catalog.
func catalogPath(path []string) []string {
	out := make([]string, 0, len(path))
	for _, sel := range path {
		if strings.HasPrefix(sel, "#") {
			continue
		}
		out = append(out, sel)
	}
	return out
}

func catalogPos(errs []errors.Error) (token.Pos, bool) {
	for _, e := range errs {
		for _, p := range errors.Positions(e) {
			if p.IsValid() && p.Filename() != schemaFilename {
				return p, true
			}
		}
	}
	return token.NoPos, false
}

// lookupPos returns the position of the deepest existing value along path.
func lookupPos(src cue.Value, path []string) token.Pos {
	for n := len(path); n > 0; n-- {
		sels := make([]cue.Selector, n)
		for i, name := range path[:n] {
			sels[i] = cue.Str(name)
		}
		if v := src.LookupPath(cue.MakePath(sels...)); v.Exists() && v.Pos().IsValid() {
			return v.Pos()
		}
	}
	return src.Pos()
}

// Validation error codes (E200-E299).
const (
	ErrAlphabetInvalid    = "E201" // empty, duplicate or reserved characters
	ErrSlotCount          = "E202" // fewer than two slots
	ErrPawlCount          = "E203" // pawls outside 0..slots-1
	ErrRotorName          = "E204" // empty or reserved characters
	ErrDuplicateRotorName = "E205"
	ErrRotorKind          = "E206"
	ErrRotorNotches       = "E207" // notches on a fixed rotor, or outside the alphabet
	ErrRotorCycles        = "E208" // wiring does not parse
	ErrNoReflector        = "E209"
	ErrStackUnfillable    = "E210" // not enough rotors of each kind for one stack
	ErrNoRotors           = "E211"
)

// ValidationError represents one catalog problem.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidationErrors is returned by Build and Load when Validate finds
// problems.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	switch len(errs) {
	case 0:
		return "no validation errors"
	case 1:
		return errs[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more)", errs[0].Error(), len(errs)-1)
	}
}
