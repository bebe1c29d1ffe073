package harness

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/roach88/enigma/internal/catalog"
	"github.com/roach88/enigma/internal/session"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Output   string // Full output for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if e.Output != "" {
		fmt.Fprintf(&buf, "\nFull output:\n")
		for i, line := range splitLines(e.Output) {
			fmt.Fprintf(&buf, "  [%d] %s\n", i+1, line)
		}
	}

	return buf.String()
}

// AssertionContext provides context for evaluating assertions.
type AssertionContext struct {
	Ctx     context.Context
	Input   string
	Harness *Harness
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
// The actx parameter is required by roundtrip assertions, which run the
// output through a fresh machine.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertOutputEquals:
			err = assertOutputEquals(result, assertion)
		case AssertRoundtrip:
			if actx == nil || actx.Harness == nil {
				err = fmt.Errorf("assertion[%d]: roundtrip requires harness context", i)
			} else {
				err = assertRoundtrip(actx, result)
			}
		case AssertFinalPositions:
			err = assertFinalPositions(result, assertion)
		case AssertErrorCode:
			err = assertErrorCode(result, assertion)
		case AssertMessageCount:
			err = assertMessageCount(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

func assertOutputEquals(result *Result, assertion Assertion) error {
	if result.Output == assertion.Expect {
		return nil
	}
	return &AssertionError{
		Type:     AssertOutputEquals,
		Expected: fmt.Sprintf("%q", assertion.Expect),
		Actual:   fmt.Sprintf("%q", result.Output),
		Output:   result.Output,
	}
}

// assertRoundtrip replaces every message line of the input with its
// converted output line, runs the result through a fresh machine, and
// checks that it yields the original message lines.
func assertRoundtrip(actx *AssertionContext, result *Result) error {
	if result.Failed() {
		return &AssertionError{
			Type:     AssertRoundtrip,
			Expected: "input processed without error",
			Actual:   result.Error,
		}
	}

	inputLines := splitLines(actx.Input)
	outputLines := splitLines(result.Output)

	var replay, want strings.Builder
	k := 0
	for _, line := range inputLines {
		if catalog.IsSettingsLine(line) {
			replay.WriteString(line + "\n")
			continue
		}
		if k >= len(outputLines) {
			return &AssertionError{
				Type:     AssertRoundtrip,
				Expected: fmt.Sprintf("an output line for input %q", line),
				Actual:   fmt.Sprintf("%d output lines", len(outputLines)),
				Output:   result.Output,
			}
		}
		replay.WriteString(outputLines[k] + "\n")
		k++
		if strings.TrimSpace(line) == "" {
			want.WriteString("\n")
		} else {
			want.WriteString(session.Group(session.Prepare(line), session.DefaultGroupSize) + "\n")
		}
	}

	got, _, err := actx.Harness.process(actx.Ctx, replay.String())
	if err != nil {
		return &AssertionError{
			Type:     AssertRoundtrip,
			Expected: "output converts back without error",
			Actual:   err.Error(),
			Output:   got,
		}
	}
	if got != want.String() {
		return &AssertionError{
			Type:     AssertRoundtrip,
			Expected: fmt.Sprintf("%q", want.String()),
			Actual:   fmt.Sprintf("%q", got),
			Output:   got,
		}
	}
	return nil
}

func assertFinalPositions(result *Result, assertion Assertion) error {
	n := len(result.Messages)
	idx := n - 1
	if assertion.Message > 0 {
		idx = assertion.Message - 1
	}
	if idx < 0 || idx >= n {
		return &AssertionError{
			Type:     AssertFinalPositions,
			Expected: fmt.Sprintf("message %d with positions %s", idx+1, assertion.Expect),
			Actual:   fmt.Sprintf("%d messages", n),
			Output:   result.Output,
		}
	}

	got := result.Messages[idx].FinalPositions
	if got != assertion.Expect {
		return &AssertionError{
			Type:     AssertFinalPositions,
			Expected: fmt.Sprintf("message %d ends at %s", idx+1, assertion.Expect),
			Actual:   fmt.Sprintf("message %d ends at %s", idx+1, got),
			Output:   result.Output,
		}
	}
	return nil
}

func assertErrorCode(result *Result, assertion Assertion) error {
	if !result.Failed() {
		return &AssertionError{
			Type:     AssertErrorCode,
			Expected: fmt.Sprintf("error %s", assertion.Expect),
			Actual:   "no error",
			Output:   result.Output,
		}
	}
	if result.ErrorCode != assertion.Expect {
		return &AssertionError{
			Type:     AssertErrorCode,
			Expected: fmt.Sprintf("error %s", assertion.Expect),
			Actual:   result.Error,
		}
	}
	if assertion.Line > 0 && result.ErrorLine != assertion.Line {
		return &AssertionError{
			Type:     AssertErrorCode,
			Expected: fmt.Sprintf("error %s on line %d", assertion.Expect, assertion.Line),
			Actual:   fmt.Sprintf("error %s on line %d", result.ErrorCode, result.ErrorLine),
		}
	}
	return nil
}

func assertMessageCount(result *Result, assertion Assertion) error {
	if len(result.Messages) == assertion.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertMessageCount,
		Expected: fmt.Sprintf("%d messages", assertion.Count),
		Actual:   fmt.Sprintf("%d messages", len(result.Messages)),
		Output:   result.Output,
	}
}

// splitLines splits s the same way session.Processor reads its input.
func splitLines(s string) []string {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(s))
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}
