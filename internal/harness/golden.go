package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/enigma/internal/ir"
)

// Snapshot captures everything a scenario execution produced.
// All fields use canonical JSON serialization for deterministic comparison.
type Snapshot struct {
	ScenarioName string
	Result       *Result
}

// Value converts the snapshot to canonical form.
// Assertion errors are excluded; a snapshot records behavior, not verdicts.
func (s *Snapshot) Value() ir.Object {
	messages := make(ir.Array, len(s.Result.Messages))
	for i, m := range s.Result.Messages {
		messages[i] = ir.Object{
			"token":           ir.String(m.Token),
			"settings":        ir.String(m.Settings),
			"settings_id":     ir.String(m.SettingsID),
			"line":            ir.Int(m.Line),
			"lines":           ir.Int(m.Lines),
			"chars":           ir.Int(m.Chars),
			"final_positions": ir.String(m.FinalPositions),
		}
	}

	obj := ir.Object{
		"scenario_name": ir.String(s.ScenarioName),
		"output":        ir.String(s.Result.Output),
		"messages":      messages,
	}
	if s.Result.Failed() {
		obj["error_code"] = ir.String(s.Result.ErrorCode)
		obj["error_line"] = ir.Int(s.Result.ErrorLine)
	}
	return obj
}

// MarshalSnapshot returns the canonical JSON golden content for a result.
func MarshalSnapshot(scenarioName string, result *Result) ([]byte, error) {
	snapshot := Snapshot{ScenarioName: scenarioName, Result: result}
	return ir.MarshalCanonical(snapshot.Value())
}

// RunWithGolden executes a scenario and compares the snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result against a golden file.
// This is useful when you've already run a scenario and want to compare
// the result against a golden file without re-running.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
