package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
// A scenario runs a message stream through a machine built from a catalog
// and asserts on the converted output and the final machine state.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Catalog is the path to the rotor catalog (text, CUE or YAML).
	// Relative paths are resolved against the scenario file's directory.
	Catalog string `yaml:"catalog"`

	// StrictReflectors rejects reflectors with fixed points.
	StrictReflectors bool `yaml:"strict_reflectors,omitempty"`

	// TokenPrefix prefixes the deterministic message tokens.
	// If empty, the scenario name is used.
	TokenPrefix string `yaml:"token_prefix,omitempty"`

	// Input is the message stream: settings lines and message lines.
	Input string `yaml:"input"`

	// Assertions validate the output and final state.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates output or final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "output_equals": the converted stream matches Expect exactly
	// - "roundtrip": converting the output again restores the input
	// - "final_positions": rotor positions after a message match Expect
	// - "error_code": processing fails with code Expect (optionally on Line)
	// - "message_count": the stream holds exactly Count messages
	Type string `yaml:"type"`

	// Expect is the expected value (output_equals, final_positions, error_code).
	Expect string `yaml:"expect,omitempty"`

	// Message selects a message for final_positions, 1-based.
	// Zero means the last message.
	Message int `yaml:"message,omitempty"`

	// Line is the expected failing input line (error_code). Zero skips the check.
	Line int `yaml:"line,omitempty"`

	// Count is the expected number of messages (message_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertOutputEquals   = "output_equals"
	AssertRoundtrip      = "roundtrip"
	AssertFinalPositions = "final_positions"
	AssertErrorCode      = "error_code"
	AssertMessageCount   = "message_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve the catalog path BEFORE validation
	if scenario.Catalog != "" && !filepath.IsAbs(scenario.Catalog) {
		scenario.Catalog = filepath.Join(filepath.Dir(path), scenario.Catalog)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Catalog == "" {
		return fmt.Errorf("catalog is required")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if _, err := os.Stat(s.Catalog); os.IsNotExist(err) {
		return fmt.Errorf("catalog file not found: %s", s.Catalog)
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertOutputEquals, AssertRoundtrip:
	case AssertFinalPositions:
		if a.Expect == "" {
			return fmt.Errorf("assertions[%d]: expect is required for final_positions", index)
		}
		if a.Message < 0 {
			return fmt.Errorf("assertions[%d]: message must be non-negative for final_positions", index)
		}
	case AssertErrorCode:
		if a.Expect == "" {
			return fmt.Errorf("assertions[%d]: expect is required for error_code", index)
		}
	case AssertMessageCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for message_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
