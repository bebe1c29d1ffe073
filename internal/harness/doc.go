// Package harness provides conformance testing for rotor machine catalogs.
//
// The harness loads a catalog, runs a message stream through a freshly
// built machine, and validates the output as an executable contract test.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: naval_sample
//	description: "What this scenario validates"
//	catalog: default.conf          # relative to the scenario file
//	strict_reflectors: false
//	input: |
//	  * B Beta III IV I AXLE (HQ) (EX) (IP) (TR) (BY)
//	  FROM HIS SHOULDER HIAWATHA
//	assertions:
//	  - type: output_equals
//	    expect: "QVPQS OKOIL PUBKJ ZPISF XDW\n"
//	  - type: roundtrip
//	  - type: final_positions
//	    expect: AXMB
//
// # Assertion Types
//
// The following assertion types are supported:
//
//   - output_equals: Verifies the converted stream byte for byte
//   - roundtrip: Verifies that converting the output restores the input
//   - final_positions: Verifies rotor positions at the end of a message
//   - error_code: Verifies processing stops with a configuration error code
//   - message_count: Verifies the number of settings lines processed
//
// # Deterministic Testing
//
// Message tokens come from testutil.SequenceGenerator seeded with the
// scenario's token_prefix (the scenario name when unset), so the same
// scenario always produces byte-identical snapshots for golden file
// comparison.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/naval_sample.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
