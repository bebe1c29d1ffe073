package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindScenarios(t *testing.T) {
	paths, err := FindScenarios("testdata", "")
	require.NoError(t, err)

	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	assert.Equal(t, []string{
		"double_step.yaml",
		"multiple_messages.yaml",
		"naval_sample.yaml",
		"reflector_slot.yaml",
		"strict_reflector.yaml",
		"three_notch.yaml",
	}, names)
}

func TestFindScenarios_Filter(t *testing.T) {
	paths, err := FindScenarios("testdata", "*_s*")
	require.NoError(t, err)

	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	assert.Equal(t, []string{"double_step.yaml", "naval_sample.yaml", "reflector_slot.yaml"}, names)
}

func TestFindScenarios_SkipsGoldenDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "golden"), 0755))
	writeFile(t, filepath.Join(dir, "golden", "stray.yaml"), "name: x\n")
	writeFile(t, filepath.Join(dir, "a.yml"), "name: a\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "not a scenario\n")

	paths, err := FindScenarios(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.yml")}, paths)
}

func TestFindScenarios_Errors(t *testing.T) {
	_, err := FindScenarios(filepath.Join(t.TempDir(), "missing"), "")
	var nf *ScenarioNotFoundError
	require.ErrorAs(t, err, &nf)

	_, err = FindScenarios("testdata", "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter pattern")
}

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir)
	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "name: bad\n")
	failing := filepath.Join(dir, "failing.yaml")
	writeFile(t, failing, `
name: failing
description: wrong expectation
catalog: default.conf
input: |
  * B Beta III IV I AXLE
  HELLO
assertions:
  - type: output_equals
    expect: "HELLO\n"
`)

	suite := RunFiles([]string{"testdata/naval_sample.yaml", bad, failing})
	assert.Equal(t, 3, suite.Total)
	assert.Equal(t, 1, suite.Passed)
	assert.Equal(t, 2, suite.Failed)
	require.Len(t, suite.Scenarios, 3)

	assert.True(t, suite.Scenarios[0].Pass)
	assert.Equal(t, "naval_sample", suite.Scenarios[0].Name)
	assert.NotNil(t, suite.Scenarios[0].Result)

	assert.Equal(t, "bad.yaml", suite.Scenarios[1].Name)
	assert.Nil(t, suite.Scenarios[1].Scenario)
	assert.Contains(t, suite.Scenarios[1].Errors[0], "failed to load scenario")

	assert.Equal(t, "failing", suite.Scenarios[2].Name)
	assert.Contains(t, suite.Scenarios[2].Errors[0], "output_equals")
}
