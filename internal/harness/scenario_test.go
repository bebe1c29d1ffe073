package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func writeCatalog(t *testing.T, dir string) {
	t.Helper()
	data, err := os.ReadFile("testdata/default.conf")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "default.conf"), data, 0644))
}

func TestLoadScenario_Valid(t *testing.T) {
	s, err := LoadScenario("testdata/naval_sample.yaml")
	require.NoError(t, err)

	assert.Equal(t, "naval_sample", s.Name)
	assert.NotEmpty(t, s.Description)
	assert.Equal(t, filepath.Join("testdata", "default.conf"), s.Catalog)
	assert.False(t, s.StrictReflectors)
	assert.Contains(t, s.Input, "* B Beta III IV I AXLE")
	require.Len(t, s.Assertions, 4)
	assert.Equal(t, AssertOutputEquals, s.Assertions[0].Type)
	assert.Equal(t, "QVPQS OKOIL PUBKJ ZPISF XDW\nBHCNS CXNUO AATZX SRCFY DGU\n", s.Assertions[0].Expect)
	assert.Equal(t, AssertMessageCount, s.Assertions[3].Type)
	assert.Equal(t, 1, s.Assertions[3].Count)
}

func TestLoadScenario_AbsoluteCatalog(t *testing.T) {
	dir := t.TempDir()
	abs, err := filepath.Abs("testdata/default.conf")
	require.NoError(t, err)

	path := writeScenario(t, dir, `
name: abs
description: absolute catalog path
catalog: `+abs+`
input: ""
assertions:
  - type: message_count
    count: 0
`)
	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, abs, s.Catalog)
}

func TestLoadScenario_UnknownField(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir)
	path := writeScenario(t, dir, `
name: typo
description: misspelled key
catalog: default.conf
input: ""
assertion:
  - type: roundtrip
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
	assert.Contains(t, err.Error(), "assertion")
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing name",
			content: "description: d\ncatalog: default.conf\nassertions:\n  - type: roundtrip\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			content: "name: n\ncatalog: default.conf\nassertions:\n  - type: roundtrip\n",
			wantErr: "description is required",
		},
		{
			name:    "missing catalog",
			content: "name: n\ndescription: d\nassertions:\n  - type: roundtrip\n",
			wantErr: "catalog is required",
		},
		{
			name:    "catalog not found",
			content: "name: n\ndescription: d\ncatalog: missing.conf\nassertions:\n  - type: roundtrip\n",
			wantErr: "catalog file not found",
		},
		{
			name:    "no assertions",
			content: "name: n\ndescription: d\ncatalog: default.conf\n",
			wantErr: "assertions list is required",
		},
		{
			name:    "assertion without type",
			content: "name: n\ndescription: d\ncatalog: default.conf\nassertions:\n  - expect: X\n",
			wantErr: "assertions[0]: type is required",
		},
		{
			name:    "unknown assertion",
			content: "name: n\ndescription: d\ncatalog: default.conf\nassertions:\n  - type: trace_contains\n",
			wantErr: `unknown assertion type "trace_contains"`,
		},
		{
			name:    "final positions without expect",
			content: "name: n\ndescription: d\ncatalog: default.conf\nassertions:\n  - type: final_positions\n",
			wantErr: "expect is required for final_positions",
		},
		{
			name:    "error code without expect",
			content: "name: n\ndescription: d\ncatalog: default.conf\nassertions:\n  - type: roundtrip\n  - type: error_code\n",
			wantErr: "assertions[1]: expect is required for error_code",
		},
		{
			name:    "negative count",
			content: "name: n\ndescription: d\ncatalog: default.conf\nassertions:\n  - type: message_count\n    count: -1\n",
			wantErr: "count must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeCatalog(t, dir)
			_, err := LoadScenario(writeScenario(t, dir, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
