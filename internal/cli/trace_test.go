package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeTrace(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewTraceCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestTraceDoubleStep(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "default.conf", navalCatalog)

	out, err := executeTrace(t, "text", path, "--settings", "* B Beta I II III AADU", "--text", "AAAA")
	require.NoError(t, err)
	assert.Contains(t, out, "Trace for: * B Beta I II III AADU")
	assert.Contains(t, out, "Start: AADU")
	assert.Contains(t, out, "     1  A   E   AADV\n")
	assert.Contains(t, out, "     2  A   Q   AAEW\n")
	assert.Contains(t, out, "     3  A   I   ABFX\n")
	assert.Contains(t, out, "     4  A   B   ABFY\n")
	assert.Contains(t, out, "Output: EQIB")
	assert.NotContains(t, out, "Settings ID")
}

func TestTraceJSON(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "default.conf", navalCatalog)

	out, err := executeTrace(t, "json", path, "--settings", "* B Beta I II III AADU", "--text", "AA AA")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   TraceResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "AADU", resp.Data.Start)
	assert.Equal(t, "EQIB", resp.Data.Output)
	assert.Len(t, resp.Data.SettingsID, 64)
	require.Len(t, resp.Data.Keystrokes, 4)
	assert.Equal(t, 4, resp.Data.Keystrokes[3].Seq)
	assert.Equal(t, "ABFY", resp.Data.Keystrokes[3].Positions)
}

func TestTraceErrors(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "default.conf", navalCatalog)

	tests := []struct {
		name     string
		settings string
		text     string
		wantCode string
	}{
		{"missing marker", "B Beta I II III AADU", "AAAA", "MISSING_MARKER"},
		{"reflector slot", "* Beta B I II III AADU", "AAAA", "REFLECTOR_SLOT"},
		{"text outside alphabet", "* B Beta I II III AADU", "HELLO!", "CHAR_NOT_IN_ALPHABET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeTrace(t, "text", path, "--settings", tt.settings, "--text", tt.text)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.Contains(t, out, "Error ["+tt.wantCode+"]")
		})
	}
}

func TestTraceRequiredFlags(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "default.conf", navalCatalog)

	_, err := executeTrace(t, "text", path, "--text", "AAAA")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
	assert.Contains(t, err.Error(), "settings")
}
