package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runEvalCommand executes eval on src with the given flags. The "--"
// terminator keeps expressions with a leading minus out of flag parsing.
func runEvalCommand(t *testing.T, format, src string, flags ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: format}
	cmd := NewEvalCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs(append(append([]string{}, flags...), "--", src))
	err := cmd.Execute()
	return buf.String(), err
}

func TestEvalPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"2 + 3 * 4", "14"},
		{"(2 + 3) * 4", "20"},
		{"2 * 3 + 4", "10"},
		{"8 - 3 - 2", "3"},
		{"8 / 4 / 2", "1"},
		{"-3 + 4", "1"},
		{"-(3 + 4)", "-7"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			output, err := runEvalCommand(t, "text", tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, strings.TrimSpace(output))
		})
	}
}

func TestEvalWithVars(t *testing.T) {
	output, err := runEvalCommand(t, "text", "a * b + a", "--var", "a=2", "--var", "b=3")
	require.NoError(t, err)
	assert.Equal(t, "8", strings.TrimSpace(output))
}

func TestEvalUnassignedBindingIsZero(t *testing.T) {
	output, err := runEvalCommand(t, "text", "a + 5")
	require.NoError(t, err)
	assert.Equal(t, "5", strings.TrimSpace(output))
}

func TestEvalDivisionEdges(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		flags []string
		want  string
	}{
		{"positive infinity", "1 / 0", nil, "+Inf"},
		{"negative infinity", "-1 / 0", nil, "-Inf"},
		{"nan", "0 / 0", nil, "NaN"},
		{"bound infinity", "a / b", []string{"--var", "a=1", "--var", "b=0"}, "+Inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := runEvalCommand(t, "text", tt.src, tt.flags...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, strings.TrimSpace(output))
		})
	}
}

func TestEvalJSON(t *testing.T) {
	output, err := runEvalCommand(t, "json", "a / 4", "--var", "a=1")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "0.25", data["result"])
}

func TestEvalJSONNaNResult(t *testing.T) {
	// NaN must survive JSON output as a rendered string.
	output, err := runEvalCommand(t, "json", "0 / 0")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "NaN", data["result"])
}

func TestEvalBadVar(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		flags []string
	}{
		{"missing equals", "a + 1", []string{"--var", "a"}},
		{"empty name", "a + 1", []string{"--var", "=2"}},
		{"bad value", "a + 1", []string{"--var", "a=banana"}},
		{"unbound name", "a + 1", []string{"--var", "z=2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := runEvalCommand(t, "text", tt.src, tt.flags...)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.Contains(t, output, "BAD_VAR")
		})
	}
}

func TestEvalParseError(t *testing.T) {
	output, err := runEvalCommand(t, "text", "2 +")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, output, "UNEXPECTED_TOKEN")
}
