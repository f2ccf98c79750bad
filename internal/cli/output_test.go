package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError(t *testing.T) {
	err := NewExitError(ExitCommandError, "boom")
	assert.Equal(t, "boom", err.Error())
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	wrapped := WrapExitError(ExitFailure, "outer", errors.New("inner"))
	assert.Equal(t, "outer: inner", wrapped.Error())
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
	assert.EqualError(t, errors.Unwrap(wrapped), "inner")
}

func TestGetExitCodeDefault(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}

func TestGetExitCodeWrapped(t *testing.T) {
	err := fmt.Errorf("context: %w", NewExitError(ExitCommandError, "db gone"))
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestFormatterSuccessJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, f.Success(map[string]string{"result": "14"}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestFormatterErrorText(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, f.Error("UNCLOSED_PAREN", "missing ')'", nil))
	assert.Contains(t, buf.String(), "Error [UNCLOSED_PAREN]: missing ')'")
}

func TestVerboseLogRouting(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut, Verbose: true}

	f.VerboseLog("detail %d", 7)
	assert.Empty(t, out.String(), "verbose output must not corrupt JSON on Writer")
	assert.Equal(t, "detail 7\n", errOut.String())

	f.Verbose = false
	f.VerboseLog("dropped")
	assert.Equal(t, "detail 7\n", errOut.String())
}
