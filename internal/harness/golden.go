package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// TraceSnapshot captures the complete trace for a scenario execution.
// It marshals to indented JSON for golden comparison; all float values
// inside the trace are pre-rendered strings, so the serialization is
// total even when bindings hold NaN or an infinity.
type TraceSnapshot struct {
	Scenario string       `json:"scenario"`
	Text     string       `json:"text"`
	Trace    []TraceEvent `json:"trace"`
}

// RunWithGolden executes a scenario and compares the trace against a
// golden file. The golden file is stored in
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if scenario execution fails or an expectation in the
// scenario itself does not hold. Test failure (via goldie) occurs if
// the trace doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	if !result.Pass {
		return fmt.Errorf("scenario %s failed:\n  %s", scenario.Name, strings.Join(result.Errors, "\n  "))
	}

	snapshot := TraceSnapshot{
		Scenario: scenario.Name,
		Text:     scenario.Text,
		Trace:    result.Trace,
	}
	traceJSON, err := marshalSnapshot(&snapshot)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, traceJSON)

	return nil
}

// marshalSnapshot renders a snapshot as indented JSON with HTML
// escaping off. Command and wire strings carry "->", which the default
// encoder would mangle into "->".
func marshalSnapshot(s *TraceSnapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
