package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarioGoldens runs every scenario under testdata/scenarios and
// compares its trace against the matching golden file. Golden files are
// the source of truth for connection-command ordering; regenerate with
// go test ./internal/harness -update after an intentional change.
func TestScenarioGoldens(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths, "no scenario files found")

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".yaml")
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err, "failed to load scenario from %s", path)

			// Scenario name must match the file so the golden file
			// lands next to it.
			assert.Equal(t, name, scenario.Name)

			require.NoError(t, RunWithGolden(t, scenario))
		})
	}
}

func TestMarshalSnapshotKeepsArrows(t *testing.T) {
	snapshot := &TraceSnapshot{
		Scenario: "arrows",
		Text:     "a + b",
		Trace: []TraceEvent{{
			Step:     1,
			Bindings: []string{"a", "b"},
			Values:   []string{"1", "2"},
			Output:   "3",
			Commands: []string{"connect up:0 -> node:1"},
			Wires:    []string{"up:0 -> node:1"},
		}},
	}

	data, err := marshalSnapshot(snapshot)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"connect up:0 -> node:1"`)
	assert.NotContains(t, string(data), `>`)
	assert.False(t, strings.HasSuffix(string(data), "\n"), "snapshot must match goldens stored without a trailing newline")
}
