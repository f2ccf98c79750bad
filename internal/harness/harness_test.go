package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatp(v float64) *float64 { return &v }

func TestRun_MigrationCommands(t *testing.T) {
	scenario := &Scenario{
		Name:        "migration",
		Description: "rename migrates wires",
		Text:        "a + b",
		Wires: []WireSpec{
			{Var: "a", Remote: "alpha"},
			{Var: "b", Remote: "beta"},
		},
		Steps: []Step{
			{Edit: "b + c", WantBindings: []string{"b", "c"}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors=%v", result.Errors)

	require.Len(t, result.Trace, 1)
	ev := result.Trace[0]
	assert.Equal(t, []string{
		"drop node:1",
		"disconnect beta:0 -> node:2",
		"connect beta:0 -> node:1",
	}, ev.Commands)
	assert.Equal(t, []string{"beta:0 -> node:1"}, ev.Wires)
}

func TestRun_SetOnlyStep(t *testing.T) {
	scenario := &Scenario{
		Name:        "set-only",
		Description: "values drive evaluation without an edit",
		Text:        "x * x",
		Steps: []Step{
			{Set: map[string]float64{"x": 3}, WantOutput: floatp(9)},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors=%v", result.Errors)
	assert.Equal(t, "9", result.Trace[0].Output)
	assert.Empty(t, result.Trace[0].Commands)
}

func TestRun_InvalidInitialText(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad-initial",
		Description: "initial text must parse",
		Text:        "1 +",
		Steps:       []Step{{Edit: "2"}},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initial text")
}

func TestRun_WireToUnboundName(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad-wire",
		Description: "wires must target bound names",
		Text:        "a + 1",
		Wires:       []WireSpec{{Var: "z", Remote: "alpha"}},
		Steps:       []Step{{Edit: "2"}},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"z" is not bound`)
}

func TestRun_SetUnknownBinding(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad-set",
		Description: "set must target bound names",
		Text:        "a + 1",
		Steps:       []Step{{Set: map[string]float64{"q": 1}}},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `set "q": not bound`)
}

func TestRun_ExpectationMismatch(t *testing.T) {
	scenario := &Scenario{
		Name:        "mismatch",
		Description: "wrong expectations fail softly",
		Text:        "1 + 1",
		Steps: []Step{
			{Edit: "2 + 2", WantOutput: floatp(5)},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "output = 4, want 5")
}

func TestRun_UnexpectedParseError(t *testing.T) {
	scenario := &Scenario{
		Name:        "unexpected-error",
		Description: "a failing edit without want_error fails the step",
		Text:        "1",
		Steps: []Step{
			{Edit: "1 +"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `error = "UNEXPECTED_TOKEN", want ""`)
}

// TestRun_Replay validates deterministic replay: running the same
// scenario twice must produce identical traces.
func TestRun_Replay(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/slot_swap.yaml")
	require.NoError(t, err)

	result1, err := Run(scenario)
	require.NoError(t, err)
	require.True(t, result1.Pass)

	result2, err := Run(scenario)
	require.NoError(t, err)
	require.True(t, result2.Pass)

	assert.Equal(t, result1.Trace, result2.Trace)
}
