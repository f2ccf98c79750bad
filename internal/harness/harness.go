package harness

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/cowlicks/gruph/internal/expr"
	"github.com/cowlicks/gruph/internal/graph"
	"github.com/cowlicks/gruph/internal/node"
	"github.com/cowlicks/gruph/internal/testutil"
)

// subjectID is the fixed ID of the node under test. Fixed IDs keep
// traces byte-for-byte reproducible for golden comparison.
const subjectID = graph.NodeID("node")

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh recording connection store for
// isolation. Execution flow:
//  1. Create the subject node and apply its initial text.
//  2. Attach the declared upstream wires (not recorded in the trace).
//  3. Execute the steps, recording one trace event per step and
//     checking its expectations.
//
// Scenario definition mistakes (unparseable initial text, a wire to an
// unbound name, a set of an unknown binding) are hard errors.
// Expectation mismatches are soft failures collected in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	rec := testutil.NewRecordingConnector()
	rec.Store.AddNodeWithID(subjectID, graph.KindExpr)

	ctrl := node.New(subjectID, rec)
	if err := ctrl.ApplyTextEdit(scenario.Text); err != nil {
		return nil, fmt.Errorf("initial text %q: %w", scenario.Text, err)
	}

	for i, w := range scenario.Wires {
		slot := ctrl.SlotOf(w.Var)
		if slot == 0 {
			return nil, fmt.Errorf("wires[%d]: %q is not bound by %q", i, w.Var, scenario.Text)
		}
		remote := graph.NodeID(w.Remote)
		rec.Store.AddNodeWithID(remote, graph.KindSource)
		rec.Store.Connect(graph.OutPinID{Node: remote}, ctrl.InPin(slot))
	}
	rec.Reset()

	result := NewResult()
	for i, step := range scenario.Steps {
		if err := runStep(ctrl, rec, i, step, result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// runStep executes one step, appends its trace event, and checks the
// step's expectations against the resulting state.
func runStep(ctrl *node.Controller, rec *testutil.RecordingConnector, index int, step Step, result *Result) error {
	// Apply value assignments in name order for determinism.
	names := make([]string, 0, len(step.Set))
	for name := range step.Set {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		slot := ctrl.SlotOf(name)
		if slot == 0 {
			return fmt.Errorf("steps[%d]: set %q: not bound", index, name)
		}
		ctrl.SetBindingValue(slot, step.Set[name])
	}

	var editErr error
	if step.Edit != "" {
		editErr = ctrl.ApplyTextEdit(step.Edit)
	}

	ev := TraceEvent{
		Step:     index + 1,
		Edit:     step.Edit,
		Bindings: bindingNames(ctrl),
		Values:   bindingValues(ctrl),
		Output:   formatFloat(ctrl.CurrentOutput()),
		Commands: rec.Trace(),
		Wires:    renderWires(rec.Store.Wires()),
	}
	if editErr != nil {
		ev.Error = parseErrorCode(editErr)
	}
	rec.Reset()
	result.Trace = append(result.Trace, ev)

	// Expectations.
	if step.WantError != ev.Error {
		result.AddError(fmt.Sprintf("steps[%d]: error = %q, want %q", index, ev.Error, step.WantError))
	}
	if step.WantBindings != nil && !equalStrings(ev.Bindings, step.WantBindings) {
		result.AddError(fmt.Sprintf("steps[%d]: bindings = %v, want %v", index, ev.Bindings, step.WantBindings))
	}
	if step.WantOutput != nil {
		got, want := ctrl.CurrentOutput(), *step.WantOutput
		// NaN compares unequal to itself; scenarios assert it with .nan.
		if got != want && !(math.IsNaN(got) && math.IsNaN(want)) {
			result.AddError(fmt.Sprintf("steps[%d]: output = %v, want %v", index, got, want))
		}
	}
	return nil
}

// parseErrorCode extracts the typed error code for the trace.
func parseErrorCode(err error) string {
	var perr *expr.ParseError
	if errors.As(err, &perr) {
		return string(perr.Code)
	}
	return err.Error()
}

func bindingNames(ctrl *node.Controller) []string {
	out := make([]string, ctrl.BindingCount())
	for slot := 1; slot <= ctrl.BindingCount(); slot++ {
		out[slot-1] = ctrl.BindingName(slot)
	}
	return out
}

func bindingValues(ctrl *node.Controller) []string {
	out := make([]string, ctrl.BindingCount())
	for slot := 1; slot <= ctrl.BindingCount(); slot++ {
		out[slot-1] = formatFloat(ctrl.BindingValue(slot))
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func renderWires(wires []graph.Wire) []string {
	out := make([]string, len(wires))
	for i, w := range wires {
		out[i] = fmt.Sprintf("%s:%d -> %s:%d", w.From.Node, w.From.Output, w.To.Node, w.To.Input)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
