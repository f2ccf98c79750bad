package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario for one expression node.
// It describes the node's initial state and a sequence of edits, each
// with expected outcomes, and is executed by Run.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden
	// file the trace is compared against.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Text is the node's initial expression source. It must parse;
	// a scenario with unparseable initial text is invalid.
	Text string `yaml:"text"`

	// Wires lists upstream connections to establish before the steps
	// run, addressed by binding name. Wire setup is not recorded in
	// the trace.
	Wires []WireSpec `yaml:"wires,omitempty"`

	// Steps is the main flow: each step edits the text and/or sets
	// binding values, then asserts on the resulting state.
	Steps []Step `yaml:"steps"`
}

// WireSpec attaches a fixed upstream node to one of the initial
// expression's bindings.
type WireSpec struct {
	// Var is the binding name the wire feeds.
	Var string `yaml:"var"`

	// Remote is the upstream node's ID. Output pin 0 is assumed.
	Remote string `yaml:"remote"`
}

// Step is one scenario step. Set is applied first (against the current
// binding set), then Edit if present. Expectations are checked after
// both.
type Step struct {
	// Edit is the new expression text to apply. Empty means no edit;
	// the step only sets values and re-reads the output.
	Edit string `yaml:"edit,omitempty"`

	// Set assigns binding values by name before the edit.
	Set map[string]float64 `yaml:"set,omitempty"`

	// WantError is the expected parse error code (e.g.
	// "UNEXPECTED_TOKEN"). Empty means the step must succeed.
	WantError string `yaml:"want_error,omitempty"`

	// WantBindings is the expected binding list after the step, in
	// slot order. Nil skips the check.
	WantBindings []string `yaml:"want_bindings,omitempty"`

	// WantOutput is the expected evaluation result after the step.
	// Nil skips the check.
	WantOutput *float64 `yaml:"want_output,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "step:" vs "steps:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Text == "" {
		return fmt.Errorf("text is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, w := range s.Wires {
		if w.Var == "" {
			return fmt.Errorf("wires[%d]: var is required", i)
		}
		if w.Remote == "" {
			return fmt.Errorf("wires[%d]: remote is required", i)
		}
	}

	for i, step := range s.Steps {
		if step.Edit == "" && len(step.Set) == 0 {
			return fmt.Errorf("steps[%d]: edit or set is required", i)
		}
		if step.WantError != "" && step.Edit == "" {
			return fmt.Errorf("steps[%d]: want_error requires edit", i)
		}
	}

	return nil
}
