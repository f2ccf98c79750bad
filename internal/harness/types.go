package harness

// TraceEvent records the observable outcome of one scenario step: the
// edit that was applied, the connection commands it issued, and the
// node state afterwards.
//
// Float values are rendered with strconv 'g' formatting rather than
// stored as JSON numbers so that NaN and the infinities survive golden
// serialization.
type TraceEvent struct {
	// Step is the 1-based step index.
	Step int `json:"step"`

	// Edit is the expression text applied, empty for set-only steps.
	Edit string `json:"edit,omitempty"`

	// Error is the parse error code when the edit was rejected.
	Error string `json:"error,omitempty"`

	// Bindings is the binding list after the step, in slot order.
	Bindings []string `json:"bindings"`

	// Values holds the rendered binding values, parallel to Bindings.
	Values []string `json:"values"`

	// Output is the rendered evaluation result after the step.
	Output string `json:"output"`

	// Commands lists the connection commands issued by this step, in
	// call order.
	Commands []string `json:"commands"`

	// Wires is the full wire list after the step.
	Wires []string `json:"wires"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	// True if every step expectation matched.
	Pass bool `json:"pass"`

	// Trace contains one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds an expectation failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
