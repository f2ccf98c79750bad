package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cowlicks/gruph/internal/expr"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	Vars []string // name=value assignments
}

// VarValue pairs a binding name with its rendered value.
type VarValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// EvalResult holds the outcome of one evaluation.
//
// Result and binding values are rendered strings rather than JSON
// numbers: evaluation is IEEE-754 throughout, and NaN or an infinity
// is a legitimate result that plain JSON numbers cannot carry.
type EvalResult struct {
	Expression string     `json:"expression"`
	Result     string     `json:"result"`
	Bindings   []VarValue `json:"bindings"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate an expression",
		Long: `Evaluate an arithmetic expression. Binding values are supplied with
repeated --var flags; bindings without an assignment evaluate as zero.

Arithmetic follows IEEE-754 float64: dividing by zero yields an
infinity and 0/0 yields NaN, never an error.`,
		Example: `  gruph eval '2 + 3 * 4'
  gruph eval 'a / b' --var a=1 --var b=4`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Vars, "var", nil, "binding value as name=value (repeatable)")

	return cmd
}

func runEval(opts *EvalOptions, src string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	ast, err := expr.Parse(src)
	if err != nil {
		return outputParseError(formatter, err)
	}

	assigned, err := parseVarAssignments(opts.Vars)
	if err != nil {
		_ = formatter.Error(ErrCodeBadVar, err.Error(), nil)
		return WrapExitError(ExitFailure, "bad --var assignment", err)
	}

	names := expr.Vars(ast)
	bound := make(map[string]bool, len(names))
	for _, name := range names {
		bound[name] = true
	}
	for name := range assigned {
		if !bound[name] {
			msg := fmt.Sprintf("--var %s: not a binding of %q", name, src)
			_ = formatter.Error(ErrCodeBadVar, msg, nil)
			return NewExitError(ExitFailure, msg)
		}
	}

	values := make([]float64, len(names))
	for i, name := range names {
		values[i] = assigned[name] // zero for unassigned bindings
	}

	result := &EvalResult{
		Expression: src,
		Result:     formatFloat(expr.Eval(ast, names, values)),
		Bindings:   make([]VarValue, len(names)),
	}
	for i, name := range names {
		result.Bindings[i] = VarValue{Name: name, Value: formatFloat(values[i])}
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	for _, b := range result.Bindings {
		formatter.VerboseLog("%s = %s", b.Name, b.Value)
	}
	fmt.Fprintln(formatter.Writer, result.Result)
	return nil
}

// parseVarAssignments parses repeated name=value flags.
func parseVarAssignments(vars []string) (map[string]float64, error) {
	out := make(map[string]float64, len(vars))
	for _, v := range vars {
		name, raw, ok := strings.Cut(v, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("malformed assignment %q: expected name=value", v)
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed value in %q: %v", v, err)
		}
		out[name] = value
	}
	return out, nil
}

// formatFloat renders a float the same way the trace and store layers
// do, so NaN and the infinities survive every output path.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
