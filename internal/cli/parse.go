package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cowlicks/gruph/internal/expr"
)

// ParseResult holds the outcome of parsing one expression.
type ParseResult struct {
	Expression string   `json:"expression"`
	Canonical  string   `json:"canonical"`
	Bindings   []string `json:"bindings"`
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <expression>",
		Short: "Parse an expression and list its bindings",
		Long: `Parse an arithmetic expression and report its canonical form and
binding list. Bindings are the expression's free variables in first-
occurrence order; binding N occupies input slot N on an expression node.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runParse(opts *RootOptions, src string, cmd *cobra.Command) error {
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

	result := &ParseResult{
		Expression: src,
		Canonical:  expr.Format(ast),
		Bindings:   expr.Vars(ast),
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "canonical: %s\n", result.Canonical)
	if len(result.Bindings) == 0 {
		fmt.Fprintln(formatter.Writer, "bindings: none")
		return nil
	}
	fmt.Fprintln(formatter.Writer, "bindings:")
	for i, name := range result.Bindings {
		fmt.Fprintf(formatter.Writer, "  %d: %s\n", i+1, name)
	}
	return nil
}

// outputParseError reports an expression parse failure using the typed
// error's own code, and maps it to an input-failure exit.
func outputParseError(formatter *OutputFormatter, err error) error {
	var perr *expr.ParseError
	if !errors.As(err, &perr) {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitFailure, "parse failed", err)
	}

	details := map[string]interface{}{"offset": perr.Pos}
	if perr.Token != "" {
		details["token"] = perr.Token
	}
	_ = formatter.Error(string(perr.Code), perr.Message, details)
	return WrapExitError(ExitFailure, fmt.Sprintf("%s: %s", perr.Code, perr.Message), nil)
}
