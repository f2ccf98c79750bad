package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cowlicks/gruph/internal/graphdef"
	"github.com/cowlicks/gruph/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	DB string // optional database path to persist the graph
}

// RunResult holds the evaluated outputs of a graph document.
type RunResult struct {
	Outputs []VarValue `json:"outputs"`
	DB      string     `json:"db,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <graph.cue>",
		Short: "Build and evaluate a graph document",
		Long: `Compile a CUE graph document, build the node graph it declares, push
source values through the wires, and print every expression node's
output in document order.

With --db, the assembled graph replaces the database contents after a
successful evaluation.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "persist the graph to this SQLite database")

	return cmd
}

func runRun(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	doc, err := graphdef.Load(path)
	if err != nil {
		return outputDocumentError(formatter, err)
	}
	formatter.VerboseLog("Compiled %s: %d node(s), %d wire(s)", path, len(doc.Nodes), len(doc.Wires))

	g, err := graphdef.Build(doc)
	if err != nil {
		return outputDocumentError(formatter, err)
	}

	outputs := g.Evaluate()
	result := &RunResult{
		Outputs: make([]VarValue, len(outputs)),
		DB:      opts.DB,
	}
	for i, out := range outputs {
		result.Outputs[i] = VarValue{Name: out.Name, Value: formatFloat(out.Value)}
	}

	if opts.DB != "" {
		if err := persistGraph(cmd.Context(), opts.DB, g); err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "persisting graph", err)
		}
		formatter.VerboseLog("Persisted graph to %s", opts.DB)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Evaluated %d expression node(s)\n\n", len(result.Outputs))
	for _, out := range result.Outputs {
		fmt.Fprintf(formatter.Writer, "  %s = %s\n", out.Name, out.Value)
	}
	if opts.DB != "" {
		fmt.Fprintf(formatter.Writer, "\nWrote graph to %s\n", opts.DB)
	}
	return nil
}

// persistGraph replaces the database contents with the built graph.
func persistGraph(ctx context.Context, path string, g *graphdef.Graph) error {
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := store.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	built := g.BuiltNodes()
	records := make([]store.NodeRecord, len(built))
	for i, n := range built {
		records[i] = store.NodeRecord{ID: n.ID, Kind: n.Kind, State: n.State}
	}
	return db.ReplaceAll(ctx, records, g.Store.Wires())
}

// outputDocumentError reports a graph-document failure. Compile errors
// are input failures; anything else (unreadable file, bad path) is a
// command error.
func outputDocumentError(formatter *OutputFormatter, err error) error {
	var cerr *graphdef.CompileError
	if errors.As(err, &cerr) {
		if formatter.Format != "json" && cerr.Pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n",
				cerr.Pos.Filename(), cerr.Pos.Line(), cerr.Pos.Column())
		}
		_ = formatter.Error(ErrCodeDocument, cerr.Message, map[string]interface{}{"field": cerr.Field})
		return WrapExitError(ExitFailure, "bad graph document", err)
	}

	_ = formatter.Error(ErrCodeDocument, err.Error(), nil)
	return WrapExitError(ExitCommandError, "loading graph document", err)
}
