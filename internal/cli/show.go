package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cowlicks/gruph/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	DB string
}

// ShowNode is one persisted node in show output.
type ShowNode struct {
	ID       string     `json:"id"`
	Kind     string     `json:"kind"`
	Text     string     `json:"text"`
	Bindings []VarValue `json:"bindings"`
}

// ShowWire is one persisted wire in show output.
type ShowWire struct {
	From string `json:"from"`
	To   string `json:"to"`
	Slot int    `json:"slot"`
}

// ShowResult holds the persisted graph listing.
type ShowResult struct {
	Nodes []ShowNode `json:"nodes"`
	Wires []ShowWire `json:"wires"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "List a persisted graph",
		Long: `List every node and wire stored in a graph database, including each
expression node's source text and current binding values.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite database path (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runShow(opts *ShowOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if _, err := os.Stat(opts.DB); err != nil {
		_ = formatter.Error(ErrCodeStore, fmt.Sprintf("database not found: %s", opts.DB), nil)
		return WrapExitError(ExitCommandError, "database not found", err)
	}

	db, err := store.Open(opts.DB)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening database", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	nodes, err := db.ListNodes(ctx)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "reading nodes", err)
	}
	wires, err := db.LoadWires(ctx)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "reading wires", err)
	}

	result := &ShowResult{
		Nodes: make([]ShowNode, len(nodes)),
		Wires: make([]ShowWire, len(wires)),
	}
	for i, n := range nodes {
		sn := ShowNode{
			ID:       string(n.ID),
			Kind:     n.Kind.String(),
			Text:     n.State.Text,
			Bindings: make([]VarValue, len(n.State.Bindings)),
		}
		for j, name := range n.State.Bindings {
			sn.Bindings[j] = VarValue{Name: name, Value: formatFloat(n.State.Values[j])}
		}
		result.Nodes[i] = sn
	}
	for i, w := range wires {
		result.Wires[i] = ShowWire{
			From: string(w.From.Node),
			To:   string(w.To.Node),
			Slot: w.To.Input,
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "%d node(s), %d wire(s)\n\n", len(result.Nodes), len(result.Wires))
	for _, n := range result.Nodes {
		fmt.Fprintf(formatter.Writer, "  %s (%s): %s\n", n.ID, n.Kind, n.Text)
		for slot, b := range n.Bindings {
			fmt.Fprintf(formatter.Writer, "    %d: %s = %s\n", slot+1, b.Name, b.Value)
		}
	}
	if len(result.Wires) > 0 {
		fmt.Fprintln(formatter.Writer)
		for _, w := range result.Wires {
			fmt.Fprintf(formatter.Writer, "  %s -> %s:%d\n", w.From, w.To, w.Slot)
		}
	}
	return nil
}
