package graphdef

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Doc is a compiled graph document: node definitions in declaration
// order plus the wires between them.
type Doc struct {
	Nodes []NodeDef
	Wires []WireDef
}

// NodeDef declares one node. Exactly one of Source and Expr is set.
type NodeDef struct {
	Name   string
	Source string // numeric literal for source nodes
	Expr   string // expression text for expression nodes
}

// IsSource reports whether the definition declares a source node.
func (d NodeDef) IsSource() bool {
	return d.Source != ""
}

// WireDef declares one wire: the upstream node's output feeds the
// named binding of the destination expression node.
type WireDef struct {
	From string
	To   string
	Var  string
}

// CompileError represents a graph-document compilation failure.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load reads and compiles a CUE graph document from a file.
func Load(path string) (*Doc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph document: %w", err)
	}

	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	return Compile(v)
}

// Compile parses a CUE value into a Doc.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The value must contain a top-level "graph" struct with a "nodes"
// struct and an optional "wires" list.
func Compile(v cue.Value) (*Doc, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	graphVal := v.LookupPath(cue.ParsePath("graph"))
	if !graphVal.Exists() {
		return nil, &CompileError{
			Field:   "graph",
			Message: "graph is required",
			Pos:     v.Pos(),
		}
	}

	doc := &Doc{}
	var err error
	doc.Nodes, err = parseNodes(graphVal)
	if err != nil {
		return nil, err
	}
	doc.Wires, err = parseWires(graphVal)
	if err != nil {
		return nil, err
	}

	if err := validateRefs(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func parseNodes(graphVal cue.Value) ([]NodeDef, error) {
	nodesVal := graphVal.LookupPath(cue.ParsePath("nodes"))
	if !nodesVal.Exists() {
		return nil, &CompileError{
			Field:   "nodes",
			Message: "nodes is required",
			Pos:     graphVal.Pos(),
		}
	}

	var defs []NodeDef
	it, err := nodesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for it.Next() {
		def, err := parseNode(it.Label(), it.Value())
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	if len(defs) == 0 {
		return nil, &CompileError{
			Field:   "nodes",
			Message: "at least one node is required",
			Pos:     nodesVal.Pos(),
		}
	}
	return defs, nil
}

func parseNode(name string, v cue.Value) (NodeDef, error) {
	def := NodeDef{Name: name}

	sourceVal := v.LookupPath(cue.ParsePath("source"))
	exprVal := v.LookupPath(cue.ParsePath("expr"))

	switch {
	case sourceVal.Exists() && exprVal.Exists():
		return NodeDef{}, &CompileError{
			Field:   name,
			Message: "node sets both source and expr; exactly one is required",
			Pos:     v.Pos(),
		}
	case sourceVal.Exists():
		s, err := sourceVal.String()
		if err != nil {
			return NodeDef{}, formatCUEError(err)
		}
		if s == "" {
			return NodeDef{}, &CompileError{
				Field:   name,
				Message: "source must not be empty",
				Pos:     sourceVal.Pos(),
			}
		}
		def.Source = s
	case exprVal.Exists():
		s, err := exprVal.String()
		if err != nil {
			return NodeDef{}, formatCUEError(err)
		}
		def.Expr = s
	default:
		return NodeDef{}, &CompileError{
			Field:   name,
			Message: "node sets neither source nor expr; exactly one is required",
			Pos:     v.Pos(),
		}
	}
	return def, nil
}

func parseWires(graphVal cue.Value) ([]WireDef, error) {
	wiresVal := graphVal.LookupPath(cue.ParsePath("wires"))
	if !wiresVal.Exists() {
		return nil, nil
	}

	var wires []WireDef
	it, err := wiresVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for it.Next() {
		w, err := parseWire(it.Value())
		if err != nil {
			return nil, err
		}
		wires = append(wires, w)
	}
	return wires, nil
}

func parseWire(v cue.Value) (WireDef, error) {
	var w WireDef
	for _, field := range []struct {
		name string
		dst  *string
	}{
		{"from", &w.From},
		{"to", &w.To},
		{"var", &w.Var},
	} {
		fv := v.LookupPath(cue.ParsePath(field.name))
		if !fv.Exists() {
			return WireDef{}, &CompileError{
				Field:   "wires",
				Message: fmt.Sprintf("wire is missing %q", field.name),
				Pos:     v.Pos(),
			}
		}
		s, err := fv.String()
		if err != nil {
			return WireDef{}, formatCUEError(err)
		}
		*field.dst = s
	}
	return w, nil
}

// validateRefs checks that every wire endpoint names a declared node
// and that wire destinations are expression nodes. Binding names are
// resolved later, by Build, once the destination expression is parsed.
func validateRefs(doc *Doc) error {
	byName := make(map[string]NodeDef, len(doc.Nodes))
	for _, def := range doc.Nodes {
		if _, ok := byName[def.Name]; ok {
			return &CompileError{
				Field:   def.Name,
				Message: "duplicate node name",
			}
		}
		byName[def.Name] = def
	}

	for _, w := range doc.Wires {
		if _, ok := byName[w.From]; !ok {
			return &CompileError{
				Field:   "wires",
				Message: fmt.Sprintf("wire references unknown node %q", w.From),
			}
		}
		to, ok := byName[w.To]
		if !ok {
			return &CompileError{
				Field:   "wires",
				Message: fmt.Sprintf("wire references unknown node %q", w.To),
			}
		}
		if to.IsSource() {
			return &CompileError{
				Field:   "wires",
				Message: fmt.Sprintf("wire destination %q is a source node; only expression nodes have bindings", w.To),
			}
		}
	}
	return nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}
	return &CompileError{
		Field:   "cue",
		Message: firstErr.Error(),
	}
}
