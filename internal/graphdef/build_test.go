package graphdef

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cowlicks/gruph/internal/graph"
)

func buildDoc(t *testing.T, src string) (*Graph, error) {
	t.Helper()
	doc, err := compileDoc(t, src)
	require.NoError(t, err)
	return Build(doc)
}

func TestBuild_Evaluate(t *testing.T) {
	g, err := buildDoc(t, validDoc)
	require.NoError(t, err)

	outputs := g.Evaluate()
	require.Len(t, outputs, 1, "only expression nodes produce outputs")
	assert.Equal(t, "sum", outputs[0].Name)
	assert.Equal(t, 6.5, outputs[0].Value)
}

func TestBuild_ChainedNodes(t *testing.T) {
	g, err := buildDoc(t, `
graph: {
	nodes: {
		x:      {source: "3"}
		double: {expr: "v * 2"}
		offset: {expr: "d + 1"}
	}
	wires: [
		{from: "x", to: "double", var: "v"},
		{from: "double", to: "offset", var: "d"},
	]
}
`)
	require.NoError(t, err)

	outputs := g.Evaluate()
	require.Len(t, outputs, 2)
	assert.Equal(t, Output{Name: "double", Value: 6}, outputs[0])
	assert.Equal(t, Output{Name: "offset", Value: 7}, outputs[1])
}

func TestBuild_UnwiredBindingReadsZero(t *testing.T) {
	g, err := buildDoc(t, `graph: nodes: n: {expr: "a + 1"}`)
	require.NoError(t, err)

	outputs := g.Evaluate()
	require.Len(t, outputs, 1)
	assert.Equal(t, 1.0, outputs[0].Value)
}

func TestBuild_BadExpression(t *testing.T) {
	_, err := buildDoc(t, `graph: nodes: n: {expr: "2+"}`)
	require.Error(t, err)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Error(), "does not parse")
}

func TestBuild_BadSourceLiteral(t *testing.T) {
	_, err := buildDoc(t, `graph: nodes: n: {source: "abc"}`)
	require.Error(t, err)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Error(), "is not a number")
}

func TestBuild_UnknownBinding(t *testing.T) {
	_, err := buildDoc(t, `
graph: {
	nodes: {
		x: {source: "1"}
		n: {expr: "a + b"}
	}
	wires: [{from: "x", to: "n", var: "z"}]
}
`)
	require.Error(t, err)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Error(), `no binding "z"`)
}

func TestBuild_BuiltNodes(t *testing.T) {
	g, err := buildDoc(t, validDoc)
	require.NoError(t, err)

	built := g.BuiltNodes()
	require.Len(t, built, 3)
	assert.Equal(t, graph.KindSource, built[0].Kind)
	assert.Equal(t, "2.5", built[0].State.Text)
	assert.Equal(t, graph.KindExpr, built[2].Kind)
	assert.Equal(t, []string{"a", "b"}, built[2].State.Bindings)
	assert.Len(t, g.Store.Wires(), 2)
}

func TestBuild_ControllerAccess(t *testing.T) {
	g, err := buildDoc(t, validDoc)
	require.NoError(t, err)

	c, ok := g.Controller("sum")
	require.True(t, ok)
	assert.Equal(t, 2, c.BindingCount())

	_, ok = g.Controller("x")
	assert.False(t, ok, "source nodes have no controller")
}
