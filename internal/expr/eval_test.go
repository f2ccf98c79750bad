package expr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// evalSrc parses src and evaluates it with bindings derived from the
// tree itself, all values defaulting to 0.
func evalSrc(t *testing.T, src string, env map[string]float64) float64 {
	t.Helper()
	e, err := Parse(src)
	require.NoError(t, err)

	names := Vars(e)
	values := make([]float64, len(names))
	for i, name := range names {
		values[i] = env[name]
	}
	return Eval(e, names, values)
}

func TestEval_Precedence(t *testing.T) {
	assert.Equal(t, 14.0, evalSrc(t, "2+3*4", nil))
	assert.Equal(t, 20.0, evalSrc(t, "(2+3)*4", nil))
	assert.Equal(t, 10.0, evalSrc(t, "2*3+4", nil))
}

func TestEval_LeftAssociativity(t *testing.T) {
	assert.Equal(t, 3.0, evalSrc(t, "8-3-2", nil))
	assert.Equal(t, 1.0, evalSrc(t, "8/4/2", nil))
	assert.Equal(t, -5.0, evalSrc(t, "2-3-4", nil))
}

func TestEval_Unary(t *testing.T) {
	assert.Equal(t, 1.0, evalSrc(t, "-3+4", nil))
	assert.Equal(t, -7.0, evalSrc(t, "-(3+4)", nil))
	assert.Equal(t, 5.0, evalSrc(t, "+5", nil))
}

func TestEval_DivisionByZero(t *testing.T) {
	assert.True(t, math.IsInf(evalSrc(t, "1/0", nil), 1), "1/0 is +Inf")
	assert.True(t, math.IsInf(evalSrc(t, "-1/0", nil), -1), "-1/0 is -Inf")
	assert.True(t, math.IsNaN(evalSrc(t, "0/0", nil)), "0/0 is NaN")
}

func TestEval_Variables(t *testing.T) {
	env := map[string]float64{"a": 2, "b": 3}
	assert.Equal(t, 6.0, evalSrc(t, "a*b", env))
	assert.Equal(t, 4.0, evalSrc(t, "a+a", env), "both occurrences read the same value")
	assert.Equal(t, -2.0, evalSrc(t, "-a", env))
}

func TestEval_UnboundVariableIsZero(t *testing.T) {
	// Names outside the binding list read as zero. Bindings are always
	// derived from the evaluated tree, so this only happens for callers
	// that supply a foreign environment (e.g. the eval CLI command).
	e, err := Parse("x+1")
	require.NoError(t, err)
	assert.Equal(t, 1.0, Eval(e, nil, nil))
}

func TestEval_NoCaching(t *testing.T) {
	e, err := Parse("v*2")
	require.NoError(t, err)

	names := []string{"v"}
	assert.Equal(t, 2.0, Eval(e, names, []float64{1}))
	assert.Equal(t, 10.0, Eval(e, names, []float64{5}), "value changes are visible on the next call")
}
