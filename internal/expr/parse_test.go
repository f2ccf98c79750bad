package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Shapes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string // Format of the parsed tree
	}{
		{"number", "42", "42"},
		{"decimal", "3.25", "3.25"},
		{"leading dot", ".5", "0.5"},
		{"variable", "speed", "speed"},
		{"precedence mul after add", "2+3*4", "(2 + (3 * 4))"},
		{"parens override", "(2+3)*4", "((2 + 3) * 4)"},
		{"mul before add", "2*3+4", "((2 * 3) + 4)"},
		{"left assoc sub", "2-3-4", "((2 - 3) - 4)"},
		{"left assoc div", "8/4/2", "((8 / 4) / 2)"},
		{"left assoc mul run", "2*3*4+1", "(((2 * 3) * 4) + 1)"},
		{"tight run absorbed", "1+2*3*4", "(1 + ((2 * 3) * 4))"},
		{"unary neg", "-3+4", "((-3) + 4)"},
		{"unary pos", "+x", "(+x)"},
		{"unary on parens", "-(3+4)", "(-(3 + 4))"},
		{"mixed tiers", "a*b+c/d", "((a * b) + (c / d))"},
		{"whitespace", "  1 +\t2 ", "(1 + 2)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Parse(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Format(e))
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code ParseErrorCode
	}{
		{"empty", "", ErrCodeEmptyInput},
		{"whitespace only", "   \t", ErrCodeEmptyInput},
		{"dangling operator", "2+", ErrCodeUnexpectedToken},
		{"leading operator", "*2", ErrCodeUnexpectedToken},
		{"double unary", "--3", ErrCodeUnexpectedToken},
		{"invalid character", "2 $ 3", ErrCodeUnexpectedToken},
		{"malformed number", "1.2.3", ErrCodeUnexpectedToken},
		{"bare dot", ".", ErrCodeUnexpectedToken},
		{"unclosed paren", "(1+2", ErrCodeUnclosedParen},
		{"nested unclosed", "((1+2)", ErrCodeUnclosedParen},
		{"trailing number", "1 2", ErrCodeTrailingInput},
		{"trailing paren", "1+2)", ErrCodeTrailingInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Parse(tt.src)
			require.Error(t, err)
			assert.Nil(t, e, "failed parse must not return a tree")

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.code, pe.Code)
		})
	}
}

func TestParse_ErrorHelpers(t *testing.T) {
	_, err := Parse("(1+2")
	assert.True(t, IsUnclosedParen(err))
	assert.False(t, IsEmptyInput(err))

	_, err = Parse("")
	assert.True(t, IsEmptyInput(err))

	_, err = Parse("1 2")
	assert.True(t, IsTrailingInput(err))

	_, err = Parse("2+")
	assert.True(t, IsUnexpectedToken(err))

	assert.False(t, IsUnexpectedToken(nil))
}

func TestVars_FirstOccurrenceOrder(t *testing.T) {
	e, err := Parse("b+a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, Vars(e), "order is first occurrence, not lexicographic")
}

func TestVars_DuplicateSharesOneSlot(t *testing.T) {
	e, err := Parse("a+a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, Vars(e))
}

func TestVars_Traversal(t *testing.T) {
	// Pre-order, left before right, operand before unary wrapper.
	e, err := Parse("-(z*y) + x/z")
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "y", "x"}, Vars(e))
}

func TestVars_NoVariables(t *testing.T) {
	e, err := Parse("1+2*3")
	require.NoError(t, err)
	assert.Empty(t, Vars(e))
}
