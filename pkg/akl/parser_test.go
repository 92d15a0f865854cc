package akl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTermAtomAndNumbers(t *testing.T) {
	term, err := ParseTerm("foo")
	require.NoError(t, err)
	assert.Equal(t, Intern("foo"), term)

	term, err = ParseTerm("42")
	require.NoError(t, err)
	assert.Equal(t, Int(42), term)

	term, err = ParseTerm("3.5")
	require.NoError(t, err)
	assert.Equal(t, Float(3.5), term)
}

func TestParseTermCompound(t *testing.T) {
	term, err := ParseTerm("foo(1, bar, X)")
	require.NoError(t, err)
	c, ok := term.(*Compound)
	require.True(t, ok)
	assert.Equal(t, "foo", c.Functor.Name())
	require.Len(t, c.Args, 3)
	assert.Equal(t, Int(1), c.Args[0])
	assert.Equal(t, Intern("bar"), c.Args[1])
	_, isVar := c.Args[2].(*Var)
	assert.True(t, isVar)
}

func TestParseTermList(t *testing.T) {
	term, err := ParseTerm("[1, 2, 3]")
	require.NoError(t, err)
	elems, tail := ListSlice(term)
	require.Len(t, elems, 3)
	assert.Equal(t, Int(1), elems[0])
	assert.Equal(t, Term(NIL), tail)
}

func TestParseTermListWithTail(t *testing.T) {
	term, err := ParseTerm("[H|T]")
	require.NoError(t, err)
	cons, ok := term.(*Cons)
	require.True(t, ok)
	_, headIsVar := cons.Head.(*Var)
	_, tailIsVar := cons.Tail.(*Var)
	assert.True(t, headIsVar)
	assert.True(t, tailIsVar)
}

func TestParseTermOperatorPrecedence(t *testing.T) {
	// "+" binds tighter (500) than "=" (700): 1+2 = 3 should parse as
	// '='(+(1,2), 3), not as a flat three-operand mess.
	term, err := ParseTerm("1 + 2 = 3")
	require.NoError(t, err)
	eq, ok := term.(*Compound)
	require.True(t, ok)
	assert.Equal(t, "=", eq.Functor.Name())

	sum, ok := eq.Args[0].(*Compound)
	require.True(t, ok)
	assert.Equal(t, "+", sum.Functor.Name())
}

func TestParseTermGuardOperatorsAllSamePrecedence(t *testing.T) {
	// Since ?, ??, ->, |, ! are all xfx at 1050, none may appear twice
	// in a row without parentheses: "A ? B ? C" is a syntax error.
	_, err := ParseTerm("a ? b ? c")
	assert.Error(t, err)
}

func TestParseTermSameNameSharesCellWithinOneTerm(t *testing.T) {
	term, err := ParseTerm("f(X, X)")
	require.NoError(t, err)
	c := term.(*Compound)
	v1 := c.Args[0].(*Var)
	v2 := c.Args[1].(*Var)
	assert.Same(t, v1, v2)
}

func TestParseTermAnonymousVarsAreAlwaysDistinct(t *testing.T) {
	term, err := ParseTerm("f(_, _)")
	require.NoError(t, err)
	c := term.(*Compound)
	v1 := c.Args[0].(*Var)
	v2 := c.Args[1].(*Var)
	assert.NotSame(t, v1, v2)
}

func TestParseClausesSplitsOnTrailingDot(t *testing.T) {
	clauses, err := ParseClauses("foo(1). foo(2). bar(X) :- foo(X).")
	require.NoError(t, err)
	require.Len(t, clauses, 3)
}

func TestParseClausesResetsVarMapBetweenClauses(t *testing.T) {
	clauses, err := ParseClauses("p(X) :- q(X). r(X) :- s(X).")
	require.NoError(t, err)
	require.Len(t, clauses, 2)

	c1 := clauses[0].(*Compound)
	c2 := clauses[1].(*Compound)
	v1 := c1.Args[0].(*Compound).Args[0].(*Var)
	v2 := c2.Args[0].(*Compound).Args[0].(*Var)
	assert.NotSame(t, v1, v2)
}

func TestParseTermGuardClauseShape(t *testing.T) {
	term, err := ParseTerm("max(X,Y,Z) :- X >= Y | Z = X")
	require.NoError(t, err)
	neck := term.(*Compound)
	assert.Equal(t, ":-", neck.Functor.Name())

	guardExpr := neck.Args[1].(*Compound)
	assert.Equal(t, "|", guardExpr.Functor.Name())
}

func TestParseTermRejectsTrailingGarbage(t *testing.T) {
	_, err := ParseTerm("foo bar")
	assert.Error(t, err)
}

func TestParseTermHigherOrderCallSugar(t *testing.T) {
	term, err := ParseTerm("X(1, 2)")
	require.NoError(t, err)
	c, ok := term.(*Compound)
	require.True(t, ok)
	assert.Equal(t, "apply", c.Functor.Name())
	require.Len(t, c.Args, 2)
	_, isVar := c.Args[0].(*Var)
	assert.True(t, isVar)
	elems, _ := ListSlice(c.Args[1])
	assert.Len(t, elems, 2)
}

func TestParseTermString(t *testing.T) {
	term, err := ParseTerm(`"ab"`)
	require.NoError(t, err)
	elems, tail := ListSlice(term)
	require.Len(t, elems, 2)
	assert.Equal(t, Int('a'), elems[0])
	assert.Equal(t, Int('b'), elems[1])
	assert.Equal(t, Term(NIL), tail)
}
