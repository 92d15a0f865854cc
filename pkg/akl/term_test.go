package akl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternIsIdempotent(t *testing.T) {
	a1 := Intern("foo")
	a2 := Intern("foo")
	assert.Same(t, a1, a2)

	b := Intern("bar")
	assert.NotSame(t, a1, b)
}

func TestDerefFollowsBindingChain(t *testing.T) {
	v1 := NewVar(0, "X")
	v2 := NewVar(0, "Y")
	v2.binding = Intern("done")
	v1.binding = v2

	require.Equal(t, Intern("done"), Deref(v1))
}

func TestDerefUnboundVarReturnsItself(t *testing.T) {
	v := NewVar(0, "X")
	assert.Equal(t, v, Deref(v))
	assert.False(t, v.Bound())
}

func TestMakeListAndListSlice(t *testing.T) {
	list := MakeList(Int(1), Int(2), Int(3))
	elems, tail := ListSlice(list)

	require.Len(t, elems, 3)
	assert.Equal(t, Int(1), elems[0])
	assert.Equal(t, Int(2), elems[1])
	assert.Equal(t, Int(3), elems[2])
	assert.Equal(t, Term(NIL), tail)
	assert.True(t, IsProperList(list))
}

func TestIsProperListRejectsOpenTail(t *testing.T) {
	v := NewVar(0, "T")
	improper := &Cons{Head: Int(1), Tail: v}
	assert.False(t, IsProperList(improper))
}

func TestVarNameSynthesizedWhenAnonymous(t *testing.T) {
	v := NewVar(0, "")
	assert.Contains(t, v.Name(), "_G")
}
