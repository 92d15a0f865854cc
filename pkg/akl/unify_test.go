package akl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifyBindsVarToValue(t *testing.T) {
	trail := NewTrail()
	v := NewVar(0, "X")

	ok := Unify(v, Int(42), trail)
	require.True(t, ok)
	assert.Equal(t, Int(42), Deref(v))
}

func TestUnifyAtomsByIdentity(t *testing.T) {
	trail := NewTrail()
	assert.True(t, Unify(Intern("a"), Intern("a"), trail))
	assert.False(t, Unify(Intern("a"), Intern("b"), trail))
}

func TestUnifyCompoundsRequireSameFunctorAndArity(t *testing.T) {
	trail := NewTrail()
	c1 := NewCompound(Intern("f"), Int(1), Int(2))
	c2 := NewCompound(Intern("f"), Int(1), Int(2))
	assert.True(t, Unify(c1, c2, trail))

	c3 := NewCompound(Intern("f"), Int(1), Int(3))
	assert.False(t, Unify(c1, c3, trail))

	c4 := NewCompound(Intern("g"), Int(1), Int(2))
	assert.False(t, Unify(c1, c4, trail))
}

func TestUnifyConsStructurally(t *testing.T) {
	trail := NewTrail()
	l1 := MakeList(Int(1), Int(2))
	l2 := MakeList(Int(1), Int(2))
	assert.True(t, Unify(l1, l2, trail))

	l3 := MakeList(Int(1), Int(3))
	assert.False(t, Unify(l1, l3, trail))
}

func TestUnifyLeavesNoTraceOnFailure(t *testing.T) {
	trail := NewTrail()
	v := NewVar(0, "X")
	mark := trail.Mark()

	ok := Unify(NewCompound(Intern("f"), v), NewCompound(Intern("g"), Int(1)), trail)
	require.False(t, ok)
	assert.False(t, v.Bound())
	assert.Equal(t, mark, trail.Mark())
}

func TestUnifyOCRejectsCyclicBinding(t *testing.T) {
	trail := NewTrail()
	v := NewVar(0, "X")
	cyclic := NewCompound(Intern("f"), v)

	assert.False(t, UnifyOC(v, cyclic, trail))
	assert.False(t, v.Bound())
}

func TestCanUnifyUndoesItsOwnAttempt(t *testing.T) {
	trail := NewTrail()
	v := NewVar(0, "X")
	mark := trail.Mark()

	assert.True(t, CanUnify(v, Int(7), trail))
	assert.False(t, v.Bound())
	assert.Equal(t, mark, trail.Mark())
}

func TestCopyTermSharesRepeatedVariables(t *testing.T) {
	v := NewVar(0, "X")
	term := NewCompound(Intern("f"), v, v, Int(1))

	copied := CopyTerm(term, 0).(*Compound)
	cv1, ok1 := copied.Args[0].(*Var)
	cv2, ok2 := copied.Args[1].(*Var)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Same(t, cv1, cv2)
	assert.NotSame(t, v, cv1)
}

func TestCopyTermLeavesAtomsAndIntsShared(t *testing.T) {
	term := NewCompound(Intern("f"), Intern("a"), Int(3))
	copied := CopyTerm(term, 0).(*Compound)
	assert.Same(t, term.Args[0].(*Atom), copied.Args[0].(*Atom))
	assert.Equal(t, term.Args[1], copied.Args[1])
}

func TestCollectVarsFirstOccurrenceOrder(t *testing.T) {
	x := NewVar(0, "X")
	y := NewVar(0, "Y")
	term := NewCompound(Intern("f"), x, y, x)

	vars := CollectVars(term, nil, nil)
	require.Len(t, vars, 2)
	assert.Equal(t, x, vars[0])
	assert.Equal(t, y, vars[1])
}

func TestVariantAcceptsConsistentRenaming(t *testing.T) {
	x1, y1 := NewVar(0, "X"), NewVar(0, "Y")
	x2, y2 := NewVar(0, "A"), NewVar(0, "B")

	t1 := NewCompound(Intern("f"), x1, y1, x1)
	t2 := NewCompound(Intern("f"), x2, y2, x2)
	assert.True(t, Variant(t1, t2))

	t3 := NewCompound(Intern("f"), x2, y2, y2)
	assert.False(t, Variant(t1, t3))
}

func TestCompareStandardOrderOfTerms(t *testing.T) {
	v := NewVar(0, "X")
	assert.Equal(t, -1, Compare(v, Float(1.0)))
	assert.Equal(t, -1, Compare(Float(1.0), Int(1)))
	assert.Equal(t, -1, Compare(Int(1), Intern("a")))
	assert.Equal(t, -1, Compare(Intern("a"), NewCompound(Intern("f"), Int(1))))
	assert.Equal(t, 0, Compare(Int(5), Int(5)))
	assert.Equal(t, -1, Compare(Int(4), Int(5)))
}

func TestCompareCompoundByArityThenName(t *testing.T) {
	f1 := NewCompound(Intern("f"), Int(1))
	g2 := NewCompound(Intern("g"), Int(1), Int(2))
	assert.Equal(t, -1, Compare(f1, g2))

	f := NewCompound(Intern("f"), Int(1))
	g := NewCompound(Intern("g"), Int(1))
	assert.Equal(t, -1, Compare(f, g))
}
