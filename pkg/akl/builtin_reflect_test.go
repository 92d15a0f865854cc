package akl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberofCountsSolutions(t *testing.T) {
	prog := mustLoad(t, `color(red). color(green). color(blue).`)

	sols := solveAll(t, prog, "numberof(color(_), N)")
	require.Len(t, sols, 1)
	assert.Equal(t, Int(3), sols[0].Bindings[1].Value)
}

func TestNumberofZeroForNoSolutions(t *testing.T) {
	prog := NewProgram()

	sols := solveAll(t, prog, "numberof(nonexistent(a), N)")
	require.Len(t, sols, 1)
	assert.Equal(t, Int(0), sols[0].Bindings[0].Value)
}

func TestNumberofDoesNotLeakBindingsFromItsSubComputation(t *testing.T) {
	prog := mustLoad(t, `color(red). color(green).`)

	sols := solveAll(t, prog, "numberof(color(X), N), var(X)")
	require.Len(t, sols, 1)
	assert.Equal(t, Int(2), sols[0].Bindings[1].Value)
}

func TestNumberofRunsOnInstalledPool(t *testing.T) {
	prog := mustLoad(t, `color(red). color(green). color(blue).`)
	goal, err := ParseTerm("numberof(color(_), N)")
	require.NoError(t, err)
	queryVars := CollectVars(goal, nil, nil)

	pool := NewPool(2)
	defer pool.Shutdown()
	w := NewWorker(prog, WithParallelPool(pool))

	var sols []*Solution
	err = w.Solve(goal, queryVars, func(sol *Solution) bool {
		sols = append(sols, sol)
		return true
	})
	require.NoError(t, err)
	require.Len(t, sols, 1)
	assert.Equal(t, Int(3), sols[0].Bindings[1].Value)
}

func TestReflectiveCallEmitsSolutionForGroundGoal(t *testing.T) {
	prog := mustLoad(t, `color(red).`)

	// reflective_call(R, color(red), S) binds R, then S — color(red) is
	// ground, so its reported Bindings list is empty.
	sols := solveAll(t, prog, "reflective_call(R, color(red), S)")
	require.Len(t, sols, 1)

	elems, tail := ListSlice(sols[0].Bindings[1].Value)
	require.Len(t, elems, 1)
	_, isVar := tail.(*Var)
	assert.True(t, isVar, "stream stays open as a difference list")

	first, ok := Deref(elems[0]).(*Compound)
	require.True(t, ok)
	assert.Equal(t, Intern("solution"), first.Functor)
	assert.Equal(t, NIL, Deref(first.Args[0]))
}

func TestReflectiveCallEmitsFailForGoalWithNoSolutions(t *testing.T) {
	prog := mustLoad(t, `color(red).`)

	sols := solveAll(t, prog, "reflective_call(R, color(blue), S)")
	require.Len(t, sols, 1)

	elems, _ := ListSlice(sols[0].Bindings[1].Value)
	require.Len(t, elems, 1)
	assert.Equal(t, Intern("fail"), Deref(elems[0]))
}

func TestReflectiveNextGrowsStreamAndSignalsExhaustion(t *testing.T) {
	prog := mustLoad(t, `color(red). color(green).`)

	sols := solveAll(t, prog,
		"reflective_call(R, color(_), S0), reflective_next(R, R1), reflective_next(R1, R2)")
	require.Len(t, sols, 1)

	// Bindings, in first-occurrence order: R, the anonymous var inside
	// color(_), S0, R1, R2.
	elems, tail := ListSlice(sols[0].Bindings[2].Value)
	require.Len(t, elems, 3)
	_, isVar := tail.(*Var)
	assert.True(t, isVar, "stream stays open as a difference list")

	first, ok := Deref(elems[0]).(*Compound)
	require.True(t, ok)
	assert.Equal(t, Intern("solution"), first.Functor)

	second, ok := Deref(elems[1]).(*Compound)
	require.True(t, ok)
	assert.Equal(t, Intern("solution"), second.Functor)

	assert.Equal(t, Intern("fail"), Deref(elems[2]))

	r, ok := Deref(sols[0].Bindings[0].Value).(*Reflection)
	require.True(t, ok)
	r1, ok := Deref(sols[0].Bindings[3].Value).(*Reflection)
	require.True(t, ok)
	r2, ok := Deref(sols[0].Bindings[4].Value).(*Reflection)
	require.True(t, ok)
	assert.Same(t, r, r1)
	assert.Same(t, r1, r2)
}

func TestReflectiveCallRunsOnInstalledPool(t *testing.T) {
	prog := mustLoad(t, `color(red). color(green).`)
	goal, err := ParseTerm("reflective_call(R, color(red), S)")
	require.NoError(t, err)
	queryVars := CollectVars(goal, nil, nil)

	pool := NewPool(2)
	defer pool.Shutdown()
	w := NewWorker(prog, WithParallelPool(pool))

	var sols []*Solution
	err = w.Solve(goal, queryVars, func(sol *Solution) bool {
		sols = append(sols, sol)
		return true
	})
	require.NoError(t, err)
	require.Len(t, sols, 1)

	elems, _ := ListSlice(sols[0].Bindings[1].Value)
	require.Len(t, elems, 1)
}
