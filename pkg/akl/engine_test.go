package akl

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solveAll(t *testing.T, prog *Program, query string) []*Solution {
	t.Helper()
	goal, err := ParseTerm(query)
	require.NoError(t, err)
	queryVars := CollectVars(goal, nil, nil)

	w := NewWorker(prog)
	var sols []*Solution
	err = w.Solve(goal, queryVars, func(sol *Solution) bool {
		sols = append(sols, sol)
		return true
	})
	require.NoError(t, err)
	return sols
}

func mustLoad(t *testing.T, source string) *Program {
	t.Helper()
	prog := NewProgram()
	require.NoError(t, prog.LoadString(source))
	return prog
}

func TestMemberFindsEachElementOnBacktracking(t *testing.T) {
	prog := mustLoad(t, `
member(X, [X|_]).
member(X, [_|T]) :- member(X, T).
`)

	sols := solveAll(t, prog, "member(X, [a,b,c])")
	require.Len(t, sols, 3)
	assert.Equal(t, Intern("a"), sols[0].Bindings[0].Value)
	assert.Equal(t, Intern("b"), sols[1].Bindings[0].Value)
	assert.Equal(t, Intern("c"), sols[2].Bindings[0].Value)
}

func TestAppendSplitsAcrossAllPrefixes(t *testing.T) {
	prog := mustLoad(t, `
append([], L, L).
append([H|T], L, [H|R]) :- append(T, L, R).
`)

	// append(A, B, [1,2,3]) has exactly 4 solutions, one per split of
	// the list into a prefix A and a suffix B.
	sols := solveAll(t, prog, "append(A, B, [1,2,3])")
	require.Len(t, sols, 4)

	lenOfA := func(sol *Solution) int {
		elems, _ := ListSlice(sol.Bindings[0].Value)
		return len(elems)
	}
	for i, sol := range sols {
		assert.Equal(t, i, lenOfA(sol))
	}
}

func TestFourQueensHasTwoSolutions(t *testing.T) {
	prog := mustLoad(t, `
queens(N, Qs) :- range(1, N, Ns), permute(Ns, Qs), safe(Qs).

range(Lo, Hi, []) :- Lo > Hi | true.
range(Lo, Hi, [Lo|Rest]) :- Lo =< Hi | L1 is Lo + 1, range(L1, Hi, Rest).

permute([], []).
permute(L, [H|T]) :- select(H, L, Rest), permute(Rest, T).

select(X, [X|T], T).
select(X, [H|T], [H|R]) :- select(X, T, R).

safe([]).
safe([Q|Qs]) :- noAttack(Q, Qs, 1), safe(Qs).

noAttack(_, [], _).
noAttack(Q, [Q1|Qs], D) :-
	Q =\= Q1,
	Q1 - Q =\= D,
	Q - Q1 =\= D,
	D1 is D + 1,
	noAttack(Q, Qs, D1).
`)

	sols := solveAll(t, prog, "queens(4, Qs)")
	assert.Len(t, sols, 2)
}

func TestCommitGuardPrunesRightSiblings(t *testing.T) {
	// §8.3 scenario 4: the first clause's `|` commits as soon as its
	// guard succeeds, pruning the second clause before it ever runs.
	prog := mustLoad(t, `
choose(a) :- true | true.
choose(b) :- true | true.
`)

	sols := solveAll(t, prog, "choose(X)")
	require.Len(t, sols, 1)
	assert.Equal(t, Intern("a"), sols[0].Bindings[0].Value)
}

func TestQuietGuardRejectsExternalConstraint(t *testing.T) {
	// §8.3 scenario 5: the first clause's quiet `|` guard would bind
	// the external query variable Y, so it is rejected; the second
	// clause (an unguarded fact) succeeds instead.
	prog := mustLoad(t, `
p(X) :- X = 1 | true.
p(2).
`)

	sols := solveAll(t, prog, "p(Y)")
	require.Len(t, sols, 1)
	assert.Equal(t, Int(2), sols[0].Bindings[0].Value)
}

func TestNoisyWaitGuardAllowsDeferredUnification(t *testing.T) {
	// §8.3 scenario 6: the same database as scenario 5 but with `?` in
	// place of `|` is noisy, so it is allowed to defer its external
	// binding instead of being rejected outright; Y=1 must appear among
	// the results.
	prog := mustLoad(t, `
p(X) :- X = 1 ? true.
p(2).
`)

	sols := solveAll(t, prog, "p(Y)")
	require.NotEmpty(t, sols)

	var values []Term
	for _, sol := range sols {
		values = append(values, sol.Bindings[0].Value)
	}
	assert.Contains(t, values, Int(1))
}

func TestIfThenElseCommitsToThenBranch(t *testing.T) {
	prog := mustLoad(t, `
classify(X, R) :- (X > 0 -> R = positive ; R = nonpositive).
`)

	sols := solveAll(t, prog, "classify(5, R)")
	require.Len(t, sols, 1)
	assert.Equal(t, Intern("positive"), sols[0].Bindings[0].Value)

	sols = solveAll(t, prog, "classify(-5, R)")
	require.Len(t, sols, 1)
	assert.Equal(t, Intern("nonpositive"), sols[0].Bindings[0].Value)
}

func TestDisjunctionExploresBothBranches(t *testing.T) {
	prog := mustLoad(t, `color(red). color(green). color(blue).`)

	sols := solveAll(t, prog, "color(X) ; fail")
	assert.Len(t, sols, 3)
}

func TestNegationAsFailure(t *testing.T) {
	prog := mustLoad(t, `even(0). even(N) :- N > 0, N1 is N - 2, even(N1).`)

	sols := solveAll(t, prog, "\\+ even(3)")
	assert.Len(t, sols, 1)

	sols = solveAll(t, prog, "\\+ even(4)")
	assert.Len(t, sols, 0)
}

func TestUnknownPredicateFails(t *testing.T) {
	prog := NewProgram()
	sols := solveAll(t, prog, "nonexistent(a)")
	assert.Len(t, sols, 0)
}

func TestConsultDuringLiveSolveIsForbidden(t *testing.T) {
	prog := NewProgram()
	prog.beginSolving()
	defer prog.endSolving()

	err := prog.AddClause(Intern("foo"))
	require.Error(t, err)
	_, ok := err.(*ConsultError)
	assert.True(t, ok)
}

func TestWriteBuiltinGoesToRedirectedStdout(t *testing.T) {
	prog := mustLoad(t, `greet :- write(hello), nl.`)

	var buf bytes.Buffer
	w := NewWorker(prog, WithIO(&buf, bytes.NewReader(nil)))
	goal, err := ParseTerm("greet")
	require.NoError(t, err)

	err = w.Solve(goal, nil, func(*Solution) bool { return true })
	require.NoError(t, err)
	assert.Equal(t, "hello\n", buf.String())
}
