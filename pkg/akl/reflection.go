package akl

import uuid "github.com/satori/go.uuid"

// Reflection is a handle to a paused sub-computation: a nested Worker
// solving some goal, the channel its solutions arrive on, and the
// current tail of the difference-list stream reflective_call/3 and
// reflective_next/2 grow one cons at a time. Grounded on
// pyakl/term.py's `Reflection` class (`generator, interpreter, stream`)
// and, for the stream-append mechanics themselves, on port.go's
// Send/portState — a Reflection's stream is a Port-shaped
// difference-list with no Close, fed one solution(Bindings) or fail
// atom at a time.
type Reflection struct {
	id        uuid.UUID
	sub       *Worker
	solutions <-chan *Solution
	exhausted bool
	tail      *Var
}

// Solution is one answer to a solved goal: the bindings of its query
// variables, by name.
type Solution struct {
	Bindings []Binding
}

// Binding pairs a named query variable with the term it is bound to.
type Binding struct {
	Name  string
	Value Term
}

// newReflection starts goal running on a fresh nested Worker sharing
// prog (and, if set, the parent's parallel pool, so a reflective call
// nested inside another reflective call still gets bounded
// concurrency), and returns a handle whose solutions channel yields
// one *Solution per answer, closed when the sub-computation is
// exhausted. queryVars is collected from goal itself — a reflective
// call names no variables separately from the goal it solves (§4.4).
// The sub-computation runs on the bounded worker pool when one is
// installed, rather than an unbounded goroutine-per-reflection.
func newReflection(parent *Worker, goal Term) *Reflection {
	sub := NewWorker(parent.program, WithIO(parent.stdout, parent.stdin), WithParallelPool(parent.pool))
	queryVars := CollectVars(goal, nil, nil)
	ch := make(chan *Solution, 1)

	id, _ := uuid.NewV4()
	r := &Reflection{id: id, sub: sub, solutions: ch}

	submit := func() {
		defer close(ch)
		sub.Solve(goal, queryVars, func(sol *Solution) bool {
			ch <- sol
			return true // always take the next alternative; reflective_next drives pacing
		})
	}

	if parent.pool != nil {
		parent.pool.Submit(submit)
	} else {
		go submit()
	}

	return r
}

// bindingsTerm renders sol as the solution(Bindings) term emitted onto
// a Reflection's stream (§4.4), Bindings a proper list of Name=Value
// pairs — the only existing convention for naming a solution's
// bindings (Binding.Name/Value, engine.go's drainPendingSolution) has
// no prior term encoding to ground against, since no findall/bagof
// precedent exists anywhere in the corpus; `=`/2 pairs are how AKL
// source itself represents a named binding (see any guard using `=`).
func bindingsTerm(sol *Solution) Term {
	items := make([]Term, len(sol.Bindings))
	for i, b := range sol.Bindings {
		items[i] = NewCompound(Intern("="), Intern(b.Name), b.Value)
	}
	return NewCompound(Intern("solution"), MakeList(items...))
}

// emit pulls the next solution from r (or notes exhaustion), conses
// solution(Bindings) — or the atom fail, once exhausted — onto
// tailVar, and advances r's stored tail to the new, still-open cell.
// It returns false only if tailVar was already bound to something
// incompatible, mirroring Send's own failure contract.
func (r *Reflection) emit(w *Worker, tailVar *Var) bool {
	var item Term = Intern("fail")
	if !r.exhausted {
		if sol, ok := <-r.solutions; ok {
			item = bindingsTerm(sol)
		} else {
			r.exhausted = true
		}
	}
	freshTail := NewVar(tailVar.env, "")
	if !Unify(tailVar, &Cons{Head: item, Tail: freshTail}, w.trail) {
		return false
	}
	r.tail = freshTail
	return true
}

func (r *Reflection) deref() Term { return r }
func (*Reflection) isTerm()       {}
