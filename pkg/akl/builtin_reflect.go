package akl

import "context"

func init() {
	registerBuiltin("numberof", 2, builtinNumberof)
	registerBuiltin("reflective_call", 3, builtinReflectiveCall)
	registerBuiltin("reflective_next", 2, builtinReflectiveNext)
}

// builtinNumberof implements numberof/2: Count is bound to the number
// of solutions of Goal, found by a detached sub-computation whose
// bindings never leak into the caller, the same discipline
// negation.go's solveNegation uses for `\+/1`.
func builtinNumberof(w *Worker, b *AndBox, args []Term) BuiltinResult {
	n, err := w.countSolutions(b, args[0])
	if err != nil {
		return fail()
	}
	return boolResult(Unify(args[1], Int(n), w.trail))
}

// countSolutions runs goal to exhaustion in box's current scope and
// counts its solutions. The pass shares w's trail and env arena (it
// needs to see box's current bindings), so unlike a Reflection's own
// sub-computation it can never run truly concurrently with its
// caller. With w.pool installed the pass runs on one of the pool's
// workers; without one it runs inline on the caller's goroutine.
// countSolutions blocks until the pass finishes either way.
func (w *Worker) countSolutions(box *AndBox, goal Term) (int, error) {
	mark := w.trail.Mark()
	defer w.trail.Undo(mark)

	sub := &Worker{
		program: w.program,
		envs:    w.envs,
		trail:   w.trail,
		pool:    w.pool,
		stdout:  w.stdout,
		stdin:   w.stdin,
		log:     w.log,
	}
	subEnv := w.envs.Child(box.env)
	rootBox := sub.newAndBox(subEnv, nil)
	rootBox.goals.push(goal)
	sub.root = &ChoiceBox{alternatives: []*AndBox{rootBox}, guardKind: GuardNone}
	rootBox.parent = sub.root
	sub.tasks.push(task{kind: taskStart, box: rootBox})

	type outcome struct {
		count int
		err   error
	}
	done := make(chan outcome, 1)
	run := func() {
		ctx := context.Background()
		count := 0
		for {
			event, err := sub.step(ctx)
			if err != nil {
				done <- outcome{0, err}
				return
			}
			count += sub.pendingRootSolutions
			sub.pendingRootSolutions = 0
			if !event {
				done <- outcome{count, nil}
				return
			}
		}
	}

	if w.pool != nil {
		w.pool.Submit(run)
	} else {
		run()
	}
	res := <-done
	return res.count, res.err
}

// builtinReflectiveCall implements reflective_call(R, G, S): it starts
// a new engine instance solving G, emits solution(Bindings) — or the
// atom fail, if G has no solutions — onto the difference-list stream
// S, and binds R to a handle that reflective_next/2 uses to ask for
// more (§4.4). Like open_port/2's own tail argument, S is unified with
// a freshly allocated internal tail variable rather than required to
// already be one.
func builtinReflectiveCall(w *Worker, b *AndBox, args []Term) BuiltinResult {
	tailVar := NewVar(b.env, "")
	if !Unify(args[2], tailVar, w.trail) {
		return fail()
	}
	r := newReflection(w, args[1])
	if !r.emit(w, tailVar) {
		return fail()
	}
	return boolResult(Unify(args[0], r, w.trail))
}

// builtinReflectiveNext implements reflective_next(R, R1): it advances
// the iterator stored in handle R, emitting the next
// solution(Bindings) — or fail, once exhausted — onto R's stream, and
// unifies R1 with the same handle (§4.4).
func builtinReflectiveNext(w *Worker, b *AndBox, args []Term) BuiltinResult {
	r, ok := Deref(args[0]).(*Reflection)
	if !ok {
		return fail()
	}
	if !r.emit(w, r.tail) {
		return fail()
	}
	return boolResult(Unify(args[1], r, w.trail))
}
