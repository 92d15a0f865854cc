package akl

import "context"

// solveNegation implements `\+/1` (§4.2.1): the inner goal runs to
// completion in a detached sub-computation that shares this worker's
// trail, env arena and program, but owns a private task/wake/recall
// queue and root so it cannot interleave with, or leave any residue
// on, the caller's tree. The trail is unwound back to its pre-attempt
// mark regardless of outcome — negation tests existence, it does not
// keep the witness's bindings.
//
// Grounded on §4.2.1's "negation-as-failure: evaluate the inner goal
// in a detached sub-computation and invert success," and on the
// teacher's habit of giving a sub-derivation its own scheduler state
// while reusing the parent's mutable stores (see reflection.go's
// nested Worker for the analogous reflective_call/3 case).
func (w *Worker) solveNegation(box *AndBox, goal Term) (bool, error) {
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

	ctx := context.Background()
	for {
		event, err := sub.step(ctx)
		if err != nil {
			return false, err
		}
		if sub.pendingRootSolutions > 0 {
			return false, nil
		}
		if !event {
			return true, nil
		}
	}
}
