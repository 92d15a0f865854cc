package akl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
)

// Worker is the single cooperative scheduler driving one execution
// tree (§5: "A single cooperative worker. All mutation of the tree,
// trail, and Var cells is performed by that worker; no locks are
// needed."). A Worker owns its own env arena and trail; a reflective
// sub-computation (reflection.go) gets its own Worker entirely, never
// shares one.
//
// Grounded on the teacher's `Goal func(ctx context.Context, store
// ConstraintStore) *Stream` convention: a context.Context is threaded
// through Run/Solve so a host can cancel a long-running solve the
// same way the teacher's goals respect cancellation.
type Worker struct {
	id      uuid.UUID
	program *Program
	envs    *envArena
	trail   *Trail

	tasks  fifo[task]
	wake   fifo[*Suspension]
	recall fifo[*ChoiceBox]

	root *ChoiceBox

	pool *Pool // optional; set by WithParallelPool

	// stdout/stdin back write/1, format/1,2, read_term/2 and friends
	// (builtin_io.go). Defaulted to the process's own streams so a
	// plain NewWorker behaves like a normal interactive toplevel;
	// WithIO lets the REPL and tests redirect them.
	stdout io.Writer
	stdin  *bufio.Reader

	log *logrus.Entry

	nextBoxID int64

	// pendingRootSolutions counts solutions recorded by promote() that
	// SolveContext has not yet reported to its onSolution callback.
	pendingRootSolutions int
}

// WorkerOption configures a Worker at construction.
type WorkerOption func(*Worker)

// WithParallelPool installs a bounded worker pool backing reflective
// sub-computations (reflection.go) and numberof/2's counting pass
// (builtin_reflect.go), installed by the CLI's --parallel flag (§4.4).
func WithParallelPool(p *Pool) WorkerOption {
	return func(w *Worker) { w.pool = p }
}

// WithIO redirects a Worker's stdout/stdin away from the process
// defaults, used by ExecuteQuery (the REPL and -e paths) and by tests
// asserting on write/1 and format/1,2 output.
func WithIO(stdout io.Writer, stdin io.Reader) WorkerOption {
	return func(w *Worker) {
		w.stdout = stdout
		w.stdin = bufio.NewReader(stdin)
	}
}

// NewWorker returns a Worker ready to Solve goals against prog.
func NewWorker(prog *Program, opts ...WorkerOption) *Worker {
	id, _ := uuid.NewV4()
	w := &Worker{
		id:      id,
		program: prog,
		envs:    newEnvArena(),
		trail:   NewTrail(),
		stdout:  os.Stdout,
		stdin:   bufio.NewReader(os.Stdin),
		log:     logrus.WithField("worker", id.String()[:8]),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Solve installs goal as the sole top-level and-box under a synthetic
// root choice-box and runs the scheduler until the tree reaches
// normal form or ctx is cancelled. Each time a direct child of the
// root choice-box is promoted, a Solution reporting queryVars'
// current bindings is built and passed to onSolution; returning false
// from onSolution stops the search (the caller has enough solutions),
// returning true asks for more.
//
// Solve returns a non-nil error only for an InternalInvariantError or
// for ctx's cancellation.
func (w *Worker) Solve(goal Term, queryVars []*Var, onSolution func(*Solution) bool) error {
	return w.SolveContext(context.Background(), goal, queryVars, onSolution)
}

// SolveContext is Solve with an explicit context for cancellation,
// grounded on the teacher's ctx-threading convention (§4.2 [ADD]).
func (w *Worker) SolveContext(ctx context.Context, goal Term, queryVars []*Var, onSolution func(*Solution) bool) error {
	w.program.beginSolving()
	defer w.program.endSolving()

	rootEnv := w.envs.Root()
	rootBox := w.newAndBox(rootEnv, w.root)
	rootBox.goals.push(goal)

	w.root = &ChoiceBox{alternatives: []*AndBox{rootBox}, guardKind: GuardNone}
	rootBox.parent = w.root

	more := true
	w.tasks.push(task{kind: taskStart, box: rootBox})

	for more {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		event, err := w.step(ctx)
		if err != nil {
			return err
		}
		if !event {
			// Normal form reached; nothing left to schedule.
			return nil
		}
		if sol := w.drainPendingSolution(queryVars); sol != nil {
			more = onSolution(sol)
		}
	}
	return nil
}

// drainPendingSolution reports one solution recorded by promote() for
// a direct child of the root choice-box (§4.2.5's last paragraph),
// snapshotting queryVars' current bindings.
func (w *Worker) drainPendingSolution(queryVars []*Var) *Solution {
	if w.pendingRootSolutions == 0 {
		return nil
	}
	w.pendingRootSolutions--
	bindings := make([]Binding, len(queryVars))
	for i, v := range queryVars {
		bindings[i] = Binding{Name: v.Name(), Value: Deref(v)}
	}
	return &Solution{Bindings: bindings}
}

// step performs exactly one scheduling iteration per the priority
// order of §4.2: wake, then recall, then tasks, then a split-candidate
// scan, else report the tree has reached normal form (returns false).
func (w *Worker) step(ctx context.Context) (bool, error) {
	if s, ok := w.wake.pop(); ok {
		w.resume(s)
		return true, nil
	}

	if c, ok := w.recall.pop(); ok {
		w.retryChoiceBox(c)
		return true, nil
	}

	if t, ok := w.tasks.pop(); ok {
		return true, w.runTask(ctx, t)
	}

	if candidate, f, m := w.findSplitCandidate(); candidate != nil {
		w.split(candidate, f, m)
		return true, nil
	}

	return false, nil
}

func (w *Worker) runTask(ctx context.Context, t task) error {
	switch t.kind {
	case taskStart:
		return w.runAndBox(t.box)
	case taskPromote:
		if t.box.status == StatusDead {
			return nil
		}
		return w.onSolved(t.box)
	case taskSplit:
		if candidate, f, m := w.findSplitCandidate(); candidate != nil {
			w.split(candidate, f, m)
		}
		return nil
	case taskRoot:
		return nil
	default:
		return wrapFatal(&InternalInvariantError{Invariant: "task kind", Detail: fmt.Sprintf("unknown task kind %d", t.kind)})
	}
}

func (w *Worker) resume(s *Suspension) {
	switch s.kind {
	case SuspendAndBox:
		if s.andBox.status != StatusDead {
			w.tasks.push(task{kind: taskStart, box: s.andBox})
		}
	case SuspendChoiceBox:
		if s.choice.status != StatusDead {
			w.recall.push(s.choice)
		}
	case SuspendBuiltin:
		if s.builtin.box.status != StatusDead {
			result := s.builtin.resume(w)
			w.handleBuiltinResult(s.builtin.box, result, nil)
		}
	}
}

func (w *Worker) retryChoiceBox(c *ChoiceBox) {
	if c.status == StatusDead {
		return
	}
	for _, alt := range c.liveAlternatives() {
		w.tasks.push(task{kind: taskStart, box: alt})
	}
}

func (w *Worker) newAndBox(env EnvId, parent *ChoiceBox) *AndBox {
	w.nextBoxID++
	return &AndBox{status: StatusStable, env: env, parent: parent, id: w.nextBoxID}
}

// runAndBox drives goal expansion for box until its goal queue is
// empty and it has no live children (solved), it suspends (UNSTABLE),
// or it fails (DEAD).
func (w *Worker) runAndBox(box *AndBox) error {
	if box.status == StatusDead {
		return nil
	}

	for {
		if box.solved() {
			return w.onSolved(box)
		}

		goal, ok := box.goals.pop()
		if !ok {
			return w.onSolved(box)
		}

		result, err := w.expandGoal(box, goal)
		if err != nil {
			return err
		}
		switch result {
		case expandFail:
			killAndBox(box)
			w.propagateFailure(box)
			return nil
		case expandSuspend:
			box.status = StatusUnstable
			return nil
		case expandSpawned:
			// A child choice-box was created; box waits until a task
			// or wake event reschedules it (e.g. when that choice-box
			// becomes determinate and promotes into box).
			return nil
		case expandContinue:
			continue
		}
	}
}

type expandOutcome int

const (
	expandContinue expandOutcome = iota
	expandFail
	expandSuspend
	expandSpawned
)

// expandGoal dispatches one popped goal per §4.2.1.
func (w *Worker) expandGoal(box *AndBox, goal Term) (expandOutcome, error) {
	goal = Deref(goal)
	name, args := callArgs(goal)

	switch {
	case name == "," && len(args) == 2:
		box.goals.items = append([]Term{args[0], args[1]}, box.goals.items...)
		return expandContinue, nil

	case name == ";" && len(args) == 2:
		return w.expandDisjunction(box, args[0], args[1])

	case name == "\\+" && len(args) == 1:
		ok, err := w.solveNegation(box, args[0])
		if err != nil {
			return expandContinue, err
		}
		if ok {
			return expandContinue, nil
		}
		return expandFail, nil

	case name == "=" && len(args) == 2:
		return w.expandUnify(box, args[0], args[1])

	case name == "true" && len(args) == 0:
		return expandContinue, nil

	case (name == "fail" || name == "false") && len(args) == 0:
		return expandFail, nil
	}

	if fn := lookupBuiltin(name, len(args)); fn != nil {
		result := fn(w, box, args)
		return w.handleBuiltinResult(box, result, nil), nil
	}

	pred := w.program.Lookup(name, len(args))
	if pred == nil {
		// UnknownPredicate: treated as failure, no logging (§7).
		return expandFail, nil
	}

	w.callPredicate(box, goal, pred)
	return expandSpawned, nil
}

func (w *Worker) handleBuiltinResult(box *AndBox, result BuiltinResult, _ *Var) expandOutcome {
	switch result.Kind {
	case BuiltinSuccess:
		return expandContinue
	case BuiltinFail:
		return expandFail
	case BuiltinSuspend:
		suspendAndBox(result.SuspendOn, box)
		return expandSuspend
	default:
		return expandFail
	}
}

// expandUnify implements §4.2's `=/2` case per the deferred-binding
// discipline of §4.2.4: a unification that would bind an external
// variable is deferred rather than performed immediately.
func (w *Worker) expandUnify(box *AndBox, t1, t2 Term) (expandOutcome, error) {
	if ok := w.tryUnifyWithDeferral(box, t1, t2); ok {
		return expandContinue, nil
	}
	return expandFail, nil
}

// tryUnifyWithDeferral performs Unify(t1, t2), except that any
// top-level attempt to bind an external variable is instead recorded
// on box's deferred-unifier list and box goes UNSTABLE with a
// suspension on that variable (§4.2.4). It returns false only when an
// outright mismatch (not deferral) occurs.
func (w *Worker) tryUnifyWithDeferral(box *AndBox, t1, t2 Term) bool {
	t1d := Deref(t1)
	t2d := Deref(t2)

	if v, ok := t1d.(*Var); ok && w.envs.External(v, box.env) {
		if _, ok := t2d.(*Var); !ok || !w.envs.External(t2d.(*Var), box.env) {
			w.deferUnification(box, v, t2d)
			return true
		}
	}
	if v, ok := t2d.(*Var); ok && w.envs.External(v, box.env) {
		w.deferUnification(box, v, t1d)
		return true
	}

	return Unify(t1d, t2d, w.trail)
}

func (w *Worker) deferUnification(box *AndBox, v *Var, value Term) {
	box.deferred = append(box.deferred, deferredUnifier{v: v, value: value})
	box.status = StatusUnstable
	suspendAndBox(v, box)
}

// expandDisjunction handles `;/2`, recognizing `Cond -> Then ; Else`
// as if-then-else (§4.2.1).
func (w *Worker) expandDisjunction(box *AndBox, left, right Term) (expandOutcome, error) {
	if ite, ok := Deref(left).(*Compound); ok && ite.Functor.name == "->" && len(ite.Args) == 2 {
		cond, then := ite.Args[0], ite.Args[1]
		thenGoal := NewCompound(Intern(","), cond, then)
		c := &ChoiceBox{parent: box, guardKind: GuardCommit}
		thenEnv := box.env
		thenBox := w.newAndBox(thenEnv, c)
		thenBox.goals.push(thenGoal)
		thenBox.guardKind = GuardCommit
		elseBox := w.newAndBox(box.env, c)
		elseBox.goals.push(right)
		elseBox.guardKind = GuardCommit
		c.alternatives = []*AndBox{thenBox, elseBox}
		box.children = append(box.children, c)
		w.tasks.push(task{kind: taskStart, box: thenBox})
		w.tasks.push(task{kind: taskStart, box: elseBox})
		return expandSpawned, nil
	}

	c := &ChoiceBox{parent: box, guardKind: GuardWait}
	leftBox := w.newAndBox(box.env, c)
	leftBox.goals.push(left)
	leftBox.guardKind = GuardWait
	rightBox := w.newAndBox(box.env, c)
	rightBox.goals.push(right)
	rightBox.guardKind = GuardWait
	c.alternatives = []*AndBox{leftBox, rightBox}
	box.children = append(box.children, c)
	w.tasks.push(task{kind: taskStart, box: leftBox})
	w.tasks.push(task{kind: taskStart, box: rightBox})
	return expandSpawned, nil
}

// callPredicate implements §4.2.2: one child and-box per matching
// clause, each under a fresh env, with the call-site arguments'
// unification prepended to the clause's (possible) guard and body.
func (w *Worker) callPredicate(box *AndBox, call Term, pred *Predicate) {
	c := &ChoiceBox{parent: box}
	box.children = append(box.children, c)

	_, callArgsVec := callArgs(call)

	for _, clause := range pred.Clauses {
		env, head, guard, body, localVars := instantiateClause(w.envs, box.env, clause)

		alt := w.newAndBox(env, c)
		alt.guardKind = clause.GuardKind
		alt.localVars = localVars

		_, headArgs := callArgs(head)
		mark := w.trail.Mark()
		ok := true
		for i := range callArgsVec {
			if !w.tryUnifyWithDeferral(alt, callArgsVec[i], headArgs[i]) {
				ok = false
				break
			}
		}
		if !ok {
			w.trail.Undo(mark)
			killAndBox(alt)
			continue
		}

		if guard != nil {
			if clause.GuardKind.quiet() {
				alt.guardTrailMark = w.trail.Mark()
				alt.guardSnapshot = snapshotExternals(w, alt, guard)
			}
			alt.goals.push(guard)
			alt.bodyQueue = body
			alt.inGuardPhase = true
		} else {
			// No guard term at all (GuardNone): the body runs as soon
			// as the head unifies, no separate guard phase (§4.2.2).
			alt.goals.items = append(alt.goals.items, body...)
		}

		c.alternatives = append(c.alternatives, alt)
	}

	c.guardKind = GuardNone
	for _, alt := range c.liveAlternatives() {
		w.tasks.push(task{kind: taskStart, box: alt})
	}

	if c.liveAlternativeCount() == 0 {
		killChoiceBox(c)
		w.propagateFailureFromChoiceBox(box, c)
	}
}

// onSolved is called when box's goal queue has emptied and it has no
// live children. Two distinct moments reach here:
//
//   - box.inGuardPhase: only the guard goal has run; the body is still
//     held in box.bodyQueue. This is "solved" per §3.3's definition
//     (empty queue, no live children) even though the clause is only
//     partway done, because the body is deliberately kept out-of-band
//     until guard success (§4.2.2). For a quiet guard kind this is
//     where the snapshot taken in callPredicate is checked; for a
//     pruning guard kind this is where siblings die, immediately,
//     rather than waiting for the body to finish too — the whole
//     point of ARROW/COMMIT/CUT over plain WAIT.
//   - otherwise: the whole clause (guard, if any, and body) has run to
//     completion. This is where the commit rule is tested for
//     non-pruning guard kinds (NONE, WAIT, QUIET_WAIT), and where a
//     solved and-box is finally merged into its parent (or, for a
//     direct child of the root choice-box, recorded as a solution).
func (w *Worker) onSolved(box *AndBox) error {
	if box.inGuardPhase {
		box.inGuardPhase = false

		if len(box.guardSnapshot) > 0 && quietViolated(box.guardSnapshot) {
			w.trail.Undo(box.guardTrailMark)
			killAndBox(box)
			w.propagateFailure(box)
			return nil
		}

		switch box.guardKind.pruning() {
		case pruneAllSibs:
			// COMMIT: quiet is itself the commit condition.
			applyPruning(box.guardKind, box)
		case pruneRightSibs:
			// ARROW, CUT: must also be leftmost.
			if !box.guardKind.commitReady(box, isLeftmost(box)) {
				// Not ready yet: stay solved-but-uncommitted, still in
				// the guard phase with the body held back. The quiet
				// check above has passed, so its snapshot is dropped. A
				// left sibling's death will re-trigger this check via
				// propagateFailureFromChoiceBox.
				box.inGuardPhase = true
				box.guardSnapshot = nil
				return nil
			}
			applyPruning(box.guardKind, box)
		}

		body := box.bodyQueue
		box.bodyQueue = nil
		box.goals.items = append(append([]Term{}, body...), box.goals.items...)
		return w.runAndBox(box)
	}

	if box.parent == w.root {
		w.pendingRootSolutions++
		killAndBox(box)
		return nil
	}

	if box.guardKind.commitReady(box, isLeftmost(box)) {
		return w.promote(box)
	}
	// Not ready: box stays solved-but-uncommitted until a sibling's
	// death (pruning, or another alternative failing) makes its
	// choice-box determinate, which propagateFailureFromChoiceBox
	// re-checks by calling onSolved again.
	return nil
}

// externalSnapshot records, before a quiet guard kind runs its guard
// goal, whether one variable reachable from that goal was bound at
// that moment (§4.2.3, "Quiet"). The watched variable is usually
// local to the clause — a clause's own head, guard and body variables
// are all freshly instantiated, never literally the caller's external
// cell — but it may stand proxy for an external one: §4.2.4 defers
// any head-argument binding of an external variable to a local head
// variable rather than performing it, so binding that local variable
// from inside the guard constrains the external variable just as
// surely as touching it directly would.
type externalSnapshot struct {
	v        *Var
	wasBound bool
}

func snapshotExternals(w *Worker, box *AndBox, guard Term) []externalSnapshot {
	vars := CollectVars(guard, nil, nil)
	var out []externalSnapshot
	seen := make(map[*Var]bool, len(vars))
	watch := func(v *Var) {
		if !seen[v] {
			seen[v] = true
			out = append(out, externalSnapshot{v: v, wasBound: v.Bound()})
		}
	}
	for _, v := range vars {
		if w.envs.External(v, box.env) {
			watch(v)
			continue
		}
		for _, d := range box.deferred {
			if proxy, ok := Deref(d.value).(*Var); ok && proxy == v {
				watch(v)
			}
		}
	}
	return out
}

// quietViolated reports whether any snapshotted external variable's
// boundness changed while its guard ran — the engine's enforcement of
// "no constraining an external variable inside a quiet guard."
func quietViolated(snap []externalSnapshot) bool {
	for _, s := range snap {
		if s.v.Bound() != s.wasBound {
			return true
		}
	}
	return false
}

func (w *Worker) propagateFailure(box *AndBox) {
	c := box.parent
	if c == nil {
		return
	}
	w.propagateFailureFromChoiceBox(c.parent, c)
}

// propagateFailureFromChoiceBox checks whether c (a child of
// parentBox) has run out of live alternatives and, if so, kills c and
// fails parentBox in turn (§3.3: "A ChoiceBox with an empty
// alternative list is itself scheduled for removal and propagates
// failure to its parent AndBox.").
func (w *Worker) propagateFailureFromChoiceBox(parentBox *AndBox, c *ChoiceBox) {
	if c.liveAlternativeCount() > 0 {
		if c.determinate() {
			for _, alt := range c.liveAlternatives() {
				if alt.solved() {
					w.tasks.push(task{kind: taskPromote, box: alt})
				}
			}
		} else if first := c.liveAlternatives()[0]; first.inGuardPhase && first.solved() {
			// An ARROW/CUT alternative whose guard finished while it was
			// not leftmost waits in its guard phase; it may be leftmost
			// now, so let onSolved re-check it.
			w.tasks.push(task{kind: taskPromote, box: first})
		}
		return
	}
	killChoiceBox(c)
	if parentBox == nil || parentBox.status == StatusDead {
		return
	}
	killAndBox(parentBox)
	w.propagateFailure(parentBox)
}
