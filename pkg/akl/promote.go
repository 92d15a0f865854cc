package akl

import "github.com/sirupsen/logrus"

// promote merges a solved, commit-ready and-box into its parent
// and-box, per §4.2.5. box's own parent choice-box is always a real
// predicate-call or disjunction choice-box here — a direct child of
// the root choice-box never reaches this function; onSolved records
// it as a reported solution instead.
func (w *Worker) promote(box *AndBox) error {
	c := box.parent
	dest := c.parent

	w.log.WithFields(logrus.Fields{
		"box":   box.id,
		"dest":  dest.id,
		"guard": box.guardKind.String(),
	}).Debug("promoting and-box")

	w.dischargeDeferred(box, dest)
	// Re-home box's own clause variables into dest's env (§4.2.5 step 2).
	for _, v := range box.localVars {
		if v.env == box.env {
			v.env = dest.env
		}
	}
	dest.localVars = append(dest.localVars, box.localVars...)

	// Pruning for ARROW/COMMIT/CUT clauses already ran when the guard
	// finished (onSolved's guard-phase branch), so re-applying it here is
	// a no-op for them, and NONE/WAIT/QUIET_WAIT never prune. The
	// if-then-else alternatives built by expandDisjunction are COMMIT
	// boxes with no separate guard phase; for them this is where the
	// other branch is pruned.
	applyPruning(box.guardKind, box)

	c.removeAlternative(box)
	killAndBox(box)
	if len(c.alternatives) == 0 {
		killChoiceBox(c)
		removeChoiceBoxChild(dest, c)
	}

	if dest.status == StatusDead {
		return nil
	}
	w.tasks.push(task{kind: taskStart, box: dest})
	return nil
}

// dischargeDeferred applies box's deferred unifiers against dest's
// scope: a unifier whose target variable is now local to dest is
// performed for real (trailed); one whose target is still external
// even to dest is re-deferred on dest, per §4.2.4's "propagate the
// deferral outward" rule.
func (w *Worker) dischargeDeferred(box, dest *AndBox) {
	for _, d := range box.deferred {
		if w.envs.Local(d.v, dest.env) {
			Unify(d.v, d.value, w.trail)
			continue
		}
		w.deferUnification(dest, d.v, d.value)
	}
	box.deferred = nil
}

// removeChoiceBoxChild unlinks c from box's children slice.
func removeChoiceBoxChild(box *AndBox, c *ChoiceBox) {
	for i, ch := range box.children {
		if ch == c {
			box.children = append(box.children[:i], box.children[i+1:]...)
			return
		}
	}
}
