package akl

// GuardType is one of AKL's six guard kinds (§4.2.3).
type GuardType int

const (
	GuardNone GuardType = iota
	GuardWait
	GuardQuietWait
	GuardArrow
	GuardCommit
	GuardCut
)

func (g GuardType) String() string {
	switch g {
	case GuardNone:
		return "NONE"
	case GuardWait:
		return "WAIT"
	case GuardQuietWait:
		return "QUIET_WAIT"
	case GuardArrow:
		return "ARROW"
	case GuardCommit:
		return "COMMIT"
	case GuardCut:
		return "CUT"
	default:
		return "UNKNOWN"
	}
}

// quiet reports whether evaluating this guard kind forbids further
// constraining an external variable (§4.2.3 table's "Quiet" column).
func (g GuardType) quiet() bool {
	switch g {
	case GuardQuietWait, GuardArrow, GuardCommit:
		return true
	default:
		return false
	}
}

// pruning describes which siblings a successful commit under this
// guard kind kills.
type pruning int

const (
	pruneNone pruning = iota
	pruneRightSibs
	pruneAllSibs
)

func (g GuardType) pruning() pruning {
	switch g {
	case GuardArrow, GuardCut:
		return pruneRightSibs
	case GuardCommit:
		return pruneAllSibs
	default:
		return pruneNone
	}
}

// commitReady reports whether box — solved, with guard kind g — has
// met its commit rule (§4.2.3 table's "Commit rule when solved"
// column). leftmost reports whether box is the leftmost live
// alternative of its parent choice-box, a precondition for ARROW and
// CUT.
//
// The table's "quiet" condition for QUIET_WAIT/ARROW/COMMIT is
// already fully enforced earlier, at guard-phase completion
// (onSolved kills any box whose guard violated quietness before it
// ever reaches here — see quietViolated). It is not re-tested as a
// precondition on box's own deferred-unifier list: that list routinely
// holds the pending head-argument bindings for any call with an
// external-variable argument, and those are only ever discharged as
// *part of* promotion (§4.2.5 step 1), not before it. Gating commit on
// an empty deferred list would make promotion wait on its own
// postcondition.
func (g GuardType) commitReady(box *AndBox, leftmost bool) bool {
	switch g {
	case GuardNone, GuardWait, GuardQuietWait:
		return box.parent.determinate()
	case GuardArrow:
		return leftmost
	case GuardCommit:
		return true
	case GuardCut:
		return leftmost
	default:
		return false
	}
}

// isLeftmost reports whether box is the leftmost live alternative in
// its parent choice-box.
func isLeftmost(box *AndBox) bool {
	live := box.parent.liveAlternatives()
	return len(live) > 0 && live[0] == box
}

// applyPruning kills the siblings of box in its parent choice-box per
// g's pruning rule (§4.2.3, "Pruning on successful commit").
func applyPruning(g GuardType, box *AndBox) {
	switch g.pruning() {
	case pruneNone:
		return
	case pruneAllSibs:
		for _, a := range box.parent.alternatives {
			if a != box {
				killAndBox(a)
			}
		}
	case pruneRightSibs:
		found := false
		for _, a := range box.parent.alternatives {
			if a == box {
				found = true
				continue
			}
			if found {
				killAndBox(a)
			}
		}
	}
}
