package akl

import "github.com/sirupsen/logrus"

// findSplitCandidate implements §4.2.6's candidate search: a
// left-to-right, roughly depth-first scan for an and-box C that is
// solved, sitting under a WAIT-class choice-box F (`?` or no-guard)
// that is not determinate, whose enclosing mother and-box M is
// STABLE. Returns (nil, nil, nil) if none exists.
func (w *Worker) findSplitCandidate() (*AndBox, *ChoiceBox, *AndBox) {
	if w.root == nil {
		return nil, nil, nil
	}
	for _, alt := range w.root.liveAlternatives() {
		if c, f, m := w.searchAndBox(alt); c != nil {
			return c, f, m
		}
	}
	return nil, nil, nil
}

func (w *Worker) searchAndBox(m *AndBox) (*AndBox, *ChoiceBox, *AndBox) {
	if m.status == StatusDead {
		return nil, nil, nil
	}

	if m.status == StatusStable {
		for _, cb := range m.children {
			if cb.status == StatusDead || !guardKindWaitClass(cb.guardKind) || cb.determinate() {
				continue
			}
			for _, alt := range cb.liveAlternatives() {
				if alt.solved() && !alt.inGuardPhase {
					return alt, cb, m
				}
			}
		}
	}

	for _, cb := range m.children {
		for _, alt := range cb.liveAlternatives() {
			if c, f, mm := w.searchAndBox(alt); c != nil {
				return c, f, mm
			}
		}
	}
	return nil, nil, nil
}

func guardKindWaitClass(g GuardType) bool {
	return g == GuardNone || g == GuardWait
}

// splitCopier carries the identity maps a single split's subtree copy
// is built with: env ids and Var cells local to M get fresh
// counterparts; everything else (external cells, atoms, ints) is
// shared by reference. andBoxes/choiceBoxes record the original→copy
// correspondence so split can locate the copy of F and of C inside
// the freshly cloned M without a second search.
type splitCopier struct {
	w          *Worker
	mEnv       EnvId
	envs       map[EnvId]EnvId
	vars       map[*Var]*Var
	andBoxes   map[*AndBox]*AndBox
	choiceBoxes map[*ChoiceBox]*ChoiceBox
}

func newSplitCopier(w *Worker, mEnv EnvId) *splitCopier {
	return &splitCopier{
		w:           w,
		mEnv:        mEnv,
		envs:        make(map[EnvId]EnvId),
		vars:        make(map[*Var]*Var),
		andBoxes:    make(map[*AndBox]*AndBox),
		choiceBoxes: make(map[*ChoiceBox]*ChoiceBox),
	}
}

// isLocal reports whether env id is M's own env or a descendant of
// it — "inside M's subtree" per §4.2.6 step 1.
func (s *splitCopier) isLocal(id EnvId) bool {
	return s.w.envs.IsAncestor(s.mEnv, id)
}

func (s *splitCopier) copyEnv(id EnvId) EnvId {
	if !s.isLocal(id) {
		return id
	}
	if mapped, ok := s.envs[id]; ok {
		return mapped
	}
	newParent := s.copyEnv(s.w.envs.Parent(id))
	fresh := s.w.envs.Child(newParent)
	s.envs[id] = fresh
	return fresh
}

func (s *splitCopier) copyVar(v *Var) *Var {
	if !s.isLocal(v.env) {
		return v
	}
	if fresh, ok := s.vars[v]; ok {
		return fresh
	}
	fresh := NewVar(s.copyEnv(v.env), v.name)
	s.vars[v] = fresh
	if v.binding != nil {
		fresh.binding = s.copyTerm(v.binding)
	}
	return fresh
}

func (s *splitCopier) copyTerm(t Term) Term {
	t = Deref(t)
	switch x := t.(type) {
	case *Var:
		return s.copyVar(x)
	case *Compound:
		args := make([]Term, len(x.Args))
		for i, a := range x.Args {
			args[i] = s.copyTerm(a)
		}
		return &Compound{Functor: x.Functor, Args: args}
	case *Cons:
		return &Cons{Head: s.copyTerm(x.Head), Tail: s.copyTerm(x.Tail)}
	default:
		return t
	}
}

func (s *splitCopier) copyTerms(ts []Term) []Term {
	if ts == nil {
		return nil
	}
	out := make([]Term, len(ts))
	for i, t := range ts {
		out[i] = s.copyTerm(t)
	}
	return out
}

func (s *splitCopier) copySnapshot(snap []externalSnapshot) []externalSnapshot {
	if snap == nil {
		return nil
	}
	out := make([]externalSnapshot, len(snap))
	for i, e := range snap {
		out[i] = externalSnapshot{v: s.copyVar(e.v), wasBound: e.wasBound}
	}
	return out
}

func (s *splitCopier) copyDeferred(ds []deferredUnifier) []deferredUnifier {
	if ds == nil {
		return nil
	}
	out := make([]deferredUnifier, len(ds))
	for i, d := range ds {
		out[i] = deferredUnifier{v: s.copyVar(d.v), value: s.copyTerm(d.value)}
	}
	return out
}

func (s *splitCopier) copyVars(vs []*Var) []*Var {
	if vs == nil {
		return nil
	}
	out := make([]*Var, len(vs))
	for i, v := range vs {
		out[i] = s.copyVar(v)
	}
	return out
}

// copyAndBox deep-copies box under destParent, recording the
// original→copy correspondence.
func (s *splitCopier) copyAndBox(box *AndBox, destParent *ChoiceBox) *AndBox {
	nb := s.w.newAndBox(s.copyEnv(box.env), destParent)
	nb.status = box.status
	nb.guardKind = box.guardKind
	nb.inGuardPhase = box.inGuardPhase
	nb.guardTrailMark = box.guardTrailMark
	nb.guardSnapshot = s.copySnapshot(box.guardSnapshot)
	nb.goals = goalQueue{items: s.copyTerms(box.goals.items)}
	nb.bodyQueue = s.copyTerms(box.bodyQueue)
	nb.deferred = s.copyDeferred(box.deferred)
	nb.localVars = s.copyVars(box.localVars)

	s.andBoxes[box] = nb

	nb.children = make([]*ChoiceBox, len(box.children))
	for i, cb := range box.children {
		nb.children[i] = s.copyChoiceBox(cb, nb)
	}
	return nb
}

func (s *splitCopier) copyChoiceBox(c *ChoiceBox, destAndBox *AndBox) *ChoiceBox {
	s.w.nextBoxID++
	nc := &ChoiceBox{status: c.status, parent: destAndBox, guardKind: c.guardKind, id: s.w.nextBoxID}
	s.choiceBoxes[c] = nc
	nc.alternatives = make([]*AndBox, len(c.alternatives))
	for i, alt := range c.alternatives {
		nc.alternatives[i] = s.copyAndBox(alt, nc)
	}
	return nc
}

// split carries out §4.2.6 for the candidate C found under choice-box
// F under mother M.
func (w *Worker) split(c *AndBox, f *ChoiceBox, m *AndBox) {
	destC := m.parent // the choice-box holding M as an alternative

	w.log.WithFields(logrus.Fields{
		"candidate": c.id,
		"choicebox": f.id,
		"mother":    m.id,
	}).Debug("splitting mother subtree")

	copier := newSplitCopier(w, m.env)
	mCopy := copier.copyAndBox(m, destC)
	insertBefore(destC, m, mCopy)

	fCopy := copier.choiceBoxes[f]
	cCopy := copier.andBoxes[c]
	fCopy.alternatives = []*AndBox{cCopy}

	f.removeAlternative(c)
	killAndBox(c)

	if f.determinate() {
		for _, alt := range f.liveAlternatives() {
			if alt.solved() {
				w.tasks.push(task{kind: taskPromote, box: alt})
			}
		}
	} else if m.status == StatusStable {
		w.tasks.push(task{kind: taskSplit})
	}

	w.tasks.push(task{kind: taskPromote, box: cCopy})
}

// insertBefore splices fresh into c's alternatives immediately to the
// left of before (§4.2.6 step 3).
func insertBefore(c *ChoiceBox, before, fresh *AndBox) {
	for i, a := range c.alternatives {
		if a == before {
			c.alternatives = append(c.alternatives[:i], append([]*AndBox{fresh}, c.alternatives[i:]...)...)
			return
		}
	}
	c.alternatives = append(c.alternatives, fresh)
}
