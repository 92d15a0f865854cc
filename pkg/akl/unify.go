package akl

import "math"

// Unify attempts to make t1 and t2 equal, writing any bindings it
// performs to trail. On failure it returns false having left the
// trail exactly as it found it (callers that want atomicity across
// several Unify calls should Mark before the first and Undo on
// failure themselves — Unify alone only guarantees its own attempt
// leaves no partial binding behind).
//
// Grounded on pyakl/unify.py's unify(): deref both operands, trivial
// success on identical cells, var-side binds (to the non-var, or to
// the other var with a deterministic identity tie-break), atoms by
// identity, ints/floats by value, compounds by functor+arity then
// argument-wise, cons by head+tail.
func Unify(t1, t2 Term, trail *Trail) bool {
	return unify(t1, t2, trail, false)
}

// UnifyOC is Unify with the occurs check enabled.
func UnifyOC(t1, t2 Term, trail *Trail) bool {
	return unify(t1, t2, trail, true)
}

func unify(t1, t2 Term, trail *Trail, oc bool) bool {
	t1 = Deref(t1)
	t2 = Deref(t2)

	if t1 == t2 {
		return true
	}

	v1, isVar1 := t1.(*Var)
	v2, isVar2 := t2.(*Var)

	switch {
	case isVar1 && isVar2:
		// Deterministic tie-break by identity (cell id) order so that
		// repeated unifications of the same two vars always bind the
		// same direction.
		if v1.id < v2.id {
			return bindVar(v2, v1, trail, oc)
		}
		return bindVar(v1, v2, trail, oc)
	case isVar1:
		return bindVar(v1, t2, trail, oc)
	case isVar2:
		return bindVar(v2, t1, trail, oc)
	}

	return unifyNonVar(t1, t2, trail, oc)
}

func bindVar(v *Var, value Term, trail *Trail, oc bool) bool {
	if oc && occursIn(v, value) {
		return false
	}
	v.binding = value
	trail.push(v)
	return true
}

func occursIn(v *Var, t Term) bool {
	t = Deref(t)
	switch x := t.(type) {
	case *Var:
		return x == v
	case *Compound:
		for _, a := range x.Args {
			if occursIn(v, a) {
				return true
			}
		}
		return false
	case *Cons:
		return occursIn(v, x.Head) || occursIn(v, x.Tail)
	default:
		return false
	}
}

func unifyNonVar(t1, t2 Term, trail *Trail, oc bool) bool {
	switch a := t1.(type) {
	case *Atom:
		b, ok := t2.(*Atom)
		return ok && a == b
	case Int:
		b, ok := t2.(Int)
		return ok && a == b
	case Float:
		b, ok := t2.(Float)
		return ok && a == b
	case *Compound:
		b, ok := t2.(*Compound)
		if !ok || a.Functor != b.Functor || len(a.Args) != len(b.Args) {
			return false
		}
		mark := trail.Mark()
		for i := range a.Args {
			if !unify(a.Args[i], b.Args[i], trail, oc) {
				trail.Undo(mark)
				return false
			}
		}
		return true
	case *Cons:
		b, ok := t2.(*Cons)
		if !ok {
			return false
		}
		mark := trail.Mark()
		if unify(a.Head, b.Head, trail, oc) && unify(a.Tail, b.Tail, trail, oc) {
			return true
		}
		trail.Undo(mark)
		return false
	case *Port:
		b, ok := t2.(*Port)
		return ok && a == b
	case *Reflection:
		b, ok := t2.(*Reflection)
		return ok && a == b
	default:
		return false
	}
}

// CanUnify reports whether t1 and t2 unify, without leaving any trace
// on trail: it snapshots, attempts, and always undoes.
func CanUnify(t1, t2 Term, trail *Trail) bool {
	mark := trail.Mark()
	ok := Unify(t1, t2, trail)
	trail.Undo(mark)
	return ok
}

// CopyTerm returns a structural copy of t with every distinct
// variable cell reachable from t replaced by a fresh one allocated in
// env, preserving sharing of repeated variables within t (the
// "copy-term freshness" law of §8.2). Atoms, ints, floats, ports and
// reflections are shared, not duplicated.
func CopyTerm(t Term, env EnvId) Term {
	return copyTerm(t, env, make(map[*Var]*Var))
}

func copyTerm(t Term, env EnvId, seen map[*Var]*Var) Term {
	t = Deref(t)
	switch x := t.(type) {
	case *Var:
		if fresh, ok := seen[x]; ok {
			return fresh
		}
		fresh := NewVar(env, "")
		seen[x] = fresh
		return fresh
	case *Compound:
		args := make([]Term, len(x.Args))
		for i, a := range x.Args {
			args[i] = copyTerm(a, env, seen)
		}
		return &Compound{Functor: x.Functor, Args: args}
	case *Cons:
		return &Cons{Head: copyTerm(x.Head, env, seen), Tail: copyTerm(x.Tail, env, seen)}
	default:
		return t
	}
}

// CollectVars appends every distinct Var reachable from t to out,
// in first-occurrence order, and returns the extended slice.
func CollectVars(t Term, out []*Var, seen map[*Var]bool) []*Var {
	if seen == nil {
		seen = make(map[*Var]bool)
	}
	t = Deref(t)
	switch x := t.(type) {
	case *Var:
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	case *Compound:
		for _, a := range x.Args {
			out = CollectVars(a, out, seen)
		}
	case *Cons:
		out = CollectVars(x.Head, out, seen)
		out = CollectVars(x.Tail, out, seen)
	}
	return out
}

// Variant reports whether t1 and t2 are identical up to a consistent,
// bijective renaming of variables.
func Variant(t1, t2 Term) bool {
	return variant(t1, t2, make(map[*Var]*Var), make(map[*Var]*Var))
}

func variant(t1, t2 Term, fwd, back map[*Var]*Var) bool {
	t1 = Deref(t1)
	t2 = Deref(t2)

	v1, isVar1 := t1.(*Var)
	v2, isVar2 := t2.(*Var)
	if isVar1 != isVar2 {
		return false
	}
	if isVar1 {
		if mapped, ok := fwd[v1]; ok {
			return mapped == v2
		}
		if _, ok := back[v2]; ok {
			return false
		}
		fwd[v1] = v2
		back[v2] = v1
		return true
	}

	switch a := t1.(type) {
	case *Atom:
		b, ok := t2.(*Atom)
		return ok && a == b
	case Int:
		b, ok := t2.(Int)
		return ok && a == b
	case Float:
		b, ok := t2.(Float)
		return ok && a == b
	case *Compound:
		b, ok := t2.(*Compound)
		if !ok || a.Functor != b.Functor || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !variant(a.Args[i], b.Args[i], fwd, back) {
				return false
			}
		}
		return true
	case *Cons:
		b, ok := t2.(*Cons)
		return ok && variant(a.Head, b.Head, fwd, back) && variant(a.Tail, b.Tail, fwd, back)
	default:
		return t1 == t2
	}
}

// orderClass is the standard order of terms ranking (§4.3:
// "Var < Float < Int < Atom < Compound").
type orderClass int

const (
	classVar orderClass = iota
	classFloat
	classInt
	classAtom
	classCompound
)

func classOf(t Term) orderClass {
	switch t.(type) {
	case *Var:
		return classVar
	case Float:
		return classFloat
	case Int:
		return classInt
	case *Atom:
		return classAtom
	default:
		return classCompound
	}
}

// Compare implements the standard order of terms, returning -1, 0 or
// 1. Cons is treated as the 2-arity compound './2' for ordering
// purposes.
func Compare(t1, t2 Term) int {
	t1 = Deref(t1)
	t2 = Deref(t2)

	c1, c2 := classOf(t1), classOf(t2)
	if c1 != c2 {
		if c1 < c2 {
			return -1
		}
		return 1
	}

	switch c1 {
	case classVar:
		a, b := t1.(*Var), t2.(*Var)
		return cmpInt64(a.id, b.id)
	case classFloat:
		a, b := float64(t1.(Float)), float64(t2.(Float))
		return cmpFloat(a, b)
	case classInt:
		a, b := int64(t1.(Int)), int64(t2.(Int))
		return cmpInt64(a, b)
	case classAtom:
		a, b := t1.(*Atom), t2.(*Atom)
		return cmpString(a.name, b.name)
	default:
		return compareCompound(t1, t2)
	}
}

func compareCompound(t1, t2 Term) int {
	name1, arity1, args1 := structuralShape(t1)
	name2, arity2, args2 := structuralShape(t2)

	if arity1 != arity2 {
		return cmpInt64(int64(arity1), int64(arity2))
	}
	if name1 != name2 {
		return cmpString(name1, name2)
	}
	for i := range args1 {
		if c := Compare(args1[i], args2[i]); c != 0 {
			return c
		}
	}
	return 0
}

func structuralShape(t Term) (name string, arity int, args []Term) {
	switch x := t.(type) {
	case *Compound:
		return x.Functor.name, len(x.Args), x.Args
	case *Cons:
		return ".", 2, []Term{x.Head, x.Tail}
	default:
		return "", 0, nil
	}
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b || (math.IsNaN(a) && !math.IsNaN(b)):
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
