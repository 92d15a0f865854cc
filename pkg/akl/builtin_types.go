package akl

func init() {
	registerBuiltin("var", 1, typeTest(func(t Term) bool { _, ok := t.(*Var); return ok }))
	registerBuiltin("nonvar", 1, typeTest(func(t Term) bool { _, ok := t.(*Var); return !ok }))
	registerBuiltin("atom", 1, typeTest(func(t Term) bool { _, ok := t.(*Atom); return ok }))
	registerBuiltin("number", 1, typeTest(isNumber))
	registerBuiltin("integer", 1, typeTest(func(t Term) bool { _, ok := t.(Int); return ok }))
	registerBuiltin("float", 1, typeTest(func(t Term) bool { _, ok := t.(Float); return ok }))
	registerBuiltin("compound", 1, typeTest(isCompound))
	registerBuiltin("is_list", 1, typeTest(IsProperList))
	registerBuiltin("atomic", 1, typeTest(isAtomic))
	registerBuiltin("data", 1, typeTest(func(t Term) bool { _, ok := t.(*Var); return !ok }))
	registerBuiltin("length", 2, builtinLength)
}

func typeTest(pred func(Term) bool) BuiltinFunc {
	return func(w *Worker, b *AndBox, args []Term) BuiltinResult {
		return boolResult(pred(Deref(args[0])))
	}
}

func isNumber(t Term) bool {
	switch t.(type) {
	case Int, Float:
		return true
	default:
		return false
	}
}

func isCompound(t Term) bool {
	switch t.(type) {
	case *Compound, *Cons:
		return true
	default:
		return false
	}
}

func isAtomic(t Term) bool {
	switch t.(type) {
	case *Atom, Int, Float:
		return true
	default:
		return false
	}
}

// builtinLength implements length/2. For a proper list it unifies the
// second argument with the list's length; for a partial list with an
// unbound tail and an integer length N it extends the list with fresh
// variables to length N. It fails otherwise; lengths are not
// enumerated when both arguments are unbound.
func builtinLength(w *Worker, b *AndBox, args []Term) BuiltinResult {
	elems, tail := ListSlice(args[0])
	if tail == NIL {
		return boolResult(Unify(args[1], Int(len(elems)), w.trail))
	}
	if _, ok := tail.(*Var); !ok {
		return fail()
	}
	n, ok := Deref(args[1]).(Int)
	if !ok {
		return fail()
	}
	if int(n) < len(elems) {
		return fail()
	}
	fresh := make([]Term, int(n)-len(elems))
	for i := range fresh {
		fresh[i] = NewVar(b.env, "")
	}
	return boolResult(Unify(tail, MakeList(fresh...), w.trail))
}
