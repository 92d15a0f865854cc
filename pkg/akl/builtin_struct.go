package akl

func init() {
	registerBuiltin("functor", 3, builtinFunctor)
	registerBuiltin("arg", 3, builtinArg)
	registerBuiltin("=..", 2, builtinUniv)
	registerBuiltin("copy_term", 2, builtinCopyTerm)
}

// builtinFunctor implements functor/3 in both directions: decomposing
// a bound compound/atomic, or constructing one from a name and arity.
func builtinFunctor(w *Worker, b *AndBox, args []Term) BuiltinResult {
	t := Deref(args[0])
	if _, ok := t.(*Var); !ok {
		var name Term
		var arity int
		switch x := t.(type) {
		case *Compound:
			name, arity = x.Functor, len(x.Args)
		case *Cons:
			name, arity = Intern("."), 2
		default:
			name, arity = t, 0
		}
		return boolResult(Unify(args[1], name, w.trail) && Unify(args[2], Int(arity), w.trail))
	}

	nameT := Deref(args[1])
	arityT := Deref(args[2])
	arityInt, ok := arityT.(Int)
	if !ok {
		return fail()
	}
	if arityInt == 0 {
		return boolResult(Unify(args[0], nameT, w.trail))
	}
	atom, ok := nameT.(*Atom)
	if !ok {
		return fail()
	}
	fresh := make([]Term, int(arityInt))
	for i := range fresh {
		fresh[i] = NewVar(b.env, "")
	}
	return boolResult(Unify(args[0], NewCompound(atom, fresh...), w.trail))
}

// builtinArg implements arg/3: 1-based argument extraction.
func builtinArg(w *Worker, b *AndBox, args []Term) BuiltinResult {
	n, ok := Deref(args[0]).(Int)
	if !ok {
		return fail()
	}
	c, ok := Deref(args[1]).(*Compound)
	if !ok {
		return fail()
	}
	i := int(n)
	if i < 1 || i > len(c.Args) {
		return fail()
	}
	return boolResult(Unify(args[2], c.Args[i-1], w.trail))
}

// builtinUniv implements `=../2`: Term =.. [Functor|Args].
func builtinUniv(w *Worker, b *AndBox, args []Term) BuiltinResult {
	t := Deref(args[0])
	if _, ok := t.(*Var); !ok {
		var elems []Term
		switch x := t.(type) {
		case *Compound:
			elems = append([]Term{x.Functor}, x.Args...)
		case *Cons:
			elems = []Term{Intern("."), x.Head, x.Tail}
		default:
			elems = []Term{t}
		}
		return boolResult(Unify(args[1], MakeList(elems...), w.trail))
	}

	elems, tail := ListSlice(args[1])
	if tail != NIL || len(elems) == 0 {
		return fail()
	}
	if len(elems) == 1 {
		return boolResult(Unify(args[0], elems[0], w.trail))
	}
	atom, ok := Deref(elems[0]).(*Atom)
	if !ok {
		return fail()
	}
	return boolResult(Unify(args[0], NewCompound(atom, elems[1:]...), w.trail))
}

// builtinCopyTerm implements copy_term/2 via unify.go's CopyTerm,
// which gives every variable reachable from the source a fresh cell
// regardless of external/local status — copy_term/2 is not subject to
// the deferred-binding discipline since it never binds its source.
func builtinCopyTerm(w *Worker, b *AndBox, args []Term) BuiltinResult {
	return boolResult(Unify(args[1], CopyTerm(args[0], b.env), w.trail))
}
