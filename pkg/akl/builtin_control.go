package akl

// builtin_control.go covers term comparison and standard-order
// builtins. `true/0`, `fail/0`, `false/0` and `=/2` are dispatched
// directly in engine.go's expandGoal switch, since they are on the
// hot path of every goal expansion; everything else that is "control"
// in flavor but not on that hot path lives here.

func init() {
	registerBuiltin("\\=", 2, builtinNotUnifiable)
	registerBuiltin("==", 2, builtinEqual)
	registerBuiltin("\\==", 2, builtinNotEqual)
	registerBuiltin("@<", 2, builtinOrderLT)
	registerBuiltin("@>", 2, builtinOrderGT)
	registerBuiltin("@=<", 2, builtinOrderLE)
	registerBuiltin("@>=", 2, builtinOrderGE)
	registerBuiltin("compare", 3, builtinCompare3)
	registerBuiltin("dif", 2, builtinDif)
}

func builtinNotUnifiable(w *Worker, b *AndBox, args []Term) BuiltinResult {
	if CanUnify(args[0], args[1], w.trail) {
		return fail()
	}
	return success()
}

func builtinEqual(w *Worker, b *AndBox, args []Term) BuiltinResult {
	if Compare(args[0], args[1]) == 0 {
		return success()
	}
	return fail()
}

func builtinNotEqual(w *Worker, b *AndBox, args []Term) BuiltinResult {
	if Compare(args[0], args[1]) != 0 {
		return success()
	}
	return fail()
}

func builtinOrderLT(w *Worker, b *AndBox, args []Term) BuiltinResult {
	return boolResult(Compare(args[0], args[1]) < 0)
}

func builtinOrderGT(w *Worker, b *AndBox, args []Term) BuiltinResult {
	return boolResult(Compare(args[0], args[1]) > 0)
}

func builtinOrderLE(w *Worker, b *AndBox, args []Term) BuiltinResult {
	return boolResult(Compare(args[0], args[1]) <= 0)
}

func builtinOrderGE(w *Worker, b *AndBox, args []Term) BuiltinResult {
	return boolResult(Compare(args[0], args[1]) >= 0)
}

func builtinCompare3(w *Worker, b *AndBox, args []Term) BuiltinResult {
	var sym *Atom
	switch c := Compare(args[1], args[2]); {
	case c < 0:
		sym = Intern("<")
	case c > 0:
		sym = Intern(">")
	default:
		sym = Intern("=")
	}
	return boolResult(Unify(args[0], sym, w.trail))
}

// builtinDif implements dif/2 as a one-shot syntactic disequality
// check: it succeeds exactly when the two arguments do not unify
// right now, and never revisits that decision if either side is later
// bound. A full AKL suspends dif/2 until its operands are sufficiently
// instantiated to decide disequality for good; this engine declares
// the simpler one-shot reading instead.
func builtinDif(w *Worker, b *AndBox, args []Term) BuiltinResult {
	return boolResult(!CanUnify(args[0], args[1], w.trail))
}

func boolResult(ok bool) BuiltinResult {
	if ok {
		return success()
	}
	return fail()
}
